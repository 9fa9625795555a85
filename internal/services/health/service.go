package health

import (
	"context"
	"database/sql"
	"time"
)

const defaultPingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	DB      Pinger
	Timeout time.Duration
}

// Status is the readiness payload. Database is "memory" when no database is configured.
type Status struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
}

// NewService constructs a new health service. A nil db reports in-memory storage.
func NewService(db *sql.DB) *Service {
	svc := &Service{Timeout: defaultPingTimeout}
	if db != nil {
		svc.DB = db
	}
	return svc
}

// Live returns a simple liveness payload.
func (s *Service) Live() map[string]bool {
	return map[string]bool{"ok": true}
}

// Ready pings the database, if any.
func (s *Service) Ready(ctx context.Context) Status {
	if s == nil || s.DB == nil {
		return Status{OK: true, Database: "memory"}
	}
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		return Status{OK: false, Database: "down"}
	}
	return Status{OK: true, Database: "up"}
}
