package protocols

import (
	"time"

	"wellness-backend/internal/protocols/consolidation"
)

// BatchRecord is a stored recommendation batch owned by a user.
type BatchRecord struct {
	ID                 string              `json:"id"`
	UserID             string              `json:"userId"`
	SourceType         string              `json:"sourceType"`
	SourceAssessmentID string              `json:"sourceAssessmentId,omitempty"`
	CreatedAt          time.Time           `json:"createdAt"`
	Items              consolidation.Items `json:"items"`
}

// Batch converts the record into consolidator input.
func (r BatchRecord) Batch() consolidation.Batch {
	return consolidation.Batch{
		ID:                 r.ID,
		SourceType:         r.SourceType,
		SourceAssessmentID: r.SourceAssessmentID,
		CreatedAt:          r.CreatedAt,
		Items:              r.Items,
	}
}

// NewBatch is the caller-supplied part of a batch; ID and missing timestamps are assigned on record.
type NewBatch struct {
	SourceType         string              `json:"sourceType"`
	SourceAssessmentID string              `json:"sourceAssessmentId"`
	CreatedAt          *time.Time          `json:"createdAt"`
	Items              consolidation.Items `json:"items"`
}
