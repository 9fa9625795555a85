package protocols

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"wellness-backend/internal/protocols/consolidation"
)

func TestPGRepoCreateEncodesItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}
	rec := BatchRecord{
		ID:         "5f0c0c8e-0000-4000-8000-000000000001",
		UserID:     "user-1",
		SourceType: "hormone",
		CreatedAt:  time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Items: consolidation.Items{
			Foundation: []consolidation.ItemInput{{Name: "Zinc", Category: consolidation.TierFoundation}},
		},
	}

	mock.ExpectExec("INSERT INTO recommendation_batches").
		WithArgs(
			rec.ID,
			rec.UserID,
			rec.SourceType,
			nil, // source_assessment_id
			sqlmock.AnyArg(),
			rec.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByUserDecodesRows(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "user_id", "source_type", "source_assessment_id", "items", "created_at"}).
		AddRow("b1", "user-1", "hormone", "a1", []byte(`{"immediate":[{"name":"Walk","description":"","category":"immediate"}]}`), created).
		AddRow("b2", "user-1", "lis", nil, []byte(`{}`), created.Add(time.Hour))
	mock.ExpectQuery("SELECT id, user_id, source_type").
		WithArgs("user-1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(got))
	}
	if got[0].SourceAssessmentID != "a1" || len(got[0].Items.Immediate) != 1 {
		t.Fatalf("unexpected first batch: %+v", got[0])
	}
	if got[1].SourceAssessmentID != "" {
		t.Fatalf("expected empty assessment id for NULL, got %q", got[1].SourceAssessmentID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByUserBreaksTimestampTiesBySequence(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "user_id", "source_type", "source_assessment_id", "items", "created_at"}).
		AddRow("b1", "user-1", "hormone", "a1", []byte(`{}`), created).
		AddRow("b2", "user-1", "lis", "l1", []byte(`{}`), created)
	mock.ExpectQuery(`ORDER BY created_at ASC, seq ASC`).
		WithArgs("user-1").
		WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	got, err := repo.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(got) != 2 || got[0].ID != "b1" || got[1].ID != "b2" {
		t.Fatalf("expected rows in sequence order, got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListByUserRejectsMalformedItems(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	rows := sqlmock.NewRows([]string{"id", "user_id", "source_type", "source_assessment_id", "items", "created_at"}).
		AddRow("b1", "user-1", "hormone", "a1", []byte(`{"someday":[]}`), time.Now())
	mock.ExpectQuery("SELECT id, user_id, source_type").WithArgs("user-1").WillReturnRows(rows)

	repo := &PGRepo{DB: db}
	if _, err := repo.ListByUser(context.Background(), "user-1"); err == nil {
		t.Fatalf("expected malformed items error")
	}
}
