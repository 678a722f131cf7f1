package pgstore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/linnemanlabs/aftercare/internal/dispatch"
	"github.com/linnemanlabs/aftercare/internal/dispatch/pgstore"
	"github.com/linnemanlabs/aftercare/internal/postgres"
)

func openLedger(t *testing.T) *pgstore.Ledger {
	t.Helper()
	dsn := os.Getenv("AFTERCARE_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("AFTERCARE_TEST_DATABASE_URL not set, skipping integration test")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		t.Fatalf("postgres.NewPool: %v", err)
	}
	t.Cleanup(pool.Close)
	l, err := pgstore.New(ctx, pool)
	if err != nil {
		t.Fatalf("pgstore.New: %v", err)
	}
	return l
}

func TestAppendAndGet(t *testing.T) {
	l := openLedger(t)
	ctx := context.Background()

	now := time.Now().Truncate(time.Microsecond).UTC()
	rec := &dispatch.PushRecord{
		ID:         "test-push-001",
		PatientID:  "test-pg-p1",
		MaterialID: "BREATHING_EXERCISE",
		PushType:   dispatch.PushAuto,
		PushedBy:   dispatch.SystemOperator,
		PushedAt:   now,
		Status:     dispatch.PushSent,
	}
	if err := l.Append(ctx, rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, ok, err := l.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get returned ok=false, want true")
	}
	if got.MaterialID != rec.MaterialID {
		t.Errorf("MaterialID = %q, want %q", got.MaterialID, rec.MaterialID)
	}
	if got.PushType != dispatch.PushAuto {
		t.Errorf("PushType = %q, want %q", got.PushType, dispatch.PushAuto)
	}
	if got.PushedBy != dispatch.SystemOperator {
		t.Errorf("PushedBy = %q, want %q", got.PushedBy, dispatch.SystemOperator)
	}
}

func TestGetMissing(t *testing.T) {
	l := openLedger(t)

	_, ok, err := l.Get(context.Background(), "nonexistent-id")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("Get returned ok=true for nonexistent ID")
	}
}

func TestPutStatus(t *testing.T) {
	l := openLedger(t)
	ctx := context.Background()

	now := time.Now().Truncate(time.Microsecond).UTC()
	rec := &dispatch.PushRecord{
		ID:         "test-put-status-001",
		PatientID:  "test-pg-p2",
		MaterialID: "NUTRITION",
		PushType:   dispatch.PushManual,
		PushedBy:   "nurse-kim",
		PushedAt:   now,
		Status:     dispatch.PushSent,
	}
	if err := l.Append(ctx, rec); err != nil {
		t.Fatalf("Append: %v", err)
	}

	rec.Status = dispatch.PushRead
	if err := l.Put(ctx, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, _, err := l.Get(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != dispatch.PushRead {
		t.Errorf("Status = %q, want %q", got.Status, dispatch.PushRead)
	}
}

func TestPutMissingRow(t *testing.T) {
	l := openLedger(t)

	err := l.Put(context.Background(), &dispatch.PushRecord{ID: "nonexistent-id", Status: dispatch.PushRead})
	if err == nil {
		t.Fatal("expected error updating nonexistent push")
	}
}

func TestHistory(t *testing.T) {
	l := openLedger(t)
	ctx := context.Background()

	now := time.Now().Truncate(time.Microsecond).UTC()
	patientID := "test-pg-history"
	records := []*dispatch.PushRecord{
		{ID: "test-hist-old", PatientID: patientID, MaterialID: "WOUND_CARE", PushType: dispatch.PushAuto, PushedBy: "system", PushedAt: now.Add(-48 * time.Hour), Status: dispatch.PushSent},
		{ID: "test-hist-mid", PatientID: patientID, MaterialID: "HOME_CARE", PushType: dispatch.PushAuto, PushedBy: "system", PushedAt: now.Add(-12 * time.Hour), Status: dispatch.PushSent},
		{ID: "test-hist-new", PatientID: patientID, MaterialID: "FOLLOW_UP", PushType: dispatch.PushManual, PushedBy: "nurse-kim", PushedAt: now.Add(-time.Hour), Status: dispatch.PushSent},
	}
	for _, rec := range records {
		if err := l.Append(ctx, rec); err != nil {
			t.Fatalf("Append %s: %v", rec.ID, err)
		}
	}

	got, err := l.History(ctx, patientID, now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("history = %d records, want 2", len(got))
	}
	if got[0].ID != "test-hist-new" || got[1].ID != "test-hist-mid" {
		t.Errorf("history order = [%s %s], want [test-hist-new test-hist-mid]", got[0].ID, got[1].ID)
	}
}
