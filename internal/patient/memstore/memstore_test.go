package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/linnemanlabs/aftercare/internal/care"
	"github.com/linnemanlabs/aftercare/internal/patient"
)

func TestStore_PutAndGet(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	if err := s.Put(ctx, &patient.Patient{ID: "P001", PostOpDay: 3}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := s.Get(ctx, "P001")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected patient to be found")
	}
	if got.PostOpDay != 3 {
		t.Errorf("PostOpDay = %d, want 3", got.PostOpDay)
	}
	if got.Status != patient.StatusNormal {
		t.Errorf("Status = %q, want %q", got.Status, patient.StatusNormal)
	}
}

func TestStore_GetMissing(t *testing.T) {
	t.Parallel()

	s := New()
	_, ok, err := s.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Fatal("expected ok=false")
	}
}

func TestStore_SetStatus(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	if err := s.Put(ctx, &patient.Patient{ID: "P001"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	if err := s.SetStatus(ctx, "P001", patient.StatusAlert); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	got, _, _ := s.Get(ctx, "P001")
	if got.Status != patient.StatusAlert {
		t.Errorf("Status = %q, want %q", got.Status, patient.StatusAlert)
	}

	if err := s.SetStatus(ctx, "P404", patient.StatusAlert); !errors.Is(err, care.ErrNotFound) {
		t.Errorf("SetStatus unknown = %v, want ErrNotFound", err)
	}
}

func TestStore_ListOrdered(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	for _, id := range []string{"P003", "P001", "P002"} {
		if err := s.Put(ctx, &patient.Patient{ID: id}); err != nil {
			t.Fatalf("Put %s: %v", id, err)
		}
	}

	got, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].ID != "P001" || got[2].ID != "P003" {
		t.Errorf("order = %q..%q, want P001..P003", got[0].ID, got[2].ID)
	}
}

// Returned copies must not alias store state.
func TestStore_GetReturnsCopy(t *testing.T) {
	t.Parallel()

	s := New()
	ctx := context.Background()
	if err := s.Put(ctx, &patient.Patient{ID: "P001", PostOpDay: 1}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, _, _ := s.Get(ctx, "P001")
	got.PostOpDay = 99

	again, _, _ := s.Get(ctx, "P001")
	if again.PostOpDay != 1 {
		t.Errorf("PostOpDay = %d, want 1 (store mutated through copy)", again.PostOpDay)
	}
}
