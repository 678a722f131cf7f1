// Package pgstore provides a PostgreSQL implementation of triage.Store.
package pgstore

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/aftercare/internal/triage"
)

var tracer = otel.Tracer("github.com/linnemanlabs/aftercare/internal/triage/pgstore")

//go:embed schema.sql
var schema string

// Store persists alerts in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema and returns a ready Store.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply alerts schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

const alertColumns = `id, patient_id, level, score, symptoms, created_at, status,
	contacted_by, resolved_by, status_changed_at`

// Get retrieves an alert by id.
func (s *Store) Get(ctx context.Context, id string) (*triage.Alert, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.Get", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = $1`
	a, err := s.scanAlertRow(s.pool.QueryRow(ctx, query, id))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	if a == nil {
		return nil, false, nil
	}
	return a, true, nil
}

// OpenByPatient retrieves the patient's unresolved alert, if any.
func (s *Store) OpenByPatient(ctx context.Context, patientID string) (*triage.Alert, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.OpenByPatient", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + alertColumns + ` FROM alerts
		WHERE patient_id = $1 AND status IN ('pending', 'contacted')`
	a, err := s.scanAlertRow(s.pool.QueryRow(ctx, query, patientID))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	if a == nil {
		return nil, false, nil
	}
	return a, true, nil
}

// Put inserts or updates an alert. The partial unique index on
// (patient_id) WHERE open backs the one-open-alert invariant; the service
// serializes per patient so conflicts indicate a bug, not contention.
func (s *Store) Put(ctx context.Context, a *triage.Alert) error {
	ctx, span := tracer.Start(ctx, "pgstore.Put", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPSERT"),
	))
	defer span.End()

	symptomsJSON, err := json.Marshal(a.Symptoms)
	if err != nil {
		return fmt.Errorf("marshal symptoms: %w", err)
	}

	query := `INSERT INTO alerts (
		id, patient_id, level, score, symptoms, created_at, status,
		contacted_by, resolved_by, status_changed_at
	) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	ON CONFLICT (id) DO UPDATE SET
		level             = EXCLUDED.level,
		score             = EXCLUDED.score,
		symptoms          = EXCLUDED.symptoms,
		status            = EXCLUDED.status,
		contacted_by      = EXCLUDED.contacted_by,
		resolved_by       = EXCLUDED.resolved_by,
		status_changed_at = EXCLUDED.status_changed_at`

	_, err = s.pool.Exec(ctx, query,
		a.ID, a.PatientID, string(a.Level), a.Score, symptomsJSON, a.CreatedAt,
		string(a.Status), a.ContactedBy, a.ResolvedBy, a.StatusChangedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("upsert alert %s: %w", a.ID, err)
	}
	return nil
}

// ListPending returns pending alerts oldest first, optionally filtered by
// level.
func (s *Store) ListPending(ctx context.Context, level triage.Level) ([]*triage.Alert, error) {
	ctx, span := tracer.Start(ctx, "pgstore.ListPending", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	query := `SELECT ` + alertColumns + ` FROM alerts WHERE status = 'pending'`
	args := []any{}
	if level != "" {
		query += ` AND level = $1`
		args = append(args, string(level))
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query pending alerts: %w", err)
	}
	defer rows.Close()

	var out []*triage.Alert
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending alerts: %w", err)
	}
	return out, nil
}

// PendingCounts returns pending alert counts per level.
func (s *Store) PendingCounts(ctx context.Context) (map[triage.Level]int, error) {
	ctx, span := tracer.Start(ctx, "pgstore.PendingCounts", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	rows, err := s.pool.Query(ctx,
		`SELECT level, COUNT(*) FROM alerts WHERE status = 'pending' GROUP BY level`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("count pending alerts: %w", err)
	}
	defer rows.Close()

	counts := make(map[triage.Level]int)
	for rows.Next() {
		var level string
		var n int
		if err := rows.Scan(&level, &n); err != nil {
			return nil, fmt.Errorf("scan pending count: %w", err)
		}
		counts[triage.Level(level)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate pending counts: %w", err)
	}
	return counts, nil
}

// scanAlertRow scans a single row into an Alert. Returns (nil, nil) when
// no row is found.
func (s *Store) scanAlertRow(row pgx.Row) (*triage.Alert, error) {
	a, err := scanAlert(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func scanAlert(row pgx.Row) (*triage.Alert, error) {
	var (
		a            triage.Alert
		level        string
		status       string
		symptomsJSON []byte
	)

	err := row.Scan(
		&a.ID, &a.PatientID, &level, &a.Score, &symptomsJSON, &a.CreatedAt,
		&status, &a.ContactedBy, &a.ResolvedBy, &a.StatusChangedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan alert: %w", err)
	}

	a.Level = triage.Level(level)
	a.Status = triage.Status(status)

	if err := json.Unmarshal(symptomsJSON, &a.Symptoms); err != nil {
		return nil, fmt.Errorf("unmarshal symptoms: %w", err)
	}
	return &a, nil
}
