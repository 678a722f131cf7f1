// Package pgstore provides a PostgreSQL implementation of
// intervention.Store.
package pgstore

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/aftercare/internal/intervention"
)

var tracer = otel.Tracer("github.com/linnemanlabs/aftercare/internal/intervention/pgstore")

//go:embed schema.sql
var schema string

// Store persists intervention records in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema and returns a ready Store.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply interventions schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Append inserts a new intervention record.
func (s *Store) Append(ctx context.Context, r *intervention.Record) error {
	ctx, span := tracer.Start(ctx, "pgstore.Append", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "INSERT"),
	))
	defer span.End()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO interventions
		 (id, patient_id, operator, method, duration_seconds, content, referral, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		r.ID, r.PatientID, r.Operator, r.Method, int64(r.Duration/time.Second), r.Content, r.Referral, r.CreatedAt,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("insert intervention %s: %w", r.ID, err)
	}
	return nil
}

// ListByPatient returns the patient's records newest first.
func (s *Store) ListByPatient(ctx context.Context, patientID string) ([]*intervention.Record, error) {
	ctx, span := tracer.Start(ctx, "pgstore.ListByPatient", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	rows, err := s.pool.Query(ctx,
		`SELECT id, patient_id, operator, method, duration_seconds, content, referral, created_at
		 FROM interventions
		 WHERE patient_id = $1
		 ORDER BY created_at DESC, id DESC`,
		patientID,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query interventions: %w", err)
	}
	defer rows.Close()

	var out []*intervention.Record
	for rows.Next() {
		var (
			r    intervention.Record
			secs int64
		)
		if err := rows.Scan(&r.ID, &r.PatientID, &r.Operator, &r.Method, &secs, &r.Content, &r.Referral, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan intervention: %w", err)
		}
		r.Duration = time.Duration(secs) * time.Second
		out = append(out, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interventions: %w", err)
	}
	return out, nil
}
