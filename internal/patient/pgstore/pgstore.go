// Package pgstore provides a PostgreSQL implementation of patient.Store.
package pgstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/aftercare/internal/care"
	"github.com/linnemanlabs/aftercare/internal/patient"
)

var tracer = otel.Tracer("github.com/linnemanlabs/aftercare/internal/patient/pgstore")

//go:embed schema.sql
var schema string

// Store persists patient records in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema and returns a ready Store.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply patients schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

const patientColumns = `id, name, surgery_type, treatment_plan, post_op_day, status`

// Get retrieves a patient by id.
func (s *Store) Get(ctx context.Context, id string) (*patient.Patient, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.Get", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	row := s.pool.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id)
	p, err := scanPatient(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, false, err
	}
	return p, true, nil
}

// List returns all patients ordered by id.
func (s *Store) List(ctx context.Context) ([]*patient.Patient, error) {
	ctx, span := tracer.Start(ctx, "pgstore.List", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	rows, err := s.pool.Query(ctx, `SELECT `+patientColumns+` FROM patients ORDER BY id`)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query patients: %w", err)
	}
	defer rows.Close()

	var out []*patient.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate patients: %w", err)
	}
	return out, nil
}

// Put inserts or updates a patient record.
func (s *Store) Put(ctx context.Context, p *patient.Patient) error {
	ctx, span := tracer.Start(ctx, "pgstore.Put", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPSERT"),
	))
	defer span.End()

	status := p.Status
	if status == "" {
		status = patient.StatusNormal
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO patients (`+patientColumns+`) VALUES ($1,$2,$3,$4,$5,$6)
		 ON CONFLICT (id) DO UPDATE SET
			name           = EXCLUDED.name,
			surgery_type   = EXCLUDED.surgery_type,
			treatment_plan = EXCLUDED.treatment_plan,
			post_op_day    = EXCLUDED.post_op_day,
			status         = EXCLUDED.status`,
		p.ID, p.Name, p.SurgeryType, p.TreatmentPlan, p.PostOpDay, string(status),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("upsert patient %s: %w", p.ID, err)
	}
	return nil
}

// SetStatus writes back the derived status.
func (s *Store) SetStatus(ctx context.Context, id string, status patient.Status) error {
	ctx, span := tracer.Start(ctx, "pgstore.SetStatus", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPDATE"),
	))
	defer span.End()

	tag, err := s.pool.Exec(ctx,
		`UPDATE patients SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("update patient %s status: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return care.NotFoundf("patient %s", id)
	}
	return nil
}

func scanPatient(row pgx.Row) (*patient.Patient, error) {
	var (
		p      patient.Patient
		status string
	)
	err := row.Scan(&p.ID, &p.Name, &p.SurgeryType, &p.TreatmentPlan, &p.PostOpDay, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan patient: %w", err)
	}
	p.Status = patient.Status(status)
	return &p, nil
}
