// Package pgstore provides a PostgreSQL implementation of
// dispatch.Ledger.
package pgstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/aftercare/internal/dispatch"
)

var tracer = otel.Tracer("github.com/linnemanlabs/aftercare/internal/dispatch/pgstore")

//go:embed schema.sql
var schema string

// Ledger persists push records in PostgreSQL.
type Ledger struct {
	pool *pgxpool.Pool
}

// New applies the schema and returns a ready Ledger.
func New(ctx context.Context, pool *pgxpool.Pool) (*Ledger, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply pushes schema: %w", err)
	}
	return &Ledger{pool: pool}, nil
}

const pushColumns = `id, patient_id, material_id, push_type, pushed_by, pushed_at, status`

// Append inserts a new push record.
func (l *Ledger) Append(ctx context.Context, p *dispatch.PushRecord) error {
	ctx, span := tracer.Start(ctx, "pgstore.Append", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "INSERT"),
	))
	defer span.End()

	_, err := l.pool.Exec(ctx,
		`INSERT INTO pushes (`+pushColumns+`) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.PatientID, p.MaterialID, string(p.PushType), p.PushedBy, p.PushedAt, string(p.Status),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("insert push %s: %w", p.ID, err)
	}
	return nil
}

// Get retrieves a push record by id.
func (l *Ledger) Get(ctx context.Context, id string) (*dispatch.PushRecord, bool, error) {
	ctx, span := tracer.Start(ctx, "pgstore.Get", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	row := l.pool.QueryRow(ctx, `SELECT `+pushColumns+` FROM pushes WHERE id = $1`, id)
	p, err := scanPush(row)
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

// Put updates an existing record's status fields.
func (l *Ledger) Put(ctx context.Context, p *dispatch.PushRecord) error {
	ctx, span := tracer.Start(ctx, "pgstore.Put", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "UPDATE"),
	))
	defer span.End()

	tag, err := l.pool.Exec(ctx,
		`UPDATE pushes SET status = $2 WHERE id = $1`,
		p.ID, string(p.Status),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("update push %s: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update push %s: no such row", p.ID)
	}
	return nil
}

// History returns the patient's pushes since the cutoff, newest first.
func (l *Ledger) History(ctx context.Context, patientID string, since time.Time) ([]*dispatch.PushRecord, error) {
	ctx, span := tracer.Start(ctx, "pgstore.History", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	rows, err := l.pool.Query(ctx,
		`SELECT `+pushColumns+` FROM pushes
		 WHERE patient_id = $1 AND pushed_at >= $2
		 ORDER BY pushed_at DESC, id DESC`,
		patientID, since,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("query push history: %w", err)
	}
	defer rows.Close()

	var out []*dispatch.PushRecord
	for rows.Next() {
		p, err := scanPush(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate push history: %w", err)
	}
	return out, nil
}

// CountSince returns total and read push counts since the cutoff.
func (l *Ledger) CountSince(ctx context.Context, since time.Time) (total, read int, err error) {
	ctx, span := tracer.Start(ctx, "pgstore.CountSince", trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", "SELECT"),
	))
	defer span.End()

	err = l.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'read')
		 FROM pushes WHERE pushed_at >= $1`,
		since,
	).Scan(&total, &read)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, 0, fmt.Errorf("count pushes: %w", err)
	}
	return total, read, nil
}

func scanPush(row pgx.Row) (*dispatch.PushRecord, error) {
	var (
		p        dispatch.PushRecord
		pushType string
		status   string
	)
	err := row.Scan(&p.ID, &p.PatientID, &p.MaterialID, &pushType, &p.PushedBy, &p.PushedAt, &status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan push: %w", err)
	}
	p.PushType = dispatch.PushType(pushType)
	p.Status = dispatch.PushStatus(status)
	return &p, nil
}
