package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates resource not found.
var ErrNotFound = errors.New("report: not found")

// Repository provides PostgreSQL backed persistence for customers, snapshots
// and report records.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListActive returns all active customers in provisioning order.
func (r *Repository) ListActive(ctx context.Context) ([]Customer, error) {
	query := `
		SELECT id, name, company_name, email, accounting_system, accounting_credentials, active
		FROM customers
		WHERE active
		ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// Get retrieves a single customer by ID.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Customer, error) {
	query := `
		SELECT id, name, company_name, email, accounting_system, accounting_credentials, active
		FROM customers
		WHERE id = $1`

	c, err := scanCustomer(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCustomer(row pgx.Row) (Customer, error) {
	var c Customer
	var credentials []byte
	if err := row.Scan(&c.ID, &c.Name, &c.CompanyName, &c.Email, &c.AccountingSystem, &credentials, &c.Active); err != nil {
		return Customer{}, err
	}
	if len(credentials) > 0 {
		if err := json.Unmarshal(credentials, &c.Credentials); err != nil {
			return Customer{}, fmt.Errorf("report: decode credentials: %w", err)
		}
	}
	return c, nil
}

// SaveSnapshot appends an immutable snapshot row and returns its ID. No
// uniqueness is enforced per (customer, period); see MostRecentSnapshot.
func (r *Repository) SaveSnapshot(ctx context.Context, snapshot *Snapshot) (uuid.UUID, error) {
	metrics, err := json.Marshal(snapshot.Metrics)
	if err != nil {
		return uuid.Nil, fmt.Errorf("report: encode metrics: %w", err)
	}

	query := `
		INSERT INTO weekly_snapshots (customer_id, week_start, week_end, metrics, created_at)
		VALUES ($1, $2, $3, $4::jsonb, NOW())
		RETURNING id, created_at`

	err = r.pool.QueryRow(ctx, query,
		snapshot.CustomerID,
		snapshot.Period.Start,
		snapshot.Period.End,
		string(metrics),
	).Scan(&snapshot.ID, &snapshot.CreatedAt)
	if err != nil {
		return uuid.Nil, err
	}
	return snapshot.ID, nil
}

// MostRecentSnapshot returns the latest snapshot for a customer, ordered by
// period end and then insertion time. When a period was run twice the newest
// row wins, matching the append-only write path.
func (r *Repository) MostRecentSnapshot(ctx context.Context, customerID uuid.UUID) (*Snapshot, error) {
	query := `
		SELECT id, customer_id, week_start, week_end, metrics, created_at
		FROM weekly_snapshots
		WHERE customer_id = $1
		ORDER BY week_end DESC, created_at DESC
		LIMIT 1`

	var s Snapshot
	var metrics []byte
	err := r.pool.QueryRow(ctx, query, customerID).Scan(
		&s.ID, &s.CustomerID, &s.Period.Start, &s.Period.End, &metrics, &s.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(metrics, &s.Metrics); err != nil {
		return nil, fmt.Errorf("report: decode metrics: %w", err)
	}
	return &s, nil
}

// SaveReport appends the audit-trail record for a run and returns its ID.
func (r *Repository) SaveReport(ctx context.Context, record *Record) (uuid.UUID, error) {
	query := `
		INSERT INTO reports (customer_id, snapshot_id, narrative, sent, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query,
		record.CustomerID,
		record.SnapshotID,
		record.Narrative,
		record.Sent,
	).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return uuid.Nil, err
	}
	return record.ID, nil
}
