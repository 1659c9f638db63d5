package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/Veraticus/trendscout/internal/common"
	"github.com/Veraticus/trendscout/internal/margin"
	"github.com/Veraticus/trendscout/internal/model"
	"github.com/Veraticus/trendscout/internal/service"
)

var productColumns = []string{
	"identity", "name", "category", "country",
	"retail_price", "supplier_price",
	"overall_score", "demand_score", "competition_score", "margin_score", "legal_risk_score",
	"reasoning", "description", "image_url", "supplier_url", "source", "run_id",
	"status", "notes", "created_at", "updated_at",
}

// SaveProducts inserts products. Records whose identity is already stored
// are left untouched, and records without an identity are skipped with a
// warning. It returns the number of newly inserted records.
func (s *SQLiteStorage) SaveProducts(ctx context.Context, products []model.ProductRecord) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	keep := make([]model.ProductRecord, 0, len(products))
	for i := range products {
		if !products[i].HasIdentity() {
			slog.Warn("Skipping product without identity", "index", i, "name", products[i].Name)
			continue
		}
		if err := validateProduct(&products[i]); err != nil {
			return 0, fmt.Errorf("product at index %d: %w", i, err)
		}
		keep = append(keep, products[i])
	}
	products = keep
	if len(products) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	now := time.Now().UTC()
	for _, p := range products {
		n, err := s.insertProductTx(ctx, tx, p, now)
		if err != nil {
			return 0, err
		}
		inserted += n
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit products: %w", err)
	}
	return inserted, nil
}

func (s *SQLiteStorage) insertProductTx(ctx context.Context, q queryable, p model.ProductRecord, now time.Time) (int, error) {
	createdAt := p.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	status := p.Status
	if status == "" {
		status = model.StatusPending
	}
	category := p.Category
	if category == "" {
		category = model.CategoryOther
	}
	country := p.Country
	if country == "" {
		country = model.DefaultCountry
	}

	query, args, err := psql.Insert("products").
		Columns(productColumns...).
		Values(
			model.NormalizeIdentity(p.Identity), p.Name, string(category), country,
			nullFloat(p.RetailPrice), nullFloat(p.SupplierPrice),
			p.Scores.Overall, p.Scores.Demand, p.Scores.Competition, p.Scores.Margin, p.Scores.LegalRisk,
			p.Reasoning, p.Description, p.ImageURL, p.SupplierURL, p.Source, p.RunID,
			string(status), p.Notes, createdAt, now,
		).
		Suffix("ON CONFLICT(identity) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build insert: %w", err)
	}

	result, err := q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert product %q: %w", p.Identity, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(n), nil
}

// ListProducts returns stored products matching filter in insertion order.
func (s *SQLiteStorage) ListProducts(ctx context.Context, filter service.ProductFilter) ([]model.ProductRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	builder := psql.Select(productColumns...).From("products").OrderBy("rowid")
	if filter.Status != nil {
		builder = builder.Where(sq.Eq{"status": string(*filter.Status)})
	}
	if filter.Country != "" {
		builder = builder.Where(sq.Eq{"country": filter.Country})
	}
	if filter.Category != "" {
		builder = builder.Where(sq.Eq{"category": filter.Category})
	}
	if filter.RunID != "" {
		builder = builder.Where(sq.Eq{"run_id": filter.RunID})
	}
	if filter.MinScore > 0 {
		builder = builder.Where(sq.GtOrEq{"overall_score": filter.MinScore})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		builder = builder.Offset(uint64(filter.Offset))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var products []model.ProductRecord
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return products, nil
}

// GetProduct returns one product by identity.
func (s *SQLiteStorage) GetProduct(ctx context.Context, identity string) (*model.ProductRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(identity, "identity"); err != nil {
		return nil, err
	}

	query, args, err := psql.Select(productColumns...).
		From("products").
		Where(sq.Eq{"identity": model.NormalizeIdentity(identity)}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	p, err := scanProduct(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %q: %w", identity, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SetStatus updates the review status and, when notes is non-nil, the notes
// of a product, recording the change in the review history.
func (s *SQLiteStorage) SetStatus(ctx context.Context, identity string, status model.ReviewStatus, notes *string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(identity, "identity"); err != nil {
		return err
	}
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", model.ErrInvalidStatus, status)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	id := model.NormalizeIdentity(identity)

	var previous, previousNotes string
	err = tx.QueryRowContext(ctx, `SELECT status, notes FROM products WHERE identity = ?`, id).Scan(&previous, &previousNotes)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("product %q: %w", identity, common.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to read product status: %w", err)
	}

	now := time.Now().UTC()
	update := psql.Update("products").
		Set("status", string(status)).
		Set("updated_at", now).
		Where(sq.Eq{"identity": id})
	finalNotes := previousNotes
	if notes != nil {
		update = update.Set("notes", *notes)
		finalNotes = *notes
	}

	query, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to update product status: %w", err)
	}

	query, args, err = psql.Insert("review_history").
		Columns("identity", "from_status", "to_status", "notes", "changed_at").
		Values(id, previous, string(status), finalNotes, now).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build history insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to record review history: %w", err)
	}

	return tx.Commit()
}

// SetNotes replaces the notes of a product without changing its status.
func (s *SQLiteStorage) SetNotes(ctx context.Context, identity, notes string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(identity, "identity"); err != nil {
		return err
	}

	query, args, err := psql.Update("products").
		Set("notes", notes).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"identity": model.NormalizeIdentity(identity)}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update notes: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("product %q: %w", identity, common.ErrNotFound)
	}
	return nil
}

// ReviewHistory returns the recorded review actions for a product, oldest first.
func (s *SQLiteStorage) ReviewHistory(ctx context.Context, identity string) ([]model.ReviewEvent, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query, args, err := psql.Select("identity", "from_status", "to_status", "notes", "changed_at").
		From("review_history").
		Where(sq.Eq{"identity": model.NormalizeIdentity(identity)}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query review history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var events []model.ReviewEvent
	for rows.Next() {
		var e model.ReviewEvent
		var from, to string
		if err := rows.Scan(&e.Identity, &from, &to, &e.Notes, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review history: %w", err)
		}
		e.FromStatus = model.ReviewStatus(from)
		e.ToStatus = model.ReviewStatus(to)
		events = append(events, e)
	}
	return events, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (model.ProductRecord, error) {
	var p model.ProductRecord
	var retail, supplier sql.NullFloat64
	var category, status string
	var updatedAt time.Time

	err := row.Scan(
		&p.Identity, &p.Name, &category, &p.Country,
		&retail, &supplier,
		&p.Scores.Overall, &p.Scores.Demand, &p.Scores.Competition, &p.Scores.Margin, &p.Scores.LegalRisk,
		&p.Reasoning, &p.Description, &p.ImageURL, &p.SupplierURL, &p.Source, &p.RunID,
		&status, &p.Notes, &p.CreatedAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return p, err
	}
	if err != nil {
		return p, fmt.Errorf("failed to scan product: %w", err)
	}

	p.Category = model.ParseCategory(category)
	p.Status = model.ReviewStatus(strings.ToLower(status))
	if retail.Valid {
		p.RetailPrice = model.Float(retail.Float64)
	}
	if supplier.Valid {
		p.SupplierPrice = model.Float(supplier.Float64)
	}
	// Margin is derived data and is recomputed from the stored prices.
	return margin.Apply(p), nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
