package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rogerio-castellano/catalog-service/internal/models"
)

const (
	queryTimeout = 3 * time.Second

	uniqueViolation = "23505"

	productColumns = `id, name, slug, description, price, is_active, created_at, updated_at, deleted_at`
)

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.IsActive, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt)
	return p, err
}

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicatedValueUnique
	}
	return err
}

func (r *PostgresProductRepository) FindByField(ctx context.Context, field ProductField, value string) (models.Product, error) {
	if !field.Valid() {
		return models.Product{}, fmt.Errorf("unsupported lookup field %q", field)
	}
	query := fmt.Sprintf(`SELECT %s FROM products WHERE %s = $1 AND deleted_at IS NULL`, productColumns, field)
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, value))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	return p, err
}

func (r *PostgresProductRepository) FindAndCount(ctx context.Context, q ProductQuery) ([]models.Product, int, error) {
	conditions, args, argIdx := filterConditions(q)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var totalCount int
	countQuery := "SELECT COUNT(*) FROM products WHERE deleted_at IS NULL" + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := "SELECT " + productColumns + " FROM products WHERE deleted_at IS NULL"
	query += conditions
	query += " ORDER BY created_at DESC, id DESC"

	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, q.Limit)
		argIdx++
	}
	if q.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, q.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return products, totalCount, nil
}

func filterConditions(q ProductQuery) (string, []any, int) {
	query := ""
	argIdx := 1
	args := []any{}

	if q.IsActive != nil {
		query += fmt.Sprintf(" AND is_active = $%d", argIdx)
		args = append(args, *q.IsActive)
		argIdx++
	}
	if q.MinPrice != nil {
		query += fmt.Sprintf(" AND price >= $%d", argIdx)
		args = append(args, *q.MinPrice)
		argIdx++
	}
	if q.MaxPrice != nil {
		query += fmt.Sprintf(" AND price <= $%d", argIdx)
		args = append(args, *q.MaxPrice)
		argIdx++
	}

	return query, args, argIdx
}

func (r *PostgresProductRepository) Insert(ctx context.Context, p models.Product) (models.Product, error) {
	query := `INSERT INTO products (name, slug, description, price, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + productColumns
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	created, err := scanProduct(r.db.QueryRowContext(ctx, query, p.Name, p.Slug, p.Description, p.Price, p.IsActive))
	if err != nil {
		return models.Product{}, translatePgError(err)
	}
	return created, nil
}

func (r *PostgresProductRepository) Persist(ctx context.Context, p models.Product) (models.Product, error) {
	query := `UPDATE products
		SET name = $1, slug = $2, description = $3, price = $4, is_active = $5, updated_at = now()
		WHERE id = $6 AND deleted_at IS NULL
		RETURNING ` + productColumns
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	updated, err := scanProduct(r.db.QueryRowContext(ctx, query, p.Name, p.Slug, p.Description, p.Price, p.IsActive, p.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, translatePgError(err)
	}
	return updated, nil
}

func (r *PostgresProductRepository) SoftDelete(ctx context.Context, p models.Product) error {
	query := `UPDATE products SET deleted_at = now() WHERE id = $1 AND deleted_at IS NULL`
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, p.ID)
	if err != nil {
		return err
	}
	rowsAffected, _ := res.RowsAffected()
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
