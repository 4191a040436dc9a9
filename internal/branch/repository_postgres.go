package branch

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, b *Branch) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}

	return r.db.QueryRow(ctx, `
		INSERT INTO branches (id, name, city, address, phone)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, b.ID, b.Name, b.City, b.Address, b.Phone).Scan(&b.CreatedAt)
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Branch, error) {
	var b Branch
	err := r.db.QueryRow(ctx, `
		SELECT id, name, city, address, phone, created_at
		FROM branches WHERE id = $1
	`, id).Scan(&b.ID, &b.Name, &b.City, &b.Address, &b.Phone, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*Branch, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, name, city, address, phone, created_at
		FROM branches
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var branches []*Branch
	for rows.Next() {
		var b Branch
		if err := rows.Scan(&b.ID, &b.Name, &b.City, &b.Address, &b.Phone, &b.CreatedAt); err != nil {
			return nil, err
		}
		branches = append(branches, &b)
	}
	return branches, rows.Err()
}

func (r *PostgresRepository) Exists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.QueryRow(ctx, `SELECT 1 FROM branches WHERE id = $1 LIMIT 1`, id).Scan(&one)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
