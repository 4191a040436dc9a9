package discount

import (
	"context"
	"encoding/json"

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

// variantPayload is the JSONB column holding the variant-specific part
// of a discount.
type variantPayload struct {
	Percentage *PercentageDeal  `json:"percentageDeal,omitempty"`
	Bank       *BankDeal        `json:"bankDiscount,omitempty"`
	FixedPrice *FixedPriceDeal  `json:"fixedPriceDeal,omitempty"`
	Loyalty    *LoyaltyDiscount `json:"loyalty,omitempty"`
}

func encodePayload(d *Discount) ([]byte, error) {
	return json.Marshal(variantPayload{
		Percentage: d.Percentage,
		Bank:       d.Bank,
		FixedPrice: d.FixedPrice,
		Loyalty:    d.Loyalty,
	})
}

func decodePayload(d *Discount, raw []byte) error {
	var p variantPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return errors.Wrap(err, "decode discount payload")
	}
	d.Percentage = p.Percentage
	d.Bank = p.Bank
	d.FixedPrice = p.FixedPrice
	d.Loyalty = p.Loyalty
	return nil
}

// --------------------------------------------------
// Create (single-active-loyalty enforced in one tx)
// --------------------------------------------------

func (r *PostgresRepository) Create(ctx context.Context, d *Discount) error {
	payload, err := encodePayload(d)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := demoteLoyalty(ctx, tx, d); err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO discounts (
			id, name, description, type, status,
			all_branches, branch_ids,
			start_date, end_date, start_time, end_time, days_of_week,
			image_url, payload
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
		RETURNING created_at, updated_at
	`,
		d.ID, d.Name, d.Description, d.Type, d.Status,
		d.AllBranches, d.BranchIDs,
		d.StartDate, d.EndDate, d.StartTime, d.EndTime, d.DaysOfWeek,
		d.ImageURL, payload,
	).Scan(&d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// --------------------------------------------------
// Update
// --------------------------------------------------

func (r *PostgresRepository) Update(ctx context.Context, d *Discount) error {
	payload, err := encodePayload(d)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := demoteLoyalty(ctx, tx, d); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE discounts SET
			name = $2,
			description = $3,
			type = $4,
			status = $5,
			all_branches = $6,
			branch_ids = $7,
			start_date = $8,
			end_date = $9,
			start_time = $10,
			end_time = $11,
			days_of_week = $12,
			image_url = $13,
			payload = $14,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $1
	`,
		d.ID, d.Name, d.Description, d.Type, d.Status,
		d.AllBranches, d.BranchIDs,
		d.StartDate, d.EndDate, d.StartTime, d.EndTime, d.DaysOfWeek,
		d.ImageURL, payload,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return tx.Commit(ctx)
}

// demoteLoyalty deactivates every other active loyalty discount when an
// active loyalty discount is being saved.
func demoteLoyalty(ctx context.Context, tx pgx.Tx, d *Discount) error {
	if d.Type != TypeLoyalty || d.Status != StatusActive {
		return nil
	}
	_, err := tx.Exec(ctx, `
		UPDATE discounts
		SET status = 'inactive', updated_at = CURRENT_TIMESTAMP
		WHERE type = 'loyalty' AND status = 'active' AND id <> $1
	`, d.ID)
	return err
}

// --------------------------------------------------
// Reads / delete
// --------------------------------------------------

const discountColumns = `
	id, name, description, type, status,
	all_branches, branch_ids,
	start_date, end_date, start_time, end_time, days_of_week,
	image_url, payload, created_at, updated_at
`

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Discount, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+discountColumns+`
		FROM discounts WHERE id = $1
	`, id)

	d, err := scanDiscount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return d, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM discounts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepository) List(ctx context.Context, f Filter) ([]*Discount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+discountColumns+`
		FROM discounts
		WHERE ($1 = '' OR status = $1)
		  AND ($2 = '' OR type = $2)
		  AND ($3 = '' OR all_branches OR $3 = ANY(branch_ids))
		ORDER BY created_at DESC
	`, string(f.Status), string(f.Type), f.Branch)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Discount
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func scanDiscount(row pgx.Row) (*Discount, error) {
	var d Discount
	var payload []byte

	if err := row.Scan(
		&d.ID, &d.Name, &d.Description, &d.Type, &d.Status,
		&d.AllBranches, &d.BranchIDs,
		&d.StartDate, &d.EndDate, &d.StartTime, &d.EndTime, &d.DaysOfWeek,
		&d.ImageURL, &payload, &d.CreatedAt, &d.UpdatedAt,
	); err != nil {
		return nil, err
	}

	if err := decodePayload(&d, payload); err != nil {
		return nil, err
	}
	return &d, nil
}
