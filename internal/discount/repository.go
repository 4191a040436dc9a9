package discount

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("discount not found")

// Filter narrows a discount listing. Zero values match everything.
type Filter struct {
	Branch string
	Status Status
	Type   Type
}

// Repository is the data-access contract. Create and Update enforce
// the single-active-loyalty rule atomically: saving an active loyalty
// discount demotes every other active loyalty discount to inactive.
type Repository interface {
	Create(ctx context.Context, d *Discount) error
	GetByID(ctx context.Context, id string) (*Discount, error)
	Update(ctx context.Context, d *Discount) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f Filter) ([]*Discount, error)
}
