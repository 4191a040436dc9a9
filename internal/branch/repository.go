package branch

import (
	"context"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("branch not found")

type Repository interface {
	Create(ctx context.Context, b *Branch) error
	GetByID(ctx context.Context, id string) (*Branch, error)
	List(ctx context.Context) ([]*Branch, error)
	Exists(ctx context.Context, id string) (bool, error)
}
