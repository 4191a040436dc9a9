package core

import "context"

// BranchReader is the cross-package read contract for branches.
type BranchReader interface {
	Exists(ctx context.Context, branchID string) (bool, error)
}
