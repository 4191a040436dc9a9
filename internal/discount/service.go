package discount

import (
	"context"
	"time"

	"github.com/google/uuid"

	"khapey/internal/core"
)

type Service struct {
	repo     Repository
	branches core.BranchReader
}

func NewService(repo Repository, branches core.BranchReader) *Service {
	return &Service{
		repo:     repo,
		branches: branches,
	}
}

func (s *Service) Create(ctx context.Context, d *Discount) error {
	if d.Status == "" {
		d.Status = StatusActive
	}

	if err := d.Validate(); err != nil {
		return err
	}
	if err := s.checkBranches(ctx, d); err != nil {
		return err
	}

	d.ID = uuid.New().String()
	now := time.Now()
	d.CreatedAt = now
	d.UpdatedAt = now

	return s.repo.Create(ctx, d)
}

func (s *Service) Update(ctx context.Context, d *Discount) error {
	if d.ID == "" {
		return &ValidationError{Fields: []FieldError{{Field: "id", Message: "required"}}}
	}
	if d.Status == "" {
		d.Status = StatusActive
	}

	if err := d.Validate(); err != nil {
		return err
	}
	if err := s.checkBranches(ctx, d); err != nil {
		return err
	}

	d.UpdatedAt = time.Now()
	return s.repo.Update(ctx, d)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return &ValidationError{Fields: []FieldError{{Field: "id", Message: "required"}}}
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) Get(ctx context.Context, id string) (*Discount, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]*Discount, error) {
	return s.repo.List(ctx, f)
}

// SetImage stores the uploaded promo image URL on the discount.
func (s *Service) SetImage(ctx context.Context, id, imageURL string) error {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	d.ImageURL = imageURL
	d.UpdatedAt = time.Now()
	return s.repo.Update(ctx, d)
}

func (s *Service) checkBranches(ctx context.Context, d *Discount) error {
	if d.AllBranches || s.branches == nil {
		return nil
	}
	for _, id := range d.BranchIDs {
		ok, err := s.branches.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !ok {
			return &ValidationError{Fields: []FieldError{
				{Field: "branchIds", Message: "unknown branch " + id},
			}}
		}
	}
	return nil
}
