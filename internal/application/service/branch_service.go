package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/sangkips/dukahub-api/internal/domain/repository"
	"github.com/sangkips/dukahub-api/pkg/apperror"
)

// BranchService handles branch-related operations
type BranchService struct {
	branchRepo repository.BranchRepository
}

// NewBranchService creates a new branch service
func NewBranchService(branchRepo repository.BranchRepository) *BranchService {
	return &BranchService{branchRepo: branchRepo}
}

// BranchInput is used for both create and update
type BranchInput struct {
	Name     string
	Location *string
}

func (in *BranchInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperror.NewFieldError("name", "Name is required")
	}
	return nil
}

// CreateBranch creates a new branch
func (s *BranchService) CreateBranch(ctx context.Context, input *BranchInput) (*entity.Branch, error) {
	bizID, err := businessID(ctx)
	if err != nil {
		return nil, err
	}
	if err := input.validate(); err != nil {
		return nil, err
	}

	branch := &entity.Branch{
		BusinessID: bizID,
		Name:       strings.TrimSpace(input.Name),
		Location:   input.Location,
	}

	if err := s.branchRepo.Create(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// GetBranch retrieves a branch by ID
func (s *BranchService) GetBranch(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	branch, err := s.branchRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if branch == nil {
		return nil, apperror.NewNotFoundError("Branch")
	}
	return branch, nil
}

// ListBranches lists the business's branches, oldest first
func (s *BranchService) ListBranches(ctx context.Context, search string) ([]entity.Branch, error) {
	branches, err := s.branchRepo.List(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	if branches == nil {
		branches = []entity.Branch{}
	}
	return branches, nil
}

// UpdateBranch renames or relocates a branch
func (s *BranchService) UpdateBranch(ctx context.Context, id uuid.UUID, input *BranchInput) (*entity.Branch, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	branch, err := s.GetBranch(ctx, id)
	if err != nil {
		return nil, err
	}

	branch.Name = strings.TrimSpace(input.Name)
	branch.Location = input.Location

	if err := s.branchRepo.Update(ctx, branch); err != nil {
		return nil, err
	}
	return branch, nil
}

// DeleteBranch deletes a branch together with its sales
func (s *BranchService) DeleteBranch(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetBranch(ctx, id); err != nil {
		return err
	}
	return s.branchRepo.Delete(ctx, id)
}
