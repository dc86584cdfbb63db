package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	domainRepo "github.com/sangkips/dukahub-api/internal/domain/repository"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type branchRepository struct {
	db *gorm.DB
}

// NewBranchRepository creates a new branch repository
func NewBranchRepository(db *gorm.DB) domainRepo.BranchRepository {
	return &branchRepository{db: db}
}

func (r *branchRepository) Create(ctx context.Context, branch *entity.Branch) error {
	return translateError(r.db.WithContext(ctx).Create(branch).Error)
}

func (r *branchRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	var branch entity.Branch
	err := r.db.WithContext(ctx).Scopes(BusinessScope(ctx)).First(&branch, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &branch, err
}

func (r *branchRepository) Update(ctx context.Context, branch *entity.Branch) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(branch).Error)
}

// Delete removes the branch; its sales go with it through the foreign key
func (r *branchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Scopes(BusinessScope(ctx)).Delete(&entity.Branch{}, "id = ?", id).Error
}

func (r *branchRepository) List(ctx context.Context, search string) ([]entity.Branch, error) {
	var branches []entity.Branch
	query := r.db.WithContext(ctx).Model(&entity.Branch{}).Scopes(BusinessScope(ctx))
	if search != "" {
		query = query.Where("name ILIKE ? OR location ILIKE ?", "%"+search+"%", "%"+search+"%")
	}
	err := query.Order("created_at ASC").Find(&branches).Error
	return branches, err
}
