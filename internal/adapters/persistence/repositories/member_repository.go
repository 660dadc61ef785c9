package repositories

import (
	"context"

	"library-lending/internal/adapters/persistence/models"
	"library-lending/internal/core/domain"

	"gorm.io/gorm"
)

// memberRepository implements MemberRepository interface
type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

// Create creates a new member and sets its ID
// A second member with the same email under one owner fails with gorm.ErrDuplicatedKey.
func (r *memberRepository) Create(ctx context.Context, member *domain.Member) error {
	row := &models.Member{
		Name:    member.Name,
		Email:   member.Email,
		OwnerID: member.OwnerID,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	*member = *row.ToDomain()
	return nil
}

// GetForOwner gets a member by ID if it belongs to ownerID
func (r *memberRepository) GetForOwner(ctx context.Context, id, ownerID uint) (*domain.Member, error) {
	var member models.Member
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return member.ToDomain(), nil
}

// ListByOwner lists an owner's members with pagination
func (r *memberRepository) ListByOwner(ctx context.Context, ownerID uint, offset, limit int) ([]*domain.Member, int64, error) {
	var rows []*models.Member
	var total int64

	// Count total
	if err := r.db.WithContext(ctx).Model(&models.Member{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	members := make([]*domain.Member, len(rows))
	for i, row := range rows {
		members[i] = row.ToDomain()
	}
	return members, total, nil
}
