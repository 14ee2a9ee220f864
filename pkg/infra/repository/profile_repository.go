package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldops/apigate/pkg/domain/principal"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type tenantProfile struct {
	UserID    uuid.UUID `gorm:"column:user_id;primaryKey"`
	CompanyID uuid.UUID `gorm:"column:company_id"`
	Role      string    `gorm:"column:role"`
	Email     string    `gorm:"column:email"`
}

func (tenantProfile) TableName() string {
	return "tenant_profiles"
}

// ProfileRepository loads tenant profiles from the platform database.
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Load(ctx context.Context, userID string) (*principal.Principal, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", principal.ErrNotFound)
	}

	var profile tenantProfile
	result := r.db.WithContext(ctx).Where("user_id = ?", id).First(&profile)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, principal.ErrNotFound
		}
		return nil, fmt.Errorf("failed to load tenant profile: %w", result.Error)
	}

	return &principal.Principal{
		ID:        profile.UserID,
		CompanyID: profile.CompanyID,
		Role:      principal.Role(profile.Role),
		Email:     profile.Email,
	}, nil
}
