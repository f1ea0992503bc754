package repository

import (
	"context"
	"errors"

	companydomain "github.com/smallfirm/facture/internal/company/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) companydomain.Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context) (*companydomain.CompanyInfo, error) {
	var info companydomain.CompanyInfo
	err := r.db.WithContext(ctx).Order("id ASC").First(&info).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, companydomain.ErrMissingCompanyInfo
	}
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *repository) Save(ctx context.Context, info *companydomain.CompanyInfo) error {
	return r.db.WithContext(ctx).Save(info).Error
}
