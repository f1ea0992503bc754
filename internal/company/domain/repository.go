package domain

import "context"

type Repository interface {
	// Get returns the singleton row, ErrMissingCompanyInfo when absent.
	Get(ctx context.Context) (*CompanyInfo, error)
	Save(ctx context.Context, info *CompanyInfo) error
}
