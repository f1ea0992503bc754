package migration

import (
	bankingdomain "github.com/smallfirm/facture/internal/banking/domain"
	companydomain "github.com/smallfirm/facture/internal/company/domain"
	"github.com/smallfirm/facture/internal/config"
	documentdomain "github.com/smallfirm/facture/internal/document/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// Non-postgres dialects (sqlite in development) fall back to
		// gorm's schema sync.
		return conn.AutoMigrate(
			&companydomain.CompanyInfo{},
			&documentdomain.Customer{},
			&documentdomain.Attachment{},
			&documentdomain.Invoice{},
			&documentdomain.Quotation{},
			&documentdomain.LineItem{},
			&bankingdomain.BankAccount{},
			&bankingdomain.BankTransaction{},
			&bankingdomain.Revenue{},
			&bankingdomain.Purchase{},
		)
	}),
)
