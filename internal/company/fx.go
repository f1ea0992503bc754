package company

import (
	"github.com/smallfirm/facture/internal/company/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("company",
	fx.Provide(repository.NewRepository),
)
