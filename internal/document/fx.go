package document

import (
	"github.com/smallfirm/facture/internal/document/repository"
	"github.com/smallfirm/facture/internal/document/service"
	"go.uber.org/fx"
)

var Module = fx.Module("document",
	fx.Provide(
		repository.NewRepository,
		service.NewService,
	),
)
