package banking

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallfirm/facture/internal/banking/domain"
	"github.com/smallfirm/facture/internal/banking/qonto"
	"github.com/smallfirm/facture/internal/banking/repository"
	"github.com/smallfirm/facture/internal/banking/service"
	"github.com/smallfirm/facture/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewProviders maps bank names (upper-cased) to their transaction
// clients. Qonto is the only provider wired today.
func NewProviders(cfg config.Config, node *snowflake.Node, log *zap.Logger) map[string]domain.Provider {
	return map[string]domain.Provider{
		"QONTO": qonto.NewClient(cfg.QontoBaseURL, node, log),
	}
}

var Module = fx.Module("banking",
	fx.Provide(
		NewProviders,
		repository.NewRepository,
		service.NewService,
	),
)
