package numbering

import (
	"time"

	"github.com/smallfirm/facture/internal/clock"
	"github.com/smallfirm/facture/internal/config"
	"github.com/smallfirm/facture/internal/pdf"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// NewGenerators selects the backend per document kind once, from
// configuration. There is no per-call branching on the backend name.
func NewGenerators(cfg config.Config, layoutCfg config.LayoutConfig, db *gorm.DB, clk clock.Clock, log *zap.Logger) (Generators, error) {
	style, err := pdf.NewStyle(layoutCfg)
	if err != nil {
		return Generators{}, err
	}

	local := NewLocalGenerator(db, clk, style, log)
	gens := Generators{Invoice: local, Quotation: local}

	if cfg.InvoiceGenerator == config.GeneratorQonto {
		gens.Invoice = NewQontoGenerator(
			db,
			cfg.QontoBaseURL,
			cfg.QontoPollRetries,
			time.Duration(cfg.QontoPollInterval)*time.Second,
			log,
		)
	}

	return gens, nil
}

var Module = fx.Module("numbering",
	fx.Provide(NewGenerators),
)
