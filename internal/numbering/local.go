package numbering

import (
	"context"
	"errors"

	bankingdomain "github.com/smallfirm/facture/internal/banking/domain"
	"github.com/smallfirm/facture/internal/clock"
	companydomain "github.com/smallfirm/facture/internal/company/domain"
	documentdomain "github.com/smallfirm/facture/internal/document/domain"
	"github.com/smallfirm/facture/internal/pdf"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LocalGenerator numbers documents from the CompanyInfo counters and
// renders them with the in-process layout engine.
type LocalGenerator struct {
	db    *gorm.DB
	clk   clock.Clock
	style pdf.Style
	log   *zap.Logger
}

func NewLocalGenerator(db *gorm.DB, clk clock.Clock, style pdf.Style, log *zap.Logger) *LocalGenerator {
	return &LocalGenerator{db: db, clk: clk, style: style, log: log}
}

// DraftNumber is empty: the local backend only assigns numbers at
// finalize so drafts never consume a sequence value.
func (g *LocalGenerator) DraftNumber(ctx context.Context) (string, error) {
	return "", nil
}

func (g *LocalGenerator) Preview(ctx context.Context, snap documentdomain.Snapshot) ([]byte, error) {
	info, bank, err := g.context(ctx, g.db)
	if err != nil {
		return nil, err
	}

	snap.Number = Format(templateFor(info, snap.Kind), g.clk.Now(), counterFor(info, snap.Kind)+1)
	return pdf.Render(snap, *info, *bank, g.style)
}

// Finalize runs in one transaction: the CompanyInfo row is read under a
// row lock, the number computed, the document rendered, and the counter
// incremented. Concurrent finalizes serialize on the lock, so two calls
// can never observe the same counter value.
func (g *LocalGenerator) Finalize(ctx context.Context, snap documentdomain.Snapshot) (FinalizeResult, error) {
	var result FinalizeResult

	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		info, bank, err := g.lockedContext(ctx, tx)
		if err != nil {
			return err
		}

		snap.Number = Format(templateFor(info, snap.Kind), g.clk.Now(), counterFor(info, snap.Kind)+1)

		rendered, err := pdf.Render(snap, *info, *bank, g.style)
		if err != nil {
			return err
		}

		column := "invoice_index"
		if snap.Kind == documentdomain.KindQuotation {
			column = "quotation_index"
		}
		if err := tx.Model(&companydomain.CompanyInfo{}).
			Where("id = ?", info.ID).
			UpdateColumn(column, gorm.Expr(column+" + ?", 1)).Error; err != nil {
			return err
		}

		result = FinalizeResult{Number: snap.Number, PDF: rendered}
		return nil
	})
	if err != nil {
		return FinalizeResult{}, err
	}

	g.log.Info("document finalized",
		zap.String("kind", string(snap.Kind)),
		zap.String("number", result.Number),
	)
	return result, nil
}

func (g *LocalGenerator) context(ctx context.Context, tx *gorm.DB) (*companydomain.CompanyInfo, *bankingdomain.BankAccount, error) {
	return loadRenderContext(ctx, tx, false)
}

func (g *LocalGenerator) lockedContext(ctx context.Context, tx *gorm.DB) (*companydomain.CompanyInfo, *bankingdomain.BankAccount, error) {
	return loadRenderContext(ctx, tx, true)
}

func loadRenderContext(ctx context.Context, tx *gorm.DB, lock bool) (*companydomain.CompanyInfo, *bankingdomain.BankAccount, error) {
	query := tx.WithContext(ctx).Order("id ASC")
	// sqlite has no FOR UPDATE; its single-writer transaction lock
	// already serializes concurrent finalizes.
	if lock && tx.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var info companydomain.CompanyInfo
	if err := query.First(&info).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, companydomain.ErrMissingCompanyInfo
		}
		return nil, nil, err
	}

	var bank bankingdomain.BankAccount
	if err := tx.WithContext(ctx).Order("id ASC").First(&bank).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, bankingdomain.ErrMissingBankAccount
		}
		return nil, nil, err
	}

	return &info, &bank, nil
}

func templateFor(info *companydomain.CompanyInfo, kind documentdomain.Kind) string {
	if kind == documentdomain.KindQuotation {
		return info.QuotationNumberingFormat
	}
	return info.InvoiceNumberingFormat
}

func counterFor(info *companydomain.CompanyInfo, kind documentdomain.Kind) int {
	if kind == documentdomain.KindQuotation {
		return info.QuotationIndex
	}
	return info.InvoiceIndex
}
