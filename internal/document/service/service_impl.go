package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallfirm/facture/internal/clock"
	domain "github.com/smallfirm/facture/internal/document/domain"
	"github.com/smallfirm/facture/internal/metrics"
	"github.com/smallfirm/facture/internal/money"
	"github.com/smallfirm/facture/internal/numbering"
	"go.uber.org/zap"
)

type service struct {
	repo       domain.Repository
	generators numbering.Generators
	node       *snowflake.Node
	clk        clock.Clock
	metrics    *metrics.Metrics
	log        *zap.Logger
}

func NewService(
	repo domain.Repository,
	generators numbering.Generators,
	node *snowflake.Node,
	clk clock.Clock,
	m *metrics.Metrics,
	log *zap.Logger,
) domain.Service {
	return &service{
		repo:       repo,
		generators: generators,
		node:       node,
		clk:        clk,
		metrics:    m,
		log:        log,
	}
}

func parseID(raw string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(raw)
	if err != nil {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

func (s *service) CreateInvoice(ctx context.Context, req domain.CreateDocumentRequest) (*domain.Invoice, error) {
	customer, err := s.repo.FirstCustomer(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clk.Now()
	inv := &domain.Invoice{
		ID:            s.node.Generate(),
		State:         domain.InvoiceStateDraft,
		CustomerID:    customer.ID,
		IssueDate:     now,
		ExecutionDate: now,
		PaymentDelay:  30,
		Total:         money.Zero(),
		TotalVAT:      money.Zero(),
	}

	var copied []domain.LineItem
	if req.CopyFromID != "" {
		srcID, err := parseID(req.CopyFromID)
		if err != nil {
			return nil, err
		}
		src, err := s.repo.InvoiceByID(ctx, srcID)
		if err != nil {
			return nil, err
		}
		inv.Title = src.Title
		inv.CustomerID = src.CustomerID
		copied = src.Items
	}

	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}
	for _, item := range copied {
		dup := item
		dup.ID = s.node.Generate()
		dup.InvoiceID = &inv.ID
		dup.QuotationID = nil
		if err := s.repo.CreateItem(ctx, &dup); err != nil {
			return nil, err
		}
	}
	if len(copied) > 0 {
		return s.refreshInvoiceTotals(ctx, inv.ID)
	}
	return s.repo.InvoiceByID(ctx, inv.ID)
}

func (s *service) GetInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	invID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	inv, err := s.repo.InvoiceByID(ctx, invID)
	if err != nil {
		return nil, err
	}
	if inv.State == domain.InvoiceStateDraft {
		inv.DraftNumber = s.draftNumber(ctx, s.generators.Invoice)
	}
	return inv, nil
}

// draftNumber is best effort: a provider hiccup must not fail a read,
// so the placeholder just stays empty.
func (s *service) draftNumber(ctx context.Context, gen numbering.DocumentGenerator) string {
	number, err := gen.DraftNumber(ctx)
	if err != nil {
		s.log.Warn("draft number unavailable", zap.Error(err))
		return ""
	}
	return number
}

func (s *service) ListInvoices(ctx context.Context) ([]domain.Invoice, error) {
	return s.repo.ListInvoices(ctx)
}

// LockInvoice freezes a draft: the generator assigns the definitive
// number and renders the document, the bytes are stored as an
// attachment, and the invoice leaves DRAFT. On any failure the invoice
// is left exactly as it was.
func (s *service) LockInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	invID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	inv, err := s.repo.InvoiceByID(ctx, invID)
	if err != nil {
		return nil, err
	}
	if !domain.InvoiceTransitionAllowed(inv.State, domain.InvoiceStateLocked) {
		return nil, domain.ErrInvalidTransition
	}
	if len(inv.Items) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	result, err := s.generators.Invoice.Finalize(ctx, domain.InvoiceSnapshot(inv))
	if err != nil {
		return nil, err
	}

	att := &domain.Attachment{
		ID:       s.node.Generate(),
		Filename: result.Number + ".pdf",
		Data:     result.PDF,
	}
	if err := s.repo.CreateAttachment(ctx, att); err != nil {
		return nil, err
	}

	inv.Number = &result.Number
	inv.AttachmentID = &att.ID
	inv.Total = domain.DocumentTotal(inv.Items)
	inv.TotalVAT = domain.DocumentVAT(inv.Items)
	if err := domain.TransitionInvoice(inv, domain.InvoiceStateLocked); err != nil {
		return nil, err
	}
	if err := s.repo.SaveInvoice(ctx, inv); err != nil {
		return nil, err
	}

	s.metrics.DocumentsFinalized.WithLabelValues(string(domain.KindInvoice)).Inc()
	s.log.Info("invoice locked",
		zap.String("invoice_id", inv.ID.String()),
		zap.String("number", result.Number),
	)
	return inv, nil
}

func (s *service) CancelInvoice(ctx context.Context, id string) (*domain.Invoice, error) {
	invID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	inv, err := s.repo.InvoiceByID(ctx, invID)
	if err != nil {
		return nil, err
	}
	if err := domain.TransitionInvoice(inv, domain.InvoiceStateCanceled); err != nil {
		return nil, err
	}
	if err := s.repo.SaveInvoice(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *service) PreviewInvoice(ctx context.Context, id string) ([]byte, error) {
	invID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	inv, err := s.repo.InvoiceByID(ctx, invID)
	if err != nil {
		return nil, err
	}
	if len(inv.Items) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	return s.generators.Invoice.Preview(ctx, domain.InvoiceSnapshot(inv))
}

func (s *service) CreateQuotation(ctx context.Context, req domain.CreateDocumentRequest) (*domain.Quotation, error) {
	customer, err := s.repo.FirstCustomer(ctx)
	if err != nil {
		return nil, err
	}

	q := &domain.Quotation{
		ID:         s.node.Generate(),
		State:      domain.QuotationStateDraft,
		CustomerID: customer.ID,
		IssueDate:  s.clk.Now(),
		Validity:   30,
		Total:      money.Zero(),
		TotalVAT:   money.Zero(),
	}

	var copied []domain.LineItem
	if req.CopyFromID != "" {
		srcID, err := parseID(req.CopyFromID)
		if err != nil {
			return nil, err
		}
		src, err := s.repo.QuotationByID(ctx, srcID)
		if err != nil {
			return nil, err
		}
		q.Title = src.Title
		q.CustomerID = src.CustomerID
		copied = src.Items
	}

	if err := s.repo.CreateQuotation(ctx, q); err != nil {
		return nil, err
	}
	for _, item := range copied {
		dup := item
		dup.ID = s.node.Generate()
		dup.QuotationID = &q.ID
		dup.InvoiceID = nil
		if err := s.repo.CreateItem(ctx, &dup); err != nil {
			return nil, err
		}
	}
	if len(copied) > 0 {
		return s.refreshQuotationTotals(ctx, q.ID)
	}
	return s.repo.QuotationByID(ctx, q.ID)
}

func (s *service) GetQuotation(ctx context.Context, id string) (*domain.Quotation, error) {
	qID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	q, err := s.repo.QuotationByID(ctx, qID)
	if err != nil {
		return nil, err
	}
	if q.State == domain.QuotationStateDraft {
		q.DraftNumber = s.draftNumber(ctx, s.generators.Quotation)
	}
	return q, nil
}

func (s *service) ListQuotations(ctx context.Context) ([]domain.Quotation, error) {
	return s.repo.ListQuotations(ctx)
}

func (s *service) LockQuotation(ctx context.Context, id string) (*domain.Quotation, error) {
	qID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	q, err := s.repo.QuotationByID(ctx, qID)
	if err != nil {
		return nil, err
	}
	if !domain.QuotationTransitionAllowed(q.State, domain.QuotationStateLocked) {
		return nil, domain.ErrInvalidTransition
	}
	if len(q.Items) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	result, err := s.generators.Quotation.Finalize(ctx, domain.QuotationSnapshot(q))
	if err != nil {
		return nil, err
	}

	att := &domain.Attachment{
		ID:       s.node.Generate(),
		Filename: result.Number + ".pdf",
		Data:     result.PDF,
	}
	if err := s.repo.CreateAttachment(ctx, att); err != nil {
		return nil, err
	}

	q.Number = &result.Number
	q.AttachmentID = &att.ID
	q.Total = domain.DocumentTotal(q.Items)
	q.TotalVAT = domain.DocumentVAT(q.Items)
	if err := domain.TransitionQuotation(q, domain.QuotationStateLocked); err != nil {
		return nil, err
	}
	if err := s.repo.SaveQuotation(ctx, q); err != nil {
		return nil, err
	}

	s.metrics.DocumentsFinalized.WithLabelValues(string(domain.KindQuotation)).Inc()
	s.log.Info("quotation locked",
		zap.String("quotation_id", q.ID.String()),
		zap.String("number", result.Number),
	)
	return q, nil
}

func (s *service) AcceptQuotation(ctx context.Context, id string) (*domain.Quotation, error) {
	return s.transitionQuotation(ctx, id, domain.QuotationStateAccepted)
}

func (s *service) DenyQuotation(ctx context.Context, id string) (*domain.Quotation, error) {
	return s.transitionQuotation(ctx, id, domain.QuotationStateDenied)
}

func (s *service) transitionQuotation(ctx context.Context, id string, to domain.QuotationState) (*domain.Quotation, error) {
	qID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	q, err := s.repo.QuotationByID(ctx, qID)
	if err != nil {
		return nil, err
	}
	if err := domain.TransitionQuotation(q, to); err != nil {
		return nil, err
	}
	if err := s.repo.SaveQuotation(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *service) PreviewQuotation(ctx context.Context, id string) ([]byte, error) {
	qID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	q, err := s.repo.QuotationByID(ctx, qID)
	if err != nil {
		return nil, err
	}
	if len(q.Items) == 0 {
		return nil, domain.ErrEmptyDocument
	}
	return s.generators.Quotation.Preview(ctx, domain.QuotationSnapshot(q))
}

// ConvertQuotation clones the quotation into a new DRAFT invoice. It is
// a creation, not a state transition: the quotation keeps its state,
// number and items.
func (s *service) ConvertQuotation(ctx context.Context, id string) (*domain.Invoice, error) {
	qID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	q, err := s.repo.QuotationByID(ctx, qID)
	if err != nil {
		return nil, err
	}

	now := s.clk.Now()
	inv := &domain.Invoice{
		ID:            s.node.Generate(),
		State:         domain.InvoiceStateDraft,
		Title:         q.Title,
		CustomerID:    q.CustomerID,
		IssueDate:     now,
		ExecutionDate: now,
		PaymentDelay:  30,
		Total:         money.Zero(),
		TotalVAT:      money.Zero(),
	}
	if err := s.repo.CreateInvoice(ctx, inv); err != nil {
		return nil, err
	}
	for _, item := range q.Items {
		dup := item
		dup.ID = s.node.Generate()
		dup.InvoiceID = &inv.ID
		dup.QuotationID = nil
		if err := s.repo.CreateItem(ctx, &dup); err != nil {
			return nil, err
		}
	}
	return s.refreshInvoiceTotals(ctx, inv.ID)
}

func (s *service) AddItem(ctx context.Context, req domain.ItemRequest) (*domain.LineItem, error) {
	item := &domain.LineItem{ID: s.node.Generate()}
	if err := s.applyItemRequest(item, req); err != nil {
		return nil, err
	}

	switch {
	case req.InvoiceID != "":
		invID, err := parseID(req.InvoiceID)
		if err != nil {
			return nil, err
		}
		inv, err := s.repo.InvoiceByID(ctx, invID)
		if err != nil {
			return nil, err
		}
		if inv.State != domain.InvoiceStateDraft {
			return nil, domain.ErrNotDraft
		}
		item.InvoiceID = &inv.ID
	case req.QuotationID != "":
		qID, err := parseID(req.QuotationID)
		if err != nil {
			return nil, err
		}
		q, err := s.repo.QuotationByID(ctx, qID)
		if err != nil {
			return nil, err
		}
		if q.State != domain.QuotationStateDraft {
			return nil, domain.ErrNotDraft
		}
		item.QuotationID = &q.ID
	default:
		return nil, domain.ErrOrphanItem
	}

	if err := s.repo.CreateItem(ctx, item); err != nil {
		return nil, err
	}
	if err := s.refreshParentTotals(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) UpdateItem(ctx context.Context, id string, req domain.ItemRequest) (*domain.LineItem, error) {
	itemID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	item, err := s.repo.ItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if err := s.requireDraftParent(ctx, item); err != nil {
		return nil, err
	}
	if err := s.applyItemRequest(item, req); err != nil {
		return nil, err
	}
	if err := s.repo.SaveItem(ctx, item); err != nil {
		return nil, err
	}
	if err := s.refreshParentTotals(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *service) DeleteItem(ctx context.Context, id string) error {
	itemID, err := parseID(id)
	if err != nil {
		return err
	}
	item, err := s.repo.ItemByID(ctx, itemID)
	if err != nil {
		return err
	}
	if err := s.requireDraftParent(ctx, item); err != nil {
		return err
	}
	if err := s.repo.DeleteItem(ctx, itemID); err != nil {
		return err
	}
	return s.refreshParentTotals(ctx, item)
}

func (s *service) GetAttachment(ctx context.Context, id string) (*domain.Attachment, error) {
	attID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.repo.AttachmentByID(ctx, attID)
}

func (s *service) applyItemRequest(item *domain.LineItem, req domain.ItemRequest) error {
	quantity, err := money.FromString(req.Quantity)
	if err != nil {
		return domain.ErrInvalidAmount
	}
	price, err := money.FromString(req.Price)
	if err != nil {
		return domain.ErrInvalidAmount
	}
	vatRate, err := money.FromString(req.VATRate)
	if err != nil {
		return domain.ErrInvalidAmount
	}

	item.Title = req.Title
	item.Description = req.Description
	item.Quantity = quantity
	item.Unit = req.Unit
	item.Price = price
	item.VATRate = vatRate
	item.Index = req.Index
	return nil
}

func (s *service) requireDraftParent(ctx context.Context, item *domain.LineItem) error {
	switch {
	case item.InvoiceID != nil:
		inv, err := s.repo.InvoiceByID(ctx, *item.InvoiceID)
		if err != nil {
			return err
		}
		if inv.State != domain.InvoiceStateDraft {
			return domain.ErrNotDraft
		}
	case item.QuotationID != nil:
		q, err := s.repo.QuotationByID(ctx, *item.QuotationID)
		if err != nil {
			return err
		}
		if q.State != domain.QuotationStateDraft {
			return domain.ErrNotDraft
		}
	default:
		return domain.ErrOrphanItem
	}
	return nil
}

// refreshParentTotals recomputes the cached totals of whichever document
// owns the item. Only called for DRAFT parents.
func (s *service) refreshParentTotals(ctx context.Context, item *domain.LineItem) error {
	switch {
	case item.InvoiceID != nil:
		_, err := s.refreshInvoiceTotals(ctx, *item.InvoiceID)
		return err
	case item.QuotationID != nil:
		_, err := s.refreshQuotationTotals(ctx, *item.QuotationID)
		return err
	}
	return domain.ErrOrphanItem
}

func (s *service) refreshInvoiceTotals(ctx context.Context, id snowflake.ID) (*domain.Invoice, error) {
	inv, err := s.repo.InvoiceByID(ctx, id)
	if err != nil {
		return nil, err
	}
	inv.Total = domain.DocumentTotal(inv.Items)
	inv.TotalVAT = domain.DocumentVAT(inv.Items)
	if err := s.repo.SaveInvoice(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

func (s *service) refreshQuotationTotals(ctx context.Context, id snowflake.ID) (*domain.Quotation, error) {
	q, err := s.repo.QuotationByID(ctx, id)
	if err != nil {
		return nil, err
	}
	q.Total = domain.DocumentTotal(q.Items)
	q.TotalVAT = domain.DocumentVAT(q.Items)
	if err := s.repo.SaveQuotation(ctx, q); err != nil {
		return nil, err
	}
	return q, nil
}
