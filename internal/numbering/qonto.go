package numbering

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	bankingdomain "github.com/smallfirm/facture/internal/banking/domain"
	documentdomain "github.com/smallfirm/facture/internal/document/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QontoGenerator delegates numbering and rendering to the provider's
// invoicing API. The provider finalizes asynchronously, so Finalize
// polls for the PDF with a fixed backoff and a bounded retry budget.
// The local counters are never touched by this backend.
type QontoGenerator struct {
	db       *gorm.DB
	client   *http.Client
	baseURL  string
	retries  int
	interval time.Duration
	log      *zap.Logger
}

func NewQontoGenerator(db *gorm.DB, baseURL string, retries int, interval time.Duration, log *zap.Logger) *QontoGenerator {
	return &QontoGenerator{
		db:       db,
		client:   &http.Client{Timeout: 30 * time.Second},
		baseURL:  strings.TrimRight(baseURL, "/"),
		retries:  retries,
		interval: interval,
		log:      log,
	}
}

type qontoInvoicePayload struct {
	Title     string      `json:"title,omitempty"`
	Customer  string      `json:"customer_name"`
	IssueDate string      `json:"issue_date"`
	Items     []qontoItem `json:"items"`
}

type qontoItem struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Quantity    string `json:"quantity"`
	UnitPrice   string `json:"unit_price"`
	VATRate     string `json:"vat_rate"`
}

type qontoInvoiceStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Number string `json:"number"`
	PDFURL string `json:"pdf_url"`
}

func (g *QontoGenerator) DraftNumber(ctx context.Context) (string, error) {
	auth, err := g.credentials(ctx)
	if err != nil {
		return "", err
	}

	var out struct {
		Number string `json:"number"`
	}
	if err := g.getJSON(ctx, auth, g.baseURL+"/client_invoices/draft_number", &out); err != nil {
		return "", err
	}
	return out.Number, nil
}

func (g *QontoGenerator) Preview(ctx context.Context, snap documentdomain.Snapshot) ([]byte, error) {
	auth, err := g.credentials(ctx)
	if err != nil {
		return nil, err
	}

	id, err := g.createDraft(ctx, auth, snap)
	if err != nil {
		return nil, err
	}
	return g.getBytes(ctx, auth, fmt.Sprintf("%s/client_invoices/%s/preview", g.baseURL, id))
}

func (g *QontoGenerator) Finalize(ctx context.Context, snap documentdomain.Snapshot) (FinalizeResult, error) {
	auth, err := g.credentials(ctx)
	if err != nil {
		return FinalizeResult{}, err
	}

	id, err := g.createDraft(ctx, auth, snap)
	if err != nil {
		return FinalizeResult{}, err
	}

	if err := g.postJSON(ctx, auth, fmt.Sprintf("%s/client_invoices/%s/finalize", g.baseURL, id), nil, nil); err != nil {
		return FinalizeResult{}, err
	}

	// The provider renders asynchronously; poll until the PDF shows up
	// or the budget runs out.
	for attempt := 0; attempt < g.retries; attempt++ {
		var status qontoInvoiceStatus
		if err := g.getJSON(ctx, auth, fmt.Sprintf("%s/client_invoices/%s", g.baseURL, id), &status); err != nil {
			return FinalizeResult{}, err
		}

		if status.Status == "finalized" && status.PDFURL != "" {
			rendered, err := g.getBytes(ctx, auth, status.PDFURL)
			if err != nil {
				return FinalizeResult{}, err
			}
			g.log.Info("document finalized by provider",
				zap.String("kind", string(snap.Kind)),
				zap.String("number", status.Number),
				zap.Int("attempts", attempt+1),
			)
			return FinalizeResult{Number: status.Number, PDF: rendered}, nil
		}

		select {
		case <-ctx.Done():
			return FinalizeResult{}, ctx.Err()
		case <-time.After(g.interval):
		}
	}

	return FinalizeResult{}, ErrGenerationTimeout
}

// credentials resolves the connected Qonto account; its APIInfo blob is
// the authorization header value.
func (g *QontoGenerator) credentials(ctx context.Context) (string, error) {
	var account bankingdomain.BankAccount
	err := g.db.WithContext(ctx).Where("UPPER(bank) = ?", "QONTO").Order("id ASC").First(&account).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", bankingdomain.ErrMissingBankAccount
	}
	if err != nil {
		return "", err
	}
	return account.APIInfo, nil
}

func (g *QontoGenerator) createDraft(ctx context.Context, auth string, snap documentdomain.Snapshot) (string, error) {
	payload := qontoInvoicePayload{
		Title:     snap.Title,
		Customer:  snap.Customer.Name,
		IssueDate: snap.IssueDate.Format("2006-01-02"),
	}
	for _, item := range snap.Items {
		payload.Items = append(payload.Items, qontoItem{
			Title:       item.Title,
			Description: item.Description,
			Quantity:    item.Quantity.String(),
			UnitPrice:   item.Price.String(),
			VATRate:     item.VATRate.String(),
		})
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := g.postJSON(ctx, auth, g.baseURL+"/client_invoices", payload, &out); err != nil {
		return "", err
	}
	return out.ID, nil
}

func (g *QontoGenerator) getJSON(ctx context.Context, auth, url string, out any) error {
	body, err := g.do(ctx, auth, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}

func (g *QontoGenerator) getBytes(ctx context.Context, auth, url string) ([]byte, error) {
	return g.do(ctx, auth, http.MethodGet, url, nil)
}

func (g *QontoGenerator) postJSON(ctx context.Context, auth, url string, in, out any) error {
	var reqBody io.Reader
	if in != nil {
		encoded, err := json.Marshal(in)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(encoded)
	}

	body, err := g.do(ctx, auth, http.MethodPost, url, reqBody)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(body, out)
}

func (g *QontoGenerator) do(ctx context.Context, auth, method, url string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json, text/plain")
	req.Header.Set("Authorization", auth)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("qonto: %s %s: status %d", method, url, resp.StatusCode)
	}
	return payload, nil
}
