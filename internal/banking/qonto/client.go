// Package qonto implements the banking provider client for Qonto's
// transactions API.
package qonto

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	bankingdomain "github.com/smallfirm/facture/internal/banking/domain"
	"github.com/smallfirm/facture/internal/money"
	"go.uber.org/zap"
)

type Client struct {
	client  *http.Client
	baseURL string
	node    *snowflake.Node
	log     *zap.Logger
}

func NewClient(baseURL string, node *snowflake.Node, log *zap.Logger) *Client {
	return &Client{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		node:    node,
		log:     log,
	}
}

type transactionsPage struct {
	Transactions []wireTransaction `json:"transactions"`
	Meta         struct {
		NextPage *int `json:"next_page"`
	} `json:"meta"`
}

type wireTransaction struct {
	TransactionID string    `json:"transaction_id"`
	Amount        string    `json:"amount"`
	Side          string    `json:"side"`
	Label         string    `json:"label"`
	Reference     string    `json:"reference"`
	SettledAt     time.Time `json:"settled_at"`
}

// Transactions fetches all settled movements for the account since its
// last sync, walking the provider's pagination to the end. Debit-side
// amounts come back unsigned and are negated here.
func (c *Client) Transactions(ctx context.Context, account bankingdomain.BankAccount) ([]bankingdomain.BankTransaction, error) {
	var out []bankingdomain.BankTransaction

	page := 1
	for {
		query := url.Values{}
		query.Set("iban", account.IBAN)
		query.Set("status[]", "completed")
		query.Set("current_page", strconv.Itoa(page))
		if account.LastSyncDate != nil {
			query.Set("settled_at_from", account.LastSyncDate.Format(time.RFC3339))
		}

		var body transactionsPage
		if err := c.get(ctx, account.APIInfo, c.baseURL+"/transactions?"+query.Encode(), &body); err != nil {
			return nil, err
		}

		for _, wire := range body.Transactions {
			amount, err := money.FromString(wire.Amount)
			if err != nil {
				return nil, fmt.Errorf("qonto: transaction %s: bad amount %q: %w", wire.TransactionID, wire.Amount, err)
			}
			if wire.Side == "debit" {
				amount = amount.Neg()
			}
			out = append(out, bankingdomain.BankTransaction{
				ID:            c.node.Generate(),
				BankAccountID: account.ID,
				Amount:        amount,
				Label:         wire.Label,
				Reference:     wire.Reference,
				SettledDate:   wire.SettledAt,
				TransactionID: wire.TransactionID,
			})
		}

		if body.Meta.NextPage == nil {
			return out, nil
		}
		page = *body.Meta.NextPage
	}
}

func (c *Client) get(ctx context.Context, auth, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", auth)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("qonto: GET %s: status %d", rawURL, resp.StatusCode)
	}
	return json.Unmarshal(payload, out)
}
