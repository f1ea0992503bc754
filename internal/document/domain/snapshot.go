package domain

import (
	"sort"
	"time"
)

// Kind distinguishes the two document variants in code paths shared by
// both, such as rendering and numbering.
type Kind string

const (
	KindInvoice   Kind = "invoice"
	KindQuotation Kind = "quotation"
)

// Snapshot is the frozen view of a document handed to a generator. It
// carries everything rendering needs; generators never reach back into
// the live record.
type Snapshot struct {
	Kind          Kind
	Number        string
	Title         string
	Customer      Customer
	IssueDate     time.Time
	ExecutionDate time.Time
	Validity      int
	Items         []LineItem
}

// InvoiceSnapshot freezes an invoice for rendering. Items are copied
// and ordered by display index.
func InvoiceSnapshot(inv *Invoice) Snapshot {
	snap := Snapshot{
		Kind:          KindInvoice,
		Title:         inv.Title,
		IssueDate:     inv.IssueDate,
		ExecutionDate: inv.ExecutionDate,
		Items:         sortedItems(inv.Items),
	}
	if inv.Number != nil {
		snap.Number = *inv.Number
	}
	if inv.Customer != nil {
		snap.Customer = *inv.Customer
	}
	return snap
}

// QuotationSnapshot freezes a quotation for rendering.
func QuotationSnapshot(q *Quotation) Snapshot {
	snap := Snapshot{
		Kind:      KindQuotation,
		Title:     q.Title,
		IssueDate: q.IssueDate,
		Validity:  q.Validity,
		Items:     sortedItems(q.Items),
	}
	if q.Number != nil {
		snap.Number = *q.Number
	}
	if q.Customer != nil {
		snap.Customer = *q.Customer
	}
	return snap
}

func sortedItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	copy(out, items)
	sort.Slice(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}
