package domain

// Transition tables. Anything absent is illegal; there is no other way
// to move a document between states.
var invoiceTransitions = map[InvoiceState][]InvoiceState{
	InvoiceStateDraft:  {InvoiceStateLocked},
	InvoiceStateLocked: {InvoiceStateCanceled},
	// IMPORTED and CANCELED have no outgoing transitions.
}

var quotationTransitions = map[QuotationState][]QuotationState{
	QuotationStateDraft:  {QuotationStateLocked},
	QuotationStateLocked: {QuotationStateAccepted, QuotationStateDenied},
}

// InvoiceTransitionAllowed reports whether from→to is a legal invoice
// transition.
func InvoiceTransitionAllowed(from, to InvoiceState) bool {
	for _, next := range invoiceTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// QuotationTransitionAllowed reports whether from→to is a legal
// quotation transition.
func QuotationTransitionAllowed(from, to QuotationState) bool {
	for _, next := range quotationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionInvoice validates and applies a state change. The invoice is
// untouched on error.
func TransitionInvoice(inv *Invoice, to InvoiceState) error {
	if !InvoiceTransitionAllowed(inv.State, to) {
		return ErrInvalidTransition
	}
	inv.State = to
	return nil
}

// TransitionQuotation validates and applies a state change. The
// quotation is untouched on error.
func TransitionQuotation(q *Quotation, to QuotationState) error {
	if !QuotationTransitionAllowed(q.State, to) {
		return ErrInvalidTransition
	}
	q.State = to
	return nil
}
