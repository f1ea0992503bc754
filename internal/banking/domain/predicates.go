package domain

import "github.com/smallfirm/facture/internal/money"

// IsCredit reports an inbound transaction. A zero amount is neither
// credit nor debit.
func IsCredit(tx BankTransaction) bool {
	return money.IsPositive(tx.Amount)
}

// IsDebit reports an outbound transaction.
func IsDebit(tx BankTransaction) bool {
	return money.IsNegative(tx.Amount)
}

// HasAssociation reports whether the transaction is linked to at least
// one revenue (credit side) or purchase (debit side).
func HasAssociation(tx BankTransaction) bool {
	if IsCredit(tx) {
		return len(tx.Revenues) > 0
	}
	return len(tx.Purchases) > 0
}

// AssociatedTotal sums what is already allocated against the
// transaction: revenue amounts for credits, amount+VAT of purchases for
// debits.
func AssociatedTotal(tx BankTransaction) money.Money {
	if IsCredit(tx) {
		total := money.Zero()
		for _, r := range tx.Revenues {
			total = money.Add(total, r.Amount)
		}
		return total
	}
	total := money.Zero()
	for _, p := range tx.Purchases {
		total = money.Add(total, money.Add(p.Amount, p.VAT))
	}
	return total
}

// IsFullyAssociated holds when the allocation sum matches the
// transaction amount exactly.
func IsFullyAssociated(tx BankTransaction) bool {
	return money.Equal(AssociatedTotal(tx), money.Abs(tx.Amount))
}

// RevenueNet prorates a gross revenue amount into its net part using
// the invoice's total/VAT ratio. Fails on a zero denominator.
func RevenueNet(amount, invoiceTotal, invoiceVAT money.Money) (money.Money, error) {
	return money.Div(money.Mul(amount, invoiceTotal), money.Add(invoiceTotal, invoiceVAT))
}

// RevenueVAT prorates a gross revenue amount into its VAT part. Note
// that RevenueNet+RevenueVAT may differ from the gross amount by a
// rounding unit; the two halves are divided independently.
func RevenueVAT(amount, invoiceTotal, invoiceVAT money.Money) (money.Money, error) {
	return money.Div(money.Mul(amount, invoiceVAT), money.Add(invoiceTotal, invoiceVAT))
}

// PaidPart sums the revenue amounts already allocated to an invoice.
func PaidPart(revenues []Revenue) money.Money {
	total := money.Zero()
	for _, r := range revenues {
		total = money.Add(total, r.Amount)
	}
	return total
}

// IsFullyPaid holds when the allocated revenues cover the invoice's
// total including VAT.
func IsFullyPaid(invoiceTotal, invoiceVAT money.Money, revenues []Revenue) bool {
	return money.Equal(money.Add(invoiceTotal, invoiceVAT), PaidPart(revenues))
}
