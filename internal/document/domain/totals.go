package domain

import "github.com/smallfirm/facture/internal/money"

// ItemTotal is the net amount of one line: price * quantity.
func ItemTotal(item LineItem) money.Money {
	return money.Mul(item.Price, item.Quantity)
}

// ItemVAT is the VAT amount of one line: net * rate.
func ItemVAT(item LineItem) money.Money {
	return money.Mul(ItemTotal(item), item.VATRate)
}

// DocumentTotal sums net amounts over all items.
func DocumentTotal(items []LineItem) money.Money {
	total := money.Zero()
	for _, item := range items {
		total = money.Add(total, ItemTotal(item))
	}
	return total
}

// DocumentVAT sums VAT amounts over all items.
func DocumentVAT(items []LineItem) money.Money {
	total := money.Zero()
	for _, item := range items {
		total = money.Add(total, ItemVAT(item))
	}
	return total
}
