package domain

import (
	"testing"

	"github.com/smallfirm/facture/internal/money"
	"github.com/stretchr/testify/assert"
)

func item(qty, price, vat string) LineItem {
	return LineItem{
		Quantity: money.MustFromString(qty),
		Price:    money.MustFromString(price),
		VATRate:  money.MustFromString(vat),
	}
}

func TestItemTotal(t *testing.T) {
	it := item("7", "500", "0.2")

	assert.True(t, money.Equal(money.MustFromString("3500"), ItemTotal(it)))
	assert.True(t, money.Equal(money.MustFromString("700"), ItemVAT(it)))
}

func TestItemTotalFractionalQuantityIsExact(t *testing.T) {
	// 2.5 days at 460.10 with 20% VAT; float64 would drift here.
	it := item("2.5", "460.10", "0.2")

	assert.True(t, money.Equal(money.MustFromString("1150.25"), ItemTotal(it)))
	assert.True(t, money.Equal(money.MustFromString("230.05"), ItemVAT(it)))
}

func TestDocumentTotals(t *testing.T) {
	items := []LineItem{
		item("7", "500", "0.2"),
		item("3", "100.10", "0.1"),
	}

	assert.True(t, money.Equal(money.MustFromString("3800.30"), DocumentTotal(items)))
	assert.True(t, money.Equal(money.MustFromString("730.03"), DocumentVAT(items)))
}

func TestDocumentTotalsEmpty(t *testing.T) {
	assert.True(t, money.IsZero(DocumentTotal(nil)))
	assert.True(t, money.IsZero(DocumentVAT(nil)))
}
