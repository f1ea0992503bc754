package domain

import (
	"testing"

	"github.com/smallfirm/facture/internal/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreditDebitZeroIsNeither(t *testing.T) {
	credit := BankTransaction{Amount: money.MustFromString("1000")}
	debit := BankTransaction{Amount: money.MustFromString("-59.99")}
	zero := BankTransaction{Amount: money.Zero()}

	assert.True(t, IsCredit(credit))
	assert.False(t, IsDebit(credit))
	assert.True(t, IsDebit(debit))
	assert.False(t, IsCredit(debit))
	assert.False(t, IsCredit(zero))
	assert.False(t, IsDebit(zero))
}

func TestCreditAssociation(t *testing.T) {
	tx := BankTransaction{Amount: money.MustFromString("1000")}

	assert.False(t, HasAssociation(tx))
	assert.False(t, IsFullyAssociated(tx))

	tx.Revenues = append(tx.Revenues, Revenue{Amount: money.MustFromString("600")})
	assert.True(t, HasAssociation(tx))
	assert.False(t, IsFullyAssociated(tx))
	assert.True(t, money.Equal(money.MustFromString("600"), AssociatedTotal(tx)))

	tx.Revenues = append(tx.Revenues, Revenue{Amount: money.MustFromString("400")})
	assert.True(t, IsFullyAssociated(tx))
}

func TestDebitAssociationSumsAmountPlusVAT(t *testing.T) {
	tx := BankTransaction{Amount: money.MustFromString("-120")}
	tx.Purchases = append(tx.Purchases, Purchase{
		Amount: money.MustFromString("100"),
		VAT:    money.MustFromString("20"),
	})

	assert.True(t, HasAssociation(tx))
	assert.True(t, IsFullyAssociated(tx))
}

func TestRevenueProration(t *testing.T) {
	total := money.MustFromString("1000")
	vat := money.MustFromString("200")
	amount := money.MustFromString("600")

	net, err := RevenueNet(amount, total, vat)
	require.NoError(t, err)
	gross, err := RevenueVAT(amount, total, vat)
	require.NoError(t, err)

	assert.True(t, money.Equal(money.MustFromString("500"), net))
	assert.True(t, money.Equal(money.MustFromString("100"), gross))
}

func TestRevenueProrationZeroDenominator(t *testing.T) {
	_, err := RevenueNet(money.MustFromString("600"), money.Zero(), money.Zero())
	require.ErrorIs(t, err, money.ErrDivisionByZero)

	_, err = RevenueVAT(money.MustFromString("600"), money.Zero(), money.Zero())
	require.ErrorIs(t, err, money.ErrDivisionByZero)
}

func TestPaidPart(t *testing.T) {
	revenues := []Revenue{
		{Amount: money.MustFromString("600")},
		{Amount: money.MustFromString("600")},
	}
	total := money.MustFromString("1000")
	vat := money.MustFromString("200")

	assert.True(t, money.Equal(money.MustFromString("1200"), PaidPart(revenues)))
	assert.True(t, IsFullyPaid(total, vat, revenues))
	assert.False(t, IsFullyPaid(total, vat, revenues[:1]))
}
