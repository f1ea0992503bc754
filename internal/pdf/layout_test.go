package pdf

import (
	"fmt"
	"strings"
	"testing"
	"time"

	bankingdomain "github.com/smallfirm/facture/internal/banking/domain"
	companydomain "github.com/smallfirm/facture/internal/company/domain"
	documentdomain "github.com/smallfirm/facture/internal/document/domain"
	"github.com/smallfirm/facture/internal/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMeasurer uses fixed-width character metrics so pagination is
// deterministic and independent of any font file.
type fakeMeasurer struct{}

func (fakeMeasurer) TextWidth(text string, f Font) float64 {
	return float64(len([]rune(text))) * f.Size * 0.6
}

func (m fakeMeasurer) SplitLines(text string, f Font, width float64) []string {
	return wrapText(text, f, width, m.TextWidth)
}

func (fakeMeasurer) LineHeight(f Font) float64 {
	return f.Size * 1.2
}

func testCompany() companydomain.CompanyInfo {
	return companydomain.CompanyInfo{
		Name:        "Jean Dupont",
		LegalStatus: "EI",
		Siren:       "123456789",
		Siret:       "12345678900011",
		VAT:         "FR32123456789",
		Address:     "1 rue de la Paix, 75002 Paris",
		Mail:        "jean@example.com",
	}
}

func testBank() bankingdomain.BankAccount {
	return bankingdomain.BankAccount{
		Bank: "Qonto",
		IBAN: "FR7616798000010000012345678",
		RIB:  "00001234567",
		BIC:  "TRZOFR21XXX",
	}
}

func testSnapshot(items int) documentdomain.Snapshot {
	snap := documentdomain.Snapshot{
		Kind:          documentdomain.KindInvoice,
		Number:        "202504-001",
		Customer:      documentdomain.Customer{Name: "ACME SAS", Siren: "987654321"},
		IssueDate:     time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC),
		ExecutionDate: time.Date(2025, 4, 30, 0, 0, 0, 0, time.UTC),
	}
	for i := 0; i < items; i++ {
		var words []string
		for j := 0; j < 30; j++ {
			words = append(words, fmt.Sprintf("d%02dw%02d", i, j))
		}
		snap.Items = append(snap.Items, documentdomain.LineItem{
			Title:       fmt.Sprintf("T%02d", i),
			Description: strings.Join(words, " "),
			Quantity:    money.New(2),
			Unit:        documentdomain.UnitDay,
			Price:       money.MustFromString("500"),
			VATRate:     money.MustFromString("0.2"),
			Index:       i,
		})
	}
	return snap
}

func pagesContaining(pages []Page, substr string) []int {
	var hits []int
	for i, page := range pages {
		for _, op := range page.Ops {
			if text, ok := op.(TextOp); ok && strings.Contains(text.Text, substr) {
				hits = append(hits, i)
				break
			}
		}
	}
	return hits
}

func TestLayoutEmptyDocument(t *testing.T) {
	_, err := Layout(documentdomain.Snapshot{Kind: documentdomain.KindInvoice}, testCompany(), testBank(), fakeMeasurer{}, DefaultStyle())
	require.ErrorIs(t, err, documentdomain.ErrEmptyDocument)
}

func TestLayoutSingleItemFitsOnePage(t *testing.T) {
	pages, err := Layout(testSnapshot(1), testCompany(), testBank(), fakeMeasurer{}, DefaultStyle())
	require.NoError(t, err)
	require.Len(t, pages, 1)

	assert.NotEmpty(t, pagesContaining(pages, "FACTURE"))
	assert.NotEmpty(t, pagesContaining(pages, "Prestation"))
	assert.NotEmpty(t, pagesContaining(pages, "Total TTC"))
	assert.NotEmpty(t, pagesContaining(pages, "1 / 1"))
}

func TestLayoutRowsNeverSplitAcrossPages(t *testing.T) {
	pages, err := Layout(testSnapshot(25), testCompany(), testBank(), fakeMeasurer{}, DefaultStyle())
	require.NoError(t, err)
	require.Greater(t, len(pages), 1)

	for i := 0; i < 25; i++ {
		marker := fmt.Sprintf("d%02dw", i)
		hits := pagesContaining(pages, marker)
		require.NotEmpty(t, hits, "item %d missing", i)
		assert.Len(t, hits, 1, "item %d spans pages %v", i, hits)

		titleHits := pagesContaining(pages, fmt.Sprintf("T%02d", i))
		assert.Equal(t, hits, titleHits, "item %d title and description on different pages", i)
	}
}

func TestLayoutRedrawsTableHeaderOnEveryRowPage(t *testing.T) {
	pages, err := Layout(testSnapshot(25), testCompany(), testBank(), fakeMeasurer{}, DefaultStyle())
	require.NoError(t, err)

	headerPages := pagesContaining(pages, "Prestation")
	for i := 0; i < 25; i++ {
		rowPages := pagesContaining(pages, fmt.Sprintf("T%02d", i))
		require.Len(t, rowPages, 1)
		assert.Contains(t, headerPages, rowPages[0], "row page %d lacks table header", rowPages[0])
	}
}

func TestLayoutStampsEveryPage(t *testing.T) {
	pages, err := Layout(testSnapshot(25), testCompany(), testBank(), fakeMeasurer{}, DefaultStyle())
	require.NoError(t, err)

	count := len(pages)
	for i := range pages {
		assert.NotEmpty(t, pagesContaining(pages[i:i+1], fmt.Sprintf("%d / %d", i+1, count)),
			"page %d missing page counter", i)
		assert.NotEmpty(t, pagesContaining(pages[i:i+1], "Facture N°202504-001"), "page %d missing header", i)
		assert.NotEmpty(t, pagesContaining(pages[i:i+1], "SIREN 123456789"), "page %d missing legal footer", i)
	}
}

func TestLayoutQuotationUsesDevisHeading(t *testing.T) {
	snap := testSnapshot(1)
	snap.Kind = documentdomain.KindQuotation
	snap.Validity = 30

	pages, err := Layout(snap, testCompany(), testBank(), fakeMeasurer{}, DefaultStyle())
	require.NoError(t, err)

	assert.NotEmpty(t, pagesContaining(pages, "DEVIS"))
	assert.NotEmpty(t, pagesContaining(pages, "Devis N°202504-001"))
	assert.Empty(t, pagesContaining(pages, "FACTURE"))
}
