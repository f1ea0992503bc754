package pdf

import (
	"fmt"
	"strings"

	bankingdomain "github.com/smallfirm/facture/internal/banking/domain"
	companydomain "github.com/smallfirm/facture/internal/company/domain"
	documentdomain "github.com/smallfirm/facture/internal/document/domain"
	"github.com/smallfirm/facture/internal/money"
)

var (
	fontReg8   = Font{Size: 8}
	fontReg9   = Font{Size: 9}
	fontReg10  = Font{Size: 10}
	fontBold10 = Font{Size: 10, Bold: true}
	fontReg12  = Font{Size: 12}
	fontBold12 = Font{Size: 12, Bold: true}
	fontReg14  = Font{Size: 14}
	fontBold14 = Font{Size: 14, Bold: true}
)

// Item table: proportional column weights against the printable width.
var (
	tableHeaders = []string{"Prestation", "Quantité", "TVA", "Unité HT", "HT", "TTC"}
	tableWeights = []float64{12, 3, 2, 3, 3, 3}
)

const descriptionIndent = 10

type layout struct {
	*pageBuilder
	snap    documentdomain.Snapshot
	company companydomain.CompanyInfo
	bank    bankingdomain.BankAccount
	colW    []float64
}

// Layout produces the full page list for a document snapshot. Pass 1
// lays out content with measured heights; pass 2 stamps headers and
// footers onto every finished page.
func Layout(snap documentdomain.Snapshot, company companydomain.CompanyInfo, bank bankingdomain.BankAccount, m Measurer, style Style) ([]Page, error) {
	if len(snap.Items) == 0 {
		return nil, documentdomain.ErrEmptyDocument
	}

	l := &layout{
		pageBuilder: newPageBuilder(style, m),
		snap:        snap,
		company:     company,
		bank:        bank,
	}

	weightSum := 0.0
	for _, w := range tableWeights {
		weightSum += w
	}
	factor := style.printableWidth() / weightSum
	for _, w := range tableWeights {
		l.colW = append(l.colW, w*factor)
	}

	l.companyBlock()
	l.titleBlock()
	l.customerBlock()
	l.itemTable()
	l.totalsBlock()
	l.paymentAndConditions()

	l.stamp()
	return l.pages, nil
}

func (l *layout) lh(f Font) float64 { return l.m.LineHeight(f) }

func (l *layout) companyBlock() {
	l.moveDown(0.5, fontReg10)
	top := l.y
	left := l.style.MarginLeft
	w := l.style.printableWidth()

	l.text(left, l.y, w, strings.TrimSpace(l.company.Name+" "+l.company.LegalStatus), fontBold12, l.style.Normal, AlignLeft)
	l.y += l.lh(fontBold12)
	l.text(left, l.y, w, "SIRET : "+l.company.Siret, fontReg10, l.style.Normal, AlignLeft)
	l.y += l.lh(fontReg10)
	l.text(left, l.y, w, "TVA : "+l.company.VAT, fontReg10, l.style.Normal, AlignLeft)
	l.y += l.lh(fontReg10)

	y := top
	for _, line := range []string{l.company.Mail, l.company.PhoneNumber, l.company.Address} {
		l.text(left, y, w, line, fontReg10, l.style.Normal, AlignRight)
		y += l.lh(fontReg10)
	}
	if y > l.y {
		l.y = y
	}
}

func (l *layout) titleBlock() {
	left := l.style.MarginLeft
	w := l.style.printableWidth()

	heading := "FACTURE"
	if l.snap.Kind == documentdomain.KindQuotation {
		heading = "DEVIS"
	}

	l.moveDown(2, fontReg12)
	l.text(left, l.y, w, heading, fontBold14, l.style.Normal, AlignCenter)
	l.y += l.lh(fontBold14)
	l.text(left, l.y, w, "N°"+l.snap.Number, fontReg14, l.style.Normal, AlignCenter)
	l.y += l.lh(fontReg14)

	if l.snap.Title != "" {
		l.moveDown(1.5, fontReg12)
		l.text(left, l.y, w, l.snap.Title, fontReg12, l.style.Normal, AlignLeft)
		l.y += l.lh(fontReg12)
	}
}

func (l *layout) customerBlock() {
	left := l.style.MarginLeft
	valueX := left + 80
	valueW := l.style.printableWidth() - 80

	dateLabel, dateValue := "EXÉCUTION", l.snap.ExecutionDate
	if l.snap.Kind == documentdomain.KindQuotation {
		dateLabel = "VALIDITÉ"
		dateValue = l.snap.IssueDate.AddDate(0, 0, l.snap.Validity)
	}

	rows := []struct{ label, value string }{
		{"CLIENT", l.snap.Customer.Name},
		{"SIREN", l.snap.Customer.Siren},
		{"N°TVA", l.snap.Customer.VAT},
		{"ADRESSE", strings.ReplaceAll(l.snap.Customer.Address, "\n", ", ")},
		{"ÉMIS LE", FormatDate(l.snap.IssueDate)},
		{dateLabel, FormatDate(dateValue)},
	}

	l.moveDown(1.5, fontReg10)
	for _, row := range rows {
		l.text(left, l.y, 75, row.label, fontReg10, l.style.Light, AlignLeft)
		l.text(valueX, l.y, valueW, row.value, fontReg10, l.style.Normal, AlignLeft)
		l.y += l.lh(fontReg10)
	}
}

func (l *layout) tableHeader() {
	left := l.style.MarginLeft
	h := l.lh(fontBold10)

	l.add(RectOp{X: left - 5, Y: l.y - 4, W: l.style.printableWidth() + 10, H: h + 8, Fill: l.style.Shading})

	x := left
	for i, header := range tableHeaders {
		align := AlignRight
		if i == 0 {
			align = AlignLeft
		}
		l.text(x, l.y, l.colW[i], header, fontBold10, l.style.Normal, align)
		x += l.colW[i]
	}
	l.y += h
}

// itemTable lays out one measured row per item. A row is measured
// before any ink is emitted and never spans two pages; when it does not
// fit, a fresh page starts with the table header redrawn.
func (l *layout) itemTable() {
	left := l.style.MarginLeft

	l.moveDown(1.5, fontReg10)
	l.tableHeader()

	for _, item := range l.snap.Items {
		l.moveDown(1, fontReg10)

		titleLines := l.m.SplitLines(item.Title, fontBold10, l.colW[0])
		descLines := l.m.SplitLines(item.Description, fontReg9, l.colW[0]-descriptionIndent)
		rowHeight := float64(len(titleLines))*l.lh(fontBold10) + float64(len(descLines))*l.lh(fontReg9)

		if !l.fits(rowHeight) {
			l.addPage()
			l.moveDown(1, fontReg10)
			l.tableHeader()
			l.moveDown(1, fontReg10)
		}

		rowTop := l.y
		net := documentdomain.ItemTotal(item)
		gross := money.Mul(money.Add(money.New(1), item.VATRate), net)
		cells := []string{
			FormatQuantity(item.Quantity, item.Unit),
			FormatPercent(item.VATRate),
			FormatAmount(item.Price),
			FormatAmount(net),
			FormatAmount(gross),
		}

		cellY := rowTop + (rowHeight-l.lh(fontReg10))/2
		x := left
		for i, cell := range cells {
			x += l.colW[i]
			l.text(x, cellY, l.colW[i+1], cell, fontReg10, l.style.Normal, AlignRight)
		}

		y := rowTop
		for _, line := range titleLines {
			l.text(left, y, l.colW[0], line, fontBold10, l.style.Normal, AlignLeft)
			y += l.lh(fontBold10)
		}
		for _, line := range descLines {
			l.text(left+descriptionIndent, y, l.colW[0]-descriptionIndent, line, fontReg9, l.style.Normal, AlignLeft)
			y += l.lh(fontReg9)
		}

		l.y = rowTop + rowHeight
	}
}

func (l *layout) totalsBlock() {
	height := l.lh(fontReg10) + l.lh(fontReg8) + l.lh(fontBold10) + 50

	if !l.fits(height) {
		l.addPage()
		l.moveDown(1, fontReg10)
	} else {
		l.moveDown(4, fontReg10)
	}

	total := documentdomain.DocumentTotal(l.snap.Items)
	vat := documentdomain.DocumentVAT(l.snap.Items)
	gross := money.Add(total, vat)

	x := l.style.MarginLeft + 340
	w := pageWidth - l.style.MarginRight - x

	l.text(x, l.y, w, "Total HT", fontReg10, l.style.Normal, AlignLeft)
	l.text(x, l.y, w, FormatAmount(total), fontReg10, l.style.Normal, AlignRight)
	l.y += l.lh(fontReg10)

	l.text(x, l.y, w, "Total TVA", fontReg8, l.style.Normal, AlignLeft)
	l.text(x, l.y, w, FormatAmount(vat), fontReg8, l.style.Normal, AlignRight)
	l.y += l.lh(fontReg8)

	l.moveDown(0.5, fontReg10)
	l.text(x, l.y, w, "Total TTC", fontBold10, l.style.Accent, AlignLeft)
	l.text(x, l.y, w, FormatAmount(gross), fontBold10, l.style.Accent, AlignRight)
	l.y += l.lh(fontBold10)
}

// paymentAndConditions pins the banking details and the custom footer
// text to the bottom of the page, spilling onto a new page when the
// remaining space cannot hold them.
func (l *layout) paymentAndConditions() {
	left := l.style.MarginLeft
	valueX := left + 80
	valueW := l.style.printableWidth() - 80

	footer := l.company.InvoiceCustomFooter
	if l.snap.Kind == documentdomain.KindQuotation {
		footer = l.company.QuotationCustomFooter
	}
	condLines := l.m.SplitLines(footer, fontReg8, valueW)

	paymentHeight := l.lh(fontBold12) + l.lh(fontReg10) + l.lh(fontReg8)
	condHeight := float64(len(condLines)) * l.lh(fontReg8)
	if h := l.lh(fontBold12); condHeight < h {
		condHeight = h
	}
	gap := 3 * l.lh(fontReg10)
	total := paymentHeight + gap + condHeight

	if !l.fits(total) {
		l.addPage()
	}
	y := l.bottom() - total
	if y < l.y {
		y = l.y
	}

	l.text(left, y, 80, "PAIEMENT", fontBold12, l.style.Normal, AlignLeft)
	y += l.lh(fontBold12)
	y = l.labeledLine(valueX, y, fontReg10, []labeledSegment{
		{"Banque : ", true}, {l.bank.Bank, false},
	})
	y = l.labeledLine(valueX, y, fontReg8, []labeledSegment{
		{"IBAN : ", true}, {l.bank.IBAN + "  ", false},
		{"RIB : ", true}, {l.bank.RIB + "  ", false},
		{"BIC : ", true}, {l.bank.BIC, false},
	})

	y += gap
	l.text(left, y, 80, "CONDITIONS", fontBold12, l.style.Normal, AlignLeft)
	condY := y
	for _, line := range condLines {
		l.text(valueX, condY, valueW, line, fontReg8, l.style.Normal, AlignLeft)
		condY += l.lh(fontReg8)
	}
	l.y = y + condHeight
}

type labeledSegment struct {
	text  string
	light bool
}

// labeledLine emits alternating light/normal segments on one line,
// advancing x by each segment's measured width.
func (l *layout) labeledLine(x, y float64, f Font, segments []labeledSegment) float64 {
	for _, seg := range segments {
		color := l.style.Normal
		if seg.light {
			color = l.style.Light
		}
		w := l.m.TextWidth(seg.text, f)
		l.text(x, y, w, seg.text, f, color, AlignLeft)
		x += w
	}
	return y + l.lh(f)
}

// stamp writes headers and footers over the finished page list using
// the full page bounds. It runs after the content pass and never moves
// the content cursor.
func (l *layout) stamp() {
	left := l.style.MarginLeft
	w := l.style.printableWidth()

	kind := "Facture"
	if l.snap.Kind == documentdomain.KindQuotation {
		kind = "Devis"
	}
	headerText := fmt.Sprintf("%s N°%s", kind, l.snap.Number)
	identity := strings.TrimSpace(l.company.Name + " " + l.company.LegalStatus)
	legalLine := fmt.Sprintf("SIREN %s - SIRET %s - VAT %s", l.company.Siren, l.company.Siret, l.company.VAT)

	count := len(l.pages)
	for i := range l.pages {
		p := &l.pages[i]
		p.Ops = append(p.Ops,
			TextOp{X: left, Y: 34, W: w, Text: headerText, Font: fontReg10, Color: l.style.Normal, Align: AlignRight},
			LineOp{X1: 47, Y1: l.style.MarginTop - 5, X2: pageWidth - 47, Y2: l.style.MarginTop - 5, Width: 0.3},
			LineOp{X1: 47, Y1: pageHeight - l.style.MarginBottom + 5, X2: pageWidth - 47, Y2: pageHeight - l.style.MarginBottom + 5, Width: 0.3},
			TextOp{X: left, Y: pageHeight - 65, W: w, Text: identity, Font: fontReg10, Color: l.style.Normal, Align: AlignLeft},
			TextOp{X: left, Y: pageHeight - 50, W: w, Text: legalLine, Font: fontReg10, Color: l.style.Normal, Align: AlignLeft},
			TextOp{X: left, Y: pageHeight - 50, W: w, Text: fmt.Sprintf("%d / %d", i+1, count), Font: fontReg10, Color: l.style.Normal, Align: AlignRight},
		)
	}
}
