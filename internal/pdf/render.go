package pdf

import (
	"bytes"
	"strings"

	"github.com/phpdave11/gofpdf"
	bankingdomain "github.com/smallfirm/facture/internal/banking/domain"
	companydomain "github.com/smallfirm/facture/internal/company/domain"
	documentdomain "github.com/smallfirm/facture/internal/document/domain"
)

// Render lays out the snapshot and emits the page list as PDF bytes.
// The whole transform is pure and CPU-bound; concurrent renders of
// different documents share no state.
func Render(snap documentdomain.Snapshot, company companydomain.CompanyInfo, bank bankingdomain.BankAccount, style Style) ([]byte, error) {
	doc := gofpdf.New("P", "pt", "A4", "")
	doc.SetAutoPageBreak(false, 0)

	m := &fpdfMeasurer{doc: doc, translate: doc.UnicodeTranslatorFromDescriptor("")}

	pages, err := Layout(snap, company, bank, m, style)
	if err != nil {
		return nil, err
	}

	for _, page := range pages {
		doc.AddPage()
		for _, op := range page.Ops {
			switch o := op.(type) {
			case RectOp:
				doc.SetFillColor(o.Fill.R, o.Fill.G, o.Fill.B)
				doc.Rect(o.X, o.Y, o.W, o.H, "F")
			case LineOp:
				doc.SetDrawColor(0, 0, 0)
				doc.SetLineWidth(o.Width)
				doc.Line(o.X1, o.Y1, o.X2, o.Y2)
			case TextOp:
				m.setFont(o.Font)
				doc.SetTextColor(o.Color.R, o.Color.G, o.Color.B)
				doc.SetXY(o.X, o.Y)
				doc.CellFormat(o.W, m.LineHeight(o.Font), m.translate(o.Text), "", 0, string(o.Align), false, 0, "")
			}
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fpdfMeasurer measures text against the backend's font metrics. The
// layout pass works on UTF-8 strings throughout; translation to the
// font's code page happens only for metric queries and final emission.
type fpdfMeasurer struct {
	doc       *gofpdf.Fpdf
	translate func(string) string
}

func (m *fpdfMeasurer) setFont(f Font) {
	style := ""
	if f.Bold {
		style = "B"
	}
	m.doc.SetFont("Helvetica", style, f.Size)
}

func (m *fpdfMeasurer) TextWidth(text string, f Font) float64 {
	m.setFont(f)
	return m.doc.GetStringWidth(m.translate(text))
}

func (m *fpdfMeasurer) SplitLines(text string, f Font, width float64) []string {
	return wrapText(text, f, width, m.TextWidth)
}

func (m *fpdfMeasurer) LineHeight(f Font) float64 {
	return f.Size * 1.2
}

// wrapText greedily word-wraps text into lines no wider than width. A
// single word wider than the column gets its own line rather than being
// split mid-word.
func wrapText(text string, f Font, width float64, widthOf func(string, Font) float64) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			candidate := line + " " + word
			if widthOf(candidate, f) > width {
				lines = append(lines, line)
				line = word
				continue
			}
			line = candidate
		}
		lines = append(lines, line)
	}
	return lines
}
