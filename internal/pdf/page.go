package pdf

// Drawing primitives. Pages collect ops in paint order; the renderer
// replays them verbatim, so everything about pagination is decided
// before a single byte of PDF exists.

type Align string

const (
	AlignLeft   Align = "L"
	AlignRight  Align = "R"
	AlignCenter Align = "C"
)

type Op interface{ op() }

// TextOp draws a single line of text in the box (X, Y, W, line height).
type TextOp struct {
	X, Y, W float64
	Text    string
	Font    Font
	Color   Color
	Align   Align
}

// RectOp draws a filled rectangle.
type RectOp struct {
	X, Y, W, H float64
	Fill       Color
}

// LineOp draws a stroked line.
type LineOp struct {
	X1, Y1, X2, Y2 float64
	Width          float64
}

func (TextOp) op() {}
func (RectOp) op() {}
func (LineOp) op() {}

type Page struct {
	Ops []Op
}

// Measurer provides the text metrics the layout pass needs. The
// production implementation delegates to the PDF backend's font
// metrics; tests use a fixed-width fake.
type Measurer interface {
	TextWidth(text string, f Font) float64
	// SplitLines word-wraps text into lines no wider than width.
	SplitLines(text string, f Font, width float64) []string
	LineHeight(f Font) float64
}

// pageBuilder owns the page list and the content cursor of the first
// pass. The stamping pass never touches the cursor.
type pageBuilder struct {
	style Style
	m     Measurer
	pages []Page
	y     float64
}

func newPageBuilder(style Style, m Measurer) *pageBuilder {
	b := &pageBuilder{style: style, m: m}
	b.addPage()
	return b
}

func (b *pageBuilder) addPage() {
	b.pages = append(b.pages, Page{})
	b.y = b.style.MarginTop
}

func (b *pageBuilder) page() *Page {
	return &b.pages[len(b.pages)-1]
}

func (b *pageBuilder) bottom() float64 {
	return pageHeight - b.style.MarginBottom
}

// fits reports whether a block of the given height still fits above the
// bottom margin of the current page.
func (b *pageBuilder) fits(height float64) bool {
	return b.y+height <= b.bottom()
}

func (b *pageBuilder) add(op Op) {
	page := b.page()
	page.Ops = append(page.Ops, op)
}

func (b *pageBuilder) text(x, y, w float64, text string, f Font, c Color, align Align) {
	b.add(TextOp{X: x, Y: y, W: w, Text: text, Font: f, Color: c, Align: align})
}

// writeLines emits pre-wrapped lines top to bottom starting at the
// cursor and advances it.
func (b *pageBuilder) writeLines(x, w float64, lines []string, f Font, c Color, align Align) {
	lh := b.m.LineHeight(f)
	for _, line := range lines {
		b.text(x, b.y, w, line, f, c, align)
		b.y += lh
	}
}

// moveDown advances the cursor by n line heights of the given font.
func (b *pageBuilder) moveDown(n float64, f Font) {
	b.y += n * b.m.LineHeight(f)
}
