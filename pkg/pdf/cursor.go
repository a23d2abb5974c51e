package pdf

// A4 portrait in points.
const (
	pageWidthPt  = 595.28
	pageHeightPt = 841.89

	marginLeft   = 40.0
	marginRight  = 40.0
	marginTop    = 40.0
	marginBottom = 60.0
)

// Cursor is the running vertical writing position during one generation run.
// It is a value: section placers take a cursor and return the updated one.
type Cursor struct {
	PageWidth    float64
	PageHeight   float64
	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64
	Y            float64
	Page         int
}

// NewCursor positions the cursor at the top margin of the first page.
func NewCursor() Cursor {
	return Cursor{
		PageWidth:    pageWidthPt,
		PageHeight:   pageHeightPt,
		MarginLeft:   marginLeft,
		MarginRight:  marginRight,
		MarginTop:    marginTop,
		MarginBottom: marginBottom,
		Y:            marginTop,
		Page:         1,
	}
}

// ContentWidth is the horizontal span available between the margins.
func (c Cursor) ContentWidth() float64 {
	return c.PageWidth - c.MarginLeft - c.MarginRight
}

// Remaining is the vertical space left on the current page.
func (c Cursor) Remaining() float64 {
	return c.PageHeight - c.MarginBottom - c.Y
}

// NeedsBreak reports whether fewer than reserve units remain on the page.
func (c Cursor) NeedsBreak(reserve float64) bool {
	return c.Remaining() < reserve
}

// Advance moves the cursor down by dy on the current page.
func (c Cursor) Advance(dy float64) Cursor {
	c.Y += dy
	return c
}

// NextPage resets the cursor to the top margin of a fresh page.
func (c Cursor) NextPage() Cursor {
	c.Y = c.MarginTop
	c.Page++
	return c
}
