package pdf

// Table rendering: bordered grids placed at the current cursor position.
// Section-level page breaks are decided by the layout engine before a table
// starts; the renderer only inserts continuation pages mid-table, repeating
// the header row on each one.

const (
	headRowHeight = 18.0
	bodyRowHeight = 16.0
	cellInset     = 3.0
)

// Column describes one table column.
type Column struct {
	Header string
	// Width in layout units; zero means an equal share of the width left
	// over after the fixed columns.
	Width float64
	// Align is the gofpdf alignment string ("L", "C", "R"); empty means "L".
	Align string
	// Emphasis columns carry derived/summary values and get a distinct fill.
	Emphasis bool
}

// Table is a header row plus a body matrix. Empty Rows is valid input and
// renders a header-only table.
type Table struct {
	Columns []Column
	Rows    [][]string
}

// columnWidths resolves fixed and flexible column widths against the content
// width. Flexible columns split whatever the fixed ones leave over.
func columnWidths(cols []Column, contentWidth float64) []float64 {
	widths := make([]float64, len(cols))
	fixed := 0.0
	flexible := 0
	for i, col := range cols {
		if col.Width > 0 {
			widths[i] = col.Width
			fixed += col.Width
		} else {
			flexible++
		}
	}
	if flexible == 0 {
		return widths
	}
	share := (contentWidth - fixed) / float64(flexible)
	if share < 0 {
		share = 0
	}
	for i, col := range cols {
		if col.Width <= 0 {
			widths[i] = share
		}
	}
	return widths
}

// continuationPages reports how many extra pages the renderer will open for
// the given number of body rows starting at cur.
func continuationPages(rowCount int, cur Cursor) int {
	pages := 0
	y := cur.Y + headRowHeight
	limit := cur.PageHeight - cur.MarginBottom
	for i := 0; i < rowCount; i++ {
		if y+bodyRowHeight > limit {
			pages++
			y = cur.MarginTop + headRowHeight
		}
		y += bodyRowHeight
	}
	return pages
}

func (r *run) renderTable(t Table) {
	widths := columnWidths(t.Columns, r.cur.ContentWidth())
	r.renderTableHead(t, widths)

	limit := r.cur.PageHeight - r.cur.MarginBottom
	for _, row := range t.Rows {
		if r.cur.Y+bodyRowHeight > limit {
			r.newPage()
			r.renderTableHead(t, widths)
		}
		r.renderTableRow(t, widths, row)
	}
	r.cur = r.cur.Advance(6)
}

func (r *run) renderTableHead(t Table, widths []float64) {
	doc := r.doc
	doc.SetFont(fontFamily, "B", 8)
	doc.SetFillColor(229, 231, 235)
	doc.SetTextColor(0, 0, 0)
	doc.SetDrawColor(156, 163, 175)
	doc.SetXY(r.cur.MarginLeft, r.cur.Y)
	for i, col := range t.Columns {
		doc.CellFormat(widths[i], headRowHeight, r.fitText(col.Header, widths[i]), "1", 0, "C", true, 0, "")
	}
	r.cur = r.cur.Advance(headRowHeight)
}

func (r *run) renderTableRow(t Table, widths []float64, row []string) {
	doc := r.doc
	doc.SetFont(fontFamily, "", 8)
	doc.SetDrawColor(209, 213, 219)
	doc.SetXY(r.cur.MarginLeft, r.cur.Y)
	for i, col := range t.Columns {
		value := ""
		if i < len(row) {
			value = row[i]
		}
		align := col.Align
		if align == "" {
			align = "L"
		}
		fill := false
		if col.Emphasis {
			doc.SetFillColor(219, 234, 254)
			fill = true
		}
		doc.CellFormat(widths[i], bodyRowHeight, r.fitText(value, widths[i]), "1", 0, align, fill, 0, "")
	}
	r.cur = r.cur.Advance(bodyRowHeight)
}

// fitText trims a cell value until it fits the column width at the currently
// selected font.
func (r *run) fitText(s string, width float64) string {
	max := width - 2*cellInset
	if max <= 0 {
		return ""
	}
	for len(s) > 0 && r.doc.GetStringWidth(s) > max {
		s = s[:len(s)-1]
	}
	return s
}
