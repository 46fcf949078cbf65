package siebel

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Cell pairs a cell's displayed text with a positional selector that can
// re-locate it for a later click. The selector is computed from row/column
// position, so it is only valid until the next DOM mutation.
type Cell struct {
	Text     string
	Selector string
}

// Row is one table row.
type Row []Cell

// Table is a snapshot of an on-screen tabular region. It is produced fresh
// on every extraction; never reuse a snapshot across a write that could
// re-render the region.
type Table []Row

// ExtractTable waits up to timeout for the table region to become visible,
// waits for the UI to settle, and walks all rows and cells. The timeout must
// be bounded (> 0): call sites rely on the distinction between "table never
// rendered" (ErrTableTimeout) and a genuine failure, and that distinction
// must be observable within a fixed budget.
func (d *Driver) ExtractTable(tableSelector string, timeout time.Duration) (Table, error) {
	if timeout <= 0 {
		return nil, fmt.Errorf("extract table %s: bounded timeout required", tableSelector)
	}

	err := d.page.WaitForSelector(tableSelector, "visible", float64(timeout.Milliseconds()))
	if err != nil {
		if errors.Is(err, ErrTimeout) {
			return nil, fmt.Errorf("%w: %s", ErrTableTimeout, tableSelector)
		}
		return nil, err
	}
	if err := d.settle(); err != nil {
		return nil, err
	}

	root, err := d.page.QuerySelector(tableSelector)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, tableSelector)
	}

	rows, err := root.QuerySelectorAll("tr")
	if err != nil {
		return nil, err
	}

	table := make(Table, 0, len(rows))
	for i, row := range rows {
		cells, err := row.QuerySelectorAll("td")
		if err != nil {
			return nil, err
		}
		tableRow := make(Row, 0, len(cells))
		for j, cell := range cells {
			text, err := cell.TextContent()
			if err != nil {
				return nil, err
			}
			tableRow = append(tableRow, Cell{
				Text:     text,
				Selector: fmt.Sprintf("%s tr:nth-child(%d) td:nth-child(%d)", tableSelector, i+1, j+1),
			})
		}
		table = append(table, tableRow)
	}

	d.log.Debugf("extracted %d rows from %s", len(table), tableSelector)
	return table, nil
}

// Column returns the cells of the given column for every row that has one.
func (t Table) Column(col int) []Cell {
	cells := make([]Cell, 0, len(t))
	for _, row := range t {
		if col < len(row) {
			cells = append(cells, row[col])
		}
	}
	return cells
}

// Index builds a lookup from the displayed text of the given column to that
// cell. Later rows win on duplicate keys. Cell text is trimmed.
func (t Table) Index(col int) map[string]Cell {
	index := make(map[string]Cell, len(t))
	for _, cell := range t.Column(col) {
		index[strings.TrimSpace(cell.Text)] = cell
	}
	return index
}

// MapColumns builds a lookup from the trimmed text of keyCol to the trimmed
// text of valCol, skipping rows missing either column.
func (t Table) MapColumns(keyCol, valCol int) map[string]string {
	m := make(map[string]string, len(t))
	for _, row := range t {
		if keyCol < len(row) && valCol < len(row) {
			m[strings.TrimSpace(row[keyCol].Text)] = strings.TrimSpace(row[valCol].Text)
		}
	}
	return m
}
