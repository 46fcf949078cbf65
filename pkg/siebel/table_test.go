package siebel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTableSelector = `table[summary="Promotions"] tbody`

func TestExtractTable(t *testing.T) {
	page := newFakePage()
	page.visible[testTableSelector] = tableOf([][]string{
		{"a1", "b1", "12902"},
		{"a2", "b2", "12903"},
	})
	d := newTestDriver(page)

	table, err := d.ExtractTable(testTableSelector, time.Second)
	require.NoError(t, err)
	require.Len(t, table, 2)
	require.Len(t, table[0], 3)

	assert.Equal(t, "12902", table[0][2].Text)
	assert.Equal(t, testTableSelector+" tr:nth-child(1) td:nth-child(3)", table[0][2].Selector)
	assert.Equal(t, testTableSelector+" tr:nth-child(2) td:nth-child(1)", table[1][0].Selector)
}

func TestExtractTableTimeout(t *testing.T) {
	page := newFakePage()
	d := newTestDriver(page)

	_, err := d.ExtractTable(testTableSelector, 10*time.Millisecond)
	assert.ErrorIs(t, err, ErrTableTimeout)
}

func TestExtractTableRequiresBoundedTimeout(t *testing.T) {
	page := newFakePage()
	page.visible[testTableSelector] = tableOf(nil)
	d := newTestDriver(page)

	_, err := d.ExtractTable(testTableSelector, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bounded timeout required")
	assert.NotErrorIs(t, err, ErrTableTimeout)
}

func TestTableColumn(t *testing.T) {
	table := Table{
		{{Text: "a"}, {Text: "b"}},
		{{Text: "c"}}, // short row is skipped for missing columns
		{{Text: "d"}, {Text: "e"}},
	}

	col := table.Column(1)
	require.Len(t, col, 2)
	assert.Equal(t, "b", col[0].Text)
	assert.Equal(t, "e", col[1].Text)
}

func TestTableIndex(t *testing.T) {
	table := Table{
		{{Text: " 80331 ", Selector: "s1"}},
		{{Text: "80333", Selector: "s2"}},
		{{Text: "80331", Selector: "s3"}}, // duplicate key: later row wins
	}

	index := table.Index(0)
	require.Len(t, index, 2)
	assert.Equal(t, "s3", index["80331"].Selector)
	assert.Equal(t, "s2", index["80333"].Selector)
}

func TestTableMapColumns(t *testing.T) {
	table := Table{
		{{Text: "id"}, {Text: "SKY ENTERTAINMENT"}, {Text: "12,50"}},
		{{Text: "id"}, {Text: "KIDS"}, {Text: "5,00"}},
		{{Text: "short"}},
	}

	m := table.MapColumns(1, 2)
	require.Len(t, m, 2)
	assert.Equal(t, "12,50", m["SKY ENTERTAINMENT"])
	assert.Equal(t, "5,00", m["KIDS"])
}

func TestExtractTableFreshSnapshot(t *testing.T) {
	page := newFakePage()
	page.visible[testTableSelector] = tableOf([][]string{{"v1"}})
	d := newTestDriver(page)

	first, err := d.ExtractTable(testTableSelector, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "v1", first[0][0].Text)

	// Re-render the region; a fresh extraction must see the new state.
	page.visible[testTableSelector] = tableOf([][]string{{"v2"}})
	second, err := d.ExtractTable(testTableSelector, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "v2", second[0][0].Text)
}
