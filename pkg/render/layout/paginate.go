package layout

import (
	"github.com/matzehuels/cardpress/pkg/cards"
	"github.com/matzehuels/cardpress/pkg/errors"
	"github.com/matzehuels/cardpress/pkg/render/draw"
)

// Page is one sheet worth of records, in fill order.
type Page struct {
	Number  int // 1-based
	Records []cards.Record
}

// Slot pairs a record with the rectangle it is drawn in.
type Slot struct {
	Index  int // position on the page, 0-based
	Rect   draw.Rect
	Record cards.Record
}

// Paginate splits records into consecutive pages of capacity records,
// keeping input order. Only the last page may be short; it is never padded.
// No records yields no pages. A non-positive capacity is an INVALID_CONFIG
// error.
func Paginate(records []cards.Record, capacity int) ([]Page, error) {
	if capacity <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "page capacity must be positive, got %d", capacity)
	}
	pages := make([]Page, 0, (len(records)+capacity-1)/capacity)
	for start := 0; start < len(records); start += capacity {
		end := min(start+capacity, len(records))
		pages = append(pages, Page{
			Number:  len(pages) + 1,
			Records: records[start:end:end],
		})
	}
	return pages, nil
}

// Bind pairs the page's records with grid rectangles by position. The grid
// must hold at least len(p.Records) rectangles; extra rectangles are unused.
func (p Page) Bind(grid []draw.Rect) []Slot {
	n := min(len(p.Records), len(grid))
	slots := make([]Slot, n)
	for j := 0; j < n; j++ {
		slots[j] = Slot{Index: j, Rect: grid[j], Record: p.Records[j]}
	}
	return slots
}

// Repeat returns each record copies times in a row, in order. It backs the
// duplicate option, which fills a sheet with one person's card. copies
// below 2 returns records unchanged.
func Repeat(records []cards.Record, copies int) []cards.Record {
	if copies < 2 {
		return records
	}
	out := make([]cards.Record, 0, len(records)*copies)
	for _, r := range records {
		for i := 0; i < copies; i++ {
			out = append(out, r)
		}
	}
	return out
}
