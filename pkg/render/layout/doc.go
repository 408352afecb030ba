// Package layout places cards on a page.
//
// [ComputeGrid] turns a template into the row-major list of card
// rectangles for one page; the list is the same for every page.
// [Paginate] splits a record sequence into pages of grid capacity. Record j
// of a page binds to rectangle j of the grid by position only.
//
//	grid := layout.ComputeGrid(tpl)
//	pages, err := layout.Paginate(records, len(grid))
//	for _, p := range pages {
//	    for _, slot := range p.Bind(grid) {
//	        // compose slot.Record inside slot.Rect
//	    }
//	}
package layout
