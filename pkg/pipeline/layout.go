package pipeline

import (
	"github.com/matzehuels/cardpress/pkg/template"
)

// Info describes how a batch of cards lays out on sheets.
type Info struct {
	Cards        int     `json:"cards"`
	CardsPerPage int     `json:"cards_per_page"`
	Pages        int     `json:"pages"`
	Columns      int     `json:"columns"`
	Rows         int     `json:"rows"`
	CardWidth    float64 `json:"card_width_pt"`
	CardHeight   float64 `json:"card_height_pt"`
	PageWidth    float64 `json:"page_width_pt"`
	PageHeight   float64 `json:"page_height_pt"`
}

// CardWidthMM returns the card width in millimetres.
func (i Info) CardWidthMM() float64 { return template.ToMM(i.CardWidth) }

// CardHeightMM returns the card height in millimetres.
func (i Info) CardHeightMM() float64 { return template.ToMM(i.CardHeight) }

// PageWidthMM returns the page width in millimetres.
func (i Info) PageWidthMM() float64 { return template.ToMM(i.PageWidth) }

// PageHeightMM returns the page height in millimetres.
func (i Info) PageHeightMM() float64 { return template.ToMM(i.PageHeight) }

// Describe returns the sheet layout of n cards on tpl. n counts cards after
// duplication.
func Describe(n int, tpl template.Template) Info {
	capacity := tpl.Grid.Capacity()
	pages := 0
	if capacity > 0 {
		pages = (n + capacity - 1) / capacity
	}
	return Info{
		Cards:        n,
		CardsPerPage: capacity,
		Pages:        pages,
		Columns:      tpl.Grid.Columns,
		Rows:         tpl.Grid.Rows,
		CardWidth:    tpl.Card.Width,
		CardHeight:   tpl.Card.Height,
		PageWidth:    tpl.Page.Width,
		PageHeight:   tpl.Page.Height,
	}
}
