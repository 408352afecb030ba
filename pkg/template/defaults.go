package template

// Default returns the stock template: an A4 portrait sheet holding a 2x5
// grid of 85x55 mm cards inside 10 mm margins.
func Default() Template {
	return Template{
		Page: Page{Width: 595.28, Height: 841.89},
		Grid: Grid{Columns: 2, Rows: 5},
		Margins: Margins{
			Top: 28.3465, Right: 28.3465, Bottom: 28.3465, Left: 28.3465,
		},
		Spacing: Spacing{Policy: SpacingDistribute},
		Card: Card{
			Width:          241,
			Height:         156,
			Padding:        12,
			LineSpacing:    2,
			SectionSpacing: 6,
			Radius:         8,
			Shadow:         Shadow{Enabled: true, Offset: 2, Color: "#00000015"},
			Border:         Border{Enabled: true, Width: 0.5},
			TopRule:        TopRule{Enabled: true, Width: 1.5, Gap: 2.5},
			Chip:           Chip{PaddingX: 4, PaddingY: 2, Radius: 3, Label: "CRM"},
			Logo: Logo{
				Placement: LogoBackground,
				Width:     35,
				Height:    35,
				Gap:       10,
				Opacity:   0.18,
				DPI:       150,
			},
		},
		Fonts: Fonts{
			Family:     "Helvetica",
			LineHeight: 1.2,
			Name:       16,
			Identity:   7,
			Credential: 10,
			Contact:    9,
		},
		Colors: Colors{
			Primary:     "#0f172a",
			Secondary:   "#1e293b",
			Accent:      "#3b82f6",
			Highlight:   "#f59e0b",
			Medical:     "#1e40af",
			Background:  "#ffffff",
			Border:      "#e2e8f0",
			ChipCRM:     "#dbeafe",
			ChipCompany: "#f1f5f9",
		},
		Gradients: Gradients{
			Enabled: true,
			Primary: Gradient{From: "#f8fafc", To: "#f1f5f9"},
			Accent:  Gradient{From: "#dbeafe", To: "#bfdbfe"},
		},
		CutLines: CutLine{
			Enabled: true,
			Style:   CutMarks,
			Color:   "#d1d5db",
			Width:   0.3,
			Dash:    []float64{3, 3},
			Length:  6,
		},
		QR: QR{
			Enabled:      true,
			Size:         50,
			Margin:       8,
			Gap:          6,
			Position:     BottomRight,
			Level:        "H",
			Color:        "#0f172a",
			Background:   "#ffffff",
			Border:       true,
			BorderColor:  "#e2e8f0",
			BorderWidth:  1,
			CornerRadius: 6,
			Resolution:   8,
			Sharpen:      true,
			Encoder:      EncoderQRCode,
		},
	}
}
