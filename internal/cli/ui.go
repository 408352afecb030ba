package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/cardpress/pkg/cards"
	"github.com/matzehuels/cardpress/pkg/pipeline"
)

// Palette
var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

// Exported styles, shared with the browse view.
var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleHeader      = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// status prints one icon-prefixed line.
func status(icon string, style lipgloss.Style, msg string) {
	fmt.Println(style.Render(icon) + " " + msg)
}

func printSuccess(format string, args ...any) {
	status(iconSuccess, StyleSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	status(iconError, styleIconError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	status(iconWarning, StyleWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	status(iconInfo, styleIconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints the path of a written document.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key) + " " + StyleValue.Render(value))
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { fmt.Println() }

// printSheetStats prints "2 pages · 14 cards · 1 warning · cached".
func printSheetStats(pages, cardCount, warnings int, cached bool) {
	parts := []string{
		StyleDim.Render(plural(pages, "page")),
		StyleDim.Render(plural(cardCount, "card")),
	}
	if warnings > 0 {
		parts = append(parts, StyleWarning.Render(plural(warnings, "warning")))
	}
	if cached {
		parts = append(parts, StyleSuccess.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	fmt.Println("  " + strings.Join(parts, StyleDim.Render(" · ")))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(n) + " " + noun + "s"
}

// reportTable renders one row per card: position, status, name or problem.
func reportTable(outcomes []cards.Outcome) string {
	rows := make([][]string, len(outcomes))
	for i, o := range outcomes {
		if o.OK() {
			rows[i] = []string{strconv.Itoa(o.Index), iconSuccess, o.Record.Name, ""}
		} else {
			rows[i] = []string{strconv.Itoa(o.Index), iconError, "", o.Issue.Reason}
		}
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("#", "", "Name", "Problem").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			cell := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == -1:
				return styleHeader.Padding(0, 1)
			case row < 0 || row >= len(outcomes):
				return cell
			case col == 0:
				return cell.Foreground(colorDim)
			case outcomes[row].OK():
				return cell.Foreground(colorGreen)
			default:
				return cell.Foreground(colorRed)
			}
		}).
		Render()
}

// infoTable renders the sheet geometry, plus counts when a batch is known.
func infoTable(info pipeline.Info) string {
	size := func(w, h, wmm, hmm float64) string {
		return fmt.Sprintf("%.2f × %.2f pt (%.0f × %.0f mm)", w, h, wmm, hmm)
	}
	rows := [][]string{
		{"Page", size(info.PageWidth, info.PageHeight, info.PageWidthMM(), info.PageHeightMM())},
		{"Card", size(info.CardWidth, info.CardHeight, info.CardWidthMM(), info.CardHeightMM())},
		{"Grid", fmt.Sprintf("%d columns × %d rows", info.Columns, info.Rows)},
		{"Per page", strconv.Itoa(info.CardsPerPage)},
	}
	if info.Cards > 0 {
		rows = append(rows,
			[]string{"Cards", strconv.Itoa(info.Cards)},
			[]string{"Pages", strconv.Itoa(info.Pages)})
	}
	return table.New().
		Border(lipgloss.HiddenBorder()).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col == 0 {
				return styleKey.Width(10)
			}
			return StyleValue
		}).
		Render()
}
