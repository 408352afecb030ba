package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardpress/pkg/cards"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	detailBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:               "browse <cards.json>",
		Short:             "Page through a cards file interactively",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: jsonFiles,
		RunE: func(cmd *cobra.Command, args []string) error {
			outcomes, err := loadOutcomes(args[0])
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(NewCardListModel(outcomes), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}
}

// =============================================================================
// CardListModel - Interactive card browser
// =============================================================================

// CardListModel is the bubbletea model for browsing validated cards.
type CardListModel struct {
	Cards  []cards.Outcome
	Cursor int
	Height int
	Offset int
}

// NewCardListModel creates a new card list model.
func NewCardListModel(outcomes []cards.Outcome) CardListModel {
	return CardListModel{Cards: outcomes, Height: 12}
}

func (m CardListModel) Init() tea.Cmd {
	return nil
}

func (m CardListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Cards)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "home", "g":
			m.Cursor, m.Offset = 0, 0
		case "end", "G":
			m.Cursor = max(0, len(m.Cards)-1)
			m.Offset = max(0, m.Cursor-m.Height+1)
		}
	case tea.WindowSizeMsg:
		m.Height = max(5, msg.Height-16)
	}
	return m, nil
}

func (m CardListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Cards"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Cards))
	for i := m.Offset; i < end; i++ {
		o := m.Cards[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		status := StyleSuccess.Render(iconSuccess)
		label := o.Record.Name
		if !o.OK() {
			status = styleIconError.Render(iconError)
			label = "(invalid)"
		}
		line := fmt.Sprintf("%s%s %3d  %s", cursor, status, o.Index, label)
		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else if o.OK() {
			b.WriteString(listNormalStyle.Render(line))
		} else {
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	if len(m.Cards) > 0 {
		b.WriteString("\n")
		b.WriteString(detailBoxStyle.Render(cardDetail(m.Cards[m.Cursor])))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Cards))))
	}
	return b.String()
}

// cardDetail renders the fields of one card, or its problem.
func cardDetail(o cards.Outcome) string {
	if !o.OK() {
		return StyleWarning.Render(o.Issue.Reason)
	}
	r := o.Record
	fields := [][2]string{
		{"Name", r.Name},
		{"Identity", r.Identity()},
		{"Company", r.Company},
		{"CRM", crmLabel(r)},
		{"Phone", r.Phone},
		{"Email", r.Email},
		{"Website", r.WebsiteURL()},
		{"Logo", r.LogoPath},
	}
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(10)
	var lines []string
	for _, f := range fields {
		if f[1] == "" {
			continue
		}
		lines = append(lines, keyStyle.Render(f[0])+" "+StyleValue.Render(strings.ReplaceAll(f[1], "\n", " / ")))
	}
	return strings.Join(lines, "\n")
}

func crmLabel(r cards.Record) string {
	if !r.HasCRM() {
		return ""
	}
	return r.CRMNumber + "/" + r.CRMRegion
}
