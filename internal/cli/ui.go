package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/corpusgraph/pkg/format"
	"github.com/matzehuels/corpusgraph/pkg/panel"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleHeader      = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(14)
)

// bandStyles colors connection weights the way the panel badges do.
var bandStyles = map[panel.Band]lipgloss.Style{
	panel.BandNone:   lipgloss.NewStyle().Foreground(colorDim),
	panel.BandLow:    lipgloss.NewStyle().Foreground(colorGray),
	panel.BandMedium: lipgloss.NewStyle().Foreground(colorYellow),
	panel.BandHigh:   lipgloss.NewStyle().Foreground(colorRed).Bold(true),
}

const (
	iconSuccess = "✓"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(w io.Writer, path string, cached bool) {
	status := "fresh"
	if cached {
		status = "cached"
	}
	fmt.Fprintln(w, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path)+" "+StyleDim.Render("("+status+")"))
}

func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Panel Output
// =============================================================================

// connectionsTable renders ranked connections as a bordered table.
func connectionsTable(conns []panel.Connection, f *format.Formatter) string {
	rows := make([][]string, len(conns))
	for i, c := range conns {
		rows[i] = []string{f.Int(i + 1), c.ID, f.Weight(c.Weight), string(c.Band)}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Neighbor", "Weight", "Band").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			base := lipgloss.NewStyle().Padding(0, 1)
			switch col {
			case 0:
				return base.Foreground(colorDim)
			case 2, 3:
				return base.Inherit(bandStyles[conns[row].Band])
			}
			return base.Foreground(colorWhite)
		}).
		Render()
}

// printSummary writes a panel summary. Without a selection it lists the
// most frequent nodes of each bipartite column instead.
func printSummary(w io.Writer, s panel.Summary, f *format.Formatter) {
	if !s.HasSelection() {
		if s.LeftLabel == "" {
			printInfo(w, "Nothing selected")
			return
		}
		fmt.Fprintln(w, StyleTitle.Render("Top "+s.LeftLabel))
		for _, n := range s.TopLeft {
			printKeyValue(w, n.ID, f.Int(n.Frequency))
		}
		fmt.Fprintln(w, StyleTitle.Render("Top "+s.RightLabel))
		for _, n := range s.TopRight {
			printKeyValue(w, n.ID, f.Int(n.Frequency))
		}
		return
	}

	fmt.Fprintln(w, StyleTitle.Render(s.Selected))
	if s.Direction != "" {
		printDetail(w, "%s", s.Direction)
	}
	if d := s.Details; d != nil {
		printKeyValue(w, "Frequency", f.Int(d.Frequency))
		printKeyValue(w, "Neighbors", f.Int(d.UniqueNeighbors))
		printKeyValue(w, "Weight", f.Weight(d.ConnectionWeight))
	}
	if len(s.Connections) == 0 {
		printDetail(w, "No connections")
		return
	}
	fmt.Fprintln(w, connectionsTable(s.Connections, f))
}

// truncate shortens s to n runes with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return strings.TrimSpace(string(r[:n-1])) + "…"
}
