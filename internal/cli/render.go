package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/roach88/qdist/internal/compiler"
	"github.com/roach88/qdist/internal/ir"
)

// Lipgloss styles used by text output.
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ff9e64"))

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#9ece6a"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f7768e"))

	catStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#73daca"))

	teleportStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#bb9af7"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89"))

	planStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7")).
			Padding(0, 1)
)

func protocolStyle(p ir.Protocol) lipgloss.Style {
	if p == ir.ProtocolTeleport {
		return teleportStyle
	}
	return catStyle
}

// renderElement renders one plan element on a single line.
func renderElement(e ir.Element) string {
	switch v := e.(type) {
	case *ir.Block:
		gates := make([]string, len(v.Gates))
		for i, g := range v.Gates {
			gates[i] = g.String()
		}
		return fmt.Sprintf("%s %s  %s",
			protocolStyle(v.Protocol).Render(fmt.Sprintf("%-8s", v.Protocol)),
			v.Assignment,
			strings.Join(gates, " "))
	default:
		return dimStyle.Render(fmt.Sprintf("%-8s %v", "local", e))
	}
}

// renderPlan renders the elements of plan inside a bordered box.
func renderPlan(plan *compiler.Plan) string {
	lines := make([]string, len(plan.Elements))
	for i, e := range plan.Elements {
		lines[i] = renderElement(e)
	}
	if len(lines) == 0 {
		lines = []string{dimStyle.Render("(empty)")}
	}
	return planStyle.Render(strings.Join(lines, "\n"))
}

// renderSummary renders the headline numbers of plan.
func renderSummary(plan *compiler.Plan) string {
	s := plan.Stats
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", okStyle.Render("✓"), titleStyle.Render("Compiled "+plan.Name))
	fmt.Fprintf(&b, "  Gates:     %d in, %d out", s.InputGates, s.OutputGates)
	if s.Fused > 0 {
		fmt.Fprintf(&b, " (%d CRZ fused)", s.Fused)
	}
	fmt.Fprintf(&b, "\n  Blocks:    %d (cat %d, teleport %d, hops %d)\n", s.Blocks, s.CatBlocks, s.TeleportBlocks, s.Hops)
	fmt.Fprintf(&b, "  EPR pairs: %d\n", plan.EPRCount)
	fmt.Fprintf(&b, "  Latency:   %.2f\n", plan.Latency)
	return b.String()
}

// renderTable renders rows under headers.
func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...)
	return t.String()
}
