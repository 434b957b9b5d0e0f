package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"qtermsim/circuit"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	r := []rune(s)
	if len(r) >= width {
		return string(r[:width])
	}
	total := width - len(r)
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}

// controlCount is the number of leading control operands per gate.
var controlCount = map[string]int{
	"cx": 1, "cy": 1, "cz": 1, "ch": 1,
	"crx": 1, "cry": 1, "crz": 1, "cp": 1, "cu1": 1,
	"cswap": 1, "ccx": 2,
}

// targetSymbol returns the wire symbol for a gate's target, or "" when the
// target is drawn as a box.
func targetSymbol(name string) string {
	switch name {
	case "cx", "ccx":
		return "⊕"
	case "cz":
		return "●"
	case "swap", "cswap":
		return "×"
	}
	return ""
}

// boxLabel returns the boxed name of a gate's target.
func boxLabel(name string) string {
	if controlCount[name] > 0 {
		name = strings.TrimPrefix(name, "c")
	}
	return strings.ToUpper(name)
}

// ──────────────────────────── Cell rendering ────────────────────────────

// cellInfo describes what occupies a single cell of the diagram.
type cellInfo struct {
	symbol      string // drawn on the wire
	label       string // drawn in a box
	conditional bool
	vertAbove   bool
	vertBelow   bool
	passThrough bool
}

func glyph(slot *circuit.Slot) (info cellInfo) {
	var u circuit.Unitary
	switch v := slot.Instruction.(type) {
	case circuit.Measurement:
		info.label = "M"
		return info
	case circuit.Conditional:
		u = v.Gate
		info.conditional = true
	case circuit.Unitary:
		u = v
	}

	switch {
	case slot.Connector < controlCount[u.Name]:
		info.symbol = "●"
	case targetSymbol(u.Name) != "":
		info.symbol = targetSymbol(u.Name)
	default:
		info.label = boxLabel(u.Name)
		if info.conditional {
			info.label += "?"
		}
	}
	return info
}

// cellAt returns rendering information for the cell at (wire, column).
func cellAt(c *circuit.Circuit, wire, column int) cellInfo {
	var info cellInfo
	slot := c.At(wire, column)
	if slot != nil {
		info = glyph(slot)
	}

	// Vertical connections for instructions spanning several wires
	for w := range c.NumQubits() {
		s := c.At(w, column)
		if s == nil || s.Connector != 0 {
			continue
		}
		wires := s.Instruction.Wires()
		if len(wires) < 2 {
			continue
		}
		lo, hi := slices.Min(wires), slices.Max(wires)
		if wire < lo || wire > hi {
			continue
		}
		if wire > lo {
			info.vertAbove = true
		}
		if wire < hi {
			info.vertBelow = true
		}
		if slot == nil {
			info.passThrough = true
		}
	}
	return info
}

// renderCell returns 3 lines (top, mid, bot) for a single cell, each exactly
// cellW visual characters wide.
func renderCell(info cellInfo) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	style := gateStyle
	if info.conditional {
		style = conditionalStyle
	}

	top, bot = emptyRow, emptyRow
	if info.vertAbove {
		top = vertRow
	}
	if info.vertBelow {
		bot = vertRow
	}

	switch {
	case info.label != "":
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		edge := func(joint string, connected bool) string {
			if !connected {
				return strings.Repeat("─", gateNameW)
			}
			half := gateNameW / 2
			return strings.Repeat("─", half) + joint + strings.Repeat("─", gateNameW-half-1)
		}
		top = strings.Repeat(" ", margin) + style.Render("┌"+edge("┴", info.vertAbove)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + style.Render("┤"+padCenter(info.label, gateNameW)+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + style.Render("└"+edge("┬", info.vertBelow)+"┘") + strings.Repeat(" ", rightMargin)

	case info.symbol != "":
		mid = strings.Repeat("─", dashL) + style.Render(info.symbol) + strings.Repeat("─", dashR)

	case info.passThrough:
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)

	default:
		mid = strings.Repeat("─", cellW)
	}
	return top, mid, bot
}

// classicalCell returns the register wire segment for one column: a landing
// point for measurements into register and a marker for conditions on it.
func classicalCell(c *circuit.Circuit, register string, column int) string {
	for w := range c.NumQubits() {
		s := c.At(w, column)
		if s == nil || s.Connector != 0 {
			continue
		}
		mark := ""
		switch v := s.Instruction.(type) {
		case circuit.Measurement:
			if v.Register == register {
				mark = fmt.Sprintf("╩%d", v.Bit)
			}
		case circuit.Conditional:
			if v.Register == register {
				mark = "◆"
			}
		}
		if mark != "" {
			dashL := (cellW - 1) / 2
			dashR := max(cellW-dashL-len([]rune(mark)), 0)
			return dimStyle.Render(strings.Repeat("═", dashL)) + activeStyle.Render(mark) + dimStyle.Render(strings.Repeat("═", dashR))
		}
	}
	return dimStyle.Render(strings.Repeat("═", cellW))
}

// ──────────────────────────── Panel rendering ────────────────────────────

// renderCircuitPanel renders the diagram of the last program that parsed.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Circuit"))
	sb.WriteString("\n")

	c := m.layout
	if c == nil || c.Columns() == 0 {
		sb.WriteString(dimStyle.Render("No instructions yet."))
		return circuitStyle.Width(width).Height(height).Render(sb.String())
	}

	availWidth := width - labelVisualW - 4
	cols := min(max(availWidth/cellW, 1), c.Columns())

	header := strings.Repeat(" ", labelVisualW)
	for col := range cols {
		header += dimStyle.Render(padCenter(fmt.Sprintf("%d", col), cellW))
	}
	sb.WriteString(header + "\n")

	for wire := range c.NumQubits() {
		topLine := strings.Repeat(" ", labelVisualW)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("q[%d]", wire))) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for col := range cols {
			top, mid, bot := renderCell(cellAt(c, wire, col))
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	names := make([]string, 0, len(c.Registers))
	for name := range c.Registers {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		label := fmt.Sprintf("%s%d", name, c.Registers[name])
		line := activeStyle.Render(fmt.Sprintf("%-5s", label)) + dimStyle.Render("══")
		for col := range cols {
			line += classicalCell(c, name, col)
		}
		sb.WriteString(line + "\n")
	}

	if hidden := c.Columns() - cols; hidden > 0 {
		fmt.Fprintf(&sb, "%s\n", dimStyle.Render(fmt.Sprintf("  … %d more columns", hidden)))
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderQASMPanel renders the QASM editor panel.
func (m Model) renderQASMPanel(width, height int) string {
	var sb strings.Builder

	title := "QASM Editor"
	if m.focus == focusEditor {
		title += " [ACTIVE]"
	}
	if m.path != "" {
		title += "  " + m.path
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(m.editor.View())

	return qasmStyle.Width(width).Height(height).Render(sb.String())
}

// renderResultsPanel renders tallies, amplitudes and marginals of the last run.
func (m Model) renderResultsPanel(width, height int) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Results"))
	sb.WriteString("\n")

	res := m.result
	switch {
	case m.running:
		sb.WriteString(activeStyle.Render("Running…"))
		return resultsStyle.Width(width).Height(height).Render(sb.String())
	case res == nil:
		sb.WriteString(dimStyle.Render("Press ^R to run the program."))
		return resultsStyle.Width(width).Height(height).Render(sb.String())
	}

	fmt.Fprintf(&sb, "%d qubits · %d shots · %s\n\n", res.NumQubits, res.Shots, res.Elapsed.Round(time.Microsecond))

	sb.WriteString(activeStyle.Render("Counts"))
	sb.WriteString("\n")
	keys := res.Counts.Keys()
	most := 0
	for _, k := range keys {
		most = max(most, res.Counts[k])
	}
	for i, k := range keys {
		if i == listLimit {
			fmt.Fprintf(&sb, "%s\n", dimStyle.Render(fmt.Sprintf("… %d more outcomes", len(keys)-listLimit)))
			break
		}
		n := res.Counts[k]
		bar := strings.Repeat("█", max(n*histogramW/most, 1))
		fmt.Fprintf(&sb, "%s %s %d (%.1f%%)\n", k, barStyle.Render(bar), n, 100*res.Counts.Probability(k))
	}

	sb.WriteString("\n")
	sb.WriteString(activeStyle.Render("State"))
	sb.WriteString("\n")
	for i, b := range res.State {
		if i == listLimit {
			fmt.Fprintf(&sb, "%s\n", dimStyle.Render(fmt.Sprintf("… %d more amplitudes", len(res.State)-listLimit)))
			break
		}
		fmt.Fprintf(&sb, "|%s⟩ %+.4f%+.4fi  p=%.4f  φ=%+.3f\n", b.Bits, real(b.Amplitude), imag(b.Amplitude), b.Probability, b.Phase)
	}

	sb.WriteString("\n")
	sb.WriteString(activeStyle.Render("Marginals"))
	sb.WriteString("\n")
	for q, p := range res.Marginals {
		fmt.Fprintf(&sb, "q[%d] P(1)=%.3f  ", q, p.One)
		if q%3 == 2 {
			sb.WriteString("\n")
		}
	}
	sb.WriteString("\n")

	if len(res.Registers) > 0 {
		sb.WriteString("\n")
		sb.WriteString(activeStyle.Render("Registers"))
		sb.WriteString("\n")
		names := make([]string, 0, len(res.Registers))
		for name := range res.Registers {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "%s = %s\n", name, registerString(res.Registers[name]))
		}
	}

	return resultsStyle.Width(width).Height(height).Render(sb.String())
}

// registerString writes register bits highest index first, matching the
// order of outcome strings.
func registerString(bits []int) string {
	var sb strings.Builder
	for i := len(bits) - 1; i >= 0; i-- {
		fmt.Fprintf(&sb, "%d", bits[i])
	}
	return sb.String()
}

// renderControlsPanel renders the status line and key help.
func (m Model) renderControlsPanel(width int) string {
	var sb strings.Builder

	status := fmt.Sprintf("Shots: %d", m.shots)
	if m.status != "" {
		style := activeStyle
		if m.statusErr {
			style = errorStyle
		}
		status += "  │  " + style.Render(m.status)
	}
	sb.WriteString(status)
	sb.WriteString("\n")

	if m.focus == focusPalette {
		sb.WriteString(m.help.View(paletteKeys(m.keys)))
	} else {
		sb.WriteString(m.help.View(editorKeys(m.keys)))
	}

	return controlsStyle.Width(width).Render(sb.String())
}
