package tui

import (
	"fmt"
	"strings"

	"qtermsim/gates"
)

// paletteItem is one insertable statement.
type paletteItem struct {
	name     string
	symbol   string
	template string
}

// paletteCategory groups related items under a tab.
type paletteCategory struct {
	name  string
	items []paletteItem
}

// classicalItems are the non-gate statements offered by the palette.
var classicalItems = []paletteItem{
	{name: "Measure", symbol: "M", template: "measure q[0] -> c[0];"},
	{name: "Measure register", symbol: "M*", template: "measure q -> c;"},
	{name: "Conditional X", symbol: "X?", template: "if (c==1) x q[0];"},
	{name: "Conditional bit", symbol: "X?", template: "if (c[0]==1) x q[0];"},
	{name: "Barrier", symbol: "┃", template: "barrier q;"},
}

// buildPalette groups the catalog gates into tabs.
func buildPalette(catalog *gates.Catalog) []paletteCategory {
	single := paletteCategory{name: "Single Qubit"}
	rotation := paletteCategory{name: "Rotation"}
	multi := paletteCategory{name: "Multi Qubit"}

	for _, name := range catalog.Names() {
		def, ok := catalog.Definition(name)
		if !ok {
			continue
		}
		item := paletteItem{
			name:     describe(def),
			symbol:   strings.ToUpper(def.Name),
			template: gateTemplate(def),
		}
		switch {
		case def.Qubits > 1:
			multi.items = append(multi.items, item)
		case def.Params > 0:
			rotation.items = append(rotation.items, item)
		default:
			single.items = append(single.items, item)
		}
	}

	var out []paletteCategory
	for _, c := range []paletteCategory{single, rotation, multi} {
		if len(c.items) > 0 {
			out = append(out, c)
		}
	}
	return append(out, paletteCategory{name: "Classical", items: classicalItems})
}

func describe(def gates.Definition) string {
	desc := def.Description
	if desc == "" {
		desc = def.Name
	}
	if r := []rune(desc); len(r) > 28 {
		desc = string(r[:27]) + "…"
	}
	return desc
}

// gateTemplate writes a statement applying def to the first qubits with
// placeholder angles.
func gateTemplate(def gates.Definition) string {
	var sb strings.Builder
	sb.WriteString(def.Name)
	if def.Params > 0 {
		params := make([]string, def.Params)
		for i := range params {
			params[i] = "pi/2"
		}
		fmt.Fprintf(&sb, "(%s)", strings.Join(params, ", "))
	}
	for q := range def.Qubits {
		if q == 0 {
			sb.WriteString(" ")
		} else {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "q[%d]", q)
	}
	sb.WriteString(";")
	return sb.String()
}

// renderPalette renders the gate picker.
func (m Model) renderPalette(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Insert Statement"))
	sb.WriteString("\n")

	// Category tabs
	for i, cat := range m.palette {
		name := " " + cat.name + " "
		if i == m.menuCat {
			sb.WriteString(activeStyle.Render(name))
		} else {
			sb.WriteString(dimStyle.Render(name))
		}
		if i < len(m.palette)-1 {
			sb.WriteString(dimStyle.Render("│"))
		}
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(strings.Repeat("─", max(width-4, 10))))
	sb.WriteString("\n")

	cat := m.palette[m.menuCat]
	for i, item := range cat.items {
		if i == m.menuItem {
			sb.WriteString(menuSelectedStyle.Render(" ▸ "))
			sb.WriteString(menuSelectedStyle.Render(fmt.Sprintf("%-28s", item.name)))
			sb.WriteString(gateStyle.Render(item.symbol))
		} else {
			sb.WriteString("   ")
			sb.WriteString(menuNormalStyle.Render(fmt.Sprintf("%-28s", item.name)))
			sb.WriteString(dimStyle.Render(item.symbol))
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(dimStyle.Render(" " + m.selectedItem().template))

	return paletteStyle.Width(width).Height(height).Render(sb.String())
}

func (m Model) selectedItem() paletteItem {
	return m.palette[m.menuCat].items[m.menuItem]
}
