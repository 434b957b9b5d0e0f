package qasm

import (
	"fmt"
	"maps"
	"math/bits"
	"slices"
	"strings"

	"qtermsim/circuit"
)

// Format writes p as OpenQASM 2.0 over a single qreg q. Classical registers
// are declared large enough for every bit the program touches.
func Format(p *circuit.Program) string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	fmt.Fprintf(&sb, "qreg q[%d];\n", p.QubitCount())

	sizes := registerSizes(p)
	for _, name := range slices.Sorted(maps.Keys(sizes)) {
		fmt.Fprintf(&sb, "creg %s[%d];\n", name, sizes[name])
	}
	sb.WriteString("\n")

	for _, ins := range p.Instructions {
		writeInstruction(&sb, ins)
	}
	return sb.String()
}

func registerSizes(p *circuit.Program) map[string]int {
	sizes := maps.Clone(p.Registers)
	if sizes == nil {
		sizes = make(map[string]int)
	}
	for _, ins := range p.Instructions {
		switch v := ins.(type) {
		case circuit.Measurement:
			sizes[v.Register] = max(sizes[v.Register], v.Bit+1)
		case circuit.Conditional:
			need := max(1, bits.Len64(v.Value))
			if v.Bit >= 0 {
				need = v.Bit + 1
			}
			sizes[v.Register] = max(sizes[v.Register], need)
		}
	}
	return sizes
}

func writeInstruction(sb *strings.Builder, ins circuit.Instruction) {
	switch v := ins.(type) {
	case circuit.Unitary:
		writeGate(sb, v)
	case circuit.Measurement:
		fmt.Fprintf(sb, "measure q[%d] -> %s[%d];\n", v.Qubit, v.Register, v.Bit)
	case circuit.Conditional:
		if v.Bit >= 0 {
			fmt.Fprintf(sb, "if (%s[%d]==%d) ", v.Register, v.Bit, v.Value)
		} else {
			fmt.Fprintf(sb, "if (%s==%d) ", v.Register, v.Value)
		}
		writeGate(sb, v.Gate)
	}
}

func writeGate(sb *strings.Builder, u circuit.Unitary) {
	sb.WriteString(u.Name)
	if len(u.Params) > 0 {
		params := make([]string, len(u.Params))
		for i, p := range u.Params {
			params[i] = FormatAngle(p)
		}
		fmt.Fprintf(sb, "(%s)", strings.Join(params, ", "))
	}
	for i, q := range u.Targets {
		if i == 0 {
			sb.WriteString(" ")
		} else {
			sb.WriteString(", ")
		}
		fmt.Fprintf(sb, "q[%d]", q)
	}
	sb.WriteString(";\n")
}
