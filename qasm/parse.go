// Package qasm reads and writes the OpenQASM 2.0 subset understood by the
// simulator: register declarations, catalog gates, measurement and classically
// conditioned gates.
package qasm

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"qtermsim/circuit"
)

var (
	ErrSyntax               = errors.New("qasm syntax error")
	ErrUnsupportedStatement = errors.New("unsupported qasm statement")
)

// Pre-compiled regexps for QASM parsing.
var (
	keywordRegex = regexp.MustCompile(`^([A-Za-z_]\w*)`)
	versionRegex = regexp.MustCompile(`^OPENQASM\s+2(?:\.\d+)?$`)
	regDeclRegex = regexp.MustCompile(`^(qreg|creg)\s+([A-Za-z_]\w*)\s*\[\s*(\d+)\s*\]$`)
	measureRegex = regexp.MustCompile(`^measure\s+(.+?)\s*->\s*(.+)$`)
	ifRegex      = regexp.MustCompile(`^if\s*\(\s*([A-Za-z_]\w*)\s*(?:\[\s*(\d+)\s*\])?\s*==\s*(\d+)\s*\)\s*(.+)$`)
	gateRegex    = regexp.MustCompile(`^([A-Za-z_]\w*)\s*(?:\(([^()]*)\))?\s*(.*)$`)
	operandRegex = regexp.MustCompile(`^([A-Za-z_]\w*)\s*(?:\[\s*(\d+)\s*\])?$`)
)

// unsupported lists recognized statements the simulator cannot execute.
// reset needs a projective collapse, which measurement here never performs.
var unsupported = map[string]bool{
	"reset":  true,
	"gate":   true,
	"opaque": true,
}

// aliases maps alternative spellings onto catalog names.
var aliases = map[string]string{
	"u":       "u3",
	"cnot":    "cx",
	"toffoli": "ccx",
	"fredkin": "cswap",
	"phase":   "p",
	"cphase":  "cp",
}

type qreg struct {
	offset, size int
}

type parser struct {
	prog  *circuit.Program
	qregs map[string]qreg
	width int
}

// Parse reads OpenQASM 2.0 source into a flat program. Quantum registers are
// laid out one after another in declaration order, so with "qreg a[2]; qreg
// b[1];" b[0] is qubit 2.
func Parse(src string) (*circuit.Program, error) {
	p := &parser{
		prog:  circuit.NewProgram(),
		qregs: make(map[string]qreg),
	}

	for i, line := range strings.Split(src, "\n") {
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = line[:idx]
		}
		for _, stmt := range strings.Split(line, ";") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if err := p.statement(stmt); err != nil {
				return nil, errors.Wrapf(err, "line %d", i+1)
			}
		}
	}

	p.prog.NumQubits = p.width
	return p.prog, nil
}

func (p *parser) statement(stmt string) error {
	m := keywordRegex.FindStringSubmatch(stmt)
	if m == nil {
		return errors.Wrapf(ErrSyntax, "%q", stmt)
	}
	keyword := strings.ToLower(m[1])

	switch {
	case keyword == "openqasm":
		if !versionRegex.MatchString(stmt) {
			return errors.Wrapf(ErrUnsupportedStatement, "%q", stmt)
		}
		return nil
	case keyword == "include", keyword == "barrier":
		return nil
	case keyword == "qreg", keyword == "creg":
		return p.declare(stmt)
	case keyword == "measure":
		return p.measure(stmt)
	case keyword == "if":
		return p.conditional(stmt)
	case unsupported[keyword]:
		return errors.Wrapf(ErrUnsupportedStatement, "%q", keyword)
	}

	gates, err := p.gate(stmt)
	if err != nil {
		return err
	}
	for _, g := range gates {
		p.prog.Append(g)
	}
	return nil
}

func (p *parser) declare(stmt string) error {
	m := regDeclRegex.FindStringSubmatch(stmt)
	if m == nil {
		return errors.Wrapf(ErrSyntax, "malformed declaration %q", stmt)
	}
	name := m[2]
	size, err := strconv.Atoi(m[3])
	if err != nil || size == 0 {
		return errors.Wrapf(ErrSyntax, "register %s has invalid size %q", name, m[3])
	}

	if m[1] == "creg" {
		p.prog.DeclareRegister(name, size)
		return nil
	}
	if _, ok := p.qregs[name]; ok {
		return errors.Wrapf(ErrSyntax, "qreg %s declared twice", name)
	}
	p.qregs[name] = qreg{offset: p.width, size: size}
	p.width += size
	return nil
}

// qubits resolves "reg[i]" to one qubit and a bare "reg" to all of its qubits.
func (p *parser) qubits(operand string) ([]int, error) {
	m := operandRegex.FindStringSubmatch(strings.TrimSpace(operand))
	if m == nil {
		return nil, errors.Wrapf(ErrSyntax, "bad operand %q", operand)
	}
	reg, ok := p.qregs[m[1]]
	if !ok {
		return nil, errors.Wrapf(ErrSyntax, "undeclared qreg %s", m[1])
	}
	if m[2] == "" {
		all := make([]int, reg.size)
		for i := range all {
			all[i] = reg.offset + i
		}
		return all, nil
	}
	idx, err := strconv.Atoi(m[2])
	if err != nil || idx >= reg.size {
		return nil, errors.Wrapf(ErrSyntax, "%s[%s] out of range", m[1], m[2])
	}
	return []int{reg.offset + idx}, nil
}

type bit struct {
	register string
	index    int
}

// bits resolves "c[i]" to one classical bit and a bare "c" to every bit of a
// declared register. Undeclared registers are created by indexed use.
func (p *parser) bits(operand string) ([]bit, error) {
	m := operandRegex.FindStringSubmatch(strings.TrimSpace(operand))
	if m == nil {
		return nil, errors.Wrapf(ErrSyntax, "bad operand %q", operand)
	}
	if m[2] != "" {
		idx, err := strconv.Atoi(m[2])
		if err != nil {
			return nil, errors.Wrapf(ErrSyntax, "bad bit index %q", m[2])
		}
		return []bit{{m[1], idx}}, nil
	}
	size, ok := p.prog.Registers[m[1]]
	if !ok {
		return nil, errors.Wrapf(ErrSyntax, "undeclared creg %s", m[1])
	}
	all := make([]bit, size)
	for i := range all {
		all[i] = bit{m[1], i}
	}
	return all, nil
}

func (p *parser) measure(stmt string) error {
	m := measureRegex.FindStringSubmatch(stmt)
	if m == nil {
		return errors.Wrapf(ErrSyntax, "malformed measurement %q", stmt)
	}
	qs, err := p.qubits(m[1])
	if err != nil {
		return err
	}
	bs, err := p.bits(m[2])
	if err != nil {
		return err
	}
	if len(qs) != len(bs) {
		return errors.Wrapf(ErrSyntax, "measure maps %d qubits onto %d bits", len(qs), len(bs))
	}
	for i, q := range qs {
		p.prog.Measure(q, bs[i].register, bs[i].index)
	}
	return nil
}

func (p *parser) conditional(stmt string) error {
	m := ifRegex.FindStringSubmatch(stmt)
	if m == nil {
		return errors.Wrapf(ErrSyntax, "malformed condition %q", stmt)
	}
	value, err := strconv.ParseUint(m[3], 10, 64)
	if err != nil {
		return errors.Wrapf(ErrSyntax, "bad condition value %q", m[3])
	}
	bitIdx := -1
	if m[2] != "" {
		if bitIdx, err = strconv.Atoi(m[2]); err != nil {
			return errors.Wrapf(ErrSyntax, "bad bit index %q", m[2])
		}
	}

	body := strings.TrimSpace(m[4])
	if kw := keywordRegex.FindString(body); unsupported[strings.ToLower(kw)] || strings.EqualFold(kw, "measure") {
		return errors.Wrapf(ErrUnsupportedStatement, "conditional %q", kw)
	}
	gates, err := p.gate(body)
	if err != nil {
		return err
	}
	for _, g := range gates {
		p.prog.Append(circuit.Conditional{Register: m[1], Bit: bitIdx, Value: value, Gate: g})
	}
	return nil
}

// gate parses "name(params) a, b, ..." into one unitary per broadcast index.
// Bare register operands broadcast the gate over the register; indexed
// operands are repeated.
func (p *parser) gate(stmt string) ([]circuit.Unitary, error) {
	m := gateRegex.FindStringSubmatch(stmt)
	if m == nil || strings.TrimSpace(m[3]) == "" {
		return nil, errors.Wrapf(ErrSyntax, "malformed gate %q", stmt)
	}

	name := strings.ToLower(m[1])
	if alias, ok := aliases[name]; ok {
		name = alias
	}
	params, ok := parseAngles(m[2])
	if !ok {
		return nil, errors.Wrapf(ErrSyntax, "bad parameters %q", m[2])
	}

	var operands [][]int
	span := 1
	for _, op := range strings.Split(m[3], ",") {
		qs, err := p.qubits(op)
		if err != nil {
			return nil, err
		}
		if len(qs) > 1 {
			if span > 1 && len(qs) != span {
				return nil, errors.Wrapf(ErrSyntax, "register sizes differ in %q", stmt)
			}
			span = len(qs)
		}
		operands = append(operands, qs)
	}

	out := make([]circuit.Unitary, span)
	for i := range out {
		targets := make([]int, len(operands))
		for j, qs := range operands {
			if len(qs) == 1 {
				targets[j] = qs[0]
			} else {
				targets[j] = qs[i]
			}
		}
		out[i] = circuit.Unitary{Name: name, Targets: targets, Params: params}
	}
	return out, nil
}
