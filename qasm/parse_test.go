package qasm

import (
	"math"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"

	"qtermsim/circuit"
)

func TestParseNamedCregs(t *testing.T) {
	src := `OPENQASM 2.0;
include "qelib1.inc";

qreg q[3];
creg c0[1];
creg c1[1];

h q[1];
cx q[1], q[2];
cx q[0], q[1];
h q[0];
measure q[0] -> c0[0];
measure q[1] -> c1[0];

if(c1==1) x q[2];
if(c0==1) z q[2];`

	p, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	t.Logf("parsed program:\n%s", spew.Sdump(p.Instructions))

	if len(p.Instructions) != 8 {
		t.Fatalf("expected 8 instructions, got %d", len(p.Instructions))
	}
	if p.NumQubits != 3 {
		t.Errorf("expected 3 qubits, got %d", p.NumQubits)
	}
	if p.Registers["c0"] != 1 || p.Registers["c1"] != 1 {
		t.Errorf("expected c0 and c1 of size 1, got %v", p.Registers)
	}

	cx, ok := p.Instructions[1].(circuit.Unitary)
	if !ok || cx.Name != "cx" || cx.Targets[0] != 1 || cx.Targets[1] != 2 {
		t.Errorf("instruction 1: expected cx q[1], q[2], got %s", p.Instructions[1])
	}

	m, ok := p.Instructions[5].(circuit.Measurement)
	if !ok || m.Qubit != 1 || m.Register != "c1" || m.Bit != 0 {
		t.Errorf("instruction 5: expected measure q[1] -> c1[0], got %s", p.Instructions[5])
	}

	g6, ok := p.Instructions[6].(circuit.Conditional)
	if !ok || g6.Register != "c1" || g6.Bit != -1 || g6.Value != 1 || g6.Gate.Name != "x" || g6.Gate.Targets[0] != 2 {
		t.Errorf("instruction 6: expected if(c1==1) x q[2], got %s", p.Instructions[6])
	}

	g7, ok := p.Instructions[7].(circuit.Conditional)
	if !ok || g7.Register != "c0" || g7.Gate.Name != "z" {
		t.Errorf("instruction 7: expected if(c0==1) z q[2], got %s", p.Instructions[7])
	}
}

func TestParseBitCondition(t *testing.T) {
	src := `OPENQASM 2.0;
qreg q[3];
creg c[3];

h q[0];
measure q[0] -> c[0];
if (c[0]==1) x q[1];`

	p, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(p.Instructions) != 3 {
		t.Fatalf("expected 3 instructions, got %d", len(p.Instructions))
	}

	g, ok := p.Instructions[2].(circuit.Conditional)
	if !ok || g.Register != "c" || g.Bit != 0 || g.Value != 1 || g.Gate.Targets[0] != 1 {
		t.Errorf("instruction 2: expected if (c[0]==1) x q[1], got %s", spew.Sdump(p.Instructions[2]))
	}
}

func TestParseRegisterLayout(t *testing.T) {
	src := `qreg a[2]; qreg b[2];
creg c[2];
cx a[1], b[0];
h b;
measure b -> c;`

	p, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if p.NumQubits != 4 {
		t.Fatalf("expected 4 qubits, got %d", p.NumQubits)
	}

	want := []string{
		"cx q1,q2",
		"h q2",
		"h q3",
		"measure q2 -> c[0]",
		"measure q3 -> c[1]",
	}
	if len(p.Instructions) != len(want) {
		t.Fatalf("expected %d instructions, got %d:\n%s", len(want), len(p.Instructions), spew.Sdump(p.Instructions))
	}
	for i, w := range want {
		if got := p.Instructions[i].String(); got != w {
			t.Errorf("instruction %d: got %q, want %q", i, got, w)
		}
	}
}

func TestParseGateForms(t *testing.T) {
	src := `OPENQASM 2.0;
qreg q[3];
CX q[0],q[1]; // upper case
u(pi/2, 0, pi) q[2];
ccx q[0], q[1], q[2];
barrier q[0], q[1];
crz(-pi/4) q[2], q[0];
qreg r[2];
cx q[0], r;`

	p, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	want := []string{"cx", "u3", "ccx", "crz", "cx", "cx"}
	if len(p.Instructions) != len(want) {
		t.Fatalf("expected %d instructions, got %d:\n%s", len(want), len(p.Instructions), spew.Sdump(p.Instructions))
	}
	for i, name := range want {
		u, ok := p.Instructions[i].(circuit.Unitary)
		if !ok || u.Name != name {
			t.Errorf("instruction %d: expected %s, got %s", i, name, p.Instructions[i])
		}
	}

	u3 := p.Instructions[1].(circuit.Unitary)
	if len(u3.Params) != 3 || math.Abs(u3.Params[0]-math.Pi/2) > 1e-12 || math.Abs(u3.Params[2]-math.Pi) > 1e-12 {
		t.Errorf("u3 params: got %v", u3.Params)
	}

	last := p.Instructions[5].(circuit.Unitary)
	if last.Targets[0] != 0 || last.Targets[1] != 4 {
		t.Errorf("broadcast cx: got targets %v", last.Targets)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		target error
		line   string
	}{
		{"reset", "qreg q[1];\nreset q[0];", ErrUnsupportedStatement, "line 2"},
		{"gate definition", "gate foo a { x a; }", ErrUnsupportedStatement, "line 1"},
		{"conditional measure", "qreg q[1];\ncreg c[1];\nif (c==1) measure q[0] -> c[0];", ErrUnsupportedStatement, "line 3"},
		{"qasm 3", "OPENQASM 3.0;", ErrUnsupportedStatement, "line 1"},
		{"undeclared qreg", "h r[0];", ErrSyntax, "line 1"},
		{"index out of range", "qreg q[2];\n\nx q[2];", ErrSyntax, "line 3"},
		{"bad parameter", "qreg q[1];\nrx(banana) q[0];", ErrSyntax, "line 2"},
		{"missing operand", "qreg q[1];\nh;", ErrSyntax, "line 2"},
		{"mismatched measure", "qreg q[2];\ncreg c[1];\nmeasure q -> c;", ErrSyntax, "line 3"},
		{"duplicate qreg", "qreg q[1];\nqreg q[2];", ErrSyntax, "line 2"},
		{"zero sized register", "qreg q[0];", ErrSyntax, "line 1"},
		{"broadcast size mismatch", "qreg a[2];\nqreg b[3];\ncx a, b;", ErrSyntax, "line 3"},
	}

	for _, tt := range tests {
		_, err := Parse(tt.src)
		if err == nil {
			t.Errorf("%s: expected an error", tt.name)
			continue
		}
		if !errors.Is(err, tt.target) {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.target, err)
		}
		if !strings.Contains(err.Error(), tt.line) {
			t.Errorf("%s: expected %q in %q", tt.name, tt.line, err.Error())
		}
	}
}

func TestParseAngle(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		// Plain numbers
		{"1.5707", 1.5707, true},
		{"-0.5", -0.5, true},
		{"0", 0, true},
		{"3.14e-2", 0.0314, true},

		// Pi constant
		{"pi", math.Pi, true},
		{"PI", math.Pi, true},
		{"π", math.Pi, true},

		// Pi fractions and coefficients
		{"pi/2", math.Pi / 2, true},
		{"pi/8", math.Pi / 8, true},
		{"2pi", 2 * math.Pi, true},
		{"3*pi/4", 3 * math.Pi / 4, true},
		{"1.5*pi", 1.5 * math.Pi, true},

		// Negative
		{"-pi", -math.Pi, true},
		{"-3*pi/4", -3 * math.Pi / 4, true},

		// Whitespace
		{" pi / 2 ", math.Pi / 2, true},
		{" 3 * pi / 4 ", 3 * math.Pi / 4, true},

		// Invalid
		{"", 0, false},
		{"abc", 0, false},
		{"pi/0", 0, false},
		{"pi+1", 0, false},
	}

	for _, tt := range tests {
		got, ok := ParseAngle(tt.input)
		if ok != tt.ok {
			t.Errorf("ParseAngle(%q): ok=%v, want ok=%v", tt.input, ok, tt.ok)
			continue
		}
		if ok && math.Abs(got-tt.want) > 1e-10 {
			t.Errorf("ParseAngle(%q) = %g, want %g", tt.input, got, tt.want)
		}
	}
}

func TestParseAnglesList(t *testing.T) {
	if params, ok := parseAngles("pi/2, pi/4"); !ok || len(params) != 2 {
		t.Errorf("parseAngles('pi/2, pi/4') should return 2 params, got %v", params)
	}
	if params, ok := parseAngles("pi/2,garbage"); ok {
		t.Errorf("parseAngles('pi/2,garbage') should fail, got %v", params)
	}
	if params, ok := parseAngles(""); !ok || params != nil {
		t.Errorf("parseAngles('') should return nil, got %v", params)
	}
}
