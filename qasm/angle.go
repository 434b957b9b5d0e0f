package qasm

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// angleRegex splits "[sign][coefficient][*]pi[/denominator]", e.g. "-3*pi/4",
// "2pi", "π/8".
var angleRegex = regexp.MustCompile(`^([+-]?)\s*([0-9.]*)\s*\*?\s*(?:pi|π)\s*(?:/\s*([0-9.]+))?$`)

// ParseAngle evaluates a gate parameter written as a decimal number or a
// rational multiple of pi.
func ParseAngle(expr string) (float64, bool) {
	expr = strings.ToLower(strings.TrimSpace(expr))
	if v, err := strconv.ParseFloat(expr, 64); err == nil {
		return v, true
	}

	m := angleRegex.FindStringSubmatch(expr)
	if m == nil {
		return 0, false
	}
	coef, den := 1.0, 1.0
	var err error
	if m[2] != "" {
		if coef, err = strconv.ParseFloat(m[2], 64); err != nil {
			return 0, false
		}
	}
	if m[3] != "" {
		if den, err = strconv.ParseFloat(m[3], 64); err != nil || den == 0 {
			return 0, false
		}
	}

	v := coef * math.Pi / den
	if m[1] == "-" {
		v = -v
	}
	return v, true
}

// piDenominators are tried in increasing order so the first match is reduced.
var piDenominators = []int{1, 2, 3, 4, 6, 8, 12, 16}

// FormatAngle writes v as a multiple of pi when it is one of a few small
// fractions (up to 4pi), and as the shortest exact decimal otherwise.
func FormatAngle(v float64) string {
	for _, den := range piDenominators {
		num := math.Round(v / math.Pi * float64(den))
		if num == 0 || math.Abs(num) > float64(4*den) {
			continue
		}
		if math.Abs(v-num*math.Pi/float64(den)) > 1e-12 {
			continue
		}

		var s string
		switch num {
		case 1:
			s = "pi"
		case -1:
			s = "-pi"
		default:
			s = fmt.Sprintf("%d*pi", int(num))
		}
		if den > 1 {
			s += "/" + strconv.Itoa(den)
		}
		return s
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// parseAngles evaluates a comma separated parameter list. An empty list is
// valid and yields no parameters.
func parseAngles(list string) ([]float64, bool) {
	if strings.TrimSpace(list) == "" {
		return nil, true
	}
	var out []float64
	for _, part := range strings.Split(list, ",") {
		v, ok := ParseAngle(part)
		if !ok {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}
