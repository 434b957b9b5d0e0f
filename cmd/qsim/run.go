package main

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"

	"qtermsim/circuit"
	"qtermsim/internal/config"
	"qtermsim/qasm"
)

func (a *app) runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run FILE",
		Short: "Run an OpenQASM program and print the results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "read program")
			}
			p, err := qasm.Parse(string(src))
			if err != nil {
				return errors.Wrap(err, args[0])
			}

			a.logger.Debug("parsed program",
				zap.String("file", args[0]),
				zap.Int("instructions", len(p.Instructions)),
			)
			res, err := a.runner().Run(cmd.Context(), p, a.cfg.Shots)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), res, a.cfg.Output)
		},
	}
}

type amplitude struct {
	Basis       string  `yaml:"basis"`
	Real        float64 `yaml:"real"`
	Imag        float64 `yaml:"imag"`
	Probability float64 `yaml:"probability"`
	Phase       float64 `yaml:"phase"`
}

type report struct {
	Qubits    int               `yaml:"qubits"`
	Shots     int               `yaml:"shots"`
	Elapsed   string            `yaml:"elapsed"`
	Counts    map[string]int    `yaml:"counts"`
	Registers map[string]string `yaml:"registers,omitempty"`
	State     []amplitude       `yaml:"state"`
	Marginals []float64         `yaml:"marginals"` // P(1) per qubit, qubit 0 first
}

func newReport(res *circuit.Result) report {
	r := report{
		Qubits:  res.NumQubits,
		Shots:   res.Shots,
		Elapsed: res.Elapsed.String(),
		Counts:  res.Counts,
	}
	if len(res.Registers) > 0 {
		r.Registers = make(map[string]string, len(res.Registers))
		for name, bits := range res.Registers {
			r.Registers[name] = bitString(bits)
		}
	}
	for _, b := range res.State {
		r.State = append(r.State, amplitude{
			Basis:       b.Bits,
			Real:        real(b.Amplitude),
			Imag:        imag(b.Amplitude),
			Probability: b.Probability,
			Phase:       b.Phase,
		})
	}
	for _, m := range res.Marginals {
		r.Marginals = append(r.Marginals, m.One)
	}
	return r
}

func writeResult(w io.Writer, res *circuit.Result, format string) error {
	if format == config.OutputYAML {
		data, err := yaml.Marshal(newReport(res))
		if err != nil {
			return errors.Wrap(err, "marshal result")
		}
		_, err = w.Write(data)
		return err
	}

	fmt.Fprintf(w, "%d qubits, %d shots, %s\n\n", res.NumQubits, res.Shots, res.Elapsed)

	counts := newTable("outcome", "count", "frequency")
	for _, k := range res.Counts.Keys() {
		counts.Row(k, strconv.Itoa(res.Counts[k]), fmt.Sprintf("%.4f", res.Counts.Probability(k)))
	}
	fmt.Fprintln(w, counts.Render())

	amps := newTable("basis", "amplitude", "probability", "phase")
	for _, b := range res.State {
		amps.Row(
			"|"+b.Bits+"⟩",
			fmt.Sprintf("%+.6f%+.6fi", real(b.Amplitude), imag(b.Amplitude)),
			fmt.Sprintf("%.6f", b.Probability),
			fmt.Sprintf("%+.4f", b.Phase),
		)
	}
	fmt.Fprintln(w, amps.Render())

	marg := newTable("qubit", "P(0)", "P(1)")
	for q, p := range res.Marginals {
		marg.Row(fmt.Sprintf("q[%d]", q), fmt.Sprintf("%.4f", p.Zero), fmt.Sprintf("%.4f", p.One))
	}
	fmt.Fprintln(w, marg.Render())

	if len(res.Registers) > 0 {
		regs := newTable("register", "bits")
		names := make([]string, 0, len(res.Registers))
		for name := range res.Registers {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			regs.Row(name, bitString(res.Registers[name]))
		}
		fmt.Fprintln(w, regs.Render())
	}
	return nil
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// bitString writes register bits highest index first.
func bitString(bits []int) string {
	var sb strings.Builder
	for i := len(bits) - 1; i >= 0; i-- {
		sb.WriteByte('0' + byte(bits[i]))
	}
	return sb.String()
}
