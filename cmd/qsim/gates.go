package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"qtermsim/gates"
)

func (a *app) gatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "gates",
		Short: "List the supported gates",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), gateTable(gates.Default()))
		},
	}
}

func gateTable(c *gates.Catalog) string {
	t := newTable("gate", "qubits", "params", "description")
	for _, name := range c.Names() {
		def, ok := c.Definition(name)
		if !ok {
			continue
		}
		t.Row(def.Name, strconv.Itoa(def.Qubits), strconv.Itoa(def.Params), def.Description)
	}
	return t.Render()
}
