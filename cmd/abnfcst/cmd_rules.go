package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRulesCmd() *cobra.Command {
	var withDefinitions bool

	cmd := &cobra.Command{
		Use:   "rules <grammar>",
		Short: "List the rules a grammar defines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGrammar(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, p := range g.Productions() {
				if withDefinitions {
					fmt.Fprintf(w, "%s = %s\n", p.Name, p.Expr)
					continue
				}
				fmt.Fprintf(w, "%s\t%s\n", p.Name, p.Pos)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&withDefinitions, "definitions", "d", false, "print each rule's definition in ABNF")

	return cmd
}
