package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/abnfcst/abnf"
	"github.com/dhamidi/abnfcst/grammar"
)

func newCheckCmd() *cobra.Command {
	var start string

	cmd := &cobra.Command{
		Use:           "check <grammar>",
		Short:         "Parse, verify and compile a grammar",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := loadGrammar(args[0])
			if err != nil {
				printErrors(cmd, err)
				return err
			}

			if err := check(g, start); err != nil {
				printErrors(cmd, err)
				return err
			}

			if _, err := abnf.Compile(g); err != nil {
				printErrors(cmd, err)
				return err
			}

			for _, name := range grammar.ProseRules(g) {
				fmt.Fprintf(cmd.OutOrStdout(), "rule %s is prose and never matches\n", name)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "start rule for reachability (if empty, unused rules are not reported)")

	return cmd
}

// check verifies g with the core rules available. Core rules g does not
// use are not reported as unreachable.
func check(g *grammar.Grammar, start string) error {
	merged := g.Merge(abnf.Core())
	errs := []error{grammar.Verify(merged, "")}
	if start != "" {
		if !merged.Has(start) {
			errs = append(errs, &grammar.Error{Msg: "undefined start rule " + start})
		} else {
			reached := grammar.Reachable(merged, start)
			for _, p := range g.Productions() {
				if !reached[strings.ToLower(p.Name)] {
					errs = append(errs, &grammar.Error{Pos: p.Pos, Msg: fmt.Sprintf("rule %s is unreachable from %s", p.Name, start)})
				}
			}
		}
	}
	return errors.Join(errs...)
}

func printErrors(cmd *cobra.Command, err error) {
	w := cmd.ErrOrStderr()
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			printErrors(cmd, e)
		}
		return
	}
	fmt.Fprintln(w, err)
}
