package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhamidi/abnfcst/lsp"
)

func newLSPCmd() *cobra.Command {
	var grammarPath string
	var start string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start a language server reporting syntax errors",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := compileGrammar(grammarPath)
			if err != nil {
				return err
			}
			if _, ok := c.Rule(start); !ok {
				return fmt.Errorf("undefined start rule %s", start)
			}
			server := lsp.NewServer(c, start, version)
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVarP(&grammarPath, "grammar", "g", "", "grammar file, or \"odata\"")
	cmd.Flags().StringVarP(&start, "start", "s", "", "start rule documents are parsed with")
	cmd.MarkFlagRequired("grammar")
	cmd.MarkFlagRequired("start")

	return cmd
}
