package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/abnfcst/cst"
	"github.com/dhamidi/abnfcst/format"
	"github.com/dhamidi/abnfcst/stream"
)

func newParseCmd() *cobra.Command {
	var grammarPath string
	var start string
	var outputFormat string
	var allNodes bool
	var maxDepth int
	var trace bool

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse input with a grammar and print its syntax tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := compileGrammar(grammarPath)
			if err != nil {
				return err
			}

			filename := "-"
			if len(args) == 1 {
				filename = args[0]
			}
			text, err := readInput(cmd, filename)
			if err != nil {
				return err
			}

			var fopts []format.Option
			if allNodes {
				fopts = append(fopts, format.AllNodes())
			}
			enc, err := format.New(outputFormat, cmd.OutOrStdout(), fopts...)
			if err != nil {
				return err
			}

			opts := []cst.Option{cst.WithMaxDepth(maxDepth)}
			if trace {
				opts = append(opts, cst.WithTrace(traceTo(commonlog.GetLogger("abnfcst.trace"))))
			}
			if filename == "-" {
				filename = ""
			}
			root, err := c.ParseString(start, filename, text, opts...)
			if err != nil {
				return err
			}
			if err := enc.Encode(root); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&grammarPath, "grammar", "g", "", "grammar file, or \"odata\"")
	cmd.Flags().StringVarP(&start, "start", "s", "", "rule the whole input must match")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", format.Names[0], "output format ("+strings.Join(format.Names, ", ")+")")
	cmd.Flags().BoolVarP(&allNodes, "all", "a", false, "show anonymous nodes between named rules")
	cmd.Flags().IntVar(&maxDepth, "max-depth", cst.DefaultMaxDepth, "maximum nesting of named rules")
	cmd.Flags().BoolVar(&trace, "trace", false, "log every rule application (needs -vvv)")
	cmd.MarkFlagRequired("grammar")
	cmd.MarkFlagRequired("start")

	return cmd
}

func readInput(cmd *cobra.Command, filename string) (string, error) {
	if filename == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return string(data), nil
}

func traceTo(log commonlog.Logger) cst.TraceFunc {
	return func(rule string, start stream.Stream, result cst.Outcome) {
		if result.OK {
			log.Debugf("%s %s matched to %s", start, rule, result.Remaining.Position())
		} else {
			log.Debugf("%s %s failed at %s", start, rule, result.FailedAt.Position())
		}
	}
}
