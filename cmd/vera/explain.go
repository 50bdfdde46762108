package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vera/internal/diag"
)

var explainCmd = &cobra.Command{
	Use:   "explain <code>",
	Short: "Show the extended explanation for a diagnostic code",
	Long:  `Accepts either the rendered identifier (VER4001) or the bare number (4001).`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		code, err := parseCode(args[0])
		if err != nil {
			return err
		}
		text, ok := diag.Explain(code)
		if !ok {
			return fmt.Errorf("no extended explanation recorded for %s", code.ID())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", code.ID(), text)
		return nil
	},
}

func parseCode(arg string) (diag.Code, error) {
	digits := strings.TrimLeftFunc(strings.ToUpper(arg), func(r rune) bool {
		return r >= 'A' && r <= 'Z'
	})
	n, err := strconv.ParseUint(digits, 10, 16)
	if err != nil {
		return diag.CodeNone, fmt.Errorf("unrecognized diagnostic code %q", arg)
	}
	return diag.Code(n), nil
}
