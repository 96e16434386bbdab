package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// promptToken reads a secret from the terminal when stdin is a TTY, so a
// one-shot sync can run without the token in config or environment. On a
// non-TTY stdin it returns empty and the job reports itself unconfigured.
func promptToken(cmd *cobra.Command, label string) string {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return ""
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: ", label)
	tokenBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(tokenBytes))
}
