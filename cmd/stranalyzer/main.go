// Package main provides the stranalyzer binary: the HTTP server ("serve")
// and a command-line client for a running server.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "stranalyzer"

	defaultAddr = "http://127.0.0.1:8000"
)

var exit = os.Exit

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
}

func rootCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Analyze, store and query strings",
		Long: `stranalyzer computes properties of strings (length, palindrome,
unique characters, word count, character frequencies, SHA-256) and keeps
them in memory behind a JSON HTTP API.

Run "stranalyzer serve" to start the server; the other commands talk to a
running server at --addr.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&addr, "addr", getenv("STRANALYZER_ADDR", defaultAddr),
		"Server base URL for client commands")

	cmd.AddCommand(
		serveCmd(),
		addCmd(&addr),
		getCmd(&addr),
		deleteCmd(&addr),
		listCmd(&addr),
		queryCmd(&addr),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
			},
		},
	)

	return cmd
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
