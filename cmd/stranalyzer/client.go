package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dreamware/stranalyzer/internal/api"
	"github.com/dreamware/stranalyzer/internal/filter"
)

func addCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "add <value>",
		Short: "Analyze and store a string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := api.NewClient(*addr).Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	}
}

func getCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <value>",
		Short: "Fetch a stored string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := api.NewClient(*addr).Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rec)
		},
	}
}

func deleteCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <value>",
		Short: "Remove a stored string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := api.NewClient(*addr).Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", args[0])
			return nil
		},
	}
}

func listCmd(addr *string) *cobra.Command {
	var (
		isPalindrome bool
		minLength    int
		maxLength    int
		wordCount    int
		contains     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored strings, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var set filter.Set
			flags := cmd.Flags()
			if flags.Changed("is-palindrome") {
				set.IsPalindrome = filter.Bool(isPalindrome)
			}
			if flags.Changed("min-length") {
				set.MinLength = filter.Int(minLength)
			}
			if flags.Changed("max-length") {
				set.MaxLength = filter.Int(maxLength)
			}
			if flags.Changed("word-count") {
				set.WordCount = filter.Int(wordCount)
			}
			if flags.Changed("contains-character") {
				set.ContainsCharacter = filter.String(contains)
			}

			resp, err := api.NewClient(*addr).List(cmd.Context(), set)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().BoolVar(&isPalindrome, "is-palindrome", false, "Only palindromes (or, with =false, only non-palindromes)")
	cmd.Flags().IntVar(&minLength, "min-length", 0, "Minimum length in characters")
	cmd.Flags().IntVar(&maxLength, "max-length", 0, "Maximum length in characters")
	cmd.Flags().IntVar(&wordCount, "word-count", 0, "Exact word count")
	cmd.Flags().StringVar(&contains, "contains-character", "", "Single character the string must contain")

	return cmd
}

func queryCmd(addr *string) *cobra.Command {
	return &cobra.Command{
		Use:   "query <text...>",
		Short: "Filter stored strings with a natural-language query",
		Example: `  stranalyzer query single word palindromic strings
  stranalyzer query "strings longer than 5 characters"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := api.NewClient(*addr).Query(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
}
