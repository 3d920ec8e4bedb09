package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <file> <question>",
	Short: "Answer a question from a report's text",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args[1:], " ")
		if strings.TrimSpace(question) == "" {
			return fmt.Errorf("question is required")
		}

		ctx := cmd.Context()
		svc, sess, err := loadDocument(ctx, cmd, args[0])
		if err != nil {
			return err
		}

		var answer string
		_ = withSpinner("Processing your query...", func() error {
			answer = svc.Ask(ctx, sess, question)
			return nil
		})

		color.New(color.FgCyan, color.Bold).Fprintf(cmd.OutOrStdout(), "Answer:\n")
		fmt.Fprintln(cmd.OutOrStdout(), answer)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
