package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/daytrack/internal/report"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print today's report without opening the TUI",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportFormat, "format", "text", "Output format: text, md")
}

func runReport(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.close()

	summary := report.Build(a.tracker.Day())
	switch reportFormat {
	case "md":
		fmt.Print(summary.Markdown())
	default:
		fmt.Print(summary.Text())
	}
	return nil
}
