package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/dgallion1/finreport/internal/app"
	"github.com/dgallion1/finreport/internal/dashboard"
	"github.com/dgallion1/finreport/internal/export"
	"github.com/dgallion1/finreport/internal/failure"
	"github.com/dgallion1/finreport/internal/finance"
	"github.com/dgallion1/finreport/internal/prompt"
	"github.com/dgallion1/finreport/internal/session"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract the financial record from a report",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

func init() {
	extractCmd.Flags().String("result-type", string(prompt.Consolidated), "Consolidated or Standalone")
	extractCmd.Flags().String("csv", "", "write the report as CSV to this path")
	extractCmd.Flags().String("xlsx", "", "write the report as XLSX to this path")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	rtFlag, _ := cmd.Flags().GetString("result-type")
	rt, err := prompt.ParseResultType(rtFlag)
	if err != nil {
		return err
	}
	csvPath, _ := cmd.Flags().GetString("csv")
	xlsxPath, _ := cmd.Flags().GetString("xlsx")

	ctx := cmd.Context()
	svc, sess, err := loadDocument(ctx, cmd, args[0])
	if err != nil {
		return err
	}

	var rec finance.Record
	err = withSpinner("Extracting financial data...", func() error {
		var err error
		rec, err = svc.Extract(ctx, sess, rt)
		return err
	})
	if err != nil {
		color.Red("%s\n", failure.Message(err))
		return err
	}

	out := cmd.OutOrStdout()
	printView(out, dashboard.BuildView(rec, svc.Prompts().Period), rec)

	if csvPath != "" {
		data, err := export.ToCSV(rec)
		if err != nil {
			return err
		}
		if err := os.WriteFile(csvPath, []byte(data), 0o644); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
		color.Green("✓ Wrote %s\n", csvPath)
	}
	if xlsxPath != "" {
		data, err := export.ToXLSX(rec)
		if err != nil {
			return err
		}
		if err := os.WriteFile(xlsxPath, data, 0o644); err != nil {
			return fmt.Errorf("write xlsx: %w", err)
		}
		color.Green("✓ Wrote %s\n", xlsxPath)
	}
	return nil
}

// loadDocument builds the service and reads path into a fresh session.
func loadDocument(ctx context.Context, cmd *cobra.Command, path string) (*dashboard.Service, *session.Session, error) {
	level, _ := cmd.Flags().GetString("log-level")
	log := app.NewLoggerTo(cmd.ErrOrStderr(), level)

	svc, err := app.NewService(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	sess := session.NewStore(time.Hour).Create()
	if err := svc.Upload(sess, data, filepath.Base(path)); err != nil {
		color.Red("%s\n", failure.Message(err))
		return nil, nil, err
	}
	log.Debug("document loaded", "path", path, "chars", len(sess.Text()))
	return svc, sess, nil
}

func getSpinner(description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(color.CyanString(description)),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(20),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionClearOnFinish(),
	)
}

// withSpinner animates a spinner on stderr while fn runs.
func withSpinner(description string, fn func() error) error {
	bar := getSpinner(description)
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()
	err := fn()
	close(done)
	_ = bar.Finish()
	return err
}

func printView(w io.Writer, v dashboard.View, rec finance.Record) {
	heading := color.New(color.FgCyan, color.Bold)
	label := color.New(color.FgWhite, color.Bold)

	heading.Fprintf(w, "Key Financial Metrics\n")
	for _, t := range v.Tiles {
		label.Fprintf(w, "  %-24s", t.Label)
		fmt.Fprintf(w, " %s\n", t.Value)
	}

	if len(rec.Segments) > 0 {
		heading.Fprintf(w, "\nSegments\n")
		for _, s := range rec.Segments {
			label.Fprintf(w, "  %-24s", s.Name)
			fmt.Fprintf(w, " Revenue %s, EBIT %s\n", s.Revenue, s.EBIT)
		}
	}

	if len(rec.Ratios) > 0 {
		heading.Fprintf(w, "\nRatios\n")
		for _, r := range rec.Ratios {
			label.Fprintf(w, "  %-24s", r.Name)
			fmt.Fprintf(w, " %s\n", r.Value)
		}
	}

	heading.Fprintf(w, "\nSummary\n")
	fmt.Fprintf(w, "  Company Name: %s\n", v.Company)
	for _, line := range v.Summary {
		fmt.Fprintf(w, "  %s\n", line)
	}

	heading.Fprintf(w, "\nKey Insights\n")
	for _, line := range v.Insights {
		fmt.Fprintf(w, "  - %s\n", line)
	}
}
