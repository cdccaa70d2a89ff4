package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"reconciler/core/reconcile"
	"reconciler/feature/report"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the compare command
	csvOutput   string
	jsonOutput  string
	uploadFlag  bool
	showMatched bool
	noColor     bool
	failOnDiff  bool
)

// compareCmd runs the configured reconciliation once and prints the differences.
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare the configured left and right sources",
	Long: `Reads both configured sources in key order and prints every row that is
missing on one side or whose compared columns differ.

Examples:
  # Print differences
  reconciler compare

  # Also write a CSV report and fail when anything differs
  reconciler compare --csv diff.csv --fail-on-diff

  # Upload the CSV and JSON reports to the storage bucket
  reconciler compare --upload`,
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&csvOutput, "csv", "", "Write a CSV report to this file")
	compareCmd.Flags().StringVar(&jsonOutput, "json", "", "Write the JSON result to this file")
	compareCmd.Flags().BoolVar(&uploadFlag, "upload", false, "Upload CSV and JSON reports to object storage")
	compareCmd.Flags().BoolVar(&showMatched, "show-matched", false, "Also print matching rows")
	compareCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	compareCmd.Flags().BoolVar(&failOnDiff, "fail-on-diff", false, "Exit with status 2 when any difference is found")

	RootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := setup()
	if err != nil {
		return err
	}
	defer env.Close()

	var consoleOpts []report.ConsoleOption
	if showMatched {
		consoleOpts = append(consoleOpts, report.ShowMatched())
	}
	if noColor {
		consoleOpts = append(consoleOpts, report.NoColor())
	}
	console := report.NewConsole(cmd.OutOrStdout(), consoleOpts...)
	consumers := []reconcile.Consumer{console}

	var csvBuf bytes.Buffer
	var csvWriter *report.CSVWriter
	if csvOutput != "" || uploadFlag {
		csvWriter = report.NewCSVWriter(&csvBuf)
		consumers = append(consumers, csvWriter)
	}

	result, err := env.service.Run(ctx, consumers...)
	if err != nil {
		return err
	}
	if err := console.PrintStats(result.Stats); err != nil {
		return err
	}

	if csvWriter != nil {
		if err := csvWriter.Flush(); err != nil {
			return fmt.Errorf("failed to write csv report: %w", err)
		}
		if csvOutput != "" {
			if err := os.WriteFile(csvOutput, csvBuf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write csv report: %w", err)
			}
		}
	}

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	if jsonOutput != "" {
		if err := os.WriteFile(jsonOutput, payload, 0o644); err != nil {
			return fmt.Errorf("failed to write json result: %w", err)
		}
	}

	if uploadFlag {
		uploader := report.NewUploader(env.store, env.cfg.Storage.Bucket, env.cfg.Storage.ReportPrefix)
		for _, r := range []struct {
			name, contentType string
			data              []byte
		}{
			{result.RunID + ".csv", "text/csv", csvBuf.Bytes()},
			{result.RunID + ".json", "application/json", payload},
		} {
			object, err := uploader.Upload(ctx, r.name, r.data, r.contentType)
			if err != nil {
				return fmt.Errorf("failed to upload %s: %w", r.name, err)
			}
			env.logger.Info("Uploaded report", zap.String("bucket", env.cfg.Storage.Bucket), zap.String("object", object))
		}
	}

	if failOnDiff && !result.Stats.Clean() {
		return errDifferences
	}
	return nil
}
