package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/restaurant-rota/pkg/core/model"
	"github.com/jakechorley/restaurant-rota/pkg/core/services"
	"github.com/jakechorley/restaurant-rota/pkg/core/validation"
	"github.com/jakechorley/restaurant-rota/pkg/schedulefile"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorBold   = "\033[1m"
)

// ValidateCmd creates the validate command
func ValidateCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a schedule against the configured rules",
		Long: `Validate a schedule against the configured rules.

The schedule is read from --file, or from the configured Google Sheet when no file is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			recommend, _ := cmd.Flags().GetBool("recommend")
			asJSON, _ := cmd.Flags().GetBool("json")

			app.Logger.Debug("validate command",
				zap.String("file", file),
				zap.Bool("recommend", recommend),
				zap.Bool("json", asJSON))

			roster, err := loadRoster(app, file)
			if err != nil {
				return err
			}

			result, err := services.ValidateSchedule(app.Ctx, app.Validator, roster, app.Logger, recommend, app.Metrics)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(os.Stdout, result)
			}
			printReport(os.Stdout, result)
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", "", "Schedule YAML file (defaults to the configured Google Sheet)")
	cmd.Flags().Bool("recommend", false, "Include a recommendation for every violation")
	cmd.Flags().Bool("json", false, "Print the result as JSON")

	return cmd
}

// loadRoster reads the schedule from a file, or from the configured sheet when file is empty
func loadRoster(app *AppContext, file string) (*model.Roster, error) {
	if file != "" {
		app.Logger.Info("Reading schedule file", zap.String("path", file))
		roster, err := schedulefile.Load(file)
		if err != nil {
			return nil, err
		}
		return roster, nil
	}

	if app.Cfg.ScheduleSheet == nil {
		return nil, fmt.Errorf("no schedule given: pass --file or configure scheduleSheet")
	}

	client, err := app.SheetsClient()
	if err != nil {
		return nil, err
	}

	app.Logger.Info("Reading schedule sheet",
		zap.String("spreadsheet_id", app.Cfg.ScheduleSheet.SpreadsheetID),
		zap.String("tab", app.Cfg.ScheduleSheet.Tab))
	return client.ReadRoster(app.Ctx, app.Cfg.ScheduleSheet.SpreadsheetID, app.Cfg.ScheduleSheet.Tab)
}

func printJSON(w io.Writer, result *services.ValidationResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}

// printReport writes a human-readable report, most severe violations first
func printReport(w io.Writer, result *services.ValidationResult) {
	report := result.Report
	summary := report.Summary

	fmt.Fprintf(w, "\n%sSchedule %s to %s%s\n", colorBold, report.RangeStart, report.RangeEnd, colorReset)
	fmt.Fprintf(w, "Constraints checked: %d\n\n", summary.ConstraintsChecked)

	if report.Valid {
		fmt.Fprintf(w, "%s✓ No violations found%s\n\n", colorGreen, colorReset)
		return
	}

	fmt.Fprintf(w, "%s✗ %d violations%s (critical: %d, high: %d, medium: %d)\n\n",
		colorRed,
		summary.TotalViolations,
		colorReset,
		summary.BySeverity[validation.SeverityCritical],
		summary.BySeverity[validation.SeverityHigh],
		summary.BySeverity[validation.SeverityMedium])

	for _, v := range report.Violations {
		fmt.Fprintf(w, "  %s%-8s%s %-22s %s\n", severityColor(v.Severity), severityLabel(v.Severity), colorReset, v.Type, v.Message)
	}
	fmt.Fprintln(w)

	if len(result.Recommendations) == 0 {
		return
	}

	fmt.Fprintf(w, "%sRecommendations%s\n\n", colorBold, colorReset)
	for i, rec := range result.Recommendations {
		fmt.Fprintf(w, "  %2d. [%s] %s\n", i+1, rec.Priority, rec.Suggestion)
		for _, alt := range rec.AlternativeActions {
			fmt.Fprintf(w, "        or: %s\n", alt)
		}
	}
	fmt.Fprintln(w)
}

func severityColor(s validation.Severity) string {
	switch s {
	case validation.SeverityCritical, validation.SeverityHigh:
		return colorRed
	default:
		return colorYellow
	}
}

func severityLabel(s validation.Severity) string {
	switch s {
	case validation.SeverityCritical:
		return "CRITICAL"
	case validation.SeverityHigh:
		return "HIGH"
	default:
		return "MEDIUM"
	}
}
