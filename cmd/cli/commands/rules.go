package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/restaurant-rota/pkg/core/configcache"
	"github.com/jakechorley/restaurant-rota/pkg/core/services"
	"github.com/jakechorley/restaurant-rota/pkg/rulesfile"
)

const monthLayout = "2006-01"

// RulesCmd creates the rules command
func RulesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the rules validation would use for a month",
		Long: `Print the rules validation would use for a month, as YAML.

Rule families missing from the store are shown with their built-in defaults.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			monthFlag, _ := cmd.Flags().GetString("month")

			month := time.Now()
			if monthFlag != "" {
				parsed, err := time.Parse(monthLayout, monthFlag)
				if err != nil {
					return fmt.Errorf("month must be YYYY-MM: %w", err)
				}
				month = parsed
			}

			app.Logger.Debug("rules command", zap.String("month", month.Format(monthLayout)))

			rules := services.CurrentRules(app.Ctx, app.Cache, month.Year(), month.Month(), app.Logger)

			out, err := yaml.Marshal(rules)
			if err != nil {
				return fmt.Errorf("failed to encode rules: %w", err)
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}

	cmd.Flags().StringP("month", "m", "", "Month to show, as YYYY-MM (defaults to the current month)")

	return cmd
}

// ImportRulesCmd creates the import-rules command
func ImportRulesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import-rules <file>",
		Short: "Write a rules YAML file into the configured rule store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.RuleStore == nil {
				return fmt.Errorf("import-rules needs a sqlite or postgres rule store (driver is %q)", app.Cfg.RuleStore.Driver)
			}

			app.Logger.Debug("import-rules command", zap.String("file", args[0]))

			f, err := rulesfile.LoadFile(args[0])
			if err != nil {
				return err
			}

			// Limits the file leaves out keep their built-in defaults rather than being cleared
			if !f.Has(rulesfile.SectionDailyLimits) {
				f.Rules.DailyLimits = configcache.DefaultDailyLimits()
			}
			if !f.Has(rulesfile.SectionWeeklyLimits) {
				f.Rules.WeeklyLimits = configcache.DefaultWeeklyLimits()
			}

			if err := services.ImportRules(app.Ctx, app.RuleStore, &f.Rules, app.Logger); err != nil {
				return err
			}

			fmt.Printf("\n✓ Rules imported from %s\n\n", args[0])
			return nil
		},
	}
}
