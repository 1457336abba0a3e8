package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jakechorley/restaurant-rota/pkg/core/services"
	"github.com/jakechorley/restaurant-rota/pkg/redis"
	"github.com/jakechorley/restaurant-rota/pkg/schedulefile"
)

// WatchCmd creates the watch command
func WatchCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-validate a schedule file whenever the rules change",
		Long: `Validate a schedule file, then validate it again every time the rule
configuration is invalidated: by a local import, a redis change message or a
postgres notification. With --interval the file is also re-checked periodically.

Prometheus metrics are served while watching when metrics.addr is configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			recommend, _ := cmd.Flags().GetBool("recommend")
			interval, _ := cmd.Flags().GetDuration("interval")

			app.Logger.Debug("watch command",
				zap.String("file", file),
				zap.Bool("recommend", recommend),
				zap.Duration("interval", interval))

			ctx, stop := signal.NotifyContext(app.Ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()

			trigger := make(chan struct{}, 1)
			unsubscribe := app.Cache.OnInvalidated(func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})
			defer unsubscribe()

			if app.Metrics != nil && app.Cfg.Metrics != nil {
				go func() {
					if err := app.Metrics.Serve(ctx, app.Cfg.Metrics.Addr, app.Logger); err != nil {
						app.Logger.Error("Metrics server stopped", zap.Error(err))
					}
				}()
			}

			if app.Bus != nil {
				go func() {
					err := app.Bus.Subscribe(ctx, func(change redis.Change) {
						app.Cache.Invalidate()
					})
					if err != nil {
						app.Logger.Error("Redis subscription stopped", zap.Error(err))
					}
				}()
			}

			if app.Postgres != nil {
				go func() {
					err := app.Postgres.Listen(ctx, func(key string) {
						app.Cache.Invalidate()
					})
					if err != nil {
						app.Logger.Error("Postgres listener stopped", zap.Error(err))
					}
				}()
			}

			run := func(reason string) {
				app.Logger.Info("Validating schedule", zap.String("reason", reason))

				roster, err := schedulefile.Load(file)
				if err != nil {
					app.Logger.Error("Failed to read schedule", zap.Error(err))
					return
				}

				result, err := services.ValidateSchedule(ctx, app.Validator, roster, app.Logger, recommend, app.Metrics)
				if err != nil {
					app.Logger.Error("Failed to validate schedule", zap.Error(err))
					return
				}
				printReport(os.Stdout, result)
			}

			var tick <-chan time.Time
			if interval > 0 {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				tick = ticker.C
			}

			run("start")
			fmt.Println("Watching for rule changes (Ctrl+C to stop)")

			for {
				select {
				case <-ctx.Done():
					app.Logger.Info("Stopped watching")
					return nil
				case <-trigger:
					run("rules changed")
				case <-tick:
					run("interval")
				}
			}
		},
	}

	cmd.Flags().StringP("file", "f", "", "Schedule YAML file")
	cmd.Flags().Bool("recommend", false, "Include a recommendation for every violation")
	cmd.Flags().Duration("interval", 0, "Also re-validate at this interval (e.g. 1m); 0 disables")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
