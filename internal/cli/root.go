// Package cli provides the yard-scout commands. Commands are organized
// using the cobra library. The root command runs a single inventory check
// and exits, which suits cron and systemd timers. The "watch" sub-command
// keeps running and checks on a fixed interval, and the "bot" sub-command
// answers /start so the chat id for notifications can be looked up.
//
//	./yard-scout [-c /path/of/config.yaml]          # one check
//	./yard-scout watch [-c /path/of/config.yaml]    # check every interval
//	./yard-scout bot [-c /path/of/config.yaml]      # serve /start
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Houeta/yard-scout/internal/services/scheduler"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "yard-scout",
	Short: "Notifies a Telegram chat about vehicles newly added to a salvage yard",
	Long: `yard-scout downloads the inventory search results of a salvage yard,
compares them with the last saved snapshot and sends one Telegram message
listing the vehicles that were not there before. The snapshot is saved
before the message goes out, so a vehicle is never announced twice.`,
	SilenceUsage: true,
	RunE:         runCheck,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the inventory check on a fixed interval until interrupted",
	RunE:  runWatch,
}

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Serve the Telegram bot so /start reports the chat id",
	RunE:  runBot,
}

func runCheck(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cfgPath)
	if err != nil {
		return err
	}
	defer a.Close()

	// Failures are already logged by the checker; a failed cycle is not a failed run.
	a.checker.RunOnce(ctx)

	return nil
}

func runWatch(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(ctx, cfgPath)
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := scheduler.NewScheduler(a.log, a.checker, scheduler.Config{
		Interval:     a.cfg.Watch.Interval,
		RunOnStartup: a.cfg.Watch.RunOnStartup,
	})
	if err != nil {
		return fmt.Errorf("failed to init scheduler: %w", err)
	}

	a.log.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")
	sched.Run(ctx)
	a.log.InfoContext(ctx, "Application stopped gracefully.")

	return nil
}

func runBot(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newBotApp(cfgPath)
	if err != nil {
		return err
	}
	defer a.Close()

	a.log.InfoContext(ctx, "Application started. Press Ctrl+C to stop.")

	// Start the bot in a goroutine to allow the command to listen for signals.
	go a.bot.Start()

	<-ctx.Done()

	a.log.InfoContext(ctx, "Shutdown signal received. Stopping application...")
	a.bot.Stop()
	a.log.InfoContext(ctx, "Application stopped gracefully.")

	return nil
}

// Execute runs the rootCmd with a context that is canceled on SIGINT or SIGTERM.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(
		&cfgPath, "config", "c", os.Getenv("YS_CONFIG_FILE"), "config file path",
	)
	rootCmd.AddCommand(watchCmd, botCmd)
}
