package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/club-finance/internal/dues"
	"github.com/frahmantamala/club-finance/internal/member"
	memberPostgres "github.com/frahmantamala/club-finance/internal/member/postgres"
	"github.com/spf13/cobra"
)

var duesCmd = &cobra.Command{
	Use:   "dues",
	Short: "Dues cycle operations",
	Long:  `Operate on the active dues cycle: reminders, overdue notices and grace enforcement.`,
}

var duesRunCmd = &cobra.Command{
	Use:       "run [send-reminders|send-overdue|enforce-grace]",
	Short:     "Run one dues automation phase against the active cycle",
	Long:      `Run one dues automation phase directly, without going through the HTTP automation endpoint. Intended for system cron.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{string(dues.ActionSendReminders), string(dues.ActionSendOverdue), string(dues.ActionEnforceGrace)},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDuesPhase(dues.Action(args[0]))
	},
}

var (
	duesRunTimeout     time.Duration
	duesRunConcurrency int
	duesRunNoDedupe    bool
)

func runDuesPhase(action dues.Action) error {
	deps, err := initializeDependencies()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	if duesRunConcurrency > 0 {
		deps.Config.Dues.NotifyConcurrency = duesRunConcurrency
	}
	if duesRunNoDedupe {
		deps.Config.Dues.DedupePerDay = false
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, duesRunTimeout)
	defer cancel()

	members := member.NewService(memberPostgres.NewMemberRepository(deps.Gorm), deps.Bus, deps.Logger)
	engine := newDuesEngine(deps, members)

	deps.Logger.Info("running dues phase",
		"action", action,
		"notify_concurrency", deps.Config.Dues.NotifyConcurrency,
		"dedupe_per_day", deps.Config.Dues.DedupePerDay)

	res, runErr := engine.Run(ctx, action)

	closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer closeCancel()
	deps.Close(closeCtx)

	if runErr != nil {
		return runErr
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func init() {
	duesRunCmd.Flags().DurationVar(&duesRunTimeout, "timeout", 5*time.Minute, "Abort the phase after this long")
	duesRunCmd.Flags().IntVar(&duesRunConcurrency, "concurrency", 0, "Parallel notifications (overrides config)")
	duesRunCmd.Flags().BoolVar(&duesRunNoDedupe, "no-dedupe", false, "Resend even if the member was already notified today")

	duesCmd.AddCommand(duesRunCmd)

	rootCmd.AddCommand(duesCmd)
}
