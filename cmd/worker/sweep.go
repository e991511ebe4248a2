package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dappforge/dappforge-backend/config"
	"github.com/dappforge/dappforge-backend/internal/bootstrap"
	cronjob "github.com/dappforge/dappforge-backend/internal/deployments/cron"
	"github.com/dappforge/dappforge-backend/internal/deployments/scratch"
)

func newSweepCmd() *cobra.Command {
	var (
		root   string
		maxAge time.Duration
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Remove scratch directories older than --max-age",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if root == "" {
				root = cfg.Scratch.Root
			}
			if maxAge == 0 {
				maxAge = cfg.Scratch.SweepMaxAge
			}
			if maxAge <= cfg.Toolchain.MaxRun() {
				return fmt.Errorf("--max-age %s would remove directories of running deployments (limit %s)",
					maxAge, cfg.Toolchain.MaxRun())
			}

			log := bootstrap.NewLogger(bootstrap.LoggerOptions{
				Environment: cfg.App.Environment,
				Level:       cfg.App.LogLevel,
				Service:     "dappforge-worker",
				Version:     cfg.App.Version,
			})

			space, err := scratch.NewSpace(root)
			if err != nil {
				return err
			}
			sweeper := cronjob.NewSweeper(space, cfg.Scratch.SweepSchedule, maxAge, log)

			if !watch {
				removed, err := sweeper.RunOnce()
				for _, p := range removed {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
				return err
			}

			if err := sweeper.Start(); err != nil {
				return err
			}
			defer sweeper.Stop()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit
			return nil
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "scratch root (default SCRATCH_DIR)")
	cmd.Flags().DurationVar(&maxAge, "max-age", 0, "minimum age of removed directories (default SWEEP_MAX_AGE)")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep running on SWEEP_SCHEDULE")
	return cmd
}
