// Command errbridge routes application error events to Google Cloud Logging
// or Google Cloud Error Reporting.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/errbridge/errbridge/pkg/build"
	"github.com/errbridge/errbridge/pkg/config"
	"github.com/errbridge/errbridge/pkg/eventtarget"
	"github.com/errbridge/errbridge/pkg/reporter"
)

func main() {
	cmd := &cobra.Command{
		Use:     "errbridge",
		Short:   "Route application error events to Cloud Logging or Error Reporting",
		Version: build.Print("errbridge"),
	}
	cmd.SetVersionTemplate("{{ .Version }}\n")

	cmd.AddCommand(
		checkCmd(),
		sendCmd(),
	)

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func checkCmd() *cobra.Command {
	var expandEnv bool

	cmd := &cobra.Command{
		Use:   "check [config file]",
		Short: "Perform basic validation of the given configuration file",
		Long: `check validates the given errbridge configuration file without constructing
any backend clients. Optionally, ${var} style substitutions can be expanded
based on the values of the environment variables.

If the configuration file is valid the exit code will be 0, otherwise 1.`,
		Args: cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			cfg := config.Config{}
			if err := config.LoadFile(args[0], expandEnv, &cfg); err != nil {
				fmt.Fprintf(os.Stderr, "failed to load config: %s\n", err)
				os.Exit(1)
			}

			fmt.Printf("config valid: %s target\n", cfg.Target.Kind)
		},
	}

	cmd.Flags().BoolVarP(&expandEnv, "expand-env", "e", false, "expand ${var} references against the environment")
	return cmd
}

func sendCmd() *cobra.Command {
	var (
		expandEnv bool
		message   string
		user      string
		timeout   time.Duration
	)

	cmd := &cobra.Command{
		Use:   "send [config file]",
		Short: "Send a test error event through the configured target",
		Args:  cobra.ExactArgs(1),
		Run: func(_ *cobra.Command, args []string) {
			logger := log.NewLogfmtLogger(log.NewSyncWriter(os.Stdout))

			cfg := config.Config{}
			if err := config.LoadFile(args[0], expandEnv, &cfg); err != nil {
				level.Error(logger).Log("msg", "failed to load config", "err", err)
				os.Exit(1)
			}

			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			target, err := cfg.Target.Target(ctx)
			if err != nil {
				level.Error(logger).Log("msg", "failed to build event target", "err", err)
				os.Exit(1)
			}

			rep, err := reporter.New(target, logger,
				reporter.NewMetrics(prometheus.NewRegistry()),
				reporter.WithServiceContext(cfg.Target.Service, cfg.Target.ServiceVersion),
			)
			if err != nil {
				level.Error(logger).Log("msg", "failed to create reporter", "err", err)
				os.Exit(1)
			}
			defer rep.Close()

			if err := rep.Report(ctx, reporter.Event{Message: message, User: user}); err != nil {
				level.Error(logger).Log("msg", "failed to deliver test event", "err", err)
				os.Exit(1)
			}
			level.Info(logger).Log("msg", "test event delivered", "kind", target.Kind())

			if target.Kind() == eventtarget.KindLogging {
				level.Info(logger).Log("msg", "look for the event in the configured log", "log", target.LogName(), "parent", target.LogTarget())
			}
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "errbridge test event", "message to report")
	cmd.Flags().StringVarP(&user, "user", "u", "", "user to attribute the event to")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 30*time.Second, "overall timeout for client construction and delivery")
	cmd.Flags().BoolVarP(&expandEnv, "expand-env", "e", false, "expand ${var} references against the environment")
	return cmd
}
