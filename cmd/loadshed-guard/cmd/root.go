package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/loadshed-guard/internal/config"
	"github.com/oshokin/loadshed-guard/internal/service/guard"
	"github.com/oshokin/loadshed-guard/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// dryRun logs switch-offs instead of sending them.
	dryRun bool
	// allowMultiple skips the single instance check.
	allowMultiple bool
	// statusAddress overrides the HTTP status listen address.
	statusAddress string
	// grpcAddress overrides the gRPC health listen address.
	grpcAddress string

	// rootCmd represents the base command that runs the guard.
	rootCmd = &cobra.Command{
		Use:   "loadshed-guard",
		Short: "Switch a smart AC off before scheduled load-shedding.",
		Long: `Watches the EskomSePush load-shedding schedule of one area and switches
a Tuya smart device off shortly before the next outage starts.

The schedule and the national stage are refreshed periodically, the device
state is polled every minute, and a single switch-off is kept armed for the
predicted outage while the device is on and the outage is within the lead time.`,
		Args: cobra.NoArgs,
		RunE: run,
	}

	// runCmd is the explicit form of the root command.
	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Run the guard until interrupted.",
		Args:  cobra.NoArgs,
		RunE:  run,
	}
)

func run(_ *cobra.Command, _ []string) error {
	// Setup graceful shutdown handling.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	return guard.Run(ctx, options())
}

// Execute runs the loadshed-guard CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	rootCmd.AddCommand(runCmd, predictCmd, allowanceCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func options() *guard.Options {
	return &guard.Options{
		ConfigPath:    configPath,
		DryRun:        dryRun,
		AllowMultiple: allowMultiple,
		StatusAddress: statusAddress,
		GRPCAddress:   grpcAddress,
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")

	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "log switch-offs instead of sending them")
	rootCmd.PersistentFlags().BoolVar(&allowMultiple, "allow-multiple", false, "skip the check for another running guard")
	rootCmd.PersistentFlags().StringVar(&statusAddress, "status-listen", "", "HTTP status listen address, overrides the config")
	rootCmd.PersistentFlags().StringVar(&grpcAddress, "grpc-listen", "", "gRPC health listen address, overrides the config")

	// Hidden: only useful for side-by-side setups.
	err := rootCmd.PersistentFlags().MarkHidden("allow-multiple")
	if err != nil {
		panic(err)
	}
}
