package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/oshokin/loadshed-guard/internal/service/guard"
)

// predictCmd fetches the schedule once and prints the next outage.
var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Print the next predicted outage.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		prediction, err := guard.Predict(ctx, options())
		if err != nil {
			return err
		}

		return printPrediction(cmd.OutOrStdout(), prediction)
	},
}

// allowanceCmd prints the remaining EskomSePush quota.
var allowanceCmd = &cobra.Command{
	Use:   "allowance",
	Short: "Print the remaining EskomSePush API quota.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		defer stop()

		allowance, err := guard.Allowance(ctx, options())
		if err != nil {
			return err
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "%d of %d calls used (%s), %d remaining\n",
			allowance.Count, allowance.Limit, allowance.Type, allowance.Remaining())

		return err
	},
}

func printPrediction(w io.Writer, p *guard.Prediction) error {
	var err error

	write := func(format string, args ...any) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	write("Area:        %s\n", p.Area)
	write("Stage:       %d (%s)\n", p.Stage, p.StageSource)

	if p.Event != nil {
		write("Event:       %s, %s - %s\n", p.Event.Note,
			p.Event.Start.Format(time.DateTime), p.Event.End.Format(time.DateTime))
	}

	if p.OK {
		write("Next outage: %s\n", p.At.Format(time.RFC3339))
	} else {
		write("Next outage: none\n")
	}

	return err
}
