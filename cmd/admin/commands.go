package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	importDataUC "github.com/m04kA/SMC-ClinicBoxService/internal/usecase/import_data"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/csvrows"
)

func importCmd(configPath *string) *cobra.Command {
	var kind, file, orgID, userID string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a CSV file (infrastructure, doctors or reservations) into an organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			parsedKind, err := importDataUC.ParseKind(kind)
			if err != nil {
				return err
			}

			f, err := os.Open(file)
			if err != nil {
				return fmt.Errorf("open %s: %w", file, err)
			}
			defer f.Close()

			rows, err := csvrows.Parse(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", file, err)
			}

			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signalContext()
			defer stop()

			out := cmd.OutOrStdout()
			result, err := a.importer.Execute(ctx, &importDataUC.Request{
				OrgID:  orgID,
				UserID: userID,
				Kind:   parsedKind,
				Rows:   rows,
				Log:    printer(out),
			})
			if result != nil {
				printResult(out, result)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "File kind: infrastructure, doctors or reservations")
	cmd.Flags().StringVar(&file, "file", "", "Path to CSV file")
	cmd.Flags().StringVar(&orgID, "org", "", "Target organization ID")
	cmd.Flags().StringVar(&userID, "user", "", "Author of imported reservations")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("org")

	return cmd
}

func rescueCmd(configPath *string) *cobra.Command {
	var orgID string

	cmd := &cobra.Command{
		Use:   "rescue",
		Short: "Reassign records without an organization (or with a foreign one) to the given organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, stop := signalContext()
			defer stop()

			out := cmd.OutOrStdout()
			result, err := a.importer.RescueOrphans(ctx, orgID, printer(out))
			if result != nil {
				fmt.Fprintf(out, "Rescued records: %d\n", result.Total)
			}
			return err
		},
	}

	cmd.Flags().StringVar(&orgID, "org", "", "Target organization ID")
	_ = cmd.MarkFlagRequired("org")

	return cmd
}

func countCmd(configPath *string) *cobra.Command {
	var orgID string

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Count reservations (all organizations when --org is omitted)",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			count, err := a.importer.CountReservations(cmd.Context(), orgID)
			if err != nil {
				return err
			}

			scope := orgID
			if scope == "" {
				scope = "all organizations"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reservations (%s): %d\n", scope, count)
			return nil
		},
	}

	cmd.Flags().StringVar(&orgID, "org", "", "Organization ID")

	return cmd
}

// signalContext отменяется по SIGINT/SIGTERM; импорт останавливается перед следующим пакетом
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func printer(out io.Writer) importDataUC.LogSink {
	return func(msg string) {
		fmt.Fprintln(out, msg)
	}
}

func printResult(out io.Writer, r *importDataUC.Result) {
	fmt.Fprintf(out, "Rows: %d, skipped: %d\n", r.RowsSeen, r.RowsSkipped)
	fmt.Fprintf(out, "Created: %d centers, %d boxes, %d doctors\n", r.CentersCreated, r.BoxesCreated, r.DoctorsCreated)
	if r.Kind == importDataUC.KindReservations {
		fmt.Fprintf(out, "Reservations committed: %d in %d batches\n", r.ReservationsCommitted, r.Batches)
	}
}
