package main

import (
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-ClinicBoxService/internal/domain"
	importDataUC "github.com/m04kA/SMC-ClinicBoxService/internal/usecase/import_data"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/csvrows"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/localtime"
	"github.com/m04kA/SMC-ClinicBoxService/pkg/types"
)

var seedObservations = []string{
	"Control",
	"Primera consulta",
	"Procedimiento",
	"Curación",
	"Ecografía",
	"Telemedicina",
}

// seedOptions размеры генерируемой организации
type seedOptions struct {
	Centers     int
	Boxes       int
	Doctors     int
	Days        int
	PerDay      int
	Start       time.Time
	SlotMinutes int
	Hours       domain.BusinessHours
}

// seedData строки трёх файлов импорта в порядке загрузки
type seedData struct {
	Infrastructure []csvrows.Row
	Doctors        []csvrows.Row
	Reservations   []csvrows.Row
}

// generateSeed строит демо-данные в форме CSV-строк импорта.
// Брони попадают только в часы работы и не пересекаются по боксу и слоту.
func generateSeed(f *gofakeit.Faker, zone *localtime.Zone, opts seedOptions) (seedData, error) {
	var data seedData

	type centerSeed struct {
		name    string
		doctors []string
	}
	centers := make([]centerSeed, 0, opts.Centers)

	for c := 0; c < opts.Centers; c++ {
		center := centerSeed{name: fmt.Sprintf("CAE %s %d", f.City(), c+1)}

		for b := 0; b < opts.Boxes; b++ {
			data.Infrastructure = append(data.Infrastructure, csvrows.Row{
				"cae": center.name,
				"box": fmt.Sprintf("Box %d", b+1),
			})
		}
		for d := 0; d < opts.Doctors; d++ {
			name := fmt.Sprintf("Dr. %s %s", f.FirstName(), f.LastName())
			center.doctors = append(center.doctors, name)
			data.Doctors = append(data.Doctors, csvrows.Row{
				"cae":    center.name,
				"medico": name,
			})
		}
		centers = append(centers, center)
	}

	if len(centers) == 0 || opts.Boxes <= 0 {
		return data, nil
	}

	taken := make(map[string]bool)
	for day := 0; day < opts.Days; day++ {
		date := opts.Start.AddDate(0, 0, day)
		hours := opts.Hours.ForWeekday(date.Weekday())
		if hours.Slots(opts.SlotMinutes) == 0 {
			continue
		}

		open, err := types.FromMinutes(hours.OpenHour * 60)
		if err != nil {
			return data, err
		}
		closing, err := types.FromMinutes(hours.CloseHour * 60)
		if err != nil {
			return data, err
		}
		slots := domain.DaySlots(open, closing, opts.SlotMinutes)

		for i := 0; i < opts.PerDay; i++ {
			center := centers[f.Number(0, len(centers)-1)]
			box := fmt.Sprintf("Box %d", f.Number(1, opts.Boxes))
			slot := slots[f.Number(0, len(slots)-1)]

			key := center.name + "/" + box + "/" + localtime.FormatDate(date) + "/" + slot.String()
			if taken[key] {
				continue
			}
			taken[key] = true

			start, err := zone.Instant(date, slot)
			if err != nil {
				return data, err
			}

			doctor := domain.DefaultImportedDoctorName
			if len(center.doctors) > 0 {
				doctor = center.doctors[f.Number(0, len(center.doctors)-1)]
			}

			data.Reservations = append(data.Reservations, csvrows.Row{
				"event_id":    f.UUID(),
				"location":    center.name,
				"description": fmt.Sprintf("%s - %s", box, f.RandomString(seedObservations)),
				"summary":     doctor,
				"start_time":  start.UTC().Format(time.RFC3339),
				"end_time":    start.Add(time.Duration(opts.SlotMinutes) * time.Minute).UTC().Format(time.RFC3339),
			})
		}
	}

	return data, nil
}

func seedCmd(configPath *string) *cobra.Command {
	var (
		orgID, userID, start string
		seed                 uint64
		opts                 seedOptions
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate demo centers, boxes, doctors and reservations and load them through the importer",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(*configPath)
			if err != nil {
				return err
			}
			defer a.close()

			zone := a.cfg.Zone()
			opts.SlotMinutes = a.cfg.Schedule.SlotDurationMinutes
			opts.Hours = a.cfg.Hours()
			opts.Start = zone.DateOf(time.Now())
			if start != "" {
				if opts.Start, err = localtime.ParseDate(start); err != nil {
					return fmt.Errorf("invalid --start: %w", err)
				}
			}

			data, err := generateSeed(gofakeit.New(seed), zone, opts)
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			out := cmd.OutOrStdout()
			steps := []struct {
				kind importDataUC.Kind
				rows []csvrows.Row
			}{
				{importDataUC.KindInfrastructure, data.Infrastructure},
				{importDataUC.KindDoctors, data.Doctors},
				{importDataUC.KindReservations, data.Reservations},
			}
			for _, step := range steps {
				fmt.Fprintf(out, "== %s (%d rows)\n", step.kind, len(step.rows))
				result, err := a.importer.Execute(ctx, &importDataUC.Request{
					OrgID:  orgID,
					UserID: userID,
					Kind:   step.kind,
					Rows:   step.rows,
					Log:    printer(out),
				})
				if result != nil {
					printResult(out, result)
				}
				if err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&orgID, "org", "", "Target organization ID")
	cmd.Flags().StringVar(&userID, "user", "seed", "Author of generated reservations")
	cmd.Flags().StringVar(&start, "start", "", "First day (YYYY-MM-DD), today by default")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Random seed, 0 for a random one")
	cmd.Flags().IntVar(&opts.Centers, "centers", 3, "Number of centers")
	cmd.Flags().IntVar(&opts.Boxes, "boxes", 8, "Boxes per center")
	cmd.Flags().IntVar(&opts.Doctors, "doctors", 5, "Doctors per center")
	cmd.Flags().IntVar(&opts.Days, "days", 14, "Days of reservations")
	cmd.Flags().IntVar(&opts.PerDay, "per-day", 40, "Reservation attempts per day")
	_ = cmd.MarkFlagRequired("org")

	return cmd
}
