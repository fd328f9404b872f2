package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/hornossanz/shift-planner/pkg/auth"
	"github.com/hornossanz/shift-planner/pkg/calendar"
	"github.com/hornossanz/shift-planner/pkg/config"
	"github.com/hornossanz/shift-planner/pkg/database"
	"github.com/hornossanz/shift-planner/pkg/export"
	"github.com/hornossanz/shift-planner/pkg/logging"
	"github.com/hornossanz/shift-planner/pkg/models"
	"github.com/hornossanz/shift-planner/pkg/rules"
	"github.com/hornossanz/shift-planner/pkg/scheduler"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// app holds what every subcommand needs once the root has loaded it
type app struct {
	cfg  *config.Config
	log  *logrus.Entry
	db   *gorm.DB
	repo *database.Repository
	orch *scheduler.Orchestrator
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:           "planner",
		Short:         "Operate the store shift planner",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	root.AddCommand(
		a.seedCmd(),
		a.shiftsCmd(),
		a.substitutesCmd(),
		a.verifyCmd(),
		a.exportCmd(),
		a.keygenCmd(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, "text")
	a.cfg = cfg
	a.log = logrus.NewEntry(logger)

	db, err := database.InitDB(database.Options{DatabaseURL: cfg.DatabaseURL, DataPath: cfg.DataPath})
	if err != nil {
		return err
	}
	a.db = db
	a.repo = database.NewRepository(db)
	a.orch = scheduler.NewOrchestrator(a.repo, rules.NewEngine(rules.DefaultRegistry(), cfg.Buffer()), a.log)
	return nil
}

func (a *app) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the six stores and their staff",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := database.Seed(cmd.Context(), a.db, a.log); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Seed data in place.")
			return nil
		},
	}
}

func (a *app) shiftsCmd() *cobra.Command {
	var storeID uint
	var date string
	cmd := &cobra.Command{
		Use:   "shifts",
		Short: "Print the shifts of a store for one date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := calendar.ParseDate(date)
			if err != nil {
				return err
			}
			plan, err := a.orch.Plan(cmd.Context(), storeID, d)
			if err != nil {
				return err
			}
			printPlans(cmd.OutOrStdout(), []models.DayPlan{plan})
			return nil
		},
	}
	cmd.Flags().UintVar(&storeID, "store", 1, "store id")
	cmd.Flags().StringVar(&date, "date", calendar.DateKey(time.Now()), "date (YYYY-MM-DD)")
	return cmd
}

func (a *app) substitutesCmd() *cobra.Command {
	var storeID uint
	var date string
	cmd := &cobra.Command{
		Use:   "substitutes",
		Short: "Rank substitutes for a store and date",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := calendar.ParseDate(date)
			if err != nil {
				return err
			}
			window, err := a.cfg.SubstituteWindow()
			if err != nil {
				return err
			}
			finder := scheduler.NewFinder(a.orch, scheduler.FinderOptions{
				TopN:            a.cfg.SubstituteTopN,
				IsolateFailures: a.cfg.SubstituteIsolateFailures,
			}, a.log)
			candidates, err := finder.FindSubstitutes(cmd.Context(), storeID, d, window)
			if err != nil {
				return fmt.Errorf("could not compute substitutes: %w", err)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tEmployee\tStore\tScore\tReasons")
			for _, c := range candidates {
				fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%v\n", c.ID, c.Name, c.StoreID, c.Score.String(), c.Reasons)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().UintVar(&storeID, "store", 1, "store id")
	cmd.Flags().StringVar(&date, "date", calendar.DateKey(time.Now()), "date (YYYY-MM-DD)")
	return cmd
}

func (a *app) verifyCmd() *cobra.Command {
	var from string
	var days int
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Compare planned weekly hours with contracts for every store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, err := calendar.ParseDate(from)
			if err != nil {
				return err
			}
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}
			return a.verify(cmd.Context(), cmd.OutOrStdout(), start, start.AddDate(0, 0, days-1))
		},
	}
	cmd.Flags().StringVar(&from, "from", calendar.DateKey(time.Now()), "first date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&days, "days", 14, "number of days")
	return cmd
}

func (a *app) verify(ctx context.Context, out io.Writer, from, to time.Time) error {
	stores, err := a.repo.ListStores(ctx)
	if err != nil {
		return err
	}
	for _, store := range stores {
		plans, err := a.orch.Range(ctx, store.ID, from, to)
		if err != nil {
			return err
		}
		roster, err := a.repo.ListEmployeesByStore(ctx, store.ID)
		if err != nil {
			return err
		}
		rows := scheduler.WeeklyHours(plans, roster)

		fmt.Fprintf(out, "\n== %s (%s) ==\n", store.Name, store.Profile)
		printPlans(out, plans)

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "Employee\tContract\tPlanned/week\tDeviation")
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Contracted.StringFixed(1), r.Planned.StringFixed(1), r.Deviation.StringFixed(1))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintf(out, "Coverage: %s%%\n", scheduler.Coverage(rows).String())
	}
	return nil
}

func (a *app) exportCmd() *cobra.Command {
	var storeID uint
	var date, view, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a store's week or month to an .xlsx file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := calendar.ParseDate(date)
			if err != nil {
				return err
			}
			from, to := calendar.WeekBounds(d)
			if view == "month" {
				from, to = calendar.MonthBounds(d)
			}

			ctx := cmd.Context()
			store, err := a.orch.Store(ctx, storeID)
			if err != nil {
				return err
			}
			plans, err := a.orch.Range(ctx, storeID, from, to)
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("horario-%d-%s.xlsx", store.ID, calendar.DateKey(from))
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := export.WriteSchedule(f, store, plans); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", output, err)
			}
			a.log.WithFields(logrus.Fields{"store": store.Name, "file": output, "days": len(plans)}).Info("Schedule exported")
			return nil
		},
	}
	cmd.Flags().UintVar(&storeID, "store", 1, "store id")
	cmd.Flags().StringVar(&date, "date", calendar.DateKey(time.Now()), "any date inside the period (YYYY-MM-DD)")
	cmd.Flags().StringVar(&view, "view", "week", "week or month")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	return cmd
}

// keygenCmd issues and stores an API key, the same way the admin endpoint does
func (a *app) keygenCmd() *cobra.Command {
	var rateLimit int
	cmd := &cobra.Command{
		Use:   "keygen <name>",
		Short: "Issue an HMAC API key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			authn := auth.New(a.cfg.JWTSecret, a.cfg.APIMasterSecret)
			record, key, err := authn.IssueKey(a.db, args[0], rateLimit)
			if err != nil {
				return err
			}
			a.log.WithFields(logrus.Fields{"id": record.ID, "name": record.Name, "rate_limit": record.RateLimit}).Info("API key issued")
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
	cmd.Flags().IntVar(&rateLimit, "rate-limit", auth.DefaultRateLimit, "daily request quota")
	return cmd
}

func printPlans(out io.Writer, plans []models.DayPlan) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Date\tDay\tType\tTime\tEmployee")
	for _, row := range export.Rows(plans) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", row[0], row[1], row[2], row[3], row[4])
	}
	_ = tw.Flush()
}
