package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"cashmentor/internal/core"
	"cashmentor/internal/engine"
	"cashmentor/internal/export"
	"cashmentor/internal/filter"
	apphttp "cashmentor/internal/http"
	applog "cashmentor/internal/log"
	"cashmentor/internal/registry"

	clihelpers "cashmentor/internal/cli"
	"cashmentor/internal/config"
	"cashmentor/internal/store"
)

func main() {
	cmd := &cli.Command{
		Name:  "cashmentor",
		Usage: "Personal budget tracker: record expenses, declare income, derive filtered totals, export to a spreadsheet",
		Commands: []*cli.Command{
			serveCommand(),
			addCommand(),
			incomeCommand(),
			summaryCommand(),
			resetCommand(),
			exportCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("command failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// session bundles what every subcommand needs for one run.
type session struct {
	logger *applog.Logger
	cfg    *config.Config
	eng    *engine.Engine
	st     *store.Store
}

func openSession(ctx context.Context) (*session, error) {
	clihelpers.LoadEnvFile()
	logger := clihelpers.SetupLogger()

	cfg, err := clihelpers.LoadConfig()
	if err != nil {
		return nil, err
	}

	eng, st, err := clihelpers.OpenEngine(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &session{logger: logger, cfg: cfg, eng: eng, st: st}, nil
}

func (s *session) close() {
	if err := s.st.Close(); err != nil {
		s.logger.Error("Store close failed", applog.FieldError, err)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API for the rendering layer",
		Action: func(ctx context.Context, _ *cli.Command) error {
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			sink, err := clihelpers.NewExportSink(ctx, s.cfg)
			if err != nil {
				return err
			}

			srv := apphttp.NewServer(":"+s.cfg.Port, s.eng, sink,
				s.logger.WithComponent(applog.ComponentHTTP))

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				s.logger.Info("Server starting", "addr", srv.Addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})
			g.Go(func() error {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				s.logger.Info("Server shutting down", applog.FieldOperation, applog.OpShutdown)
				return srv.Shutdown(shutdownCtx)
			})
			return g.Wait()
		},
	}
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Record an expense against a category",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "category",
				Aliases: []string{"c"},
				Value:   registry.Default(),
				Usage:   "Category value",
			},
			&cli.StringFlag{
				Name:     "amount",
				Aliases:  []string{"a"},
				Required: true,
				Usage:    "Expense amount",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			exp, err := s.eng.AddExpense(ctx, cmd.String("category"), cmd.String("amount"))
			if err != nil {
				return err
			}
			fmt.Printf("Recorded %s against %s at %s\n",
				exp.Amount, cmd.String("category"), exp.Date.Format(time.RFC3339))
			return nil
		},
	}
}

func incomeCommand() *cli.Command {
	return &cli.Command{
		Name:  "income",
		Usage: "Update an income figure",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "field",
				Value: string(core.FieldSalary),
				Usage: "Income field: salary or otherIncome",
			},
			&cli.StringFlag{
				Name:     "value",
				Required: true,
				Usage:    "New value (negative allowed)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			field, err := core.ParseIncomeField(cmd.String("field"))
			if err != nil {
				return err
			}
			m, err := s.eng.UpdateIncome(ctx, field, cmd.String("value"))
			if err != nil {
				return err
			}
			income := s.eng.Income()
			fmt.Printf("%s set to %s (total income %s)\n", field, m, income.Total())
			return nil
		},
	}
}

func summaryCommand() *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "Show aggregated totals under a recency filter",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "filter",
				Aliases: []string{"f"},
				Value:   string(filter.All),
				Usage:   "Filter mode: all, today, 4days, week, month",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			mode, err := filter.ParseMode(cmd.String("filter"))
			if err != nil {
				return err
			}
			now := s.eng.Now()
			sum := s.eng.Summarize(mode, now)

			fmt.Printf("Total Income:      %s\n", sum.TotalIncome)
			fmt.Printf("Total Expense:     %s\n", sum.TotalExpense)
			fmt.Printf("Remaining Balance: %s\n", sum.RemainingBalance)
			fmt.Println()
			for _, it := range sum.Items {
				fmt.Printf("  %-14s %s\n", it.Name, it.Total)
			}
			return nil
		},
	}
}

func resetCommand() *cli.Command {
	return &cli.Command{
		Name:  "reset",
		Usage: "Clear every category's expense history",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "yes",
				Usage: "Skip the confirmation prompt",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			var confirm engine.Confirmer = clihelpers.TerminalConfirmer{In: os.Stdin, Out: os.Stdout}
			if cmd.Bool("yes") {
				confirm = alwaysConfirm{}
			}

			if err := s.eng.Reset(ctx, confirm); err != nil {
				if errors.Is(err, engine.ErrResetDeclined) {
					fmt.Println("Reset aborted")
					return nil
				}
				return err
			}
			fmt.Println("Budget reset")
			return nil
		},
	}
}

type alwaysConfirm struct{}

func (alwaysConfirm) Confirm(context.Context, string) (bool, error) { return true, nil }

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export all recorded expenses to the configured sink",
		Action: func(ctx context.Context, _ *cli.Command) error {
			s, err := openSession(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			sink, err := clihelpers.NewExportSink(ctx, s.cfg)
			if err != nil {
				return err
			}

			now := s.eng.Now()
			rows := export.BuildRows(s.eng.Items())
			ref, err := sink.Write(ctx, export.Filename(now, sink.Ext()), rows)
			if err != nil {
				return err
			}
			fmt.Printf("Exported %d expenses to %s\n", len(rows), ref)
			return nil
		},
	}
}
