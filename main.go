// Command loan-approval serves the loan application web app and offers
// command line access to the decision engine and the ledger report.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/blogem/loan-approval/config"
	"github.com/blogem/loan-approval/database"
	"github.com/blogem/loan-approval/decision"
	"github.com/blogem/loan-approval/features"
	"github.com/blogem/loan-approval/models"
	"github.com/blogem/loan-approval/repositories"
	"github.com/blogem/loan-approval/services"
	"github.com/blogem/loan-approval/userctx"
)

const (
	Version = "1.0.0"
	appName = "loan-approval"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	serve := serveCmd()

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Loan approval web application",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				return os.Setenv("CONFIG_FILE", configPath)
			}
			return nil
		},
		// Without a subcommand the server runs
		RunE: serve.RunE,
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (overrides CONFIG_FILE)")

	cmd.AddCommand(serve, decideCmd(), reportCmd(), auditCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			app, err := newApplication(cfg, logger)
			if err != nil {
				logger.Error("Startup failed", zap.Error(err))
				return err
			}
			defer app.close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return app.serve(ctx)
		},
	}
}

func decideCmd() *cobra.Command {
	var (
		sets     []string
		record   bool
		username string
	)

	cmd := &cobra.Command{
		Use:   "decide",
		Short: "Decide one application given as --set Field=value pairs",
		Example: `  loan-approval decide --set Age=30 --set Gender=1 --set Married=1 --set Dependents=0 \
    --set Education=1 --set Self_Employed=0 --set ApplicantIncome=4000 \
    --set CoapplicantIncome=1000 --set LoanAmount=50000 --set Loan_Amount_Term=60 \
    --set Credit_History=1 --set Property_Area=1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseAssignments(sets)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			engine, err := decision.New(decision.Options{Strategy: cfg.DecisionStrategy, ModelPath: cfg.ModelPath})
			if err != nil {
				return err
			}

			ctx := userctx.SetUsername(cmd.Context(), username)
			out := cmd.OutOrStdout()

			if record {
				svc := services.NewPredictionService(engine, repositories.NewLedgerRepository(cfg.LedgerPath), cfg.InvalidSubmissions, nil, nil)
				result, err := svc.Predict(ctx, values)
				if result != nil {
					printDecision(out, engine.Name(), result.Decision)
				}
				return err
			}

			app, err := features.ParseApplication(values, time.Now())
			if err != nil {
				return err
			}
			d, err := engine.Decide(ctx, app)
			if err != nil {
				printDecision(out, engine.Name(), models.Failed(err))
				return err
			}
			printDecision(out, engine.Name(), d)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Form field assignment Field=value (repeatable)")
	cmd.Flags().BoolVar(&record, "record", false, "Append the decision to the ledger")
	cmd.Flags().StringVar(&username, "user", "", "Username recorded with the decision")

	return cmd
}

func reportCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Summarize the prediction ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			svc := services.NewReportService(repositories.NewLedgerRepository(cfg.LedgerPath), nil)
			printReport(cmd.OutOrStdout(), svc.Summary(context.Background(), username))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "user", "", "Only include decisions made for this username")

	return cmd
}

func auditCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show the most recent audited requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if err := database.InitializeDatabase(cfg.AuditDBPath); err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			defer database.CloseDB()

			entries, err := repositories.NewAuditRepository(database.GetDB()).Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printAudit(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")

	return cmd
}

// parseAssignments turns Field=value pairs into form values
func parseAssignments(sets []string) (map[string]string, error) {
	values := make(map[string]string, len(sets))
	for _, set := range sets {
		name, value, ok := strings.Cut(set, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid assignment %q (expected Field=value)", set)
		}
		values[strings.TrimSpace(name)] = value
	}
	return values, nil
}

func printDecision(w io.Writer, strategy string, d models.Decision) {
	fmt.Fprintf(w, "Strategy: %s\nDecision: %s\n", strategy, d.Outcome)
	if d.Reason != "" {
		fmt.Fprintf(w, "Reason:   %s\n", d.Reason)
	}
}

func printReport(w io.Writer, report *models.Report) {
	if report.Empty {
		fmt.Fprintln(w, report.Message)
		return
	}

	fmt.Fprintf(w, "Decisions: %d\n", report.Total)
	fmt.Fprintf(w, "Approved:  %d (%.1f%%)\n", report.Approved, report.ApprovedShare)
	fmt.Fprintf(w, "Rejected:  %d (%.1f%%)\n", report.Rejected, report.RejectedShare)
	if report.Excluded > 0 {
		fmt.Fprintf(w, "Excluded:  %d\n", report.Excluded)
	}

	fmt.Fprintln(w, "\nApplicant income      approved  rejected")
	for _, bin := range report.Income {
		fmt.Fprintf(w, "%9.0f - %-9.0f %9d %9d\n", bin.Lower, bin.Upper, bin.Approved, bin.Rejected)
	}
}

func printAudit(w io.Writer, entries []models.AuditLogEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No audited requests.")
		return
	}
	for _, e := range entries {
		username := e.Username
		if username == "" {
			username = "-"
		}
		fmt.Fprintf(w, "%s  %-6s %-20s %-15s %s\n",
			e.Timestamp.Format(time.DateTime), e.Method, e.Path, e.IPAddress, username)
	}
}
