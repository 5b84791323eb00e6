package main

import (
	"fmt"
	"os"
	"pto-advisor/advisor"
	"pto-advisor/assistant"
	customerrors "pto-advisor/errors"
	"pto-advisor/formatter"
	"pto-advisor/models"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "ptoadvisor"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           appName,
		Short:         "PTO staffing-risk advisor",
		Long:          "Analyzes team availability and recommends how managers should act on pending leave requests.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.fixtures, "fixtures", "", "YAML fixtures file (defaults to the embedded seed)")
	flags.StringVar(&opts.requests, "requests", "", "CSV file replacing the fixture leave requests")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.metricsAddr, "metrics-addr", "", "Address to expose Prometheus metrics (e.g., :9090)")
	flags.StringVar(&opts.pushURL, "push-url", "", "Pushgateway URL to push metrics to (e.g., http://localhost:9091)")
	flags.BoolVar(&opts.wait, "wait", false, "Keep process running after completion to allow for metric scraping")

	cmd.AddCommand(
		analyzeCmd(&opts),
		recommendCmd(&opts),
		reviewCmd(&opts),
		askCmd(&opts),
		statsCmd(&opts),
		outCmd(&opts),
		serveCmd(&opts),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

func analyzeCmd(opts *options) *cobra.Command {
	var department, start, end, format string

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Report department availability over a date range",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, "text", "json"); err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app) error {
				today := models.Day(time.Now()).Format(models.DateLayout)
				if start == "" {
					start = today
				}
				if end == "" {
					end = start
				}
				period, err := models.NewDateRange(start, end)
				if err != nil {
					return fmt.Errorf("%w: %v", customerrors.ErrInvalidDate, err)
				}
				if !period.Valid() {
					return customerrors.ErrInvalidDateRange
				}

				report := advisor.AnalyzeAvailability(a.store.Snapshot(), period, department)
				if format == "json" {
					fmt.Fprintln(a.out, formatter.FormatAvailabilityJSON(report))
				} else {
					fmt.Fprint(a.out, formatter.FormatAvailabilityText(report))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&department, "department", "", "Department to analyze (required)")
	cmd.Flags().StringVar(&start, "start", "", "First day, YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVar(&end, "end", "", "Last day, YYYY-MM-DD (defaults to start)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|json")
	_ = cmd.MarkFlagRequired("department")
	return cmd
}

func recommendCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "recommend <request-id>",
		Short: "Recommend an action for one leave request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, "text", "json", "csv"); err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app) error {
				req, err := a.store.Request(args[0])
				if err != nil {
					return fmt.Errorf("request %s: %w", args[0], err)
				}
				rec, ok := advisor.Recommend(a.store.Snapshot(), req)
				if !ok {
					return fmt.Errorf("request %s: %w", args[0], customerrors.ErrEmployeeNotFound)
				}
				writeReview(a, format, []*advisor.Recommendation{rec})
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|json|csv")
	return cmd
}

func reviewCmd(opts *options) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Recommend an action for every pending request",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, "text", "json", "csv"); err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app) error {
				writeReview(a, format, advisor.RecommendPending(a.store.Snapshot()))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|json|csv")
	return cmd
}

func askCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask the assistant about team PTO",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				router := assistant.NewRouter(a.store.Snapshot, assistant.WithLogger(a.logger))
				resp := router.Respond(strings.Join(args, " "))
				fmt.Fprintln(a.out, resp.Content)
				return nil
			})
		},
	}
}

func statsCmd(opts *options) *cobra.Command {
	var year int
	var format string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Summarise requests and PTO utilization",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, "text", "json"); err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app) error {
				if year == 0 {
					year = time.Now().Year()
				}
				stats := advisor.Summarize(a.store.Snapshot(), year)
				if format == "json" {
					fmt.Fprintln(a.out, formatter.FormatAnalyticsJSON(stats))
				} else {
					fmt.Fprint(a.out, formatter.FormatAnalyticsText(stats))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Balance year (defaults to the current year)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|json")
	return cmd
}

func outCmd(opts *options) *cobra.Command {
	var date, format string

	cmd := &cobra.Command{
		Use:   "out",
		Short: "List who is on approved leave on a day",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format, "text", "json"); err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app) error {
				day := models.Day(time.Now())
				if date != "" {
					parsed, err := models.ParseDate(date)
					if err != nil {
						return fmt.Errorf("%w: %v", customerrors.ErrInvalidDate, err)
					}
					day = parsed
				}
				absences := advisor.WhoIsOut(a.store.Snapshot(), day)
				if format == "json" {
					fmt.Fprintln(a.out, formatter.FormatAbsencesJSON(day, absences))
				} else {
					fmt.Fprint(a.out, formatter.FormatAbsencesText(day, absences))
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day, YYYY-MM-DD (defaults to today)")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text|json")
	return cmd
}

func writeReview(a *app, format string, recs []*advisor.Recommendation) {
	switch format {
	case "json":
		fmt.Fprintln(a.out, formatter.FormatJSON(recs))
	case "csv":
		fmt.Fprint(a.out, formatter.FormatCSV(recs))
	default:
		fmt.Fprint(a.out, formatter.FormatText(recs))
	}
}

func checkFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("format must be one of: %s (got: %s)", strings.Join(allowed, ", "), format)
}
