package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/MrJamesThe3rd/invoicer/internal/config"
	"github.com/MrJamesThe3rd/invoicer/internal/export"
	"github.com/MrJamesThe3rd/invoicer/internal/invoice"
	"github.com/MrJamesThe3rd/invoicer/internal/logging"
	"github.com/MrJamesThe3rd/invoicer/internal/source"
	"github.com/MrJamesThe3rd/invoicer/internal/timesheet"
	"github.com/MrJamesThe3rd/invoicer/internal/tree"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "invoicectl",
		Short: "Preview invoices and template trees from the command line",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(cmd.ErrOrStderr(), logLevel)
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", os.Getenv("LOG_LEVEL"), "log level (debug, info, warn, error)")

	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(treeCmd())
	rootCmd.AddCommand(templatesCmd())

	return rootCmd
}

func readPayload(path string) (*invoice.Payload, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open payload: %w", err)
	}
	defer f.Close()

	return invoice.DecodePayload(f)
}

func previewCmd() *cobra.Command {
	var (
		tax       string
		sheetPath string
		outDir    string
		durations []string
	)

	cmd := &cobra.Command{
		Use:   "preview [payload.json]",
		Short: "Compute an invoice from a payload file and print its summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readPayload(args[0])
			if err != nil {
				return err
			}

			o := invoice.Overrides{Durations: make(map[int64]decimal.Decimal)}

			if tax != "" {
				tp, err := decimal.NewFromString(tax)
				if err != nil {
					return fmt.Errorf("invalid --tax %q: %w", tax, err)
				}

				o.TaxPercent = &tp
			}

			if sheetPath != "" {
				f, err := os.Open(sheetPath)
				if err != nil {
					return fmt.Errorf("open timesheet: %w", err)
				}
				defer f.Close()

				parsed, err := timesheet.NewParser().Parse(f)
				if err != nil {
					return fmt.Errorf("parse timesheet: %w", err)
				}

				for id, d := range parsed {
					o.Durations[id] = d
				}
			}

			for _, kv := range durations {
				id, d, err := parseDurationFlag(kv)
				if err != nil {
					return err
				}

				o.Durations[id] = d
			}

			sheet, err := invoice.NewService(nil).Preview(p, o)
			if err != nil {
				return err
			}

			if _, err := io.WriteString(cmd.OutOrStdout(), export.Summary(sheet)); err != nil {
				return err
			}

			if outDir == "" {
				return nil
			}

			path, err := export.NewService().WriteSummary(outDir, sheet)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "written to %s\n", path)

			return nil
		},
	}

	cmd.Flags().StringVar(&tax, "tax", "", "tax percent (default: from payload or 10)")
	cmd.Flags().StringVar(&sheetPath, "timesheet", "", "timesheet CSV with per-item durations")
	cmd.Flags().StringArrayVarP(&durations, "duration", "d", nil, "item duration as ID=VALUE (repeatable)")
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "also write the summary into this directory")

	return cmd
}

func parseDurationFlag(kv string) (int64, decimal.Decimal, error) {
	idText, value, ok := strings.Cut(kv, "=")
	if !ok {
		return 0, decimal.Zero, fmt.Errorf("invalid --duration %q: want ID=VALUE", kv)
	}

	id, err := strconv.ParseInt(strings.TrimSpace(idText), 10, 64)
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("invalid --duration id %q: %w", idText, err)
	}

	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return 0, decimal.Zero, fmt.Errorf("invalid --duration value %q: %w", value, err)
	}

	return id, d, nil
}

func treeCmd() *cobra.Command {
	var fromPayload bool

	cmd := &cobra.Command{
		Use:   "tree [script-file]",
		Short: "Lay out a template tree script and print node positions",
		Long:  "Reads a flowchart script (or a payload file with --payload) and prints each node's depth, column and coordinates.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var script io.Reader

			if fromPayload {
				p, err := readPayload(args[0])
				if err != nil {
					return err
				}

				script = strings.NewReader(tree.FromForest(p.InvoiceItems))
			} else {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open script: %w", err)
				}
				defer f.Close()

				script = f
			}

			g, err := tree.Parse(script)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, n := range g.Nodes {
				fmt.Fprintf(out, "%-10s depth=%d col=%d x=%d y=%d  %s\n", n.ID, n.Depth, n.Column, n.X, n.Y, n.Label)
			}

			for _, e := range g.Edges {
				fmt.Fprintf(out, "%s --> %s\n", e.From, e.To)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&fromPayload, "payload", false, "treat the argument as a payload file and draw its delegation tree")

	return cmd
}

func templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List invoice templates from the configured source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			repo, closeRepo, err := source.Open(cfg)
			if err != nil {
				return err
			}
			defer closeRepo()

			templates, err := invoice.NewService(repo).ListTemplates(cmd.Context())
			if err != nil {
				return err
			}

			for _, t := range templates {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", t.ID, t.Name)
			}

			return nil
		},
	}
}
