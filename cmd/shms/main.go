package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/shms/shms/internal/config"
	"github.com/shms/shms/internal/platform/flatfile"
	"github.com/shms/shms/internal/store"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "shms",
		Short:        "Hospital records manager",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("env-file", ".env", "Path to an optional dotenv file")
	rootCmd.PersistentFlags().String("data-dir", "", "Data directory (overrides DATA_DIR)")
	rootCmd.PersistentFlags().Bool("json", false, "Print results as JSON")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(personCmd())
	rootCmd.AddCommand(patientCmd())
	rootCmd.AddCommand(doctorCmd())
	rootCmd.AddCommand(staffCmd())
	rootCmd.AddCommand(appointmentCmd())
	rootCmd.AddCommand(billCmd())
	rootCmd.AddCommand(pharmacyCmd())
	rootCmd.AddCommand(serviceCmd())
	rootCmd.AddCommand(userCmd())
	rootCmd.AddCommand(statsCmd())
	return rootCmd
}

func newLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	var logger zerolog.Logger
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w}).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(w).With().Timestamp().Logger()
	}
	return logger.Level(cfg.Level())
}

// app is what every command runs against.
type app struct {
	cfg    *config.Config
	logger zerolog.Logger
	store  *store.Store
	out    io.Writer
	json   bool
}

// openApp loads configuration and the store from the command's flags.
func openApp(cmd *cobra.Command) (*app, error) {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.LoadFile(envFile)
	if err != nil {
		return nil, err
	}
	if dir, _ := cmd.Flags().GetString("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cfg, cmd.ErrOrStderr())
	files := flatfile.NewDir(afero.NewOsFs(), cfg.DataDir, logger)
	s := store.New(files, logger, store.Options{SeedDemo: cfg.SeedDemo})
	if err := s.LoadAll(); err != nil {
		return nil, fmt.Errorf("load records: %w", err)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	return &app{cfg: cfg, logger: logger, store: s, out: cmd.OutOrStdout(), json: asJSON}, nil
}

// run adapts fn into a cobra RunE. Mutating commands save before returning.
func run(mutates bool, fn func(a *app, cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		if err := fn(a, cmd, args); err != nil {
			return err
		}
		if mutates {
			return a.store.SaveAll()
		}
		return nil
	}
}

// printJSON writes v as indented JSON.
func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table renders rows under header, or v as JSON when --json is set.
func (a *app) table(v any, header string, rows func(w io.Writer)) error {
	if a.json {
		return a.printJSON(v)
	}
	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	rows(tw)
	return tw.Flush()
}

// result prints a one-line message, or v as JSON when --json is set.
func (a *app) result(v any, format string, args ...any) error {
	if a.json {
		return a.printJSON(v)
	}
	_, err := fmt.Fprintf(a.out, format+"\n", args...)
	return err
}
