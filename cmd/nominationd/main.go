// Nominationd extracts nomination obligations from LNG contract documents
// and serves them over an HTTP API.
//
// The daemon scans a folder of .docx contracts, detects "days prior to"
// clauses, resolves each delivery window's anchor date through a language
// model, and persists the computed nomination deadlines in SQLite.
//
// Usage:
//
//	# Start the API server (scans on demand via POST /api/v1/scan)
//	nominationd serve --config config.yaml
//
//	# One-shot scan of the contracts folder
//	nominationd scan --config config.yaml
//
//	# Keep scanning as new contracts land
//	nominationd watch --config config.yaml
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/nominationd/internal/config"
	httpapi "github.com/fyrsmithlabs/nominationd/internal/http"
	"github.com/fyrsmithlabs/nominationd/internal/logging"
	"github.com/fyrsmithlabs/nominationd/internal/oracle"
	"github.com/fyrsmithlabs/nominationd/internal/scan"
	"github.com/fyrsmithlabs/nominationd/internal/store"
)

// Version information (set via ldflags during build)
var version = "dev"

var configPath string

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nominationd",
	Short: "Nomination deadline extraction service for LNG contracts",
	Long: `nominationd scans a folder of .docx contract documents, extracts
"days prior to" nomination obligations, resolves delivery-window anchor dates
through a language model, and persists the computed deadlines.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml")
	seedCmd.Flags().StringVar(&seedCompany, "company", "", "operating company name")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(backupCmd)
}

// app bundles the wired services behind every subcommand.
type app struct {
	cfg     *config.Config
	logger  *zap.Logger
	store   *store.Store
	scanner *scan.Service
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger, err := logging.New(&cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	st, err := store.New(cfg.Store.Path, logger.Named("store"))
	if err != nil {
		_ = logging.Sync(logger)
		return nil, fmt.Errorf("opening store: %w", err)
	}

	orc, err := buildOracle(cfg, logger.Named("oracle"))
	if err != nil {
		st.Close()
		_ = logging.Sync(logger)
		return nil, err
	}

	scanner := scan.New(scan.Config{
		ContractsDir:       cfg.Scan.ContractsDir,
		DocumentDelay:      cfg.Scan.DocumentDelay,
		KeywordConcurrency: cfg.Scan.KeywordConcurrency,
	}, st, orc, logger.Named("scan"))

	return &app{cfg: cfg, logger: logger, store: st, scanner: scanner}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.logger.Warn("closing store", zap.Error(err))
	}
	_ = logging.Sync(a.logger)
}

func buildOracle(cfg *config.Config, logger *zap.Logger) (oracle.Oracle, error) {
	switch cfg.Oracle.Provider {
	case config.ProviderFixed:
		logger.Warn("using fixed oracle: dates and keywords are constants")
		return &oracle.Fixed{}, nil
	case config.ProviderOpenAI:
		return oracle.NewLLMOracle(oracle.Config{
			APIKey:  cfg.Oracle.APIKey,
			Model:   cfg.Oracle.Model,
			BaseURL: cfg.Oracle.BaseURL,
			Timeout: cfg.Oracle.Timeout,
		}, logger)
	default:
		return nil, fmt.Errorf("unknown oracle provider %q", cfg.Oracle.Provider)
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signalContext()
		defer cancel()

		srv, err := httpapi.NewServer(a.store, a.scanner, a.logger.Named("http"), &httpapi.Config{
			Host:     a.cfg.Server.Host,
			Port:     a.cfg.Server.Port,
			APIToken: a.cfg.Server.APIToken,
		})
		if err != nil {
			return err
		}

		if a.cfg.Store.BackupDir != "" {
			go a.store.RunDailyBackup(ctx, a.cfg.Store.BackupDir, 0)
		}

		errCh := make(chan error, 1)
		go func() { errCh <- srv.Start() }()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer shutdownCancel()
		return srv.Shutdown(shutdownCtx)
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the contracts folder once and persist new nominations",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signalContext()
		defer cancel()

		result, err := a.scanner.ScanDir(ctx)
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Scan once, then rescan whenever contract files change",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signalContext()
		defer cancel()

		if _, err := a.scanner.ScanDir(ctx); err != nil {
			return err
		}

		w, err := scan.NewWatcher(a.scanner, a.logger.Named("watch"))
		if err != nil {
			return err
		}
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

var seedCompany string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed settings, e.g. the operating company name",
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedCompany == "" {
			return errors.New("--company is required")
		}

		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signalContext()
		defer cancel()

		if err := a.store.SetSetting(ctx, store.SettingCompanyName, seedCompany); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "company_name set to %q\n", seedCompany)
		return nil
	},
}

var backupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Write a timestamped snapshot of the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signalContext()
		defer cancel()

		path, err := a.store.Backup(ctx, a.cfg.Store.BackupDir)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}
