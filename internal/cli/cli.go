// Package cli wires the batchloc subcommands.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/gametrans/batchloc/internal/config"
	"github.com/gametrans/batchloc/internal/persistence"
	"github.com/gametrans/batchloc/internal/service"
	"github.com/gametrans/batchloc/internal/translator"
	"github.com/gametrans/batchloc/pkg/log"
)

// Execute runs the CLI application.
func Execute() {
	// Missing .env is fine, the environment may already be set.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "batchloc",
		Short: "Batch folder translation pipeline for game localization files",
		Long: `batchloc scans folders of localization files (SRT/VTT/ASS subtitles,
plain text and more), routes them through a retrying concurrency-bounded
batch processor and writes translated copies without ever touching the
source files. It also dumps, translates and reinserts table-encoded ROM
text.`,
	}

	rootCmd.AddCommand(scanCmd())
	rootCmd.AddCommand(translateCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(reportsCmd())
	rootCmd.AddCommand(romCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

func loadConfig(inputDir string, targetLang string) (*config.Config, error) {
	opts := []config.Option{}
	if inputDir != "" {
		opts = append(opts, config.WithInputDir(inputDir))
	}
	if targetLang != "" {
		tag, err := language.Parse(targetLang)
		if err != nil {
			return nil, fmt.Errorf("invalid target language %q: %w", targetLang, err)
		}
		opts = append(opts, config.WithTargetLanguage(tag))
	}
	cfg, err := config.NewFromEnv(opts...)
	if err != nil {
		return nil, err
	}
	log.SetLevel(cfg.System.LogLevel)
	return cfg, nil
}

// openStore is best effort: the pipeline works without persistence, it
// just loses the cache and the run archive.
func openStore(cfg *config.Config) *persistence.SQLiteStore {
	store, err := persistence.NewSQLiteStore(cfg.System.DatabasePath())
	if err != nil {
		log.Warn("persistence disabled: %v", err)
		return nil
	}
	return store
}

func buildService(cfg *config.Config) (*service.Service, *persistence.SQLiteStore, error) {
	if err := cfg.ValidateTranslator(); err != nil {
		return nil, nil, err
	}
	provider, err := translator.NewHTTP(
		cfg.Translator.APIURL,
		translator.WithAPIKey(cfg.Translator.APIKey),
		translator.WithTimeout(time.Duration(cfg.Translator.Timeout)*time.Second),
	)
	if err != nil {
		return nil, nil, err
	}
	store := openStore(cfg)
	return service.New(cfg, provider, store), store, nil
}

func scanCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "scan <directory>",
		Short: "Scan a folder and list translatable files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			cfg, err := loadConfig(args[0], "")
			if err != nil {
				return err
			}
			svc := service.New(cfg, nil, nil)
			result, err := svc.ScanFolder(ctx)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d files, %d bytes, ~%d entries\n",
				result.RootPath, result.TotalFiles, result.TotalSizeBytes, result.EstimatedEntries)
			for _, tc := range result.TypeCounts {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-12s %4d files  %10d bytes\n", tc.FileType, tc.Count, tc.TotalSize)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full manifest as JSON")
	return cmd
}

func translateCmd() *cobra.Command {
	var (
		targetLang string
		outputDir  string
		files      []string
		reportPath string
	)
	cmd := &cobra.Command{
		Use:   "translate <directory>",
		Short: "Translate supported files in a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			cfg, err := loadConfig(args[0], targetLang)
			if err != nil {
				return err
			}
			if outputDir != "" {
				cfg.Batch.OutputDir = outputDir
			}
			svc, store, err := buildService(cfg)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			result, err := svc.TranslateFolder(ctx, files)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "run %s: %d/%d translated in %v\n",
				result.OperationID, result.SuccessCount, result.TotalItems, result.Duration.Round(time.Millisecond))
			for _, ir := range result.Results {
				if !ir.Success {
					fmt.Fprintf(cmd.OutOrStdout(), "  FAILED %s: %s\n", ir.ItemID, ir.Error)
				}
			}

			if reportPath != "" {
				if err := svc.ExportReport(ctx, result.OperationID, reportPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "report written to %s\n", reportPath)
			}
			if result.FailureCount > 0 {
				return fmt.Errorf("%d of %d files failed", result.FailureCount, result.TotalItems)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&targetLang, "lang", "l", "", "Target language tag (default from TARGET_LANGUAGE)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Mirror output into this folder instead of suffixed siblings")
	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "Translate only these scan-relative paths (repeatable)")
	cmd.Flags().StringVar(&reportPath, "report", "", "Also export the run report as JSON to this path")
	return cmd
}

func watchCmd() *cobra.Command {
	var targetLang string
	cmd := &cobra.Command{
		Use:   "watch <directory>",
		Short: "Watch a folder on a cron schedule and translate changed files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			cfg, err := loadConfig(args[0], targetLang)
			if err != nil {
				return err
			}
			svc, store, err := buildService(cfg)
			if err != nil {
				return err
			}
			if store != nil {
				defer store.Close()
			}

			watcher := service.NewWatcher(svc)
			if err := watcher.Start(ctx); err != nil {
				return err
			}
			<-ctx.Done()
			log.Info("shutting down watcher")
			watcher.Stop()
			return nil
		},
	}
	cmd.Flags().StringVarP(&targetLang, "lang", "l", "", "Target language tag (default from TARGET_LANGUAGE)")
	return cmd
}

func reportsCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List archived translation run reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := setupContext()
			defer cancel()

			cfg, err := loadConfig("", "")
			if err != nil {
				return err
			}
			store, err := persistence.NewSQLiteStore(cfg.System.DatabasePath())
			if err != nil {
				return err
			}
			defer store.Close()

			reports, err := store.ListRunReports(ctx, limit)
			if err != nil {
				return err
			}
			if len(reports) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
				return nil
			}
			for _, r := range reports {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s %3d/%-3d ok  %8v  %s\n",
					r.CompletedAt.Format(time.RFC3339), r.OperationType,
					r.SuccessCount, r.TotalItems, r.Duration.Round(time.Millisecond), r.OperationID)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Show at most this many runs")
	return cmd
}
