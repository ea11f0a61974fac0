package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/parlay-advisor/internal/config"
	"github.com/yourusername/parlay-advisor/internal/datasource"
	"github.com/yourusername/parlay-advisor/internal/logger"
	"github.com/yourusername/parlay-advisor/internal/metrics"
	"github.com/yourusername/parlay-advisor/internal/models"
	"github.com/yourusername/parlay-advisor/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var (
	configFile string
	date       string
	logLevel   string
	appLog     *logrus.Logger
	cfg        *config.Config
	provider   datasource.Provider
	stack      *datasource.Stack
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultConfigPath, "Path to configuration file")
	rootCmd.PersistentFlags().StringVarP(&date, "date", "d", "", "Match date (YYYY-MM-DD), defaults to today in UTC")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(recommendCmd, warmCmd, fixturesCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "parlay-cli",
	Short: "Football parlay recommendations from the command line",
	Long:  `Fetches fixtures and team signals from API-Football and builds low and high risk parlay recommendations for a date.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		if err := loadConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if stack == nil {
			return nil
		}
		return stack.Close()
	},
	SilenceUsage: true,
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Print the low and high risk parlays for a date as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := service.NewParlayService(provider, service.OptionsFromConfig(cfg.Analysis), appLog)
		recommendation, err := svc.GetRecommendations(cmd.Context(), targetDate())
		if err != nil {
			return err
		}
		return printJSON(recommendation)
	},
}

var warmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Prefetch upstream data for a date into the configured cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Cache.Enabled {
			return fmt.Errorf("cache is disabled; nothing to warm")
		}
		svc := service.NewParlayService(provider, service.OptionsFromConfig(cfg.Analysis), appLog)
		day := targetDate()
		started := time.Now()
		count, err := svc.Prefetch(cmd.Context(), day)
		if err != nil {
			return err
		}
		fmt.Printf("Warmed %d matches for %s in %v\n", count, day, time.Since(started).Round(time.Millisecond))
		return nil
	},
}

var fixturesCmd = &cobra.Command{
	Use:   "fixtures",
	Short: "List the configured league's fixtures for a date",
	RunE: func(cmd *cobra.Command, args []string) error {
		day := targetDate()
		if _, err := models.ParseDate(day); err != nil {
			return err
		}
		matches, err := provider.FetchFixtures(cmd.Context(), day)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			fmt.Printf("No fixtures on %s\n", day)
			return nil
		}
		for _, m := range matches {
			fmt.Printf("%-10d %s  %s\n", m.ID, m.Date.UTC().Format("15:04"), m.Label())
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("parlay-cli %s (%s)\n", Version, GitCommit)
	},
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig() error {
	_ = godotenv.Load()

	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}
	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLogger(cfg.App.LogLevel)
	// Keep stdout clean for JSON output
	appLog.SetOutput(os.Stderr)

	metrics.InitRegistry()

	var err error
	stack, err = datasource.NewFactory(cfg, appLog).Build(ctx)
	if err != nil {
		return err
	}
	provider = stack.Provider
	return nil
}

func targetDate() string {
	if date != "" {
		return date
	}
	return time.Now().UTC().Format(models.DateLayout)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
