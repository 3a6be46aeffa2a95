package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/boxscores/internal/config"
	"github.com/pfrederiksen/boxscores/internal/ingest"
	"github.com/pfrederiksen/boxscores/internal/logger"
	"github.com/pfrederiksen/boxscores/internal/scraper"
	"github.com/pfrederiksen/boxscores/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// ErrItemsFailed is returned by import when at least one URL could not be imported
var ErrItemsFailed = errors.New("some items failed")

var (
	flagDataDir string
	flagStore   string
	flagFormat  string
	flagVerbose bool

	flagUser string
	flagSave bool
	flagSort string
	flagFile string
	flagPace string
)

// cfg is loaded once per invocation by the root command's PersistentPreRunE
var cfg *config.Config

// newFetcher builds the page fetcher commands use; tests swap it for a fixture server
var newFetcher = func(c *config.Config) scraper.Fetcher {
	return scraper.New(scraper.Options{
		Timeout:           c.FetchTimeout,
		UserAgent:         c.UserAgent,
		RequestsPerMinute: c.FetchRequestsPerMinute,
	})
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "boxscores",
		Short: "Scrape and track hockey box scores",
		Long: `A CLI tool to parse hockey-reference.com box scores, import batches of games
and serve the boxscores HTTP API.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: loadConfig,
	}

	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory for the file store (default from BOXSCORES_DATA_DIR)")
	cmd.PersistentFlags().StringVar(&flagStore, "store", "", "Storage backend: memory, file or postgres (default from BOXSCORES_STORE)")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging")

	cmd.AddCommand(newParseCmd(), newImportCmd(), newGamesCmd(), newServeCmd())
	return cmd
}

// loadConfig reads .env and the environment, then applies flag overrides
func loadConfig(cmd *cobra.Command, args []string) error {
	config.LoadDotEnv()
	c, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagDataDir != "" {
		c.DataDir = flagDataDir
	}
	if flagStore != "" {
		c.Store = strings.ToLower(flagStore)
	}
	if flagVerbose {
		c.LogLevel = "debug"
	}
	if err := c.Validate(); err != nil {
		return err
	}

	logger.SetDefault(logger.NewWithFormat(
		logger.ParseLevel(c.LogLevel),
		logger.Format(strings.ToLower(c.LogFormat)),
		cmd.ErrOrStderr(),
	))
	cfg = c
	return nil
}

func outputFormat() (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return "", fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}
	return format, nil
}

// openStore opens the configured backend. Postgres schemas are migrated on open.
func openStore(ctx context.Context, c *config.Config) (storage.Store, error) {
	switch c.Store {
	case config.StoreMemory:
		return storage.NewMemoryStore(), nil
	case config.StoreFile:
		fs, err := storage.NewFileStore(c.DataDir)
		if err != nil {
			return nil, err
		}
		logger.Debug("Opened file store", logger.Fields{"data_dir": fs.DataDir()})
		return fs, nil
	case config.StorePostgres:
		pg, err := storage.NewPostgresStore(ctx, storage.PoolConfig{
			URL:      c.DatabaseURL,
			MinConns: c.DBPoolMinConns,
			MaxConns: c.DBPoolMaxConns,
		})
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown store %q", c.Store)
	}
}

func requireUser() (string, error) {
	user := strings.TrimSpace(flagUser)
	if user == "" {
		return "", fmt.Errorf("--user is required")
	}
	return user, nil
}

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse <url>",
		Short: "Fetch and parse a single box score",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	cmd.Flags().BoolVar(&flagSave, "save", false, "Store the parsed game")
	cmd.Flags().StringVar(&flagUser, "user", "", "Owner of the stored game (required with --save)")
	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	url := strings.TrimSpace(args[0])

	if !flagSave {
		rec, err := ingest.New(newFetcher(cfg), nil).Parse(ctx, url)
		if err != nil {
			return fmt.Errorf("parsing box score: %w", err)
		}
		return WriteRecord(cmd.OutOrStdout(), rec, format, flagVerbose)
	}

	user, err := requireUser()
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	g, err := ingest.New(newFetcher(cfg), storage.NewGames(store)).Import(ctx, user, url, "")
	if err != nil {
		return fmt.Errorf("importing box score: %w", err)
	}
	return WriteGame(cmd.OutOrStdout(), g, format, flagVerbose)
}

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "List stored games",
		Args:  cobra.NoArgs,
		RunE:  runGames,
	}
	cmd.Flags().StringVar(&flagUser, "user", "", "Owner of the games (required)")
	cmd.Flags().StringVar(&flagSort, "sort", string(SortByDate), "Sort order: date, team or score")
	return cmd
}

func runGames(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	order := SortOrder(strings.ToLower(flagSort))
	if !order.Valid() {
		return fmt.Errorf("invalid sort: %s (must be 'date', 'team' or 'score')", flagSort)
	}
	user, err := requireUser()
	if err != nil {
		return err
	}

	store, err := openStore(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	defer store.Close()

	games, err := storage.NewGames(store).List(cmd.Context(), user)
	if err != nil {
		return fmt.Errorf("listing games: %w", err)
	}
	sortGames(games, order)
	return WriteGames(cmd.OutOrStdout(), games, format)
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
