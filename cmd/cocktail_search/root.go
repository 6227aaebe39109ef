package main

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-cocktail-search/config"
	"github.com/gcbaptista/go-cocktail-search/internal/cocktaildb"
	"github.com/gcbaptista/go-cocktail-search/internal/logging"
	"github.com/gcbaptista/go-cocktail-search/internal/metrics"
	"github.com/gcbaptista/go-cocktail-search/internal/search"
)

// rootOptions are the flags shared by every command.
type rootOptions struct {
	configPath string
	baseURL    string
	logLevel   string
	jsonOutput bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "cocktail_search",
		Short: "Cocktail search - ranked drink search over the public cocktail database",
		Long: `Cocktail search classifies a query, fetches matching drinks by name and
ingredient, hydrates the best candidates with their recipes and ranks them.

Run "serve" for the HTTP API or "search" for a one-off query in the terminal.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (YAML or JSON)")
	cmd.PersistentFlags().StringVar(&opts.baseURL, "base-url", "", "Cocktail database base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides config)")
	cmd.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	cmd.AddCommand(
		newServeCmd(opts),
		newSearchCmd(opts),
		newDrinkCmd(opts),
		newRecommendCmd(opts),
		newABVCmd(opts),
	)
	return cmd
}

// loadSettings reads the config file and applies flag overrides.
func (o *rootOptions) loadSettings() (*config.Settings, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	if o.baseURL != "" {
		cfg.Server.CocktailDBURL = o.baseURL
	}
	if o.logLevel != "" {
		cfg.Server.LogLevel = o.logLevel
	}
	if problems := cfg.Validate(); len(problems) > 0 {
		return nil, fmt.Errorf("invalid configuration: %v", problems)
	}
	return cfg, nil
}

// pipeline is the search stack shared by the commands.
type pipeline struct {
	cfg     *config.Settings
	logger  *zap.Logger
	metrics *metrics.Metrics
	client  *cocktaildb.Client
	search  *search.Service
}

func (p *pipeline) Close() {
	p.search.Close()
	_ = p.logger.Sync()
}

// buildPipeline wires logger, metrics, upstream client and search service.
func buildPipeline(cfg *config.Settings) (*pipeline, error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.Server.LogLevel,
		Environment: cfg.Server.Environment,
		Service:     "cocktail-search",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	m := metrics.New()
	client, err := cocktaildb.NewClient(cfg.Server.CocktailDBURL,
		cocktaildb.WithHTTPClient(&http.Client{Timeout: cfg.Server.RequestTimeout}),
		cocktaildb.WithLogger(logger),
		cocktaildb.WithBreaker(cocktaildb.BreakerSettings{
			ConsecutiveFailures: cfg.Server.BreakerFailures,
			OpenTimeout:         cfg.Server.BreakerTimeout,
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cocktail database client: %w", err)
	}

	svc, err := search.NewService(client, cfg.Pipeline, search.WithLogger(logger), search.WithMetrics(m))
	if err != nil {
		return nil, fmt.Errorf("failed to create search service: %w", err)
	}

	return &pipeline{cfg: cfg, logger: logger, metrics: m, client: client, search: svc}, nil
}
