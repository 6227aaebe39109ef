package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-cocktail-search/internal/pantry"
	"github.com/gcbaptista/go-cocktail-search/internal/search"
)

const commandTimeout = 30 * time.Second

func newSearchCmd(root *rootOptions) *cobra.Command {
	var pages int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search drinks and print the ranked results",
		Long: `Run the ranking pipeline once for a query.

Examples:
  cocktail_search search margarita
  cocktail_search search "gin fizz" --pages 2
  cocktail_search search vodka --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadSettings()
			if err != nil {
				return err
			}
			p, err := buildPipeline(cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			outcome, err := p.search.Search(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			pager := search.NewPager(outcome.Results, p.search.PageSize())
			for i := 1; i < pages; i++ {
				if !pager.LoadMore() {
					break
				}
			}
			page := search.PageOf(outcome, pager)

			if root.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), page)
			}
			return renderPage(cmd.OutOrStdout(), page)
		},
	}

	cmd.Flags().IntVarP(&pages, "pages", "n", 1, "Number of result pages to show")
	return cmd
}

func newDrinkCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "drink <id>",
		Short: "Show the recipe of one drink",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadSettings()
			if err != nil {
				return err
			}
			p, err := buildPipeline(cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			drink, err := p.search.Details(ctx, args[0])
			if err != nil {
				return err
			}
			if root.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), drink)
			}
			return renderDrink(cmd.OutOrStdout(), drink)
		},
	}
}

func newRecommendCmd(root *rootOptions) *cobra.Command {
	req := pantry.Request{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Suggest drinks for the ingredients you have",
		Long: `Sample random drinks and rank them by how much of each your cabinet covers.

Examples:
  cocktail_search recommend --cabinet gin,campari,"sweet vermouth"
  cocktail_search recommend --cabinet vodka,"lime juice" --makeable-only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(req.Cabinet) == 0 {
				return fmt.Errorf("at least one --cabinet ingredient is required")
			}
			cfg, err := root.loadSettings()
			if err != nil {
				return err
			}
			p, err := buildPipeline(cfg)
			if err != nil {
				return err
			}
			defer p.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			resp, err := pantry.NewRecommender(p.client, p.logger).Recommend(ctx, req)
			if err != nil {
				return err
			}
			if root.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			return renderRecommendations(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringSliceVar(&req.Cabinet, "cabinet", nil, "Ingredients you have, comma separated")
	cmd.Flags().IntVarP(&req.Limit, "limit", "n", pantry.DefaultLimit, "Maximum recommendations (1-50)")
	cmd.Flags().BoolVar(&req.FullyMakeableOnly, "makeable-only", false, "Only show drinks you can make right now")
	return cmd
}
