package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/go-cocktail-search/internal/alcohol"
)

func newABVCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "abv <ml:abv[:name]>...",
		Short: "Compute the strength of a mixed drink",
		Long: `Mix pours given as volume in ml and strength in percent.
Pours with no volume or a negative strength are skipped.

Examples:
  cocktail_search abv 50:40 50:0
  cocktail_search abv 45:40:tequila 20:40:"triple sec" 25:0:lime --json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			components, err := parsePours(args)
			if err != nil {
				return err
			}
			mix := alcohol.Calculate(components)

			if root.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), mix)
			}
			return renderMix(cmd.OutOrStdout(), components, mix)
		},
	}
}

// parsePours reads "ml:abv" or "ml:abv:name" arguments.
func parsePours(args []string) ([]alcohol.Component, error) {
	components := make([]alcohol.Component, 0, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, ":", 3)
		if len(parts) < 2 {
			return nil, fmt.Errorf("invalid pour %q, expected ml:abv", arg)
		}
		ml, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid volume in %q: %w", arg, err)
		}
		abv, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid strength in %q: %w", arg, err)
		}
		c := alcohol.Component{VolumeMl: ml, ABVPercent: abv}
		if len(parts) == 3 {
			c.Name = parts[2]
		}
		components = append(components, c)
	}
	return components, nil
}
