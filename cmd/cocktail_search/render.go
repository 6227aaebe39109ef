package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/olekukonko/tablewriter"

	"github.com/gcbaptista/go-cocktail-search/internal/alcohol"
	"github.com/gcbaptista/go-cocktail-search/internal/pantry"
	"github.com/gcbaptista/go-cocktail-search/model"
	"github.com/gcbaptista/go-cocktail-search/services"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func writeJSON(w io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// renderTable prints rows with the first row as the header.
// tablewriter.Table has no SetHeader in this version.
func renderTable(w io.Writer, rows [][]string) error {
	table := tablewriter.NewWriter(w)
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return fmt.Errorf("failed to append row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func renderPage(w io.Writer, page services.ResultPage) error {
	if page.NotFoundBanner != "" {
		fmt.Fprintln(w, page.NotFoundBanner)
	}
	if len(page.Suggestions) > 0 {
		fmt.Fprintf(w, "Did you mean: %s?\n", strings.Join(page.Suggestions, ", "))
	}
	if page.Error != "" {
		fmt.Fprintf(w, "Some sources failed: %s\n", page.Error)
	}
	if page.Starters {
		fmt.Fprintln(w, "Try one of these:")
	}

	rows := [][]string{{"#", "ID", "Name", "Score", "Ingredients"}}
	for i, r := range page.Visible {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.ID,
			r.Name,
			strconv.FormatFloat(r.Score, 'f', 0, 64),
			strings.Join(r.NormalizedIngredients, ", "),
		})
	}
	if err := renderTable(w, rows); err != nil {
		return err
	}

	fmt.Fprintf(w, "Showing %d of %d (%s)\n", len(page.Visible), page.Total, page.Classification)
	return nil
}

func renderDrink(w io.Writer, drink *model.CocktailDetailed) error {
	fmt.Fprintf(w, "%s (%s)\n", drink.Name, drink.Category)

	rows := [][]string{{"Ingredient", "Measure"}}
	for _, ing := range drink.Ingredients {
		rows = append(rows, []string{ing.Name, ing.Measure})
	}
	if err := renderTable(w, rows); err != nil {
		return err
	}

	if drink.Instructions != "" {
		fmt.Fprintln(w, drink.Instructions)
	}
	return nil
}

func renderRecommendations(w io.Writer, resp pantry.Response) error {
	rows := [][]string{{"Name", "Makeable", "Match", "Missing"}}
	for _, rec := range resp.Cocktails {
		makeable := "no"
		if rec.FullyMakeable {
			makeable = "yes"
		}
		rows = append(rows, []string{
			rec.Name,
			makeable,
			fmt.Sprintf("%d/%d", rec.MatchScore.Matched, rec.MatchScore.Total),
			strings.Join(rec.MissingIngredients, ", "),
		})
	}
	if err := renderTable(w, rows); err != nil {
		return err
	}

	fmt.Fprintf(w, "%d found, %d fully makeable\n", resp.TotalFound, resp.FullyMakeableCount)
	return nil
}

func renderMix(w io.Writer, components []alcohol.Component, mix alcohol.Mix) error {
	rows := [][]string{{"Pour", "ml", "ABV %"}}
	for i, c := range components {
		name := c.Name
		if name == "" {
			name = strconv.Itoa(i + 1)
		}
		rows = append(rows, []string{
			name,
			strconv.FormatFloat(c.VolumeMl, 'f', -1, 64),
			strconv.FormatFloat(c.ABVPercent, 'f', -1, 64),
		})
	}
	if err := renderTable(w, rows); err != nil {
		return err
	}

	fmt.Fprintf(w, "%.1f%% ABV in %s ml, %.2f g of alcohol\n",
		mix.TotalABV, strconv.FormatFloat(mix.TotalVolumeMl, 'f', -1, 64), mix.EthanolGrams)
	if mix.Skipped > 0 {
		fmt.Fprintf(w, "%d pour(s) skipped\n", mix.Skipped)
	}
	return nil
}
