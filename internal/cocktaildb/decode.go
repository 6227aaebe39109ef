package cocktaildb

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/gcbaptista/go-cocktail-search/internal/normalize"
	"github.com/gcbaptista/go-cocktail-search/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// maxIngredientSlots is the number of strIngredientN/strMeasureN pairs per drink.
const maxIngredientSlots = 15

// rawDrink is one entry of the "drinks" array. Field values are strings or null.
type rawDrink map[string]interface{}

type envelope struct {
	Drinks jsoniter.RawMessage `json:"drinks"`
}

// decodeDrinks reads the response body. An empty body, a null "drinks" value
// and a non-array "drinks" value (the API answers "None Found" on some
// endpoints) all mean no results.
func decodeDrinks(body []byte) ([]rawDrink, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return []rawDrink{}, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("invalid response body: %w", err)
	}

	raw := bytes.TrimSpace(env.Drinks)
	if len(raw) == 0 || raw[0] != '[' {
		return []rawDrink{}, nil
	}

	var drinks []rawDrink
	if err := json.Unmarshal(raw, &drinks); err != nil {
		return nil, fmt.Errorf("invalid drinks array: %w", err)
	}
	if drinks == nil {
		drinks = []rawDrink{}
	}
	return drinks, nil
}

func (d rawDrink) field(key string) string {
	switch v := d[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

func toSummary(d rawDrink) (model.CocktailSummary, bool) {
	id := d.field("idDrink")
	if id == "" {
		return model.CocktailSummary{}, false
	}
	return model.CocktailSummary{
		ID:           id,
		Name:         d.field("strDrink"),
		ThumbnailURL: d.field("strDrinkThumb"),
	}, true
}

func toSummaries(drinks []rawDrink) []model.CocktailSummary {
	out := make([]model.CocktailSummary, 0, len(drinks))
	for _, d := range drinks {
		if s, ok := toSummary(d); ok {
			out = append(out, s)
		}
	}
	return out
}

func toDetails(d rawDrink) (*model.CocktailDetailed, bool) {
	summary, ok := toSummary(d)
	if !ok {
		return nil, false
	}

	ingredients := make([]model.Ingredient, 0, maxIngredientSlots)
	for i := 1; i <= maxIngredientSlots; i++ {
		name := d.field("strIngredient" + strconv.Itoa(i))
		if name == "" {
			continue
		}
		ingredients = append(ingredients, model.Ingredient{
			Name:    name,
			Measure: d.field("strMeasure" + strconv.Itoa(i)),
		})
	}

	details := &model.CocktailDetailed{
		CocktailSummary: summary,
		Ingredients:     ingredients,
		Category:        d.field("strCategory"),
		Instructions:    d.field("strInstructions"),
	}
	details.NormalizedIngredients = normalize.List(details.IngredientNames())
	return details, true
}
