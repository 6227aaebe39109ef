// Package alcohol computes the strength of mixed drinks.
package alcohol

import "math"

// EthanolDensity is grams of ethanol per millilitre.
const EthanolDensity = 0.789

// Component is one pour of a drink. ABVPercent is 40 for a 40% spirit.
type Component struct {
	Name       string  `json:"name,omitempty"`
	VolumeMl   float64 `json:"volume_ml"`
	ABVPercent float64 `json:"abv_percent"`
}

// valid reports whether the component counts towards the mix.
// Pours without volume or with a negative or unknown strength are skipped.
func (c Component) valid() bool {
	return c.VolumeMl > 0 && c.ABVPercent >= 0 && !math.IsInf(c.VolumeMl, 0)
}

// Mix is the computed strength of a drink.
type Mix struct {
	TotalABV      float64 `json:"total_abv"` // Percent, one decimal
	TotalVolumeMl float64 `json:"total_volume_ml"`
	EthanolMl     float64 `json:"ethanol_ml"`    // Two decimals
	EthanolGrams  float64 `json:"ethanol_grams"` // Two decimals
	Skipped       int     `json:"skipped"`       // Components left out as invalid
}

// TotalABV returns the strength of the mixed components in percent, rounded
// to one decimal. It is zero when no component is valid.
func TotalABV(components []Component) float64 {
	return Calculate(components).TotalABV
}

// Grams returns the grams of pure alcohol in ml of a drink at abvPercent,
// rounded to two decimals.
func Grams(ml, abvPercent float64) float64 {
	return round(ml*(abvPercent/100)*EthanolDensity, 2)
}

// Calculate mixes the valid components.
func Calculate(components []Component) Mix {
	var mix Mix
	var ethanol float64
	for _, c := range components {
		if !c.valid() {
			mix.Skipped++
			continue
		}
		mix.TotalVolumeMl += c.VolumeMl
		ethanol += c.VolumeMl * (c.ABVPercent / 100)
	}
	if mix.TotalVolumeMl == 0 {
		return mix
	}

	mix.TotalABV = round(ethanol/mix.TotalVolumeMl*100, 1)
	mix.EthanolMl = round(ethanol, 2)
	mix.EthanolGrams = round(ethanol*EthanolDensity, 2)
	return mix
}

func round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
