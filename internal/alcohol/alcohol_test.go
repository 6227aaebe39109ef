package alcohol

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalABV(t *testing.T) {
	tests := []struct {
		name       string
		components []Component
		want       float64
	}{
		{
			name:       "spirit and water",
			components: []Component{{VolumeMl: 50, ABVPercent: 40}, {VolumeMl: 50, ABVPercent: 0}},
			want:       20.0,
		},
		{
			name:       "mocktail",
			components: []Component{{VolumeMl: 30, ABVPercent: 0}, {VolumeMl: 120, ABVPercent: 0}},
			want:       0,
		},
		{
			name:       "rounded to one decimal",
			components: []Component{{VolumeMl: 45, ABVPercent: 40}, {VolumeMl: 25, ABVPercent: 30}, {VolumeMl: 30, ABVPercent: 0}},
			want:       25.5,
		},
		{
			name:       "invalid parts skipped",
			components: []Component{{VolumeMl: 60, ABVPercent: 40}, {VolumeMl: -10, ABVPercent: 0}, {VolumeMl: 60, ABVPercent: -5}, {VolumeMl: 0, ABVPercent: 90}},
			want:       40.0,
		},
		{name: "empty", components: nil, want: 0},
		{name: "nothing valid", components: []Component{{VolumeMl: math.NaN(), ABVPercent: 40}}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TotalABV(tt.components); got != tt.want {
				t.Errorf("TotalABV() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGrams(t *testing.T) {
	assert.InDelta(t, 47.34, Grams(150, 40), 0.005)
	assert.Equal(t, 0.0, Grams(0, 50))
	assert.Equal(t, 15.78, Grams(50, 40))
}

func TestCalculate(t *testing.T) {
	mix := Calculate([]Component{
		{Name: "Tequila", VolumeMl: 50, ABVPercent: 40},
		{Name: "Triple sec", VolumeMl: 20, ABVPercent: 40},
		{Name: "Lime juice", VolumeMl: 30, ABVPercent: 0},
		{Name: "Splash", VolumeMl: 0, ABVPercent: 0},
	})

	assert.Equal(t, 28.0, mix.TotalABV)
	assert.Equal(t, 100.0, mix.TotalVolumeMl)
	assert.Equal(t, 28.0, mix.EthanolMl)
	assert.Equal(t, 22.09, mix.EthanolGrams)
	assert.Equal(t, 1, mix.Skipped)
}
