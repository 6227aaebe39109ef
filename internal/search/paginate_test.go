package search

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-cocktail-search/model"
)

func rankedItems(n int) []model.ScoredResult {
	out := make([]model.ScoredResult, n)
	for i := range out {
		out[i].ID = fmt.Sprintf("%d", i)
		out[i].Name = fmt.Sprintf("Result %d", i)
		out[i].Score = float64(n - i)
	}
	return out
}

func TestPrune(t *testing.T) {
	tests := []struct {
		name  string
		total int
		limit int
		want  int
	}{
		{"under the cap", 35, 60, 35},
		{"at the cap", 60, 60, 60},
		{"120 items", 120, 60, 60},
		{"200 items", 200, 60, 60},
		{"empty", 0, 60, 0},
		{"zero limit", 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items := rankedItems(tt.total)
			got := Prune(items, tt.limit)
			if len(got) != tt.want {
				t.Errorf("Prune(%d items, %d) kept %d, want %d", tt.total, tt.limit, len(got), tt.want)
			}
			if len(got) > 0 && got[0].ID != "0" {
				t.Errorf("Prune dropped the head, first id = %s", got[0].ID)
			}
		})
	}
}

func TestPager_ThirtyFiveItems(t *testing.T) {
	pager := NewPager(rankedItems(35), 20)

	visible := pager.Visible()
	require.Len(t, visible, 20)
	assert.Equal(t, "Result 0", visible[0].Name)
	assert.Equal(t, "Result 19", visible[19].Name)
	assert.True(t, pager.CanLoadMore())

	assert.True(t, pager.LoadMore())
	visible = pager.Visible()
	require.Len(t, visible, 35, "window is clamped to the total")
	assert.Equal(t, "Result 34", visible[34].Name)
	assert.False(t, pager.CanLoadMore())

	assert.False(t, pager.LoadMore(), "nothing left to load")
	assert.Len(t, pager.Visible(), 35)
	assert.Equal(t, 2, pager.Pages())
}

func TestPager_VisibleCountInvariant(t *testing.T) {
	const resultCap, pageSize = 60, 20
	for _, total := range []int{0, 1, 19, 20, 21, 40, 59, 60, 120} {
		pruned := Prune(rankedItems(total), resultCap)
		pager := NewPager(pruned, pageSize)
		for presses := 0; presses < 5; presses++ {
			want := min(len(pruned), (presses+1)*pageSize)
			assert.Len(t, pager.Visible(), want, "total=%d presses=%d", total, presses)
			assert.LessOrEqual(t, len(pager.Visible()), resultCap)
			assert.Equal(t, want < len(pruned), pager.CanLoadMore(), "total=%d presses=%d", total, presses)
			pager.LoadMore()
		}
	}
}

func TestPager_ExactMultipleOfPageSize(t *testing.T) {
	pager := NewPager(rankedItems(40), 20)
	assert.True(t, pager.LoadMore())
	assert.Len(t, pager.Visible(), 40)
	assert.False(t, pager.CanLoadMore())
}

func TestPager_Empty(t *testing.T) {
	pager := NewPager(nil, 20)
	assert.NotNil(t, pager.Visible())
	assert.Empty(t, pager.Visible())
	assert.False(t, pager.CanLoadMore())
	assert.False(t, pager.LoadMore())
	assert.Equal(t, 0, pager.Total())
}

func TestPager_InvalidPageSize(t *testing.T) {
	pager := NewPager(rankedItems(3), 0)
	assert.Equal(t, 1, pager.PageSize())
	assert.Len(t, pager.Visible(), 1)
}
