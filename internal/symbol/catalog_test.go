package symbol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAll(t *testing.T) {
	all := All()
	assert.Len(t, all, 30)

	seen := map[string]bool{}
	for _, sym := range all {
		assert.False(t, seen[sym.ID], "duplicate id %s", sym.ID)
		seen[sym.ID] = true
		assert.NotEmpty(t, sym.Name)
		assert.NotEmpty(t, sym.Keywords)
	}
}

func TestMatch_KeywordHit(t *testing.T) {
	sym := Match("下週二去拜訪大客戶談年度合作")
	assert.Equal(t, "client-visit", sym.ID)
}

func TestMatch_BestCoverageWins(t *testing.T) {
	// 簽約 + 合約 + 成交 hit three keywords of contract-signing.
	sym := Match("完成簽約，合約用印後即成交")
	assert.Equal(t, "contract-signing", sym.ID)
}

func TestMatch_CategoryFallback(t *testing.T) {
	t.Run("revenue words", func(t *testing.T) {
		assert.Equal(t, CategoryRevenue, Match("想辦法多賺錢").Category)
	})
	t.Run("traffic words", func(t *testing.T) {
		assert.Equal(t, CategoryTraffic, Match("增加曝光").Category)
	})
	t.Run("default admin", func(t *testing.T) {
		assert.Equal(t, CategoryAdmin, Match("嗯").Category)
	})
}

func TestByID(t *testing.T) {
	sym, ok := ByID("weekly-report")
	require.True(t, ok)
	assert.Equal(t, "週報月報", sym.Name)
	assert.Equal(t, CategoryAdmin, sym.Category)

	_, ok = ByID("nope")
	assert.False(t, ok)
}

func TestByCategory(t *testing.T) {
	assert.Len(t, ByCategory(CategoryRevenue), 10)
	assert.Len(t, ByCategory(CategoryTraffic), 10)
	assert.Len(t, ByCategory(CategoryAdmin), 10)
}
