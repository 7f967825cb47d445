package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/internal/model"
)

func TestStrategyFor(t *testing.T) {
	assert.IsType(t, Basic{}, StrategyFor(model.PriorityHigh, nil))
	assert.IsType(t, Basic{}, StrategyFor(model.PriorityLow, &model.QuantitativeMetrics{}))

	metrics := BuildMetrics("10萬元", "", "")
	require.NotNil(t, metrics)
	assert.IsType(t, Advanced{}, StrategyFor(model.PriorityLow, metrics))
}

func TestClassifyBasic(t *testing.T) {
	assert.Equal(t, model.TierRevenue, ClassifyBasic("簽新合約", "", model.PriorityHigh))
	assert.Equal(t, model.TierTraffic, ClassifyBasic("投放廣告", "", model.PriorityMedium))
	assert.Equal(t, model.TierAdmin, ClassifyBasic("準備簡報", "", model.PriorityLow))
}

func TestClassifyBasic_DailyTaskOverridesPriority(t *testing.T) {
	// A daily-task match forces tier 4 even at high priority.
	assert.Equal(t, model.TierDaily, ClassifyBasic("回覆郵件", "", model.PriorityHigh))
	assert.Equal(t, model.TierDaily, ClassifyBasic("整理倉庫", "這是例行工作", model.PriorityHigh))
}

func TestFinancialScore(t *testing.T) {
	metrics := BuildMetrics("預計帶來 150萬 營收", "", "")
	require.NotNil(t, metrics)

	score := FinancialScore(metrics)
	assert.GreaterOrEqual(t, score, 90.0)
	assert.LessOrEqual(t, score, 100.0)
}

func TestFinancialScore_ScaleWordMatters(t *testing.T) {
	small := BuildMetrics("帶來 150 元", "", "")
	large := BuildMetrics("帶來 150萬 元", "", "")
	assert.Less(t, FinancialScore(small), FinancialScore(large))
}

func TestComponentScores_NilMetrics(t *testing.T) {
	assert.Zero(t, FinancialScore(nil))
	assert.Zero(t, QuantityScore(nil))
	assert.Zero(t, TimeScore(nil))

	onlyTime := BuildMetrics("", "", "節省 10 小時")
	assert.Zero(t, FinancialScore(onlyTime))
	assert.Zero(t, QuantityScore(onlyTime))
	assert.Positive(t, TimeScore(onlyTime))
}

func TestQuantityScore_TypeMultiplier(t *testing.T) {
	customers := BuildMetrics("", "新增 500 個客戶", "")
	other := BuildMetrics("", "新增 500 件", "")
	assert.Greater(t, QuantityScore(customers), QuantityScore(other))
}

func TestClassifyAdvanced_StrongFinancialNeverWorseThanAdmin(t *testing.T) {
	metrics := BuildMetrics("預計帶來 150萬 營收", "", "")
	require.NotNil(t, metrics)

	tier := ClassifyAdvanced("提升營收", "", metrics)
	assert.LessOrEqual(t, int(tier), int(model.TierAdmin))
}

func TestClassifyAdvanced_BoundaryIsInclusive(t *testing.T) {
	// Financial and quantity both cap at 100 (40 + 30 points), time is absent
	// (0 points) and the six revenue keywords max the keyword score (10
	// points): a total of exactly 80 lands in tier 1, not tier 2.
	metrics := BuildMetrics("預計帶來 200萬元", "新增 20000 個客戶", "")
	require.NotNil(t, metrics)
	require.Equal(t, 100.0, FinancialScore(metrics))
	require.Equal(t, 100.0, QuantityScore(metrics))

	tier := ClassifyAdvanced("營收 獲利 利潤 簽約 合約 商機", "", metrics)
	assert.Equal(t, model.TierRevenue, tier)
}

func TestClassifyAdvanced_NoMetricsSupportFallsLow(t *testing.T) {
	metrics := BuildMetrics("帶來 100 元", "", "")
	require.NotNil(t, metrics)

	// Tiny financial value, neutral keywords: the weighted total stays under
	// 40 and the task lands in the daily tier.
	assert.Equal(t, model.TierDaily, ClassifyAdvanced("測試", "", metrics))
}

func TestCheckAlignment(t *testing.T) {
	strong := BuildMetrics("預計帶來 200萬元 營收", "新增 20000 個客戶", "節省 100 小時")
	require.NotNil(t, strong)
	weak := BuildMetrics("帶來 100 元", "", "")
	require.NotNil(t, weak)

	// Revenue tier with weak numbers warns.
	assert.Equal(t, warnLowSupport, CheckAlignment(model.TierRevenue, weak))
	// Low tier with strong numbers suggests an upgrade.
	assert.Equal(t, warnUpgrade, CheckAlignment(model.TierAdmin, strong))
	assert.Equal(t, warnUpgrade, CheckAlignment(model.TierDaily, strong))
	// Matching tier and numbers: no warning.
	assert.Empty(t, CheckAlignment(model.TierRevenue, strong))
	assert.Empty(t, CheckAlignment(model.TierAdmin, weak))
}

func TestCheckAlignment_RevenueNeedsFinancial(t *testing.T) {
	noMoney := BuildMetrics("", "新增 20000 個客戶", "節省 100 小時")
	require.NotNil(t, noMoney)

	warning := CheckAlignment(model.TierRevenue, noMoney)
	assert.Equal(t, warnNoRevenue, warning)
}
