package classify

import "taskboard/internal/model"

// Strategy assigns a tier at task creation time. Two implementations exist:
// Basic before any quantitative input, Advanced once metrics are present.
type Strategy interface {
	Classify(title, description string) model.Tier
}

// StrategyFor selects the classification strategy: Advanced is authoritative
// whenever quantitative metrics exist, Basic is the coarse fallback.
func StrategyFor(priority model.TaskPriority, metrics *model.QuantitativeMetrics) Strategy {
	if !metrics.Empty() {
		return Advanced{Metrics: metrics}
	}
	return Basic{Priority: priority}
}

// Basic maps a high/medium/low judgement straight onto tiers 1-3, with the
// daily-task detector as an unconditional override to tier 4.
type Basic struct {
	Priority model.TaskPriority
}

func (b Basic) Classify(title, description string) model.Tier {
	return ClassifyBasic(title, description, b.Priority)
}

// Advanced scores the task's quantified contributions and keyword signal.
type Advanced struct {
	Metrics *model.QuantitativeMetrics
}

func (a Advanced) Classify(title, description string) model.Tier {
	return ClassifyAdvanced(title, description, a.Metrics)
}

// ClassifyBasic implements the pre-quantitative fallback: a daily-task match
// forces tier 4 regardless of the given priority.
func ClassifyBasic(title, description string, priority model.TaskPriority) model.Tier {
	if IsDailyTask(title, description) {
		return model.TierDaily
	}

	switch priority {
	case model.PriorityHigh:
		return model.TierRevenue
	case model.PriorityMedium:
		return model.TierTraffic
	default:
		return model.TierAdmin
	}
}

// Component weights of the advanced total.
const (
	financialWeight = 0.4
	quantityWeight  = 0.3
	timeWeight      = 0.2
	keywordWeight   = 0.1
)

// ClassifyAdvanced combines the three quantitative component scores with the
// keyword score into a weighted total and maps it onto a tier. Boundaries are
// inclusive-lower: a total of exactly 80 is tier 1, exactly 60 is tier 2.
// A missing sub-record contributes 0, not a neutral default — absence of
// quantitative support is penalized.
func ClassifyAdvanced(title, description string, metrics *model.QuantitativeMetrics) model.Tier {
	total := FinancialScore(metrics)*financialWeight +
		QuantityScore(metrics)*quantityWeight +
		TimeScore(metrics)*timeWeight +
		float64(KeywordScore(title, description))*keywordWeight

	switch {
	case total >= 80:
		return model.TierRevenue
	case total >= 60:
		return model.TierTraffic
	case total >= 40:
		return model.TierAdmin
	default:
		return model.TierDaily
	}
}

// FinancialScore rates the monetary contribution on a 0-100 scale. The
// magnitude is re-extracted from the authoritative description text, not
// from the cached Value, so scale words like 萬 keep their effect.
func FinancialScore(metrics *model.QuantitativeMetrics) float64 {
	if metrics == nil || metrics.Financial == nil {
		return 0
	}

	item := metrics.Financial
	value := ExtractValue(item.Description)

	var score float64
	switch {
	case value >= 1_000_000:
		score = min100(90 + (value/1_000_000)*2)
	case value >= 500_000:
		score = 80 + ((value-500_000)/500_000)*10
	case value >= 100_000:
		score = 60 + ((value-100_000)/400_000)*20
	case value >= 50_000:
		score = 40 + ((value-50_000)/50_000)*20
	case value >= 10_000:
		score = 20 + ((value-10_000)/40_000)*20
	case value > 0:
		score = 10 + (value/10_000)*10
	}

	switch item.Type {
	case model.FinancialRevenue:
		score *= 1.2
	case model.FinancialCostSaving:
		score *= 1.1
	case model.FinancialInvestment:
		score *= 1.05
	}

	return min100(score)
}

// QuantityScore rates the output-quantity contribution on a 0-100 scale.
func QuantityScore(metrics *model.QuantitativeMetrics) float64 {
	if metrics == nil || metrics.Quantity == nil {
		return 0
	}

	item := metrics.Quantity
	value := ExtractValue(item.Description)

	var score float64
	switch {
	case value >= 10_000:
		score = min100(90 + (value/10_000)*2)
	case value >= 5_000:
		score = 80 + ((value-5_000)/5_000)*10
	case value >= 1_000:
		score = 60 + ((value-1_000)/4_000)*20
	case value >= 500:
		score = 40 + ((value-500)/500)*20
	case value >= 100:
		score = 20 + ((value-100)/400)*20
	case value > 0:
		score = 10 + (value/100)*10
	}

	switch item.Type {
	case model.QuantityCustomers:
		score *= 1.2
	case model.QuantityUsers:
		score *= 1.15
	case model.QuantityProducts:
		score *= 1.1
	}

	return min100(score)
}

// TimeScore rates the time contribution on a 0-100 scale, with the magnitude
// read as hours.
func TimeScore(metrics *model.QuantitativeMetrics) float64 {
	if metrics == nil || metrics.Time == nil {
		return 0
	}

	item := metrics.Time
	value := ExtractValue(item.Description)

	var score float64
	switch {
	case value >= 100:
		score = min100(90 + (value/100)*2)
	case value >= 50:
		score = 80 + ((value-50)/50)*10
	case value >= 20:
		score = 60 + ((value-20)/30)*20
	case value >= 10:
		score = 40 + ((value-10)/10)*20
	case value >= 5:
		score = 20 + ((value-5)/5)*20
	case value > 0:
		score = 10 + (value/5)*10
	}

	switch item.Type {
	case model.TimeSaving:
		score *= 1.2
	case model.TimeProcessOptimization:
		score *= 1.15
	case model.TimeEfficiency:
		score *= 1.1
	}

	return min100(score)
}

// Alignment warnings, advisory only — they never block creation.
const (
	warnLowSupport = "⚠️ 此任務被標記為「1級|營收」，但量化貢獻度較低。請確認是否需要調整層級或補充量化指標。"
	warnUpgrade    = "💡 此任務的量化貢獻度很高，建議提升為「1級|營收」或「2級|流量」。"
	warnNoRevenue  = "⚠️ 「1級|營收」任務應該包含明確的金額貢獻度（營收、利潤或成本節省）。"
)

// CheckAlignment compares the assigned tier against the average of the three
// quantitative component scores (keyword signal excluded) and returns an
// advisory warning, or "" when the tier and the numbers agree. Rules are
// evaluated in order and the first match wins.
func CheckAlignment(tier model.Tier, metrics *model.QuantitativeMetrics) string {
	financial := FinancialScore(metrics)
	quantity := QuantityScore(metrics)
	timeScore := TimeScore(metrics)

	avg := (financial + quantity + timeScore) / 3

	if tier == model.TierRevenue && avg < 50 {
		return warnLowSupport
	}
	if (tier == model.TierAdmin || tier == model.TierDaily) && avg > 70 {
		return warnUpgrade
	}
	if tier == model.TierRevenue && financial == 0 {
		return warnNoRevenue
	}
	return ""
}

func min100(v float64) float64 {
	if v > 100 {
		return 100
	}
	return v
}
