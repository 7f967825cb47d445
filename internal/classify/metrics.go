package classify

import (
	"regexp"
	"strconv"
	"strings"

	"taskboard/internal/model"
)

// FieldError identifies why a quantitative input was rejected. Validation
// outcomes are values, never Go errors: malformed business input is a normal
// dialog state, not a failure.
type FieldError int

const (
	ErrNone FieldError = iota
	// ErrMissingNumber: non-empty text with no digit anywhere.
	ErrMissingNumber
	// ErrAbstractLanguage: a digit is present but so is a vague term.
	ErrAbstractLanguage
	// ErrAllFieldsEmpty: all three quantitative fields are blank.
	ErrAllFieldsEmpty
)

// ValidationResult is surfaced by the creation dialog as a form-level message.
type ValidationResult struct {
	Valid   bool
	Err     FieldError
	Message string
}

var valid = ValidationResult{Valid: true}

const (
	msgMissingNumber  = "❌ 請輸入具體數值（如「50 萬元」、「1000 個用戶」、「10 小時」）"
	msgAbstract       = "❌ 請避免使用「盡力」、「大幅」、「顯著」等抽象詞彙，請直接輸入具體數值"
	msgAllFieldsEmpty = "❌ 請至少填寫一項量化貢獻度（金額/數量/時間）"
)

var anyDigit = regexp.MustCompile(`\d`)

// ValidateField checks one quantitative free-text input. Empty input is
// always valid — only the combined three-field check rejects absence. The
// digit check runs before the abstract-term check, so digit-less prose is
// reported as a missing number rather than abstract language.
func ValidateField(input string) ValidationResult {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return valid
	}

	if !anyDigit.MatchString(trimmed) {
		return ValidationResult{Err: ErrMissingNumber, Message: msgMissingNumber}
	}

	if ContainsAny(trimmed, Keywords().Abstract) {
		return ValidationResult{Err: ErrAbstractLanguage, Message: msgAbstract}
	}

	return valid
}

// ValidateAtLeastOne rejects the quantitative section when all three fields
// are empty or whitespace-only.
func ValidateAtLeastOne(financial, quantity, timeText string) ValidationResult {
	if strings.TrimSpace(financial) == "" &&
		strings.TrimSpace(quantity) == "" &&
		strings.TrimSpace(timeText) == "" {
		return ValidationResult{Err: ErrAllFieldsEmpty, Message: msgAllFieldsEmpty}
	}
	return valid
}

// valueUnit captures "number followed by a unit word", e.g. "50萬元" or
// "10 小時".
var valueUnit = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([^\d\s]+)`)

// ParsedField is the value/unit pair lifted out of one input, with the raw
// text kept verbatim as the authoritative description.
type ParsedField struct {
	Value       float64
	Unit        string
	Description string
}

// ParseField extracts a value/unit pair from one quantitative input, or nil
// when the input is empty or carries no parsable pair.
func ParseField(input string) *ParsedField {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return nil
	}

	match := valueUnit.FindStringSubmatch(trimmed)
	if match == nil {
		return nil
	}

	value, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return nil
	}

	return &ParsedField{Value: value, Unit: match[2], Description: trimmed}
}

// BuildMetrics structures the three free-text inputs into typed metric
// records. Returns nil iff none of the three parses to a value. The type of
// each record is sniffed from the raw text, with a fixed per-field default.
func BuildMetrics(financialText, quantityText, timeText string) *model.QuantitativeMetrics {
	financial := ParseField(financialText)
	quantity := ParseField(quantityText)
	timeField := ParseField(timeText)

	if financial == nil && quantity == nil && timeField == nil {
		return nil
	}

	metrics := &model.QuantitativeMetrics{}

	if financial != nil {
		metricType := model.FinancialRevenue
		if containsEither(financialText, "節省", "降低") {
			metricType = model.FinancialCostSaving
		} else if containsEither(financialText, "投資", "投入") {
			metricType = model.FinancialInvestment
		}
		metrics.Financial = &model.MetricItem{
			Value:       financial.Value,
			Unit:        financial.Unit,
			Type:        metricType,
			Description: financial.Description,
		}
	}

	if quantity != nil {
		metricType := model.QuantityOther
		switch {
		case containsEither(quantityText, "用戶", "使用者"):
			metricType = model.QuantityUsers
		case containsEither(quantityText, "客戶", "顧客"):
			metricType = model.QuantityCustomers
		case containsEither(quantityText, "產品", "商品"):
			metricType = model.QuantityProducts
		case containsEither(quantityText, "專案", "項目"):
			metricType = model.QuantityProjects
		}
		metrics.Quantity = &model.MetricItem{
			Value:       quantity.Value,
			Unit:        quantity.Unit,
			Type:        metricType,
			Description: quantity.Description,
		}
	}

	if timeField != nil {
		metricType := model.TimeSaving
		if containsEither(timeText, "優化", "改善") {
			metricType = model.TimeProcessOptimization
		} else if containsEither(timeText, "效率", "提升") {
			metricType = model.TimeEfficiency
		}
		metrics.Time = &model.MetricItem{
			Value:       timeField.Value,
			Unit:        timeField.Unit,
			Type:        metricType,
			Description: timeField.Description,
		}
	}

	return metrics
}

func containsEither(text, a, b string) bool {
	return strings.Contains(text, a) || strings.Contains(text, b)
}
