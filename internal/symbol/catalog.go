// Package symbol holds the fixed task-symbol dictionary and the keyword
// matcher that assigns a symbol to a task from its description.
package symbol

import "strings"

// Category groups symbols into the three tier families.
type Category string

const (
	CategoryRevenue Category = "revenue"
	CategoryTraffic Category = "traffic"
	CategoryAdmin   Category = "admin"
)

// Symbol is one entry of the dictionary.
type Symbol struct {
	ID       string
	Name     string
	Category Category
	Keywords []string
}

var revenueSymbols = []Symbol{
	{ID: "direct-sales", Name: "直接銷售", Category: CategoryRevenue, Keywords: []string{"銷售", "賣", "業績", "成交", "訂單"}},
	{ID: "client-visit", Name: "客戶拜訪", Category: CategoryRevenue, Keywords: []string{"客戶", "拜訪", "會面", "洽談", "商談"}},
	{ID: "contract-signing", Name: "簽約成交", Category: CategoryRevenue, Keywords: []string{"簽約", "合約", "協議", "成交", "簽署"}},
	{ID: "product-demo", Name: "產品展示", Category: CategoryRevenue, Keywords: []string{"展示", "產品", "示範", "介紹", "呈現"}},
	{ID: "quotation", Name: "報價提案", Category: CategoryRevenue, Keywords: []string{"報價", "提案", "估價", "價格", "方案"}},
	{ID: "order-processing", Name: "訂單處理", Category: CategoryRevenue, Keywords: []string{"訂單", "處理", "下單", "購買", "採購"}},
	{ID: "payment-collection", Name: "收款催款", Category: CategoryRevenue, Keywords: []string{"收款", "催款", "付款", "帳款", "應收"}},
	{ID: "contract-review", Name: "合約審核", Category: CategoryRevenue, Keywords: []string{"審核", "合約", "檢查", "確認", "核對"}},
	{ID: "pricing-strategy", Name: "定價策略", Category: CategoryRevenue, Keywords: []string{"定價", "價格", "策略", "訂價", "成本"}},
	{ID: "revenue-analysis", Name: "營收分析", Category: CategoryRevenue, Keywords: []string{"營收", "分析", "財務", "收入", "獲利"}},
}

var trafficSymbols = []Symbol{
	{ID: "seo-optimization", Name: "SEO 優化", Category: CategoryTraffic, Keywords: []string{"SEO", "搜尋", "優化", "排名", "關鍵字"}},
	{ID: "social-media", Name: "社群經營", Category: CategoryTraffic, Keywords: []string{"社群", "粉絲", "社交", "互動", "社團"}},
	{ID: "content-writing", Name: "內容撰寫", Category: CategoryTraffic, Keywords: []string{"內容", "撰寫", "文章", "寫作", "編輯"}},
	{ID: "advertising", Name: "廣告投放", Category: CategoryTraffic, Keywords: []string{"廣告", "投放", "行銷", "推廣", "宣傳"}},
	{ID: "data-analysis", Name: "數據分析", Category: CategoryTraffic, Keywords: []string{"數據", "分析", "統計", "報表", "指標"}},
	{ID: "website-optimization", Name: "網站優化", Category: CategoryTraffic, Keywords: []string{"網站", "優化", "改善", "速度", "體驗"}},
	{ID: "email-marketing", Name: "電郵行銷", Category: CategoryTraffic, Keywords: []string{"電郵", "郵件", "EDM", "信件", "通知"}},
	{ID: "video-production", Name: "影片製作", Category: CategoryTraffic, Keywords: []string{"影片", "視頻", "拍攝", "剪輯", "製作"}},
	{ID: "event-planning", Name: "活動企劃", Category: CategoryTraffic, Keywords: []string{"活動", "企劃", "策劃", "規劃", "舉辦"}},
	{ID: "traffic-monitoring", Name: "流量監控", Category: CategoryTraffic, Keywords: []string{"流量", "監控", "追蹤", "觀察", "檢視"}},
}

var adminSymbols = []Symbol{
	{ID: "document-review", Name: "文件審核", Category: CategoryAdmin, Keywords: []string{"審核", "文件", "檢查", "核准", "批准"}},
	{ID: "weekly-report", Name: "週報月報", Category: CategoryAdmin, Keywords: []string{"週報", "月報", "報告", "彙報", "總結"}},
	{ID: "process-optimization", Name: "流程優化", Category: CategoryAdmin, Keywords: []string{"流程", "優化", "改善", "精進", "提升"}},
	{ID: "meeting-scheduling", Name: "會議安排", Category: CategoryAdmin, Keywords: []string{"會議", "安排", "排程", "預約", "協調"}},
	{ID: "data-organization", Name: "資料整理", Category: CategoryAdmin, Keywords: []string{"資料", "整理", "歸檔", "分類", "彙整"}},
	{ID: "system-maintenance", Name: "系統維護", Category: CategoryAdmin, Keywords: []string{"系統", "維護", "保養", "修復", "更新"}},
	{ID: "hr-management", Name: "人事管理", Category: CategoryAdmin, Keywords: []string{"人事", "管理", "員工", "人力", "招聘"}},
	{ID: "budget-planning", Name: "預算編列", Category: CategoryAdmin, Keywords: []string{"預算", "編列", "規劃", "財務", "經費"}},
	{ID: "compliance-check", Name: "合規檢查", Category: CategoryAdmin, Keywords: []string{"合規", "檢查", "稽核", "法規", "規範"}},
	{ID: "document-processing", Name: "文書處理", Category: CategoryAdmin, Keywords: []string{"文書", "處理", "打字", "輸入", "登錄"}},
}

// All returns the full dictionary, revenue family first.
func All() []Symbol {
	all := make([]Symbol, 0, len(revenueSymbols)+len(trafficSymbols)+len(adminSymbols))
	all = append(all, revenueSymbols...)
	all = append(all, trafficSymbols...)
	all = append(all, adminSymbols...)
	return all
}

// Match picks the symbol whose keywords best cover the description. With no
// keyword hit at all, a family default is chosen from coarse tier words, and
// the admin default applies when nothing matches.
func Match(description string) Symbol {
	lower := strings.ToLower(description)

	best := revenueSymbols[0]
	bestScore := 0
	for _, sym := range All() {
		score := 0
		for _, keyword := range sym.Keywords {
			if strings.Contains(lower, strings.ToLower(keyword)) {
				score++
			}
		}
		if score > bestScore {
			best = sym
			bestScore = score
		}
	}

	if bestScore == 0 {
		switch {
		case strings.Contains(lower, "營收") || strings.Contains(lower, "銷售") ||
			strings.Contains(lower, "賺錢") || strings.Contains(lower, "客戶"):
			return revenueSymbols[0]
		case strings.Contains(lower, "流量") || strings.Contains(lower, "行銷") ||
			strings.Contains(lower, "推廣") || strings.Contains(lower, "曝光"):
			return trafficSymbols[0]
		default:
			return adminSymbols[0]
		}
	}

	return best
}

// ByID looks a symbol up by its identifier.
func ByID(id string) (Symbol, bool) {
	for _, sym := range All() {
		if sym.ID == id {
			return sym, true
		}
	}
	return Symbol{}, false
}

// ByCategory returns the symbols of one family.
func ByCategory(category Category) []Symbol {
	var out []Symbol
	for _, sym := range All() {
		if sym.Category == category {
			out = append(out, sym)
		}
	}
	return out
}
