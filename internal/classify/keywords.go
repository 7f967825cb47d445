package classify

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// KeywordSet is the single source of truth for every curated term list the
// classifiers match against. The zero-value lists can be replaced wholesale
// from a YAML file so the vocabulary can be versioned and localized without
// touching scoring logic.
type KeywordSet struct {
	// Tier-signal lists for the weighted keyword score.
	Revenue []string `yaml:"revenue"`
	Traffic []string `yaml:"traffic"`
	Admin   []string `yaml:"admin"`
	Daily   []string `yaml:"daily"`

	// DailyTask is the binary daily-task detector's denylist, independent
	// of the weighted lists above.
	DailyTask []string `yaml:"daily_task"`

	// Abstract is the vague-language denylist for quantitative input.
	Abstract []string `yaml:"abstract"`

	// Bucket-categorizer lists.
	CustomerFacing []string `yaml:"customer_facing"`
	Routine        []string `yaml:"routine"`
}

func defaultKeywords() KeywordSet {
	return KeywordSet{
		Revenue: []string{
			"營收", "业绩", "獲利", "利潤", "盈利", "收入", "銷售",
			"破局", "突破", "關鍵", "核心", "戰略", "策略",
			"客戶", "市場", "競爭", "商機", "合約", "簽約",
		},
		Traffic: []string{
			"流量", "用戶", "會員", "註冊", "活躍", "留存",
			"推廣", "行銷", "廣告", "宣傳", "曝光", "轉換",
		},
		Admin: []string{
			"行政", "文書", "報表", "統計", "整理", "歸檔",
			"會議", "記錄", "通知", "公告", "審核", "審批",
		},
		Daily: []string{
			"日常", "例行", "定期", "每日", "每週", "每月",
			"維護", "檢查", "巡檢", "清潔", "整理",
		},
		DailyTask: []string{
			"日常", "每日", "定期", "例行", "常規",
			"郵件", "email", "回覆", "回信", "信件",
			"文件", "整理", "歸檔", "備份",
			"會議", "開會", "討論", "溝通", "協調",
			"報告", "週報", "月報", "日報",
			"雜務", "瑣事", "清潔", "整頓",
			"打掃", "維護", "檢查", "巡視",
			"簽到", "打卡", "考勤",
			"請假", "加班", "排班",
			"訂餐", "訂便當", "訂飲料",
		},
		Abstract: []string{
			"盡力", "努力", "大幅", "顯著", "明顯", "積極", "持續",
			"提升", "改善", "優化", "加強", "促進", "推動", "深化",
			"盡快", "盡量", "盡可能", "儘速", "適當", "合理", "妥善",
			"有效", "良好", "優質", "卓越", "完善", "健全", "充分",
		},
		CustomerFacing: []string{"客戶", "需求", "分析", "報告", "提案", "簡報"},
		Routine:        []string{"郵件", "回覆", "整理", "歸檔", "站會", "日報", "週報"},
	}
}

var active = defaultKeywords()

// Keywords returns the active term lists.
func Keywords() KeywordSet {
	return active
}

// LoadKeywords replaces the active term lists with the contents of a YAML
// file. Lists absent from the file keep their built-in defaults. Meant to be
// called once during startup, before any classification runs.
func LoadKeywords(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read keywords file: %w", err)
	}

	loaded := KeywordSet{}
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return fmt.Errorf("parse keywords file: %w", err)
	}

	merged := defaultKeywords()
	if len(loaded.Revenue) > 0 {
		merged.Revenue = loaded.Revenue
	}
	if len(loaded.Traffic) > 0 {
		merged.Traffic = loaded.Traffic
	}
	if len(loaded.Admin) > 0 {
		merged.Admin = loaded.Admin
	}
	if len(loaded.Daily) > 0 {
		merged.Daily = loaded.Daily
	}
	if len(loaded.DailyTask) > 0 {
		merged.DailyTask = loaded.DailyTask
	}
	if len(loaded.Abstract) > 0 {
		merged.Abstract = loaded.Abstract
	}
	if len(loaded.CustomerFacing) > 0 {
		merged.CustomerFacing = loaded.CustomerFacing
	}
	if len(loaded.Routine) > 0 {
		merged.Routine = loaded.Routine
	}

	active = merged
	return nil
}

const keywordBaseScore = 50

// KeywordScore rates title+description text against the tier-signal lists.
// Every hit counts: +10 per revenue term, +5 per traffic term, -5 per admin
// term, -10 per daily term, from a base of 50, clamped to [0, 100]. There is
// no early exit — a title can gain revenue points and lose daily points at
// the same time.
func KeywordScore(title, description string) int {
	text := strings.ToLower(title + " " + description)
	kw := Keywords()

	score := keywordBaseScore
	score += 10 * countMatches(text, kw.Revenue)
	score += 5 * countMatches(text, kw.Traffic)
	score -= 5 * countMatches(text, kw.Admin)
	score -= 10 * countMatches(text, kw.Daily)

	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// IsDailyTask reports whether the title or description matches the daily-task
// denylist. First hit wins.
func IsDailyTask(title, description string) bool {
	lowerTitle := strings.ToLower(title)
	lowerDescription := strings.ToLower(description)
	for _, term := range Keywords().DailyTask {
		lowerTerm := strings.ToLower(term)
		if strings.Contains(lowerTitle, lowerTerm) || strings.Contains(lowerDescription, lowerTerm) {
			return true
		}
	}
	return false
}

func countMatches(lowerText string, terms []string) int {
	count := 0
	for _, term := range terms {
		if strings.Contains(lowerText, strings.ToLower(term)) {
			count++
		}
	}
	return count
}

// ContainsAny reports whether lowercased text contains any of the terms.
func ContainsAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
