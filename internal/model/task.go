package model

import "time"

// TaskStatus follows the pending → in-progress → completed flow; a cancel
// or pause returns the task to pending.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// TaskPriority is the coarse high/medium/low judgement recorded at creation.
// It loosely mirrors the tier but stays independently settable.
type TaskPriority string

const (
	PriorityHigh   TaskPriority = "high"
	PriorityMedium TaskPriority = "medium"
	PriorityLow    TaskPriority = "low"
)

// Tier is the four-level task classification, ordered from most to least
// valuable: revenue > traffic > admin > daily.
type Tier int

const (
	TierRevenue Tier = 1
	TierTraffic Tier = 2
	TierAdmin   Tier = 3
	TierDaily   Tier = 4
)

// Valid reports whether t is one of the four defined tiers.
func (t Tier) Valid() bool {
	return t >= TierRevenue && t <= TierDaily
}

func (t Tier) String() string {
	switch t {
	case TierRevenue:
		return "1級|營收"
	case TierTraffic:
		return "2級|流量"
	case TierAdmin:
		return "3級|行政"
	case TierDaily:
		return "4級|日常"
	default:
		return "未分類"
	}
}

// Financial metric types.
const (
	FinancialRevenue    = "revenue"
	FinancialCostSaving = "cost_saving"
	FinancialInvestment = "investment"
)

// Quantity metric types.
const (
	QuantityUsers     = "users"
	QuantityCustomers = "customers"
	QuantityProducts  = "products"
	QuantityProjects  = "projects"
	QuantityOther     = "other"
)

// Time metric types.
const (
	TimeSaving              = "time_saving"
	TimeProcessOptimization = "process_optimization"
	TimeEfficiency          = "efficiency"
)

// MetricItem is one quantified contribution, created once at task creation
// and never patched afterward. Description keeps the user's raw text and is
// authoritative; Value and Unit are a parsed cache for display and scoring.
type MetricItem struct {
	Value       float64 `json:"value"`
	Unit        string  `json:"unit"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
}

// QuantitativeMetrics holds up to three typed contributions. At least one of
// the three must be populated when the struct exists at all; that is enforced
// at creation time and not re-checked later.
type QuantitativeMetrics struct {
	Financial *MetricItem `json:"financial,omitempty"`
	Quantity  *MetricItem `json:"quantity,omitempty"`
	Time      *MetricItem `json:"time,omitempty"`
}

// Empty reports whether none of the three sub-records is populated.
func (m *QuantitativeMetrics) Empty() bool {
	return m == nil || (m.Financial == nil && m.Quantity == nil && m.Time == nil)
}

// Task is the central entity of the planner.
type Task struct {
	ID          string `gorm:"primaryKey"`
	Title       string
	Description string

	Priority TaskPriority
	Tier     Tier
	Status   TaskStatus `gorm:"default:pending"`

	AssigneeID    string `gorm:"index"`
	Assignee      User   `gorm:"foreignKey:AssigneeID"`
	Collaborators []User `gorm:"many2many:task_collaborators"`

	SymbolID         string
	Deadline         *time.Time
	EstimatedMinutes int // 0 means no estimate

	// Metrics is nil when the task was created without quantitative input.
	Metrics *QuantitativeMetrics `gorm:"serializer:json"`

	// PriorityScore is a derived cache, recomputed on demand; the stored
	// value is never treated as the source of truth.
	PriorityScore int

	CompletedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// HasCollaborators reports whether the task involves anyone beyond the assignee.
func (t *Task) HasCollaborators() bool {
	return len(t.Collaborators) > 0
}
