package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID when one was not provided by the caller.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Company represents an organization that contacts and deals belong to
type Company struct {
	BaseModel
	Name     string `gorm:"type:varchar(200);not null;index"`
	Industry string `gorm:"type:varchar(100)"`
	Website  string `gorm:"type:varchar(255)"`
	Phone    string `gorm:"type:varchar(50)"`
	Address  string `gorm:"type:varchar(500)"`
	Contacts []Contact `gorm:"foreignKey:CompanyID"`
	Deals    []Deal    `gorm:"foreignKey:CompanyID"`
}

// Contact represents an individual person
type Contact struct {
	BaseModel
	Name      string     `gorm:"type:varchar(200);not null;index"`
	Email     string     `gorm:"type:varchar(255);index"`
	Phone     string     `gorm:"type:varchar(50)"`
	Position  string     `gorm:"type:varchar(100)"`
	CompanyID *uuid.UUID `gorm:"type:uuid;index"`
	Company   *Company   `gorm:"foreignKey:CompanyID"`
	Notes     string     `gorm:"type:text"`
}

// PipelineStage defines one column of the sales pipeline. The set of
// stages is closed: deals may only reference a stage stored here.
type PipelineStage struct {
	BaseModel
	Name      string `gorm:"type:varchar(50);uniqueIndex;not null"`
	Label     string `gorm:"type:varchar(100);not null"`
	Color     string `gorm:"type:varchar(20);not null;default:'#6b7280'"`
	SortOrder int    `gorm:"not null;default:0;column:sort_order"`
}

// CanonicalStageName normalizes a stage name for comparison. Stage
// matching is case-insensitive throughout.
func CanonicalStageName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Deal represents a sales opportunity moving through the pipeline.
// ValueCents is the deal value in minor currency units.
type Deal struct {
	BaseModel
	Title         string     `gorm:"type:varchar(200);not null"`
	CompanyID     *uuid.UUID `gorm:"type:uuid;index"`
	Company       *Company   `gorm:"foreignKey:CompanyID"`
	ContactID     *uuid.UUID `gorm:"type:uuid;index"`
	Contact       *Contact   `gorm:"foreignKey:ContactID"`
	Stage         string     `gorm:"type:varchar(50);not null;index"`
	ValueCents    int64      `gorm:"not null;default:0;column:value_cents"`
	Probability   int        `gorm:"not null;default:0"`
	ExpectedClose *time.Time `gorm:"column:expected_close"`
	LastContact   time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;column:last_contact"`
	Notes         string     `gorm:"type:text"`
}

// DealStageHistory records one stage transition of a deal
type DealStageHistory struct {
	BaseModel
	DealID    uuid.UUID `gorm:"type:uuid;not null;index"`
	FromStage string    `gorm:"type:varchar(50);not null;column:from_stage"`
	ToStage   string    `gorm:"type:varchar(50);not null;column:to_stage"`
	ChangedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;column:changed_at"`
}

// TableName overrides the default pluralization
func (DealStageHistory) TableName() string {
	return "deal_stage_history"
}

// QuoteStatus represents the lifecycle state of a quote
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusPending  QuoteStatus = "pending"
	QuoteStatusApproved QuoteStatus = "approved"
	QuoteStatusRejected QuoteStatus = "rejected"
	QuoteStatusExpired  QuoteStatus = "expired"
)

// IsValid checks if the quote status is a known value
func (s QuoteStatus) IsValid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusPending, QuoteStatusApproved,
		QuoteStatusRejected, QuoteStatusExpired:
		return true
	}
	return false
}

// DefaultTaxRate is applied to new quotes when no rate is given.
const DefaultTaxRate = 0.08

// Quote represents a priced proposal with line items. All money fields
// are minor currency units; TaxRate is a fraction (0.08 = 8%).
type Quote struct {
	BaseModel
	QuoteNumber   string      `gorm:"type:varchar(50);uniqueIndex;not null;column:quote_number"`
	DealID        *uuid.UUID  `gorm:"type:uuid;index"`
	Deal          *Deal       `gorm:"foreignKey:DealID"`
	CustomerName  string      `gorm:"type:varchar(200);not null;column:customer_name"`
	Status        QuoteStatus `gorm:"type:varchar(50);not null;default:'draft';index"`
	ValidUntil    *time.Time  `gorm:"column:valid_until"`
	TaxRate       float64     `gorm:"type:decimal(6,4);not null;default:0.08;column:tax_rate"`
	SubtotalCents int64       `gorm:"not null;default:0;column:subtotal_cents"`
	TaxCents      int64       `gorm:"not null;default:0;column:tax_cents"`
	TotalCents    int64       `gorm:"not null;default:0;column:total_cents"`
	Items         []QuoteItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
}

// QuoteItem is one line of a quote. LineNo is unique within the quote
// and assigned as max(existing)+1 so numbers are never reused downward.
type QuoteItem struct {
	BaseModel
	QuoteID        uuid.UUID `gorm:"type:uuid;not null;index:idx_quote_line,unique"`
	LineNo         int       `gorm:"not null;index:idx_quote_line,unique;column:line_no"`
	Description    string    `gorm:"type:varchar(500)"`
	Quantity       int64     `gorm:"not null;default:1"`
	UnitPriceCents int64     `gorm:"not null;default:0;column:unit_price_cents"`
	TotalCents     int64     `gorm:"not null;default:0;column:total_cents"`
}

// TaskPriority represents the urgency of a task
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// IsValid checks if the task priority is a known value
func (p TaskPriority) IsValid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// TaskStatus represents the completion state of a task
type TaskStatus string

const (
	TaskStatusOpen TaskStatus = "open"
	TaskStatusDone TaskStatus = "done"
)

// Task represents a follow-up item, optionally linked to a deal or contact
type Task struct {
	BaseModel
	Title       string       `gorm:"type:varchar(200);not null"`
	Description string       `gorm:"type:text"`
	DueDate     *time.Time   `gorm:"column:due_date;index"`
	Priority    TaskPriority `gorm:"type:varchar(20);not null;default:'medium'"`
	Status      TaskStatus   `gorm:"type:varchar(20);not null;default:'open';index"`
	DealID      *uuid.UUID   `gorm:"type:uuid;index"`
	ContactID   *uuid.UUID   `gorm:"type:uuid;index"`
	CompletedAt *time.Time   `gorm:"column:completed_at"`
}

// Note is a free-form annotation attached to a deal or contact
type Note struct {
	BaseModel
	Body      string     `gorm:"type:text;not null"`
	Author    string     `gorm:"type:varchar(200)"`
	DealID    *uuid.UUID `gorm:"type:uuid;index"`
	ContactID *uuid.UUID `gorm:"type:uuid;index"`
}

// ActivityType classifies entries in the activity feed
type ActivityType string

const (
	ActivityTypeCreated    ActivityType = "created"
	ActivityTypeUpdated    ActivityType = "updated"
	ActivityTypeDeleted    ActivityType = "deleted"
	ActivityTypeStageMoved ActivityType = "stage_moved"
	ActivityTypeStatus     ActivityType = "status_changed"
)

// Activity records something that happened to an entity
type Activity struct {
	BaseModel
	Type        ActivityType `gorm:"type:varchar(50);not null;index"`
	Description string       `gorm:"type:varchar(500);not null"`
	Actor       string       `gorm:"type:varchar(200);not null;default:'system'"`
	EntityType  string       `gorm:"type:varchar(50);not null;index;column:entity_type"`
	EntityID    uuid.UUID    `gorm:"type:uuid;not null;index;column:entity_id"`
	OccurredAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;column:occurred_at;index"`
}

// TableName overrides the default pluralization
func (Activity) TableName() string {
	return "activities"
}

// NumberSequence backs quote number generation, keyed by kind and year
type NumberSequence struct {
	Kind         string    `gorm:"type:varchar(50);primaryKey"`
	Year         int       `gorm:"primaryKey"`
	LastSequence int       `gorm:"not null;default:0;column:last_sequence"`
	CreatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}
