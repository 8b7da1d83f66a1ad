package domain

import "github.com/google/uuid"

// PaginatedResponse wraps list responses with paging metadata
type PaginatedResponse struct {
	Items      interface{} `json:"items"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// CompanyDTO is the API representation of a company
type CompanyDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Industry  string    `json:"industry,omitempty"`
	Website   string    `json:"website,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

// CreateCompanyRequest is the payload for creating a company
type CreateCompanyRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Industry string `json:"industry" validate:"omitempty,max=100"`
	Website  string `json:"website" validate:"omitempty,url,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=50"`
	Address  string `json:"address" validate:"omitempty,max=500"`
}

// UpdateCompanyRequest is the payload for updating a company
type UpdateCompanyRequest struct {
	Name     string `json:"name" validate:"required,max=200"`
	Industry string `json:"industry" validate:"omitempty,max=100"`
	Website  string `json:"website" validate:"omitempty,url,max=255"`
	Phone    string `json:"phone" validate:"omitempty,max=50"`
	Address  string `json:"address" validate:"omitempty,max=500"`
}

// ContactDTO is the API representation of a contact
type ContactDTO struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	Position    string     `json:"position,omitempty"`
	CompanyID   *uuid.UUID `json:"companyId,omitempty"`
	CompanyName string     `json:"companyName,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   string     `json:"createdAt"`
	UpdatedAt   string     `json:"updatedAt"`
}

// CreateContactRequest is the payload for creating a contact
type CreateContactRequest struct {
	Name      string     `json:"name" validate:"required,max=200"`
	Email     string     `json:"email" validate:"omitempty,email,max=255"`
	Phone     string     `json:"phone" validate:"omitempty,max=50"`
	Position  string     `json:"position" validate:"omitempty,max=100"`
	CompanyID *uuid.UUID `json:"companyId" validate:"omitempty"`
	Notes     string     `json:"notes"`
}

// UpdateContactRequest is the payload for updating a contact
type UpdateContactRequest struct {
	Name      string     `json:"name" validate:"required,max=200"`
	Email     string     `json:"email" validate:"omitempty,email,max=255"`
	Phone     string     `json:"phone" validate:"omitempty,max=50"`
	Position  string     `json:"position" validate:"omitempty,max=100"`
	CompanyID *uuid.UUID `json:"companyId" validate:"omitempty"`
	Notes     string     `json:"notes"`
}

// StageDTO is the API representation of a pipeline stage
type StageDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Label     string    `json:"label"`
	Color     string    `json:"color"`
	SortOrder int       `json:"sortOrder"`
}

// CreateStageRequest is the payload for adding a pipeline stage
type CreateStageRequest struct {
	Name      string `json:"name" validate:"required,max=50"`
	Label     string `json:"label" validate:"required,max=100"`
	Color     string `json:"color" validate:"omitempty,max=20"`
	SortOrder int    `json:"sortOrder" validate:"gte=0"`
}

// UpdateStageRequest is the payload for updating a pipeline stage
type UpdateStageRequest struct {
	Label     string `json:"label" validate:"required,max=100"`
	Color     string `json:"color" validate:"omitempty,max=20"`
	SortOrder int    `json:"sortOrder" validate:"gte=0"`
}

// DealDTO is the API representation of a deal
type DealDTO struct {
	ID            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	CompanyID     *uuid.UUID `json:"companyId,omitempty"`
	CompanyName   string     `json:"companyName,omitempty"`
	ContactID     *uuid.UUID `json:"contactId,omitempty"`
	ContactName   string     `json:"contactName,omitempty"`
	Stage         string     `json:"stage"`
	ValueCents    int64      `json:"valueCents"`
	Probability   int        `json:"probability"`
	ExpectedClose string     `json:"expectedClose,omitempty"`
	LastContact   string     `json:"lastContact"`
	Notes         string     `json:"notes,omitempty"`
	CreatedAt     string     `json:"createdAt"`
	UpdatedAt     string     `json:"updatedAt"`
}

// CreateDealRequest is the payload for creating a deal
type CreateDealRequest struct {
	Title         string     `json:"title" validate:"required,max=200"`
	CompanyID     *uuid.UUID `json:"companyId" validate:"omitempty"`
	ContactID     *uuid.UUID `json:"contactId" validate:"omitempty"`
	Stage         string     `json:"stage" validate:"required,max=50"`
	ValueCents    int64      `json:"valueCents" validate:"gte=0"`
	Probability   int        `json:"probability" validate:"gte=0,lte=100"`
	ExpectedClose string     `json:"expectedClose" validate:"omitempty,datetime=2006-01-02"`
	Notes         string     `json:"notes"`
}

// UpdateDealRequest is the payload for updating a deal
type UpdateDealRequest struct {
	Title         string     `json:"title" validate:"required,max=200"`
	CompanyID     *uuid.UUID `json:"companyId" validate:"omitempty"`
	ContactID     *uuid.UUID `json:"contactId" validate:"omitempty"`
	ValueCents    int64      `json:"valueCents" validate:"gte=0"`
	Probability   int        `json:"probability" validate:"gte=0,lte=100"`
	ExpectedClose string     `json:"expectedClose" validate:"omitempty,datetime=2006-01-02"`
	Notes         string     `json:"notes"`
}

// MoveStageRequest is the payload for moving a deal to another stage
type MoveStageRequest struct {
	Stage string `json:"stage" validate:"required,max=50"`
}

// StageHistoryDTO is one recorded stage transition of a deal
type StageHistoryDTO struct {
	ID        uuid.UUID `json:"id"`
	DealID    uuid.UUID `json:"dealId"`
	FromStage string    `json:"fromStage"`
	ToStage   string    `json:"toStage"`
	ChangedAt string    `json:"changedAt"`
}

// PipelineColumnDTO is one stage of the pipeline board with its deals
type PipelineColumnDTO struct {
	Stage      StageDTO  `json:"stage"`
	Deals      []DealDTO `json:"deals"`
	DealCount  int       `json:"dealCount"`
	TotalCents int64     `json:"totalCents"`
}

// PipelineBoardDTO is the full pipeline board, one column per stage
type PipelineBoardDTO struct {
	Columns    []PipelineColumnDTO `json:"columns"`
	DealCount  int                 `json:"dealCount"`
	TotalCents int64               `json:"totalCents"`
}

// QuoteItemDTO is the API representation of a quote line item
type QuoteItemDTO struct {
	LineNo         int    `json:"lineNo"`
	Description    string `json:"description"`
	Quantity       int64  `json:"quantity"`
	UnitPriceCents int64  `json:"unitPriceCents"`
	TotalCents     int64  `json:"totalCents"`
}

// QuoteDTO is the API representation of a quote
type QuoteDTO struct {
	ID            uuid.UUID      `json:"id"`
	QuoteNumber   string         `json:"quoteNumber"`
	DealID        *uuid.UUID     `json:"dealId,omitempty"`
	CustomerName  string         `json:"customerName"`
	Status        QuoteStatus    `json:"status"`
	ValidUntil    string         `json:"validUntil,omitempty"`
	TaxRate       float64        `json:"taxRate"`
	SubtotalCents int64          `json:"subtotalCents"`
	TaxCents      int64          `json:"taxCents"`
	TotalCents    int64          `json:"totalCents"`
	Items         []QuoteItemDTO `json:"items"`
	CreatedAt     string         `json:"createdAt"`
	UpdatedAt     string         `json:"updatedAt"`
}

// CreateQuoteRequest is the payload for creating a quote
type CreateQuoteRequest struct {
	CustomerName string     `json:"customerName" validate:"required,max=200"`
	DealID       *uuid.UUID `json:"dealId" validate:"omitempty"`
	TaxRate      *float64   `json:"taxRate" validate:"omitempty,gte=0,lte=1"`
	ValidUntil   string     `json:"validUntil" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateQuoteRequest is the payload for updating quote header fields.
// Omitted fields are left unchanged.
type UpdateQuoteRequest struct {
	CustomerName *string      `json:"customerName" validate:"omitempty,max=200"`
	Status       *QuoteStatus `json:"status" validate:"omitempty"`
	TaxRate      *float64     `json:"taxRate" validate:"omitempty,gte=0,lte=1"`
	ValidUntil   *string      `json:"validUntil" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateQuoteItemRequest carries line item edits. Quantity and UnitPrice
// arrive as strings and coerce to zero when not numeric, so a stray
// keystroke never produces an error or a poisoned total.
type UpdateQuoteItemRequest struct {
	Description *string `json:"description" validate:"omitempty,max=500"`
	Quantity    *string `json:"quantity"`
	UnitPrice   *string `json:"unitPrice"`
}

// TaskDTO is the API representation of a task
type TaskDTO struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	DueDate     string       `json:"dueDate,omitempty"`
	Priority    TaskPriority `json:"priority"`
	Status      TaskStatus   `json:"status"`
	DealID      *uuid.UUID   `json:"dealId,omitempty"`
	ContactID   *uuid.UUID   `json:"contactId,omitempty"`
	CompletedAt string       `json:"completedAt,omitempty"`
	CreatedAt   string       `json:"createdAt"`
	UpdatedAt   string       `json:"updatedAt"`
}

// CreateTaskRequest is the payload for creating a task
type CreateTaskRequest struct {
	Title       string       `json:"title" validate:"required,max=200"`
	Description string       `json:"description"`
	DueDate     string       `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Priority    TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
	DealID      *uuid.UUID   `json:"dealId" validate:"omitempty"`
	ContactID   *uuid.UUID   `json:"contactId" validate:"omitempty"`
}

// UpdateTaskRequest is the payload for updating a task
type UpdateTaskRequest struct {
	Title       string       `json:"title" validate:"required,max=200"`
	Description string       `json:"description"`
	DueDate     string       `json:"dueDate" validate:"omitempty,datetime=2006-01-02"`
	Priority    TaskPriority `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// NoteDTO is the API representation of a note
type NoteDTO struct {
	ID        uuid.UUID  `json:"id"`
	Body      string     `json:"body"`
	Author    string     `json:"author,omitempty"`
	DealID    *uuid.UUID `json:"dealId,omitempty"`
	ContactID *uuid.UUID `json:"contactId,omitempty"`
	CreatedAt string     `json:"createdAt"`
	UpdatedAt string     `json:"updatedAt"`
}

// CreateNoteRequest is the payload for creating a note
type CreateNoteRequest struct {
	Body      string     `json:"body" validate:"required"`
	Author    string     `json:"author" validate:"omitempty,max=200"`
	DealID    *uuid.UUID `json:"dealId" validate:"omitempty"`
	ContactID *uuid.UUID `json:"contactId" validate:"omitempty"`
}

// UpdateNoteRequest is the payload for updating a note
type UpdateNoteRequest struct {
	Body string `json:"body" validate:"required"`
}

// ActivityDTO is one entry of the activity feed
type ActivityDTO struct {
	ID          uuid.UUID    `json:"id"`
	Type        ActivityType `json:"type"`
	Description string       `json:"description"`
	Actor       string       `json:"actor"`
	EntityType  string       `json:"entityType"`
	EntityID    uuid.UUID    `json:"entityId"`
	OccurredAt  string       `json:"occurredAt"`
}

// StageCountDTO is a per-stage deal count for the dashboard
type StageCountDTO struct {
	Stage string `json:"stage"`
	Count int64  `json:"count"`
}

// DashboardDTO aggregates headline metrics
type DashboardDTO struct {
	OpenDealCount      int64           `json:"openDealCount"`
	OpenDealValueCents int64           `json:"openDealValueCents"`
	WonValueCentsQTD   int64           `json:"wonValueCentsQtd"`
	DealsByStage       []StageCountDTO `json:"dealsByStage"`
	OverdueTaskCount   int64           `json:"overdueTaskCount"`
	PendingQuoteCount  int64           `json:"pendingQuoteCount"`
	ContactCount       int64           `json:"contactCount"`
	CompanyCount       int64           `json:"companyCount"`
}
