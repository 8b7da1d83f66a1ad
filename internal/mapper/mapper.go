package mapper

import (
	"time"

	"github.com/flowcrm/crm-api/internal/domain"
)

const timestampLayout = "2006-01-02T15:04:05Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// ToCompanyDTO converts Company to CompanyDTO
func ToCompanyDTO(company *domain.Company) domain.CompanyDTO {
	return domain.CompanyDTO{
		ID:        company.ID,
		Name:      company.Name,
		Industry:  company.Industry,
		Website:   company.Website,
		Phone:     company.Phone,
		Address:   company.Address,
		CreatedAt: formatTime(company.CreatedAt),
		UpdatedAt: formatTime(company.UpdatedAt),
	}
}

// ToContactDTO converts Contact to ContactDTO
func ToContactDTO(contact *domain.Contact) domain.ContactDTO {
	dto := domain.ContactDTO{
		ID:        contact.ID,
		Name:      contact.Name,
		Email:     contact.Email,
		Phone:     contact.Phone,
		Position:  contact.Position,
		CompanyID: contact.CompanyID,
		Notes:     contact.Notes,
		CreatedAt: formatTime(contact.CreatedAt),
		UpdatedAt: formatTime(contact.UpdatedAt),
	}
	if contact.Company != nil {
		dto.CompanyName = contact.Company.Name
	}
	return dto
}

// ToStageDTO converts PipelineStage to StageDTO
func ToStageDTO(stage *domain.PipelineStage) domain.StageDTO {
	return domain.StageDTO{
		ID:        stage.ID,
		Name:      stage.Name,
		Label:     stage.Label,
		Color:     stage.Color,
		SortOrder: stage.SortOrder,
	}
}

// ToDealDTO converts Deal to DealDTO
func ToDealDTO(deal *domain.Deal) domain.DealDTO {
	dto := domain.DealDTO{
		ID:          deal.ID,
		Title:       deal.Title,
		CompanyID:   deal.CompanyID,
		ContactID:   deal.ContactID,
		Stage:       deal.Stage,
		ValueCents:  deal.ValueCents,
		Probability: deal.Probability,
		LastContact: formatTime(deal.LastContact),
		Notes:       deal.Notes,
		CreatedAt:   formatTime(deal.CreatedAt),
		UpdatedAt:   formatTime(deal.UpdatedAt),
	}
	if deal.ExpectedClose != nil {
		dto.ExpectedClose = formatTime(*deal.ExpectedClose)
	}
	if deal.Company != nil {
		dto.CompanyName = deal.Company.Name
	}
	if deal.Contact != nil {
		dto.ContactName = deal.Contact.Name
	}
	return dto
}

// ToStageHistoryDTO converts DealStageHistory to StageHistoryDTO
func ToStageHistoryDTO(entry *domain.DealStageHistory) domain.StageHistoryDTO {
	return domain.StageHistoryDTO{
		ID:        entry.ID,
		DealID:    entry.DealID,
		FromStage: entry.FromStage,
		ToStage:   entry.ToStage,
		ChangedAt: formatTime(entry.ChangedAt),
	}
}

// ToQuoteItemDTO converts QuoteItem to QuoteItemDTO
func ToQuoteItemDTO(item *domain.QuoteItem) domain.QuoteItemDTO {
	return domain.QuoteItemDTO{
		LineNo:         item.LineNo,
		Description:    item.Description,
		Quantity:       item.Quantity,
		UnitPriceCents: item.UnitPriceCents,
		TotalCents:     item.TotalCents,
	}
}

// ToQuoteDTO converts Quote to QuoteDTO
func ToQuoteDTO(quote *domain.Quote) domain.QuoteDTO {
	items := make([]domain.QuoteItemDTO, len(quote.Items))
	for i, item := range quote.Items {
		items[i] = ToQuoteItemDTO(&item)
	}

	dto := domain.QuoteDTO{
		ID:            quote.ID,
		QuoteNumber:   quote.QuoteNumber,
		DealID:        quote.DealID,
		CustomerName:  quote.CustomerName,
		Status:        quote.Status,
		TaxRate:       quote.TaxRate,
		SubtotalCents: quote.SubtotalCents,
		TaxCents:      quote.TaxCents,
		TotalCents:    quote.TotalCents,
		Items:         items,
		CreatedAt:     formatTime(quote.CreatedAt),
		UpdatedAt:     formatTime(quote.UpdatedAt),
	}
	if quote.ValidUntil != nil {
		dto.ValidUntil = formatTime(*quote.ValidUntil)
	}
	return dto
}

// ToTaskDTO converts Task to TaskDTO
func ToTaskDTO(task *domain.Task) domain.TaskDTO {
	dto := domain.TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Status:      task.Status,
		DealID:      task.DealID,
		ContactID:   task.ContactID,
		CreatedAt:   formatTime(task.CreatedAt),
		UpdatedAt:   formatTime(task.UpdatedAt),
	}
	if task.DueDate != nil {
		dto.DueDate = formatTime(*task.DueDate)
	}
	if task.CompletedAt != nil {
		dto.CompletedAt = formatTime(*task.CompletedAt)
	}
	return dto
}

// ToNoteDTO converts Note to NoteDTO
func ToNoteDTO(note *domain.Note) domain.NoteDTO {
	return domain.NoteDTO{
		ID:        note.ID,
		Body:      note.Body,
		Author:    note.Author,
		DealID:    note.DealID,
		ContactID: note.ContactID,
		CreatedAt: formatTime(note.CreatedAt),
		UpdatedAt: formatTime(note.UpdatedAt),
	}
}

// ToActivityDTO converts Activity to ActivityDTO
func ToActivityDTO(activity *domain.Activity) domain.ActivityDTO {
	return domain.ActivityDTO{
		ID:          activity.ID,
		Type:        activity.Type,
		Description: activity.Description,
		Actor:       activity.Actor,
		EntityType:  activity.EntityType,
		EntityID:    activity.EntityID,
		OccurredAt:  formatTime(activity.OccurredAt),
	}
}
