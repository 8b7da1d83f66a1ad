package pipeline

import (
	"testing"

	"github.com/flowcrm/crm-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func makeDeal(title, stage string, valueCents int64) domain.Deal {
	return domain.Deal{Title: title, Stage: stage, ValueCents: valueCents}
}

func TestDealsInStage(t *testing.T) {
	deals := []domain.Deal{
		makeDeal("A", "lead", 100_00),
		makeDeal("B", "qualified", 250_00),
		makeDeal("C", "lead", 50_00),
		makeDeal("D", "won", 999_00),
	}

	t.Run("returns only matching deals in input order", func(t *testing.T) {
		got := DealsInStage(deals, "lead")
		assert.Len(t, got, 2)
		assert.Equal(t, "A", got[0].Title)
		assert.Equal(t, "C", got[1].Title)
	})

	t.Run("matches case-insensitively", func(t *testing.T) {
		got := DealsInStage(deals, "LEAD")
		assert.Len(t, got, 2)
	})

	t.Run("unknown stage yields empty slice", func(t *testing.T) {
		got := DealsInStage(deals, "negotiation")
		assert.Empty(t, got)
	})
}

func TestStageTotal(t *testing.T) {
	deals := []domain.Deal{
		makeDeal("A", "lead", 100_00),
		makeDeal("B", "qualified", 250_00),
		makeDeal("C", "lead", 50_00),
	}

	t.Run("sums exactly the matching deals", func(t *testing.T) {
		assert.Equal(t, int64(150_00), StageTotal(deals, "lead"))
		assert.Equal(t, int64(250_00), StageTotal(deals, "qualified"))
	})

	t.Run("empty stage totals zero", func(t *testing.T) {
		assert.Equal(t, int64(0), StageTotal(deals, "won"))
		assert.Equal(t, int64(0), StageTotal(nil, "lead"))
	})
}

func TestBoard(t *testing.T) {
	stages := []domain.PipelineStage{
		{Name: "qualified", Label: "Qualified", SortOrder: 2},
		{Name: "lead", Label: "Lead", SortOrder: 1},
		{Name: "won", Label: "Won", SortOrder: 3},
	}
	deals := []domain.Deal{
		makeDeal("A", "lead", 100_00),
		makeDeal("B", "Qualified", 250_00),
		makeDeal("C", "lead", 50_00),
	}

	columns := Board(stages, deals)

	t.Run("columns follow stage sort order", func(t *testing.T) {
		assert.Len(t, columns, 3)
		assert.Equal(t, "lead", columns[0].Stage.Name)
		assert.Equal(t, "qualified", columns[1].Stage.Name)
		assert.Equal(t, "won", columns[2].Stage.Name)
	})

	t.Run("each column carries its deals and total", func(t *testing.T) {
		assert.Len(t, columns[0].Deals, 2)
		assert.Equal(t, int64(150_00), columns[0].TotalCents)
		assert.Len(t, columns[1].Deals, 1)
		assert.Equal(t, int64(250_00), columns[1].TotalCents)
		assert.Empty(t, columns[2].Deals)
		assert.Equal(t, int64(0), columns[2].TotalCents)
	})

	t.Run("does not mutate the input stage slice", func(t *testing.T) {
		assert.Equal(t, "qualified", stages[0].Name)
	})
}
