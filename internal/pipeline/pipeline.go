// Package pipeline holds the pure aggregation logic for the deal
// pipeline board. Functions here operate on in-memory slices and never
// touch storage, so services and tests can share the exact same math.
package pipeline

import (
	"sort"

	"github.com/flowcrm/crm-api/internal/domain"
)

// DealsInStage returns the deals whose stage matches stageName,
// case-insensitively, preserving the input order. An unknown stage name
// yields an empty slice.
func DealsInStage(deals []domain.Deal, stageName string) []domain.Deal {
	want := domain.CanonicalStageName(stageName)
	matched := make([]domain.Deal, 0)
	for _, d := range deals {
		if domain.CanonicalStageName(d.Stage) == want {
			matched = append(matched, d)
		}
	}
	return matched
}

// StageTotal sums the value of all deals in the given stage. A stage
// with no deals totals zero.
func StageTotal(deals []domain.Deal, stageName string) int64 {
	var total int64
	want := domain.CanonicalStageName(stageName)
	for _, d := range deals {
		if domain.CanonicalStageName(d.Stage) == want {
			total += d.ValueCents
		}
	}
	return total
}

// Column is one stage of the board with its deals and aggregates.
type Column struct {
	Stage      domain.PipelineStage
	Deals      []domain.Deal
	TotalCents int64
}

// Board partitions deals into columns, one per configured stage, sorted
// by stage sort order. Deals referencing a stage that is not configured
// are dropped from the board; the closed stage set makes that a data
// error, not a display concern.
func Board(stages []domain.PipelineStage, deals []domain.Deal) []Column {
	ordered := make([]domain.PipelineStage, len(stages))
	copy(ordered, stages)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SortOrder < ordered[j].SortOrder
	})

	columns := make([]Column, len(ordered))
	for i, stage := range ordered {
		matched := DealsInStage(deals, stage.Name)
		columns[i] = Column{
			Stage:      stage,
			Deals:      matched,
			TotalCents: StageTotal(matched, stage.Name),
		}
	}
	return columns
}
