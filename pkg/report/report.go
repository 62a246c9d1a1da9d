// Package report builds the missing-requirements report by reconciling
// the equipment list against the requirements cache and the alias map.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/osrskit/equipment-requirements/pkg/store"
)

// MissingItem is one equipment item lacking requirement data, directly
// and through its alias.
type MissingItem struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	WikiName string `json:"wiki_name"`
	Version  string `json:"version"`
	Slot     string `json:"slot"`

	// AliasedTo is the base item id when an alias exists for this item.
	// Present even though the base item also lacks data; it gives the
	// reviewer the place to look first.
	AliasedTo *int `json:"aliased_to,omitempty"`
}

// Report is the regenerated missing-requirements report.
type Report struct {
	TotalEquipment        int            `json:"total_equipment"`
	TotalWithRequirements int            `json:"total_with_requirements"`
	TotalMissing          int            `json:"total_missing"`
	BySlotCounts          map[string]int `json:"by_slot_counts"`
	Items                 []MissingItem  `json:"items"`
}

// Build reconciles the inputs into a report. Inputs are not mutated, and
// identical inputs always produce an identical report.
//
// An item is missing when its id is not cached and, if an alias exists,
// the base id is not cached either. Alias resolution is single hop: a
// chain of aliases is not followed.
func Build(equipment []store.Equipment, reqs *store.Requirements, aliases *store.Aliases) *Report {
	report := &Report{
		TotalEquipment:        len(equipment),
		TotalWithRequirements: reqs.Len(),
		BySlotCounts:          make(map[string]int),
		Items:                 make([]MissingItem, 0),
	}

	for _, item := range equipment {
		if reqs.Has(item.ID) {
			continue
		}

		baseID, aliased := aliases.Resolve(item.ID)
		if aliased && reqs.Has(baseID) {
			continue
		}

		slot := item.Slot
		if slot == "" {
			slot = "unknown"
		}

		missing := MissingItem{
			ID:       item.ID,
			Name:     item.Name,
			WikiName: item.WikiName(),
			Version:  item.Version,
			Slot:     slot,
		}
		if aliased {
			base := baseID
			missing.AliasedTo = &base
		}

		report.Items = append(report.Items, missing)
		report.BySlotCounts[slot]++
	}

	sort.SliceStable(report.Items, func(i, j int) bool {
		if report.Items[i].Slot != report.Items[j].Slot {
			return report.Items[i].Slot < report.Items[j].Slot
		}
		return report.Items[i].Name < report.Items[j].Name
	})

	report.TotalMissing = len(report.Items)

	return report
}

// Save writes the report to path, pretty-printed.
func (r *Report) Save(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode missing report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write missing report: %w", err)
	}

	return nil
}

// Slots returns the slot names with missing items, sorted.
func (r *Report) Slots() []string {
	slots := make([]string, 0, len(r.BySlotCounts))
	for slot := range r.BySlotCounts {
		slots = append(slots, slot)
	}
	sort.Strings(slots)
	return slots
}
