// Package store handles the on-disk JSON artifacts shared by the fetch and
// report jobs: the equipment list, the requirements cache, the alias map,
// and the missing-requirements report.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Equipment is a single entry of the master equipment list.
// The list is a read-only input and the source of truth for item ids.
type Equipment struct {
	// ID is the stable integer item id.
	ID int `json:"id"`

	// Name is the display name of the item.
	Name string `json:"name"`

	// Version distinguishes item variants sharing a name (may be empty).
	Version string `json:"version,omitempty"`

	// Slot is the equipment category the item occupies (head, body, ...).
	Slot string `json:"slot"`

	// Image is the wiki image filename (e.g. "Rune platebody.png").
	Image string `json:"image"`
}

// WikiName derives the wiki page name from the image field by stripping
// the .png suffix.
func (e Equipment) WikiName() string {
	return strings.TrimSuffix(e.Image, ".png")
}

// LoadEquipment reads the equipment list from path.
// A read or decode failure is fatal to the calling job.
func LoadEquipment(path string) ([]Equipment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read equipment list: %w", err)
	}

	var equipment []Equipment
	if err := json.Unmarshal(data, &equipment); err != nil {
		return nil, fmt.Errorf("decode equipment list: %w", err)
	}

	return equipment, nil
}
