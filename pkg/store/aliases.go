package store

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Aliases maps variant item ids to the base item whose requirements they
// share. Resolution is single hop: chains are not followed.
type Aliases struct {
	byVariant map[int]int
}

// baseID accepts a base item id encoded as a JSON number or string,
// depending on who last edited the alias file.
type baseID int

func (b *baseID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid base id %q", s)
		}
		*b = baseID(n)
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid base id %s", data)
	}
	*b = baseID(n)
	return nil
}

// LoadAliases reads the alias map from path. Keys are string-encoded item ids.
func LoadAliases(path string) (*Aliases, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias map: %w", err)
	}

	var raw map[string]baseID
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode alias map: %w", err)
	}

	byVariant := make(map[int]int, len(raw))
	for variant, base := range raw {
		variantID, err := strconv.Atoi(variant)
		if err != nil {
			return nil, fmt.Errorf("alias map: invalid variant id %q", variant)
		}
		byVariant[variantID] = int(base)
	}

	return &Aliases{byVariant: byVariant}, nil
}

// NewAliases builds an alias map from an existing variant-to-base mapping.
func NewAliases(byVariant map[int]int) *Aliases {
	if byVariant == nil {
		byVariant = make(map[int]int)
	}
	return &Aliases{byVariant: byVariant}
}

// Resolve returns the base id for a variant and whether an alias exists.
func (a *Aliases) Resolve(id int) (int, bool) {
	base, ok := a.byVariant[id]
	return base, ok
}

// Len returns the number of alias entries.
func (a *Aliases) Len() int {
	return len(a.byVariant)
}
