package store

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadEquipment(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "equipment.json", `[
		{"id": 1163, "name": "Rune full helm", "slot": "head", "image": "Rune full helm.png"},
		{"id": 11802, "name": "Armadyl godsword", "version": "Normal", "slot": "weapon", "image": "Armadyl godsword.png"}
	]`)

	equipment, err := LoadEquipment(path)
	if err != nil {
		t.Fatalf("LoadEquipment() error = %v", err)
	}

	if len(equipment) != 2 {
		t.Fatalf("len(equipment) = %d, want 2", len(equipment))
	}
	if equipment[0].ID != 1163 || equipment[0].Slot != "head" {
		t.Errorf("equipment[0] = %+v, want id 1163 slot head", equipment[0])
	}
	if equipment[1].Version != "Normal" {
		t.Errorf("equipment[1].Version = %q, want Normal", equipment[1].Version)
	}
}

func TestLoadEquipment_Missing(t *testing.T) {
	if _, err := LoadEquipment(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("LoadEquipment() on missing file should return error")
	}
}

func TestLoadEquipment_Malformed(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "equipment.json", `{"not": "an array"}`)

	if _, err := LoadEquipment(path); err == nil {
		t.Error("LoadEquipment() on malformed file should return error")
	}
}

func TestEquipment_WikiName(t *testing.T) {
	tests := []struct {
		name  string
		image string
		want  string
	}{
		{
			name:  "png suffix stripped",
			image: "Rune full helm.png",
			want:  "Rune full helm",
		},
		{
			name:  "variant image",
			image: "Black mask (10).png",
			want:  "Black mask (10)",
		},
		{
			name:  "no suffix",
			image: "Strange artefact",
			want:  "Strange artefact",
		},
		{
			name:  "empty image",
			image: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := Equipment{Image: tt.image}
			if got := item.WikiName(); got != tt.want {
				t.Errorf("WikiName() = %q, want %q", got, tt.want)
			}
		})
	}
}
