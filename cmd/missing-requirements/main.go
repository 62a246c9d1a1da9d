// Command missing-requirements reconciles the equipment list against the
// requirements cache and the alias map, and writes the report of items
// that still lack requirement data. Purely local: no network calls.
//
// Invoked with no arguments; configured through environment variables.
package main

import (
	"os"

	"github.com/osrskit/equipment-requirements/pkg/logging"
	"github.com/osrskit/equipment-requirements/pkg/report"
	"github.com/osrskit/equipment-requirements/pkg/store"
)

// exampleLimit caps how many missing items are echoed for quick review.
const exampleLimit = 10

func main() {
	logging.Setup(logging.JobConfig())
	logger := logging.NewLogger("missing-requirements")

	equipmentPath := getEnv("EQUIPMENT_PATH", "data/equipment.json")
	requirementsPath := getEnv("REQUIREMENTS_PATH", "data/equipment-requirements.json")
	aliasesPath := getEnv("ALIASES_PATH", "data/equipment_aliases.json")
	outputPath := getEnv("MISSING_REPORT_PATH", "data/missing-requirements.json")

	equipment, err := store.LoadEquipment(equipmentPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", equipmentPath).Msg("Failed to load equipment list")
	}
	logger.Info().Int("items", len(equipment)).Msg("Loaded equipment list")

	// Strict load: an absent cache means the fetch job never ran, and a
	// report built from it would list every item as missing.
	reqs, err := store.LoadRequirementsStrict(requirementsPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", requirementsPath).Msg("Failed to load requirements cache")
	}
	logger.Info().Int("entries", reqs.Len()).Msg("Loaded requirements")

	aliases, err := store.LoadAliases(aliasesPath)
	if err != nil {
		logger.Fatal().Err(err).Str("path", aliasesPath).Msg("Failed to load alias map")
	}
	logger.Info().Int("aliases", aliases.Len()).Msg("Loaded alias map")

	result := report.Build(equipment, reqs, aliases)

	logger.Info().
		Int("total_equipment", result.TotalEquipment).
		Int("with_requirements", result.TotalWithRequirements).
		Int("missing", result.TotalMissing).
		Msg("Analysis complete")

	for _, slot := range result.Slots() {
		logger.Info().
			Str("slot", slot).
			Int("missing", result.BySlotCounts[slot]).
			Msg("Missing by slot")
	}

	for i, item := range result.Items {
		if i >= exampleLimit {
			break
		}
		event := logger.Info().
			Str("slot", item.Slot).
			Str("name", item.Name).
			Int("id", item.ID)
		if item.AliasedTo != nil {
			event = event.Int("aliased_to", *item.AliasedTo)
		}
		event.Msg("Missing requirements")
	}

	if err := result.Save(outputPath); err != nil {
		logger.Fatal().Err(err).Str("path", outputPath).Msg("Failed to write report")
	}

	logger.Info().Str("output", outputPath).Msg("Report saved")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
