package catalog

import (
	"cmp"
	"fmt"
	"slices"

	"garden-care-backend/internal/model"
)

// Validate checks that a crop's stage rules form a contiguous, ordered life
// cycle: at least one rule, known stage tags in biological order, unique
// sequences and positive durations.
func Validate(crop *model.Crop) error {
	if crop.Name == "" {
		return fmt.Errorf("crop without a name: %w", model.ErrValidation)
	}
	if len(crop.Stages) == 0 {
		return fmt.Errorf("crop %q has no growth stages: %w", crop.Name, model.ErrValidation)
	}

	seen := make(map[int]bool, len(crop.Stages))
	lastOrder := -1
	for _, rule := range sortedBySequence(crop.Stages) {
		if seen[rule.Sequence] {
			return fmt.Errorf("crop %q: duplicate stage sequence %d: %w", crop.Name, rule.Sequence, model.ErrValidation)
		}
		seen[rule.Sequence] = true

		if !rule.Stage.Valid() {
			return fmt.Errorf("crop %q: unknown stage %q: %w", crop.Name, rule.Stage, model.ErrValidation)
		}
		if rule.StageDays <= 0 {
			return fmt.Errorf("crop %q: stage %s must last at least one day: %w", crop.Name, rule.Stage, model.ErrValidation)
		}
		if rule.Stage.Order() <= lastOrder {
			return fmt.Errorf("crop %q: stage %s is out of order: %w", crop.Name, rule.Stage, model.ErrValidation)
		}
		lastOrder = rule.Stage.Order()
	}

	if b := crop.Requirements(); !b.Empty() {
		for _, m := range model.Metrics {
			if band := b.BandFor(m); band != nil && band.Min > band.Max {
				return fmt.Errorf("crop %q: %s band has min above max: %w", crop.Name, m, model.ErrValidation)
			}
		}
	}
	return nil
}

func sortedBySequence(rules []model.GrowthStageRule) []model.GrowthStageRule {
	out := slices.Clone(rules)
	slices.SortStableFunc(out, func(a, b model.GrowthStageRule) int {
		return cmp.Compare(a.Sequence, b.Sequence)
	})
	return out
}
