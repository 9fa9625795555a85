package consolidation

import (
	"fmt"
	"sort"
)

// Consolidator merges recommendation batches into a single deduplicated protocol.
// The zero value uses DefaultPolicy and NormalizeItemName.
type Consolidator struct {
	Classifier Classifier
	Normalize  func(name string) string
}

type itemKey struct {
	name     string
	itemType ItemType
}

type sourceKey struct {
	sourceType   string
	assessmentID string
}

// Consolidate merges batches with the default policy.
func Consolidate(batches []Batch) (Protocol, error) {
	return Consolidator{}.Consolidate(batches)
}

// Consolidate processes batches oldest first. The earliest batch to mention an item fixes its fields;
// later batches only add provenance. Items land in the output list named by their own category.
func (c Consolidator) Consolidate(batches []Batch) (Protocol, error) {
	classifier := c.Classifier
	if classifier == nil {
		classifier = DefaultPolicy()
	}
	normalize := c.Normalize
	if normalize == nil {
		normalize = NormalizeItemName
	}

	sorted := append([]Batch(nil), batches...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	merged := make(map[itemKey]*Item)
	order := make([]itemKey, 0)
	seenSources := make(map[itemKey]map[sourceKey]bool)

	for _, batch := range sorted {
		source := sourceFor(batch)
		sk := sourceKey{sourceType: source.SourceType, assessmentID: source.SourceAssessmentID}

		for _, tier := range Tiers() {
			for _, input := range batch.Items.List(tier) {
				category, err := resolveCategory(input.Category, tier)
				if err != nil {
					return Protocol{}, fmt.Errorf("batch %s item %q: %w", batch.ID, input.Name, err)
				}
				itemType := classifier.ItemType(category)
				key := itemKey{name: normalize(input.Name), itemType: itemType}

				if existing, ok := merged[key]; ok {
					if !seenSources[key][sk] {
						seenSources[key][sk] = true
						existing.Sources = append(existing.Sources, source)
					}
					continue
				}

				item := Item{
					ItemInput: copyInput(input),
					ItemType:  itemType,
					Sources:   []Source{source},
				}
				item.Category = category
				merged[key] = &item
				seenSources[key] = map[sourceKey]bool{sk: true}
				order = append(order, key)
			}
		}
	}

	out := NewProtocol()
	for _, key := range order {
		item := *merged[key]
		switch item.Category {
		case TierImmediate:
			out.Immediate = append(out.Immediate, item)
		case TierFoundation:
			out.Foundation = append(out.Foundation, item)
		case TierOptimization:
			out.Optimization = append(out.Optimization, item)
		}
	}
	return out, nil
}

func sourceFor(batch Batch) Source {
	assessmentID := batch.SourceAssessmentID
	if assessmentID == "" {
		assessmentID = batch.ID
	}
	return Source{
		SourceType:         batch.SourceType,
		SourceAssessmentID: assessmentID,
		SourceDate:         batch.CreatedAt,
	}
}

// resolveCategory fills a blank category from the list the item was found in.
func resolveCategory(category Tier, listTier Tier) (Tier, error) {
	if category == "" {
		return listTier, nil
	}
	return ParseTier(string(category))
}

func copyInput(in ItemInput) ItemInput {
	out := in
	out.ProductKeywords = cloneStrings(in.ProductKeywords)
	out.LISPillarContribution = cloneStrings(in.LISPillarContribution)
	if in.ImpactWeight != nil {
		w := *in.ImpactWeight
		out.ImpactWeight = &w
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
