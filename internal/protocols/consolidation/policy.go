package consolidation

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Classifier derives the item type used in the dedup key from an item's tier.
type Classifier interface {
	ItemType(tier Tier) ItemType
}

// TierPolicy is a Classifier backed by a fixed tier -> item type table.
// Tiers missing from the table classify as supplements.
type TierPolicy map[Tier]ItemType

// DefaultPolicy treats immediate items as habits and everything else as supplements.
func DefaultPolicy() TierPolicy {
	return TierPolicy{
		TierImmediate:    ItemTypeHabit,
		TierFoundation:   ItemTypeSupplement,
		TierOptimization: ItemTypeSupplement,
	}
}

func (p TierPolicy) ItemType(tier Tier) ItemType {
	if t, ok := p[tier]; ok {
		return t
	}
	return ItemTypeSupplement
}

type policyFile struct {
	ItemTypes map[string]string `yaml:"item_types"`
}

// LoadPolicy reads a YAML override of the default policy:
//
//	item_types:
//	  immediate: habit
//	  optimization: exercise
//
// Tiers not named in the file keep their default mapping.
func LoadPolicy(path string) (TierPolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read item type policy: %w", err)
	}
	return ParsePolicy(data)
}

// ParsePolicy decodes a YAML policy document.
func ParsePolicy(data []byte) (TierPolicy, error) {
	var raw policyFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode item type policy: %w", err)
	}
	policy := DefaultPolicy()
	for rawTier, rawType := range raw.ItemTypes {
		tier, err := ParseTier(rawTier)
		if err != nil {
			return nil, err
		}
		itemType, err := ParseItemType(rawType)
		if err != nil {
			return nil, err
		}
		policy[tier] = itemType
	}
	return policy, nil
}
