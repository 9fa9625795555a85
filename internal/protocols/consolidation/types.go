package consolidation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownTier     = errors.New("unknown protocol tier")
	ErrUnknownItemType = errors.New("unknown item type")
	ErrMalformedItems  = errors.New("malformed batch items")
)

// Tier is the priority bucket a protocol item belongs to.
type Tier string

const (
	TierImmediate    Tier = "immediate"
	TierFoundation   Tier = "foundation"
	TierOptimization Tier = "optimization"
)

// Tiers returns every tier in output order.
func Tiers() []Tier {
	return []Tier{TierImmediate, TierFoundation, TierOptimization}
}

// ParseTier validates a raw category value.
func ParseTier(raw string) (Tier, error) {
	switch Tier(raw) {
	case TierImmediate, TierFoundation, TierOptimization:
		return Tier(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, raw)
	}
}

// ItemType classifies what kind of action an item asks of the user.
type ItemType string

const (
	ItemTypeHabit      ItemType = "habit"
	ItemTypeSupplement ItemType = "supplement"
	ItemTypeExercise   ItemType = "exercise"
	ItemTypeDiet       ItemType = "diet"
	ItemTypeTherapy    ItemType = "therapy"
)

// ParseItemType validates a raw item type value.
func ParseItemType(raw string) (ItemType, error) {
	switch ItemType(raw) {
	case ItemTypeHabit, ItemTypeSupplement, ItemTypeExercise, ItemTypeDiet, ItemTypeTherapy:
		return ItemType(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownItemType, raw)
	}
}

// ItemInput is a single recommendation as produced by an assessment.
type ItemInput struct {
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	Category              Tier     `json:"category"`
	Relevance             string   `json:"relevance,omitempty"`
	ProductKeywords       []string `json:"productKeywords,omitempty"`
	PriorityTier          string   `json:"priority_tier,omitempty"`
	ImpactWeight          *float64 `json:"impact_weight,omitempty"`
	LISPillarContribution []string `json:"lis_pillar_contribution,omitempty"`
}

// Items holds the three ordered tier lists of a batch.
type Items struct {
	Immediate    []ItemInput `json:"immediate"`
	Foundation   []ItemInput `json:"foundation"`
	Optimization []ItemInput `json:"optimization"`
}

// List returns the items recorded under tier.
func (i Items) List(tier Tier) []ItemInput {
	switch tier {
	case TierImmediate:
		return i.Immediate
	case TierFoundation:
		return i.Foundation
	case TierOptimization:
		return i.Optimization
	default:
		return nil
	}
}

// Len reports the total number of items across tiers.
func (i Items) Len() int {
	return len(i.Immediate) + len(i.Foundation) + len(i.Optimization)
}

// UnmarshalJSON accepts only the three tier keys. Missing keys decode as empty lists.
func (i *Items) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*i = Items{}
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedItems, err)
	}
	var out Items
	for key, value := range raw {
		var list []ItemInput
		if err := json.Unmarshal(value, &list); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedItems, key, err)
		}
		switch Tier(key) {
		case TierImmediate:
			out.Immediate = list
		case TierFoundation:
			out.Foundation = list
		case TierOptimization:
			out.Optimization = list
		default:
			return fmt.Errorf("%w: unexpected key %q", ErrMalformedItems, key)
		}
	}
	*i = out
	return nil
}

// Batch is one timestamped set of recommendations from a single assessment completion.
type Batch struct {
	ID                 string    `json:"id"`
	SourceType         string    `json:"sourceType"`
	SourceAssessmentID string    `json:"sourceAssessmentId,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	Items              Items     `json:"items"`
}

// Source records which assessment contributed a consolidated item.
type Source struct {
	SourceType         string    `json:"sourceType"`
	SourceAssessmentID string    `json:"sourceAssessmentId"`
	SourceDate         time.Time `json:"sourceDate"`
}

// Item is a deduplicated protocol entry with its provenance.
type Item struct {
	ItemInput
	ItemType ItemType `json:"item_type"`
	Sources  []Source `json:"sources"`
}

// Protocol is the consolidated output grouped by tier.
type Protocol struct {
	Immediate    []Item `json:"immediate"`
	Foundation   []Item `json:"foundation"`
	Optimization []Item `json:"optimization"`
}

// NewProtocol returns a protocol with empty, non-nil tier lists.
func NewProtocol() Protocol {
	return Protocol{
		Immediate:    []Item{},
		Foundation:   []Item{},
		Optimization: []Item{},
	}
}

// Clone returns a deep copy sharing no slices with p.
func (p Protocol) Clone() Protocol {
	return Protocol{
		Immediate:    cloneItems(p.Immediate),
		Foundation:   cloneItems(p.Foundation),
		Optimization: cloneItems(p.Optimization),
	}
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	for i, item := range items {
		out[i] = Item{
			ItemInput: copyInput(item.ItemInput),
			ItemType:  item.ItemType,
			Sources:   append([]Source(nil), item.Sources...),
		}
	}
	return out
}

// Len reports the total number of consolidated items.
func (p Protocol) Len() int {
	return len(p.Immediate) + len(p.Foundation) + len(p.Optimization)
}
