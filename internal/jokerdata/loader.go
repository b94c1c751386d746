package jokerdata

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

const supportedSchemaVersion = "1.0.0"

// LoadCatalog parses a jokers.toml file and validates it against the
// supported schema version and each definition's required fields, mirroring
// the "validatable" design principle from the schema this was ported from.
func LoadCatalog(path string) (*Catalog, error) {
	var cat Catalog
	if _, err := toml.DecodeFile(path, &cat); err != nil {
		return nil, fmt.Errorf("jokerdata: decode %s: %w", path, err)
	}
	if err := validate(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

// LoadCatalogBytes parses TOML content already in memory, used by tests and
// by embedded default catalogs.
func LoadCatalogBytes(data []byte) (*Catalog, error) {
	var cat Catalog
	if _, err := toml.Decode(string(data), &cat); err != nil {
		return nil, fmt.Errorf("jokerdata: decode: %w", err)
	}
	if err := validate(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func validate(cat *Catalog) error {
	if cat.SchemaVersion != supportedSchemaVersion {
		return fmt.Errorf("jokerdata: unsupported schema_version %q (want %q)", cat.SchemaVersion, supportedSchemaVersion)
	}
	seen := make(map[string]bool, len(cat.Jokers))
	for i, j := range cat.Jokers {
		if j.ID == "" {
			return fmt.Errorf("jokerdata: joker at index %d missing id", i)
		}
		if seen[j.ID] {
			return fmt.Errorf("jokerdata: duplicate joker id %q", j.ID)
		}
		seen[j.ID] = true
		if j.Name == "" {
			return fmt.Errorf("jokerdata: joker %q missing name", j.ID)
		}
		switch j.Rarity {
		case "common", "uncommon", "rare", "legendary":
		default:
			return fmt.Errorf("jokerdata: joker %q has invalid rarity %q", j.ID, j.Rarity)
		}
		if j.Cost < 0 || j.Cost > 1000 {
			return fmt.Errorf("jokerdata: joker %q cost %d out of range [0, 1000]", j.ID, j.Cost)
		}
		if err := validateEffect(j.ID, j.Effect); err != nil {
			return err
		}
	}
	return nil
}

// validateScoringRanges enforces the schema's declared numeric bounds: chips
// and mult in [-1000, 1000], money in [-100, 100], mult_multiplier in
// [0, 10].
func validateScoringRanges(jokerID string, chips, mult, money int, multMultiplier float64) error {
	if chips < -1000 || chips > 1000 {
		return fmt.Errorf("jokerdata: joker %q chips %d out of range [-1000, 1000]", jokerID, chips)
	}
	if mult < -1000 || mult > 1000 {
		return fmt.Errorf("jokerdata: joker %q mult %d out of range [-1000, 1000]", jokerID, mult)
	}
	if money < -100 || money > 100 {
		return fmt.Errorf("jokerdata: joker %q money %d out of range [-100, 100]", jokerID, money)
	}
	if multMultiplier < 0 || multMultiplier > 10 {
		return fmt.Errorf("jokerdata: joker %q mult_multiplier %g out of range [0, 10]", jokerID, multMultiplier)
	}
	return nil
}

func validateEffect(jokerID string, e EffectDef) error {
	switch e.Type {
	case "scoring":
		return validateScoringRanges(jokerID, e.Chips, e.Mult, e.Money, e.MultMultiplier)
	case "conditional":
		if e.Condition == nil {
			return fmt.Errorf("jokerdata: joker %q conditional effect missing condition", jokerID)
		}
		if e.Action == nil {
			return fmt.Errorf("jokerdata: joker %q conditional effect missing action", jokerID)
		}
		if err := validateCondition(jokerID, *e.Condition); err != nil {
			return err
		}
		return validateAction(jokerID, *e.Action)
	case "dynamic":
		if e.BaseEffect == nil {
			return fmt.Errorf("jokerdata: joker %q dynamic effect missing base_effect", jokerID)
		}
		return validateAction(jokerID, *e.BaseEffect)
	case "special":
		if e.SpecialType == "" {
			return fmt.Errorf("jokerdata: joker %q special effect missing special_type", jokerID)
		}
		return nil
	default:
		return fmt.Errorf("jokerdata: joker %q has unknown effect type %q", jokerID, e.Type)
	}
}

func validateAction(jokerID string, a ActionDef) error {
	switch a.Type {
	case "add_score":
		mm := a.MultMultiplier
		if mm == 0 {
			mm = 1
		}
		return validateScoringRanges(jokerID, a.Chips, a.Mult, a.Money, mm)
	case "sequence":
		for _, sub := range a.Actions {
			if err := validateAction(jokerID, sub); err != nil {
				return err
			}
		}
		return nil
	case "modify_state", "calculate", "retrigger", "destroy":
		return nil
	default:
		return fmt.Errorf("jokerdata: joker %q has unknown action type %q", jokerID, a.Type)
	}
}

func validateCondition(jokerID string, c ConditionDef) error {
	switch c.Type {
	case "always", "face_card_scored", "number_card_scored", "no_face_cards", "all_same_suit", "all_same_rank":
		return nil
	case "money_less_than", "money_greater_than", "money_equal", "hand_size", "round", "ante", "hands_played", "discards_used":
		return nil
	case "suit_scored", "rank_scored", "hand_type":
		return nil
	case "state_value":
		if c.Field == "" {
			return fmt.Errorf("jokerdata: joker %q state_value condition missing field", jokerID)
		}
		return nil
	case "all", "any":
		if len(c.Conditions) == 0 {
			return fmt.Errorf("jokerdata: joker %q %s condition has no sub-conditions", jokerID, c.Type)
		}
		for _, sub := range c.Conditions {
			if err := validateCondition(jokerID, sub); err != nil {
				return err
			}
		}
		return nil
	case "not":
		if c.Inner == nil {
			return fmt.Errorf("jokerdata: joker %q not condition missing condition", jokerID)
		}
		return validateCondition(jokerID, *c.Inner)
	default:
		return fmt.Errorf("jokerdata: joker %q has unknown condition type %q", jokerID, c.Type)
	}
}
