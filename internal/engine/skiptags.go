package engine

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// TagEffectType categorizes what a skip tag does when its blind is skipped.
// ImmediateReward and NextShopModifier are the two categories the original
// engine implements (colinsheppard/balatro-rs skip_tags.rs); GameStateModifier
// and SpecialMechanic extend the catalog per the expanded spec so a skip tag
// can also mutate run state directly (extra hand/discard, free reroll) or
// trigger a one-off mechanic (duplicate a joker, convert a card) instead of
// only granting a reward or biasing the next shop.
type TagEffectType string

const (
	ImmediateReward   TagEffectType = "immediate_reward"
	NextShopModifier  TagEffectType = "next_shop_modifier"
	GameStateModifier TagEffectType = "game_state_modifier"
	SpecialMechanic   TagEffectType = "special_mechanic"
)

// TagID is the closed set of skip tags, mirroring original_source's TagId
// enum (Charm, Ethereal, Buffoon, Standard, Meteor, Rare, Uncommon, TopUp).
type TagID string

const (
	TagCharm    TagID = "charm"
	TagEthereal TagID = "ethereal"
	TagBuffoon  TagID = "buffoon"
	TagStandard TagID = "standard"
	TagMeteor   TagID = "meteor"
	TagRare     TagID = "rare"
	TagUncommon TagID = "uncommon"
	TagTopUp    TagID = "top_up"
)

// SkipTag is one entry in the catalog: identity plus the effect category it
// belongs to. External systems extend the catalog by registering additional
// entries through RegisterSkipTag rather than editing this file, mirroring
// original_source's trait-based extensibility contract.
type SkipTag struct {
	ID          TagID         `yaml:"id"`
	Name        string        `yaml:"name"`
	EffectType  TagEffectType `yaml:"effect_type"`
	Description string        `yaml:"description"`
}

type skipTagsYAML struct {
	Tags []SkipTag `yaml:"tags"`
}

var skipTagCatalog = map[TagID]SkipTag{}

// LoadSkipTagCatalog loads the skip tag catalog from skiptags.yaml under
// baseDir, falling back to the closed default catalog from original_source
// plus the two supplemented categories.
func LoadSkipTagCatalog(baseDir string) error {
	data, err := os.ReadFile(filepath.Join(baseDir, "skiptags.yaml"))
	if err != nil {
		fmt.Printf("Warning: could not load skiptags.yaml, using defaults: %v\n", err)
		setDefaultSkipTags()
		return nil
	}

	var parsed skipTagsYAML
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		fmt.Printf("Warning: could not parse skiptags.yaml, using defaults: %v\n", err)
		setDefaultSkipTags()
		return nil
	}

	skipTagCatalog = make(map[TagID]SkipTag, len(parsed.Tags))
	for _, t := range parsed.Tags {
		skipTagCatalog[t.ID] = t
	}
	return nil
}

func setDefaultSkipTags() {
	skipTagCatalog = map[TagID]SkipTag{
		TagCharm:    {ID: TagCharm, Name: "Charm Tag", EffectType: ImmediateReward, Description: "Grants a free Mega Arcana Pack"},
		TagEthereal: {ID: TagEthereal, Name: "Ethereal Tag", EffectType: ImmediateReward, Description: "Grants a free Spectral Pack"},
		TagBuffoon:  {ID: TagBuffoon, Name: "Buffoon Tag", EffectType: ImmediateReward, Description: "Grants a free Mega Buffoon Pack"},
		TagStandard: {ID: TagStandard, Name: "Standard Tag", EffectType: ImmediateReward, Description: "Grants a free Mega Standard Pack"},
		TagMeteor:   {ID: TagMeteor, Name: "Meteor Tag", EffectType: GameStateModifier, Description: "Converts all face cards in hand to a fixed enhancement"},
		TagRare:     {ID: TagRare, Name: "Rare Tag", EffectType: NextShopModifier, Description: "Next shop's first joker slot is guaranteed Rare"},
		TagUncommon: {ID: TagUncommon, Name: "Uncommon Tag", EffectType: NextShopModifier, Description: "Next shop's first joker slot is guaranteed Uncommon"},
		TagTopUp:    {ID: TagTopUp, Name: "Top-up Tag", EffectType: SpecialMechanic, Description: "Creates up to two Common jokers if slots are free"},
	}
}

// RegisterSkipTag lets external systems add a new skip tag to the catalog
// without editing this file, per the extensibility contract that every tag
// must declare its effect category up front.
func RegisterSkipTag(tag SkipTag) {
	skipTagCatalog[tag.ID] = tag
}

// LookupSkipTag returns the catalog entry for id, if any.
func LookupSkipTag(id TagID) (SkipTag, bool) {
	t, ok := skipTagCatalog[id]
	return t, ok
}
