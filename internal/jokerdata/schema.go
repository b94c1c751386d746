// Package jokerdata loads declarative joker definitions from TOML, letting
// new jokers be added without a code change. The schema is a direct port of
// original_source's joker_toml_schema.rs tagged-union shape into a form
// BurntSushi/toml can decode: TOML has no tagged-enum support, so every
// union (effect/condition/action) becomes a flat struct with a "type"
// discriminator string plus every variant's fields, left at their zero
// value when not relevant to that type.
package jokerdata

// Catalog is the root of a jokers.toml file.
type Catalog struct {
	SchemaVersion string          `toml:"schema_version"`
	Jokers        []JokerDef      `toml:"jokers"`
}

// JokerDef is one joker entry under [[jokers]].
type JokerDef struct {
	ID          string     `toml:"id"`
	Name        string     `toml:"name"`
	Description string     `toml:"description"`
	Rarity      string     `toml:"rarity"` // common|uncommon|rare|legendary
	Cost        int        `toml:"cost"`
	Effect      EffectDef  `toml:"effect"`
	State       *StateDef  `toml:"state"`
	Behavior    *Behavior  `toml:"behavior"`
}

// EffectDef is the tagged union under [jokers.effect]. Type selects which
// of the remaining fields are meaningful:
//   - "scoring": Chips/Mult/Money/MultMultiplier/PerCard are flat bonuses.
//   - "conditional": Condition gates a single Action.
//   - "dynamic": BaseEffect scaled by StateModifiers against current state.
//   - "special": SpecialType names a built-in handled outside the schema.
type EffectDef struct {
	Type string `toml:"type"`

	// scoring
	Chips          int     `toml:"chips"`
	Mult           int     `toml:"mult"`
	Money          int     `toml:"money"`
	MultMultiplier float64 `toml:"mult_multiplier"`
	PerCard        bool    `toml:"per_card"`

	// conditional
	Condition *ConditionDef `toml:"condition"`
	Action    *ActionDef    `toml:"action"`

	// dynamic
	BaseEffect     *ActionDef        `toml:"base_effect"`
	StateModifiers []StateModifierDef `toml:"state_modifiers"`

	// special
	SpecialType string                 `toml:"special_type"`
	Parameters  map[string]interface{} `toml:"parameters"`
}

// ConditionDef is the tagged union under [jokers.effect.condition] (or
// nested inside All/Any/Not). Type selects which fields apply.
type ConditionDef struct {
	Type string `toml:"type"`

	Amount int `toml:"amount"` // money_less_than / money_greater_than / money_equal

	Suit string `toml:"suit"` // suit_scored
	Rank string `toml:"rank"` // rank_scored

	HandType string `toml:"hand_type"` // hand_type
	Size     int    `toml:"size"`      // hand_size

	Round        int `toml:"round"`
	Ante         int `toml:"ante"`
	HandsPlayed  int `toml:"hands_played"`
	DiscardsUsed int `toml:"discards_used"`

	Conditions []ConditionDef `toml:"conditions"` // all / any
	Inner      *ConditionDef  `toml:"condition"`  // not

	Field    string      `toml:"field"`    // state_value
	Operator string      `toml:"operator"` // state_value
	Value    interface{} `toml:"value"`    // state_value
}

// ActionDef is the tagged union under [jokers.effect.action] (also used for
// base_effect and the behavior hooks). Type selects which fields apply.
type ActionDef struct {
	Type string `toml:"type"`

	// add_score
	Chips          int     `toml:"chips"`
	Mult           int     `toml:"mult"`
	Money          int     `toml:"money"`
	MultMultiplier float64 `toml:"mult_multiplier"`

	// modify_state
	Field     string      `toml:"field"`
	Operation string      `toml:"operation"` // set|add|subtract|multiply|divide|increment|decrement
	Value     interface{} `toml:"value"`

	// calculate
	Formula    string `toml:"formula"`
	ResultType string `toml:"result_type"` // chips|mult|money|mult_multiplier

	// retrigger
	Count int `toml:"count"`

	// destroy
	Target DestroyTargetDef `toml:"target"`

	// sequence
	Actions []ActionDef `toml:"actions"`
}

// DestroyTargetDef addresses a destroy action's target(s).
type DestroyTargetDef struct {
	Type    string `toml:"type"` // self|other|random
	JokerID string `toml:"joker_id"`
	Count   int    `toml:"count"`
}

// StateModifierDef scales a dynamic effect's base value by a state field.
type StateModifierDef struct {
	StateField string  `toml:"state_field"`
	Multiplier float64 `toml:"multiplier"`
}

// StateDef declares a stateful joker's fields and their initial values.
type StateDef struct {
	Fields     map[string]interface{} `toml:"fields"`
	Persistent bool                   `toml:"persistent"`
}

// Behavior maps lifecycle/event hooks to actions.
type Behavior struct {
	OnHandPlayed  *ActionDef `toml:"on_hand_played"`
	OnCardScored  *ActionDef `toml:"on_card_scored"`
	OnBlindStart  *ActionDef `toml:"on_blind_start"`
	OnShopOpen    *ActionDef `toml:"on_shop_open"`
	OnDiscard     *ActionDef `toml:"on_discard"`
	OnRoundEnd    *ActionDef `toml:"on_round_end"`
	OnCreated     *ActionDef `toml:"on_created"`
	OnActivated   *ActionDef `toml:"on_activated"`
	OnDeactivated *ActionDef `toml:"on_deactivated"`
	OnCleanup     *ActionDef `toml:"on_cleanup"`
}
