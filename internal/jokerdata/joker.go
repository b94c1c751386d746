package jokerdata

import (
	"fmt"

	"jokerforge/internal/engine"
)

// DeclarativeJoker is the generic "conditional joker" capability bundle the
// design notes call for: one engine.Joker implementation that interprets a
// JokerDef's effect/behavior trees instead of every declarative joker
// needing bespoke Go code. It implements JokerIdentity, JokerGameplay, and
// JokerStateful; a definition with no [state] table still satisfies
// JokerStateful by returning the zero JokerState, matching the schema's
// "state is optional" contract.
type DeclarativeJoker struct {
	def JokerDef
}

// NewJoker builds an engine.Joker from a validated JokerDef.
func NewJoker(def JokerDef) *DeclarativeJoker {
	return &DeclarativeJoker{def: def}
}

func (j *DeclarativeJoker) ID() engine.JokerID             { return engine.JokerID(j.def.ID) }
func (j *DeclarativeJoker) DisplayName() string            { return j.def.Name }
func (j *DeclarativeJoker) Rarity() engine.JokerRarity      { return engine.JokerRarity(j.def.Rarity) }
func (j *DeclarativeJoker) ShopCost() int                   { return j.def.Cost }
func (j *DeclarativeJoker) EvaluationCost() engine.EvaluationCost { return engine.CostModerate }

// OnEvent folds the definition's declared effect with whatever behavior
// hook matches the current event, additively — mirroring applyAction's own
// sequence semantics so a joker expressed as effect+behavior scores the
// same as the equivalent single compound action would.
func (j *DeclarativeJoker) OnEvent(ctx *engine.EvalContext) (engine.JokerEffect, error) {
	var total engine.JokerEffect
	// The declared [effect] table describes a joker's scoring contribution.
	// A per_card effect fires once for every scored card (Greedy Joker: +mult
	// per scored Diamond); a hand-level effect fires exactly once for the
	// hand as a whole. Firing both against the same event would double (or
	// N-fold) count, so each only answers its own event. Everything else
	// (discard, round end, shop open) is expressed purely through [behavior]
	// hooks, never the base effect.
	fireHere := (ctx.Event == engine.EventHandScored && !j.def.Effect.PerCard) ||
		(ctx.Event == engine.EventCardScored && j.def.Effect.PerCard)
	if fireHere {
		var err error
		total, err = j.evalEffect(j.def.Effect, ctx)
		if err != nil {
			return engine.JokerEffect{}, err
		}
	}
	if hook := j.behaviorFor(ctx.Event); hook != nil {
		he, err := applyAction(*hook, j.ID(), ctx)
		if err != nil {
			return engine.JokerEffect{}, err
		}
		total = combineEffects(total, he)
	}
	return total, nil
}

// behaviorFor maps an engine.GameEvent to the Behavior hook it triggers.
// Events with no corresponding schema field (round start, card destroyed)
// simply never invoke a declarative joker's behavior block — only the hand/
// card/shop/discard/round lifecycle the schema documents is wired.
func (j *DeclarativeJoker) behaviorFor(ev engine.GameEvent) *ActionDef {
	b := j.def.Behavior
	if b == nil {
		return nil
	}
	switch ev {
	case engine.EventHandScored:
		return b.OnHandPlayed
	case engine.EventCardScored:
		return b.OnCardScored
	case engine.EventHandDiscarded:
		return b.OnDiscard
	case engine.EventBlindStart:
		return b.OnBlindStart
	case engine.EventBlindEnd:
		return b.OnRoundEnd
	case engine.EventShopEnter:
		return b.OnShopOpen
	default:
		return nil
	}
}

func (j *DeclarativeJoker) evalEffect(e EffectDef, ctx *engine.EvalContext) (engine.JokerEffect, error) {
	switch e.Type {
	case "":
		return engine.JokerEffect{}, nil

	case "scoring":
		mm := e.MultMultiplier
		if mm == 0 {
			mm = 1
		}
		return engine.JokerEffect{Chips: e.Chips, Mult: e.Mult, Money: e.Money, MultMultiplier: mm}, nil

	case "conditional":
		if e.Condition == nil || e.Action == nil {
			return engine.JokerEffect{}, fmt.Errorf("jokerdata: joker %q conditional effect missing condition/action", j.def.ID)
		}
		state := j.stateOf(ctx)
		ok, err := evalCondition(*e.Condition, ctx, state)
		if err != nil || !ok {
			return engine.JokerEffect{}, err
		}
		return applyAction(*e.Action, j.ID(), ctx)

	case "dynamic":
		if e.BaseEffect == nil {
			return engine.JokerEffect{}, fmt.Errorf("jokerdata: joker %q dynamic effect missing base_effect", j.def.ID)
		}
		base, err := applyAction(*e.BaseEffect, j.ID(), ctx)
		if err != nil {
			return engine.JokerEffect{}, err
		}
		state := j.stateOf(ctx)
		factor := 1.0
		for _, m := range e.StateModifiers {
			if v, ok := stateFieldValue(state, m.StateField); ok {
				factor *= v * m.Multiplier
			}
		}
		return scaleEffect(base, factor), nil

	case "special":
		// Built-in specials are content-specific mechanics (e.g. a joker
		// that duplicates another); the generic bundle has nothing to
		// interpret them against, so it contributes a zero effect and
		// leaves the special_type/parameters for a bespoke Go joker to
		// handle instead.
		return engine.JokerEffect{}, nil

	default:
		return engine.JokerEffect{}, fmt.Errorf("jokerdata: joker %q has unknown effect type %q", j.def.ID, e.Type)
	}
}

func (j *DeclarativeJoker) stateOf(ctx *engine.EvalContext) engine.JokerState {
	if ctx.State == nil {
		return engine.JokerState{}
	}
	return ctx.State.GetState(j.ID())
}

func scaleEffect(e engine.JokerEffect, factor float64) engine.JokerEffect {
	return engine.JokerEffect{
		Chips:          int(float64(e.Chips) * factor),
		Mult:           int(float64(e.Mult) * factor),
		Money:          int(float64(e.Money) * factor),
		MultMultiplier: e.MultMultiplier,
		RetriggerCount: e.RetriggerCount,
		Destroy:        e.Destroy,
	}
}

// InitialState seeds the state fields declared under [jokers.state], typing
// each by the TOML value's own kind: booleans become flags, numbers become
// custom fields. A definition with no [state] table returns the zero
// JokerState, matching the schema's "state is optional" contract.
func (j *DeclarativeJoker) InitialState() engine.JokerState {
	s := engine.JokerState{
		Counters: make(map[string]int64),
		Flags:    make(map[string]bool),
		Custom:   make(map[string]float64),
	}
	if j.def.State == nil {
		return s
	}
	for field, v := range j.def.State.Fields {
		switch val := v.(type) {
		case bool:
			s.Flags[field] = val
		case int64:
			s.Custom[field] = float64(val)
		case float64:
			s.Custom[field] = val
		}
	}
	return s
}

// MigrateState is the identity migration: the declarative schema has no
// versioned field-evolution story of its own (schema_version gates the
// catalog format, not individual joker state shapes), so a version change
// carries the state through unchanged.
func (j *DeclarativeJoker) MigrateState(old engine.JokerState, fromVersion int) engine.JokerState {
	return old
}

// RegisterCatalog installs every joker in cat into the engine's process-wide
// content registry, so Game's shop can offer them and BuyItem can construct
// them by id. Intended to be called once at startup after LoadCatalog.
func RegisterCatalog(cat *Catalog) {
	for _, def := range cat.Jokers {
		def := def
		engine.RegisterJokerFactory(engine.JokerID(def.ID), func() engine.Joker {
			return NewJoker(def)
		})
	}
}
