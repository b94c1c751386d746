package jokerdata

import (
	"fmt"

	"jokerforge/internal/engine"
)

// applyAction executes an ActionDef, returning the JokerEffect it
// contributes. Actions that only mutate state (modify_state) contribute a
// zero effect; Sequence folds its children additively, matching the
// Effect Processor's own additive Apply stage so a sequence behaves the
// same whether expressed as one joker's compound action or several jokers'
// individual ones.
func applyAction(a ActionDef, id engine.JokerID, ctx *engine.EvalContext) (engine.JokerEffect, error) {
	switch a.Type {
	case "add_score":
		mm := a.MultMultiplier
		if mm == 0 {
			mm = 1
		}
		return engine.JokerEffect{Chips: a.Chips, Mult: a.Mult, Money: a.Money, MultMultiplier: mm}, nil

	case "modify_state":
		delta, err := toFloat(a.Value)
		if err != nil {
			return engine.JokerEffect{}, err
		}
		ctx.State.UpdateState(id, func(s engine.JokerState) engine.JokerState {
			return mutateField(s, a.Field, a.Operation, delta)
		})
		return engine.JokerEffect{}, nil

	case "calculate":
		val, err := evalFormula(a.Formula, ctx)
		if err != nil {
			return engine.JokerEffect{}, err
		}
		switch a.ResultType {
		case "chips":
			return engine.JokerEffect{Chips: int(val)}, nil
		case "mult":
			return engine.JokerEffect{Mult: int(val)}, nil
		case "money":
			return engine.JokerEffect{Money: int(val)}, nil
		case "mult_multiplier":
			return engine.JokerEffect{MultMultiplier: val}, nil
		default:
			return engine.JokerEffect{}, fmt.Errorf("jokerdata: unknown result_type %q", a.ResultType)
		}

	case "retrigger":
		return engine.JokerEffect{RetriggerCount: a.Count}, nil

	case "destroy":
		return engine.JokerEffect{Destroy: []engine.DestroyTarget{destroyTarget(a.Target)}}, nil

	case "sequence":
		var total engine.JokerEffect
		for _, sub := range a.Actions {
			e, err := applyAction(sub, id, ctx)
			if err != nil {
				return engine.JokerEffect{}, err
			}
			total = combineEffects(total, e)
		}
		return total, nil

	default:
		return engine.JokerEffect{}, fmt.Errorf("jokerdata: unknown action type %q", a.Type)
	}
}

func combineEffects(a, b engine.JokerEffect) engine.JokerEffect {
	mm := a.MultMultiplier
	if mm == 0 {
		mm = 1
	}
	if b.MultMultiplier != 0 {
		mm *= b.MultMultiplier
	}
	return engine.JokerEffect{
		Chips:          a.Chips + b.Chips,
		Mult:           a.Mult + b.Mult,
		Money:          a.Money + b.Money,
		MultMultiplier: mm,
		RetriggerCount: a.RetriggerCount + b.RetriggerCount,
		Destroy:        append(append([]engine.DestroyTarget(nil), a.Destroy...), b.Destroy...),
	}
}

func destroyTarget(t DestroyTargetDef) engine.DestroyTarget {
	switch t.Type {
	case "other":
		return engine.DestroyTarget{OtherID: engine.JokerID(t.JokerID)}
	case "random":
		return engine.DestroyTarget{Random: t.Count}
	default:
		return engine.DestroyTarget{Self_: true}
	}
}

func mutateField(s engine.JokerState, field, op string, delta float64) engine.JokerState {
	out := s
	if out.Custom == nil {
		out.Custom = make(map[string]float64)
	}
	current := out.Custom[field]
	switch op {
	case "set":
		current = delta
	case "add", "increment":
		current += delta
	case "subtract", "decrement":
		current -= delta
	case "multiply":
		current *= delta
	case "divide":
		if delta != 0 {
			current /= delta
		}
	default:
		current += delta
	}
	out.Custom[field] = current
	return out
}

// evalFormula supports a small, explicitly-enumerated set of named formulas
// rather than a general expression evaluator — original_source's `formula`
// field is a free-form string intended for a bespoke interpreter the Rust
// side never actually shipped beyond a few concrete cases, so this mirrors
// only those: linear scaling off an event-context value (hands played, ante,
// money), plus reading the triggering
// card's own chip value for per-card retrigger content (face_dancer).
func evalFormula(formula string, ctx *engine.EvalContext) (float64, error) {
	switch formula {
	case "hands_played_times_two":
		return float64(ctx.HandsPlayed) * 2, nil
	case "ante_times_five":
		return float64(ctx.Ante) * 5, nil
	case "money_half":
		return float64(ctx.Money) / 2, nil
	case "card_chip_value":
		if ctx.Card == nil {
			return 0, nil
		}
		return float64(ctx.Card.ChipValue()), nil
	default:
		return 0, fmt.Errorf("jokerdata: unknown formula %q", formula)
	}
}
