package jokerdata

import (
	"fmt"
	"strings"

	"jokerforge/internal/engine"
)

var suitNames = map[string]engine.Suit{
	"hearts":   engine.Hearts,
	"diamonds": engine.Diamonds,
	"clubs":    engine.Clubs,
	"spades":   engine.Spades,
}

var rankNames = map[string]engine.Rank{
	"ace": engine.Ace, "two": engine.Two, "three": engine.Three, "four": engine.Four,
	"five": engine.Five, "six": engine.Six, "seven": engine.Seven, "eight": engine.Eight,
	"nine": engine.Nine, "ten": engine.Ten, "jack": engine.Jack, "queen": engine.Queen, "king": engine.King,
}

// evalCondition evaluates a ConditionDef against the current event context
// and a joker's own state, returning false (not an error) for any condition
// that references data absent from the current event — e.g. SuitScored
// outside a per-card event simply never fires, matching the "per_card"
// semantics the schema documents rather than treating it as malformed.
func evalCondition(c ConditionDef, ctx *engine.EvalContext, state engine.JokerState) (bool, error) {
	switch c.Type {
	case "always":
		return true, nil

	case "money_less_than":
		return ctx.Money < c.Amount, nil
	case "money_greater_than":
		return ctx.Money > c.Amount, nil
	case "money_equal":
		return ctx.Money == c.Amount, nil

	case "suit_scored":
		if ctx.Card == nil {
			return false, nil
		}
		want, ok := suitNames[strings.ToLower(c.Suit)]
		if !ok {
			return false, fmt.Errorf("jokerdata: unknown suit %q", c.Suit)
		}
		return ctx.Card.Suit == want || ctx.Card.IsWildSuit(), nil
	case "rank_scored":
		if ctx.Card == nil {
			return false, nil
		}
		want, ok := rankNames[strings.ToLower(c.Rank)]
		if !ok {
			return false, fmt.Errorf("jokerdata: unknown rank %q", c.Rank)
		}
		return ctx.Card.Rank == want, nil
	case "face_card_scored":
		if ctx.Card == nil {
			return false, nil
		}
		return ctx.Card.Rank == engine.Jack || ctx.Card.Rank == engine.Queen || ctx.Card.Rank == engine.King, nil
	case "number_card_scored":
		if ctx.Card == nil {
			return false, nil
		}
		r := ctx.Card.Rank
		return r != engine.Ace && r != engine.Jack && r != engine.Queen && r != engine.King, nil

	case "hand_type":
		if ctx.Result == nil {
			return false, nil
		}
		return strings.EqualFold(ctx.Result.Evaluator.Name(), normalizeHandType(c.HandType)), nil
	case "hand_size":
		return len(ctx.Hand.Cards) == c.Size, nil
	case "no_face_cards":
		for _, card := range ctx.Hand.Cards {
			if card.Rank == engine.Jack || card.Rank == engine.Queen || card.Rank == engine.King {
				return false, nil
			}
		}
		return true, nil
	case "all_same_suit":
		if len(ctx.Hand.Cards) == 0 {
			return false, nil
		}
		first := ctx.Hand.Cards[0].Suit
		for _, card := range ctx.Hand.Cards[1:] {
			if card.Suit != first && !card.IsWildSuit() {
				return false, nil
			}
		}
		return true, nil
	case "all_same_rank":
		if len(ctx.Hand.Cards) == 0 {
			return false, nil
		}
		first := ctx.Hand.Cards[0].Rank
		for _, card := range ctx.Hand.Cards[1:] {
			if card.Rank != first {
				return false, nil
			}
		}
		return true, nil

	case "round":
		return ctx.HandsPlayed+ctx.DiscardsUsed == c.Round, nil
	case "ante":
		return ctx.Ante == c.Ante, nil
	case "hands_played":
		return ctx.HandsPlayed == c.HandsPlayed, nil
	case "discards_used":
		return ctx.DiscardsUsed == c.DiscardsUsed, nil

	case "all":
		for _, sub := range c.Conditions {
			ok, err := evalCondition(sub, ctx, state)
			if err != nil {
				return false, err
			}
			if !ok {
				return false, nil
			}
		}
		return true, nil
	case "any":
		for _, sub := range c.Conditions {
			ok, err := evalCondition(sub, ctx, state)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
		return false, nil
	case "not":
		if c.Inner == nil {
			return false, fmt.Errorf("jokerdata: not condition missing inner condition")
		}
		ok, err := evalCondition(*c.Inner, ctx, state)
		return !ok, err

	case "state_value":
		return evalStateValue(c, state)

	default:
		return false, fmt.Errorf("jokerdata: unknown condition type %q", c.Type)
	}
}

// normalizeHandType turns a schema-style hand_type ("full_house") into the
// display name HandResult.Evaluator.Name() produces ("Full House").
func normalizeHandType(handType string) string {
	parts := strings.Split(handType, "_")
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = strings.ToUpper(p[:1]) + p[1:]
	}
	return strings.Join(parts, " ")
}

func evalStateValue(c ConditionDef, state engine.JokerState) (bool, error) {
	current, ok := stateFieldValue(state, c.Field)
	if !ok {
		current = 0
	}
	want, err := toFloat(c.Value)
	if err != nil {
		return false, err
	}
	switch c.Operator {
	case "eq":
		return current == want, nil
	case "ne":
		return current != want, nil
	case "lt":
		return current < want, nil
	case "le":
		return current <= want, nil
	case "gt":
		return current > want, nil
	case "ge":
		return current >= want, nil
	default:
		return false, fmt.Errorf("jokerdata: unknown comparison operator %q", c.Operator)
	}
}

func stateFieldValue(state engine.JokerState, field string) (float64, bool) {
	if v, ok := state.Counters[field]; ok {
		return float64(v), true
	}
	if v, ok := state.Custom[field]; ok {
		return v, true
	}
	if v, ok := state.Flags[field]; ok {
		if v {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int64:
		return float64(n), nil
	case int:
		return float64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("jokerdata: value %v is not numeric", v)
	}
}
