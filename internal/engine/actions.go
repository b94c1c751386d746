package engine

// ActionType enumerates the legal player actions across all stages.
type ActionType int

const (
	ActionPlayHand ActionType = iota
	ActionDiscard
	ActionReorderHand
	ActionMoveJoker
	ActionSelectBlind
	ActionSkipBlind
	ActionBuyItem
	ActionRerollShop
	ActionSellJoker
	ActionExitShop
)

func (a ActionType) String() string {
	switch a {
	case ActionPlayHand:
		return "play_hand"
	case ActionDiscard:
		return "discard"
	case ActionReorderHand:
		return "reorder_hand"
	case ActionMoveJoker:
		return "move_joker"
	case ActionSelectBlind:
		return "select_blind"
	case ActionSkipBlind:
		return "skip_blind"
	case ActionBuyItem:
		return "buy_item"
	case ActionRerollShop:
		return "reroll_shop"
	case ActionSellJoker:
		return "sell_joker"
	case ActionExitShop:
		return "exit_shop"
	default:
		return "unknown"
	}
}

// Action is one legal move a driver may submit to Apply.
type Action struct {
	Type    ActionType
	Indices []int // card or joker indices, meaning depends on Type
	ItemID  string
	Target  string // "up"/"down" for move_joker; unused by other actions
}

// ActionContext is the read-only resource snapshot GenerateActions needs to
// decide what's currently legal — pulled out of Game so the generator stays
// a pure function of its inputs, independent of the orchestrator's
// internals, per the spec's "side-effect-free" contract.
type ActionContext struct {
	Stage          Stage
	HandsRemaining int
	DiscardsLeft   int
	HandSize       int
	JokerCount     int
	Money          int
	RerollCost     int
	ShopSlotCount  int
	BlindIsBoss    bool
}

// GenerateActions enumerates every action legal in the given context. It
// never consults game state beyond what's passed in, so a driver can call
// it freely to build a menu without risking a side effect.
func GenerateActions(ctx ActionContext) []Action {
	var actions []Action

	switch ctx.Stage {
	case StagePreBlind:
		actions = append(actions, Action{Type: ActionSelectBlind})
		if !ctx.BlindIsBoss {
			actions = append(actions, Action{Type: ActionSkipBlind})
		}
	case StageBlind:
		if ctx.HandsRemaining > 0 {
			actions = append(actions, Action{Type: ActionPlayHand})
		}
		if ctx.DiscardsLeft > 0 {
			actions = append(actions, Action{Type: ActionDiscard})
		}
		actions = append(actions, Action{Type: ActionReorderHand})
		if ctx.JokerCount > 1 {
			actions = append(actions, Action{Type: ActionMoveJoker})
		}
	case StageShop:
		if ctx.ShopSlotCount > 0 {
			actions = append(actions, Action{Type: ActionBuyItem})
		}
		if ctx.Money >= ctx.RerollCost {
			actions = append(actions, Action{Type: ActionRerollShop})
		}
		if ctx.JokerCount > 0 {
			actions = append(actions, Action{Type: ActionSellJoker})
		}
		actions = append(actions, Action{Type: ActionExitShop})
	}

	return actions
}
