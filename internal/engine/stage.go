package engine

import "fmt"

// Stage is a node in the run's top-level state machine: PreBlind selection,
// the Blind itself, its PostBlind cleanup, and the Shop, looping back to
// PreBlind for the next blind (or ending the run).
type Stage int

const (
	StagePreBlind Stage = iota
	StageBlind
	StagePostBlind
	StageShop
	StageGameOver
	StageVictory
)

func (s Stage) String() string {
	switch s {
	case StagePreBlind:
		return "PreBlind"
	case StageBlind:
		return "Blind"
	case StagePostBlind:
		return "PostBlind"
	case StageShop:
		return "Shop"
	case StageGameOver:
		return "GameOver"
	case StageVictory:
		return "Victory"
	default:
		return "Unknown"
	}
}

// BlindType is the type of blind being played within the Blind stage.
type BlindType int

const (
	SmallBlind BlindType = iota
	BigBlind
	BossBlind
)

func (bt BlindType) String() string {
	switch bt {
	case SmallBlind:
		return "Small Blind"
	case BigBlind:
		return "Big Blind"
	case BossBlind:
		return "Boss Blind"
	default:
		return "Unknown"
	}
}

// nextBlind returns the blind type that follows bt within an ante.
func nextBlind(bt BlindType) (BlindType, bool) {
	switch bt {
	case SmallBlind:
		return BigBlind, true
	case BigBlind:
		return BossBlind, true
	default:
		return SmallBlind, false // boss blind completing rolls the ante over
	}
}

// StageEvent is the trigger driving a stage transition.
type StageEvent int

const (
	EventBlindSelected StageEvent = iota
	EventBlindDefeated
	EventBlindFailed
	EventShopExited
	EventSkipBlind
)

// postBlindAdvance computes the ante/blind position and stage that follow a
// blind's conclusion — whether it was defeated in play (from PostBlind) or
// skipped outright (from PreBlind): a boss blind rolls the ante over (or
// ends the run at the final ante), anything else advances to the next
// blind within the same ante. Both callers land in the Shop.
func postBlindAdvance(ante int, blind BlindType, maxAntes int) (Stage, int, BlindType) {
	if blind == BossBlind {
		newAnte := ante + 1
		if newAnte > maxAntes {
			return StageVictory, ante, blind
		}
		return StageShop, newAnte, SmallBlind
	}
	nb, _ := nextBlind(blind)
	return StageShop, ante, nb
}

// Transition computes the next stage given the current stage and ante/blind
// position, generalizing the teacher's inline blind-completion switch in
// game.go into an explicit, pure state machine function the orchestrator
// drives. maxAntes bounds how many antes a run has before Victory.
func Transition(current Stage, ev StageEvent, ante int, blind BlindType, maxAntes int) (Stage, int, BlindType, error) {
	switch current {
	case StagePreBlind:
		switch ev {
		case EventBlindSelected:
			return StageBlind, ante, blind, nil
		case EventSkipBlind:
			// A boss blind can't be skipped — it's the only way to
			// advance the ante, so gen_actions never legally offers
			// this, but Transition still rejects it defensively.
			if blind == BossBlind {
				return current, ante, blind, newError(ErrKindState, "game: boss blind cannot be skipped")
			}
			s, a, b := postBlindAdvance(ante, blind, maxAntes)
			return s, a, b, nil
		}
	case StageBlind:
		switch ev {
		case EventBlindDefeated:
			return StagePostBlind, ante, blind, nil
		case EventBlindFailed:
			return StageGameOver, ante, blind, nil
		}
	case StagePostBlind:
		// PostBlind has exactly one way out regardless of which event
		// arrives: cleanup already happened in Apply before Transition
		// was called to get here.
		s, a, b := postBlindAdvance(ante, blind, maxAntes)
		return s, a, b, nil
	case StageShop:
		if ev == EventShopExited {
			return StagePreBlind, ante, blind, nil
		}
	}
	return current, ante, blind, newError(ErrKindState, fmt.Sprintf("no transition from %s on event %d", current, ev))
}
