package engine

// ScalingTrigger names the game event a scaling joker increments on,
// mirroring original_source's scaling_joker.rs ScalingTrigger enum.
type ScalingTrigger int

const (
	TriggerHandPlayed ScalingTrigger = iota
	TriggerHandDiscarded
	TriggerCardScored
	TriggerBlindDefeated
	TriggerShopEnter
	TriggerRoundStart
)

// ResetCondition names when a scaling joker's accumulated value resets back
// to its base value.
type ResetCondition int

const (
	ResetNever ResetCondition = iota
	ResetOnRoundStart
	ResetOnBlindDefeated
	ResetOnShopEnter
	ResetOnAnteStart
)

// ScalingEffectType decides how the accumulated value is applied to the
// current scoring pass.
type ScalingEffectType int

const (
	ScalingAddChips ScalingEffectType = iota
	ScalingAddMult
	ScalingMultiplyMult
	ScalingAddMoney
)

// ScalingJokerDef is the declarative shape of a joker whose value grows (or
// resets) over time, translated from original_source's ScalingJoker.
type ScalingJokerDef struct {
	BaseValue float64
	Increment float64
	MaxValue  float64 // 0 means uncapped
	Trigger   ScalingTrigger
	Reset     ResetCondition
	Effect    ScalingEffectType
}

// ScalingEvent is what ProcessEvent is told happened this tick.
type ScalingEvent struct {
	Trigger ScalingTrigger
	IsReset bool // true when this call represents a reset-condition tick rather than a trigger tick
}

// ProcessEvent advances a scaling joker's stored value for one event.
//
// The reset check runs strictly before the trigger/increment check on every
// call — so a reset-condition tick that also happens to equal the trigger
// condition resets the value back to base instead of incrementing it first
// and then immediately resetting, which would silently drop the increment.
// This ordering is load-bearing and mirrors scaling_joker.rs's
// process_event exactly.
func ProcessEvent(def ScalingJokerDef, current float64, ev ScalingEvent) float64 {
	if shouldReset(def.Reset, ev) {
		return def.BaseValue
	}
	if ev.Trigger == def.Trigger {
		next := current + def.Increment
		if def.MaxValue > 0 && next > def.MaxValue {
			next = def.MaxValue
		}
		return next
	}
	return current
}

func shouldReset(reset ResetCondition, ev ScalingEvent) bool {
	if reset == ResetNever {
		return false
	}
	if !ev.IsReset {
		return false
	}
	switch reset {
	case ResetOnRoundStart:
		return ev.Trigger == TriggerRoundStart
	case ResetOnBlindDefeated:
		return ev.Trigger == TriggerBlindDefeated
	case ResetOnShopEnter:
		return ev.Trigger == TriggerShopEnter
	case ResetOnAnteStart:
		return ev.Trigger == TriggerRoundStart
	default:
		return false
	}
}

// AsEffect converts the current accumulated value into a JokerEffect
// contribution, per the joker's declared ScalingEffectType.
func (def ScalingJokerDef) AsEffect(current float64) JokerEffect {
	v := int(current)
	switch def.Effect {
	case ScalingAddChips:
		return JokerEffect{Chips: v}
	case ScalingAddMult:
		return JokerEffect{Mult: v}
	case ScalingMultiplyMult:
		if current <= 0 {
			return JokerEffect{MultMultiplier: 1}
		}
		return JokerEffect{MultMultiplier: current}
	case ScalingAddMoney:
		return JokerEffect{Money: v}
	default:
		return JokerEffect{}
	}
}
