package engine

import (
	"context"
	"math"
	"testing"
)

// fixedEffectJoker always returns the same JokerEffect, optionally counting
// how many times its hook has been invoked — used to drive retrigger tests.
type fixedEffectJoker struct {
	BaseJoker
	effect JokerEffect
	cost   EvaluationCost
	calls  int
}

func (j *fixedEffectJoker) OnEvent(ctx *EvalContext) (JokerEffect, error) {
	j.calls++
	return j.effect, nil
}

func (j *fixedEffectJoker) EvaluationCost() EvaluationCost { return j.cost }

func newFixedJoker(id string, effect JokerEffect) *fixedEffectJoker {
	return &fixedEffectJoker{BaseJoker: BaseJoker{IDValue: JokerID(id), Name: id}, effect: effect}
}

func newEntries(jokers ...*fixedEffectJoker) []jokerEntry {
	entries := make([]jokerEntry, len(jokers))
	for i, j := range jokers {
		entries[i] = jokerEntry{ID: j.ID(), Gameplay: j}
	}
	return entries
}

// TestEffectProcessorPairPlusMultJokerScenarioS2 follows the spec's S2
// end-to-end scenario: a pair of 7s plus one joker granting +4 mult.
func TestEffectProcessorPairPlusMultJokerScenarioS2(t *testing.T) {
	if err := LoadConfig(t.TempDir()); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	hand := Hand{Cards: []Card{{Rank: Seven, Suit: Hearts}, {Rank: Seven, Suit: Clubs}}}
	result := EvaluateHand(hand, nil, HandOptions{})

	joker := newFixedJoker("mult_joker", JokerEffect{Mult: 4})
	p := NewEffectProcessor()
	state := NewJokerStateManager()
	evalCtx := &EvalContext{Event: EventHandScored, Hand: hand, Result: &result, State: state}

	proc, err := p.Process(context.Background(), evalCtx, newEntries(joker), true)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	finalMult := result.Mult + proc.Mult
	finalScore := (result.BaseChips + proc.Chips + result.CardValue) * finalMult
	if finalScore != 144 {
		t.Fatalf("expected final score 144 per spec S2, got %d (mult=%d)", finalScore, finalMult)
	}
}

// TestEffectProcessorRetriggerCapScenarioS4 follows the spec's S4 scenario:
// a joker returning mult:+1 with an effectively unbounded retrigger request
// must fire exactly retrigger_cap+1 times.
func TestEffectProcessorRetriggerCapScenarioS4(t *testing.T) {
	joker := newFixedJoker("retrigger_joker", JokerEffect{Mult: 1, RetriggerCount: math.MaxInt32})
	p := NewEffectProcessor()
	state := NewJokerStateManager()
	evalCtx := &EvalContext{Event: EventHandScored, State: state}

	result, err := p.Process(context.Background(), evalCtx, newEntries(joker), true)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	wantCalls := p.MaxRetriggerDepth + 1
	if joker.calls != wantCalls {
		t.Fatalf("expected hook invoked %d times, got %d", wantCalls, joker.calls)
	}
	if result.Mult != wantCalls {
		t.Fatalf("expected mult bonus %d, got %d", wantCalls, result.Mult)
	}
}

func TestEffectProcessorNeverExceedsRetriggerCapRegardlessOfDepth(t *testing.T) {
	joker := newFixedJoker("retrigger_joker", JokerEffect{Mult: 1, RetriggerCount: 1000})
	p := NewEffectProcessor()
	p.MaxRetriggerDepth = 3
	state := NewJokerStateManager()
	evalCtx := &EvalContext{Event: EventHandScored, State: state}

	if _, err := p.Process(context.Background(), evalCtx, newEntries(joker), true); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if joker.calls != 4 {
		t.Fatalf("expected exactly cap+1=4 invocations, got %d", joker.calls)
	}
}

// TestEffectProcessorRetriggerExecutesExactlyRequestedCount guards against
// treating RetriggerCount as a boolean re-read from each re-execution's own
// effect: a joker that always reports retrigger=1 (as a stateless
// declarative "retrigger" action does, since it has no per-call state to
// decrement) must fire its hook exactly once more — one base call plus one
// retrigger, not spin until the depth cap.
func TestEffectProcessorRetriggerExecutesExactlyRequestedCount(t *testing.T) {
	joker := newFixedJoker("face_retrigger", JokerEffect{Chips: 10, RetriggerCount: 1})
	p := NewEffectProcessor()
	state := NewJokerStateManager()
	evalCtx := &EvalContext{Event: EventCardScored, State: state}

	result, err := p.Process(context.Background(), evalCtx, newEntries(joker), true)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if joker.calls != 2 {
		t.Fatalf("expected exactly 1 base call + 1 retrigger = 2 invocations, got %d", joker.calls)
	}
	if result.Chips != 20 {
		t.Fatalf("expected chips folded twice (20), got %d", result.Chips)
	}
}

func TestEffectProcessorMultMultiplierAlwaysMultiplicative(t *testing.T) {
	a := newFixedJoker("a", JokerEffect{MultMultiplier: 2})
	b := newFixedJoker("b", JokerEffect{MultMultiplier: 3})
	p := NewEffectProcessor()
	p.Conflict = ResolveMaximum // even under a non-sum strategy, multiplier must multiply
	state := NewJokerStateManager()
	evalCtx := &EvalContext{Event: EventHandScored, State: state}

	result, err := p.Process(context.Background(), evalCtx, newEntries(a, b), true)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.MultMultiplier != 6 {
		t.Fatalf("expected multipliers to combine multiplicatively to 6, got %v", result.MultMultiplier)
	}
}

func TestEffectProcessorDefaultMultMultiplierIsOne(t *testing.T) {
	p := NewEffectProcessor()
	state := NewJokerStateManager()
	evalCtx := &EvalContext{Event: EventHandScored, State: state}

	result, err := p.Process(context.Background(), evalCtx, nil, true)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.MultMultiplier != 1 {
		t.Fatalf("expected default mult multiplier 1 with no jokers, got %v", result.MultMultiplier)
	}
}

func TestEffectProcessorConflictResolutionMaximum(t *testing.T) {
	a := newFixedJoker("a", JokerEffect{Chips: 10})
	b := newFixedJoker("b", JokerEffect{Chips: 20})
	p := NewEffectProcessor()
	p.Conflict = ResolveMaximum
	state := NewJokerStateManager()
	evalCtx := &EvalContext{Event: EventHandScored, State: state}

	result, err := p.Process(context.Background(), evalCtx, newEntries(a, b), true)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.Chips != 20 {
		t.Fatalf("expected max(10,20)=20, got %d", result.Chips)
	}
}

func TestEffectProcessorConflictResolutionSumIsDefault(t *testing.T) {
	a := newFixedJoker("a", JokerEffect{Chips: 10})
	b := newFixedJoker("b", JokerEffect{Chips: 20})
	p := NewEffectProcessor()
	state := NewJokerStateManager()
	evalCtx := &EvalContext{Event: EventHandScored, State: state}

	result, err := p.Process(context.Background(), evalCtx, newEntries(a, b), true)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.Chips != 30 {
		t.Fatalf("expected sum 10+20=30, got %d", result.Chips)
	}
}

// TestEffectProcessorPriorityOrderPreservesSlotOrderOnTies checks that
// within a priority tier, original slot order is preserved (used here via
// FirstWins, which only makes sense if ties kept slot order intact).
func TestEffectProcessorPriorityOrderPreservesSlotOrderOnTies(t *testing.T) {
	a := newFixedJoker("a", JokerEffect{Chips: 1})
	b := newFixedJoker("b", JokerEffect{Chips: 2})
	p := NewEffectProcessor()
	p.Conflict = ResolveFirstWins
	state := NewJokerStateManager()
	evalCtx := &EvalContext{Event: EventHandScored, State: state}

	result, err := p.Process(context.Background(), evalCtx, newEntries(a, b), true)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.Chips != 1 {
		t.Fatalf("expected FirstWins to keep slot-first joker a's effect (1), got %d", result.Chips)
	}
}

// TestEffectProcessorCacheConsistency is the spec's cache-consistency
// testable property: with caching enabled vs. disabled, results must be
// bit-identical for the same inputs.
func TestEffectProcessorCacheConsistency(t *testing.T) {
	joker := newFixedJoker("a", JokerEffect{Chips: 7, Mult: 2})
	state := NewJokerStateManager()
	evalCtx := &EvalContext{Event: EventHandScored, State: state}

	cached := NewEffectProcessor()
	withCache, err := cached.Process(context.Background(), evalCtx, newEntries(joker), false)
	if err != nil {
		t.Fatalf("Process (cached): %v", err)
	}
	// second call should hit the cache without re-invoking the hook.
	callsBefore := joker.calls
	withCache2, err := cached.Process(context.Background(), evalCtx, newEntries(joker), false)
	if err != nil {
		t.Fatalf("Process (cached, 2nd): %v", err)
	}
	if joker.calls != callsBefore {
		t.Fatalf("expected cache hit to skip re-invoking the hook")
	}

	uncached := NewEffectProcessor()
	joker2 := newFixedJoker("a", JokerEffect{Chips: 7, Mult: 2})
	withoutCache, err := uncached.Process(context.Background(), evalCtx, newEntries(joker2), true)
	if err != nil {
		t.Fatalf("Process (uncached): %v", err)
	}

	if withCache.Chips != withoutCache.Chips || withCache.Mult != withoutCache.Mult ||
		withCache.MultMultiplier != withoutCache.MultMultiplier {
		t.Fatalf("cached and uncached results differ: %+v vs %+v", withCache, withoutCache)
	}
	if withCache2.Chips != withCache.Chips {
		t.Fatalf("cached result changed between calls: %+v vs %+v", withCache, withCache2)
	}
}

// moneyConditionalJoker returns a different effect depending on the
// context's Money field, used to prove the cache fingerprint actually
// covers context fields a condition-bearing joker could read.
type moneyConditionalJoker struct {
	BaseJoker
	calls int
}

func (j *moneyConditionalJoker) OnEvent(ctx *EvalContext) (JokerEffect, error) {
	j.calls++
	if ctx.Money < 10 {
		return JokerEffect{Chips: 5}, nil
	}
	return JokerEffect{Chips: 0}, nil
}

// TestEffectProcessorCacheFingerprintCoversContextFields guards against a
// fingerprint keyed only on event/joker-versions/hand-type: a money-
// conditional joker evaluated twice with different Money context must not
// be served the first call's cached result for the second.
func TestEffectProcessorCacheFingerprintCoversContextFields(t *testing.T) {
	joker := &moneyConditionalJoker{BaseJoker: BaseJoker{IDValue: "broke_joker", Name: "broke_joker"}}
	p := NewEffectProcessor()
	state := NewJokerStateManager()
	entries := []jokerEntry{{ID: joker.ID(), Gameplay: joker}}

	poor := &EvalContext{Event: EventHandScored, State: state, Money: 2}
	resultPoor, err := p.Process(context.Background(), poor, entries, false)
	if err != nil {
		t.Fatalf("Process (poor): %v", err)
	}
	if resultPoor.Chips != 5 {
		t.Fatalf("expected +5 chips under 10 money, got %d", resultPoor.Chips)
	}

	rich := &EvalContext{Event: EventHandScored, State: state, Money: 500}
	resultRich, err := p.Process(context.Background(), rich, entries, false)
	if err != nil {
		t.Fatalf("Process (rich): %v", err)
	}
	if resultRich.Chips != 0 {
		t.Fatalf("expected 0 chips at 500 money, got %d (stale cache hit from the poor-money pass)", resultRich.Chips)
	}
}

// TestEffectProcessorCacheFingerprintCoversHandCards guards against a
// fingerprint keyed only on hand-type name: two hands that classify to the
// same HandRank but contain different cards (and so score differently for
// a card-conditional joker) must fingerprint differently.
func TestEffectProcessorCacheFingerprintCoversHandCards(t *testing.T) {
	p := NewEffectProcessor()
	state := NewJokerStateManager()
	jokers := []jokerEntry{{ID: "noop", Gameplay: newFixedJoker("noop", JokerEffect{})}}

	diamondHand := &EvalContext{
		Event: EventCardScored,
		State: state,
		Card:  &Card{Rank: King, Suit: Diamonds},
	}
	heartHand := &EvalContext{
		Event: EventCardScored,
		State: state,
		Card:  &Card{Rank: King, Suit: Hearts},
	}

	fpDiamond, ok := p.fingerprint(diamondHand, jokers)
	if !ok {
		t.Fatal("expected a fingerprint to be derivable")
	}
	fpHeart, ok := p.fingerprint(heartHand, jokers)
	if !ok {
		t.Fatal("expected a fingerprint to be derivable")
	}
	if fpDiamond == fpHeart {
		t.Fatal("expected different scored cards to produce different fingerprints")
	}
}

func TestEffectProcessorMutatingPassNeverCaches(t *testing.T) {
	joker := newFixedJoker("a", JokerEffect{Chips: 1})
	p := NewEffectProcessor()
	state := NewJokerStateManager()
	evalCtx := &EvalContext{Event: EventHandScored, State: state}

	if _, err := p.Process(context.Background(), evalCtx, newEntries(joker), true); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, err := p.Process(context.Background(), evalCtx, newEntries(joker), true); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if joker.calls != 2 {
		t.Fatalf("expected a mutating pass to invoke the hook every time, got %d calls", joker.calls)
	}
}
