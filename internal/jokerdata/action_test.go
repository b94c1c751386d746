package jokerdata

import (
	"testing"

	"jokerforge/internal/engine"
)

func TestApplyActionAddScore(t *testing.T) {
	a := ActionDef{Type: "add_score", Chips: 10, Mult: 2, Money: 1}
	effect, err := applyAction(a, "j", &engine.EvalContext{})
	if err != nil {
		t.Fatalf("applyAction: %v", err)
	}
	if effect.Chips != 10 || effect.Mult != 2 || effect.Money != 1 || effect.MultMultiplier != 1 {
		t.Fatalf("got %+v", effect)
	}
}

func TestApplyActionAddScoreDefaultsMultMultiplierToOne(t *testing.T) {
	effect, err := applyAction(ActionDef{Type: "add_score", Chips: 1}, "j", &engine.EvalContext{})
	if err != nil {
		t.Fatalf("applyAction: %v", err)
	}
	if effect.MultMultiplier != 1 {
		t.Fatalf("expected default mult_multiplier 1, got %v", effect.MultMultiplier)
	}
}

func TestApplyActionModifyStateSet(t *testing.T) {
	state := engine.NewJokerStateManager()
	ctx := &engine.EvalContext{State: state}
	effect, err := applyAction(ActionDef{Type: "modify_state", Field: "counter", Operation: "set", Value: float64(5)}, "j", ctx)
	if err != nil {
		t.Fatalf("applyAction: %v", err)
	}
	if !effect.IsZero() {
		t.Fatalf("expected modify_state to contribute a zero effect, got %+v", effect)
	}
	if got := state.GetState("j").Custom["counter"]; got != 5 {
		t.Fatalf("expected state field set to 5, got %v", got)
	}
}

func TestApplyActionModifyStateOperations(t *testing.T) {
	cases := []struct {
		op   string
		base float64
		want float64
	}{
		{"add", 10, 13},
		{"increment", 10, 13},
		{"subtract", 10, 7},
		{"decrement", 10, 7},
		{"multiply", 10, 30},
		{"divide", 9, 3},
	}
	for _, c := range cases {
		t.Run(c.op, func(t *testing.T) {
			state := engine.NewJokerStateManager()
			state.UpdateState("j", func(s engine.JokerState) engine.JokerState {
				s.Custom["x"] = c.base
				return s
			})
			ctx := &engine.EvalContext{State: state}
			if _, err := applyAction(ActionDef{Type: "modify_state", Field: "x", Operation: c.op, Value: float64(3)}, "j", ctx); err != nil {
				t.Fatalf("applyAction: %v", err)
			}
			if got := state.GetState("j").Custom["x"]; got != c.want {
				t.Errorf("%s(%v,3) = %v, want %v", c.op, c.base, got, c.want)
			}
		})
	}
}

func TestApplyActionModifyStateDivideByZeroIsNoOp(t *testing.T) {
	state := engine.NewJokerStateManager()
	state.UpdateState("j", func(s engine.JokerState) engine.JokerState {
		s.Custom["x"] = 9
		return s
	})
	ctx := &engine.EvalContext{State: state}
	if _, err := applyAction(ActionDef{Type: "modify_state", Field: "x", Operation: "divide", Value: float64(0)}, "j", ctx); err != nil {
		t.Fatalf("applyAction: %v", err)
	}
	if got := state.GetState("j").Custom["x"]; got != 9 {
		t.Fatalf("expected divide by zero to leave value unchanged, got %v", got)
	}
}

func TestApplyActionCalculateFormulas(t *testing.T) {
	ctx := &engine.EvalContext{HandsPlayed: 3, Ante: 2, Money: 10}
	cases := []struct {
		formula    string
		resultType string
		check      func(engine.JokerEffect) bool
	}{
		{"hands_played_times_two", "chips", func(e engine.JokerEffect) bool { return e.Chips == 6 }},
		{"ante_times_five", "mult", func(e engine.JokerEffect) bool { return e.Mult == 10 }},
		{"money_half", "money", func(e engine.JokerEffect) bool { return e.Money == 5 }},
	}
	for _, c := range cases {
		effect, err := applyAction(ActionDef{Type: "calculate", Formula: c.formula, ResultType: c.resultType}, "j", ctx)
		if err != nil {
			t.Fatalf("applyAction(%s): %v", c.formula, err)
		}
		if !c.check(effect) {
			t.Errorf("formula %s produced unexpected effect %+v", c.formula, effect)
		}
	}
}

func TestApplyActionCalculateUnknownFormulaErrors(t *testing.T) {
	if _, err := applyAction(ActionDef{Type: "calculate", Formula: "made_up"}, "j", &engine.EvalContext{}); err == nil {
		t.Fatal("expected an unknown formula to error")
	}
}

func TestApplyActionRetrigger(t *testing.T) {
	effect, err := applyAction(ActionDef{Type: "retrigger", Count: 3}, "j", &engine.EvalContext{})
	if err != nil {
		t.Fatalf("applyAction: %v", err)
	}
	if effect.RetriggerCount != 3 {
		t.Fatalf("expected RetriggerCount 3, got %d", effect.RetriggerCount)
	}
}

func TestApplyActionDestroySelf(t *testing.T) {
	effect, err := applyAction(ActionDef{Type: "destroy", Target: DestroyTargetDef{Type: "self"}}, "j", &engine.EvalContext{})
	if err != nil {
		t.Fatalf("applyAction: %v", err)
	}
	if len(effect.Destroy) != 1 || !effect.Destroy[0].Self_ {
		t.Fatalf("expected a self-destroy target, got %+v", effect.Destroy)
	}
}

func TestApplyActionDestroyOther(t *testing.T) {
	effect, err := applyAction(ActionDef{Type: "destroy", Target: DestroyTargetDef{Type: "other", JokerID: "rival"}}, "j", &engine.EvalContext{})
	if err != nil {
		t.Fatalf("applyAction: %v", err)
	}
	if len(effect.Destroy) != 1 || effect.Destroy[0].OtherID != "rival" {
		t.Fatalf("expected other-destroy target 'rival', got %+v", effect.Destroy)
	}
}

func TestApplyActionSequenceFoldsAdditively(t *testing.T) {
	a := ActionDef{Type: "sequence", Actions: []ActionDef{
		{Type: "add_score", Chips: 5},
		{Type: "add_score", Mult: 2},
	}}
	effect, err := applyAction(a, "j", &engine.EvalContext{})
	if err != nil {
		t.Fatalf("applyAction: %v", err)
	}
	if effect.Chips != 5 || effect.Mult != 2 {
		t.Fatalf("expected folded chips=5 mult=2, got %+v", effect)
	}
}

func TestApplyActionUnknownTypeErrors(t *testing.T) {
	if _, err := applyAction(ActionDef{Type: "not_a_real_action"}, "j", &engine.EvalContext{}); err == nil {
		t.Fatal("expected an unknown action type to error")
	}
}

func TestCombineEffectsMultipliesMultMultiplier(t *testing.T) {
	a := engine.JokerEffect{Chips: 1, MultMultiplier: 2}
	b := engine.JokerEffect{Chips: 2, MultMultiplier: 3}
	got := combineEffects(a, b)
	if got.Chips != 3 {
		t.Fatalf("expected chips 3, got %d", got.Chips)
	}
	if got.MultMultiplier != 6 {
		t.Fatalf("expected mult_multiplier 6, got %v", got.MultMultiplier)
	}
}

func TestCombineEffectsZeroMultMultiplierActsAsIdentity(t *testing.T) {
	a := engine.JokerEffect{Chips: 1}
	b := engine.JokerEffect{Chips: 2}
	got := combineEffects(a, b)
	if got.MultMultiplier != 1 {
		t.Fatalf("expected identity mult_multiplier 1 when neither side sets one, got %v", got.MultMultiplier)
	}
}
