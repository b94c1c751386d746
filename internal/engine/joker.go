package engine

// JokerID is a stable identifier for a joker definition, used as the key
// into the JokerStateManager and in persisted state.
type JokerID string

// JokerRarity mirrors the shop rarity tiers.
type JokerRarity string

const (
	RarityCommon    JokerRarity = "common"
	RarityUncommon  JokerRarity = "uncommon"
	RarityRare      JokerRarity = "rare"
	RarityLegendary JokerRarity = "legendary"
)

// EvaluationCost is a hint the Effect Processor's Collect stage uses to
// decide how a joker is polled: Cheap and Moderate jokers concurrently,
// Expensive and VeryExpensive ones sequentially. Every joker is polled on
// every event either way. Translated
// from original_source's joker/advanced_traits.rs EvaluationCost.
type EvaluationCost int

const (
	CostCheap EvaluationCost = iota
	CostModerate
	CostExpensive
	CostVeryExpensive
)

// GameEvent is a point in the scoring/round lifecycle a joker can react to.
type GameEvent int

const (
	EventHandScored GameEvent = iota
	EventCardScored
	EventHandDiscarded
	EventBlindStart
	EventBlindEnd
	EventRoundStart
	EventShopEnter
	EventShopExit
	EventCardDestroyed
)

// DestroyTarget addresses what a destroy action removes, grounded on
// original_source's joker_toml_schema.rs TomlDestroyTarget and the
// multi-select shape of target_context.rs's TargetCollection.
type DestroyTarget struct {
	Self_   bool
	OtherID JokerID
	Random  int
}

// EvalContext is everything a joker's gameplay hook needs to inspect to
// decide its effect: the cards involved, the hand classification if any,
// and a handle back to its own state. It never exposes the orchestrator
// itself, so joker code can't reach across to mutate unrelated state.
type EvalContext struct {
	Event      GameEvent
	Hand       Hand
	Result     *HandResult // nil outside hand-scoring events
	Card       *Card       // non-nil for per-card events
	State      *JokerStateManager
	Self       JokerID
	Ante       int
	Blind      BlindType
	RNG        *GameRNG

	// Money, HandsPlayed, and DiscardsUsed mirror the orchestrator's resource
	// counters at the moment of the event, letting declarative conditions
	// (jokerdata) reference game state without reaching back into Game.
	Money        int
	HandsPlayed  int
	DiscardsUsed int
}

// JokerEffect is what a joker contributes to the current evaluation: additive
// chips/mult, a multiplicative mult factor (always combined multiplicatively,
// never subject to ConflictResolutionStrategy — see priority_strategy.rs),
// money, an optional retrigger request, and optional destroy targets.
type JokerEffect struct {
	Chips          int
	Mult           int
	MultMultiplier float64
	Money          int
	RetriggerCount int
	Destroy        []DestroyTarget
	Message        string
}

// IsZero reports whether this effect contributes nothing, letting the
// Effect Processor's Collect stage skip a no-op cheaply.
func (e JokerEffect) IsZero() bool {
	return e.Chips == 0 && e.Mult == 0 && (e.MultMultiplier == 0 || e.MultMultiplier == 1) &&
		e.Money == 0 && e.RetriggerCount == 0 && len(e.Destroy) == 0
}

// JokerIdentity is the always-present capability: who this joker is.
type JokerIdentity interface {
	ID() JokerID
	DisplayName() string
	Rarity() JokerRarity
	ShopCost() int
}

// JokerGameplay is the capability of reacting to a scoring-relevant event.
// Not every joker implements it — a purely cosmetic or passive joker may
// only implement JokerIdentity.
type JokerGameplay interface {
	OnEvent(ctx *EvalContext) (JokerEffect, error)
	EvaluationCost() EvaluationCost
}

// JokerModifier is the capability of altering a card's enhancement or a
// hand's classification options before scoring (e.g. four-fingers, an
// enhancement-granting joker).
type JokerModifier interface {
	ModifyHandOptions(opts HandOptions) HandOptions
	ModifyCard(c Card) Card
}

// JokerLifecycle is the capability of reacting to acquisition/removal,
// independent of any scoring event.
type JokerLifecycle interface {
	OnAcquire(ctx *EvalContext)
	OnSell(ctx *EvalContext) int // returns sell value
	OnDestroy(ctx *EvalContext)
}

// JokerStateful is the capability of owning persisted, versioned state in
// the JokerStateManager.
type JokerStateful interface {
	InitialState() JokerState
	MigrateState(old JokerState, fromVersion int) JokerState
}

// Joker is the full capability set a concrete joker may implement. Only
// JokerIdentity is required; callers type-assert for the rest, the same
// composition-over-inheritance approach original_source's advanced_traits.rs
// takes with its trait-object split.
type Joker interface {
	JokerIdentity
}

// BaseJoker gives a concrete joker type no-op defaults for every optional
// capability, so a simple joker can embed it and only override what it
// needs — mirroring the teacher's flat Joker struct's "zero value means no
// effect" convention, generalized to the capability-set model.
type BaseJoker struct {
	IDValue     JokerID
	Name        string
	RarityValue JokerRarity
	Cost        int
}

func (b BaseJoker) ID() JokerID            { return b.IDValue }
func (b BaseJoker) DisplayName() string    { return b.Name }
func (b BaseJoker) Rarity() JokerRarity    { return b.RarityValue }
func (b BaseJoker) ShopCost() int          { return b.Cost }
