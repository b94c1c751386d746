package engine

import "github.com/google/uuid"

// Event is something that happened during a run, emitted for any number of
// subscribed listeners (console presentation, a replay logger, a test
// harness) to observe. Kept as the teacher's minimal Event interface.
type Event interface {
	EventType() string
}

// GameStartedEvent fires once when a new run begins.
type GameStartedEvent struct{ Seed int64 }

func (e GameStartedEvent) EventType() string { return "game_started" }

// GameOverEvent fires when a blind is failed.
type GameOverEvent struct {
	FinalScore int
	Target     int
	Ante       int
}

func (e GameOverEvent) EventType() string { return "game_over" }

// VictoryEvent fires when the final ante's boss blind is defeated.
type VictoryEvent struct{}

func (e VictoryEvent) EventType() string { return "victory" }

// StageChangedEvent fires on every Stage Machine transition, generalizing
// the teacher's ad hoc GameStateChangedEvent/NewBlindStartedEvent pair into
// one event the Stage Machine itself emits.
type StageChangedEvent struct {
	From  Stage
	To    Stage
	Ante  int
	Blind BlindType
}

func (e StageChangedEvent) EventType() string { return "stage_changed" }

// HandPlayedEvent carries the full breakdown of one scored hand.
type HandPlayedEvent struct {
	SelectedCards []Card
	HandType      string
	BaseChips     int
	CardValues    int
	Multiplier    int
	JokerChips    int
	JokerMult     int
	MultFactor    float64
	FinalScore    int
	NewTotalScore int
}

func (e HandPlayedEvent) EventType() string { return "hand_played" }

// CardsDiscardedEvent fires after a discard action is applied.
type CardsDiscardedEvent struct {
	DiscardedCards []Card
	DiscardsLeft   int
}

func (e CardsDiscardedEvent) EventType() string { return "cards_discarded" }

// BlindDefeatedEvent fires when a blind's score target is reached.
type BlindDefeatedEvent struct {
	BlindType      BlindType
	Score          int
	Target         int
	TotalReward    int
	NewMoney       int
	UnusedHands    int
	UnusedDiscards int
}

func (e BlindDefeatedEvent) EventType() string { return "blind_defeated" }

// ShopOpenedEvent, ShopItemPurchasedEvent, ShopClosedEvent describe shop
// interaction, kept from the teacher nearly verbatim.
type ShopOpenedEvent struct {
	Money      int
	RerollCost int
	Items      []ShopItemData
}

func (e ShopOpenedEvent) EventType() string { return "shop_opened" }

type ShopItemData struct {
	Name        string
	Description string
	Cost        int
	CanAfford   bool
}

type ShopItemPurchasedEvent struct {
	Item           ShopItemData
	RemainingMoney int
}

func (e ShopItemPurchasedEvent) EventType() string { return "shop_item_purchased" }

type ShopClosedEvent struct{}

func (e ShopClosedEvent) EventType() string { return "shop_closed" }

// ShopRerolledEvent fires after a successful reroll, carrying the new
// offering alongside the cost paid and the next reroll's price.
type ShopRerolledEvent struct {
	Cost           int
	NewRerollCost  int
	RemainingMoney int
	NewItems       []ShopItemData
}

func (e ShopRerolledEvent) EventType() string { return "shop_rerolled" }

// JokerSoldEvent fires after a joker is sold back from the joker row.
type JokerSoldEvent struct {
	Joker          ShopItemData
	SellValue      int
	RemainingMoney int
}

func (e JokerSoldEvent) EventType() string { return "joker_sold" }

// JokerMovedEvent fires after a joker's slot position changes.
type JokerMovedEvent struct {
	Name      string
	Direction string
}

func (e JokerMovedEvent) EventType() string { return "joker_moved" }

// JokerDestroyedEvent fires when a destroy action removes a joker outside
// of a player-initiated sale (self-destruction, or one joker destroying
// another).
type JokerDestroyedEvent struct {
	Name string
}

func (e JokerDestroyedEvent) EventType() string { return "joker_destroyed" }

// BlindSkippedEvent fires when a blind is skipped instead of played,
// carrying the skip tag awarded in exchange.
type BlindSkippedEvent struct {
	BlindType BlindType
	Tag       SkipTag
}

func (e BlindSkippedEvent) EventType() string { return "blind_skipped" }

// InvalidActionEvent fires when Apply rejects an action.
type InvalidActionEvent struct {
	Action string
	Reason string
}

func (e InvalidActionEvent) EventType() string { return "invalid_action" }

// MessageEvent is a free-form note for the console (info/warning/error).
type MessageEvent struct {
	Message string
	Type    string
}

func (e MessageEvent) EventType() string { return "message" }

// PipelineDiagnosticEvent exposes one Effect Processor run to subscribers
// for debugging/tuning joker interactions, per the spec's driver contract
// requirement that diagnostics be observable without being part of the
// scoring result itself. CorrelationID is a fresh uuid minted for each
// diagnostic, unique to that event; no other event carries it.
type PipelineDiagnosticEvent struct {
	CorrelationID  string
	Event          GameEvent
	JokerCount     int
	RetriggerDepth int
	CacheHit       bool
}

func (e PipelineDiagnosticEvent) EventType() string { return "pipeline_diagnostic" }

func newCorrelationID() string {
	return uuid.NewString()
}

// Listener receives every emitted event. Multiple listeners may be
// subscribed at once — generalizing the teacher's single EventHandler into
// the spec's Subscribe contract.
type Listener interface {
	HandleEvent(event Event)
}

// EventEmitter fans an event out to every subscribed listener.
type EventEmitter struct {
	listeners []Listener
}

func NewEventEmitter() *EventEmitter {
	return &EventEmitter{}
}

// Subscribe registers a listener and returns an unsubscribe function.
func (e *EventEmitter) Subscribe(l Listener) (unsubscribe func()) {
	e.listeners = append(e.listeners, l)
	idx := len(e.listeners) - 1
	return func() {
		if idx < len(e.listeners) {
			e.listeners[idx] = nil
		}
	}
}

func (e *EventEmitter) Emit(event Event) {
	for _, l := range e.listeners {
		if l != nil {
			l.HandleEvent(event)
		}
	}
}

func (e *EventEmitter) EmitMessage(msg, kind string) {
	e.Emit(MessageEvent{Message: msg, Type: kind})
}

func (e *EventEmitter) EmitInfo(msg string)    { e.EmitMessage(msg, "info") }
func (e *EventEmitter) EmitError(msg string)   { e.EmitMessage(msg, "error") }
func (e *EventEmitter) EmitSuccess(msg string) { e.EmitMessage(msg, "success") }
func (e *EventEmitter) EmitWarning(msg string) { e.EmitMessage(msg, "warning") }
