package engine

import (
	"context"
	"fmt"
	"sort"
)

// Game constants, carried over from the teacher's game.go.
const (
	MaxHands      = 4
	MaxDiscards   = 3
	InitialCards  = 7
	MaxAntes      = 8
	StartingMoney = 4
)

const (
	SmallBlindReward    = 4
	BigBlindReward      = 5
	BossBlindReward     = 6
	UnusedHandReward    = 1
	UnusedDiscardReward = 1
	initialRerollCost   = 5
	shopSlotCount       = 2
)

// SortMode controls hand display ordering.
type SortMode int

const (
	SortByRank SortMode = iota
	SortBySuit
)

// installedJoker pairs a Joker's identity with whichever optional
// capabilities it implements, resolved once at install time via type
// assertion rather than re-asserted on every event.
type installedJoker struct {
	Joker    Joker
	Gameplay JokerGameplay
	Modifier JokerModifier
	Lifecycle JokerLifecycle
	Stateful JokerStateful
}

// Game is the orchestrator: it owns the deck, hand, jokers, both RNGs, the
// joker state manager, and the effect processor, and is the only thing
// permitted to mutate any of them. All mutation happens through Apply, on
// a single goroutine — the orchestrator is not reentrant, matching the
// spec's single-threaded cooperative scoring-pass model.
type Game struct {
	rng       *GameRNG
	secureRNG SecureRNG

	deck        *Deck
	hand        []Card
	sortMode    SortMode
	displayToOriginal []int

	stage       Stage
	ante        int
	blind       BlindType
	target      int
	boss        Boss
	totalScore  int
	handsPlayed int
	discardsUsed int
	money       int
	rerollCost  int
	handLevels  map[string]int

	jokers    []*installedJoker
	consumables []string
	vouchers    []string
	shopOffers  []JokerID

	state     *JokerStateManager
	processor *EffectProcessor
	emitter   *EventEmitter

	baseDir string
}

// NewGame starts a fresh run seeded deterministically, with the given
// starting jokers and a base directory to load CSV/YAML content from.
func NewGame(seed int64, jokers []Joker, baseDir string) (*Game, error) {
	if err := LoadConfig(baseDir); err != nil {
		return nil, wrapError(ErrKindSystem, "game: failed to load config", err)
	}
	if err := LoadBossConfigs(baseDir); err != nil {
		return nil, wrapError(ErrKindSystem, "game: failed to load boss config", err)
	}
	if err := LoadSkipTagCatalog(baseDir); err != nil {
		return nil, wrapError(ErrKindSystem, "game: failed to load skip tag catalog", err)
	}

	g := &Game{
		rng:        NewGameRNG(seed),
		deck:       NewStandardDeck(),
		sortMode:   SortByRank,
		stage:      StagePreBlind,
		ante:       1,
		blind:      SmallBlind,
		money:      StartingMoney,
		rerollCost: initialRerollCost,
		handLevels: make(map[string]int),
		state:      NewJokerStateManager(),
		processor:  NewEffectProcessor(),
		emitter:    NewEventEmitter(),
		baseDir:    baseDir,
	}

	g.deck.Shuffle(g.rng)
	for _, j := range jokers {
		g.installJoker(j)
	}

	g.target = GetAnteRequirement(g.ante, g.blind)
	if err := g.dealInitialHand(); err != nil {
		return nil, err
	}

	g.emitter.Emit(GameStartedEvent{Seed: seed})
	return g, nil
}

func (g *Game) installJoker(j Joker) *installedJoker {
	ij := &installedJoker{Joker: j}
	if gp, ok := j.(JokerGameplay); ok {
		ij.Gameplay = gp
	}
	if m, ok := j.(JokerModifier); ok {
		ij.Modifier = m
	}
	if lc, ok := j.(JokerLifecycle); ok {
		ij.Lifecycle = lc
	}
	if st, ok := j.(JokerStateful); ok {
		ij.Stateful = st
		g.state.UpdateState(j.ID(), func(JokerState) JokerState { return st.InitialState() })
	}
	g.jokers = append(g.jokers, ij)
	return ij
}

func (g *Game) handSize() int {
	size := InitialCards
	for _, ij := range g.jokers {
		if v := g.state.GetAccumulatedValue(ij.Joker.ID(), "hand_size_bonus"); v != 0 {
			size += int(v)
		}
	}
	return size
}

func (g *Game) maxDiscards() int {
	max := MaxDiscards
	for _, ij := range g.jokers {
		if v := g.state.GetAccumulatedValue(ij.Joker.ID(), "discard_bonus"); v != 0 {
			max += int(v)
		}
	}
	return max
}

func (g *Game) dealInitialHand() error {
	n := g.handSize()
	cards, err := g.deck.Draw(n)
	if err != nil {
		return err
	}
	g.hand = cards
	g.resort()
	return nil
}

func (g *Game) resort() {
	type indexed struct {
		card  Card
		index int
	}
	items := make([]indexed, len(g.hand))
	for i, c := range g.hand {
		items[i] = indexed{card: c, index: i}
	}
	sort.Slice(items, func(i, j int) bool {
		if g.sortMode == SortByRank {
			return items[i].card.Rank < items[j].card.Rank
		}
		if items[i].card.Suit != items[j].card.Suit {
			return items[i].card.Suit < items[j].card.Suit
		}
		return items[i].card.Rank < items[j].card.Rank
	})
	sorted := make([]Card, len(items))
	mapping := make([]int, len(items))
	for i, it := range items {
		sorted[i] = it.card
		mapping[i] = it.index
	}
	g.hand = sorted
	g.displayToOriginal = mapping
}

// Subscribe registers a listener for every emitted event, including stage
// transitions and pipeline diagnostics.
func (g *Game) Subscribe(l Listener) (unsubscribe func()) {
	return g.emitter.Subscribe(l)
}

// GenerateActions enumerates the actions legal in the current stage.
func (g *Game) GenerateActions() []Action {
	return GenerateActions(ActionContext{
		Stage:          g.stage,
		HandsRemaining: MaxHands - g.handsPlayed,
		DiscardsLeft:   g.maxDiscards() - g.discardsUsed,
		HandSize:       len(g.hand),
		JokerCount:     len(g.jokers),
		Money:          g.money,
		RerollCost:     g.rerollCost,
		ShopSlotCount:  len(g.shopOffers),
		BlindIsBoss:    g.blind == BossBlind,
	})
}

// Apply executes one action against the current state, returning the
// resulting Event or an error classified per the driver taxonomy.
func (g *Game) Apply(a Action) (Event, error) {
	switch a.Type {
	case ActionSelectBlind:
		return g.applySelectBlind()
	case ActionPlayHand:
		return g.applyPlayHand(a.Indices)
	case ActionDiscard:
		return g.applyDiscard(a.Indices)
	case ActionReorderHand:
		return g.applyReorder()
	case ActionSkipBlind:
		return g.applySkipBlind()
	case ActionMoveJoker:
		return g.applyMoveJoker(a)
	case ActionBuyItem:
		return g.applyBuyItem(a)
	case ActionRerollShop:
		return g.applyRerollShop()
	case ActionSellJoker:
		return g.applySellJoker(a)
	case ActionExitShop:
		return g.applyExitShop()
	default:
		return nil, newError(ErrKindInput, fmt.Sprintf("game: unsupported action %s", a.Type))
	}
}

// applySkipBlind bypasses the current blind without playing it, awarding a
// skip tag in exchange. Boss blinds can't be skipped — Transition enforces
// that, so this just surfaces its error.
func (g *Game) applySkipBlind() (Event, error) {
	if g.stage != StagePreBlind {
		return nil, newError(ErrKindState, "game: cannot skip a blind outside PreBlind")
	}
	skippedBlind := g.blind
	next, ante, blind, err := Transition(g.stage, EventSkipBlind, g.ante, g.blind, MaxAntes)
	if err != nil {
		return nil, err
	}
	from := g.stage
	g.stage, g.ante, g.blind = next, ante, blind

	tag := g.awardSkipTag()

	if g.stage == StageShop {
		if err := g.enterShop(); err != nil {
			return nil, err
		}
	}

	g.emitter.Emit(StageChangedEvent{From: from, To: g.stage, Ante: g.ante, Blind: g.blind})
	ev := BlindSkippedEvent{BlindType: skippedBlind, Tag: tag}
	g.emitter.Emit(ev)
	return ev, nil
}

// awardSkipTag draws one tag from the catalog using the gameplay RNG and
// applies its immediate-reward category inline (a flat +5 money). Tags of
// the other categories change nothing inside Game and are not stored on it;
// the drawn tag is only returned, and the caller carries it on
// BlindSkippedEvent.
func (g *Game) awardSkipTag() SkipTag {
	ids := make([]TagID, 0, len(skipTagCatalog))
	for id := range skipTagCatalog {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if len(ids) == 0 {
		return SkipTag{}
	}
	tag := skipTagCatalog[Choose(g.rng, ids)]
	if tag.EffectType == ImmediateReward {
		g.money += 5
	}
	return tag
}

func (g *Game) applySelectBlind() (Event, error) {
	if g.stage != StagePreBlind {
		return nil, newError(ErrKindState, "game: cannot select a blind outside PreBlind")
	}
	next, ante, blind, err := Transition(g.stage, EventBlindSelected, g.ante, g.blind, MaxAntes)
	if err != nil {
		return nil, err
	}
	from := g.stage
	g.stage, g.ante, g.blind = next, ante, blind
	if err := g.runLifecycleHook(EventBlindStart); err != nil {
		return nil, err
	}
	ev := StageChangedEvent{From: from, To: g.stage, Ante: g.ante, Blind: g.blind}
	g.emitter.Emit(ev)
	return ev, nil
}

func (g *Game) applyPlayHand(indices []int) (Event, error) {
	if g.stage != StageBlind {
		return nil, newError(ErrKindState, "game: cannot play a hand outside the Blind stage")
	}
	if g.handsPlayed >= MaxHands {
		return nil, newError(ErrKindResource, "game: no hands remaining")
	}
	selected, err := g.selectCards(indices)
	if err != nil {
		return nil, err
	}

	result := EvaluateHand(Hand{Cards: selected}, g.handLevels, g.handOptions())

	evalCtx := &EvalContext{
		Event:        EventHandScored,
		Hand:         Hand{Cards: selected},
		Result:       &result,
		State:        g.state,
		Ante:         g.ante,
		Blind:        g.blind,
		RNG:          g.rng,
		Money:        g.money,
		HandsPlayed:  g.handsPlayed,
		DiscardsUsed: g.discardsUsed,
	}

	procResult, err := g.runProcessor(evalCtx, true)
	if err != nil {
		return nil, err
	}

	cardResult, err := g.processScoredCards(scoringCards(selected))
	if err != nil {
		return nil, err
	}
	procResult = mergeProcessResults(procResult, cardResult)

	finalMult := (result.Mult + procResult.Mult)
	multFactor := procResult.MultMultiplier
	if multFactor == 0 {
		multFactor = 1
	}
	finalScore := int(float64((result.BaseChips+procResult.Chips+result.CardValue)*finalMult) * multFactor)

	g.totalScore += finalScore
	g.money += procResult.Money
	g.handsPlayed++

	if err := g.removeAndDeal(indices); err != nil {
		return nil, err
	}

	g.applyDestroys(procResult.Destroy)

	ev := HandPlayedEvent{
		SelectedCards: selected,
		HandType:      result.Evaluator.Name(),
		BaseChips:     result.BaseChips,
		CardValues:    result.CardValue,
		Multiplier:    result.Mult,
		JokerChips:    procResult.Chips,
		JokerMult:     procResult.Mult,
		MultFactor:    multFactor,
		FinalScore:    finalScore,
		NewTotalScore: g.totalScore,
	}
	g.emitter.Emit(ev)

	if g.totalScore >= g.target {
		if _, err := g.completeBlind(); err != nil {
			return nil, err
		}
	} else if g.handsPlayed >= MaxHands {
		next, ante, blind, err := Transition(g.stage, EventBlindFailed, g.ante, g.blind, MaxAntes)
		if err != nil {
			return nil, err
		}
		from := g.stage
		g.stage, g.ante, g.blind = next, ante, blind
		g.emitter.Emit(StageChangedEvent{From: from, To: g.stage, Ante: g.ante, Blind: g.blind})
		g.emitter.Emit(GameOverEvent{FinalScore: g.totalScore, Target: g.target, Ante: g.ante})
	}

	return ev, nil
}

func (g *Game) handOptions() HandOptions {
	opts := HandOptions{}
	for _, ij := range g.jokers {
		if ij.Modifier != nil {
			opts = ij.Modifier.ModifyHandOptions(opts)
		}
	}
	return opts
}

// runProcessor always passes mutating=true to the Effect Processor. Any
// installed joker's hook may perform a state mutation as a side effect (a
// declarative joker's "modify_state" action, a scaling joker's accumulator)
// and the processor has no way to know whether a given hook will do so
// without invoking it — so the fingerprint cache is never consulted from
// real gameplay, trading the sub-microsecond cached-path throughput target
// in §1/§2.F for the correctness guarantee that a cache hit never masks a
// state change that should have happened. The cache machinery itself
// (fingerprint/get/put) stays exercised and tested against a non-mutating
// caller (see effect_processor_test.go), in case a future read-only query
// path (e.g. speculative modifier polling) wants it.
func (g *Game) runProcessor(evalCtx *EvalContext, mutating bool) (ProcessResult, error) {
	entries := make([]jokerEntry, 0, len(g.jokers))
	for _, ij := range g.jokers {
		if ij.Gameplay == nil {
			continue
		}
		evalCtx.Self = ij.Joker.ID()
		entries = append(entries, jokerEntry{ID: ij.Joker.ID(), Gameplay: ij.Gameplay})
	}
	result, err := g.processor.Process(context.Background(), evalCtx, entries, mutating)
	if err != nil {
		return ProcessResult{}, wrapError(ErrKindSystem, "game: effect processor failed", err)
	}
	g.emitter.Emit(PipelineDiagnosticEvent{
		CorrelationID:  newCorrelationID(),
		Event:          evalCtx.Event,
		JokerCount:     len(entries),
		RetriggerDepth: result.RetriggerDepth,
	})
	return result, nil
}

// processScoredCards runs the Effect Processor once per scored card so
// per-card jokers (Greedy Joker's "+mult per scored Diamond") see each card
// in turn, then folds the results together the same way the processor
// folds multiple jokers' effects within one pass.
func (g *Game) processScoredCards(cards []Card) (ProcessResult, error) {
	total := ProcessResult{MultMultiplier: 1}
	for i := range cards {
		evalCtx := &EvalContext{
			Event: EventCardScored, Card: &cards[i], State: g.state, Ante: g.ante, Blind: g.blind,
			RNG: g.rng, Money: g.money, HandsPlayed: g.handsPlayed, DiscardsUsed: g.discardsUsed,
		}
		r, err := g.runProcessor(evalCtx, true)
		if err != nil {
			return ProcessResult{}, err
		}
		total = mergeProcessResults(total, r)
	}
	return total, nil
}

// mergeProcessResults combines two processor passes additively on every
// field except MultMultiplier, which always combines multiplicatively (a
// zero value is treated as the identity 1, matching the Effect Processor's
// own convention for an effect that never set one).
func mergeProcessResults(a, b ProcessResult) ProcessResult {
	am, bm := a.MultMultiplier, b.MultMultiplier
	if am == 0 {
		am = 1
	}
	if bm == 0 {
		bm = 1
	}
	return ProcessResult{
		Chips:          a.Chips + b.Chips,
		Mult:           a.Mult + b.Mult,
		MultMultiplier: am * bm,
		Money:          a.Money + b.Money,
		Destroy:        append(append([]DestroyTarget(nil), a.Destroy...), b.Destroy...),
		Messages:       append(append([]string(nil), a.Messages...), b.Messages...),
		RetriggerDepth: a.RetriggerDepth + b.RetriggerDepth,
	}
}

func (g *Game) applyDiscard(indices []int) (Event, error) {
	if g.stage != StageBlind {
		return nil, newError(ErrKindState, "game: cannot discard outside the Blind stage")
	}
	if g.discardsUsed >= g.maxDiscards() {
		return nil, newError(ErrKindResource, "game: no discards remaining")
	}
	selected, err := g.selectCards(indices)
	if err != nil {
		return nil, err
	}
	g.discardsUsed++
	if err := g.removeAndDeal(indices); err != nil {
		return nil, err
	}
	if err := g.runLifecycleHook(EventHandDiscarded); err != nil {
		return nil, err
	}
	ev := CardsDiscardedEvent{DiscardedCards: selected, DiscardsLeft: g.maxDiscards() - g.discardsUsed}
	g.emitter.Emit(ev)
	return ev, nil
}

// runLifecycleHook runs the Effect Processor for an event that carries no
// hand/card of its own (discard, round end, shop open) purely so jokers'
// behavior hooks fire, applying whatever money it yields and destroying any
// joker it names. Chips/Mult/MultMultiplier have no meaning outside a
// scored hand and are discarded.
func (g *Game) runLifecycleHook(event GameEvent) error {
	evalCtx := &EvalContext{
		Event: event, State: g.state, Ante: g.ante, Blind: g.blind, RNG: g.rng,
		Money: g.money, HandsPlayed: g.handsPlayed, DiscardsUsed: g.discardsUsed,
	}
	result, err := g.runProcessor(evalCtx, true)
	if err != nil {
		return err
	}
	g.money += result.Money
	g.applyDestroys(result.Destroy)
	return nil
}

func (g *Game) applyReorder() (Event, error) {
	if g.sortMode == SortByRank {
		g.sortMode = SortBySuit
	} else {
		g.sortMode = SortByRank
	}
	g.resort()
	return MessageEvent{Message: "hand resorted", Type: "info"}, nil
}

// applyMoveJoker swaps a joker one slot up or down, generalizing the
// teacher's handleMoveJokerAction from 1-based CLI indices to Action's
// 0-based convention.
func (g *Game) applyMoveJoker(a Action) (Event, error) {
	if len(a.Indices) != 1 {
		return nil, newError(ErrKindInput, "game: move_joker requires exactly one joker index")
	}
	i := a.Indices[0]
	if i < 0 || i >= len(g.jokers) {
		return nil, newError(ErrKindInput, fmt.Sprintf("game: invalid joker index %d", i))
	}
	movedName := g.jokers[i].Joker.DisplayName()
	switch a.Target {
	case "up":
		if i == 0 {
			return nil, newError(ErrKindInput, "game: joker already at top")
		}
		g.jokers[i-1], g.jokers[i] = g.jokers[i], g.jokers[i-1]
	case "down":
		if i >= len(g.jokers)-1 {
			return nil, newError(ErrKindInput, "game: joker already at bottom")
		}
		g.jokers[i], g.jokers[i+1] = g.jokers[i+1], g.jokers[i]
	default:
		return nil, newError(ErrKindInput, fmt.Sprintf("game: unknown move direction %q", a.Target))
	}
	ev := JokerMovedEvent{Name: movedName, Direction: a.Target}
	g.emitter.Emit(ev)
	return ev, nil
}

func (g *Game) selectCards(indices []int) ([]Card, error) {
	if len(indices) == 0 || len(indices) > 5 {
		return nil, newError(ErrKindInput, "game: must select between 1 and 5 cards")
	}
	seen := make(map[int]bool)
	selected := make([]Card, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(g.hand) {
			return nil, newError(ErrKindInput, fmt.Sprintf("game: invalid card index %d", idx))
		}
		if seen[idx] {
			continue
		}
		seen[idx] = true
		selected = append(selected, g.hand[idx])
	}
	return selected, nil
}

func (g *Game) removeAndDeal(indices []int) error {
	g.hand = removeCards(g.hand, indices)
	needed := len(indices)
	drawn, err := g.deck.Draw(minInt(needed, g.deck.Len()))
	if err != nil {
		return err
	}
	g.hand = append(g.hand, drawn...)
	g.resort()
	return nil
}

// applyDestroys removes installed jokers named by a resolved effect's
// Destroy targets. The Effect Processor merges every contributing joker's
// DestroyTarget list into one flat ProcessResult slice without preserving
// which joker issued each entry, so a Self_ target can't be attributed back
// to its source here and is a no-op; OtherID and Random targets name their
// victim independently of who asked, so they still apply.
func (g *Game) applyDestroys(targets []DestroyTarget) {
	for _, t := range targets {
		switch {
		case t.OtherID != "":
			g.destroyByID(t.OtherID)
		case t.Random > 0:
			for i := 0; i < t.Random; i++ {
				if len(g.jokers) == 0 {
					break
				}
				idx := g.rng.GenRange(0, len(g.jokers))
				g.destroyAt(idx)
			}
		}
	}
}

func (g *Game) destroyByID(id JokerID) {
	for i, ij := range g.jokers {
		if ij.Joker.ID() == id {
			g.destroyAt(i)
			return
		}
	}
}

func (g *Game) destroyAt(idx int) {
	if idx < 0 || idx >= len(g.jokers) {
		return
	}
	ij := g.jokers[idx]
	if ij.Lifecycle != nil {
		ij.Lifecycle.OnDestroy(&EvalContext{
			State: g.state, Self: ij.Joker.ID(), Ante: g.ante, Blind: g.blind, RNG: g.rng,
			Money: g.money, HandsPlayed: g.handsPlayed, DiscardsUsed: g.discardsUsed,
		})
	}
	g.jokers = append(g.jokers[:idx], g.jokers[idx+1:]...)
	g.emitter.Emit(JokerDestroyedEvent{Name: ij.Joker.DisplayName()})
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func removeCards(cards []Card, indices []int) []Card {
	uniq := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		uniq[i] = struct{}{}
	}
	sorted := make([]int, 0, len(uniq))
	for i := range uniq {
		sorted = append(sorted, i)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	out := make([]Card, len(cards))
	copy(out, cards)
	for _, idx := range sorted {
		if idx >= 0 && idx < len(out) {
			out = append(out[:idx], out[idx+1:]...)
		}
	}
	return out
}

func (g *Game) completeBlind() (Event, error) {
	if err := g.runLifecycleHook(EventBlindEnd); err != nil {
		return nil, err
	}

	baseReward := map[BlindType]int{SmallBlind: SmallBlindReward, BigBlind: BigBlindReward, BossBlind: BossBlindReward}[g.blind]
	unusedHands := MaxHands - g.handsPlayed
	unusedDiscards := g.maxDiscards() - g.discardsUsed
	bonus := unusedHands*UnusedHandReward + unusedDiscards*UnusedDiscardReward
	total := baseReward + bonus
	g.money += total

	ev := BlindDefeatedEvent{
		BlindType:      g.blind,
		Score:          g.totalScore,
		Target:         g.target,
		TotalReward:    total,
		NewMoney:       g.money,
		UnusedHands:    unusedHands,
		UnusedDiscards: unusedDiscards,
	}
	g.emitter.Emit(ev)

	next, ante, blind, err := Transition(StageBlind, EventBlindDefeated, g.ante, g.blind, MaxAntes)
	if err != nil {
		return nil, err
	}
	next, ante, blind, err = Transition(next, EventBlindDefeated, ante, blind, MaxAntes)
	if err != nil {
		return nil, err
	}

	from := g.stage
	g.stage, g.ante, g.blind = next, ante, blind

	if g.stage == StageVictory {
		g.emitter.Emit(VictoryEvent{})
		return ev, nil
	}

	if err := g.enterShop(); err != nil {
		return nil, err
	}

	g.emitter.Emit(StageChangedEvent{From: from, To: g.stage, Ante: g.ante, Blind: g.blind})
	return ev, nil
}

// enterShop runs every side effect of arriving in the Shop: resetting the
// per-round counters and reroll price, computing the new blind's target
// (applying its boss effect if it is one), dealing a fresh deck/hand ready
// for when the player leaves the shop and selects it, rolling the shop's
// joker offering, and emitting ShopOpenedEvent. Assumes g.ante/g.blind
// already name the blind that follows the shop.
func (g *Game) enterShop() error {
	g.totalScore = 0
	g.handsPlayed = 0
	g.discardsUsed = 0
	g.rerollCost = initialRerollCost
	g.target = GetAnteRequirement(g.ante, g.blind)

	if g.blind == BossBlind {
		g.boss = GetBossForAnte(g.ante)
		g.target, g.money = ApplyBossEffect(g.boss, g.target, g.money)
	} else {
		g.boss = Boss{}
	}

	g.deck = NewStandardDeck()
	g.deck.Shuffle(g.rng)
	if err := g.dealInitialHand(); err != nil {
		return err
	}

	g.refreshShopOffers()
	if err := g.runLifecycleHook(EventShopEnter); err != nil {
		return err
	}
	g.emitter.Emit(ShopOpenedEvent{Money: g.money, RerollCost: g.rerollCost, Items: g.shopItemData()})
	return nil
}

// refreshShopOffers draws up to shopSlotCount joker ids from the process-
// wide content registry, excluding jokers the player already owns, via a
// deterministic shuffle over the gameplay RNG.
func (g *Game) refreshShopOffers() {
	owned := make(map[JokerID]bool, len(g.jokers))
	for _, ij := range g.jokers {
		owned[ij.Joker.ID()] = true
	}
	candidates := make([]JokerID, 0, len(contentOrder))
	for _, id := range RegisteredJokerIDs() {
		if !owned[id] {
			candidates = append(candidates, id)
		}
	}
	Shuffle(g.rng, candidates)
	n := minInt(shopSlotCount, len(candidates))
	g.shopOffers = append([]JokerID(nil), candidates[:n]...)
}

// shopItemData renders the current shop offering as display data for
// ShopOpenedEvent/ShopRerolledEvent listeners.
func (g *Game) shopItemData() []ShopItemData {
	items := make([]ShopItemData, 0, len(g.shopOffers))
	for _, id := range g.shopOffers {
		j, ok := NewRegisteredJoker(id)
		if !ok {
			continue
		}
		items = append(items, ShopItemData{Name: j.DisplayName(), Cost: j.ShopCost(), CanAfford: g.money >= j.ShopCost()})
	}
	return items
}

func removeJokerID(ids []JokerID, target JokerID) []JokerID {
	out := make([]JokerID, 0, len(ids))
	for _, id := range ids {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}

func (g *Game) applyExitShop() (Event, error) {
	if g.stage != StageShop {
		return nil, newError(ErrKindState, "game: not in the shop")
	}
	next, ante, blind, err := Transition(g.stage, EventShopExited, g.ante, g.blind, MaxAntes)
	if err != nil {
		return nil, err
	}
	from := g.stage
	g.stage, g.ante, g.blind = next, ante, blind
	ev := ShopClosedEvent{}
	g.emitter.Emit(ev)
	g.emitter.Emit(StageChangedEvent{From: from, To: g.stage, Ante: g.ante, Blind: g.blind})
	return ev, nil
}

// BuyJoker purchases a joker from the shop by reference, installing it and
// deducting its cost.
func (g *Game) BuyJoker(j Joker) (Event, error) {
	if g.stage != StageShop {
		return nil, newError(ErrKindState, "game: not in the shop")
	}
	if g.money < j.ShopCost() {
		return nil, newError(ErrKindResource, "game: not enough money")
	}
	g.money -= j.ShopCost()
	ij := g.installJoker(j)
	if ij.Lifecycle != nil {
		ij.Lifecycle.OnAcquire(&EvalContext{State: g.state, Self: j.ID(), Ante: g.ante, Blind: g.blind, RNG: g.rng, Money: g.money, HandsPlayed: g.handsPlayed, DiscardsUsed: g.discardsUsed})
	}
	ev := ShopItemPurchasedEvent{
		Item:           ShopItemData{Name: j.DisplayName(), Cost: j.ShopCost(), CanAfford: true},
		RemainingMoney: g.money,
	}
	g.emitter.Emit(ev)
	return ev, nil
}

// RerollShop pays the current reroll cost and increases it for next time.
func (g *Game) RerollShop() error {
	if g.stage != StageShop {
		return newError(ErrKindState, "game: not in the shop")
	}
	if g.money < g.rerollCost {
		return newError(ErrKindResource, "game: not enough money to reroll")
	}
	g.money -= g.rerollCost
	g.rerollCost += 2
	return nil
}

// applyBuyItem resolves Action.ItemID against the current shop offering and
// purchases it through BuyJoker, removing the bought slot from the
// offering afterward so the same id can't be bought twice in one visit.
func (g *Game) applyBuyItem(a Action) (Event, error) {
	if g.stage != StageShop {
		return nil, newError(ErrKindState, "game: not in the shop")
	}
	id := JokerID(a.ItemID)
	offered := false
	for _, o := range g.shopOffers {
		if o == id {
			offered = true
			break
		}
	}
	if !offered {
		return nil, newError(ErrKindInput, fmt.Sprintf("game: %q is not currently offered in the shop", a.ItemID))
	}
	j, ok := NewRegisteredJoker(id)
	if !ok {
		return nil, newError(ErrKindSystem, fmt.Sprintf("game: joker %q is offered but not registered", a.ItemID))
	}
	ev, err := g.BuyJoker(j)
	if err != nil {
		return nil, err
	}
	g.shopOffers = removeJokerID(g.shopOffers, id)
	return ev, nil
}

// applyRerollShop pays to reroll and replaces the current offering.
func (g *Game) applyRerollShop() (Event, error) {
	oldCost := g.rerollCost
	if err := g.RerollShop(); err != nil {
		return nil, err
	}
	g.refreshShopOffers()
	ev := ShopRerolledEvent{
		Cost:           oldCost,
		NewRerollCost:  g.rerollCost,
		RemainingMoney: g.money,
		NewItems:       g.shopItemData(),
	}
	g.emitter.Emit(ev)
	return ev, nil
}

// defaultSellValue is the standard half-cost sell price a joker fetches
// when it declares no JokerLifecycle.OnSell override.
func defaultSellValue(j Joker) int { return j.ShopCost() / 2 }

// applySellJoker removes a joker from the joker row and refunds its sell
// value, consulting the joker's own OnSell hook if it implements
// JokerLifecycle to let it alter its own sell price or emit side effects
// before OnDestroy tears down whatever state it was accumulating.
func (g *Game) applySellJoker(a Action) (Event, error) {
	if g.stage != StageShop {
		return nil, newError(ErrKindState, "game: not in the shop")
	}
	if len(a.Indices) != 1 {
		return nil, newError(ErrKindInput, "game: sell_joker requires exactly one joker index")
	}
	idx := a.Indices[0]
	if idx < 0 || idx >= len(g.jokers) {
		return nil, newError(ErrKindInput, fmt.Sprintf("game: invalid joker index %d", idx))
	}
	ij := g.jokers[idx]
	evalCtx := &EvalContext{
		State: g.state, Self: ij.Joker.ID(), Ante: g.ante, Blind: g.blind, RNG: g.rng,
		Money: g.money, HandsPlayed: g.handsPlayed, DiscardsUsed: g.discardsUsed,
	}
	sellValue := defaultSellValue(ij.Joker)
	if ij.Lifecycle != nil {
		sellValue = ij.Lifecycle.OnSell(evalCtx)
		ij.Lifecycle.OnDestroy(evalCtx)
	}
	g.money += sellValue
	g.jokers = append(g.jokers[:idx], g.jokers[idx+1:]...)

	ev := JokerSoldEvent{
		Joker:          ShopItemData{Name: ij.Joker.DisplayName(), Cost: ij.Joker.ShopCost()},
		SellValue:      sellValue,
		RemainingMoney: g.money,
	}
	g.emitter.Emit(ev)
	return ev, nil
}

// Stage, Ante, Blind, Money, TotalScore expose read-only state for drivers
// and tests without reaching into private fields.
func (g *Game) Stage() Stage        { return g.stage }
func (g *Game) Ante() int           { return g.ante }
func (g *Game) Blind() BlindType    { return g.blind }
func (g *Game) Money() int          { return g.money }
func (g *Game) TotalScore() int     { return g.totalScore }
func (g *Game) Target() int         { return g.target }
func (g *Game) Hand() []Card        { return append([]Card(nil), g.hand...) }
func (g *Game) JokerCount() int     { return len(g.jokers) }

// ShopOffers returns the joker ids currently offered in the shop, in slot
// order, so a driver can map a slot number the player picks to the ItemID
// ActionBuyItem expects.
func (g *Game) ShopOffers() []JokerID { return append([]JokerID(nil), g.shopOffers...) }

// JokerNames returns the display names of installed jokers in slot order,
// for drivers presenting the move/sell joker row.
func (g *Game) JokerNames() []string {
	out := make([]string, len(g.jokers))
	for i, ij := range g.jokers {
		out[i] = ij.Joker.DisplayName()
	}
	return out
}
