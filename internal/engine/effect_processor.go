package engine

import (
	"container/list"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// EffectPriority is the numeric ordering weight assigned to a collected
// effect before conflict resolution, with the same four bands and values as
// original_source's priority_strategy.rs.
type EffectPriority int

const (
	PriorityLow      EffectPriority = 1
	PriorityNormal   EffectPriority = 5
	PriorityHigh     EffectPriority = 10
	PriorityCritical EffectPriority = 15
)

// PriorityStrategy assigns an EffectPriority to a collected effect. Four
// variants, translated 1:1 from priority_strategy.rs's trait hierarchy:
// Default always returns Normal, Metadata reads a per-joker override table,
// Custom runs caller-supplied logic, and ContextAware inspects the
// EvalContext (e.g. boosting Retrigger effects to Critical so they run
// before anything they'd otherwise duplicate).
type PriorityStrategy interface {
	Priority(id JokerID, ctx *EvalContext, effect JokerEffect) EffectPriority
}

type DefaultPriorityStrategy struct{}

func (DefaultPriorityStrategy) Priority(JokerID, *EvalContext, JokerEffect) EffectPriority {
	return PriorityNormal
}

type MetadataPriorityStrategy struct {
	Overrides map[JokerID]EffectPriority
}

func (s MetadataPriorityStrategy) Priority(id JokerID, _ *EvalContext, _ JokerEffect) EffectPriority {
	if p, ok := s.Overrides[id]; ok {
		return p
	}
	return PriorityNormal
}

type CustomPriorityStrategy struct {
	Fn func(id JokerID, ctx *EvalContext, effect JokerEffect) EffectPriority
}

func (s CustomPriorityStrategy) Priority(id JokerID, ctx *EvalContext, effect JokerEffect) EffectPriority {
	if s.Fn == nil {
		return PriorityNormal
	}
	return s.Fn(id, ctx, effect)
}

type ContextAwarePriorityStrategy struct{}

func (ContextAwarePriorityStrategy) Priority(_ JokerID, _ *EvalContext, effect JokerEffect) EffectPriority {
	if effect.RetriggerCount > 0 {
		return PriorityCritical
	}
	if len(effect.Destroy) > 0 {
		return PriorityHigh
	}
	return PriorityNormal
}

// ConflictResolutionStrategy decides how two effects from the same priority
// band combine when they address the same additive field. mult_multiplier
// is never subject to this — it always combines multiplicatively, per the
// frozen open-question decision.
type ConflictResolutionStrategy int

const (
	ResolveSum ConflictResolutionStrategy = iota
	ResolveMaximum
	ResolveMinimum
	ResolveFirstWins
	ResolveLastWins
)

// collected pairs a joker's contributed effect with its resolved priority,
// for sorting before conflict resolution and application. gameplay is kept
// alongside so the Apply stage can re-invoke the same joker's hook for a
// requested retrigger without looking it back up by id.
type collected struct {
	id       JokerID
	priority EffectPriority
	effect   JokerEffect
	gameplay JokerGameplay
}

// EffectProcessor runs the Collect -> Prioritize -> Resolve -> Apply ->
// Retrigger -> Cache pipeline for one scoring event across a set of jokers.
type EffectProcessor struct {
	Strategy          PriorityStrategy
	Conflict          ConflictResolutionStrategy
	MaxRetriggerDepth int

	cache *lruCache
}

// NewEffectProcessor builds a processor with sane defaults: Default
// priority strategy, Sum conflict resolution, and a retrigger depth cap of
// 8 (matching the spec's default).
func NewEffectProcessor() *EffectProcessor {
	return &EffectProcessor{
		Strategy:          DefaultPriorityStrategy{},
		Conflict:          ResolveSum,
		MaxRetriggerDepth: 8,
		cache:             newLRUCache(256),
	}
}

// ProcessResult is the net effect of running the pipeline once.
type ProcessResult struct {
	Chips          int
	Mult           int
	MultMultiplier float64
	Money          int
	Destroy        []DestroyTarget
	Messages       []string
	RetriggerDepth int
}

// jokerEntry is what the orchestrator hands the processor: a joker plus its
// identity, so the processor never needs to reach back into a registry.
type jokerEntry struct {
	ID     JokerID
	Gameplay JokerGameplay
}

// Process runs the full pipeline for one event against the supplied
// jokers, in their current (orchestrator-owned) order. mutating controls
// whether the fingerprint cache may be consulted/populated — state-mutating
// passes (anything that calls JokerStateManager.UpdateState as a side
// effect of OnEvent) must pass mutating=true so a cached result never masks
// a state change that should have happened.
func (p *EffectProcessor) Process(ctx context.Context, evalCtx *EvalContext, jokers []jokerEntry, mutating bool) (ProcessResult, error) {
	if !mutating {
		if fp, ok := p.fingerprint(evalCtx, jokers); ok {
			if cached, found := p.cache.get(fp); found {
				return cached, nil
			}
			result, err := p.run(ctx, evalCtx, jokers)
			if err != nil {
				return ProcessResult{}, err
			}
			p.cache.put(fp, result)
			return result, nil
		}
	}
	return p.run(ctx, evalCtx, jokers)
}

func (p *EffectProcessor) run(ctx context.Context, evalCtx *EvalContext, jokers []jokerEntry) (ProcessResult, error) {
	collectedEffects, err := p.collect(ctx, evalCtx, jokers)
	if err != nil {
		return ProcessResult{}, err
	}

	p.prioritize(evalCtx, collectedEffects)
	resolved := p.resolve(collectedEffects)
	return p.apply(evalCtx, resolved)
}

// collect polls every joker's gameplay hook for the given event. Jokers
// declaring CostCheap/CostModerate are queried concurrently via an
// errgroup, since they're assumed side-effect-free against shared state
// beyond their own per-key JokerStateManager entry; CostExpensive and
// CostVeryExpensive jokers are polled sequentially to bound worst-case
// pipeline latency predictably.
func (p *EffectProcessor) collect(ctx context.Context, evalCtx *EvalContext, jokers []jokerEntry) ([]collected, error) {
	results := make([]collected, len(jokers))
	var cheapIdx, expensiveIdx []int
	for i, j := range jokers {
		if j.Gameplay.EvaluationCost() <= CostModerate {
			cheapIdx = append(cheapIdx, i)
		} else {
			expensiveIdx = append(expensiveIdx, i)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, idx := range cheapIdx {
		idx := idx
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			effect, err := jokers[idx].Gameplay.OnEvent(evalCtx)
			if err != nil {
				return err
			}
			results[idx] = collected{id: jokers[idx].ID, effect: effect, gameplay: jokers[idx].Gameplay}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, wrapError(ErrKindSystem, "effect processor: collect failed", err)
	}

	for _, idx := range expensiveIdx {
		effect, err := jokers[idx].Gameplay.OnEvent(evalCtx)
		if err != nil {
			return nil, wrapError(ErrKindSystem, "effect processor: collect failed", err)
		}
		results[idx] = collected{id: jokers[idx].ID, effect: effect, gameplay: jokers[idx].Gameplay}
	}

	out := results[:0]
	for _, r := range results {
		if !r.effect.IsZero() {
			out = append(out, r)
		}
	}
	return out, nil
}

func (p *EffectProcessor) prioritize(evalCtx *EvalContext, items []collected) {
	strategy := p.Strategy
	if strategy == nil {
		strategy = DefaultPriorityStrategy{}
	}
	for i := range items {
		items[i].priority = strategy.Priority(items[i].id, evalCtx, items[i].effect)
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].priority > items[j].priority
	})
}

// resolve applies the conflict resolution strategy to the additive chip/mult
// fields within each priority band (effects in a higher band always apply
// in full ahead of lower bands; resolution only decides how same-band
// contributions combine). mult_multiplier is not subject to the strategy:
// when a band collapses to one kept effect, that effect carries the product
// of every nonzero mult_multiplier in the band, which apply then folds
// multiplicatively.
func (p *EffectProcessor) resolve(items []collected) []collected {
	if p.Conflict == ResolveSum || len(items) <= 1 {
		return items
	}

	byBand := make(map[EffectPriority][]collected)
	order := make([]EffectPriority, 0)
	for _, it := range items {
		if _, ok := byBand[it.priority]; !ok {
			order = append(order, it.priority)
		}
		byBand[it.priority] = append(byBand[it.priority], it)
	}

	out := make([]collected, 0, len(items))
	for _, band := range order {
		group := byBand[band]
		var kept collected
		switch p.Conflict {
		case ResolveFirstWins:
			kept = group[0]
		case ResolveLastWins:
			kept = group[len(group)-1]
		case ResolveMaximum:
			kept = pickExtreme(group, func(a, b JokerEffect) bool { return a.Chips+a.Mult > b.Chips+b.Mult })
		case ResolveMinimum:
			kept = pickExtreme(group, func(a, b JokerEffect) bool { return a.Chips+a.Mult < b.Chips+b.Mult })
		default:
			out = append(out, group...)
			continue
		}
		mm := 0.0
		for _, c := range group {
			if m := c.effect.MultMultiplier; m != 0 {
				if mm == 0 {
					mm = m
				} else {
					mm *= m
				}
			}
		}
		kept.effect.MultMultiplier = mm
		out = append(out, kept)
	}
	return out
}

func pickExtreme(group []collected, better func(a, b JokerEffect) bool) collected {
	best := group[0]
	for _, c := range group[1:] {
		if better(c.effect, best.effect) {
			best = c
		}
	}
	return best
}

// apply folds each item's base effect into the running result in priority-
// descending, slot-ascending order (items already carry that order from
// prioritize/resolve). A joker that requested retrigger=k re-executes its
// own hook exactly k times, immediately after its base effect and before
// the next joker in the same tier, per the ordering guarantee in the spec.
// remaining is seeded once from the original request and decremented per
// execution — it is never replaced by whatever a re-execution's own effect
// happens to report, or a joker that always declares the same fixed
// retrigger count (as a stateless declarative "retrigger" action does)
// would never stop retriggering itself. The per-joker total is additionally
// hard-capped at MaxRetriggerDepth extra executions (the spec's "retriggers
// of retriggers" bound), so even an explicitly huge or unbounded k
// terminates.
func (p *EffectProcessor) apply(evalCtx *EvalContext, items []collected) (ProcessResult, error) {
	var result ProcessResult
	maxDepth := 0
	for _, c := range items {
		foldEffect(&result, c.effect)

		extra := 0
		remaining := c.effect.RetriggerCount
		for remaining > 0 && extra < p.MaxRetriggerDepth {
			if c.gameplay == nil {
				break
			}
			effect, err := c.gameplay.OnEvent(evalCtx)
			if err != nil {
				return ProcessResult{}, wrapError(ErrKindSystem, "effect processor: retrigger failed", err)
			}
			foldEffect(&result, effect)
			extra++
			remaining--
		}
		if extra > maxDepth {
			maxDepth = extra
		}
	}
	if result.MultMultiplier == 0 {
		result.MultMultiplier = 1
	}
	result.RetriggerDepth = maxDepth
	return result, nil
}

func foldEffect(result *ProcessResult, effect JokerEffect) {
	result.Chips += effect.Chips
	result.Mult += effect.Mult
	result.Money += effect.Money
	if effect.MultMultiplier != 0 {
		if result.MultMultiplier == 0 {
			result.MultMultiplier = effect.MultMultiplier
		} else {
			result.MultMultiplier *= effect.MultMultiplier
		}
	}
	result.Destroy = append(result.Destroy, effect.Destroy...)
	if effect.Message != "" {
		result.Messages = append(result.Messages, effect.Message)
	}
}

// fingerprint derives a cache key from the event kind, the joker-collection
// hash (ids + current state versions), the relevant context fields a
// condition-bearing joker could read (money, ante, blind, hands played,
// discards used), and a hand fingerprint covering every card actually
// involved (the full played hand for a hand-level event, or the single
// scored card for a per-card event) — every input named in the spec's
// cache-key description (§4.F step 6). A cache hit is only possible when
// none of this could have changed, so a money- or card-conditional joker's
// result is never served stale.
func (p *EffectProcessor) fingerprint(evalCtx *EvalContext, jokers []jokerEntry) (string, bool) {
	if evalCtx.State == nil {
		return "", false
	}
	h := sha256.New()
	var buf [8]byte
	writeInt := func(v int64) {
		binary.BigEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}

	writeInt(int64(evalCtx.Event))
	for _, j := range jokers {
		h.Write([]byte(j.ID))
		st := evalCtx.State.GetState(j.ID)
		writeInt(int64(st.Version))
	}

	writeInt(int64(evalCtx.Money))
	writeInt(int64(evalCtx.Ante))
	writeInt(int64(evalCtx.Blind))
	writeInt(int64(evalCtx.HandsPlayed))
	writeInt(int64(evalCtx.DiscardsUsed))

	writeCard := func(c Card) {
		writeInt(int64(c.Rank))
		writeInt(int64(c.Suit))
		writeInt(int64(c.Enhancement))
	}
	for _, c := range evalCtx.Hand.Cards {
		writeCard(c)
	}
	if evalCtx.Card != nil {
		writeCard(*evalCtx.Card)
	}
	if evalCtx.Result != nil {
		h.Write([]byte(evalCtx.Result.Evaluator.Name()))
	}
	return fmt.Sprintf("%x", h.Sum(nil)), true
}

// lruCache is a bounded fingerprint -> ProcessResult cache, stdlib
// container/list + map since no LRU library appears anywhere in the
// retrieved pack.
type lruCache struct {
	mu       sync.Mutex
	capacity int
	ll       *list.List
	items    map[string]*list.Element
}

type lruItem struct {
	key   string
	value ProcessResult
}

func newLRUCache(capacity int) *lruCache {
	return &lruCache{capacity: capacity, ll: list.New(), items: make(map[string]*list.Element)}
}

func (c *lruCache) get(key string) (ProcessResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		return el.Value.(*lruItem).value, true
	}
	return ProcessResult{}, false
}

func (c *lruCache) put(key string, value ProcessResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*lruItem).value = value
		c.ll.MoveToFront(el)
		return
	}
	el := c.ll.PushFront(&lruItem{key: key, value: value})
	c.items[key] = el
	if c.ll.Len() > c.capacity {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*lruItem).key)
		}
	}
}

