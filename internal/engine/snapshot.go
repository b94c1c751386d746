package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// currentSaveVersion is bumped whenever the Snapshot wire shape changes in a
// way that needs a migration step on Restore.
const currentSaveVersion = 1

// persistedState is the full wire shape for Snapshot/Restore, covering
// every field the spec's persisted-state list names: seed and RNG stream
// position, stage/ante/round, money, deck contents, joker ids with their
// state blobs and versions, consumable and voucher ids, and hand-type play
// counts (hand level progression).
type persistedState struct {
	SaveVersion int `json:"save_version"`

	Seed           int64 `json:"seed"`
	RNGStreamPos   int64 `json:"rng_stream_position"`

	Stage Stage     `json:"stage"`
	Ante  int       `json:"ante"`
	Blind BlindType `json:"blind"`

	TotalScore   int `json:"total_score"`
	HandsPlayed  int `json:"hands_played"`
	DiscardsUsed int `json:"discards_used"`
	Money        int `json:"money"`
	RerollCost   int `json:"reroll_cost"`

	DeckCards []Card `json:"deck_cards"`
	HandCards []Card `json:"hand_cards"`

	JokerIDs      []JokerID `json:"joker_ids"`
	JokerStateRaw []byte    `json:"joker_state"`

	Consumables []string `json:"consumables"`
	Vouchers    []string `json:"vouchers"`

	HandLevels map[string]int `json:"hand_levels"`
}

// Snapshot serializes the entire run into a byte blob suitable for storage
// and later Restore.
func (g *Game) Snapshot() ([]byte, error) {
	jokerState, err := g.state.Serialize()
	if err != nil {
		return nil, err
	}

	jokerIDs := make([]JokerID, len(g.jokers))
	for i, ij := range g.jokers {
		jokerIDs[i] = ij.Joker.ID()
	}

	ps := persistedState{
		SaveVersion:  currentSaveVersion,
		Seed:         g.rng.Seed(),
		RNGStreamPos: g.rng.StreamPosition(),
		Stage:        g.stage,
		Ante:         g.ante,
		Blind:        g.blind,
		TotalScore:   g.totalScore,
		HandsPlayed:  g.handsPlayed,
		DiscardsUsed: g.discardsUsed,
		Money:        g.money,
		RerollCost:   g.rerollCost,
		DeckCards:    g.deck.Cards(),
		HandCards:    g.Hand(),
		JokerIDs:     jokerIDs,
		JokerStateRaw: jokerState,
		Consumables:  append([]string(nil), g.consumables...),
		Vouchers:     append([]string(nil), g.vouchers...),
		HandLevels:   g.handLevels,
	}

	data, err := json.MarshalIndent(ps, "", "  ")
	if err != nil {
		return nil, wrapError(ErrKindSystem, "snapshot: marshal failed", err)
	}
	return data, nil
}

// RestoreOptions supplies the live Joker implementations a restored run
// needs re-installed (declarative/advanced joker instances aren't
// themselves serialized — only their ids and state are).
type RestoreOptions struct {
	ResolveJoker func(id JokerID) (Joker, error)
	Migrate      func(id JokerID, s JokerState) JokerState
	BaseDir      string
}

// Restore rebuilds a Game from a Snapshot blob. It re-seeds the gameplay
// RNG and fast-forwards it to the saved stream position so subsequent
// draws continue exactly where the original run left off, rather than
// replaying every prior draw's side effect (which would be both slow and
// unnecessary — only the RNG's internal position matters).
func Restore(data []byte, opts RestoreOptions) (*Game, error) {
	var ps persistedState
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, wrapError(ErrKindIntegrity, "restore: corrupt snapshot", err)
	}
	if ps.SaveVersion != currentSaveVersion {
		return nil, newError(ErrKindIntegrity, fmt.Sprintf("restore: unsupported save version %d", ps.SaveVersion))
	}

	if err := LoadConfig(opts.BaseDir); err != nil {
		return nil, wrapError(ErrKindSystem, "restore: failed to load config", err)
	}
	if err := LoadBossConfigs(opts.BaseDir); err != nil {
		return nil, wrapError(ErrKindSystem, "restore: failed to load boss config", err)
	}
	if err := LoadSkipTagCatalog(opts.BaseDir); err != nil {
		return nil, wrapError(ErrKindSystem, "restore: failed to load skip tag catalog", err)
	}

	g := &Game{
		rng:          NewGameRNG(ps.Seed),
		deck:         &Deck{},
		sortMode:     SortByRank,
		stage:        ps.Stage,
		ante:         ps.Ante,
		blind:        ps.Blind,
		totalScore:   ps.TotalScore,
		handsPlayed:  ps.HandsPlayed,
		discardsUsed: ps.DiscardsUsed,
		money:        ps.Money,
		rerollCost:   ps.RerollCost,
		handLevels:   ps.HandLevels,
		state:        NewJokerStateManager(),
		processor:    NewEffectProcessor(),
		emitter:      NewEventEmitter(),
		consumables:  ps.Consumables,
		vouchers:     ps.Vouchers,
		baseDir:      opts.BaseDir,
	}
	g.rng.AdvanceTo(ps.RNGStreamPos)
	g.deck.Extend(ps.DeckCards)
	g.hand = ps.HandCards
	g.target = GetAnteRequirement(g.ante, g.blind)

	if err := g.state.Deserialize(ps.JokerStateRaw, opts.Migrate); err != nil {
		return nil, err
	}

	if opts.ResolveJoker != nil {
		for _, id := range ps.JokerIDs {
			j, err := opts.ResolveJoker(id)
			if err != nil {
				return nil, wrapError(ErrKindIntegrity, fmt.Sprintf("restore: cannot resolve joker %s", id), err)
			}
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
			}
			g.jokers = append(g.jokers, ij)
		}
	}

	g.resort()
	return g, nil
}

// SaveToDir writes a timestamped snapshot file under dir, mirroring the
// teacher's save.go naming convention.
func (g *Game) SaveToDir(dir string) (string, error) {
	data, err := g.Snapshot()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", wrapError(ErrKindSystem, "save: cannot create save directory", err)
	}
	filename := filepath.Join(dir, time.Now().UTC().Format(time.RFC3339)+".json")
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", wrapError(ErrKindSystem, "save: write failed", err)
	}
	return filename, nil
}
