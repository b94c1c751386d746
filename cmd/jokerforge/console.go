package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"jokerforge/internal/engine"
)

// consoleListener presents emitted events on stdout, mirroring the teacher's
// LoggerEventHandler but driven by the generalized multi-listener Subscribe
// contract rather than a single hardcoded handler.
type consoleListener struct{}

func (consoleListener) HandleEvent(event engine.Event) {
	switch e := event.(type) {
	case engine.GameStartedEvent:
		fmt.Println("Welcome to jokerforge.")
		fmt.Println("Progress through the antes, each with a Small, Big, and Boss Blind.")
		fmt.Println()
	case engine.StageChangedEvent:
		fmt.Printf("-> %s (Ante %d, %s)\n", e.To, e.Ante, e.Blind)
	case engine.HandPlayedEvent:
		fmt.Printf("Hand: %s\n", e.HandType)
		fmt.Printf("Base %d + joker chips %d | card values %d | mult %d + joker mult %d | x%.2f\n",
			e.BaseChips, e.JokerChips, e.CardValues, e.Multiplier, e.JokerMult, e.MultFactor)
		fmt.Printf("Final score: %d (total %d)\n", e.FinalScore, e.NewTotalScore)
		fmt.Println(strings.Repeat("-", 40))
	case engine.CardsDiscardedEvent:
		fmt.Printf("Discarded %d card(s), %d discards left\n", len(e.DiscardedCards), e.DiscardsLeft)
	case engine.BlindDefeatedEvent:
		fmt.Printf("Blind defeated! Score %d/%d. Earned $%d (new balance $%d)\n",
			e.Score, e.Target, e.TotalReward, e.NewMoney)
	case engine.ShopOpenedEvent:
		fmt.Printf("Shop open. Money: $%d, reroll cost $%d\n", e.Money, e.RerollCost)
		for i, item := range e.Items {
			fmt.Printf("  %d. %s - $%d\n", i+1, item.Name, item.Cost)
		}
	case engine.ShopClosedEvent:
		fmt.Println("Left the shop.")
	case engine.ShopRerolledEvent:
		fmt.Printf("Rerolled for $%d. New reroll cost $%d, balance $%d\n", e.Cost, e.NewRerollCost, e.RemainingMoney)
		for i, item := range e.NewItems {
			fmt.Printf("  %d. %s - $%d\n", i+1, item.Name, item.Cost)
		}
	case engine.JokerSoldEvent:
		fmt.Printf("Sold %s for $%d (balance $%d)\n", e.Joker.Name, e.SellValue, e.RemainingMoney)
	case engine.JokerMovedEvent:
		fmt.Printf("Moved %s %s\n", e.Name, e.Direction)
	case engine.BlindSkippedEvent:
		fmt.Printf("Skipped %s, received tag: %s\n", e.BlindType, e.Tag.Name)
	case engine.InvalidActionEvent:
		fmt.Printf("Invalid: %s\n", e.Reason)
	case engine.MessageEvent:
		fmt.Println(e.Message)
	case engine.GameOverEvent:
		fmt.Println(strings.Repeat("=", 40))
		fmt.Printf("Defeat. Final score %d/%d (Ante %d)\n", e.FinalScore, e.Target, e.Ante)
	case engine.VictoryEvent:
		fmt.Println(strings.Repeat("=", 40))
		fmt.Println("Victory! You cleared every ante.")
	}
}

// consoleDriver reads player commands from r and drives a Game until it
// reaches a terminal stage or the reader is exhausted.
type consoleDriver struct {
	game    *engine.Game
	scanner *bufio.Scanner
}

func newConsoleDriver(g *engine.Game, r io.Reader) *consoleDriver {
	return &consoleDriver{game: g, scanner: bufio.NewScanner(r)}
}

// Run drives the console loop until the game ends or input runs out.
func (d *consoleDriver) Run() {
	for d.game.Stage() != engine.StageGameOver && d.game.Stage() != engine.StageVictory {
		d.printHand()
		fmt.Print("(s)elect blind, s(k)ip blind, (p)lay <cards>, (d)iscard <cards>, (r)esort, " +
			"(m)ove <joker> up|down, (b)uy <slot>, reroll, (sell) <joker>, (x)it shop, (q)uit: ")
		if !d.scanner.Scan() {
			return
		}
		if d.dispatch(strings.TrimSpace(d.scanner.Text())) {
			return
		}
	}
}

func (d *consoleDriver) printHand() {
	hand := d.game.Hand()
	if len(hand) == 0 {
		return
	}
	fmt.Println("Your cards:")
	for i, c := range hand {
		fmt.Printf("%d: %s ", i+1, c)
	}
	fmt.Println()
	if names := d.game.JokerNames(); len(names) > 0 {
		fmt.Println("Your jokers:")
		for i, name := range names {
			fmt.Printf("%d: %s ", i+1, name)
		}
		fmt.Println()
	}
}

// dispatch executes one input line and reports whether the driver should
// stop.
func (d *consoleDriver) dispatch(line string) bool {
	if line == "" {
		return false
	}
	fields := strings.Fields(line)
	cmd := strings.ToLower(fields[0])

	switch cmd {
	case "q", "quit":
		fmt.Println("Thanks for playing.")
		return true
	case "s", "select":
		d.apply(engine.Action{Type: engine.ActionSelectBlind})
	case "k", "skip":
		d.apply(engine.Action{Type: engine.ActionSkipBlind})
	case "p", "play":
		d.apply(engine.Action{Type: engine.ActionPlayHand, Indices: parseIndices(fields[1:])})
	case "d", "discard":
		d.apply(engine.Action{Type: engine.ActionDiscard, Indices: parseIndices(fields[1:])})
	case "r", "resort":
		d.apply(engine.Action{Type: engine.ActionReorderHand})
	case "m", "move":
		d.dispatchMove(fields[1:])
	case "b", "buy":
		d.dispatchBuy(fields[1:])
	case "rr", "reroll":
		d.apply(engine.Action{Type: engine.ActionRerollShop})
	case "sell":
		d.dispatchSell(fields[1:])
	case "x", "exit":
		d.apply(engine.Action{Type: engine.ActionExitShop})
	default:
		fmt.Println("unrecognized command")
	}
	return false
}

// dispatchMove handles "move <joker> up|down", translating the 1-based
// joker slot the player types into Action's 0-based index.
func (d *consoleDriver) dispatchMove(args []string) {
	if len(args) != 2 {
		fmt.Println("usage: move <joker> up|down")
		return
	}
	idx := parseIndices(args[:1])
	if len(idx) != 1 {
		fmt.Println("usage: move <joker> up|down")
		return
	}
	d.apply(engine.Action{Type: engine.ActionMoveJoker, Indices: idx, Target: strings.ToLower(args[1])})
}

// dispatchBuy handles "buy <slot>", resolving the shop slot the player
// picked to the offered joker's id before submitting ActionBuyItem.
func (d *consoleDriver) dispatchBuy(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: buy <slot>")
		return
	}
	idx := parseIndices(args)
	if len(idx) != 1 {
		fmt.Println("usage: buy <slot>")
		return
	}
	offers := d.game.ShopOffers()
	if idx[0] < 0 || idx[0] >= len(offers) {
		fmt.Println("no such shop slot")
		return
	}
	d.apply(engine.Action{Type: engine.ActionBuyItem, ItemID: string(offers[idx[0]])})
}

// dispatchSell handles "sell <joker>", a 1-based index into the joker row.
func (d *consoleDriver) dispatchSell(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: sell <joker>")
		return
	}
	idx := parseIndices(args)
	if len(idx) != 1 {
		fmt.Println("usage: sell <joker>")
		return
	}
	d.apply(engine.Action{Type: engine.ActionSellJoker, Indices: idx})
}

func (d *consoleDriver) apply(a engine.Action) {
	if _, err := d.game.Apply(a); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// parseIndices turns 1-based console input ("1 3 5") into 0-based card
// indices, silently dropping anything that doesn't parse as a positive
// integer.
func parseIndices(tokens []string) []int {
	var out []int
	for _, tok := range tokens {
		n, err := strconv.Atoi(tok)
		if err != nil || n <= 0 {
			continue
		}
		out = append(out, n-1)
	}
	return out
}
