package engine

import "testing"

func TestEvaluateHandHighCardScenarioS1(t *testing.T) {
	if err := LoadConfig(t.TempDir()); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	hand := Hand{Cards: []Card{{Rank: Ace, Suit: Spades}}}
	result := EvaluateHand(hand, nil, HandOptions{})

	if result.Evaluator.Name() != "High Card" {
		t.Fatalf("expected High Card, got %s", result.Evaluator.Name())
	}
	if result.BaseChips != 5 {
		t.Fatalf("expected base chips 5, got %d", result.BaseChips)
	}
	if result.CardValue != 11 {
		t.Fatalf("expected card value 11 for an Ace, got %d", result.CardValue)
	}
	if result.FinalScore != 16 {
		t.Fatalf("expected final score 16, got %d", result.FinalScore)
	}
}

func TestEvaluateHandPairScenarioS2(t *testing.T) {
	if err := LoadConfig(t.TempDir()); err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	hand := Hand{Cards: []Card{{Rank: Seven, Suit: Hearts}, {Rank: Seven, Suit: Clubs}}}
	result := EvaluateHand(hand, nil, HandOptions{})

	if result.Evaluator.Name() != "Pair" {
		t.Fatalf("expected Pair, got %s", result.Evaluator.Name())
	}
	if result.BaseChips != 10 || result.Mult != 2 {
		t.Fatalf("expected base chips 10 mult 2, got chips=%d mult=%d", result.BaseChips, result.Mult)
	}
	if result.CardValue != 14 {
		t.Fatalf("expected card value 14, got %d", result.CardValue)
	}
}

func classifyName(cards []Card, opts HandOptions) string {
	return classify(cards, opts).Name()
}

func TestHandRankerClassification(t *testing.T) {
	cases := []struct {
		name  string
		cards []Card
		want  string
	}{
		{"high card", []Card{{Rank: Two, Suit: Hearts}, {Rank: Five, Suit: Clubs}}, "High Card"},
		{"pair", []Card{{Rank: Nine, Suit: Hearts}, {Rank: Nine, Suit: Clubs}}, "Pair"},
		{"two pair", []Card{{Rank: Nine, Suit: Hearts}, {Rank: Nine, Suit: Clubs}, {Rank: Three, Suit: Spades}, {Rank: Three, Suit: Diamonds}}, "Two Pair"},
		{"three of a kind", []Card{{Rank: Four, Suit: Hearts}, {Rank: Four, Suit: Clubs}, {Rank: Four, Suit: Spades}}, "Three of a Kind"},
		{"straight", []Card{
			{Rank: Five, Suit: Hearts}, {Rank: Six, Suit: Clubs}, {Rank: Seven, Suit: Spades},
			{Rank: Eight, Suit: Diamonds}, {Rank: Nine, Suit: Hearts},
		}, "Straight"},
		{"ace-low straight", []Card{
			{Rank: Ace, Suit: Hearts}, {Rank: Two, Suit: Clubs}, {Rank: Three, Suit: Spades},
			{Rank: Four, Suit: Diamonds}, {Rank: Five, Suit: Hearts},
		}, "Straight"},
		{"flush", []Card{
			{Rank: Two, Suit: Hearts}, {Rank: Five, Suit: Hearts}, {Rank: Seven, Suit: Hearts},
			{Rank: Nine, Suit: Hearts}, {Rank: King, Suit: Hearts},
		}, "Flush"},
		{"full house", []Card{
			{Rank: Six, Suit: Hearts}, {Rank: Six, Suit: Clubs}, {Rank: Six, Suit: Spades},
			{Rank: Nine, Suit: Diamonds}, {Rank: Nine, Suit: Hearts},
		}, "Full House"},
		{"four of a kind", []Card{
			{Rank: Eight, Suit: Hearts}, {Rank: Eight, Suit: Clubs}, {Rank: Eight, Suit: Spades}, {Rank: Eight, Suit: Diamonds},
		}, "Four of a Kind"},
		{"straight flush", []Card{
			{Rank: Five, Suit: Hearts}, {Rank: Six, Suit: Hearts}, {Rank: Seven, Suit: Hearts},
			{Rank: Eight, Suit: Hearts}, {Rank: Nine, Suit: Hearts},
		}, "Straight Flush"},
		{"royal flush", []Card{
			{Rank: Ten, Suit: Spades}, {Rank: Jack, Suit: Spades}, {Rank: Queen, Suit: Spades},
			{Rank: King, Suit: Spades}, {Rank: Ace, Suit: Spades},
		}, "Royal Flush"},
		{"five of a kind", []Card{
			{Rank: Seven, Suit: Hearts}, {Rank: Seven, Suit: Clubs}, {Rank: Seven, Suit: Spades},
			{Rank: Seven, Suit: Diamonds}, {Rank: Seven, Suit: Hearts},
		}, "Five of a Kind"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := classifyName(c.cards, HandOptions{}); got != c.want {
				t.Errorf("classify(%s) = %q, want %q", c.name, got, c.want)
			}
		})
	}
}

func TestFlushWildCountsAsAnySuit(t *testing.T) {
	cards := []Card{
		{Rank: Two, Suit: Hearts}, {Rank: Five, Suit: Hearts}, {Rank: Seven, Suit: Hearts},
		{Rank: Nine, Suit: Hearts}, {Rank: King, Suit: Clubs, Enhancement: Wild},
	}
	if !isFlush(cards, HandOptions{}) {
		t.Fatal("expected a wild-suit card to complete the flush")
	}
}

func TestStoneCardExcludedFromRankDetection(t *testing.T) {
	cards := []Card{
		{Rank: Nine, Suit: Hearts}, {Rank: Nine, Suit: Clubs}, {Enhancement: Stone},
	}
	if classifyName(cards, HandOptions{}) != "Pair" {
		t.Fatal("expected the Stone card to be ignored for rank detection")
	}
}

func TestFourFingersAllowsFourCardFlushAndStraight(t *testing.T) {
	flush := []Card{
		{Rank: Two, Suit: Hearts}, {Rank: Five, Suit: Hearts}, {Rank: Seven, Suit: Hearts}, {Rank: Nine, Suit: Hearts},
	}
	if isFlush(flush, HandOptions{}) {
		t.Fatal("expected 4-card flush to require four-fingers")
	}
	if !isFlush(flush, HandOptions{FourFingers: true}) {
		t.Fatal("expected four-fingers to allow a 4-card flush")
	}

	straight := []Card{
		{Rank: Five, Suit: Hearts}, {Rank: Six, Suit: Clubs}, {Rank: Seven, Suit: Spades}, {Rank: Eight, Suit: Diamonds},
	}
	if isStraight(straight, HandOptions{}) {
		t.Fatal("expected 4-card straight to require four-fingers")
	}
	if !isStraight(straight, HandOptions{FourFingers: true}) {
		t.Fatal("expected four-fingers to allow a 4-card straight")
	}
}

// TestHandRankerTotality is the spec's totality property: every non-empty
// selection of <=5 cards classifies to exactly one rank (never zero, never
// more than one — by construction of the dispatch loop returning on first
// match).
func TestHandRankerTotality(t *testing.T) {
	deck := NewStandardDeck().Cards()
	selections := [][]Card{
		{deck[0]},
		{deck[0], deck[1]},
		{deck[0], deck[1], deck[2]},
		{deck[0], deck[1], deck[2], deck[3]},
		{deck[0], deck[1], deck[2], deck[3], deck[4]},
	}
	for _, sel := range selections {
		name := classifyName(sel, HandOptions{})
		if name == "" {
			t.Errorf("selection %v classified to empty rank", sel)
		}
	}
}

func TestHighestScoringSuitTieBreak(t *testing.T) {
	// Frozen order: Spade > Heart > Diamond > Club.
	cards := []Card{{Rank: King, Suit: Diamonds}, {Rank: King, Suit: Spades}, {Rank: King, Suit: Hearts}}
	if got := HighestScoringSuit(cards); got != Spades {
		t.Fatalf("expected Spades to win the tie-break, got %v", got)
	}
}
