package main

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlayerIDs(n int) []string {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("player-%02d", i)
	}
	return ids
}

func TestDeal(t *testing.T) {
	for players := 2; players <= 10; players++ {
		for cardsPerPlayer := 1; cardsPerPlayer <= 2; cardsPerPlayer++ {
			name := fmt.Sprintf("%d players %d cards", players, cardsPerPlayer)
			t.Run(name, func(t *testing.T) {
				ids := testPlayerIDs(players)

				hands, themeCard, err := deal(ids, cardsPerPlayer)
				require.NoError(t, err)
				require.Len(t, hands, players)

				seen := make(map[int]bool)
				for _, id := range ids {
					require.Len(t, hands[id], cardsPerPlayer)
					for _, card := range hands[id] {
						assert.GreaterOrEqual(t, card, 1)
						assert.LessOrEqual(t, card, totalCards)
						assert.False(t, seen[card], "card %d dealt twice", card)
						seen[card] = true
					}
				}

				assert.False(t, seen[themeCard], "theme card %d was also dealt", themeCard)
				assert.GreaterOrEqual(t, themeCard, 1)
				assert.LessOrEqual(t, themeCard, totalCards)
			})
		}
	}

	t.Run("rejects invalid cards per player", func(t *testing.T) {
		_, _, err := deal(testPlayerIDs(2), 0)
		assert.Equal(t, KindValidationFailed, errKind(err))

		_, _, err = deal(testPlayerIDs(2), 3)
		assert.Equal(t, KindValidationFailed, errKind(err))
	})

	t.Run("rejects deck exhaustion", func(t *testing.T) {
		_, _, err := deal(testPlayerIDs(50), 2)
		assert.Equal(t, KindValidationFailed, errKind(err))

		_, _, err = deal(testPlayerIDs(100), 1)
		assert.Equal(t, KindValidationFailed, errKind(err))
	})

	t.Run("hands follow player order deterministically", func(t *testing.T) {
		// The deck order is random but assignment is slice-by-index, so
		// every card must land in some hand and hand sizes are exact.
		ids := testPlayerIDs(49)
		hands, _, err := deal(ids, 2)
		require.NoError(t, err)

		dealt := 0
		for _, hand := range hands {
			dealt += len(hand)
		}
		assert.Equal(t, 98, dealt)
	})
}

func TestShuffleDeck(t *testing.T) {
	t.Run("preserves deck contents", func(t *testing.T) {
		deck := newDeck()
		shuffleDeck(deck)

		require.Len(t, deck, totalCards)
		seen := make(map[int]bool)
		for _, card := range deck {
			seen[card] = true
		}
		assert.Len(t, seen, totalCards)
	})
}

func TestThemeIntervalFor(t *testing.T) {
	t.Run("buckets land in range and never decrease", func(t *testing.T) {
		previous := 0
		for card := 1; card <= totalCards; card++ {
			interval := themeIntervalFor(card)
			assert.GreaterOrEqual(t, interval, 0)
			assert.LessOrEqual(t, interval, 19)
			assert.GreaterOrEqual(t, interval, previous)
			previous = interval
		}
	})

	t.Run("interval boundaries", func(t *testing.T) {
		assert.Equal(t, 0, themeIntervalFor(1))
		assert.Equal(t, 0, themeIntervalFor(5))
		assert.Equal(t, 1, themeIntervalFor(6))
		assert.Equal(t, 19, themeIntervalFor(96))
		assert.Equal(t, 19, themeIntervalFor(100))
	})

	t.Run("theme range contains the card", func(t *testing.T) {
		for card := 1; card <= totalCards; card++ {
			theme := themeForCard(card)
			assert.GreaterOrEqual(t, card, theme.Low)
			assert.LessOrEqual(t, card, theme.High)
			assert.NotEmpty(t, theme.Scale)
		}
	})
}

func TestIsCorrectOrder(t *testing.T) {
	t.Run("ascending values at ascending positions", func(t *testing.T) {
		assert.True(t, isCorrectOrder([]PlacedCard{
			{CardNumber: 1, Position: 0},
			{CardNumber: 2, Position: 1},
			{CardNumber: 3, Position: 2},
		}))
	})

	t.Run("positions reorder the check", func(t *testing.T) {
		assert.True(t, isCorrectOrder([]PlacedCard{
			{CardNumber: 3, Position: 2},
			{CardNumber: 1, Position: 0},
			{CardNumber: 2, Position: 1},
		}))
	})

	t.Run("descending values fail", func(t *testing.T) {
		assert.False(t, isCorrectOrder([]PlacedCard{
			{CardNumber: 3, Position: 0},
			{CardNumber: 1, Position: 1},
		}))
	})

	t.Run("equal values fail", func(t *testing.T) {
		assert.False(t, isCorrectOrder([]PlacedCard{
			{CardNumber: 5, Position: 0},
			{CardNumber: 5, Position: 1},
		}))
	})

	t.Run("empty and single card orders pass", func(t *testing.T) {
		assert.True(t, isCorrectOrder(nil))
		assert.True(t, isCorrectOrder([]PlacedCard{{CardNumber: 42, Position: 0}}))
	})
}

func TestAllCardsInOrder(t *testing.T) {
	t.Run("flattens and sorts by position", func(t *testing.T) {
		players := map[string]*Player{
			"a": {Name: "Alice", Cards: []int{30, 70}, CardPositions: []int{2, 0}},
			"b": {Name: "Bob", Cards: []int{50}, CardPositions: []int{1}},
		}

		cards := allCardsInOrder(players)
		require.Len(t, cards, 3)

		assert.Equal(t, 70, cards[0].CardNumber)
		assert.Equal(t, 50, cards[1].CardNumber)
		assert.Equal(t, 30, cards[2].CardNumber)
		assert.Equal(t, "Alice", cards[0].PlayerName)
		assert.Equal(t, 1, cards[0].CardIndex)
	})

	t.Run("unplaced cards sort last", func(t *testing.T) {
		players := map[string]*Player{
			"a": {Name: "Alice", Cards: []int{10, 20}, CardPositions: []int{unplacedPosition, 0}},
		}

		cards := allCardsInOrder(players)
		require.Len(t, cards, 2)
		assert.Equal(t, 20, cards[0].CardNumber)
		assert.Equal(t, 10, cards[1].CardNumber)
		assert.Equal(t, unplacedPosition, cards[1].Position)
	})

	t.Run("missing positions default to unplaced", func(t *testing.T) {
		players := map[string]*Player{
			"a": {Name: "Alice", Cards: []int{10}, CardPositions: []int{}},
		}

		cards := allCardsInOrder(players)
		require.Len(t, cards, 1)
		assert.Equal(t, unplacedPosition, cards[0].Position)
	})

	t.Run("carries scale labels", func(t *testing.T) {
		players := map[string]*Player{
			"a": {Name: "Alice", Cards: []int{10}, CardPositions: []int{0}, ScaleLabels: []string{"lukewarm tea"}},
		}

		cards := allCardsInOrder(players)
		require.Len(t, cards, 1)
		assert.Equal(t, "lukewarm tea", cards[0].ScaleLabel)
	})
}
