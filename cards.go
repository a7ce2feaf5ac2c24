/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"crypto/rand"
	"encoding/binary"
	"sort"
)

const (
	totalCards        = 100
	minPlayers        = 2
	maxCardsPerPlayer = 2

	// unplacedPosition marks a card that has not been assigned a slot
	// yet. It sorts after every real slot index.
	unplacedPosition = 999
)

// randIntn returns a uniform int in [0, n) using crypto/rand.
func randIntn(n int) int {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic("crypto/rand failure: " + err.Error())
	}
	return int(binary.BigEndian.Uint64(b[:]) % uint64(n))
}

// newDeck returns the full deck of cards numbered 1 through totalCards.
func newDeck() []int {
	deck := make([]int, totalCards)
	for i := range deck {
		deck[i] = i + 1
	}
	return deck
}

// shuffleDeck applies a Fisher-Yates shuffle in place using crypto/rand.
func shuffleDeck(deck []int) {
	for i := len(deck) - 1; i > 0; i-- {
		j := randIntn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}

// deal shuffles a fresh deck and assigns cardsPerPlayer consecutive cards
// to each player in playerIDs order. The theme card is the next card after
// the last dealt hand, so it can never collide with a dealt card.
func deal(playerIDs []string, cardsPerPlayer int) (map[string][]int, int, error) {
	if cardsPerPlayer < 1 || cardsPerPlayer > maxCardsPerPlayer {
		return nil, 0, gameErr(KindValidationFailed, "invalid cards per player: %d", cardsPerPlayer)
	}
	if len(playerIDs)*cardsPerPlayer >= totalCards {
		return nil, 0, gameErr(KindValidationFailed, "too many players for a %d-card deck: %d", totalCards, len(playerIDs))
	}

	deck := newDeck()
	shuffleDeck(deck)

	hands := make(map[string][]int, len(playerIDs))
	for i, id := range playerIDs {
		start := i * cardsPerPlayer
		hand := make([]int, cardsPerPlayer)
		copy(hand, deck[start:start+cardsPerPlayer])
		hands[id] = hand
	}

	return hands, deck[len(playerIDs)*cardsPerPlayer], nil
}

// PlacedCard is one revealed card entry in the shared ordering.
type PlacedCard struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	CardNumber int    `json:"cardNumber"`
	CardIndex  int    `json:"cardIndex"`
	Position   int    `json:"position"`
	ScaleLabel string `json:"scaleLabel,omitempty"`
}

// isCorrectOrder reports whether the cards, sorted by their declared
// positions, carry strictly increasing card numbers. Equal or decreasing
// adjacent values fail.
func isCorrectOrder(cards []PlacedCard) bool {
	sorted := make([]PlacedCard, len(cards))
	copy(sorted, cards)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].CardNumber <= sorted[i-1].CardNumber {
			return false
		}
	}

	return true
}

// allCardsInOrder flattens every player's cards into a single sequence
// sorted by declared position, unplaced cards last. Card numbers are
// globally unique, so they make a deterministic tie-break.
func allCardsInOrder(players map[string]*Player) []PlacedCard {
	var cards []PlacedCard

	for playerID, player := range players {
		for cardIndex, cardNumber := range player.Cards {
			position := unplacedPosition
			if cardIndex < len(player.CardPositions) {
				position = player.CardPositions[cardIndex]
			}

			label := ""
			if cardIndex < len(player.ScaleLabels) {
				label = player.ScaleLabels[cardIndex]
			}

			cards = append(cards, PlacedCard{
				PlayerID:   playerID,
				PlayerName: player.Name,
				CardNumber: cardNumber,
				CardIndex:  cardIndex,
				Position:   position,
				ScaleLabel: label,
			})
		}
	}

	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Position != cards[j].Position {
			return cards[i].Position < cards[j].Position
		}
		return cards[i].CardNumber < cards[j].CardNumber
	})

	return cards
}
