package flow

import (
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/PhilipFalla/pokecollect-gui/internal/models"
)

type cardNames []models.Card

func (c cardNames) String(i int) string { return c[i].Name + " " + c[i].SetName }
func (c cardNames) Len() int            { return len(c) }

// FilterCards returns the cards whose name or set fuzzily matches pattern,
// best match first. An empty pattern returns cards unchanged.
func FilterCards(cards []models.Card, pattern string) []models.Card {
	pattern = strings.TrimSpace(pattern)
	if pattern == "" {
		return cards
	}
	matches := fuzzy.FindFrom(pattern, cardNames(cards))
	out := make([]models.Card, 0, len(matches))
	for _, m := range matches {
		out = append(out, cards[m.Index])
	}
	return out
}
