package problem

import (
	"math/rand"
	"strings"
)

// Scenario themes a generated problem can be framed around.
var themes = []string{
	"sports day",
	"gardening",
	"library books",
	"bus rides",
	"pets",
	"fruit stall",
	"stationery shop",
	"recycling cans",
	"classroom seats",
	"swimming practice",
	"museum tickets",
	"bicycle rentals",
	"birthday party",
	"zoo animals",
	"farm eggs",
	"sandwiches",
	"oranges",
	"stickers",
	"balloons",
}

// PickTheme returns a theme whose normalized label does not already appear in
// the recent problem texts. When every theme has been used recently it falls
// back to a random one: repeating a scenario beats failing the request.
func PickTheme(recentTexts []string) string {
	bag := Normalize(strings.Join(recentTexts, " "))

	shuffled := make([]string, len(themes))
	copy(shuffled, themes)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	for _, t := range shuffled {
		if !strings.Contains(bag, Normalize(t)) {
			return t
		}
	}
	return shuffled[0]
}
