package classify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"room-stats/domain/booking"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "east_oak", normalize("EAST_OAK"))
	assert.Equal(t, "mtg   uptown", normalize("  Mtg:  Uptown!! "))
	assert.Equal(t, "", normalize(" : "))
}

func TestRatio(t *testing.T) {
	// 2*M/T over characters
	assert.Equal(t, 93, ratio("downtwn", "downtown"))
	assert.Equal(t, 100, ratio("hold", "hold"))
	assert.Equal(t, 0, ratio("", ""))
	assert.Equal(t, 100, partialRatio("uptown", "weekly standup uptown"))
}

func TestScore(t *testing.T) {
	assert.Equal(t, 100, Score("uptown", "UPTOWN"))
	assert.Equal(t, 93, Score("downtwn", "DOWNTOWN"))
	assert.Equal(t, 0, Score(" : ", "UPTOWN"))
	assert.Equal(t, 84, Score("oak east", "EAST_OAK"))
	// a long text containing the label scores through the partial window
	assert.Equal(t, 90, Score("weekly standup uptown", "UPTOWN"))
}

func TestBestMatch_ShortTypos(t *testing.T) {
	vocab := New(DefaultThreshold).vocabulary
	cases := []struct {
		text  string
		label booking.Label
		score int
	}{
		{"Dwntown Board : ", booking.Downtown, 79},
		{"Jingltown party : ", booking.Jingletown, 81},
		{"dwntwn : ", booking.Downtown, 86},
		{"hld : ", booking.Hold, 86},
	}
	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			label, score := BestMatch(tc.text, vocab)
			assert.Equal(t, tc.label, label)
			assert.Equal(t, tc.score, score)
			assert.Greater(t, score, DefaultThreshold)
		})
	}
}

func TestBestMatchKeepsFirstOnTie(t *testing.T) {
	label, score := BestMatch("", []booking.Label{booking.Uptown, booking.Downtown})
	assert.Equal(t, booking.Uptown, label)
	assert.Equal(t, 0, score)

	label, _ = BestMatch("uptown", booking.ConfRooms)
	assert.Equal(t, booking.Uptown, label)
}
