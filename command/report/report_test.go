package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room-stats/domain/booking"
)

func TestParseRooms(t *testing.T) {
	rooms, err := parseRooms("")
	require.NoError(t, err)
	assert.Equal(t, booking.ConfRooms, rooms)

	rooms, err = parseRooms("uptown, Gallery")
	require.NoError(t, err)
	assert.Equal(t, []booking.Label{booking.Uptown, booking.Gallery}, rooms)

	_, err = parseRooms("HOLD")
	assert.EqualError(t, err, `unknown room "HOLD"`)
}

func TestParseRooms_SuggestsNearest(t *testing.T) {
	_, err := parseRooms("uptwn")
	assert.EqualError(t, err, `unknown room "uptwn" (did you mean UPTOWN?)`)

	_, err = parseRooms("nothing-like-it")
	assert.EqualError(t, err, `unknown room "nothing-like-it"`)
}
