package seats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumns_Tiers(t *testing.T) {
	cases := []struct {
		maxTickets int
		want       int
	}{
		{1, 10},
		{100, 10},
		{101, 12},
		{200, 12},
		{201, 14},
		{500, 14},
		{501, 15},
		{1000, 15},
		{1001, 20},
		{2000, 20},
		{2001, 25},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Columns(tc.maxTickets), "maxTickets=%d", tc.maxTickets)
	}
}

func TestRowLabel_Base26(t *testing.T) {
	assert.Equal(t, "A", RowLabel(0))
	assert.Equal(t, "B", RowLabel(1))
	assert.Equal(t, "Z", RowLabel(25))
	assert.Equal(t, "AA", RowLabel(26))
	assert.Equal(t, "AB", RowLabel(27))
	assert.Equal(t, "AZ", RowLabel(51))
	assert.Equal(t, "BA", RowLabel(52))
	assert.Equal(t, "ZZ", RowLabel(701))
	assert.Equal(t, "AAA", RowLabel(702))
}

func TestGenerate_100Seats(t *testing.T) {
	seats := Generate(100)

	require.Len(t, seats, 100)
	assert.Equal(t, "A1", seats[0])
	assert.Equal(t, "A10", seats[9])
	assert.Equal(t, "B1", seats[10])
	assert.Equal(t, "J10", seats[99])

	// All identifiers are unique
	seen := make(map[string]struct{}, len(seats))
	for _, s := range seats {
		_, dup := seen[s]
		require.False(t, dup, "duplicate seat id %s", s)
		seen[s] = struct{}{}
	}
}

func TestGenerate_PartialLastRow(t *testing.T) {
	// 105 tickets at 12 columns: 8 full rows of 12 plus 9 seats in row I
	seats := Generate(105)

	require.Len(t, seats, 105)
	assert.Equal(t, "A1", seats[0])
	assert.Equal(t, "A12", seats[11])
	assert.Equal(t, "I9", seats[104])
}

func TestGenerate_MatchesValid(t *testing.T) {
	for _, maxTickets := range []int{1, 17, 100, 105, 333, 1000} {
		for _, seat := range Generate(maxTickets) {
			assert.True(t, Valid(maxTickets, seat), "maxTickets=%d seat=%s", maxTickets, seat)
		}
	}
}

func TestValid_RejectsOutOfGrid(t *testing.T) {
	// 100-seat grid is A1..J10
	assert.False(t, Valid(100, "J11"), "column past grid width")
	assert.False(t, Valid(100, "K1"), "row past capacity")
	assert.False(t, Valid(100, "A0"), "column zero")
	assert.False(t, Valid(100, "A01"), "leading zero")
	assert.False(t, Valid(100, "a1"), "lowercase row")
	assert.False(t, Valid(100, "A"), "missing column")
	assert.False(t, Valid(100, "12"), "missing row")
	assert.False(t, Valid(100, "A1B"), "trailing garbage")
	assert.False(t, Valid(100, ""), "empty")
	assert.False(t, Valid(0, "A1"), "zero capacity")
}

func TestValid_PartialLastRowBoundary(t *testing.T) {
	// 95 seats, 10 columns: row J holds only J1..J5
	assert.True(t, Valid(95, "J5"))
	assert.False(t, Valid(95, "J6"))
	assert.False(t, Valid(95, "J10"))
}

func TestValid_MultiLetterRows(t *testing.T) {
	// 2001 seats at 25 columns is 81 rows: A..Z (26), AA..AZ (52), up to CC
	seats := Generate(2001)
	require.Len(t, seats, 2001)

	last := seats[len(seats)-1]
	assert.True(t, Valid(2001, last))
	assert.Equal(t, "CC1", last) // 80 full rows of 25, one seat in row CC
}
