package seats

import "strconv"

// The seat grid is generated, never stored: capacity alone determines the
// layout, so "valid seat" is a pure computation and every node answers it
// identically with no coordination.

// Columns returns the grid width for an event capacity. Wider tiers keep
// large venues from producing absurdly tall seat maps.
func Columns(maxTickets int) int {
	switch {
	case maxTickets <= 100:
		return 10
	case maxTickets <= 200:
		return 12
	case maxTickets <= 500:
		return 14
	case maxTickets <= 1000:
		return 15
	case maxTickets <= 2000:
		return 20
	default:
		return 25
	}
}

// Rows returns the number of rows needed to seat maxTickets
func Rows(maxTickets int) int {
	columns := Columns(maxTickets)
	return (maxTickets + columns - 1) / columns
}

// RowLabel returns the spreadsheet-style label for a zero-based row index:
// A..Z, then AA..AZ, BA.. and so on.
func RowLabel(index int) string {
	label := ""
	for n := index; n >= 0; n = n/26 - 1 {
		label = string(rune('A'+n%26)) + label
	}
	return label
}

// rowIndex decodes a row label back to its zero-based index, or -1 if the
// label is not a well-formed uppercase base-26 sequence.
func rowIndex(label string) int {
	if label == "" {
		return -1
	}
	idx := 0
	for _, c := range label {
		if c < 'A' || c > 'Z' {
			return -1
		}
		idx = idx*26 + int(c-'A'+1)
	}
	return idx - 1
}

// Generate produces the full ordered seat identifier list for a capacity,
// filled row-major: A1..A10, B1..B10, ... until maxTickets ids exist.
func Generate(maxTickets int) []string {
	columns := Columns(maxTickets)
	rows := Rows(maxTickets)

	seatIDs := make([]string, 0, maxTickets)
	for row := 0; row < rows; row++ {
		label := RowLabel(row)
		for col := 1; col <= columns; col++ {
			if len(seatIDs) >= maxTickets {
				return seatIDs
			}
			seatIDs = append(seatIDs, label+strconv.Itoa(col))
		}
	}
	return seatIDs
}

// Valid reports whether seat belongs to the generated set for maxTickets.
// O(1): the seat is parsed into (row, column) and checked against the grid
// bounds rather than materializing the seat list.
func Valid(maxTickets int, seat string) bool {
	if maxTickets <= 0 {
		return false
	}

	// Split the letter prefix from the numeric suffix
	split := 0
	for split < len(seat) && seat[split] >= 'A' && seat[split] <= 'Z' {
		split++
	}
	if split == 0 || split == len(seat) {
		return false
	}

	row := rowIndex(seat[:split])
	if row < 0 {
		return false
	}

	// The generator never emits leading zeros, so "A01" is not a seat
	digits := seat[split:]
	if digits[0] == '0' {
		return false
	}
	col := 0
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
		col = col*10 + int(digits[i]-'0')
		if col > maxTickets {
			return false
		}
	}

	columns := Columns(maxTickets)
	if col < 1 || col > columns {
		return false
	}

	ordinal := row*columns + col - 1
	return ordinal < maxTickets
}

// WellFormed reports whether seat has the shape of a grid identifier
// (row label followed by a column number with no leading zero), without
// checking it against any capacity. Used for request validation before
// the event is loaded.
func WellFormed(seat string) bool {
	split := 0
	for split < len(seat) && seat[split] >= 'A' && seat[split] <= 'Z' {
		split++
	}
	if split == 0 || split == len(seat) {
		return false
	}
	if rowIndex(seat[:split]) < 0 {
		return false
	}

	digits := seat[split:]
	if digits[0] == '0' {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}
