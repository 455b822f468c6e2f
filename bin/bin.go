package bin

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrMalformedRow is returned for a special row entry that is not ROW:COUNT.
var ErrMalformedRow = errors.New("malformed special row")

// ID identifies one storage bin, e.g. "A0103" for rack A, row 1, column 3.
type ID string

// NewID formats the identifier for a bin. Row and column are zero padded
// to two digits.
func NewID(letter string, row, col int) ID {
	return ID(fmt.Sprintf("%s%02d%02d", letter, row, col))
}

func (id ID) String() string {
	return string(id)
}

// Rack describes a lettered grid of bins.
type Rack struct {
	Letter string
	Width  int // default bins per row
	Height int // number of rows

	// SpecialRows overrides the bin count for individual rows.
	SpecialRows map[int]int
}

// Validate checks the rack dimensions.
func (r Rack) Validate() error {
	if r.Letter == "" {
		return fmt.Errorf("rack letter is empty")
	}
	if r.Width < 0 {
		return fmt.Errorf("rack width %d is negative", r.Width)
	}
	if r.Height < 0 {
		return fmt.Errorf("rack height %d is negative", r.Height)
	}
	return nil
}

// RowWidth returns the number of bins in row (1-based).
func (r Rack) RowWidth(row int) int {
	if n, ok := r.SpecialRows[row]; ok {
		return n
	}
	return r.Width
}

// Count returns the total number of bins in the rack.
func (r Rack) Count() int {
	n := 0
	for row := 1; row <= r.Height; row++ {
		n += r.RowWidth(row)
	}
	return n
}

// IDs enumerates every bin, row by row, then column by column.
func (r Rack) IDs() []ID {
	ids := make([]ID, 0, r.Count())
	for row := 1; row <= r.Height; row++ {
		for col := 1; col <= r.RowWidth(row); col++ {
			ids = append(ids, NewID(r.Letter, row, col))
		}
	}
	return ids
}

// ParseSpecialRows parses "ROW:COUNT" entries. Later entries for the same
// row win.
func ParseSpecialRows(entries []string) (map[int]int, error) {
	rows := make(map[int]int, len(entries))
	for _, entry := range entries {
		rowStr, countStr, ok := strings.Cut(strings.TrimSpace(entry), ":")
		if !ok {
			return nil, fmt.Errorf("%w %q: expected ROW:COUNT", ErrMalformedRow, entry)
		}
		row, err := strconv.Atoi(rowStr)
		if err != nil || row < 1 {
			return nil, fmt.Errorf("%w %q: bad row %q", ErrMalformedRow, entry, rowStr)
		}
		count, err := strconv.Atoi(countStr)
		if err != nil || count < 0 {
			return nil, fmt.Errorf("%w %q: bad count %q", ErrMalformedRow, entry, countStr)
		}
		rows[row] = count
	}
	return rows, nil
}

// FormatSpecialRows is the inverse of ParseSpecialRows, sorted by row.
func FormatSpecialRows(rows map[int]int) []string {
	keys := make([]int, 0, len(rows))
	for row := range rows {
		keys = append(keys, row)
	}
	sort.Ints(keys)

	out := make([]string, 0, len(keys))
	for _, row := range keys {
		out = append(out, fmt.Sprintf("%d:%d", row, rows[row]))
	}
	return out
}
