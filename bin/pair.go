package bin

// Pair is the content of one printed label: two bins side by side, or a
// single bin on the left half when no partner is left.
type Pair struct {
	Left  ID
	Right *ID // nil when unpaired
}

// Unpaired reports whether the right half is blank.
func (p Pair) Unpaired() bool {
	return p.Right == nil
}

// IDs returns the identifiers on the label, left first.
func (p Pair) IDs() []ID {
	if p.Right == nil {
		return []ID{p.Left}
	}
	return []ID{p.Left, *p.Right}
}

// Filename returns "{left}_{right}.png" or "{left}_blank.png".
func (p Pair) Filename() string {
	if p.Right == nil {
		return string(p.Left) + "_blank.png"
	}
	return string(p.Left) + "_" + string(*p.Right) + ".png"
}

// PairState is the state of a Pairer.
type PairState int

const (
	StateEmpty        PairState = iota // nothing buffered
	StateOneBuffered                   // one id waiting for a partner
)

func (s PairState) String() string {
	switch s {
	case StateEmpty:
		return "EMPTY"
	case StateOneBuffered:
		return "ONE_BUFFERED"
	default:
		return "UNKNOWN"
	}
}

// Pairer groups a stream of ids into consecutive pairs.
// The zero value is ready to use.
type Pairer struct {
	pending *ID
}

// State returns the current state.
func (p *Pairer) State() PairState {
	if p.pending == nil {
		return StateEmpty
	}
	return StateOneBuffered
}

// Pending returns the buffered id, if any.
func (p *Pairer) Pending() (ID, bool) {
	if p.pending == nil {
		return "", false
	}
	return *p.pending, true
}

// Add feeds the next id. It returns a completed pair when id finds a
// buffered partner, otherwise id is buffered and ok is false.
func (p *Pairer) Add(id ID) (pair Pair, ok bool) {
	if p.pending == nil {
		p.pending = &id
		return Pair{}, false
	}
	pair = Pair{Left: *p.pending, Right: &id}
	p.pending = nil
	return pair, true
}

// Flush returns the buffered id as an unpaired Pair and resets the Pairer.
func (p *Pairer) Flush() (pair Pair, ok bool) {
	if p.pending == nil {
		return Pair{}, false
	}
	pair = Pair{Left: *p.pending}
	p.pending = nil
	return pair, true
}

// Pairs groups ids into labels. Only the last Pair can be unpaired.
func Pairs(ids []ID) []Pair {
	pairs := make([]Pair, 0, (len(ids)+1)/2)
	var p Pairer
	for _, id := range ids {
		if pair, ok := p.Add(id); ok {
			pairs = append(pairs, pair)
		}
	}
	if pair, ok := p.Flush(); ok {
		pairs = append(pairs, pair)
	}
	return pairs
}
