package layout

import (
	"fmt"
	"math"
)

// Range is an inclusive span of sequence numbers.
type Range struct {
	Start int `json:"start" toml:"start" yaml:"start"`
	End   int `json:"end" toml:"end" yaml:"end"`
}

// Len returns the number of values in the range, or 0 if End < Start.
// Ranges wider than math.MaxInt report math.MaxInt.
func (r Range) Len() int {
	if r.End < r.Start {
		return 0
	}
	span := r.span()
	if span >= math.MaxInt {
		return math.MaxInt
	}
	return int(span) + 1
}

// span is End-Start computed without overflow. Only valid when End >= Start.
func (r Range) span() uint {
	return uint(r.End) - uint(r.Start)
}

// Empty reports whether the range holds no values.
func (r Range) Empty() bool {
	return r.Len() == 0
}

func (r Range) String() string {
	return fmt.Sprintf("%d..%d", r.Start, r.End)
}

// Chunk is the slice of the range that lands on one page.
type Chunk struct {
	// Index is the 1-based page number.
	Index int `json:"index"`
	Start int `json:"start"`
	End   int `json:"end"`
}

// Len returns the number of cells stamped on the page.
func (c Chunk) Len() int {
	return c.End - c.Start + 1
}

// Paginate splits r into consecutive page-sized chunks of at most capacity
// values each. The last chunk holds the remainder. An empty range, or a
// non-positive capacity, yields no chunks.
func Paginate(r Range, capacity int) []Chunk {
	if r.Empty() || capacity < 1 {
		return nil
	}

	pages := PageCount(r, capacity)
	chunks := make([]Chunk, 0, min(pages, maxPrealloc))
	n := r.Start
	for idx := 1; idx <= pages; idx++ {
		end := r.End
		if uint(r.End)-uint(n) >= uint(capacity) {
			end = n + capacity - 1
		}
		chunks = append(chunks, Chunk{Index: idx, Start: n, End: end})
		if end == r.End {
			break
		}
		n = end + 1
	}
	return chunks
}

// maxPrealloc bounds the up-front allocation for very long runs.
const maxPrealloc = 1024

// PageCount returns ceil(r.Len() / capacity), saturating at math.MaxInt.
func PageCount(r Range, capacity int) int {
	if capacity < 1 || r.Empty() {
		return 0
	}
	pages := r.span()/uint(capacity) + 1
	if pages == 0 || pages > math.MaxInt {
		return math.MaxInt
	}
	return int(pages)
}

// FormatNumber renders n as a decimal string zero-padded to width digits.
func FormatNumber(n, width int) string {
	return fmt.Sprintf("%0*d", width, n)
}
