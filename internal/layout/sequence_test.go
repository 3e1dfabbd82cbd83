package layout

import (
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestRange_Len(t *testing.T) {
	tests := []struct {
		name string
		r    Range
		want int
	}{
		{"single", Range{5, 5}, 1},
		{"nine", Range{1, 9}, 9},
		{"empty", Range{10, 9}, 0},
		{"negative span", Range{-2, 2}, 5},
		{"top of int", Range{math.MaxInt - 1, math.MaxInt}, 2},
		{"bottom of int", Range{math.MinInt, math.MinInt + 2}, 3},
		{"wider than int", Range{math.MinInt, math.MaxInt}, math.MaxInt},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Len(); got != tt.want {
				t.Errorf("Len(): got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestPaginate_SinglePage(t *testing.T) {
	got := Paginate(Range{1, 9}, 9)
	want := []Chunk{{Index: 1, Start: 1, End: 9}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Paginate mismatch (-want +got):\n%s", diff)
	}
}

func TestPaginate_PartialLastPage(t *testing.T) {
	got := Paginate(Range{1, 10}, 9)
	want := []Chunk{
		{Index: 1, Start: 1, End: 9},
		{Index: 2, Start: 10, End: 10},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Paginate mismatch (-want +got):\n%s", diff)
	}
	if got[1].Len() != 1 {
		t.Errorf("last chunk Len(): got %d, want 1", got[1].Len())
	}
}

func TestPaginate_Empty(t *testing.T) {
	if got := Paginate(Range{5, 4}, 9); len(got) != 0 {
		t.Errorf("expected no chunks for empty range, got %v", got)
	}
	if got := Paginate(Range{1, 4}, 0); len(got) != 0 {
		t.Errorf("expected no chunks for zero capacity, got %v", got)
	}
}

// Every value in the range lands on exactly one page, in order.
func TestPaginate_CoversRangeWithoutGaps(t *testing.T) {
	for start := 0; start < 4; start++ {
		for end := start - 1; end < start+40; end++ {
			for capacity := 1; capacity <= 12; capacity++ {
				r := Range{start, end}
				chunks := Paginate(r, capacity)

				if len(chunks) != PageCount(r, capacity) {
					t.Fatalf("%v cap %d: got %d chunks, want %d", r, capacity, len(chunks), PageCount(r, capacity))
				}

				var seen []int
				for i, c := range chunks {
					if c.Index != i+1 {
						t.Fatalf("%v cap %d: chunk %d has index %d", r, capacity, i, c.Index)
					}
					if c.Len() > capacity {
						t.Fatalf("%v cap %d: chunk %d holds %d values", r, capacity, i, c.Len())
					}
					if i < len(chunks)-1 && c.Len() != capacity {
						t.Fatalf("%v cap %d: non-final chunk %d is partial", r, capacity, i)
					}
					for n := c.Start; n <= c.End; n++ {
						seen = append(seen, n)
					}
				}

				var want []int
				for n := r.Start; n <= r.End; n++ {
					want = append(want, n)
				}
				if diff := cmp.Diff(want, seen); diff != "" {
					t.Fatalf("%v cap %d: sequence mismatch (-want +got):\n%s", r, capacity, diff)
				}

				if rem := r.Len() % capacity; rem != 0 && chunks[len(chunks)-1].Len() != rem {
					t.Fatalf("%v cap %d: last chunk holds %d, want %d", r, capacity, chunks[len(chunks)-1].Len(), rem)
				}
			}
		}
	}
}

func TestPaginate_EdgesOfInt(t *testing.T) {
	tests := []struct {
		name     string
		r        Range
		capacity int
		want     []Chunk
	}{
		{
			name:     "ends at MaxInt",
			r:        Range{math.MaxInt - 1, math.MaxInt},
			capacity: 9,
			want:     []Chunk{{Index: 1, Start: math.MaxInt - 1, End: math.MaxInt}},
		},
		{
			name:     "full pages up to MaxInt",
			r:        Range{math.MaxInt - 3, math.MaxInt},
			capacity: 2,
			want: []Chunk{
				{Index: 1, Start: math.MaxInt - 3, End: math.MaxInt - 2},
				{Index: 2, Start: math.MaxInt - 1, End: math.MaxInt},
			},
		},
		{
			name:     "starts at MinInt",
			r:        Range{math.MinInt, math.MinInt + 2},
			capacity: 2,
			want: []Chunk{
				{Index: 1, Start: math.MinInt, End: math.MinInt + 1},
				{Index: 2, Start: math.MinInt + 2, End: math.MinInt + 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(chan []Chunk, 1)
			go func() { done <- Paginate(tt.r, tt.capacity) }()

			select {
			case got := <-done:
				if diff := cmp.Diff(tt.want, got); diff != "" {
					t.Errorf("Paginate mismatch (-want +got):\n%s", diff)
				}
			case <-time.After(3 * time.Second):
				t.Fatalf("Paginate(%v, %d) did not return", tt.r, tt.capacity)
			}
		})
	}
}

func TestPageCount(t *testing.T) {
	tests := []struct {
		r        Range
		capacity int
		want     int
	}{
		{Range{1, 9}, 9, 1},
		{Range{1, 10}, 9, 2},
		{Range{1, 700}, 9, 78},
		{Range{1, 200}, 9, 23},
		{Range{3, 2}, 9, 0},
		{Range{math.MaxInt - 1, math.MaxInt}, 9, 1},
		{Range{-1, math.MaxInt}, 1 << 30, 1<<(strconv.IntSize-31) + 1},
		{Range{math.MinInt, math.MaxInt}, 1, math.MaxInt},
	}

	for _, tt := range tests {
		if got := PageCount(tt.r, tt.capacity); got != tt.want {
			t.Errorf("PageCount(%v, %d): got %d, want %d", tt.r, tt.capacity, got, tt.want)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n, width int
		want     string
	}{
		{1, 3, "001"},
		{10, 3, "010"},
		{700, 3, "700"},
		{1234, 3, "1234"},
		{7, 0, "7"},
	}

	for _, tt := range tests {
		if got := FormatNumber(tt.n, tt.width); got != tt.want {
			t.Errorf("FormatNumber(%d, %d): got %q, want %q", tt.n, tt.width, got, tt.want)
		}
	}
}
