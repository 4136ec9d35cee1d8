package game

import (
	"errors"
	"testing"
)

func TestPickDisplayNamesDistinct(t *testing.T) {
	t.Parallel()

	for range 50 {
		names, err := PickDisplayNames(PlayersPerRoom)
		if err != nil {
			t.Fatalf("pick names: %v", err)
		}
		if len(names) != PlayersPerRoom {
			t.Fatalf("len(names) = %d, want %d", len(names), PlayersPerRoom)
		}
		seen := make(map[string]bool)
		for _, n := range names {
			if seen[n] {
				t.Fatalf("duplicate name %q in %v", n, names)
			}
			seen[n] = true
		}
	}
}

func TestPickDisplayNamesDoesNotMutatePool(t *testing.T) {
	t.Parallel()

	if _, err := PickDisplayNames(len(DisplayNames)); err != nil {
		t.Fatalf("pick names: %v", err)
	}
	if DisplayNames[0] != "Alex" || DisplayNames[15] != "Peter" {
		t.Fatalf("pool was reordered: %v", DisplayNames)
	}
}

func TestPickDisplayNamesInsufficient(t *testing.T) {
	t.Parallel()

	_, err := PickDisplayNames(len(DisplayNames) + 1)
	if !errors.Is(err, ErrInsufficientNames) {
		t.Fatalf("err = %v, want ErrInsufficientNames", err)
	}
}

func TestSpyCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		players int
		want    int
	}{
		{players: 2, want: 0},
		{players: 3, want: 1},
		{players: 5, want: 1},
		{players: 6, want: 2},
		{players: 9, want: 3},
		{players: 16, want: 5},
	}
	for _, tt := range tests {
		if got := SpyCount(tt.players, SpyRatio); got != tt.want {
			t.Errorf("SpyCount(%d) = %d, want %d", tt.players, got, tt.want)
		}
	}
}

func TestPickSpyIndicesWithoutReplacement(t *testing.T) {
	t.Parallel()

	for range 200 {
		idx, err := PickSpyIndices(6, SpyRatio)
		if err != nil {
			t.Fatalf("pick spies: %v", err)
		}
		if len(idx) != 2 {
			t.Fatalf("len(idx) = %d, want 2", len(idx))
		}
		if idx[0] == idx[1] {
			t.Fatalf("duplicate spy index %d", idx[0])
		}
		for _, i := range idx {
			if i < 0 || i >= 6 {
				t.Fatalf("index %d out of range", i)
			}
		}
	}
}

func TestShuffleKeepsElements(t *testing.T) {
	t.Parallel()

	s := []int{1, 2, 3, 4, 5, 6, 7}
	if err := Shuffle(s); err != nil {
		t.Fatalf("shuffle: %v", err)
	}
	sum := 0
	for _, v := range s {
		sum += v
	}
	if sum != 28 || len(s) != 7 {
		t.Fatalf("shuffle lost elements: %v", s)
	}
}

func TestLoadWords(t *testing.T) {
	t.Parallel()

	words, err := LoadWords()
	if err != nil {
		t.Fatalf("load words: %v", err)
	}
	w, err := PickWord(words)
	if err != nil {
		t.Fatalf("pick word: %v", err)
	}
	if w.Common == "" || w.Spy == "" || w.Common == w.Spy {
		t.Fatalf("bad word pair %+v", w)
	}
}
