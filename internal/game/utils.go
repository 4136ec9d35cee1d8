package game

import (
	crand "crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/google/uuid"
)

// ErrInsufficientNames is returned when a room needs more display names than the pool holds
var ErrInsufficientNames = errors.New("insufficient display names")

// NewRoomID allocates an opaque unique room id
func NewRoomID() string {
	return uuid.NewString()
}

// randIndex returns a uniform integer in [0, n) from crypto/rand
func randIndex(n int) (int, error) {
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("read random: %w", err)
	}
	return int(v.Int64()), nil
}

// Shuffle permutes s in place with an unbiased Fisher-Yates shuffle
func Shuffle[T any](s []T) error {
	for i := len(s) - 1; i > 0; i-- {
		j, err := randIndex(i + 1)
		if err != nil {
			return err
		}
		s[i], s[j] = s[j], s[i]
	}
	return nil
}

// PickDisplayNames draws n distinct names from the pool
func PickDisplayNames(n int) ([]string, error) {
	if n > len(DisplayNames) {
		return nil, fmt.Errorf("%w: requested %d, pool has %d", ErrInsufficientNames, n, len(DisplayNames))
	}
	names := DisplayNames
	pool := names[:]
	if err := Shuffle(pool); err != nil {
		return nil, err
	}
	return pool[:n], nil
}

// SpyCount returns floor(players * ratio)
func SpyCount(players int, ratio float64) int {
	// 6 * (1.0/3.0) must land on 2, not 1.999...
	return int(math.Floor(float64(players)*ratio + 1e-9))
}

// PickSpyIndices returns SpyCount(players, ratio) distinct seat indices
func PickSpyIndices(players int, ratio float64) ([]int, error) {
	idx := make([]int, players)
	for i := range idx {
		idx[i] = i
	}
	if err := Shuffle(idx); err != nil {
		return nil, err
	}
	return idx[:SpyCount(players, ratio)], nil
}
