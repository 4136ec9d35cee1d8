package game

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/aaronzipp/sus-arena/internal/models"
)

//go:embed words.json
var wordsJSON []byte

// LoadWords parses the embedded word-pair pool
func LoadWords() ([]models.WordPair, error) {
	var words []models.WordPair
	if err := json.Unmarshal(wordsJSON, &words); err != nil {
		return nil, fmt.Errorf("parsing words.json: %w", err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("parsing words.json: empty pool")
	}
	return words, nil
}

// PickWord draws one pair uniformly from words
func PickWord(words []models.WordPair) (models.WordPair, error) {
	if len(words) == 0 {
		return models.WordPair{}, fmt.Errorf("pick word: empty pool")
	}
	i, err := randIndex(len(words))
	if err != nil {
		return models.WordPair{}, err
	}
	return words[i], nil
}
