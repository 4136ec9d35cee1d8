package models

// WordPair holds the common word given to innocents and the related word given to spies
type WordPair struct {
	Common   string `json:"common"`
	Spy      string `json:"spy"`
	Category string `json:"category"`
}
