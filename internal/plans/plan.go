// Package plans manages each user's hiking plans: name, trail location,
// difficulty and free-form notes, plus a suggested packing checklist per
// difficulty.
package plans

import (
	"errors"
	"strings"
	"time"
)

const (
	DifficultyEasy     = "Easy"
	DifficultyModerate = "Moderate"
	DifficultyHard     = "Hard"
)

var (
	ErrNameRequired  = errors.New("plan name required")
	ErrBadDifficulty = errors.New("unknown difficulty")
)

type Plan struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	Name       string    `json:"name"`
	Location   string    `json:"location"`
	Difficulty string    `json:"difficulty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

var packingLists = map[string][]string{
	DifficultyEasy:     {"Water Bottle", "Map", "Snacks"},
	DifficultyModerate: {"Water Bottle", "Map", "Snacks", "First Aid Kit", "Rain Jacket"},
	DifficultyHard:     {"Water Bottle", "Map", "Snacks", "First Aid Kit", "Rain Jacket", "Hiking Poles", "Extra Layers"},
}

// PackingList returns the suggested gear checklist for a difficulty.
func PackingList(difficulty string) ([]string, bool) {
	items, ok := packingLists[normalizeDifficulty(difficulty)]
	if !ok {
		return nil, false
	}
	return append([]string(nil), items...), true
}

func normalizeDifficulty(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// Validate checks the user-supplied fields and normalizes them in place.
func (p *Plan) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return ErrNameRequired
	}

	p.Location = strings.TrimSpace(p.Location)
	p.Notes = strings.TrimSpace(p.Notes)

	p.Difficulty = normalizeDifficulty(p.Difficulty)
	if _, ok := packingLists[p.Difficulty]; !ok {
		return ErrBadDifficulty
	}
	return nil
}
