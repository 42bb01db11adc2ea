package tournamentdomain

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

const (
	MinSeed = 1
	MaxSeed = 128
)

var ErrInvalidPlayer = errors.New("invalid player")

// PlayerInput is a bracket entrant before persistence.
type PlayerInput struct {
	Name    string
	Seed    *int
	Country *string
}

// Normalize trims the name and upper-cases the country code, then validates.
func (p PlayerInput) Normalize() (PlayerInput, error) {
	out := PlayerInput{Name: strings.TrimSpace(p.Name), Seed: p.Seed}
	if out.Name == "" {
		return PlayerInput{}, fmt.Errorf("%w: name is required", ErrInvalidPlayer)
	}
	if p.Seed != nil && (*p.Seed < MinSeed || *p.Seed > MaxSeed) {
		return PlayerInput{}, fmt.Errorf("%w: seed %d outside %d..%d", ErrInvalidPlayer, *p.Seed, MinSeed, MaxSeed)
	}
	if p.Country != nil {
		code := strings.ToUpper(strings.TrimSpace(*p.Country))
		if code != "" {
			if len(code) != 3 || strings.IndexFunc(code, func(r rune) bool { return !unicode.IsLetter(r) }) >= 0 {
				return PlayerInput{}, fmt.Errorf("%w: country %q is not a 3-letter code", ErrInvalidPlayer, *p.Country)
			}
			out.Country = &code
		}
	}
	return out, nil
}
