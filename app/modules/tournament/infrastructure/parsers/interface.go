package parsers

import (
	"errors"
	"fmt"
)

// ErrMissingColumn is returned when a required header cannot be found.
var ErrMissingColumn = errors.New("missing required column")

// Parser decodes bracket import files.
type Parser interface {
	ParsePlayers(fileData []byte) ([]PlayerRow, error)
	ParseMatches(fileData []byte) ([]MatchRow, error)
}

// PlayerRow is one entrant record. Row is the 1-based record number, header included.
type PlayerRow struct {
	Row     int
	Name    string
	Seed    *int
	Country *string
}

// MatchRow pairs two players by name in a round.
type MatchRow struct {
	Row         int
	RoundNumber int
	Player1     string
	Player2     string
}

// RowError ties a decode failure to its record.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}
