package parsers

import (
	"fmt"
	"strconv"
	"strings"
)

var (
	nameColumns    = []string{"name", "player", "player_name"}
	seedColumns    = []string{"seed", "seeding"}
	countryColumns = []string{"country", "nationality", "nat"}
	roundColumns   = []string{"round", "round_number", "roundnumber"}
	player1Columns = []string{"player1", "player_1", "player 1", "player1_name"}
	player2Columns = []string{"player2", "player_2", "player 2", "player2_name"}
)

func decodePlayers(rows [][]string) ([]PlayerRow, error) {
	header := rows[0]
	nameIdx := findColumn(header, nameColumns)
	if nameIdx < 0 {
		return nil, fmt.Errorf("%w: name", ErrMissingColumn)
	}
	seedIdx := findColumn(header, seedColumns)
	countryIdx := findColumn(header, countryColumns)

	var out []PlayerRow
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		line := i + 1

		name := cell(row, nameIdx)
		if name == "" {
			return nil, &RowError{Row: line, Err: fmt.Errorf("player name is empty")}
		}

		pr := PlayerRow{Row: line, Name: name}
		if raw := cell(row, seedIdx); raw != "" {
			seed, err := strconv.Atoi(raw)
			if err != nil {
				return nil, &RowError{Row: line, Err: fmt.Errorf("invalid seed %q", raw)}
			}
			pr.Seed = &seed
		}
		if raw := cell(row, countryIdx); raw != "" {
			pr.Country = &raw
		}
		out = append(out, pr)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no player rows found")
	}
	return out, nil
}

func decodeMatches(rows [][]string) ([]MatchRow, error) {
	header := rows[0]
	roundIdx := findColumn(header, roundColumns)
	p1Idx := findColumn(header, player1Columns)
	p2Idx := findColumn(header, player2Columns)
	switch {
	case roundIdx < 0:
		return nil, fmt.Errorf("%w: round", ErrMissingColumn)
	case p1Idx < 0:
		return nil, fmt.Errorf("%w: player1", ErrMissingColumn)
	case p2Idx < 0:
		return nil, fmt.Errorf("%w: player2", ErrMissingColumn)
	}

	var out []MatchRow
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if blank(row) {
			continue
		}
		line := i + 1

		raw := cell(row, roundIdx)
		roundNumber, err := strconv.Atoi(raw)
		if err != nil || roundNumber < 1 {
			return nil, &RowError{Row: line, Err: fmt.Errorf("invalid round number %q", raw)}
		}

		mr := MatchRow{
			Row:         line,
			RoundNumber: roundNumber,
			Player1:     cell(row, p1Idx),
			Player2:     cell(row, p2Idx),
		}
		if mr.Player1 == "" || mr.Player2 == "" {
			return nil, &RowError{Row: line, Err: fmt.Errorf("both player names are required")}
		}
		out = append(out, mr)
	}

	if len(out) == 0 {
		return nil, fmt.Errorf("no match rows found")
	}
	return out, nil
}

// findColumn returns the index of the first header matching any name, ignoring case, spaces, underscores and dashes.
func findColumn(header []string, possibleNames []string) int {
	for i, col := range header {
		colNorm := normalizeHeader(col)
		for _, name := range possibleNames {
			if colNorm == normalizeHeader(name) {
				return i
			}
		}
	}
	return -1
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
