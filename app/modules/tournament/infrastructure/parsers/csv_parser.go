package parsers

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// CSVParser implements Parser for comma separated files.
type CSVParser struct{}

// NewCSVParser creates a new CSV parser instance.
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

func (p *CSVParser) ParsePlayers(fileData []byte) ([]PlayerRow, error) {
	rows, err := p.readRows(fileData)
	if err != nil {
		return nil, err
	}
	return decodePlayers(rows)
}

func (p *CSVParser) ParseMatches(fileData []byte) ([]MatchRow, error) {
	rows, err := p.readRows(fileData)
	if err != nil {
		return nil, err
	}
	return decodeMatches(rows)
}

func (p *CSVParser) readRows(fileData []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(fileData))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV must contain at least header and one data row")
	}
	return rows, nil
}
