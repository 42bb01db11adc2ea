package parsers

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// XLSXParser reads the first sheet of a workbook.
type XLSXParser struct{}

func NewXLSXParser() *XLSXParser {
	return &XLSXParser{}
}

func (p *XLSXParser) ParsePlayers(fileData []byte) ([]PlayerRow, error) {
	rows, err := p.readRows(fileData)
	if err != nil {
		return nil, err
	}
	return decodePlayers(rows)
}

func (p *XLSXParser) ParseMatches(fileData []byte) ([]MatchRow, error) {
	rows, err := p.readRows(fileData)
	if err != nil {
		return nil, err
	}
	return decodeMatches(rows)
}

func (p *XLSXParser) readRows(fileData []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(fileData))
	if err != nil {
		return nil, fmt.Errorf("failed to parse XLSX: %w", err)
	}
	defer f.Close()

	sheetList := f.GetSheetList()
	if len(sheetList) == 0 {
		return nil, fmt.Errorf("XLSX file contains no sheets")
	}

	rows, err := f.GetRows(sheetList[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("XLSX must contain at least header and one data row")
	}
	return rows, nil
}
