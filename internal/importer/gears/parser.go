// Package gears reads CSV exports of the studio's gear sheet.
package gears

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/MrJamesThe3rd/lensflow/internal/amount"
	enc "github.com/MrJamesThe3rd/lensflow/internal/encoding"
	"github.com/MrJamesThe3rd/lensflow/internal/inventory"
	"github.com/MrJamesThe3rd/lensflow/internal/model"
)

//go:embed seed.csv
var seed []byte

// Parser reads gear sheets with English or Arabic headers, separated by
// commas or semicolons, in any encoding encoding.NewUTF8Reader understands.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

// Seed parses the built-in My Gears list.
func (p *Parser) Seed() ([]inventory.AssetParams, error) {
	return p.Parse(bytes.NewReader(seed))
}

func (p *Parser) Parse(r io.Reader) ([]inventory.AssetParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	comma, err := sniffComma(br)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(br)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, fmt.Errorf("no gear sheet header found: expected Type, Name and Quantity columns: %w", model.ErrValidation)
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1)
}

// sniffComma picks ';' when the first line has more semicolons than commas.
func sniffComma(br *bufio.Reader) (rune, error) {
	line, err := br.Peek(1024)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return 0, fmt.Errorf("read header: %w", err)
	}

	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';', nil
	}

	return ',', nil
}

// colIndex maps normalized header names to their index in the row.
type colIndex map[string]int

func (c colIndex) get(row []string, name string) string {
	idx, ok := c[name]
	if !ok || name == "" {
		return ""
	}

	return cellValue(row, idx)
}

func headerKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// detectProfile scans rows for a header that matches a known profile.
func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := headerKey(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows converts data rows. Rows without a name are skipped.
func parseRows(p *Profile, cols colIndex, rows [][]string, headerRowNum int) ([]inventory.AssetParams, error) {
	var items []inventory.AssetParams

	for i, row := range rows {
		rowNum := headerRowNum + i + 2 // 1-based, skipping header

		name := cols.get(row, p.NameCol)
		if name == "" {
			continue
		}

		qty, err := parseQuantity(cols.get(row, p.QuantityCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		purchased, err := model.ParseDay(cols.get(row, p.DateCol))
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid purchase date: %w", rowNum, model.ErrValidation)
		}

		items = append(items, inventory.AssetParams{
			Name:         name,
			Category:     cols.get(row, p.TypeCol),
			Quantity:     qty,
			Brand:        dashless(cols.get(row, p.BrandCol)),
			Condition:    model.ParseCondition(cols.get(row, p.ConditionCol)),
			Value:        amount.Parse(cols.get(row, p.ValueCol)),
			PurchaseDate: purchased,
			Notes:        cols.get(row, p.NotesCol),
		})
	}

	return items, nil
}

// parseQuantity accepts Western or Arabic-Indic digits; blank means 1.
func parseQuantity(s string) (int, error) {
	if s == "" {
		return 1, nil
	}

	n, err := strconv.Atoi(amount.Normalize(s))
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid quantity %q: %w", s, model.ErrValidation)
	}

	return n, nil
}

// dashless treats a lone "-" placeholder as empty.
func dashless(s string) string {
	if s == "-" || s == "—" {
		return ""
	}

	return s
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
