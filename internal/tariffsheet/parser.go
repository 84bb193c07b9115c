// Package tariffsheet reads tariff brackets from spreadsheets exported by the
// commercial back-office.
package tariffsheet

import (
	"fmt"
	"io"
	"strings"
	"unicode"

	"freightdesk/internal/model"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

type column int

const (
	colOrigin column = iota
	colDestination
	colType
	colFrom
	colTo
	colPrice
)

// headerAliases maps folded header captions to columns.
var headerAliases = map[string]column{
	"origen":         colOrigin,
	"origin":         colOrigin,
	"destino":        colDestination,
	"destination":    colDestination,
	"tipo":           colType,
	"tipo tarifa":    colType,
	"tariff_type":    colType,
	"desde":          colFrom,
	"desde kg":       colFrom,
	"peso desde":     colFrom,
	"weight_from_kg": colFrom,
	"hasta":          colTo,
	"hasta kg":       colTo,
	"peso hasta":     colTo,
	"weight_to_kg":   colTo,
	"precio":         colPrice,
	"price":          colPrice,
	"tarifa":         colPrice,
}

var required = []column{colOrigin, colDestination, colTo, colPrice}

var validTariffTypes = map[string]bool{
	model.TariffTypeStandard: true,
	model.TariffTypeVolume:   true,
	model.TariffTypeOther:    true,
}

// RowError points at a rejected spreadsheet row (1-based, header included).
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Result holds the accepted tariffs and the rejected rows of one sheet.
type Result struct {
	Sheet     string         `json:"sheet"`
	TotalRows int            `json:"total_rows"`
	Tariffs   []model.Tariff `json:"-"`
	Errors    []RowError     `json:"errors"`
}

// Parse reads the named sheet, or the first one when sheet is empty. The first
// non-empty row is the header. Row problems are collected, not returned.
func Parse(r io.Reader, sheet string) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	res := &Result{Sheet: sheet, Tariffs: []model.Tariff{}, Errors: []RowError{}}

	header := -1
	for i, row := range rows {
		if !isEmpty(row) {
			header = i
			break
		}
	}
	if header < 0 {
		return res, nil
	}

	idx, err := columnIndices(rows[header])
	if err != nil {
		return nil, err
	}

	for i := header + 1; i < len(rows); i++ {
		if isEmpty(rows[i]) {
			continue
		}
		res.TotalRows++
		t, err := toTariff(rows[i], idx)
		if err != nil {
			res.Errors = append(res.Errors, RowError{Row: i + 1, Message: err.Error()})
			continue
		}
		res.Tariffs = append(res.Tariffs, t)
	}
	return res, nil
}

func columnIndices(header []string) (map[column]int, error) {
	idx := make(map[column]int)
	for i, caption := range header {
		if c, ok := headerAliases[fold(caption)]; ok {
			if _, dup := idx[c]; !dup {
				idx[c] = i
			}
		}
	}
	var missing []string
	for _, c := range required {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c.String())
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func toTariff(row []string, idx map[column]int) (model.Tariff, error) {
	cell := func(c column) string {
		i, ok := idx[c]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	t := model.Tariff{
		Origin:      cell(colOrigin),
		Destination: cell(colDestination),
		TariffType:  strings.ToLower(cell(colType)),
	}
	if t.Origin == "" || t.Destination == "" {
		return t, fmt.Errorf("origin and destination are required")
	}
	if t.TariffType == "" {
		t.TariffType = model.TariffTypeStandard
	}
	if !validTariffTypes[t.TariffType] {
		return t, fmt.Errorf("unknown tariff type %q", t.TariffType)
	}

	var err error
	if t.WeightFromKg, err = ParseAmount(cell(colFrom)); err != nil {
		return t, fmt.Errorf("weight from: %w", err)
	}
	if t.WeightToKg, err = ParseAmount(cell(colTo)); err != nil {
		return t, fmt.Errorf("weight to: %w", err)
	}
	if t.Price, err = ParseAmount(cell(colPrice)); err != nil {
		return t, fmt.Errorf("price: %w", err)
	}

	switch {
	case !t.WeightToKg.IsPositive():
		return t, fmt.Errorf("weight to must be positive")
	case t.WeightFromKg.IsNegative() || t.WeightFromKg.GreaterThan(t.WeightToKg):
		return t, fmt.Errorf("weight from %s is outside 0..%s", t.WeightFromKg, t.WeightToKg)
	case !t.Price.IsPositive():
		return t, fmt.Errorf("price must be positive")
	}
	return t, nil
}

// ParseAmount accepts plain numbers and Argentine formatting ("$ 1.234,50").
// An empty cell is zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.NewReplacer("$", "", " ", "", "\u00a0", "").Replace(strings.TrimSpace(s))
	if s == "" {
		return decimal.Zero, nil
	}
	switch {
	case strings.Contains(s, ",") && strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case strings.Contains(s, ","):
		s = strings.Replace(s, ",", ".", 1)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", s)
	}
	return d, nil
}

func (c column) String() string {
	switch c {
	case colOrigin:
		return "origen"
	case colDestination:
		return "destino"
	case colType:
		return "tipo"
	case colFrom:
		return "desde kg"
	case colTo:
		return "hasta kg"
	case colPrice:
		return "precio"
	}
	return "?"
}

func fold(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	folded = strings.NewReplacer("(", " ", ")", " ").Replace(strings.ToLower(folded))
	return strings.Join(strings.Fields(folded), " ")
}

func isEmpty(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
