package table

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// NumberFormat fixes locale separators for numeric parsing. Zero values auto-detect per cell.
type NumberFormat struct {
	DecimalSeparator   rune
	ThousandsSeparator rune
}

// missingMarkers are cell texts treated as absent values.
var missingMarkers = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NaN": {}, "nan": {}, "-nan": {},
	"null": {}, "NULL": {}, "None": {}, "#N/A": {}, "<NA>": {},
}

// IsMissingText reports whether s denotes a missing value.
func IsMissingText(s string) bool {
	_, ok := missingMarkers[strings.TrimSpace(s)]
	return ok
}

// Infer builds a column from raw cells. A column is numeric when every
// non-missing cell parses as a number (or every cell is missing), bool when
// every cell is true/false, datetime when every cell matches a date layout,
// and text otherwise.
func Infer(name string, raw []string, nf NumberFormat) *Column {
	vals := make([]string, len(raw))
	for i, v := range raw {
		v = strings.TrimSpace(v)
		if IsMissingText(v) {
			v = ""
		}
		vals[i] = v
	}
	if nums, ok := inferNumeric(vals, nf); ok {
		return &Column{Name: name, Kind: KindNumeric, Values: vals, Nums: nums}
	}
	if all(vals, isBool) {
		return &Column{Name: name, Kind: KindBool, Values: vals}
	}
	if all(vals, func(s string) bool { _, ok := ParseTime(s); return ok }) {
		return &Column{Name: name, Kind: KindDatetime, Values: vals}
	}
	return &Column{Name: name, Kind: KindText, Values: vals}
}

func inferNumeric(vals []string, nf NumberFormat) ([]float64, bool) {
	nums := make([]float64, len(vals))
	for i, v := range vals {
		if v == "" {
			nums[i] = math.NaN()
			continue
		}
		x, ok := ParseNumeric(v, nf)
		if !ok {
			return nil, false
		}
		nums[i] = x
	}
	return nums, true
}

// all reports whether pred holds for every non-missing value, and at least one exists.
func all(vals []string, pred func(string) bool) bool {
	seen := false
	for _, v := range vals {
		if v == "" {
			continue
		}
		if !pred(v) {
			return false
		}
		seen = true
	}
	return seen
}

func isBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false":
		return true
	}
	return false
}

// ParseTime tries common date and datetime layouts.
func ParseTime(s string) (time.Time, bool) {
	layouts := []string{
		time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
		"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseNumeric parses a number, stripping percent signs and thousands separators.
// When nf leaves the decimal separator unset it is detected from the last
// ',' or '.' in the value.
func ParseNumeric(s string, nf NumberFormat) (float64, bool) {
	raw := strings.TrimSpace(s)
	if strings.Contains(raw, "%") {
		raw = strings.ReplaceAll(raw, "%", "")
	}
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec := nf.DecimalSeparator
	thou := nf.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec = ','
				thou = '.'
			} else {
				dec = '.'
				thou = ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
