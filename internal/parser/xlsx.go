package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/eda-cli/internal/table"
	"github.com/xuri/excelize/v2"
)

// parseXLSX reads the selected sheet of a workbook. The first row is the header.
func parseXLSX(path string, opt Options) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheet, err := pickSheet(f.GetSheetList(), opt, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet '%s': %w", sheet, err)
	}
	return sheetTable(path, sheet, rows, opt)
}

// pickSheet resolves the sheet by name, falling back to the 1-based index.
func pickSheet(sheets []string, opt Options, book string) (string, error) {
	if len(sheets) == 0 {
		return "", fmt.Errorf("workbook '%s' has no sheets", book)
	}
	if opt.SheetName != "" {
		for _, s := range sheets {
			if strings.EqualFold(s, opt.SheetName) {
				return s, nil
			}
		}
		return "", fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
			opt.SheetName, book, strings.Join(sheets, ", "))
	}
	idx := opt.SheetIndex
	if idx <= 0 {
		idx = 1
	}
	if idx > len(sheets) {
		return "", fmt.Errorf("sheet index %d out of range for workbook '%s' (%d sheets)", idx, book, len(sheets))
	}
	return sheets[idx-1], nil
}

// sheetTable builds a table from spreadsheet rows, skipping leading blank rows.
func sheetTable(path, sheet string, rows [][]string, opt Options) (*table.Table, error) {
	for len(rows) > 0 && blank(rows[0]) {
		rows = rows[1:]
	}
	if len(rows) == 0 {
		return nil, errNoColumns
	}
	header, data := rows[0], rows[1:]
	if opt.MaxRows > 0 && len(data) > opt.MaxRows {
		data = data[:opt.MaxRows]
	}
	name := filepath.Base(path)
	if opt.SheetName != "" {
		name = fmt.Sprintf("%s (sheet: %s)", name, sheet)
	}
	return table.New(name, header, data, opt.Number), nil
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
