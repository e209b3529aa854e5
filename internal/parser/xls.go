package parser

import (
	"fmt"
	"path/filepath"

	"github.com/KaramelBytes/eda-cli/internal/table"
	"github.com/extrame/xls"
)

// parseXLS reads legacy BIFF workbooks.
func parseXLS(path string, opt Options) (t *table.Table, err error) {
	// the BIFF decoder panics on some truncated workbooks
	defer func() {
		if r := recover(); r != nil {
			t, err = nil, fmt.Errorf("decode xls: %v", r)
		}
	}()
	wb, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}
	names := make([]string, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		if s := wb.GetSheet(i); s != nil {
			names = append(names, s.Name)
		}
	}
	sheetName, err := pickSheet(names, opt, filepath.Base(path))
	if err != nil {
		return nil, err
	}
	var sheet *xls.WorkSheet
	for i := 0; i < wb.NumSheets(); i++ {
		if s := wb.GetSheet(i); s != nil && s.Name == sheetName {
			sheet = s
			break
		}
	}
	if sheet == nil {
		return nil, fmt.Errorf("sheet '%s' could not be read", sheetName)
	}
	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, row.LastCol())
		for j := row.FirstCol(); j < row.LastCol(); j++ {
			cells[j] = row.Col(j)
		}
		rows = append(rows, cells)
	}
	return sheetTable(path, sheetName, rows, opt)
}
