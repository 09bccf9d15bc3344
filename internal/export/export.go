package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"lifesnaps-data/internal/domain"
)

// WriteCSV 把表写成 CSV（首行为列名）
func WriteCSV(w io.Writer, table *domain.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	record := make([]string, len(table.Columns))
	for _, row := range table.Rows {
		for i, col := range table.Columns {
			record[i] = formatCell(row[col])
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX 把表写成单 sheet 的 XLSX 文件
func WriteXLSX(path, sheet string, table *domain.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, col := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return fmt.Errorf("failed to write header cell: %w", err)
		}
	}
	for r, row := range table.Rows {
		for i, col := range table.Columns {
			cell, err := excelize.CoordinatesToCellName(i+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, cellValue(row[col])); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save xlsx: %w", err)
	}
	return nil
}

func formatCell(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case time.Time:
		return value.Format("2006-01-02T15:04:05.000")
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}

// cellValue excelize 直接支持基础类型，time.Time 统一转字符串避免本地化格式
func cellValue(v any) any {
	if ts, ok := v.(time.Time); ok {
		return ts.Format("2006-01-02T15:04:05.000")
	}
	return v
}
