package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/hornossanz/shift-planner/pkg/models"
	"github.com/xuri/excelize/v2"
)

// Headers are the columns of a rota sheet
var Headers = []string{"Date", "Day", "Type", "Time", "Employee"}

// empty fills the cells of a day without shifts
const empty = "-"

var dayNames = map[time.Weekday]string{
	time.Monday:    "Lunes",
	time.Tuesday:   "Martes",
	time.Wednesday: "Miércoles",
	time.Thursday:  "Jueves",
	time.Friday:    "Viernes",
	time.Saturday:  "Sábado",
	time.Sunday:    "Domingo",
}

var columnWidths = []float64{12, 12, 16, 16, 28}

// SheetName turns a store name into a valid worksheet name
func SheetName(store models.Store) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '-'
		}
		return r
	}, store.Name)
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Store %d", store.ID)
	}
	if r := []rune(name); len(r) > 31 {
		name = string(r[:31])
	}
	return name
}

// Rows flattens plans into sheet rows. Vacancies are listed after the shifts of their day.
func Rows(plans []models.DayPlan) [][]string {
	var rows [][]string
	for _, p := range plans {
		day := dayNames[p.Day.Weekday]
		if p.Day.IsHoliday {
			day += " (festivo)"
		}
		if len(p.Shifts) == 0 && len(p.Vacancies) == 0 {
			rows = append(rows, []string{p.Date, day, empty, empty, empty})
			continue
		}
		for _, s := range p.Shifts {
			rows = append(rows, []string{p.Date, day, string(s.Type), s.Time, s.Emp})
		}
		for _, v := range p.Vacancies {
			rows = append(rows, []string{p.Date, day, string(v.Type), v.Time, "Vacante: " + v.Role})
		}
	}
	return rows
}

// WriteSchedule writes a one-sheet workbook with the store's rota
func WriteSchedule(w io.Writer, store models.Store, plans []models.DayPlan) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(store)
	index, err := f.NewSheet(sheet)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	if sheet != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("failed to drop default sheet: %w", err)
		}
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := setRow(f, sheet, 1, Headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("failed to set header style: %w", err)
	}
	for i, width := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}

	for i, row := range Rows(plans) {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}
