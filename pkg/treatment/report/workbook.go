// Package report renders treatments as an XLSX workbook.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/deryamemmedli/agrimonitor/entities"
)

const (
	SheetTreatments = "Treatments"
	SheetSummary    = "Summary"
)

var header = []any{
	"ID", "Request", "Field", "Agronomist", "Farmer", "Status", "Type", "Notes",
	"Scheduled", "Started", "Completed", "Verified",
	"NDVI before", "NDVI after", "Improvement %", "Effective",
	"Agronomist confirmed", "Farmer confirmed", "Closed",
}

// WriteWorkbook writes one row per treatment plus a summary sheet.
func WriteWorkbook(w io.Writer, ts []entities.Treatment) error {
	x := excelize.NewFile()
	defer x.Close()

	if err := x.SetSheetName("Sheet1", SheetTreatments); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := x.SetSheetRow(SheetTreatments, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	bold, err := x.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(header), 1)
	if err := x.SetCellStyle(SheetTreatments, "A1", last, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i := range ts {
		t := &ts[i]
		t.Derive()
		row := []any{
			t.ID, t.RequestID, t.FieldID, t.AgronomistID, t.FarmerID, string(t.Status), t.TreatmentType, t.Notes,
			date(t.ScheduledDate), date(t.StartedAt), date(t.CompletedAt), date(t.VerifiedAt),
			t.BeforeNDVI, num(t.AfterNDVI), num(t.ImprovementPct), flag(t.Effective),
			t.AgronomistConfirmed, t.FarmerConfirmed, t.Closed,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := x.SetSheetRow(SheetTreatments, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := writeSummary(x, ts); err != nil {
		return err
	}
	if _, err := x.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(x *excelize.File, ts []entities.Treatment) error {
	if _, err := x.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}
	byStatus := map[entities.TreatmentStatus]int{}
	var closed, effective, measured int
	var total float64
	for _, t := range ts {
		byStatus[t.Status]++
		if t.Closed {
			closed++
		}
		if t.ImprovementPct != nil {
			measured++
			total += *t.ImprovementPct
			if *t.ImprovementPct > entities.EffectiveImprovementPct {
				effective++
			}
		}
	}
	rows := [][]any{
		{"Metric", "Value"},
		{"Treatments", len(ts)},
		{"Scheduled", byStatus[entities.TreatmentScheduled]},
		{"In progress", byStatus[entities.TreatmentInProgress]},
		{"Completed", byStatus[entities.TreatmentCompleted]},
		{"Verified", byStatus[entities.TreatmentVerified]},
		{"Closed", closed},
		{"Effective", effective},
	}
	if measured > 0 {
		rows = append(rows, []any{"Mean improvement %", total / float64(measured)})
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := x.SetSheetRow(SheetSummary, cell, &r); err != nil {
			return fmt.Errorf("summary row %d: %w", i+1, err)
		}
	}
	return nil
}

func date(t *time.Time) any {
	if t == nil {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}

func num(v *float64) any {
	if v == nil {
		return ""
	}
	return *v
}

func flag(b *bool) any {
	if b == nil {
		return ""
	}
	return *b
}
