// Package report renders booking listings as Excel workbooks.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/garyjia/shareit/internal/domain/entity"
)

const (
	defaultSheet = "Sheet1"
	timeLayout   = "2006-01-02 15:04"
	headerRow    = 1
	dataRowStart = 2
)

var headers = []string{"Booking ID", "Item ID", "Booker ID", "Status", "Start (UTC)", "End (UTC)", "Created (UTC)"}

// BookingExporter writes booking listings to .xlsx files
type BookingExporter struct {
	logger *zap.Logger
}

// NewBookingExporter creates a new exporter
func NewBookingExporter(logger *zap.Logger) *BookingExporter {
	return &BookingExporter{logger: logger}
}

// Export writes bookings in the given order to outputPath on a sheet named sheet
func (e *BookingExporter) Export(ctx context.Context, sheet string, bookings []*entity.Booking, outputPath string) error {
	file := excelize.NewFile()
	defer file.Close()

	if sheet != "" && sheet != defaultSheet {
		if err := file.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	} else {
		sheet = defaultSheet
	}

	if err := e.writeHeader(file, sheet); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, b := range bookings {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := writeRow(file, sheet, dataRowStart+i, b); err != nil {
			return fmt.Errorf("failed to write booking %d: %w", b.ID, err)
		}
	}

	if err := file.SetColWidth(sheet, "A", "D", 12); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}
	if err := file.SetColWidth(sheet, "E", "G", 18); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	if err := file.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}

	e.logger.Info("Booking report written",
		zap.String("output_path", outputPath),
		zap.String("sheet", sheet),
		zap.Int("row_count", len(bookings)))
	return nil
}

func (e *BookingExporter) writeHeader(file *excelize.File, sheet string) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	style, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), headerRow)
	if err != nil {
		return err
	}
	return file.SetCellStyle(sheet, "A1", last, style)
}

func writeRow(file *excelize.File, sheet string, row int, b *entity.Booking) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	values := []interface{}{
		b.ID,
		b.ItemID,
		b.BookerID,
		b.Status.String(),
		formatTime(b.Start),
		formatTime(b.End),
		formatTime(b.CreatedAt),
	}
	return file.SetSheetRow(sheet, cell, &values)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}
