package export

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/talentsift/screener/internal/screening"
)

// Service produces XLSX bytes for screening reports.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ReportXLSX renders the ranked report as an XLSX workbook. Filtering keeps
// global rank numbers, matching the text rendering.
func (s *Service) ReportXLSX(report screening.Report, filter screening.Filter) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Candidates"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headers := []string{
		"Rank",
		"Candidate",
		"Match Score (%)",
		"Suitable",
		"Key Strengths",
		"Areas of Concern",
		"Supporting Evidence",
	}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	row := 2
	for _, c := range report.Select(filter) {
		name := c.Name
		if name == "" {
			name = "Name not found in resume"
		}
		values := []any{
			c.Rank,
			name,
			c.Score,
			c.IsSuitable,
			strings.Join(c.Strengths, "; "),
			strings.Join(c.Gaps, "; "),
			strings.Join(c.Evidence, "; "),
		}
		for i, v := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
		row++
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", row-2,
		"filter", string(filter),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
