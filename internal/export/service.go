// Package export aggregates per-letter entity artifacts into a single
// spreadsheet researchers can browse.
package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/letters-digitizer/constants"
	"github.com/joseph-ayodele/letters-digitizer/internal/llm"
)

// Service is a tiny façade over the output directory that produces XLSX bytes.
type Service struct {
	outputDir string
	logger    *slog.Logger
}

func NewService(outputDir string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{outputDir: outputDir, logger: logger}
}

// ExportEntitiesXLSX collects every <id>.entities.json under the output
// directory into one workbook, one row per letter. Letters without a
// validated entities artifact are skipped.
func (s *Service) ExportEntitiesXLSX() ([]byte, error) {
	start := time.Now()

	rows, err := s.collect()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Entities"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// drop the default sheet excelize creates
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{"Letter", "People", "Productions", "Companies", "Theaters", "Dates"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for r, row := range rows {
		values := []string{
			row.id,
			strings.Join(row.entities.People, "; "),
			strings.Join(row.entities.Productions, "; "),
			strings.Join(row.entities.Companies, "; "),
			strings.Join(row.entities.Theaters, "; "),
			strings.Join(row.entities.Dates, "; "),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	s.logger.Info("export.entities.ok",
		"letters", len(rows),
		"bytes", buf.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

type entityRow struct {
	id       string
	entities llm.LetterEntities
}

func (s *Service) collect() ([]entityRow, error) {
	entries, err := os.ReadDir(s.outputDir)
	if err != nil {
		return nil, fmt.Errorf("read output dir: %w", err)
	}

	var rows []entityRow
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		id := e.Name()
		path := filepath.Join(s.outputDir, id, id+constants.SuffixEntities)
		b, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				s.logger.Warn("export.entities.read_failed", "id", id, "error", err)
			}
			continue
		}

		var ents llm.LetterEntities
		if err := json.Unmarshal(b, &ents); err != nil {
			s.logger.Warn("export.entities.decode_failed", "id", id, "error", err)
			continue
		}
		rows = append(rows, entityRow{id: id, entities: ents})
	}

	sort.Slice(rows, func(i, j int) bool { return rows[i].id < rows[j].id })
	return rows, nil
}
