package dataset

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/couchcryptid/weather-news-service/internal/domain"
)

// ReadXLSX parses the first sheet of a workbook into records. Date cells may
// hold text or Excel date serials.
func ReadXLSX(r io.Reader) ([]domain.DailyRecord, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("parse xlsx: workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("parse xlsx: sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("parse xlsx: %w", ErrNoDateColumn)
	}

	records, err := toRecords(rows[0], rows[1:], parseDateCell)
	if err != nil {
		return nil, fmt.Errorf("parse xlsx: %w", err)
	}
	return records, nil
}

func parseDateCell(s string) (time.Time, error) {
	if t, err := parseDateText(s); err == nil {
		return t, nil
	}
	serial, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date serial %q: %w", s, err)
	}
	return domain.NormalizeDate(t), nil
}
