package corpus

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/reelmatch/internal/models"
)

func (ld *Loader) loadDelimited(content []byte, sep rune) ([]models.Movie, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return ld.fromRows(header, rows)
}

// loadExcel reads the first sheet; the first row is the header.
func (ld *Loader) loadExcel(content []byte) ([]models.Movie, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheets[0])
	}
	return ld.fromRows(rows[0], rows[1:])
}

func loadJSON(content []byte) ([]models.Movie, error) {
	var movies []models.Movie
	if err := json.Unmarshal(content, &movies); err != nil {
		return nil, fmt.Errorf("decode JSON corpus: %w", err)
	}
	return movies, nil
}
