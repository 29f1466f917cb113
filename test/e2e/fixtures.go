package e2e

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/xuri/excelize/v2"

	"github.com/hyperjump/reelmatch/internal/models"
)

// SupportedCorpusExtensions lists the corpus file formats exercised by file-based tests.
var SupportedCorpusExtensions = []string{".csv", ".tsv", ".xlsx", ".json"}

var corpusHeader = []string{"id", "title", "overview", "cast", "director", "keywords", "genres"}

// EncodeCorpus renders movies in the format implied by ext.
func EncodeCorpus(ext string, movies []models.Movie) ([]byte, error) {
	switch ext {
	case ".csv":
		return encodeDelimited(movies, ',')
	case ".tsv":
		return encodeDelimited(movies, '\t')
	case ".xlsx":
		return encodeXlsx(movies)
	case ".json":
		return json.Marshal(movies)
	default:
		return nil, fmt.Errorf("unsupported corpus extension %q", ext)
	}
}

func row(m models.Movie) []string {
	return []string{
		strconv.Itoa(m.ID),
		m.Title,
		m.Overview,
		strings.Join(m.Cast, "|"),
		strings.Join(m.Directors, "|"),
		strings.Join(m.Keywords, "|"),
		strings.Join(m.Genres, "|"),
	}
}

func encodeDelimited(movies []models.Movie, sep rune) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = sep
	if err := w.Write(corpusHeader); err != nil {
		return nil, err
	}
	for _, m := range movies {
		if err := w.Write(row(m)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func encodeXlsx(movies []models.Movie) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Sheet1"
	header := make([]interface{}, len(corpusHeader))
	for i, h := range corpusHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, m := range movies {
		cells := row(m)
		vals := make([]interface{}, len(cells))
		for j, c := range cells {
			vals[j] = c
		}
		if err := f.SetSheetRow(sheet, "A"+strconv.Itoa(i+2), &vals); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
