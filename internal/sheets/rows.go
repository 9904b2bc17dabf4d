package sheets

import (
	"fmt"
	"strings"
)

// Row is one positional record of the topic sheet: topic in column A,
// generated content in B, image URL in C. Index is the 1-based sheet row
// number (the header occupies row 1, data starts at row 2).
type Row struct {
	Index    int
	Topic    string
	Content  string
	ImageURL string
}

// Processed reports whether content has already been generated for the row.
func (r Row) Processed() bool {
	return strings.TrimSpace(r.Content) != ""
}

// Complete reports whether the row carries everything a post needs.
func (r Row) Complete() bool {
	return strings.TrimSpace(r.Topic) != "" &&
		strings.TrimSpace(r.Content) != "" &&
		strings.TrimSpace(r.ImageURL) != ""
}

// parseRows converts the raw A:C value grid into rows. The first row is the
// header and is skipped; short rows are padded with empty cells.
func parseRows(values [][]interface{}) []Row {
	if len(values) < 2 {
		return nil
	}

	rows := make([]Row, 0, len(values)-1)
	for i, raw := range values[1:] {
		rows = append(rows, Row{
			Index:    i + 2,
			Topic:    cellString(raw, 0),
			Content:  cellString(raw, 1),
			ImageURL: cellString(raw, 2),
		})
	}
	return rows
}

func cellString(raw []interface{}, col int) string {
	if col >= len(raw) || raw[col] == nil {
		return ""
	}
	if s, ok := raw[col].(string); ok {
		return s
	}
	return fmt.Sprint(raw[col])
}
