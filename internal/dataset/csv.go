// Package dataset loads the cleaned recipe CSV into Recipe records. The
// source has list-like string cells for tags and ingredients
// ("['flour', 'sugar']") and loosely named columns; headers are matched
// case- and whitespace-insensitively, with common aliases accepted.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"recipechat/internal/domain"
)

// Load reads the CSV at path.
func Load(path string) ([]domain.Recipe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return LoadReader(f)
}

// LoadReader parses CSV recipe data from r. Rows missing required columns
// are skipped rather than failing the whole load; minutes that fail to
// parse become 0, matching the source's lenient coercion.
func LoadReader(r io.Reader) ([]domain.Recipe, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read dataset header: %w", err)
	}
	cols := columnMap(header)

	tagCol, ok := cols.find("tags")
	if !ok {
		return nil, fmt.Errorf("dataset missing required column %q", "tags")
	}
	ingCol, ok := cols.find("ingredients")
	if !ok {
		return nil, fmt.Errorf("dataset missing required column %q", "ingredients")
	}
	titleCol, _ := cols.find("name", "title")
	descCol, _ := cols.find("description")
	minCol, _ := cols.find("minutes", "time_minutes", "cook_time")
	idCol, hasID := cols.find("id", "recipe_id")

	var recipes []domain.Recipe
	row := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read dataset row %d: %w", row+1, err)
		}
		r := domain.Recipe{
			ID:          row,
			Title:       cell(rec, titleCol),
			Description: cell(rec, descCol),
			Tags:        parseListCell(cell(rec, tagCol)),
			Ingredients: parseListCell(cell(rec, ingCol)),
		}
		if hasID {
			if id, err := strconv.Atoi(cell(rec, idCol)); err == nil {
				r.ID = id
			}
		}
		if m, err := strconv.ParseFloat(cell(rec, minCol), 64); err == nil && m > 0 {
			r.Minutes = int(m)
		}
		recipes = append(recipes, r)
		row++
	}
	return recipes, nil
}

type columns map[string]int

func columnMap(header []string) columns {
	m := make(columns, len(header))
	for i, h := range header {
		m[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return m
}

// find returns the first present column among the given aliases.
func (c columns) find(names ...string) (int, bool) {
	for _, n := range names {
		if i, ok := c[n]; ok {
			return i, true
		}
	}
	return -1, false
}

func cell(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

// parseListCell parses a Python-style list literal of strings. Anything
// that is not list-like yields nil, the way the source treated malformed
// cells as empty lists.
func parseListCell(s string) []string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil
	}
	s = s[1 : len(s)-1]

	var out []string
	var cur strings.Builder
	inQuote := false
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case inQuote:
			if ch == '\\' && i+1 < len(s) {
				i++
				cur.WriteByte(s[i])
				continue
			}
			if ch == quote {
				inQuote = false
				continue
			}
			cur.WriteByte(ch)
		case ch == '\'' || ch == '"':
			inQuote = true
			quote = ch
		case ch == ',':
			if item := strings.TrimSpace(cur.String()); item != "" {
				out = append(out, item)
			}
			cur.Reset()
		default:
			cur.WriteByte(ch)
		}
	}
	if item := strings.TrimSpace(cur.String()); item != "" {
		out = append(out, item)
	}
	return out
}
