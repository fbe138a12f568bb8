// internal/catalog/decode.go
package catalog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/javajoker/grocery-browser/internal/models"
)

var ErrNoItems = errors.New("catalog document has no items list")

// Decode reads a catalog document: either a bare array of records or an
// object whose "items" field holds that array. Non-object entries are skipped.
func Decode(r io.Reader) ([]models.RawRecord, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	var items []interface{}
	switch v := doc.(type) {
	case []interface{}:
		items = v
	case map[string]interface{}:
		list, ok := v["items"].([]interface{})
		if !ok {
			return nil, ErrNoItems
		}
		items = list
	default:
		return nil, ErrNoItems
	}

	records := make([]models.RawRecord, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]interface{}); ok {
			records = append(records, models.RawRecord(m))
		}
	}
	return records, nil
}

const maxJSONLLine = 4 * 1024 * 1024

// ScanJSONL calls fn for every JSON object line in r. Blank lines are ignored;
// undecodable or non-object lines are reported to onBad and skipped.
func ScanJSONL(r io.Reader, fn func(line int, rec models.RawRecord) error, onBad func(line int, err error)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxJSONLLine)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		dec := json.NewDecoder(strings.NewReader(line))
		dec.UseNumber()
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			if onBad != nil {
				onBad(lineNo, fmt.Errorf("invalid JSON: %w", err))
			}
			continue
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			if onBad != nil {
				onBad(lineNo, errors.New("JSON is not an object"))
			}
			continue
		}
		if err := fn(lineNo, models.RawRecord(m)); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read JSONL: %w", err)
	}
	return nil
}
