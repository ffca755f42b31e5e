package categorizer

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"vtran/txn-categorizer/internal/models"
	"vtran/txn-categorizer/internal/parsererror"
	"vtran/txn-categorizer/internal/textutils"
)

// Record is one element of the JSON list the model is asked for.
type Record struct {
	Transaction string `json:"transaction"`
	Category    string `json:"category"`
}

// wrapperKeys are tried first when the model wraps the list in an object.
var wrapperKeys = []string{"transactions", "results", "categorized", "categorized_transactions", "data", "items"}

// ParseResponse turns the model's reply into one categorized row per remark,
// in remark order. Categories outside the list and remarks the model left
// out get fallback. A reply with no usable JSON yields a
// *parsererror.ResponseError.
func ParseResponse(raw string, categories, remarks []string, fallback string) ([]models.CategorizedTransaction, error) {
	records, err := ExtractRecords(raw)
	if err != nil {
		return nil, &parsererror.ResponseError{Raw: raw, Err: err}
	}
	return Align(records, categories, remarks, fallback), nil
}

// ExtractRecords strips Markdown fences and decodes the first JSON array
// (or object wrapping one) found in raw. Bracketed prose that does not
// decode is skipped.
func ExtractRecords(raw string) ([]Record, error) {
	s := stripFences(raw)
	var lastErr error
	for offset := 0; offset < len(s); {
		start, payload, ok := extractJSON(s[offset:])
		if !ok {
			break
		}
		records, err := decodePayload(payload)
		if err == nil {
			return records, nil
		}
		lastErr = err
		offset += start + 1
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, errors.New("no JSON found in response")
}

func decodePayload(payload string) ([]Record, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return nil, err
	}

	switch v := value.(type) {
	case []interface{}:
		return decodeRecords(payload)
	case map[string]interface{}:
		if _, ok := v["category"]; ok {
			var rec Record
			if err := json.Unmarshal([]byte(payload), &rec); err != nil {
				return nil, err
			}
			return []Record{rec}, nil
		}
		return recordsFromWrapper(v)
	default:
		return nil, fmt.Errorf("expected a JSON list, got %T", value)
	}
}

func recordsFromWrapper(obj map[string]interface{}) ([]Record, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	ordered := make([]string, 0, len(keys))
	for _, k := range wrapperKeys {
		for _, have := range keys {
			if strings.EqualFold(have, k) {
				ordered = append(ordered, have)
			}
		}
	}
	ordered = append(ordered, keys...)

	for _, k := range ordered {
		if list, ok := obj[k].([]interface{}); ok {
			data, err := json.Marshal(list)
			if err != nil {
				return nil, err
			}
			return decodeRecords(string(data))
		}
	}
	return nil, errors.New("JSON object holds no list of transactions")
}

// decodeRecords accepts string or scalar values for both keys.
func decodeRecords(payload string) ([]Record, error) {
	var loose []map[string]interface{}
	if err := json.Unmarshal([]byte(payload), &loose); err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(loose))
	for _, item := range loose {
		var rec Record
		for k, v := range item {
			switch strings.ToLower(strings.TrimSpace(k)) {
			case models.ColumnTransaction:
				rec.Transaction = scalarString(v)
			case models.ColumnCategory:
				rec.Category = scalarString(v)
			}
		}
		records = append(records, rec)
	}
	return records, nil
}

func scalarString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64, bool:
		return fmt.Sprint(x)
	default:
		return ""
	}
}

// Align matches records to remarks in three passes: on the normalized
// remark text, then on the text with diacritics removed, then, when exactly
// as many records as remarks are left over, pairwise in order. Remarks
// still unmatched get fallback, as do records naming an unknown category.
func Align(records []Record, categories, remarks []string, fallback string) []models.CategorizedTransaction {
	canonical := make(map[string]string, len(categories))
	for _, c := range categories {
		canonical[textutils.Fold(strings.TrimSpace(c))] = c
	}

	used := make([]bool, len(records))
	assigned := make([]int, len(remarks))
	for i := range assigned {
		assigned[i] = -1
	}
	matchBy(textutils.Key, records, remarks, assigned, used)
	matchBy(textutils.LooseKey, records, remarks, assigned, used)

	var freeRemarks, freeRecords []int
	for i, idx := range assigned {
		if idx < 0 {
			freeRemarks = append(freeRemarks, i)
		}
	}
	for i, u := range used {
		if !u {
			freeRecords = append(freeRecords, i)
		}
	}
	if len(freeRemarks) == len(freeRecords) {
		for n, i := range freeRemarks {
			assigned[i] = freeRecords[n]
		}
	}

	out := make([]models.CategorizedTransaction, len(remarks))
	for i, remark := range remarks {
		row := models.CategorizedTransaction{Transaction: remark, Category: fallback, Fallback: true}
		if idx := assigned[i]; idx >= 0 {
			if cat, ok := canonical[textutils.Fold(records[idx].Category)]; ok {
				row.Category = cat
				row.Fallback = false
			}
		}
		out[i] = row
	}
	return out
}

// matchBy assigns unused records to unassigned remarks sharing key(text).
// Duplicate remarks consume duplicate records in order.
func matchBy(key func(string) string, records []Record, remarks []string, assigned []int, used []bool) {
	byKey := make(map[string][]int, len(records))
	for i, rec := range records {
		if !used[i] {
			k := key(rec.Transaction)
			byKey[k] = append(byKey[k], i)
		}
	}
	for i, remark := range remarks {
		if assigned[i] >= 0 {
			continue
		}
		k := key(remark)
		if queue := byKey[k]; len(queue) > 0 {
			assigned[i] = queue[0]
			byKey[k] = queue[1:]
			used[queue[0]] = true
		}
	}
}

// stripFences removes a surrounding Markdown code fence.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if start := strings.Index(s, "```"); start >= 0 {
		rest := s[start+3:]
		if idx := strings.Index(rest, "\n"); idx >= 0 {
			rest = rest[idx+1:]
		}
		if end := strings.Index(rest, "```"); end >= 0 {
			rest = rest[:end]
		}
		s = rest
	}
	return strings.TrimSpace(s)
}

// extractJSON returns the offset and text of the first balanced [...] or
// {...} block, skipping brackets inside string literals.
func extractJSON(s string) (int, string, bool) {
	start := strings.IndexAny(s, "[{")
	if start < 0 {
		return 0, "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return start, s[start : i+1], true
			}
		}
	}
	return start, s[start:], true
}
