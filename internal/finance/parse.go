package finance

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/finreport/internal/failure"
)

var (
	errNoObject  = errors.New("no JSON object in model output")
	errNotObject = errors.New("JSON value is not an object")
	errTrailing  = errors.New("unexpected data after JSON object")
)

// ExtractJSONSpan returns the text from the first '{' to the last '}'
// inclusive. Output holding several objects, or braces inside prose,
// yields an over-wide span that will not decode.
func ExtractJSONSpan(raw string) (string, bool) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return "", false
	}
	end := strings.LastIndexByte(raw, '}')
	if end < start {
		return "", false
	}
	return raw[start : end+1], true
}

// ParseStructured decodes the JSON object embedded in raw model output.
// It never returns a partial record: on any failure the record is empty
// and the error is classified as failure.Parse. Shape mismatches inside a
// decoded object are tolerated and read as "N/A".
func ParseStructured(raw string) (Record, error) {
	span, ok := ExtractJSONSpan(raw)
	if !ok {
		return Record{}, failure.New(failure.Parse, "parse structured", errNoObject)
	}
	rec, err := decodeRecord(span)
	if err != nil {
		return Record{}, failure.New(failure.Parse, "parse structured", err)
	}
	return rec, nil
}

// decodeRecord walks the top-level object token by token so entries keep
// their emitted order.
func decodeRecord(span string) (Record, error) {
	dec := json.NewDecoder(strings.NewReader(span))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return Record{}, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return Record{}, errNotObject
	}

	var rec Record
	for dec.More() {
		key, value, err := nextMember(dec)
		if err != nil {
			return Record{}, err
		}
		rec.keys++
		switch key {
		case keyMetrics:
			rec.Metrics = decodeEntries(value)
		case keySegments:
			rec.Segments = decodeSegments(value)
		case keyRatios:
			rec.Ratios = decodeEntries(value)
		case keyCompany:
			rec.CompanyName = leaf(value)
			rec.hasCompany = true
		case keySummary:
			rec.Summary = decodeSummary(value)
		}
	}
	if _, err := dec.Token(); err != nil {
		return Record{}, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errTrailing
		}
		return Record{}, err
	}
	return rec, nil
}

func nextMember(dec *json.Decoder) (string, json.RawMessage, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", nil, err
	}
	key, ok := tok.(string)
	if !ok {
		return "", nil, fmt.Errorf("unexpected token %v", tok)
	}
	var value json.RawMessage
	if err := dec.Decode(&value); err != nil {
		return "", nil, err
	}
	return key, value, nil
}

// eachMember calls fn for every member of a JSON object in order. Values
// that are not objects produce no calls.
func eachMember(raw json.RawMessage, fn func(key string, value json.RawMessage)) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return
	}
	for dec.More() {
		key, value, err := nextMember(dec)
		if err != nil {
			return
		}
		fn(key, value)
	}
}

func decodeEntries(raw json.RawMessage) []Entry {
	entries := []Entry{}
	eachMember(raw, func(key string, value json.RawMessage) {
		entries = upsert(entries, Entry{Name: key, Value: leaf(value)})
	})
	return entries
}

func decodeSegments(raw json.RawMessage) []Segment {
	segments := []Segment{}
	eachMember(raw, func(key string, value json.RawMessage) {
		seg := Segment{Name: key, Revenue: failure.NA, EBIT: failure.NA}
		eachMember(value, func(field string, v json.RawMessage) {
			switch field {
			case "Revenue":
				seg.Revenue = leaf(v)
			case "EBIT":
				seg.EBIT = leaf(v)
			}
		})
		for i := range segments {
			if segments[i].Name == key {
				segments[i] = seg
				return
			}
		}
		segments = append(segments, seg)
	})
	return segments
}

func decodeSummary(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		// A bare string is a one-line summary.
		if s := leaf(raw); s != failure.NA {
			return []string{s}
		}
		return nil
	}
	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, leaf(item))
	}
	return lines
}

// leaf converts a scalar JSON value to display text. Strings are kept
// verbatim and numbers keep their literal form. Anything else is "N/A".
func leaf(raw json.RawMessage) string {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return failure.NA
	}
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	default:
		return failure.NA
	}
}
