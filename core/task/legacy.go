package task

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// Legacy rosters exist in three shapes:
//
//	canonical: [{"studentId": "111", "value": "L"}, ...]
//	pair rows: [["111", "L"], ...]
//	flat pair: ["111", "L"]
//
// Only the canonical shape is read at runtime; the admin `migratelegacy`
// command converts the rest once.

var errUnknownRosterShape = errors.New("unrecognized legacy roster shape")

// NormalizeStudents converts any of the legacy roster shapes into the
// canonical StudentRecord sequence, deduplicating on studentId (first entry
// wins).
func NormalizeStudents(raw []byte) ([]StudentRecord, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return []StudentRecord{}, nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, errors.Wrap(errUnknownRosterShape, err.Error())
	}
	if len(elems) == 0 {
		return []StudentRecord{}, nil
	}

	var records []StudentRecord
	switch firstByte(elems[0]) {
	case '{': // canonical
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, errors.Wrap(errUnknownRosterShape, err.Error())
		}
	case '[': // array of [id, value] pairs
		var pairs [][]string
		if err := json.Unmarshal(raw, &pairs); err != nil {
			return nil, errors.Wrap(errUnknownRosterShape, err.Error())
		}
		records = make([]StudentRecord, 0, len(pairs))
		for _, p := range pairs {
			rec := StudentRecord{}
			if len(p) > 0 {
				rec.StudentID = p[0]
			}
			if len(p) > 1 {
				rec.Value = p[1]
			}
			records = append(records, rec)
		}
	case '"': // single flat [id, value] pair
		var pair []string
		if err := json.Unmarshal(raw, &pair); err != nil {
			return nil, errors.Wrap(errUnknownRosterShape, err.Error())
		}
		rec := StudentRecord{StudentID: pair[0]}
		if len(pair) > 1 {
			rec.Value = pair[1]
		}
		records = []StudentRecord{rec}
	default:
		return nil, errUnknownRosterShape
	}

	// one record per studentId; first entry wins
	seen := make(map[string]struct{}, len(records))
	out := make([]StudentRecord, 0, len(records))
	for _, rec := range records {
		if rec.StudentID == "" {
			continue
		}
		if _, dup := seen[rec.StudentID]; dup {
			continue
		}
		seen[rec.StudentID] = struct{}{}
		out = append(out, rec)
	}
	return out, nil
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}

// LegacyRosterStore is the raw access the migration needs; both storage
// backends implement it.
type LegacyRosterStore interface {
	// QueryRawRosters returns every task's stored roster bytes, keyed by task ID.
	QueryRawRosters() (map[string][]byte, error)
	UpdateTaskStudents(id string, students []StudentRecord) error
}

// MigrateLegacyRosters rewrites every non-canonical roster in place and
// returns the number of converted tasks. Canonical rosters are left
// untouched. Run once via the admin CLI.
func MigrateLegacyRosters(store LegacyRosterStore) (int, error) {
	rosters, err := store.QueryRawRosters()
	if err != nil {
		return 0, errors.Wrap(err, "reading rosters")
	}

	var converted int
	for id, raw := range rosters {
		var canonical []StudentRecord
		if json.Unmarshal(raw, &canonical) == nil {
			continue // already canonical (or empty)
		}
		records, err := NormalizeStudents(raw)
		if err != nil {
			return converted, errors.Wrapf(err, "task %s", id)
		}
		if err := store.UpdateTaskStudents(id, records); err != nil {
			return converted, errors.Wrapf(err, "task %s", id)
		}
		converted++
	}
	return converted, nil
}
