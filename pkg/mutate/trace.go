package mutate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// canonAppliedTriple sorts a params.applied sequence by (kind, detail,
// index), matching registry._canon_applied in the original implementation.
// Entries are [kind, index, detail] triples; malformed entries sort last
// in their original relative order and are otherwise left untouched.
func canonAppliedTriple(applied []any) []any {
	type keyed struct {
		kind, detail string
		index        int
		malformed    bool
		orig         any
		origIdx      int
	}

	keys := make([]keyed, len(applied))
	for i, v := range applied {
		seq, ok := asSequence(v)
		if !ok || len(seq) < 3 {
			keys[i] = keyed{malformed: true, orig: v, origIdx: i}
			continue
		}
		kind := fmt.Sprintf("%v", seq[0])
		detail := fmt.Sprintf("%v", seq[2])
		idx, ok := toInt(seq[1])
		if !ok {
			keys[i] = keyed{malformed: true, orig: v, origIdx: i}
			continue
		}
		keys[i] = keyed{kind: kind, detail: detail, index: idx, orig: v, origIdx: i}
	}

	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.malformed != b.malformed {
			return !a.malformed // well-formed entries sort before malformed
		}
		if a.malformed {
			return a.origIdx < b.origIdx
		}
		if a.kind != b.kind {
			return a.kind < b.kind
		}
		if a.detail != b.detail {
			return a.detail < b.detail
		}
		return a.index < b.index
	})

	out := make([]any, len(keys))
	for i, k := range keys {
		out[i] = k.orig
	}
	return out
}

func asSequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	default:
		return nil, false
	}
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// canonicalizeApplied rewrites trace["params"]["applied"] in place using
// canonAppliedTriple, if present.
func canonicalizeApplied(trace TraceEntry) {
	params, ok := trace["params"].(map[string]any)
	if !ok {
		return
	}
	applied, ok := params["applied"].([]any)
	if !ok {
		return
	}
	params["applied"] = canonAppliedTriple(applied)
}

// Canonicalize recursively sorts map keys and leaves sequences as JSON
// arrays, matching spec.md §4.8. It round-trips through encoding/json so
// callers get a value composed only of JSON-representable types.
func Canonicalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var generic any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}
	return generic, nil
}

// CanonicalJSON serializes v as UTF-8 JSON with sorted keys and no
// whitespace, rejecting non-finite numbers, per spec.md §4.8. It round-trips
// v through Canonicalize first so struct field order, map key order, and
// anything else encoding/json would otherwise leave unsorted all collapse
// to the same sorted-map representation before encoding.
func CanonicalJSON(v any) ([]byte, error) {
	if err := rejectNonFinite(v); err != nil {
		return nil, err
	}
	canon, err := Canonicalize(v)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(canon); err != nil {
		return nil, err
	}
	out := bytes.TrimRight(buf.Bytes(), "\n")
	return out, nil
}

func rejectNonFinite(v any) error {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("mutate: non-finite number not JSON-representable")
		}
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return fmt.Errorf("mutate: non-finite number not JSON-representable")
		}
	case map[string]any:
		for _, vv := range x {
			if err := rejectNonFinite(vv); err != nil {
				return err
			}
		}
	case []any:
		for _, vv := range x {
			if err := rejectNonFinite(vv); err != nil {
				return err
			}
		}
	}
	return nil
}
