package postcss

import (
	"bytes"
	"encoding/json"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"go.trai.ch/zerr"
)

const vlqDigits = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// colEdit is an edit seen from the source map: generated columns [start, end)
// on one line became delta columns longer. Columns count UTF-16 units.
type colEdit struct {
	start, end, delta int
}

// columnEdits groups single-line edits by zero-based line.
func columnEdits(src []byte, edits []edit) map[int][]colEdit {
	out := make(map[int][]colEdit)
	for _, e := range edits {
		if bytes.IndexByte(src[e.start:e.end], '\n') >= 0 {
			// Line breaks are carried over by keepLineBreaks; the columns after
			// such an edit are left as they are.
			continue
		}
		line := bytes.Count(src[:e.start], []byte{'\n'})
		lineStart := bytes.LastIndexByte(src[:e.start], '\n') + 1
		start := utf16Len(src[lineStart:e.start])
		end := start + utf16Len(src[e.start:e.end])
		out[line] = append(out[line], colEdit{
			start: start,
			end:   end,
			delta: utf16Len([]byte(e.text)) - (end - start),
		})
	}
	return out
}

// shiftSourceMap moves the generated columns of a v3 source map through the
// given edits. Fields other than mappings are kept.
func shiftSourceMap(raw []byte, edits map[int][]colEdit) ([]byte, error) {
	var sm map[string]json.RawMessage
	if err := json.Unmarshal(raw, &sm); err != nil {
		return nil, zerr.Wrap(err, "failed to read source map")
	}
	var mappings string
	if err := json.Unmarshal(sm["mappings"], &mappings); err != nil {
		return nil, zerr.Wrap(err, "failed to read source map")
	}

	shifted, err := shiftMappings(mappings, edits)
	if err != nil {
		return nil, err
	}
	if sm["mappings"], err = json.Marshal(shifted); err != nil {
		return nil, zerr.Wrap(err, "failed to write source map")
	}

	out, err := json.Marshal(sm)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to write source map")
	}
	return out, nil
}

// shiftMappings rewrites the first field of every segment on the edited lines.
// That field is relative to the previous segment of the same line; the other
// fields are relative across lines and are copied untouched.
func shiftMappings(mappings string, edits map[int][]colEdit) (string, error) {
	lines := strings.Split(mappings, ";")
	for li, line := range lines {
		lineEdits := edits[li]
		if len(lineEdits) == 0 || line == "" {
			continue
		}

		var b []byte
		prevOld, prevNew := 0, 0
		for si, seg := range strings.Split(line, ",") {
			d, n, ok := decodeVLQ(seg)
			if !ok {
				return "", zerr.With(zerr.New("invalid source map segment"), "segment", seg)
			}
			col := prevOld + d
			prevOld = col

			moved := shiftColumn(col, lineEdits)
			if si > 0 {
				b = append(b, ',')
			}
			b = appendVLQ(b, moved-prevNew)
			b = append(b, seg[n:]...)
			prevNew = moved
		}
		lines[li] = string(b)
	}
	return strings.Join(lines, ";"), nil
}

// shiftColumn maps a column through edits sorted by start. A column inside a
// replaced span moves to the start of the replacement.
func shiftColumn(col int, edits []colEdit) int {
	shift := 0
	for _, e := range edits {
		switch {
		case col >= e.end:
			shift += e.delta
		case col > e.start:
			return e.start + shift
		default:
			return col + shift
		}
	}
	return col + shift
}

func decodeVLQ(s string) (value, n int, ok bool) {
	var result, shift int
	for i := 0; i < len(s); i++ {
		d := strings.IndexByte(vlqDigits, s[i])
		if d < 0 {
			return 0, 0, false
		}
		result += (d & 31) << shift
		if d&32 == 0 {
			value = result >> 1
			if result&1 == 1 {
				value = -value
			}
			return value, i + 1, true
		}
		shift += 5
	}
	return 0, 0, false
}

func appendVLQ(b []byte, v int) []byte {
	u := v << 1
	if v < 0 {
		u = (-v)<<1 | 1
	}
	for {
		d := u & 31
		u >>= 5
		if u > 0 {
			d |= 32
		}
		b = append(b, vlqDigits[d])
		if u == 0 {
			return b
		}
	}
}

func utf16Len(b []byte) int {
	n := 0
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		n += utf16.RuneLen(r)
		b = b[size:]
	}
	return n
}
