package postcss

import (
	"bytes"
	"context"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.trai.ch/gild/internal/core/domain"
	"go.trai.ch/gild/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.CSSTransform = (*Rucksack)(nil)

// easings maps the extended easing names to their cubic-bezier curves.
var easings = map[string]string{
	"ease-in-sine":      "cubic-bezier(0.47, 0, 0.745, 0.715)",
	"ease-out-sine":     "cubic-bezier(0.39, 0.575, 0.565, 1)",
	"ease-in-out-sine":  "cubic-bezier(0.445, 0.05, 0.55, 0.95)",
	"ease-in-quad":      "cubic-bezier(0.55, 0.085, 0.68, 0.53)",
	"ease-out-quad":     "cubic-bezier(0.25, 0.46, 0.45, 0.94)",
	"ease-in-out-quad":  "cubic-bezier(0.455, 0.03, 0.515, 0.955)",
	"ease-in-cubic":     "cubic-bezier(0.55, 0.055, 0.675, 0.19)",
	"ease-out-cubic":    "cubic-bezier(0.215, 0.61, 0.355, 1)",
	"ease-in-out-cubic": "cubic-bezier(0.645, 0.045, 0.355, 1)",
	"ease-in-quart":     "cubic-bezier(0.895, 0.03, 0.685, 0.22)",
	"ease-out-quart":    "cubic-bezier(0.165, 0.84, 0.44, 1)",
	"ease-in-out-quart": "cubic-bezier(0.77, 0, 0.175, 1)",
	"ease-in-quint":     "cubic-bezier(0.755, 0.05, 0.855, 0.06)",
	"ease-out-quint":    "cubic-bezier(0.23, 1, 0.32, 1)",
	"ease-in-out-quint": "cubic-bezier(0.86, 0, 0.07, 1)",
	"ease-in-expo":      "cubic-bezier(0.95, 0.05, 0.795, 0.035)",
	"ease-out-expo":     "cubic-bezier(0.19, 1, 0.22, 1)",
	"ease-in-out-expo":  "cubic-bezier(1, 0, 0, 1)",
	"ease-in-circ":      "cubic-bezier(0.6, 0.04, 0.98, 0.335)",
	"ease-out-circ":     "cubic-bezier(0.075, 0.82, 0.165, 1)",
	"ease-in-out-circ":  "cubic-bezier(0.785, 0.135, 0.15, 0.86)",
	"ease-in-back":      "cubic-bezier(0.6, -0.28, 0.735, 0.045)",
	"ease-out-back":     "cubic-bezier(0.175, 0.885, 0.32, 1.275)",
	"ease-in-out-back":  "cubic-bezier(0.68, -0.55, 0.265, 1.55)",
}

// Rucksack applies the rucksack shortcuts: position shorthands, hex colors
// inside rgba(), clear: fix and the extended easing names.
//
// Rewrites are spliced into the stylesheet in place. Bytes outside a rewrite
// are kept as they are and no rewrite adds or removes a line, so an incoming
// source map only needs its columns shifted on the rewritten lines.
type Rucksack struct {
	opts domain.RucksackOptions
}

// NewRucksack decodes the rucksack options bag over the all-enabled defaults.
func NewRucksack(bag map[string]any) (*Rucksack, error) {
	opts := domain.DefaultRucksackOptions()
	if err := domain.DecodeOptions(bag, &opts); err != nil {
		return nil, zerr.With(err, "options", "rucksack")
	}
	return &Rucksack{opts: opts}, nil
}

// Name identifies the transform.
func (r *Rucksack) Name() string { return "rucksack" }

// Transform rewrites asset.Contents and, when a map is tracked, moves its
// generated columns along with the rewritten text.
func (r *Rucksack) Transform(_ context.Context, asset *domain.Asset) error {
	edits, err := r.edits(asset.Contents)
	if err != nil {
		return err
	}
	if len(edits) == 0 {
		return nil
	}

	if asset.TrackMap && len(asset.SourceMap) > 0 {
		shifted, err := shiftSourceMap(asset.SourceMap, columnEdits(asset.Contents, edits))
		if err != nil {
			return err
		}
		asset.SourceMap = shifted
	}
	asset.Contents = applyEdits(asset.Contents, edits)
	return nil
}

// Rewrite runs the enabled rewrites over a stylesheet.
func (r *Rucksack) Rewrite(src []byte) ([]byte, error) {
	edits, err := r.edits(src)
	if err != nil {
		return nil, err
	}
	return applyEdits(src, edits), nil
}

// edit replaces src[start:end] with text.
type edit struct {
	start, end int
	text       string
}

type token struct {
	tt   css.TokenType
	data []byte
	off  int
}

// block is an open {} block. Declarations are only rewritten inside rulesets.
type block struct {
	ruleset   bool
	selectors []string
	clearfix  bool
}

func tokenize(src []byte) ([]token, error) {
	l := css.NewLexer(parse.NewInputBytes(slices.Clip(src)))

	var toks []token
	off := 0
	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && err != io.EOF {
				return nil, zerr.Wrap(err, "failed to parse stylesheet")
			}
			return toks, nil
		}
		toks = append(toks, token{tt: tt, data: data, off: off})
		off += len(data)
	}
}

// edits lists the rewrites for src, ordered by offset.
func (r *Rucksack) edits(src []byte) ([]edit, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	var (
		out   []edit
		stack []*block
		stmt  int
	)
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		switch t.tt {
		case css.LeftBraceToken:
			prelude := significant(toks[stmt:i])
			b := &block{ruleset: len(prelude) > 0 && prelude[0].tt != css.AtKeywordToken}
			if b.ruleset {
				b.selectors = splitSelectors(toks[stmt:i])
			}
			stack = append(stack, b)
			stmt = i + 1

		case css.RightBraceToken:
			if n := len(stack); n > 0 {
				b := stack[n-1]
				stack = stack[:n-1]
				if b.clearfix {
					at := t.off + len(t.data)
					out = append(out, edit{start: at, end: at, text: " " + clearfixRule(b.selectors)})
				}
			}
			stmt = i + 1

		case css.SemicolonToken:
			stmt = i + 1

		case css.IdentToken:
			if len(stack) == 0 || !stack[len(stack)-1].ruleset || len(significant(toks[stmt:i])) > 0 {
				continue
			}
			colon := nextSignificant(toks, i+1)
			if colon < 0 || toks[colon].tt != css.ColonToken {
				continue
			}
			end := valueEnd(toks, colon+1)
			if end < len(toks) && toks[end].tt == css.LeftBraceToken {
				// A nested selector such as a:hover, not a declaration.
				continue
			}
			out = append(out, r.declaration(src, toks, i, colon+1, end, stack[len(stack)-1])...)
			i = end - 1
		}
	}

	slices.SortStableFunc(out, func(a, b edit) int { return a.start - b.start })
	return out, nil
}

// declaration rewrites the declaration toks[name] : toks[from:to].
func (r *Rucksack) declaration(src []byte, toks []token, name, from, to int, b *block) []edit {
	prop := strings.ToLower(string(toks[name].data))
	values := significant(toks[from:to])
	if len(values) == 0 {
		return nil
	}
	valStart, valEnd := values[0].off, values[len(values)-1].off+len(values[len(values)-1].data)

	if r.opts.Clearfix && prop == "clear" && len(values) == 1 && strings.EqualFold(string(values[0].data), "fix") {
		b.clearfix = true
		end := valEnd
		if to < len(toks) && toks[to].tt == css.SemicolonToken {
			end = toks[to].off + 1
		}
		return []edit{{start: toks[name].off, end: end, text: keepLineBreaks(src[toks[name].off:end], "")}}
	}

	if r.opts.ShorthandPosition && prop == "position" {
		if text, ok := expandPosition(values); ok {
			return []edit{{start: valStart, end: valEnd, text: keepLineBreaks(src[valStart:valEnd], text)}}
		}
	}

	var out []edit
	if r.opts.HexRGBA {
		out = append(out, rewriteHexRGBA(toks[from:to])...)
	}
	if r.opts.Easings && (strings.Contains(prop, "transition") || strings.Contains(prop, "animation")) {
		for _, t := range values {
			if t.tt != css.IdentToken {
				continue
			}
			if curve, ok := easings[kebab(string(t.data))]; ok {
				out = append(out, edit{start: t.off, end: t.off + len(t.data), text: curve})
			}
		}
	}
	return out
}

// expandPosition turns "absolute 0 10px" into the position keyword followed by
// the box offsets, ready to stand in for the original value.
func expandPosition(values []token) (string, bool) {
	var parts []string
	important := false
	for i := 0; i < len(values); i++ {
		t := values[i]
		switch t.tt {
		case css.IdentToken, css.NumberToken, css.DimensionToken, css.PercentageToken:
			parts = append(parts, string(t.data))
		case css.DelimToken:
			if string(t.data) != "!" || i+1 >= len(values) || !strings.EqualFold(string(values[i+1].data), "important") {
				return "", false
			}
			important = true
			i++
		default:
			return "", false
		}
	}
	if len(parts) < 2 || len(parts) > 5 {
		return "", false
	}

	offsets := parts[1:]
	var top, right, bottom, left string
	switch len(offsets) {
	case 1:
		top, right, bottom, left = offsets[0], offsets[0], offsets[0], offsets[0]
	case 2:
		top, right, bottom, left = offsets[0], offsets[1], offsets[0], offsets[1]
	case 3:
		top, right, bottom, left = offsets[0], offsets[1], offsets[2], offsets[1]
	case 4:
		top, right, bottom, left = offsets[0], offsets[1], offsets[2], offsets[3]
	}

	suffix := ""
	if important {
		suffix = " !important"
	}
	return parts[0] + suffix +
		"; top: " + top + suffix +
		"; right: " + right + suffix +
		"; bottom: " + bottom + suffix +
		"; left: " + left + suffix, true
}

// rewriteHexRGBA replaces a hex color that opens rgba() with its channels.
func rewriteHexRGBA(values []token) []edit {
	var out []edit
	afterRGBA := false
	for _, t := range values {
		switch {
		case t.tt == css.FunctionToken:
			afterRGBA = strings.EqualFold(string(t.data), "rgba(")
		case t.tt == css.WhitespaceToken || t.tt == css.CommentToken:
		case t.tt == css.HashToken && afterRGBA:
			if rgb, ok := hexChannels(string(t.data)); ok {
				out = append(out, edit{start: t.off, end: t.off + len(t.data), text: rgb})
			}
			afterRGBA = false
		default:
			afterRGBA = false
		}
	}
	return out
}

func hexChannels(hash string) (string, bool) {
	hex := strings.TrimPrefix(hash, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return "", false
	}

	channels := make([]string, 3)
	for i := range channels {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return "", false
		}
		channels[i] = strconv.FormatUint(v, 10)
	}
	return strings.Join(channels, ", "), true
}

// kebab lowers easeInOutCubic to ease-in-out-cubic; kebab input is unchanged.
func kebab(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('-')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// clearfixRule is the native clearfix rule for the given selectors.
func clearfixRule(selectors []string) string {
	after := make([]string, len(selectors))
	for i, sel := range selectors {
		after[i] = sel + "::after"
	}
	return strings.Join(after, ", ") + ` { content: ""; display: table; clear: both; }`
}

// keepLineBreaks appends the line breaks of the replaced bytes to text.
func keepLineBreaks(replaced []byte, text string) string {
	return text + strings.Repeat("\n", bytes.Count(replaced, []byte{'\n'}))
}

func applyEdits(src []byte, edits []edit) []byte {
	if len(edits) == 0 {
		return src
	}
	var b bytes.Buffer
	b.Grow(len(src))
	last := 0
	for _, e := range edits {
		b.Write(src[last:e.start])
		b.WriteString(e.text)
		last = e.end
	}
	b.Write(src[last:])
	return b.Bytes()
}

func significant(toks []token) []token {
	out := make([]token, 0, len(toks))
	for _, t := range toks {
		if t.tt != css.WhitespaceToken && t.tt != css.CommentToken {
			out = append(out, t)
		}
	}
	return out
}

func nextSignificant(toks []token, from int) int {
	for i := from; i < len(toks); i++ {
		if toks[i].tt != css.WhitespaceToken && toks[i].tt != css.CommentToken {
			return i
		}
	}
	return -1
}

// valueEnd returns the index of the token closing a declaration value: a
// semicolon or brace outside parentheses, or len(toks).
func valueEnd(toks []token, from int) int {
	level := 0
	for i := from; i < len(toks); i++ {
		switch toks[i].tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			level++
		case css.RightParenthesisToken, css.RightBracketToken:
			if level > 0 {
				level--
			}
		case css.SemicolonToken, css.LeftBraceToken, css.RightBraceToken:
			if level == 0 {
				return i
			}
		}
	}
	return len(toks)
}

// splitSelectors splits a ruleset prelude on top-level commas and collapses whitespace.
func splitSelectors(prelude []token) []string {
	var (
		out   []string
		cur   strings.Builder
		level int
	)
	flush := func() {
		if s := strings.Join(strings.Fields(cur.String()), " "); s != "" {
			out = append(out, s)
		}
		cur.Reset()
	}
	for _, t := range prelude {
		switch t.tt {
		case css.FunctionToken, css.LeftParenthesisToken, css.LeftBracketToken:
			level++
		case css.RightParenthesisToken, css.RightBracketToken:
			level--
		case css.CommaToken:
			if level == 0 {
				flush()
				continue
			}
		case css.CommentToken:
			continue
		}
		cur.Write(t.data)
	}
	flush()
	return out
}
