package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"

	nsconnector "github.com/reoring/nsconnector"
	"github.com/reoring/nsconnector/i18n"
)

// Options controls payload decoding.
type Options struct {
	// MaxDepth bounds container nesting (objects and arrays). Zero uses
	// nsconnector.DefaultMaxDepth; a negative value disables the check.
	MaxDepth int
	// MaxIssues caps the number of duplicate-key issues collected. Zero or
	// negative means unlimited.
	MaxIssues int
}

// Document is a decoded payload plus the non-fatal issues found while
// decoding it. Value holds JSON-like data: map[string]any, []any, string,
// json.Number, bool or nil.
type Document struct {
	Value  any
	Issues nsconnector.Issues
}

// Object returns the value as a mapping when it is one.
func (d Document) Object() (map[string]any, bool) {
	m, ok := d.Value.(map[string]any)
	return m, ok
}

// JSONBytes decodes a JSON payload held in memory.
func JSONBytes(b []byte, opt Options) (Document, error) {
	return JSON(bytes.NewReader(b), opt)
}

// JSON decodes one JSON value from r with goccy/go-json's token decoder.
// Numbers are kept as json.Number so integer and fractional literals stay
// distinguishable. Duplicate object keys are reported as issues at the
// duplicated field path (the last value wins). Malformed input, trailing data
// and nesting beyond MaxDepth are returned as errors carrying
// nsconnector.Issues.
func JSON(r io.Reader, opt Options) (Document, error) {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	d := &decoder{dec: dec, opt: resolve(opt)}
	v, err := d.value(nsconnector.Root(), 0)
	if err != nil {
		return Document{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Document{}, parseIssue(nsconnector.Root(), "unexpected data after top-level value")
	}
	return Document{Value: v, Issues: d.issues}, nil
}

func resolve(opt Options) Options {
	if opt.MaxDepth == 0 {
		opt.MaxDepth = nsconnector.DefaultMaxDepth
	}
	return opt
}

type decoder struct {
	dec    *j.Decoder
	opt    Options
	issues nsconnector.Issues
}

func (d *decoder) value(p nsconnector.PathRef, depth int) (any, error) {
	tok, err := d.dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, parseIssue(p, "unexpected end of input")
		}
		return nil, parseIssue(p, err.Error())
	}
	switch t := tok.(type) {
	case j.Delim:
		switch t {
		case '{':
			if err := d.enter(p, depth); err != nil {
				return nil, err
			}
			return d.object(p, depth+1)
		case '[':
			if err := d.enter(p, depth); err != nil {
				return nil, err
			}
			return d.array(p, depth+1)
		default:
			return nil, parseIssue(p, fmt.Sprintf("unexpected delimiter %q", rune(t)))
		}
	case j.Number:
		// The decoder's number token aliases its read buffer.
		return j.Number(strings.Clone(string(t))), nil
	case string, bool, nil:
		return t, nil
	case float64:
		// UseNumber should make this unreachable; keep the literal form anyway.
		return j.Number(strconv.FormatFloat(t, 'g', -1, 64)), nil
	default:
		return nil, parseIssue(p, fmt.Sprintf("unexpected token %T", tok))
	}
}

func (d *decoder) enter(p nsconnector.PathRef, depth int) error {
	return checkDepth(p, depth, d.opt)
}

// checkDepth fails when a container at depth would exceed opt.MaxDepth.
func checkDepth(p nsconnector.PathRef, depth int, opt Options) error {
	if opt.MaxDepth < 0 || depth < opt.MaxDepth {
		return nil
	}
	limit := strconv.Itoa(opt.MaxDepth)
	return nsconnector.Issues{nsconnector.IssueAt(p, nsconnector.CodeTooDeep,
		i18n.T(nsconnector.CodeTooDeep, map[string]string{"max": limit}),
		map[string]any{"max": opt.MaxDepth})}
}

func (d *decoder) object(p nsconnector.PathRef, depth int) (map[string]any, error) {
	out := map[string]any{}
	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, parseIssue(p, err.Error())
		}
		key, ok := tok.(string)
		if !ok {
			return nil, parseIssue(p, fmt.Sprintf("expected object key, got %v", tok))
		}
		fp := p.Field(key)
		if _, dup := out[key]; dup {
			d.duplicate(fp, key)
		}
		v, err := d.value(fp, depth)
		if err != nil {
			return nil, err
		}
		out[key] = v
	}
	if err := d.closing('}', p); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *decoder) array(p nsconnector.PathRef, depth int) ([]any, error) {
	out := []any{}
	for i := 0; d.dec.More(); i++ {
		v, err := d.value(p.Index(i), depth)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := d.closing(']', p); err != nil {
		return nil, err
	}
	return out, nil
}

func (d *decoder) closing(want j.Delim, p nsconnector.PathRef) error {
	tok, err := d.dec.Token()
	if err != nil {
		return parseIssue(p, err.Error())
	}
	if got, ok := tok.(j.Delim); !ok || got != want {
		return parseIssue(p, fmt.Sprintf("expected %q, got %v", rune(want), tok))
	}
	return nil
}

func (d *decoder) duplicate(p nsconnector.PathRef, key string) {
	if d.opt.MaxIssues > 0 && len(d.issues) >= d.opt.MaxIssues {
		return
	}
	msg := i18n.T(nsconnector.CodeDuplicateKey, map[string]string{"key": key})
	d.issues = nsconnector.AppendIssues(d.issues, nsconnector.IssueAt(p, nsconnector.CodeDuplicateKey, msg, map[string]any{"key": key}))
}

func parseIssue(p nsconnector.PathRef, detail string) error {
	return nsconnector.Issues{nsconnector.IssueAt(p, nsconnector.CodeParseError,
		i18n.T(nsconnector.CodeParseError, nil), map[string]any{"detail": detail})}
}
