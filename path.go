package nsconnector

import (
	"fmt"
	"strconv"
	"strings"
)

// PathRef builds dotted/indexed field paths in a chain-safe way and creates
// Issues at them.
type PathRef interface {
	Field(name string) PathRef
	Index(i int) PathRef
	String() string
	Depth() int
	Issue(code, msg string, kv ...any) Issue
}

// Root returns the path of the document itself.
func Root() PathRef { return &pathRef{} }

type segment struct {
	name  string
	index int // valid when name == ""
}

type pathRef struct {
	parts []segment
}

func (p *pathRef) Field(name string) PathRef {
	if name == "" {
		return p
	}
	return &pathRef{parts: append(append([]segment{}, p.parts...), segment{name: name})}
}

func (p *pathRef) Index(i int) PathRef {
	return &pathRef{parts: append(append([]segment{}, p.parts...), segment{index: i})}
}

func (p *pathRef) Depth() int { return len(p.parts) }

func (p *pathRef) String() string {
	b := &strings.Builder{}
	for i, s := range p.parts {
		if s.name == "" {
			b.WriteByte('[')
			b.WriteString(strconv.Itoa(s.index))
			b.WriteByte(']')
			continue
		}
		if i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.name)
	}
	return b.String()
}

func (p *pathRef) Issue(code, msg string, kv ...any) Issue {
	m := map[string]any{}
	for i := 0; i+1 < len(kv); i += 2 {
		m[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return Issue{Path: p.String(), Code: code, Message: msg, Params: m}
}

// IssueAt creates an Issue at the given path with provided code, message and params map.
func IssueAt(p PathRef, code, msg string, params map[string]any) Issue {
	return Issue{Path: p.String(), Code: code, Message: msg, Params: params}
}
