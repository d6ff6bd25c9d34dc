package dsl

import (
	"errors"
	"fmt"

	nsconnector "github.com/reoring/nsconnector"
	"github.com/reoring/nsconnector/rules"
)

// ErrInvalidChain reports a constraint chain that cannot be evaluated
// deterministically (misplaced Required, several nested schemas, nil parts).
var ErrInvalidChain = errors.New("dsl: invalid constraint chain")

type objectBuilder struct {
	fields []field
	seen   map[string]struct{}
	errs   []error
}

// Object creates a new object builder. Fields are evaluated in the order they
// are declared; keys present in a document but not declared are ignored.
func Object() *objectBuilder {
	return &objectBuilder{seen: map[string]struct{}{}}
}

// Field declares a field with its constraint chain. The chain may contain
// rules.Rule values, at most one nested *Schema (object field) or Each(...)
// (list-of-objects field). rules.Required(), when used, must come first.
func (b *objectBuilder) Field(name string, chain ...nsconnector.Constraint) *objectBuilder {
	if name == "" {
		b.errs = append(b.errs, fmt.Errorf("%w: empty field name", ErrInvalidChain))
		return b
	}
	if _, dup := b.seen[name]; dup {
		b.errs = append(b.errs, fmt.Errorf("%w: field %q declared twice", ErrInvalidChain, name))
		return b
	}
	b.seen[name] = struct{}{}
	f, err := newField(name, chain)
	if err != nil {
		b.errs = append(b.errs, err)
		return b
	}
	b.fields = append(b.fields, f)
	return b
}

// Build validates the declared chains and returns an immutable Schema.
func (b *objectBuilder) Build() (*Schema, error) {
	if len(b.errs) > 0 {
		return nil, errors.Join(b.errs...)
	}
	fs := make([]field, len(b.fields))
	copy(fs, b.fields)
	return &Schema{fields: fs}, nil
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

func newField(name string, chain []nsconnector.Constraint) (field, error) {
	f := field{name: name, chain: make([]nsconnector.Constraint, 0, len(chain))}
	nested := 0
	for i, c := range chain {
		switch c := c.(type) {
		case rules.Rule:
			switch c.Kind() {
			case rules.KindInvalid:
				return field{}, fmt.Errorf("%w: field %q: zero rules.Rule at position %d", ErrInvalidChain, name, i)
			case rules.KindRequired:
				if i != 0 {
					return field{}, fmt.Errorf("%w: field %q: Required must be the first constraint", ErrInvalidChain, name)
				}
				f.required = true
			case rules.KindNullable:
				f.nullable = true
			}
		case *Schema:
			if c == nil {
				return field{}, fmt.Errorf("%w: field %q: nil schema", ErrInvalidChain, name)
			}
			nested++
		case ListOf:
			if c.elem == nil {
				return field{}, fmt.Errorf("%w: field %q: Each(nil)", ErrInvalidChain, name)
			}
			nested++
		default:
			return field{}, fmt.Errorf("%w: field %q: unsupported constraint %T", ErrInvalidChain, name, c)
		}
		f.chain = append(f.chain, c)
	}
	if nested > 1 {
		return field{}, fmt.Errorf("%w: field %q: more than one nested schema", ErrInvalidChain, name)
	}
	return f, nil
}
