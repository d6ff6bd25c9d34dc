package dsl

import (
	"fmt"
	"reflect"
	"strconv"

	nsconnector "github.com/reoring/nsconnector"
	"github.com/reoring/nsconnector/i18n"
	"github.com/reoring/nsconnector/rules"
)

type field struct {
	name     string
	chain    []nsconnector.Constraint
	required bool
	nullable bool
}

// Schema is an immutable, ordered mapping from field name to constraint
// chain. It never retains the documents it evaluates and is safe for
// concurrent use.
type Schema struct {
	fields []field
}

// Ensure *Schema can be nested in a constraint chain.
var _ nsconnector.Constraint = (*Schema)(nil)

// ConstraintKind implements nsconnector.Constraint.
func (*Schema) ConstraintKind() nsconnector.ConstraintKind { return nsconnector.ConstraintObject }

// FieldInfo describes one declared field for static inspection.
type FieldInfo struct {
	Name     string
	Required bool
	Nullable bool
	Chain    []nsconnector.Constraint
}

// Fields lists declared fields in evaluation order.
func (s *Schema) Fields() []FieldInfo {
	out := make([]FieldInfo, len(s.fields))
	for i, f := range s.fields {
		out[i] = FieldInfo{
			Name:     f.name,
			Required: f.required,
			Nullable: f.nullable,
			Chain:    append([]nsconnector.Constraint(nil), f.chain...),
		}
	}
	return out
}

// Field looks up a declared field by name.
func (s *Schema) Field(name string) (FieldInfo, bool) {
	for _, fi := range s.Fields() {
		if fi.Name == name {
			return fi, true
		}
	}
	return FieldInfo{}, false
}

// Evaluate validates doc against the schema and returns a fresh Result. All
// field failures are collected; nothing short-circuits across fields. The
// only error is a doc that is not an object (nsconnector.ErrNotObject).
func (s *Schema) Evaluate(doc any, opts ...nsconnector.EvalOpt) (nsconnector.Result, error) {
	m, ok := asObject(doc)
	if !ok {
		return nsconnector.Result{}, fmt.Errorf("%w: got %s", nsconnector.ErrNotObject, rules.TypeOf(doc))
	}
	ev := &evaluator{opt: nsconnector.ResolveEvalOpt(opts...)}
	ev.object(s, m, nsconnector.Root())
	return nsconnector.NewResult(ev.issues), nil
}

// evaluator carries per-call state; a new one is created for every Evaluate.
type evaluator struct {
	opt    nsconnector.EvalOpt
	issues nsconnector.Issues
}

func (e *evaluator) add(p nsconnector.PathRef, rule, code, msg string, params map[string]any) {
	it := nsconnector.IssueAt(p, code, msg, params)
	it.Rule = rule
	e.issues = nsconnector.AppendIssues(e.issues, it)
}

func (e *evaluator) object(s *Schema, m map[string]any, base nsconnector.PathRef) {
	if e.opt.MaxDepth >= 0 && base.Depth() > e.opt.MaxDepth {
		limit := strconv.Itoa(e.opt.MaxDepth)
		e.add(base, "depth", nsconnector.CodeTooDeep, i18n.T(nsconnector.CodeTooDeep, map[string]string{"max": limit}), map[string]any{"max": e.opt.MaxDepth})
		return
	}
	for _, f := range s.fields {
		val, present := m[f.name]
		e.field(f, val, present, base.Field(f.name))
	}
}

// field walks one chain in declared order. A failing Required or type check
// stops the chain so later rules never see a missing or mistyped value.
func (e *evaluator) field(f field, val any, present bool, p nsconnector.PathRef) {
	for _, c := range f.chain {
		switch c := c.(type) {
		case rules.Rule:
			if c.Kind() == rules.KindNullable {
				if present && val == nil {
					return
				}
				continue
			}
			if c.Kind() == rules.KindItems {
				if present {
					e.items(c, val, p)
				}
				continue
			}
			fl := c.Check(val, present)
			if fl == nil {
				continue
			}
			e.add(p, c.Kind().String(), fl.Code, fl.Message, fl.Params)
			if fl.Code == nsconnector.CodeRequired || fl.Code == nsconnector.CodeInvalidType {
				return
			}
		case *Schema:
			if !present {
				continue
			}
			m, ok := asObject(val)
			if !ok {
				e.typeMismatch(p, "object", rules.Object, val)
				return
			}
			e.object(c, m, p)
		case ListOf:
			if !present {
				continue
			}
			list, ok := asList(val)
			if !ok {
				e.typeMismatch(p, "each", rules.List, val)
				return
			}
			for i, el := range list {
				ep := p.Index(i)
				m, ok := asObject(el)
				if !ok {
					e.typeMismatch(ep, "each", rules.Object, el)
					continue
				}
				e.object(c.elem, m, ep)
			}
		}
	}
}

// items reports each mistyped element of a scalar list at its own index.
func (e *evaluator) items(r rules.Rule, val any, p nsconnector.PathRef) {
	for i, el := range rules.ItemsOf(val) {
		if fl := r.CheckElem(el); fl != nil {
			e.add(p.Index(i), r.Kind().String(), fl.Code, fl.Message, fl.Params)
		}
	}
}

func (e *evaluator) typeMismatch(p nsconnector.PathRef, rule string, want rules.Type, got any) {
	gt := rules.TypeOf(got).String()
	msg := i18n.T(nsconnector.CodeInvalidType, map[string]string{"expected": want.String(), "got": gt})
	e.add(p, rule, nsconnector.CodeInvalidType, msg, map[string]any{"expected": want.String(), "got": gt})
}

// asObject accepts map[string]any directly and other string-keyed maps via
// reflection.
func asObject(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asList accepts []any directly and other slices or arrays via reflection.
func asList(v any) ([]any, bool) {
	if l, ok := v.([]any); ok {
		return l, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
