package nsconnector

// Result is the aggregate outcome of evaluating a schema against one
// document. It is immutable: accessors return copies.
type Result struct {
	issues Issues
}

// NewResult builds a Result from the collected issues.
func NewResult(iss Issues) Result {
	if len(iss) == 0 {
		return Result{}
	}
	return Result{issues: append(Issues(nil), iss...)}
}

// Valid reports whether no issue was collected.
func (r Result) Valid() bool { return len(r.issues) == 0 }

// Issues returns the collected issues in evaluation order.
func (r Result) Issues() Issues {
	if len(r.issues) == 0 {
		return nil
	}
	return append(Issues(nil), r.issues...)
}

// Errors groups issue messages by field path. Multiple failures at the same
// path accumulate in evaluation order.
func (r Result) Errors() map[string][]string {
	out := make(map[string][]string, len(r.issues))
	for _, it := range r.issues {
		out[it.Path] = append(out[it.Path], it.Message)
	}
	return out
}

// Paths lists the distinct failing paths in first-seen order.
func (r Result) Paths() []string {
	seen := make(map[string]struct{}, len(r.issues))
	var out []string
	for _, it := range r.issues {
		if _, ok := seen[it.Path]; ok {
			continue
		}
		seen[it.Path] = struct{}{}
		out = append(out, it.Path)
	}
	return out
}

// Err returns the issues as an error, or nil when the result is valid.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return r.Issues()
}
