package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	nsconnector "github.com/reoring/nsconnector"
)

// YAML decodes the first YAML document from r into JSON-like data. Mappings
// become map[string]any (non-string keys are dropped) and numbers become
// json.Number so the result classifies the same way a JSON payload does.
func YAML(r io.Reader, opt Options) (Document, error) {
	opt = resolve(opt)
	var node any
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return Document{}, parseIssue(nsconnector.Root(), "empty document")
		}
		return Document{}, parseIssue(nsconnector.Root(), err.Error())
	}
	v, err := normalize(node, nsconnector.Root(), 0, opt)
	if err != nil {
		return Document{}, err
	}
	return Document{Value: v}, nil
}

// YAMLBytes decodes a YAML payload held in memory.
func YAMLBytes(b []byte, opt Options) (Document, error) {
	return YAML(bytes.NewReader(b), opt)
}

// File decodes the payload at path, choosing YAML for .yaml/.yml and JSON
// otherwise.
func File(path string, opt Options) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML(f, opt)
	default:
		return JSON(f, opt)
	}
}

func normalize(v any, p nsconnector.PathRef, depth int, opt Options) (any, error) {
	switch t := v.(type) {
	case map[string]any:
		if err := checkDepth(p, depth, opt); err != nil {
			return nil, err
		}
		out := make(map[string]any, len(t))
		for k, vv := range t {
			nv, err := normalize(vv, p.Field(k), depth+1, opt)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case map[any]any:
		if err := checkDepth(p, depth, opt); err != nil {
			return nil, err
		}
		out := make(map[string]any, len(t))
		for k, vv := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			nv, err := normalize(vv, p.Field(ks), depth+1, opt)
			if err != nil {
				return nil, err
			}
			out[ks] = nv
		}
		return out, nil
	case []any:
		if err := checkDepth(p, depth, opt); err != nil {
			return nil, err
		}
		arr := make([]any, len(t))
		for i := range t {
			nv, err := normalize(t[i], p.Index(i), depth+1, opt)
			if err != nil {
				return nil, err
			}
			arr[i] = nv
		}
		return arr, nil
	case int:
		return j.Number(fmt.Sprint(t)), nil
	case int64:
		return j.Number(fmt.Sprint(t)), nil
	case uint64:
		return j.Number(fmt.Sprint(t)), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return t, nil
		}
		return floatNumber(t), nil
	default:
		return v, nil
	}
}

// floatNumber keeps a fractional marker on whole floats so 1.0 stays a float.
func floatNumber(f float64) j.Number {
	s := fmt.Sprint(f)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return j.Number(s)
}
