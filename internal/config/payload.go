package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/rcliao/aurvo/internal/model"
)

// requiredFields are extracted from every raw module, in this order.
var requiredFields = []string{"slug", "title", "description"}

// decodeFile picks a decoder by file extension.
func decodeFile(path string, raw []byte) (any, error) {
	var payload any
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		var err error
		if payload, err = decodeJSON(raw); err != nil {
			return nil, &ConfigurationError{Source: path, Msg: "invalid JSON in modules file", Err: err}
		}
	case ".toml":
		var doc map[string]any
		if err := toml.Unmarshal(raw, &doc); err != nil {
			return nil, &ConfigurationError{Source: path, Msg: "invalid TOML in modules file", Err: err}
		}
		payload = doc
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &payload); err != nil {
			return nil, &ConfigurationError{Source: path, Msg: "invalid YAML in modules file", Err: err}
		}
	default:
		return nil, &ConfigurationError{
			Source: path,
			Msg:    fmt.Sprintf("unsupported modules file extension %q (use .json, .toml, .yaml or .yml)", ext),
		}
	}
	return payload, nil
}

// decodeJSON decodes a single JSON value, keeping numbers as json.Number
// so large integers survive coercion to strings.
func decodeJSON(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var payload any
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after top-level value")
	}
	return payload, nil
}

// normalize flattens the accepted payload shapes into an ordered list of
// raw module objects:
//
//	{"modules": <payload>}  -> recurse into the value
//	{...}                   -> a single module
//	[{...}, {...}]          -> one module per element
func normalize(payload any) ([]map[string]any, error) {
	switch v := payload.(type) {
	case map[string]any:
		if inner, ok := v["modules"]; ok {
			return normalize(inner)
		}
		return []map[string]any{v}, nil
	case []any:
		out := make([]map[string]any, 0, len(v))
		for i, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return nil, configErrorf("module %d must be an object, got %s", i+1, describe(item))
			}
			out = append(out, obj)
		}
		return out, nil
	default:
		return nil, configErrorf("module payload must be an object or a list of objects, got %s", describe(payload))
	}
}

// extract validates raw module objects and converts them to definitions.
func extract(raw []map[string]any) ([]model.ModuleDefinition, error) {
	if len(raw) == 0 {
		return nil, configErrorf("no modules defined")
	}

	seen := make(map[string]bool, len(raw))
	defs := make([]model.ModuleDefinition, 0, len(raw))
	for i, obj := range raw {
		n := i + 1
		var fields [3]string
		for j, name := range requiredFields {
			val, ok := obj[name]
			if !ok || val == nil {
				return nil, configErrorf("module %d is missing required field %q", n, name)
			}
			s, err := coerce(val)
			if err != nil {
				return nil, configErrorf("module %d field %q: %v", n, name, err)
			}
			fields[j] = strings.TrimSpace(s)
		}

		def := model.ModuleDefinition{Slug: fields[0], Title: fields[1], Description: fields[2]}
		if def.Slug == "" {
			return nil, configErrorf("module %d has an empty slug", n)
		}
		// The slug names the database file, so it must stay inside data_dir.
		if strings.ContainsAny(def.Slug, `/\`) || def.Slug == "." || def.Slug == ".." {
			return nil, configErrorf("module %d slug %q must not contain path separators", n, def.Slug)
		}
		if seen[def.Slug] {
			return nil, configErrorf("module %d has duplicate slug %q", n, def.Slug)
		}
		seen[def.Slug] = true
		defs = append(defs, def)
	}
	return defs, nil
}

func coerce(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case json.Number:
		return t.String(), nil
	case bool:
		return strconv.FormatBool(t), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case uint64:
		return strconv.FormatUint(t, 10), nil
	case map[string]any, []any:
		return "", fmt.Errorf("expected a scalar, got %s", describe(v))
	default:
		return fmt.Sprint(t), nil
	}
}

func describe(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int, int64, uint64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
