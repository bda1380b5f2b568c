package domain

import (
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"dario.cat/mergo"
)

// MergeBundlerConfig deep-merges the user override bag into dst.
//
// The policy, per value kind:
//   - scalars (mode, devtool, output names, rule fields): the override wins when it is non-zero;
//   - lists (module.rules, plugins, target, externals): concatenated, synthesized items first;
//   - mappings (entry, define, resolve.alias): merged key by key, the override wins per key;
//   - zero values in the override never erase synthesized values.
//
// Lists are never replaced wholesale: an override adding one rule keeps the built-in rule.
// devtool: false is the one explicit erase and turns source maps off.
// Keys BundlerConfig has no field for are skipped; IgnoredBundlerKeys lists them.
func MergeBundlerConfig(dst *BundlerConfig, overrides map[string]any) error {
	if len(overrides) == 0 {
		return nil
	}

	devtoolOff := false
	if v, ok := overrides["devtool"].(bool); ok {
		overrides = maps.Clone(overrides)
		delete(overrides, "devtool")
		devtoolOff = !v
	}

	var src BundlerConfig
	if err := DecodeOptions(overrides, &src); err != nil {
		return Wrap(err, ErrConfigMergeFailed)
	}

	if err := mergo.Merge(dst, src, mergo.WithOverride, mergo.WithAppendSlice); err != nil {
		return Wrap(err, ErrConfigMergeFailed)
	}
	if devtoolOff {
		dst.Devtool = ""
	}
	return nil
}

// IgnoredBundlerKeys returns the dotted paths of override keys that
// MergeBundlerConfig cannot apply, sorted. List items are addressed as
// module.rules[0].
func IgnoredBundlerKeys(overrides map[string]any) []string {
	var out []string
	unknownKeys(overrides, reflect.TypeFor[BundlerConfig](), "", &out)
	if v, ok := overrides["devtool"].(bool); ok && v {
		out = append(out, "devtool")
	}
	slices.Sort(out)
	return out
}

// unknownKeys walks v alongside the yaml fields of t. Values of the wrong
// shape are left to the decoder, which reports them as errors.
func unknownKeys(v any, t reflect.Type, prefix string, out *[]string) {
	switch t.Kind() {
	case reflect.Struct:
		m, ok := v.(map[string]any)
		if !ok {
			return
		}
		fields := yamlFields(t)
		for key, val := range m {
			ft, known := fields[key]
			if !known {
				*out = append(*out, prefix+key)
				continue
			}
			unknownKeys(val, ft, prefix+key+".", out)
		}
	case reflect.Slice:
		items, ok := v.([]any)
		if !ok {
			return
		}
		base := strings.TrimSuffix(prefix, ".")
		for i, item := range items {
			unknownKeys(item, t.Elem(), base+"["+strconv.Itoa(i)+"].", out)
		}
	}
}

func yamlFields(t reflect.Type) map[string]reflect.Type {
	fields := make(map[string]reflect.Type, t.NumField())
	for i := range t.NumField() {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			continue
		}
		fields[name] = f.Type
	}
	return fields
}
