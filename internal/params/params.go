// Package params validates the argument shapes callers pass to the public
// operations. Arguments arrive either as a positional JSON array or as a
// named JSON object; both forms map onto the same field names.
package params

import (
	"github.com/golos-tools/wallet-indexer/internal/domain"
)

// SingleArgument returns the sole string argument: the first element of a
// positional array, or the named field of an object. Absent or non-string
// values fail with a wrong-arguments error.
func SingleArgument(args any, fieldName string) (string, error) {
	if fieldName == "" {
		return "", domain.WrongArguments("empty argument field name")
	}

	var raw any
	switch v := args.(type) {
	case []any:
		if len(v) > 0 {
			raw = v[0]
		}
	case map[string]any:
		raw = v[fieldName]
	}

	value, ok := raw.(string)
	if !ok || value == "" {
		return "", domain.WrongArguments("wrong arguments: missing %q", fieldName)
	}

	return value, nil
}

// ArgumentList maps a positional array or named object onto the given field
// list. A positional array must have exactly one value per field; values must
// be strings. Nil args yield an empty result, matching the permissive
// behavior callers rely on for optional argument sets.
func ArgumentList(args any, fields []string) (map[string]string, error) {
	for _, f := range fields {
		if f == "" {
			return nil, domain.WrongArguments("empty argument field name")
		}
	}

	result := make(map[string]string, len(fields))

	switch v := args.(type) {
	case nil:
		return result, nil
	case []any:
		if len(v) != len(fields) {
			return nil, domain.WrongArguments("wrong arguments: got %d values for %d fields", len(v), len(fields))
		}
		for i, f := range fields {
			value, ok := v[i].(string)
			if !ok {
				return nil, domain.WrongArguments("wrong arguments: %q is not a string", f)
			}
			result[f] = value
		}
	case map[string]any:
		for _, f := range fields {
			raw, present := v[f]
			if !present {
				continue
			}
			value, ok := raw.(string)
			if !ok {
				return nil, domain.WrongArguments("wrong arguments: %q is not a string", f)
			}
			result[f] = value
		}
	default:
		return nil, domain.WrongArguments("wrong arguments: unsupported args shape")
	}

	return result, nil
}
