package function

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// truthyStrings are the string spellings coerced to boolean true. Any other
// string coerces to false.
var truthyStrings = map[string]bool{
	"true": true,
	"1":    true,
	"yes":  true,
	"on":   true,
}

// ValidateArguments checks raw arguments against the parameter schemas and
// returns the coerced, defaulted mapping passed to the handler.
//
// Order: required presence, unknown keys, per-value coercion, enum
// membership, default injection. The first violation aborts with a
// *ValidationError naming the offending parameter.
func ValidateArguments(raw map[string]any, schemas []ParameterSchema) (map[string]any, error) {
	byName := make(map[string]ParameterSchema, len(schemas))
	for _, s := range schemas {
		byName[s.Name] = s
	}

	for _, s := range schemas {
		if !s.Required {
			continue
		}
		if _, ok := raw[s.Name]; !ok {
			return nil, missingRequired(s.Name)
		}
	}

	for key := range raw {
		if _, ok := byName[key]; !ok {
			return nil, unknownParameter(key)
		}
	}

	validated := make(map[string]any, len(schemas))
	for _, s := range schemas {
		value, present := raw[s.Name]
		if !present {
			continue
		}

		coerced, err := coerceValue(value, s.Type)
		if err != nil {
			return nil, invalidType(s.Name, err.Error())
		}

		if len(s.Enum) > 0 {
			str, ok := coerced.(string)
			if !ok || !containsString(s.Enum, str) {
				return nil, invalidEnumValue(s.Name, s.Enum)
			}
		}

		validated[s.Name] = coerced
	}

	for _, s := range schemas {
		if s.Required || s.Default == nil {
			continue
		}
		if _, ok := validated[s.Name]; !ok {
			validated[s.Name] = s.Default
		}
	}

	return validated, nil
}

// coerceValue converts a loosely-typed wire value to the declared type.
// JSON decoding hands numbers over as float64; direct Go callers may pass
// native ints, so both are accepted.
func coerceValue(value any, t ParamType) (any, error) {
	switch t {
	case TypeString:
		switch v := value.(type) {
		case string:
			return v, nil
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64), nil
		case int:
			return strconv.Itoa(v), nil
		case bool:
			return strconv.FormatBool(v), nil
		default:
			return nil, fmt.Errorf("expected string, got %T", value)
		}

	case TypeInteger:
		switch v := value.(type) {
		case int:
			return v, nil
		case int64:
			return int(v), nil
		case float64:
			if v != math.Trunc(v) {
				return nil, fmt.Errorf("value %v is not an integer", v)
			}
			return int(v), nil
		case string:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("cannot parse %q as integer", v)
			}
			return int(n), nil
		default:
			return nil, fmt.Errorf("expected integer, got %T", value)
		}

	case TypeNumber:
		switch v := value.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		case int64:
			return float64(v), nil
		case string:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("cannot parse %q as number", v)
			}
			return f, nil
		default:
			return nil, fmt.Errorf("expected number, got %T", value)
		}

	case TypeBoolean:
		switch v := value.(type) {
		case bool:
			return v, nil
		case string:
			return truthyStrings[strings.ToLower(strings.TrimSpace(v))], nil
		default:
			return nil, fmt.Errorf("expected boolean, got %T", value)
		}

	case TypeArray:
		if v, ok := value.([]any); ok {
			return v, nil
		}
		return nil, fmt.Errorf("expected array, got %T", value)

	case TypeObject:
		if v, ok := value.(map[string]any); ok {
			return v, nil
		}
		return nil, fmt.Errorf("expected object, got %T", value)

	case TypeNull:
		// The declared type carries all the meaning; the value is discarded.
		return nil, nil

	default:
		return nil, fmt.Errorf("unsupported parameter type %q", t)
	}
}

func containsString(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
