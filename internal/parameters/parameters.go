// Package parameters handles generic configuration Params, a map[string]string that the
// user can set with a string like "exempt_placements=2,require_queen".
package parameters

import (
	"github.com/janpfeifer/hiveboard/internal/generics"
	"github.com/pkg/errors"
	"slices"
	"strconv"
	"strings"
)

// Params represent generic configuration parameters.
type Params map[string]string

// Value types supported by GetParamOr and PopParamOr.
type Value interface {
	bool | int | float64 | string
}

// NewFromConfigString create params from user's configuration string.
// Empty parts (e.g. trailing commas) are ignored, and keys are trimmed of spaces.
// See GetParamOr and PopParamOr to parse values from this map.
func NewFromConfigString(config string) Params {
	params := make(Params)
	for _, part := range strings.Split(config, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, _ := strings.Cut(part, "=") // Only the first '=' separates key and value.
		params[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return params
}

// PopParamOr is like GetParamOr, but it also deletes from the params map the retrieved parameter.
func PopParamOr[T Value](params Params, key string, defaultValue T) (T, error) {
	value, err := GetParamOr(params, key, defaultValue)
	if err != nil {
		return value, err
	}
	delete(params, key)
	return value, nil
}

// GetParamOr attempts to parse a parameter to the given type if the key is present, or returns the defaultValue
// if not.
//
// For bool types, a key without a value is interpreted as true.
func GetParamOr[T Value](params Params, key string, defaultValue T) (T, error) {
	value, exists := params[key]
	if !exists {
		return defaultValue, nil
	}
	var parsed any
	switch any(defaultValue).(type) {
	case string:
		parsed = value
	case int:
		if value == "" {
			return defaultValue, nil
		}
		v, err := strconv.Atoi(value)
		if err != nil {
			return defaultValue, errors.Wrapf(err, "failed to parse configuration %s=%q to int", key, value)
		}
		parsed = v
	case float64:
		if value == "" {
			return defaultValue, nil
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return defaultValue, errors.Wrapf(err, "failed to parse configuration %s=%q to float", key, value)
		}
		parsed = v
	case bool:
		switch strings.ToLower(value) {
		case "", "true", "1": // Empty value is considered "true"
			parsed = true
		case "false", "0":
			parsed = false
		default:
			return defaultValue, errors.Errorf("failed to parse configuration %s=%q to bool", key, value)
		}
	}
	return parsed.(T), nil
}

// CheckAllUsed returns an error listing the keys still in params. It is meant to be called
// after all known keys were consumed with PopParamOr.
func CheckAllUsed(params Params) error {
	if len(params) == 0 {
		return nil
	}
	unknown := slices.Collect(generics.SortedKeys(params))
	return errors.Errorf("unknown configuration parameters: %s", strings.Join(unknown, ", "))
}
