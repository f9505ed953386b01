package config

import (
	"fmt"
	"strings"
)

type kind int

const (
	kindString kind = iota
	kindBool
	kindObject
	kindStringArray
)

// schema maps every accepted top-level option key to its expected shape.
var schema = map[string]kind{
	"outputDir":           kindString,
	"publicPath":          kindString,
	"assetsDir":           kindString,
	"filenameHashing":     kindBool,
	"productionSourceMap": kindBool,
	"progress":            kindBool,
	"devServer":           kindObject,
	"css":                 kindObject,
	"plugins":             kindStringArray,
}

// Validate checks a merged option map against the schema. Unknown keys and
// wrongly typed known keys are both reported; any finding is fatal to the
// run, so all findings are joined into one error.
func Validate(m map[string]any) error {
	var problems []string

	for key, v := range m {
		want, known := schema[key]
		if !known {
			problems = append(problems, fmt.Sprintf("unknown option %q", key))
			continue
		}
		if err := checkKind(key, v, want); err != nil {
			problems = append(problems, err.Error())
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid project options: %s", strings.Join(problems, "; "))
	}
	return nil
}

func checkKind(key string, v any, want kind) error {
	switch want {
	case kindString:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("option %q must be a string", key)
		}
	case kindBool:
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("option %q must be a boolean", key)
		}
	case kindObject:
		if _, ok := v.(map[string]any); !ok {
			return fmt.Errorf("option %q must be an object", key)
		}
	case kindStringArray:
		arr, ok := v.([]any)
		if !ok {
			return fmt.Errorf("option %q must be an array of strings", key)
		}
		for i, e := range arr {
			if _, ok := e.(string); !ok {
				return fmt.Errorf("option %q element %d must be a string", key, i)
			}
		}
	}
	return nil
}
