// Package merge implements the deep-merge semantics the configuration
// pipeline is built on. The array policy is load-bearing for precedence, so
// it is spelled out here rather than delegated to a generic merge library:
//
//   - ExtendArrays: arrays of equal length merge element-wise (the source
//     element merges over the destination element at the same index); arrays
//     of differing length concatenate, source after destination. Used when
//     layering build-config fragments, where fragments extend what the chain
//     produced.
//   - ReplaceArrays: the source array wins wholesale. Used when merging
//     project-option sources (defaults, config file, constructor overrides),
//     where a later source states the complete value.
//
// Maps always merge recursively and scalars from the source always win.
package merge

// ArrayPolicy selects how slices combine during a deep merge.
type ArrayPolicy int

const (
	ReplaceArrays ArrayPolicy = iota
	ExtendArrays
)

// RuleNameKey is the bookkeeping key carrying rule names inside finalized
// build configurations. Downstream tooling reads it; it is not semantic
// configuration.
const RuleNameKey = "__ruleNames"

// Maps deep-merges src over dst under the given array policy and returns the
// result. Neither input is mutated.
func Maps(dst, src map[string]any, policy ArrayPolicy) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = Clone(v)
	}
	for k, v := range src {
		if existing, ok := out[k]; ok {
			out[k] = value(existing, v, policy)
		} else {
			out[k] = Clone(v)
		}
	}
	return out
}

func value(dst, src any, policy ArrayPolicy) any {
	dm, dok := dst.(map[string]any)
	sm, sok := src.(map[string]any)
	if dok && sok {
		return Maps(dm, sm, policy)
	}
	ds, dok := dst.([]any)
	ss, sok := src.([]any)
	if dok && sok {
		return slices(ds, ss, policy)
	}
	return Clone(src)
}

func slices(dst, src []any, policy ArrayPolicy) []any {
	if policy == ReplaceArrays {
		return Clone(src).([]any)
	}
	if len(dst) == len(src) {
		out := make([]any, len(dst))
		for i := range dst {
			out[i] = value(dst[i], src[i], policy)
		}
		return out
	}
	out := make([]any, 0, len(dst)+len(src))
	for _, v := range dst {
		out = append(out, Clone(v))
	}
	for _, v := range src {
		out = append(out, Clone(v))
	}
	return out
}

// Clone deep-copies maps and slices; other values are returned as-is.
// Function values survive the copy by reference, which is what the mutator
// pipeline needs.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Clone(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Clone(e)
		}
		return out
	default:
		return v
	}
}

// PropagateRuleNames copies RuleNameKey entries from original into mutated at
// matching positions, recursively descending maps by key and slices by index.
// Called when a raw mutator replaced the configuration object, so the naming
// metadata survives the replacement. Mutates mutated in place.
func PropagateRuleNames(original, mutated any) {
	om, ook := original.(map[string]any)
	mm, mok := mutated.(map[string]any)
	if ook && mok {
		if names, ok := om[RuleNameKey]; ok {
			if _, exists := mm[RuleNameKey]; !exists {
				mm[RuleNameKey] = Clone(names)
			}
		}
		for k, ov := range om {
			if mv, ok := mm[k]; ok {
				PropagateRuleNames(ov, mv)
			}
		}
		return
	}
	os, ook := original.([]any)
	ms, mok := mutated.([]any)
	if ook && mok {
		n := len(os)
		if len(ms) < n {
			n = len(ms)
		}
		for i := 0; i < n; i++ {
			PropagateRuleNames(os[i], ms[i])
		}
	}
}
