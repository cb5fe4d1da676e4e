package expander

import (
	"regexp"

	"github.com/viant/cpulaunch/model"
)

// placeholder matches, in order of precedence, the "$$" escape, a braced
// "${name}" reference and a bare "$name" reference.
var placeholder = regexp.MustCompile(`\$(?:(\$)|\{([_a-zA-Z][_a-zA-Z0-9]*)\}|([_a-zA-Z][_a-zA-Z0-9]*))`)

// Expand expands variable references in value using vars.
// It supports both $var and ${var} syntax; "$$" yields a literal "$".
// References without an entry in vars, and anything that does not form a
// valid reference ("${1}", "$@", "${x"), are kept intact.
func Expand(value string, vars model.Vars) string {
	if value == "" {
		return value
	}
	return placeholder.ReplaceAllStringFunc(value, func(match string) string {
		if match == "$$" {
			return "$"
		}
		name := match[1:]
		if name[0] == '{' {
			name = name[1 : len(name)-1]
		}
		if replacement, ok := vars[name]; ok {
			return replacement
		}
		return match
	})
}

// ExpandAll expands every value, returning a new slice.
func ExpandAll(values []string, vars model.Vars) []string {
	if values == nil {
		return nil
	}
	result := make([]string, len(values))
	for i, value := range values {
		result[i] = Expand(value, vars)
	}
	return result
}
