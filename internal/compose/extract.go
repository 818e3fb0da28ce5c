package compose

import (
	"fmt"
	"regexp"
)

// Shell parameter expansion forms understood by ExtractDefault. The first
// pattern captures ${VAR:-default} and ${VAR-default}, the second matches a
// bare ${VAR} reference with no default segment. Both are anchored to the
// start of the value.
var (
	placeholderWithDefault = regexp.MustCompile(`^\$\{[^:}]+(:-?|-)([^}]*)\}`)
	placeholderBare        = regexp.MustCompile(`^\$\{[^}]+\}`)
)

// ExtractDefault normalizes a raw compose setting value into a concrete
// default string:
//
//	${PORT:-8000}  ->  "8000"
//	${VAR}         ->  ""
//	plain_value    ->  "plain_value"
//
// Values that do not use placeholder syntax are returned unchanged, and
// malformed placeholders fall through to that branch. The function never
// fails; absent values yield the empty string.
func ExtractDefault(raw any) string {
	if raw == nil {
		return ""
	}
	value := stringify(raw)
	if value == "" {
		return ""
	}

	if m := placeholderWithDefault.FindStringSubmatch(value); m != nil {
		return m[2]
	}
	if placeholderBare.MatchString(value) {
		return ""
	}

	return value
}

// stringify renders scalar YAML values (strings, numbers, booleans) as the
// string a template attribute can hold.
func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
