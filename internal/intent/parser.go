package intent

import (
	"strings"

	"github.com/Darkweeb21/Friday/pkg/types"
)

// Parse matches one intent string against the fixed vocabulary and returns
// the parsed command or fragment. Matching is a case-insensitive prefix
// match, longest verb first, first match wins; the verb must be followed by
// the end of the string or whitespace, so "opening hours" is not an "open"
// command. Anything that does not match yields ok=false, never a partial
// command.
//
// Parse is a pure function: no side effects, no I/O, and parsing the same
// string twice yields structurally equal results.
func Parse(raw string) (types.Intent, bool) {
	s := strings.TrimSpace(raw)
	lower := strings.ToLower(s)

	for _, verb := range types.Vocabulary {
		v := string(verb)
		if !strings.HasPrefix(lower, v) {
			continue
		}
		rest := s[len(v):]
		if rest != "" && !strings.HasPrefix(rest, " ") {
			continue
		}
		arg := strings.TrimSpace(rest)

		// "open" with no argument or the literal word "file" is a
		// preserved no-op of the source system, not an error.
		if verb == types.VerbOpen && (arg == "" || strings.EqualFold(arg, "file")) {
			return types.Intent{}, false
		}

		return types.Intent{Verb: verb, Arg: arg}, true
	}

	return types.Intent{}, false
}

// MatchesVocabulary reports whether the fragment starts with an accepted
// verb. The classifier uses this to drop hallucinated fragments before any
// further handling.
func MatchesVocabulary(fragment string) bool {
	lower := strings.ToLower(strings.TrimSpace(fragment))
	for _, verb := range types.Vocabulary {
		v := string(verb)
		if lower == v || strings.HasPrefix(lower, v+" ") {
			return true
		}
	}
	return false
}
