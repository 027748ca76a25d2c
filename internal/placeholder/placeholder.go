// Package placeholder extracts variable references and formatting tags
// from dialogue strings so original and translated text can be compared
// as sets.
package placeholder

import (
	"regexp"
	"sort"
)

// patterns to detect substitution constructs in script strings.
var (
	// varPattern matches [name]-style variable interpolations.
	varPattern = regexp.MustCompile(`\[([^\[\]]+)\]`)
	// tagPattern matches {name}-style text tags, including closers and
	// argument forms like {size=24} or {/b}.
	tagPattern = regexp.MustCompile(`\{([^{}]+)\}`)
)

// Variables returns the set of [name] references in text.
func Variables(text string) map[string]struct{} {
	return extract(varPattern, text)
}

// Tags returns the set of {name} formatting tags in text.
func Tags(text string) map[string]struct{} {
	return extract(tagPattern, text)
}

func extract(p *regexp.Regexp, text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, m := range p.FindAllStringSubmatch(text, -1) {
		set[m[1]] = struct{}{}
	}
	return set
}

// Missing returns the members of want absent from have, sorted for
// deterministic reporting.
func Missing(want, have map[string]struct{}) []string {
	var out []string
	for k := range want {
		if _, ok := have[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
