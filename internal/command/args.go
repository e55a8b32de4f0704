package command

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

var argPattern = regexp.MustCompile(`(\w+)=("([^"]+)"|(\S+))`)

// Args are the key=value pairs of a command line. A later key replaces an earlier one.
type Args map[string]string

// ParseArgs extracts key=value and key="quoted value" pairs from s.
// Quoted values are taken verbatim up to the next double quote. Text that
// does not form a pair is ignored.
func ParseArgs(s string) Args {
	args := Args{}
	for _, m := range argPattern.FindAllStringSubmatch(s, -1) {
		if m[3] != "" {
			args[m[1]] = m[3]
		} else {
			args[m[1]] = m[4]
		}
	}
	return args
}

// Query re-joins the pairs as space-separated key=value terms, sorted by key.
func (a Args) Query() string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	terms := make([]string, 0, len(keys))
	for _, k := range keys {
		terms = append(terms, k+"="+a[k])
	}
	return strings.Join(terms, " ")
}

// splitLine separates the command name from the rest of the line at the
// first run of whitespace.
func splitLine(line string) (name, rest string) {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return line, ""
	}
	return line[:i], strings.TrimLeftFunc(line[i:], unicode.IsSpace)
}
