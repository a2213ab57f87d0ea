package scrollback

import (
	"regexp"
	"strings"

	"github.com/Gaurav-Gosain/vtcore/internal/hyperlink"
)

// Reference is one actionable target found in command output: a URL
// matched by the implicit link rules, or a file path with an optional
// line and column suffix.
type Reference struct {
	Raw    string
	Target string
	Line   int // extracted line number, 0 if none
	Col    int // extracted column number, 0 if none
	IsURL  bool
}

// pathPattern matches absolute and relative filesystem paths with an
// optional :line:col suffix.
var pathPattern = regexp.MustCompile(
	`(?:/[^\s"'<>:]+|\.{1,2}/[^\s"'<>:]+)(?::\d+(?::\d+)?)?`,
)

var lineColSuffix = regexp.MustCompile(`:(\d+)(?::(\d+))?$`)

// ExtractReferences finds URLs and file paths in output text. URLs come
// from the implicit link rules, so user-configured patterns apply here
// the same way they do for on-screen link matching.
func ExtractReferences(rules []hyperlink.Rule, output string) []Reference {
	seen := make(map[string]bool)
	var refs []Reference
	var urls []string

	for _, line := range strings.Split(output, "\n") {
		for _, m := range hyperlink.MatchLine(rules, line) {
			raw := line[m.Start:m.End]
			if seen[raw] {
				continue
			}
			seen[raw] = true
			urls = append(urls, raw)
			refs = append(refs, Reference{
				Raw:    raw,
				Target: m.Link.URI(),
				IsURL:  true,
			})
		}
	}

path:
	for _, raw := range pathPattern.FindAllString(output, -1) {
		if seen[raw] || strings.Contains(raw, "://") {
			continue
		}
		// Skip path-shaped fragments of already matched URLs.
		for _, u := range urls {
			if strings.Contains(u, raw) {
				continue path
			}
		}
		seen[raw] = true

		target := raw
		line, col := 0, 0
		if loc := lineColSuffix.FindStringSubmatchIndex(raw); loc != nil {
			target = raw[:loc[0]]
			line = parseInt(raw[loc[2]:loc[3]])
			if loc[4] >= 0 {
				col = parseInt(raw[loc[4]:loc[5]])
			}
		}
		refs = append(refs, Reference{
			Raw:    raw,
			Target: target,
			Line:   line,
			Col:    col,
		})
	}

	return refs
}

func parseInt(s string) int {
	n := 0
	for _, b := range s {
		if b >= '0' && b <= '9' {
			n = n*10 + int(b-'0')
		}
	}
	return n
}
