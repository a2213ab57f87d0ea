// Package hyperlink implements OSC 8 hyperlink parsing and the implicit
// link-matching rules applied to plain terminal text.
package hyperlink

import (
	"regexp"
	"strings"
)

// Link is an immutable hyperlink target opened by an OSC 8 sequence.
// Cells hold a pointer to a Link rather than a copy, so a link spanning
// many cells is stored once.
type Link struct {
	uri    string
	params map[string]string
}

// New creates a link for the given URI and parameter map. It returns nil
// for an empty URI, which is how OSC 8 terminates the current link.
func New(uri string, params map[string]string) *Link {
	if uri == "" {
		return nil
	}
	return &Link{uri: uri, params: params}
}

// URI returns the link target.
func (l *Link) URI() string {
	if l == nil {
		return ""
	}
	return l.uri
}

// Param returns the value of a single OSC 8 parameter.
func (l *Link) Param(key string) (string, bool) {
	if l == nil {
		return "", false
	}
	v, ok := l.params[key]
	return v, ok
}

// ID returns the explicit "id" parameter, if any. Links carrying the same
// non-empty id are treated as one logical hyperlink even when the
// underlying text runs are not contiguous.
func (l *Link) ID() string {
	if l == nil {
		return ""
	}
	return l.params["id"]
}

// Matches reports whether two links should highlight together. Links with
// the same non-empty id match regardless of URI; otherwise they match only
// when they are the same object.
func (l *Link) Matches(other *Link) bool {
	if l == nil || other == nil {
		return false
	}
	if l == other {
		return true
	}
	lid, oid := l.ID(), other.ID()
	return lid != "" && lid == oid
}

// ParseParams parses the parameter portion of an OSC 8 sequence, the
// "key1=value1:key2=value2" string between "8;" and the final ";".
//
// Pairs are separated by ':' and split on the first '='; a value may itself
// contain '='. A pair with no '=' at all terminates parsing and whatever
// was collected so far is returned, so malformed trailing data degrades to
// a partial map rather than discarding the whole thing. Keys are not
// validated against any fixed set.
func ParseParams(s string) map[string]string {
	params := make(map[string]string)
	if s == "" {
		return params
	}
	for pair := range strings.SplitSeq(s, ":") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			break
		}
		params[key] = value
	}
	return params
}

// Rule matches plain text against a pattern and rewrites the match into a
// link target. Rules come from user configuration; the default set matches
// bare URLs.
type Rule struct {
	pattern *regexp.Regexp
	format  string
}

// CompileRule compiles a rule from a regular expression and a format
// string. In the format, "$0" expands to the whole match and "$1".."$9" to
// capture groups.
func CompileRule(pattern, format string) (Rule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Rule{}, err
	}
	return Rule{pattern: re, format: format}, nil
}

// DefaultRules returns the built-in implicit link rules.
func DefaultRules() []Rule {
	r, _ := CompileRule(`\b\w+://[^\s{}<>"]+[/a-zA-Z0-9-]`, "$0")
	return []Rule{r}
}

// Match is one implicit link found in a line of text.
type Match struct {
	Start int // byte offset of the match
	End   int // byte offset one past the match
	Link  *Link
}

// MatchLine runs every rule over a line of text and returns the spans that
// should become implicit hyperlinks, in left-to-right order of the first
// rule that matched them.
func MatchLine(rules []Rule, text string) []Match {
	var out []Match
	for _, r := range rules {
		if r.pattern == nil {
			continue
		}
		for _, loc := range r.pattern.FindAllStringSubmatchIndex(text, -1) {
			target := string(r.pattern.ExpandString(nil, r.format, text, loc))
			if target == "" {
				continue
			}
			out = append(out, Match{
				Start: loc[0],
				End:   loc[1],
				Link:  New(target, map[string]string{"implicit": "1"}),
			})
		}
	}
	return out
}
