package hyperlink

import (
	"testing"
)

func TestParseParams(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  map[string]string
	}{
		{
			name:  "id and extra key",
			input: "id=1234:foo=bar",
			want:  map[string]string{"id": "1234", "foo": "bar"},
		},
		{
			name:  "value containing equals",
			input: "foo=bar=baz",
			want:  map[string]string{"foo": "bar=baz"},
		},
		{
			name:  "pair without equals yields nothing",
			input: "foo",
			want:  map[string]string{},
		},
		{
			name:  "malformed trailing pair keeps earlier pairs",
			input: "id=1:junk:foo=bar",
			want:  map[string]string{"id": "1"},
		},
		{
			name:  "empty input",
			input: "",
			want:  map[string]string{},
		},
		{
			name:  "empty value",
			input: "id=",
			want:  map[string]string{"id": ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseParams(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("ParseParams(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("ParseParams(%q)[%q] = %q, want %q", tt.input, k, got[k], v)
				}
			}
		})
	}
}

func TestLinkIDGrouping(t *testing.T) {
	a := New("https://example.com/a", map[string]string{"id": "x"})
	b := New("https://example.com/b", map[string]string{"id": "x"})
	c := New("https://example.com/c", map[string]string{})

	if !a.Matches(b) {
		t.Error("links sharing a non-empty id must match")
	}
	if a.Matches(c) {
		t.Error("links without a shared id must not match")
	}
	if !c.Matches(c) {
		t.Error("a link must match itself")
	}
}

func TestNewEmptyURI(t *testing.T) {
	if l := New("", nil); l != nil {
		t.Errorf("New with empty URI returned %v, want nil", l)
	}
	var nilLink *Link
	if got := nilLink.URI(); got != "" {
		t.Errorf("nil link URI = %q, want empty", got)
	}
}

func TestMatchLine(t *testing.T) {
	rules := DefaultRules()
	text := "see https://example.com/docs and http://other.io/x."

	matches := MatchLine(rules, text)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2: %+v", len(matches), matches)
	}
	if matches[0].Link.URI() != "https://example.com/docs" {
		t.Errorf("first match URI = %q", matches[0].Link.URI())
	}
	if got := text[matches[1].Start:matches[1].End]; got != "http://other.io/x" {
		t.Errorf("second match span = %q", got)
	}
}
