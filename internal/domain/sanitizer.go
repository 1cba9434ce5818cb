package domain

import (
	"html"
	"strings"

	xhtml "golang.org/x/net/html"
)

// Sanitizer neutralizes markup in free text before it is returned to clients.
//
// Tags on the allow-list are re-emitted with only their allowed attributes;
// every other tag (script, iframe, style, ...) is entity-escaped so it renders
// as inert text. Comments are dropped. Output is stable: sanitizing an already
// sanitized string returns it unchanged.
type Sanitizer struct {
	allowed map[string]map[string]bool
}

// defaultAllowList maps tag -> allowed attributes.
var defaultAllowList = map[string][]string{
	"a":          {"href", "title", "target"},
	"abbr":       {"title"},
	"b":          nil,
	"blockquote": {"cite"},
	"br":         nil,
	"code":       nil,
	"del":        {"datetime"},
	"div":        nil,
	"em":         nil,
	"h1":         nil,
	"h2":         nil,
	"h3":         nil,
	"h4":         nil,
	"h5":         nil,
	"h6":         nil,
	"hr":         nil,
	"i":          nil,
	"img":        {"src", "alt", "title", "width", "height"},
	"ins":        {"datetime"},
	"li":         nil,
	"mark":       nil,
	"ol":         nil,
	"p":          nil,
	"pre":        nil,
	"s":          nil,
	"small":      nil,
	"span":       nil,
	"strong":     nil,
	"sub":        nil,
	"sup":        nil,
	"u":          nil,
	"ul":         nil,
}

// urlAttrs hold URLs and are checked against unsafe schemes.
var urlAttrs = map[string]bool{"href": true, "src": true, "cite": true}

var unsafeSchemes = []string{"javascript:", "vbscript:", "data:"}

// NewSanitizer returns a sanitizer using the default allow-list.
func NewSanitizer() *Sanitizer {
	allowed := make(map[string]map[string]bool, len(defaultAllowList))
	for tag, attrs := range defaultAllowList {
		set := make(map[string]bool, len(attrs))
		for _, a := range attrs {
			set[a] = true
		}
		allowed[tag] = set
	}
	return &Sanitizer{allowed: allowed}
}

// Bookmark returns b with title and description sanitized. Other fields are
// returned untouched.
func (s *Sanitizer) Bookmark(b Bookmark) Bookmark {
	b.Title = s.Sanitize(b.Title)
	b.Description = s.Sanitize(b.Description)
	return b
}

// Candidate returns c with title and description sanitized, so validation
// sees the text that will actually be stored.
func (s *Sanitizer) Candidate(c Candidate) Candidate {
	c.Title = s.Sanitize(c.Title)
	c.Description = s.Sanitize(c.Description)
	return c
}

// Bookmarks sanitizes every element, preserving order.
func (s *Sanitizer) Bookmarks(in []Bookmark) []Bookmark {
	out := make([]Bookmark, 0, len(in))
	for _, b := range in {
		out = append(out, s.Bookmark(b))
	}
	return out
}

// Sanitize rewrites text. See Sanitizer for the rules.
func (s *Sanitizer) Sanitize(text string) string {
	if !strings.ContainsAny(text, "<>") {
		return text
	}

	var out strings.Builder
	out.Grow(len(text))

	z := xhtml.NewTokenizer(strings.NewReader(text))
	consumed := 0
	for {
		tt := z.Next()
		if tt == xhtml.ErrorToken {
			// A trailing partial tag is never emitted as a token; keep it as text.
			if consumed < len(text) {
				out.WriteString(escapeBrackets(text[consumed:]))
			}
			return out.String()
		}
		consumed += len(z.Raw())

		switch tt {
		case xhtml.TextToken:
			out.WriteString(escapeBrackets(string(z.Raw())))

		case xhtml.StartTagToken, xhtml.SelfClosingTagToken:
			// Raw must be copied before TagName, which lowercases in place.
			raw := string(z.Raw())
			name, hasAttr := z.TagName()
			attrs, ok := s.allowed[string(name)]
			if !ok {
				out.WriteString(escapeBrackets(raw))
				continue
			}
			out.WriteByte('<')
			out.Write(name)
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if !attrs[string(key)] || !safeAttrValue(string(key), string(val)) {
					continue
				}
				out.WriteByte(' ')
				out.Write(key)
				out.WriteString(`="`)
				out.WriteString(html.EscapeString(string(val)))
				out.WriteByte('"')
			}
			if tt == xhtml.SelfClosingTagToken {
				out.WriteString(" /")
			}
			out.WriteByte('>')

		case xhtml.EndTagToken:
			raw := string(z.Raw())
			name, _ := z.TagName()
			if _, ok := s.allowed[string(name)]; !ok {
				out.WriteString(escapeBrackets(raw))
				continue
			}
			out.WriteString("</")
			out.Write(name)
			out.WriteByte('>')

		case xhtml.CommentToken:
			// dropped

		case xhtml.DoctypeToken:
			out.WriteString(escapeBrackets(string(z.Raw())))
		}
	}
}

var bracketEscaper = strings.NewReplacer("<", "&lt;", ">", "&gt;")

// escapeBrackets only touches angle brackets so existing entities and quotes
// in text survive unchanged.
func escapeBrackets(s string) string {
	return bracketEscaper.Replace(s)
}

func safeAttrValue(key, val string) bool {
	if !urlAttrs[key] {
		return true
	}
	v := strings.ToLower(strings.Join(strings.Fields(val), ""))
	for _, scheme := range unsafeSchemes {
		if strings.HasPrefix(v, scheme) {
			return false
		}
	}
	return true
}
