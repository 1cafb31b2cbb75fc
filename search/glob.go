package search

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/crmarques/srvinv/faults"
)

// Glob is a compiled shell-style wildcard pattern. It supports *, ?, [seq]
// and [!seq], matches case-sensitively and always anchors to the whole
// string. Unlike path.Match, * and ? also match '/'.
type Glob struct {
	pattern string
	re      *regexp.Regexp
}

func CompileGlob(pattern string) (*Glob, error) {
	re, err := regexp.Compile(translate(pattern))
	if err != nil {
		return nil, faults.NewTypedError(faults.ValidationError, fmt.Sprintf("invalid search pattern %q", pattern), err)
	}
	return &Glob{pattern: pattern, re: re}, nil
}

func (g *Glob) Match(value string) bool {
	return g.re.MatchString(value)
}

func (g *Glob) String() string {
	return g.pattern
}

// translate renders pattern as an anchored regular expression. An unclosed
// '[' is taken literally.
func translate(pattern string) string {
	var out strings.Builder
	out.WriteString(`(?s)^`)

	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '*':
			out.WriteString(`.*`)
		case '?':
			out.WriteString(`.`)
		case '[':
			end := i + 1
			if end < len(runes) && runes[end] == '!' {
				end++
			}
			if end < len(runes) && runes[end] == ']' {
				end++
			}
			for end < len(runes) && runes[end] != ']' {
				end++
			}
			if end >= len(runes) {
				out.WriteString(`\[`)
				continue
			}
			out.WriteString(translateClass(runes[i+1 : end]))
			i = end
		default:
			out.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	out.WriteString(`$`)
	return out.String()
}

func translateClass(class []rune) string {
	var out strings.Builder
	out.WriteByte('[')
	if len(class) > 0 && class[0] == '!' {
		out.WriteByte('^')
		class = class[1:]
	}
	for idx, r := range class {
		switch {
		case r == '\\' || r == '[' || r == ']':
			out.WriteByte('\\')
			out.WriteRune(r)
		case r == '^' && idx == 0:
			out.WriteString(`\^`)
		default:
			out.WriteRune(r)
		}
	}
	out.WriteByte(']')
	return out.String()
}
