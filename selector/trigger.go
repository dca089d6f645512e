package selector

import (
	"strings"

	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

// Token codes for trigger expressions.
const (
	whitespaceCode = iota
	keywordCode
	pipeCode
)

var (
	whitespaceToken = parsly.NewToken(whitespaceCode, "Whitespace", matcher.NewWhiteSpace())
	keywordToken    = parsly.NewToken(keywordCode, "Keyword", &keywordMatcher{})
	pipeToken       = parsly.NewToken(pipeCode, "|", matcher.NewByte('|'))
)

// keywordMatcher matches a single trigger keyword: letters, digits,
// underscore or dash.
type keywordMatcher struct{}

func (m *keywordMatcher) Match(cursor *parsly.Cursor) int {
	input := cursor.Input
	pos := cursor.Pos
	size := cursor.InputSize

	matched := 0
	for i := pos; i < size; i++ {
		c := input[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_' || c == '-' {
			matched++
			continue
		}
		break
	}
	return matched
}

// ParseTriggers parses a trigger expression in the format:
// keyword | keyword | ...
// Single keywords are valid expressions. Keywords are lower-cased so that
// matching against conversation text stays case-insensitive.
func ParseTriggers(expr string) ([]string, error) {
	cursor := parsly.NewCursor("", []byte(expr), 0)
	var keywords []string
	for {
		matched := cursor.MatchAfterOptional(whitespaceToken, keywordToken)
		if matched.Code != keywordToken.Code {
			return nil, cursor.NewError(keywordToken)
		}
		keywords = append(keywords, strings.ToLower(matched.Text(cursor)))

		matched = cursor.MatchAfterOptional(whitespaceToken, pipeToken)
		if matched.Code != pipeToken.Code {
			if cursor.Pos < cursor.InputSize {
				return nil, cursor.NewError(pipeToken)
			}
			return keywords, nil
		}
	}
}
