// Package sqltext rewrites @name parameter markers into the positional
// placeholder style of a target engine. SQL Server consumes @name natively;
// the postgres and mysql drivers use this package to translate query text
// written in that convention.
package sqltext

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ReplaceNamed rewrites every @name token in query with the text returned by
// repl. The scanner skips string literals, quoted identifiers, line and block
// comments and PostgreSQL dollar-quoted blocks, so markers inside them are
// left untouched. @@ prefixes (T-SQL globals) are not treated as parameters.
func ReplaceNamed(query string, repl func(name string) (string, error)) (string, error) {
	var b strings.Builder
	b.Grow(len(query) + 16)

	i := 0
	for i < len(query) {
		r, w := utf8.DecodeRuneInString(query[i:])
		switch r {
		case '\'':
			j, err := skipQuoted(query, i+w, '\'')
			if err != nil {
				return "", err
			}
			b.WriteString(query[i:j])
			i = j
			continue
		case '"':
			j, err := skipQuoted(query, i+w, '"')
			if err != nil {
				return "", err
			}
			b.WriteString(query[i:j])
			i = j
			continue
		case '`':
			j, err := skipQuoted(query, i+w, '`')
			if err != nil {
				return "", err
			}
			b.WriteString(query[i:j])
			i = j
			continue
		case '[':
			// T-SQL bracket-quoted identifier.
			j := strings.IndexByte(query[i:], ']')
			if j < 0 {
				return "", fmt.Errorf("sqltext: unterminated bracketed identifier")
			}
			b.WriteString(query[i : i+j+1])
			i += j + 1
			continue
		case '-':
			if strings.HasPrefix(query[i:], "--") {
				j := skipLineComment(query, i+2)
				b.WriteString(query[i:j])
				i = j
				continue
			}
		case '/':
			if strings.HasPrefix(query[i:], "/*") {
				j, err := skipBlockComment(query, i+2)
				if err != nil {
					return "", err
				}
				b.WriteString(query[i:j])
				i = j
				continue
			}
		case '$':
			if j, ok, err := skipDollarQuoted(query, i); err != nil {
				return "", err
			} else if ok {
				b.WriteString(query[i:j])
				i = j
				continue
			}
		case '@':
			if strings.HasPrefix(query[i:], "@@") {
				b.WriteString("@@")
				i += 2
				continue
			}
			name, end := parseIdent(query, i+1)
			if name != "" {
				rep, err := repl(name)
				if err != nil {
					return "", err
				}
				b.WriteString(rep)
				i = end
				continue
			}
		}
		b.WriteString(query[i : i+w])
		i += w
	}
	return b.String(), nil
}

// skipQuoted consumes a literal or quoted identifier opened with q, honoring
// doubled-quote escapes.
func skipQuoted(s string, i int, q byte) (int, error) {
	for i < len(s) {
		if s[i] == q {
			if i+1 < len(s) && s[i+1] == q {
				i += 2
				continue
			}
			return i + 1, nil
		}
		_, w := utf8.DecodeRuneInString(s[i:])
		i += w
	}
	return 0, fmt.Errorf("sqltext: unterminated %q-quoted section", string(q))
}

func skipLineComment(s string, i int) int {
	for i < len(s) {
		if s[i] == '\n' {
			return i + 1
		}
		i++
	}
	return i
}

func skipBlockComment(s string, i int) (int, error) {
	for i < len(s)-1 {
		if s[i] == '*' && s[i+1] == '/' {
			return i + 2, nil
		}
		i++
	}
	return 0, fmt.Errorf("sqltext: unterminated block comment")
}

// skipDollarQuoted handles $$…$$ and $tag$…$tag$ (PostgreSQL).
func skipDollarQuoted(s string, i int) (int, bool, error) {
	j := i + 1
	for j < len(s) && s[j] != '$' && isIdentRune(rune(s[j])) {
		j++
	}
	if j >= len(s) || s[j] != '$' {
		return 0, false, nil
	}
	tag := s[i : j+1]
	k := j + 1
	idx := strings.Index(s[k:], tag)
	if idx < 0 {
		return 0, true, fmt.Errorf("sqltext: unterminated dollar-quoted string")
	}
	return k + idx + len(tag), true, nil
}

func parseIdent(s string, i int) (string, int) {
	start := i
	for i < len(s) {
		r, w := utf8.DecodeRuneInString(s[i:])
		if !isIdentRune(r) {
			break
		}
		i += w
	}
	if i == start {
		return "", i
	}
	return s[start:i], i
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
