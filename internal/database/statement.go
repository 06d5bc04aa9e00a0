package database

import "strings"

// ValidateSingleStatement rejects SQL that contains more than one statement.
// Separators inside string literals, quoted identifiers, dollar-quoted
// bodies and comments do not count; a single trailing semicolon is
// tolerated. Unterminated quotes and comments are rejected outright rather
// than sent to the server.
func ValidateSingleStatement(sql string) error {
	if strings.TrimSpace(sql) == "" {
		return errInvalidInput("statement cannot be empty")
	}

	n := len(sql)
	seenSemi := false

	for i := 0; i < n; {
		c := sql[i]

		// Comments and whitespace may follow a trailing semicolon.
		if c == '-' && i+1 < n && sql[i+1] == '-' {
			for i < n && sql[i] != '\n' {
				i++
			}
			continue
		}
		if c == '/' && i+1 < n && sql[i+1] == '*' {
			depth := 1
			i += 2
			for i < n && depth > 0 {
				switch {
				case sql[i] == '*' && i+1 < n && sql[i+1] == '/':
					depth--
					i += 2
				case sql[i] == '/' && i+1 < n && sql[i+1] == '*':
					depth++
					i += 2
				default:
					i++
				}
			}
			if depth > 0 {
				return errInvalidInput("unterminated block comment")
			}
			continue
		}
		if isSpace(c) {
			i++
			continue
		}

		// Anything else after a terminator is a second statement.
		if seenSemi {
			return errInvalidInput("multiple statements are not allowed")
		}

		switch c {
		case '\'':
			i++
			for i < n {
				if sql[i] == '\'' {
					// '' is an escaped quote inside the literal
					if i+1 < n && sql[i+1] == '\'' {
						i += 2
						continue
					}
					break
				}
				i++
			}
			if i >= n {
				return errInvalidInput("unterminated string literal")
			}
			i++
		case '"':
			i++
			for i < n {
				if sql[i] == '"' {
					if i+1 < n && sql[i+1] == '"' {
						i += 2
						continue
					}
					break
				}
				i++
			}
			if i >= n {
				return errInvalidInput("unterminated quoted identifier")
			}
			i++
		case '$':
			// Either a dollar-quote opener ($$, $body$) or a positional
			// parameter ($1). Only the former encloses text.
			j := i + 1
			for j < n && isIdentByte(sql[j]) {
				j++
			}
			if j < n && sql[j] == '$' {
				tag := sql[i : j+1]
				end := strings.Index(sql[j+1:], tag)
				if end < 0 {
					return errInvalidInput("unterminated dollar-quoted string")
				}
				i = j + 1 + end + len(tag)
			} else {
				i++
			}
		case ';':
			seenSemi = true
			i++
		default:
			i++
		}
	}

	return nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

func isIdentByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}
