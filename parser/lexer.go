package parser

import (
	"fmt"
	"strconv"
	"strings"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokChar
	tokPunct
)

type token struct {
	kind  tokenKind
	text  string
	coord Coord
}

var punctuators = []string{
	"...", "<<=", ">>=",
	"->", "++", "--", "<<", ">>", "<=", ">=", "==", "!=", "&&", "||",
	"*=", "/=", "%=", "+=", "-=", "&=", "^=", "|=", "##",
}

type lexer struct {
	src       string
	pos       int
	file      string
	line      int
	lineStart bool
	tokens    []token
}

// tokenize splits preprocessed C source into tokens. Line markers of the
// form `# 12 "file.h"` and `#line 12 "file.h"` update the coordinate of the
// tokens that follow; every other directive is skipped.
func tokenize(src string) ([]token, error) {
	lx := lexer{src: src, line: 1, lineStart: true}

	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]

		switch {
		case c == '\n':
			lx.line++
			lx.pos++
			lx.lineStart = true
			continue

		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\v':
			lx.pos++
			continue

		case c == '\\' && lx.peek(1) == '\n':
			lx.pos += 2
			lx.line++
			continue

		case c == '#' && lx.lineStart:
			if err := lx.directive(); err != nil {
				return nil, err
			}
			continue

		case c == '/' && lx.peek(1) == '*':
			end := strings.Index(lx.src[lx.pos+2:], "*/")
			if end < 0 {
				return nil, lx.errorf("unterminated comment")
			}
			lx.line += strings.Count(lx.src[lx.pos:lx.pos+2+end], "\n")
			lx.pos += end + 4
			continue

		case c == '/' && lx.peek(1) == '/':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
			continue
		}

		lx.lineStart = false

		switch {
		case isIdentStart(c):
			start := lx.pos
			for lx.pos < len(lx.src) && isIdentChar(lx.src[lx.pos]) {
				lx.pos++
			}
			word := lx.src[start:lx.pos]
			if isEncodingPrefix(word) && lx.pos < len(lx.src) && (lx.src[lx.pos] == '"' || lx.src[lx.pos] == '\'') {
				if err := lx.quoted(start); err != nil {
					return nil, err
				}
				continue
			}
			lx.emit(tokIdent, word)

		case isDigit(c) || (c == '.' && isDigit(lx.peek(1))):
			lx.number()

		case c == '"' || c == '\'':
			if err := lx.quoted(lx.pos); err != nil {
				return nil, err
			}

		default:
			lx.punct()
		}
	}

	lx.tokens = append(lx.tokens, token{kind: tokEOF, coord: Coord{File: lx.file, Line: lx.line}})
	return lx.tokens, nil
}

func (lx *lexer) peek(n int) byte {
	if lx.pos+n < len(lx.src) {
		return lx.src[lx.pos+n]
	}
	return 0
}

func (lx *lexer) emit(kind tokenKind, text string) {
	lx.tokens = append(lx.tokens, token{kind: kind, text: text, coord: Coord{File: lx.file, Line: lx.line}})
}

func (lx *lexer) errorf(format string, args ...any) error {
	return &SyntaxError{Coord: Coord{File: lx.file, Line: lx.line}, Msg: fmt.Sprintf(format, args...)}
}

func (lx *lexer) directive() error {
	start := lx.pos
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
		if lx.src[lx.pos] == '\\' && lx.peek(1) == '\n' {
			lx.pos += 2
			lx.line++
			continue
		}
		lx.pos++
	}
	body := strings.TrimSpace(lx.src[start+1 : lx.pos])

	fields := strings.Fields(body)
	if len(fields) == 0 {
		return nil
	}
	if fields[0] == "line" {
		fields = fields[1:]
		if len(fields) == 0 {
			return lx.errorf("malformed #line directive")
		}
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil {
		// #pragma, #ident and anything else the preprocessor passed through.
		return nil
	}

	if len(fields) > 1 && strings.HasPrefix(fields[1], `"`) {
		rest := strings.TrimSpace(body[strings.Index(body, `"`):])
		name, err := strconv.Unquote(rest[:closingQuote(rest)+1])
		if err != nil {
			return lx.errorf("malformed line marker %q", body)
		}
		lx.file = name
	}

	// The marker names the line number of the next source line.
	lx.line = n - 1
	return nil
}

func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return len(s) - 1
}

func (lx *lexer) number() {
	start := lx.pos
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if (c == '+' || c == '-') && lx.pos > start {
			prev := lx.src[lx.pos-1]
			if prev == 'e' || prev == 'E' || prev == 'p' || prev == 'P' {
				lx.pos++
				continue
			}
			break
		}
		if !isIdentChar(c) && c != '.' {
			break
		}
		lx.pos++
	}
	lx.emit(tokNumber, lx.src[start:lx.pos])
}

func (lx *lexer) quoted(start int) error {
	for lx.src[lx.pos] != '"' && lx.src[lx.pos] != '\'' {
		lx.pos++
	}
	quote := lx.src[lx.pos]
	lx.pos++
	for {
		if lx.pos >= len(lx.src) || lx.src[lx.pos] == '\n' {
			return lx.errorf("unterminated literal")
		}
		c := lx.src[lx.pos]
		lx.pos++
		if c == '\\' {
			lx.pos++
			continue
		}
		if c == quote {
			break
		}
	}

	kind := tokString
	if quote == '\'' {
		kind = tokChar
	}
	lx.emit(kind, lx.src[start:lx.pos])
	return nil
}

func (lx *lexer) punct() {
	for _, p := range punctuators {
		if strings.HasPrefix(lx.src[lx.pos:], p) {
			lx.pos += len(p)
			lx.emit(tokPunct, p)
			return
		}
	}
	lx.emit(tokPunct, lx.src[lx.pos:lx.pos+1])
	lx.pos++
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isEncodingPrefix(s string) bool {
	switch s {
	case "L", "u", "U", "u8":
		return true
	}
	return false
}
