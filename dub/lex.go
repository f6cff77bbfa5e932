package dub

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

type tokenType int

const (
	typeInt tokenType = iota
	typeFloat
	typeIdentifier
	typeString
	typeSemicolon
	typeEOF
)

type token struct {
	typ  tokenType
	pos  int
	text string
}

const eof = -1

// lex splits a command line into tokens. The last token is always typeEOF.
func lex(input string) ([]token, error) {
	l := &lexer{input: input}
	for {
		r := l.peek()
		var err error
		switch {
		case r == eof:
			l.emit(typeEOF)
			return l.tokens, nil
		case isSpace(r):
			l.skipSpace()
		case r == ';':
			l.next()
			l.emit(typeSemicolon)
		case r == '"':
			err = l.lexString()
		case unicode.IsLetter(r):
			err = l.lexIdentifier()
		case isDigit(r) || r == '-' || r == '.':
			err = l.lexNumber()
		default:
			err = unexpectedChar(r, l.pos)
		}
		if err != nil {
			return l.tokens, err
		}
	}
}

type lexer struct {
	input  string
	start  int
	pos    int
	tokens []token
}

func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += w
	return r
}

func (l *lexer) peek() rune {
	if l.pos >= len(l.input) {
		return eof
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.pos:])
	return r
}

func (l *lexer) emit(t tokenType) {
	l.tokens = append(l.tokens, token{t, l.pos, l.input[l.start:l.pos]})
	l.start = l.pos
}

func (l *lexer) skipSpace() {
	for isSpace(l.peek()) {
		l.next()
	}
	l.start = l.pos
}

// skipWhile consumes runes matching ok and returns how many it consumed.
func (l *lexer) skipWhile(ok func(rune) bool) int {
	n := 0
	for r := l.peek(); r != eof && ok(r); r = l.peek() {
		l.next()
		n++
	}
	return n
}

// endOfToken fails unless the lexer stands at a space, a ';' or the end of
// the input.
func (l *lexer) endOfToken() error {
	if r := l.peek(); r != eof && !isSpace(r) && r != ';' {
		return unexpectedChar(r, l.pos)
	}
	return nil
}

// lexIdentifier accepts scene and property names such as open-sky, fade.stop
// and layer_2.
func (l *lexer) lexIdentifier() error {
	l.skipWhile(func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || r == '.'
	})
	if err := l.endOfToken(); err != nil {
		return err
	}
	l.emit(typeIdentifier)
	return nil
}

func (l *lexer) lexString() error {
	l.next()
	for {
		switch l.next() {
		case '"':
			l.emit(typeString)
			return nil
		case eof:
			return fmt.Errorf("unterminated string at position %d", l.start)
		}
	}
}

// lexNumber reads an optionally signed integer or decimal. At least one digit
// is required, either before or after the point.
func (l *lexer) lexNumber() error {
	if l.peek() == '-' {
		l.next()
	}
	digits := l.skipWhile(isDigit)
	typ := typeInt
	if l.peek() == '.' {
		l.next()
		typ = typeFloat
		digits += l.skipWhile(isDigit)
	}
	if digits == 0 {
		return fmt.Errorf("malformed number %q at position %d", l.input[l.start:l.pos], l.start)
	}
	if err := l.endOfToken(); err != nil {
		return err
	}
	l.emit(typ)
	return nil
}

func unexpectedChar(r rune, pos int) error {
	return fmt.Errorf("unexpected character %#U at position %d", r, pos)
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
