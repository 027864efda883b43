package token

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Error is a lexical error with the position of the offending byte.
type Error struct {
	Pos Position
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Msg)
}

// Scanner turns LP source text into a stream of tokens. The zero value is
// not usable; call NewScanner.
type Scanner struct {
	src  string
	pos  int
	line int
}

func NewScanner(src string) *Scanner {
	return &Scanner{src: src, line: 1}
}

// ScanAll runs the scanner to completion. The returned slice ends with an
// EOF token.
func ScanAll(src string) ([]Token, error) {
	s := NewScanner(src)
	var toks []Token
	for {
		tok, err := s.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks, nil
		}
	}
}

func (s *Scanner) position() Position {
	return Position{Offset: s.pos, Line: s.line}
}

func (s *Scanner) peekByte() (byte, bool) {
	if s.pos >= len(s.src) {
		return 0, false
	}
	return s.src[s.pos], true
}

func (s *Scanner) skipHorizontal() {
	for s.pos < len(s.src) {
		switch s.src[s.pos] {
		case ' ', '\t', '\r':
			s.pos++
		default:
			return
		}
	}
}

// Next returns the next token. After EOF it keeps returning EOF.
func (s *Scanner) Next() (Token, error) {
	s.skipHorizontal()
	pos := s.position()

	c, ok := s.peekByte()
	if !ok {
		return Token{Kind: EOF, Pos: pos}, nil
	}

	switch {
	case c == '\n':
		s.pos++
		s.line++
		return Token{Kind: Newline, Pos: pos}, nil
	case c == '\\':
		return s.scanComment(pos)
	case c == '<':
		s.pos++
		if b, ok := s.peekByte(); ok && b == '=' {
			s.pos++
			return Token{Kind: LessEq, Pos: pos}, nil
		}
		return Token{Kind: Less, Pos: pos}, nil
	case c == '>':
		s.pos++
		if b, ok := s.peekByte(); ok && b == '=' {
			s.pos++
			return Token{Kind: GreaterEq, Pos: pos}, nil
		}
		return Token{Kind: Greater, Pos: pos}, nil
	case c == '=':
		s.pos++
		return Token{Kind: Equal, Pos: pos}, nil
	case c == '+':
		s.pos++
		return Token{Kind: Plus, Pos: pos}, nil
	case c == '-':
		s.pos++
		return Token{Kind: Minus, Pos: pos}, nil
	case c == ':':
		s.pos++
		if b, ok := s.peekByte(); ok && b == ':' {
			s.pos++
			return Token{Kind: DoubleColon, Pos: pos}, nil
		}
		return Token{Kind: Colon, Pos: pos}, nil
	case isDigit(c) || (c == '.' && s.pos+1 < len(s.src) && isDigit(s.src[s.pos+1])):
		return s.scanNumber(pos)
	}

	word := s.scanWord()
	if word == "" {
		s.pos++
		return Token{}, &Error{Pos: pos, Msg: fmt.Sprintf("unexpected character %q", rune(c))}
	}
	return s.classifyWord(word, pos), nil
}

func (s *Scanner) scanComment(pos Position) (Token, error) {
	s.pos++ // consume '\'
	var body string
	if b, ok := s.peekByte(); ok && b == '*' {
		s.pos++
		end := strings.Index(s.src[s.pos:], "*\\")
		if end < 0 {
			return Token{}, &Error{Pos: pos, Msg: "unterminated block comment"}
		}
		body = s.src[s.pos : s.pos+end]
		s.line += strings.Count(body, "\n")
		s.pos += end + 2
	} else {
		end := strings.IndexByte(s.src[s.pos:], '\n')
		if end < 0 {
			end = len(s.src) - s.pos
		}
		body = s.src[s.pos : s.pos+end]
		s.pos += end
	}

	trimmed := strings.TrimSpace(body)
	const marker = "problem name:"
	if len(trimmed) >= len(marker) && strings.EqualFold(trimmed[:len(marker)], marker) {
		name := strings.TrimSpace(trimmed[len(marker):])
		return Token{Kind: ProblemName, Lit: name, Pos: pos}, nil
	}
	return Token{Kind: Comment, Lit: trimmed, Pos: pos}, nil
}

func (s *Scanner) scanNumber(pos Position) (Token, error) {
	start := s.pos
	for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
		s.pos++
	}
	if b, ok := s.peekByte(); ok && b == '.' {
		s.pos++
		for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
			s.pos++
		}
	}
	// Exponent, only when digits actually follow.
	if b, ok := s.peekByte(); ok && (b == 'e' || b == 'E') {
		rest := s.src[s.pos+1:]
		n := 0
		if len(rest) > 0 && (rest[0] == '+' || rest[0] == '-') {
			n = 1
		}
		if len(rest) > n && isDigit(rest[n]) {
			s.pos += 1 + n
			for s.pos < len(s.src) && isDigit(s.src[s.pos]) {
				s.pos++
			}
		}
	}

	lit := s.src[start:s.pos]
	v, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return Token{}, &Error{Pos: pos, Msg: fmt.Sprintf("malformed number %q", lit)}
	}
	return Token{Kind: Number, Lit: lit, Num: v, Pos: pos}, nil
}

// scanWord consumes a maximal run of identifier characters.
func (s *Scanner) scanWord() string {
	start := s.pos
	for s.pos < len(s.src) {
		c := s.src[s.pos]
		if c < 0x80 {
			if !isIdentByte(c) {
				break
			}
			s.pos++
			continue
		}
		r, size := utf8.DecodeRuneInString(s.src[s.pos:])
		if !isIdentRune(r) {
			break
		}
		s.pos += size
	}
	return s.src[start:s.pos]
}

func (s *Scanner) classifyWord(word string, pos Position) Token {
	low := lower(word)

	switch low {
	case "subject", "such":
		// Two-word headers: "subject to", "such that".
		save := s.pos
		s.skipHorizontal()
		next := lower(s.scanWord())
		if (low == "subject" && next == "to") || (low == "such" && next == "that") {
			return Token{Kind: SubjectTo, Pos: pos}
		}
		s.pos = save
		return Token{Kind: Identifier, Lit: word, Pos: pos}
	case "semi", "semis":
		// Long form "semi-continuous".
		const suffix = "-continuous"
		if low == "semi" && len(s.src)-s.pos >= len(suffix) && strings.EqualFold(s.src[s.pos:s.pos+len(suffix)], suffix) {
			s.pos += len(suffix)
		}
		return Token{Kind: SemiContinuous, Pos: pos}
	case "s1", "s2":
		// SOS type tags only in the "S1::" position, otherwise plain names.
		save := s.pos
		s.skipHorizontal()
		if s.pos+1 < len(s.src) && s.src[s.pos] == ':' && s.src[s.pos+1] == ':' {
			s.pos = save
			if low == "s1" {
				return Token{Kind: SOSTypeOne, Pos: pos}
			}
			return Token{Kind: SOSTypeTwo, Pos: pos}
		}
		s.pos = save
		return Token{Kind: Identifier, Lit: word, Pos: pos}
	}

	if kind, ok := keywords[low]; ok {
		return Token{Kind: kind, Pos: pos}
	}
	return Token{Kind: Identifier, Lit: word, Pos: pos}
}
