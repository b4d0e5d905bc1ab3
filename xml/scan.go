package xml

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

const bom = "\uFEFF"

const (
	EOF rune = -(1 + iota)
	Name
	AttrName // name=
	Literal  // character data between markup
	Value    // quoted attribute value
	Cdata
	CommentTag   // <!--
	DocTypeTag   // <!DOCTYPE
	OpenTag      // <
	EndElemTag   // >
	CloseTag     // </
	EmptyElemTag // />
	ProcInstTag  // <? ... ?>
	Invalid
)

type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type Token struct {
	Literal string
	Type    rune
	Position
}

func (t Token) String() string {
	switch t.Type {
	case EOF:
		return "<eof>"
	case CommentTag:
		return fmt.Sprintf("comment(%s)", t.Literal)
	case DocTypeTag:
		return fmt.Sprintf("doctype(%s)", t.Literal)
	case Name:
		return fmt.Sprintf("name(%s)", t.Literal)
	case AttrName:
		return fmt.Sprintf("attr(%s)", t.Literal)
	case Cdata:
		return fmt.Sprintf("chardata(%s)", t.Literal)
	case Literal:
		return fmt.Sprintf("literal(%s)", t.Literal)
	case Value:
		return fmt.Sprintf("value(%s)", t.Literal)
	case OpenTag:
		return "<open-elem-tag>"
	case EndElemTag:
		return "<end-elem-tag>"
	case CloseTag:
		return "<close-elem-tag>"
	case EmptyElemTag:
		return "<empty-elem-tag>"
	case ProcInstTag:
		return fmt.Sprintf("pi(%s)", t.Literal)
	case Invalid:
		return fmt.Sprintf("<invalid(%s)>", t.Literal)
	default:
		return "<unknown>"
	}
}

const (
	langle     = '<'
	rangle     = '>'
	lsquare    = '['
	rsquare    = ']'
	colon      = ':'
	quote      = '"'
	apos       = '\''
	slash      = '/'
	equal      = '='
	ampersand  = '&'
	semicolon  = ';'
	dash       = '-'
	underscore = '_'
	dot        = '.'
	hash       = '#'
)

type state int8

const (
	contentState state = iota
	tagState
)

// Scanner splits an in-memory document into tokens. Names, values and
// character data are slices of the input: no decoding happens here, so
// invalid UTF-8 is kept as is for the decode step.
type Scanner struct {
	input string
	pos   int

	Position
	state
}

func Scan(doc string) *Scanner {
	scan := &Scanner{
		input: strings.TrimPrefix(doc, bom),
	}
	scan.Line = 1
	scan.Column = 1
	return scan
}

func (s *Scanner) Scan() Token {
	if s.state == tagState {
		s.skipBlank()
	}
	var tok Token
	tok.Position = s.Position
	if s.done() {
		tok.Type = EOF
		return tok
	}
	if s.state == tagState {
		s.scanTag(&tok)
		return tok
	}
	if s.char() == langle {
		s.scanOpeningTag(&tok)
	} else {
		s.scanLiteral(&tok)
	}
	return tok
}

func (s *Scanner) scanOpeningTag(tok *Token) {
	switch {
	case s.accept("<!--"):
		s.scanComment(tok)
	case s.accept("<![CDATA["):
		s.scanCharData(tok)
	case s.accept("<!DOCTYPE"):
		s.scanDocType(tok)
	case s.accept("<?"):
		s.scanInstruction(tok)
	case s.accept("</"):
		tok.Type = CloseTag
		s.state = tagState
	case s.accept("<!"):
		tok.Type = Invalid
		tok.Literal = "unsupported markup declaration"
	default:
		s.read()
		tok.Type = OpenTag
		s.state = tagState
	}
}

func (s *Scanner) scanTag(tok *Token) {
	switch c := s.char(); {
	case c == rangle:
		s.read()
		tok.Type = EndElemTag
		s.state = contentState
	case c == slash:
		s.read()
		if s.done() || s.char() != rangle {
			tok.Type = Invalid
			tok.Literal = "'>' expected after '/'"
			return
		}
		s.read()
		tok.Type = EmptyElemTag
		s.state = contentState
	case c == quote || c == apos:
		s.scanValue(tok)
	case isNameStart(c):
		s.scanName(tok)
	default:
		s.read()
		tok.Type = Invalid
		tok.Literal = fmt.Sprintf("unexpected character %q", c)
	}
}

func (s *Scanner) scanComment(tok *Token) {
	str, ok := s.until("-->")
	tok.Type = CommentTag
	tok.Literal = str
	if !ok {
		tok.Type = Invalid
		tok.Literal = "comment not terminated"
	}
}

func (s *Scanner) scanCharData(tok *Token) {
	str, ok := s.until("]]>")
	tok.Type = Cdata
	tok.Literal = str
	if !ok {
		tok.Type = Invalid
		tok.Literal = "character data section not terminated"
	}
}

func (s *Scanner) scanInstruction(tok *Token) {
	str, ok := s.until("?>")
	tok.Type = ProcInstTag
	tok.Literal = str
	if !ok {
		tok.Type = Invalid
		tok.Literal = "processing instruction not terminated"
	}
}

func (s *Scanner) scanDocType(tok *Token) {
	var (
		offset = s.pos
		depth  int
		delim  byte
	)
	for ; !s.done(); s.read() {
		c := s.char()
		if delim != 0 {
			if c == delim {
				delim = 0
			}
			continue
		}
		switch c {
		case quote, apos:
			delim = c
		case lsquare:
			depth++
		case rsquare:
			depth--
		case rangle:
			if depth > 0 {
				continue
			}
			tok.Type = DocTypeTag
			tok.Literal = strings.TrimSpace(s.input[offset:s.pos])
			s.read()
			return
		}
	}
	tok.Type = Invalid
	tok.Literal = "document type declaration not terminated"
}

func (s *Scanner) scanValue(tok *Token) {
	delim := s.char()
	s.read()
	ix := strings.IndexByte(s.input[s.pos:], delim)
	if ix < 0 {
		s.skip(len(s.input) - s.pos)
		tok.Type = Invalid
		tok.Literal = "attribute value not terminated"
		return
	}
	tok.Type = Value
	tok.Literal = s.input[s.pos : s.pos+ix]
	s.skip(ix + 1)
}

func (s *Scanner) scanLiteral(tok *Token) {
	offset := s.pos
	for !s.done() && s.char() != langle {
		s.read()
	}
	tok.Type = Literal
	tok.Literal = s.input[offset:s.pos]
}

func (s *Scanner) scanName(tok *Token) {
	offset := s.pos
	for !s.done() && isNameChar(s.char()) {
		s.read()
	}
	tok.Type = Name
	tok.Literal = s.input[offset:s.pos]

	s.skipBlank()
	if !s.done() && s.char() == equal {
		tok.Type = AttrName
		s.read()
	}
}

// until consumes the input up to and including delim and returns what was
// found before it. When delim is missing the rest of the input is consumed.
func (s *Scanner) until(delim string) (string, bool) {
	ix := strings.Index(s.input[s.pos:], delim)
	if ix < 0 {
		str := s.input[s.pos:]
		s.skip(len(str))
		return str, false
	}
	str := s.input[s.pos : s.pos+ix]
	s.skip(ix + len(delim))
	return str, true
}

func (s *Scanner) accept(prefix string) bool {
	if !strings.HasPrefix(s.input[s.pos:], prefix) {
		return false
	}
	s.skip(len(prefix))
	return true
}

func (s *Scanner) skip(n int) {
	for i := 0; i < n; i++ {
		s.read()
	}
}

func (s *Scanner) read() {
	if s.done() {
		return
	}
	c := s.input[s.pos]
	s.pos++
	if c == '\n' {
		s.Line++
		s.Column = 1
	} else if utf8.RuneStart(c) {
		s.Column++
	}
}

func (s *Scanner) char() byte {
	if s.done() {
		return 0
	}
	return s.input[s.pos]
}

func (s *Scanner) done() bool {
	return s.pos >= len(s.input)
}

func (s *Scanner) skipBlank() {
	for !s.done() && isBlank(s.char()) {
		s.read()
	}
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// bytes above ASCII are accepted in names and left for the decoder to
// validate.
func isNameStart(c byte) bool {
	return isLetter(c) || c == underscore || c == colon || c >= utf8.RuneSelf
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c) || c == dash || c == dot
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
