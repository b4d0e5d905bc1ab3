package xml

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"
)

const declTarget = "xml"

type ParseError struct {
	Position
	Element string
	Message string
}

func createParseError(elem, msg string, pos Position) error {
	return ParseError{
		Position: pos,
		Element:  elem,
		Message:  msg,
	}
}

func (p ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", p.Line, p.Column, p.Element, p.Message)
}

// Reader is a pull parser over an in-memory document. Each call to Read
// returns the next event in document order until io.EOF. The sequence can
// not be restarted and the first error is returned by every later call.
type Reader struct {
	scan *Scanner
	curr Token

	stack []string
	err   error

	TrimSpace bool
	KeepEmpty bool
}

func NewReader(doc string) *Reader {
	rs := Reader{
		scan: Scan(doc),
	}
	rs.next()
	return &rs
}

func (r *Reader) Read() (Event, error) {
	if r.err != nil {
		return nil, r.err
	}
	ev, err := r.read()
	if err != nil {
		r.err = err
	}
	return ev, err
}

// Events ranges over the remaining events. The sequence stops silently at
// the end of the document and after yielding the first error.
func (r *Reader) Events() iter.Seq2[Event, error] {
	fn := func(yield func(Event, error) bool) {
		for {
			ev, err := r.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(ev, err) || err != nil {
				return
			}
		}
	}
	return fn
}

// Depth reports the number of elements opened and not yet closed.
func (r *Reader) Depth() int {
	return len(r.stack)
}

func (r *Reader) read() (Event, error) {
	for {
		switch r.curr.Type {
		case EOF:
			if n := len(r.stack); n > 0 {
				return nil, r.createError("element", fmt.Sprintf("%s: element not closed", r.stack[n-1]))
			}
			return nil, io.EOF
		case ProcInstTag:
			return r.readInstruction()
		case OpenTag:
			return r.readStartElement()
		case CloseTag:
			return r.readEndElement()
		case CommentTag:
			return r.readComment(), nil
		case Cdata:
			return r.readCharData(), nil
		case DocTypeTag:
			return r.readDocType(), nil
		case Literal:
			if ev := r.readLiteral(); ev != nil {
				return ev, nil
			}
		case Invalid:
			return nil, r.createError("document", r.curr.Literal)
		default:
			return nil, r.createError("document", fmt.Sprintf("unexpected %s", r.curr))
		}
	}
}

func (r *Reader) readInstruction() (Event, error) {
	var (
		pos          = r.curr.Position
		target, data = splitInstruction(r.curr.Literal)
	)
	r.next()
	if target == "" {
		return nil, createParseError("processing instruction", "name is missing", pos)
	}
	if target != declTarget {
		pi := Instruction{
			Target: target,
			Data:   data,
		}
		return pi, nil
	}
	return readDecl(data, pos)
}

func readDecl(str string, pos Position) (Event, error) {
	var (
		decl    Decl
		version bool
		scan    = Scan(str)
	)
	scan.state = tagState
	for tok := scan.Scan(); tok.Type != EOF; tok = scan.Scan() {
		if tok.Type != AttrName {
			return nil, createParseError("declaration", "attribute name expected", pos)
		}
		val := scan.Scan()
		if val.Type != Value {
			return nil, createParseError("declaration", "value is missing", pos)
		}
		switch tok.Literal {
		case "version":
			decl.Version = val.Literal
			version = true
		case "encoding":
			decl.Encoding = val.Literal
		case "standalone":
			decl.Standalone = val.Literal
		default:
			return nil, createParseError("declaration", fmt.Sprintf("%s: unknown attribute", tok.Literal), pos)
		}
	}
	if !version {
		return nil, createParseError("declaration", "version is missing", pos)
	}
	return decl, nil
}

func (r *Reader) readStartElement() (Event, error) {
	r.next()
	if !r.is(Name) {
		return nil, r.createError("element", "name is missing")
	}
	name := r.curr.Literal
	r.next()

	attrs, err := r.readAttributes()
	if err != nil {
		return nil, err
	}
	switch {
	case r.is(EndElemTag):
		r.next()
		r.stack = append(r.stack, name)
		elem := StartTag{
			Name:  name,
			Attrs: attrs,
		}
		return elem, nil
	case r.is(EmptyElemTag):
		r.next()
		elem := EmptyTag{
			Name:  name,
			Attrs: attrs,
		}
		return elem, nil
	case r.is(Invalid):
		return nil, r.createError("element", r.curr.Literal)
	default:
		return nil, r.unexpected("element", "end of element")
	}
}

func (r *Reader) readEndElement() (Event, error) {
	pos := r.curr.Position
	r.next()
	if !r.is(Name) {
		return nil, r.createError("element", "name is missing")
	}
	name := r.curr.Literal
	r.next()
	if !r.is(EndElemTag) {
		return nil, r.unexpected("element", "end of element")
	}
	n := len(r.stack)
	if n == 0 {
		return nil, createParseError("element", fmt.Sprintf("%s: closing element without opening element", name), pos)
	}
	if r.stack[n-1] != name {
		return nil, createParseError("element", fmt.Sprintf("%s: name mismatched with opening element %s", name, r.stack[n-1]), pos)
	}
	r.stack = r.stack[:n-1]
	r.next()
	return EndTag{Name: name}, nil
}

func (r *Reader) readAttributes() ([]Attr, error) {
	var attrs []Attr
	for r.is(AttrName) {
		attr := Attr{
			Key: r.curr.Literal,
		}
		r.next()
		if !r.is(Value) {
			if r.is(Invalid) {
				return nil, r.createError("attribute", r.curr.Literal)
			}
			return nil, r.createError("attribute", "value is missing")
		}
		attr.Value = r.curr.Literal
		ok := slices.ContainsFunc(attrs, func(a Attr) bool {
			return a.Key == attr.Key
		})
		if ok {
			return nil, r.createError("attribute", "attribute is already defined")
		}
		attrs = append(attrs, attr)
		r.next()
	}
	if r.is(Name) {
		return nil, r.createError("attribute", "value is missing")
	}
	return attrs, nil
}

func (r *Reader) readComment() Event {
	defer r.next()
	return Comment{
		Content: r.curr.Literal,
	}
}

func (r *Reader) readCharData() Event {
	defer r.next()
	return CharData{
		Content: r.curr.Literal,
	}
}

func (r *Reader) readDocType() Event {
	defer r.next()
	return DocType{
		Content: r.curr.Literal,
	}
}

func (r *Reader) readLiteral() Event {
	defer r.next()
	str := r.curr.Literal
	if r.TrimSpace {
		str = strings.TrimSpace(str)
	}
	if !r.KeepEmpty && str == "" {
		return nil
	}
	return Text{
		Content: str,
	}
}

func (r *Reader) is(kind rune) bool {
	return r.curr.Type == kind
}

func (r *Reader) next() {
	r.curr = r.scan.Scan()
}

func (r *Reader) unexpected(elem, want string) error {
	return r.createError(elem, fmt.Sprintf("%s expected, got %s", want, r.curr))
}

func (r *Reader) createError(elem, msg string) error {
	return createParseError(elem, msg, r.curr.Position)
}

func splitInstruction(str string) (string, string) {
	ix := strings.IndexFunc(str, func(r rune) bool {
		return r < 0x80 && isBlank(byte(r))
	})
	if ix < 0 {
		return str, ""
	}
	return str[:ix], strings.TrimSpace(str[ix:])
}
