package trace

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/midbel/glifprint/xml"
)

// MaxIndent is the widest prefix written in front of a tag. Deeper elements
// share the same indentation.
const MaxIndent = 146

// DecodePolicy selects how attribute values of self-closing elements are
// decoded before being printed.
type DecodePolicy int8

const (
	// DecodeLegacy prints values of self-closing elements as found in the
	// document, only checking that they are valid UTF-8.
	DecodeLegacy DecodePolicy = iota
	// DecodeUnescape expands entities as done for start tags.
	DecodeUnescape
)

type ErrorKind int8

const (
	KindNone ErrorKind = iota
	KindParse
	KindDecode
	KindWrite
)

func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindParse:
		return "parse"
	case KindDecode:
		return "decode"
	default:
		return "write"
	}
}

// Result holds the trace produced by Sprint. When Err is set, Trace contains
// the lines printed before the failure.
type Result struct {
	Trace string
	Err   error
}

func (r Result) Kind() ErrorKind {
	var (
		perr xml.ParseError
		derr xml.DecodeError
	)
	switch {
	case r.Err == nil:
		return KindNone
	case errors.As(r.Err, &perr):
		return KindParse
	case errors.As(r.Err, &derr):
		return KindDecode
	default:
		return KindWrite
	}
}

func (r Result) Ok() bool {
	return r.Err == nil
}

type Option func(*Printer)

func WithEmptyDecode(policy DecodePolicy) Option {
	return func(p *Printer) {
		p.empty = policy
	}
}

func WithTheme(theme Theme) Option {
	return func(p *Printer) {
		p.theme = theme
	}
}

type Printer struct {
	writer *bufio.Writer
	depth  int

	empty DecodePolicy
	theme Theme
}

func New(w io.Writer, options ...Option) *Printer {
	p := Printer{
		writer: bufio.NewWriter(w),
	}
	for _, o := range options {
		o(&p)
	}
	return &p
}

func Print(w io.Writer, doc string, options ...Option) error {
	return New(w, options...).Print(doc)
}

func Sprint(doc string, options ...Option) Result {
	var (
		str strings.Builder
		err = Print(&str, doc, options...)
	)
	return Result{
		Trace: str.String(),
		Err:   err,
	}
}

// Print writes one line per event of doc. It stops at the first error; the
// lines written before are flushed anyway.
func (p *Printer) Print(doc string) error {
	p.depth = 0
	err := p.print(doc)
	if e := p.writer.Flush(); err == nil {
		err = e
	}
	return err
}

func (p *Printer) print(doc string) error {
	rs := xml.NewReader(doc)
	rs.TrimSpace = true
	for ev, err := range rs.Events() {
		if err != nil {
			return err
		}
		if err := p.printEvent(ev); err != nil {
			return err
		}
	}
	return nil
}

func (p *Printer) printEvent(ev xml.Event) error {
	switch ev.Kind() {
	case xml.KindDecl:
		return p.printDecl(ev.(xml.Decl))
	case xml.KindStart:
		e := ev.(xml.StartTag)
		line, err := p.formatTag(e.Name, e.Attrs, xml.Decode, false)
		if err != nil {
			return err
		}
		p.depth++
		return p.writeLine(line)
	case xml.KindEnd:
		p.depth--
		name, err := p.decodeName(ev.(xml.EndTag).Name)
		if err != nil {
			return err
		}
		return p.writeLine(Indent(p.depth) + "</" + name + ">")
	case xml.KindEmpty:
		decode := xml.DecodeRaw
		if p.empty == DecodeUnescape {
			decode = xml.Decode
		}
		e := ev.(xml.EmptyTag)
		line, err := p.formatTag(e.Name, e.Attrs, decode, true)
		if err != nil {
			return err
		}
		return p.writeLine(line)
	default:
		return p.writeLine(p.theme.other(fmt.Sprint(ev)))
	}
}

func (p *Printer) printDecl(decl xml.Decl) error {
	version, err := xml.DecodeRaw(decl.Version)
	if err != nil {
		return fmt.Errorf("version: %w", err)
	}
	encoding, err := xml.DecodeRaw(decl.Encoding)
	if err != nil {
		return fmt.Errorf("encoding: %w", err)
	}
	return p.writeLine(fmt.Sprintf("xml version %s encoding %s", version, encoding))
}

func (p *Printer) formatTag(name string, attrs []xml.Attr, decode func(string) (string, error), closed bool) (string, error) {
	name, err := p.decodeName(name)
	if err != nil {
		return "", err
	}
	var str strings.Builder
	str.WriteString(Indent(p.depth))
	str.WriteString("<")
	str.WriteString(name)
	for _, a := range attrs {
		key, err := xml.DecodeRaw(a.Key)
		if err != nil {
			return "", fmt.Errorf("attribute: %w", err)
		}
		value, err := decode(a.Value)
		if err != nil {
			return "", fmt.Errorf("%s: %w", key, err)
		}
		str.WriteString(" ")
		str.WriteString(p.theme.key(key))
		str.WriteString("=\"")
		str.WriteString(p.theme.value(value))
		str.WriteString("\"")
	}
	if closed {
		str.WriteString("/")
	}
	str.WriteString(">")
	return str.String(), nil
}

func (p *Printer) decodeName(name string) (string, error) {
	name, err := xml.DecodeRaw(name)
	if err != nil {
		return "", fmt.Errorf("element: %w", err)
	}
	return p.theme.name(name), nil
}

func (p *Printer) writeLine(line string) error {
	p.writer.WriteString(line)
	return p.writer.WriteByte('\n')
}

// Indent returns two spaces per level of depth, never more than MaxIndent
// and nothing for a negative depth.
func Indent(depth int) string {
	n := min(max(depth, 0)*2, MaxIndent)
	return strings.Repeat(" ", n)
}
