package xml

import (
	"fmt"
	"strings"
)

type Kind int8

const (
	KindDecl Kind = iota
	KindStart
	KindEnd
	KindEmpty
	KindText
	KindCharData
	KindComment
	KindInstruction
	KindDocType
)

func (k Kind) String() string {
	switch k {
	case KindDecl:
		return "declaration"
	case KindStart:
		return "start"
	case KindEnd:
		return "end"
	case KindEmpty:
		return "empty"
	case KindText:
		return "text"
	case KindCharData:
		return "chardata"
	case KindComment:
		return "comment"
	case KindInstruction:
		return "instruction"
	case KindDocType:
		return "doctype"
	default:
		return "unknown"
	}
}

// Event is one unit of structure produced by a Reader. Values carried by
// events are raw: entity references are not expanded and the text is not
// checked for valid UTF-8. Use Decode or DecodeRaw before display.
type Event interface {
	Kind() Kind
	fmt.Stringer
}

type Decl struct {
	Version    string
	Encoding   string
	Standalone string
}

func (Decl) Kind() Kind {
	return KindDecl
}

func (d Decl) String() string {
	return fmt.Sprintf("decl(version=%s, encoding=%s)", d.Version, d.Encoding)
}

type Attr struct {
	Key   string
	Value string
}

func (a Attr) String() string {
	return fmt.Sprintf("%s=%q", a.Key, a.Value)
}

type StartTag struct {
	Name  string
	Attrs []Attr
}

func (StartTag) Kind() Kind {
	return KindStart
}

func (e StartTag) String() string {
	return fmt.Sprintf("start(%s%s)", e.Name, writeAttrs(e.Attrs))
}

// EmptyTag is a self-closing element, reported without a matching EndTag.
type EmptyTag struct {
	Name  string
	Attrs []Attr
}

func (EmptyTag) Kind() Kind {
	return KindEmpty
}

func (e EmptyTag) String() string {
	return fmt.Sprintf("empty(%s%s)", e.Name, writeAttrs(e.Attrs))
}

type EndTag struct {
	Name string
}

func (EndTag) Kind() Kind {
	return KindEnd
}

func (e EndTag) String() string {
	return fmt.Sprintf("end(%s)", e.Name)
}

type Text struct {
	Content string
}

func (Text) Kind() Kind {
	return KindText
}

func (t Text) String() string {
	return fmt.Sprintf("text(%s)", t.Content)
}

type CharData struct {
	Content string
}

func (CharData) Kind() Kind {
	return KindCharData
}

func (c CharData) String() string {
	return fmt.Sprintf("chardata(%s)", c.Content)
}

type Comment struct {
	Content string
}

func (Comment) Kind() Kind {
	return KindComment
}

func (c Comment) String() string {
	return fmt.Sprintf("comment(%s)", c.Content)
}

type Instruction struct {
	Target string
	Data   string
}

func (Instruction) Kind() Kind {
	return KindInstruction
}

func (i Instruction) String() string {
	if i.Data == "" {
		return fmt.Sprintf("pi(%s)", i.Target)
	}
	return fmt.Sprintf("pi(%s %s)", i.Target, i.Data)
}

type DocType struct {
	Content string
}

func (DocType) Kind() Kind {
	return KindDocType
}

func (d DocType) String() string {
	return fmt.Sprintf("doctype(%s)", d.Content)
}

func writeAttrs(attrs []Attr) string {
	if len(attrs) == 0 {
		return ""
	}
	var str strings.Builder
	for _, a := range attrs {
		str.WriteRune(' ')
		str.WriteString(a.String())
	}
	return str.String()
}
