package trace_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/midbel/glifprint/trace"
	"github.com/midbel/glifprint/xml"
)

func TestPrintSample(t *testing.T) {
	doc, err := xml.LoadFile(filepath.Join("testdata", "sample.glif"))
	if err != nil {
		t.Fatalf("fail to load sample file: %s", err)
	}
	want, err := os.ReadFile(filepath.Join("testdata", "sample.trace"))
	if err != nil {
		t.Fatalf("fail to read expected trace: %s", err)
	}
	res := trace.Sprint(doc)
	if !res.Ok() {
		t.Fatalf("fail to print sample file: %s", res.Err)
	}
	if diff := cmp.Diff(string(want), res.Trace); diff != "" {
		t.Errorf("trace mismatched (-want +got):\n%s", diff)
	}
}

func TestPrint(t *testing.T) {
	data := []struct {
		Xml     string
		Want    string
		Options []trace.Option
	}{
		{
			Xml:  `<?xml version="1.0"?><a/>`,
			Want: "xml version 1.0 encoding \n<a/>\n",
		},
		{
			Xml:  `<?xml version="1.1" encoding="UTF-8" standalone="yes"?><a/>`,
			Want: "xml version 1.1 encoding UTF-8\n<a/>\n",
		},
		{
			Xml:  `<a b="x&amp;y"></a>`,
			Want: "<a b=\"x&y\">\n</a>\n",
		},
		{
			Xml:  `<a b="x&amp;y"/>`,
			Want: "<a b=\"x&amp;y\"/>\n",
		},
		{
			Xml:     `<a b="x&amp;y"/>`,
			Want:    "<a b=\"x&y\"/>\n",
			Options: []trace.Option{trace.WithEmptyDecode(trace.DecodeUnescape)},
		},
		{
			Xml:  `<a b='it&apos;s'></a>`,
			Want: "<a b=\"it's\">\n</a>\n",
		},
		{
			Xml:  "<a>\n  <b>\n    <c/>\n  </b>\n</a>",
			Want: "<a>\n  <b>\n    <c/>\n  </b>\n</a>\n",
		},
		{
			Xml:  `<a><!-- note --><?pi data?><b>  some text  </b></a>`,
			Want: "<a>\ncomment( note )\npi(pi data)\n  <b>\ntext(some text)\n  </b>\n</a>\n",
		},
		{
			Xml:  `<!DOCTYPE glyph><glyph><![CDATA[ raw ]]></glyph>`,
			Want: "doctype(glyph)\n<glyph>\nchardata( raw )\n</glyph>\n",
		},
		{
			Xml:  "",
			Want: "",
		},
	}
	for _, d := range data {
		res := trace.Sprint(d.Xml, d.Options...)
		if !res.Ok() {
			t.Errorf("%q: unexpected error: %s", d.Xml, res.Err)
			continue
		}
		if res.Trace != d.Want {
			t.Errorf("%q: trace mismatched", d.Xml)
			t.Logf("want: %q", d.Want)
			t.Logf("got : %q", res.Trace)
		}
	}
}

func TestPrintFailure(t *testing.T) {
	data := []struct {
		Xml   string
		Kind  trace.ErrorKind
		Trace string
	}{
		{
			Xml:   `<a><b></c></a>`,
			Kind:  trace.KindParse,
			Trace: "<a>\n  <b>\n",
		},
		{
			Xml:   `<a><b x="1></b></a>`,
			Kind:  trace.KindParse,
			Trace: "<a>\n",
		},
		{
			Xml:   `<a><b x="&bogus;"></b></a>`,
			Kind:  trace.KindDecode,
			Trace: "<a>\n",
		},
		{
			Xml:   `<a><b x="&bogus;"/></a>`,
			Kind:  trace.KindNone,
			Trace: "<a>\n  <b x=\"&bogus;\"/>\n</a>\n",
		},
		{
			Xml:   "<a><b x=\"\xff\"/></a>",
			Kind:  trace.KindDecode,
			Trace: "<a>\n",
		},
		{
			Xml:   "<a><\xfe/></a>",
			Kind:  trace.KindDecode,
			Trace: "<a>\n",
		},
		{
			Xml:   "<a \xfe=\"1\"></a>",
			Kind:  trace.KindDecode,
			Trace: "",
		},
		{
			Xml:   "<?xml version=\"1.0\" encoding=\"\xff\"?><a/>",
			Kind:  trace.KindDecode,
			Trace: "",
		},
	}
	for _, d := range data {
		res := trace.Sprint(d.Xml)
		if got := res.Kind(); got != d.Kind {
			t.Errorf("%q: error kind mismatched! want %s, got %s (%v)", d.Xml, d.Kind, got, res.Err)
		}
		if res.Trace != d.Trace {
			t.Errorf("%q: partial trace mismatched", d.Xml)
			t.Logf("want: %q", d.Trace)
			t.Logf("got : %q", res.Trace)
		}
	}
}

func TestPrintDecodeErrorCause(t *testing.T) {
	res := trace.Sprint(`<a x="&bogus;"></a>`)
	var derr xml.DecodeError
	if !errors.As(res.Err, &derr) {
		t.Fatalf("expected decode error, got %v", res.Err)
	}
	if derr.Value != "&bogus;" {
		t.Errorf("decode error value mismatched! got %q", derr.Value)
	}
}

func TestPrintBalanced(t *testing.T) {
	const doc = `<a><b><c/><d><e></e></d></b><f><g/></f></a>`

	res := trace.Sprint(doc)
	if !res.Ok() {
		t.Fatalf("unexpected error: %s", res.Err)
	}
	var stack []int
	for _, line := range lines(res.Trace) {
		var (
			str    = strings.TrimLeft(line, " ")
			indent = len(line) - len(str)
		)
		switch {
		case strings.HasPrefix(str, "</"):
			n := len(stack)
			if n == 0 {
				t.Fatalf("%s: closing element without opening element", line)
			}
			if stack[n-1] != indent {
				t.Errorf("%s: indent mismatched! want %d, got %d", line, stack[n-1], indent)
			}
			stack = stack[:n-1]
		case strings.HasSuffix(str, "/>"):
			if indent != 2*len(stack) {
				t.Errorf("%s: indent mismatched! want %d, got %d", line, 2*len(stack), indent)
			}
		default:
			if indent != 2*len(stack) {
				t.Errorf("%s: indent mismatched! want %d, got %d", line, 2*len(stack), indent)
			}
			stack = append(stack, indent)
		}
	}
	if len(stack) != 0 {
		t.Errorf("elements left open in trace: %d", len(stack))
	}
}

func TestPrintStructure(t *testing.T) {
	const doc = `<glyph name="A" format="2"><advance width="10"/><outline><contour><point x="1" y="2"/></contour></outline></glyph>`

	res := trace.Sprint(doc)
	if !res.Ok() {
		t.Fatalf("unexpected error: %s", res.Err)
	}
	var str strings.Builder
	for _, line := range lines(res.Trace) {
		str.WriteString(strings.TrimLeft(line, " "))
	}
	if got := str.String(); got != doc {
		t.Errorf("structure mismatched")
		t.Logf("want: %s", doc)
		t.Logf("got : %s", got)
	}
}

func TestPrintIdempotent(t *testing.T) {
	doc, err := xml.LoadFile(filepath.Join("testdata", "sample.glif"))
	if err != nil {
		t.Fatalf("fail to load sample file: %s", err)
	}
	var (
		first  = trace.Sprint(doc)
		second = trace.Sprint(doc)
	)
	if first.Trace != second.Trace {
		t.Errorf("traces differ between runs")
	}
}

func TestPrinterReuse(t *testing.T) {
	var (
		str strings.Builder
		p   = trace.New(&str)
	)
	if err := p.Print(`<a></a>`); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if err := p.Print(`<a></a>`); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if want := "<a>\n</a>\n<a>\n</a>\n"; str.String() != want {
		t.Errorf("trace mismatched! want %q, got %q", want, str.String())
	}
}

func TestPrintDeepNesting(t *testing.T) {
	const depth = 100

	var doc strings.Builder
	for i := 0; i < depth; i++ {
		doc.WriteString("<e>")
	}
	doc.WriteString("<leaf/>")
	for i := 0; i < depth; i++ {
		doc.WriteString("</e>")
	}
	res := trace.Sprint(doc.String())
	if !res.Ok() {
		t.Fatalf("unexpected error: %s", res.Err)
	}
	saturated := strings.Repeat(" ", trace.MaxIndent)
	for i, line := range lines(res.Trace) {
		level := i
		if i > depth {
			level = 2*depth - i
		}
		want := trace.Indent(level)
		if level*2 >= trace.MaxIndent {
			want = saturated
		}
		if !strings.HasPrefix(line, want) || strings.HasPrefix(line[len(want):], " ") {
			t.Errorf("line %d: indent mismatched! want %d spaces", i, len(want))
		}
	}
}

func TestIndent(t *testing.T) {
	data := []struct {
		Depth int
		Want  int
	}{
		{Depth: -1, Want: 0},
		{Depth: 0, Want: 0},
		{Depth: 1, Want: 2},
		{Depth: 10, Want: 20},
		{Depth: trace.MaxIndent / 2, Want: trace.MaxIndent},
		{Depth: trace.MaxIndent/2 + 1, Want: trace.MaxIndent},
		{Depth: 10000, Want: trace.MaxIndent},
	}
	for _, d := range data {
		got := trace.Indent(d.Depth)
		if len(got) != d.Want || strings.Trim(got, " ") != "" {
			t.Errorf("depth %d: indent mismatched! want %d spaces, got %q", d.Depth, d.Want, got)
		}
	}
}

func TestPrintColor(t *testing.T) {
	res := trace.Sprint(`<glyph name="A"><point x="1"/></glyph>`, trace.WithTheme(trace.ColorTheme()))
	if !res.Ok() {
		t.Fatalf("unexpected error: %s", res.Err)
	}
	for _, str := range []string{"glyph", "name", "point"} {
		if !strings.Contains(res.Trace, str) {
			t.Errorf("%s: missing from colored trace", str)
		}
	}
	if !trace.ColorTheme().Colored() || trace.PlainTheme.Colored() {
		t.Errorf("theme colored flag mismatched")
	}
}

func lines(str string) []string {
	return strings.Split(strings.TrimSuffix(str, "\n"), "\n")
}
