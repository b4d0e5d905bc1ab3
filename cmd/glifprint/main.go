package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/midbel/cli"
	"github.com/midbel/glifprint/trace"
	"github.com/midbel/glifprint/xml"
)

const glifExt = ".glif"

var (
	errNotFound  = errors.New("file not found")
	errExtension = errors.New("not a glif file")
)

type Options struct {
	Color         bool
	UnescapeEmpty bool
	View          bool
}

func (o Options) theme() trace.Theme {
	if o.Color {
		return trace.ColorTheme()
	}
	return trace.PlainTheme
}

func (o Options) printOptions() []trace.Option {
	list := []trace.Option{
		trace.WithTheme(o.theme()),
	}
	if o.UnescapeEmpty {
		list = append(list, trace.WithEmptyDecode(trace.DecodeUnescape))
	}
	return list
}

func main() {
	var (
		set     = cli.NewFlagSet("glifprint")
		options Options
	)
	set.BoolVar(&options.Color, "color", false, "colorize element and attribute names in the trace")
	set.BoolVar(&options.UnescapeEmpty, "unescape-empty", false, "expand entities in attribute values of self-closing elements")
	set.BoolVar(&options.View, "view", false, "browse the trace in an interactive pager")
	if err := set.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(run(set.Args(), options, os.Stderr))
}

// run prints the trace of the glif file given in args to stderr and returns
// the exit code of the program.
func run(args []string, options Options, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Please supply a path to a glif file")
		return 1
	}
	file := args[0]
	if err := checkPath(file); err != nil {
		fmt.Fprintf(stderr, "path %q is not an existing %s file, exiting", file, glifExt)
		fmt.Fprintln(stderr)
		return 1
	}
	doc, err := xml.LoadFile(file)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if options.View {
		return browse(file, doc, options, stderr)
	}
	if err := trace.Print(stderr, doc, options.printOptions()...); err != nil {
		fmt.Fprintln(stderr, "error", err)
		return 1
	}
	return 0
}

func browse(file, doc string, options Options, stderr io.Writer) int {
	content, code := pagerContent(doc, options)
	if err := view(newPager(file, content, options.theme()), stderr); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return code
}

// pagerContent returns the text shown by the pager and the exit code of the
// program. On failure the error follows the partial trace.
func pagerContent(doc string, options Options) (string, int) {
	res := trace.Sprint(doc, options.printOptions()...)
	if !res.Ok() {
		return res.Trace + fmt.Sprintln("error", res.Err), 1
	}
	return res.Trace, 0
}

func checkPath(file string) error {
	if filepath.Ext(file) != glifExt {
		return fmt.Errorf("%s: %w", file, errExtension)
	}
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("%s: %w", file, errNotFound)
	}
	return nil
}
