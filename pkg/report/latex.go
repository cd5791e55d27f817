package report

import (
	"fmt"
	"io"
	"strings"
)

// Element is a node of a LaTeX document.
type Element interface {
	// WriteTo writes the LaTeX source of the element.
	WriteTo(w io.Writer) (int64, error)
}

// Environment is a \begin{Name} ... \end{Name} block.
type Environment struct {
	Name     string
	Elements []Element
}

// Directive is a command such as \section[short]{title}.
type Directive struct {
	Name string
	Opts []string
	Args []string
}

// Raw is text written as is.
type Raw string

// NewEnvironment returns an Environment wrapping elements.
func NewEnvironment(name string, elements ...Element) *Environment {
	return &Environment{Name: name, Elements: elements}
}

// NewDirective returns a Directive with the given arguments and no options.
func NewDirective(name string, args ...string) *Directive {
	return &Directive{Name: name, Args: args}
}

// Section returns a \section directive.
func Section(title string) *Directive { return NewDirective("section", title) }

// Subsection returns a \subsection directive.
func Subsection(title string) *Directive { return NewDirective("subsection", title) }

// Rawf returns formatted Raw text.
func Rawf(format string, args ...any) Raw { return Raw(fmt.Sprintf(format, args...)) }

func (e *Environment) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	fmt.Fprintf(cw, "\\begin{%s} ", e.Name)
	for _, el := range e.Elements {
		if cw.err != nil {
			break
		}
		el.WriteTo(cw)
	}
	fmt.Fprintf(cw, "\\end{%s} ", e.Name)
	return cw.n, cw.err
}

func (d *Directive) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	fmt.Fprintf(cw, "\\%s", d.Name)
	for _, opt := range d.Opts {
		fmt.Fprintf(cw, "[%s]", opt)
	}
	for _, arg := range d.Args {
		fmt.Fprintf(cw, "{%s}", arg)
	}
	io.WriteString(cw, " ")
	return cw.n, cw.err
}

func (r Raw) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintf(w, " %s ", string(r))
	return int64(n), err
}

var escaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// Escape quotes the LaTeX special characters of s.
func Escape(s string) string { return escaper.Replace(s) }

// countWriter counts written bytes and keeps the first error. Writes after an
// error are dropped.
type countWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}
