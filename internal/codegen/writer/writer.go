// Package writer provides an indenting text builder for generated declarations.
package writer

import (
	"fmt"
	"strings"
)

// Writer accumulates generated source with indentation tracking
type Writer struct {
	sb           strings.Builder
	indentLevel  int
	indentString string
	linePrefix   string
	needsIndent  bool
}

// NewWriter creates a new writer with the given indentation unit
func NewWriter(indentString string) *Writer {
	return &Writer{
		indentString: indentString,
		needsIndent:  true,
	}
}

// Indent increases the indentation level
func (w *Writer) Indent() {
	w.indentLevel++
	w.updatePrefix()
}

// Dedent decreases the indentation level
func (w *Writer) Dedent() {
	if w.indentLevel > 0 {
		w.indentLevel--
		w.updatePrefix()
	}
}

// Write writes s, prefixing the indentation if a line is being started.
// Empty strings never produce indentation, so blank lines stay blank.
func (w *Writer) Write(s string) {
	if w.needsIndent && s != "" {
		w.sb.WriteString(w.linePrefix)
		w.needsIndent = false
	}
	w.sb.WriteString(s)
}

// Writef writes a formatted string without adding a newline
func (w *Writer) Writef(format string, args ...interface{}) {
	w.Write(fmt.Sprintf(format, args...))
}

// WriteLine writes s followed by a newline
func (w *Writer) WriteLine(s string) {
	w.Write(s)
	w.Newline()
}

// WriteLinef writes a formatted string followed by a newline
func (w *Writer) WriteLinef(format string, args ...interface{}) {
	w.Writef(format, args...)
	w.Newline()
}

// Newline ends the current line
func (w *Writer) Newline() {
	w.sb.WriteString("\n")
	w.needsIndent = true
}

// String returns the generated text
func (w *Writer) String() string {
	return w.sb.String()
}

// Bytes returns the generated text as a byte slice
func (w *Writer) Bytes() []byte {
	return []byte(w.sb.String())
}

func (w *Writer) updatePrefix() {
	w.linePrefix = strings.Repeat(w.indentString, w.indentLevel)
}

// WriteBlock writes opener, the indented content and closer
// Example: WriteBlock("export interface Foo {", "}", func() { w.WriteLine("bar: string;") })
func (w *Writer) WriteBlock(opener, closer string, content func()) {
	w.WriteLine(opener)
	w.Indent()
	content()
	w.Dedent()
	w.WriteLine(closer)
}

// WriteLineComments writes doc as // comments, one per line
func (w *Writer) WriteLineComments(doc string) {
	if doc == "" {
		return
	}
	for _, line := range docLines(doc) {
		if line == "" {
			w.WriteLine("//")
			continue
		}
		w.WriteLinef("// %s", line)
	}
}

// WriteJSDoc writes doc as a JSDoc block. Single-line docs stay on one line.
func (w *Writer) WriteJSDoc(doc string) {
	if doc == "" {
		return
	}

	lines := docLines(doc)
	if len(lines) == 1 {
		w.WriteLinef("/** %s */", lines[0])
		return
	}

	w.WriteLine("/**")
	for _, line := range lines {
		if line == "" {
			w.WriteLine(" *")
			continue
		}
		w.WriteLinef(" * %s", line)
	}
	w.WriteLine(" */")
}

// docLines splits doc into lines with trailing whitespace removed and
// comment terminators escaped. Leading whitespace is kept for code samples.
func docLines(doc string) []string {
	doc = strings.Trim(strings.ReplaceAll(doc, "\r\n", "\n"), "\n")
	lines := strings.Split(doc, "\n")
	for i, line := range lines {
		lines[i] = EscapeComment(strings.TrimRight(line, " \t"))
	}
	return lines
}

// EscapeComment makes s safe to place inside a /* */ comment
func EscapeComment(s string) string {
	return strings.ReplaceAll(s, "*/", "*\\/")
}
