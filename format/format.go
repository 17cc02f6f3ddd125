// Copyright 2023 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package format provides a function to format a parsed document
// as markup that is equivalent to the original.
package format

import (
	"io"
	"strconv"
	"strings"

	"go4.org/bytereplacer"
	"zombiezen.com/go/markup"
)

// Options controls how elements without built-in syntax are written.
// Elements without an entry have their content written in their place.
type Options struct {
	// Inline maps an inline element's tag
	// to a function that returns the element's markup.
	Inline map[string]func(e *markup.Element) string
	// Fences maps a block element's tag to the lines
	// written before and after its children.
	Fences map[string]Fence
}

// Fence is a pair of lines that enclose a block element's children.
// The first child starts on the line after Open
// and Close follows the line that ends the last child.
type Fence struct {
	Open  string
	Close string
}

// Format writes the document rooted at root as markup to the given writer.
func Format(w io.Writer, root *markup.Element) error {
	return new(Options).Format(w, root)
}

// Format writes the document rooted at root as markup to the given writer
// using the options to write elements without built-in syntax.
func (opts *Options) Format(w io.Writer, root *markup.Element) error {
	if opts == nil {
		opts = new(Options)
	}
	f := &formatter{
		Options: opts,
		w:       &errWriter{w: w},
	}
	if root.Tag == "" || !markup.IsBlockLevel(root.Tag) {
		f.blocks(root)
	} else {
		f.block(root)
	}
	return f.w.err
}

type formatter struct {
	*Options
	w       *errWriter
	indents []string
	// separate is true when the next block must be preceded by a blank line.
	separate bool
}

// blocks writes the children of parent as a sequence of blocks.
func (f *formatter) blocks(parent *markup.Element) {
	var inline []markup.Node
	flushInline := func() {
		if len(inline) > 0 {
			f.paragraph(f.inlines(inline))
			inline = inline[:0]
		}
	}
	for i, n := 0, parent.ChildCount(); i < n; i++ {
		child := parent.Child(i)
		if e := child.Element(); e != nil && markup.IsBlockLevel(e.Tag) {
			flushInline()
			f.block(e)
			continue
		}
		if t := child.Text(); t != nil && strings.TrimSpace(t.Value) == "" {
			continue
		}
		inline = append(inline, child)
	}
	flushInline()
}

func (f *formatter) block(e *markup.Element) {
	switch e.Tag {
	case "p":
		f.paragraph(f.inlines(children(e)))
	case "h1", "h2", "h3", "h4", "h5", "h6":
		level, _ := strconv.Atoi(e.Tag[1:])
		f.startBlock()
		f.w.WriteString(strings.Repeat("#", level))
		if content := f.inlines(children(e)); content != "" {
			f.w.WriteString(" ")
			f.w.WriteString(strings.ReplaceAll(content, "\n", " "))
		}
		f.w.WriteString("\n")
	case "hr":
		f.startBlock()
		f.w.WriteString("* * *\n")
	case "pre":
		f.codeBlock(e)
	case "blockquote":
		if f.separate {
			writeTrimmedIndent(f.w, f.indents)
			f.w.WriteString("\n")
			f.separate = false
		}
		f.indents = append(f.indents, "> ")
		f.blocks(e)
		f.indents = f.indents[:len(f.indents)-1]
		f.separate = true
	default:
		fence, ok := f.Fences[e.Tag]
		if !ok {
			f.blocks(e)
			return
		}
		f.startBlock()
		f.w.WriteString(fence.Open)
		f.w.WriteString("\n")
		f.separate = false
		f.blocks(e)
		f.writeIndent()
		f.w.WriteString(fence.Close)
		f.w.WriteString("\n")
		f.separate = true
	}
}

// startBlock writes the separator before a block
// and the indent of the block's first line.
func (f *formatter) startBlock() {
	if f.separate {
		writeTrimmedIndent(f.w, f.indents)
		f.w.WriteString("\n")
	}
	f.separate = true
	f.writeIndent()
}

func (f *formatter) writeIndent() {
	for _, indent := range f.indents {
		f.w.WriteString(indent)
	}
}

func (f *formatter) paragraph(content string) {
	if content == "" {
		return
	}
	f.startBlock()
	indentedWrite(f.w, strings.Join(f.indents, ""), content)
	f.w.WriteString("\n")
}

func (f *formatter) codeBlock(pre *markup.Element) {
	code := strings.TrimRight(pre.TextContent(), "\n")
	f.startBlock()
	for i, line := range strings.Split(code, "\n") {
		if i > 0 {
			if line == "" {
				writeTrimmedIndent(f.w, f.indents)
				f.w.WriteString("\n")
				continue
			}
			f.writeIndent()
		}
		f.w.WriteString("    ")
		f.w.WriteString(line)
		f.w.WriteString("\n")
	}
}

// inlines returns the markup for a sequence of inline nodes.
func (f *formatter) inlines(nodes []markup.Node) string {
	sb := new(strings.Builder)
	for _, n := range nodes {
		markup.Walk(n, &markup.WalkOptions{
			Pre: func(c *markup.Cursor) bool {
				if t := c.Node().Text(); t != nil {
					sb.Write(escapeReplacer.Replace([]byte(t.Value)))
					return false
				}
				e := c.Node().Element()
				switch e.Tag {
				case "strong":
					sb.WriteString("**")
				case "em":
					sb.WriteString("*")
				case "code":
					writeCodeSpan(sb, e.TextContent())
					return false
				default:
					if fn := f.Inline[e.Tag]; fn != nil {
						sb.WriteString(fn(e))
						return false
					}
				}
				return true
			},
			Post: func(c *markup.Cursor) bool {
				switch c.Node().Element().Tag {
				case "strong":
					sb.WriteString("**")
				case "em":
					sb.WriteString("*")
				}
				return true
			},
		})
	}
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	for i, line := range lines {
		lines[i] = escapeLineStart(line)
	}
	return strings.Join(lines, "\n")
}

func writeCodeSpan(sb *strings.Builder, code string) {
	if strings.Contains(code, "`") {
		sb.WriteString("`` ")
		sb.WriteString(code)
		sb.WriteString(" ``")
		return
	}
	sb.WriteString("`")
	sb.WriteString(code)
	sb.WriteString("`")
}

// Escape returns s with backslashes added before every character
// that could start inline syntax,
// so that it parses back as literal text.
// It is suitable for the text written by [Options] Inline functions.
func Escape(s string) string {
	return string(escapeReplacer.Replace([]byte(s)))
}

// escapeReplacer escapes characters that could start inline syntax.
var escapeReplacer = bytereplacer.New(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"!", `\!`,
	"{", `\{`,
	"}", `\}`,
)

// escapeLineStart escapes the first character of a line of text
// that would otherwise be read as the start of a block.
func escapeLineStart(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) >= 4 || trimmed == "" {
		return line
	}
	indent := line[:len(line)-len(trimmed)]
	switch trimmed[0] {
	case '#', '>':
		return indent + `\` + trimmed
	case '-', '_':
		if strings.Trim(trimmed, " -_") == "" {
			return indent + `\` + trimmed
		}
	}
	return line
}

func children(e *markup.Element) []markup.Node {
	nodes := make([]markup.Node, 0, e.ChildCount())
	for i, n := 0, e.ChildCount(); i < n; i++ {
		nodes = append(nodes, e.Child(i))
	}
	return nodes
}

func indentedWrite(w *errWriter, indent string, s string) {
	for {
		i := strings.IndexByte(s, '\n')
		if i == -1 {
			break
		}
		w.WriteString(s[:i+1])
		w.WriteString(indent)
		s = s[i+1:]
	}
	w.WriteString(s)
}

// writeTrimmedIndent writes the concatenated indents
// without trailing whitespace.
func writeTrimmedIndent(w io.Writer, indents []string) error {
	n := len(indents)
	for ; n > 0; n-- {
		if strings.TrimSpace(indents[n-1]) != "" {
			break
		}
	}
	for i, indent := range indents[:n] {
		if i == n-1 {
			indent = strings.TrimRight(indent, " \t")
		}
		if _, err := io.WriteString(w, indent); err != nil {
			return err
		}
	}
	return nil
}

type errWriter struct {
	w          io.Writer
	hasWritten bool
	err        error
}

func (w *errWriter) Write(p []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	n, w.err = w.w.Write(p)
	w.hasWritten = w.hasWritten || n > 0
	return n, w.err
}

func (w *errWriter) WriteString(s string) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	n, w.err = io.WriteString(w.w, s)
	w.hasWritten = w.hasWritten || n > 0
	return n, w.err
}
