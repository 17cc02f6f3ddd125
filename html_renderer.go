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

package markup

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html/atom"
)

// An HTMLRenderer converts element trees into HTML.
//
// # Security considerations
//
// Extensions may produce arbitrary elements and attributes,
// so the resulting HTML should be sent through an HTML sanitizer
// when the input is untrusted.
// FilterTag can be used to prevent some tags from being used
// while still showing the source text.
type HTMLRenderer struct {
	// FilterTag is a predicate function
	// that reports whether an element with the given lowercased tag name
	// should have its leading angle bracket escaped.
	// If FilterTag is nil, then no filtering will occur.
	//
	// FilterTag functions must not modify the byte slice
	// nor retain the slice after the function returns.
	FilterTag func(tag []byte) bool
	// If XHTML is true, void elements are written as "<hr />"
	// instead of "<hr>".
	XHTML bool
}

// RenderHTML writes the given tree to the given writer as HTML
// using the default options for [HTMLRenderer].
func RenderHTML(w io.Writer, root *Element) error {
	return new(HTMLRenderer).Render(w, root)
}

// Render writes the given tree to the given writer as HTML.
// If root has an empty tag, only its children are written.
func (r *HTMLRenderer) Render(w io.Writer, root *Element) error {
	if _, err := w.Write(r.AppendHTML(nil, root)); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// AppendHTML appends the rendered HTML of a tree to dst
// and returns the resulting byte slice.
//
// Block-level elements are followed by a newline,
// and a block-level element whose first child is a block-level element
// starts its content on a new line.
// The newline after the last element of a document root is trimmed.
func (r *HTMLRenderer) AppendHTML(dst []byte, root *Element) []byte {
	state := &renderState{
		HTMLRenderer: r,
		dst:          dst,
	}
	if root.Tag != "" {
		state.element(root)
		return state.dst
	}
	start := len(state.dst)
	state.children(root, true)
	state.dst = append(state.dst[:start], bytes.TrimRight(state.dst[start:], "\n")...)
	return state.dst
}

type renderState struct {
	*HTMLRenderer
	dst      []byte
	lowerBuf []byte
}

func (r *renderState) openTagAttr(name string) {
	start := len(r.dst)
	r.dst = append(r.dst, '<')
	r.dst = append(r.dst, name...)
	if r.FilterTag != nil && r.FilterTag(maybeLower(r.dst[start+1:], &r.lowerBuf)) {
		r.dst = r.dst[:start]
		r.dst = append(r.dst, "&lt;"...)
		r.dst = append(r.dst, name...)
	}
}

func (r *renderState) closeTag(name string) {
	start := len(r.dst)
	r.dst = append(r.dst, "</"...)
	r.dst = append(r.dst, name...)
	if r.FilterTag != nil && r.FilterTag(maybeLower(r.dst[start+2:], &r.lowerBuf)) {
		r.dst = r.dst[:start]
		r.dst = append(r.dst, "&lt;/"...)
		r.dst = append(r.dst, name...)
	}
	r.dst = append(r.dst, '>')
}

func (r *renderState) element(e *Element) {
	r.openTagAttr(e.Tag)
	for _, attr := range e.Attrs() {
		r.dst = append(r.dst, ' ')
		r.dst = append(r.dst, attr.Key...)
		r.dst = append(r.dst, `="`...)
		r.dst = escapeHTML(r.dst, []byte(attr.Value), true)
		r.dst = append(r.dst, '"')
	}
	if isVoidElement(e.Tag) {
		if r.XHTML {
			r.dst = append(r.dst, " />"...)
		} else {
			r.dst = append(r.dst, '>')
		}
	} else {
		r.dst = append(r.dst, '>')
		prettyChildren := isBlockLevel(e.Tag) && !isPreformatted(e.Tag)
		if prettyChildren && isBlockLevelNode(e.FirstChild()) {
			r.dst = append(r.dst, '\n')
		}
		r.children(e, prettyChildren)
		r.closeTag(e.Tag)
	}
}

func (r *renderState) children(parent *Element, pretty bool) {
	for i, n := 0, parent.ChildCount(); i < n; i++ {
		c := parent.Child(i)
		if t := c.Text(); t != nil {
			r.dst = escapeHTML(r.dst, []byte(t.Value), false)
			continue
		}
		e := c.Element()
		r.element(e)
		if pretty && isBlockLevel(e.Tag) && !followedByContent(parent, i) {
			r.dst = append(r.dst, '\n')
		}
	}
}

// followedByContent reports whether the i'th child of parent
// is immediately followed by non-blank text.
func followedByContent(parent *Element, i int) bool {
	if i+1 >= parent.ChildCount() {
		return false
	}
	t := parent.Child(i + 1).Text()
	return t != nil && !isBlankLine(t.Value)
}

func isBlockLevelNode(n Node) bool {
	e := n.Element()
	return e != nil && isBlockLevel(e.Tag)
}

// blockLevelElements is the set of elements that are laid out on their own lines.
// summary is left out so that it stays inline inside its paragraph.
var blockLevelElements = map[atom.Atom]struct{}{
	atom.Address:    {},
	atom.Article:    {},
	atom.Aside:      {},
	atom.Blockquote: {},
	atom.Details:    {},
	atom.Div:        {},
	atom.Dl:         {},
	atom.Fieldset:   {},
	atom.Figcaption: {},
	atom.Figure:     {},
	atom.Footer:     {},
	atom.Form:       {},
	atom.H1:         {},
	atom.H2:         {},
	atom.H3:         {},
	atom.H4:         {},
	atom.H5:         {},
	atom.H6:         {},
	atom.Header:     {},
	atom.Hgroup:     {},
	atom.Hr:         {},
	atom.Main:       {},
	atom.Menu:       {},
	atom.Nav:        {},
	atom.Ol:         {},
	atom.P:          {},
	atom.Pre:        {},
	atom.Section:    {},
	atom.Table:      {},
	atom.Ul:         {},
	atom.Canvas:     {},
	atom.Colgroup:   {},
	atom.Dd:         {},
	atom.Body:       {},
	atom.Dt:         {},
	atom.Html:       {},
	atom.Iframe:     {},
	atom.Li:         {},
	atom.Legend:     {},
	atom.Math:       {},
	atom.Map:        {},
	atom.Noscript:   {},
	atom.Output:     {},
	atom.Object:     {},
	atom.Option:     {},
	atom.Progress:   {},
	atom.Script:     {},
	atom.Style:      {},
	atom.Tbody:      {},
	atom.Td:         {},
	atom.Textarea:   {},
	atom.Tfoot:      {},
	atom.Th:         {},
	atom.Thead:      {},
	atom.Tr:         {},
	atom.Video:      {},
}

// IsBlockLevel reports whether the renderer lays out
// elements with the given tag on their own lines.
func IsBlockLevel(tag string) bool {
	return isBlockLevel(tag)
}

func isBlockLevel(tag string) bool {
	var buf []byte
	_, ok := blockLevelElements[atom.Lookup(maybeLower([]byte(tag), &buf))]
	return ok
}

func isPreformatted(tag string) bool {
	a := atom.Lookup([]byte(tag))
	return a == atom.Pre || a == atom.Code
}

func isVoidElement(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.Hr, atom.Br, atom.Img:
		return true
	default:
		return false
	}
}

// escapeHTML appends the HTML-escaped version of a byte slice to another byte slice.
// Double quotes are only escaped in attribute values.
func escapeHTML(dst []byte, src []byte, attr bool) []byte {
	verbatimStart := 0
	for i, b := range src {
		var esc string
		switch b {
		case '&':
			esc = "&amp;"
		case '<':
			esc = "&lt;"
		case '>':
			esc = "&gt;"
		case '"':
			if !attr {
				continue
			}
			esc = "&quot;"
		default:
			continue
		}
		dst = append(dst, src[verbatimStart:i]...)
		dst = append(dst, esc...)
		verbatimStart = i + 1
	}
	if verbatimStart < len(src) {
		dst = append(dst, src[verbatimStart:]...)
	}
	return dst
}

func maybeLower(x []byte, buf *[]byte) []byte {
	hasUpper := false
	for _, b := range x {
		if 'A' <= b && b <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return x
	}

	*buf = (*buf)[:0]
	for _, b := range x {
		if 'A' <= b && b <= 'Z' {
			*buf = append(*buf, b-'A'+'a')
		} else {
			*buf = append(*buf, b)
		}
	}
	return *buf
}

// FilterTagGFM performs the same tag filtering as the
// GitHub Flavored Markdown [tagfilter extension].
// It is suitable for use as the FilterTag field in [HTMLRenderer].
//
// [tagfilter extension]: https://github.github.com/gfm/#disallowed-raw-html-extension-
func FilterTagGFM(tag []byte) bool {
	tagAtom := atom.Lookup(tag)
	return tagAtom == atom.Title ||
		tagAtom == atom.Textarea ||
		tagAtom == atom.Style ||
		tagAtom == atom.Xmp ||
		tagAtom == atom.Iframe ||
		tagAtom == atom.Noembed ||
		tagAtom == atom.Noframes ||
		tagAtom == atom.Script ||
		tagAtom == atom.Plaintext
}
