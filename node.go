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

import "strings"

// Node is a pointer to an [Element] or a [Text].
// Nodes can be compared for equality using the == operator.
// The zero value does not reference anything.
type Node struct {
	elem *Element
	text *Text
}

// Element returns the referenced element
// or nil if the pointer does not reference an element.
func (n Node) Element() *Element {
	return n.elem
}

// Text returns the referenced text
// or nil if the pointer does not reference text.
func (n Node) Text() *Text {
	return n.text
}

// IsZero reports whether n does not reference anything.
func (n Node) IsZero() bool {
	return n.elem == nil && n.text == nil
}

// ChildCount returns the number of children the node has.
// Calling ChildCount on the zero value or on text returns 0.
func (n Node) ChildCount() int {
	return n.elem.ChildCount()
}

// Child returns the i'th child of the node.
func (n Node) Child(i int) Node {
	if n.elem == nil {
		panic("Child on non-element Node")
	}
	return n.elem.Child(i)
}

// An Element is a tagged node in a document tree,
// like a paragraph or a span.
// The document root has an empty tag.
type Element struct {
	Tag      string
	attrs    []Attribute
	children []Node
}

// Attribute is a single name/value pair on an [Element].
type Attribute struct {
	Key   string
	Value string
}

// NewElement returns a new element with the given tag and no children.
func NewElement(tag string) *Element {
	return &Element{Tag: tag}
}

// AsNode converts the element to a [Node] pointer.
func (e *Element) AsNode() Node {
	if e == nil {
		return Node{}
	}
	return Node{elem: e}
}

// Attrs returns the element's attributes in the order they were first set.
// The caller must not modify the returned slice.
func (e *Element) Attrs() []Attribute {
	if e == nil {
		return nil
	}
	return e.attrs
}

// Get returns the value of the attribute with the given key.
func (e *Element) Get(key string) (value string, ok bool) {
	for _, a := range e.Attrs() {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Set sets the value of an attribute,
// replacing any existing value while keeping its position.
func (e *Element) Set(key, value string) {
	for i := range e.attrs {
		if e.attrs[i].Key == key {
			e.attrs[i].Value = value
			return
		}
	}
	e.attrs = append(e.attrs, Attribute{Key: key, Value: value})
}

// ChildCount returns the number of children the element has.
// Calling ChildCount on nil returns 0.
func (e *Element) ChildCount() int {
	if e == nil {
		return 0
	}
	return len(e.children)
}

// Child returns the i'th child of the element.
func (e *Element) Child(i int) Node {
	return e.children[i]
}

// FirstChild returns the element's first child
// or the zero Node if the element has no children.
func (e *Element) FirstChild() Node {
	if e.ChildCount() == 0 {
		return Node{}
	}
	return e.children[0]
}

// LastChild returns the element's last child
// or the zero Node if the element has no children.
func (e *Element) LastChild() Node {
	if e.ChildCount() == 0 {
		return Node{}
	}
	return e.children[len(e.children)-1]
}

// AppendChild adds n to the end of the element's children.
// Appending the zero Node is a no-op.
func (e *Element) AppendChild(n Node) {
	if n.IsZero() {
		return
	}
	e.children = append(e.children, n)
}

// SubElement creates a new element with the given tag,
// appends it to e, and returns it.
func (e *Element) SubElement(tag string) *Element {
	child := NewElement(tag)
	e.children = append(e.children, child.AsNode())
	return child
}

// AppendText appends a non-atomic text child.
func (e *Element) AppendText(s string) *Text {
	t := NewText(s)
	e.children = append(e.children, t.AsNode())
	return t
}

// AppendAtomicText appends an atomic text child.
func (e *Element) AppendAtomicText(s string) *Text {
	t := NewAtomicText(s)
	e.children = append(e.children, t.AsNode())
	return t
}

// TextContent returns the concatenation of all text under the element.
func (e *Element) TextContent() string {
	sb := new(strings.Builder)
	Walk(e.AsNode(), &WalkOptions{
		Pre: func(c *Cursor) bool {
			if t := c.Node().Text(); t != nil {
				sb.WriteString(t.Value)
			}
			return true
		},
	})
	return sb.String()
}

// Text is a run of character data in a document tree.
type Text struct {
	Value string
	// Atomic text is opaque to inline patterns:
	// the [InlineParser] never scans it.
	Atomic bool
}

// NewText returns a text node that inline patterns may scan.
func NewText(s string) *Text {
	return &Text{Value: s}
}

// NewAtomicText returns a text node that inline patterns will not scan.
func NewAtomicText(s string) *Text {
	return &Text{Value: s, Atomic: true}
}

// AsNode converts the text to a [Node] pointer.
func (t *Text) AsNode() Node {
	if t == nil {
		return Node{}
	}
	return Node{text: t}
}
