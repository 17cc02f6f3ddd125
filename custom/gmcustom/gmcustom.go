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

// Package gmcustom provides the custom class syntax
// as an extension for the [goldmark] Markdown parser.
//
// The extension recognizes the same three forms as package custom,
// with two differences that follow from goldmark's line-oriented parsing:
// span and summary matches do not cross line boundaries,
// and a details region closes on a line consisting of "}}}".
//
// [goldmark]: https://github.com/yuin/goldmark
package gmcustom

import (
	"strconv"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"
)

// Priorities of the extension's parsers.
// Lower values run first, as with goldmark's built-in parsers.
const (
	// SpanClassPriority is before goldmark's link parser,
	// which also triggers on '!'.
	SpanClassPriority = 150
	SummaryPriority   = 450
	DetailsPriority   = 175
)

// Node kinds added by the extension.
var (
	KindSpanClass = ast.NewNodeKind("SpanClass")
	KindSummary   = ast.NewNodeKind("Summary")
	KindDetails   = ast.NewNodeKind("Details")
)

// SpanClass is an inline node for "!!class|text!!".
// The class is stored in the node's "class" attribute
// and the text is its only child.
type SpanClass struct {
	ast.BaseInline
}

// NewSpanClass returns a new SpanClass node with the given class.
func NewSpanClass(class []byte) *SpanClass {
	n := new(SpanClass)
	n.SetAttributeString("class", class)
	return n
}

// Kind implements [ast.Node].
func (n *SpanClass) Kind() ast.NodeKind {
	return KindSpanClass
}

// Dump implements [ast.Node].
func (n *SpanClass) Dump(source []byte, level int) {
	class, _ := n.AttributeString("class")
	ast.DumpHelper(n, source, level, map[string]string{
		"Class": string(class.([]byte)),
	}, nil)
}

// Summary is an inline node for "{{title}}".
// The title is its only child.
type Summary struct {
	ast.BaseInline
}

// NewSummary returns a new empty Summary node.
func NewSummary() *Summary {
	return new(Summary)
}

// Kind implements [ast.Node].
func (n *Summary) Kind() ast.NodeKind {
	return KindSummary
}

// Dump implements [ast.Node].
func (n *Summary) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// Details is a block node for a region fenced by "{{{" and "}}}".
type Details struct {
	ast.BaseBlock
	// Open is true if the region is shown expanded.
	Open bool
}

// NewDetails returns a new empty Details node.
func NewDetails() *Details {
	return new(Details)
}

// Kind implements [ast.Node].
func (n *Details) Kind() ast.NodeKind {
	return KindDetails
}

// Dump implements [ast.Node].
func (n *Details) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Open": strconv.FormatBool(n.Open),
	}, nil)
}

// Extender adds the custom class syntax to a [goldmark.Markdown].
type Extender struct {
	// If DetailsOpen is true, details elements are shown expanded.
	DetailsOpen bool
}

// Extension is the extension with default options.
var Extension goldmark.Extender = new(Extender)

// Extend implements [goldmark.Extender].
func (e *Extender) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithInlineParsers(
			util.Prioritized(spanClassParser{}, SpanClassPriority),
			util.Prioritized(summaryParser{}, SummaryPriority),
		),
		parser.WithBlockParsers(
			util.Prioritized(&detailsParser{open: e.DetailsOpen}, DetailsPriority),
		),
	)
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(NewHTMLRenderer(), 500),
	))
}
