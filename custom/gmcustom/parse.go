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

package gmcustom

import (
	"bytes"
	"regexp"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"zombiezen.com/go/markup/custom"
)

var (
	spanClassRegexp = regexp.MustCompile(`^(?:` + custom.SpanClassExpr + `)`)
	summaryRegexp   = regexp.MustCompile(`^(?:` + custom.SummaryExpr + `)`)

	spanClassGroup = spanClassRegexp.SubexpIndex("class")
	spanTextGroup  = spanClassRegexp.SubexpIndex("text")
	summaryGroup   = summaryRegexp.SubexpIndex("title")
)

type spanClassParser struct{}

func (spanClassParser) Trigger() []byte {
	return []byte{'!'}
}

func (spanClassParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, segment := block.PeekLine()
	loc := spanClassRegexp.FindSubmatchIndex(line)
	if loc == nil {
		return nil
	}
	class := line[loc[2*spanClassGroup]:loc[2*spanClassGroup+1]]
	node := NewSpanClass(util.UnescapePunctuations(class))
	node.AppendChild(node, groupText(segment, loc, spanTextGroup))
	block.Advance(loc[1])
	return node
}

func (spanClassParser) CloseBlock(parent ast.Node, pc parser.Context) {}

type summaryParser struct{}

func (summaryParser) Trigger() []byte {
	return []byte{'{'}
}

func (summaryParser) Parse(parent ast.Node, block text.Reader, pc parser.Context) ast.Node {
	line, segment := block.PeekLine()
	loc := summaryRegexp.FindSubmatchIndex(line)
	if loc == nil {
		return nil
	}
	node := NewSummary()
	node.AppendChild(node, groupText(segment, loc, summaryGroup))
	block.Advance(loc[1])
	return node
}

func (summaryParser) CloseBlock(parent ast.Node, pc parser.Context) {}

// groupText returns a text node for the i'th submatch of a match in the line at segment.
// The inline parser does not descend into the node.
func groupText(segment text.Segment, loc []int, i int) *ast.Text {
	return ast.NewTextSegment(text.NewSegment(segment.Start+loc[2*i], segment.Start+loc[2*i+1]))
}

// fenceCloseLine matches a closing fence line,
// possibly inside block quotes.
var fenceCloseLine = regexp.MustCompile(`(?m)^[ \t>]*\}{3}[ \t]*$`)

type detailsParser struct {
	open bool
}

func (p *detailsParser) Trigger() []byte {
	return []byte{'{'}
}

// Open starts a details region only if a closing fence follows,
// so an unclosed opener is left to the paragraph parser.
func (p *detailsParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	if !isFenceLine(line, "{{{") {
		return nil, parser.NoChildren
	}
	if !fenceCloseLine.Match(reader.Source()[segment.Stop:]) {
		return nil, parser.NoChildren
	}
	advanceLine(reader)
	node := NewDetails()
	node.Open = p.open
	return node, parser.HasChildren
}

func (p *detailsParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, _ := reader.PeekLine()
	if isFenceLine(line, "}}}") {
		advanceLine(reader)
		return parser.Close
	}
	return parser.Continue | parser.HasChildren
}

func (p *detailsParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {}

func (p *detailsParser) CanInterruptParagraph() bool {
	return false
}

func (p *detailsParser) CanAcceptIndentedLine() bool {
	return false
}

func isFenceLine(line []byte, fence string) bool {
	return string(util.TrimRightSpace(util.TrimLeftSpace(line))) == fence
}

// advanceLine moves the reader to the end of the current line,
// leaving the line ending in place.
func advanceLine(reader text.Reader) {
	line, segment := reader.PeekLine()
	newline := 0
	if bytes.HasSuffix(line, []byte("\n")) {
		newline = 1
	}
	reader.Advance(segment.Stop - segment.Start - newline + segment.Padding)
}
