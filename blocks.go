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
	"strconv"
	"strings"
)

// Priorities of the built-in block processors.
// Extensions pick priorities relative to these.
const (
	EmptyBlockPriority     = 100
	CodeBlockPriority      = 80
	HeadingPriority        = 70
	ThematicBreakPriority  = 50
	BlockQuotePriority     = 20
	ParagraphBlockPriority = 10
)

// codeBlockIndentLimit is the column width of an indent
// required to start an indented code block.
const codeBlockIndentLimit = 4

func registerBlockProcessors(p *BlockParser) {
	p.Processors.Register("empty", emptyBlockProcessor{}, EmptyBlockPriority)
	p.Processors.Register("indent", codeBlockProcessor{}, CodeBlockPriority)
	p.Processors.Register("hashheader", headingProcessor{parser: p}, HeadingPriority)
	p.Processors.Register("hr", thematicBreakProcessor{parser: p}, ThematicBreakPriority)
	p.Processors.Register("quote", blockQuoteProcessor{parser: p}, BlockQuotePriority)
	p.Processors.Register("paragraph", paragraphProcessor{}, ParagraphBlockPriority)
}

// emptyBlockProcessor consumes blank blocks
// and blocks that begin with a blank line.
type emptyBlockProcessor struct{}

func (emptyBlockProcessor) Test(parent *Element, block string) bool {
	return block == "" || strings.HasPrefix(block, "\n")
}

func (emptyBlockProcessor) Run(parent *Element, blocks *Blocks) bool {
	block := blocks.Pop()
	filler := blockSeparator
	if block != "" {
		filler = "\n"
		if rest := block[1:]; rest != "" {
			blocks.Insert(0, rest)
		}
	}
	// Blank lines between code blocks belong to the code.
	if code := lastCodeBlock(parent); code != nil {
		code.Value += filler
	}
	return true
}

// codeBlockProcessor handles indented code blocks.
// Consecutive code blocks merge into the same pre element.
type codeBlockProcessor struct{}

func (codeBlockProcessor) Test(parent *Element, block string) bool {
	return strings.HasPrefix(block, strings.Repeat(" ", codeBlockIndentLimit))
}

func (codeBlockProcessor) Run(parent *Element, blocks *Blocks) bool {
	code, rest := detab(blocks.Pop())
	code = strings.TrimRight(code, " \n") + "\n"
	if prev := lastCodeBlock(parent); prev != nil {
		prev.Value += "\n" + code
	} else {
		parent.SubElement("pre").SubElement("code").AppendAtomicText(code)
	}
	if rest != "" {
		blocks.Insert(0, rest)
	}
	return true
}

// detab removes one level of indentation from the leading indented lines
// of block and returns the remaining lines separately.
func detab(block string) (indented, rest string) {
	lines := strings.Split(block, "\n")
	prefix := strings.Repeat(" ", codeBlockIndentLimit)
	var out []string
	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, prefix):
			out = append(out, line[len(prefix):])
		case isBlankLine(line):
			out = append(out, "")
		default:
			return strings.Join(out, "\n"), strings.Join(lines[len(out):], "\n")
		}
	}
	return strings.Join(out, "\n"), ""
}

// lastCodeBlock returns the text of parent's last child
// if that child is a pre element wrapping code.
func lastCodeBlock(parent *Element) *Text {
	pre := parent.LastChild().Element()
	if pre == nil || pre.Tag != "pre" {
		return nil
	}
	code := pre.LastChild().Element()
	if code == nil || code.Tag != "code" {
		return nil
	}
	return code.LastChild().Text()
}

// headingProcessor handles ATX headings anywhere in a block.
// Lines before the heading are parsed on their own
// and lines after it are returned to the sequence.
type headingProcessor struct {
	parser *BlockParser
}

func (headingProcessor) Test(parent *Element, block string) bool {
	start, _ := findLine(block, func(line string) bool {
		return parseATXHeading(line).level > 0
	})
	return start >= 0
}

func (hp headingProcessor) Run(parent *Element, blocks *Blocks) bool {
	block := blocks.Pop()
	start, end := findLine(block, func(line string) bool {
		return parseATXHeading(line).level > 0
	})
	if before := strings.TrimRight(block[:start], "\n"); before != "" {
		hp.parser.ParseBlocks(parent, NewBlocks(before))
	}
	line := block[start:end]
	h := parseATXHeading(line)
	heading := parent.SubElement("h" + strconv.Itoa(h.level))
	if content := strings.TrimSpace(line[h.contentStart:h.contentEnd]); content != "" {
		heading.AppendText(content)
	}
	if after := strings.TrimLeft(block[end:], "\n"); after != "" {
		blocks.Insert(0, after)
	}
	return true
}

// thematicBreakProcessor handles thematic breaks anywhere in a block.
type thematicBreakProcessor struct {
	parser *BlockParser
}

func (thematicBreakProcessor) Test(parent *Element, block string) bool {
	start, _ := findLine(block, isThematicBreak)
	return start >= 0
}

func (tp thematicBreakProcessor) Run(parent *Element, blocks *Blocks) bool {
	block := blocks.Pop()
	start, end := findLine(block, isThematicBreak)
	if before := strings.TrimRight(block[:start], "\n"); before != "" {
		tp.parser.ParseBlocks(parent, NewBlocks(before))
	}
	parent.SubElement("hr")
	if after := strings.TrimLeft(block[end:], "\n"); after != "" {
		blocks.Insert(0, after)
	}
	return true
}

func isThematicBreak(line string) bool {
	return indentWidth(line) < codeBlockIndentLimit && parseThematicBreak(trimIndent(line)) >= 0
}

// blockQuoteProcessor handles block quotes.
// Lines after the first quoted line belong to the quote
// even without a marker (lazy continuation),
// and a quote directly following another quote continues it.
type blockQuoteProcessor struct {
	parser *BlockParser
}

func (blockQuoteProcessor) Test(parent *Element, block string) bool {
	start, _ := findLine(block, isBlockQuoteLine)
	return start >= 0
}

func (qp blockQuoteProcessor) Run(parent *Element, blocks *Blocks) bool {
	block := blocks.Pop()
	start, _ := findLine(block, isBlockQuoteLine)
	if before := block[:start]; before != "" {
		qp.parser.ParseBlocks(parent, NewBlocks(strings.TrimRight(before, "\n")))
	}
	lines := strings.Split(block[start:], "\n")
	for i, line := range lines {
		if isBlockQuoteLine(line) {
			line = trimIndent(line)
			lines[i] = line[parseBlockQuote(line):]
		}
	}
	quote := parent.LastChild().Element()
	if quote == nil || quote.Tag != "blockquote" {
		quote = parent.SubElement("blockquote")
	}
	qp.parser.ParseChunk(quote, strings.Join(lines, "\n"))
	return true
}

func isBlockQuoteLine(line string) bool {
	return indentWidth(line) < codeBlockIndentLimit && parseBlockQuote(trimIndent(line)) >= 0
}

// paragraphProcessor accepts any block.
// It must run after every other processor.
type paragraphProcessor struct{}

func (paragraphProcessor) Test(parent *Element, block string) bool {
	return true
}

func (paragraphProcessor) Run(parent *Element, blocks *Blocks) bool {
	if block := strings.TrimSpace(blocks.Pop()); block != "" {
		parent.SubElement("p").AppendText(block)
	}
	return true
}

// findLine returns the byte offsets of the first line in block
// that satisfies match, excluding the line ending.
// start is -1 if no line matches.
func findLine(block string, match func(line string) bool) (start, end int) {
	for start = 0; start <= len(block); start = end + 1 {
		end = strings.IndexByte(block[start:], '\n')
		if end < 0 {
			end = len(block)
		} else {
			end += start
		}
		if match(block[start:end]) {
			return start, end
		}
	}
	return -1, -1
}

func indentWidth(line string) int {
	return len(line) - len(trimIndent(line))
}

func trimIndent(line string) string {
	return strings.TrimLeft(line, " \t")
}

// parseThematicBreak attempts to parse the line as a thematic break.
// It returns the end of the thematic break characters
// or -1 if the line is not a thematic break.
// parseThematicBreak assumes that the caller has stripped any leading indentation.
func parseThematicBreak(line string) (end int) {
	n := 0
	var want byte
	for i := 0; i < len(line); i++ {
		switch b := line[i]; b {
		case '-', '_', '*':
			if n == 0 {
				want = b
			} else if b != want {
				return -1
			}
			n++
			end = i + 1
		case ' ', '\t', '\r', '\n':
			// Ignore
		default:
			return -1
		}
	}
	if n < 3 {
		return -1
	}
	return end
}

// parseBlockQuote attempts to parse a block quote marker from the beginning of the line.
// It returns the end of the block quote marker
// or -1 if the line does not begin with the marker.
// parseBlockQuote assumes that the caller has stripped any leading indentation.
func parseBlockQuote(line string) (end int) {
	if len(line) == 0 || line[0] != '>' {
		return -1
	}
	if len(line) > 1 && line[1] == ' ' {
		return 2
	}
	return 1
}

type atxHeading struct {
	level        int // 1-6
	contentStart int
	contentEnd   int
}

// parseATXHeading attempts to parse the line as an ATX heading.
// The level is zero if the line is not an ATX heading.
// Offsets in the result are relative to the start of line,
// which may be indented by up to three spaces.
func parseATXHeading(line string) atxHeading {
	indent := indentWidth(line)
	if indent >= codeBlockIndentLimit {
		return atxHeading{}
	}
	h := atxHeading{level: indent}
	for h.level < len(line) && line[h.level] == '#' {
		h.level++
	}
	h.level -= indent
	if h.level == 0 || h.level > 6 {
		return atxHeading{}
	}

	// Consume required whitespace before heading.
	i := indent + h.level
	if i >= len(line) {
		h.contentStart = i
		h.contentEnd = i
		return h
	}
	if !(line[i] == ' ' || line[i] == '\t') {
		return atxHeading{}
	}
	i++

	// Advance past leading whitespace.
	for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
		i++
	}
	h.contentStart = i

	// Find end of heading line. Skip past trailing spaces.
	h.contentEnd = len(line)
	hitHash := false
scanBack:
	for ; h.contentEnd > h.contentStart; h.contentEnd-- {
		switch line[h.contentEnd-1] {
		case ' ', '\t':
			if isEndEscaped(line[:h.contentEnd-1]) {
				break scanBack
			}
		case '#':
			hitHash = true
			break scanBack
		default:
			break scanBack
		}
	}
	if !hitHash {
		return h
	}

	// We've encountered one hashmark '#'.
	// Consume all of them, unless they are preceded by a space or tab.
scanTrailingHashes:
	for i := h.contentEnd - 1; ; i-- {
		if i <= h.contentStart {
			h.contentEnd = h.contentStart
			break
		}
		switch line[i] {
		case '#':
			// Keep going.
		case ' ', '\t':
			h.contentEnd = i + 1
			break scanTrailingHashes
		default:
			return h
		}
	}
	// We've hit the end of hashmarks. Trim trailing whitespace.
	for ; h.contentEnd > h.contentStart; h.contentEnd-- {
		if b := line[h.contentEnd-1]; !(b == ' ' || b == '\t') || isEndEscaped(line[:h.contentEnd-1]) {
			break
		}
	}
	return h
}
