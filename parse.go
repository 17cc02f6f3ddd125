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
	"strings"

	"go4.org/bytereplacer"
)

// tabStopSize is the multiple of columns that a tab advances to.
const tabStopSize = 4

// blockSeparator divides a chunk of text into blocks.
const blockSeparator = "\n\n"

// A BlockProcessor recognizes one kind of block.
//
// For the first block in the sequence,
// the [BlockParser] calls Test and then, if Test returned true, Run.
// Run either handles the input,
// consuming at least one block from the sequence and returning true,
// or declines by returning false with the sequence left exactly as it was.
// A declined Run lets lower priority processors try the same block.
type BlockProcessor interface {
	Test(parent *Element, block string) bool
	Run(parent *Element, blocks *Blocks) bool
}

// Blocks is a mutable sequence of raw text blocks.
// Blocks are usually separated by blank lines in the source.
type Blocks struct {
	list []string
}

// NewBlocks returns a sequence holding a copy of the given blocks.
func NewBlocks(blocks ...string) *Blocks {
	return &Blocks{list: append([]string(nil), blocks...)}
}

// SplitBlocks splits text on blank lines into a new sequence.
func SplitBlocks(text string) *Blocks {
	return &Blocks{list: strings.Split(text, blockSeparator)}
}

// Len returns the number of blocks in the sequence.
func (b *Blocks) Len() int {
	if b == nil {
		return 0
	}
	return len(b.list)
}

// At returns the i'th block.
func (b *Blocks) At(i int) string {
	return b.list[i]
}

// Set replaces the i'th block.
func (b *Blocks) Set(i int, block string) {
	b.list[i] = block
}

// Insert inserts a block before the i'th block.
// Insert(b.Len(), block) appends.
func (b *Blocks) Insert(i int, block string) {
	b.list = append(b.list, "")
	copy(b.list[i+1:], b.list[i:])
	b.list[i] = block
}

// Pop removes the first block and returns it.
// It panics if the sequence is empty.
func (b *Blocks) Pop() string {
	if len(b.list) == 0 {
		panic("Pop on empty Blocks")
	}
	first := b.list[0]
	b.list = b.list[1:]
	return first
}

// Consume removes the first n blocks.
// It panics if n is greater than b.Len().
func (b *Blocks) Consume(n int) {
	if n > len(b.list) {
		panic("consumed past end of Blocks")
	}
	b.list = b.list[n:]
}

// Strings returns a copy of the blocks in the sequence.
func (b *Blocks) Strings() []string {
	if b == nil {
		return nil
	}
	return append([]string(nil), b.list...)
}

// A BlockParser converts block sequences into element trees
// using its registered processors.
type BlockParser struct {
	// Processors are the block processors consulted in priority order.
	Processors Registry[BlockProcessor]
}

// ParseDocument parses preprocessed text into a new document root.
// The root element has an empty tag.
// Trailing blank lines are removed from code blocks.
func (p *BlockParser) ParseDocument(text string) *Element {
	root := NewElement("")
	p.ParseChunk(root, text)
	trimCodeBlocks(root)
	return root
}

// trimCodeBlocks ends the text of every code block
// with exactly one newline.
func trimCodeBlocks(root *Element) {
	Walk(root.AsNode(), &WalkOptions{
		Pre: func(c *Cursor) bool {
			e := c.Node().Element()
			if e == nil {
				return false
			}
			if e.Tag != "pre" {
				return true
			}
			code := e.FirstChild().Element()
			if code == nil || code.Tag != "code" || code.ChildCount() != 1 {
				return false
			}
			if t := code.FirstChild().Text(); t != nil {
				t.Value = strings.TrimRight(t.Value, " \t\n") + "\n"
			}
			return false
		},
	})
}

// ParseChunk splits text into blocks and parses them as children of parent.
func (p *BlockParser) ParseChunk(parent *Element, text string) {
	p.ParseBlocks(parent, SplitBlocks(text))
}

// ParseBlocks parses the sequence of blocks as children of parent
// until the sequence is exhausted.
// If no processor handles the first block,
// it is appended to parent as text.
func (p *BlockParser) ParseBlocks(parent *Element, blocks *Blocks) {
	names := p.Processors.Names()
	processors := p.Processors.Items()
	for blocks.Len() > 0 {
		n := blocks.Len()
		handled := false
		for i, proc := range processors {
			if !proc.Test(parent, blocks.At(0)) {
				continue
			}
			if proc.Run(parent, blocks) {
				if blocks.Len() >= n {
					panic(fmt.Sprintf("block processor %q reported success without consuming a block", names[i]))
				}
				handled = true
				break
			}
		}
		if !handled {
			parent.AppendText(blocks.Pop())
		}
	}
}

// insecureChars are the bytes that must not reach the parsers as-is.
// NUL becomes the Unicode replacement character.
// The escape placeholder markers are dropped.
const insecureChars = "\x00" + placeholderStart + placeholderEnd

var insecureReplacer = bytereplacer.New(
	"\x00", "\ufffd",
	placeholderStart, "",
	placeholderEnd, "",
)

// normalize prepares source for block splitting:
// it replaces NUL bytes, removes the escape placeholder markers,
// normalizes line endings, expands tabs, blanks whitespace-only lines,
// and terminates the text with a block separator.
func normalize(source []byte) string {
	if bytes.ContainsAny(source, insecureChars) {
		source = insecureReplacer.Replace(bytes.Clone(source))
	}
	s := strings.ReplaceAll(string(source), "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	sb := new(strings.Builder)
	sb.Grow(len(s) + len(blockSeparator))
	for len(s) > 0 {
		line := s
		eol := strings.IndexByte(s, '\n')
		if eol >= 0 {
			line, s = s[:eol], s[eol+1:]
		} else {
			s = ""
		}
		if !isBlankLine(line) {
			writeDetabbed(sb, line)
		}
		if eol >= 0 {
			sb.WriteByte('\n')
		}
	}
	sb.WriteString(blockSeparator)
	return sb.String()
}

// writeDetabbed writes line with tabs expanded to spaces.
func writeDetabbed(sb *strings.Builder, line string) {
	col := 0
	for _, c := range line {
		if c == '\t' {
			n := tabStopSize - col%tabStopSize
			for i := 0; i < n; i++ {
				sb.WriteByte(' ')
			}
			col += n
			continue
		}
		sb.WriteRune(c)
		col++
	}
}

func isBlankLine(line string) bool {
	for i := 0; i < len(line); i++ {
		if b := line[i]; !(b == '\r' || b == '\n' || b == ' ' || b == '\t') {
			return false
		}
	}
	return true
}

// isEndEscaped reports whether s ends with an odd number of backslashes.
func isEndEscaped(s string) bool {
	n := 0
	for ; n < len(s); n++ {
		if s[len(s)-n-1] != '\\' {
			break
		}
	}
	return n%2 == 1
}
