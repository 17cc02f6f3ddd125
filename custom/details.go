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

package custom

import (
	"regexp"

	"zombiezen.com/go/markup"
)

var (
	// fenceOpen only matches at the very start of a block.
	fenceOpen = regexp.MustCompile(`^\{{3}\n`)
	// fenceClose matches anywhere, including in the middle of a line.
	fenceClose = regexp.MustCompile(`\}{3}`)
)

// DetailsProcessor is a [markup.BlockProcessor]
// that wraps fenced blocks in a details element.
//
// A fence opens with a block that starts with a "{{{" line.
// It closes at the first block, starting with the opening block itself,
// that contains "}}}" anywhere.
// Every "}}}" in the closing block is removed.
// If no block closes the fence, the processor declines
// and leaves the blocks as they were.
//
// Use [NewDetailsProcessor] to create one:
// a DetailsProcessor without a Parser panics in Run.
type DetailsProcessor struct {
	// Parser parses the blocks inside the fence. It must not be nil.
	Parser *markup.BlockParser
	// If Open is true, the details element gets an open attribute
	// so that browsers show it expanded.
	Open bool
}

// NewDetailsProcessor returns a processor that parses fenced blocks with parser.
// It panics if parser is nil.
func NewDetailsProcessor(parser *markup.BlockParser) *DetailsProcessor {
	if parser == nil {
		panic("custom.NewDetailsProcessor called with nil parser")
	}
	return &DetailsProcessor{Parser: parser}
}

// Test reports whether block starts with a fence opening line.
func (p *DetailsProcessor) Test(parent *markup.Element, block string) bool {
	return fenceOpen.MatchString(block)
}

// Run parses the fenced blocks into a new details element under parent.
func (p *DetailsProcessor) Run(parent *markup.Element, blocks *markup.Blocks) bool {
	if p.Parser == nil {
		panic("custom.DetailsProcessor has no Parser")
	}
	if blocks.Len() == 0 {
		return false
	}
	work := blocks.Strings()
	work[0] = fenceOpen.ReplaceAllLiteralString(work[0], "")
	for k, block := range work {
		if !fenceClose.MatchString(block) {
			continue
		}
		work[k] = fenceClose.ReplaceAllLiteralString(block, "")
		details := parent.SubElement("details")
		if p.Open {
			details.Set("open", "")
		}
		p.Parser.ParseBlocks(details, markup.NewBlocks(work[:k+1]...))
		blocks.Consume(k + 1)
		return true
	}
	return false
}
