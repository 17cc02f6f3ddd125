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

// Package markup provides an extensible converter
// from a small Markdown dialect to HTML.
//
// Conversion happens in three stages.
// A [BlockParser] splits the source into blocks separated by blank lines
// and hands each one to the first [BlockProcessor] that accepts it,
// building an [Element] tree.
// An [InlineParser] then expands the text in the tree
// with its [InlinePattern] values.
// Finally, an [HTMLRenderer] writes the tree as HTML.
// An [Extension] adds processors and patterns to a [Converter]
// at chosen priorities.
package markup

import (
	"fmt"
	"io"
)

// An Extension adds block processors or inline patterns to a [Converter].
type Extension interface {
	Extend(c *Converter)
}

// ExtensionFunc is an adapter to allow the use of an ordinary function
// as an [Extension].
type ExtensionFunc func(c *Converter)

// Extend calls f(c).
func (f ExtensionFunc) Extend(c *Converter) {
	f(c)
}

// A Converter parses source text and renders it as HTML.
// Its parsers may be modified before the first conversion,
// but a Converter must not be modified while it is in use.
// Built-in processors refer back to their parser,
// so a Converter must not be copied after [New].
type Converter struct {
	BlockParser  BlockParser
	InlineParser InlineParser
	Renderer     HTMLRenderer
}

// New returns a new converter with the built-in processors and patterns
// that has been extended by each of the given extensions in order.
func New(exts ...Extension) *Converter {
	c := new(Converter)
	registerBlockProcessors(&c.BlockParser)
	registerInlinePatterns(&c.InlineParser)
	for _, ext := range exts {
		ext.Extend(c)
	}
	return c
}

// Parse parses source into a document tree
// with its inline content fully expanded.
// The returned root element has an empty tag.
func (c *Converter) Parse(source []byte) *Element {
	root := c.BlockParser.ParseDocument(normalize(source))
	c.InlineParser.Rewrite(root)
	return root
}

// Convert parses source and writes it to w as HTML.
func (c *Converter) Convert(w io.Writer, source []byte) error {
	if err := c.Renderer.Render(w, c.Parse(source)); err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	return nil
}

// Convert writes source to w as HTML
// using a new [Converter] with the given extensions.
func Convert(w io.Writer, source []byte, exts ...Extension) error {
	return New(exts...).Convert(w, source)
}
