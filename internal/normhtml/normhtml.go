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

// Package normhtml provides a function for normalizing HTML
// which ignores insignificant output differences,
// like the newlines renderers place around block-level elements.
// It is used to compare the output of different renderers in tests.
package normhtml

import (
	"bytes"
	"regexp"
	"sort"
	"unicode"

	"go4.org/bytereplacer"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var whitespaceRE = regexp.MustCompile(`\s+`)

var htmlEscaper = bytereplacer.New(
	"&", "&amp;",
	`'`, "&apos;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&quot;",
)

// Equal reports whether a and b are the same HTML
// after normalization.
func Equal(a, b []byte) bool {
	return bytes.Equal(NormalizeHTML(a), NormalizeHTML(b))
}

// NormalizeString is [NormalizeHTML] for strings.
func NormalizeString(s string) string {
	return string(NormalizeHTML([]byte(s)))
}

// NormalizeHTML strips insignificant output differences from HTML.
func NormalizeHTML(b []byte) []byte {
	type htmlAttribute struct {
		key   string
		value string
	}

	tok := html.NewTokenizerFragment(bytes.NewReader(b), "div")
	var output []byte
	last := html.StartTagToken
	var lastTag string
	inPre := false
	for {
		tt := tok.Next()
		switch tt {
		case html.ErrorToken:
			return output
		case html.TextToken:
			data := tok.Text()
			afterTag := last == html.EndTagToken || last == html.StartTagToken
			afterBlockTag := afterTag && isBlockTag(lastTag)
			if afterTag && lastTag == "br" {
				data = bytes.TrimLeft(data, "\n")
			}
			if !inPre {
				data = whitespaceRE.ReplaceAll(data, []byte(" "))
			}
			if afterBlockTag && !inPre {
				if last == html.StartTagToken {
					data = bytes.TrimLeftFunc(data, unicode.IsSpace)
				} else if last == html.EndTagToken {
					data = bytes.TrimSpace(data)
				}
			}
			output = append(output, htmlEscaper.Replace(bytes.Clone(data))...)
		case html.EndTagToken:
			tagBytes, _ := tok.TagName()
			tag := string(tagBytes)
			if tag == "pre" {
				inPre = false
			} else if isBlockTag(tag) {
				output = bytes.TrimRightFunc(output, unicode.IsSpace)
			}
			output = append(output, "</"...)
			output = append(output, tag...)
			output = append(output, ">"...)
			lastTag = tag
		case html.StartTagToken, html.SelfClosingTagToken:
			tagBytes, hasAttr := tok.TagName()
			tag := string(tagBytes)
			if tag == "pre" {
				inPre = true
			}
			if isBlockTag(tag) {
				output = bytes.TrimRightFunc(output, unicode.IsSpace)
			}
			output = append(output, "<"...)
			output = append(output, tag...)
			if hasAttr {
				var attrs []htmlAttribute
				for {
					k, v, more := tok.TagAttr()
					attrs = append(attrs, htmlAttribute{string(k), string(v)})
					if !more {
						break
					}
				}
				sort.Slice(attrs, func(i, j int) bool {
					return attrs[i].key < attrs[j].key
				})
				for _, attr := range attrs {
					output = append(output, " "...)
					output = append(output, attr.key...)
					if attr.value != "" {
						output = append(output, `="`...)
						output = append(output, html.EscapeString(attr.value)...)
						output = append(output, `"`...)
					}
				}
			}
			output = append(output, ">"...)
			lastTag = tag
		case html.CommentToken:
			output = append(output, tok.Raw()...)
		}

		last = tt
		if tt == html.SelfClosingTagToken {
			last = html.EndTagToken
		}
	}
}

var blockTags = make(map[string]struct{})

func init() {
	for _, a := range []atom.Atom{
		atom.Address,
		atom.Article,
		atom.Aside,
		atom.Blockquote,
		atom.Body,
		atom.Button,
		atom.Canvas,
		atom.Caption,
		atom.Col,
		atom.Colgroup,
		atom.Dd,
		atom.Details,
		atom.Div,
		atom.Dl,
		atom.Dt,
		atom.Embed,
		atom.Fieldset,
		atom.Figcaption,
		atom.Figure,
		atom.Footer,
		atom.Form,
		atom.H1,
		atom.H2,
		atom.H3,
		atom.H4,
		atom.H5,
		atom.H6,
		atom.Header,
		atom.Hgroup,
		atom.Hr,
		atom.Iframe,
		atom.Li,
		atom.Main,
		atom.Map,
		atom.Menu,
		atom.Nav,
		atom.Object,
		atom.Ol,
		atom.Output,
		atom.P,
		atom.Pre,
		atom.Progress,
		atom.Script,
		atom.Section,
		atom.Style,
		atom.Summary,
		atom.Table,
		atom.Tbody,
		atom.Td,
		atom.Textarea,
		atom.Tfoot,
		atom.Th,
		atom.Thead,
		atom.Tr,
		atom.Ul,
		atom.Video,
	} {
		blockTags[a.String()] = struct{}{}
	}
}

func isBlockTag(tag string) bool {
	_, ok := blockTags[tag]
	return ok
}
