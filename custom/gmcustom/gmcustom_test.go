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

package gmcustom_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"zombiezen.com/go/markup/custom/gmcustom"
)

func TestExtension(t *testing.T) {
	tests := []struct {
		name   string
		ext    goldmark.Extender
		source string
		want   string
	}{
		{
			name:   "SpanClass",
			source: "i love!!red|spam!!\n",
			want:   "<p>i love<span class=\"red\">spam</span></p>\n",
		},
		{
			name:   "SpanTextIsNotParsed",
			source: "!!red|**x**!!\n",
			want:   "<p><span class=\"red\">**x**</span></p>\n",
		},
		{
			name:   "SpanEscapes",
			source: `!!a\*b|x\*y<z!!` + "\n",
			want:   "<p><span class=\"a*b\">x*y&lt;z</span></p>\n",
		},
		{
			name:   "ImageStillWorks",
			source: "![alt](img.png)\n",
			want:   "<p><img src=\"img.png\" alt=\"alt\"></p>\n",
		},
		{
			name:   "Summary",
			source: "{{summary_title}}\n",
			want:   "<p><summary>summary_title</summary></p>\n",
		},
		{
			name:   "SummaryTextIsNotParsed",
			source: "see {{!!red|x!!}} below\n",
			want:   "<p>see <summary>!!red|x!!</summary> below</p>\n",
		},
		{
			name:   "Details",
			source: "{{{\nHello\n}}}\n",
			want:   "<details>\n<p>Hello</p>\n</details>\n",
		},
		{
			name:   "DetailsOpen",
			ext:    &gmcustom.Extender{DetailsOpen: true},
			source: "{{{\nHello\n}}}\n",
			want:   "<details open=\"\">\n<p>Hello</p>\n</details>\n",
		},
		{
			name:   "DetailsAcrossParagraphs",
			source: "{{{\n{{More}}\n\nbody !!red|x!!\n}}}\n\nafter\n",
			want: "<details>\n<p><summary>More</summary></p>\n" +
				"<p>body <span class=\"red\">x</span></p>\n</details>\n" +
				"<p>after</p>\n",
		},
		{
			name:   "UnclosedDetails",
			source: "{{{\nno closer\n",
			want:   "<p>{{{\nno closer</p>\n",
		},
		{
			name:   "DetailsInBlockQuote",
			source: "> {{{\n> quoted\n> }}}\n",
			want:   "<blockquote>\n<details>\n<p>quoted</p>\n</details>\n</blockquote>\n",
		},
		{
			name:   "PassThrough",
			source: "Hello, *World*! {single}\n",
			want:   "<p>Hello, <em>World</em>! {single}</p>\n",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			ext := test.ext
			if ext == nil {
				ext = gmcustom.Extension
			}
			md := goldmark.New(goldmark.WithExtensions(ext))
			got := new(bytes.Buffer)
			if err := md.Convert([]byte(test.source), got); err != nil {
				t.Fatal("Convert:", err)
			}
			if diff := cmp.Diff(test.want, got.String()); diff != "" {
				t.Errorf("Convert(%q) (-want +got):\n%s", test.source, diff)
			}
		})
	}
}

func TestParseTree(t *testing.T) {
	source := []byte("{{{\n{{t}} and !!c|x!!\n}}}\n")
	md := goldmark.New(goldmark.WithExtensions(gmcustom.Extension))
	doc := md.Parser().Parse(text.NewReader(source))

	var kinds []string
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering {
			kinds = append(kinds, n.Kind().String())
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"Document",
		"Details",
		"Paragraph",
		"Summary",
		"Text",
		"Text",
		"SpanClass",
		"Text",
	}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("node kinds (-want +got):\n%s", diff)
	}
}
