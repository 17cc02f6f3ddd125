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
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestHTMLRenderer(t *testing.T) {
	tests := []struct {
		name string
		root func() *Element
		want string
	}{
		{
			name: "Paragraph",
			root: func() *Element {
				root := NewElement("")
				root.SubElement("p").AppendText("Hello")
				return root
			},
			want: "<p>Hello</p>",
		},
		{
			name: "BlockSequence",
			root: func() *Element {
				root := NewElement("")
				root.SubElement("p").AppendText("a")
				root.SubElement("hr")
				root.SubElement("p").AppendText("b")
				return root
			},
			want: "<p>a</p>\n<hr>\n<p>b</p>",
		},
		{
			name: "NestedBlocks",
			root: func() *Element {
				root := NewElement("")
				root.SubElement("details").SubElement("p").AppendText("x")
				return root
			},
			want: "<details>\n<p>x</p>\n</details>",
		},
		{
			name: "EscapedAttribute",
			root: func() *Element {
				root := NewElement("")
				span := root.SubElement("p").SubElement("span")
				span.Set("class", `a&"b`)
				span.AppendAtomicText("x")
				return root
			},
			want: `<p><span class="a&amp;&quot;b">x</span></p>`,
		},
		{
			name: "QuotesInText",
			root: func() *Element {
				root := NewElement("")
				span := root.SubElement("p").SubElement("span")
				span.Set("title", `it's "x"`)
				span.AppendText(`it's "x" & <y>`)
				return root
			},
			want: `<p><span title="it's &quot;x&quot;">it's "x" &amp; &lt;y&gt;</span></p>`,
		},
		{
			name: "CodeBlock",
			root: func() *Element {
				root := NewElement("")
				root.SubElement("pre").SubElement("code").AppendAtomicText("a < b\n")
				return root
			},
			want: "<pre><code>a &lt; b\n</code></pre>",
		},
		{
			name: "SummaryStaysInline",
			root: func() *Element {
				root := NewElement("")
				p := root.SubElement("p")
				p.AppendText("see ")
				p.SubElement("summary").AppendAtomicText("More")
				return root
			},
			want: "<p>see <summary>More</summary></p>",
		},
		{
			name: "TextAfterBlock",
			root: func() *Element {
				root := NewElement("")
				quote := root.SubElement("blockquote")
				quote.SubElement("p").AppendText("a")
				quote.AppendText("tail")
				return root
			},
			want: "<blockquote>\n<p>a</p>tail</blockquote>",
		},
		{
			name: "NonRootElement",
			root: func() *Element {
				p := NewElement("p")
				p.AppendText("x")
				return p
			},
			want: "<p>x</p>",
		},
		{
			name: "Empty",
			root: func() *Element {
				return NewElement("")
			},
			want: "",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			buf := new(bytes.Buffer)
			if err := RenderHTML(buf, test.root()); err != nil {
				t.Error("RenderHTML:", err)
			}
			if diff := cmp.Diff(test.want, buf.String()); diff != "" {
				t.Errorf("output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHTMLRendererFilter(t *testing.T) {
	root := NewElement("")
	p := root.SubElement("p")
	p.SubElement("SCRIPT").AppendText("alert(1)")
	p.SubElement("em").AppendText("ok")

	tests := []struct {
		name      string
		filterTag func(tag []byte) bool
		want      string
	}{
		{
			name: "NoFilter",
			want: "<p><SCRIPT>alert(1)</SCRIPT><em>ok</em></p>",
		},
		{
			name:      "GFM",
			filterTag: FilterTagGFM,
			want:      "<p>&lt;SCRIPT>alert(1)&lt;/SCRIPT><em>ok</em></p>",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := &HTMLRenderer{FilterTag: test.filterTag}
			got := string(r.AppendHTML(nil, root))
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestHTMLRendererXHTML(t *testing.T) {
	root := NewElement("")
	root.SubElement("hr")
	r := &HTMLRenderer{XHTML: true}
	if got, want := string(r.AppendHTML(nil, root)), "<hr />"; got != want {
		t.Errorf("output = %q; want %q", got, want)
	}
}

func TestHTMLRendererWriteError(t *testing.T) {
	root := NewElement("")
	root.SubElement("p").AppendText("x")
	errBroken := errors.New("broken pipe")
	err := RenderHTML(failWriter{errBroken}, root)
	if !errors.Is(err, errBroken) {
		t.Errorf("RenderHTML(...) = %v; want %v", err, errBroken)
	}
}

type failWriter struct {
	err error
}

func (w failWriter) Write(p []byte) (int, error) {
	return 0, w.err
}
