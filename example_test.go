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

package markup_test

import (
	"fmt"
	"os"

	"zombiezen.com/go/markup"
	"zombiezen.com/go/markup/custom"
)

func Example() {
	markup.Convert(os.Stdout, []byte("i love!!red|spam!!\n"), custom.Extension{})
	// Output:
	// <p>i love<span class="red">spam</span></p>
}

func ExampleConverter_Parse() {
	root := markup.New().Parse([]byte("# Title\n\nHello, **World**!\n"))
	markup.Walk(root.AsNode(), &markup.WalkOptions{
		Pre: func(c *markup.Cursor) bool {
			if e := c.Node().Element(); e != nil && e.Tag != "" {
				fmt.Println(e.Tag)
			}
			return true
		},
	})
	// Output:
	// h1
	// p
	// strong
}

func ExampleExtensionFunc() {
	strikethrough := markup.ExtensionFunc(func(c *markup.Converter) {
		pattern := markup.NewPattern(`~~(.+?)~~`, func(m *markup.Match) markup.Node {
			del := markup.NewElement("del")
			del.AppendText(m.Submatch(1))
			return del.AsNode()
		})
		c.InlineParser.Patterns.Register("strikethrough", pattern, markup.EmphasisPriority-5)
	})
	markup.Convert(os.Stdout, []byte("a ~~b~~\n"), strikethrough)
	// Output:
	// <p>a <del>b</del></p>
}
