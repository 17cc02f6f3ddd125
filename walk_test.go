// Copyright 2024 Ross Light
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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWalk(t *testing.T) {
	root := elem("",
		elem("p", "a", elem("em", "b")),
		elem("hr"),
	)
	tests := []struct {
		name     string
		skip     string
		stopPost string
		want     []string
	}{
		{
			name: "Full",
			want: []string{
				"pre ", "pre p", "pre a", "post a", "pre em", "pre b", "post b", "post em", "post p",
				"pre hr", "post hr", "post ",
			},
		},
		{
			name: "SkipChildren",
			skip: "p",
			want: []string{"pre ", "pre p", "pre hr", "post hr", "post "},
		},
		{
			name:     "Stop",
			stopPost: "em",
			want: []string{
				"pre ", "pre p", "pre a", "post a", "pre em", "pre b", "post b", "post em",
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var got []string
			name := func(n Node) string {
				if e := n.Element(); e != nil {
					return e.Tag
				}
				return n.Text().Value
			}
			Walk(root.AsNode(), &WalkOptions{
				Pre: func(c *Cursor) bool {
					got = append(got, "pre "+name(c.Node()))
					return name(c.Node()) != test.skip
				},
				Post: func(c *Cursor) bool {
					got = append(got, "post "+name(c.Node()))
					return name(c.Node()) != test.stopPost
				},
			})
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("visits (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWalkParent(t *testing.T) {
	em := elem("em", "b")
	root := elem("p", "a", em)
	parents := make(map[string]*Element)
	Walk(root.AsNode(), &WalkOptions{
		Pre: func(c *Cursor) bool {
			if t := c.Node().Text(); t != nil {
				parents[t.Value] = c.ParentElement()
			}
			return true
		},
	})
	if parents["a"] != root {
		t.Errorf("parent of %q = %v; want root", "a", parents["a"])
	}
	if parents["b"] != em {
		t.Errorf("parent of %q = %v; want em", "b", parents["b"])
	}
}

func TestWalkReplacedChildren(t *testing.T) {
	root := elem("p", "old")
	var texts []string
	Walk(root.AsNode(), &WalkOptions{
		Pre: func(c *Cursor) bool {
			if e := c.Node().Element(); e != nil {
				e.children = nil
				e.AppendText("new")
				return true
			}
			texts = append(texts, c.Node().Text().Value)
			return false
		},
	})
	if diff := cmp.Diff([]string{"new"}, texts); diff != "" {
		t.Errorf("visited text (-want +got):\n%s", diff)
	}
}
