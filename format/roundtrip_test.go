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

package format_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"zombiezen.com/go/markup"
	"zombiezen.com/go/markup/custom"
	"zombiezen.com/go/markup/internal/normhtml"
	"zombiezen.com/go/markup/internal/testsuite"
)

func FuzzFormat(f *testing.F) {
	examples, err := testsuite.Load()
	if err != nil {
		f.Fatal(err)
	}
	for _, ex := range examples {
		f.Add(ex.Markup)
	}

	c := markup.New(custom.Extension{})
	opts := custom.FormatOptions()
	f.Fuzz(func(t *testing.T, source string) {
		root := c.Parse([]byte(source))
		originalHTML := new(bytes.Buffer)
		if err := c.Renderer.Render(originalHTML, root); err != nil {
			t.Fatal("Render original HTML:", err)
		}

		got := new(bytes.Buffer)
		if err := opts.Format(got, root); err != nil {
			t.Error("Format #1:", err)
		}

		formattedRoot := c.Parse(got.Bytes())
		formattedHTML := new(bytes.Buffer)
		if err := c.Renderer.Render(formattedHTML, formattedRoot); err != nil {
			t.Error("Render formatted HTML:", err)
		} else {
			diff := cmp.Diff(normhtml.NormalizeString(originalHTML.String()), normhtml.NormalizeString(formattedHTML.String()))
			if diff != "" {
				// Some trees have no markup that parses back to them,
				// like a paragraph whose text holds a blank line.
				t.Skipf("Reformatting changed semantics. Original:\n%s\nReformatting:\n%s\nHTML diff (-want +got):\n%s", source, got, diff)
			}
		}

		reformatted := new(bytes.Buffer)
		if err := opts.Format(reformatted, formattedRoot); err != nil {
			t.Error("Format #2:", err)
		}
		if diff := cmp.Diff(got.String(), reformatted.String()); diff != "" {
			t.Errorf("Format not idempotent (-first +second):\n%s", diff)
		}
	})
}
