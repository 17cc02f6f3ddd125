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
	"os"

	"zombiezen.com/go/markup"
	"zombiezen.com/go/markup/custom"
	_ "zombiezen.com/go/markup/format"
)

func ExampleOptions_Format() {
	c := markup.New(custom.Extension{})
	root := c.Parse([]byte(`
{{{
{{  Loose title}}
Hello,   !!red|World!!


*  *  *
}}}
`))
	out := new(bytes.Buffer)
	if err := custom.FormatOptions().Format(out, root); err != nil {
		// Writing in-memory shouldn't fail.
		panic(err)
	}
	os.Stdout.Write(out.Bytes())
	// Output:
	// {{{
	// {{  Loose title}}
	// Hello,   !!red|World!!
	//
	// * * *
	// }}}
}
