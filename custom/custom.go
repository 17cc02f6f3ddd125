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

// Package custom provides the custom class syntax extension:
//
//	!!red|spam!!   →  <span class="red">spam</span>
//	{{Title}}      →  <summary>Title</summary>
//	{{{            →  <details>
//	...                 ...
//	}}}               </details>
//
// Text produced by the span and summary patterns is atomic:
// no other inline pattern scans it.
// The details fence wraps every block up to the first block
// that contains a closing marker, and the wrapped blocks are parsed
// like any other document content.
package custom

import "zombiezen.com/go/markup"

// Names the extension registers its patterns and processors under.
const (
	SpanClassName = "custom_span_class"
	SummaryName   = "custom_summary"
	DetailsName   = "details"
)

// Default priorities.
// The inline patterns run after every built-in pattern
// and the details processor runs before every built-in processor.
const (
	SpanClassPriority = 7
	SummaryPriority   = 6
	DetailsPriority   = 175
)

// Extension registers the span class pattern, the summary pattern,
// and the details processor with a [markup.Converter].
// The zero value enables all three.
type Extension struct {
	DisableSpanClass bool
	DisableSummary   bool
	DisableDetails   bool
	// If DetailsOpen is true, details elements are shown expanded.
	DetailsOpen bool
}

// Extend implements [markup.Extension].
func (ext Extension) Extend(c *markup.Converter) {
	if !ext.DisableSpanClass {
		c.InlineParser.Patterns.Register(SpanClassName, SpanClassPattern, SpanClassPriority)
	}
	if !ext.DisableSummary {
		c.InlineParser.Patterns.Register(SummaryName, SummaryPattern, SummaryPriority)
	}
	if !ext.DisableDetails {
		details := NewDetailsProcessor(&c.BlockParser)
		details.Open = ext.DetailsOpen
		c.BlockParser.Processors.Register(DetailsName, details, DetailsPriority)
	}
}
