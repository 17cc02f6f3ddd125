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

import "zombiezen.com/go/markup"

// SpanClassExpr matches "!!class|text!!".
// Both parts are at least one character and matched lazily,
// so the class ends at the first "|" and the text at the first "!!".
const SpanClassExpr = `[!]{2}(?P<class>.+?)[|](?P<text>.+?)[!]{2}`

// SpanClassPattern converts "!!class|text!!"
// into a span element with the given class and atomic text.
var SpanClassPattern = markup.NewPattern(SpanClassExpr, func(m *markup.Match) markup.Node {
	span := markup.NewElement("span")
	span.Set("class", m.Group("class"))
	span.AppendAtomicText(m.Group("text"))
	return span.AsNode()
})

// SummaryExpr matches "{{title}}".
// The title is at least one character and ends at the first "}}".
const SummaryExpr = `[{]{2}(?P<title>.+?)[}]{2}`

// SummaryPattern converts "{{title}}" into a summary element with atomic text.
var SummaryPattern = markup.NewPattern(SummaryExpr, func(m *markup.Match) markup.Node {
	summary := markup.NewElement("summary")
	summary.AppendAtomicText(m.Group("title"))
	return summary.AsNode()
})
