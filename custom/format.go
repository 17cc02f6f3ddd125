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

import (
	"zombiezen.com/go/markup"
	"zombiezen.com/go/markup/format"
)

// FormatOptions returns options for [format.Options.Format]
// that write span, summary, and details elements in the custom syntax.
func FormatOptions() *format.Options {
	return &format.Options{
		Inline: map[string]func(e *markup.Element) string{
			"span":    formatSpan,
			"summary": formatSummary,
		},
		Fences: map[string]format.Fence{
			"details": {Open: "{{{", Close: "}}}"},
		},
	}
}

func formatSpan(e *markup.Element) string {
	class, ok := e.Get("class")
	if !ok || class == "" {
		return format.Escape(e.TextContent())
	}
	return "!!" + format.Escape(class) + "|" + format.Escape(e.TextContent()) + "!!"
}

func formatSummary(e *markup.Element) string {
	return "{{" + format.Escape(e.TextContent()) + "}}"
}
