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
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Priorities of the built-in inline patterns.
const (
	CodeSpanPriority = 190
	EscapePriority   = 180
	StrongPriority   = 60
	EmphasisPriority = 50
)

// EscapableChars is the set of characters
// that a backslash turns into literal text.
const EscapableChars = "\\`*_{}[]()>#+-.!"

// An InlinePattern recognizes one kind of inline span in text.
//
// The [InlineParser] searches text for the leftmost match of Regexp
// and passes the match to HandleMatch.
// HandleMatch returns the node that replaces the matched text
// or the zero Node to leave the text alone.
type InlinePattern interface {
	Regexp() *regexp.Regexp
	HandleMatch(m *Match) Node
}

// Match is a single match of an [InlinePattern]'s expression.
type Match struct {
	re  *regexp.Regexp
	s   string
	loc []int
}

// String returns the matched text.
func (m *Match) String() string {
	return m.s[m.loc[0]:m.loc[1]]
}

// Start returns the byte offset of the match in the searched text.
func (m *Match) Start() int {
	return m.loc[0]
}

// End returns the byte offset just past the match in the searched text.
func (m *Match) End() int {
	return m.loc[1]
}

// Submatch returns the text of the i'th parenthesized subexpression.
// Submatch(0) is the whole match.
// It returns the empty string if the subexpression did not participate.
func (m *Match) Submatch(i int) string {
	start, end := m.loc[2*i], m.loc[2*i+1]
	if start < 0 {
		return ""
	}
	return m.s[start:end]
}

// Group returns the text of the named subexpression.
// It returns the empty string if the subexpression did not participate
// and panics if the expression has no such name.
func (m *Match) Group(name string) string {
	i := m.re.SubexpIndex(name)
	if i < 0 {
		panic(fmt.Sprintf("inline pattern %v has no group %q", m.re, name))
	}
	return m.Submatch(i)
}

// Pattern is an [InlinePattern] built from an expression and a function.
type Pattern struct {
	re     *regexp.Regexp
	handle func(m *Match) Node
}

// NewPattern compiles expr with the s flag set,
// so that . matches newlines,
// and returns a pattern that calls handle for each match.
// It panics if expr does not compile.
func NewPattern(expr string, handle func(m *Match) Node) *Pattern {
	return &Pattern{
		re:     regexp.MustCompile("(?s)" + expr),
		handle: handle,
	}
}

// Regexp returns the pattern's compiled expression.
func (p *Pattern) Regexp() *regexp.Regexp {
	return p.re
}

// HandleMatch calls the pattern's function.
func (p *Pattern) HandleMatch(m *Match) Node {
	return p.handle(m)
}

// An InlineParser expands the text in an element tree
// using its registered patterns.
type InlineParser struct {
	// Patterns are the inline patterns applied in priority order.
	Patterns Registry[InlinePattern]
}

// Rewrite replaces the non-atomic text under root
// with the nodes produced by the parser's patterns.
//
// Each pattern is applied to every text run left by the patterns before it.
// Text inside an element produced by a pattern
// is only expanded by the patterns that follow that pattern.
// Matches never span more than one text node.
func (p *InlineParser) Rewrite(root *Element) {
	patterns := p.Patterns.Items()
	produced := make(map[*Element]struct{})
	Walk(root.AsNode(), &WalkOptions{
		Pre: func(c *Cursor) bool {
			e := c.Node().Element()
			if e == nil {
				return false
			}
			if _, skip := produced[e]; skip {
				return false
			}
			expandChildren(e, patterns, 0, produced)
			return true
		},
	})
	unescapeTree(root)
}

// expandChildren expands the non-atomic text children of e
// using patterns[from:].
// It does not descend into child elements.
func expandChildren(e *Element, patterns []InlinePattern, from int, produced map[*Element]struct{}) {
	if from >= len(patterns) {
		return
	}
	var newChildren []Node
	changed := false
	for _, child := range e.children {
		t := child.Text()
		if t == nil || t.Atomic {
			newChildren = append(newChildren, child)
			continue
		}
		expanded := expandText(child, patterns, from, produced)
		if len(expanded) != 1 || expanded[0] != child {
			changed = true
		}
		newChildren = append(newChildren, expanded...)
	}
	if changed {
		e.children = newChildren
	}
}

// expandText applies patterns[from:] in order to the text node n
// and to the text runs each pattern leaves behind.
func expandText(n Node, patterns []InlinePattern, from int, produced map[*Element]struct{}) []Node {
	nodes := []Node{n}
	for i := from; i < len(patterns); i++ {
		var next []Node
		for _, n := range nodes {
			if t := n.Text(); t != nil && !t.Atomic {
				next = append(next, applyPattern(n, patterns, i, produced)...)
			} else {
				next = append(next, n)
			}
		}
		nodes = next
	}
	return nodes
}

// applyPattern replaces every match of patterns[i] in the text node n.
// A declined match leaves its text in place
// and the search resumes after it.
// Non-atomic text returned by a pattern is joined with the surrounding text,
// so later patterns can match across it.
func applyPattern(n Node, patterns []InlinePattern, i int, produced map[*Element]struct{}) []Node {
	s := n.Text().Value
	re := patterns[i].Regexp()
	var result []Node
	pending := new(strings.Builder)
	changed := false
	textStart := 0
	for pos := 0; pos <= len(s); {
		loc := re.FindStringSubmatchIndex(s[pos:])
		if loc == nil {
			break
		}
		for j := range loc {
			if loc[j] >= 0 {
				loc[j] += pos
			}
		}
		pos = loc[1]
		if loc[0] == loc[1] {
			if pos >= len(s) {
				pos++
			} else {
				_, size := utf8.DecodeRuneInString(s[pos:])
				pos += size
			}
		}
		replacement := patterns[i].HandleMatch(&Match{re: re, s: s, loc: loc})
		if replacement.IsZero() {
			continue
		}
		changed = true
		pending.WriteString(s[textStart:loc[0]])
		textStart = loc[1]
		if t := replacement.Text(); t != nil && !t.Atomic {
			pending.WriteString(t.Value)
			continue
		}
		if pending.Len() > 0 {
			result = append(result, NewText(pending.String()).AsNode())
			pending.Reset()
		}
		if e := replacement.Element(); e != nil {
			expandProduced(e, patterns, i+1, produced)
		}
		result = append(result, replacement)
	}
	if !changed {
		return []Node{n}
	}
	pending.WriteString(s[textStart:])
	if pending.Len() > 0 {
		result = append(result, NewText(pending.String()).AsNode())
	}
	return result
}

// expandProduced expands the text in a pattern-produced element
// and all of its descendants with patterns[from:],
// marking each element so that the tree walk does not expand it again.
func expandProduced(e *Element, patterns []InlinePattern, from int, produced map[*Element]struct{}) {
	Walk(e.AsNode(), &WalkOptions{
		Pre: func(c *Cursor) bool {
			e := c.Node().Element()
			if e == nil {
				return false
			}
			if _, done := produced[e]; done {
				return false
			}
			produced[e] = struct{}{}
			expandChildren(e, patterns, from, produced)
			return true
		},
	})
}

func registerInlinePatterns(p *InlineParser) {
	p.Patterns.Register("backtick", codeSpanPattern, CodeSpanPriority)
	p.Patterns.Register("escape", escapePattern, EscapePriority)
	p.Patterns.Register("strong", strongPattern, StrongPriority)
	p.Patterns.Register("emphasis", emphasisPattern, EmphasisPriority)
}

// codeSpanPattern matches text between single or double backticks.
// A backslash-escaped backtick does not open a code span.
var codeSpanPattern = NewPattern("(?P<escaped>\\\\`)|``(?P<double>.+?)``|`(?P<single>[^`]+)`", func(m *Match) Node {
	if m.Group("escaped") != "" {
		return Node{}
	}
	content := m.Group("double")
	if content == "" {
		content = m.Group("single")
	}
	code := NewElement("code")
	code.AppendAtomicText(strings.TrimSpace(content))
	return code.AsNode()
})

// escapePattern replaces an escaped character with a placeholder
// that no other pattern matches.
// [InlineParser.Rewrite] restores the characters once all patterns have run.
var escapePattern = NewPattern(`\\(.)`, func(m *Match) Node {
	c := m.Submatch(1)
	if !strings.Contains(EscapableChars, c) {
		return Node{}
	}
	r, _ := utf8.DecodeRuneInString(c)
	return NewText(escapePlaceholder(r)).AsNode()
})

// Escaped characters are held in text between these markers
// as a decimal code point.
const (
	placeholderStart = "\x02"
	placeholderEnd   = "\x03"
)

var placeholderPattern = regexp.MustCompile(placeholderStart + `([0-9]+)` + placeholderEnd)

func escapePlaceholder(r rune) string {
	return placeholderStart + strconv.Itoa(int(r)) + placeholderEnd
}

func unescape(s string) string {
	if !strings.Contains(s, placeholderStart) {
		return s
	}
	return placeholderPattern.ReplaceAllStringFunc(s, func(ph string) string {
		n, err := strconv.Atoi(ph[len(placeholderStart) : len(ph)-len(placeholderEnd)])
		if err != nil || !utf8.ValidRune(rune(n)) {
			return ph
		}
		return string(rune(n))
	})
}

// unescapeTree restores escaped characters in all text and attributes under root.
func unescapeTree(root *Element) {
	Walk(root.AsNode(), &WalkOptions{
		Pre: func(c *Cursor) bool {
			if t := c.Node().Text(); t != nil {
				t.Value = unescape(t.Value)
				return false
			}
			e := c.Node().Element()
			for i := range e.attrs {
				e.attrs[i].Value = unescape(e.attrs[i].Value)
			}
			return true
		},
	})
}

var strongPattern = NewPattern(`\*\*(.+?)\*\*`, func(m *Match) Node {
	strong := NewElement("strong")
	strong.AppendText(m.Submatch(1))
	return strong.AsNode()
})

var emphasisPattern = NewPattern(`\*([^*]+)\*`, func(m *Match) Node {
	em := NewElement("em")
	em.AppendText(m.Submatch(1))
	return em.AsNode()
})
