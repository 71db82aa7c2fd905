// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package sexp

import (
	"fmt"
)

// SourceFile represents a given source file (typically stored on disk).
type SourceFile struct {
	// File name for this source file.
	filename string
	// Contents of this file.
	contents []rune
}

// NewSourceFile constructs a new source file from a given byte array.
func NewSourceFile(filename string, bytes []byte) *SourceFile {
	return &SourceFile{filename, []rune(string(bytes))}
}

// Filename returns the filename associated with this source file.
func (s *SourceFile) Filename() string {
	return s.filename
}

// Contents returns the contents of this source file.
func (s *SourceFile) Contents() []rune {
	return s.contents
}

// SyntaxError constructs a syntax error over a given span of this file
// with a given message.
func (s *SourceFile) SyntaxError(span Span, msg string) *SyntaxError {
	return &SyntaxError{s, span, msg}
}

// Parse converts this file into exactly one S-expression, or returns an
// error if the text is malformed or holds more than one.
func (s *SourceFile) Parse() (SExp, *SourceMap, error) {
	sexps, srcmap, err := s.ParseAll()
	//
	if err != nil {
		return nil, nil, err
	} else if len(sexps) != 1 {
		return nil, nil, s.SyntaxError(NewSpan(0, 1), "expected exactly one expression")
	}
	//
	return sexps[0], srcmap, nil
}

// ParseAll converts this file into zero or more S-expressions, or
// returns an error if the text is malformed.  A source map is also
// returned, locating every parsed node in the original text.
func (s *SourceFile) ParseAll() ([]SExp, *SourceMap, error) {
	p := newParser(s)
	//
	sexps := make([]SExp, 0)
	//
	for {
		sexp, err := p.parse()
		//
		if err != nil {
			return nil, nil, err
		} else if sexp == nil {
			// EOF reached
			return sexps, p.srcmap, nil
		}
		//
		sexps = append(sexps, sexp)
	}
}

// ===================================================================
// Span
// ===================================================================

// Span identifies a contiguous region of characters within an enclosing
// source file.
type Span struct {
	start int
	end   int
}

// NewSpan constructs a span from the given (half-open) character range.
func NewSpan(start, end int) Span {
	if start > end {
		panic(fmt.Sprintf("invalid span %d..%d", start, end))
	}
	//
	return Span{start, end}
}

// Start returns the index of the first character of this span.
func (p Span) Start() int { return p.start }

// End returns the index just past the last character of this span.
func (p Span) End() int { return p.end }

// Length returns the number of characters covered by this span.
func (p Span) Length() int { return p.end - p.start }

// ===================================================================
// Source map
// ===================================================================

// SourceMap locates parsed S-expressions in their originating file.
type SourceMap struct {
	srcfile *SourceFile
	mapping map[SExp]Span
}

// NewSourceMap constructs an empty source map over the given file.
func NewSourceMap(srcfile *SourceFile) *SourceMap {
	return &SourceMap{srcfile, make(map[SExp]Span)}
}

// Put records the span of a given node.
func (p *SourceMap) Put(node SExp, span Span) {
	p.mapping[node] = span
}

// SpanOf returns the span of a given node, or an empty span at the
// start of the file for nodes the reader never produced.
func (p *SourceMap) SpanOf(node SExp) Span {
	if span, ok := p.mapping[node]; ok {
		return span
	}
	//
	return NewSpan(0, 0)
}

// SyntaxError constructs a syntax error located at the given node.
func (p *SourceMap) SyntaxError(node SExp, msg string) *SyntaxError {
	return p.srcfile.SyntaxError(p.SpanOf(node), msg)
}

// ===================================================================
// Syntax errors
// ===================================================================

// SyntaxError is a structured error which retains the location within
// the original file where the error arose, along with a message.
type SyntaxError struct {
	srcfile *SourceFile
	span    Span
	msg     string
}

// SourceFile returns the file on which this error is reported.
func (p *SyntaxError) SourceFile() *SourceFile {
	return p.srcfile
}

// Span returns the span of the original text on which this error is
// reported.
func (p *SyntaxError) Span() Span {
	return p.span
}

// Message returns the message to be reported.
func (p *SyntaxError) Message() string {
	return p.msg
}

// Error implements the error interface.
func (p *SyntaxError) Error() string {
	line, col := p.lineCol()
	//
	return fmt.Sprintf("%s:%d:%d: %s", p.srcfile.filename, line, col, p.msg)
}

// lineCol determines the (1-based) line and column of the start of this
// error's span.
func (p *SyntaxError) lineCol() (int, int) {
	line, col := 1, 1
	//
	for i := 0; i < p.span.start && i < len(p.srcfile.contents); i++ {
		if p.srcfile.contents[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	//
	return line, col
}
