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

// parser turns the text of a source file into S-expressions, recording
// the span of every node produced.
type parser struct {
	srcfile *SourceFile
	// Text being parsed.
	text []rune
	// Current position within text.
	index int
	//
	srcmap *SourceMap
}

func newParser(srcfile *SourceFile) *parser {
	return &parser{
		srcfile: srcfile,
		text:    srcfile.Contents(),
		srcmap:  NewSourceMap(srcfile),
	}
}

// parse returns the next S-expression of the input, nil at end of
// input, or an error if the text is malformed.
func (p *parser) parse() (SExp, error) {
	p.skipTrivia()
	start := p.index
	//
	if p.index == len(p.text) {
		return nil, nil
	}
	//
	switch p.text[p.index] {
	case ')':
		return nil, p.error(start, "unexpected end-of-list")
	case '(':
		p.index++
		//
		var elements []SExp
		//
		for {
			p.skipTrivia()
			//
			if p.index == len(p.text) {
				return nil, p.error(start, "unterminated list")
			} else if p.text[p.index] == ')' {
				p.index++
				break
			}
			//
			element, err := p.parse()
			if err != nil {
				return nil, err
			}
			//
			elements = append(elements, element)
		}
		//
		list := &List{elements}
		p.srcmap.Put(list, NewSpan(start, p.index))
		//
		return list, nil
	case '|':
		return p.parseQuotedSymbol(start)
	}
	//
	symbol := &Symbol{string(p.parseToken())}
	p.srcmap.Put(symbol, NewSpan(start, p.index))
	//
	return symbol, nil
}

// skipTrivia advances past whitespace and line comments.
func (p *parser) skipTrivia() {
	for p.index < len(p.text) {
		switch p.text[p.index] {
		case ' ', '\t', '\r', '\n':
			p.index++
		case ';':
			for p.index < len(p.text) && p.text[p.index] != '\n' {
				p.index++
			}
		default:
			return
		}
	}
}

// parseToken consumes a maximal run of non-delimiter characters.
func (p *parser) parseToken() []rune {
	start := p.index
	//
	for p.index < len(p.text) {
		switch p.text[p.index] {
		case '(', ')', ';', ' ', '\t', '\r', '\n':
			return p.text[start:p.index]
		}
		//
		p.index++
	}
	//
	return p.text[start:p.index]
}

// parseQuotedSymbol consumes a |-quoted symbol, whose body may contain
// delimiters.
func (p *parser) parseQuotedSymbol(start int) (SExp, error) {
	p.index++
	//
	for p.index < len(p.text) {
		if p.text[p.index] == '|' {
			symbol := &Symbol{string(p.text[start+1 : p.index])}
			p.index++
			p.srcmap.Put(symbol, NewSpan(start, p.index))
			//
			return symbol, nil
		}
		//
		p.index++
	}
	//
	return nil, p.error(start, "unterminated quoted symbol")
}

// error constructs a syntax error starting at the given position.
func (p *parser) error(start int, msg string) *SyntaxError {
	end := start + 1
	if end > len(p.text) {
		end = len(p.text)
	}
	//
	return p.srcfile.SyntaxError(NewSpan(start, end), msg)
}
