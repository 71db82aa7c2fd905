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
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/consensys/go-sygus/pkg/util/sexp"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// GetFlag gets an expected flag, or panic if an error arises.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetString gets an expected string flag, or panic if an error arises.
func GetString(cmd *cobra.Command, flag string) string {
	r, err := cmd.Flags().GetString(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetStringArray gets an expected string array flag, or panic if an
// error arises.
func GetStringArray(cmd *cobra.Command, flag string) []string {
	r, err := cmd.Flags().GetStringArray(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// GetUint64 gets an expected uint64 flag, or panic if an error arises.
func GetUint64(cmd *cobra.Command, flag string) uint64 {
	r, err := cmd.Flags().GetUint64(flag)
	if err != nil {
		fmt.Println(err)
		os.Exit(2)
	}

	return r
}

// Print a syntax error with appropriate highlighting, including the
// enclosing source line and a caret marking the offending span.
func printSyntaxError(err *sexp.SyntaxError) {
	span := err.Span()
	text := err.SourceFile().Contents()
	line, offset, num := findEnclosingLine(span.Start(), text)
	// Truncate overly long lines against the terminal width.
	if width := terminalWidth(); len(line) > width {
		line = line[:width]
	}
	// Print error + line number
	errColor().Fprintf(os.Stderr, "%s:%d: %s\n", err.SourceFile().Filename(), num, err.Message())
	// Print line
	fmt.Fprintln(os.Stderr, string(line))
	// Print indent (todo: account for tabs)
	fmt.Fprint(os.Stderr, strings.Repeat(" ", span.Start()-offset))
	// Print highlight
	fmt.Fprintln(os.Stderr, strings.Repeat("^", max(1, span.Length())))
}

// Determine the enclosing line for the given index, along with the
// index of its first character and its (1-based) line number.
func findEnclosingLine(index int, text []rune) ([]rune, int, int) {
	num := 1
	start := 0
	//
	if index >= len(text) {
		index = max(0, len(text)-1)
	}
	// Count lines strictly before the index.
	for i := 0; i < index; i++ {
		if text[i] == '\n' {
			num++
			start = i + 1
		}
	}
	// Find end of enclosing line
	end := index
	for end < len(text) && text[end] != '\n' {
		end++
	}
	//
	return text[start:end], start, num
}

// Determine the available terminal width, falling back on a sensible
// default when stderr is not a terminal.
func terminalWidth() int {
	if isatty.IsTerminal(os.Stderr.Fd()) {
		if width, _, err := term.GetSize(int(os.Stderr.Fd())); err == nil {
			return width
		}
	}
	//
	return 80
}

// Construct the colour used for reporting errors, disabled when stderr
// is not a terminal.
func errColor() *color.Color {
	c := color.New(color.FgRed, color.Bold)
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		c.DisableColor()
	}
	//
	return c
}
