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
package synth

// ResultKind is the verdict of a synthesis check.
type ResultKind uint8

const (
	// Solution indicates a realization of every declared function was
	// found.
	Solution ResultKind = iota
	// NoSolution indicates a proof that no realization exists.
	NoSolution
	// ResultUnknown indicates the check was inconclusive.
	ResultUnknown
)

// SynthResult is the outcome of a synthesis check, carrying a reason
// when inconclusive.
type SynthResult struct {
	kind   ResultKind
	reason string
}

// SolutionResult constructs a successful synthesis result.
func SolutionResult() SynthResult {
	return SynthResult{kind: Solution}
}

// NoSolutionResult constructs a result proving no realization exists.
func NoSolutionResult() SynthResult {
	return SynthResult{kind: NoSolution}
}

// UnknownSynthResult constructs an inconclusive result with the given
// reason.
func UnknownSynthResult(reason string) SynthResult {
	return SynthResult{kind: ResultUnknown, reason: reason}
}

// Kind returns the verdict of this result.
func (r SynthResult) Kind() ResultKind { return r.kind }

// UnknownReason returns the reason for an inconclusive verdict.
func (r SynthResult) UnknownReason() string { return r.reason }

func (r SynthResult) String() string {
	switch r.kind {
	case Solution:
		return "solution"
	case NoSolution:
		return "no solution"
	}
	//
	if r.reason != "" {
		return "unknown (" + r.reason + ")"
	}
	//
	return "unknown"
}
