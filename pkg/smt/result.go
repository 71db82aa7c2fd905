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
package smt

// Status is the verdict of a satisfiability check.
type Status uint8

const (
	// Sat indicates the asserted formulas are satisfiable.
	Sat Status = iota
	// Unsat indicates the asserted formulas are unsatisfiable.
	Unsat
	// Unknown indicates the reasoner could not decide, e.g. because a
	// resource limit was reached or the fragment is undecidable for it.
	Unknown
)

func (s Status) String() string {
	switch s {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	}
	//
	return "unknown"
}

// Result couples a status with, for unknown verdicts, the reason the
// reasoner gave up.
type Result struct {
	status Status
	reason string
}

// SatResult constructs a satisfiable result.
func SatResult() Result { return Result{status: Sat} }

// UnsatResult constructs an unsatisfiable result.
func UnsatResult() Result { return Result{status: Unsat} }

// UnknownResult constructs an unknown result carrying the given reason.
func UnknownResult(reason string) Result {
	return Result{status: Unknown, reason: reason}
}

// Status returns the verdict of this result.
func (r Result) Status() Status { return r.status }

// UnknownReason returns the reason for an unknown verdict.
func (r Result) UnknownReason() string { return r.reason }

func (r Result) String() string {
	if r.status == Unknown && r.reason != "" {
		return "unknown (" + r.reason + ")"
	}
	//
	return r.status.String()
}
