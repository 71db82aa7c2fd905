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

import (
	"fmt"

	"github.com/consensys/go-sygus/pkg/term"
)

// GrammarError reports a grammar whose constructor operator references a
// free variable outside its declared scope.  The offending declaration
// is rejected and session state is left untouched.
type GrammarError struct {
	// Function whose grammar is ill-formed.
	Fun *term.Term
	// Offending constructor operator.
	Op *term.Term
}

func (e *GrammarError) Error() string {
	return fmt.Sprintf("cannot process term %s with free variables in grammar of %s",
		e.Op, e.Fun)
}

// UnsupportedError reports a request the current configuration cannot
// serve, e.g. repeated synthesis queries without incremental solving.
type UnsupportedError struct {
	Msg string
}

func (e *UnsupportedError) Error() string {
	return e.Msg
}
