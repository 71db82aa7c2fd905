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

// Package test runs whole problem files from the testdata directory
// through the front-end, checking feasible problems yield definitions
// and infeasible ones are reported as such.
package test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/consensys/go-sygus/pkg/smt"
	"github.com/consensys/go-sygus/pkg/smt/enum"
	"github.com/consensys/go-sygus/pkg/sygus"
	"github.com/consensys/go-sygus/pkg/synth"
	"github.com/consensys/go-sygus/pkg/util/sexp"
)

// Determines the (relative) location of the test directory.  That is
// where the SyGuS problem files (sy) are found.
const TestDir = "../../testdata"

// Check runs a given problem file to completion, requiring either a
// solution block or an infeasibility report according to feasible.
func Check(t *testing.T, feasible bool, test string) {
	var dir string
	//
	if feasible {
		dir = "valid"
	} else {
		dir = "infeasible"
	}
	//
	filename := filepath.Join(TestDir, dir, test+".sy")
	//
	bytes, err := os.ReadFile(filename)
	require.NoError(t, err)
	//
	engine := smt.NewEngine(smt.DefaultOptions(), enum.Factory)
	solver := synth.NewSolver(engine)
	//
	var out strings.Builder
	//
	interp := sygus.NewInterpreter(solver, &out)
	require.NoError(t, interp.Run(sexp.NewSourceFile(filename, bytes)))
	//
	if feasible {
		assert.True(t, strings.HasPrefix(out.String(), "(\n(define-fun "), "unexpected output %q", out.String())
		assert.True(t, strings.HasSuffix(out.String(), ")\n)\n"), "unexpected output %q", out.String())
	} else {
		assert.Equal(t, "infeasible\n", out.String())
	}
}
