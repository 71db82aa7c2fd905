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

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/pkg/errors"
)

// CegisSampleMode determines how counterexample-guided candidate search
// uses sampled evaluation points.
type CegisSampleMode string

const (
	// CegisSampleNone disables sample-based candidate screening.
	CegisSampleNone CegisSampleMode = "none"
	// CegisSampleUse screens candidates on samples before the full check.
	CegisSampleUse CegisSampleMode = "use"
	// CegisSampleTrust accepts candidates on samples alone.  This mode
	// explicitly renounces soundness in exchange for speed.
	CegisSampleTrust CegisSampleMode = "trust"
)

// Options is the configuration bag consulted by the synthesis core and
// its reasoners.
type Options struct {
	// IncrementalSolving selects the spawned-subsolver pipeline and
	// allows iterating solutions with check-synth-next.
	IncrementalSolving bool `yaml:"incremental"`
	// SygusStream requests streaming of multiple solutions, which
	// disables trivial-function elimination.
	SygusStream bool `yaml:"sygus-stream"`
	// CheckSynthSol enables independent verification of every returned
	// solution.
	CheckSynthSol bool `yaml:"check-synth-sol"`
	// CegisSampleMode configures sample-based candidate screening.
	CegisSampleMode CegisSampleMode `yaml:"cegis-sample"`
	// SygusRecFun enables support for recursive function definitions in
	// synthesis conjectures.
	SygusRecFun bool `yaml:"sygus-rec-fun"`
	// Backend names the reasoner backend, currently "enum" or "proc".
	Backend string `yaml:"backend"`
	// SolverCommand is the external solver invocation for the proc
	// backend, e.g. ["cvc5", "--lang=smt2"].
	SolverCommand []string `yaml:"solver-command"`
	// ResourceLimit bounds the resource units a reasoner may spend per
	// check; zero means unbounded.
	ResourceLimit uint64 `yaml:"resource-limit"`
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		CheckSynthSol:   false,
		CegisSampleMode: CegisSampleNone,
		SygusRecFun:     true,
		Backend:         "enum",
	}
}

// Clone returns an independent copy of this configuration, such that a
// subsolver may write its own copy without affecting its parent.
func (p *Options) Clone() *Options {
	clone := *p
	clone.SolverCommand = append([]string(nil), p.SolverCommand...)
	//
	return &clone
}

// LoadOptions reads a configuration from a YAML file, applied on top of
// the defaults.
func LoadOptions(path string) (*Options, error) {
	opts := DefaultOptions()
	//
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}
	//
	if err := yaml.Unmarshal(bytes, opts); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}
	//
	switch opts.CegisSampleMode {
	case CegisSampleNone, CegisSampleUse, CegisSampleTrust:
		// ok
	default:
		return nil, errors.Errorf("unknown cegis-sample mode %q", opts.CegisSampleMode)
	}
	//
	return opts, nil
}
