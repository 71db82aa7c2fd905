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

// ResourceManager accounts for the abstract resource units spent by
// reasoners, allowing long-running checks to be cut off.  Reasoners poll
// it at convenient points.  The manager can be temporarily disabled, in
// which case spending is not counted; this is used to protect phases
// which must not be interrupted midway, such as solution verification.
type ResourceManager struct {
	enabled bool
	limit   uint64
	spent   uint64
}

// NewResourceManager constructs an enabled manager with the given limit.
// A zero limit means unbounded.
func NewResourceManager(limit uint64) *ResourceManager {
	return &ResourceManager{enabled: true, limit: limit}
}

// SetEnabled turns resource accounting on or off.
func (p *ResourceManager) SetEnabled(enabled bool) {
	p.enabled = enabled
}

// Disable turns accounting off and returns a closure restoring the
// previous state.  Intended for use with defer, so the manager is
// re-enabled on all exit paths.
func (p *ResourceManager) Disable() func() {
	prev := p.enabled
	p.enabled = false
	//
	return func() { p.enabled = prev }
}

// Spend records the consumption of n resource units.
func (p *ResourceManager) Spend(n uint64) {
	if p.enabled {
		p.spent += n
	}
}

// Exhausted checks whether the limit has been reached.  Always false
// while the manager is disabled.
func (p *ResourceManager) Exhausted() bool {
	return p.enabled && p.limit != 0 && p.spent >= p.limit
}

// Reset clears the spent count, e.g. at the start of a new check.
func (p *ResourceManager) Reset() {
	p.spent = 0
}
