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
package term

// FreeVariables adds every variable occurring free in t to the given
// set.  Both free symbols and bound variables not captured by an
// enclosing binder count as free.
func FreeVariables(t *Term, free map[*Term]bool) {
	freeVariables(t, make(map[*Term]bool), free)
}

// HasFreeVariables checks whether any variable occurs free in t.
func HasFreeVariables(t *Term) bool {
	free := make(map[*Term]bool)
	FreeVariables(t, free)
	//
	return len(free) > 0
}

// HasFreeVariablesOutside checks whether some variable occurs free in t
// which is not a member of the given scope.
func HasFreeVariablesOutside(t *Term, scope map[*Term]bool) (*Term, bool) {
	free := make(map[*Term]bool)
	FreeVariables(t, free)
	//
	for v := range free {
		if !scope[v] {
			return v, true
		}
	}
	//
	return nil, false
}

func freeVariables(t *Term, bound map[*Term]bool, free map[*Term]bool) {
	switch {
	case t.kind.IsVariable():
		if !bound[t] {
			free[t] = true
		}
	case t.kind.IsBinder():
		vars := t.BoundVars()
		// Record vars captured by this binder, remembering which were
		// already bound by an enclosing one.
		shadowed := make([]*Term, 0, len(vars))
		//
		for _, v := range vars {
			if bound[v] {
				shadowed = append(shadowed, v)
			}
			//
			bound[v] = true
		}
		//
		freeVariables(t.Body(), bound, free)
		//
		for _, v := range vars {
			delete(bound, v)
		}
		//
		for _, v := range shadowed {
			bound[v] = true
		}
	default:
		for _, c := range t.children {
			freeVariables(c, bound, free)
		}
	}
}
