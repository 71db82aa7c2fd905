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
package backtrack

// Scoped captures any container whose contents follow the push/pop
// discipline of an enclosing context.  A scoped container snapshots
// whatever it needs on push, and restores that snapshot on pop.
type Scoped interface {
	// Mark records the state required to later undo all mutations made
	// after this point.
	mark()
	// Restore undoes all mutations made since the matching mark.
	restore()
}

// Context represents a stack of user frames, where containers registered
// with the context are automatically restored to their earlier contents
// when a frame is popped.
type Context struct {
	scoped []Scoped
	depth  uint
}

// NewContext constructs an empty context at frame depth zero.
func NewContext() *Context {
	return &Context{}
}

// Depth returns the number of frames currently pushed.
func (p *Context) Depth() uint {
	return p.depth
}

// Push opens a new frame.  Every registered container snapshots its
// current contents.
func (p *Context) Push() {
	for _, s := range p.scoped {
		s.mark()
	}
	//
	p.depth++
}

// Pop closes the innermost frame, restoring every registered container
// to the contents it had at the matching Push.
func (p *Context) Pop() {
	if p.depth == 0 {
		panic("pop on empty context")
	}
	//
	for _, s := range p.scoped {
		s.restore()
	}
	//
	p.depth--
}

// register attaches a container to this context.  Containers must be
// registered before the first Push in which they participate.
func (p *Context) register(s Scoped) {
	p.scoped = append(p.scoped, s)
}

// ============================================================================
// List
// ============================================================================

// List is a context-scoped sequence.  Appends made inside a frame are
// undone when that frame is popped.
type List[T any] struct {
	items []T
	marks []int
}

// NewList constructs an empty list registered with the given context.
func NewList[T any](ctx *Context) *List[T] {
	l := &List[T]{}
	ctx.register(l)
	//
	return l
}

// Append adds an item at the end of this list.
func (p *List[T]) Append(item T) {
	p.items = append(p.items, item)
}

// Len returns the number of items currently in this list.
func (p *List[T]) Len() int {
	return len(p.items)
}

// Get returns the ith item of this list.
func (p *List[T]) Get(i int) T {
	return p.items[i]
}

// IsEmpty checks whether this list currently holds any items.
func (p *List[T]) IsEmpty() bool {
	return len(p.items) == 0
}

// Contents returns a snapshot of the current items.  Mutating the
// returned slice has no effect on the list.
func (p *List[T]) Contents() []T {
	contents := make([]T, len(p.items))
	copy(contents, p.items)
	//
	return contents
}

func (p *List[T]) mark() {
	p.marks = append(p.marks, len(p.items))
}

func (p *List[T]) restore() {
	n := len(p.marks) - 1
	m := p.marks[n]
	// Zero out truncated items so any references they hold can be
	// collected.
	var empty T
	for i := m; i < len(p.items); i++ {
		p.items[i] = empty
	}
	//
	p.items = p.items[:m]
	p.marks = p.marks[:n]
}

// ============================================================================
// Value
// ============================================================================

// Value is a context-scoped scalar.  On pop it reverts to the value it
// held at the matching push.
type Value[T any] struct {
	current T
	saved   []T
}

// NewValue constructs a scoped scalar holding the given initial value,
// registered with the given context.
func NewValue[T any](ctx *Context, initial T) *Value[T] {
	v := &Value[T]{current: initial}
	ctx.register(v)
	//
	return v
}

// Get returns the current value.
func (p *Value[T]) Get() T {
	return p.current
}

// Set replaces the current value within the current frame.
func (p *Value[T]) Set(value T) {
	p.current = value
}

func (p *Value[T]) mark() {
	p.saved = append(p.saved, p.current)
}

func (p *Value[T]) restore() {
	n := len(p.saved) - 1
	p.current = p.saved[n]
	p.saved = p.saved[:n]
}
