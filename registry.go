// Copyright 2024 Ross Light
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//		 https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

package markup

import "sort"

// A Registry is an ordered collection of named items.
// Items are ordered by descending priority.
// Items with equal priority keep the order in which they were registered.
// The zero value is an empty registry.
type Registry[T any] struct {
	entries []registryEntry[T]
	nextSeq uint64
}

type registryEntry[T any] struct {
	name     string
	item     T
	priority int
	seq      uint64
}

// Register adds an item to the registry under the given name.
// If an item with the same name is already registered,
// it is removed first,
// so the new item sorts as the most recently registered of its priority.
func (r *Registry[T]) Register(name string, item T, priority int) {
	r.Deregister(name)
	e := registryEntry[T]{
		name:     name,
		item:     item,
		priority: priority,
		seq:      r.nextSeq,
	}
	r.nextSeq++
	i := sort.Search(len(r.entries), func(i int) bool {
		return r.entries[i].after(e)
	})
	r.entries = append(r.entries, registryEntry[T]{})
	copy(r.entries[i+1:], r.entries[i:])
	r.entries[i] = e
}

// after reports whether e sorts after other.
func (e registryEntry[T]) after(other registryEntry[T]) bool {
	if e.priority != other.priority {
		return e.priority < other.priority
	}
	return e.seq > other.seq
}

// Deregister removes the item with the given name,
// reporting whether it was present.
func (r *Registry[T]) Deregister(name string) bool {
	i := r.index(name)
	if i < 0 {
		return false
	}
	r.entries = append(r.entries[:i], r.entries[i+1:]...)
	return true
}

// Get returns the item registered under the given name.
func (r *Registry[T]) Get(name string) (item T, ok bool) {
	i := r.index(name)
	if i < 0 {
		return item, false
	}
	return r.entries[i].item, true
}

// Has reports whether an item is registered under the given name.
func (r *Registry[T]) Has(name string) bool {
	return r.index(name) >= 0
}

// Priority returns the priority the named item was registered with.
func (r *Registry[T]) Priority(name string) (priority int, ok bool) {
	i := r.index(name)
	if i < 0 {
		return 0, false
	}
	return r.entries[i].priority, true
}

// Len returns the number of registered items.
func (r *Registry[T]) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// Names returns the names of the registered items in order.
func (r *Registry[T]) Names() []string {
	names := make([]string, 0, r.Len())
	for _, e := range r.entries {
		names = append(names, e.name)
	}
	return names
}

// Items returns the registered items in order.
func (r *Registry[T]) Items() []T {
	items := make([]T, 0, r.Len())
	for _, e := range r.entries {
		items = append(items, e.item)
	}
	return items
}

func (r *Registry[T]) index(name string) int {
	if r == nil {
		return -1
	}
	for i, e := range r.entries {
		if e.name == name {
			return i
		}
	}
	return -1
}
