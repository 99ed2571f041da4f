// Copyright 2025 The openec authors. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package hooks dispatches registered initialization functions in
// priority order at boot. Packages register their hooks from init
// functions, the firmware entry point runs the registry once before
// anything else executes.
package hooks

import (
	"fmt"
	"sort"
)

// Priority orders hook execution, lower runs earlier. Hooks sharing a
// priority run in registration order.
type Priority int

const (
	// PriorityFirst is reserved for memory protection, nothing may run
	// before the lockdown.
	PriorityFirst Priority = 1
	// PriorityInitChip brings up chip level resources.
	PriorityInitChip Priority = 1000
	// PriorityInitI2C brings up the I2C buses auxiliary chips hang off.
	PriorityInitI2C Priority = 2000
	// PriorityDefault suits hooks without ordering needs.
	PriorityDefault Priority = 5000
	// PriorityLast runs after every other hook.
	PriorityLast Priority = 9999
)

type hook struct {
	name     string
	priority Priority
	fn       func() error
}

// Registry is an ordered collection of boot hooks.
type Registry struct {
	hooks []hook
}

// Init is the registry the firmware entry point runs.
var Init = &Registry{}

// Register adds a hook. It is meant to be called from package init
// functions, before Run.
func (r *Registry) Register(p Priority, name string, fn func() error) {
	r.hooks = append(r.hooks, hook{
		name:     name,
		priority: p,
		fn:       fn,
	})
}

// Run executes every registered hook in priority order and stops at
// the first failure.
func (r *Registry) Run() error {
	sort.SliceStable(r.hooks, func(i, j int) bool {
		return r.hooks[i].priority < r.hooks[j].priority
	})

	for _, h := range r.hooks {
		if err := h.fn(); err != nil {
			return fmt.Errorf("hook %s: %w", h.name, err)
		}
	}

	return nil
}
