// Copyright 2025 Alibaba Group Holding Ltd.
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

package config

import (
	"sync"

	"github.com/alibaba/opensandbox/swapd/pkg/log"
)

// Delta summarizes what a single reconcile cycle changed.
type Delta struct {
	// WeightsChanged carries the before/after pair when a valid new
	// weighting was adopted this cycle.
	WeightsChanged *WeightsChange

	// ExpiredPID is non-zero when the monitored process stopped being
	// observable this cycle. The expiry is reported exactly once, not on
	// every subsequent tick.
	ExpiredPID int32

	// PriorityApplied is true when the configured niceness was pushed to
	// the monitored process this cycle.
	PriorityApplied bool
}

// Reconciler reloads the external weighting and process-target
// configuration once per tick and diffs it against the previous state.
// Read or parse failures retain the last-known-good values; an
// invariant-violating weighting is rejected and the prior weighting
// stays active. Re-entrant across ticks: reconciling an unchanged
// configuration is a no-op.
type Reconciler struct {
	source Source
	procs  ProcessControl

	mu             sync.RWMutex
	weights        Weights
	target         *ProcessTarget
	lastExpiredPID int32
}

func NewReconciler(source Source, procs ProcessControl, initial Weights) *Reconciler {
	return &Reconciler{
		source:  source,
		procs:   procs,
		weights: initial,
	}
}

// Weights returns the currently active weighting.
func (r *Reconciler) Weights() Weights {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.weights
}

// Target returns the monitored process target, nil when none.
func (r *Reconciler) Target() *ProcessTarget {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.target == nil {
		return nil
	}
	t := *r.target
	return &t
}

// Reconcile performs one configuration cycle: fetch, diff, adopt.
func (r *Reconciler) Reconcile() Delta {
	r.mu.Lock()
	defer r.mu.Unlock()

	var delta Delta

	file, err := r.source.Fetch()
	if err != nil {
		// Transient config errors never crash the loop.
		log.Warning("Config reload failed, keeping previous values: %v", err)
		return delta
	}

	if file.Weights != r.weights {
		if err := file.Weights.Validate(); err != nil {
			log.Error("Rejecting invalid weighting %s: %v", file.Weights, err)
		} else {
			delta.WeightsChanged = &WeightsChange{Old: r.weights, New: file.Weights}
			log.Info("Weights changed from %s to %s", r.weights, file.Weights)
			r.weights = file.Weights
		}
	}

	r.reconcileTarget(file, &delta)
	return delta
}

func (r *Reconciler) reconcileTarget(file *File, delta *Delta) {
	if file.PID == nil {
		r.target = nil
		return
	}

	pid := *file.PID
	niceness := DefaultNiceness
	if file.Niceness != nil {
		niceness = *file.Niceness
	}

	if !r.procs.Alive(pid) {
		// Report the expiry only on the tick it is first observed; the
		// configuration may keep naming the dead pid indefinitely.
		if r.lastExpiredPID != pid {
			log.Info("PID %d is no longer running, stopping tracking", pid)
			delta.ExpiredPID = pid
			r.lastExpiredPID = pid
		}
		r.target = nil
		return
	}

	r.lastExpiredPID = 0
	if err := r.procs.SetPriority(pid, niceness); err != nil {
		// Best effort: permission errors or a racing exit are reported
		// but never fatal.
		log.Warning("Failed to update niceness for pid %d: %v", pid, err)
	} else {
		delta.PriorityApplied = true
		if r.target == nil || r.target.PID != pid || r.target.Niceness != niceness {
			log.Info("Updated niceness to %d for PID %d", niceness, pid)
		}
	}
	r.target = &ProcessTarget{PID: pid, Niceness: niceness}
}
