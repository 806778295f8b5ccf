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

package daemon

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"

	"github.com/alibaba/opensandbox/swapd/pkg/config"
	"github.com/alibaba/opensandbox/swapd/pkg/journal"
	"github.com/alibaba/opensandbox/swapd/pkg/log"
	"github.com/alibaba/opensandbox/swapd/pkg/metrics"
	"github.com/alibaba/opensandbox/swapd/pkg/tunable"
)

// State models the control loop lifecycle.
type State int32

const (
	StateStarting State = iota
	StateRunning
	StateFailed
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateFailed:
		return "failed"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Sampler produces one metrics snapshot per tick.
type Sampler interface {
	Sample() (*metrics.Snapshot, error)
}

// Provisioner ensures the swap backing store before the loop starts.
type Provisioner interface {
	Ensure(ctx context.Context) error
}

// Options configure the tick loop.
type Options struct {
	WindowCapacity int
	Interval       time.Duration
}

// Daemon orchestrates the adaptive control loop: on each tick it
// reconciles configuration, samples metrics, updates the window and
// conditionally applies a new tunable value. Ticks are sequential and
// never overlap; if one runs longer than the interval the next starts
// immediately after it.
type Daemon struct {
	opts        Options
	provisioner Provisioner
	sampler     Sampler
	window      *metrics.Window
	reconciler  *config.Reconciler
	controller  *tunable.Controller
	tun         *tunable.Swappiness
	journal     *journal.Journal

	state atomic.Int32
	cycle atomic.Int64

	subMu sync.Mutex
	subs  map[chan journal.Entry]struct{}
}

func New(opts Options, prov Provisioner, sampler Sampler, rec *config.Reconciler,
	tun *tunable.Swappiness, jrnl *journal.Journal) *Daemon {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Second
	}
	return &Daemon{
		opts:        opts,
		provisioner: prov,
		sampler:     sampler,
		window:      metrics.NewWindow(opts.WindowCapacity),
		reconciler:  rec,
		controller:  tunable.NewController(tun),
		tun:         tun,
		journal:     jrnl,
		subs:        make(map[chan journal.Entry]struct{}),
	}
}

// Run provisions the swap resource and drives the tick loop until ctx
// is cancelled. A provisioning failure is terminal; the loop never
// starts, since tuning swappiness with no active swap area is
// meaningless. An in-flight tick always completes before shutdown.
func (d *Daemon) Run(ctx context.Context) error {
	d.setState(StateStarting)

	if err := d.provisioner.Ensure(ctx); err != nil {
		d.setState(StateFailed)
		return fmt.Errorf("swap provisioning failed: %w", err)
	}

	d.setState(StateRunning)
	log.Info("Control loop running, interval %s, window capacity %d",
		d.opts.Interval, d.window.Capacity())

	wait.NonSlidingUntil(d.tick, d.opts.Interval, ctx.Done())

	d.setState(StateStopped)
	log.Info("Control loop stopped")
	return nil
}

// tick runs one sequential cycle: reconcile, sample, window, evaluate.
// Reconciliation always precedes calculation so a weighting change takes
// effect in the same tick it was detected.
func (d *Daemon) tick() {
	cycle := d.cycle.Add(1)

	delta := d.reconciler.Reconcile()

	snap, err := d.sampler.Sample()
	if err != nil {
		// A failed counter read drops the entire sample; the window is
		// left untouched and this becomes a no-op tick.
		log.Warning("Dropping sample: %v", err)
		return
	}
	d.window.Append(*snap)

	avg, ok := d.window.MovingAverage()
	if !ok {
		log.Debug("Window has %d/%d samples, skipping calculation",
			d.window.Len(), metrics.MinSamples)
		return
	}

	change, err := d.controller.Evaluate(tunable.InputsFromAverages(avg), d.reconciler.Weights())
	if err != nil {
		log.Error("Swappiness update failed: %v", err)
		return
	}
	if change == nil {
		return
	}
	log.Info("Swappiness set to %d (was %d)", change.New, change.Old)

	entry, err := d.journal.Record(journal.Entry{
		Cycle:         cycle,
		Snapshot:      *snap,
		OldSwappiness: change.Old,
		NewSwappiness: change.New,
		WeightsChange: delta.WeightsChanged,
	})
	if err != nil {
		// The tunable change already took effect; a journal failure is
		// reported but never undone.
		log.Error("Failed to append decision record: %v", err)
	}
	d.broadcast(entry)
}

// Status is a point-in-time view for the HTTP surface.
type Status struct {
	State        string                `json:"state"`
	Cycle        int64                 `json:"cycle"`
	WindowLen    int                   `json:"window_len"`
	Swappiness   int                   `json:"swappiness"`
	Weights      config.Weights        `json:"weights"`
	Target       *config.ProcessTarget `json:"target,omitempty"`
	Alternatives *tunable.Alternatives `json:"alternatives,omitempty"`
}

// Status re-reads the live tunable rather than caching a belief about
// its value; another actor may have changed it.
func (d *Daemon) Status() Status {
	st := Status{
		State:     State(d.state.Load()).String(),
		Cycle:     d.cycle.Load(),
		WindowLen: d.window.Len(),
		Weights:   d.reconciler.Weights(),
		Target:    d.reconciler.Target(),
	}
	if current, err := d.tun.Read(); err == nil {
		st.Swappiness = current
	}
	if avg, ok := d.window.MovingAverage(); ok {
		alt := tunable.CalculateAlternatives(tunable.InputsFromAverages(avg), st.Weights)
		st.Alternatives = &alt
	}
	return st
}

// Window exposes the metrics window for read-only consumers.
func (d *Daemon) Window() *metrics.Window {
	return d.window
}

// Subscribe returns a channel receiving future decision records. Slow
// consumers lose records rather than stalling the loop.
func (d *Daemon) Subscribe() chan journal.Entry {
	ch := make(chan journal.Entry, 16)
	d.subMu.Lock()
	d.subs[ch] = struct{}{}
	d.subMu.Unlock()
	return ch
}

func (d *Daemon) Unsubscribe(ch chan journal.Entry) {
	d.subMu.Lock()
	if _, ok := d.subs[ch]; ok {
		delete(d.subs, ch)
		close(ch)
	}
	d.subMu.Unlock()
}

func (d *Daemon) broadcast(e journal.Entry) {
	d.subMu.Lock()
	defer d.subMu.Unlock()
	for ch := range d.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

func (d *Daemon) setState(s State) {
	d.state.Store(int32(s))
}
