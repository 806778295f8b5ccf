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

package metrics

import "sync"

const (
	// DefaultCapacity bounds the window when no capacity is configured.
	DefaultCapacity = 200

	// MinSamples is the number of snapshots required before moving
	// averages are considered meaningful.
	MinSamples = 5
)

// Window is a bounded, insertion-ordered sequence of snapshots backed by
// a ring buffer. Appending to a full window evicts the oldest entry.
// Safe for one writer plus concurrent readers.
type Window struct {
	mu    sync.RWMutex
	buf   []Snapshot
	head  int
	count int
}

func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Window{buf: make([]Snapshot, capacity)}
}

// Append adds a snapshot at the tail, evicting the head when full.
func (w *Window) Append(s Snapshot) {
	w.mu.Lock()
	defer w.mu.Unlock()

	tail := (w.head + w.count) % len(w.buf)
	w.buf[tail] = s
	if w.count < len(w.buf) {
		w.count++
	} else {
		w.head = (w.head + 1) % len(w.buf)
	}
}

func (w *Window) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.count
}

func (w *Window) Capacity() int {
	return len(w.buf)
}

// Latest returns the most recently appended snapshot.
func (w *Window) Latest() (Snapshot, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.count == 0 {
		return Snapshot{}, false
	}
	return w.buf[(w.head+w.count-1)%len(w.buf)], true
}

// Snapshots returns the held snapshots in insertion order.
func (w *Window) Snapshots() []Snapshot {
	w.mu.RLock()
	defer w.mu.RUnlock()

	out := make([]Snapshot, 0, w.count)
	for i := 0; i < w.count; i++ {
		out = append(out, w.buf[(w.head+i)%len(w.buf)])
	}
	return out
}

// MovingAverage reports the mean of every numeric field across the held
// snapshots. The second return value is false while the window holds
// fewer than MinSamples entries; callers must skip the cycle rather than
// act on noise.
func (w *Window) MovingAverage() (Averages, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if w.count < MinSamples {
		return Averages{}, false
	}

	var avg Averages
	for i := 0; i < w.count; i++ {
		s := w.buf[(w.head+i)%len(w.buf)]
		avg.CPUUsagePct += s.CPUUsagePct
		avg.RAMUsagePct += s.RAMUsagePct
		avg.SwapUsagePct += s.SwapUsagePct
		avg.SwapTotalBytes += float64(s.SwapTotalBytes)
		avg.SwapUsedBytes += float64(s.SwapUsedBytes)
		avg.DiskReadLatencyMs += s.DiskReadLatencyMs
		avg.DiskReadCount += float64(s.DiskReadCount)
		avg.DiskWriteCount += float64(s.DiskWriteCount)
		avg.NetworkTotalMB += s.NetworkTotalMB
	}

	n := float64(w.count)
	avg.CPUUsagePct /= n
	avg.RAMUsagePct /= n
	avg.SwapUsagePct /= n
	avg.SwapTotalBytes /= n
	avg.SwapUsedBytes /= n
	avg.DiskReadLatencyMs /= n
	avg.DiskReadCount /= n
	avg.DiskWriteCount /= n
	avg.NetworkTotalMB /= n
	return avg, true
}
