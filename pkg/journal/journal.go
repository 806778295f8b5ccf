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

package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alibaba/opensandbox/swapd/pkg/config"
	"github.com/alibaba/opensandbox/swapd/pkg/metrics"
)

// DefaultPath is the append-only decision log location.
const DefaultPath = "/tmp/swapd_log.txt"

// Entry is one applied tunable change.
type Entry struct {
	ID            string                `json:"id"`
	Cycle         int64                 `json:"cycle"`
	Snapshot      metrics.Snapshot      `json:"snapshot"`
	OldSwappiness int                   `json:"old_swappiness"`
	NewSwappiness int                   `json:"new_swappiness"`
	WeightsChange *config.WeightsChange `json:"weights_change,omitempty"`
}

// Format renders the entry as the human-readable record appended to the
// decision log.
func (e Entry) Format() string {
	var b strings.Builder
	fmt.Fprintf(&b, "\nRecord: %d\n", e.Cycle)
	fmt.Fprintf(&b, "Decision: %s\n", e.ID)
	fmt.Fprintf(&b, "Timestamp (UTC): %s\n", e.Snapshot.Timestamp.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "CPU usage: %.2f%%\n", e.Snapshot.CPUUsagePct)
	fmt.Fprintf(&b, "RAM usage: %.2f%%\n", e.Snapshot.RAMUsagePct)
	fmt.Fprintf(&b, "Swap usage: %.2f%% (%.2fGB / %.2fGB)\n",
		e.Snapshot.SwapUsagePct,
		float64(e.Snapshot.SwapUsedBytes)/(1<<30),
		float64(e.Snapshot.SwapTotalBytes)/(1<<30))
	fmt.Fprintf(&b, "Disk I/O latency: %.2fms\n", e.Snapshot.DiskReadLatencyMs)
	fmt.Fprintf(&b, "Disk reads: %d\n", e.Snapshot.DiskReadCount)
	fmt.Fprintf(&b, "Disk writes: %d\n", e.Snapshot.DiskWriteCount)
	fmt.Fprintf(&b, "Network bandwidth: %.2fMB\n", e.Snapshot.NetworkTotalMB)
	fmt.Fprintf(&b, "Old swappiness: %d\n", e.OldSwappiness)
	fmt.Fprintf(&b, "New swappiness: %d\n", e.NewSwappiness)
	if e.WeightsChange != nil {
		fmt.Fprintf(&b, "Weights changed from %s to %s\n", e.WeightsChange.Old, e.WeightsChange.New)
	}
	b.WriteString(strings.Repeat("-", 50) + "\n")
	return b.String()
}

// Journal is the append-only decision sink. Write failures are the
// caller's to report; they never undo the tunable change that already
// took effect.
type Journal struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Journal {
	if path == "" {
		path = DefaultPath
	}
	return &Journal{path: path}
}

func (j *Journal) Path() string {
	return j.path
}

// Record appends one entry and fsyncs it. Assigns the entry ID when the
// caller left it empty; the assigned entry is returned.
func (j *Journal) Record(e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if dir := filepath.Dir(j.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return e, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return e, fmt.Errorf("failed to open journal %s: %w", j.path, err)
	}
	defer f.Close()

	if _, err := f.WriteString(e.Format()); err != nil {
		return e, fmt.Errorf("failed to append journal record: %w", err)
	}
	if err := f.Sync(); err != nil {
		return e, fmt.Errorf("failed to sync journal: %w", err)
	}
	return e, nil
}
