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

package controller

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/alibaba/opensandbox/swapd/pkg/config"
	"github.com/alibaba/opensandbox/swapd/pkg/daemon"
	"github.com/alibaba/opensandbox/swapd/pkg/journal"
	"github.com/alibaba/opensandbox/swapd/pkg/metrics"
	"github.com/alibaba/opensandbox/swapd/pkg/stress"
	"github.com/alibaba/opensandbox/swapd/pkg/tunable"
)

type stubProvisioner struct{}

func (stubProvisioner) Ensure(context.Context) error { return nil }

type stubSampler struct{}

func (stubSampler) Sample() (*metrics.Snapshot, error) {
	return &metrics.Snapshot{Timestamp: time.Now().UTC()}, nil
}

type stubConfigSource struct{}

func (stubConfigSource) Fetch() (*config.File, error) {
	return &config.File{Weights: config.DefaultWeights()}, nil
}

type stubProcessControl struct {
	alive      bool
	priorities map[int32]int
}

func (p *stubProcessControl) Alive(int32) bool {
	return p.alive
}

func (p *stubProcessControl) SetPriority(pid int32, niceness int) error {
	p.priorities[pid] = niceness
	return nil
}

// initTestControllers wires the package globals to an idle daemon backed
// by temp files. Returns the daemon plus the tunable and process control
// stubs so tests can observe side effects.
func initTestControllers(t *testing.T) (*daemon.Daemon, *tunable.Swappiness, *stubProcessControl) {
	t.Helper()
	dir := t.TempDir()

	tunPath := filepath.Join(dir, "swappiness")
	require.NoError(t, os.WriteFile(tunPath, []byte("60"), 0o644))
	testTun := tunable.NewSwappiness(tunPath)

	rec := config.NewReconciler(stubConfigSource{}, &stubProcessControl{}, config.DefaultWeights())
	d := daemon.New(
		daemon.Options{WindowCapacity: 10, Interval: time.Minute},
		stubProvisioner{},
		stubSampler{},
		rec,
		testTun,
		journal.New(filepath.Join(dir, "decisions.txt")),
	)

	testProcs := &stubProcessControl{alive: true, priorities: map[int32]int{}}
	Init(d, stress.NewGenerator(), testTun, testProcs)
	return d, testTun, testProcs
}
