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

package tunable

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibaba/opensandbox/swapd/pkg/config"
)

func TestCalculateReferenceScenario(t *testing.T) {
	// 20ms disk latency, 80% CPU, 50% RAM, 200MB network with uniform
	// weighting and a current value of 100. The heavy cpu_factor pulls
	// the base of 85 down to 17.
	in := Inputs{
		DiskLatencyMs: 20,
		CPUUsagePct:   80,
		RAMUsagePct:   50,
		NetworkMB:     200,
	}

	got := Calculate(in, config.DefaultWeights())
	assert.Equal(t, 17, got)
}

func TestCalculateTable(t *testing.T) {
	uniform := config.DefaultWeights()
	tests := []struct {
		name string
		in   Inputs
		w    config.Weights
		want int
	}{
		{
			name: "idle system stays near base",
			in:   Inputs{},
			w:    uniform,
			// score 0, base 100+(0-0.5)*200 = 0, clamped to 1
			want: MinValue,
		},
		{
			name: "fully loaded system clamps low via cpu factor",
			in:   Inputs{DiskLatencyMs: 100, CPUUsagePct: 100, RAMUsagePct: 100, NetworkMB: 1000},
			w:    uniform,
			// cpu_factor 0 drives the candidate to 0, clamped to 1
			want: MinValue,
		},
		{
			name: "memory pressure without cpu load raises swappiness",
			in:   Inputs{RAMUsagePct: 100},
			w:    config.Weights{RAMUsage: 1},
			// score 1.0, base 300, clamped to 200
			want: MaxValue,
		},
		{
			name: "normalization saturates above baselines",
			in:   Inputs{DiskLatencyMs: 5000, NetworkMB: 50000},
			w:    config.Weights{DiskLatency: 0.5, NetworkBandwidth: 0.5},
			// both normalize to 1.0, score 1.0, base 300, clamped
			want: MaxValue,
		},
		{
			name: "half load is the neutral point",
			in:   Inputs{DiskLatencyMs: 50, CPUUsagePct: 50, RAMUsagePct: 50, NetworkMB: 500},
			w:    uniform,
			// score 0.5, base 100, cpu_factor 0.5
			want: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Calculate(tt.in, tt.w))
		})
	}
}

func TestCalculateStaysInDomain(t *testing.T) {
	weightings := []config.Weights{
		config.DefaultWeights(),
		{DiskLatency: 1},
		{CPUUsage: 1},
		{RAMUsage: 0.5, NetworkBandwidth: 0.5},
		{DiskLatency: 0.1, CPUUsage: 0.2, RAMUsage: 0.3, NetworkBandwidth: 0.4},
	}

	for _, w := range weightings {
		require.NoError(t, w.Validate())
		for cpu := 0.0; cpu <= 100; cpu += 25 {
			for ram := 0.0; ram <= 100; ram += 25 {
				for _, disk := range []float64{0, 20, 100, 500} {
					for _, net := range []float64{0, 200, 1000, 9000} {
						in := Inputs{DiskLatencyMs: disk, CPUUsagePct: cpu, RAMUsagePct: ram, NetworkMB: net}
						v := Calculate(in, w)
						if v < MinValue || v > MaxValue {
							t.Fatalf("Calculate(%+v, %v) = %d, outside [%d, %d]", in, w, v, MinValue, MaxValue)
						}
					}
				}
			}
		}
	}
}

func TestCalculateAlternativesStayInDomain(t *testing.T) {
	in := Inputs{DiskLatencyMs: 20, CPUUsagePct: 80, RAMUsagePct: 50, NetworkMB: 200}
	alt := CalculateAlternatives(in, config.DefaultWeights())

	for _, v := range []int{alt.DiskOptimized, alt.NetworkOptimized, alt.CPUOptimized} {
		assert.GreaterOrEqual(t, v, MinValue)
		assert.LessOrEqual(t, v, MaxValue)
	}

	// The disk variant penalizes its own dimension, so hot disks must
	// never raise it above the neutral 100.
	hotDisk := CalculateAlternatives(Inputs{DiskLatencyMs: 100}, config.Weights{DiskLatency: 1})
	assert.LessOrEqual(t, hotDisk.DiskOptimized, 100)
}

func newTestSwappiness(t *testing.T, initial string) *Swappiness {
	t.Helper()
	path := filepath.Join(t.TempDir(), "swappiness")
	require.NoError(t, os.WriteFile(path, []byte(initial), 0o644))
	return NewSwappiness(path)
}

func TestSwappinessReadWrite(t *testing.T) {
	tun := newTestSwappiness(t, "60\n")

	v, err := tun.Read()
	require.NoError(t, err)
	assert.Equal(t, 60, v)

	require.NoError(t, tun.Write(85))
	v, err = tun.Read()
	require.NoError(t, err)
	assert.Equal(t, 85, v)
}

func TestSwappinessReadErrors(t *testing.T) {
	missing := NewSwappiness(filepath.Join(t.TempDir(), "absent"))
	_, err := missing.Read()
	assert.Error(t, err)

	garbage := newTestSwappiness(t, "not-a-number")
	_, err = garbage.Read()
	assert.Error(t, err)
}

func TestControllerHysteresis(t *testing.T) {
	// ram=31.5% with full RAM weighting and idle CPU yields candidate
	// 63; against a current value of 60 the delta of 3 is discarded.
	w := config.Weights{RAMUsage: 1}
	tun := newTestSwappiness(t, "60")
	ctrl := NewController(tun)

	change, err := ctrl.Evaluate(Inputs{RAMUsagePct: 31.5}, w)
	require.NoError(t, err)
	assert.Nil(t, change)

	v, err := tun.Read()
	require.NoError(t, err)
	assert.Equal(t, 60, v, "discarded candidate must not touch the tunable")

	// ram=32.5% yields candidate 65; delta 5 meets the gate exactly.
	change, err = ctrl.Evaluate(Inputs{RAMUsagePct: 32.5}, w)
	require.NoError(t, err)
	require.NotNil(t, change)
	assert.Equal(t, Change{Old: 60, New: 65}, *change)

	v, err = tun.Read()
	require.NoError(t, err)
	assert.Equal(t, 65, v)
}

func TestControllerCommitsReferenceScenario(t *testing.T) {
	tun := newTestSwappiness(t, "100")
	ctrl := NewController(tun)

	in := Inputs{DiskLatencyMs: 20, CPUUsagePct: 80, RAMUsagePct: 50, NetworkMB: 200}
	change, err := ctrl.Evaluate(in, config.DefaultWeights())
	require.NoError(t, err)
	require.NotNil(t, change)
	assert.Equal(t, Change{Old: 100, New: 17}, *change)

	v, err := tun.Read()
	require.NoError(t, err)
	assert.Equal(t, 17, v)
}

func TestControllerReadFailure(t *testing.T) {
	tun := NewSwappiness(filepath.Join(t.TempDir(), "absent"))
	ctrl := NewController(tun)

	change, err := ctrl.Evaluate(Inputs{}, config.DefaultWeights())
	assert.Error(t, err)
	assert.Nil(t, change)
}
