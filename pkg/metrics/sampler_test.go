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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSamplerSample exercises a real sample end-to-end.
func TestSamplerSample(t *testing.T) {
	s := NewSampler()
	s.cpuInterval = 50 * time.Millisecond

	snap, err := s.Sample()
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.False(t, snap.Timestamp.IsZero())
	assert.Equal(t, time.UTC, snap.Timestamp.Location())

	assert.GreaterOrEqual(t, snap.CPUUsagePct, 0.0)
	assert.Less(t, snap.CPUUsagePct, 100.1) // small float tolerance

	assert.Greater(t, snap.RAMUsagePct, 0.0)
	assert.LessOrEqual(t, snap.RAMUsagePct, 100.0)

	assert.GreaterOrEqual(t, snap.SwapUsagePct, 0.0)
	assert.LessOrEqual(t, snap.SwapUsedBytes, snap.SwapTotalBytes)

	assert.GreaterOrEqual(t, snap.DiskReadLatencyMs, 0.0)
	assert.GreaterOrEqual(t, snap.NetworkTotalMB, 0.0)
}

// TestSamplerSnapshotsAreIndependent confirms successive samples do not
// share state; counters are cumulative and must be monotonic.
func TestSamplerSnapshotsAreIndependent(t *testing.T) {
	s := NewSampler()
	s.cpuInterval = 50 * time.Millisecond

	first, err := s.Sample()
	require.NoError(t, err)
	second, err := s.Sample()
	require.NoError(t, err)

	assert.True(t, second.Timestamp.After(first.Timestamp))
	assert.GreaterOrEqual(t, second.DiskReadCount, first.DiskReadCount)
	assert.GreaterOrEqual(t, second.DiskWriteCount, first.DiskWriteCount)
	assert.GreaterOrEqual(t, second.NetworkTotalMB, first.NetworkTotalMB)
}
