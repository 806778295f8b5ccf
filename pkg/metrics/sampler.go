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
	"fmt"
	"time"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/disk"
	"github.com/shirou/gopsutil/mem"
	"github.com/shirou/gopsutil/net"
)

// Sampler reads system counters into a Snapshot. Sampling blocks for
// cpuInterval to get an accurate CPU utilization reading.
type Sampler struct {
	cpuInterval time.Duration
}

func NewSampler() *Sampler {
	return &Sampler{cpuInterval: time.Second}
}

// Sample produces exactly one Snapshot, synchronously, with no side
// effects beyond the reads. If any underlying counter read fails, the
// entire sample is dropped rather than returning a partially-filled one.
func (s *Sampler) Sample() (*Snapshot, error) {
	cpuPct, err := cpu.Percent(s.cpuInterval, false)
	if err != nil {
		return nil, fmt.Errorf("failed to read CPU percent: %w", err)
	}
	if len(cpuPct) == 0 {
		return nil, fmt.Errorf("no CPU percent reported")
	}

	vmStat, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to read virtual memory: %w", err)
	}

	swapStat, err := mem.SwapMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to read swap memory: %w", err)
	}

	ioStats, err := disk.IOCounters()
	if err != nil {
		return nil, fmt.Errorf("failed to read disk IO counters: %w", err)
	}

	netStats, err := net.IOCounters(false)
	if err != nil {
		return nil, fmt.Errorf("failed to read net IO counters: %w", err)
	}
	if len(netStats) == 0 {
		return nil, fmt.Errorf("no network IO counters reported")
	}

	var readTimeMs, readCount, writeCount uint64
	for _, st := range ioStats {
		readTimeMs += st.ReadTime
		readCount += st.ReadCount
		writeCount += st.WriteCount
	}

	// Cumulative read time over cumulative reads; zero reads means no
	// latency signal yet, not a division by zero.
	var readLatency float64
	if readCount > 0 {
		readLatency = float64(readTimeMs) / float64(readCount)
	}

	var swapPct float64
	if swapStat.Total > 0 {
		swapPct = float64(swapStat.Used) / float64(swapStat.Total) * 100
	}

	return &Snapshot{
		Timestamp:         time.Now().UTC(),
		CPUUsagePct:       cpuPct[0],
		RAMUsagePct:       vmStat.UsedPercent,
		SwapUsagePct:      swapPct,
		SwapTotalBytes:    swapStat.Total,
		SwapUsedBytes:     swapStat.Used,
		DiskReadLatencyMs: readLatency,
		DiskReadCount:     readCount,
		DiskWriteCount:    writeCount,
		NetworkTotalMB:    float64(netStats[0].BytesSent+netStats[0].BytesRecv) / 1024 / 1024,
	}, nil
}
