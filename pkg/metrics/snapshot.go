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

import "time"

// Snapshot is an immutable record of one sampling instant. It is created
// once per tick by the Sampler and owned by the Window after insertion.
type Snapshot struct {
	Timestamp         time.Time `json:"timestamp"`
	CPUUsagePct       float64   `json:"cpu_usage_pct"`
	RAMUsagePct       float64   `json:"ram_usage_pct"`
	SwapUsagePct      float64   `json:"swap_usage_pct"`
	SwapTotalBytes    uint64    `json:"swap_total_bytes"`
	SwapUsedBytes     uint64    `json:"swap_used_bytes"`
	DiskReadLatencyMs float64   `json:"disk_read_latency_ms"`
	DiskReadCount     uint64    `json:"disk_read_count"`
	DiskWriteCount    uint64    `json:"disk_write_count"`
	// NetworkTotalMB is the cumulative sent+received byte count since
	// boot, in MB. It is not a rate; callers wanting a rate must diff
	// across snapshots themselves.
	NetworkTotalMB float64 `json:"network_total_mb"`
}

// Averages holds the arithmetic mean of every numeric Snapshot field
// across the window. Counter fields are widened to float64.
type Averages struct {
	CPUUsagePct       float64 `json:"cpu_usage_pct"`
	RAMUsagePct       float64 `json:"ram_usage_pct"`
	SwapUsagePct      float64 `json:"swap_usage_pct"`
	SwapTotalBytes    float64 `json:"swap_total_bytes"`
	SwapUsedBytes     float64 `json:"swap_used_bytes"`
	DiskReadLatencyMs float64 `json:"disk_read_latency_ms"`
	DiskReadCount     float64 `json:"disk_read_count"`
	DiskWriteCount    float64 `json:"disk_write_count"`
	NetworkTotalMB    float64 `json:"network_total_mb"`
}
