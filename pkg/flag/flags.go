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

package flag

import "time"

var (
	// WindowCapacity bounds the metrics window; oldest entries are
	// evicted beyond it.
	WindowCapacity int

	// SnapshotInterval is the tick period of the control loop.
	SnapshotInterval time.Duration

	// SwapfileSizeMB sizes the backing swap file created at startup.
	SwapfileSizeMB int

	// SwapfilePath locates the backing swap file.
	SwapfilePath string

	// SwappinessPath locates the kernel tunable.
	SwappinessPath string

	// ConfigPath is the JSON configuration file polled every tick.
	ConfigPath string

	// JournalPath is the append-only decision log.
	JournalPath string

	// MonitorPID optionally selects a process to keep prioritized.
	MonitorPID int

	// MonitorNiceness is the priority applied to MonitorPID (-20..19).
	MonitorNiceness int

	// DiskLatencyWeight, CPUUsageWeight, RAMUsageWeight and
	// NetworkBandwidthWeight override the default weighting; the four
	// must still sum to 1.0.
	DiskLatencyWeight      float64
	CPUUsageWeight         float64
	RAMUsageWeight         float64
	NetworkBandwidthWeight float64

	// ServerPort controls the HTTP listener port.
	ServerPort int

	// ServerLogLevel controls the server log verbosity.
	ServerLogLevel int

	// ServerAccessToken guards API entrypoints when set.
	ServerAccessToken string
)
