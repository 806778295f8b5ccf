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

import (
	"flag"
	stdlog "log"
	"os"
	"time"

	"github.com/alibaba/opensandbox/swapd/pkg/config"
	"github.com/alibaba/opensandbox/swapd/pkg/journal"
	"github.com/alibaba/opensandbox/swapd/pkg/log"
	"github.com/alibaba/opensandbox/swapd/pkg/tunable"
)

const (
	accessTokenEnv = "SWAPD_ACCESS_TOKEN"
	configPathEnv  = "SWAPD_CONFIG"
)

// InitFlags registers CLI flags and env overrides.
func InitFlags() {
	// Set default values
	WindowCapacity = 200
	SnapshotInterval = 5 * time.Second
	SwapfileSizeMB = 1024
	SwapfilePath = "/swapfile"
	SwappinessPath = tunable.DefaultSwappinessPath
	ConfigPath = "swapd_cfg.json"
	JournalPath = journal.DefaultPath
	MonitorNiceness = config.DefaultNiceness
	ServerPort = 44773
	ServerLogLevel = 6
	ServerAccessToken = ""

	defaults := config.DefaultWeights()
	DiskLatencyWeight = defaults.DiskLatency
	CPUUsageWeight = defaults.CPUUsage
	RAMUsageWeight = defaults.RAMUsage
	NetworkBandwidthWeight = defaults.NetworkBandwidth

	// First, set default values from environment variables
	if token := os.Getenv(accessTokenEnv); token != "" {
		ServerAccessToken = token
	}
	if path := os.Getenv(configPathEnv); path != "" {
		ConfigPath = path
	}

	// Then define flags with current values as defaults
	flag.IntVar(&WindowCapacity, "max-entries", WindowCapacity, "Max number of metric snapshots before deleting old ones")
	flag.DurationVar(&SnapshotInterval, "snapshot-interval", SnapshotInterval, "Interval for metric snapshots (default: 5s)")
	flag.IntVar(&SwapfileSizeMB, "swapfile-size", SwapfileSizeMB, "Size of swapfile in MB (default 1GB)")
	flag.StringVar(&SwapfilePath, "swapfile-path", SwapfilePath, "Path of the backing swap file")
	flag.StringVar(&SwappinessPath, "swappiness-path", SwappinessPath, "Path of the vm.swappiness kernel tunable")
	flag.StringVar(&ConfigPath, "config", ConfigPath, "JSON configuration file polled every tick")
	flag.StringVar(&JournalPath, "journal", JournalPath, "Append-only decision log file")
	flag.IntVar(&MonitorPID, "pid", MonitorPID, "Process ID to monitor")
	flag.IntVar(&MonitorNiceness, "niceness", MonitorNiceness, "Niceness value for the monitored PID (-20 to 19)")
	flag.Float64Var(&DiskLatencyWeight, "disk-latency-weight", DiskLatencyWeight, "Weight for disk latency in swappiness calculation")
	flag.Float64Var(&CPUUsageWeight, "cpu-usage-weight", CPUUsageWeight, "Weight for CPU usage in swappiness calculation")
	flag.Float64Var(&RAMUsageWeight, "ram-usage-weight", RAMUsageWeight, "Weight for RAM usage in swappiness calculation")
	flag.Float64Var(&NetworkBandwidthWeight, "network-bandwidth-weight", NetworkBandwidthWeight, "Weight for network bandwidth in swappiness calculation")
	flag.IntVar(&ServerPort, "port", ServerPort, "Server listening port (default: 44773)")
	flag.IntVar(&ServerLogLevel, "log-level", ServerLogLevel, "Server log level (3=LevelError, 4=LevelWarning, 6=LevelInformational, 7=LevelDebug, default: 6)")
	flag.StringVar(&ServerAccessToken, "access-token", ServerAccessToken, "Server access token for API authentication")

	// Parse flags - these will override environment variables if provided
	flag.Parse()

	if MonitorNiceness < -20 || MonitorNiceness > 19 {
		stdlog.Panicf("Niceness value must be between -20 and 19, got %d", MonitorNiceness)
	}

	// Log final values
	log.Info("Snapshot interval is: %s, window capacity: %d", SnapshotInterval, WindowCapacity)
	log.Info("Config file is: %s, journal is: %s", ConfigPath, JournalPath)
}

// InitialWeights assembles the weighting from the CLI overrides. The
// caller must validate it before use.
func InitialWeights() config.Weights {
	return config.Weights{
		DiskLatency:      DiskLatencyWeight,
		CPUUsage:         CPUUsageWeight,
		RAMUsage:         RAMUsageWeight,
		NetworkBandwidth: NetworkBandwidthWeight,
	}
}
