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
	"math"

	"github.com/alibaba/opensandbox/swapd/pkg/config"
	"github.com/alibaba/opensandbox/swapd/pkg/metrics"
)

const (
	// MinValue and MaxValue bound the tunable domain.
	MinValue = 1
	MaxValue = 200

	// HysteresisDelta is the minimum change worth committing; smaller
	// candidates are discarded to prevent oscillation from noise.
	HysteresisDelta = 5

	// Fixed calibration baselines for normalization, not derived from
	// observed load.
	diskLatencyBaselineMs = 100
	networkBaselineMB     = 1000
)

// Inputs are the moving averages the calculator consumes.
type Inputs struct {
	DiskLatencyMs float64
	CPUUsagePct   float64
	RAMUsagePct   float64
	NetworkMB     float64
}

// InputsFromAverages projects window averages onto calculator inputs.
func InputsFromAverages(a metrics.Averages) Inputs {
	return Inputs{
		DiskLatencyMs: a.DiskReadLatencyMs,
		CPUUsagePct:   a.CPUUsagePct,
		RAMUsagePct:   a.RAMUsagePct,
		NetworkMB:     a.NetworkTotalMB,
	}
}

type normalized struct {
	diskLatency float64
	cpuUsage    float64
	ramUsage    float64
	network     float64
}

func normalize(in Inputs) normalized {
	return normalized{
		diskLatency: math.Min(1.0, in.DiskLatencyMs/diskLatencyBaselineMs),
		cpuUsage:    in.CPUUsagePct / 100,
		ramUsage:    in.RAMUsagePct / 100,
		network:     math.Min(1.0, in.NetworkMB/networkBaselineMB),
	}
}

// Calculate derives the target swappiness from averaged metrics and the
// active weighting. The cpu_factor multiplicatively suppresses
// swappiness under CPU pressure so that high CPU load can never be
// overridden by the other three dimensions.
func Calculate(in Inputs, w config.Weights) int {
	n := normalize(in)

	weightedScore := w.DiskLatency*n.diskLatency +
		w.CPUUsage*n.cpuUsage +
		w.RAMUsage*n.ramUsage +
		w.NetworkBandwidth*n.network

	cpuFactor := 1 - in.CPUUsagePct/100
	base := 100 + (weightedScore-0.5)*200

	return clamp(int(math.Round(base * cpuFactor)))
}

func clamp(v int) int {
	if v < MinValue {
		return MinValue
	}
	if v > MaxValue {
		return MaxValue
	}
	return v
}

// Alternatives are the per-objective score variants. They are
// display-only: the control decision always uses the general formula
// in Calculate, never these.
type Alternatives struct {
	DiskOptimized    int `json:"disk_optimized"`
	NetworkOptimized int `json:"network_optimized"`
	CPUOptimized     int `json:"cpu_optimized"`
}

// CalculateAlternatives computes the three objective-specific variants
// on the normalized metrics. Each variant penalizes its own dimension
// and lets the remaining dimensions push the value up.
func CalculateAlternatives(in Inputs, w config.Weights) Alternatives {
	n := normalize(in)

	disk := -w.DiskLatency*n.diskLatency + w.CPUUsage*n.cpuUsage + w.RAMUsage*n.ramUsage
	network := -w.NetworkBandwidth*n.network + w.RAMUsage*n.ramUsage + w.CPUUsage*n.cpuUsage
	cpu := -w.CPUUsage*n.cpuUsage + w.RAMUsage*n.ramUsage + w.DiskLatency*n.diskLatency

	return Alternatives{
		DiskOptimized:    clamp(int(math.Round(100 + disk*100))),
		NetworkOptimized: clamp(int(math.Round(100 + network*100))),
		CPUOptimized:     clamp(int(math.Round(100 + cpu*100))),
	}
}

// Change records one committed tunable update.
type Change struct {
	Old int `json:"old"`
	New int `json:"new"`
}

// Controller gates candidate values through hysteresis before writing
// them to the live tunable.
type Controller struct {
	tun *Swappiness
}

func NewController(tun *Swappiness) *Controller {
	return &Controller{tun: tun}
}

// Evaluate reads the current tunable value, computes a candidate and
// commits it when the delta passes the hysteresis gate. Returns nil
// without error when the candidate was discarded.
func (c *Controller) Evaluate(in Inputs, w config.Weights) (*Change, error) {
	current, err := c.tun.Read()
	if err != nil {
		return nil, err
	}

	candidate := Calculate(in, w)
	if abs(candidate-current) < HysteresisDelta {
		return nil, nil
	}

	if err := c.tun.Write(candidate); err != nil {
		return nil, err
	}
	return &Change{Old: current, New: candidate}, nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
