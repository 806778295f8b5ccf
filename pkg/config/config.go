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

package config

import (
	"fmt"
	"math"

	"github.com/go-playground/validator/v10"
)

// SumTolerance allows for small floating point errors when checking that
// weights sum to 1.0.
const SumTolerance = 0.001

// DefaultNiceness applies when a monitored process has no configured
// priority.
const DefaultNiceness = 0

// Weights holds the four coefficients of the swappiness heuristic. A
// valid weighting is non-negative and sums to 1.0 within SumTolerance.
type Weights struct {
	DiskLatency      float64 `json:"DISK_LATENCY" validate:"gte=0"`
	CPUUsage         float64 `json:"CPU_USAGE" validate:"gte=0"`
	RAMUsage         float64 `json:"RAM_USAGE" validate:"gte=0"`
	NetworkBandwidth float64 `json:"NETWORK_BANDWIDTH" validate:"gte=0"`
}

// DefaultWeights spreads the four dimensions evenly.
func DefaultWeights() Weights {
	return Weights{
		DiskLatency:      0.25,
		CPUUsage:         0.25,
		RAMUsage:         0.25,
		NetworkBandwidth: 0.25,
	}
}

func (w Weights) Sum() float64 {
	return w.DiskLatency + w.CPUUsage + w.RAMUsage + w.NetworkBandwidth
}

func (w Weights) Validate() error {
	validate := validator.New()
	if err := validate.Struct(w); err != nil {
		return err
	}
	if sum := w.Sum(); math.Abs(sum-1.0) > SumTolerance {
		return fmt.Errorf("weights must sum to 1.0 (current sum: %v)", sum)
	}
	return nil
}

func (w Weights) String() string {
	return fmt.Sprintf("{disk_latency: %.3f, cpu_usage: %.3f, ram_usage: %.3f, network_bandwidth: %.3f}",
		w.DiskLatency, w.CPUUsage, w.RAMUsage, w.NetworkBandwidth)
}

// WeightsChange records a before/after pair detected during a reload.
type WeightsChange struct {
	Old Weights `json:"old"`
	New Weights `json:"new"`
}

// ProcessTarget designates a process whose scheduling priority the loop
// keeps synchronized with configuration.
type ProcessTarget struct {
	PID      int32 `json:"pid"`
	Niceness int   `json:"niceness"`
}
