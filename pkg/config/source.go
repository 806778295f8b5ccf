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
	"encoding/json"
	"fmt"
	"os"
)

// File is one decoded configuration read. Missing weight keys fall back
// to the defaults passed to the source; PID and NICENESS stay nil when
// absent.
type File struct {
	Weights  Weights
	PID      *int32
	Niceness *int
}

// Source fetches the current external configuration, fallibly. The
// polling file source below is the default; a push-based watch can be
// swapped in without changing the Reconciler's diff contract.
type Source interface {
	Fetch() (*File, error)
}

// FileSource reads a JSON configuration file once per call.
type FileSource struct {
	path     string
	defaults Weights
}

func NewFileSource(path string, defaults Weights) *FileSource {
	return &FileSource{path: path, defaults: defaults}
}

func (s *FileSource) Fetch() (*File, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", s.path, err)
	}

	raw := struct {
		DiskLatency      *float64 `json:"DISK_LATENCY"`
		CPUUsage         *float64 `json:"CPU_USAGE"`
		RAMUsage         *float64 `json:"RAM_USAGE"`
		NetworkBandwidth *float64 `json:"NETWORK_BANDWIDTH"`
		PID              *int32   `json:"PID"`
		Niceness         *int     `json:"NICENESS"`
	}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", s.path, err)
	}

	weights := s.defaults
	if raw.DiskLatency != nil {
		weights.DiskLatency = *raw.DiskLatency
	}
	if raw.CPUUsage != nil {
		weights.CPUUsage = *raw.CPUUsage
	}
	if raw.RAMUsage != nil {
		weights.RAMUsage = *raw.RAMUsage
	}
	if raw.NetworkBandwidth != nil {
		weights.NetworkBandwidth = *raw.NetworkBandwidth
	}

	return &File{Weights: weights, PID: raw.PID, Niceness: raw.Niceness}, nil
}
