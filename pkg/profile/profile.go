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

package profile

import (
	"fmt"
	"sort"

	"github.com/alibaba/opensandbox/swapd/pkg/config"
	"github.com/alibaba/opensandbox/swapd/pkg/tunable"
)

// Profile is a static (niceness, swappiness) preset for a workload
// archetype. Presets are lookup data, not control logic: applying one
// does not interact with the adaptive loop beyond writing the same
// host-global tunable.
type Profile struct {
	Name        string `json:"name"`
	Niceness    int    `json:"niceness"`
	Swappiness  int    `json:"swappiness"`
	Description string `json:"description"`
}

var presets = map[string]Profile{
	"background": {
		Name:        "background",
		Niceness:    19,
		Swappiness:  180,
		Description: "low-cost background tasks that tolerate aggressive swapping",
	},
	"memory-intensive": {
		Name:        "memory-intensive",
		Niceness:    15,
		Swappiness:  10,
		Description: "background tasks that need quick memory access",
	},
	"time-critical": {
		Name:        "time-critical",
		Niceness:    -15,
		Swappiness:  5,
		Description: "tasks needing both CPU priority and minimal memory latency",
	},
	"cpu-intensive": {
		Name:        "cpu-intensive",
		Niceness:    -10,
		Swappiness:  150,
		Description: "compute-heavy tasks without fast memory access needs",
	},
	"balanced": {
		Name:        "balanced",
		Niceness:    0,
		Swappiness:  60,
		Description: "general-purpose tasks with moderate CPU and memory needs",
	},
}

// Lookup returns the preset for the given archetype name.
func Lookup(name string) (Profile, bool) {
	p, ok := presets[name]
	return p, ok
}

// Names lists the available archetypes in stable order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply sets the process niceness and the global swappiness value
// according to the preset.
func (p Profile) Apply(pid int32, procs config.ProcessControl, tun *tunable.Swappiness) error {
	if !procs.Alive(pid) {
		return fmt.Errorf("pid %d is not running", pid)
	}
	if err := procs.SetPriority(pid, p.Niceness); err != nil {
		return err
	}
	if err := tun.Write(p.Swappiness); err != nil {
		return err
	}
	return nil
}
