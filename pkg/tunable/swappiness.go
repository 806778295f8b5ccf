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
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultSwappinessPath is the kernel knob this daemon manages.
const DefaultSwappinessPath = "/proc/sys/vm/swappiness"

// Swappiness reads and writes the vm.swappiness kernel tunable. The
// value is host-global state shared with other actors; callers must
// re-read before deciding rather than cache a belief across ticks.
type Swappiness struct {
	path string
}

func NewSwappiness(path string) *Swappiness {
	if path == "" {
		path = DefaultSwappinessPath
	}
	return &Swappiness{path: path}
}

func (s *Swappiness) Read() (int, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return 0, fmt.Errorf("failed to read swappiness from %s: %w", s.path, err)
	}
	value, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("unexpected swappiness content %q: %w", strings.TrimSpace(string(data)), err)
	}
	return value, nil
}

func (s *Swappiness) Write(value int) error {
	if err := os.WriteFile(s.path, []byte(strconv.Itoa(value)), 0o644); err != nil {
		return fmt.Errorf("failed to write swappiness %d to %s: %w", value, s.path, err)
	}
	return nil
}
