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

//go:build !windows
// +build !windows

package config

import (
	"fmt"

	"github.com/shirou/gopsutil/process"
	"golang.org/x/sys/unix"
)

// ProcessControl checks liveness and adjusts scheduling priority of a
// process. Abstracted so the reconciler can be exercised without real
// processes.
type ProcessControl interface {
	Alive(pid int32) bool
	SetPriority(pid int32, niceness int) error
}

// OSProcessControl operates on real host processes.
type OSProcessControl struct{}

func (OSProcessControl) Alive(pid int32) bool {
	ok, err := process.PidExists(pid)
	return err == nil && ok
}

func (OSProcessControl) SetPriority(pid int32, niceness int) error {
	if err := unix.Setpriority(unix.PRIO_PROCESS, int(pid), niceness); err != nil {
		return fmt.Errorf("failed to set priority %d for pid %d: %w", niceness, pid, err)
	}
	return nil
}
