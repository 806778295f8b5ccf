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

package controller

import (
	"github.com/alibaba/opensandbox/swapd/pkg/config"
	"github.com/alibaba/opensandbox/swapd/pkg/daemon"
	"github.com/alibaba/opensandbox/swapd/pkg/stress"
	"github.com/alibaba/opensandbox/swapd/pkg/tunable"
)

var (
	loop      *daemon.Daemon
	generator *stress.Generator
	tun       *tunable.Swappiness
	procs     config.ProcessControl
)

// Init wires the controllers to the running daemon. Must be called
// before the router starts serving.
func Init(d *daemon.Daemon, g *stress.Generator, t *tunable.Swappiness, p config.ProcessControl) {
	loop = d
	generator = g
	tun = t
	procs = p
}
