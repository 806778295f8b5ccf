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

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs/maxprocs"

	"github.com/alibaba/opensandbox/swapd/pkg/config"
	"github.com/alibaba/opensandbox/swapd/pkg/daemon"
	"github.com/alibaba/opensandbox/swapd/pkg/flag"
	"github.com/alibaba/opensandbox/swapd/pkg/journal"
	"github.com/alibaba/opensandbox/swapd/pkg/log"
	"github.com/alibaba/opensandbox/swapd/pkg/metrics"
	"github.com/alibaba/opensandbox/swapd/pkg/stress"
	"github.com/alibaba/opensandbox/swapd/pkg/swapfile"
	"github.com/alibaba/opensandbox/swapd/pkg/tunable"
	"github.com/alibaba/opensandbox/swapd/pkg/util/safego"
	"github.com/alibaba/opensandbox/swapd/pkg/web"
	"github.com/alibaba/opensandbox/swapd/pkg/web/controller"
)

// main initializes and starts the swapd control loop and API server.
func main() {
	flag.InitFlags()
	log.SetLevel(flag.ServerLogLevel)
	defer log.Sync()

	weights := flag.InitialWeights()
	if err := weights.Validate(); err != nil {
		log.Error("Invalid weight overrides: %v", err)
		os.Exit(2)
	}

	tun := tunable.NewSwappiness(flag.SwappinessPath)
	procs := config.OSProcessControl{}

	if flag.MonitorPID > 0 {
		pid := int32(flag.MonitorPID)
		if !procs.Alive(pid) {
			log.Error("Process with PID %d not found", pid)
			os.Exit(2)
		}
		if err := procs.SetPriority(pid, flag.MonitorNiceness); err != nil {
			log.Error("Failed to set niceness: %v", err)
			os.Exit(2)
		}
		log.Info("Monitoring process with PID %d, niceness %d", pid, flag.MonitorNiceness)
	}

	reconciler := config.NewReconciler(
		config.NewFileSource(flag.ConfigPath, weights),
		procs,
		weights,
	)

	loop := daemon.New(
		daemon.Options{
			WindowCapacity: flag.WindowCapacity,
			Interval:       flag.SnapshotInterval,
		},
		swapfile.NewProvisioner(swapfile.Spec{Path: flag.SwapfilePath, SizeMB: flag.SwapfileSizeMB}),
		metrics.NewSampler(),
		reconciler,
		tun,
		journal.New(flag.JournalPath),
	)

	generator := stress.NewGenerator()
	controller.Init(loop, generator, tun, procs)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := make(chan error, 1)
	safego.Go(func() { runErr <- loop.Run(ctx) })

	engine := web.NewRouter(flag.ServerAccessToken)
	addr := fmt.Sprintf(":%d", flag.ServerPort)
	safego.Go(func() {
		log.Info("swapd listening on %s", addr)
		if err := engine.Run(addr); err != nil {
			// The control loop keeps running headless when the listener
			// cannot start.
			log.Error("failed to start swapd server: %v", err)
		}
	})

	err := <-runErr
	generator.Stop()
	if err != nil {
		log.Error("swapd failed: %v", err)
		log.Sync()
		os.Exit(1)
	}
}
