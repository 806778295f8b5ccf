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

package stress

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"net"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/shirou/gopsutil/mem"

	"github.com/alibaba/opensandbox/swapd/pkg/log"
	"github.com/alibaba/opensandbox/swapd/pkg/util/safego"
)

// Workload names accepted by Start.
const (
	WorkloadCPU     = "cpu"
	WorkloadMemory  = "memory"
	WorkloadDisk    = "disk"
	WorkloadNetwork = "network"
	WorkloadMixed   = "mixed"
)

// workerCounts mirrors the historical saturation mix: two workers per
// heavy workload, one for loopback network traffic.
var workerCounts = map[string]int{
	WorkloadCPU:     2,
	WorkloadMemory:  2,
	WorkloadDisk:    2,
	WorkloadNetwork: 1,
	WorkloadMixed:   2,
}

// Generator spins up synthetic load workers saturating CPU, memory,
// disk and network. It is purely a metrics producer the control loop
// observes indirectly through the OS; nothing here touches the tunable.
type Generator struct {
	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
	active []string
}

func NewGenerator() *Generator {
	return &Generator{}
}

// Start launches the requested workloads; an empty list starts all of
// them. Returns an error when workers are already running or a workload
// name is unknown.
func (g *Generator) Start(workloads []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.cancel != nil {
		return fmt.Errorf("stress workers already running")
	}

	if len(workloads) == 0 {
		for name := range workerCounts {
			workloads = append(workloads, name)
		}
		sort.Strings(workloads)
	}
	for _, name := range workloads {
		if _, ok := workerCounts[name]; !ok {
			return fmt.Errorf("unknown workload %q", name)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	g.active = append([]string(nil), workloads...)

	for _, name := range workloads {
		worker := workerFor(name)
		for i := 0; i < workerCounts[name]; i++ {
			g.wg.Add(1)
			safego.Go(func() {
				defer g.wg.Done()
				worker(ctx)
			})
		}
	}

	log.Info("Started stress workloads: %v", workloads)
	return nil
}

// Stop cancels all workers and waits for them to exit.
func (g *Generator) Stop() {
	g.mu.Lock()
	cancel := g.cancel
	g.cancel = nil
	g.active = nil
	g.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	g.wg.Wait()
	log.Info("Stopped stress workloads")
}

// Active lists the currently running workloads.
func (g *Generator) Active() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.active...)
}

func workerFor(name string) func(context.Context) {
	switch name {
	case WorkloadCPU:
		return cpuWorker
	case WorkloadMemory:
		return memoryWorker
	case WorkloadDisk:
		return diskWorker
	case WorkloadNetwork:
		return networkWorker
	default:
		return mixedWorker
	}
}

// cpuWorker maxes out one core with math operations.
func cpuWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		for i := 0; i < 100000; i++ {
			_ = math.Pow(rand.Float64(), 2)
		}
	}
}

// memoryWorker consumes memory in 100MB chunks, releasing half when the
// host passes 90% RAM utilization.
func memoryWorker(ctx context.Context) {
	const chunkSize = 100 << 20

	var chunks [][]byte
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		chunk := make([]byte, chunkSize)
		// Touch every page so the allocation is actually backed.
		for i := 0; i < len(chunk); i += 4096 {
			chunk[i] = 1
		}
		chunks = append(chunks, chunk)

		if vm, err := mem.VirtualMemory(); err == nil && vm.UsedPercent > 90 {
			chunks = chunks[len(chunks)/2:]
		}
	}
}

// diskWorker generates heavy disk IO with varied file sizes, each write
// fsynced and read back before removal.
func diskWorker(ctx context.Context) {
	sizes := []int{1 << 20, 10 << 20, 100 << 20}

	dir, err := os.MkdirTemp("", "swapd-stress-")
	if err != nil {
		log.Error("disk worker failed to create temp dir: %v", err)
		return
	}
	defer os.RemoveAll(dir)

	for {
		for _, size := range sizes {
			select {
			case <-ctx.Done():
				return
			default:
			}

			path := filepath.Join(dir, fmt.Sprintf("test_file_%d", size))
			if err := writeAndReadBack(path, size); err != nil {
				log.Warning("disk worker IO error: %v", err)
			}
			os.Remove(path)
		}
	}
}

func writeAndReadBack(path string, size int) error {
	data := make([]byte, size)
	rand.Read(data)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	_, err = os.ReadFile(path)
	return err
}

// networkWorker pushes UDP datagrams over loopback.
func networkWorker(ctx context.Context) {
	const chunkSize = 65000

	recvConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		log.Error("network worker failed to bind: %v", err)
		return
	}
	defer recvConn.Close()

	sendConn, err := net.DialUDP("udp", nil, recvConn.LocalAddr().(*net.UDPAddr))
	if err != nil {
		log.Error("network worker failed to dial: %v", err)
		return
	}
	defer sendConn.Close()

	data := make([]byte, chunkSize)
	buf := make([]byte, chunkSize)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		rand.Read(data)
		if _, err := sendConn.Write(data); err != nil {
			log.Warning("network worker send error: %v", err)
			continue
		}
		if _, err := recvConn.Read(buf); err != nil {
			log.Warning("network worker recv error: %v", err)
		}
	}
}

// mixedWorker combines CPU, memory and IO pressure.
func mixedWorker(ctx context.Context) {
	const chunkSize = 50 << 20

	dir, err := os.MkdirTemp("", "swapd-stress-mixed-")
	if err != nil {
		log.Error("mixed worker failed to create temp dir: %v", err)
		return
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "mixed_workload")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		for i := 0; i < 50000; i++ {
			_ = math.Pow(rand.Float64(), 2)
		}

		chunk := make([]byte, chunkSize)
		for i := 0; i < len(chunk); i += 4096 {
			chunk[i] = 1
		}
		_ = chunk

		if err := writeAndReadBack(path, 1<<20); err != nil {
			log.Warning("mixed worker IO error: %v", err)
		}
		os.Remove(path)
	}
}
