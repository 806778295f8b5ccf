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

//go:build linux
// +build linux

package swapfile

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sys/unix"

	"github.com/alibaba/opensandbox/swapd/pkg/log"
)

// DefaultPath is where the backing swap file is created.
const DefaultPath = "/swapfile"

const (
	mkswapTimeout = 30 * time.Second
	zeroChunkSize = 1 << 20
)

// Spec describes the backing swap area: present-or-absent, no partial
// state is modeled.
type Spec struct {
	Path   string
	SizeMB int
}

// Provisioner ensures the swap backing store exists and is active. It
// runs once before the control loop starts and is idempotent: an
// existing swap file is left untouched.
type Provisioner struct {
	spec Spec

	// Swappable for tests; default to mkswap(8) and swapon(2).
	mkswap func(ctx context.Context, path string) error
	swapon func(path string) error
}

func NewProvisioner(spec Spec) *Provisioner {
	if spec.Path == "" {
		spec.Path = DefaultPath
	}
	return &Provisioner{
		spec:   spec,
		mkswap: runMkswap,
		swapon: func(path string) error { return unix.Swapon(path, 0) },
	}
}

// Ensure provisions the swap area. Any failure removes a partially
// created file and returns an error; the control loop must not start
// without an active swap area.
func (p *Provisioner) Ensure(ctx context.Context) error {
	if _, err := os.Stat(p.spec.Path); err == nil {
		log.Info("Swapfile %s already exists", p.spec.Path)
		return nil
	}

	log.Info("Creating %dMB swapfile at %s", p.spec.SizeMB, p.spec.Path)

	if err := p.allocate(); err != nil {
		p.cleanup()
		return fmt.Errorf("failed to allocate swapfile: %w", err)
	}

	// The swap file must be readable by the owning user only.
	if err := os.Chmod(p.spec.Path, 0o600); err != nil {
		p.cleanup()
		return fmt.Errorf("failed to restrict swapfile permissions: %w", err)
	}

	if err := p.mkswap(ctx, p.spec.Path); err != nil {
		p.cleanup()
		return fmt.Errorf("failed to write swap signature: %w", err)
	}

	if err := p.swapon(p.spec.Path); err != nil {
		p.cleanup()
		return fmt.Errorf("failed to activate swapfile: %w", err)
	}

	log.Info("Successfully created and enabled %dMB swapfile", p.spec.SizeMB)
	return nil
}

// allocate reserves the file, preferring fallocate and falling back to
// writing zeroes when the filesystem does not support it (BTRFS is one
// example).
func (p *Provisioner) allocate() error {
	f, err := os.OpenFile(p.spec.Path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	size := int64(p.spec.SizeMB) << 20
	err = unix.Fallocate(int(f.Fd()), 0, 0, size)
	if err == nil {
		return f.Sync()
	}
	if err != unix.EOPNOTSUPP && err != unix.ENOSYS {
		return err
	}

	log.Warning("fallocate unsupported on this filesystem, falling back to zero fill")
	buf := make([]byte, zeroChunkSize)
	for written := int64(0); written < size; {
		chunk := size - written
		if chunk > zeroChunkSize {
			chunk = zeroChunkSize
		}
		n, err := f.Write(buf[:chunk])
		if err != nil {
			return err
		}
		written += int64(n)
	}
	return f.Sync()
}

func (p *Provisioner) cleanup() {
	if err := os.Remove(p.spec.Path); err != nil && !os.IsNotExist(err) {
		log.Warning("Failed to remove partial swapfile %s: %v", p.spec.Path, err)
	}
}

func runMkswap(ctx context.Context, path string) error {
	ctx, cancel := context.WithTimeout(ctx, mkswapTimeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, "mkswap", path).CombinedOutput()
	if err != nil {
		return fmt.Errorf("mkswap %s: %w (%s)", path, err, string(out))
	}
	return nil
}
