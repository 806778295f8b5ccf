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
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProvisioner(t *testing.T) (*Provisioner, *int, *int) {
	t.Helper()

	p := NewProvisioner(Spec{
		Path:   filepath.Join(t.TempDir(), "swapfile"),
		SizeMB: 1,
	})

	mkswapCalls, swaponCalls := new(int), new(int)
	p.mkswap = func(context.Context, string) error {
		*mkswapCalls++
		return nil
	}
	p.swapon = func(string) error {
		*swaponCalls++
		return nil
	}
	return p, mkswapCalls, swaponCalls
}

func TestEnsureCreatesSwapfile(t *testing.T) {
	p, mkswapCalls, swaponCalls := newTestProvisioner(t)

	require.NoError(t, p.Ensure(context.Background()))
	assert.Equal(t, 1, *mkswapCalls)
	assert.Equal(t, 1, *swaponCalls)

	info, err := os.Stat(p.spec.Path)
	require.NoError(t, err)
	assert.Equal(t, int64(1<<20), info.Size())
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestEnsureIsIdempotent(t *testing.T) {
	p, mkswapCalls, swaponCalls := newTestProvisioner(t)

	require.NoError(t, p.Ensure(context.Background()))
	require.NoError(t, p.Ensure(context.Background()))

	// An existing file short-circuits; no second format or activation.
	assert.Equal(t, 1, *mkswapCalls)
	assert.Equal(t, 1, *swaponCalls)
}

func TestEnsureSkipsPreexistingFile(t *testing.T) {
	p, mkswapCalls, swaponCalls := newTestProvisioner(t)
	require.NoError(t, os.WriteFile(p.spec.Path, []byte("existing"), 0o600))

	require.NoError(t, p.Ensure(context.Background()))
	assert.Zero(t, *mkswapCalls)
	assert.Zero(t, *swaponCalls)
}

func TestEnsureCleansUpOnMkswapFailure(t *testing.T) {
	p, _, swaponCalls := newTestProvisioner(t)
	p.mkswap = func(context.Context, string) error {
		return errors.New("mkswap: cannot write signature")
	}

	err := p.Ensure(context.Background())
	require.Error(t, err)
	assert.Zero(t, *swaponCalls)

	_, statErr := os.Stat(p.spec.Path)
	assert.True(t, os.IsNotExist(statErr), "partial swapfile must be removed")
}

func TestEnsureCleansUpOnSwaponFailure(t *testing.T) {
	p, _, _ := newTestProvisioner(t)
	p.swapon = func(string) error {
		return errors.New("swapon: operation not permitted")
	}

	err := p.Ensure(context.Background())
	require.Error(t, err)

	_, statErr := os.Stat(p.spec.Path)
	assert.True(t, os.IsNotExist(statErr), "inactive swapfile must be removed")
}
