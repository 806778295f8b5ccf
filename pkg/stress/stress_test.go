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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartRejectsUnknownWorkload(t *testing.T) {
	g := NewGenerator()

	err := g.Start([]string{"gpu"})
	require.Error(t, err)
	assert.Empty(t, g.Active())
}

func TestStopWithoutStartIsNoop(t *testing.T) {
	g := NewGenerator()
	g.Stop()
	g.Stop()
	assert.Empty(t, g.Active())
}

func TestStartStopLifecycle(t *testing.T) {
	g := NewGenerator()

	require.NoError(t, g.Start([]string{WorkloadNetwork}))
	assert.Equal(t, []string{WorkloadNetwork}, g.Active())

	// Starting again while running conflicts.
	err := g.Start([]string{WorkloadNetwork})
	assert.Error(t, err)

	g.Stop()
	assert.Empty(t, g.Active())

	// The generator is reusable after a stop.
	require.NoError(t, g.Start([]string{WorkloadNetwork}))
	g.Stop()
}
