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
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alibaba/opensandbox/swapd/pkg/web/model"
)

func TestStartStressRejectsUnknownWorkload(t *testing.T) {
	initTestControllers(t)

	ctx, w := newTestContext(http.MethodPost, "/stress", []byte(`{"workloads": ["gpu"]}`))
	NewStressController(ctx).StartStress()

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.ErrorCodeInvalidRequest, resp.Code)
}

func TestStartStressRejectsMalformedBody(t *testing.T) {
	initTestControllers(t)

	ctx, w := newTestContext(http.MethodPost, "/stress", []byte(`{workloads`))
	NewStressController(ctx).StartStress()

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStartAndStopStress(t *testing.T) {
	initTestControllers(t)
	defer generator.Stop()

	ctx, w := newTestContext(http.MethodPost, "/stress", []byte(`{"workloads": ["network"]}`))
	NewStressController(ctx).StartStress()
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Workloads []string `json:"workloads"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"network"}, resp.Workloads)

	// A second start conflicts while workers are running.
	ctx, w = newTestContext(http.MethodPost, "/stress", []byte(`{"workloads": ["network"]}`))
	NewStressController(ctx).StartStress()
	assert.Equal(t, http.StatusConflict, w.Code)

	ctx, w = newTestContext(http.MethodDelete, "/stress", nil)
	NewStressController(ctx).StopStress()
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, generator.Active())
}
