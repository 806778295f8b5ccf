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

package model

import (
	"github.com/go-playground/validator/v10"

	"github.com/alibaba/opensandbox/swapd/pkg/metrics"
)

// MetricsResponse carries the latest snapshot plus window averages.
type MetricsResponse struct {
	Latest    *metrics.Snapshot `json:"latest,omitempty"`
	Averages  *metrics.Averages `json:"averages,omitempty"`
	WindowLen int               `json:"window_len"`
}

// ApplyProfileRequest targets a process with a priority profile.
type ApplyProfileRequest struct {
	PID int32 `json:"pid" validate:"required,gt=0"`
}

func (r *ApplyProfileRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}

// StressRequest selects the synthetic workloads to start. An empty list
// starts all of them.
type StressRequest struct {
	Workloads []string `json:"workloads,omitempty" validate:"dive,oneof=cpu memory disk network mixed"`
}

func (r *StressRequest) Validate() error {
	validate := validator.New()
	return validate.Struct(r)
}
