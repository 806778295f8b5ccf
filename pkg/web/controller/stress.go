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
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alibaba/opensandbox/swapd/pkg/web/model"
)

// StressController starts and stops the synthetic load workers.
type StressController struct {
	*basicController
}

func NewStressController(ctx *gin.Context) *StressController {
	return &StressController{basicController: newBasicController(ctx)}
}

// StartStress launches the requested workloads; an empty body starts all
// of them.
func (c *StressController) StartStress() {
	var req model.StressRequest
	if err := c.bindJSON(&req); err != nil && err != io.EOF {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidRequest, err.Error())
		return
	}

	if err := generator.Start(req.Workloads); err != nil {
		c.RespondError(http.StatusConflict, model.ErrorCodeConflict, err.Error())
		return
	}
	c.RespondSuccess(map[string]any{"workloads": generator.Active()})
}

// StopStress terminates all running workloads.
func (c *StressController) StopStress() {
	generator.Stop()
	c.RespondSuccess(nil)
}
