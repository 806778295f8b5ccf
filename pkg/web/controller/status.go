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

import "github.com/gin-gonic/gin"

// StatusController reports the control loop state.
type StatusController struct {
	*basicController
}

func NewStatusController(ctx *gin.Context) *StatusController {
	return &StatusController{basicController: newBasicController(ctx)}
}

// GetStatus returns loop state, cycle count, active weighting, monitored
// process target and the display-only alternative scores.
func (c *StatusController) GetStatus() {
	c.RespondSuccess(loop.Status())
}
