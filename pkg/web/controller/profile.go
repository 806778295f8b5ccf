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
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alibaba/opensandbox/swapd/pkg/log"
	"github.com/alibaba/opensandbox/swapd/pkg/profile"
	"github.com/alibaba/opensandbox/swapd/pkg/web/model"
)

// ProfileController applies workload archetype presets.
type ProfileController struct {
	*basicController
}

func NewProfileController(ctx *gin.Context) *ProfileController {
	return &ProfileController{basicController: newBasicController(ctx)}
}

// ListProfiles returns the available archetypes.
func (c *ProfileController) ListProfiles() {
	profiles := make([]profile.Profile, 0, len(profile.Names()))
	for _, name := range profile.Names() {
		p, _ := profile.Lookup(name)
		profiles = append(profiles, p)
	}
	c.RespondSuccess(profiles)
}

// ApplyProfile sets a process's niceness and the global swappiness
// according to the named preset.
func (c *ProfileController) ApplyProfile() {
	name := c.ctx.Param("name")
	p, ok := profile.Lookup(name)
	if !ok {
		c.RespondError(
			http.StatusNotFound,
			model.ErrorCodeNotFound,
			fmt.Sprintf("unknown profile %q, available: %v", name, profile.Names()),
		)
		return
	}

	var req model.ApplyProfileRequest
	if err := c.bindJSON(&req); err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidRequest, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		c.RespondError(http.StatusBadRequest, model.ErrorCodeInvalidRequest, err.Error())
		return
	}

	if err := p.Apply(req.PID, procs, tun); err != nil {
		c.RespondError(
			http.StatusInternalServerError,
			model.ErrorCodeRuntimeError,
			fmt.Sprintf("error applying profile %s to pid %d. %v", name, req.PID, err),
		)
		return
	}

	log.Info("Applied profile %s (niceness %d, swappiness %d) to pid %d",
		p.Name, p.Niceness, p.Swappiness, req.PID)
	c.RespondSuccess(p)
}
