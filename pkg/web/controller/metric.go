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
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alibaba/opensandbox/swapd/pkg/log"
	"github.com/alibaba/opensandbox/swapd/pkg/web/model"
)

// MetricController handles metrics window requests.
type MetricController struct {
	*basicController
}

func NewMetricController(ctx *gin.Context) *MetricController {
	return &MetricController{basicController: newBasicController(ctx)}
}

// GetMetrics returns the latest snapshot and the window moving averages.
func (c *MetricController) GetMetrics() {
	c.RespondSuccess(c.readMetrics())
}

// WatchMetrics streams window metrics via SSE.
func (c *MetricController) WatchMetrics() {
	c.setupSSEResponse()

	for {
		select {
		case <-c.ctx.Request.Context().Done():
			return
		case <-time.After(time.Second * 1):
			func() {
				if flusher, ok := c.ctx.Writer.(http.Flusher); ok {
					defer flusher.Flush()
				}
				msg, _ := json.Marshal(c.readMetrics()) //nolint:errchkjson
				_, err := c.ctx.Writer.Write(append(msg, '\n'))
				if err != nil {
					log.Error("WatchMetrics write data %s error: %v", string(msg), err)
				}
			}()
		}
	}
}

func (c *MetricController) readMetrics() *model.MetricsResponse {
	window := loop.Window()
	resp := &model.MetricsResponse{WindowLen: window.Len()}

	if latest, ok := window.Latest(); ok {
		resp.Latest = &latest
	}
	if avg, ok := window.MovingAverage(); ok {
		resp.Averages = &avg
	}
	return resp
}
