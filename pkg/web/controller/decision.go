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
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/alibaba/opensandbox/swapd/pkg/log"
	"github.com/alibaba/opensandbox/swapd/pkg/util/safego"
)

var decisionUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// The access-token middleware already guards this endpoint.
	CheckOrigin: func(*http.Request) bool { return true },
}

const decisionWriteTimeout = 10 * time.Second

// DecisionController streams applied tunable changes to clients.
type DecisionController struct {
	*basicController
}

func NewDecisionController(ctx *gin.Context) *DecisionController {
	return &DecisionController{basicController: newBasicController(ctx)}
}

// WatchDecisions upgrades to a websocket and forwards every decision
// record until the client disconnects.
func (c *DecisionController) WatchDecisions() {
	conn, err := decisionUpgrader.Upgrade(c.ctx.Writer, c.ctx.Request, nil)
	if err != nil {
		log.Error("WatchDecisions upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	entries := loop.Subscribe()
	defer loop.Unsubscribe(entries)

	// Drain client frames so close handshakes are noticed.
	closed := make(chan struct{})
	safego.Go(func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	for {
		select {
		case <-closed:
			return
		case <-c.ctx.Request.Context().Done():
			return
		case entry, ok := <-entries:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(decisionWriteTimeout))
			if err := conn.WriteJSON(entry); err != nil {
				log.Error("WatchDecisions write error: %v", err)
				return
			}
		}
	}
}
