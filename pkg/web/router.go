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

package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alibaba/opensandbox/swapd/pkg/log"
	"github.com/alibaba/opensandbox/swapd/pkg/web/controller"
	"github.com/alibaba/opensandbox/swapd/pkg/web/model"
)

// NewRouter builds a Gin engine with all swapd routes.
func NewRouter(accessToken string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logMiddleware(), accessTokenMiddleware(accessToken))

	r.GET("/ping", controller.PingHandler)

	r.GET("/status", withStatus(func(c *controller.StatusController) { c.GetStatus() }))

	metric := r.Group("/metrics")
	{
		metric.GET("", withMetric(func(c *controller.MetricController) { c.GetMetrics() }))
		metric.GET("/watch", withMetric(func(c *controller.MetricController) { c.WatchMetrics() }))
	}

	decisions := r.Group("/decisions")
	{
		decisions.GET("/watch", withDecision(func(c *controller.DecisionController) { c.WatchDecisions() }))
	}

	profiles := r.Group("/profiles")
	{
		profiles.GET("", withProfile(func(c *controller.ProfileController) { c.ListProfiles() }))
		profiles.POST("/:name", withProfile(func(c *controller.ProfileController) { c.ApplyProfile() }))
	}

	stress := r.Group("/stress")
	{
		stress.POST("", withStress(func(c *controller.StressController) { c.StartStress() }))
		stress.DELETE("", withStress(func(c *controller.StressController) { c.StopStress() }))
	}

	return r
}

func withStatus(fn func(*controller.StatusController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewStatusController(ctx))
	}
}

func withMetric(fn func(*controller.MetricController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewMetricController(ctx))
	}
}

func withDecision(fn func(*controller.DecisionController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewDecisionController(ctx))
	}
}

func withProfile(fn func(*controller.ProfileController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewProfileController(ctx))
	}
}

func withStress(fn func(*controller.StressController)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		fn(controller.NewStressController(ctx))
	}
}

func accessTokenMiddleware(token string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if token == "" {
			ctx.Next()
			return
		}

		requestedToken := ctx.GetHeader(model.ApiAccessTokenHeader)
		if requestedToken == "" || requestedToken != token {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, map[string]any{
				"error": "Unauthorized: invalid or missing header " + model.ApiAccessTokenHeader,
			})
			return
		}

		ctx.Next()
	}
}

func logMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		log.Info("Requested: %v - %v", ctx.Request.Method, ctx.Request.URL.String())
		ctx.Next()
	}
}
