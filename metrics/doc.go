// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package metrics records Prometheus metrics for fetchx executions by
// installing event handlers into a fetchx.HandlerGroup.
//
//	handlers := &fetchx.HandlerGroup{}
//	metrics.NewCollector(prometheus.DefaultRegisterer).Install(handlers)
//	client := &fetchx.Client{Handlers: handlers}
package metrics
