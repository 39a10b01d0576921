// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package logging writes a zerolog event for every stage of a fetchx
// execution.
//
//	handlers := &fetchx.HandlerGroup{}
//	logging.Install(handlers, zerolog.New(os.Stderr).With().Timestamp().Logger())
//	client := &fetchx.Client{Handlers: handlers}
//
// Execution starts, attempts and successful ends are logged at debug
// level; retries at info level; timeouts and failed executions at warn
// level.
package logging
