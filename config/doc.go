// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package config loads fetchx client defaults from YAML files, YAML
// bytes, maps and environment variables.
//
// Sources are applied over the built-in defaults in the order given,
// so later sources win:
//
//	cfg, err := config.Load(config.File("fetchx.yaml"), config.Env("FETCHX_"))
//	if err != nil {
//		...
//	}
//	client := &fetchx.Client{Defaults: &cfg}
//
// The recognised keys are:
//
//	loading_time: 10s          # attempt deadline
//	retry_times: 5             # retries after the first attempt
//	retry_delay: 5s            # wait between attempts
//	type_to: none              # none, text, json, blob or document
//	type_from: none            # none or gzip
//	bad_response_error: false  # treat non-2xx status as a failure
//	method: GET
//	headers:
//	  X-Api-Key: secret
//
// Environment variables use the upper-case key after the prefix, for
// example FETCHX_RETRY_TIMES=2. Headers are set with
// FETCHX_HEADERS_<NAME>, where underscores in the name become dashes.
package config
