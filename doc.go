// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package fetchx layers timeouts, retries, response validation and
response conversion over an HTTP client, within a small set of
familiar calls.

The single-purpose helpers each add one thing to a plain request:

	text, err := fetchx.FetchText(ctx, "https://www.example.com")
	...
	v, err := fetchx.FetchJSON(ctx, "https://api.example.com/item/1")
	...
	resp, err := fetchx.FetchInTime(ctx, "https://www.example.com", 2*time.Second)
	...
	resp, err := fetchx.FetchAutoRetry(ctx, "https://www.example.com", 3, time.Second)

Fetch combines all of them. Each attempt gets a fresh deadline; failed
attempts are aborted and retried; the final failure goes to an error
handler; and the successful response is converted once:

	v, err := fetchx.Fetch(ctx, "https://api.example.com/items",
		fetchx.WithLoadingTime(3*time.Second),
		fetchx.WithRetryTimes(2),
		fetchx.WithRetryDelay(500*time.Millisecond),
		fetchx.WithBadResponseError(true),
		fetchx.WithTypeTo(fetchx.TypeJSON),
		fetchx.WithOnError(fetchx.Substitute(nil)))

Failures are reported as an *Error whose Kind tells them apart:

	if errors.Is(err, fetchx.ErrOvertime) {
		...
	}

For control over how the client sends HTTP requests and receives HTTP
responses, use a custom HTTPDoer. For example, use a GoLang standard
HTTP client:

	doer := &http.Client{
		..., // See package "net/http" for detailed documentation
	}
	client := &fetchx.Client{
		HTTPDoer: doer,
	}

For control over the retry decisions and timing, or the deadline of
each attempt, use the policies of packages retry and timeout:

	client := &fetchx.Client{
		Defaults: &fetchx.Config{
			RetryTimes:    3,
			RetryPolicy:   retry.NewPolicy(retry.Budget, retry.NewExpWaiter(250*time.Millisecond, 5*time.Second, time.Now())),
			TimeoutPolicy: timeout.Adaptive(time.Second, 5*time.Second),
		},
	}

Client defaults can also be loaded from YAML files and environment
variables with package config.

To hook into the fine-grained details of Fetch, install a handler into
the appropriate handler chain, or use package logging or package
metrics, which do so:

	handlers := &fetchx.HandlerGroup{}
	handlers.PushBack(fetchx.BeforeAttempt, fetchx.HandlerFunc(
		func(_ fetchx.Event, e *request.Execution) {
			log.Printf("Attempt %d to %s", e.Attempt, e.Request.URL.String())
		})
	)
	client := &fetchx.Client{
		HTTPDoer: doer,
		Handlers: handlers,
	}

Cancellation is carried by context.Context. Package signal combines
several contexts into one that is cancelled as soon as any of them is.
*/
package fetchx
