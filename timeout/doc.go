// Copyright 2021 The fetchx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout bounds how long a single request attempt may take.
//
// Race is the guard itself: it races a request against a timer and
// reports an *OvertimeError if the timer wins. Policy decides the
// deadline for each attempt of a fetch; Fixed gives every attempt the
// same deadline, and Adaptive lengthens it after attempts that ran out
// of time.
package timeout
