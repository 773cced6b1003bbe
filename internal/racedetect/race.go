// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

// Package racedetect exposes whether the race detector is active, so
// tests can skip interleavings the detector cannot model.
package racedetect

// Enabled is true when the race detector is active. Tests use it to
// skip stress cases whose correctness rests on atomic-only
// happens-before edges invisible to the detector's shadow memory.
const Enabled = true
