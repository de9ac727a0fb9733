// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package consensus validates blocks, retargets difficulty, and runs fork
// choice over the header tree including an orphan pool for blocks whose
// parent has not yet arrived.
package consensus

import "github.com/xai-blockchain/xai-sub003/params"

// clamp bounds x to [lo, hi].
func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// RetargetDifficulty implements: new = old * clamp(actual/target, 1/MAX, MAX),
// applied every RetargetInterval blocks.
func RetargetDifficulty(oldDifficulty float64, actualSeconds, targetSeconds uint64) float64 {
	if targetSeconds == 0 {
		return oldDifficulty
	}
	ratio := float64(actualSeconds) / float64(targetSeconds)
	factor := clamp(ratio, 1/params.RetargetMaxFactor, params.RetargetMaxFactor)
	return oldDifficulty * factor
}

// shouldRetarget reports whether index is a retarget boundary.
func shouldRetarget(index uint64, interval uint64) bool {
	return interval > 0 && index%interval == 0
}
