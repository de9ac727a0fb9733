// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package consensus

import (
	"math/big"

	"github.com/xai-blockchain/xai-sub003/common"
)

var maxTarget = new(big.Int).Lsh(big.NewInt(1), 256)

// Target returns floor(2^256 / difficulty). Difficulty must be >= 1.
func Target(difficulty float64) *big.Int {
	if difficulty < 1 {
		difficulty = 1
	}
	scaled := new(big.Int).Div(maxTarget, big.NewInt(int64(difficulty*1000)))
	return scaled.Mul(scaled, big.NewInt(1000))
}

// MeetsTarget reports whether hash, read as a big-endian integer, is <= target.
func MeetsTarget(hash common.Hash, difficulty float64) bool {
	h := new(big.Int).SetBytes(hash[:])
	return h.Cmp(Target(difficulty)) <= 0
}
