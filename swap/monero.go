// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package swap

import "errors"

// MoneroArtifacts is a declared, intentionally incomplete capability
// boundary: Monero HTLCs require an adaptor-signature/view-key exchange
// this core does not implement. DeploymentReady is always false.
type MoneroArtifacts struct {
	DeploymentReady bool   `json:"deployment_ready"`
	Reason          string `json:"reason"`
}

// ErrUnsupportedProtocol is returned at swap creation for CoinXMR.
var ErrUnsupportedProtocol = errors.New("swap: MoneroHTLC is not implemented, deployment_ready=false")

func buildMoneroArtifacts() *MoneroArtifacts {
	return &MoneroArtifacts{
		DeploymentReady: false,
		Reason:          "adaptor-signature/view-key exchange not implemented",
	}
}
