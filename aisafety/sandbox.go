// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package aisafety

import (
	"fmt"
	"strings"
	"time"
)

// ResourceLimits bounds a sandbox's resource consumption and the
// operations it may perform.
type ResourceLimits struct {
	MaxMemoryMB            float64
	MaxCPUPercent          float64
	MaxExecutionTimeSeconds float64
	MaxNetworkRequests      float64
	AllowedImports          []string
	BlockedOperations       []string
}

// DefaultResourceLimits is the conservative baseline applied when a
// caller doesn't specify its own limits.
func DefaultResourceLimits() ResourceLimits {
	return ResourceLimits{
		MaxMemoryMB:             512,
		MaxCPUPercent:           50,
		MaxExecutionTimeSeconds: 300,
		MaxNetworkRequests:      10,
		AllowedImports:          []string{"json", "time", "math", "hashlib"},
		BlockedOperations:       []string{"file_write", "network_call", "subprocess"},
	}
}

// ResourceUsage is a sandbox's current runtime consumption.
type ResourceUsage struct {
	MemoryMB        float64
	CPUPercent      float64
	ExecutionTime   float64
	NetworkRequests float64
}

// Violation records why a sandbox was deactivated.
type Violation struct {
	Message string
	At      time.Time
}

// Sandbox is an isolated execution context for an AI-driven action,
// gated by capability grants and resource counters; any violation
// deactivates it permanently.
type Sandbox struct {
	ID       string
	Limits   ResourceLimits
	Usage    ResourceUsage
	Active   bool
	createdAt time.Time
	Violations []Violation
}

// CreateSandbox registers a new sandbox with the given (or default) limits.
func (k *Kernel) CreateSandbox(sandboxID string, limits *ResourceLimits) *Sandbox {
	l := DefaultResourceLimits()
	if limits != nil {
		l = *limits
	}
	sb := &Sandbox{ID: sandboxID, Limits: l, Active: true, createdAt: time.Now()}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.sandboxes[sandboxID] = sb
	return sb
}

func (k *Kernel) sandbox(sandboxID string) (*Sandbox, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	sb, ok := k.sandboxes[sandboxID]
	if !ok {
		return nil, fmt.Errorf("aisafety: sandbox not found")
	}
	if !sb.Active {
		return nil, fmt.Errorf("aisafety: sandbox inactive")
	}
	return sb, nil
}

// RecordSandboxUsage updates a sandbox's usage counters and enforces its
// resource caps, deactivating it if any cap is exceeded.
func (k *Kernel) RecordSandboxUsage(sandboxID string, memoryMB, cpuPercent, networkRequestsDelta float64) ([]Violation, error) {
	sb, err := k.sandbox(sandboxID)
	if err != nil {
		return nil, err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	if memoryMB > 0 {
		sb.Usage.MemoryMB = memoryMB
	}
	if cpuPercent > 0 {
		sb.Usage.CPUPercent = cpuPercent
	}
	sb.Usage.NetworkRequests += networkRequestsDelta
	sb.Usage.ExecutionTime = time.Since(sb.createdAt).Seconds()

	violations := evaluateSandboxLimits(sb)
	if len(violations) > 0 {
		sb.Violations = append(sb.Violations, violations...)
		sb.Active = false
		return violations, fmt.Errorf("aisafety: sandbox resource limits exceeded")
	}
	return nil, nil
}

func evaluateSandboxLimits(sb *Sandbox) []Violation {
	var out []Violation
	now := time.Now()
	if sb.Limits.MaxMemoryMB > 0 && sb.Usage.MemoryMB > sb.Limits.MaxMemoryMB {
		out = append(out, Violation{Message: "memory limit exceeded", At: now})
	}
	if sb.Limits.MaxCPUPercent > 0 && sb.Usage.CPUPercent > sb.Limits.MaxCPUPercent {
		out = append(out, Violation{Message: "cpu limit exceeded", At: now})
	}
	if sb.Limits.MaxExecutionTimeSeconds > 0 && sb.Usage.ExecutionTime > sb.Limits.MaxExecutionTimeSeconds {
		out = append(out, Violation{Message: "execution time limit exceeded", At: now})
	}
	if sb.Limits.MaxNetworkRequests > 0 && sb.Usage.NetworkRequests > sb.Limits.MaxNetworkRequests {
		out = append(out, Violation{Message: "network request limit exceeded", At: now})
	}
	return out
}

func containsFold(list []string, want string) bool {
	for _, item := range list {
		if strings.EqualFold(item, want) {
			return true
		}
	}
	return false
}

// EnforceSandboxAction validates one sandboxed action — an import or a
// blocked-operation call — against sandboxID's capability grants.
// "import" actions must name their module in metadata.
func (k *Kernel) EnforceSandboxAction(sandboxID, action, module string) error {
	sb, err := k.sandbox(sandboxID)
	if err != nil {
		return err
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	normalizedAction := strings.ToLower(action)
	if containsFold(sb.Limits.BlockedOperations, normalizedAction) {
		v := Violation{Message: fmt.Sprintf("operation %q is blocked", action), At: time.Now()}
		sb.Violations = append(sb.Violations, v)
		return fmt.Errorf("aisafety: %s", v.Message)
	}

	if normalizedAction == "import" {
		if len(sb.Limits.AllowedImports) > 0 && !containsFold(sb.Limits.AllowedImports, module) {
			v := Violation{Message: fmt.Sprintf("import %q is not permitted in sandbox", module), At: time.Now()}
			sb.Violations = append(sb.Violations, v)
			return fmt.Errorf("aisafety: %s", v.Message)
		}
	}
	return nil
}

// CloseSandbox marks sandboxID inactive, its normal (non-violation)
// end-of-life path.
func (k *Kernel) CloseSandbox(sandboxID string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if sb, ok := k.sandboxes[sandboxID]; ok {
		sb.Active = false
	}
}
