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
	"sync"
	"time"

	"github.com/xai-blockchain/xai-sub003/params"
	"github.com/xai-blockchain/xai-sub003/xlog"
)

var logger = xlog.NewModuleLogger(xlog.ModuleAISafety)

// Level is the global safety posture every AI-initiated action is gated
// against.
type Level string

const (
	LevelNormal        Level = "normal"
	LevelCaution        Level = "caution"
	LevelRestricted     Level = "restricted"
	LevelEmergencyStop  Level = "emergency_stop"
	LevelLockdown       Level = "lockdown"
)

// StopReason records why an emergency stop was triggered.
type StopReason string

const (
	StopUserRequested   StopReason = "user_requested"
	StopEmergency       StopReason = "emergency"
	StopSecurityThreat  StopReason = "security_threat"
	StopCommunityVote   StopReason = "community_vote"
	StopBudgetExceeded  StopReason = "budget_exceeded"
	StopErrorThreshold  StopReason = "error_threshold"
	StopTimeout         StopReason = "timeout"
)

var defaultAuthorizedCallers = []string{
	"governance_dao", "security_committee", "ai_safety_team",
	"remediation_script", "system", "test_system",
}

// Stoppable is any long-running AI-driven process the kernel can halt
// instantly — a trading bot, in practice.
type Stoppable interface {
	Stop() error
}

type personalRequest struct {
	user      string
	operation string
	provider  string
	model     string
	started   time.Time
	status    string
}

type governanceTask struct {
	proposalID string
	taskType   string
	aiCount    int
	started    time.Time
	paused     bool
	pausedBy   string
}

// Kernel is the central AI safety control point: every AI-initiated
// action obtains a capability check from it before running, and any
// authorized caller can collapse every active AI operation through
// ActivateEmergencyStop.
type Kernel struct {
	mu sync.Mutex

	safetyLevel Level

	personalRequests  map[string]*personalRequest
	governanceTasks   map[string]*governanceTask
	tradingBots       map[string]Stoppable
	cancelledRequests map[string]bool
	pausedTasks       map[string]bool

	emergencyStopActive bool
	emergencyStopReason StopReason
	emergencyStopTime   time.Time

	totalStops         int
	totalCancellations int

	authorizedCallers map[string]bool

	inspector *outputInspector
	rateLimit *rateLimitStore
	sandboxes map[string]*Sandbox
}

// NewKernel constructs a Kernel with the configured authorized callers
// and rate-limit persistence path.
func NewKernel(cfg *params.Config) *Kernel {
	authorized := make(map[string]bool)
	for _, c := range defaultAuthorizedCallers {
		authorized[c] = true
	}
	for _, c := range cfg.AuthorizedCallers {
		authorized[strings.ToLower(c)] = true
	}

	return &Kernel{
		safetyLevel:       LevelNormal,
		personalRequests:  make(map[string]*personalRequest),
		governanceTasks:   make(map[string]*governanceTask),
		tradingBots:       make(map[string]Stoppable),
		cancelledRequests: make(map[string]bool),
		pausedTasks:       make(map[string]bool),
		authorizedCallers: authorized,
		inspector:         newOutputInspector(),
		rateLimit:         newRateLimitStore(cfg.AISafetyRateLimitPath, cfg.RateLimitEntryTTL, cfg.ProviderRateLimitsJSON),
		sandboxes:         make(map[string]*Sandbox),
	}
}

// IsAuthorizedCaller reports whether identifier may change safety level
// or trigger an emergency stop.
func (k *Kernel) IsAuthorizedCaller(identifier string) bool {
	if identifier == "" {
		return false
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.authorizedCallers[strings.ToLower(identifier)]
}

// AuthorizeCaller grants identifier the ability to change safety level.
func (k *Kernel) AuthorizeCaller(identifier string) error {
	if identifier == "" {
		return fmt.Errorf("aisafety: invalid identifier")
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.authorizedCallers[strings.ToLower(identifier)] = true
	return nil
}

// RevokeCaller removes identifier's ability to change safety level.
func (k *Kernel) RevokeCaller(identifier string) error {
	if identifier == "" {
		return fmt.Errorf("aisafety: invalid identifier")
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.authorizedCallers, strings.ToLower(identifier))
	return nil
}

// SafetyLevel returns the current level.
func (k *Kernel) SafetyLevel() Level {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.safetyLevel
}

// SetLevel changes the global safety level; setting EmergencyStop or
// Lockdown cascades into a full ActivateEmergencyStop.
func (k *Kernel) SetLevel(level Level, setter string) error {
	if !k.IsAuthorizedCaller(setter) {
		return fmt.Errorf("aisafety: %s is not authorized to change safety level", setter)
	}
	k.mu.Lock()
	k.safetyLevel = level
	k.mu.Unlock()

	if level == LevelEmergencyStop || level == LevelLockdown {
		return k.ActivateEmergencyStop(StopSecurityThreat, fmt.Sprintf("safety level set to %s", level), setter)
	}
	return nil
}

// EmergencyStopActive reports whether the kernel is currently stopped.
func (k *Kernel) EmergencyStopActive() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.emergencyStopActive
}

// EmergencyStopResult summarizes what ActivateEmergencyStop tore down.
type EmergencyStopResult struct {
	Reason                 StopReason
	Details                string
	ActivatedBy            string
	PersonalRequestsStopped int
	GovernanceTasksPaused   int
	TradingBotsStopped      int
}

// ActivateEmergencyStop is the kill switch: cancel every active personal
// request, pause every governance task, and stop every trading bot,
// atomically, then persist the stopped state.
func (k *Kernel) ActivateEmergencyStop(reason StopReason, details, activator string) error {
	if !k.IsAuthorizedCaller(activator) {
		return fmt.Errorf("aisafety: %s cannot trigger emergency stop", activator)
	}

	logger.Errorw("emergency stop activated", "reason", reason, "details", details, "activator", activator)

	k.mu.Lock()
	k.emergencyStopActive = true
	k.emergencyStopReason = reason
	k.emergencyStopTime = time.Now()

	for id, req := range k.personalRequests {
		k.cancelledRequests[id] = true
		req.status = "emergency_stopped"
	}
	for id, task := range k.governanceTasks {
		k.pausedTasks[id] = true
		task.paused = true
	}

	stopped := 0
	var errs []string
	for user, bot := range k.tradingBots {
		if err := bot.Stop(); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", user, err))
			continue
		}
		stopped++
	}
	k.totalStops += stopped
	personalCount := len(k.personalRequests)
	taskCount := len(k.governanceTasks)
	k.mu.Unlock()

	if len(errs) > 0 {
		logger.Warnw("errors stopping trading bots during emergency stop", "errors", errs)
	}

	logger.Errorw("emergency stop complete",
		"reason", reason, "personal_ai_stopped", personalCount,
		"governance_tasks_paused", taskCount, "trading_bots_stopped", stopped)

	return nil
}

// DeactivateEmergencyStop resumes normal operation.
func (k *Kernel) DeactivateEmergencyStop(deactivator string) error {
	k.mu.Lock()
	if !k.emergencyStopActive {
		k.mu.Unlock()
		return fmt.Errorf("aisafety: emergency stop not active")
	}
	k.emergencyStopActive = false
	duration := time.Since(k.emergencyStopTime)
	k.mu.Unlock()

	logger.Warnw("emergency stop deactivated", "deactivator", deactivator, "duration", duration)
	return nil
}

// RegisterPersonalRequest tracks a user-initiated AI request for later
// cancellation, subject to the provider's call-rate limit and a clean
// emergency-stop state.
func (k *Kernel) RegisterPersonalRequest(requestID, userAddress, operation, provider, model string) bool {
	if k.EmergencyStopActive() {
		return false
	}
	if result := k.rateLimit.enforceProviderLimit(provider); !result.Success {
		logger.Warnw("AI provider rate limit exceeded", "provider", result.Provider, "call_count", result.CallCount)
		return false
	}

	k.mu.Lock()
	defer k.mu.Unlock()
	k.personalRequests[requestID] = &personalRequest{
		user: userAddress, operation: operation, provider: provider, model: model,
		started: time.Now(), status: "running",
	}
	return true
}

// CancelPersonalRequest lets a user cancel their own in-flight request.
func (k *Kernel) CancelPersonalRequest(requestID, userAddress string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	req, ok := k.personalRequests[requestID]
	if !ok {
		return fmt.Errorf("aisafety: request not found")
	}
	if req.user != userAddress {
		return fmt.Errorf("aisafety: can only cancel your own requests")
	}
	k.cancelledRequests[requestID] = true
	req.status = "cancelled"
	k.totalCancellations++
	return nil
}

// IsRequestCancelled reports whether requestID has been cancelled, either
// directly or via an emergency stop.
func (k *Kernel) IsRequestCancelled(requestID string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.cancelledRequests[requestID]
}

// CompletePersonalRequest marks a finished request for bookkeeping cleanup.
func (k *Kernel) CompletePersonalRequest(requestID string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if req, ok := k.personalRequests[requestID]; ok {
		req.status = "completed"
	}
}

// RegisterGovernanceTask tracks an in-flight community-governance AI task.
func (k *Kernel) RegisterGovernanceTask(taskID, proposalID, taskType string, aiCount int) bool {
	if k.EmergencyStopActive() {
		return false
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.governanceTasks[taskID] = &governanceTask{
		proposalID: proposalID, taskType: taskType, aiCount: aiCount, started: time.Now(),
	}
	return true
}

// PauseGovernanceTask pauses taskID, recording who requested the pause.
func (k *Kernel) PauseGovernanceTask(taskID, pauser string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	task, ok := k.governanceTasks[taskID]
	if !ok {
		return fmt.Errorf("aisafety: task not found")
	}
	k.pausedTasks[taskID] = true
	task.paused = true
	task.pausedBy = pauser
	return nil
}

// ResumeGovernanceTask resumes a previously paused task.
func (k *Kernel) ResumeGovernanceTask(taskID string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	task, ok := k.governanceTasks[taskID]
	if !ok {
		return fmt.Errorf("aisafety: task not found")
	}
	if !k.pausedTasks[taskID] {
		return fmt.Errorf("aisafety: task not paused")
	}
	delete(k.pausedTasks, taskID)
	task.paused = false
	return nil
}

// IsTaskPaused reports whether taskID is currently paused.
func (k *Kernel) IsTaskPaused(taskID string) bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.pausedTasks[taskID]
}

// RegisterTradingBot makes bot subject to emergency stop.
func (k *Kernel) RegisterTradingBot(userAddress string, bot Stoppable) bool {
	if k.EmergencyStopActive() {
		return false
	}
	k.mu.Lock()
	defer k.mu.Unlock()
	k.tradingBots[userAddress] = bot
	return true
}

// StopTradingBot stops one user's bot immediately.
func (k *Kernel) StopTradingBot(userAddress string) error {
	k.mu.Lock()
	bot, ok := k.tradingBots[userAddress]
	k.mu.Unlock()
	if !ok {
		return fmt.Errorf("aisafety: no active trading bot for %s", userAddress)
	}
	if err := bot.Stop(); err != nil {
		return err
	}
	k.mu.Lock()
	k.totalStops++
	k.mu.Unlock()
	return nil
}

// ValidateAIOutput runs semantic inspection over AI-generated text.
func (k *Kernel) ValidateAIOutput(output, context string) InspectionResult {
	return k.inspector.Inspect(output, context)
}

// EnforceProviderRequestLimit enforces and records one call against a
// provider's configured sliding window.
func (k *Kernel) EnforceProviderRequestLimit(provider string) ProviderLimitResult {
	return k.rateLimit.enforceProviderLimit(provider)
}

// TrackTokenUsage records token consumption for identifier (and,
// optionally, for provider) and reports whether both remain within
// their configured daily budgets.
func (k *Kernel) TrackTokenUsage(identifier string, tokensUsed, maxTokens int64, provider string) TokenUsageResult {
	return k.rateLimit.trackTokenUsage(identifier, tokensUsed, maxTokens, provider)
}
