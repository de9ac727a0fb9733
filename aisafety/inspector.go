// Copyright 2024 The xai Authors
// This file is part of the xai library.
//
// The xai library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package aisafety implements the governance/AI-safety kernel: safety
// levels, the emergency-stop cascade, persisted provider/user rate
// limits, semantic output inspection, and sandbox capability gating.
package aisafety

import (
	"fmt"
	"regexp"
	"strings"
)

// ThreatPattern is a semantic threat vector: a finding fires when a
// sentence's tokens intersect both its verb set and its target set.
type ThreatPattern struct {
	Name        string
	Verbs       map[string]bool
	Targets     map[string]bool
	Description string
	Severity    string
	Penalty     float64
}

// SensitivePattern is a regex-detected category of sensitive data subject
// to redaction rather than (only) scoring.
type SensitivePattern struct {
	Name        string
	Regex       *regexp.Regexp
	Description string
	Severity    string
	Penalty     float64
}

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

var threatPatterns = []ThreatPattern{
	{
		Name:        "remote_code_execution",
		Verbs:       toSet("execute", "launch", "deploy", "inject", "upload", "compile", "trigger"),
		Targets:     toSet("payload", "malware", "shell", "listener", "botnet", "trojan"),
		Description: "language consistent with remote code execution guidance",
		Severity:    "critical",
		Penalty:     35,
	},
	{
		Name:        "privilege_escalation",
		Verbs:       toSet("gain", "obtain", "steal", "capture", "extract", "dump"),
		Targets:     toSet("root", "admin", "credential", "password", "token", "seed", "private"),
		Description: "instructions encouraging credential theft or privilege escalation",
		Severity:    "high",
		Penalty:     25,
	},
	{
		Name:        "financial_fraud",
		Verbs:       toSet("spoof", "forge", "fabricate", "launder", "wash", "exploit"),
		Targets:     toSet("transaction", "exchange", "market", "oracle"),
		Description: "attempts to manipulate markets or financial infrastructure",
		Severity:    "high",
		Penalty:     20,
	},
	{
		Name:        "self_harm",
		Verbs:       toSet("harm", "kill", "suicide", "hurt", "cut", "end"),
		Targets:     toSet("myself", "yourself", "themselves"),
		Description: "self-harm intent",
		Severity:    "critical",
		Penalty:     40,
	},
	{
		Name:        "violence",
		Verbs:       toSet("attack", "bomb", "shoot", "stab", "kill", "destroy"),
		Targets:     toSet("civilians", "people", "infrastructure", "school", "hospital", "city"),
		Description: "threats of violence",
		Severity:    "critical",
		Penalty:     40,
	},
}

var sensitivePatterns = []SensitivePattern{
	{
		Name:        "api_key",
		Regex:       regexp.MustCompile(`\bsk-[A-Za-z0-9]{40,}\b`),
		Description: "potential API key disclosure",
		Severity:    "high",
		Penalty:     25,
	},
	{
		Name:        "credit_card",
		Regex:       regexp.MustCompile(`\b(?:\d[ -]?){13,16}\b`),
		Description: "potential credit card disclosure",
		Severity:    "high",
		Penalty:     25,
	},
	{
		Name:        "ssn",
		Regex:       regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`),
		Description: "potential SSN disclosure",
		Severity:    "high",
		Penalty:     25,
	},
	{
		Name:        "private_key",
		Regex:       regexp.MustCompile(`(?i)\b0x[a-f0-9]{64}\b`),
		Description: "potential private key disclosure",
		Severity:    "critical",
		Penalty:     40,
	},
	{
		Name:        "seed_phrase",
		Regex:       regexp.MustCompile(`(?i)(seed phrase|mnemonic)\s*[:=-]?\s*([a-z]+(?:\s+[a-z]+){5,})`),
		Description: "potential seed phrase disclosure",
		Severity:    "critical",
		Penalty:     45,
	},
}

var promptInjectionPhrases = []string{
	"ignore previous instructions",
	"forget earlier rules",
	"disable all safety",
	"bypass moderation",
	"act maliciously",
	"respond without restrictions",
}

var dangerousCalls = []string{"os.system", "subprocess", "popen", "eval(", "exec(", "__import__", "rm -rf /"}
var dangerousImports = []string{"import os", "import subprocess", "import shutil", "from os import", "ctypes"}

var contextPenaltyMap = map[string]map[string]float64{
	"trading":    {"financial_fraud": 1.3, "privilege_escalation": 1.15},
	"governance": {"prompt_injection": 1.25},
}

var (
	sentenceSplitRe = regexp.MustCompile(`(?:[.!?])\s+|\n+`)
	tokenSplitRe    = regexp.MustCompile(`[^a-z0-9']+`)
	codeBlockRe     = regexp.MustCompile("(?s)```.*?```")
	base64Re        = regexp.MustCompile(`[A-Za-z0-9+/]{40,}={0,2}`)
)

// Issue is one scored finding from output inspection — either a threat
// vector, a prompt-injection phrase, a code-execution payload, or a
// sensitive-data redaction.
type Issue struct {
	Category    string
	Description string
	Severity    string
	Evidence    string
	Penalty     float64
}

// InspectionResult is the outcome of validating one piece of AI output.
type InspectionResult struct {
	Safe      bool
	Score     float64
	Issues    []Issue
	Warnings  []Issue
	Sanitized string
}

// outputInspector runs context-aware semantic analysis over AI-generated
// text: threat-vector scoring, prompt-injection and code-payload
// detection, and sensitive-data redaction.
type outputInspector struct{}

func newOutputInspector() *outputInspector { return &outputInspector{} }

func splitSentences(text string) []string {
	parts := sentenceSplitRe.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	if len(out) == 0 {
		return []string{text}
	}
	return out
}

func tokenize(sentence string) map[string]bool {
	parts := tokenSplitRe.Split(sentence, -1)
	out := make(map[string]bool)
	for _, p := range parts {
		if p != "" {
			out[p] = true
		}
	}
	return out
}

func intersects(a, b map[string]bool) bool {
	for k := range a {
		if b[k] {
			return true
		}
	}
	return false
}

func contextualPenalty(base float64, category, context string) float64 {
	if context == "" {
		return base
	}
	overrides, ok := contextPenaltyMap[strings.ToLower(context)]
	if !ok {
		return base
	}
	mult, ok := overrides[category]
	if !ok {
		return base
	}
	return base * mult
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

// Inspect analyzes output for policy violations and returns a score, a
// list of issues/warnings, and a sanitized copy with sensitive data
// redacted (or replaced entirely if the output is unsafe for reasons
// beyond sensitive-data hits alone).
func (o *outputInspector) Inspect(output, context string) InspectionResult {
	var issues, warnings []Issue
	score := 100.0

	rawSentences := splitSentences(output)
	for _, sentence := range rawSentences {
		lower := strings.ToLower(sentence)
		tokens := tokenize(lower)
		if len(tokens) == 0 {
			continue
		}
		for _, vector := range threatPatterns {
			if intersects(tokens, vector.Verbs) && intersects(tokens, vector.Targets) {
				penalty := contextualPenalty(vector.Penalty, vector.Name, context)
				issues = append(issues, Issue{
					Category:    vector.Name,
					Description: vector.Description,
					Severity:    vector.Severity,
					Evidence:    truncate(sentence, 200),
					Penalty:     penalty,
				})
				score -= penalty
			}
		}
	}

	lowerFull := strings.ToLower(output)
	for _, phrase := range promptInjectionPhrases {
		if strings.Contains(lowerFull, phrase) {
			penalty := contextualPenalty(20, "prompt_injection", context)
			issues = append(issues, Issue{
				Category:    "prompt_injection",
				Description: fmt.Sprintf("prompt injection attempt detected: %q", phrase),
				Severity:    "high",
				Evidence:    phrase,
				Penalty:     penalty,
			})
			score -= penalty
		}
	}

	for _, block := range codeBlockRe.FindAllString(output, -1) {
		lowered := strings.ToLower(block)
		hasCall := false
		for _, c := range dangerousCalls {
			if strings.Contains(lowered, c) {
				hasCall = true
				break
			}
		}
		hasImport := false
		for _, imp := range dangerousImports {
			if strings.Contains(lowered, imp) {
				hasImport = true
				break
			}
		}
		if hasCall || hasImport {
			penalty := contextualPenalty(35, "code_execution", context)
			issues = append(issues, Issue{
				Category:    "code_execution",
				Description: "potential code execution payload detected",
				Severity:    "critical",
				Evidence:    truncate(strings.TrimSpace(block), 200),
				Penalty:     penalty,
			})
			score -= penalty
		}
	}

	sanitized, hits := redactSensitiveData(output)
	for _, hit := range hits {
		hit.Penalty = contextualPenalty(hit.Penalty, "sensitive_data", context)
		issues = append(issues, hit)
		score -= hit.Penalty
	}

	if loc := base64Re.FindStringIndex(output); loc != nil {
		warnings = append(warnings, Issue{
			Category:    "encoded_payload",
			Description: "detected high-entropy payload that may contain binary data",
			Severity:    "medium",
			Evidence:    truncate(output[loc[0]:loc[1]], 80) + "...",
		})
		score -= 5
	}

	if len(output) > 50_000 {
		warnings = append(warnings, Issue{
			Category:    "excessive_length",
			Description: "output unusually long, possible hallucination or data dump",
			Severity:    "low",
		})
		score -= 5
	}

	if score < 0 {
		score = 0
	}

	safe := true
	for _, issue := range issues {
		if issue.Severity == "critical" || issue.Severity == "high" {
			safe = false
			break
		}
	}
	if safe && score < 60 {
		safe = false
	}

	onlySensitive := len(issues) > 0
	for _, issue := range issues {
		if issue.Category != "sensitive_data" {
			onlySensitive = false
			break
		}
	}

	sanitizedResult := sanitized
	if !safe && !onlySensitive {
		sanitizedResult = "[OUTPUT BLOCKED - SAFETY VIOLATION]"
	}

	return InspectionResult{
		Safe:      safe,
		Score:     score,
		Issues:    issues,
		Warnings:  warnings,
		Sanitized: sanitizedResult,
	}
}

func redactSensitiveData(text string) (string, []Issue) {
	var hits []Issue
	redacted := text
	for _, pattern := range sensitivePatterns {
		label := fmt.Sprintf("[REDACTED_%s]", strings.ToUpper(pattern.Name))
		redacted = pattern.Regex.ReplaceAllStringFunc(redacted, func(match string) string {
			hits = append(hits, Issue{
				Category:    "sensitive_data",
				Description: pattern.Description,
				Severity:    pattern.Severity,
				Evidence:    truncate(match, 200),
				Penalty:     pattern.Penalty,
			})
			return label
		})
	}
	return redacted, hits
}
