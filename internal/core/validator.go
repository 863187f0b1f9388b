package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// AuditResult is the validated output of one audit generation. All five
// top-level fields must be present; absence of any is a contract violation,
// not a partial success. life_score is passed through as the model produced
// it, without range enforcement.
type AuditResult struct {
	LifeScore  int               `json:"life_score"`
	Overview   string            `json:"overview"`
	Strengths  []string          `json:"strengths"`
	Weaknesses []string          `json:"weaknesses"`
	Phases     map[string]string `json:"phases"`
}

// RoadmapResult is the validated output of one roadmap generation. It is
// never persisted; the lifecycle is request-scoped only.
type RoadmapResult struct {
	Title string     `json:"title"`
	Weeks []WeekPlan `json:"weeks"`
}

type WeekPlan struct {
	Week           int      `json:"week"`
	Focus          string   `json:"focus"`
	Actions        []string `json:"actions"`
	FailureRisk    string   `json:"failure_risk"`
	CounterMeasure string   `json:"counter_measure"`
	Metric         string   `json:"metric"`
}

var (
	auditRequiredFields   = []string{"life_score", "overview", "strengths", "weaknesses", "phases"}
	auditPhaseKeys        = []string{"phase_1", "phase_2", "phase_3", "phase_4"}
	roadmapRequiredFields = []string{"title", "weeks"}
)

// normalizeRaw maps an empty or whitespace-only response to an empty JSON
// object, so "the model returned nothing" fails the same missing-required-
// field check as "the model returned {}".
func normalizeRaw(raw string) []byte {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return []byte("{}")
	}
	return []byte(trimmed)
}

// parseFields normalizes the raw response and checks that every required
// top-level field is present, returning the normalized bytes for the typed
// unmarshal.
func parseFields(raw string, required []string) ([]byte, error) {
	data := normalizeRaw(raw)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, &MalformedOutputError{Reason: "response is not a JSON object"}
	}
	for _, field := range required {
		if _, ok := fields[field]; !ok {
			return nil, &MalformedOutputError{Reason: fmt.Sprintf("missing required field %q", field)}
		}
	}
	return data, nil
}

// ParseAuditResult validates raw model output against the audit shape. It
// fails closed: required fields must be present with the mandated types and
// phases must carry exactly the four expected keys.
func ParseAuditResult(raw string) (*AuditResult, error) {
	data, err := parseFields(raw, auditRequiredFields)
	if err != nil {
		return nil, err
	}

	var result AuditResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &MalformedOutputError{Reason: "field has wrong type: " + err.Error()}
	}

	for _, key := range auditPhaseKeys {
		if _, ok := result.Phases[key]; !ok {
			return nil, &MalformedOutputError{Reason: fmt.Sprintf("phases is missing key %q", key)}
		}
	}
	return &result, nil
}

// ParseRoadmapResult validates raw model output against the roadmap shape.
func ParseRoadmapResult(raw string) (*RoadmapResult, error) {
	data, err := parseFields(raw, roadmapRequiredFields)
	if err != nil {
		return nil, err
	}

	var result RoadmapResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, &MalformedOutputError{Reason: "field has wrong type: " + err.Error()}
	}

	if result.Weeks == nil {
		return nil, &MalformedOutputError{Reason: "weeks is not a sequence"}
	}
	return &result, nil
}
