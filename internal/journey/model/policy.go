/*
 * Copyright (c) 2025, WSO2 LLC. (https://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

// Package model defines the data structures used by the journey orchestration engine.
package model

import (
	"sort"
	"time"

	"github.com/meridianid/meridian/internal/journey/constants"
)

// JourneyPolicy is a named, versioned flow definition. Treated as immutable once loaded.
type JourneyPolicy struct {
	ID          string               `json:"id" validate:"required"`
	Name        string               `json:"name" validate:"required"`
	Description string               `json:"description,omitempty"`
	Type        constants.PolicyType `json:"type" validate:"required"`
	// TenantID is empty for global policies available to all tenants.
	TenantID string `json:"tenantId,omitempty"`
	Enabled  bool   `json:"enabled"`
	// Priority orders candidates during matching. Higher wins.
	Priority     int                  `json:"priority"`
	Steps        []JourneyPolicyStep  `json:"steps" validate:"required,min=1,dive"`
	Conditions   []PolicyCondition    `json:"conditions,omitempty" validate:"dive"`
	OutputClaims []OutputClaimMapping `json:"outputClaims,omitempty" validate:"dive"`

	// Data collection settings.
	RequiresAuthentication bool     `json:"requiresAuthentication"`
	PersistSubmissions     bool     `json:"persistSubmissions"`
	MaxSubmissions         int      `json:"maxSubmissions,omitempty"`
	AllowDuplicates        bool     `json:"allowDuplicates"`
	DuplicateCheckFields   []string `json:"duplicateCheckFields,omitempty"`
	SuccessRedirectURL     string   `json:"successRedirectUrl,omitempty"`
	SuccessMessage         string   `json:"successMessage,omitempty"`

	DefaultStepTimeoutSeconds int `json:"defaultStepTimeoutSeconds,omitempty"`
	MaxJourneyDurationMinutes int `json:"maxJourneyDurationMinutes,omitempty"`
	// Version is incremented on every update.
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// JourneyPolicyStep is one unit of work in a flow definition.
type JourneyPolicyStep struct {
	ID          string `json:"id" validate:"required"`
	Type        string `json:"type" validate:"required"`
	DisplayName string `json:"displayName,omitempty"`
	// Order defines the default sequential traversal.
	Order    int  `json:"order"`
	Optional bool `json:"optional,omitempty"`
	// Configuration is an opaque bag interpreted by the step handler.
	Configuration map[string]any `json:"configuration,omitempty"`
	// Branches maps branch keys to target step IDs for the Branch outcome.
	Branches  map[string]string `json:"branches,omitempty"`
	OnSuccess string            `json:"onSuccess,omitempty"`
	OnFailure string            `json:"onFailure,omitempty"`
	// Conditions are evaluated before execution. When false the step is skipped
	// and the flow proceeds as if it had succeeded.
	Conditions     []Condition `json:"conditions,omitempty"`
	RequiredClaims []string    `json:"requiredClaims,omitempty"`
	// OutputClaims declares the claims the step is expected to produce. Advisory.
	OutputClaims         []string `json:"outputClaims,omitempty"`
	TimeoutSeconds       *int     `json:"timeoutSeconds,omitempty"`
	MaxRetries           int      `json:"maxRetries,omitempty"`
	SkipIfCompleted      bool     `json:"skipIfCompleted,omitempty"`
	ErrorMessageTemplate string   `json:"errorMessageTemplate,omitempty"`
	PluginName           string   `json:"pluginName,omitempty"`
}

// PolicyCondition is a matching rule evaluated against the request context.
// All conditions of a policy must hold for the policy to be eligible.
type PolicyCondition struct {
	Type     string                            `json:"type" validate:"required"`
	Operator constants.PolicyConditionOperator `json:"operator" validate:"required"`
	Value    string                            `json:"value"`
}

// OutputClaimMapping maps a journey data value, claim, or literal onto an output claim.
type OutputClaimMapping struct {
	SourceType      constants.ClaimSourceType `json:"sourceType" validate:"required"`
	SourcePath      string                    `json:"sourcePath"`
	TargetClaimType string                    `json:"targetClaimType" validate:"required"`
	DefaultValue    string                    `json:"defaultValue,omitempty"`
}

// MatchContext carries the request attributes used to select a policy.
type MatchContext struct {
	TenantID             string
	ClientID             string
	Type                 constants.PolicyType
	Scopes               []string
	AcrValues            []string
	AdditionalParameters map[string]string
}

// GetStep returns the step with the given ID, or nil when it does not exist.
func (p *JourneyPolicy) GetStep(stepID string) *JourneyPolicyStep {
	for i := range p.Steps {
		if p.Steps[i].ID == stepID {
			return &p.Steps[i]
		}
	}
	return nil
}

// FirstStep returns the step with the lowest order, or nil for an empty policy.
func (p *JourneyPolicy) FirstStep() *JourneyPolicyStep {
	var first *JourneyPolicyStep
	for i := range p.Steps {
		if first == nil || p.Steps[i].Order < first.Order {
			first = &p.Steps[i]
		}
	}
	return first
}

// NextStepByOrder returns the step following the given one in order, or nil
// when the given step is the last.
func (p *JourneyPolicy) NextStepByOrder(current *JourneyPolicyStep) *JourneyPolicyStep {
	ordered := p.StepsInOrder()
	for i := range ordered {
		if ordered[i].ID == current.ID && i+1 < len(ordered) {
			return ordered[i+1]
		}
	}
	return nil
}

// StepsInOrder returns the policy steps sorted by their order value.
func (p *JourneyPolicy) StepsInOrder() []*JourneyPolicyStep {
	ordered := make([]*JourneyPolicyStep, 0, len(p.Steps))
	for i := range p.Steps {
		ordered = append(ordered, &p.Steps[i])
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Order < ordered[j].Order
	})
	return ordered
}

// JourneyTTL returns the journey lifetime defined by the policy, or the engine default.
func (p *JourneyPolicy) JourneyTTL() time.Duration {
	if p.MaxJourneyDurationMinutes > 0 {
		return time.Duration(p.MaxJourneyDurationMinutes) * time.Minute
	}
	return constants.DefaultJourneyTTL
}

// EffectiveStepTimeout resolves the execution timeout for a step in seconds.
// A step-level override takes precedence over the policy default; zero means unbounded.
func (p *JourneyPolicy) EffectiveStepTimeout(step *JourneyPolicyStep) int {
	if step.TimeoutSeconds != nil {
		return *step.TimeoutSeconds
	}
	return p.DefaultStepTimeoutSeconds
}
