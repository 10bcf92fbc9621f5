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

package model

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/meridianid/meridian/internal/journey/constants"
)

// StepHandlerResult is the contract returned by every step handler execution.
// It is transient per call and never persisted.
type StepHandlerResult struct {
	Outcome constants.StepOutcome
	// OutputData is merged into the journey data after execution.
	OutputData map[string]any
	// NextStepID optionally overrides the next step for the Continue outcome.
	NextStepID string
	// BranchID selects the branch target for the Branch outcome.
	BranchID         string
	Error            string
	ErrorDescription string
	// RedirectURL is the external target for the Redirect outcome.
	RedirectURL string
	// View is the UI payload for the RequireInput outcome.
	View *StepView
}

// StepExecutionContext bundles everything a step handler needs for one invocation.
type StepExecutionContext struct {
	JourneyID string
	StepID    string
	TenantID  string
	ClientID  string
	UserID    string
	PolicyID  string
	// Configuration is the step's opaque configuration bag.
	Configuration map[string]any
	// Data is the live journey data map. Handlers may read and write it directly
	// during their single invocation.
	Data map[string]any
	// Input is the user input supplied with the current call.
	Input          map[string]any
	TimeoutSeconds int
	MaxRetries     int
	// Validators are the pre-completion validators applicable to this step.
	Validators []PreCompletionValidator
}

// ConfigString returns a string configuration value, or the default when absent.
func (c *StepExecutionContext) ConfigString(key, defaultValue string) string {
	if v, ok := c.Configuration[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultValue
}

// ConfigBool returns a boolean configuration value, or the default when absent.
func (c *StepExecutionContext) ConfigBool(key string, defaultValue bool) bool {
	switch v := c.Configuration[key].(type) {
	case bool:
		return v
	case string:
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// ConfigInt returns an integer configuration value, or the default when absent.
func (c *StepExecutionContext) ConfigInt(key string, defaultValue int) int {
	switch v := c.Configuration[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// ConfigStringSlice returns a string list configuration value, or nil when absent.
func (c *StepExecutionContext) ConfigStringSlice(key string) []string {
	switch v := c.Configuration[key].(type) {
	case []string:
		return v
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
		return values
	default:
		return nil
	}
}

// StepHandlerInterface is the uniform execution contract for step handlers.
type StepHandlerInterface interface {
	// StepType returns the step type identifier this handler serves.
	StepType() string
	// Execute runs the handler for one step invocation. The context carries the
	// execution deadline when the step configures a timeout.
	Execute(ctx context.Context, execCtx *StepExecutionContext) (*StepHandlerResult, error)
}

// StepTypeInfo is the descriptive metadata published for a registered step type.
// It is data for UI generation, not behavior.
type StepTypeInfo struct {
	Type        string          `json:"type"`
	DisplayName string          `json:"displayName"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// ValidationViolation is a structured rejection from a pre-completion validator.
type ValidationViolation struct {
	Code        string `json:"code"`
	Description string `json:"description,omitempty"`
}

// PreCompletionValidator is a pluggable check invoked just before a step completes.
type PreCompletionValidator interface {
	// Validate returns a violation when the step must not complete, or nil.
	Validate(ctx context.Context, journeyID, stepID string, data map[string]any) (*ValidationViolation, error)
}
