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
	"time"

	"github.com/meridianid/meridian/internal/journey/constants"
)

// JourneyState is the persisted, resumable state of one journey execution.
// The orchestrator exclusively owns transitions; stores are passive.
type JourneyState struct {
	ID            string                  `json:"id"`
	TenantID      string                  `json:"tenantId,omitempty"`
	ClientID      string                  `json:"clientId,omitempty"`
	UserID        string                  `json:"userId,omitempty"`
	PolicyID      string                  `json:"policyId"`
	CurrentStepID string                  `json:"currentStepId,omitempty"`
	Status        constants.JourneyStatus `json:"status"`
	CreatedAt     time.Time               `json:"createdAt"`
	ExpiresAt     time.Time               `json:"expiresAt"`
	CorrelationID string                  `json:"correlationId,omitempty"`
	CallbackURL   string                  `json:"callbackUrl,omitempty"`
	// Data is the open key-value bag accumulated during the journey. It holds
	// system-reserved keys alongside arbitrary step outputs and protocol context.
	Data map[string]any `json:"data"`
}

// CompletedSteps returns the IDs of steps recorded as completed in the journey data.
func (s *JourneyState) CompletedSteps() []string {
	if s.Data == nil {
		return nil
	}
	switch value := s.Data[constants.DataKeyCompletedSteps].(type) {
	case []string:
		return value
	case []any:
		steps := make([]string, 0, len(value))
		for _, v := range value {
			if id, ok := v.(string); ok {
				steps = append(steps, id)
			}
		}
		return steps
	default:
		return nil
	}
}

// IsStepCompleted reports whether the given step ID is in the completed set.
func (s *JourneyState) IsStepCompleted(stepID string) bool {
	for _, id := range s.CompletedSteps() {
		if id == stepID {
			return true
		}
	}
	return false
}

// MarkStepCompleted records the step ID in the completed set. The add is
// idempotent; it reports whether the set changed.
func (s *JourneyState) MarkStepCompleted(stepID string) bool {
	if s.IsStepCompleted(stepID) {
		return false
	}
	if s.Data == nil {
		s.Data = make(map[string]any)
	}
	s.Data[constants.DataKeyCompletedSteps] = append(s.CompletedSteps(), stepID)
	return true
}

// IsExpired reports whether the journey lifetime has passed at the given instant.
func (s *JourneyState) IsExpired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// JourneyResult is the caller-visible outcome of a start or continue call.
type JourneyResult struct {
	JourneyID        string                  `json:"journeyId"`
	Status           constants.JourneyStatus `json:"status"`
	CurrentStepID    string                  `json:"currentStepId,omitempty"`
	Error            string                  `json:"error,omitempty"`
	ErrorDescription string                  `json:"errorDescription,omitempty"`
	// View carries the UI payload when a step requires more input.
	View *StepView `json:"view,omitempty"`
	// RedirectURL carries the external redirect target for the Redirect outcome.
	RedirectURL string `json:"redirectUrl,omitempty"`
	// Completion is set when the journey finished successfully.
	Completion *JourneyCompletion `json:"completion,omitempty"`
}

// JourneyCompletion is the payload returned when a journey completes.
type JourneyCompletion struct {
	UserID         string         `json:"userId,omitempty"`
	RedirectURI    string         `json:"redirectUri,omitempty"`
	Claims         map[string]any `json:"claims,omitempty"`
	SuccessMessage string         `json:"successMessage,omitempty"`
}

// StepView is the UI payload returned for the RequireInput outcome.
type StepView struct {
	StepID         string            `json:"stepId"`
	DisplayName    string            `json:"displayName,omitempty"`
	Inputs         []InputField      `json:"inputs,omitempty"`
	Message        string            `json:"message,omitempty"`
	AdditionalData map[string]string `json:"additionalData,omitempty"`
}

// InputField describes one input required from the user.
type InputField struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// FailedResult builds a journey result carrying a structured error.
func FailedResult(journeyID, stepID, errorCode, description string) *JourneyResult {
	return &JourneyResult{
		JourneyID:        journeyID,
		Status:           constants.JourneyStatusFailed,
		CurrentStepID:    stepID,
		Error:            errorCode,
		ErrorDescription: description,
	}
}
