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

// JourneySubmission is a denormalized snapshot of user-submitted data, created
// once at journey completion for policies with submission persistence enabled.
// The orchestrator never mutates a submission after creation.
type JourneySubmission struct {
	ID         string                     `json:"id"`
	PolicyID   string                     `json:"policyId"`
	PolicyName string                     `json:"policyName"`
	TenantID   string                     `json:"tenantId,omitempty"`
	JourneyID  string                     `json:"journeyId"`
	Data       map[string]any             `json:"data"`
	Metadata   SubmissionMetadata         `json:"metadata"`
	Status     constants.SubmissionStatus `json:"status"`
	CreatedAt  time.Time                  `json:"createdAt"`
}

// SubmissionMetadata captures request context recorded alongside a submission.
type SubmissionMetadata struct {
	IPAddress string `json:"ipAddress,omitempty"`
	UserAgent string `json:"userAgent,omitempty"`
	Referrer  string `json:"referrer,omitempty"`
	Country   string `json:"country,omitempty"`
	Locale    string `json:"locale,omitempty"`
}
