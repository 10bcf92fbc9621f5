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

import "github.com/meridianid/meridian/internal/journey/constants"

// JourneyStartContext carries the typed attributes a protocol front-end supplies
// when starting a journey. ClientID is an explicit field; callers must not pass
// opaque client objects.
type JourneyStartContext struct {
	// PolicyID selects a policy directly, bypassing matching, when set.
	PolicyID string
	TenantID string
	ClientID string
	Type     constants.PolicyType
	Scopes   []string
	// AcrValues carries the requested authentication context class references.
	AcrValues            []string
	AdditionalParameters map[string]string
	CorrelationID        string
	CallbackURL          string
	// InitialData seeds the journey data bag with protocol context.
	InitialData map[string]any
	// Input is the user input supplied with the first step execution, if any.
	Input map[string]any
}

// MatchContext derives the policy matching context from the start context.
func (c *JourneyStartContext) MatchContext() *MatchContext {
	return &MatchContext{
		TenantID:             c.TenantID,
		ClientID:             c.ClientID,
		Type:                 c.Type,
		Scopes:               c.Scopes,
		AcrValues:            c.AcrValues,
		AdditionalParameters: c.AdditionalParameters,
	}
}
