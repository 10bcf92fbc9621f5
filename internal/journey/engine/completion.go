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

package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/oliveagle/jsonpath"

	"github.com/meridianid/meridian/internal/journey/constants"
	"github.com/meridianid/meridian/internal/journey/model"
	"github.com/meridianid/meridian/internal/system/error/serviceerror"
	"github.com/meridianid/meridian/internal/system/log"
	"github.com/meridianid/meridian/internal/system/utils"
)

// reservedDataKeys are the orchestrator-owned journey data keys excluded from
// persisted submissions and captured into submission metadata instead.
var reservedDataKeys = map[string]bool{
	constants.DataKeyCompletedSteps:       true,
	constants.DataKeyLastError:            true,
	constants.DataKeyLastErrorDescription: true,
	constants.DataKeyFailedStepID:         true,
	constants.DataKeyRedirectURI:          true,
	constants.DataKeyIPAddress:            true,
	constants.DataKeyUserAgent:            true,
	constants.DataKeyReferrer:             true,
	constants.DataKeyCountry:              true,
	constants.DataKeyLocale:               true,
}

// completeJourney finalizes a journey: persists the Completed status, records
// a submission when the policy asks for one, and builds the completion payload.
func (o *Orchestrator) completeJourney(ctx context.Context, state *model.JourneyState,
	resolved *model.JourneyPolicy) (*model.JourneyResult, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(
		log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyJourneyID, state.ID))

	state.Status = constants.JourneyStatusCompleted
	if err := o.stateStore.Save(ctx, state); err != nil {
		logger.Error("Failed to persist journey completion", log.Error(err))
		return nil, serviceerror.CustomServiceError(
			constants.ErrorStateStoreFailure, err.Error())
	}

	// Submission persistence is best-effort. The journey already completed
	// from the user's perspective; a storage failure is logged and swallowed.
	if resolved.PersistSubmissions && o.submissions != nil {
		if err := o.persistSubmission(state, resolved); err != nil {
			logger.Warn("Failed to persist journey submission", log.Error(err))
		}
	}

	result := &model.JourneyResult{
		JourneyID: state.ID,
		Status:    constants.JourneyStatusCompleted,
		Completion: &model.JourneyCompletion{
			UserID:         state.UserID,
			RedirectURI:    o.redirectTarget(state, resolved),
			Claims:         o.outputClaims(state, resolved),
			SuccessMessage: resolved.SuccessMessage,
		},
	}
	logger.Debug("Journey completed", log.String(log.LoggerKeyPolicyID, resolved.ID))
	return result, nil
}

func (o *Orchestrator) persistSubmission(state *model.JourneyState,
	resolved *model.JourneyPolicy) error {
	if resolved.MaxSubmissions > 0 {
		count, err := o.submissions.CountByPolicy(resolved.ID)
		if err != nil {
			return fmt.Errorf("failed to check submission cap: %w", err)
		}
		if count >= resolved.MaxSubmissions {
			log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName)).
				Warn("Submission cap reached, skipping persistence",
					log.String(log.LoggerKeyPolicyID, resolved.ID),
					log.Int("maxSubmissions", resolved.MaxSubmissions))
			return nil
		}
	}

	data := make(map[string]any, len(state.Data))
	for key, value := range state.Data {
		if reservedDataKeys[key] {
			continue
		}
		data[key] = value
	}

	record := &model.JourneySubmission{
		ID:         utils.GenerateUUID(),
		PolicyID:   resolved.ID,
		PolicyName: resolved.Name,
		TenantID:   state.TenantID,
		JourneyID:  state.ID,
		Data:       data,
		Metadata: model.SubmissionMetadata{
			IPAddress: utils.AsString(state.Data[constants.DataKeyIPAddress]),
			UserAgent: utils.AsString(state.Data[constants.DataKeyUserAgent]),
			Referrer:  utils.AsString(state.Data[constants.DataKeyReferrer]),
			Country:   utils.AsString(state.Data[constants.DataKeyCountry]),
			Locale:    utils.AsString(state.Data[constants.DataKeyLocale]),
		},
		Status:    constants.SubmissionStatusNew,
		CreatedAt: o.timeNow(),
	}
	return o.submissions.Save(record)
}

// redirectTarget resolves the caller-visible redirect. The callback URL wins
// over the legacy redirectUri data key; for non-authenticated data-collection
// journeys an explicit policy redirect takes precedence over both.
func (o *Orchestrator) redirectTarget(state *model.JourneyState,
	resolved *model.JourneyPolicy) string {
	if !resolved.RequiresAuthentication && resolved.SuccessRedirectURL != "" {
		return resolved.SuccessRedirectURL
	}
	if state.CallbackURL != "" {
		return state.CallbackURL
	}
	return utils.AsString(state.Data[constants.DataKeyRedirectURI])
}

// outputClaims builds the claims payload. Without explicit mappings the whole
// journey data map is returned verbatim; with mappings only mapped keys are
// emitted, honoring the per-mapping default.
func (o *Orchestrator) outputClaims(state *model.JourneyState,
	resolved *model.JourneyPolicy) map[string]any {
	if len(resolved.OutputClaims) == 0 {
		return state.Data
	}

	claims := make(map[string]any, len(resolved.OutputClaims))
	for _, mapping := range resolved.OutputClaims {
		value, found := resolveClaimSource(&mapping, state.Data)
		if !found {
			if mapping.DefaultValue == "" {
				continue
			}
			value = mapping.DefaultValue
		}
		claims[mapping.TargetClaimType] = value
	}
	return claims
}

// resolveClaimSource resolves one output-claim mapping against the journey
// data. Paths starting with "$." are evaluated as JSONPath expressions so a
// mapping can reach into nested step output.
func resolveClaimSource(mapping *model.OutputClaimMapping, data map[string]any) (any, bool) {
	switch mapping.SourceType {
	case constants.ClaimSourceLiteral:
		return mapping.SourcePath, true
	case constants.ClaimSourceJourneyData, constants.ClaimSourceClaim:
		if strings.HasPrefix(mapping.SourcePath, "$.") {
			value, err := jsonpath.JsonPathLookup(data, mapping.SourcePath)
			if err != nil {
				return nil, false
			}
			return value, true
		}
		value, ok := data[mapping.SourcePath]
		return value, ok
	default:
		return nil, false
	}
}
