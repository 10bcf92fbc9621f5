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

package policy

import (
	"regexp"
	"sort"
	"strings"

	"github.com/meridianid/meridian/internal/journey/constants"
	"github.com/meridianid/meridian/internal/journey/model"
	"github.com/meridianid/meridian/internal/journey/policy/store"
	"github.com/meridianid/meridian/internal/system/error/serviceerror"
	"github.com/meridianid/meridian/internal/system/log"
)

// Well-known policy condition types. Any other type is resolved from the
// request's additional parameters.
const (
	conditionTypeClientID = "clientid"
	conditionTypeTenantID = "tenantid"
	conditionTypeScope    = "scope"
	conditionTypeAcrValue = "acrvalue"
)

// MatcherInterface selects the best policy for a request context.
type MatcherInterface interface {
	FindMatching(matchCtx *model.MatchContext) (*model.JourneyPolicy, *serviceerror.ServiceError)
}

// Matcher is the default implementation of MatcherInterface.
type Matcher struct {
	store store.PolicyStoreInterface
}

// NewMatcher creates a matcher backed by the given policy store.
func NewMatcher(policyStore store.PolicyStoreInterface) *Matcher {
	return &Matcher{store: policyStore}
}

// FindMatching selects the highest-priority enabled policy for the context.
// Tenant-scoped policies win over global ones at equal priority. When no
// candidate satisfies all of its conditions, the first type-matching
// candidate is returned anyway.
func (m *Matcher) FindMatching(matchCtx *model.MatchContext) (
	*model.JourneyPolicy, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(
		log.String(log.LoggerKeyComponentName, "PolicyMatcher"),
		log.String(log.LoggerKeyTenantID, matchCtx.TenantID))

	eligible, err := m.store.ListEligible(matchCtx.TenantID)
	if err != nil {
		logger.Error("Failed to list eligible policies", log.Error(err))
		return nil, serviceerror.CustomServiceError(
			constants.ErrorPolicyStoreFailure, err.Error())
	}

	candidates := make([]model.JourneyPolicy, 0, len(eligible))
	for _, policy := range eligible {
		if policy.Type == matchCtx.Type || policy.Type == constants.PolicyTypeCustom {
			candidates = append(candidates, policy)
		}
	}
	if len(candidates) == 0 {
		logger.Debug("No candidate policies for request type",
			log.String("policyType", string(matchCtx.Type)))
		return nil, nil
	}

	// Tenant-specific candidates first, then priority descending. The sort is
	// stable so equal candidates keep the store order, which keeps matching
	// deterministic for a fixed policy set.
	sort.SliceStable(candidates, func(i, j int) bool {
		iTenant := candidates[i].TenantID != ""
		jTenant := candidates[j].TenantID != ""
		if iTenant != jTenant {
			return iTenant
		}
		return candidates[i].Priority > candidates[j].Priority
	})

	for i := range candidates {
		if m.conditionsHold(&candidates[i], matchCtx) {
			logger.Debug("Matched policy",
				log.String(log.LoggerKeyPolicyID, candidates[i].ID))
			return &candidates[i], nil
		}
	}

	// Intentionally permissive: fall back to the best type match when no
	// candidate satisfies all of its conditions.
	logger.Debug("No policy satisfied all conditions; falling back to first type match",
		log.String(log.LoggerKeyPolicyID, candidates[0].ID))
	return &candidates[0], nil
}

// conditionsHold evaluates the policy's matching rules with AND semantics.
func (m *Matcher) conditionsHold(policy *model.JourneyPolicy, matchCtx *model.MatchContext) bool {
	for _, cond := range policy.Conditions {
		if !m.evaluateCondition(&cond, matchCtx) {
			return false
		}
	}
	return true
}

func (m *Matcher) evaluateCondition(cond *model.PolicyCondition, matchCtx *model.MatchContext) bool {
	values := resolveConditionValues(cond.Type, matchCtx)
	for _, value := range values {
		if applyOperator(cond.Operator, value, cond.Value) {
			return true
		}
	}
	return false
}

// resolveConditionValues maps a condition type onto the context attribute it
// reads. Multi-valued attributes match when any element satisfies the rule.
func resolveConditionValues(condType string, matchCtx *model.MatchContext) []string {
	switch strings.ToLower(strings.TrimSpace(condType)) {
	case conditionTypeClientID:
		return []string{matchCtx.ClientID}
	case conditionTypeTenantID:
		return []string{matchCtx.TenantID}
	case conditionTypeScope:
		return matchCtx.Scopes
	case conditionTypeAcrValue:
		return matchCtx.AcrValues
	default:
		if matchCtx.AdditionalParameters != nil {
			if value, ok := matchCtx.AdditionalParameters[condType]; ok {
				return []string{value}
			}
		}
		return nil
	}
}

func applyOperator(operator constants.PolicyConditionOperator, value, expected string) bool {
	switch operator {
	case constants.PolicyOperatorEquals:
		return value == expected
	case constants.PolicyOperatorContains:
		return strings.Contains(value, expected)
	case constants.PolicyOperatorStartsWith:
		return strings.HasPrefix(value, expected)
	case constants.PolicyOperatorEndsWith:
		return strings.HasSuffix(value, expected)
	case constants.PolicyOperatorRegex:
		matched, err := regexp.MatchString(expected, value)
		if err != nil {
			log.GetLogger().Warn("Invalid policy condition regex",
				log.String("pattern", expected), log.Error(err))
			return false
		}
		return matched
	default:
		return false
	}
}
