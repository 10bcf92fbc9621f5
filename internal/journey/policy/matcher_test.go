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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/meridianid/meridian/internal/journey/constants"
	"github.com/meridianid/meridian/internal/journey/model"
	"github.com/meridianid/meridian/internal/journey/policy/store"
)

type MatcherTestSuite struct {
	suite.Suite
	store   *store.InMemoryPolicyStore
	matcher *Matcher
}

func TestMatcherSuite(t *testing.T) {
	suite.Run(t, new(MatcherTestSuite))
}

func (suite *MatcherTestSuite) SetupTest() {
	suite.store = store.NewInMemoryPolicyStore()
	suite.matcher = NewMatcher(suite.store)
}

func (suite *MatcherTestSuite) addPolicy(p model.JourneyPolicy) {
	if len(p.Steps) == 0 {
		p.Steps = []model.JourneyPolicyStep{{ID: "s1", Type: "prompt", Order: 1}}
	}
	assert.NoError(suite.T(), suite.store.Save(&p))
}

func (suite *MatcherTestSuite) TestNoCandidates() {
	suite.addPolicy(model.JourneyPolicy{
		ID: "signup", Name: "Sign Up", Type: constants.PolicyTypeSignUp, Enabled: true})

	matched, svcErr := suite.matcher.FindMatching(&model.MatchContext{
		TenantID: "t1", Type: constants.PolicyTypeSignIn})

	assert.Nil(suite.T(), svcErr)
	assert.Nil(suite.T(), matched)
}

func (suite *MatcherTestSuite) TestDisabledPoliciesAreIgnored() {
	suite.addPolicy(model.JourneyPolicy{
		ID: "off", Name: "Off", Type: constants.PolicyTypeSignIn, Enabled: false})

	matched, svcErr := suite.matcher.FindMatching(&model.MatchContext{
		TenantID: "t1", Type: constants.PolicyTypeSignIn})

	assert.Nil(suite.T(), svcErr)
	assert.Nil(suite.T(), matched)
}

func (suite *MatcherTestSuite) TestTenantScopedBeatsGlobalAtEqualPriority() {
	suite.addPolicy(model.JourneyPolicy{
		ID: "global", Name: "Global", Type: constants.PolicyTypeSignIn,
		Enabled: true, Priority: 10})
	suite.addPolicy(model.JourneyPolicy{
		ID: "tenant", Name: "Tenant", Type: constants.PolicyTypeSignIn,
		TenantID: "t1", Enabled: true, Priority: 10})

	// Determinism: the same context always selects the same policy.
	for i := 0; i < 5; i++ {
		matched, svcErr := suite.matcher.FindMatching(&model.MatchContext{
			TenantID: "t1", Type: constants.PolicyTypeSignIn})
		assert.Nil(suite.T(), svcErr)
		assert.Equal(suite.T(), "tenant", matched.ID)
	}
}

func (suite *MatcherTestSuite) TestHigherPriorityWins() {
	suite.addPolicy(model.JourneyPolicy{
		ID: "low", Name: "Low", Type: constants.PolicyTypeSignIn,
		TenantID: "t1", Enabled: true, Priority: 1})
	suite.addPolicy(model.JourneyPolicy{
		ID: "high", Name: "High", Type: constants.PolicyTypeSignIn,
		TenantID: "t1", Enabled: true, Priority: 100})

	matched, svcErr := suite.matcher.FindMatching(&model.MatchContext{
		TenantID: "t1", Type: constants.PolicyTypeSignIn})

	assert.Nil(suite.T(), svcErr)
	assert.Equal(suite.T(), "high", matched.ID)
}

func (suite *MatcherTestSuite) TestCustomTypeActsAsCatchAll() {
	suite.addPolicy(model.JourneyPolicy{
		ID: "custom", Name: "Custom", Type: constants.PolicyTypeCustom,
		TenantID: "t1", Enabled: true})

	matched, svcErr := suite.matcher.FindMatching(&model.MatchContext{
		TenantID: "t1", Type: constants.PolicyTypePasswordReset})

	assert.Nil(suite.T(), svcErr)
	assert.Equal(suite.T(), "custom", matched.ID)
}

func (suite *MatcherTestSuite) TestConditionsAreANDed() {
	suite.addPolicy(model.JourneyPolicy{
		ID: "conditional", Name: "Conditional", Type: constants.PolicyTypeSignIn,
		TenantID: "t1", Enabled: true, Priority: 10,
		Conditions: []model.PolicyCondition{
			{Type: "clientId", Operator: constants.PolicyOperatorEquals, Value: "web-app"},
			{Type: "scope", Operator: constants.PolicyOperatorEquals, Value: "openid"},
		}})
	suite.addPolicy(model.JourneyPolicy{
		ID: "plain", Name: "Plain", Type: constants.PolicyTypeSignIn,
		TenantID: "t1", Enabled: true, Priority: 1})

	matched, svcErr := suite.matcher.FindMatching(&model.MatchContext{
		TenantID: "t1", ClientID: "web-app", Type: constants.PolicyTypeSignIn,
		Scopes: []string{"openid", "profile"}})
	assert.Nil(suite.T(), svcErr)
	assert.Equal(suite.T(), "conditional", matched.ID)

	// One failed condition rules the policy out and the lower-priority one wins.
	matched, svcErr = suite.matcher.FindMatching(&model.MatchContext{
		TenantID: "t1", ClientID: "mobile-app", Type: constants.PolicyTypeSignIn,
		Scopes: []string{"openid"}})
	assert.Nil(suite.T(), svcErr)
	assert.Equal(suite.T(), "plain", matched.ID)
}

func (suite *MatcherTestSuite) TestStringOperators() {
	cases := []struct {
		operator constants.PolicyConditionOperator
		value    string
		clientID string
		matches  bool
	}{
		{constants.PolicyOperatorEquals, "web-app", "web-app", true},
		{constants.PolicyOperatorContains, "web", "my-web-app", true},
		{constants.PolicyOperatorStartsWith, "web", "web-app", true},
		{constants.PolicyOperatorEndsWith, "-app", "web-app", true},
		{constants.PolicyOperatorRegex, "^web-[a-z]+$", "web-app", true},
		{constants.PolicyOperatorRegex, "^web-[a-z]+$", "mobile-app", false},
		{constants.PolicyOperatorStartsWith, "web", "mobile", false},
	}
	for _, tc := range cases {
		matched := applyOperator(tc.operator, tc.clientID, tc.value)
		assert.Equal(suite.T(), tc.matches, matched,
			"operator %s value %s against %s", tc.operator, tc.value, tc.clientID)
	}
}

func (suite *MatcherTestSuite) TestAdditionalParameterCondition() {
	suite.addPolicy(model.JourneyPolicy{
		ID: "campaign", Name: "Campaign", Type: constants.PolicyTypeSignUp,
		Enabled: true,
		Conditions: []model.PolicyCondition{
			{Type: "utm_source", Operator: constants.PolicyOperatorEquals, Value: "newsletter"},
		}})

	matched, svcErr := suite.matcher.FindMatching(&model.MatchContext{
		TenantID: "t1", Type: constants.PolicyTypeSignUp,
		AdditionalParameters: map[string]string{"utm_source": "newsletter"}})

	assert.Nil(suite.T(), svcErr)
	assert.Equal(suite.T(), "campaign", matched.ID)
}

// The documented permissive fallback: when no candidate satisfies all of its
// conditions, the best type match is returned anyway.
func (suite *MatcherTestSuite) TestFallbackToFirstTypeMatch() {
	suite.addPolicy(model.JourneyPolicy{
		ID: "guarded", Name: "Guarded", Type: constants.PolicyTypeSignIn,
		TenantID: "t1", Enabled: true, Priority: 5,
		Conditions: []model.PolicyCondition{
			{Type: "clientId", Operator: constants.PolicyOperatorEquals, Value: "nobody"},
		}})

	matched, svcErr := suite.matcher.FindMatching(&model.MatchContext{
		TenantID: "t1", ClientID: "web-app", Type: constants.PolicyTypeSignIn})

	assert.Nil(suite.T(), svcErr)
	assert.Equal(suite.T(), "guarded", matched.ID)
}
