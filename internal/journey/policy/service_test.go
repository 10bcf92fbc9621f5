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
	"github.com/meridianid/meridian/internal/journey/registry"
)

type MgtServiceTestSuite struct {
	suite.Suite
	store   *store.InMemoryPolicyStore
	service *MgtService
}

func TestMgtServiceSuite(t *testing.T) {
	suite.Run(t, new(MgtServiceTestSuite))
}

func (suite *MgtServiceTestSuite) SetupTest() {
	suite.store = store.NewInMemoryPolicyStore()
	suite.service = NewMgtService(suite.store, registry.NewRegistry())
}

func validPolicy() *model.JourneyPolicy {
	return &model.JourneyPolicy{
		ID:      "signin",
		Name:    "Sign In",
		Type:    constants.PolicyTypeSignIn,
		Enabled: true,
		Steps: []model.JourneyPolicyStep{
			{ID: "login", Type: "password", Order: 1, OnSuccess: "consent"},
			{ID: "consent", Type: "consent", Order: 2},
		},
	}
}

func (suite *MgtServiceTestSuite) TestSaveAndGetPolicy() {
	saved, svcErr := suite.service.SavePolicy(validPolicy())
	assert.Nil(suite.T(), svcErr)
	assert.Equal(suite.T(), 1, saved.Version)
	assert.False(suite.T(), saved.CreatedAt.IsZero())

	loaded, svcErr := suite.service.GetPolicy("signin")
	assert.Nil(suite.T(), svcErr)
	assert.Equal(suite.T(), "Sign In", loaded.Name)
}

func (suite *MgtServiceTestSuite) TestVersionIncrementsOnUpdate() {
	_, svcErr := suite.service.SavePolicy(validPolicy())
	assert.Nil(suite.T(), svcErr)

	updated := validPolicy()
	updated.Name = "Sign In v2"
	saved, svcErr := suite.service.SavePolicy(updated)
	assert.Nil(suite.T(), svcErr)
	assert.Equal(suite.T(), 2, saved.Version)
}

func (suite *MgtServiceTestSuite) TestGetMissingPolicy() {
	_, svcErr := suite.service.GetPolicy("ghost")
	assert.NotNil(suite.T(), svcErr)
	assert.Equal(suite.T(), constants.ErrorPolicyNotFound.Code, svcErr.Code)
}

func (suite *MgtServiceTestSuite) TestRejectsPolicyWithoutSteps() {
	p := validPolicy()
	p.Steps = nil

	_, svcErr := suite.service.SavePolicy(p)
	assert.NotNil(suite.T(), svcErr)
	assert.Equal(suite.T(), constants.ErrorPolicyValidationFailed.Code, svcErr.Code)
}

func (suite *MgtServiceTestSuite) TestRejectsUnknownPolicyType() {
	p := validPolicy()
	p.Type = "MYSTERY"

	_, svcErr := suite.service.SavePolicy(p)
	assert.NotNil(suite.T(), svcErr)
	assert.Equal(suite.T(), constants.ErrorInvalidPolicyType.Code, svcErr.Code)
}

func (suite *MgtServiceTestSuite) TestRejectsDuplicateStepIDs() {
	p := validPolicy()
	p.Steps[1].ID = "login"

	_, svcErr := suite.service.SavePolicy(p)
	assert.NotNil(suite.T(), svcErr)
	assert.Equal(suite.T(), constants.ErrorPolicyValidationFailed.Code, svcErr.Code)
}

func (suite *MgtServiceTestSuite) TestRejectsDanglingStepReferences() {
	cases := []func(p *model.JourneyPolicy){
		func(p *model.JourneyPolicy) { p.Steps[0].OnSuccess = "nowhere" },
		func(p *model.JourneyPolicy) { p.Steps[0].OnFailure = "nowhere" },
		func(p *model.JourneyPolicy) {
			p.Steps[0].Branches = map[string]string{"alt": "nowhere"}
		},
	}
	for _, mutate := range cases {
		p := validPolicy()
		mutate(p)
		_, svcErr := suite.service.SavePolicy(p)
		assert.NotNil(suite.T(), svcErr)
		assert.Equal(suite.T(), constants.ErrorPolicyValidationFailed.Code, svcErr.Code)
	}
}

func (suite *MgtServiceTestSuite) TestStepConfigurationSchemaValidation() {
	p := validPolicy()
	// The built-in redirect type requires a url string in its configuration.
	p.Steps[0] = model.JourneyPolicyStep{
		ID: "login", Type: registry.StepTypeRedirect, Order: 1,
		Configuration: map[string]any{"url": 42},
	}

	_, svcErr := suite.service.SavePolicy(p)
	assert.NotNil(suite.T(), svcErr)
	assert.Equal(suite.T(), constants.ErrorStepConfigInvalid.Code, svcErr.Code)

	p.Steps[0].Configuration = map[string]any{"url": "https://idp.example"}
	_, svcErr = suite.service.SavePolicy(p)
	assert.Nil(suite.T(), svcErr)
}

func (suite *MgtServiceTestSuite) TestUnknownStepTypePassesConfigValidation() {
	p := validPolicy()
	p.Steps[0].Type = "bespoke"
	p.Steps[0].Configuration = map[string]any{"anything": true}

	_, svcErr := suite.service.SavePolicy(p)
	assert.Nil(suite.T(), svcErr)
}

func (suite *MgtServiceTestSuite) TestDeletePolicy() {
	_, svcErr := suite.service.SavePolicy(validPolicy())
	assert.Nil(suite.T(), svcErr)

	assert.Nil(suite.T(), suite.service.DeletePolicy("signin"))

	_, svcErr = suite.service.GetPolicy("signin")
	assert.NotNil(suite.T(), svcErr)

	// Deleting a missing policy is a no-op.
	assert.Nil(suite.T(), suite.service.DeletePolicy("signin"))
}
