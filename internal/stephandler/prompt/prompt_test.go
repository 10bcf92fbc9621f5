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

package prompt

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/meridianid/meridian/internal/journey/constants"
	"github.com/meridianid/meridian/internal/journey/model"
	"github.com/meridianid/meridian/internal/journey/registry"
)

type PromptHandlerTestSuite struct {
	suite.Suite
	handler *Handler
}

func TestPromptHandlerSuite(t *testing.T) {
	suite.Run(t, new(PromptHandlerTestSuite))
}

func (suite *PromptHandlerTestSuite) SetupTest() {
	suite.handler = NewHandler()
}

func emailPasswordConfig() map[string]any {
	return map[string]any{
		"message": "Sign in to continue",
		"inputs": []any{
			map[string]any{"name": "email", "type": "email", "required": true},
			map[string]any{"name": "password", "type": "password", "required": true},
			map[string]any{"name": "remember", "type": "checkbox"},
		},
	}
}

func (suite *PromptHandlerTestSuite) TestStepType() {
	assert.Equal(suite.T(), registry.StepTypePrompt, suite.handler.StepType())
}

func (suite *PromptHandlerTestSuite) TestNoInputReturnsForm() {
	result, err := suite.handler.Execute(context.Background(), &model.StepExecutionContext{
		StepID:        "signin-form",
		Configuration: emailPasswordConfig(),
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), constants.StepOutcomeRequireInput, result.Outcome)
	assert.NotNil(suite.T(), result.View)
	assert.Equal(suite.T(), "signin-form", result.View.StepID)
	assert.Equal(suite.T(), "Sign in to continue", result.View.Message)
	assert.Len(suite.T(), result.View.Inputs, 3)
	assert.Equal(suite.T(), "email", result.View.Inputs[0].Name)
	assert.True(suite.T(), result.View.Inputs[0].Required)
}

func (suite *PromptHandlerTestSuite) TestMissingRequiredFieldReprompts() {
	result, err := suite.handler.Execute(context.Background(), &model.StepExecutionContext{
		StepID:        "signin-form",
		Configuration: emailPasswordConfig(),
		Input:         map[string]any{"email": "ann@example.com"},
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), constants.StepOutcomeRequireInput, result.Outcome)
}

func (suite *PromptHandlerTestSuite) TestCompleteInputContinuesWithOutput() {
	result, err := suite.handler.Execute(context.Background(), &model.StepExecutionContext{
		StepID:        "signin-form",
		Configuration: emailPasswordConfig(),
		Input: map[string]any{
			"email":      "ann@example.com",
			"password":   "s3cret",
			"unexpected": "dropped",
		},
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), constants.StepOutcomeContinue, result.Outcome)
	assert.Equal(suite.T(), "ann@example.com", result.OutputData["email"])
	assert.Equal(suite.T(), "s3cret", result.OutputData["password"])
	assert.NotContains(suite.T(), result.OutputData, "unexpected")
}

func (suite *PromptHandlerTestSuite) TestOptionalFieldPassedThrough() {
	result, err := suite.handler.Execute(context.Background(), &model.StepExecutionContext{
		StepID:        "signin-form",
		Configuration: emailPasswordConfig(),
		Input: map[string]any{
			"email":    "ann@example.com",
			"password": "s3cret",
			"remember": true,
		},
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), constants.StepOutcomeContinue, result.Outcome)
	assert.Equal(suite.T(), true, result.OutputData["remember"])
}

func (suite *PromptHandlerTestSuite) TestCompleteOnSubmit() {
	config := emailPasswordConfig()
	config["completeOnSubmit"] = true

	result, err := suite.handler.Execute(context.Background(), &model.StepExecutionContext{
		StepID:        "signin-form",
		Configuration: config,
		Input: map[string]any{
			"email":    "ann@example.com",
			"password": "s3cret",
		},
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), constants.StepOutcomeComplete, result.Outcome)
}

func (suite *PromptHandlerTestSuite) TestDefaultFieldTypeIsText() {
	result, err := suite.handler.Execute(context.Background(), &model.StepExecutionContext{
		StepID: "nickname",
		Configuration: map[string]any{
			"inputs": []any{map[string]any{"name": "nickname", "required": true}},
		},
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "text", result.View.Inputs[0].Type)
}
