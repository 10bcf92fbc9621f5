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

package conditionstep

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/meridianid/meridian/internal/journey/condition"
	"github.com/meridianid/meridian/internal/journey/constants"
	"github.com/meridianid/meridian/internal/journey/model"
	"github.com/meridianid/meridian/internal/journey/registry"
)

type ConditionStepTestSuite struct {
	suite.Suite
	handler *Handler
}

func TestConditionStepSuite(t *testing.T) {
	suite.Run(t, new(ConditionStepTestSuite))
}

func (suite *ConditionStepTestSuite) SetupTest() {
	suite.handler = NewHandlerWithEvaluator(condition.GetEvaluator())
}

func (suite *ConditionStepTestSuite) TestStepType() {
	assert.Equal(suite.T(), registry.StepTypeCondition, suite.handler.StepType())
}

func (suite *ConditionStepTestSuite) TestTrueBranchTaken() {
	result, err := suite.handler.Execute(context.Background(), &model.StepExecutionContext{
		StepID: "route-by-plan",
		Configuration: map[string]any{
			"conditions": []any{
				map[string]any{
					"source":   "claim",
					"key":      "plan",
					"operator": "equals",
					"value":    "enterprise",
				},
			},
			"trueBranch":  "enterprise-onboarding",
			"falseBranch": "self-serve",
		},
		Data: map[string]any{"plan": "enterprise"},
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), constants.StepOutcomeBranch, result.Outcome)
	assert.Equal(suite.T(), "enterprise-onboarding", result.BranchID)
}

func (suite *ConditionStepTestSuite) TestFalseBranchTaken() {
	result, err := suite.handler.Execute(context.Background(), &model.StepExecutionContext{
		StepID: "route-by-plan",
		Configuration: map[string]any{
			"conditions": []any{
				map[string]any{
					"source":   "claim",
					"key":      "plan",
					"operator": "equals",
					"value":    "enterprise",
				},
			},
			"trueBranch":  "enterprise-onboarding",
			"falseBranch": "self-serve",
		},
		Data: map[string]any{"plan": "starter"},
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), constants.StepOutcomeBranch, result.Outcome)
	assert.Equal(suite.T(), "self-serve", result.BranchID)
}

func (suite *ConditionStepTestSuite) TestEmptyBranchContinues() {
	result, err := suite.handler.Execute(context.Background(), &model.StepExecutionContext{
		StepID: "gate",
		Configuration: map[string]any{
			"conditions": []any{
				map[string]any{
					"source":   "claim",
					"key":      "verified",
					"operator": "equals",
					"value":    "true",
				},
			},
			"falseBranch": "verify-email",
		},
		Data: map[string]any{"verified": "true"},
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), constants.StepOutcomeContinue, result.Outcome)
	assert.Empty(suite.T(), result.BranchID)
}

func (suite *ConditionStepTestSuite) TestExpressionConfiguration() {
	result, err := suite.handler.Execute(context.Background(), &model.StepExecutionContext{
		StepID: "age-gate",
		Configuration: map[string]any{
			"expression": "$.age >= 18",
			"trueBranch": "adult",
		},
		Data: map[string]any{"age": 21},
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), constants.StepOutcomeBranch, result.Outcome)
	assert.Equal(suite.T(), "adult", result.BranchID)
}

func (suite *ConditionStepTestSuite) TestContextValuesAvailableToExpression() {
	result, err := suite.handler.Execute(context.Background(), &model.StepExecutionContext{
		StepID: "tenant-gate",
		Configuration: map[string]any{
			"expression": "tenantId === 'acme'",
			"trueBranch": "acme-flow",
		},
		TenantID: "acme",
		Data:     map[string]any{},
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), constants.StepOutcomeBranch, result.Outcome)
	assert.Equal(suite.T(), "acme-flow", result.BranchID)
}

func (suite *ConditionStepTestSuite) TestInvalidConditionConfiguration() {
	result, err := suite.handler.Execute(context.Background(), &model.StepExecutionContext{
		StepID: "broken",
		Configuration: map[string]any{
			"conditions": "not-a-list",
		},
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), constants.StepOutcomeFailed, result.Outcome)
	assert.Equal(suite.T(), constants.ResultErrorStepError, result.Error)
}

func (suite *ConditionStepTestSuite) TestNoConditionsContinues() {
	result, err := suite.handler.Execute(context.Background(), &model.StepExecutionContext{
		StepID:        "noop",
		Configuration: map[string]any{},
		Data:          map[string]any{},
	})

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), constants.StepOutcomeContinue, result.Outcome)
}
