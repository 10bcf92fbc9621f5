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

// Package conditionstep provides the step handler that branches a journey on a rule.
package conditionstep

import (
	"context"
	"encoding/json"

	"github.com/meridianid/meridian/internal/journey/condition"
	"github.com/meridianid/meridian/internal/journey/constants"
	"github.com/meridianid/meridian/internal/journey/model"
	"github.com/meridianid/meridian/internal/journey/registry"
)

// Handler evaluates configured conditions against the journey data and either
// branches the journey or continues it based on the result.
type Handler struct {
	evaluator condition.EvaluatorInterface
}

var _ model.StepHandlerInterface = (*Handler)(nil)

// NewHandler creates a new condition step handler.
func NewHandler() *Handler {
	return &Handler{evaluator: condition.GetEvaluator()}
}

// NewHandlerWithEvaluator creates a condition step handler with an explicit evaluator.
func NewHandlerWithEvaluator(evaluator condition.EvaluatorInterface) *Handler {
	return &Handler{evaluator: evaluator}
}

// StepType returns the step type identifier this handler serves.
func (h *Handler) StepType() string {
	return registry.StepTypeCondition
}

// Execute evaluates the configured conditions and selects a branch. The
// "trueBranch"/"falseBranch" configuration keys name branch IDs defined on
// the step; an empty target means the flow continues sequentially.
func (h *Handler) Execute(_ context.Context, execCtx *model.StepExecutionContext) (
	*model.StepHandlerResult, error) {
	conditions, err := parseConditions(execCtx.Configuration["conditions"])
	if err == nil && len(conditions) == 0 {
		if expression := execCtx.ConfigString("expression", ""); expression != "" {
			conditions = []model.Condition{{
				Operator: constants.ConditionOperatorExpression,
				Value:    expression,
			}}
		}
	}
	if err != nil {
		return &model.StepHandlerResult{
			Outcome:          constants.StepOutcomeFailed,
			Error:            constants.ResultErrorStepError,
			ErrorDescription: "invalid condition configuration: " + err.Error(),
		}, nil
	}

	holds := h.evaluator.EvaluateConditions(conditions, &model.EvaluationContext{
		Data:     execCtx.Data,
		UserID:   execCtx.UserID,
		TenantID: execCtx.TenantID,
		ClientID: execCtx.ClientID,
	})

	branch := execCtx.ConfigString("falseBranch", "")
	if holds {
		branch = execCtx.ConfigString("trueBranch", "")
	}
	if branch != "" {
		return &model.StepHandlerResult{
			Outcome:  constants.StepOutcomeBranch,
			BranchID: branch,
		}, nil
	}
	return &model.StepHandlerResult{Outcome: constants.StepOutcomeContinue}, nil
}

// parseConditions decodes the condition list from the untyped configuration bag.
func parseConditions(raw any) ([]model.Condition, error) {
	if raw == nil {
		return nil, nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var conditions []model.Condition
	if err := json.Unmarshal(encoded, &conditions); err != nil {
		return nil, err
	}
	return conditions, nil
}
