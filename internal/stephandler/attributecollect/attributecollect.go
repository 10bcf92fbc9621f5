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

// Package attributecollect provides the step handler that gathers named user attributes.
package attributecollect

import (
	"context"

	"github.com/meridianid/meridian/internal/journey/constants"
	"github.com/meridianid/meridian/internal/journey/model"
	"github.com/meridianid/meridian/internal/journey/registry"
)

// Handler collects a configured list of attributes into the journey data.
// Attributes already present in the data are not requested again, so the step
// only prompts for what is still missing.
type Handler struct{}

var _ model.StepHandlerInterface = (*Handler)(nil)

// NewHandler creates a new attribute collection step handler.
func NewHandler() *Handler {
	return &Handler{}
}

// StepType returns the step type identifier this handler serves.
func (h *Handler) StepType() string {
	return registry.StepTypeAttributeCollect
}

// Execute requests the attributes still missing from the journey data, or
// merges the supplied values and advances when everything is present.
func (h *Handler) Execute(_ context.Context, execCtx *model.StepExecutionContext) (
	*model.StepHandlerResult, error) {
	attributes := execCtx.ConfigStringSlice("attributes")
	if len(attributes) == 0 {
		return &model.StepHandlerResult{
			Outcome:          constants.StepOutcomeFailed,
			Error:            constants.ResultErrorStepError,
			ErrorDescription: "attribute collection step requires an attributes configuration",
		}, nil
	}

	output := make(map[string]any)
	var missing []model.InputField
	for _, attribute := range attributes {
		if value, ok := execCtx.Input[attribute]; ok {
			output[attribute] = value
			continue
		}
		if _, ok := execCtx.Data[attribute]; ok {
			continue
		}
		missing = append(missing, model.InputField{
			Name:     attribute,
			Type:     "text",
			Required: true,
		})
	}

	if len(missing) > 0 {
		return &model.StepHandlerResult{
			Outcome: constants.StepOutcomeRequireInput,
			View: &model.StepView{
				StepID:  execCtx.StepID,
				Inputs:  missing,
				Message: execCtx.ConfigString("message", ""),
			},
		}, nil
	}

	outcome := constants.StepOutcomeContinue
	if execCtx.ConfigBool("completeOnSubmit", false) {
		outcome = constants.StepOutcomeComplete
	}
	return &model.StepHandlerResult{
		Outcome:    outcome,
		OutputData: output,
	}, nil
}
