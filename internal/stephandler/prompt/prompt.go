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

// Package prompt provides the step handler that collects user input through a form.
package prompt

import (
	"context"

	"github.com/meridianid/meridian/internal/journey/constants"
	"github.com/meridianid/meridian/internal/journey/model"
	"github.com/meridianid/meridian/internal/journey/registry"
)

// Handler prompts the user for a set of configured input fields. Until all
// required fields arrive it returns RequireInput with a form payload; once
// satisfied it merges the inputs into the journey data and advances.
type Handler struct{}

var _ model.StepHandlerInterface = (*Handler)(nil)

// NewHandler creates a new prompt step handler.
func NewHandler() *Handler {
	return &Handler{}
}

// StepType returns the step type identifier this handler serves.
func (h *Handler) StepType() string {
	return registry.StepTypePrompt
}

// Execute runs the prompt step for one invocation.
func (h *Handler) Execute(_ context.Context, execCtx *model.StepExecutionContext) (
	*model.StepHandlerResult, error) {
	fields := inputFields(execCtx)

	missing := false
	for _, field := range fields {
		if !field.Required {
			continue
		}
		if _, ok := execCtx.Input[field.Name]; !ok {
			missing = true
			break
		}
	}
	if len(execCtx.Input) == 0 || missing {
		return &model.StepHandlerResult{
			Outcome: constants.StepOutcomeRequireInput,
			View: &model.StepView{
				StepID:  execCtx.StepID,
				Inputs:  fields,
				Message: execCtx.ConfigString("message", ""),
			},
		}, nil
	}

	output := make(map[string]any, len(fields))
	for _, field := range fields {
		if value, ok := execCtx.Input[field.Name]; ok {
			output[field.Name] = value
		}
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

// inputFields parses the configured input field definitions.
func inputFields(execCtx *model.StepExecutionContext) []model.InputField {
	raw, ok := execCtx.Configuration["inputs"].([]any)
	if !ok {
		return nil
	}
	fields := make([]model.InputField, 0, len(raw))
	for _, item := range raw {
		def, ok := item.(map[string]any)
		if !ok {
			continue
		}
		field := model.InputField{Type: "text"}
		if name, ok := def["name"].(string); ok {
			field.Name = name
		}
		if fieldType, ok := def["type"].(string); ok && fieldType != "" {
			field.Type = fieldType
		}
		if required, ok := def["required"].(bool); ok {
			field.Required = required
		}
		if field.Name != "" {
			fields = append(fields, field)
		}
	}
	return fields
}
