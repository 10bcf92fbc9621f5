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

// Package redirect provides the step handler that sends the user agent to an external URL.
package redirect

import (
	"context"
	"net/url"

	"github.com/meridianid/meridian/internal/journey/constants"
	"github.com/meridianid/meridian/internal/journey/model"
	"github.com/meridianid/meridian/internal/journey/registry"
)

// Handler redirects the user agent to a configured external URL, typically an
// upstream identity provider. The flow resumes when the external round trip
// calls back into the journey.
type Handler struct{}

var _ model.StepHandlerInterface = (*Handler)(nil)

// NewHandler creates a new redirect step handler.
func NewHandler() *Handler {
	return &Handler{}
}

// StepType returns the step type identifier this handler serves.
func (h *Handler) StepType() string {
	return registry.StepTypeRedirect
}

// Execute builds the redirect target. The journey ID is attached so the
// external party can resume the journey on return.
func (h *Handler) Execute(_ context.Context, execCtx *model.StepExecutionContext) (
	*model.StepHandlerResult, error) {
	target := execCtx.ConfigString("url", "")
	if target == "" {
		return &model.StepHandlerResult{
			Outcome:          constants.StepOutcomeFailed,
			Error:            constants.ResultErrorStepError,
			ErrorDescription: "redirect step requires a url configuration",
		}, nil
	}

	parsed, err := url.Parse(target)
	if err != nil {
		return &model.StepHandlerResult{
			Outcome:          constants.StepOutcomeFailed,
			Error:            constants.ResultErrorStepError,
			ErrorDescription: "redirect step url is invalid: " + err.Error(),
		}, nil
	}

	if execCtx.ConfigBool("includeState", true) {
		query := parsed.Query()
		query.Set("journeyId", execCtx.JourneyID)
		parsed.RawQuery = query.Encode()
	}

	return &model.StepHandlerResult{
		Outcome:     constants.StepOutcomeRedirect,
		RedirectURL: parsed.String(),
	}, nil
}
