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

package registry

import (
	"encoding/json"

	"github.com/meridianid/meridian/internal/journey/model"
)

// Step type categories used for grouping in the admin console.
const (
	CategoryAuthentication = "authentication"
	CategoryDataCollection = "data_collection"
	CategoryFlowControl    = "flow_control"
	CategoryIntegration    = "integration"
	CategoryCustom         = "custom"
)

// Built-in step type identifiers.
const (
	StepTypePrompt           = "prompt"
	StepTypeCondition        = "condition"
	StepTypeRedirect         = "redirect"
	StepTypeAttributeCollect = "attribute_collect"
)

// builtInStepTypes is the static descriptive metadata for the step types that
// ship with the engine. This is data for UI generation, not behavior.
var builtInStepTypes = []model.StepTypeInfo{
	{
		Type:        StepTypePrompt,
		DisplayName: "Prompt",
		Category:    CategoryDataCollection,
		Description: "Collects the configured inputs from the user before continuing.",
		ConfigSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"inputs": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"name": {"type": "string"},
							"type": {"type": "string"},
							"required": {"type": "boolean"}
						},
						"required": ["name"]
					}
				},
				"message": {"type": "string"},
				"completeOnSubmit": {"type": "boolean"}
			},
			"required": ["inputs"]
		}`),
	},
	{
		Type:        StepTypeCondition,
		DisplayName: "Condition",
		Category:    CategoryFlowControl,
		Description: "Evaluates conditions or an expression and branches on the result.",
		ConfigSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"conditions": {"type": "array"},
				"expression": {"type": "string"},
				"trueBranch": {"type": "string"},
				"falseBranch": {"type": "string"}
			}
		}`),
	},
	{
		Type:        StepTypeRedirect,
		DisplayName: "Redirect",
		Category:    CategoryIntegration,
		Description: "Redirects the user agent to an external URL and resumes on return.",
		ConfigSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"url": {"type": "string"},
				"includeState": {"type": "boolean"}
			},
			"required": ["url"]
		}`),
	},
	{
		Type:        StepTypeAttributeCollect,
		DisplayName: "Attribute Collect",
		Category:    CategoryDataCollection,
		Description: "Copies the configured attributes from user input into the journey data.",
		ConfigSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"attributes": {
					"type": "array",
					"items": {"type": "string"}
				},
				"message": {"type": "string"},
				"completeOnSubmit": {"type": "boolean"}
			},
			"required": ["attributes"]
		}`),
	},
}
