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

package log

const (
	// LogLevelEnvironmentVariable is the environment variable used to set the log level.
	LogLevelEnvironmentVariable = "LOG_LEVEL"
	// DefaultLogLevel is the log level used when none is configured.
	DefaultLogLevel = "info"
)

const (
	// LoggerKeyComponentName is the key used to identify the component name in the logger.
	LoggerKeyComponentName = "component"
	// LoggerKeyJourneyID is the key used to identify the journey ID in the logger.
	LoggerKeyJourneyID = "journeyId"
	// LoggerKeyStepID is the key used to identify the step ID in the logger.
	LoggerKeyStepID = "stepId"
	// LoggerKeyStepType is the key used to identify the step type in the logger.
	LoggerKeyStepType = "stepType"
	// LoggerKeyPolicyID is the key used to identify the policy ID in the logger.
	LoggerKeyPolicyID = "policyId"
	// LoggerKeyTenantID is the key used to identify the tenant ID in the logger.
	LoggerKeyTenantID = "tenantId"
	// LoggerKeyHandlerType is the key used to identify the step handler type in the logger.
	LoggerKeyHandlerType = "handlerType"
)
