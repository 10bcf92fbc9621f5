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

package constants

import (
	"github.com/meridianid/meridian/internal/system/error/serviceerror"
)

// Client error structs

var ErrorInvalidJourneyID = serviceerror.ServiceError{
	Code:             "JES-60001",
	Type:             serviceerror.ClientErrorType,
	Error:            "Invalid request",
	ErrorDescription: "Invalid journey ID provided in the request",
}

var ErrorInvalidStartContext = serviceerror.ServiceError{
	Code:             "JES-60002",
	Type:             serviceerror.ClientErrorType,
	Error:            "Invalid request",
	ErrorDescription: "Start context is missing required attributes",
}

var ErrorInvalidPolicyType = serviceerror.ServiceError{
	Code:             "JES-60003",
	Type:             serviceerror.ClientErrorType,
	Error:            "Invalid request",
	ErrorDescription: "Invalid policy type provided in the request",
}

var ErrorPolicyValidationFailed = serviceerror.ServiceError{
	Code:             "JES-60004",
	Type:             serviceerror.ClientErrorType,
	Error:            "Invalid policy",
	ErrorDescription: "Policy definition failed validation",
}

var ErrorPolicyNotFound = serviceerror.ServiceError{
	Code:             "JES-60005",
	Type:             serviceerror.ClientErrorType,
	Error:            "Policy not found",
	ErrorDescription: "No policy exists for the given ID",
}

var ErrorStepConfigInvalid = serviceerror.ServiceError{
	Code:             "JES-60006",
	Type:             serviceerror.ClientErrorType,
	Error:            "Invalid policy",
	ErrorDescription: "Step configuration does not conform to the handler configuration schema",
}

// Server error structs

var ErrorStateStoreFailure = serviceerror.ServiceError{
	Code:             "JES-65001",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "Error while reading or writing journey state",
}

var ErrorPolicyStoreFailure = serviceerror.ServiceError{
	Code:             "JES-65002",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "Error while reading or writing journey policies",
}

var ErrorSubmissionStoreFailure = serviceerror.ServiceError{
	Code:             "JES-65003",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "Error while reading or writing journey submissions",
}

var ErrorStateSerializationFailure = serviceerror.ServiceError{
	Code:             "JES-65004",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "Error while serializing or deserializing journey state",
}

var ErrorConditionEvaluationFailure = serviceerror.ServiceError{
	Code:             "JES-65005",
	Type:             serviceerror.ServerErrorType,
	Error:            "Something went wrong",
	ErrorDescription: "Error while evaluating journey conditions",
}
