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

// Package constants defines the constants used in the journey orchestration engine.
package constants

import "time"

// JourneyStatus defines the lifecycle status of a journey execution.
type JourneyStatus string

const (
	// JourneyStatusInProgress indicates that the journey is active and awaiting further steps or input.
	JourneyStatusInProgress JourneyStatus = "IN_PROGRESS"
	// JourneyStatusCompleted indicates that the journey finished successfully. Terminal.
	JourneyStatusCompleted JourneyStatus = "COMPLETED"
	// JourneyStatusFailed indicates that the journey finished with an unrecoverable failure. Terminal.
	JourneyStatusFailed JourneyStatus = "FAILED"
	// JourneyStatusExpired indicates that the journey exceeded its lifetime. Terminal.
	JourneyStatusExpired JourneyStatus = "EXPIRED"
	// JourneyStatusCancelled indicates that the journey was cancelled externally. Terminal.
	JourneyStatusCancelled JourneyStatus = "CANCELLED"
)

// IsTerminal reports whether the status permits no further transitions.
func (s JourneyStatus) IsTerminal() bool {
	switch s {
	case JourneyStatusCompleted, JourneyStatusFailed, JourneyStatusExpired, JourneyStatusCancelled:
		return true
	default:
		return false
	}
}

// PolicyType defines the type of journey a policy drives.
type PolicyType string

const (
	// PolicyTypeSignIn represents a sign-in journey policy.
	PolicyTypeSignIn PolicyType = "SIGN_IN"
	// PolicyTypeSignUp represents a sign-up journey policy.
	PolicyTypeSignUp PolicyType = "SIGN_UP"
	// PolicyTypeSignInSignUp represents a combined sign-in or sign-up journey policy.
	PolicyTypeSignInSignUp PolicyType = "SIGN_IN_SIGN_UP"
	// PolicyTypePasswordReset represents a password reset journey policy.
	PolicyTypePasswordReset PolicyType = "PASSWORD_RESET"
	// PolicyTypeProfileEdit represents a profile edit journey policy.
	PolicyTypeProfileEdit PolicyType = "PROFILE_EDIT"
	// PolicyTypeWaitlist represents a waitlist data collection policy.
	PolicyTypeWaitlist PolicyType = "WAITLIST"
	// PolicyTypeContactForm represents a contact form data collection policy.
	PolicyTypeContactForm PolicyType = "CONTACT_FORM"
	// PolicyTypeSurvey represents a survey data collection policy.
	PolicyTypeSurvey PolicyType = "SURVEY"
	// PolicyTypeFeedback represents a feedback data collection policy.
	PolicyTypeFeedback PolicyType = "FEEDBACK"
	// PolicyTypeDataCollection represents a generic data collection policy.
	PolicyTypeDataCollection PolicyType = "DATA_COLLECTION"
	// PolicyTypeCustom represents a custom policy matching any requested type.
	PolicyTypeCustom PolicyType = "CUSTOM"
)

// StepOutcome defines the categorical result of a step handler execution.
type StepOutcome string

const (
	// StepOutcomeRequireInput indicates that the step needs more user input to proceed.
	StepOutcomeRequireInput StepOutcome = "REQUIRE_INPUT"
	// StepOutcomeContinue indicates that the step completed and the journey should advance.
	StepOutcomeContinue StepOutcome = "CONTINUE"
	// StepOutcomeSkip indicates that the step was skipped and the journey should advance.
	StepOutcomeSkip StepOutcome = "SKIP"
	// StepOutcomeBranch indicates that the journey should jump to a branch target.
	StepOutcomeBranch StepOutcome = "BRANCH"
	// StepOutcomeRedirect indicates that the caller must redirect the user agent externally.
	StepOutcomeRedirect StepOutcome = "REDIRECT"
	// StepOutcomeComplete indicates that the journey should be finalized.
	StepOutcomeComplete StepOutcome = "COMPLETE"
	// StepOutcomeFailed indicates that the step failed.
	StepOutcomeFailed StepOutcome = "FAILED"
)

// ConditionSource defines where a condition reads its left-hand value from.
type ConditionSource string

const (
	// ConditionSourceClaim reads the value from the journey data claims.
	ConditionSourceClaim ConditionSource = "claim"
	// ConditionSourceContext reads the value from the evaluation context (tenant, client, user).
	ConditionSourceContext ConditionSource = "context"
	// ConditionSourcePreviousStep reads the value from completed step results.
	ConditionSourcePreviousStep ConditionSource = "previous_step"
)

// ConditionOperator defines the comparison applied by a condition.
type ConditionOperator string

const (
	// ConditionOperatorEquals matches when the value equals the expected value.
	ConditionOperatorEquals ConditionOperator = "equals"
	// ConditionOperatorNotEquals matches when the value differs from the expected value.
	ConditionOperatorNotEquals ConditionOperator = "notEquals"
	// ConditionOperatorContains matches when the value contains the expected value.
	ConditionOperatorContains ConditionOperator = "contains"
	// ConditionOperatorExists matches when the key is present.
	ConditionOperatorExists ConditionOperator = "exists"
	// ConditionOperatorNotExists matches when the key is absent.
	ConditionOperatorNotExists ConditionOperator = "notExists"
	// ConditionOperatorGreaterThan matches when the numeric value exceeds the expected value.
	ConditionOperatorGreaterThan ConditionOperator = "greaterThan"
	// ConditionOperatorLessThan matches when the numeric value is below the expected value.
	ConditionOperatorLessThan ConditionOperator = "lessThan"
	// ConditionOperatorRegex matches the value against the expected regular expression.
	ConditionOperatorRegex ConditionOperator = "regex"
	// ConditionOperatorExpression evaluates the expected value as a script expression over the journey data.
	ConditionOperatorExpression ConditionOperator = "expression"
)

// PolicyConditionOperator defines the string comparison used by policy matching rules.
type PolicyConditionOperator string

const (
	// PolicyOperatorEquals matches on string equality.
	PolicyOperatorEquals PolicyConditionOperator = "equals"
	// PolicyOperatorContains matches when the context value contains the rule value.
	PolicyOperatorContains PolicyConditionOperator = "contains"
	// PolicyOperatorStartsWith matches on a string prefix.
	PolicyOperatorStartsWith PolicyConditionOperator = "startsWith"
	// PolicyOperatorEndsWith matches on a string suffix.
	PolicyOperatorEndsWith PolicyConditionOperator = "endsWith"
	// PolicyOperatorRegex matches the context value against a regular expression.
	PolicyOperatorRegex PolicyConditionOperator = "regex"
)

// ClaimSourceType defines where an output claim mapping reads its value from.
type ClaimSourceType string

const (
	// ClaimSourceJourneyData resolves the claim from the journey data bag.
	ClaimSourceJourneyData ClaimSourceType = "journeyData"
	// ClaimSourceClaim resolves the claim from the accumulated claims.
	ClaimSourceClaim ClaimSourceType = "claim"
	// ClaimSourceLiteral uses the source path verbatim as the claim value.
	ClaimSourceLiteral ClaimSourceType = "literal"
)

// SubmissionStatus defines the review status of a persisted journey submission.
type SubmissionStatus string

const (
	// SubmissionStatusNew indicates a submission that has not been reviewed.
	SubmissionStatusNew SubmissionStatus = "NEW"
	// SubmissionStatusReviewed indicates a submission that has been reviewed.
	SubmissionStatusReviewed SubmissionStatus = "REVIEWED"
	// SubmissionStatusFlagged indicates a submission flagged for follow-up.
	SubmissionStatusFlagged SubmissionStatus = "FLAGGED"
	// SubmissionStatusArchived indicates a submission that has been archived.
	SubmissionStatusArchived SubmissionStatus = "ARCHIVED"
)

// Reserved journey data keys maintained by the orchestrator.
const (
	// DataKeyCompletedSteps holds the set of completed step IDs.
	DataKeyCompletedSteps = "completedSteps"
	// DataKeyLastError holds the error code of the last failed step.
	DataKeyLastError = "lastError"
	// DataKeyLastErrorDescription holds the error description of the last failed step.
	DataKeyLastErrorDescription = "lastErrorDescription"
	// DataKeyFailedStepID holds the ID of the last failed step.
	DataKeyFailedStepID = "failedStepId"
	// DataKeyRedirectURI is the legacy redirect target key consulted at completion.
	DataKeyRedirectURI = "redirectUri"
	// DataKeyUserID holds the resolved user ID within the journey data.
	DataKeyUserID = "userId"
)

// Well-known journey data keys captured into submission metadata.
const (
	// DataKeyIPAddress holds the caller IP address.
	DataKeyIPAddress = "ip_address"
	// DataKeyUserAgent holds the caller user agent.
	DataKeyUserAgent = "user_agent"
	// DataKeyReferrer holds the caller referrer.
	DataKeyReferrer = "referrer"
	// DataKeyCountry holds the caller country.
	DataKeyCountry = "country"
	// DataKeyLocale holds the caller locale.
	DataKeyLocale = "locale"
)

// Journey result error codes surfaced on JourneyResult.
const (
	// ResultErrorJourneyNotFound indicates that no journey exists for the given ID.
	ResultErrorJourneyNotFound = "journey_not_found"
	// ResultErrorJourneyExpired indicates that the journey exceeded its lifetime.
	ResultErrorJourneyExpired = "journey_expired"
	// ResultErrorJourneyNotActive indicates that the journey is already terminal.
	ResultErrorJourneyNotActive = "journey_not_active"
	// ResultErrorPolicyNotFound indicates that the journey's policy could not be resolved.
	ResultErrorPolicyNotFound = "policy_not_found"
	// ResultErrorNoPolicy indicates that no policy matched the start context.
	ResultErrorNoPolicy = "no_policy"
	// ResultErrorInvalidPolicy indicates that the resolved policy is unusable.
	ResultErrorInvalidPolicy = "invalid_policy"
	// ResultErrorStepNotFound indicates that the current step does not exist in the policy.
	ResultErrorStepNotFound = "step_not_found"
	// ResultErrorBranchStepNotFound indicates that a branch target does not exist in the policy.
	ResultErrorBranchStepNotFound = "branch_step_not_found"
	// ResultErrorMissingClaims indicates that a required claim is absent from the journey data.
	ResultErrorMissingClaims = "missing_claims"
	// ResultErrorHandlerNotFound indicates that no handler is registered for the step type.
	ResultErrorHandlerNotFound = "handler_not_found"
	// ResultErrorStepError indicates that a step handler returned or raised an error.
	ResultErrorStepError = "step_error"
	// ResultErrorStepTimeout indicates that a step handler exceeded its execution deadline.
	ResultErrorStepTimeout = "step_timeout"
	// ResultErrorStepFailed indicates that a step handler reported a failure without a code.
	ResultErrorStepFailed = "step_failed"
	// ResultErrorUnknownOutcome indicates that a step handler returned an unrecognized outcome.
	ResultErrorUnknownOutcome = "unknown_outcome"
	// ResultErrorDuplicateSubmission indicates that a pre-completion validator rejected the step.
	ResultErrorDuplicateSubmission = "duplicate_submission"
)

const (
	// DefaultJourneyTTL is the lifetime of a journey when the policy does not define one.
	DefaultJourneyTTL = 30 * time.Minute
	// StateRetentionPeriod is how long terminal journey state stays readable past its expiry.
	StateRetentionPeriod = time.Hour
)
