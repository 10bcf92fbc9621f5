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

// Package engine implements the journey orchestrator state machine.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meridianid/meridian/internal/journey/condition"
	"github.com/meridianid/meridian/internal/journey/constants"
	"github.com/meridianid/meridian/internal/journey/model"
	"github.com/meridianid/meridian/internal/journey/policy"
	"github.com/meridianid/meridian/internal/journey/registry"
	"github.com/meridianid/meridian/internal/journey/statestore"
	"github.com/meridianid/meridian/internal/journey/submission"
	"github.com/meridianid/meridian/internal/system/error/serviceerror"
	"github.com/meridianid/meridian/internal/system/log"
	"github.com/meridianid/meridian/internal/system/utils"
)

const loggerComponentName = "JourneyOrchestrator"

// maxTransitionsPerCall bounds the number of step transitions a single start
// or continue call may make, so a mis-wired policy graph cannot spin forever.
const maxTransitionsPerCall = 64

// OrchestratorInterface defines the public operations of the journey engine.
// Taxonomy errors (journey_not_found, step_timeout, ...) ride on the returned
// JourneyResult; a ServiceError signals an infrastructure failure only.
type OrchestratorInterface interface {
	// StartJourney creates a journey seeded from protocol context and returns
	// the raw initial state without executing any step.
	StartJourney(ctx context.Context, startCtx *model.JourneyStartContext) (
		*model.JourneyState, *serviceerror.ServiceError)
	// StartJourneyWithPolicy resolves a policy, creates a journey, and
	// immediately executes the first step.
	StartJourneyWithPolicy(ctx context.Context, startCtx *model.JourneyStartContext) (
		*model.JourneyResult, *serviceerror.ServiceError)
	// ContinueJourney resumes a journey with the supplied user input.
	ContinueJourney(ctx context.Context, journeyID string, input map[string]any) (
		*model.JourneyResult, *serviceerror.ServiceError)
	// CancelJourney flips an active journey to Cancelled. No-op for missing
	// or already terminal journeys.
	CancelJourney(ctx context.Context, journeyID string) *serviceerror.ServiceError
}

// Orchestrator drives journeys through their policy step graph. It is
// stateless per call; all journey state lives in the state store and is
// reloaded before every step execution.
type Orchestrator struct {
	policyService policy.MgtServiceInterface
	stateStore    statestore.StateStoreInterface
	registry      registry.RegistryInterface
	evaluator     condition.EvaluatorInterface
	// submissions is nil when submission persistence is disabled.
	submissions submission.StoreInterface
	timeNow     func() time.Time
}

var _ OrchestratorInterface = (*Orchestrator)(nil)

// NewOrchestrator creates an orchestrator with explicit collaborators.
func NewOrchestrator(policyService policy.MgtServiceInterface,
	stateStore statestore.StateStoreInterface, handlerRegistry registry.RegistryInterface,
	evaluator condition.EvaluatorInterface, submissions submission.StoreInterface) *Orchestrator {
	return &Orchestrator{
		policyService: policyService,
		stateStore:    stateStore,
		registry:      handlerRegistry,
		evaluator:     evaluator,
		submissions:   submissions,
		timeNow:       time.Now,
	}
}

// StartJourney creates a fresh journey for the start context and persists it.
// The first step is not executed; the caller drives the journey from here.
func (o *Orchestrator) StartJourney(ctx context.Context,
	startCtx *model.JourneyStartContext) (*model.JourneyState, *serviceerror.ServiceError) {
	resolved, svcErr := o.resolvePolicyForStart(startCtx)
	if svcErr != nil {
		return nil, svcErr
	}

	state, svcErr := o.createJourney(ctx, startCtx, resolved)
	if svcErr != nil {
		return nil, svcErr
	}
	return state, nil
}

// StartJourneyWithPolicy creates a fresh journey and executes its first step.
func (o *Orchestrator) StartJourneyWithPolicy(ctx context.Context,
	startCtx *model.JourneyStartContext) (*model.JourneyResult, *serviceerror.ServiceError) {
	resolved, svcErr := o.resolvePolicyForStart(startCtx)
	if svcErr != nil {
		if svcErr.Code == constants.ErrorPolicyNotFound.Code {
			code := constants.ResultErrorNoPolicy
			if startCtx.PolicyID != "" {
				code = constants.ResultErrorPolicyNotFound
			}
			return model.FailedResult("", "", code, svcErr.ErrorDescription), nil
		}
		return nil, svcErr
	}

	state, svcErr := o.createJourney(ctx, startCtx, resolved)
	if svcErr != nil {
		return nil, svcErr
	}
	return o.executeLoop(ctx, state.ID, resolved, startCtx.Input)
}

// ContinueJourney resumes a journey at its current step with the given input.
func (o *Orchestrator) ContinueJourney(ctx context.Context, journeyID string,
	input map[string]any) (*model.JourneyResult, *serviceerror.ServiceError) {
	if journeyID == "" {
		return nil, &constants.ErrorInvalidJourneyID
	}
	logger := log.GetLogger().With(
		log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyJourneyID, journeyID))

	state, err := o.stateStore.Get(ctx, journeyID)
	if err != nil {
		logger.Error("Failed to load journey state", log.Error(err))
		return nil, serviceerror.CustomServiceError(
			constants.ErrorStateStoreFailure, err.Error())
	}
	if state == nil {
		return model.FailedResult(journeyID, "", constants.ResultErrorJourneyNotFound,
			"no journey exists for the given ID"), nil
	}

	if state.Status == constants.JourneyStatusInProgress && state.IsExpired(o.timeNow()) {
		state.Status = constants.JourneyStatusExpired
		if err := o.stateStore.Save(ctx, state); err != nil {
			logger.Error("Failed to persist journey expiry", log.Error(err))
			return nil, serviceerror.CustomServiceError(
				constants.ErrorStateStoreFailure, err.Error())
		}
		return &model.JourneyResult{
			JourneyID:        journeyID,
			Status:           constants.JourneyStatusExpired,
			Error:            constants.ResultErrorJourneyExpired,
			ErrorDescription: "journey exceeded its lifetime",
		}, nil
	}
	if state.Status != constants.JourneyStatusInProgress {
		return &model.JourneyResult{
			JourneyID:        journeyID,
			Status:           state.Status,
			Error:            constants.ResultErrorJourneyNotActive,
			ErrorDescription: "journey is already in a terminal state",
		}, nil
	}

	resolved, svcErr := o.policyService.GetPolicy(state.PolicyID)
	if svcErr != nil {
		if svcErr.Code == constants.ErrorPolicyNotFound.Code {
			return model.FailedResult(journeyID, state.CurrentStepID,
				constants.ResultErrorPolicyNotFound, "journey policy could not be resolved"), nil
		}
		return nil, svcErr
	}
	return o.executeLoop(ctx, journeyID, resolved, input)
}

// CancelJourney flips an active journey to Cancelled. No handler is invoked.
func (o *Orchestrator) CancelJourney(ctx context.Context,
	journeyID string) *serviceerror.ServiceError {
	if journeyID == "" {
		return &constants.ErrorInvalidJourneyID
	}
	state, err := o.stateStore.Get(ctx, journeyID)
	if err != nil {
		return serviceerror.CustomServiceError(
			constants.ErrorStateStoreFailure, err.Error())
	}
	if state == nil || state.Status.IsTerminal() {
		return nil
	}
	state.Status = constants.JourneyStatusCancelled
	if err := o.stateStore.Save(ctx, state); err != nil {
		return serviceerror.CustomServiceError(
			constants.ErrorStateStoreFailure, err.Error())
	}
	return nil
}

// resolvePolicyForStart resolves the policy for a new journey, either by the
// explicit policy ID or through the matcher.
func (o *Orchestrator) resolvePolicyForStart(startCtx *model.JourneyStartContext) (
	*model.JourneyPolicy, *serviceerror.ServiceError) {
	if startCtx == nil {
		return nil, &constants.ErrorInvalidStartContext
	}
	if startCtx.PolicyID != "" {
		return o.policyService.GetPolicy(startCtx.PolicyID)
	}

	matched, svcErr := o.policyService.FindMatching(startCtx.MatchContext())
	if svcErr != nil {
		return nil, svcErr
	}
	if matched == nil {
		return nil, serviceerror.CustomServiceError(constants.ErrorPolicyNotFound,
			"no policy matched the start context")
	}
	return matched, nil
}

// createJourney builds and persists a fresh journey state for the policy.
func (o *Orchestrator) createJourney(ctx context.Context,
	startCtx *model.JourneyStartContext, resolved *model.JourneyPolicy) (
	*model.JourneyState, *serviceerror.ServiceError) {
	first := resolved.FirstStep()
	if first == nil {
		return nil, serviceerror.CustomServiceError(constants.ErrorPolicyValidationFailed,
			"policy defines no steps")
	}

	now := o.timeNow()
	state := &model.JourneyState{
		ID:            utils.GenerateUUID(),
		TenantID:      startCtx.TenantID,
		ClientID:      startCtx.ClientID,
		PolicyID:      resolved.ID,
		CurrentStepID: first.ID,
		Status:        constants.JourneyStatusInProgress,
		CreatedAt:     now,
		ExpiresAt:     now.Add(resolved.JourneyTTL()),
		CorrelationID: startCtx.CorrelationID,
		CallbackURL:   startCtx.CallbackURL,
		Data:          utils.DeepCopyMap(startCtx.InitialData),
	}
	if state.Data == nil {
		state.Data = make(map[string]any)
	}

	if err := o.stateStore.Save(ctx, state); err != nil {
		return nil, serviceerror.CustomServiceError(
			constants.ErrorStateStoreFailure, err.Error())
	}

	log.GetLogger().With(
		log.String(log.LoggerKeyComponentName, loggerComponentName)).Debug(
		"Journey created",
		log.String(log.LoggerKeyJourneyID, state.ID),
		log.String(log.LoggerKeyPolicyID, resolved.ID))
	return state, nil
}

// executeLoop drives the journey step graph until a result is produced. The
// state is reloaded from the store before every step so sequential steps
// always observe each other's writes.
func (o *Orchestrator) executeLoop(ctx context.Context, journeyID string,
	resolved *model.JourneyPolicy, input map[string]any) (
	*model.JourneyResult, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(
		log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyJourneyID, journeyID))

	for transitions := 0; transitions < maxTransitionsPerCall; transitions++ {
		state, err := o.stateStore.Get(ctx, journeyID)
		if err != nil {
			logger.Error("Failed to reload journey state", log.Error(err))
			return nil, serviceerror.CustomServiceError(
				constants.ErrorStateStoreFailure, err.Error())
		}
		if state == nil {
			return model.FailedResult(journeyID, "", constants.ResultErrorJourneyNotFound,
				"journey state disappeared during execution"), nil
		}
		if state.Data == nil {
			state.Data = make(map[string]any)
		}

		step := resolved.GetStep(state.CurrentStepID)
		if step == nil {
			return model.FailedResult(journeyID, state.CurrentStepID,
				constants.ResultErrorStepNotFound,
				fmt.Sprintf("step %s does not exist in policy %s",
					state.CurrentStepID, resolved.ID)), nil
		}

		// Step conditions evaluating false and already-completed skippable
		// steps advance as an implicit success without invoking the handler.
		if len(step.Conditions) > 0 &&
			!o.evaluator.EvaluateConditions(step.Conditions, evaluationContext(state)) {
			outcome, result, svcErr := o.advance(ctx, state, resolved, step, "")
			if outcome == advanceReturned {
				return result, svcErr
			}
			continue
		}
		if step.SkipIfCompleted && state.IsStepCompleted(step.ID) {
			outcome, result, svcErr := o.advance(ctx, state, resolved, step, "")
			if outcome == advanceReturned {
				return result, svcErr
			}
			continue
		}

		// Required claims gate. A hard configuration error: no handler
		// invocation and no OnFailure routing.
		if missing := missingClaims(step, state.Data); missing != "" {
			return model.FailedResult(journeyID, step.ID, constants.ResultErrorMissingClaims,
				fmt.Sprintf("required claim %s is absent from the journey data", missing)), nil
		}

		handler := o.registry.GetHandler(step.Type)
		if handler == nil {
			return model.FailedResult(journeyID, step.ID, constants.ResultErrorHandlerNotFound,
				fmt.Sprintf("no handler registered for step type %s", step.Type)), nil
		}

		result, execErr := o.invokeHandler(ctx, handler, state, resolved, step, input)
		// Input is consumed by the first handler invocation of this call.
		input = nil

		if execErr != nil {
			code := constants.ResultErrorStepError
			if errors.Is(execErr, context.DeadlineExceeded) {
				code = constants.ResultErrorStepTimeout
			}
			description := step.ErrorMessageTemplate
			if description == "" {
				description = execErr.Error()
			}
			outcome, failResult, svcErr := o.handleStepFailure(
				ctx, state, step, code, description)
			if outcome == advanceReturned {
				return failResult, svcErr
			}
			continue
		}

		if svcErr := o.mergeHandlerOutput(ctx, state, result); svcErr != nil {
			return nil, svcErr
		}
		if result.Outcome == constants.StepOutcomeContinue ||
			result.Outcome == constants.StepOutcomeComplete {
			if state.MarkStepCompleted(step.ID) {
				if err := o.stateStore.Save(ctx, state); err != nil {
					return nil, serviceerror.CustomServiceError(
						constants.ErrorStateStoreFailure, err.Error())
				}
			}
		}

		switch result.Outcome {
		case constants.StepOutcomeRequireInput:
			return requireInputResult(state, step, result), nil

		case constants.StepOutcomeContinue:
			outcome, advResult, svcErr := o.advance(ctx, state, resolved, step, result.NextStepID)
			if outcome == advanceReturned {
				return advResult, svcErr
			}

		case constants.StepOutcomeSkip:
			outcome, advResult, svcErr := o.advance(ctx, state, resolved, step, "")
			if outcome == advanceReturned {
				return advResult, svcErr
			}

		case constants.StepOutcomeBranch:
			target, ok := step.Branches[result.BranchID]
			if !ok {
				// An unresolved branch ID falls through to the catch-all arm.
				return model.FailedResult(journeyID, step.ID,
					constants.ResultErrorUnknownOutcome,
					fmt.Sprintf("branch %s is not defined on step %s",
						result.BranchID, step.ID)), nil
			}
			if resolved.GetStep(target) == nil {
				return model.FailedResult(journeyID, step.ID,
					constants.ResultErrorBranchStepNotFound,
					fmt.Sprintf("branch target %s does not exist in policy %s",
						target, resolved.ID)), nil
			}
			if svcErr := o.moveTo(ctx, state, target); svcErr != nil {
				return nil, svcErr
			}

		case constants.StepOutcomeRedirect:
			return &model.JourneyResult{
				JourneyID:     state.ID,
				Status:        constants.JourneyStatusInProgress,
				CurrentStepID: step.ID,
				RedirectURL:   result.RedirectURL,
			}, nil

		case constants.StepOutcomeComplete:
			if violation, svcErr := o.runPreCompletionValidators(
				ctx, state, resolved, step); svcErr != nil {
				return nil, svcErr
			} else if violation != nil {
				outcome, failResult, failErr := o.handleStepFailure(
					ctx, state, step, violation.Code, violation.Description)
				if outcome == advanceReturned {
					return failResult, failErr
				}
				continue
			}
			return o.completeJourney(ctx, state, resolved)

		case constants.StepOutcomeFailed:
			code := result.Error
			if code == "" {
				code = constants.ResultErrorStepFailed
			}
			description := result.ErrorDescription
			if description == "" {
				description = step.ErrorMessageTemplate
			}
			outcome, failResult, svcErr := o.handleStepFailure(
				ctx, state, step, code, description)
			if outcome == advanceReturned {
				return failResult, svcErr
			}

		default:
			return model.FailedResult(journeyID, step.ID, constants.ResultErrorUnknownOutcome,
				fmt.Sprintf("step handler returned unrecognized outcome %s",
					result.Outcome)), nil
		}
	}

	logger.Warn("Journey exceeded the step transition bound",
		log.String(log.LoggerKeyPolicyID, resolved.ID))
	return model.FailedResult(journeyID, "", constants.ResultErrorInvalidPolicy,
		"policy step graph did not converge"), nil
}

// invokeHandler runs one handler execution, bounded by the effective step
// timeout when one is configured. Handler panics are converted to errors so
// a misbehaving handler can never crash the orchestrator call stack.
func (o *Orchestrator) invokeHandler(ctx context.Context, handler model.StepHandlerInterface,
	state *model.JourneyState, resolved *model.JourneyPolicy, step *model.JourneyPolicyStep,
	input map[string]any) (result *model.StepHandlerResult, err error) {
	timeout := resolved.EffectiveStepTimeout(step)
	execCtx := &model.StepExecutionContext{
		JourneyID:      state.ID,
		StepID:         step.ID,
		TenantID:       state.TenantID,
		ClientID:       state.ClientID,
		UserID:         state.UserID,
		PolicyID:       resolved.ID,
		Configuration:  step.Configuration,
		Data:           state.Data,
		Input:          input,
		TimeoutSeconds: timeout,
		MaxRetries:     step.MaxRetries,
		Validators:     o.validatorsFor(resolved),
	}

	runCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			log.GetLogger().Error("Step handler panicked",
				log.String(log.LoggerKeyJourneyID, state.ID),
				log.String(log.LoggerKeyStepID, step.ID),
				log.Any("panic", recovered))
			result = nil
			err = fmt.Errorf("step handler panic: %v", recovered)
		}
	}()

	result, err = handler.Execute(runCtx, execCtx)
	if err == nil && runCtx.Err() != nil {
		err = runCtx.Err()
	}
	if err == nil && result == nil {
		err = fmt.Errorf("step handler returned no result")
	}
	return result, err
}

// mergeHandlerOutput folds the handler output into the journey data and
// persists when anything changed.
func (o *Orchestrator) mergeHandlerOutput(ctx context.Context, state *model.JourneyState,
	result *model.StepHandlerResult) *serviceerror.ServiceError {
	changed := false
	for key, value := range result.OutputData {
		state.Data[key] = value
		changed = true
	}
	if userID, ok := state.Data[constants.DataKeyUserID]; ok {
		if resolved := utils.AsString(userID); resolved != "" && resolved != state.UserID {
			state.UserID = resolved
			changed = true
		}
	}
	if !changed {
		return nil
	}
	if err := o.stateStore.Save(ctx, state); err != nil {
		return serviceerror.CustomServiceError(
			constants.ErrorStateStoreFailure, err.Error())
	}
	return nil
}

// advanceOutcome reports whether an advance produced a caller-visible result
// or the loop should continue with the new current step.
type advanceOutcome int

const (
	advanceContinued advanceOutcome = iota
	advanceReturned
)

// advance moves the journey to the next step: the handler override when given,
// else the step's OnSuccess target, else the next step by order. When no next
// step exists the journey completes.
func (o *Orchestrator) advance(ctx context.Context, state *model.JourneyState,
	resolved *model.JourneyPolicy, step *model.JourneyPolicyStep, nextStepID string) (
	advanceOutcome, *model.JourneyResult, *serviceerror.ServiceError) {
	target := nextStepID
	if target == "" {
		target = step.OnSuccess
	}
	if target == "" {
		if next := resolved.NextStepByOrder(step); next != nil {
			target = next.ID
		}
	}
	if target == "" {
		result, svcErr := o.completeJourney(ctx, state, resolved)
		return advanceReturned, result, svcErr
	}
	if resolved.GetStep(target) == nil {
		return advanceReturned, model.FailedResult(state.ID, step.ID,
			constants.ResultErrorStepNotFound,
			fmt.Sprintf("next step %s does not exist in policy %s", target, resolved.ID)), nil
	}
	if svcErr := o.moveTo(ctx, state, target); svcErr != nil {
		return advanceReturned, nil, svcErr
	}
	return advanceContinued, nil, nil
}

// moveTo persists the new current step.
func (o *Orchestrator) moveTo(ctx context.Context, state *model.JourneyState,
	stepID string) *serviceerror.ServiceError {
	state.CurrentStepID = stepID
	if err := o.stateStore.Save(ctx, state); err != nil {
		return serviceerror.CustomServiceError(
			constants.ErrorStateStoreFailure, err.Error())
	}
	return nil
}

// handleStepFailure routes a step failure. With an OnFailure target the error
// is stashed into the journey data and the journey jumps there; otherwise a
// Failed result is returned while the persisted state deliberately stays
// InProgress so a later retry can re-execute the step.
func (o *Orchestrator) handleStepFailure(ctx context.Context, state *model.JourneyState,
	step *model.JourneyPolicyStep, code, description string) (
	advanceOutcome, *model.JourneyResult, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(
		log.String(log.LoggerKeyComponentName, loggerComponentName),
		log.String(log.LoggerKeyJourneyID, state.ID))
	logger.Debug("Step failed",
		log.String(log.LoggerKeyStepID, step.ID),
		log.String("errorCode", code))

	if step.OnFailure == "" {
		return advanceReturned, model.FailedResult(state.ID, step.ID, code, description), nil
	}

	state.Data[constants.DataKeyLastError] = code
	state.Data[constants.DataKeyLastErrorDescription] = description
	state.Data[constants.DataKeyFailedStepID] = step.ID
	if svcErr := o.moveTo(ctx, state, step.OnFailure); svcErr != nil {
		return advanceReturned, nil, svcErr
	}
	return advanceContinued, nil, nil
}

// validatorsFor returns the pre-completion validators applicable to a policy.
func (o *Orchestrator) validatorsFor(resolved *model.JourneyPolicy) []model.PreCompletionValidator {
	if o.submissions == nil || !resolved.PersistSubmissions ||
		resolved.AllowDuplicates || len(resolved.DuplicateCheckFields) == 0 {
		return nil
	}
	return []model.PreCompletionValidator{
		submission.NewDuplicateSubmissionValidator(o.submissions, resolved),
	}
}

// runPreCompletionValidators evaluates the applicable validators for the
// completing step. The first violation blocks completion.
func (o *Orchestrator) runPreCompletionValidators(ctx context.Context,
	state *model.JourneyState, resolved *model.JourneyPolicy,
	step *model.JourneyPolicyStep) (*model.ValidationViolation, *serviceerror.ServiceError) {
	for _, validator := range o.validatorsFor(resolved) {
		violation, err := validator.Validate(ctx, state.ID, step.ID, state.Data)
		if err != nil {
			return nil, serviceerror.CustomServiceError(
				constants.ErrorSubmissionStoreFailure, err.Error())
		}
		if violation != nil {
			return violation, nil
		}
	}
	return nil, nil
}

func requireInputResult(state *model.JourneyState, step *model.JourneyPolicyStep,
	result *model.StepHandlerResult) *model.JourneyResult {
	view := result.View
	if view == nil {
		view = &model.StepView{}
	}
	if view.StepID == "" {
		view.StepID = step.ID
	}
	if view.DisplayName == "" {
		view.DisplayName = step.DisplayName
	}
	return &model.JourneyResult{
		JourneyID:     state.ID,
		Status:        constants.JourneyStatusInProgress,
		CurrentStepID: step.ID,
		View:          view,
	}
}

func evaluationContext(state *model.JourneyState) *model.EvaluationContext {
	return &model.EvaluationContext{
		Data:     state.Data,
		UserID:   state.UserID,
		TenantID: state.TenantID,
		ClientID: state.ClientID,
	}
}

func missingClaims(step *model.JourneyPolicyStep, data map[string]any) string {
	for _, claim := range step.RequiredClaims {
		if _, ok := data[claim]; !ok {
			return claim
		}
	}
	return ""
}
