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

// Package policy provides management and request-time resolution of journey policies.
package policy

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/xeipuuv/gojsonschema"

	"github.com/meridianid/meridian/internal/journey/constants"
	"github.com/meridianid/meridian/internal/journey/model"
	"github.com/meridianid/meridian/internal/journey/registry"
	"github.com/meridianid/meridian/internal/journey/policy/store"
	"github.com/meridianid/meridian/internal/system/error/serviceerror"
	"github.com/meridianid/meridian/internal/system/log"
)

var (
	instance *MgtService
	once     sync.Once
)

// MgtServiceInterface defines the management operations on journey policies.
type MgtServiceInterface interface {
	GetPolicy(policyID string) (*model.JourneyPolicy, *serviceerror.ServiceError)
	GetPoliciesByTenant(tenantID string) ([]model.JourneyPolicy, *serviceerror.ServiceError)
	SavePolicy(policy *model.JourneyPolicy) (*model.JourneyPolicy, *serviceerror.ServiceError)
	DeletePolicy(policyID string) *serviceerror.ServiceError
	FindMatching(matchCtx *model.MatchContext) (*model.JourneyPolicy, *serviceerror.ServiceError)
}

// MgtService manages journey policy persistence, validation, and matching.
type MgtService struct {
	store    store.PolicyStoreInterface
	matcher  MatcherInterface
	registry registry.RegistryInterface
	validate *validator.Validate
}

// GetMgtService returns the singleton policy management service backed by
// the configured policy store.
func GetMgtService() MgtServiceInterface {
	once.Do(func() {
		policyStore := store.NewPolicyStore()
		instance = NewMgtService(policyStore, registry.GetRegistry())
	})
	return instance
}

// NewMgtService creates a policy management service with explicit dependencies.
func NewMgtService(policyStore store.PolicyStoreInterface,
	handlerRegistry registry.RegistryInterface) *MgtService {
	return &MgtService{
		store:    policyStore,
		matcher:  NewMatcher(policyStore),
		registry: handlerRegistry,
		validate: validator.New(),
	}
}

// GetPolicy retrieves a policy by its ID.
func (s *MgtService) GetPolicy(policyID string) (
	*model.JourneyPolicy, *serviceerror.ServiceError) {
	if policyID == "" {
		return nil, &constants.ErrorPolicyNotFound
	}
	policy, err := s.store.GetByID(policyID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(
			constants.ErrorPolicyStoreFailure, err.Error())
	}
	if policy == nil {
		return nil, &constants.ErrorPolicyNotFound
	}
	return policy, nil
}

// GetPoliciesByTenant retrieves the policies scoped to a tenant.
func (s *MgtService) GetPoliciesByTenant(tenantID string) (
	[]model.JourneyPolicy, *serviceerror.ServiceError) {
	policies, err := s.store.GetByTenant(tenantID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(
			constants.ErrorPolicyStoreFailure, err.Error())
	}
	return policies, nil
}

// SavePolicy validates and persists a policy. The version is incremented on
// every update of an existing policy.
func (s *MgtService) SavePolicy(policy *model.JourneyPolicy) (
	*model.JourneyPolicy, *serviceerror.ServiceError) {
	logger := log.GetLogger().With(
		log.String(log.LoggerKeyComponentName, "PolicyMgtService"))

	if svcErr := s.validatePolicy(policy); svcErr != nil {
		return nil, svcErr
	}

	existing, err := s.store.GetByID(policy.ID)
	if err != nil {
		return nil, serviceerror.CustomServiceError(
			constants.ErrorPolicyStoreFailure, err.Error())
	}

	now := time.Now()
	if existing != nil {
		policy.Version = existing.Version + 1
		policy.CreatedAt = existing.CreatedAt
	} else {
		policy.Version = 1
		policy.CreatedAt = now
	}
	policy.UpdatedAt = now

	if err := s.store.Save(policy); err != nil {
		logger.Error("Failed to persist policy",
			log.String(log.LoggerKeyPolicyID, policy.ID), log.Error(err))
		return nil, serviceerror.CustomServiceError(
			constants.ErrorPolicyStoreFailure, err.Error())
	}

	logger.Debug("Persisted policy",
		log.String(log.LoggerKeyPolicyID, policy.ID),
		log.Int("version", policy.Version))
	return policy, nil
}

// DeletePolicy removes a policy. Deleting a missing policy is a no-op.
func (s *MgtService) DeletePolicy(policyID string) *serviceerror.ServiceError {
	if policyID == "" {
		return nil
	}
	if err := s.store.Delete(policyID); err != nil {
		return serviceerror.CustomServiceError(
			constants.ErrorPolicyStoreFailure, err.Error())
	}
	return nil
}

// FindMatching selects the best policy for a request context.
func (s *MgtService) FindMatching(matchCtx *model.MatchContext) (
	*model.JourneyPolicy, *serviceerror.ServiceError) {
	return s.matcher.FindMatching(matchCtx)
}

// validatePolicy checks the structural integrity of a policy before it is
// persisted: struct constraints, a known policy type, unique step IDs,
// resolvable step references, and step configurations conforming to the
// registered type schema.
func (s *MgtService) validatePolicy(policy *model.JourneyPolicy) *serviceerror.ServiceError {
	if policy == nil {
		return serviceerror.CustomServiceError(
			constants.ErrorPolicyValidationFailed, "policy is nil")
	}
	if err := s.validate.Struct(policy); err != nil {
		return serviceerror.CustomServiceError(
			constants.ErrorPolicyValidationFailed, err.Error())
	}
	if !isKnownPolicyType(policy.Type) {
		return serviceerror.CustomServiceError(
			constants.ErrorInvalidPolicyType, fmt.Sprintf(
				"unknown policy type: %s", policy.Type))
	}

	stepIDs := make(map[string]bool, len(policy.Steps))
	for i := range policy.Steps {
		step := &policy.Steps[i]
		if stepIDs[step.ID] {
			return serviceerror.CustomServiceError(
				constants.ErrorPolicyValidationFailed, fmt.Sprintf(
					"duplicate step ID: %s", step.ID))
		}
		stepIDs[step.ID] = true
	}

	for i := range policy.Steps {
		step := &policy.Steps[i]
		if step.OnSuccess != "" && !stepIDs[step.OnSuccess] {
			return serviceerror.CustomServiceError(
				constants.ErrorPolicyValidationFailed, fmt.Sprintf(
					"step %s onSuccess references unknown step: %s", step.ID, step.OnSuccess))
		}
		if step.OnFailure != "" && !stepIDs[step.OnFailure] {
			return serviceerror.CustomServiceError(
				constants.ErrorPolicyValidationFailed, fmt.Sprintf(
					"step %s onFailure references unknown step: %s", step.ID, step.OnFailure))
		}
		for branchID, target := range step.Branches {
			if !stepIDs[target] {
				return serviceerror.CustomServiceError(
					constants.ErrorPolicyValidationFailed, fmt.Sprintf(
						"step %s branch %s references unknown step: %s",
						step.ID, branchID, target))
			}
		}
		if svcErr := s.validateStepConfiguration(step); svcErr != nil {
			return svcErr
		}
	}
	return nil
}

// validateStepConfiguration checks a step's configuration against the JSON
// schema published for its type. Types without a schema pass unconditionally.
func (s *MgtService) validateStepConfiguration(step *model.JourneyPolicyStep) *serviceerror.ServiceError {
	typeInfo, ok := s.registry.GetTypeInfo(step.Type)
	if !ok || len(typeInfo.ConfigSchema) == 0 {
		return nil
	}

	config := step.Configuration
	if config == nil {
		config = map[string]any{}
	}
	configJSON, err := json.Marshal(config)
	if err != nil {
		return serviceerror.CustomServiceError(
			constants.ErrorStepConfigInvalid, err.Error())
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(typeInfo.ConfigSchema),
		gojsonschema.NewBytesLoader(configJSON))
	if err != nil {
		return serviceerror.CustomServiceError(
			constants.ErrorStepConfigInvalid, err.Error())
	}
	if !result.Valid() {
		first := result.Errors()[0]
		return serviceerror.CustomServiceError(
			constants.ErrorStepConfigInvalid, fmt.Sprintf(
				"step %s configuration invalid: %s", step.ID, first.String()))
	}
	return nil
}

func isKnownPolicyType(policyType constants.PolicyType) bool {
	switch policyType {
	case constants.PolicyTypeSignIn, constants.PolicyTypeSignUp,
		constants.PolicyTypeSignInSignUp, constants.PolicyTypePasswordReset,
		constants.PolicyTypeProfileEdit, constants.PolicyTypeWaitlist,
		constants.PolicyTypeContactForm, constants.PolicyTypeSurvey,
		constants.PolicyTypeFeedback, constants.PolicyTypeDataCollection,
		constants.PolicyTypeCustom:
		return true
	default:
		return false
	}
}
