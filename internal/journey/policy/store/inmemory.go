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

package store

import (
	"sync"

	"github.com/meridianid/meridian/internal/journey/model"
)

// InMemoryPolicyStore is a map-backed policy store for tests and embedded use.
type InMemoryPolicyStore struct {
	mu       sync.RWMutex
	policies map[string]model.JourneyPolicy
}

var _ PolicyStoreInterface = (*InMemoryPolicyStore)(nil)

// NewInMemoryPolicyStore creates an empty in-memory policy store.
func NewInMemoryPolicyStore() *InMemoryPolicyStore {
	return &InMemoryPolicyStore{
		policies: make(map[string]model.JourneyPolicy),
	}
}

// GetByID retrieves a policy by its ID.
func (s *InMemoryPolicyStore) GetByID(policyID string) (*model.JourneyPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	policy, ok := s.policies[policyID]
	if !ok {
		return nil, nil
	}
	return &policy, nil
}

// GetByTenant retrieves all policies scoped to the given tenant.
func (s *InMemoryPolicyStore) GetByTenant(tenantID string) ([]model.JourneyPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var policies []model.JourneyPolicy
	for _, policy := range s.policies {
		if policy.TenantID == tenantID {
			policies = append(policies, policy)
		}
	}
	return policies, nil
}

// ListEligible retrieves the enabled policies visible to a tenant.
func (s *InMemoryPolicyStore) ListEligible(tenantID string) ([]model.JourneyPolicy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var policies []model.JourneyPolicy
	for _, policy := range s.policies {
		if !policy.Enabled {
			continue
		}
		if policy.TenantID == "" || policy.TenantID == tenantID {
			policies = append(policies, policy)
		}
	}
	return policies, nil
}

// Save creates or replaces a policy.
func (s *InMemoryPolicyStore) Save(policy *model.JourneyPolicy) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policies[policy.ID] = *policy
	return nil
}

// Delete removes a policy.
func (s *InMemoryPolicyStore) Delete(policyID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.policies, policyID)
	return nil
}
