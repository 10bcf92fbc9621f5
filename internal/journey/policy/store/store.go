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
	"encoding/json"
	"fmt"

	"github.com/meridianid/meridian/internal/journey/model"
	"github.com/meridianid/meridian/internal/system/database/provider"
	"github.com/meridianid/meridian/internal/system/log"
)

const loggerComponentName = "PolicyStore"

// PolicyStoreInterface defines the persistence contract for journey policies.
type PolicyStoreInterface interface {
	// GetByID retrieves a policy by its ID. Returns nil when it does not exist.
	GetByID(policyID string) (*model.JourneyPolicy, error)
	// GetByTenant retrieves all policies scoped to the given tenant.
	GetByTenant(tenantID string) ([]model.JourneyPolicy, error)
	// ListEligible retrieves the enabled policies visible to a tenant,
	// i.e. tenant-scoped and global ones.
	ListEligible(tenantID string) ([]model.JourneyPolicy, error)
	// Save creates or replaces a policy.
	Save(policy *model.JourneyPolicy) error
	// Delete removes a policy. Deleting a missing policy is a no-op.
	Delete(policyID string) error
}

// PolicyStore is the database-backed implementation of PolicyStoreInterface.
// The policy definition is stored as a JSON document alongside the columns
// used for filtering.
type PolicyStore struct {
	dbProvider provider.DBProviderInterface
}

var _ PolicyStoreInterface = (*PolicyStore)(nil)

// NewPolicyStore creates a new database-backed policy store.
func NewPolicyStore() *PolicyStore {
	return &PolicyStore{
		dbProvider: provider.GetDBProvider(),
	}
}

// GetByID retrieves a policy by its ID.
func (s *PolicyStore) GetByID(policyID string) (*model.JourneyPolicy, error) {
	dbClient, err := s.dbProvider.GetDBClient("identity")
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(QueryGetPolicyByID, policyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query policy: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}

	return buildPolicyFromRow(results[0])
}

// GetByTenant retrieves all policies scoped to the given tenant.
func (s *PolicyStore) GetByTenant(tenantID string) ([]model.JourneyPolicy, error) {
	dbClient, err := s.dbProvider.GetDBClient("identity")
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(QueryGetPoliciesByTenant, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query policies: %w", err)
	}
	return buildPoliciesFromRows(results)
}

// ListEligible retrieves the enabled policies visible to a tenant.
func (s *PolicyStore) ListEligible(tenantID string) ([]model.JourneyPolicy, error) {
	dbClient, err := s.dbProvider.GetDBClient("identity")
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(QueryListEligiblePolicies, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query policies: %w", err)
	}
	return buildPoliciesFromRows(results)
}

// Save creates or replaces a policy.
func (s *PolicyStore) Save(policy *model.JourneyPolicy) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := s.dbProvider.GetDBClient("identity")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	document, err := json.Marshal(policy)
	if err != nil {
		return fmt.Errorf("failed to serialize policy: %w", err)
	}

	_, err = dbClient.Execute(QueryCreatePolicy, policy.ID, policy.TenantID, policy.Name,
		string(policy.Type), policy.Enabled, policy.Priority, policy.Version, string(document))
	if err != nil {
		return fmt.Errorf("failed to save policy: %w", err)
	}

	logger.Debug("Policy saved", log.String(log.LoggerKeyPolicyID, policy.ID),
		log.Int("version", policy.Version))
	return nil
}

// Delete removes a policy.
func (s *PolicyStore) Delete(policyID string) error {
	dbClient, err := s.dbProvider.GetDBClient("identity")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	if _, err := dbClient.Execute(QueryDeletePolicy, policyID); err != nil {
		return fmt.Errorf("failed to delete policy: %w", err)
	}
	return nil
}

// buildPolicyFromRow deserializes the policy document from a result row.
func buildPolicyFromRow(row map[string]interface{}) (*model.JourneyPolicy, error) {
	document, ok := row["document"]
	if !ok {
		return nil, fmt.Errorf("policy document not found in result row")
	}

	var raw []byte
	switch value := document.(type) {
	case string:
		raw = []byte(value)
	case []byte:
		raw = value
	default:
		return nil, fmt.Errorf("unexpected type for policy document: %T", document)
	}

	var policy model.JourneyPolicy
	if err := json.Unmarshal(raw, &policy); err != nil {
		return nil, fmt.Errorf("failed to deserialize policy: %w", err)
	}
	return &policy, nil
}

// buildPoliciesFromRows deserializes a list of policy documents.
func buildPoliciesFromRows(rows []map[string]interface{}) ([]model.JourneyPolicy, error) {
	policies := make([]model.JourneyPolicy, 0, len(rows))
	for _, row := range rows {
		policy, err := buildPolicyFromRow(row)
		if err != nil {
			return nil, err
		}
		policies = append(policies, *policy)
	}
	return policies, nil
}
