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

package submission

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/meridianid/meridian/internal/journey/constants"
	"github.com/meridianid/meridian/internal/journey/model"
	"github.com/meridianid/meridian/internal/system/database/provider"
	"github.com/meridianid/meridian/internal/system/log"
)

const loggerComponentName = "SubmissionStore"

// StoreInterface defines the persistence contract for journey submissions.
type StoreInterface interface {
	// Save persists a new submission.
	Save(submission *model.JourneySubmission) error
	// GetByID retrieves a submission by its ID. Returns nil when it does not exist.
	GetByID(submissionID string) (*model.JourneySubmission, error)
	// GetByPolicy lists the submissions of a policy, newest first.
	GetByPolicy(policyID string) ([]model.JourneySubmission, error)
	// CountByPolicy counts the submissions of a policy.
	CountByPolicy(policyID string) (int, error)
	// ExistsByField reports whether a submission of the policy already carries
	// the given value under a top-level data field.
	ExistsByField(policyID, field, value string) (bool, error)
	// UpdateStatus updates the review status of a submission.
	UpdateStatus(submissionID string, status constants.SubmissionStatus) error
}

// Store is the database-backed implementation of StoreInterface. Submissions
// live in the runtime database alongside other operational data.
type Store struct {
	dbProvider provider.DBProviderInterface
}

var _ StoreInterface = (*Store)(nil)

// NewStore creates a new database-backed submission store.
func NewStore() *Store {
	return &Store{
		dbProvider: provider.GetDBProvider(),
	}
}

// Save persists a new submission.
func (s *Store) Save(submission *model.JourneySubmission) error {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	data, err := json.Marshal(submission.Data)
	if err != nil {
		return fmt.Errorf("failed to serialize submission data: %w", err)
	}
	metadata, err := json.Marshal(submission.Metadata)
	if err != nil {
		return fmt.Errorf("failed to serialize submission metadata: %w", err)
	}

	createdAt := submission.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}

	_, err = dbClient.Execute(QueryCreateSubmission, submission.ID, submission.PolicyID,
		submission.PolicyName, submission.TenantID, submission.JourneyID, string(data),
		string(metadata), string(submission.Status), createdAt)
	if err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}

	logger.Debug("Submission saved", log.String("submissionId", submission.ID),
		log.String(log.LoggerKeyPolicyID, submission.PolicyID))
	return nil
}

// GetByID retrieves a submission by its ID.
func (s *Store) GetByID(submissionID string) (*model.JourneySubmission, error) {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(QueryGetSubmissionByID, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submission: %w", err)
	}
	if len(results) == 0 {
		return nil, nil
	}
	return buildSubmissionFromRow(results[0])
}

// GetByPolicy lists the submissions of a policy, newest first.
func (s *Store) GetByPolicy(policyID string) ([]model.JourneySubmission, error) {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return nil, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(QueryGetSubmissionsByPolicy, policyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}

	submissions := make([]model.JourneySubmission, 0, len(results))
	for _, row := range results {
		submission, err := buildSubmissionFromRow(row)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, *submission)
	}
	return submissions, nil
}

// CountByPolicy counts the submissions of a policy.
func (s *Store) CountByPolicy(policyID string) (int, error) {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return 0, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(QueryCountSubmissionsByPolicy, policyID)
	if err != nil {
		return 0, fmt.Errorf("failed to count submissions: %w", err)
	}
	return totalFromRows(results)
}

// ExistsByField reports whether a submission of the policy already carries
// the given value under a top-level data field.
func (s *Store) ExistsByField(policyID, field, value string) (bool, error) {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return false, fmt.Errorf("failed to get database client: %w", err)
	}

	results, err := dbClient.Query(QueryCountSubmissionsByField, policyID, field, value)
	if err != nil {
		return false, fmt.Errorf("failed to count submissions: %w", err)
	}
	total, err := totalFromRows(results)
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

// UpdateStatus updates the review status of a submission.
func (s *Store) UpdateStatus(submissionID string, status constants.SubmissionStatus) error {
	dbClient, err := s.dbProvider.GetDBClient("runtime")
	if err != nil {
		return fmt.Errorf("failed to get database client: %w", err)
	}

	if _, err := dbClient.Execute(QueryUpdateSubmissionStatus, submissionID,
		string(status)); err != nil {
		return fmt.Errorf("failed to update submission status: %w", err)
	}
	return nil
}

func buildSubmissionFromRow(row map[string]interface{}) (*model.JourneySubmission, error) {
	submission := model.JourneySubmission{
		ID:         asString(row["submission_id"]),
		PolicyID:   asString(row["policy_id"]),
		PolicyName: asString(row["policy_name"]),
		TenantID:   asString(row["tenant_id"]),
		JourneyID:  asString(row["journey_id"]),
		Status:     constants.SubmissionStatus(asString(row["status"])),
	}

	if raw := asBytes(row["data"]); raw != nil {
		if err := json.Unmarshal(raw, &submission.Data); err != nil {
			return nil, fmt.Errorf("failed to deserialize submission data: %w", err)
		}
	}
	if raw := asBytes(row["metadata"]); raw != nil {
		if err := json.Unmarshal(raw, &submission.Metadata); err != nil {
			return nil, fmt.Errorf("failed to deserialize submission metadata: %w", err)
		}
	}
	if createdAt, ok := row["created_at"].(time.Time); ok {
		submission.CreatedAt = createdAt
	}
	return &submission, nil
}

func totalFromRows(rows []map[string]interface{}) (int, error) {
	if len(rows) == 0 {
		return 0, fmt.Errorf("count query returned no rows")
	}
	switch value := rows[0]["total"].(type) {
	case int64:
		return int(value), nil
	case int:
		return value, nil
	case float64:
		return int(value), nil
	case []byte:
		var total int
		if _, err := fmt.Sscanf(string(value), "%d", &total); err != nil {
			return 0, fmt.Errorf("unexpected count value: %s", value)
		}
		return total, nil
	default:
		return 0, fmt.Errorf("unexpected type for count value: %T", value)
	}
}

func asString(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

func asBytes(value interface{}) []byte {
	switch v := value.(type) {
	case []byte:
		return v
	case string:
		return []byte(v)
	default:
		return nil
	}
}
