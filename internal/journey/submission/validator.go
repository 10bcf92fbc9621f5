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
	"context"
	"fmt"

	"github.com/meridianid/meridian/internal/journey/constants"
	"github.com/meridianid/meridian/internal/journey/model"
	"github.com/meridianid/meridian/internal/system/log"
	"github.com/meridianid/meridian/internal/system/utils"
)

// DuplicateSubmissionValidator blocks the final step of a data-collection
// journey when an earlier submission already carries the same value in any of
// the policy's duplicate-check fields.
type DuplicateSubmissionValidator struct {
	store  StoreInterface
	policy *model.JourneyPolicy
}

var _ model.PreCompletionValidator = (*DuplicateSubmissionValidator)(nil)

// NewDuplicateSubmissionValidator creates a validator bound to a policy.
func NewDuplicateSubmissionValidator(store StoreInterface,
	policy *model.JourneyPolicy) *DuplicateSubmissionValidator {
	return &DuplicateSubmissionValidator{store: store, policy: policy}
}

// Validate checks the journey data against existing submissions of the policy.
// Policies that allow duplicates or define no check fields always pass.
func (v *DuplicateSubmissionValidator) Validate(_ context.Context, journeyID, stepID string,
	data map[string]any) (*model.ValidationViolation, error) {
	if v.policy.AllowDuplicates || len(v.policy.DuplicateCheckFields) == 0 {
		return nil, nil
	}

	logger := log.GetLogger().With(
		log.String(log.LoggerKeyComponentName, "DuplicateSubmissionValidator"),
		log.String(log.LoggerKeyJourneyID, journeyID))

	for _, field := range v.policy.DuplicateCheckFields {
		value, ok := data[field]
		if !ok {
			continue
		}
		exists, err := v.store.ExistsByField(v.policy.ID, field, utils.AsString(value))
		if err != nil {
			return nil, err
		}
		if exists {
			logger.Debug("Duplicate submission rejected",
				log.String(log.LoggerKeyStepID, stepID),
				log.String("field", field))
			return &model.ValidationViolation{
				Code: constants.ResultErrorDuplicateSubmission,
				Description: fmt.Sprintf(
					"a submission with the same %s already exists", field),
			}, nil
		}
	}
	return nil, nil
}
