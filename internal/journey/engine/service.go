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

package engine

import (
	"sync"

	"github.com/meridianid/meridian/internal/journey/condition"
	"github.com/meridianid/meridian/internal/journey/policy"
	"github.com/meridianid/meridian/internal/journey/registry"
	"github.com/meridianid/meridian/internal/journey/statestore"
	"github.com/meridianid/meridian/internal/journey/submission"
	"github.com/meridianid/meridian/internal/system/config"
)

var (
	instance *Orchestrator
	once     sync.Once
)

// GetJourneyService returns the singleton orchestrator wired from the runtime
// configuration. Submission persistence is attached only when enabled.
func GetJourneyService() OrchestratorInterface {
	once.Do(func() {
		var submissions submission.StoreInterface
		if config.GetMeridianRuntime().Config.Submission.Enabled {
			submissions = submission.NewStore()
		}
		instance = NewOrchestrator(
			policy.GetMgtService(),
			statestore.GetStateStore(),
			registry.GetRegistry(),
			condition.GetEvaluator(),
			submissions,
		)
	})
	return instance
}
