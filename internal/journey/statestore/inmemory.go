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

package statestore

import (
	"context"
	"encoding/json"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/meridianid/meridian/internal/journey/constants"
	"github.com/meridianid/meridian/internal/journey/model"
)

const cacheCleanupInterval = 5 * time.Minute

// InMemoryStateStore keeps journey state in a process-local cache. Entries
// outlive the journey expiry by the retention period so the orchestrator can
// still observe and report the Expired transition.
type InMemoryStateStore struct {
	cache *gocache.Cache
}

var _ StateStoreInterface = (*InMemoryStateStore)(nil)

// NewInMemoryStateStore creates an empty in-memory state store.
func NewInMemoryStateStore() *InMemoryStateStore {
	return &InMemoryStateStore{
		cache: gocache.New(constants.DefaultJourneyTTL+constants.StateRetentionPeriod,
			cacheCleanupInterval),
	}
}

// Get retrieves a journey state by ID. Returns nil when no entry exists.
func (s *InMemoryStateStore) Get(_ context.Context, journeyID string) (
	*model.JourneyState, error) {
	entry, found := s.cache.Get(journeyID)
	if !found {
		return nil, nil
	}
	raw, ok := entry.([]byte)
	if !ok {
		return nil, nil
	}
	var state model.JourneyState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Save stores a journey state keyed by its ID. The cache entry lives until
// the journey expiry plus the retention period.
func (s *InMemoryStateStore) Save(_ context.Context, state *model.JourneyState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	s.cache.Set(state.ID, raw, s.entryTTL(state))
	return nil
}

// Delete removes a journey state. Deleting a missing entry is a no-op.
func (s *InMemoryStateStore) Delete(_ context.Context, journeyID string) error {
	s.cache.Delete(journeyID)
	return nil
}

func (s *InMemoryStateStore) entryTTL(state *model.JourneyState) time.Duration {
	if state.ExpiresAt.IsZero() {
		return constants.DefaultJourneyTTL + constants.StateRetentionPeriod
	}
	ttl := time.Until(state.ExpiresAt) + constants.StateRetentionPeriod
	if ttl <= 0 {
		ttl = constants.StateRetentionPeriod
	}
	return ttl
}
