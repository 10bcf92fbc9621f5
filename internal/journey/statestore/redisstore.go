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
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/meridianid/meridian/internal/journey/constants"
	"github.com/meridianid/meridian/internal/journey/model"
	"github.com/meridianid/meridian/internal/system/config"
)

const redisKeyPrefix = "journey:state:"

// RedisStateStore keeps journey state in Redis so journeys survive process
// restarts and can be shared across instances.
type RedisStateStore struct {
	client redis.UniversalClient
}

var _ StateStoreInterface = (*RedisStateStore)(nil)

// NewRedisStateStore creates a Redis-backed state store from configuration.
func NewRedisStateStore(redisConfig config.RedisConfig) *RedisStateStore {
	client := redis.NewClient(&redis.Options{
		Addr:     redisConfig.Address,
		Password: redisConfig.Password,
		DB:       redisConfig.Database,
	})
	return &RedisStateStore{client: client}
}

// NewRedisStateStoreWithClient creates a Redis-backed state store around an
// existing client.
func NewRedisStateStoreWithClient(client redis.UniversalClient) *RedisStateStore {
	return &RedisStateStore{client: client}
}

// Get retrieves a journey state by ID. Returns nil when no entry exists.
func (s *RedisStateStore) Get(ctx context.Context, journeyID string) (
	*model.JourneyState, error) {
	raw, err := s.client.Get(ctx, redisKeyPrefix+journeyID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var state model.JourneyState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// Save stores a journey state with an expiry of the journey lifetime plus
// the retention period.
func (s *RedisStateStore) Save(ctx context.Context, state *model.JourneyState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, redisKeyPrefix+state.ID, raw, s.entryTTL(state)).Err()
}

// Delete removes a journey state. Deleting a missing entry is a no-op.
func (s *RedisStateStore) Delete(ctx context.Context, journeyID string) error {
	return s.client.Del(ctx, redisKeyPrefix+journeyID).Err()
}

func (s *RedisStateStore) entryTTL(state *model.JourneyState) time.Duration {
	if state.ExpiresAt.IsZero() {
		return constants.DefaultJourneyTTL + constants.StateRetentionPeriod
	}
	ttl := time.Until(state.ExpiresAt) + constants.StateRetentionPeriod
	if ttl <= 0 {
		ttl = constants.StateRetentionPeriod
	}
	return ttl
}
