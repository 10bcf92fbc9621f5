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

// Package statestore provides persistence for in-flight journey state.
package statestore

import (
	"context"
	"sync"

	"github.com/meridianid/meridian/internal/journey/model"
	"github.com/meridianid/meridian/internal/system/config"
	"github.com/meridianid/meridian/internal/system/log"
)

// StateStoreInterface persists journey state between orchestrator invocations.
// Stores are passive key-value holders; the orchestrator owns all transitions.
// Concurrent writers are not coordinated: the last write wins.
type StateStoreInterface interface {
	Get(ctx context.Context, journeyID string) (*model.JourneyState, error)
	Save(ctx context.Context, state *model.JourneyState) error
	Delete(ctx context.Context, journeyID string) error
}

const (
	// StoreTypeInMemory selects the process-local state store.
	StoreTypeInMemory = "inmemory"
	// StoreTypeRedis selects the Redis-backed state store.
	StoreTypeRedis = "redis"
)

var (
	instance StateStoreInterface
	once     sync.Once
)

// GetStateStore returns the singleton state store selected by the runtime
// configuration. An unrecognized store type falls back to in-memory.
func GetStateStore() StateStoreInterface {
	once.Do(func() {
		storeConfig := config.GetMeridianRuntime().Config.Journey.StateStore
		switch storeConfig.Type {
		case StoreTypeRedis:
			instance = NewRedisStateStore(storeConfig.Redis)
		case StoreTypeInMemory, "":
			instance = NewInMemoryStateStore()
		default:
			log.GetLogger().Warn("Unknown state store type; using in-memory",
				log.String("type", storeConfig.Type))
			instance = NewInMemoryStateStore()
		}
	})
	return instance
}
