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
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/meridianid/meridian/internal/journey/constants"
)

type RedisStateStoreTestSuite struct {
	suite.Suite
	redis *miniredis.Miniredis
	store *RedisStateStore
}

func TestRedisStateStoreSuite(t *testing.T) {
	suite.Run(t, new(RedisStateStoreTestSuite))
}

func (suite *RedisStateStoreTestSuite) SetupTest() {
	server, err := miniredis.Run()
	assert.NoError(suite.T(), err)
	suite.redis = server
	suite.store = NewRedisStateStoreWithClient(redis.NewClient(&redis.Options{
		Addr: server.Addr(),
	}))
}

func (suite *RedisStateStoreTestSuite) TearDownTest() {
	suite.redis.Close()
}

func (suite *RedisStateStoreTestSuite) TestSaveAndGet() {
	ctx := context.Background()
	state := testState("j1")

	assert.NoError(suite.T(), suite.store.Save(ctx, state))

	loaded, err := suite.store.Get(ctx, "j1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "signin", loaded.PolicyID)
	assert.Equal(suite.T(), constants.JourneyStatusInProgress, loaded.Status)
	assert.Equal(suite.T(), "openid", loaded.Data["scope"])
}

func (suite *RedisStateStoreTestSuite) TestMissingJourney() {
	loaded, err := suite.store.Get(context.Background(), "ghost")
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), loaded)
}

func (suite *RedisStateStoreTestSuite) TestEntryCarriesExpiry() {
	ctx := context.Background()
	assert.NoError(suite.T(), suite.store.Save(ctx, testState("j1")))

	ttl := suite.redis.TTL(redisKeyPrefix + "j1")
	assert.Greater(suite.T(), ttl, constants.DefaultJourneyTTL)
	assert.LessOrEqual(suite.T(), ttl,
		constants.DefaultJourneyTTL+constants.StateRetentionPeriod)
}

func (suite *RedisStateStoreTestSuite) TestEntryExpires() {
	ctx := context.Background()
	assert.NoError(suite.T(), suite.store.Save(ctx, testState("j1")))

	suite.redis.FastForward(constants.DefaultJourneyTTL + constants.StateRetentionPeriod +
		time.Minute)

	loaded, err := suite.store.Get(ctx, "j1")
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), loaded)
}

func (suite *RedisStateStoreTestSuite) TestDelete() {
	ctx := context.Background()
	assert.NoError(suite.T(), suite.store.Save(ctx, testState("j1")))
	assert.NoError(suite.T(), suite.store.Delete(ctx, "j1"))

	loaded, err := suite.store.Get(ctx, "j1")
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), loaded)
}
