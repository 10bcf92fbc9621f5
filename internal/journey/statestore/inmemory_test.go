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

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/meridianid/meridian/internal/journey/constants"
	"github.com/meridianid/meridian/internal/journey/model"
)

type InMemoryStateStoreTestSuite struct {
	suite.Suite
	store *InMemoryStateStore
}

func TestInMemoryStateStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStateStoreTestSuite))
}

func (suite *InMemoryStateStoreTestSuite) SetupTest() {
	suite.store = NewInMemoryStateStore()
}

func testState(id string) *model.JourneyState {
	now := time.Now()
	return &model.JourneyState{
		ID:            id,
		TenantID:      "t1",
		PolicyID:      "signin",
		CurrentStepID: "local_login",
		Status:        constants.JourneyStatusInProgress,
		CreatedAt:     now,
		ExpiresAt:     now.Add(constants.DefaultJourneyTTL),
		Data:          map[string]any{"scope": "openid"},
	}
}

func (suite *InMemoryStateStoreTestSuite) TestSaveAndGet() {
	ctx := context.Background()
	state := testState("j1")

	assert.NoError(suite.T(), suite.store.Save(ctx, state))

	loaded, err := suite.store.Get(ctx, "j1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "signin", loaded.PolicyID)
	assert.Equal(suite.T(), "openid", loaded.Data["scope"])
	assert.WithinDuration(suite.T(), state.ExpiresAt, loaded.ExpiresAt, time.Second)
}

func (suite *InMemoryStateStoreTestSuite) TestGetReturnsCopy() {
	ctx := context.Background()
	assert.NoError(suite.T(), suite.store.Save(ctx, testState("j1")))

	first, err := suite.store.Get(ctx, "j1")
	assert.NoError(suite.T(), err)
	first.Data["mutated"] = true

	second, err := suite.store.Get(ctx, "j1")
	assert.NoError(suite.T(), err)
	assert.NotContains(suite.T(), second.Data, "mutated")
}

func (suite *InMemoryStateStoreTestSuite) TestMissingJourney() {
	loaded, err := suite.store.Get(context.Background(), "ghost")
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), loaded)
}

func (suite *InMemoryStateStoreTestSuite) TestLastWriteWins() {
	ctx := context.Background()
	state := testState("j1")
	assert.NoError(suite.T(), suite.store.Save(ctx, state))

	state.CurrentStepID = "consent"
	assert.NoError(suite.T(), suite.store.Save(ctx, state))

	loaded, err := suite.store.Get(ctx, "j1")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "consent", loaded.CurrentStepID)
}

func (suite *InMemoryStateStoreTestSuite) TestDelete() {
	ctx := context.Background()
	assert.NoError(suite.T(), suite.store.Save(ctx, testState("j1")))
	assert.NoError(suite.T(), suite.store.Delete(ctx, "j1"))

	loaded, err := suite.store.Get(ctx, "j1")
	assert.NoError(suite.T(), err)
	assert.Nil(suite.T(), loaded)

	// Deleting a missing entry is a no-op.
	assert.NoError(suite.T(), suite.store.Delete(ctx, "ghost"))
}

// Expired journeys stay readable during the retention window so the engine
// can still report the Expired transition.
func (suite *InMemoryStateStoreTestSuite) TestExpiredStateStaysReadable() {
	ctx := context.Background()
	state := testState("j1")
	state.ExpiresAt = time.Now().Add(-time.Minute)
	assert.NoError(suite.T(), suite.store.Save(ctx, state))

	loaded, err := suite.store.Get(ctx, "j1")
	assert.NoError(suite.T(), err)
	assert.NotNil(suite.T(), loaded)
}
