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

package registry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/meridianid/meridian/internal/journey/model"
)

type stubHandler struct {
	stepType string
}

func (h *stubHandler) StepType() string {
	return h.stepType
}

func (h *stubHandler) Execute(context.Context, *model.StepExecutionContext) (
	*model.StepHandlerResult, error) {
	return &model.StepHandlerResult{}, nil
}

type RegistryTestSuite struct {
	suite.Suite
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistryTestSuite))
}

func (suite *RegistryTestSuite) SetupTest() {
	suite.registry = NewRegistry()
}

func (suite *RegistryTestSuite) TestResolutionIsCaseInsensitive() {
	handler := &stubHandler{stepType: "Prompt"}
	suite.registry.Register(handler)

	assert.Same(suite.T(), handler, suite.registry.GetHandler("prompt"))
	assert.Same(suite.T(), handler, suite.registry.GetHandler("PROMPT"))
	assert.Same(suite.T(), handler, suite.registry.GetHandler(" prompt "))
}

func (suite *RegistryTestSuite) TestUnknownTypeResolvesToNil() {
	assert.Nil(suite.T(), suite.registry.GetHandler("mystery"))
}

func (suite *RegistryTestSuite) TestFirstRegistrationWins() {
	first := &stubHandler{stepType: "prompt"}
	second := &stubHandler{stepType: "prompt"}
	suite.registry.Register(first)
	suite.registry.Register(second)

	assert.Same(suite.T(), first, suite.registry.GetHandler("prompt"))
}

func (suite *RegistryTestSuite) TestSelfReportedTypeFallback() {
	handler := &stubHandler{stepType: "real_type"}
	suite.registry.RegisterAs("alias", handler)

	// Explicit registration serves the alias directly.
	assert.Same(suite.T(), handler, suite.registry.GetHandler("alias"))

	// The self-reported step type has no explicit entry but resolves through
	// the ordered scan.
	assert.Same(suite.T(), handler, suite.registry.GetHandler("real_type"))
}

func (suite *RegistryTestSuite) TestDynamicHandlersAreConsultedLast() {
	dynamic := &stubHandler{stepType: "plugin_step"}
	suite.registry.RegisterDynamic(dynamic)
	assert.Same(suite.T(), dynamic, suite.registry.GetHandler("plugin_step"))

	concrete := &stubHandler{stepType: "plugin_step"}
	suite.registry.RegisterAs("plugin_step", concrete)
	assert.Same(suite.T(), concrete, suite.registry.GetHandler("plugin_step"))
}

func (suite *RegistryTestSuite) TestResolutionIsDeterministic() {
	handler := &stubHandler{stepType: "prompt"}
	suite.registry.Register(handler)
	for i := 0; i < 10; i++ {
		assert.Same(suite.T(), handler, suite.registry.GetHandler("prompt"))
	}
}

func (suite *RegistryTestSuite) TestBuiltInTypeMetadata() {
	info, ok := suite.registry.GetTypeInfo(StepTypeRedirect)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), CategoryIntegration, info.Category)
	assert.NotEmpty(suite.T(), info.ConfigSchema)

	_, ok = suite.registry.GetTypeInfo("mystery")
	assert.False(suite.T(), ok)
}

func (suite *RegistryTestSuite) TestGetRegisteredTypesIncludesUnknownHandlers() {
	suite.registry.Register(&stubHandler{stepType: "bespoke"})

	types := suite.registry.GetRegisteredTypes()
	var found bool
	for _, info := range types {
		if info.Type == "bespoke" {
			found = true
		}
	}
	assert.True(suite.T(), found)
}
