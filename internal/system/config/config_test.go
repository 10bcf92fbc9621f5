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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestLoadConfig() {
	content := `
server:
  hostname: "localhost"
  port: 8090

database:
  identity:
    type: "sqlite"
    path: "repository/database/meridiandb.db"
  runtime:
    type: "postgres"
    hostname: "localhost"
    port: 5432
    name: "runtimedb"
    username: "meridian"
    password: "secret"
    sslmode: "disable"

journey:
  state_ttl_minutes: 45
  default_step_timeout_seconds: 20
  state_store:
    type: "redis"
    redis:
      address: "localhost:6379"
      database: 2

submission:
  enabled: true
`
	path := filepath.Join(suite.T().TempDir(), "deployment.yaml")
	assert.NoError(suite.T(), os.WriteFile(path, []byte(content), 0600))

	cfg, err := LoadConfig(path)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "localhost", cfg.Server.Hostname)
	assert.Equal(suite.T(), 8090, cfg.Server.Port)
	assert.Equal(suite.T(), "sqlite", cfg.Database.Identity.Type)
	assert.Equal(suite.T(), "postgres", cfg.Database.Runtime.Type)
	assert.Equal(suite.T(), "runtimedb", cfg.Database.Runtime.Name)
	assert.Equal(suite.T(), 45, cfg.Journey.StateTTLMinutes)
	assert.Equal(suite.T(), 20, cfg.Journey.DefaultStepTimeoutSeconds)
	assert.Equal(suite.T(), "redis", cfg.Journey.StateStore.Type)
	assert.Equal(suite.T(), "localhost:6379", cfg.Journey.StateStore.Redis.Address)
	assert.Equal(suite.T(), 2, cfg.Journey.StateStore.Redis.Database)
	assert.True(suite.T(), cfg.Submission.Enabled)
}

func (suite *ConfigTestSuite) TestLoadConfigMissingFile() {
	cfg, err := LoadConfig(filepath.Join(suite.T().TempDir(), "absent.yaml"))

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), cfg)
}

func (suite *ConfigTestSuite) TestLoadConfigInvalidYAML() {
	path := filepath.Join(suite.T().TempDir(), "broken.yaml")
	assert.NoError(suite.T(), os.WriteFile(path, []byte("server: [not: valid"), 0600))

	cfg, err := LoadConfig(path)

	assert.Error(suite.T(), err)
	assert.Nil(suite.T(), cfg)
}

func (suite *ConfigTestSuite) TestRuntimeSingleton() {
	ResetMeridianRuntime()
	defer ResetMeridianRuntime()

	cfg := &Config{}
	cfg.Server.Hostname = "example.internal"
	assert.NoError(suite.T(), InitializeMeridianRuntime("/opt/meridian", cfg))

	runtime := GetMeridianRuntime()
	assert.Equal(suite.T(), "/opt/meridian", runtime.MeridianHome)
	assert.Equal(suite.T(), "example.internal", runtime.Config.Server.Hostname)
}
