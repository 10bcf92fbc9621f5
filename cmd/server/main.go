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

// Package main is the entry point for starting the Meridian server.
package main

import (
	"flag"
	"os"
	"path"

	"github.com/meridianid/meridian/internal/journey/engine"
	"github.com/meridianid/meridian/internal/journey/registry"
	"github.com/meridianid/meridian/internal/stephandler/attributecollect"
	"github.com/meridianid/meridian/internal/stephandler/conditionstep"
	"github.com/meridianid/meridian/internal/stephandler/prompt"
	"github.com/meridianid/meridian/internal/stephandler/redirect"
	"github.com/meridianid/meridian/internal/system/config"
	"github.com/meridianid/meridian/internal/system/log"
)

func main() {
	logger := log.GetLogger()

	meridianHome := getMeridianHome(logger)

	cfg := initMeridianConfigurations(logger, meridianHome)
	if cfg == nil {
		logger.Fatal("Failed to initialize configurations")
	}

	registerStepHandlers()

	// Eagerly wire the orchestrator so configuration problems surface at
	// startup rather than on the first journey.
	engine.GetJourneyService()

	logger.Info("Meridian journey engine initialized",
		log.String("hostname", cfg.Server.Hostname),
		log.Int("port", cfg.Server.Port))
}

// getMeridianHome retrieves and returns the Meridian home directory.
func getMeridianHome(logger *log.Logger) string {
	projectHome := ""
	projectHomeFlag := flag.String("meridianHome", "", "Path to Meridian home directory")
	flag.Parse()

	if *projectHomeFlag != "" {
		logger.Info("Using meridianHome from command line argument",
			log.String("meridianHome", *projectHomeFlag))
		projectHome = *projectHomeFlag
	} else {
		dir, dirErr := os.Getwd()
		if dirErr != nil {
			logger.Fatal("Failed to get current working directory", log.Error(dirErr))
		}
		projectHome = dir
	}

	return projectHome
}

// initMeridianConfigurations initializes the Meridian configurations.
func initMeridianConfigurations(logger *log.Logger, meridianHome string) *config.Config {
	configFilePath := path.Join(meridianHome, "repository/conf/deployment.yaml")
	cfg, err := config.LoadConfig(configFilePath)
	if err != nil {
		logger.Fatal("Failed to load configurations", log.Error(err))
	}

	if err := config.InitializeMeridianRuntime(meridianHome, cfg); err != nil {
		logger.Fatal("Failed to initialize meridian runtime", log.Error(err))
	}

	return cfg
}

// registerStepHandlers registers the built-in step handlers. The registry is
// append-only after startup.
func registerStepHandlers() {
	handlerRegistry := registry.GetRegistry()
	handlerRegistry.Register(prompt.NewHandler())
	handlerRegistry.Register(conditionstep.NewHandler())
	handlerRegistry.Register(redirect.NewHandler())
	handlerRegistry.Register(attributecollect.NewHandler())
}
