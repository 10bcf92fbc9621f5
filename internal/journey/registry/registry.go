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

// Package registry provides the step handler registry for the journey
// orchestration engine.
package registry

import (
	"sort"
	"strings"
	"sync"

	"github.com/meridianid/meridian/internal/journey/model"
	"github.com/meridianid/meridian/internal/system/log"
)

const loggerComponentName = "StepHandlerRegistry"

var (
	instance *Registry
	once     sync.Once
)

// RegistryInterface defines the contract for step handler resolution.
// Resolution is case-insensitive and deterministic: the same step type string
// always resolves to the same handler within a process lifetime.
type RegistryInterface interface {
	// Register registers a handler under its self-reported step type.
	Register(handler model.StepHandlerInterface)
	// RegisterAs registers a handler under an explicit step type identifier.
	RegisterAs(stepType string, handler model.StepHandlerInterface)
	// RegisterDynamic registers a dynamically discovered handler, e.g. a
	// plugin-backed one. Dynamic handlers are consulted last during resolution.
	RegisterDynamic(handler model.StepHandlerInterface)
	// GetHandler resolves a handler for the given step type, or nil.
	GetHandler(stepType string) model.StepHandlerInterface
	// GetRegisteredTypes returns descriptive metadata for all known step types.
	GetRegisteredTypes() []model.StepTypeInfo
	// GetTypeInfo returns the metadata for a single step type, if known.
	GetTypeInfo(stepType string) (model.StepTypeInfo, bool)
}

// Registry is the implementation of RegistryInterface. It is effectively
// append-only: registration happens once at startup and entries are never
// replaced or removed afterwards.
type Registry struct {
	mu       sync.RWMutex
	explicit map[string]model.StepHandlerInterface
	ordered  []model.StepHandlerInterface
	dynamic  []model.StepHandlerInterface
	typeInfo map[string]model.StepTypeInfo
}

var _ RegistryInterface = (*Registry)(nil)

// GetRegistry returns the singleton step handler registry preloaded with the
// built-in step type metadata.
func GetRegistry() RegistryInterface {
	once.Do(func() {
		instance = NewRegistry()
	})
	return instance
}

// NewRegistry creates an empty registry preloaded with built-in step type metadata.
func NewRegistry() *Registry {
	r := &Registry{
		explicit: make(map[string]model.StepHandlerInterface),
		typeInfo: make(map[string]model.StepTypeInfo),
	}
	for _, info := range builtInStepTypes {
		r.typeInfo[normalize(info.Type)] = info
	}
	return r
}

// Register registers a handler under its self-reported step type.
func (r *Registry) Register(handler model.StepHandlerInterface) {
	r.RegisterAs(handler.StepType(), handler)
}

// RegisterAs registers a handler under an explicit step type identifier.
// The first registration for a type wins; later ones are ignored to keep
// resolution deterministic.
func (r *Registry) RegisterAs(stepType string, handler model.StepHandlerInterface) {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))

	r.mu.Lock()
	defer r.mu.Unlock()

	key := normalize(stepType)
	if _, exists := r.explicit[key]; exists {
		logger.Warn("Ignoring duplicate step handler registration", log.String(log.LoggerKeyStepType, stepType))
		return
	}
	r.explicit[key] = handler
	r.ordered = append(r.ordered, handler)
	logger.Debug("Registered step handler", log.String(log.LoggerKeyStepType, stepType))
}

// RegisterDynamic registers a dynamically discovered handler.
func (r *Registry) RegisterDynamic(handler model.StepHandlerInterface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dynamic = append(r.dynamic, handler)
}

// GetHandler resolves a handler for the given step type.
// Resolution order: explicit registration, then any registered handler whose
// self-reported step type matches case-insensitively, then dynamic handlers.
func (r *Registry) GetHandler(stepType string) model.StepHandlerInterface {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := normalize(stepType)
	if handler, ok := r.explicit[key]; ok {
		return handler
	}
	for _, handler := range r.ordered {
		if normalize(handler.StepType()) == key {
			return handler
		}
	}
	for _, handler := range r.dynamic {
		if normalize(handler.StepType()) == key {
			return handler
		}
	}
	return nil
}

// GetRegisteredTypes returns descriptive metadata for all known step types,
// sorted by type identifier for stable output.
func (r *Registry) GetRegisteredTypes() []model.StepTypeInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]model.StepTypeInfo, 0, len(r.typeInfo))
	seen := make(map[string]struct{}, len(r.typeInfo))
	for key, info := range r.typeInfo {
		infos = append(infos, info)
		seen[key] = struct{}{}
	}

	// Handlers registered without static metadata still get a minimal entry.
	for key, handler := range r.explicit {
		if _, ok := seen[key]; ok {
			continue
		}
		infos = append(infos, model.StepTypeInfo{
			Type:        handler.StepType(),
			DisplayName: handler.StepType(),
			Category:    CategoryCustom,
		})
		seen[key] = struct{}{}
	}
	for _, handler := range r.dynamic {
		key := normalize(handler.StepType())
		if _, ok := seen[key]; ok {
			continue
		}
		infos = append(infos, model.StepTypeInfo{
			Type:        handler.StepType(),
			DisplayName: handler.StepType(),
			Category:    CategoryCustom,
		})
		seen[key] = struct{}{}
	}

	sort.Slice(infos, func(i, j int) bool {
		return infos[i].Type < infos[j].Type
	})
	return infos
}

// GetTypeInfo returns the metadata for a single step type.
func (r *Registry) GetTypeInfo(stepType string) (model.StepTypeInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.typeInfo[normalize(stepType)]
	return info, ok
}

// normalize lowercases a step type identifier for case-insensitive lookup.
func normalize(stepType string) string {
	return strings.ToLower(strings.TrimSpace(stepType))
}
