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

// Package condition provides the declarative condition evaluator used by the
// journey orchestration engine.
package condition

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/dop251/goja"

	"github.com/meridianid/meridian/internal/journey/constants"
	"github.com/meridianid/meridian/internal/journey/model"
	"github.com/meridianid/meridian/internal/system/log"
)

const loggerComponentName = "ConditionEvaluator"

var (
	instance *Evaluator
	once     sync.Once
)

// EvaluatorInterface defines the pluggable contract for condition evaluation.
type EvaluatorInterface interface {
	// EvaluateConditions returns true iff all conditions hold after applying
	// each condition's Negate flag. An empty condition list evaluates to true.
	EvaluateConditions(conditions []model.Condition, evalCtx *model.EvaluationContext) bool
}

// Evaluator is the default implementation of EvaluatorInterface.
type Evaluator struct{}

var _ EvaluatorInterface = (*Evaluator)(nil)

// GetEvaluator returns a singleton instance of the default condition evaluator.
func GetEvaluator() EvaluatorInterface {
	once.Do(func() {
		instance = &Evaluator{}
	})
	return instance
}

// EvaluateConditions evaluates all conditions with AND semantics.
func (e *Evaluator) EvaluateConditions(conditions []model.Condition, evalCtx *model.EvaluationContext) bool {
	for i := range conditions {
		result := e.evaluateCondition(&conditions[i], evalCtx)
		if conditions[i].Negate {
			result = !result
		}
		if !result {
			return false
		}
	}
	return true
}

// evaluateCondition evaluates a single condition without the negate flag applied.
func (e *Evaluator) evaluateCondition(cond *model.Condition, evalCtx *model.EvaluationContext) bool {
	if cond.Operator == constants.ConditionOperatorExpression {
		return e.evaluateExpression(cond.Value, evalCtx)
	}

	value, exists := resolveValue(cond, evalCtx)

	switch cond.Operator {
	case constants.ConditionOperatorExists:
		return exists
	case constants.ConditionOperatorNotExists:
		return !exists
	case constants.ConditionOperatorEquals:
		return exists && stringify(value) == cond.Value
	case constants.ConditionOperatorNotEquals:
		return !exists || stringify(value) != cond.Value
	case constants.ConditionOperatorContains:
		return exists && strings.Contains(stringify(value), cond.Value)
	case constants.ConditionOperatorGreaterThan:
		actual, expected, ok := numericPair(value, cond.Value)
		return exists && ok && actual > expected
	case constants.ConditionOperatorLessThan:
		actual, expected, ok := numericPair(value, cond.Value)
		return exists && ok && actual < expected
	case constants.ConditionOperatorRegex:
		if !exists {
			return false
		}
		matched, err := regexp.MatchString(cond.Value, stringify(value))
		if err != nil {
			log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName)).
				Warn("Invalid regex in condition", log.String("pattern", cond.Value), log.Error(err))
			return false
		}
		return matched
	default:
		log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName)).
			Warn("Unsupported condition operator", log.String("operator", string(cond.Operator)))
		return false
	}
}

// evaluateExpression evaluates a JavaScript expression against the journey data.
// The data map is bound to `$` and the context identifiers are available as
// `userId`, `tenantId` and `clientId`. A non-boolean result is truthy-converted.
func (e *Evaluator) evaluateExpression(expression string, evalCtx *model.EvaluationContext) bool {
	logger := log.GetLogger().With(log.String(log.LoggerKeyComponentName, loggerComponentName))
	if expression == "" {
		return false
	}

	data, err := json.Marshal(evalCtx.Data)
	if err != nil {
		logger.Error("Failed to serialize journey data for expression evaluation", log.Error(err))
		return false
	}

	vm := goja.New()
	script := fmt.Sprintf("var $ = %s;\n", data)
	if _, err := vm.RunString(script); err != nil {
		logger.Error("Failed to bind journey data for expression evaluation", log.Error(err))
		return false
	}
	if err := vm.Set("userId", evalCtx.UserID); err != nil {
		logger.Error("Failed to bind user ID for expression evaluation", log.Error(err))
		return false
	}
	if err := vm.Set("tenantId", evalCtx.TenantID); err != nil {
		logger.Error("Failed to bind tenant ID for expression evaluation", log.Error(err))
		return false
	}
	if err := vm.Set("clientId", evalCtx.ClientID); err != nil {
		logger.Error("Failed to bind client ID for expression evaluation", log.Error(err))
		return false
	}

	result, err := vm.RunString(expression)
	if err != nil {
		logger.Warn("Error evaluating condition expression", log.Error(err))
		return false
	}
	return result.ToBoolean()
}

// resolveValue resolves the condition's left-hand value from the evaluation context.
func resolveValue(cond *model.Condition, evalCtx *model.EvaluationContext) (any, bool) {
	switch cond.Source {
	case constants.ConditionSourceContext:
		switch cond.Key {
		case "userId":
			return evalCtx.UserID, evalCtx.UserID != ""
		case "tenantId":
			return evalCtx.TenantID, evalCtx.TenantID != ""
		case "clientId":
			return evalCtx.ClientID, evalCtx.ClientID != ""
		default:
			return nil, false
		}
	case constants.ConditionSourcePreviousStep:
		if cond.Key == "" {
			return nil, false
		}
		// Membership in the completed step set when the key names a step,
		// otherwise a lookup of the step's recorded output.
		for _, id := range completedSteps(evalCtx.Data) {
			if id == cond.Key {
				return id, true
			}
		}
		value, exists := evalCtx.Data[cond.Key]
		return value, exists
	default:
		if evalCtx.Data == nil {
			return nil, false
		}
		value, exists := evalCtx.Data[cond.Key]
		return value, exists && value != nil
	}
}

// completedSteps reads the completed step set from the journey data.
func completedSteps(data map[string]any) []string {
	if data == nil {
		return nil
	}
	switch value := data[constants.DataKeyCompletedSteps].(type) {
	case []string:
		return value
	case []any:
		steps := make([]string, 0, len(value))
		for _, v := range value {
			if id, ok := v.(string); ok {
				steps = append(steps, id)
			}
		}
		return steps
	default:
		return nil
	}
}

// stringify converts a resolved value to its string form for comparison.
func stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

// numericPair parses both sides of a numeric comparison.
func numericPair(value any, expected string) (float64, float64, bool) {
	var actual float64
	switch v := value.(type) {
	case int:
		actual = float64(v)
	case int64:
		actual = float64(v)
	case float64:
		actual = v
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, 0, false
		}
		actual = parsed
	default:
		return 0, 0, false
	}

	expectedValue, err := strconv.ParseFloat(expected, 64)
	if err != nil {
		return 0, 0, false
	}
	return actual, expectedValue, true
}
