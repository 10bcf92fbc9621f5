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

// Package store provides the implementation for journey policy persistence operations.
package store

import (
	"github.com/meridianid/meridian/internal/system/database/model"
)

var (
	// QueryCreatePolicy is the query to insert or replace a journey policy.
	QueryCreatePolicy = model.DBQuery{
		ID: "JPQ-POLICY-01",
		Query: "INSERT INTO JOURNEY_POLICY (POLICY_ID, TENANT_ID, NAME, TYPE, ENABLED, PRIORITY, " +
			"VERSION, DOCUMENT) VALUES ($1, $2, $3, $4, $5, $6, $7, $8) " +
			"ON CONFLICT (POLICY_ID) DO UPDATE SET TENANT_ID = $2, NAME = $3, TYPE = $4, " +
			"ENABLED = $5, PRIORITY = $6, VERSION = $7, DOCUMENT = $8, UPDATED_AT = CURRENT_TIMESTAMP",
	}

	// QueryGetPolicyByID is the query to get a journey policy by its ID.
	QueryGetPolicyByID = model.DBQuery{
		ID:    "JPQ-POLICY-02",
		Query: "SELECT DOCUMENT FROM JOURNEY_POLICY WHERE POLICY_ID = $1",
	}

	// QueryGetPoliciesByTenant is the query to get all journey policies of a tenant.
	QueryGetPoliciesByTenant = model.DBQuery{
		ID:    "JPQ-POLICY-03",
		Query: "SELECT DOCUMENT FROM JOURNEY_POLICY WHERE TENANT_ID = $1 ORDER BY PRIORITY DESC",
	}

	// QueryListEligiblePolicies is the query to get the enabled policies visible to a
	// tenant, i.e. tenant-scoped and global ones.
	QueryListEligiblePolicies = model.DBQuery{
		ID: "JPQ-POLICY-04",
		Query: "SELECT DOCUMENT FROM JOURNEY_POLICY WHERE ENABLED = TRUE AND " +
			"(TENANT_ID = $1 OR TENANT_ID = '') ORDER BY PRIORITY DESC",
	}

	// QueryDeletePolicy is the query to delete a journey policy.
	QueryDeletePolicy = model.DBQuery{
		ID:    "JPQ-POLICY-05",
		Query: "DELETE FROM JOURNEY_POLICY WHERE POLICY_ID = $1",
	}
)
