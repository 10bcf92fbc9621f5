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

// Package submission provides persistence and validation for journey submissions.
package submission

import (
	"github.com/meridianid/meridian/internal/system/database/model"
)

var (
	// QueryCreateSubmission is the query to insert a journey submission.
	QueryCreateSubmission = model.DBQuery{
		ID: "JSQ-SUBMISSION-01",
		Query: "INSERT INTO JOURNEY_SUBMISSION (SUBMISSION_ID, POLICY_ID, POLICY_NAME, TENANT_ID, " +
			"JOURNEY_ID, DATA, METADATA, STATUS, CREATED_AT) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)",
	}

	// QueryGetSubmissionByID is the query to get a journey submission by its ID.
	QueryGetSubmissionByID = model.DBQuery{
		ID: "JSQ-SUBMISSION-02",
		Query: "SELECT SUBMISSION_ID, POLICY_ID, POLICY_NAME, TENANT_ID, JOURNEY_ID, DATA, METADATA, " +
			"STATUS, CREATED_AT FROM JOURNEY_SUBMISSION WHERE SUBMISSION_ID = $1",
	}

	// QueryGetSubmissionsByPolicy is the query to list the submissions of a policy,
	// newest first.
	QueryGetSubmissionsByPolicy = model.DBQuery{
		ID: "JSQ-SUBMISSION-03",
		Query: "SELECT SUBMISSION_ID, POLICY_ID, POLICY_NAME, TENANT_ID, JOURNEY_ID, DATA, METADATA, " +
			"STATUS, CREATED_AT FROM JOURNEY_SUBMISSION WHERE POLICY_ID = $1 ORDER BY CREATED_AT DESC",
	}

	// QueryCountSubmissionsByPolicy is the query to count the submissions of a policy.
	QueryCountSubmissionsByPolicy = model.DBQuery{
		ID:    "JSQ-SUBMISSION-04",
		Query: "SELECT COUNT(*) AS TOTAL FROM JOURNEY_SUBMISSION WHERE POLICY_ID = $1",
	}

	// QueryCountSubmissionsByField is the query to count the submissions of a policy
	// whose data carries the given value under a top-level field.
	QueryCountSubmissionsByField = model.DBQuery{
		ID: "JSQ-SUBMISSION-05",
		Query: "SELECT COUNT(*) AS TOTAL FROM JOURNEY_SUBMISSION WHERE POLICY_ID = $1 AND " +
			"DATA::jsonb ->> $2 = $3",
		SQLiteQuery: "SELECT COUNT(*) AS TOTAL FROM JOURNEY_SUBMISSION WHERE POLICY_ID = $1 AND " +
			"json_extract(DATA, '$.' || $2) = $3",
	}

	// QueryUpdateSubmissionStatus is the query to update the review status of a submission.
	QueryUpdateSubmissionStatus = model.DBQuery{
		ID:    "JSQ-SUBMISSION-06",
		Query: "UPDATE JOURNEY_SUBMISSION SET STATUS = $2 WHERE SUBMISSION_ID = $1",
	}
)
