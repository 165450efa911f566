// Copyright 2024 Google, LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package services contains the business logic behind the HTTP surface.
// This file centralizes the BigQuery SQL used by the analytics service. The
// queries use fmt.Sprintf verbs as placeholders for the fully qualified
// runs-table name, which comes from configuration at runtime.
package services

const (
	// QryRecentRuns lists the most recent highlight runs, newest first.
	// Placeholders: table name, row limit.
	QryRecentRuns = "SELECT * FROM `%s` ORDER BY created_at DESC LIMIT %d"

	// QryRunTotal counts every persisted run.
	QryRunTotal = "SELECT '' AS label, COUNT(*) AS run_count FROM `%s`"

	// QryRunCountsByTeam aggregates run counts per requested team,
	// skipping rows where the caller left the team blank.
	QryRunCountsByTeam = "SELECT team_name AS label, COUNT(*) AS run_count FROM `%s` WHERE team_name != '' GROUP BY team_name ORDER BY run_count DESC"

	// QryRunCountsByPlayer aggregates run counts per requested player.
	QryRunCountsByPlayer = "SELECT player_name AS label, COUNT(*) AS run_count FROM `%s` WHERE player_name != '' GROUP BY player_name ORDER BY run_count DESC"

	// QryRunCountsByGenre aggregates run counts per requested play type.
	QryRunCountsByGenre = "SELECT genre AS label, COUNT(*) AS run_count FROM `%s` WHERE genre != '' GROUP BY genre ORDER BY run_count DESC"
)
