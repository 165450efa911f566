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

// Default prompt templates. The TOML config can override either; these
// defaults keep the service runnable out of the box.
package workflow

// DefaultMomentsPrompt asks for the highlight intervals matching the
// caller's criteria. Times use the M:SS form the timecode parser expects.
const DefaultMomentsPrompt = `You are a professional baseball video analyst.
Watch the attached game footage and identify the highlight moments that match
all of the following criteria. A criterion marked "not specified" matches
everything.

Player: {{.PLAYER_NAME}}
Team: {{.TEAM_NAME}}
Play type: {{.GENRE}}

For each highlight, report the start and end of the play as timestamps in
M:SS format (minutes, then seconds; seconds may carry a decimal part). The
end of a play must always be after its start. Order the moments as they
occur in the video.

Respond with JSON only, using exactly this structure:
{{.EXAMPLE_JSON}}`

// DefaultCommentaryPrompt asks for play-by-play narration over the
// assembled reel.
const DefaultCommentaryPrompt = `You are an energetic baseball play-by-play
broadcaster. Watch the attached highlight reel and write short, exciting
commentary for it in the following language: {{.LANGUAGE}}.

Produce one line of commentary per play, with the time in seconds (from the
start of the reel) at which the line should be spoken. Keep each line under
twenty words.

Respond with JSON only: an array of objects, each with a "time_seconds"
number and a "text" string, like this:
{{.EXAMPLE_JSON}}`
