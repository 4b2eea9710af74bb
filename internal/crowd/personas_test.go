// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package crowd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogLoadsTwentyArchetypes(t *testing.T) {
	require.Len(t, Catalog(), 20)
}

func TestBuildPersonasReturnsExactlyN(t *testing.T) {
	for _, n := range []int{0, 1, 20, 100} {
		personas := BuildPersonas(n)
		assert.Len(t, personas, n)
	}
}

func TestBuildPersonasCyclesCatalogAndAssignsStableIDs(t *testing.T) {
	personas := BuildPersonas(25)
	assert.Equal(t, "voter_0000", personas[0].VoterID)
	assert.Equal(t, "voter_0024", personas[24].VoterID)
	// 25 voters over a 20-entry catalog wraps back to the first archetype.
	assert.Equal(t, personas[0].Label, personas[20].Label)
}
