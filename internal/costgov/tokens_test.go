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
package costgov

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTokenCounterReturnsSameInstance(t *testing.T) {
	a := GetTokenCounter()
	b := GetTokenCounter()
	assert.Same(t, a, b)
}

func TestCountGrowsWithLongerText(t *testing.T) {
	tc := GetTokenCounter()
	short := tc.Count("hello")
	long := tc.Count("hello, this is a considerably longer passage of text to encode")
	assert.Greater(t, long, short)
}

func TestCountAllSumsEachArgument(t *testing.T) {
	tc := GetTokenCounter()
	a := tc.Count("first string")
	b := tc.Count("second string here")
	assert.Equal(t, a+b, tc.CountAll("first string", "second string here"))
}

func TestCountEmptyStringIsZero(t *testing.T) {
	tc := GetTokenCounter()
	assert.Equal(t, 0, tc.Count(""))
}
