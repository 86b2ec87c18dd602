// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package saveable

import (
	"strings"
	"testing"

	goset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gerrors "github.com/tochemey/savekit/errors"
)

func TestGenerateComponentKey(t *testing.T) {
	taken := goset.NewThreadUnsafeSet[string]()
	for range 50 {
		key, err := GenerateComponentKey("Crop", 6, taken)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(key, "Crop-"))
		require.Len(t, key, len("Crop-")+6)
		require.True(t, taken.Add(key))
	}

	key, err := GenerateComponentKey("Crop", 4, nil)
	require.NoError(t, err)
	assert.Len(t, key, len("Crop-")+4)
}

func TestGenerateComponentKeyExhausted(t *testing.T) {
	taken := goset.NewThreadUnsafeSet[string]()
	for _, c := range "0123456789abcdef" {
		taken.Add("Crop-" + string(c))
	}
	_, err := GenerateComponentKey("Crop", 1, taken)
	require.ErrorIs(t, err, gerrors.ErrIdentifierExhausted)
}

func TestGenerateInvalidLength(t *testing.T) {
	_, err := GenerateComponentKey("Crop", 0, nil)
	require.Error(t, err)
	_, err = GenerateObjectIdentification("Farm", "Cow", 33, nil)
	require.Error(t, err)
}

func TestGenerateObjectIdentification(t *testing.T) {
	id, err := GenerateObjectIdentification("Farm", "Cow", 5, nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "Farm-Cow-"))
	assert.Len(t, id, len("Farm-Cow-")+5)
}

func TestValidateUnique(t *testing.T) {
	require.NoError(t, ValidateUnique([]string{"a-1", "a-2", "b-1"}))
	require.NoError(t, ValidateUnique(nil))

	err := ValidateUnique([]string{"a-1", "b-1", "a-1", "b-1", "a-1"})
	require.ErrorIs(t, err, gerrors.ErrIdentifierCollision)
	assert.Contains(t, err.Error(), "identifier=(a-1)")
	assert.Contains(t, err.Error(), "identifier=(b-1)")
}

func TestValidateRegistries(t *testing.T) {
	first := New("Hero", WithParticipant("HP", &counter{}))
	second := New("Hero", WithParticipant("HP", &counter{}))
	inert := New("", WithParticipant("HP", &counter{}))
	third := New("Villain", WithParticipant("HP", &counter{}))

	require.NoError(t, ValidateRegistries(first, inert, third, nil))
	require.ErrorIs(t, ValidateRegistries(first, second), gerrors.ErrIdentifierCollision)
}
