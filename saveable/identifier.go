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
	"fmt"
	"slices"
	"strings"
	"time"

	goset "github.com/deckarep/golang-set/v2"
	"github.com/flowchartsman/retry"
	"github.com/google/uuid"
	"go.uber.org/multierr"

	gerrors "github.com/tochemey/savekit/errors"
)

const (
	maxIdentifierAttempts = 16
	maxSuffixLength       = 32
)

// GenerateComponentKey returns <typeName>-<random suffix> absent from taken.
// taken is the key set of the registry receiving the component and may be nil.
func GenerateComponentKey(typeName string, length int, taken goset.Set[string]) (string, error) {
	return generate(typeName, length, taken)
}

// GenerateObjectIdentification returns <scene>-<name>-<random suffix> absent from taken.
// Uniqueness can only be checked against the identifiers the caller passes in.
func GenerateObjectIdentification(scene, name string, length int, taken goset.Set[string]) (string, error) {
	return generate(scene+"-"+name, length, taken)
}

func generate(prefix string, length int, taken goset.Set[string]) (string, error) {
	if length <= 0 || length > maxSuffixLength {
		return "", fmt.Errorf("identifier length=(%d) must be within [1, %d]", length, maxSuffixLength)
	}

	var identifier string
	retrier := retry.NewRetrier(maxIdentifierAttempts, time.Microsecond, 10*time.Microsecond)
	err := retrier.Run(func() error {
		candidate := prefix + "-" + randomSuffix(length)
		if taken != nil && taken.Contains(candidate) {
			return gerrors.NewErrIdentifierCollision(candidate)
		}
		identifier = candidate
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("prefix=(%s) %w: %w", prefix, gerrors.ErrIdentifierExhausted, err)
	}
	return identifier, nil
}

func randomSuffix(length int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:length]
}

// ValidateUnique reports every identifier appearing more than once
func ValidateUnique(ids []string) error {
	seen := goset.NewThreadUnsafeSetWithSize[string](len(ids))
	duplicates := goset.NewThreadUnsafeSet[string]()
	for _, id := range ids {
		if !seen.Add(id) {
			duplicates.Add(id)
		}
	}

	sorted := duplicates.ToSlice()
	slices.Sort(sorted)

	var err error
	for _, id := range sorted {
		err = multierr.Append(err, gerrors.NewErrIdentifierCollision(id))
	}
	return err
}

// ValidateRegistries reports composite identifiers shared by the given registries
func ValidateRegistries(registries ...*Saveable) error {
	var ids []string
	for _, registry := range registries {
		if registry == nil || !registry.HasIdentification() {
			continue
		}
		ids = append(ids, registry.Identifications()...)
	}
	return ValidateUnique(ids)
}
