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

package metric

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// SaveMetric defines the save instrumentation
type SaveMetric struct {
	// Specifies the number of save fan-outs
	saveCount metric.Int64Counter
	// Specifies the number of load fan-outs
	loadCount metric.Int64Counter
	// Specifies the number of active slot changes
	slotChangeCount metric.Int64Counter
	// Specifies the number of failed disk writes
	writeFailureCount metric.Int64Counter
	// Specifies the duration of a disk write in milliseconds
	writeDuration metric.Int64Histogram
}

// NewSaveMetric creates an instance of SaveMetric
func NewSaveMetric(meter metric.Meter) (*SaveMetric, error) {
	saveMetric := new(SaveMetric)
	var err error
	if saveMetric.saveCount, err = meter.Int64Counter(
		"savekit_save_count",
		metric.WithDescription("Total number of save requests fanned out to the registries"),
	); err != nil {
		return nil, fmt.Errorf("failed to create saveCount instrument, %w", err)
	}

	if saveMetric.loadCount, err = meter.Int64Counter(
		"savekit_load_count",
		metric.WithDescription("Total number of load requests fanned out to the registries"),
	); err != nil {
		return nil, fmt.Errorf("failed to create loadCount instrument, %w", err)
	}

	if saveMetric.slotChangeCount, err = meter.Int64Counter(
		"savekit_slot_change_count",
		metric.WithDescription("Total number of active slot changes"),
	); err != nil {
		return nil, fmt.Errorf("failed to create slotChangeCount instrument, %w", err)
	}

	if saveMetric.writeFailureCount, err = meter.Int64Counter(
		"savekit_write_failure_count",
		metric.WithDescription("Total number of failed save file writes"),
	); err != nil {
		return nil, fmt.Errorf("failed to create writeFailureCount instrument, %w", err)
	}

	if saveMetric.writeDuration, err = meter.Int64Histogram(
		"savekit_write_duration",
		metric.WithDescription("The latency of writing a save file in milliseconds"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("failed to create writeDuration instrument, %w", err)
	}

	return saveMetric, nil
}

// RecordSave counts a save fan-out over registries
func (x *SaveMetric) RecordSave(ctx context.Context, slot, registries int) {
	x.saveCount.Add(ctx, 1, metric.WithAttributes(slotAttribute(slot), attribute.Int("registries", registries)))
}

// RecordLoad counts a load fan-out over registries
func (x *SaveMetric) RecordLoad(ctx context.Context, slot, registries int) {
	x.loadCount.Add(ctx, 1, metric.WithAttributes(slotAttribute(slot), attribute.Int("registries", registries)))
}

// RecordSlotChange counts an active slot change
func (x *SaveMetric) RecordSlotChange(ctx context.Context, slot int) {
	x.slotChangeCount.Add(ctx, 1, metric.WithAttributes(slotAttribute(slot)))
}

// RecordWrite records the duration of a save file write and counts it when it failed
func (x *SaveMetric) RecordWrite(ctx context.Context, slot int, elapsed time.Duration, err error) {
	x.writeDuration.Record(ctx, elapsed.Milliseconds(), metric.WithAttributes(slotAttribute(slot)))
	if err != nil {
		x.writeFailureCount.Add(ctx, 1, metric.WithAttributes(slotAttribute(slot)))
	}
}

func slotAttribute(slot int) attribute.KeyValue {
	return attribute.Int("slot", slot)
}
