// Copyright 2026 © The Stratus Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"context"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// RequestMetrics tracks protocol traffic and skill dispatch for monitoring.
type RequestMetrics struct {
	// requestCounter tracks JSON-RPC requests by method
	requestCounter metric.Int64Counter

	// skillCounter tracks skill dispatches by skill name
	skillCounter metric.Int64Counter

	// errorCounter tracks JSON-RPC error responses by code
	errorCounter metric.Int64Counter
}

// NewRequestMetrics creates the metrics tracker with OTEL meters.
func NewRequestMetrics() (*RequestMetrics, error) {
	meter := otel.Meter("stratus/protocol")

	requestCounter, err := meter.Int64Counter(
		"stratus.requests.total",
		metric.WithDescription("JSON-RPC requests by method"),
	)
	if err != nil {
		return nil, err
	}

	skillCounter, err := meter.Int64Counter(
		"stratus.skills.total",
		metric.WithDescription("Skill dispatches by skill"),
	)
	if err != nil {
		return nil, err
	}

	errorCounter, err := meter.Int64Counter(
		"stratus.rpc_errors.total",
		metric.WithDescription("JSON-RPC error responses by code"),
	)
	if err != nil {
		return nil, err
	}

	return &RequestMetrics{
		requestCounter: requestCounter,
		skillCounter:   skillCounter,
		errorCounter:   errorCounter,
	}, nil
}

// RecordRequest counts one inbound request for a method.
func (m *RequestMetrics) RecordRequest(ctx context.Context, method string) {
	if m == nil {
		return
	}
	m.requestCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("rpc.method", method)),
	)
}

// RecordSkill counts one skill dispatch.
func (m *RequestMetrics) RecordSkill(ctx context.Context, skill string) {
	if m == nil {
		return
	}
	m.skillCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("skill", skill)),
	)
}

// RecordRPCError counts one JSON-RPC error response.
func (m *RequestMetrics) RecordRPCError(ctx context.Context, code int) {
	if m == nil {
		return
	}
	m.errorCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("rpc.code", strconv.Itoa(code))),
	)
}
