// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package provider

import "context"

// UnlimitedUsages marks a managed service with no usage limit.
const UnlimitedUsages = 0

// ManagedService identifies a shared, registry-tracked service
// instance: named, typed, parameterized, and bounded by a usage
// limit that the registry enforces. Two providers referring to the
// same service share one ManagedService instance; the codec
// preserves that sharing across a serialization round trip.
type ManagedService struct {
	// Name is the registry key. One instance exists per name.
	Name string

	// ImplementationType names the component implementing the
	// service.
	ImplementationType TypeRef

	// Parameters configures the service. Serialized through the
	// fallback value codec; must be representable there.
	Parameters any

	// MaxUsages bounds concurrent use of the service across the
	// build. UnlimitedUsages (0) means no limit.
	MaxUsages int
}

// ServiceProvider is the provider form of a managed service
// reference. It resolves as Changing: the reference, not the service
// instance, is what gets serialized.
type ServiceProvider struct {
	service *ManagedService
}

// NewServiceProvider wraps a managed service reference.
func NewServiceProvider(service *ManagedService) *ServiceProvider {
	return &ServiceProvider{service: service}
}

// Service returns the underlying managed service reference.
func (p *ServiceProvider) Service() *ManagedService {
	return p.service
}

// Get returns the service handle itself.
func (p *ServiceProvider) Get(context.Context) (any, bool, error) {
	return p.service, true, nil
}

// ChangingValue returns the underlying service reference: a managed
// service is shared state and serializes as a reference.
func (p *ServiceProvider) ChangingValue() any {
	return p.service
}
