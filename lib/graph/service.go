// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package graph

import (
	"fmt"
	"sync"

	"github.com/bureau-foundation/confcache/lib/provider"
)

// ServiceRegistry is the managed-service collaborator. Register
// returns the service instance registered under name, creating it on
// first registration and returning the existing instance afterwards;
// the registry owns usage-limit enforcement. UsageLimit reports the
// current limit for a service at encode time.
type ServiceRegistry interface {
	Register(name string, implementationType provider.TypeRef, parameters any, maxUsages int) (*provider.ManagedService, error)
	UsageLimit(service *provider.ManagedService) int
}

// MemoryServiceRegistry is an in-process ServiceRegistry. One
// instance exists per name; a second registration under the same
// name with a different implementation type is rejected.
type MemoryServiceRegistry struct {
	mu       sync.Mutex
	services map[string]*provider.ManagedService
}

// NewMemoryServiceRegistry returns an empty registry.
func NewMemoryServiceRegistry() *MemoryServiceRegistry {
	return &MemoryServiceRegistry{services: make(map[string]*provider.ManagedService)}
}

func (r *MemoryServiceRegistry) Register(name string, implementationType provider.TypeRef, parameters any, maxUsages int) (*provider.ManagedService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.services[name]; ok {
		if existing.ImplementationType != implementationType {
			return nil, fmt.Errorf("service %q already registered with type %s (got %s)",
				name, existing.ImplementationType, implementationType)
		}
		return existing, nil
	}
	service := &provider.ManagedService{
		Name:               name,
		ImplementationType: implementationType,
		Parameters:         parameters,
		MaxUsages:          maxUsages,
	}
	r.services[name] = service
	return service, nil
}

func (r *MemoryServiceRegistry) UsageLimit(service *provider.ManagedService) int {
	return service.MaxUsages
}

// serviceReferenceCodec is variant ordinal 1: managed-service
// references, serialized as (name, implementation type, parameters,
// usage limit) under shared-identity preservation. Identity is keyed
// by the *ManagedService, so every occurrence of one service decodes
// to one registered instance and the registry's Register runs once
// per service per pass.
type serviceReferenceCodec struct {
	registry ServiceRegistry
}

func (c *serviceReferenceCodec) Recognizes(value any) bool {
	switch value.(type) {
	case *provider.ManagedService, *provider.ServiceProvider:
		return true
	default:
		return false
	}
}

func (c *serviceReferenceCodec) Encode(e *Encoder, value any) error {
	service, err := serviceOf(value)
	if err != nil {
		return err
	}
	return e.EncodeShared(service, func() error {
		if err := e.writer.String(service.Name); err != nil {
			return err
		}
		if err := e.writer.TypeRef(string(service.ImplementationType)); err != nil {
			return err
		}
		if err := e.WriteAny(service.Parameters); err != nil {
			return err
		}
		return e.writer.Int(int64(c.registry.UsageLimit(service)))
	})
}

func (c *serviceReferenceCodec) Decode(d *Decoder) (any, error) {
	instance, err := d.DecodeShared(func() (any, error) {
		name, err := d.reader.String()
		if err != nil {
			return nil, fmt.Errorf("read service name: %w", err)
		}
		implementationType, err := d.reader.TypeRef()
		if err != nil {
			return nil, fmt.Errorf("read service implementation type: %w", err)
		}
		parameters, err := d.ReadAny()
		if err != nil {
			return nil, fmt.Errorf("read service parameters: %w", err)
		}
		maxUsages, err := d.reader.Int()
		if err != nil {
			return nil, fmt.Errorf("read service usage limit: %w", err)
		}
		service, err := c.registry.Register(name, provider.TypeRef(implementationType), parameters, int(maxUsages))
		if err != nil {
			return nil, fmt.Errorf("register service %q: %w", name, err)
		}
		return provider.NewServiceProvider(service), nil
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func serviceOf(value any) (*provider.ManagedService, error) {
	switch v := value.(type) {
	case *provider.ServiceProvider:
		return v.Service(), nil
	case *provider.ManagedService:
		return v, nil
	default:
		return nil, fmt.Errorf("service reference codec: unexpected type %T", value)
	}
}
