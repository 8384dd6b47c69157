// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package provider

// The six typed property wrappers. Each carries the element type(s)
// declared in build configuration plus the deferred computation for
// its value. The declared types survive serialization even when the
// value is missing or broken.

// Property is a single-value property.
type Property struct {
	Type     TypeRef
	Provider Provider
}

// ListProperty is an ordered collection property.
type ListProperty struct {
	ElementType TypeRef
	Provider    Provider
}

// SetProperty is an unordered unique-element collection property.
type SetProperty struct {
	ElementType TypeRef
	Provider    Provider
}

// MapProperty is a key/value collection property.
type MapProperty struct {
	KeyType   TypeRef
	ValueType TypeRef
	Provider  Provider
}

// DirectoryProperty is a filesystem-location property resolving to a
// directory.
type DirectoryProperty struct {
	Type     TypeRef
	Provider Provider
}

// RegularFileProperty is a filesystem-location property resolving to
// a regular file.
type RegularFileProperty struct {
	Type     TypeRef
	Provider Provider
}

// PropertyFactory constructs property wrappers from recovered type
// metadata and a provider. The decode side of the property codecs
// goes through a factory so an embedding build system can substitute
// its own wrapper implementations.
type PropertyFactory interface {
	Scalar(t TypeRef, p Provider) *Property
	List(elementType TypeRef, p Provider) *ListProperty
	Set(elementType TypeRef, p Provider) *SetProperty
	Map(keyType, valueType TypeRef, p Provider) *MapProperty
	Directory(t TypeRef, p Provider) *DirectoryProperty
	RegularFile(t TypeRef, p Provider) *RegularFileProperty
}

// DefaultFactory constructs the plain wrapper types above.
type DefaultFactory struct{}

func (DefaultFactory) Scalar(t TypeRef, p Provider) *Property {
	return &Property{Type: t, Provider: p}
}

func (DefaultFactory) List(elementType TypeRef, p Provider) *ListProperty {
	return &ListProperty{ElementType: elementType, Provider: p}
}

func (DefaultFactory) Set(elementType TypeRef, p Provider) *SetProperty {
	return &SetProperty{ElementType: elementType, Provider: p}
}

func (DefaultFactory) Map(keyType, valueType TypeRef, p Provider) *MapProperty {
	return &MapProperty{KeyType: keyType, ValueType: valueType, Provider: p}
}

func (DefaultFactory) Directory(t TypeRef, p Provider) *DirectoryProperty {
	return &DirectoryProperty{Type: t, Provider: p}
}

func (DefaultFactory) RegularFile(t TypeRef, p Provider) *RegularFileProperty {
	return &RegularFileProperty{Type: t, Provider: p}
}
