// Package registry holds the tables that connect TypeScript library names to
// their C# counterparts: generic collections, typed buffers, builtin calls,
// framework attributes and framework virtual methods.
//
// The default tables live in godot.go; tests can build isolated registries.
package registry

import (
	"sync"
)

// CollectionInfo describes how a TypeScript generic collection maps to C#.
type CollectionInfo struct {
	Name      string // TypeScript name: "Map"
	Target    string // C# name: "Dictionary"
	Namespace string // C# namespace: "System.Collections.Generic"
	// FrameworkTarget replaces Target under the framework-array strategy,
	// always printed namespace-qualified with FrameworkNamespace.
	FrameworkTarget    string
	FrameworkNamespace string
	// PadObject appends an object type argument (WeakSet<T> -> ConditionalWeakTable<T, object>).
	PadObject bool
}

// CallInfo describes the lowering of a well-known call such as console.log.
type CallInfo struct {
	Receiver  string // "GD"
	Method    string // "Print"
	Namespace string // "Godot"
}

// Registry manages the lookup tables.
//
// Thread-safe: all methods can be called concurrently.
type Registry struct {
	mu sync.RWMutex

	collections map[string]*CollectionInfo
	buffers     map[string]string
	calls       map[string]CallInfo
	attributes  map[string]string
	virtuals    map[string]bool

	attributeNamespace string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		collections: make(map[string]*CollectionInfo),
		buffers:     make(map[string]string),
		calls:       make(map[string]CallInfo),
		attributes:  make(map[string]string),
		virtuals:    make(map[string]bool),
	}
}

// RegisterCollection adds a generic collection mapping.
func (r *Registry) RegisterCollection(info CollectionInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	infoCopy := info
	r.collections[info.Name] = &infoCopy
}

// Collection looks up a generic collection by TypeScript name.
func (r *Registry) Collection(name string) (*CollectionInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.collections[name]
	return info, ok
}

// RegisterTypedBuffer maps a typed array name to its C# element keyword type.
func (r *Registry) RegisterTypedBuffer(name, elem string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.buffers[name] = elem
}

// TypedBuffer returns the element type of a typed array name.
func (r *Registry) TypedBuffer(name string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	elem, ok := r.buffers[name]
	return elem, ok
}

// RegisterCall maps a dotted callee ("console.log") to a C# call target.
func (r *Registry) RegisterCall(callee string, info CallInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls[callee] = info
}

// Call looks up the lowering of a dotted callee.
func (r *Registry) Call(callee string) (CallInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.calls[callee]
	return info, ok
}

// RegisterAttribute maps a decorator name to a framework attribute.
func (r *Registry) RegisterAttribute(decorator, attribute string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attributes[decorator] = attribute
}

// Attribute returns the framework attribute for a decorator name.
func (r *Registry) Attribute(decorator string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.attributes[decorator]
	return a, ok
}

// SetAttributeNamespace sets the namespace that registered attributes live in.
func (r *Registry) SetAttributeNamespace(ns string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attributeNamespace = ns
}

// AttributeNamespace returns the namespace of registered attributes.
func (r *Registry) AttributeNamespace() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.attributeNamespace
}

// RegisterVirtual marks a method name as a framework virtual that must be overridden.
func (r *Registry) RegisterVirtual(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.virtuals[name] = true
}

// IsVirtual reports whether a TypeScript method name is a framework virtual.
func (r *Registry) IsVirtual(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.virtuals[name]
}
