// Package heap implements the Embla object memory model: a manual
// reference-counting allocator with deferred-release pools and
// copy-on-write mutation for the persistent collections.
//
// This package contains:
//   - NaN-boxed value representation with immediate scalars
//   - Object headers, type tags, and the allocation table
//   - Retain/release reference counting with corruption detection
//   - Deep finalizer dispatch
//   - Autorelease pool stack (LIFO, weak-backed)
//   - Canonical empty-collection singletons
//   - Copy-on-write assoc/append for maps and vectors
//
// The reader, evaluator, namespaces, and scheduler are collaborators that
// consume this package through the allocate/retain/release/autorelease and
// COW entry points; none of their machinery lives here.
package heap
