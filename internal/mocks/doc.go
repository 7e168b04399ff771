// Package mocks provides centralized mock implementations for testing.
//
// Instead of defining inline fakes in individual test files, tests import the
// mocks here so the behavior of a fake model or run journal stays consistent
// across packages.
//
// Usage:
//
//	import "github.com/phrazzld/nutri-api/internal/mocks"
//
//	func TestSomething(t *testing.T) {
//	    invoker := mocks.NewMockInvokerWithStructured(map[string]any{"insight": "ok"})
//
//	    // Use the mock in your test, then inspect invoker.CallCount()...
//	}
package mocks
