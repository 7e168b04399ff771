// Package generation defines the boundary between the flow orchestrator and
// external language-model services. It holds the Invoker interface, the
// request and response types exchanged across it, and the errors an Invoker
// implementation reports. The Gemini-backed implementation lives in
// internal/platform/gemini; tests use internal/mocks.MockInvoker.
package generation
