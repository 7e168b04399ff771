// Package api exposes the nutrition flows over HTTP. It decodes and
// validates requests, dispatches them to the flow registry, and maps flow
// and model errors to status codes and safe client messages.
package api
