// Package gemini provides an implementation of the generation.Invoker
// interface backed by Google's Gemini API.
//
// This package is an infrastructure adapter: it translates generation.Request
// values into genai contents and configs, calls the model once, and maps the
// answer (or failure) back into generation.Response and the generation error
// set. Structured requests are sent with a JSON response MIME type and a
// genai.Schema converted from the request's schema.Schema; the JSON in the
// answer is located with gjson, which tolerates markdown code fences.
//
// There is no retry or backoff here. Callers decide what a failure means.
package gemini
