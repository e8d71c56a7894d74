// Package openrouter provides an implementation of the provider.Client
// interface on top of OpenRouter's OpenAI-compatible chat completions API.
//
// OpenRouter fronts the same Gemini models the direct adapter uses, which
// makes it the engine's failover backend: same prompts, same models,
// different credential pool and rate-limit domain. The adapter translates
// chat completion responses into the application's request types and maps
// HTTP failures onto the provider error taxonomy.
//
// Retry and failover live in the resilience package; this adapter makes
// exactly one API call per request and reports what happened.
package openrouter
