// Package api handles incoming HTTP requests, request validation, and
// response formatting. It acts as an adapter between external clients and
// the generation engine, translating HTTP concerns to orchestrator and
// credit operations and mapping the engine's error taxonomy onto status
// codes.
package api
