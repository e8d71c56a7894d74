// Package provider defines the boundary between the generation engine and
// external AI backends. It abstracts the details of each backend's API
// behind text and image generation interfaces keyed by provider ref,
// allowing the engine to compose, route, retry, and fail over without
// coupling to any specific external service.
package provider
