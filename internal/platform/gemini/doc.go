// Package gemini provides an implementation of the provider.Client interface
// that calls Google's Gemini API directly for text and image generation.
//
// This package is an infrastructure adapter in the hexagonal architecture,
// connecting the generation pipeline to Google's external Gemini AI service.
// It translates between the application's request types and the Gemini API
// without exposing the details of the external service to the core application.
//
// Key components:
//
// 1. Client:
//   - Implements the provider.Client interface
//   - Handles communication with the Gemini API for both modalities
//   - Processes structured responses into domain models
//
// 2. Response Processing:
//   - Parses structured JSON text responses from the API
//   - Extracts inline image payloads into data URLs
//   - Validates responses before handing them to the pipeline
//
// 3. Error Handling:
//   - Categorizes API errors into the provider error taxonomy so the
//     resilience layer can decide between retry, failover, and fail-fast
//   - Handles content filtering and safety blocks
//
// Retry and failover live in the resilience package; this adapter makes
// exactly one API call per request and reports what happened.
package gemini
