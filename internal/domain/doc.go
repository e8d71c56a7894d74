// Package domain contains the core business entities, value objects, and
// domain logic of the generation engine. It represents the heart of the
// system, independent of any specific provider backend, storage layer, or
// delivery mechanism.
package domain
