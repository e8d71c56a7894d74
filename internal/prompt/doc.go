// Package prompt composes provider prompts from a brand context, a model
// tier, and a content spec. Composition is pure and deterministic:
// identical inputs produce byte-identical prompts, with no clock,
// randomness, or I/O involved, so prompt output is reproducible across
// retries and providers.
package prompt
