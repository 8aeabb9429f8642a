// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentStore: document and chunk persistence
//   - RelationalStore: warehouse query execution and schema introspection
//   - Normaliser: transforms raw documents into extracted text
//   - PostProcessor: produces chunks from extracted text
//   - EmbeddingService: generates vectors for chunks and queries
//   - VectorIndex: similarity search over chunk vectors
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
// These can be nil - the router degrades gracefully:
//
//   - LLMService: SQL translation and answer drafting. Without it, answers
//     fall back to mechanical renderings of rows and chunks.
//   - WebSearcher: external search. Without it, WEB-routed queries return
//     a degraded response.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
