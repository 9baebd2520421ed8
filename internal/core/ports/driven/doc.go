// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Backend: the knowledge-base assistant HTTP API
//   - IdentityProvider: third-party sign-in (Google OAuth)
//   - ConfigStore: application configuration (persisted scope lives here)
//   - SessionStore: backend session persistence across CLI invocations
//
// # Optional Interfaces
//
//   - ConversationCache: local sidebar cache. Nil disables caching; every
//     sidebar render then hits the backend.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
