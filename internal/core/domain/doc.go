// Package domain contains the core business entities for the Atlas client:
// sessions, conversations, messages, documents and their tracking statuses.
// Domain types have no dependencies on adapters or external services.
package domain
