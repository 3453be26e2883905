// Package model defines the provider-agnostic abstractions and concrete
// helpers for interacting with language models inside scenario agents.
//
// Core goals:
//   - Unify streaming + non-streaming generation behind a single interface
//   - Reuse the conversation message shape (core.Message) for model input and output
//   - Normalize tool definitions and forced tool choice across vendors
//   - Facilitate deterministic mocking for tests (MockModel)
//
// Providers (OpenAI, Anthropic) implement Model in sub-packages so the user
// simulator and judge agents remain decoupled from vendor SDKs.
package model
