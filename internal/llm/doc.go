// Package llm provides the language model collaborator used to extract product
// names from trend articles and to rate product opportunities. It supports the
// Anthropic and OpenAI APIs with retry logic, rate limiting, and response caching.
package llm
