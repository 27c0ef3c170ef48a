// Package graphql is a small GraphQL-over-HTTP client.
//
// Requests are POSTed as {"query", "variables"} JSON. A response carrying an
// "errors" array becomes a *ServerError; anything that prevents a decodable
// envelope from arriving (dial failures, timeouts, non-JSON bodies, HTTP
// errors without a GraphQL payload) becomes a *NetworkError.
//
// Every request carries an X-Request-ID header. When the context holds a
// trace id (see internal/logging) that id is reused so server logs and client
// logs line up; otherwise a fresh ULID is generated.
package graphql
