// Package access models who is making a request and what they may do.
//
// A Principal is resolved once per request (by a Resolver) and carried in the request
// context. Components ask it for capabilities instead of consulting global state:
//
//	p := access.FromContext(r.Context())
//	if p.Has(access.Administer) { ... }
//
// Resolvers:
//   - Static: every request gets the same principal (tests, local development).
//   - JWTResolver: reads a signed session cookie (github.com/golang-jwt/jwt/v5).
//
// Accounts is a small bcrypt-backed credential table for demos and tooling.
package access
