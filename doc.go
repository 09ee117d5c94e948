// Package authgate implements a user-authentication backend: registration
// with email verification, credential login, JWT cookie sessions, password
// reset, and Google OAuth login, backed by a single users table.
//
// Token lifecycle:
//   - Opaque tokens (verification and reset) are minted from crypto/rand,
//     stored on the user record with an absolute expiry, and consumed with a
//     compare-and-swap update so each token is usable exactly once.
//   - Session tokens are stateless HS256 JWTs issued by TokenService with a
//     seven day expiry. There is no revocation store; logout clears the
//     client cookie.
//
// Flows are command handlers (Execute(ctx, msg) error) that depend on the
// narrow UserStore interface, so they can be wired against the bun-backed
// repository in production and an in-memory store in tests.
package authgate
