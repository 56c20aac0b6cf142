// Package token decodes bearer credentials issued by the prediction backend.
//
// Credentials are JWTs. The client reads their claims to learn the
// signed-in identity but never verifies the signature; that guarantee
// belongs to the backend, which checks every request it receives.
//
// Helpers:
//
//   - Decode: credential -> typed, validated domain.Claims
//   - Fingerprint: short SHA-256 prefix safe to log in place of a credential
//   - IsDecodeError: distinguishes a malformed credential from invalid claims
package token
