// Package adaptive seals small secrets at rest.
//
// A Cipher is an AEAD picked for the host: AES-256-GCM where the CPU
// accelerates AES, ChaCha20-Poly1305 elsewhere. Sealed output is
// self-describing (algorithm tag, nonce, ciphertext) so a value written on
// one host opens on another holding the same key.
//
// Keys are 32 random bytes kept in a 0600 file and stretched per purpose
// with HKDF:
//
//	master, err := adaptive.LoadOrCreateKey(path)
//	key, err := adaptive.DeriveKey(master, "credential")
//	c, err := adaptive.New(key)
//	sealed, err := c.Seal(plaintext, aad)
package adaptive
