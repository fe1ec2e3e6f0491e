package crypto

import "crypto/ed25519"

// KeyStore protects signer keys at rest.
//
// A key file holds the Ed25519 seed encrypted under a key derived from a
// passphrase with Argon2id. The public identity is stored in clear so a
// file can be matched to its signer without the passphrase.
type KeyStore interface {
	// Seal encrypts key under passphrase. Every call uses a fresh salt and
	// nonce, so sealing the same key twice gives different files.
	Seal(key ed25519.PrivateKey, passphrase string) (*KeyFile, error)

	// Open decrypts a file produced by Seal. A wrong passphrase or any
	// tampering with the file yields ErrWrongPassphrase.
	Open(file *KeyFile, passphrase string) (ed25519.PrivateKey, error)
}
