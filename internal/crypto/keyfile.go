// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/argon2"

	"github.com/MKhiriev/go-claim-vault/models"
)

const keyFileVersion = 1

var (
	ErrWrongPassphrase    = errors.New("wrong passphrase or corrupted key file")
	ErrUnsupportedKeyFile = errors.New("unsupported key file")
	ErrSignerMismatch     = errors.New("key file signer does not match its key")
	ErrInvalidSigningKey  = errors.New("invalid ed25519 private key")
)

// KeyFile is the on-disk form of a sealed signer key. Byte slices are
// base64 in JSON.
type KeyFile struct {
	Version int    `json:"version"`
	Signer  string `json:"signer"`
	Salt    []byte `json:"salt"`
	Sealed  []byte `json:"sealed"`
}

type keyStore struct {
	argonTime    uint32
	argonMemory  uint32
	argonThreads uint8
	argonKeyLen  uint32
}

// NewKeyStore uses the OWASP Argon2id profile: one pass over 64 MiB with
// four lanes, 32-byte key.
func NewKeyStore() KeyStore {
	return &keyStore{
		argonTime:    1,
		argonMemory:  64 * 1024,
		argonThreads: 4,
		argonKeyLen:  32,
	}
}

func (k *keyStore) deriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, k.argonTime, k.argonMemory, k.argonThreads, k.argonKeyLen)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}

func (k *keyStore) Seal(key ed25519.PrivateKey, passphrase string) (*KeyFile, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, ErrInvalidSigningKey
	}

	signer, err := models.IdentityFromBytes(key.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}

	salt := make([]byte, 16)
	if _, err = io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	gcm, err := newGCM(k.deriveKey(passphrase, salt))
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	// the signer is authenticated data, so swapping it breaks Open
	sealed := gcm.Seal(nil, nonce, key.Seed(), []byte(signer.String()))

	return &KeyFile{
		Version: keyFileVersion,
		Signer:  signer.String(),
		Salt:    salt,
		Sealed:  append(nonce, sealed...),
	}, nil
}

func (k *keyStore) Open(file *KeyFile, passphrase string) (ed25519.PrivateKey, error) {
	if file == nil || file.Version != keyFileVersion {
		return nil, ErrUnsupportedKeyFile
	}

	gcm, err := newGCM(k.deriveKey(passphrase, file.Salt))
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(file.Sealed) < nonceSize {
		return nil, ErrWrongPassphrase
	}
	nonce, ciphertext := file.Sealed[:nonceSize], file.Sealed[nonceSize:]

	seed, err := gcm.Open(nil, nonce, ciphertext, []byte(file.Signer))
	if err != nil || len(seed) != ed25519.SeedSize {
		return nil, ErrWrongPassphrase
	}

	key := ed25519.NewKeyFromSeed(seed)
	signer, err := models.IdentityFromBytes(key.Public().(ed25519.PublicKey))
	if err != nil {
		return nil, err
	}
	if signer.String() != file.Signer {
		return nil, ErrSignerMismatch
	}
	return key, nil
}

// WriteKeyFile refuses to overwrite an existing file.
func WriteKeyFile(path string, file *KeyFile) error {
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal key file: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("create key file: %w", err)
	}
	if _, err = f.Write(append(data, '\n')); err != nil {
		_ = f.Close()
		return fmt.Errorf("write key file: %w", err)
	}
	return f.Close()
}

func ReadKeyFile(path string) (*KeyFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}

	var file KeyFile
	if err = json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedKeyFile, err)
	}
	return &file, nil
}
