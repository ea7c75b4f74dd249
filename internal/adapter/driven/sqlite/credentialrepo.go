package sqlite

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/qlbridge/qlbridge/internal/domain/model"
	"github.com/qlbridge/qlbridge/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.CredentialStore = (*CredentialRepo)(nil)

// CredentialRepo is the SQLite implementation of the CredentialStore port.
// The token is encrypted with AES-256-GCM before write and decrypted after
// read; the expiry timestamp is stored in the clear so a stale row can be
// recognized without decryption.
type CredentialRepo struct {
	db  *DB
	key []byte // 32-byte AES-256 key; nil disables the repo entirely.
}

// NewCredentialRepo creates a CredentialRepo. key must be 32 bytes for
// AES-256-GCM, or nil to disable persistence (all operations return
// driven.ErrEncryptionKeyNotSet).
func NewCredentialRepo(db *DB, key []byte) *CredentialRepo {
	return &CredentialRepo{db: db, key: key}
}

// Save stores or replaces the credential.
func (r *CredentialRepo) Save(ctx context.Context, cred model.Credential) error {
	encrypted, err := r.encrypt(cred.Token)
	if err != nil {
		return err
	}

	const query = `INSERT OR REPLACE INTO credential (id, token, expires_at, updated_at)
	               VALUES (1, ?, ?, CURRENT_TIMESTAMP)`
	if _, err := r.db.conn.ExecContext(ctx, query, encrypted, cred.ExpiresAt.Unix()); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

// Load retrieves the stored credential. Returns a zero Credential and nil
// error when nothing is stored.
func (r *CredentialRepo) Load(ctx context.Context) (model.Credential, error) {
	if r.key == nil {
		return model.Credential{}, driven.ErrEncryptionKeyNotSet
	}

	const query = `SELECT token, expires_at FROM credential WHERE id = 1`
	var encrypted string
	var expiresAt int64
	err := r.db.conn.QueryRowContext(ctx, query).Scan(&encrypted, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Credential{}, nil
	}
	if err != nil {
		return model.Credential{}, fmt.Errorf("load credential: %w", err)
	}

	token, err := r.decrypt(encrypted)
	if err != nil {
		return model.Credential{}, fmt.Errorf("decrypt credential: %w", err)
	}
	return model.Credential{Token: token, ExpiresAt: time.Unix(expiresAt, 0)}, nil
}

// Clear removes the stored credential.
func (r *CredentialRepo) Clear(ctx context.Context) error {
	const query = `DELETE FROM credential WHERE id = 1`
	if _, err := r.db.conn.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// encrypt encrypts plaintext using AES-256-GCM and returns a base64-encoded
// string containing the nonce (12 bytes) prepended to the ciphertext.
func (r *CredentialRepo) encrypt(plaintext string) (string, error) {
	if r.key == nil {
		return "", driven.ErrEncryptionKeyNotSet
	}

	block, err := aes.NewCipher(r.key)
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("cipher.NewGCM: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("rand nonce: %w", err)
	}

	// Seal appends the ciphertext to nonce, producing: nonce || ciphertext || tag.
	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt decrypts a base64-encoded AES-256-GCM ciphertext.
func (r *CredentialRepo) decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	block, err := aes.NewCipher(r.key)
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return "", fmt.Errorf("cipher.NewGCM: %w", err)
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", errors.New("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("gcm.Open: %w", err)
	}

	return string(plaintext), nil
}
