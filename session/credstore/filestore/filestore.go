// Package filestore implements credstore.Repo on the local filesystem with
// the record encrypted at rest. A native client cannot rely on a browser's
// origin sandbox, so the credentials file is sealed with XChaCha20-Poly1305
// under a key derived from a caller-supplied passphrase.
package filestore

import (
	"crypto/rand"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"github.com/jrsteele09/go-storefront-client/session/credstore"
)

const (
	credentialsFile = "credentials.dat"
	saltLength      = 16

	// scrypt parameters (interactive profile)
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// Store is a file-backed credstore.Repo.
type Store struct {
	path       string
	passphrase []byte
}

var _ credstore.Repo = (*Store)(nil)

// New creates a Store writing to dataFolder/credentials.dat.
func New(dataFolder string, passphrase []byte) (*Store, error) {
	if len(passphrase) == 0 {
		return nil, errors.New("[filestore.New] passphrase is required")
	}
	if err := os.MkdirAll(dataFolder, 0o700); err != nil {
		return nil, errors.Wrap(err, "[filestore.New] create data folder")
	}
	return &Store{
		path:       filepath.Join(dataFolder, credentialsFile),
		passphrase: passphrase,
	}, nil
}

// Store seals and writes the credentials. The write goes to a temp file
// first and is renamed into place, so the record is replaced atomically.
func (s *Store) Store(creds *credstore.Credentials) error {
	plaintext, err := json.Marshal(creds)
	if err != nil {
		return errors.Wrap(err, "[Store.Store] marshal credentials")
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return errors.Wrap(err, "[Store.Store] generate salt")
	}

	aead, err := s.aead(salt)
	if err != nil {
		return err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return errors.Wrap(err, "[Store.Store] generate nonce")
	}

	sealed := aead.Seal(nil, nonce, plaintext, nil)

	record := make([]byte, 0, len(salt)+len(nonce)+len(sealed))
	record = append(record, salt...)
	record = append(record, nonce...)
	record = append(record, sealed...)

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, record, 0o600); err != nil {
		return errors.Wrap(err, "[Store.Store] write credentials file")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return errors.Wrap(err, "[Store.Store] replace credentials file")
	}
	return nil
}

// Load reads and opens the stored credentials.
func (s *Store) Load() (*credstore.Credentials, error) {
	record, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, credstore.ErrNoCredentials
		}
		return nil, errors.Wrap(err, "[Store.Load] read credentials file")
	}

	if len(record) < saltLength+chacha20poly1305.NonceSizeX {
		return nil, errors.New("[Store.Load] credentials file truncated")
	}

	salt := record[:saltLength]
	nonce := record[saltLength : saltLength+chacha20poly1305.NonceSizeX]
	sealed := record[saltLength+chacha20poly1305.NonceSizeX:]

	aead, err := s.aead(salt)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, errors.Wrap(err, "[Store.Load] open credentials")
	}

	var creds credstore.Credentials
	if err := json.Unmarshal(plaintext, &creds); err != nil {
		return nil, errors.Wrap(err, "[Store.Load] unmarshal credentials")
	}
	return &creds, nil
}

// Clear deletes the credentials file. A missing file is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "[Store.Clear] remove credentials file")
	}
	return nil
}

func (s *Store) aead(salt []byte) (aeadCipher, error) {
	key, err := scrypt.Key(s.passphrase, salt, scryptN, scryptR, scryptP, chacha20poly1305.KeySize)
	if err != nil {
		return nil, errors.Wrap(err, "[filestore] derive key")
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, errors.Wrap(err, "[filestore] init cipher")
	}
	return aead, nil
}

type aeadCipher interface {
	NonceSize() int
	Seal(dst, nonce, plaintext, additionalData []byte) []byte
	Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
}
