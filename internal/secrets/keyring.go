// Package secrets keeps provider API keys in a per-user file so they need not
// sit in plain text in config.toml. The file is obfuscated, not encrypted
// against a determined local reader.
package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

const fileName = "keys.json"

// ErrNotFound is returned by Get when no key is stored for the provider.
var ErrNotFound = errors.New("secrets: key not found")

type keyFile struct {
	Keys map[string]string `json:"keys"` // provider -> base64(nonce|ciphertext)
}

// Keyring stores one key per provider under Dir.
type Keyring struct {
	Dir string
}

// Default returns the keyring next to the config file.
func Default() (*Keyring, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, err
	}
	return &Keyring{Dir: filepath.Join(dir, "mindmap")}, nil
}

func (k *Keyring) path() string { return filepath.Join(k.Dir, fileName) }

// Put stores key for provider, replacing any previous one.
func (k *Keyring) Put(provider, key string) error {
	provider, key = norm(provider), strings.TrimSpace(key)
	if provider == "" || key == "" {
		return errors.New("secrets: provider and key required")
	}
	f, err := k.load()
	if err != nil {
		return err
	}
	sealed, err := seal([]byte(key))
	if err != nil {
		return err
	}
	f.Keys[provider] = base64.StdEncoding.EncodeToString(sealed)
	return k.save(f)
}

// Get returns the key stored for provider.
func (k *Keyring) Get(provider string) (string, error) {
	f, err := k.load()
	if err != nil {
		return "", err
	}
	enc, ok := f.Keys[norm(provider)]
	if !ok {
		return "", ErrNotFound
	}
	raw, err := base64.StdEncoding.DecodeString(enc)
	if err != nil {
		return "", fmt.Errorf("secrets: decode %s: %w", provider, err)
	}
	plain, err := open(raw)
	if err != nil {
		return "", fmt.Errorf("secrets: open %s: %w", provider, err)
	}
	return string(plain), nil
}

// Delete removes provider's key. Deleting a missing key is not an error.
func (k *Keyring) Delete(provider string) error {
	f, err := k.load()
	if err != nil {
		return err
	}
	if _, ok := f.Keys[norm(provider)]; !ok {
		return nil
	}
	delete(f.Keys, norm(provider))
	return k.save(f)
}

func (k *Keyring) load() (keyFile, error) {
	f := keyFile{Keys: map[string]string{}}
	data, err := os.ReadFile(k.path())
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return f, err
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("secrets: parse %s: %w", k.path(), err)
	}
	if f.Keys == nil {
		f.Keys = map[string]string{}
	}
	return f, nil
}

func (k *Keyring) save(f keyFile) error {
	if err := os.MkdirAll(k.Dir, 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return err
	}
	tmp := k.path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, k.path())
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func newGCM() (cipher.AEAD, error) {
	sum := sha256.Sum256([]byte("mindmap-" + runtime.GOOS + "-" + os.Getenv("USER")))
	block, err := aes.NewCipher(sum[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func seal(plain []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return gcm.Seal(nonce, nonce, plain, nil), nil
}

func open(sealed []byte) ([]byte, error) {
	gcm, err := newGCM()
	if err != nil {
		return nil, err
	}
	if len(sealed) < gcm.NonceSize() {
		return nil, errors.New("ciphertext too short")
	}
	return gcm.Open(nil, sealed[:gcm.NonceSize()], sealed[gcm.NonceSize():], nil)
}
