// Package filestore archives uploaded documents on disk and hands out
// expiring signed URLs for them, so the messaging provider can fetch a
// document without the store being publicly readable.
package filestore

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidPath  = errors.New("path escapes the store root")
	ErrBadSignature = errors.New("signature mismatch")
	ErrLinkExpired  = errors.New("signed link expired")
)

type IFileStore interface {
	Save(data []byte, path string, metadata map[string]string) error
	Read(path string) ([]byte, error)
	SignedURL(path string, ttl time.Duration) (string, error)
	Verify(path string, exp int64, sig string) error
}

type DiskStore struct {
	root    string
	secret  []byte
	baseURL string
	now     func() time.Time
}

func NewDiskStore(root, secret, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create root: %w", err)
	}
	return &DiskStore{
		root:    root,
		secret:  []byte(secret),
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}, nil
}

func (s *DiskStore) resolve(path string) (string, error) {
	clean := filepath.Clean("/" + path)
	full := filepath.Join(s.root, clean)
	if !strings.HasPrefix(full, filepath.Clean(s.root)+string(os.PathSeparator)) {
		return "", fmt.Errorf("filestore: %q: %w", path, ErrInvalidPath)
	}
	return full, nil
}

func (s *DiskStore) Save(data []byte, path string, metadata map[string]string) error {
	full, err := s.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("filestore: create dir: %w", err)
	}
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return fmt.Errorf("filestore: write %s: %w", path, err)
	}

	if len(metadata) > 0 {
		meta, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("filestore: marshal metadata: %w", err)
		}
		if err := os.WriteFile(full+".meta.json", meta, 0o644); err != nil {
			return fmt.Errorf("filestore: write metadata %s: %w", path, err)
		}
	}
	return nil
}

func (s *DiskStore) Read(path string) ([]byte, error) {
	full, err := s.resolve(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("filestore: read %s: %w", path, err)
	}
	return data, nil
}

func (s *DiskStore) sign(path string, exp int64) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%s:%d", path, exp)
	return hex.EncodeToString(mac.Sum(nil))
}

// SignedURL returns a link that the HTTP layer serves until it expires.
func (s *DiskStore) SignedURL(path string, ttl time.Duration) (string, error) {
	if _, err := s.resolve(path); err != nil {
		return "", err
	}
	exp := s.now().Add(ttl).Unix()
	q := url.Values{}
	q.Set("path", path)
	q.Set("exp", strconv.FormatInt(exp, 10))
	q.Set("sig", s.sign(path, exp))
	return s.baseURL + "/files?" + q.Encode(), nil
}

func (s *DiskStore) Verify(path string, exp int64, sig string) error {
	expected := s.sign(path, exp)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return ErrBadSignature
	}
	if s.now().Unix() > exp {
		return ErrLinkExpired
	}
	return nil
}
