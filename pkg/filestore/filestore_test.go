package filestore

import (
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *DiskStore {
	t.Helper()
	store, err := NewDiskStore(t.TempDir(), "test-secret", "http://localhost:8080")
	require.NoError(t, err)
	return store
}

func TestDiskStore_SaveAndRead(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	data := []byte("%PDF-1.4 contenido")
	err := store.Save(data, "terms_documents/573001/1747000000.pdf", map[string]string{
		"phone":     "573001",
		"timestamp": "1747000000",
	})
	require.NoError(t, err)

	got, err := store.Read("terms_documents/573001/1747000000.pdf")
	require.NoError(t, err)
	require.Equal(t, data, got)

	meta, err := store.Read("terms_documents/573001/1747000000.pdf.meta.json")
	require.NoError(t, err)
	require.Contains(t, string(meta), `"phone":"573001"`)
}

func TestDiskStore_PathEscape(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	err := store.Save([]byte("x"), "../outside.txt", nil)
	require.NoError(t, err) // cleaned to /outside.txt inside the root

	_, err = store.Read("terms/../../../etc/passwd")
	require.Error(t, err)
}

func TestDiskStore_SignedURL(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)
	require.NoError(t, store.Save([]byte("doc"), "terms/form.pdf", nil))

	link, err := store.SignedURL("terms/form.pdf", time.Minute)
	require.NoError(t, err)

	parsed, err := url.Parse(link)
	require.NoError(t, err)
	require.Equal(t, "/files", parsed.Path)

	q := parsed.Query()
	exp, err := strconv.ParseInt(q.Get("exp"), 10, 64)
	require.NoError(t, err)

	require.NoError(t, store.Verify(q.Get("path"), exp, q.Get("sig")))

	// Tampered path must fail.
	require.ErrorIs(t, store.Verify("terms/other.pdf", exp, q.Get("sig")), ErrBadSignature)
	// Tampered expiry must fail even when still in the future.
	require.ErrorIs(t, store.Verify(q.Get("path"), exp+100, q.Get("sig")), ErrBadSignature)
}

func TestDiskStore_SignedURL_Expired(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	store.now = func() time.Time { return time.Unix(1747000000, 0) }
	link, err := store.SignedURL("terms/form.pdf", time.Minute)
	require.NoError(t, err)

	q, err := url.Parse(link)
	require.NoError(t, err)
	exp, err := strconv.ParseInt(q.Query().Get("exp"), 10, 64)
	require.NoError(t, err)

	store.now = func() time.Time { return time.Unix(1747000000+61, 0) }
	require.ErrorIs(t, store.Verify("terms/form.pdf", exp, q.Query().Get("sig")), ErrLinkExpired)
}
