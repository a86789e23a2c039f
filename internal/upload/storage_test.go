package upload

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/and161185/wzs-web/internal/errs"
)

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"/files/a.txt":        "files/a.txt",
		"//double":            "/double",
		"../etc/passwd":       "_/etc/passwd",
		"a/../../b":           "a/_/_/b",
		"....//x":             "__//x",
		"files/report..v2.md": "files/report_v2.md",
	}
	for in, want := range cases {
		require.Equal(t, want, SanitizePath(in), in)
	}
}

func TestLocalStorage_SaveWritesAndReturnsAbsPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	s, err := NewLocalStorage(root)
	require.NoError(t, err)

	loc, err := s.Save(context.Background(), "/202401/nested/file.bin", []byte("hello"))
	require.NoError(t, err)
	require.True(t, filepath.IsAbs(loc))
	require.Equal(t, filepath.Join(s.Root(), "202401", "nested", "file.bin"), loc)

	got, err := os.ReadFile(loc)
	require.NoError(t, err)
	require.Equal(t, "hello", string(got))

	// Overwrite leaves no temp files behind.
	_, err = s.Save(context.Background(), "202401/nested/file.bin", []byte("bye"))
	require.NoError(t, err)
	entries, err := os.ReadDir(filepath.Dir(loc))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	got, _ = os.ReadFile(loc)
	require.Equal(t, "bye", string(got))
}

func TestLocalStorage_NeverEscapesRoot(t *testing.T) {
	t.Parallel()

	inputs := []string{
		"../escape.txt",
		"/../../escape.txt",
		"files/../../escape.txt",
		"a/..%2F../b.txt",
		"..",
		"./../x",
	}
	for _, in := range inputs {
		parent := t.TempDir()
		s, err := NewLocalStorage(filepath.Join(parent, "uploads"))
		require.NoError(t, err)

		loc, err := s.Save(context.Background(), in, []byte("x"))
		require.NoError(t, err, in)
		require.True(t, strings.HasPrefix(loc, s.Root()+string(filepath.Separator)), "%q -> %q", in, loc)
		for _, part := range strings.Split(filepath.ToSlash(loc), "/") {
			require.NotEqual(t, "..", part, "%q -> %q", in, loc)
		}

		_, err = os.Stat(filepath.Join(parent, "escape.txt"))
		require.True(t, os.IsNotExist(err), in)
	}
}

func TestLocalStorage_RejectsRootItself(t *testing.T) {
	t.Parallel()

	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, in := range []string{"", "/", "."} {
		_, err := s.Save(context.Background(), in, []byte("x"))
		require.ErrorIs(t, err, errs.ErrStorage, "%q", in)
	}
}

func TestLocalStorage_MkdirFailure(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "blocker"), []byte("file"), 0o600))
	s, err := NewLocalStorage(root)
	require.NoError(t, err)

	_, err = s.Save(context.Background(), "blocker/child.txt", []byte("x"))
	require.ErrorIs(t, err, errs.ErrStorage)
}
