package asset

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Volume stores binary files under a key. It returns the local path for
// volumes on this machine and the public URL when one is configured.
type Volume interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (localPath, url string, err error)
}

// Volumes maps volume handles to their backends.
type Volumes map[string]Volume

func (v Volumes) Volume(handle string) (Volume, bool) {
	vol, ok := v[handle]
	return vol, ok
}

// FileSystemVolume stores files below a root directory.
type FileSystemVolume struct {
	root    string
	baseURL string
}

func NewFileSystemVolume(root, baseURL string) (*FileSystemVolume, error) {
	if root == "" {
		return nil, fmt.Errorf("filesystem volume requires a root")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create volume root: %w", err)
	}
	return &FileSystemVolume{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (v *FileSystemVolume) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (string, string, error) {
	dest := filepath.Join(v.root, filepath.FromSlash(key))
	if !strings.HasPrefix(dest, filepath.Clean(v.root)+string(os.PathSeparator)) {
		return "", "", fmt.Errorf("key %q escapes volume root", key)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", "", fmt.Errorf("create folder: %w", err)
	}

	f, err := os.OpenFile(dest, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", "", fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(dest)
		return "", "", fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dest)
		return "", "", fmt.Errorf("close file: %w", err)
	}

	url := ""
	if v.baseURL != "" {
		url = v.baseURL + "/" + key
	}
	return dest, url, nil
}
