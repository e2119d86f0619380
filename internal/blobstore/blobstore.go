package blobstore

import (
	"context"
	"encoding/hex"
	"fmt"
	"mime"
	"net/url"
	"strings"

	"github.com/artisanhub/artisanhub-api/internal/logger"
	"golang.org/x/crypto/blake2b"
)

const (
	ContentTypePNG  = "image/png"
	ContentTypeJSON = "application/json"
)

// Object is a blob to upload
type Object struct {
	Name        string // informational, e.g. "sunset-fox.png"
	ContentType string
	Data        []byte
}

// Store uploads blobs and returns their public URI
type Store interface {
	Upload(ctx context.Context, obj Object) (string, error)
	Name() string
}

// ContentKey returns the content-addressed key of obj: the blake2b-256 digest
// of its bytes in hex, with an extension derived from the content type.
func ContentKey(obj Object) string {
	sum := blake2b.Sum256(obj.Data)
	return hex.EncodeToString(sum[:]) + extensionFor(obj)
}

func extensionFor(obj Object) string {
	switch obj.ContentType {
	case ContentTypePNG:
		return ".png"
	case ContentTypeJSON:
		return ".json"
	}
	if i := strings.LastIndex(obj.Name, "."); i >= 0 && i < len(obj.Name)-1 {
		return strings.ToLower(obj.Name[i:])
	}
	if exts, err := mime.ExtensionsByType(obj.ContentType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ""
}

// New creates the store selected by backend
func New(ctx context.Context, backend, bucket, publicBaseURL string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", "memory":
		return NewMemoryStore(), nil
	case "s3":
		return NewS3Store(ctx, bucket, publicBaseURL)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s (allowed: memory, s3)", backend)
	}
}

// ReportBackend logs the storage backend in use and warns when memory storage
// backs mints on a shared cluster. It reports whether it warned.
func ReportBackend(store Store, rpcURL string) bool {
	fields := logger.Fields{"backend": store.Name(), "rpc_url": rpcURL}
	if store.Name() == "memory" && !isLocalCluster(rpcURL) {
		logger.Warn("STORAGE_BACKEND is memory on a shared cluster; minted metadata URIs will not resolve and uploads are kept until restart", fields)
		return true
	}
	logger.Info("Blob storage ready", fields)
	return false
}

func isLocalCluster(rpcURL string) bool {
	u, err := url.Parse(rpcURL)
	if err != nil {
		return false
	}
	switch u.Hostname() {
	case "localhost", "127.0.0.1", "::1", "0.0.0.0":
		return true
	}
	return false
}
