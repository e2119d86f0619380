package blobstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentKey(t *testing.T) {
	png := Object{ContentType: ContentTypePNG, Data: []byte("image")}
	key := ContentKey(png)
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Len(t, key, 64+len(".png"))
	assert.Equal(t, key, ContentKey(Object{ContentType: ContentTypePNG, Data: []byte("image")}))
	assert.NotEqual(t, key, ContentKey(Object{ContentType: ContentTypePNG, Data: []byte("other")}))

	assert.True(t, strings.HasSuffix(ContentKey(Object{ContentType: ContentTypeJSON, Data: []byte("{}")}), ".json"))
	assert.True(t, strings.HasSuffix(ContentKey(Object{Name: "x.WEBP", Data: []byte("a")}), ".webp"))
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	uri, err := store.Upload(context.Background(), Object{Name: "fox.png", ContentType: ContentTypePNG, Data: []byte("png")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "memory://"))

	obj, ok := store.Get(uri)
	require.True(t, ok)
	assert.Equal(t, []byte("png"), obj.Data)
	assert.Equal(t, 1, store.Len())

	_, err = store.Upload(context.Background(), Object{ContentType: ContentTypePNG})
	assert.Error(t, err)

	store.FailWith(errors.New("disk full"))
	_, err = store.Upload(context.Background(), Object{ContentType: ContentTypePNG, Data: []byte("x")})
	assert.EqualError(t, err, "disk full")
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Upload(t *testing.T) {
	client := &fakeS3{}
	store := NewS3StoreWithClient(client, "artisan-assets", "https://cdn.example.com/")

	obj := Object{Name: "meta.json", ContentType: ContentTypeJSON, Data: []byte(`{"name":"Fox"}`)}
	uri, err := store.Upload(context.Background(), obj)
	require.NoError(t, err)

	key := ContentKey(obj)
	assert.Equal(t, "https://cdn.example.com/"+key, uri)
	assert.Equal(t, "artisan-assets", *client.input.Bucket)
	assert.Equal(t, key, *client.input.Key)
	assert.Equal(t, ContentTypeJSON, *client.input.ContentType)
	assert.Equal(t, obj.Data, client.body)
}

func TestS3Store_DefaultPublicURL(t *testing.T) {
	store := NewS3StoreWithClient(&fakeS3{}, "bucket", "")
	uri, err := store.Upload(context.Background(), Object{ContentType: ContentTypePNG, Data: []byte("x")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "https://bucket.s3.amazonaws.com/"))
}

func TestS3Store_UploadError(t *testing.T) {
	store := NewS3StoreWithClient(&fakeS3{err: errors.New("AccessDenied")}, "bucket", "")
	_, err := store.Upload(context.Background(), Object{ContentType: ContentTypePNG, Data: []byte("x")})
	assert.ErrorContains(t, err, "AccessDenied")
}

func TestNew(t *testing.T) {
	store, err := New(context.Background(), "", "", "")
	require.NoError(t, err)
	assert.Equal(t, "memory", store.Name())

	_, err = New(context.Background(), "s3", "", "")
	assert.Error(t, err)

	_, err = New(context.Background(), "ipfs", "", "")
	assert.ErrorContains(t, err, "unknown storage backend")
}

func TestReportBackendWarnsForMemoryOnSharedCluster(t *testing.T) {
	memory := NewMemoryStore()
	assert.True(t, ReportBackend(memory, "https://api.devnet.solana.com"))
	assert.True(t, ReportBackend(memory, "not a url\x7f"))
	assert.False(t, ReportBackend(memory, "http://localhost:8899"))
	assert.False(t, ReportBackend(memory, "http://127.0.0.1:8899"))
}
