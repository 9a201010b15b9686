package s3

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imagecollector/config"
	obsmocks "imagecollector/observability/mocks"
	storagetypes "imagecollector/storage/types"
)

// fakeS3 is an in-memory bucket
type fakeS3 struct {
	mu            sync.Mutex
	bucketExists  bool
	createdBucket bool
	objects       map[string][]byte
	contentTypes  map[string]string
	putErr        error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{
		bucketExists: true,
		objects:      map[string][]byte{},
		contentTypes: map[string]string{},
	}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	f.contentTypes[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) HeadObject(ctx context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &s3types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(ctx context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if !f.bucketExists {
		return nil, &s3types.NotFound{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) CreateBucket(ctx context.Context, in *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	f.createdBucket = true
	f.bucketExists = true
	return &s3.CreateBucketOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	now := time.Now()
	for _, k := range keys {
		out.Contents = append(out.Contents, s3types.Object{
			Key:          aws.String(k),
			Size:         aws.Int64(int64(len(f.objects[k]))),
			LastModified: aws.Time(now),
		})
	}
	return out, nil
}

func newTestClient(api API, prefix string) *Client {
	return NewClientWithAPI(api, config.S3Config{Bucket: "images", Prefix: prefix},
		obsmocks.NewPermissiveLogger(), obsmocks.NewPermissiveMetrics())
}

func TestClient_PutGetWithPrefix(t *testing.T) {
	ctx := context.Background()
	api := newFakeS3()
	c := newTestClient(api, "fetched/")

	err := c.Put(ctx, "cat.png", strings.NewReader("meow"), storagetypes.ObjectMetadata{ContentType: "image/png"})
	require.NoError(t, err)

	assert.Contains(t, api.objects, "fetched/cat.png")
	assert.Equal(t, "image/png", api.contentTypes["fetched/cat.png"])

	rc, err := c.Get(ctx, "cat.png")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "meow", string(data))

	assert.Equal(t, "s3://images/fetched/cat.png", c.Location("cat.png"))
}

func TestClient_PutFile(t *testing.T) {
	ctx := context.Background()
	api := newFakeS3()
	c := newTestClient(api, "")

	path := t.TempDir() + "/dog.jpg.abc.temp"
	require.NoError(t, writeFile(path, "woof"))

	require.NoError(t, c.PutFile(ctx, "dog.jpg", path, storagetypes.ObjectMetadata{ContentType: "image/jpeg"}))
	assert.Equal(t, []byte("woof"), api.objects["dog.jpg"])
	assert.FileExists(t, path)
}

func TestClient_PutError(t *testing.T) {
	api := newFakeS3()
	api.putErr = errors.New("access denied")
	c := newTestClient(api, "")

	err := c.Put(context.Background(), "a.png", strings.NewReader("x"), storagetypes.ObjectMetadata{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestClient_GetNotFound(t *testing.T) {
	c := newTestClient(newFakeS3(), "")

	_, err := c.Get(context.Background(), "missing.png")
	assert.True(t, errors.Is(err, storagetypes.ErrObjectNotFound))
}

func TestClient_Exists(t *testing.T) {
	ctx := context.Background()
	api := newFakeS3()
	api.objects["fetched/a.png"] = []byte("a")
	c := newTestClient(api, "fetched/")

	exists, err := c.Exists(ctx, "a.png")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = c.Exists(ctx, "b.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestClient_PrefixWithoutTrailingSlash(t *testing.T) {
	ctx := context.Background()
	api := newFakeS3()
	api.objects["fetched/a.png"] = []byte("aa")
	api.objects["fetchedother.png"] = []byte("x")
	c := newTestClient(api, "/fetched")

	require.NoError(t, c.Put(ctx, "cat.png", strings.NewReader("meow"), storagetypes.ObjectMetadata{}))
	assert.Contains(t, api.objects, "fetched/cat.png")
	assert.Equal(t, "s3://images/fetched/cat.png", c.Location("cat.png"))

	objects, err := c.List(ctx, "")
	require.NoError(t, err)
	keys := make([]string, 0, len(objects))
	for _, o := range objects {
		keys = append(keys, o.Key)
	}
	assert.Equal(t, []string{"a.png", "cat.png"}, keys)
}

func TestClient_List(t *testing.T) {
	api := newFakeS3()
	api.objects["fetched/a.png"] = []byte("aa")
	api.objects["fetched/b.jpg"] = []byte("bbb")
	api.objects["fetched/c.png.123.temp"] = []byte("c")
	api.objects["fetched/nested/d.png"] = []byte("d")
	api.objects["other/e.png"] = []byte("e")
	c := newTestClient(api, "fetched/")

	objects, err := c.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, objects, 2)
	assert.Equal(t, "a.png", objects[0].Key)
	assert.Equal(t, int64(2), objects[0].Size)
	assert.Equal(t, "b.jpg", objects[1].Key)
}

func TestClient_EnsureBucketExists(t *testing.T) {
	api := newFakeS3()
	api.bucketExists = false
	c := newTestClient(api, "")

	require.NoError(t, c.ensureBucketExists(context.Background()))
	assert.True(t, api.createdBucket)

	api.createdBucket = false
	require.NoError(t, c.ensureBucketExists(context.Background()))
	assert.False(t, api.createdBucket)
}
