//go:build integration

// Package testutils provides shared infrastructure for integration tests.
package testutils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gocloud.dev/blob"
)

// TestFile is a downloadable file with its precomputed digest.
type TestFile struct {
	Name   string
	Data   []byte
	Digest string
}

// NewTestFile builds a TestFile with a deterministic byte pattern of the
// given size and its SHA-256 digest.
func NewTestFile(name string, size int64) TestFile {
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	sum := sha256.Sum256(data)
	return TestFile{Name: name, Data: data, Digest: hex.EncodeToString(sum[:])}
}

// StartTestHTTPServer serves the given files by name at the server root.
func StartTestHTTPServer(t *testing.T, files []TestFile) *httptest.Server {
	t.Helper()

	fileMap := make(map[string][]byte)
	for _, f := range files {
		fileMap["/"+f.Name] = f.Data
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, ok := fileMap[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Length", strconv.Itoa(len(data)))
		w.Write(data)
	}))
}

// MinioEnv contains connection information for a Minio test environment.
type MinioEnv struct {
	Container testcontainers.Container
	BucketURL string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Close terminates the Minio container.
func (e *MinioEnv) Close(ctx context.Context) error {
	if e.Container != nil {
		return e.Container.Terminate(ctx)
	}
	return nil
}

// OpenBucket opens a gocloud bucket connection to the Minio environment.
func (e *MinioEnv) OpenBucket(ctx context.Context) (*blob.Bucket, error) {
	return blob.OpenBucket(ctx, e.BucketURL)
}

const (
	minioImage = "minio/minio:latest"
	mcImage    = "minio/mc:latest"
	minioUser  = "minioadmin"
	minioPass  = "minioadmin"
	minioPort  = "9000/tcp"
)

// StartMinioContainer starts a Minio container, provisions the named
// bucket, and points gocloud's S3 driver at it via environment credentials.
func StartMinioContainer(t *testing.T, ctx context.Context, bucketName string) *MinioEnv {
	t.Helper()

	// The bucket is provisioned by a second container, so both need a
	// shared network with a stable alias for the server.
	netName := fmt.Sprintf("texfetch-it-%d", time.Now().UnixNano())
	network, err := testcontainers.GenericNetwork(ctx, testcontainers.GenericNetworkRequest{
		NetworkRequest: testcontainers.NetworkRequest{Name: netName},
	})
	if err != nil {
		t.Fatalf("create network: %v", err)
	}
	t.Cleanup(func() { network.Remove(ctx) })

	server, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:          minioImage,
			ExposedPorts:   []string{minioPort},
			Networks:       []string{netName},
			NetworkAliases: map[string][]string{netName: {"minio"}},
			Env: map[string]string{
				"MINIO_ROOT_USER":     minioUser,
				"MINIO_ROOT_PASSWORD": minioPass,
			},
			Cmd:        []string{"server", "/data"},
			WaitingFor: wait.ForHTTP("/minio/health/ready").WithPort(minioPort),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start minio container: %v", err)
	}

	provisionBucket(t, ctx, netName, bucketName)

	host, err := server.Host(ctx)
	if err != nil {
		t.Fatalf("container host: %v", err)
	}
	port, err := server.MappedPort(ctx, minioPort)
	if err != nil {
		t.Fatalf("container port: %v", err)
	}
	endpoint := fmt.Sprintf("%s:%s", host, port.Port())

	// gocloud's s3blob driver picks credentials up from the environment.
	t.Setenv("AWS_ACCESS_KEY_ID", minioUser)
	t.Setenv("AWS_SECRET_ACCESS_KEY", minioPass)

	return &MinioEnv{
		Container: server,
		BucketURL: fmt.Sprintf("s3://%s?endpoint=http://%s&use_path_style=true&disable_https=true&region=us-east-1", bucketName, endpoint),
		Endpoint:  endpoint,
		AccessKey: minioUser,
		SecretKey: minioPass,
	}
}

// provisionBucket creates the bucket with a one-shot mc container that
// exits once the bucket exists.
func provisionBucket(t *testing.T, ctx context.Context, netName, bucketName string) {
	t.Helper()

	script := fmt.Sprintf(
		"/usr/bin/mc config host add local http://minio:9000 %s %s && /usr/bin/mc mb local/%s",
		minioUser, minioPass, bucketName,
	)

	mc, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:      mcImage,
			Networks:   []string{netName},
			Entrypoint: []string{"/bin/sh", "-c"},
			Cmd:        []string{script},
			WaitingFor: wait.ForExit(),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("start mc container: %v", err)
	}
	defer mc.Terminate(ctx)
}
