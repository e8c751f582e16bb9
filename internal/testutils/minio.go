//go:build integration

package testutils

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gocloud.dev/blob"

	"github.com/ligustah/goesdl/pkg/goes"
)

// MinioEnv contains connection information for a Minio test environment.
type MinioEnv struct {
	Container testcontainers.Container

	// BucketURL is a bucket URL template; {satellite} selects one of the
	// pre-created noaa-goesNN buckets.
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

// OpenBucket opens the bucket of one satellite.
func (e *MinioEnv) OpenBucket(ctx context.Context, satellite int) (*blob.Bucket, error) {
	return blob.OpenBucket(ctx, goes.BucketURL(e.BucketURL, goes.Satellite(satellite)))
}

// StartMinioContainer starts a Minio container with one noaa-goesNN bucket
// per satellite.
func StartMinioContainer(t *testing.T, ctx context.Context, satellites ...int) *MinioEnv {
	t.Helper()

	const (
		accessKey = "minioadmin"
		secretKey = "minioadmin"
	)

	// Create a network for minio and mc to communicate
	networkName := fmt.Sprintf("minio-test-net-%d", time.Now().UnixNano())
	network, err := testcontainers.GenericNetwork(ctx, testcontainers.GenericNetworkRequest{
		NetworkRequest: testcontainers.NetworkRequest{
			Name: networkName,
		},
	})
	require.NoError(t, err, "create network")
	t.Cleanup(func() { network.Remove(ctx) })

	// Start minio container
	minioReq := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		ExposedPorts: []string{"9000/tcp"},
		Networks:     []string{networkName},
		NetworkAliases: map[string][]string{
			networkName: {"minio"},
		},
		Env: map[string]string{
			"MINIO_ROOT_USER":     accessKey,
			"MINIO_ROOT_PASSWORD": secretKey,
		},
		Cmd:        []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/ready").WithPort("9000"),
	}

	minioContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: minioReq,
		Started:          true,
	})
	require.NoError(t, err, "start minio container")

	buckets := make([]string, 0, len(satellites))
	for _, sat := range satellites {
		buckets = append(buckets, fmt.Sprintf("noaa-goes%d", sat))
	}
	createBucketsWithMC(t, ctx, networkName, accessKey, secretKey, buckets)

	host, err := minioContainer.Host(ctx)
	require.NoError(t, err, "get container host")

	port, err := minioContainer.MappedPort(ctx, "9000")
	require.NoError(t, err, "get container port")

	endpoint := fmt.Sprintf("%s:%s", host, port.Port())

	bucketURL := fmt.Sprintf("s3://noaa-goes{satellite}?endpoint=http://%s&use_path_style=true&disable_https=true&region=us-east-1",
		endpoint,
	)

	// Set AWS credentials via environment variables (gocloud reads these)
	t.Setenv("AWS_ACCESS_KEY_ID", accessKey)
	t.Setenv("AWS_SECRET_ACCESS_KEY", secretKey)

	return &MinioEnv{
		Container: minioContainer,
		BucketURL: bucketURL,
		Endpoint:  endpoint,
		AccessKey: accessKey,
		SecretKey: secretKey,
	}
}

// createBucketsWithMC creates buckets using a separate minio/mc container.
func createBucketsWithMC(t *testing.T, ctx context.Context, networkName, accessKey, secretKey string, buckets []string) {
	t.Helper()

	script := fmt.Sprintf("/usr/bin/mc alias set goes http://minio:9000 %s %s", accessKey, secretKey)
	for _, b := range buckets {
		script += fmt.Sprintf(" && /usr/bin/mc mb goes/%s && /usr/bin/mc anonymous set download goes/%s", b, b)
	}
	script += "; exit 0"

	mcReq := testcontainers.ContainerRequest{
		Image:      "minio/mc:latest",
		Networks:   []string{networkName},
		Entrypoint: []string{"/bin/sh", "-c"},
		Cmd:        []string{script},
		WaitingFor: wait.ForExit(),
	}

	mcContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: mcReq,
		Started:          true,
	})
	require.NoError(t, err, "start mc container")
	defer mcContainer.Terminate(ctx)
}
