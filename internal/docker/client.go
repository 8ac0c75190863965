// Package docker wraps the container runtime behind a small interface so
// the rest of DockTiles never depends on the SDK's concrete shape.
package docker

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	dockerclient "github.com/docker/docker/client"
	"github.com/docker/docker/pkg/stdcopy"
)

// Runtime is the container runtime boundary. One long-lived
// implementation is shared by all requests; the Docker SDK client is
// safe for concurrent use. No retries happen at this layer; every
// failure propagates to the caller as a typed error.
type Runtime interface {
	// ListContainers returns the runtime's container summaries,
	// including stopped containers when all is true.
	ListContainers(ctx context.Context, all bool) ([]container.Summary, error)

	// InspectContainer returns the full inspection record for a
	// container by name or ID.
	InspectContainer(ctx context.Context, name string) (container.InspectResponse, error)

	// InspectImage returns the inspection record for an image reference.
	InspectImage(ctx context.Context, ref string) (image.InspectResponse, error)

	// StartContainer, StopContainer and RestartContainer issue the
	// command and return; they do not verify the resulting state.
	StartContainer(ctx context.Context, name string) error
	StopContainer(ctx context.Context, name string) error
	RestartContainer(ctx context.Context, name string) error

	// ContainerLogs returns up to tail lines of stdout+stderr, decoded
	// best-effort to valid UTF-8. It never fails on log content.
	ContainerLogs(ctx context.Context, name string, tail int) (string, error)

	// Ping checks runtime connectivity.
	Ping(ctx context.Context) error
}

// Options configures the runtime connection. Zero values defer to the
// SDK's environment conventions (DOCKER_HOST, DOCKER_TLS_VERIFY,
// DOCKER_CERT_PATH).
type Options struct {
	Host      string
	TLSVerify bool
	CertPath  string
}

// Client implements Runtime over the Docker SDK.
type Client struct {
	cli *dockerclient.Client
}

// New creates a runtime client. The connection is lazy; use Ping to
// verify reachability.
func New(opts Options) (*Client, error) {
	clientOpts := []dockerclient.Opt{
		dockerclient.FromEnv,
		dockerclient.WithAPIVersionNegotiation(),
	}
	if opts.Host != "" {
		host := opts.Host
		if !strings.Contains(host, "://") {
			host = "unix://" + host
		}
		clientOpts = append(clientOpts, dockerclient.WithHost(host))
	}
	if opts.TLSVerify && opts.CertPath != "" {
		clientOpts = append(clientOpts, dockerclient.WithTLSClientConfig(
			filepath.Join(opts.CertPath, "ca.pem"),
			filepath.Join(opts.CertPath, "cert.pem"),
			filepath.Join(opts.CertPath, "key.pem"),
		))
	}

	cli, err := dockerclient.NewClientWithOpts(clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Docker client: %w", err)
	}

	return &Client{cli: cli}, nil
}

func (c *Client) ListContainers(ctx context.Context, all bool) ([]container.Summary, error) {
	containers, err := c.cli.ContainerList(ctx, container.ListOptions{All: all})
	if err != nil {
		return nil, wrapErr("list containers", err)
	}
	return containers, nil
}

func (c *Client) InspectContainer(ctx context.Context, name string) (container.InspectResponse, error) {
	inspect, err := c.cli.ContainerInspect(ctx, name)
	if err != nil {
		return container.InspectResponse{}, wrapErr("inspect container "+name, err)
	}
	return inspect, nil
}

func (c *Client) InspectImage(ctx context.Context, ref string) (image.InspectResponse, error) {
	inspect, _, err := c.cli.ImageInspectWithRaw(ctx, ref)
	if err != nil {
		return image.InspectResponse{}, wrapErr("inspect image "+ref, err)
	}
	return inspect, nil
}

func (c *Client) StartContainer(ctx context.Context, name string) error {
	if err := c.cli.ContainerStart(ctx, name, container.StartOptions{}); err != nil {
		return wrapErr("start container "+name, err)
	}
	return nil
}

func (c *Client) StopContainer(ctx context.Context, name string) error {
	if err := c.cli.ContainerStop(ctx, name, container.StopOptions{}); err != nil {
		return wrapErr("stop container "+name, err)
	}
	return nil
}

func (c *Client) RestartContainer(ctx context.Context, name string) error {
	if err := c.cli.ContainerRestart(ctx, name, container.StopOptions{}); err != nil {
		return wrapErr("restart container "+name, err)
	}
	return nil
}

func (c *Client) ContainerLogs(ctx context.Context, name string, tail int) (string, error) {
	reader, err := c.cli.ContainerLogs(ctx, name, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       strconv.Itoa(tail),
	})
	if err != nil {
		return "", wrapErr("fetch logs for "+name, err)
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		return "", wrapErr("read logs for "+name, err)
	}

	return DecodeLogStream(raw), nil
}

func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.cli.Ping(ctx); err != nil {
		return wrapErr("ping runtime", err)
	}
	return nil
}

// Close releases the underlying SDK client.
func (c *Client) Close() error {
	return c.cli.Close()
}

// DecodeLogStream turns a raw Docker log stream into text. Multiplexed
// streams carry 8-byte frame headers which stdcopy strips; TTY streams
// are raw and pass through unchanged. Invalid byte sequences are
// dropped rather than surfaced as errors.
func DecodeLogStream(raw []byte) string {
	var out bytes.Buffer
	if _, err := stdcopy.StdCopy(&out, &out, bytes.NewReader(raw)); err != nil {
		// Not a multiplexed stream (TTY container) or a truncated
		// frame; serve the bytes as-is.
		out.Reset()
		out.Write(raw)
	}
	return strings.ToValidUTF8(out.String(), "")
}
