package docker

import (
	"errors"
	"fmt"

	cerrdefs "github.com/containerd/errdefs"
	dockerclient "github.com/docker/docker/client"
)

var (
	// ErrNotFound marks a container or image the runtime does not know.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable marks a runtime that cannot be reached.
	ErrUnavailable = errors.New("runtime unavailable")
)

// wrapErr classifies an SDK error into the adapter's taxonomy while
// keeping the original message in the chain.
func wrapErr(op string, err error) error {
	switch {
	case cerrdefs.IsNotFound(err):
		return fmt.Errorf("%s: %v: %w", op, err, ErrNotFound)
	case dockerclient.IsErrConnectionFailed(err):
		return fmt.Errorf("%s: %v: %w", op, err, ErrUnavailable)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
