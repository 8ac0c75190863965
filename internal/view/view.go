// Package view projects raw runtime inspection data into the normalized,
// renderable container model used by every page and endpoint.
package view

import (
	"context"
	"strings"

	"github.com/docker/docker/api/types/container"

	"github.com/docktiles/docktiles/internal/docker"
)

// PortBinding is one published container port mapped to a host-side
// address. Built fresh on every query, never persisted.
type PortBinding struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// ContainerView is the read projection of one container. It is computed
// per request from live inspection data and has no write path.
type ContainerView struct {
	ID     string        `json:"id"`
	Name   string        `json:"name"`
	Image  string        `json:"image"`
	Status string        `json:"status"`
	State  string        `json:"state"`
	Ports  []PortBinding `json:"ports"`
}

// Builder converts containers into views. It holds no state beyond the
// runtime handle and is safe for concurrent use.
type Builder struct {
	runtime docker.Runtime
}

// NewBuilder creates a view builder over the given runtime.
func NewBuilder(rt docker.Runtime) *Builder {
	return &Builder{runtime: rt}
}

// Build re-inspects the named container and projects it. The fresh
// inspect call is deliberate: views must never be served from stale
// state.
func (b *Builder) Build(ctx context.Context, name string) (ContainerView, error) {
	inspect, err := b.runtime.InspectContainer(ctx, name)
	if err != nil {
		return ContainerView{}, err
	}
	return b.project(ctx, inspect), nil
}

// BuildAll lists containers and projects each one, re-inspecting every
// container individually.
func (b *Builder) BuildAll(ctx context.Context, includeStopped bool) ([]ContainerView, error) {
	containers, err := b.runtime.ListContainers(ctx, includeStopped)
	if err != nil {
		return nil, err
	}

	views := make([]ContainerView, 0, len(containers))
	for _, c := range containers {
		v, err := b.Build(ctx, c.ID)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func (b *Builder) project(ctx context.Context, inspect container.InspectResponse) ContainerView {
	v := ContainerView{
		ID:     shortID(inspect.ID),
		Name:   strings.TrimPrefix(inspect.Name, "/"),
		Status: coarseStatus(inspect.State),
		State:  "unknown",
	}

	if inspect.State != nil && inspect.State.Status != "" {
		v.State = inspect.State.Status
	}

	v.Image = b.resolveImage(ctx, inspect)

	if inspect.NetworkSettings != nil {
		v.Ports = ExtractPorts(inspect.NetworkSettings.Ports)
	}

	return v
}

// resolveImage never returns blank: configured reference first, then
// the image's first tag, then its short digest.
func (b *Builder) resolveImage(ctx context.Context, inspect container.InspectResponse) string {
	if inspect.Config != nil && inspect.Config.Image != "" {
		return inspect.Config.Image
	}

	if img, err := b.runtime.InspectImage(ctx, inspect.Image); err == nil {
		if len(img.RepoTags) > 0 {
			return img.RepoTags[0]
		}
		if img.ID != "" {
			return shortID(img.ID)
		}
	}

	return shortID(inspect.Image)
}

// coarseStatus maps the inspect state booleans to the coarse status the
// runtime reports on list operations.
func coarseStatus(state *container.State) string {
	switch {
	case state == nil:
		return "unknown"
	case state.Running:
		return "running"
	case state.Paused:
		return "paused"
	case state.Restarting:
		return "restarting"
	case state.Dead:
		return "exited"
	default:
		return "stopped"
	}
}

// shortID truncates a runtime identifier to the familiar 12-character
// form, dropping any digest prefix.
func shortID(id string) string {
	id = strings.TrimPrefix(id, "sha256:")
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
