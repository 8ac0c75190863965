// Package docktiles is a lightweight web dashboard for local Docker containers.
//
// # Overview
//
// DockTiles connects to a single Docker daemon and serves a small HTML
// dashboard: every container on the host with its image, state and
// published ports, a guessed deep link to the container's own web UI,
// log viewing, and start/stop/restart actions.
//
// The server consists of three layers:
//   - Web UI: server-rendered pages with HTMX refresh
//   - API Server: Echo routes for pages, logs and actions
//   - Runtime Layer: Docker SDK client for list/inspect/lifecycle
//
// # Architecture
//
//	┌─────────────────┐
//	│   Web UI        │
//	│  (HTML/HTMX)    │
//	└────────┬────────┘
//	         │
//	┌────────▼────────┐
//	│  API Server     │
//	│  (Echo)         │
//	└────────┬────────┘
//	         │
//	┌────────▼────────┐
//	│  Runtime Layer  │
//	│  (Docker SDK)   │
//	└─────────────────┘
//
// # Core Features
//
// Container dashboard:
//   - Fresh inspect data on every page load, stopped containers included
//   - Published host ports with a heuristic guess for the web UI port
//   - Start, stop and restart actions, optionally disabled entirely
//
// Access control:
//   - Optional shared bearer token covering every page and action
//   - Missing credentials and wrong credentials are distinct failures
//
// # Quick Start
//
//	docktiles server
//
// runs against the local Docker socket on port 8088. See `docktiles
// config init` for a commented configuration file.
package docktiles
