// Package mcp provides an MCP (Model Context Protocol) server adapter
// for helmsman. It exposes the router, corpus, schema and test harness
// to AI assistants over stdio or HTTP.
package mcp

import "errors"

// ErrMissingRouterService is returned when the router service is not provided.
var ErrMissingRouterService = errors.New("mcp: router service is required")
