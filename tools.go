//go:build tools
// +build tools

package tools

import (
	// Document tool dependencies for version control
	_ "github.com/golangci/golangci-lint/cmd/golangci-lint"
)
