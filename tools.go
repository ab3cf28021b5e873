//go:build tools

// Package tools pins tool dependencies invoked via go generate (mockgen).
package taskboard

import (
	_ "go.uber.org/mock/mockgen"
)
