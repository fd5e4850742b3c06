// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"
)

// Set at build time with -ldflags "-X namecat/internal/version.Version=...".
var (
	Version   = "0.0.0-development"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Info returns the one-line version banner
func Info() string {
	return fmt.Sprintf("namecat %s (commit: %s, built: %s, go: %s, platform: %s/%s)",
		Version, GitCommit, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// Short returns just the version number
func Short() string {
	return Version
}

// Fields returns the build information as structured log fields
func Fields() []zap.Field {
	return []zap.Field{
		zap.String("version", Version),
		zap.String("commit", GitCommit),
		zap.String("build_date", BuildDate),
		zap.String("go_version", runtime.Version()),
	}
}
