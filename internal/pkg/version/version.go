// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package version

import (
	"fmt"
	"runtime/debug"
)

const MAJOR uint = 0
const MINOR uint = 3
const PATCH uint = 0

// Revision is set at build time with
// -ldflags "-X github.com/nttcom/gtp/internal/pkg/version.Revision=<rev>".
// When empty, the VCS revision recorded by the Go toolchain is used.
var Revision string

// Version returns the semantic version followed by the source revision
// when one is known, e.g. "0.3.0 (1a2b3c4)".
func Version() string {
	v := fmt.Sprintf("%d.%d.%d", MAJOR, MINOR, PATCH)
	if rev := revision(); rev != "" {
		return fmt.Sprintf("%s (%s)", v, rev)
	}
	return v
}

func revision() string {
	if Revision != "" {
		return Revision
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return ""
}
