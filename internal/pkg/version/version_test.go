// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/gtp/blob/main/LICENSE

package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	saved := Revision
	t.Cleanup(func() { Revision = saved })

	Revision = "1a2b3c4"
	assert.Equal(t, "0.3.0 (1a2b3c4)", Version())

	Revision = ""
	assert.True(t, strings.HasPrefix(Version(), "0.3.0"))
}
