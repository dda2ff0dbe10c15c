package utils_test

import (
	"testing"

	"github.com/jrsteele09/bloghub-admin/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestPointerSafety(t *testing.T) {
	var missing *bool
	require.False(t, utils.Value(missing))
	require.True(t, utils.ValueOr(missing, true))
	require.True(t, utils.Value(utils.Ptr(true)))
	require.Equal(t, "next", utils.ValueOr(utils.Ptr("next"), "fallback"))
}
