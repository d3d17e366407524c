package access_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vkngwrapper/barriertrack/access"
)

func TestFlagsSetAndTest(t *testing.T) {
	var f access.Flags
	require.True(t, f.Empty())

	f = f.Set(access.Read)
	require.True(t, f.Test(access.Read))
	require.False(t, f.Test(access.Write))

	f = f.Set(access.Write)
	require.True(t, f.Test(access.Read))
	require.True(t, f.Test(access.Write))
	require.False(t, f.Empty())
}

func TestFlagsUnion(t *testing.T) {
	a := access.FlagsOf(access.Read)
	b := access.FlagsOf(access.Write)
	u := a.Union(b)

	require.True(t, u.Test(access.Read))
	require.True(t, u.Test(access.Write))
}

func TestFlagsString(t *testing.T) {
	require.Equal(t, "None", access.Flags(0).String())
	require.Equal(t, "Read", access.FlagsOf(access.Read).String())
	require.Equal(t, "Write", access.FlagsOf(access.Write).String())
	require.Equal(t, "Read|Write", access.FlagsOf(access.Read).Union(access.FlagsOf(access.Write)).String())
}

func TestAccessString(t *testing.T) {
	require.Equal(t, "Read", access.Read.String())
	require.Equal(t, "Write", access.Write.String())
}
