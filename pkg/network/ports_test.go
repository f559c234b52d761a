package network_test

import (
	"sectoolkit/pkg/network"
	"sectoolkit/pkg/serrors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePorts(t *testing.T) {
	ports, err := network.ParsePorts("443,22 80-82,22")
	require.NoError(t, err)
	require.Equal(t, []int{22, 80, 81, 82, 443}, ports)

	ports, err = network.ParsePorts("common")
	require.NoError(t, err)
	require.Contains(t, ports, 22)
	require.Contains(t, ports, 443)

	ports, err = network.ParsePorts("TOP100")
	require.NoError(t, err)
	require.Len(t, ports, 100)

	ports, err = network.ParsePorts("all")
	require.NoError(t, err)
	require.Len(t, ports, network.MaxPort)
	require.Equal(t, 1, ports[0])
}

func TestParsePorts_Invalid(t *testing.T) {
	for _, spec := range []string{"", "0", "65536", "90-80", "http", "1-", "-5"} {
		_, err := network.ParsePorts(spec)
		require.ErrorIs(t, err, serrors.ErrBadRequest, spec)
	}
}

func TestServiceName(t *testing.T) {
	require.Equal(t, "ssh", network.ServiceName(22))
	require.Equal(t, "postgresql", network.ServiceName(5432))
	require.Equal(t, "unknown", network.ServiceName(40000))
}
