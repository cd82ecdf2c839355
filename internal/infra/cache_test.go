package infra

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/config"
)

func TestNewCacheClient(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	tests := []struct {
		name        string
		cfg         config.Cache
		expectedErr bool
	}{
		{name: "given reachable redis should connect", cfg: config.Cache{Host: mr.Host(), Port: uint16(port)}},
		{name: "given unreachable redis should fail", cfg: config.Cache{Host: "127.0.0.1", Port: 1}, expectedErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			client, err := NewCacheClient(context.Background(), test.cfg)
			if test.expectedErr {
				assert.Error(t, err)
				assert.Nil(t, client)
				return
			}
			require.NoError(t, err)
			defer client.Close()
			assert.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
		})
	}
}
