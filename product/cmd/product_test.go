package cmd

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alturino/storefront/internal/config"
	"github.com/Alturino/storefront/internal/fakeapi"
	"github.com/Alturino/storefront/shop"
)

func TestProductsListCommand(t *testing.T) {
	srv := fakeapi.New()
	t.Cleanup(srv.Close)
	srv.SeedProducts(fakeapi.GenerateProducts(15, "Men", "Shoes")...)
	srv.SeedProducts(fakeapi.GenerateProducts(3, "Women", "Bags")...)
	s, err := shop.New(context.Background(), &config.Config{
		Api:     config.Api{BaseURL: srv.URL, Timeout: 5 * time.Second},
		Storage: config.Storage{Driver: "memory"},
	})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close(context.Background()) })

	tests := []struct {
		name             string
		args             []string
		expectedContains []string
		expectedMissing  []string
	}{
		{
			name:             "given one page should hint at more",
			args:             []string{"list", "--category", "Men"},
			expectedContains: []string{"Men product 10", "more available, use --pages 2"},
			expectedMissing:  []string{"Men product 11", "Women product 1"},
		},
		{
			name:             "given two pages should list everything",
			args:             []string{"list", "--category", "Men", "--pages", "2"},
			expectedContains: []string{"Men product 15"},
			expectedMissing:  []string{"more available"},
		},
		{
			name:             "given empty category should say so",
			args:             []string{"list", "--category", "Kids"},
			expectedContains: []string{"No products found."},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			cmd := NewCommand(func() *shop.Shop { return s })
			cmd.SetOut(out)
			cmd.SetArgs(test.args)

			require.NoError(t, cmd.ExecuteContext(context.Background()))

			for _, expected := range test.expectedContains {
				assert.Contains(t, out.String(), expected)
			}
			for _, missing := range test.expectedMissing {
				assert.NotContains(t, out.String(), missing)
			}
		})
	}
}
