package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindProductsQuery(t *testing.T) {
	tests := []struct {
		name     string
		request  FindProducts
		expected string
	}{
		{
			name:     "given no category should send paging only",
			request:  FindProducts{Page: 0, Size: 10, Sort: "id,asc"},
			expected: "page=0&size=10&sort=id%2Casc",
		},
		{
			name:     "given All category should omit category",
			request:  FindProducts{Page: 1, Size: 10, Sort: "id,asc", Category: "All"},
			expected: "page=1&size=10&sort=id%2Casc",
		},
		{
			name:     "given category and subcategory should send both",
			request:  FindProducts{Page: 2, Size: 5, Sort: "price,desc", Category: "Men", Subcategory: "Shoes"},
			expected: "category=Men&page=2&size=5&sort=price%2Cdesc&subcategory=Shoes",
		},
		{
			name:     "given blank subcategory should omit subcategory",
			request:  FindProducts{Page: 0, Size: 10, Sort: "id,asc", Category: "Women", Subcategory: " "},
			expected: "category=Women&page=0&size=10&sort=id%2Casc",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, test.request.Query().Encode())
		})
	}
}
