package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_containsPattern(t *testing.T) {
	testCases := []struct {
		fragment string
		expected string
	}{
		{fragment: "Nov", expected: "%nov%"},
		{fragment: "100%", expected: `%100\%%`},
		{fragment: "a_b", expected: `%a\_b%`},
		{fragment: `back\slash`, expected: `%back\\slash%`},
	}

	for _, tc := range testCases {
		t.Run(tc.fragment, func(t *testing.T) {
			assert.Equal(t, tc.expected, containsPattern(tc.fragment))
		})
	}
}
