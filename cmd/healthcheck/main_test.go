package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAddr(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "", want: "127.0.0.1:8080"},
		{raw: "0.0.0.0:9000", want: "127.0.0.1:9000"},
		{raw: ":5000", want: "127.0.0.1:5000"},
		{raw: "10.0.0.5:8080", want: "10.0.0.5:8080"},
		{raw: "not-an-addr", want: "127.0.0.1:8080"},
	}

	for _, tc := range tests {
		t.Run(tc.raw, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeAddr(tc.raw))
		})
	}
}
