package bayes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"org.springframework.web", []string{"org", "springframework", "web"}},
		{"StringUtils", []string{"string", "utils"}},
		{"HTTPClientFactory", []string{"http", "client", "factory"}},
		{"log4j", []string{"log4j"}},
		{"PAYROLL-MAIN", []string{"payroll", "main"}},
		{"System.Collections.Generic", []string{"system", "collections", "generic"}},
		{"", nil},
		{"...", nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokens(tt.in))
		})
	}
}

func TestFeatures(t *testing.T) {
	f := Features("ab.C")

	assert.Contains(t, f, "w:ab")
	assert.Contains(t, f, "w:c")
	assert.Contains(t, f, "c:^ab")
	assert.Contains(t, f, "c: c$")
	assert.Nil(t, Features(" "))
}
