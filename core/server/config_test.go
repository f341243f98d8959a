package server_test

import (
	"testing"

	"inventory-comparer/core/server"

	"github.com/stretchr/testify/assert"
)

func TestConfig_IsValidRuleSet(t *testing.T) {
	tests := []struct {
		name    string
		ruleSet string
		want    bool
	}{
		{"Standard", server.RuleSetStandard, true},
		{"OGF", server.RuleSetOGF, true},
		{"Invalid", "invalid", false},
		{"Empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := server.Config{DefaultRuleSet: tt.ruleSet}
			assert.Equal(t, tt.want, c.IsValidRuleSet())
		})
	}
}
