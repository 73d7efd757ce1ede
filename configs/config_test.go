package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTerms(t *testing.T) {
	terms, err := parseTerms("3,6,12, 18 ,24,36")
	require.NoError(t, err)
	assert.Equal(t, []int{3, 6, 12, 18, 24, 36}, terms)

	_, err = parseTerms("3,six,12")
	assert.Error(t, err)

	_, err = parseTerms("3,0,12")
	assert.Error(t, err, "terms below one month are rejected")
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	policy := cfg.LoanPolicy()
	assert.False(t, policy.MinCapital.IsZero())
	assert.True(t, policy.MaxCapital.GreaterThan(policy.MinCapital))
	assert.True(t, policy.MonthlyRate.IsPositive())
	assert.True(t, policy.PaymentCeiling.IsPositive())
	assert.NotEmpty(t, policy.AllowedTerms)
}
