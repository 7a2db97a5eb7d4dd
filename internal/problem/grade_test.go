package problem_test

import (
	"testing"

	"github.com/mathbuddy/mathbuddy/internal/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnswer(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"42", 42},
		{" 42.5 ", 42.5},
		{"1,234", 1234},
		{"1,234,567.89", 1234567.89},
		{"-17", -17},
	}
	for _, tc := range cases {
		got, err := problem.ParseAnswer(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestParseAnswer_Rejects(t *testing.T) {
	for _, in := range []string{"abc", "", "   ", "12abc", "NaN", "Inf", "-Inf"} {
		_, err := problem.ParseAnswer(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestGrade_Tolerance(t *testing.T) {
	user, err := problem.ParseAnswer("42.0000000001")
	require.NoError(t, err)
	assert.True(t, problem.Grade(user, 42), "representation noise is absorbed")

	user, err = problem.ParseAnswer("42.1")
	require.NoError(t, err)
	assert.False(t, problem.Grade(user, 42), "a genuinely wrong answer is rejected")
}

func TestGrade_ExactMatch(t *testing.T) {
	assert.True(t, problem.Grade(0.3, 0.1+0.2))
	assert.False(t, problem.Grade(-5, 5))
}
