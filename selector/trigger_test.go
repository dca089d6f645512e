package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTriggers(t *testing.T) {
	type testCase struct {
		name     string
		expr     string
		expected []string
		hasError bool
	}

	tests := []testCase{{
		name:     "single keyword",
		expr:     "python",
		expected: []string{"python"},
	}, {
		name:     "alternatives",
		expr:     "code|programming|python",
		expected: []string{"code", "programming", "python"},
	}, {
		name:     "whitespace around pipes",
		expr:     " code | programming\t| python ",
		expected: []string{"code", "programming", "python"},
	}, {
		name:     "keywords are lower-cased",
		expr:     "Code|PYTHON",
		expected: []string{"code", "python"},
	}, {
		name:     "dash and underscore keywords",
		expr:     "unit-test|load_test",
		expected: []string{"unit-test", "load_test"},
	}, {
		name:     "empty expression",
		expr:     "",
		hasError: true,
	}, {
		name:     "trailing pipe",
		expr:     "code|",
		hasError: true,
	}, {
		name:     "leading pipe",
		expr:     "|code",
		hasError: true,
	}, {
		name:     "unexpected character",
		expr:     "code,python",
		hasError: true,
	}}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			keywords, err := ParseTriggers(tc.expr)
			if tc.hasError {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, keywords)
		})
	}
}
