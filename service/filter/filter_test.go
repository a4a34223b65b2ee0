package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func users() []map[string]interface{} {
	return []map[string]interface{}{
		{"name": "John", "email": "johnson@mail.com", "address": "USA", "age": 30},
		{"name": "John", "email": "tom@mail.com", "address": "England", "age": 41},
		{"name": "Mark", "email": "mark@mail.com", "address": "England", "age": 30},
	}
}

func TestService_Filter(t *testing.T) {
	var testCases = []struct {
		description string
		conditions  Conditions
		expect      []string
	}{
		{description: "all conditions", conditions: Conditions{"address": "England", "name": "John"}, expect: []string{"tom@mail.com"}},
		{description: "empty condition dropped", conditions: Conditions{"address": "", "name": "John"}, expect: []string{"johnson@mail.com", "tom@mail.com"}},
		{description: "no conditions", conditions: Conditions{}, expect: []string{"johnson@mail.com", "tom@mail.com", "mark@mail.com"}},
		{description: "loose numeric equality", conditions: Conditions{"age": "30"}, expect: []string{"johnson@mail.com", "mark@mail.com"}},
		{description: "missing key", conditions: Conditions{"phone": "1"}, expect: []string{}},
		{description: "no match", conditions: Conditions{"name": "Anna"}, expect: []string{}},
	}
	srv := New()
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			actual, err := srv.Filter(users(), testCase.conditions)
			require.NoError(t, err)
			emails := make([]string, 0, len(actual))
			for _, record := range actual {
				emails = append(emails, record["email"].(string))
			}
			assert.EqualValues(t, testCase.expect, emails)
		})
	}
}

func TestConditions_Normalize(t *testing.T) {
	conditions := Conditions{"address": "", "name": "John", "age": 0}
	normalized := conditions.Normalize()
	assert.Equal(t, Conditions{"name": "John", "age": 0}, normalized)
	assert.Len(t, conditions, 3)
}
