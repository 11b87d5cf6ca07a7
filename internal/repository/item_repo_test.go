package repository

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func searchPattern(t *testing.T, filter bson.M) string {
	t.Helper()
	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	require.NotEmpty(t, or)
	field, ok := or[0].(bson.M)["title"].(bson.M)
	require.True(t, ok)
	pattern, ok := field["$regex"].(string)
	require.True(t, ok)
	return pattern
}

func TestSearchFilterEscapesMetacharacters(t *testing.T) {
	cases := []struct {
		term string
		want string
	}{
		{"lamp", "lamp"},
		{"c++", `c\+\+`},
		{"(", `\(`},
		{"50% off", `50% off`},
		{"a.b*c", `a\.b\*c`},
	}
	for _, tc := range cases {
		t.Run(tc.term, func(t *testing.T) {
			pattern := searchPattern(t, searchFilter(tc.term))
			assert.Equal(t, tc.want, pattern)

			// patterns must always compile and match the term literally
			re, err := regexp.Compile(pattern)
			require.NoError(t, err)
			assert.True(t, re.MatchString("xx"+tc.term+"xx"))
		})
	}
}

func TestSearchFilterScopesToAvailable(t *testing.T) {
	filter := searchFilter("desk")
	assert.Equal(t, true, filter["is_available"])
	or, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	assert.Len(t, or, 3)
}
