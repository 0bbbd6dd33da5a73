package sqltext

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upper replaces every marker with its uppercased name, making substitutions
// easy to spot in expectations.
func upper(name string) (string, error) {
	return "<" + name + ">", nil
}

func TestReplaceNamed(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  string
	}{
		{
			name:  "plain markers",
			query: "SELECT * FROM Users WHERE Id = @id AND Name = @name",
			want:  "SELECT * FROM Users WHERE Id = <id> AND Name = <name>",
		},
		{
			name:  "marker inside string literal untouched",
			query: "SELECT '@id' AS lit WHERE a = @a",
			want:  "SELECT '@id' AS lit WHERE a = <a>",
		},
		{
			name:  "doubled quote escape",
			query: "SELECT 'it''s @not a param' WHERE a = @a",
			want:  "SELECT 'it''s @not a param' WHERE a = <a>",
		},
		{
			name:  "quoted identifier untouched",
			query: `SELECT "col@umn" FROM t WHERE a = @a`,
			want:  `SELECT "col@umn" FROM t WHERE a = <a>`,
		},
		{
			name:  "backtick identifier untouched",
			query: "SELECT `we@ird` FROM t WHERE a = @a",
			want:  "SELECT `we@ird` FROM t WHERE a = <a>",
		},
		{
			name:  "bracketed identifier untouched",
			query: "SELECT [col@umn] FROM t WHERE a = @a",
			want:  "SELECT [col@umn] FROM t WHERE a = <a>",
		},
		{
			name:  "line comment untouched",
			query: "SELECT 1 -- @nope\nWHERE a = @a",
			want:  "SELECT 1 -- @nope\nWHERE a = <a>",
		},
		{
			name:  "block comment untouched",
			query: "SELECT /* @nope */ @a",
			want:  "SELECT /* @nope */ <a>",
		},
		{
			name:  "dollar-quoted block untouched",
			query: "SELECT $tag$ @nope $tag$ WHERE a = @a",
			want:  "SELECT $tag$ @nope $tag$ WHERE a = <a>",
		},
		{
			name:  "tsql global untouched",
			query: "SELECT @@IDENTITY, @a",
			want:  "SELECT @@IDENTITY, <a>",
		},
		{
			name:  "repeated marker",
			query: "WHERE a = @a OR b = @a",
			want:  "WHERE a = <a> OR b = <a>",
		},
		{
			name:  "bare at sign passes through",
			query: "SELECT 'x' + @ + 'y'",
			want:  "SELECT 'x' + @ + 'y'",
		},
		{
			name:  "no markers",
			query: "SELECT 1",
			want:  "SELECT 1",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReplaceNamed(tc.query, upper)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestReplaceNamed_ReplErrorPropagates(t *testing.T) {
	_, err := ReplaceNamed("WHERE a = @missing", func(name string) (string, error) {
		return "", fmt.Errorf("no value for %s", name)
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestReplaceNamed_UnterminatedSections(t *testing.T) {
	for _, q := range []string{
		"SELECT 'unterminated",
		`SELECT "unterminated`,
		"SELECT /* unterminated",
		"SELECT $tag$ unterminated",
		"SELECT [unterminated",
	} {
		_, err := ReplaceNamed(q, upper)
		assert.Error(t, err, "query %q", q)
	}
}
