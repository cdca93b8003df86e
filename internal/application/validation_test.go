package application_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/blogpages/internal/application"
)

func TestNewRepositoryConfig(t *testing.T) {
	cfg, err := application.NewRepositoryConfig(" https://example.com/ada/blog-site.git/ ", " Ada ", "ada@example.com")

	require.NoError(t, err)
	assert.Equal(t, "https://example.com/ada/blog-site.git", cfg.RemoteURL)
	assert.Equal(t, "blog-site.git", cfg.RepositoryName)
	assert.Equal(t, "Ada", cfg.AuthorName)
	assert.Equal(t, "ada@example.com", cfg.AuthorEmail)
	assert.Empty(t, cfg.ActiveBranch)
	assert.Zero(t, cfg.LastExportEpoch)
}

func TestNewRepositoryConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		user      string
		email     string
		wantField string
	}{
		{name: "ssh url", url: "git@example.com:ada/blog.git", user: "Ada", email: "ada@example.com", wantField: "url"},
		{name: "empty url", url: "", user: "Ada", email: "ada@example.com", wantField: "url"},
		{name: "no repository path", url: "https://example.com/", user: "Ada", email: "ada@example.com", wantField: "url"},
		{name: "parent segment", url: "https://example.com/..", user: "Ada", email: "ada@example.com", wantField: "url"},
		{name: "empty user", url: "https://example.com/blog.git", user: "  ", email: "ada@example.com", wantField: "user"},
		{name: "email without at", url: "https://example.com/blog.git", user: "Ada", email: "ada.example.com", wantField: "email"},
		{name: "email without domain dot", url: "https://example.com/blog.git", user: "Ada", email: "ada@example", wantField: "email"},
		{name: "email too short", url: "https://example.com/blog.git", user: "Ada", email: "a@b", wantField: "email"},
		{name: "email with space", url: "https://example.com/blog.git", user: "Ada", email: "a da@example.com", wantField: "email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := application.NewRepositoryConfig(tt.url, tt.user, tt.email)

			var valErr *application.ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, tt.wantField, valErr.Field)
		})
	}
}
