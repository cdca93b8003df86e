package application

import (
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/ericfisherdev/blogpages/internal/domain/model"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// NewRepositoryConfig validates user input and builds a fresh config. The
// repository name is the last path segment of the remote URL.
func NewRepositoryConfig(remoteURL, authorName, authorEmail string) (model.RepositoryConfig, error) {
	remoteURL = strings.TrimSpace(remoteURL)
	if !strings.HasPrefix(remoteURL, "http") {
		return model.RepositoryConfig{}, &ValidationError{Field: "url", Message: "must start with http"}
	}
	remoteURL = strings.TrimRight(remoteURL, "/")

	u, err := url.Parse(remoteURL)
	if err != nil || u.Host == "" {
		return model.RepositoryConfig{}, &ValidationError{Field: "url", Message: "is not a valid address"}
	}
	name := path.Base(u.Path)
	if u.Path == "" || name == "/" || name == "." || name == ".." {
		return model.RepositoryConfig{}, &ValidationError{Field: "url", Message: "must name a repository"}
	}

	authorName = strings.TrimSpace(authorName)
	if authorName == "" {
		return model.RepositoryConfig{}, &ValidationError{Field: "user", Message: "must not be empty"}
	}

	authorEmail = strings.TrimSpace(authorEmail)
	if len(authorEmail) < 5 || !emailPattern.MatchString(authorEmail) {
		return model.RepositoryConfig{}, &ValidationError{Field: "email", Message: "is not a valid address"}
	}

	return model.RepositoryConfig{
		RemoteURL:      remoteURL,
		RepositoryName: name,
		AuthorName:     authorName,
		AuthorEmail:    authorEmail,
	}, nil
}
