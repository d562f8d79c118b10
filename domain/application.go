// Package domain provides core domain types for Pushr.
package domain

import (
	"fmt"
	"path/filepath"

	"github.com/gosimple/slug"
)

// DefaultApplicationName is used when an application has no name configured.
const DefaultApplicationName = "You really should set this to something"

// GitAuthConfig holds Git authentication configuration for an application
type GitAuthConfig struct {
	HTTPAuth *GitHTTPAuthConfig
	SSHAuth  *GitSSHAuthConfig
}

// GitHTTPAuthConfig for HTTP basic authentication (GitHub tokens, etc.)
type GitHTTPAuthConfig struct {
	Username string // "token" for GitHub
	Password string // actual token/password
}

// GitSSHAuthConfig for passwordless SSH key authentication
type GitSSHAuthConfig struct {
	PrivateKey string // PEM-encoded private key as string
	User       string // SSH user (default: "git")
}

// ApplicationConfig describes one deployable application.
type ApplicationConfig struct {
	Name string
	// Path is the location of the deployed copy.
	Path string
	// CachedCopy is an optional sub directory of Path that holds the git working copy
	// of the deployed code, e.g. "shared/cached-copy" for Capistrano layouts.
	CachedCopy string
	// Repository is the location of the source repository working copy.
	Repository    string
	DeployCommand string
	GitAuth       *GitAuthConfig
}

// DisplayName returns the configured name or the placeholder.
func (a ApplicationConfig) DisplayName() string {
	if a.Name == "" {
		return DefaultApplicationName
	}
	return a.Name
}

// Slug returns a URL and lock friendly identifier derived from the display name.
func (a ApplicationConfig) Slug() string {
	return slug.Make(a.DisplayName())
}

// DeployedDir returns the directory holding the git working copy of the deployed code.
func (a ApplicationConfig) DeployedDir() string {
	if a.CachedCopy == "" {
		return a.Path
	}
	return filepath.Join(a.Path, a.CachedCopy)
}

func (a ApplicationConfig) String() string {
	return fmt.Sprintf("%s (%s)", a.DisplayName(), a.Path)
}
