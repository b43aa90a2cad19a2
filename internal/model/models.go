// internal/model/models.go
package model

import (
	"time"

	"github.com/google/uuid"
)

// Tree entry types as reported by the GitHub git trees API.
const (
	EntryTypeBlob = "blob"
	EntryTypeTree = "tree"
)

// TreeEntry is a single path in a repository snapshot.
type TreeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
}

// Repository is a GitHub repository tracked by the system.
type Repository struct {
	ID              int64       `json:"id"`
	GithubRepoID    int64       `json:"github_repo_id"`
	Name            string      `json:"name"`
	FullName        string      `json:"full_name"`
	Description     *string     `json:"description"`
	URL             *string     `json:"url"`
	FileTree        []TreeEntry `json:"file_tree,omitempty"`
	DiagramCode     *string     `json:"diagram_code"`
	DocumentationMD *string     `json:"documentation_md"`
	UserID          *uuid.UUID  `json:"user_id"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// DisplayName prefers the full "owner/name" form.
func (r *Repository) DisplayName() string {
	if r.FullName != "" {
		return r.FullName
	}
	return r.Name
}

// Installation is one installation of the GitHub App.
type Installation struct {
	ID                   int64      `json:"id"`
	GithubInstallationID int64      `json:"github_installation_id"`
	AccountLogin         string     `json:"account_login"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
	DeletedAt            *time.Time `json:"deleted_at,omitempty"`
}

// NodeExplanation is the structured answer for a single diagram node.
type NodeExplanation struct {
	Description   string   `json:"description"`
	TechStack     []string `json:"tech_stack"`
	ProbableFiles []string `json:"probable_files"`
}
