package database

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"archgen/internal/model"
)

// UUID converts a uuid.UUID into its pgtype form.
func UUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

// Text maps nil to SQL NULL.
func Text(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func uuidPtr(u pgtype.UUID) *uuid.UUID {
	if !u.Valid {
		return nil
	}
	id := uuid.UUID(u.Bytes)
	return &id
}

// EncodeTree serializes tree entries for the file_tree column.
func EncodeTree(entries []model.TreeEntry) ([]byte, error) {
	if entries == nil {
		entries = []model.TreeEntry{}
	}
	return json.Marshal(entries)
}

// ToModel converts a stored repository row. file_tree is NOT NULL DEFAULT
// '[]'; an empty value still decodes as an empty tree and malformed JSON is an
// error.
func (r Repository) ToModel() (*model.Repository, error) {
	repo := &model.Repository{
		ID:              r.ID,
		GithubRepoID:    r.GithubRepoID,
		Name:            r.Name,
		FullName:        r.FullName,
		Description:     textPtr(r.Description),
		URL:             textPtr(r.Url),
		DiagramCode:     textPtr(r.DiagramCode),
		DocumentationMD: textPtr(r.DocumentationMd),
		UserID:          uuidPtr(r.UserID),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if len(r.FileTree) > 0 {
		if err := json.Unmarshal(r.FileTree, &repo.FileTree); err != nil {
			return nil, fmt.Errorf("decode file_tree for repo %d: %w", r.GithubRepoID, err)
		}
	}
	return repo, nil
}

func (i Installation) ToModel() *model.Installation {
	inst := &model.Installation{
		ID:                   i.ID,
		GithubInstallationID: i.GithubInstallationID,
		AccountLogin:         i.AccountLogin,
		CreatedAt:            i.CreatedAt,
		UpdatedAt:            i.UpdatedAt,
	}
	if i.DeletedAt.Valid {
		t := i.DeletedAt.Time
		inst.DeletedAt = &t
	}
	return inst
}
