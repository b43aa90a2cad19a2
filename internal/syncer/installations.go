package syncer

import (
	"context"

	"github.com/google/uuid"

	"archgen/internal/database"
	custom_errors "archgen/internal/errors"
	"archgen/internal/model"
)

// RecordInstallation stores a new or re-activated App installation.
func (s *Syncer) RecordInstallation(ctx context.Context, installationID int64, accountLogin string) (*model.Installation, error) {
	row, err := s.q.UpsertInstallation(ctx, database.UpsertInstallationParams{
		GithubInstallationID: installationID,
		AccountLogin:         accountLogin,
	})
	if err != nil {
		return nil, custom_errors.Persistence("record installation", err)
	}
	s.logger.Info("Installation recorded", "installation_id", installationID, "account", accountLogin)
	return row.ToModel(), nil
}

// RemoveInstallation soft-deletes an installation. Removing an unknown or
// already removed installation is not an error.
func (s *Syncer) RemoveInstallation(ctx context.Context, installationID int64) error {
	n, err := s.q.MarkInstallationDeleted(ctx, installationID)
	if err != nil {
		return custom_errors.Persistence("remove installation", err)
	}
	s.logger.Info("Installation removed", "installation_id", installationID, "rows", n)
	return nil
}

// LinkInstallation records the installation and attaches userID to it in one
// transaction. It backs the post-install callback.
func (s *Syncer) LinkInstallation(ctx context.Context, installationID int64, accountLogin string, userID uuid.UUID) (*model.Installation, error) {
	if installationID <= 0 {
		return nil, custom_errors.MissingInput("installation_id")
	}

	var inst *model.Installation
	err := s.inTx(ctx, func(q database.Querier) error {
		row, err := q.UpsertInstallation(ctx, database.UpsertInstallationParams{
			GithubInstallationID: installationID,
			AccountLogin:         accountLogin,
		})
		if err != nil {
			return custom_errors.Persistence("record installation", err)
		}
		if err := q.LinkInstallationUser(ctx, database.LinkInstallationUserParams{
			InstallationID: installationID,
			UserID:         database.UUID(userID),
		}); err != nil {
			return custom_errors.Persistence("link installation user", err)
		}
		inst = row.ToModel()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Installation linked", "installation_id", installationID, "user_id", userID)
	return inst, nil
}
