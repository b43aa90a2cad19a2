// Package webhook verifies and dispatches GitHub webhook deliveries.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v62/github"

	"archgen/internal/model"
	"archgen/internal/syncer"
)

// State is a step of a delivery's lifecycle. It only appears in logs.
type State string

const (
	StateReceived            State = "received"
	StateSignatureChecked    State = "signature_checked"
	StateDispatched          State = "dispatched"
	StatePushHandled         State = "push_handled"
	StatePingHandled         State = "ping_handled"
	StatePRHandled           State = "pull_request_handled"
	StateInstallationHandled State = "installation_handled"
	StateOtherLogged         State = "other_logged"
	StateAcknowledged        State = "acknowledged"
)

const ackMessage = "Webhook received and verified"

// ErrInvalidSignature is returned by Handle when the delivery is not signed
// with the configured secret.
var ErrInvalidSignature = errors.New("invalid signature")

// Syncer is the part of the repository syncer driven by webhook events.
type Syncer interface {
	AppConfigured() bool
	SyncPush(ctx context.Context, target syncer.PushTarget) (*model.Repository, error)
	RecordInstallation(ctx context.Context, installationID int64, accountLogin string) (*model.Installation, error)
	RemoveInstallation(ctx context.Context, installationID int64) error
}

// Delivery is one webhook request as received over HTTP.
type Delivery struct {
	Event      string
	DeliveryID string
	Signature  string
	Body       []byte
}

// Result is the acknowledgement body.
type Result struct {
	Success    bool   `json:"success"`
	Event      string `json:"event"`
	DeliveryID string `json:"delivery_id"`
	Message    string `json:"message"`
}

// Orchestrator runs a delivery from receipt to acknowledgement.
type Orchestrator struct {
	secret string
	syncer Syncer
	logger *slog.Logger
}

func NewOrchestrator(secret string, s Syncer, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{secret: secret, syncer: s, logger: logger}
}

// Handle verifies and dispatches d. It returns ErrInvalidSignature for an
// unsigned delivery and another error only when the payload cannot be
// decoded. Failures of the sync step are logged and the delivery is still
// acknowledged, so GitHub does not redeliver it.
func (o *Orchestrator) Handle(ctx context.Context, d Delivery) (*Result, error) {
	logger := o.logger.With("event", d.Event, "delivery_id", d.DeliveryID)
	logger.Info("Webhook delivery", "state", StateReceived, "bytes", len(d.Body))

	if !VerifySignature(d.Body, d.Signature, o.secret) {
		logger.Warn("Rejected webhook delivery", "reason", "invalid signature")
		return nil, ErrInvalidSignature
	}
	logger.Debug("Webhook delivery", "state", StateSignatureChecked)

	state, err := o.dispatch(ctx, logger, d)
	if err != nil {
		return nil, err
	}
	logger.Info("Webhook delivery", "state", StateAcknowledged, "handled_as", state)

	return &Result{
		Success:    true,
		Event:      d.Event,
		DeliveryID: d.DeliveryID,
		Message:    ackMessage,
	}, nil
}

func (o *Orchestrator) dispatch(ctx context.Context, logger *slog.Logger, d Delivery) (State, error) {
	switch d.Event {
	case "push", "ping", "pull_request", "installation":
	default:
		if !json.Valid(d.Body) {
			return "", fmt.Errorf("decode %q payload: invalid JSON", d.Event)
		}
		logger.Info("Unhandled webhook event", "state", StateOtherLogged)
		return StateOtherLogged, nil
	}

	payload, err := github.ParseWebHook(d.Event, d.Body)
	if err != nil {
		return "", fmt.Errorf("decode %q payload: %w", d.Event, err)
	}
	logger.Debug("Webhook delivery", "state", StateDispatched)

	switch event := payload.(type) {
	case *github.PushEvent:
		o.handlePush(ctx, logger, event)
		return StatePushHandled, nil
	case *github.PingEvent:
		logger.Info("Ping received", "zen", event.GetZen(), "hook_id", event.GetHookID())
		return StatePingHandled, nil
	case *github.PullRequestEvent:
		logger.Info("Pull request event",
			"action", event.GetAction(),
			"number", event.GetNumber(),
			"title", event.GetPullRequest().GetTitle(),
			"repo", event.GetRepo().GetFullName(),
		)
		return StatePRHandled, nil
	case *github.InstallationEvent:
		o.handleInstallation(ctx, logger, event)
		return StateInstallationHandled, nil
	default:
		logger.Info("Unhandled webhook event", "state", StateOtherLogged)
		return StateOtherLogged, nil
	}
}

func (o *Orchestrator) handlePush(ctx context.Context, logger *slog.Logger, event *github.PushEvent) {
	target := syncer.PushTarget{
		InstallationID: event.GetInstallation().GetID(),
		GithubRepoID:   event.GetRepo().GetID(),
		FullName:       event.GetRepo().GetFullName(),
		Ref:            event.GetRef(),
	}
	logger = logger.With("repo", target.FullName, "github_repo_id", target.GithubRepoID)
	logger.Info("Push received", "ref", target.Ref, "commits", len(event.Commits), "pusher", event.GetPusher().GetName())

	switch {
	case target.InstallationID == 0:
		logger.Warn("Push has no installation id, skipping tree sync")
		return
	case target.GithubRepoID == 0 || target.FullName == "":
		logger.Warn("Push has no repository, skipping tree sync")
		return
	case !o.syncer.AppConfigured():
		logger.Warn("GitHub App credentials not configured, skipping tree sync")
		return
	}

	repo, err := o.syncer.SyncPush(ctx, target)
	if err != nil {
		logger.Error("Tree sync failed", "installation_id", target.InstallationID, "error", err)
		return
	}
	logger.Info("Tree synced", "entries", len(repo.FileTree))
}

func (o *Orchestrator) handleInstallation(ctx context.Context, logger *slog.Logger, event *github.InstallationEvent) {
	id := event.GetInstallation().GetID()
	login := event.GetInstallation().GetAccount().GetLogin()
	logger = logger.With("installation_id", id, "action", event.GetAction())
	if id == 0 {
		logger.Warn("Installation event has no installation id")
		return
	}

	var err error
	switch event.GetAction() {
	case "created", "unsuspend", "new_permissions_accepted":
		_, err = o.syncer.RecordInstallation(ctx, id, login)
	case "deleted":
		err = o.syncer.RemoveInstallation(ctx, id)
	default:
		logger.Info("Installation event ignored")
		return
	}
	if err != nil {
		logger.Error("Installation update failed", "error", err)
	}
}
