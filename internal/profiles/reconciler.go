package profiles

import (
	"context"
	"time"

	"github.com/authbridge/gateway/internal/sessions"
	"github.com/authbridge/gateway/pkg/logger"
)

// Outcome is the explicit result of one reconciliation pass. Failures that
// must not break the sign-in flow are outcomes, not errors.
type Outcome string

const (
	// OutcomeExists: a profile already exists for the identity; no write.
	OutcomeExists Outcome = "exists"
	// OutcomeCreated: a profile was created from session metadata.
	OutcomeCreated Outcome = "created"
	// OutcomeSkippedMetadata: no profile and metadata lacks first or last
	// name, so there is nothing safe to create from.
	OutcomeSkippedMetadata Outcome = "skipped_metadata"
	// OutcomeAborted: the existence check failed transiently; reconciliation
	// stops without writing to avoid duplicating a profile it cannot see.
	OutcomeAborted Outcome = "aborted"
	// OutcomeCreateFailed: the profile write failed. Logged, non-fatal.
	OutcomeCreateFailed Outcome = "create_failed"
)

// Reconciler ensures a profile exists for every signed-in identity. It is
// best-effort and idempotent: a second pass for an identity that already has
// a profile stops after the existence check.
type Reconciler struct {
	repo    Repository
	timeout time.Duration
}

func NewReconciler(repo Repository) *Reconciler {
	return &Reconciler{repo: repo, timeout: 10 * time.Second}
}

// Reconcile runs one pass for the given identity. The returned error is only
// non-nil for OutcomeCreateFailed and exists for logging; no outcome should
// fail the caller's sign-in.
func (r *Reconciler) Reconcile(ctx context.Context, ident sessions.Identity) (Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	existing, err := r.repo.GetByID(ctx, ident.ID)
	if err != nil {
		logger.Debugf("profile reconciliation aborted for %s: %v", ident.ID, err)
		return OutcomeAborted, nil
	}
	if existing != nil {
		return OutcomeExists, nil
	}
	if !ident.Metadata.HasName() {
		return OutcomeSkippedMetadata, nil
	}

	p := &Profile{
		ID:         ident.ID,
		Email:      ident.Email,
		FirstName:  ident.Metadata.FirstName,
		LastName:   ident.Metadata.LastName,
		Profession: ident.Metadata.Profession,
	}
	if _, err := r.repo.Create(ctx, p); err != nil {
		logger.Warnf("profile creation failed on sign-in for %s: %v", ident.ID, err)
		return OutcomeCreateFailed, err
	}
	return OutcomeCreated, nil
}

// Attach subscribes the reconciler to the auth change stream. Only signed-in
// events trigger a pass; sign-outs and token refreshes do not. onOutcome,
// when non-nil, receives every pass result (metrics/audit hook).
func (r *Reconciler) Attach(stream *sessions.Stream, onOutcome func(sessions.Identity, Outcome)) func() {
	return stream.Subscribe(func(ev sessions.Event) {
		if ev.Type != sessions.EventSignedIn || ev.Session == nil {
			return
		}
		out, _ := r.Reconcile(context.Background(), ev.Session.Identity)
		if onOutcome != nil {
			onOutcome(ev.Session.Identity, out)
		}
	})
}
