package audit

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/authbridge/gateway/internal/profiles"
	"github.com/authbridge/gateway/internal/sessions"
	"github.com/authbridge/gateway/pkg/logger"
)

// Entry is one recorded auth event.
type Entry struct {
	ID         string    `bson:"_id,omitempty"`
	Event      string    `bson:"event"`
	IdentityID string    `bson:"identityId,omitempty"`
	Email      string    `bson:"email,omitempty"`
	Detail     string    `bson:"detail,omitempty"`
	CreatedAt  time.Time `bson:"createdAt"`
}

// Recorder persists audit entries. Recording is best-effort everywhere it is
// wired: a failed write is logged and never propagates.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// MongoRecorder stores entries in a Mongo collection.
type MongoRecorder struct {
	col *mongo.Collection
}

func NewMongoRecorder(col *mongo.Collection) *MongoRecorder {
	return &MongoRecorder{col: col}
}

func (r *MongoRecorder) Record(ctx context.Context, e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.InsertOne(ctx, e)
	return err
}

// NopRecorder discards entries. Used when no audit store is configured.
type NopRecorder struct{}

func (NopRecorder) Record(ctx context.Context, e Entry) error { return nil }

// OutcomeHook returns a reconciler outcome callback that records each pass
// as an entry. Failures are logged, never propagated.
func OutcomeHook(rec Recorder) func(sessions.Identity, profiles.Outcome) {
	return func(ident sessions.Identity, out profiles.Outcome) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		e := Entry{
			Event:      "PROFILE_RECONCILED",
			IdentityID: ident.ID.String(),
			Email:      ident.Email,
			Detail:     string(out),
			CreatedAt:  time.Now().UTC(),
		}
		if err := rec.Record(ctx, e); err != nil {
			logger.Warnf("audit record failed for reconciliation of %s: %v", ident.ID, err)
		}
	}
}

// Attach subscribes rec to the auth change stream and returns the
// unsubscribe handle.
func Attach(stream *sessions.Stream, rec Recorder) func() {
	return stream.Subscribe(func(ev sessions.Event) {
		e := Entry{Event: string(ev.Type), CreatedAt: time.Now().UTC()}
		if ev.Session != nil {
			e.IdentityID = ev.Session.Identity.ID.String()
			e.Email = ev.Session.Identity.Email
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rec.Record(ctx, e); err != nil {
			logger.Warnf("audit record failed for %s: %v", ev.Type, err)
		}
	})
}
