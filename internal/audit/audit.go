// Package audit is the optional MongoDB audit sink named in §2.2/§3.1: when
// a Mongo URI is configured, every Supervisor state transition is recorded
// as an AuditEvent document; Task Handler completions are not recorded. It
// is off by default — RoboOne's control-plane servers function identically
// with or without it — matching §5's "neither is on the critical path of
// any wire operation" note.
package audit

import (
	"context"
	"time"

	"roboone/internal/logging"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const defaultCollection = "audit_events"

// AuditEvent is one recorded occurrence (§3.1): a Supervisor transition, a
// Task Handler completion, or any other notable control-plane event worth
// a durable trail.
type AuditEvent struct {
	Kind      string    `bson:"kind"`
	Subject   string    `bson:"subject"`
	Detail    string    `bson:"detail"`
	Timestamp time.Time `bson:"timestamp"`
}

// Sink writes AuditEvents to a MongoDB collection.
type Sink struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// Connect opens a Mongo connection and returns a ready Sink. Callers should
// treat a non-nil error as "run without an audit sink", not a fatal error —
// the control plane's correctness never depends on this succeeding.
func Connect(ctx context.Context, uri, database string) (*Sink, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	logging.Debugf("audit: connected to MongoDB database %q", database)
	return &Sink{
		client:     client,
		collection: client.Database(database).Collection(defaultCollection),
	}, nil
}

// Record inserts one AuditEvent, logging (not propagating) any failure —
// a lost audit record must never interrupt the robot's operation.
func (s *Sink) Record(ctx context.Context, kind, subject, detail string) {
	if s == nil {
		return
	}
	doc := AuditEvent{Kind: kind, Subject: subject, Detail: detail, Timestamp: time.Now()}
	if _, err := s.collection.InsertOne(ctx, bson.M{
		"kind":      doc.Kind,
		"subject":   doc.Subject,
		"detail":    doc.Detail,
		"timestamp": doc.Timestamp,
	}); err != nil {
		logging.Errorf("audit: insert failed: %v", err)
	}
}

// Close disconnects the sink's Mongo client. Safe to call on a nil Sink.
func (s *Sink) Close(ctx context.Context) {
	if s == nil || s.client == nil {
		return
	}
	if err := s.client.Disconnect(ctx); err != nil {
		logging.Errorf("audit: disconnect: %v", err)
	}
}
