package audit_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"studiogate/internal/audit"
)

type PipelineSuite struct {
	suite.Suite
	logger *slog.Logger
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineSuite))
}

func (s *PipelineSuite) SetupTest() {
	s.logger = slog.New(slog.DiscardHandler)
}

func (s *PipelineSuite) TestEmitStampsTimestampAndCategory() {
	pub := audit.NewPublisher(s.logger, 4)
	pub.Emit(context.Background(), audit.Event{
		Action:    string(audit.EventEligibilityDenied),
		SubjectID: "uid_a",
	})

	event := <-pub.Inbox()
	s.False(event.Timestamp.IsZero())
	s.Equal(audit.CategoryMembership, event.Category)
}

func (s *PipelineSuite) TestEmitKeepsExplicitCategory() {
	pub := audit.NewPublisher(s.logger, 4)
	pub.Emit(context.Background(), audit.Event{
		Action:   string(audit.EventSessionEstablished),
		Category: audit.CategorySecurity,
	})

	event := <-pub.Inbox()
	s.Equal(audit.CategorySecurity, event.Category)
}

func (s *PipelineSuite) TestEmitDropsWhenBufferFull() {
	pub := audit.NewPublisher(s.logger, 1)
	pub.Emit(context.Background(), audit.Event{Action: "first"})
	pub.Emit(context.Background(), audit.Event{Action: "second"})

	event := <-pub.Inbox()
	s.Equal("first", event.Action)

	select {
	case extra := <-pub.Inbox():
		s.Failf("unexpected event", "got %q", extra.Action)
	default:
	}
}

func (s *PipelineSuite) TestWorkerPersistsEvents() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := audit.NewInMemoryStore()
	pub := audit.NewPublisher(s.logger, 16)
	worker := audit.NewWorker(store, pub.Inbox(), s.logger)

	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	pub.Emit(ctx, audit.Event{Action: string(audit.EventSessionEstablished), SubjectID: "uid_a"})
	pub.Emit(ctx, audit.Event{Action: string(audit.EventSignedOut), SubjectID: "uid_a"})

	s.Eventually(func() bool {
		events, err := store.ListBySubject(ctx, "uid_a")
		return err == nil && len(events) == 2
	}, time.Second, 10*time.Millisecond)

	cancel()
	s.ErrorIs(<-done, context.Canceled)
}

func (s *PipelineSuite) TestWorkerFansOutToSinks() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := audit.NewInMemoryStore()
	sink := &recordingSink{events: make(chan audit.Event, 4)}
	pub := audit.NewPublisher(s.logger, 16)
	worker := audit.NewWorker(store, pub.Inbox(), s.logger, sink)

	go func() { _ = worker.Run(ctx) }()

	pub.Emit(ctx, audit.Event{Action: string(audit.EventMemberProvisioned), SubjectID: "uid_new"})

	select {
	case event := <-sink.events:
		s.Equal(string(audit.EventMemberProvisioned), event.Action)
	case <-time.After(time.Second):
		s.Fail("sink never received the event")
	}
}

type recordingSink struct {
	events chan audit.Event
}

func (r *recordingSink) Publish(_ context.Context, event audit.Event) error {
	r.events <- event
	return nil
}
