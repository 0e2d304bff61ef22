//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"studiogate/internal/audit"
	"studiogate/pkg/testutil/containers"
)

type KafkaSinkSuite struct {
	suite.Suite
	broker *containers.RedpandaContainer
	sink   *audit.KafkaSink
}

func TestKafkaSinkSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaSinkSuite))
}

const testAuditTopic = "studiogate.audit"

func (s *KafkaSinkSuite) SetupSuite() {
	s.broker = containers.NewRedpandaContainer(s.T())

	sink, err := audit.NewKafkaSink(s.broker.Brokers, testAuditTopic)
	s.Require().NoError(err)
	s.sink = sink

	s.Require().NoError(s.sink.EnsureTopic(context.Background(), 1))
}

func (s *KafkaSinkSuite) TearDownSuite() {
	if s.sink != nil {
		s.sink.Close()
	}
}

func (s *KafkaSinkSuite) TestPublishRoundTrip() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	event := audit.Event{
		Category:  audit.CategoryMembership,
		Timestamp: time.Now().UTC(),
		SubjectID: "uid_kafka",
		Action:    string(audit.EventEligibilityDenied),
		Decision:  "deny",
		Reason:    "package_expired",
	}
	s.Require().NoError(s.sink.Publish(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(s.broker.Brokers...),
		kgo.ConsumeTopics(testAuditTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	s.Require().NoError(fetches.Err())

	records := fetches.Records()
	s.Require().NotEmpty(records)
	s.Equal("uid_kafka", string(records[0].Key))

	var doc map[string]any
	s.Require().NoError(json.Unmarshal(records[0].Value, &doc))
	s.Equal(string(audit.EventEligibilityDenied), doc["action"])
	s.Equal("package_expired", doc["reason"])
}

func (s *KafkaSinkSuite) TestEnsureTopicIsIdempotent() {
	s.NoError(s.sink.EnsureTopic(context.Background(), 1))
}
