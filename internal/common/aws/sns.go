// internal/common/aws/sns.go
package aws

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"devicelife-worker/internal/models"
)

const EventEvaluationCompleted = "evaluation.completed"

// snsAPI is the part of the SNS client the publisher calls.
type snsAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SNSClient struct {
	client   snsAPI
	topicARN string
}

func NewSNSClient(ctx context.Context, region, topicARN string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &SNSClient{client: sns.NewFromConfig(cfg), topicARN: topicARN}, nil
}

// EvaluationCompletedEvent is the message body published after a result is accepted.
type EvaluationCompletedEvent struct {
	EventType  string                  `json:"eventType"`
	OccurredAt time.Time               `json:"occurredAt"`
	JobKey     int64                   `json:"jobKey,omitempty"`
	Result     models.EvaluationResult `json:"result"`
}

// PublishEvaluationCompleted announces a finished evaluation and returns the SNS message id.
func (s *SNSClient) PublishEvaluationCompleted(ctx context.Context, jobKey int64, result models.EvaluationResult) (string, error) {
	body, err := json.Marshal(EvaluationCompletedEvent{
		EventType:  EventEvaluationCompleted,
		OccurredAt: time.Now().UTC(),
		JobKey:     jobKey,
		Result:     result,
	})
	if err != nil {
		return "", fmt.Errorf("encode event: %w", err)
	}

	out, err := s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"eventType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(EventEvaluationCompleted),
			},
			"combinationId": {
				DataType:    aws.String("Number"),
				StringValue: aws.String(fmt.Sprintf("%d", result.CombinationID)),
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("publish %s: %w", EventEvaluationCompleted, err)
	}
	return aws.ToString(out.MessageId), nil
}

func (s *SNSClient) TopicARN() string {
	return s.topicARN
}
