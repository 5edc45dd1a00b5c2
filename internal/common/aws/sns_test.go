// internal/common/aws/sns_test.go
package aws

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devicelife-worker/internal/models"
)

type fakeSNS struct {
	input *sns.PublishInput
	err   error
}

func (f *fakeSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSNSClient_PublishEvaluationCompleted(t *testing.T) {
	fake := &fakeSNS{}
	client := &SNSClient{client: fake, topicARN: "arn:aws:sns:ap-northeast-2:123:evaluations"}

	result := models.EvaluationResult{CombinationID: 11, EvaluationVersion: 2, TotalScore: 230}
	id, err := client.PublishEvaluationCompleted(context.Background(), 99, result)
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)

	require.NotNil(t, fake.input)
	assert.Equal(t, client.TopicARN(), aws.ToString(fake.input.TopicArn))
	assert.Equal(t, "11", aws.ToString(fake.input.MessageAttributes["combinationId"].StringValue))

	var event EvaluationCompletedEvent
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(fake.input.Message)), &event))
	assert.Equal(t, EventEvaluationCompleted, event.EventType)
	assert.Equal(t, int64(99), event.JobKey)
	assert.Equal(t, result, event.Result)
}

func TestSNSClient_PublishError(t *testing.T) {
	client := &SNSClient{client: &fakeSNS{err: errors.New("throttled")}, topicARN: "arn"}

	_, err := client.PublishEvaluationCompleted(context.Background(), 1, models.EvaluationResult{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}
