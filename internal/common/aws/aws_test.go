package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSNS struct {
	mock.Mock
}

func (m *mockSNS) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sns.PublishOutput), args.Error(1)
}

type mockSES struct {
	mock.Mock
}

func (m *mockSES) SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ses.SendEmailOutput), args.Error(1)
}

func TestSNSClient_PublishToTopic(t *testing.T) {
	api := new(mockSNS)
	api.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		return aws.ToString(in.TopicArn) == "arn:aws:sns:us-east-1:123:suite" &&
			aws.ToString(in.Subject) == "subject" &&
			aws.ToString(in.Message) == "body"
	})).Return(&sns.PublishOutput{MessageId: aws.String("msg-1")}, nil).Once()

	id, err := NewSNSClientFromAPI(api).PublishToTopic(context.Background(), "arn:aws:sns:us-east-1:123:suite", "subject", "body")
	require.NoError(t, err)
	assert.Equal(t, "msg-1", id)
	api.AssertExpectations(t)
}

func TestSESClient_SendTextEmail(t *testing.T) {
	api := new(mockSES)
	api.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *ses.SendEmailInput) bool {
		return aws.ToString(in.Source) == "qa@example.com" &&
			len(in.Destination.ToAddresses) == 2 &&
			aws.ToString(in.Message.Subject.Data) == "subject" &&
			aws.ToString(in.Message.Body.Text.Data) == "body"
	})).Return(&ses.SendEmailOutput{MessageId: aws.String("mail-1")}, nil).Once()

	id, err := NewSESClientFromAPI(api).SendTextEmail(context.Background(), "qa@example.com", []string{"a@example.com", "b@example.com"}, "subject", "body")
	require.NoError(t, err)
	assert.Equal(t, "mail-1", id)
	api.AssertExpectations(t)
}

func TestClients_PropagateErrors(t *testing.T) {
	boom := errors.New("throttled")

	snsAPI := new(mockSNS)
	snsAPI.On("Publish", mock.Anything, mock.Anything).Return(nil, boom)
	_, err := NewSNSClientFromAPI(snsAPI).PublishToTopic(context.Background(), "arn", "s", "m")
	assert.ErrorIs(t, err, boom)

	sesAPI := new(mockSES)
	sesAPI.On("SendEmail", mock.Anything, mock.Anything).Return(nil, boom)
	_, err = NewSESClientFromAPI(sesAPI).SendTextEmail(context.Background(), "f", []string{"t"}, "s", "b")
	assert.ErrorIs(t, err, boom)
}
