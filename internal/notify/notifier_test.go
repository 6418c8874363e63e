package notify

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"serverest-suite/internal/common/config"
	"serverest-suite/internal/common/errors"
	"serverest-suite/internal/common/logger"
	"serverest-suite/internal/models"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) PublishToTopic(ctx context.Context, topicARN, subject, message string) (string, error) {
	args := m.Called(ctx, topicARN, subject, message)
	return args.String(0), args.Error(1)
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendTextEmail(ctx context.Context, from string, to []string, subject, body string) (string, error) {
	args := m.Called(ctx, from, to, subject, body)
	return args.String(0), args.Error(1)
}

func notifyConfig(onlyOnFailure bool) config.NotificationConfig {
	var cfg config.NotificationConfig
	cfg.OnlyOnFailure = onlyOnFailure
	cfg.SNS.Enabled = true
	cfg.SNS.TopicARN = "arn:aws:sns:us-east-1:123:suite"
	cfg.SES.Enabled = true
	cfg.SES.FromEmail = "qa@example.com"
	cfg.SES.To = []string{"team@example.com"}
	return cfg
}

func summary(failed int) *models.RunSummary {
	start := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s := &models.RunSummary{RunID: "run-1", Env: "prod", BaseURL: "https://serverest.dev", Started: start, Finished: start.Add(2 * time.Second)}
	s.Results = append(s.Results, models.ScenarioResult{ID: "login.ct01", Suite: "login", Name: "valid login", Status: models.StatusPassed})
	s.Passed = 1
	for i := 0; i < failed; i++ {
		s.Results = append(s.Results, models.ScenarioResult{
			ID: fmt.Sprintf("users.ct%02d", i+1), Suite: "users", Name: "user case", Status: models.StatusFailed,
			ErrorCode: "UNEXPECTED_STATUS", Message: "expected status 200, got 500",
		})
		s.Failed++
	}
	return s
}

func TestCompose(t *testing.T) {
	subject, body := Compose(summary(2))
	assert.Equal(t, "[serverest-suite] FAILED on prod: 1 passed, 2 failed", subject)
	assert.Contains(t, body, "Target:   https://serverest.dev (prod)")
	assert.Contains(t, body, "- users.ct01 user case [UNEXPECTED_STATUS] expected status 200, got 500")
	assert.NotContains(t, body, "login.ct01")

	subject, body = Compose(summary(0))
	assert.Equal(t, "[serverest-suite] PASSED on prod: 1 passed, 0 failed", subject)
	assert.NotContains(t, body, "Failures:")

	_, body = Compose(summary(maxFailuresListed + 3))
	assert.Contains(t, body, "... and 3 more")
}

func TestNotifier_SendsOnBothChannels(t *testing.T) {
	pub := new(mockPublisher)
	mail := new(mockMailer)
	s := summary(1)
	subject, body := Compose(s)

	pub.On("PublishToTopic", mock.Anything, "arn:aws:sns:us-east-1:123:suite", subject, body).Return("sns-1", nil).Once()
	mail.On("SendTextEmail", mock.Anything, "qa@example.com", []string{"team@example.com"}, subject, body).Return("ses-1", nil).Once()

	n := New(notifyConfig(true), pub, mail, logger.NewTestLogger(t))
	sent, err := n.Send(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, sent, 2)
	assert.Equal(t, models.ChannelSNS, sent[0].Channel)
	assert.Equal(t, "sns-1", sent[0].MessageID)
	assert.Equal(t, models.NotificationSent, sent[1].Status)
	assert.Equal(t, "run-1", sent[1].RunID)

	pub.AssertExpectations(t)
	mail.AssertExpectations(t)
}

func TestNotifier_SkipsSuccessfulRunsWhenOnlyOnFailure(t *testing.T) {
	pub := new(mockPublisher)
	mail := new(mockMailer)

	n := New(notifyConfig(true), pub, mail, nil)
	require.NoError(t, n.Write(context.Background(), summary(0)))
	pub.AssertNotCalled(t, "PublishToTopic", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mail.AssertNotCalled(t, "SendTextEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	pub.On("PublishToTopic", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("sns-2", nil).Once()
	mail.On("SendTextEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ses-2", nil).Once()
	require.NoError(t, New(notifyConfig(false), pub, mail, nil).Write(context.Background(), summary(0)))
	pub.AssertExpectations(t)
}

func TestNotifier_ChannelFailureIsReportedAndOthersStillSend(t *testing.T) {
	pub := new(mockPublisher)
	mail := new(mockMailer)
	boom := stderrors.New("throttled")
	pub.On("PublishToTopic", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", boom).Once()
	mail.On("SendTextEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("ses-3", nil).Once()

	sent, err := New(notifyConfig(true), pub, mail, logger.NewTestLogger(t)).Send(context.Background(), summary(1))
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.True(t, errors.Is(err, errors.ErrCodeNotificationSendFailed))
	require.Len(t, sent, 2)
	assert.Equal(t, models.NotificationFailed, sent[0].Status)
	assert.Equal(t, models.NotificationSent, sent[1].Status)
}

func TestNotifier_DisabledChannels(t *testing.T) {
	cfg := notifyConfig(false)
	cfg.SES.Enabled = false

	pub := new(mockPublisher)
	pub.On("PublishToTopic", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("sns-4", nil).Once()

	sent, err := New(cfg, pub, nil, nil).Send(context.Background(), summary(1))
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "notify", New(cfg, nil, nil, nil).Name())
}
