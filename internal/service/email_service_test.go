package service

import (
	"context"
	"errors"
	"testing"

	"ebdmanager/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestEmailServiceDisabledWithoutSender(t *testing.T) {
	svc, err := NewEmailService(context.Background(), "us-east-1", "", "EBD", false, testLogger)
	require.NoError(t, err)
	assert.False(t, svc.IsEnabled())
	assert.NoError(t, svc.SendLowFrequencyNotice(context.Background(), "secretaria@igreja.org", "Igreja", nil))
}

func TestSendLowFrequencyNotice(t *testing.T) {
	client := &fakeSES{}
	svc := newEmailServiceWithClient(client, "ebd@igreja.org", "EBD", true, testLogger)

	streaks := []models.AbsenceStreak{
		{StudentID: "s3", StudentName: "Carla <Lima>", ClassID: "c1", ConsecutiveAbsences: 4, Flagged: true},
	}
	require.NoError(t, svc.SendLowFrequencyNotice(context.Background(), "secretaria@igreja.org", "Igreja Central", streaks))

	require.NotNil(t, client.input)
	assert.Equal(t, "EBD <ebd@igreja.org>", aws.ToString(client.input.FromEmailAddress))
	assert.Equal(t, []string{"secretaria@igreja.org"}, client.input.Destination.ToAddresses)

	msg := client.input.Content.Simple
	assert.Contains(t, aws.ToString(msg.Subject.Data), "Igreja Central: 1 aluno(s)")
	assert.Contains(t, aws.ToString(msg.Body.Html.Data), "Carla &lt;Lima&gt;")
	assert.Contains(t, aws.ToString(msg.Body.Text.Data), "- Carla <Lima> (turma c1): 4 faltas seguidas")
}

func TestSendLowFrequencyNoticeWrapsSESError(t *testing.T) {
	boom := errors.New("throttled")
	svc := newEmailServiceWithClient(&fakeSES{err: boom}, "ebd@igreja.org", "", false, testLogger)

	err := svc.SendLowFrequencyNotice(context.Background(), "secretaria@igreja.org", "Igreja", nil)
	assert.ErrorIs(t, err, boom)
}
