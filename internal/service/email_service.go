package service

import (
	"context"
	"fmt"
	"html"
	"strings"

	"ebdmanager/internal/logging"
	"ebdmanager/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog"
)

// sesClient is the part of the SES v2 client the service uses.
type sesClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService handles sending emails via Amazon SES
type EmailService struct {
	client    sesClient
	fromEmail string
	fromName  string
	enabled   bool
	debug     bool
	logger    zerolog.Logger
}

// NewEmailService creates a new email service
func NewEmailService(ctx context.Context, awsRegion, fromEmail, fromName string, debug bool, logger zerolog.Logger) (*EmailService, error) {
	logger = logging.Component(logger, "email_service")

	// If fromEmail is empty, create a disabled service
	if fromEmail == "" {
		logger.Info().Msg("email service disabled: SES_FROM_EMAIL not configured")
		return &EmailService{
			enabled: false,
			debug:   debug,
			logger:  logger,
		}, nil
	}

	if debug {
		logger.Debug().
			Str("region", awsRegion).
			Str("from_email", fromEmail).
			Str("from_name", fromName).
			Msg("initializing email service with AWS SES")
	}

	// Load AWS configuration
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(awsRegion),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	logger.Info().Str("from", fromEmail).Str("region", awsRegion).Msg("email service enabled")

	return newEmailServiceWithClient(sesv2.NewFromConfig(cfg), fromEmail, fromName, debug, logger), nil
}

func newEmailServiceWithClient(client sesClient, fromEmail, fromName string, debug bool, logger zerolog.Logger) *EmailService {
	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		enabled:   true,
		debug:     debug,
		logger:    logger,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendLowFrequencyNotice tells the secretary which students were deactivated
// for low frequency.
func (s *EmailService) SendLowFrequencyNotice(ctx context.Context, toEmail, churchName string, streaks []models.AbsenceStreak) error {
	if !s.enabled {
		s.logger.Info().Str("to", toEmail).Msg("skipping email send (service disabled): low-frequency notice")
		return nil
	}

	subject := fmt.Sprintf("%s: %d aluno(s) desativado(s) por baixa frequência", churchName, len(streaks))
	htmlBody, textBody := lowFrequencyBodies(churchName, streaks)

	if s.debug {
		s.logger.Debug().
			Str("subject", subject).
			Int("html_bytes", len(htmlBody)).
			Int("text_bytes", len(textBody)).
			Msg("sending low-frequency notice")
	}

	return s.sendEmail(ctx, toEmail, subject, htmlBody, textBody)
}

func lowFrequencyBodies(churchName string, streaks []models.AbsenceStreak) (string, string) {
	var rows, lines strings.Builder
	for _, st := range streaks {
		fmt.Fprintf(&rows, "\t\t\t\t<tr><td>%s</td><td>%s</td><td>%d</td></tr>\n",
			html.EscapeString(st.StudentName), html.EscapeString(st.ClassID), st.ConsecutiveAbsences)
		fmt.Fprintf(&lines, "- %s (turma %s): %d faltas seguidas\n", st.StudentName, st.ClassID, st.ConsecutiveAbsences)
	}

	htmlBody := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		table { width: 100%%; border-collapse: collapse; }
		td, th { border-bottom: 1px solid #ddd; padding: 6px; text-align: left; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>%s</h1>
		</div>
		<div class="content">
			<p>Os alunos abaixo foram desativados por baixa frequência na EBD:</p>
			<table>
				<tr><th>Aluno</th><th>Turma</th><th>Faltas seguidas</th></tr>
%s			</table>
		</div>
		<div class="footer">
			<p>Este é um email automático. Por favor, não responda.</p>
		</div>
	</div>
</body>
</html>
`, html.EscapeString(churchName), rows.String())

	textBody := fmt.Sprintf(`%s

Os alunos abaixo foram desativados por baixa frequência na EBD:

%s
---
Este é um email automático. Por favor, não responda.
`, churchName, lines.String())

	return htmlBody, textBody
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &types.Body{
					Html: &types.Content{
						Data:    aws.String(htmlBody),
						Charset: aws.String("UTF-8"),
					},
					Text: &types.Content{
						Data:    aws.String(textBody),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		s.logger.Debug().Str("message_id", *result.MessageId).Msg("SES SendEmail succeeded")
	}

	s.logger.Info().Str("to", toEmail).Str("subject", subject).Msg("email sent successfully")
	return nil
}
