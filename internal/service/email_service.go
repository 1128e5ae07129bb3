package service

import (
	"context"
	"fmt"
	"html"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"interviewsim/internal/models"
	"interviewsim/internal/validation"
)

// sesClient is the part of *sesv2.Client the email service calls
type sesClient interface {
	SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error)
}

// EmailService sends run summaries via Amazon SES
type EmailService struct {
	client    sesClient
	fromEmail string
	fromName  string
	toEmail   string
	enabled   bool
	debug     bool
}

// NewEmailService creates a new email service. It is disabled, and every
// send is skipped, unless both a sender and a summary recipient are set.
func NewEmailService(awsRegion, fromEmail, fromName, toEmail string, debug bool) (*EmailService, error) {
	if fromEmail == "" || toEmail == "" {
		log.Println("Email service disabled: SES_FROM_EMAIL or SUMMARY_EMAIL_TO not configured")
		if debug {
			log.Println("[DEBUG] Email service will skip sending all run summaries")
		}
		return &EmailService{
			enabled: false,
			debug:   debug,
		}, nil
	}

	if err := validation.ValidateEmail(fromEmail); err != nil {
		return nil, fmt.Errorf("invalid SES_FROM_EMAIL: %w", err)
	}
	if err := validation.ValidateEmail(toEmail); err != nil {
		return nil, fmt.Errorf("invalid SUMMARY_EMAIL_TO: %w", err)
	}

	if debug {
		log.Printf("[DEBUG] Initializing email service with AWS SES")
		log.Printf("[DEBUG] AWS Region: %s", awsRegion)
		log.Printf("[DEBUG] From Email: %s", fromEmail)
		log.Printf("[DEBUG] Summary recipient: %s", toEmail)
	}

	// Load AWS configuration
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(awsRegion),
	)
	if err != nil {
		if debug {
			log.Printf("[DEBUG] Failed to load AWS config: %v", err)
		}
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, to=%s, region=%s", fromEmail, toEmail, awsRegion)

	return newEmailServiceWithClient(sesv2.NewFromConfig(cfg), fromEmail, fromName, toEmail, debug), nil
}

func newEmailServiceWithClient(client sesClient, fromEmail, fromName, toEmail string, debug bool) *EmailService {
	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		fromName:  fromName,
		toEmail:   toEmail,
		enabled:   true,
		debug:     debug,
	}
}

// IsEnabled returns whether the email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.enabled
}

// SendRunSummary emails the outcome of a completed run
func (s *EmailService) SendRunSummary(ctx context.Context, summary RunSummary) error {
	run := summary.Run
	if s.debug {
		log.Printf("[DEBUG] SendRunSummary called: run=%s topic=%q", run.RunID, run.Topic)
	}

	if !s.enabled {
		if s.debug {
			log.Printf("[DEBUG] Email service is disabled, no summary sent for run %s", run.RunID)
		}
		return nil
	}

	subject := fmt.Sprintf("Interview practice: %s - %d points", run.Topic, run.Score)
	return s.sendEmail(ctx, s.toEmail, subject, summaryHTML(summary), summaryText(summary))
}

func endReasonText(reason models.EndReason) string {
	if reason == models.EndReasonOutOfLives {
		return "Ran out of lives"
	}
	return "Answered every question"
}

func summaryText(summary RunSummary) string {
	run := summary.Run
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", run.Topic)
	fmt.Fprintf(&b, "Score: %d\n", run.Score)
	if summary.HasBest {
		if summary.NewBest {
			b.WriteString("New best score for this topic!\n")
		} else {
			fmt.Fprintf(&b, "Best score: %d\n", summary.BestScore)
		}
	}
	fmt.Fprintf(&b, "Lives left: %d\n", run.LivesLeft)
	fmt.Fprintf(&b, "Correct: %d of %d answered (%.0f%%), %d skipped\n",
		run.Correct, run.Answered, run.Accuracy(), run.Skipped)
	fmt.Fprintf(&b, "Result: %s\n", endReasonText(run.EndReason))

	var missed []string
	for _, a := range run.Answers {
		if !a.Correct && !a.Skipped {
			missed = append(missed, a.Prompt)
		}
	}
	if len(missed) > 0 {
		b.WriteString("\nReview these questions:\n")
		for _, prompt := range missed {
			fmt.Fprintf(&b, "- %s\n", prompt)
		}
	}

	b.WriteString("\n---\nThis is an automated email from Interview Simulator. Please do not reply.\n")
	return b.String()
}

func summaryHTML(summary RunSummary) string {
	run := summary.Run

	var rows strings.Builder
	for _, a := range run.Answers {
		result := "Wrong"
		switch {
		case a.Skipped:
			result = "Skipped"
		case a.Correct:
			result = "Correct"
		}
		fmt.Fprintf(&rows, "<tr><td>%d</td><td>%s</td><td>%s</td></tr>\n",
			a.Position+1, html.EscapeString(a.Prompt), result)
	}

	best := ""
	if summary.HasBest {
		if summary.NewBest {
			best = "<p><strong>New best score for this topic!</strong></p>"
		} else {
			best = fmt.Sprintf("<p>Best score: %d</p>", summary.BestScore)
		}
	}

	return fmt.Sprintf(`
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
		td { padding: 4px 8px; border-bottom: 1px solid #ddd; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>%s</h1>
		</div>
		<div class="content">
			<p>Score: <strong>%d</strong></p>
			%s
			<p>Lives left: %d</p>
			<p>Correct: %d of %d answered, %d skipped</p>
			<p>%s</p>
			<table>
%s			</table>
		</div>
		<div class="footer">
			<p>This is an automated email from Interview Simulator. Please do not reply.</p>
		</div>
	</div>
</body>
</html>
`, html.EscapeString(run.Topic), run.Score, best, run.LivesLeft,
		run.Correct, run.Answered, run.Skipped, endReasonText(run.EndReason), rows.String())
}

// sendEmail sends an email using Amazon SES
func (s *EmailService) sendEmail(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	fromAddress := s.fromEmail
	if s.fromName != "" {
		fromAddress = fmt.Sprintf("%s <%s>", s.fromName, s.fromEmail)
	}

	if s.debug {
		log.Printf("[DEBUG] From address: %s", fromAddress)
		log.Printf("[DEBUG] To address: %s", toEmail)
		log.Printf("[DEBUG] Subject: %s", subject)
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
		if s.debug {
			log.Printf("[DEBUG] SES SendEmail failed: %v", err)
		}
		return fmt.Errorf("failed to send email to %s: %w", toEmail, err)
	}

	if s.debug && result.MessageId != nil {
		log.Printf("[DEBUG] Message ID: %s", *result.MessageId)
	}

	log.Printf("Email sent successfully: to=%s, subject=%s", toEmail, subject)
	return nil
}
