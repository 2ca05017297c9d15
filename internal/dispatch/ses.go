package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	appconfig "github.com/ignite/outreach-crm/internal/config"
	"github.com/ignite/outreach-crm/internal/domain"
)

// SESDispatcher delivers email via the AWS SES v2 API.
type SESDispatcher struct {
	client    *sesv2.Client
	fromName  string
	fromEmail string
	timeout   time.Duration
}

// NewSESDispatcher creates an SES-backed email dispatcher.
func NewSESDispatcher(ctx context.Context, cfg appconfig.SESConfig) (*SESDispatcher, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(creds),
	)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	return &SESDispatcher{
		client:    sesv2.NewFromConfig(awsCfg),
		fromName:  cfg.FromName,
		fromEmail: cfg.FromEmail,
		timeout:   cfg.Timeout(),
	}, nil
}

// Send delivers the message and returns the SES message id. Any API error,
// including a timeout, is returned as a *DeliveryError.
func (d *SESDispatcher) Send(ctx context.Context, msg domain.OutboundMessage) (string, error) {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	from := d.fromEmail
	if d.fromName != "" {
		from = fmt.Sprintf("%s <%s>", d.fromName, d.fromEmail)
	}

	out, err := d.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination: &types.Destination{
			ToAddresses: []string{msg.Recipient},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(msg.Subject)},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(msg.Body)},
				},
			},
		},
	})
	if err != nil {
		return "", &DeliveryError{Channel: domain.ChannelEmail, Err: err}
	}

	return aws.ToString(out.MessageId), nil
}
