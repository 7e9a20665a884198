package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"

	appaws "mergington-activities/internal/common/aws"
)

// SNSSink publishes each event as JSON to an SNS topic. The event type is
// sent as a message attribute so subscribers can filter on it.
type SNSSink struct {
	client   appaws.SNSService
	topicARN string
}

func NewSNSSink(client appaws.SNSService, topicARN string) *SNSSink {
	return &SNSSink{client: client, topicARN: topicARN}
}

func (s *SNSSink) Record(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	_, err = s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(payload)),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"eventType": {
				DataType:    aws.String("String"),
				StringValue: aws.String(string(event.Type)),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish event: %w", err)
	}
	return nil
}

// EmailNotifier sends the student a confirmation email for each change.
type EmailNotifier struct {
	client    appaws.SESService
	fromEmail string
}

func NewEmailNotifier(client appaws.SESService, fromEmail string) *EmailNotifier {
	return &EmailNotifier{client: client, fromEmail: fromEmail}
}

func (n *EmailNotifier) Record(ctx context.Context, event Event) error {
	if event.Email == "" {
		return nil
	}
	subject, body := confirmationText(event)

	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{event.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.fromEmail),
	})
	if err != nil {
		return fmt.Errorf("ses send confirmation: %w", err)
	}
	return nil
}

func confirmationText(event Event) (string, string) {
	if event.Type == EventUnregister {
		return fmt.Sprintf("You have left %s", event.Activity),
			fmt.Sprintf("You are no longer registered for %s at Mergington High School.", event.Activity)
	}
	return fmt.Sprintf("You are signed up for %s", event.Activity),
		fmt.Sprintf("You are now registered for %s at Mergington High School.", event.Activity)
}
