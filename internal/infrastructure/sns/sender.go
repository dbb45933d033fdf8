package sns

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/astro-auth-api/internal/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

const eventLoginCode = "login_code"

type publisher interface {
	Publish(ctx context.Context, in *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// codeEvent is the payload consumed by the topic's mail fan-out subscriber.
type codeEvent struct {
	Event      string `json:"event"`
	Email      string `json:"email"`
	Code       string `json:"code"`
	TTLMinutes int    `json:"ttl_minutes"`
}

// TopicSender delivers login codes by publishing them to an SNS topic.
type TopicSender struct {
	client   publisher
	topicARN string
}

func NewTopicSender(cfg *config.Config) (*TopicSender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	var opts []func(*sns.Options)
	if cfg.AWSEndpointURL != "" {
		opts = append(opts, func(o *sns.Options) {
			o.BaseEndpoint = aws.String(cfg.AWSEndpointURL)
		})
	}
	return &TopicSender{client: sns.NewFromConfig(awsCfg, opts...), topicARN: cfg.SNSTopicARN}, nil
}

func (s *TopicSender) SendCode(ctx context.Context, to, code string, ttlMinutes int) error {
	body, err := json.Marshal(codeEvent{Event: eventLoginCode, Email: to, Code: code, TTLMinutes: ttlMinutes})
	if err != nil {
		return err
	}
	_, err = s.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(s.topicARN),
		Message:  aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"event": {DataType: aws.String("String"), StringValue: aws.String(eventLoginCode)},
		},
	})
	if err != nil {
		return fmt.Errorf("sns publish: %w", err)
	}
	return nil
}
