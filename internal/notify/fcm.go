package notify

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

// FCM caps multicast sends at 500 tokens.
const fcmBatchSize = 500

type FCMPusher struct {
	client *messaging.Client
}

func NewFCMPusher(ctx context.Context, projectID, credentialsFile string) (*FCMPusher, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("get messaging client: %w", err)
	}
	return &FCMPusher{client: client}, nil
}

func (p *FCMPusher) Push(ctx context.Context, tokens []string, msg Message) ([]string, error) {
	var stale []string
	for start := 0; start < len(tokens); start += fcmBatchSize {
		end := min(start+fcmBatchSize, len(tokens))
		batch := tokens[start:end]

		resp, err := p.client.SendEachForMulticast(ctx, buildMulticast(batch, msg))
		if err != nil {
			return stale, fmt.Errorf("send multicast: %w", err)
		}
		for i, r := range resp.Responses {
			if r.Success || r.Error == nil {
				continue
			}
			if messaging.IsRegistrationTokenNotRegistered(r.Error) || messaging.IsInvalidArgument(r.Error) {
				stale = append(stale, batch[i])
			}
		}
	}
	return stale, nil
}

func buildMulticast(tokens []string, msg Message) *messaging.MulticastMessage {
	return &messaging.MulticastMessage{
		Tokens: tokens,
		Data:   msg.Data,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: ChannelOrders,
			},
		},
	}
}
