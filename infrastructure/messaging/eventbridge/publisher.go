package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"

	"connecting-party-manager/domain/events"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"
)

// Source is the EventBridge source of every published event
const Source = "connecting-party-manager"

// maxEntriesPerCall is the PutEvents limit
const maxEntriesPerCall = 10

// Client is the subset of the EventBridge API the publisher uses
type Client interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

// Publisher forwards committed aggregate events to an event bus
type Publisher struct {
	client       Client
	eventBusName string
	logger       *zap.Logger
}

// NewPublisher creates a new EventBridge publisher
func NewPublisher(client Client, eventBusName string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{client: client, eventBusName: eventBusName, logger: logger}
}

// Publish sends events in order, at most ten per PutEvents call
func (p *Publisher) Publish(ctx context.Context, committed []events.Event) error {
	for start := 0; start < len(committed); start += maxEntriesPerCall {
		end := min(start+maxEntriesPerCall, len(committed))
		if err := p.publishBatch(ctx, committed[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (p *Publisher) publishBatch(ctx context.Context, batch []events.Event) error {
	entries := make([]types.PutEventsRequestEntry, 0, len(batch))
	for _, ev := range batch {
		detail, err := json.Marshal(ev)
		if err != nil {
			return fmt.Errorf("failed to marshal %s: %w", ev.GetEventType(), err)
		}
		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.eventBusName),
			Source:       aws.String(Source),
			DetailType:   aws.String(ev.GetEventType()),
			Detail:       aws.String(string(detail)),
			Time:         ev.GetTimestamp(),
			Resources:    []string{ev.GetAggregateID()},
		})
	}

	result, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{Entries: entries})
	if err != nil {
		return fmt.Errorf("failed to publish events to EventBridge: %w", err)
	}

	if result.FailedEntryCount > 0 {
		for i, entry := range result.Entries {
			if entry.ErrorCode != nil && i < len(batch) {
				p.logger.Error("Failed to publish event",
					zap.String("eventType", batch[i].GetEventType()),
					zap.String("aggregateId", batch[i].GetAggregateID()),
					zap.String("errorCode", aws.ToString(entry.ErrorCode)),
					zap.String("errorMessage", aws.ToString(entry.ErrorMessage)),
				)
			}
		}
		return fmt.Errorf("%d events failed to publish", result.FailedEntryCount)
	}

	p.logger.Debug("Events published to EventBridge",
		zap.Int("count", len(entries)),
		zap.String("eventBus", p.eventBusName),
	)
	return nil
}
