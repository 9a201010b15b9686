package lambda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"imagecollector/config"
	"imagecollector/internal/cli"
	"imagecollector/internal/domain"
	"imagecollector/internal/usecase"
	"imagecollector/observability/types"
)

// ErrNoURLs is returned for events that carry nothing to collect
var ErrNoURLs = errors.New("event contains no URLs")

// Runner runs the collection pipeline over a list of URLs
type Runner interface {
	Run(ctx context.Context, urls []string, observer usecase.Observer) domain.Summary
}

// Event is the direct invocation payload. Either field may be used; both are merged.
type Event struct {
	URLs  []string `json:"urls,omitempty"`
	Input string   `json:"input,omitempty"`
}

// AllURLs returns the URLs of the event in order, with Input split on commas
func (e Event) AllURLs() []string {
	urls := make([]string, 0, len(e.URLs))
	for _, u := range e.URLs {
		urls = append(urls, cli.ParseURLs(u)...)
	}
	return append(urls, cli.ParseURLs(e.Input)...)
}

// Adapter serves collection requests from the Lambda runtime
type Adapter struct {
	runner Runner
	config *config.LambdaConfig
	logger types.Logger
}

// NewAdapter creates an adapter running events through r
func NewAdapter(r Runner, cfg *config.LambdaConfig, logger types.Logger) *Adapter {
	return &Adapter{
		runner: r,
		config: cfg,
		logger: logger,
	}
}

// Start hands control to the Lambda runtime; it does not return
func (a *Adapter) Start() error {
	lambda.Start(a.HandleEvent)
	return nil
}

// HandleEvent accepts either an SQS batch, whose record bodies are events or
// comma-separated URL lists, or a direct Event
func (a *Adapter) HandleEvent(ctx context.Context, event json.RawMessage) (interface{}, error) {
	var sqsEvent events.SQSEvent
	if err := json.Unmarshal(event, &sqsEvent); err == nil && len(sqsEvent.Records) > 0 {
		return a.handleSQSEvent(ctx, sqsEvent)
	}

	var ev Event
	if err := json.Unmarshal(event, &ev); err != nil {
		return nil, fmt.Errorf("unsupported event type: %w", err)
	}
	return a.Handle(ctx, ev)
}

// Handle runs the pipeline for one event
func (a *Adapter) Handle(ctx context.Context, ev Event) (Response, error) {
	summary, err := a.run(ctx, ev)
	if err != nil {
		return Response{}, err
	}
	return NewResponse(summary), nil
}

func (a *Adapter) run(ctx context.Context, ev Event) (domain.Summary, error) {
	urls := ev.AllURLs()
	if len(urls) == 0 {
		return domain.Summary{}, ErrNoURLs
	}

	if a.config != nil && a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	summary := a.runner.Run(ctx, urls, nil)

	a.logger.Info(ctx, "Event processed", types.Fields{
		"run_id":     summary.RunID,
		"urls":       len(urls),
		"saved":      summary.Saved,
		"duplicates": summary.Duplicates,
		"rejected":   summary.Rejected,
		"failed":     summary.Failed,
	})

	return summary, nil
}

// handleSQSEvent reports a record as failed when one of its URLs failed with
// a retryable error, so the queue redelivers it. Rejections, duplicates and
// permanent failures are final.
func (a *Adapter) handleSQSEvent(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	response := events.SQSEventResponse{
		BatchItemFailures: []events.SQSBatchItemFailure{},
	}

	for _, record := range event.Records {
		summary, err := a.run(ctx, sqsMessageToEvent(record))
		if err != nil {
			a.logger.Warn(ctx, "Skipping SQS record", types.Fields{
				"message_id": record.MessageId,
				"reason":     err.Error(),
			})
			if !errors.Is(err, ErrNoURLs) {
				response.BatchItemFailures = append(response.BatchItemFailures,
					events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
			}
			continue
		}

		if summary.Retryable() {
			response.BatchItemFailures = append(response.BatchItemFailures,
				events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		} else if summary.Failed > 0 {
			a.logger.Warn(ctx, "Dropping SQS record with permanent failures", types.Fields{
				"message_id": record.MessageId,
				"failed":     summary.Failed,
			})
		}
	}

	return response, nil
}

func sqsMessageToEvent(record events.SQSMessage) Event {
	var ev Event
	if err := json.Unmarshal([]byte(record.Body), &ev); err == nil {
		return ev
	}
	return Event{Input: record.Body}
}
