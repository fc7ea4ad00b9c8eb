package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"cloud.google.com/go/pubsub"
	"github.com/airbusgeo/scene-exporter/common"
	"github.com/airbusgeo/scene-exporter/service/log"
	"go.uber.org/zap"
)

// Kinds of export messages
const (
	KindImage = "image"
	KindTable = "table"
)

// Message attributes
const (
	AttributeKind    = "kind"
	AttributeSceneID = "scene_id"
	AttributeRunID   = "run_id"
)

// Publisher publishes one message and returns when it has been accepted
type Publisher interface {
	Publish(ctx context.Context, data []byte, attributes map[string]string) error
}

// Message is the body of the messages published by the Sink
type Message struct {
	Kind  string              `json:"kind"`
	Image *common.ImageExport `json:"image,omitempty"`
	Table *common.TableExport `json:"table,omitempty"`
}

// Sink implements export.Sink, publishing each export job for a downstream worker
type Sink struct {
	publisher Publisher
}

// NewSink creates a Sink
func NewSink(p Publisher) *Sink {
	return &Sink{publisher: p}
}

func (s *Sink) publish(ctx context.Context, sceneID string, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("Marshal: %w", err)
	}
	attributes := map[string]string{
		AttributeKind:    msg.Kind,
		AttributeSceneID: sceneID,
	}
	if runID := common.RunID(ctx); runID != "" {
		attributes[AttributeRunID] = runID
	}
	return s.publisher.Publish(ctx, data, attributes)
}

// ExportImage implements export.Sink
func (s *Sink) ExportImage(ctx context.Context, job common.ImageExport) error {
	if err := s.publish(ctx, job.SceneID, Message{Kind: KindImage, Image: &job}); err != nil {
		return fmt.Errorf("ExportImage(PubSub).%w", err)
	}
	return nil
}

// ExportTable implements export.Sink
func (s *Sink) ExportTable(ctx context.Context, job common.TableExport) error {
	if err := s.publish(ctx, job.SceneID, Message{Kind: KindTable, Table: &job}); err != nil {
		return fmt.Errorf("ExportTable(PubSub).%w", err)
	}
	return nil
}

// TopicPublisher implements Publisher on a Pub/Sub topic
type TopicPublisher struct {
	client *pubsub.Client
	topic  *pubsub.Topic
}

// NewTopicPublisher connects to the topic of the project
func NewTopicPublisher(ctx context.Context, project, topic string) (*TopicPublisher, error) {
	client, err := pubsub.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("NewTopicPublisher.NewClient: %w", err)
	}
	t := client.Topic(topic)
	ok, err := t.Exists(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("NewTopicPublisher.Exists: %w", err)
	}
	if !ok {
		client.Close()
		return nil, fmt.Errorf("NewTopicPublisher: topic %s/%s does not exist", project, topic)
	}
	return &TopicPublisher{client: client, topic: t}, nil
}

// Publish implements Publisher
func (p *TopicPublisher) Publish(ctx context.Context, data []byte, attributes map[string]string) error {
	id, err := p.topic.Publish(ctx, &pubsub.Message{Data: data, Attributes: attributes}).Get(ctx)
	if err != nil {
		return fmt.Errorf("Publish: %w", err)
	}
	log.Logger(ctx).Debug("message published", zap.String("topic", p.topic.ID()), zap.String("message_id", id))
	return nil
}

// Stop flushes the pending messages and closes the connection
func (p *TopicPublisher) Stop() {
	p.topic.Stop()
	p.client.Close()
}
