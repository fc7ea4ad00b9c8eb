package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/airbusgeo/scene-exporter/common"
)

// MokePublisher implements Publisher
type MokePublisher struct {
	data       [][]byte
	attributes []map[string]string
	err        error
}

// Publish implements Publisher
func (p *MokePublisher) Publish(ctx context.Context, data []byte, attributes map[string]string) error {
	if p.err != nil {
		return p.err
	}
	p.data = append(p.data, data)
	p.attributes = append(p.attributes, attributes)
	return nil
}

func TestSink(t *testing.T) {
	p := &MokePublisher{}
	s := NewSink(p)
	ctx := common.WithRunID(context.Background(), "run-1")

	if err := s.ExportImage(ctx, common.ImageExport{SceneID: "LC08_001", Description: "Lake_Champlain_LC08_001", Format: common.FormatGeoTIFF}); err != nil {
		t.Fatal(err)
	}
	if err := s.ExportTable(ctx, common.TableExport{SceneID: "LC08_001", Description: "metadata_LC08_001", Format: common.FormatGeoJSON}); err != nil {
		t.Fatal(err)
	}
	if len(p.data) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(p.data))
	}

	var msg Message
	if err := json.Unmarshal(p.data[0], &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Kind != KindImage || msg.Image == nil || msg.Image.Description != "Lake_Champlain_LC08_001" || msg.Table != nil {
		t.Errorf("unexpected message %s", p.data[0])
	}
	if err := json.Unmarshal(p.data[1], &msg); err != nil {
		t.Fatal(err)
	}
	if msg.Kind != KindTable || msg.Table == nil || msg.Table.Description != "metadata_LC08_001" {
		t.Errorf("unexpected message %s", p.data[1])
	}

	expected := []map[string]string{
		{AttributeKind: KindImage, AttributeSceneID: "LC08_001", AttributeRunID: "run-1"},
		{AttributeKind: KindTable, AttributeSceneID: "LC08_001", AttributeRunID: "run-1"},
	}
	for i, attrs := range p.attributes {
		for k, v := range expected[i] {
			if attrs[k] != v {
				t.Errorf("message %d: expected %s=%s, got %s", i, k, v, attrs[k])
			}
		}
	}
}

func TestSinkError(t *testing.T) {
	s := NewSink(&MokePublisher{err: fmt.Errorf("unavailable")})
	if err := s.ExportImage(context.Background(), common.ImageExport{}); err == nil {
		t.Errorf("expected an error")
	}
	if err := s.ExportTable(context.Background(), common.TableExport{}); err == nil {
		t.Errorf("expected an error")
	}
}
