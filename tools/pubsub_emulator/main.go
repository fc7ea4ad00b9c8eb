package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"cloud.google.com/go/pubsub"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func main() {
	ctx := context.Background()

	os.Setenv("PUBSUB_EMULATOR_HOST", "localhost:8085")

	projectID := flag.String("project", "exporter-emulator", "emulator project")
	exportTopic := flag.String("export-topic", "scene-exports", "topic receiving the export requests")
	exportSubscription := flag.String("export-subscription", "scene-exports", "subscription to the export topic")
	flag.Parse()

	log.Print("New client for project " + *projectID)
	client, err := pubsub.NewClient(ctx, *projectID)
	if err != nil {
		log.Fatalf("pubsub.NewClient: %v", err)
	}
	defer client.Close()

	log.Print("Create Topic : " + *exportTopic)
	if _, err = client.CreateTopic(ctx, *exportTopic); err != nil && status.Code(err) != codes.AlreadyExists {
		log.Fatalf("pubsub.CreateTopic: %v", err)
	}

	log.Print("Create Subscription : " + *exportSubscription)
	if _, err = client.CreateSubscription(ctx, *exportSubscription, pubsub.SubscriptionConfig{
		Topic:       client.Topic(*exportTopic),
		AckDeadline: 10 * time.Second,
	}); err != nil && status.Code(err) != codes.AlreadyExists {
		log.Fatalf("CreateSubscription: %v", err)
	}

	log.Print("Done!")
}
