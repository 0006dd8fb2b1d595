package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"connecting-party-manager/infrastructure/config"
	"connecting-party-manager/infrastructure/di"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

type objectReader interface {
	ReadObjects(ctx context.Context, bucket, key string) ([]map[string]interface{}, error)
}

type bulkWriter interface {
	Write(ctx context.Context, objects []map[string]interface{}) error
}

// loader writes every S3 object named by the notification through the bulk path. When bucket is
// set, records from any other bucket are ignored.
type loader struct {
	bucket string
	reader objectReader
	bulk   bulkWriter
	logger *zap.Logger
}

func (l *loader) Handle(ctx context.Context, event events.S3Event) error {
	for _, record := range event.Records {
		bucket := record.S3.Bucket.Name
		if l.bucket != "" && bucket != l.bucket {
			l.logger.Warn("Ignoring object from unexpected bucket", zap.String("bucket", bucket))
			continue
		}
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			return fmt.Errorf("invalid object key %q: %w", record.S3.Object.Key, err)
		}

		objects, err := l.reader.ReadObjects(ctx, bucket, key)
		if err != nil {
			return err
		}
		if err := l.bulk.Write(ctx, objects); err != nil {
			l.logger.Error("Bulk load failed", zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
			return err
		}
		l.logger.Info("Bulk load complete",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Int("objects", len(objects)),
		)
	}
	return nil
}

// main runs once per cold start
func main() {
	coldStartTime := time.Now()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	container, err := di.InitializeContainer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer container.Logger.Sync()
	container.Logger.Info("Cold start completed", zap.Duration("duration", time.Since(coldStartTime)))

	l := &loader{bucket: cfg.ETLBucket, reader: container.ObjectReader, bulk: container.Bulk, logger: container.Logger}
	lambda.Start(l.Handle)
}
