package di

import (
	"context"
	"fmt"

	"connecting-party-manager/infrastructure/config"
	"connecting-party-manager/infrastructure/messaging/eventbridge"
	"connecting-party-manager/infrastructure/persistence/dynamodb"
	"connecting-party-manager/infrastructure/storage/s3"
	"connecting-party-manager/pkg/observability"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awseventbridge "github.com/aws/aws-sdk-go-v2/service/eventbridge"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ProvideLogger creates a new logger instance
func ProvideLogger(cfg *config.Config) (*zap.Logger, error) {
	zapCfg := zap.NewDevelopmentConfig()
	if cfg.IsProduction() {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zap.ParseAtomicLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.LogLevel, err)
	}
	zapCfg.Level = level

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("environment", cfg.Environment)), nil
}

// ProvideAWSConfig creates AWS configuration
func ProvideAWSConfig(ctx context.Context, cfg *config.Config) (aws.Config, error) {
	return awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.AWSRegion),
	)
}

// ProvideDynamoDBClient creates a DynamoDB client, pointed at DYNAMODB_ENDPOINT when set
func ProvideDynamoDBClient(awsCfg aws.Config, cfg *config.Config) *awsdynamodb.Client {
	return awsdynamodb.NewFromConfig(awsCfg, func(o *awsdynamodb.Options) {
		if cfg.DynamoDBEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.DynamoDBEndpoint)
		}
	})
}

// ProvideStoreClient narrows the DynamoDB client to what the repositories use
func ProvideStoreClient(client *awsdynamodb.Client) dynamodb.Client {
	return client
}

// ProvideEventBridgeClient creates an EventBridge client
func ProvideEventBridgeClient(awsCfg aws.Config) *awseventbridge.Client {
	return awseventbridge.NewFromConfig(awsCfg)
}

// ProvideS3Client creates an S3 client
func ProvideS3Client(awsCfg aws.Config) *awss3.Client {
	return awss3.NewFromConfig(awsCfg)
}

// ProvideMetrics registers repository metrics when ENABLE_METRICS is set
func ProvideMetrics(cfg *config.Config) *observability.Metrics {
	if !cfg.EnableMetrics {
		return nil
	}
	return observability.NewMetrics(prometheus.DefaultRegisterer)
}

// ProvideEventPublisher returns nil when no event bus is configured
func ProvideEventPublisher(client *awseventbridge.Client, cfg *config.Config, logger *zap.Logger) dynamodb.EventPublisher {
	if cfg.EventBusName == "" {
		return nil
	}
	return eventbridge.NewPublisher(client, cfg.EventBusName, logger)
}

// ProvideRepositoryOptions applies configured limits, metrics and publishing to every repository
func ProvideRepositoryOptions(cfg *config.Config, metrics *observability.Metrics, publisher dynamodb.EventPublisher) []dynamodb.Option {
	opts := []dynamodb.Option{
		dynamodb.WithMaxTransactItems(cfg.TransactItemsMax),
		dynamodb.WithMetrics(metrics),
	}
	if publisher != nil {
		opts = append(opts, dynamodb.WithPublisher(publisher))
	}
	return opts
}

// ProvideProductTeamRepository creates a product team repository
func ProvideProductTeamRepository(client dynamodb.Client, cfg *config.Config, logger *zap.Logger, opts []dynamodb.Option) *dynamodb.ProductTeamRepository {
	return dynamodb.NewProductTeamRepository(client, cfg.TableName, logger, opts...)
}

// ProvideProductRepository creates a product repository
func ProvideProductRepository(client dynamodb.Client, cfg *config.Config, logger *zap.Logger, opts []dynamodb.Option) *dynamodb.ProductRepository {
	return dynamodb.NewProductRepository(client, cfg.TableName, logger, opts...)
}

// ProvideDeviceRepository creates a device repository
func ProvideDeviceRepository(client dynamodb.Client, cfg *config.Config, logger *zap.Logger, opts []dynamodb.Option) *dynamodb.DeviceRepository {
	return dynamodb.NewDeviceRepository(client, cfg.TableName, logger, opts...)
}

// ProvideDeviceReferenceDataRepository creates a device reference data repository
func ProvideDeviceReferenceDataRepository(client dynamodb.Client, cfg *config.Config, logger *zap.Logger, opts []dynamodb.Option) *dynamodb.DeviceReferenceDataRepository {
	return dynamodb.NewDeviceReferenceDataRepository(client, cfg.TableName, logger, opts...)
}

// ProvideBulkRepository creates the bulk loader with the configured retry budget
func ProvideBulkRepository(client dynamodb.Client, cfg *config.Config, logger *zap.Logger, metrics *observability.Metrics) *dynamodb.BulkRepository {
	retry := dynamodb.DefaultRetryConfig()
	retry.MaxRetries = cfg.BulkMaxRetries
	retry.BaseDelay = cfg.BulkBaseDelay
	retry.MaxDelay = cfg.BulkMaxDelay

	return dynamodb.NewBulkRepository(client, cfg.TableName, logger,
		dynamodb.WithRetryConfig(retry),
		dynamodb.WithBatchSize(cfg.BatchWriteMax),
		dynamodb.WithBulkMetrics(metrics),
	)
}

// ProvideObjectReader creates the reader of bulk load input
func ProvideObjectReader(client *awss3.Client) *s3.ObjectReader {
	return s3.NewObjectReader(client)
}
