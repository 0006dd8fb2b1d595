//go:build wireinject
// +build wireinject

package di

import (
	"context"

	"connecting-party-manager/infrastructure/config"

	"github.com/google/wire"
)

// SuperSet is the main provider set containing all providers
var SuperSet = wire.NewSet(
	ProvideLogger,
	ProvideAWSConfig,
	ProvideDynamoDBClient,
	ProvideStoreClient,
	ProvideEventBridgeClient,
	ProvideS3Client,
	ProvideMetrics,
	ProvideEventPublisher,
	ProvideRepositoryOptions,
	ProvideProductTeamRepository,
	ProvideProductRepository,
	ProvideDeviceRepository,
	ProvideDeviceReferenceDataRepository,
	ProvideBulkRepository,
	ProvideObjectReader,
	wire.Struct(new(Container), "*"),
)

// InitializeContainer creates a fully wired container
func InitializeContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	wire.Build(SuperSet)
	return nil, nil
}
