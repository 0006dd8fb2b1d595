package di

import (
	"connecting-party-manager/infrastructure/config"
	"connecting-party-manager/infrastructure/persistence/dynamodb"
	"connecting-party-manager/infrastructure/storage/s3"
	"connecting-party-manager/pkg/observability"

	"go.uber.org/zap"
)

// Container holds all application dependencies
type Container struct {
	Config              *config.Config
	Logger              *zap.Logger
	Metrics             *observability.Metrics
	ProductTeams        *dynamodb.ProductTeamRepository
	Products            *dynamodb.ProductRepository
	Devices             *dynamodb.DeviceRepository
	DeviceReferenceData *dynamodb.DeviceReferenceDataRepository
	Bulk                *dynamodb.BulkRepository
	ObjectReader        *s3.ObjectReader
}
