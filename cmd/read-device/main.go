package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"connecting-party-manager/domain/core/aggregates"
	"connecting-party-manager/domain/core/valueobjects"
	"connecting-party-manager/infrastructure/config"
	"connecting-party-manager/infrastructure/di"
	pkgerrors "connecting-party-manager/pkg/errors"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

type deviceReader interface {
	Read(ctx context.Context, productTeamID string, productID valueobjects.ProductID, id string) (*aggregates.Device, error)
}

type errorBody struct {
	Type    pkgerrors.ErrorType    `json:"type"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// handler reads a device by id or by key from the path parameters
// product_team_id, product_id and device_id.
type handler struct {
	devices deviceReader
	logger  *zap.Logger
}

func (h *handler) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	productTeamID := req.PathParameters["product_team_id"]
	productID := req.PathParameters["product_id"]
	deviceID := req.PathParameters["device_id"]

	device, err := h.devices.Read(ctx, productTeamID, valueobjects.ProductID(productID), deviceID)
	if err != nil {
		h.logger.Warn("Device read failed",
			zap.String("product_team_id", productTeamID),
			zap.String("product_id", productID),
			zap.String("device_id", deviceID),
			zap.Error(err),
		)
		return errorResponse(err), nil
	}
	return jsonResponse(http.StatusOK, device.State()), nil
}

func errorResponse(err error) events.APIGatewayV2HTTPResponse {
	body := errorBody{Type: pkgerrors.ErrorTypeInternal, Message: "internal error"}
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		body = errorBody{Type: appErr.Type, Message: appErr.Message, Details: appErr.Details}
	}
	return jsonResponse(pkgerrors.GetHTTPStatus(err), body)
}

func jsonResponse(status int, body interface{}) events.APIGatewayV2HTTPResponse {
	raw, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{StatusCode: http.StatusInternalServerError}
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(raw),
	}
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

	h := &handler{devices: container.Devices, logger: container.Logger}
	lambda.Start(h.Handle)
}
