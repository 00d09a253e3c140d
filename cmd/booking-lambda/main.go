package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/DavidJ001/patient-request-form/cmd/mainconfig"
	"github.com/DavidJ001/patient-request-form/internal/app/bootstrap"
	appconfig "github.com/DavidJ001/patient-request-form/internal/config"
	"github.com/DavidJ001/patient-request-form/internal/http/handlers"
	httpmiddleware "github.com/DavidJ001/patient-request-form/internal/http/middleware"
	"github.com/DavidJ001/patient-request-form/pkg/logging"
)

func main() {
	_ = godotenv.Load()
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		panic(err)
	}
	svc, err := bootstrap.BuildBooking(ctx, cfg, awsCfg, nil, prometheus.NewRegistry(), logger)
	if err != nil {
		panic(err)
	}

	h := handlers.NewAppointmentEmailHandler(svc.Submission, logger)
	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, h, evt)
	})
}

func handle(ctx context.Context, h *handlers.AppointmentEmailHandler, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := strings.ToUpper(strings.TrimSpace(evt.RequestContext.HTTP.Method))
	path := strings.TrimSpace(evt.RawPath)
	if path == "" {
		path = strings.TrimSpace(evt.RequestContext.HTTP.Path)
	}

	if path == "/health" || path == "/_health" {
		return respond(http.StatusOK, map[string]string{"status": "ok"}), nil
	}
	if method == http.MethodOptions {
		return respond(http.StatusOK, nil), nil
	}
	if method != http.MethodPost {
		return respond(http.StatusMethodNotAllowed, handlers.ErrorResponse{Error: "method not allowed"}), nil
	}

	body, err := decodeBody(evt)
	if err != nil {
		return respond(http.StatusBadRequest, handlers.ErrorResponse{Error: "invalid request body"}), nil
	}
	if len(body) > handlers.MaxRequestBody {
		return respond(http.StatusRequestEntityTooLarge, handlers.ErrorResponse{Error: "request body too large"}), nil
	}

	status, payload := h.Process(ctx, body)
	return respond(status, payload), nil
}

func respond(status int, payload any) events.APIGatewayV2HTTPResponse {
	out := events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    httpmiddleware.CORSHeaders(),
	}
	if payload == nil {
		out.Body = "ok"
		return out
	}
	data, err := json.Marshal(payload)
	if err != nil {
		out.StatusCode = http.StatusInternalServerError
		data = []byte(`{"error":"failed to encode response"}`)
	}
	out.Headers["Content-Type"] = "application/json"
	out.Body = string(data)
	return out
}

func decodeBody(evt events.APIGatewayV2HTTPRequest) ([]byte, error) {
	if !evt.IsBase64Encoded {
		return []byte(evt.Body), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(evt.Body)
	if err != nil {
		return nil, err
	}
	return decoded, nil
}
