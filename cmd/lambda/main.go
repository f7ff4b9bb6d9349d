package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"postgraph/infrastructure/config"
	"postgraph/infrastructure/di"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// app carries the state one execution context keeps across invocations. The
// container and router adapter are built on the first invocation and reused
// while the sandbox stays warm; each execution context owns its own app, so
// independent sandboxes never share a cache. sync.Once makes concurrent cold
// invocations within one context build the executor exactly once.
type app struct {
	initOnce sync.Once
	initErr  error
	initSpan time.Duration
	served   atomic.Bool

	container *di.Container
	adapter   *chiadapter.ChiLambdaV2
}

func (a *app) initialize(ctx context.Context) {
	start := time.Now()

	cfg, err := config.LoadConfig()
	if err != nil {
		a.initErr = fmt.Errorf("load configuration: %w", err)
		return
	}

	container, err := di.InitializeContainer(ctx, cfg)
	if err != nil {
		a.initErr = fmt.Errorf("initialize container: %w", err)
		return
	}

	mux, ok := container.Router.Setup().(*chi.Mux)
	if !ok {
		a.initErr = fmt.Errorf("router did not produce a *chi.Mux")
		return
	}

	a.container = container
	a.adapter = chiadapter.NewV2(mux)
	a.initSpan = time.Since(start)

	container.Logger.Info("execution context initialized",
		zap.Duration("initDuration", a.initSpan),
		zap.String("table", cfg.TableName),
	)
	container.Metrics.RecordColdStart(ctx, a.initSpan)
}

// handle is the Lambda entry point for API Gateway v2 events
func (a *app) handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	a.initOnce.Do(func() { a.initialize(ctx) })

	// A failed init is remembered for the lifetime of the sandbox; the
	// platform recycles it rather than this handler retrying per request.
	if a.initErr != nil {
		log.Printf("initialization failed: %v", a.initErr)
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"errors":[{"message":"service failed to initialize"}]}`,
		}, nil
	}

	coldStart := a.served.CompareAndSwap(false, true)

	resp, err := a.adapter.ProxyWithContextV2(ctx, req)

	if resp.Headers == nil {
		resp.Headers = make(map[string]string)
	}
	resp.Headers["X-Cold-Start"] = strconv.FormatBool(coldStart)
	if coldStart {
		resp.Headers["X-Cold-Start-Duration"] = a.initSpan.String()
	}
	if id := req.RequestContext.RequestID; id != "" {
		resp.Headers["X-Request-ID"] = id
	}

	a.container.Logger.Debug("invocation served",
		zap.String("method", req.RequestContext.HTTP.Method),
		zap.String("path", req.RequestContext.HTTP.Path),
		zap.Int("status", resp.StatusCode),
		zap.Bool("coldStart", coldStart),
	)
	return resp, err
}

func main() {
	lambda.Start(new(app).handle)
}
