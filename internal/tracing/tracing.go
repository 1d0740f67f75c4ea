// Package tracing はOpenTelemetryによるリクエストトレーシングを構成する。
package tracing

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/nobita2041/beauty-salon-cms/internal/middleware"
)

// Config はトレーシングの設定。
type Config struct {
	Enabled     bool
	ServiceName string
	Endpoint    string // OTLP gRPCのhost:port
	SampleRatio float64
}

// ShutdownFunc は未送信のスパンを送出してエクスポーターを停止する。
type ShutdownFunc func(ctx context.Context) error

// Setup はグローバルなTracerProviderとプロパゲーターを設定する。
// 無効時もW3C Trace Contextの伝播は行い、スパンは記録しない。
func Setup(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Enabled {
		return func(context.Context) error { return nil }, nil
	}

	exp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(cfg.Endpoint),
		otlptracegrpc.WithInsecure(),
		otlptracegrpc.WithTimeout(3*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(attribute.String("service.name", cfg.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}

// NewHTTPHandler はリクエストごとにサーバースパンを開始するハンドラーでhをラップする。
// RPC呼び出しのスパン名は "rpc <procedure>" とする。
func NewHTTPHandler(h http.Handler, serviceName string) http.Handler {
	return otelhttp.NewHandler(h, serviceName,
		otelhttp.WithSpanNameFormatter(spanName),
	)
}

func spanName(_ string, r *http.Request) string {
	if procedure := middleware.ProcedureFromPath(r.URL.Path); procedure != "" {
		return "rpc " + procedure
	}
	return r.Method + " " + r.URL.Path
}
