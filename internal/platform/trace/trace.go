package trace

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// Init 初始化全局 TracerProvider，span 经 OTLP gRPC 批量导出。
// 返回的 shutdown 在进程退出前调用以冲刷缓冲；初始化失败时返回 nil。
func Init(endpoint string, serviceName string) (shutdown func(context.Context) error) {
	ctx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()

	exporter, err := otlptracegrpc.New(ctx, otlptracegrpc.WithEndpoint(endpoint), otlptracegrpc.WithInsecure())
	if err != nil {
		slog.Error("otlp exporter init failed", "err", err)
		return nil
	}
	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(serviceName))),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown
}
