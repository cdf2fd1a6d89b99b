package qdrant

import (
	"context"
	"fmt"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// New dials the Qdrant gRPC port (6334 by default) and checks the server
// answers a health check.
func New(ctx context.Context, addr string) (*grpc.ClientConn, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial qdrant failed: %w", err)
	}

	checkCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if _, err := qdrant.NewQdrantClient(conn).HealthCheck(checkCtx, &qdrant.HealthCheckRequest{}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("qdrant health check failed: %w", err)
	}
	return conn, nil
}
