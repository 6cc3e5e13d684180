package grpc

import (
	"context"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/soltixdb/soltix-forecast/internal/logging"
	"github.com/soltixdb/soltix-forecast/internal/utils"
)

// Client calls the forecast service over gRPC
type Client struct {
	conn   *grpc.ClientConn
	logger *logging.Logger
	owned  bool
}

// NewClient creates a client connected to address. Extra dial options are
// appended after the defaults.
func NewClient(address string, logger *logging.Logger, extra ...grpc.DialOption) (*Client, error) {
	opts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(
			grpc.MaxCallRecvMsgSize(utils.GRPCMaxMessageSize),
			grpc.MaxCallSendMsgSize(utils.GRPCMaxMessageSize),
		),
	}
	opts = append(opts, extra...)

	conn, err := grpc.NewClient(address, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection: %w", err)
	}

	logger.Debug("Created new gRPC connection", "address", address)
	c := NewClientWithConn(conn, logger)
	c.owned = true
	return c, nil
}

// NewClientWithConn wraps an existing connection. Close leaves conn open.
func NewClientWithConn(conn *grpc.ClientConn, logger *logging.Logger) *Client {
	return &Client{conn: conn, logger: logger}
}

// Forecast sends payload and returns the forecast values. credential, when set,
// is sent as the authorization metadata (a bearer token or API key).
func (c *Client) Forecast(ctx context.Context, payload map[string]interface{}, credential string) ([]float64, error) {
	req, err := structpb.NewStruct(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	if credential != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, metadataAuthorization, credential)
	}
	if requestID := logging.RequestID(ctx); requestID != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, metadataRequestID, requestID)
	}

	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, ForecastMethod, req, resp); err != nil {
		return nil, err
	}

	list := resp.GetFields()["forecast"].GetListValue()
	values := make([]float64, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, fmt.Errorf("unexpected forecast value %v", v)
		}
		values = append(values, n.NumberValue)
	}
	return values, nil
}

// Check returns the serving status reported by the health service
func (c *Client) Check(ctx context.Context) (healthpb.HealthCheckResponse_ServingStatus, error) {
	resp, err := healthpb.NewHealthClient(c.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, err
	}
	return resp.GetStatus(), nil
}

// State returns the connectivity state of the underlying connection
func (c *Client) State() string {
	return c.conn.GetState().String()
}

// Close closes the connection if the client created it
func (c *Client) Close() error {
	if !c.owned {
		return nil
	}
	c.logger.Debug("Closing gRPC connection", "target", c.conn.Target())
	return c.conn.Close()
}
