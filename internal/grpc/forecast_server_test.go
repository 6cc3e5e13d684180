package grpc

import (
	"context"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/soltixdb/soltix-forecast/internal/auth"
	"github.com/soltixdb/soltix-forecast/internal/config"
	"github.com/soltixdb/soltix-forecast/internal/logging"
	"github.com/soltixdb/soltix-forecast/internal/queue"
	"github.com/soltixdb/soltix-forecast/internal/services"
)

const (
	bufSize     = 1024 * 1024
	testAPIKey  = "0123456789abcdef0123456789abcdef"
	testSubject = "forecast.completed"
)

type testEnv struct {
	client *Client
	conn   *grpc.ClientConn
	events *queue.MemoryQueue
	tokens *auth.TokenManager
}

func setupTestServer(t *testing.T, authEnabled bool) *testEnv {
	t.Helper()

	logger := logging.NewNop()
	events := queue.NewMemoryQueue()
	t.Cleanup(func() { _ = events.Close() })

	tokens := auth.NewTokenManager(config.JWTConfig{Secret: strings.Repeat("k", 32), TTL: time.Hour})
	server := NewForecastServer(ServerOptions{
		Logger:      logger,
		Service:     services.NewForecastService(logger, events, testSubject),
		AuthEnabled: authEnabled,
		Credentials: auth.CredentialChecker{
			Tokens:  tokens,
			APIKeys: auth.NewAPIKeySet([]string{testAPIKey}, logger),
		},
	})

	lis := bufconn.Listen(bufSize)
	go func() { _ = server.Serve(lis) }()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &testEnv{
		client: NewClientWithConn(conn, logger),
		conn:   conn,
		events: events,
		tokens: tokens,
	}
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestForecastRPC_Scenarios(t *testing.T) {
	env := setupTestServer(t, false)
	ctx := testContext(t)

	tests := []struct {
		name     string
		payload  map[string]interface{}
		expected []float64
	}{
		{
			name: "sma window 2",
			payload: map[string]interface{}{
				"data":   []interface{}{10, 20, 30, 40},
				"method": "sma",
				"params": map[string]interface{}{"window": 2},
			},
			expected: []float64{35, 37.5, 36.25, 36.875},
		},
		{
			name: "sma window equals length",
			payload: map[string]interface{}{
				"data":   []interface{}{1, 2, 3},
				"method": "sma",
				"params": map[string]interface{}{"window": 3},
			},
			expected: []float64{2, 7.0 / 3, 22.0 / 9, 61.0 / 27},
		},
		{
			name: "es alpha 0.5",
			payload: map[string]interface{}{
				"data":   []interface{}{10, 20, 30},
				"method": "es",
				"params": map[string]interface{}{"alpha": 0.5},
			},
			expected: []float64{22.5, 26.25, 28.125, 29.0625},
		},
		{
			name: "sma window larger than data",
			payload: map[string]interface{}{
				"data":   []interface{}{1, 2},
				"method": "sma",
				"params": map[string]interface{}{"window": 5},
			},
			expected: []float64{},
		},
		{
			name: "es alpha out of range",
			payload: map[string]interface{}{
				"data":   []interface{}{1, 2},
				"method": "es",
				"params": map[string]interface{}{"alpha": 1.5},
			},
			expected: []float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.client.Forecast(ctx, tt.payload, "")
			require.NoError(t, err)
			require.Len(t, got, len(tt.expected))
			for i := range tt.expected {
				assert.InDelta(t, tt.expected[i], got[i], 1e-9)
			}
		})
	}
}

func TestForecastRPC_ValidationErrors(t *testing.T) {
	env := setupTestServer(t, false)
	ctx := testContext(t)

	tests := []struct {
		name    string
		payload map[string]interface{}
		code    codes.Code
		message string
	}{
		{
			name: "missing params",
			payload: map[string]interface{}{
				"data":   []interface{}{1},
				"method": "sma",
			},
			code:    codes.InvalidArgument,
			message: "Missing data, method, or parameters",
		},
		{
			name: "missing window",
			payload: map[string]interface{}{
				"data":   []interface{}{1, 2},
				"method": "sma",
				"params": map[string]interface{}{"alpha": 0.3},
			},
			code:    codes.InvalidArgument,
			message: "Missing 'window' parameter for SMA",
		},
		{
			name: "unknown method",
			payload: map[string]interface{}{
				"data":   []interface{}{1, 2},
				"method": "arima",
				"params": map[string]interface{}{"p": 1},
			},
			code:    codes.InvalidArgument,
			message: "Unknown method: arima",
		},
		{
			name: "non-numeric data",
			payload: map[string]interface{}{
				"data":   []interface{}{"a", "b"},
				"method": "sma",
				"params": map[string]interface{}{"window": 1},
			},
			code:    codes.Internal,
			message: services.MessageInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.client.Forecast(ctx, tt.payload, "")
			require.Error(t, err)
			st, ok := status.FromError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			assert.Equal(t, tt.message, st.Message())
		})
	}
}

func TestForecastRPC_EmptyRequest(t *testing.T) {
	env := setupTestServer(t, false)

	resp := new(structpb.Struct)
	err := env.conn.Invoke(testContext(t), ForecastMethod, &structpb.Struct{}, resp)
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestForecastRPC_PublishesEvent(t *testing.T) {
	env := setupTestServer(t, false)
	ctx := testContext(t)

	received := make(chan *services.ForecastEvent, 1)
	require.NoError(t, env.events.Subscribe(testSubject, func(data []byte) error {
		event, err := services.DecodeForecastEvent(data)
		if err != nil {
			return err
		}
		received <- event
		return nil
	}))

	_, err := env.client.Forecast(ctx, map[string]interface{}{
		"data":   []interface{}{10, 20, 30},
		"method": "es",
		"params": map[string]interface{}{"alpha": 0.5},
	}, "")
	require.NoError(t, err)

	select {
	case event := <-received:
		assert.Equal(t, "es", event.Method)
		assert.Equal(t, 3, event.DataPoints)
		assert.Len(t, event.Forecast, 4)
		assert.False(t, event.Rejected)
		assert.NotEmpty(t, event.RequestID)
	case <-time.After(2 * time.Second):
		t.Fatal("no forecast event received")
	}
}

func TestForecastRPC_Auth(t *testing.T) {
	env := setupTestServer(t, true)
	ctx := testContext(t)

	payload := map[string]interface{}{
		"data":   []interface{}{1, 2, 3, 4},
		"method": "sma",
		"params": map[string]interface{}{"window": 2},
	}

	t.Run("anonymous", func(t *testing.T) {
		_, err := env.client.Forecast(ctx, payload, "")
		require.Error(t, err)
		st, _ := status.FromError(err)
		assert.Equal(t, codes.Unauthenticated, st.Code())
		assert.Equal(t, "Unauthorized", st.Message())
	})

	t.Run("bad credential", func(t *testing.T) {
		_, err := env.client.Forecast(ctx, payload, "Bearer nope")
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("api key", func(t *testing.T) {
		got, err := env.client.Forecast(ctx, payload, testAPIKey)
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("bearer token", func(t *testing.T) {
		token, _, err := env.tokens.Issue("admin")
		require.NoError(t, err)
		got, err := env.client.Forecast(ctx, payload, "Bearer "+token)
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("health stays open", func(t *testing.T) {
		st, err := env.client.Check(ctx)
		require.NoError(t, err)
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, st)
	})
}

func TestClient_CloseBorrowedConn(t *testing.T) {
	env := setupTestServer(t, false)

	require.NoError(t, env.client.Close())
	// The borrowed connection is still usable
	_, err := env.client.Check(testContext(t))
	assert.NoError(t, err)
	assert.NotEmpty(t, env.client.State())
}
