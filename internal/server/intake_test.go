package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/orders-intake/constants"
	"github.com/joseph-ayodele/orders-intake/internal/async"
	"github.com/joseph-ayodele/orders-intake/internal/common"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
	"github.com/joseph-ayodele/orders-intake/internal/services/orders"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stubExtractor struct {
	err    error
	lastID string
}

func (s *stubExtractor) Extract(ctx context.Context, message string) (entity.OrderExtraction, entity.QualityReport, error) {
	s.lastID = common.RequestIDFromContext(ctx)
	if s.err != nil {
		return entity.OrderExtraction{}, entity.QualityReport{}, s.err
	}
	return entity.OrderExtraction{
		ClientName: "Ana Ruiz",
		Contact:    entity.ContactInfo{Phone: "3001234567", Email: "ana@x.co"},
		LineItems: []entity.LineItem{{
			Code: "SH001", Name: "Shampoo Herbal", Quantity: 1, DiscountPct: decimal.Zero,
			UnitPriceExTax: decimal.RequireFromString("8403.36"), LineTotal: decimal.NewFromInt(10000),
			Match: constants.MatchCode,
		}},
		SourceTier: constants.TierStructured,
	}, entity.QualityReport{Score: 1}, nil
}

type stubSubmitter struct{ ex *stubExtractor }

func (s stubSubmitter) Handle(ctx context.Context, message string) (orders.Result, error) {
	o, q, err := s.ex.Extract(ctx, message)
	if err != nil {
		return orders.Result{}, err
	}
	return orders.Result{InvoiceID: "WKY00001", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Order: o, Quality: q, Saved: true}, nil
}

func startServer(t *testing.T, svc OrderIntakeServer) *OrderIntakeClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(UnaryLogger(zap.NewNop())))
	RegisterOrderIntakeServer(srv, svc)
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = conn.Close()
		srv.Stop()
	})
	return NewOrderIntakeClient(conn)
}

func request(t *testing.T, fields map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	return s
}

func TestIntake_Extract(t *testing.T) {
	ex := &stubExtractor{}
	client := startServer(t, NewIntakeService(ex, stubSubmitter{ex}, nil))

	out, err := client.Extract(context.Background(), request(t, map[string]any{
		"message":    "[CLIENTE]\nAna Ruiz",
		"request_id": "req-42",
	}))
	require.NoError(t, err)
	assert.Equal(t, "req-42", ex.lastID)

	pedido := out.GetFields()["pedido"].GetStructValue().GetFields()
	assert.Equal(t, "Ana Ruiz", pedido["cliente"].GetStringValue())
	assert.Equal(t, "structured", pedido["tier"].GetStringValue())
	items := pedido["productos"].GetListValue().GetValues()
	require.Len(t, items, 1)
	assert.Equal(t, "10000", items[0].GetStructValue().GetFields()["total"].GetStringValue())
	assert.Equal(t, 1.0, out.GetFields()["calidad"].GetStructValue().GetFields()["score"].GetNumberValue())
}

func TestIntake_Submit(t *testing.T) {
	ex := &stubExtractor{}
	client := startServer(t, NewIntakeService(ex, stubSubmitter{ex}, nil))

	out, err := client.Submit(context.Background(), request(t, map[string]any{"message": "pedido"}))
	require.NoError(t, err)
	assert.Equal(t, "WKY00001", out.GetFields()["factura"].GetStringValue())
	assert.True(t, out.GetFields()["guardado"].GetBoolValue())
}

type chanQueue chan async.Job

func (q chanQueue) Enqueue(_ context.Context, job async.Job) error {
	q <- job
	return nil
}

func TestIntake_SubmitAsync(t *testing.T) {
	ex := &stubExtractor{}
	q := make(chanQueue, 1)
	client := startServer(t, NewIntakeService(ex, stubSubmitter{ex}, nil).WithQueue(q))

	out, err := client.Submit(context.Background(), request(t, map[string]any{
		"message": "pedido", "async": true, "request_id": "req-7",
	}))
	require.NoError(t, err)
	assert.True(t, out.GetFields()["encolado"].GetBoolValue())
	assert.Equal(t, "req-7", out.GetFields()["request_id"].GetStringValue())

	job := <-q
	assert.Equal(t, "pedido", job.Message)
	assert.Equal(t, "req-7", job.RequestID)
}

func callExtract(c *OrderIntakeClient, r *structpb.Struct) error {
	_, err := c.Extract(context.Background(), r)
	return err
}

func callSubmit(c *OrderIntakeClient, r *structpb.Struct) error {
	_, err := c.Submit(context.Background(), r)
	return err
}

func TestIntake_Errors(t *testing.T) {
	tests := []struct {
		name   string
		svc    *IntakeService
		call   func(*OrderIntakeClient, *structpb.Struct) error
		fields map[string]any
		code   codes.Code
	}{
		{
			name:   "missing message",
			svc:    NewIntakeService(&stubExtractor{}, nil, nil),
			call:   callExtract,
			fields: map[string]any{"message": "  "},
			code:   codes.InvalidArgument,
		},
		{
			name:   "catalog unavailable",
			svc:    NewIntakeService(&stubExtractor{err: common.ErrCatalogUnavailable}, nil, nil),
			call:   callExtract,
			fields: map[string]any{"message": "hola"},
			code:   codes.Unavailable,
		},
		{
			name:   "submit without storage",
			svc:    NewIntakeService(&stubExtractor{}, nil, nil),
			call:   callSubmit,
			fields: map[string]any{"message": "hola"},
			code:   codes.Unavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := startServer(t, tt.svc)
			err := tt.call(client, request(t, tt.fields))
			require.Error(t, err)
			assert.Equal(t, tt.code, status.Code(err))
		})
	}
}
