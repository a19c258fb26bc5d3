package server

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/joseph-ayodele/orders-intake/internal/async"
	"github.com/joseph-ayodele/orders-intake/internal/common"
	"github.com/joseph-ayodele/orders-intake/internal/entity"
	"github.com/joseph-ayodele/orders-intake/internal/services/orders"
)

// Extractor runs the extraction pipeline without persisting anything.
type Extractor interface {
	Extract(ctx context.Context, message string) (entity.OrderExtraction, entity.QualityReport, error)
}

// Submitter extracts and stores an order.
type Submitter interface {
	Handle(ctx context.Context, message string) (orders.Result, error)
}

// Enqueuer accepts messages for background submission.
type Enqueuer interface {
	Enqueue(ctx context.Context, job async.Job) error
}

// IntakeService implements OrderIntakeServer.
type IntakeService struct {
	extractor Extractor
	submitter Submitter
	queue     Enqueuer
	logger    *zap.Logger
}

func NewIntakeService(extractor Extractor, submitter Submitter, logger *zap.Logger) *IntakeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntakeService{extractor: extractor, submitter: submitter, logger: logger}
}

// WithQueue lets Submit requests with "async": true return before the order is stored.
func (s *IntakeService) WithQueue(q Enqueuer) *IntakeService {
	s.queue = q
	return s
}

type extractResponse struct {
	Order   entity.OrderExtraction `json:"pedido"`
	Quality entity.QualityReport   `json:"calidad"`
}

func (s *IntakeService) Extract(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ctx, msg, err := s.decode(ctx, req)
	if err != nil {
		return nil, err
	}
	order, report, err := s.extractor.Extract(ctx, msg)
	if err != nil {
		s.logger.Warn("extract failed", zap.String("req_id", common.RequestIDFromContext(ctx)), zap.Error(err))
		return nil, common.ToStatus(err)
	}
	return toStruct(extractResponse{Order: order, Quality: report})
}

func (s *IntakeService) Submit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if s.submitter == nil {
		return nil, common.UnavailableError("order storage is not configured")
	}
	ctx, msg, err := s.decode(ctx, req)
	if err != nil {
		return nil, err
	}
	if s.queue != nil && req.GetFields()["async"].GetBoolValue() {
		ctx, id := common.EnsureRequestID(ctx)
		if err := s.queue.Enqueue(ctx, async.Job{RequestID: id, Message: msg}); err != nil {
			s.logger.Warn("enqueue failed", zap.String("req_id", id), zap.Error(err))
			return nil, common.UnavailableError(err.Error())
		}
		return toStruct(map[string]any{"encolado": true, "request_id": id})
	}
	res, err := s.submitter.Handle(ctx, msg)
	if err != nil {
		s.logger.Warn("submit failed", zap.String("req_id", common.RequestIDFromContext(ctx)), zap.Error(err))
		return nil, common.ToStatus(err)
	}
	if !res.Saved {
		s.logger.Warn("order extracted but not saved", zap.String("req_id", common.RequestIDFromContext(ctx)))
	}
	return toStruct(res)
}

func (s *IntakeService) decode(ctx context.Context, req *structpb.Struct) (context.Context, string, error) {
	fields := req.GetFields()
	msg := fields["message"].GetStringValue()

	v := common.NewValidator()
	v.Field("message", msg, common.Required)
	if err := common.ValidateAndReturnError(v); err != nil {
		return ctx, "", err
	}
	if id := fields["request_id"].GetStringValue(); id != "" {
		ctx = common.WithRequestID(ctx, id)
	}
	if chat := fields["chat_id"].GetStringValue(); chat != "" {
		ctx = common.WithChatID(ctx, chat)
	}
	return ctx, msg, nil
}

func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	out := &structpb.Struct{}
	if err := out.UnmarshalJSON(data); err != nil {
		return nil, common.InternalErrorf("encode response: %v", err)
	}
	return out, nil
}

// UnaryLogger logs every unary call with its status code and latency.
func UnaryLogger(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("grpc call",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("elapsed", time.Since(start)),
		)
		return resp, err
	}
}

var _ OrderIntakeServer = (*IntakeService)(nil)
