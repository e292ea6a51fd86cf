package requestlimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"africonnect/internal/ratelimit/models"
	"africonnect/internal/ratelimit/store/bucket"
	id "africonnect/pkg/domain"
	dErrors "africonnect/pkg/domain-errors"
	"africonnect/pkg/platform/audit"
	"africonnect/pkg/requestcontext"
)

type recordingPublisher struct{ events []audit.Event }

func (p *recordingPublisher) Emit(_ context.Context, e audit.Event) error {
	p.events = append(p.events, e)
	return nil
}

type failingBuckets struct{}

func (failingBuckets) Allow(context.Context, string, int, time.Duration) (*models.RateLimitResult, error) {
	return nil, errors.New("redis down")
}

type ServiceSuite struct {
	suite.Suite
	svc       *Service
	publisher *recordingPublisher
	ctx       context.Context
	user      id.UserID
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	cfg := &models.Config{
		IPLimits: map[models.EndpointClass]models.Limit{
			models.ClassRead:  {RequestsPerWindow: 5, Window: time.Minute},
			models.ClassMoney: {RequestsPerWindow: 3, Window: time.Minute},
		},
		UserLimits: map[models.EndpointClass]models.Limit{
			models.ClassMoney: {RequestsPerWindow: 2, Window: time.Minute},
		},
	}
	s.publisher = &recordingPublisher{}
	svc, err := New(bucket.New(),
		WithConfig(cfg),
		WithAuditPublisher(s.publisher),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	s.Require().NoError(err)
	s.svc = svc
	s.user = id.UserID(uuid.New())
	s.ctx = requestcontext.WithActor(context.Background(), s.user, "client")
}

func (s *ServiceSuite) TestNewRequiresStore() {
	_, err := New(nil)
	s.Error(err)
}

func (s *ServiceSuite) TestCheckIP() {
	for range 5 {
		res, err := s.svc.CheckIP(s.ctx, "198.51.100.4", models.ClassRead)
		s.Require().NoError(err)
		s.True(res.Allowed)
	}
	res, err := s.svc.CheckIP(s.ctx, "198.51.100.4", models.ClassRead)
	s.Require().NoError(err)
	s.False(res.Allowed)

	other, err := s.svc.CheckIP(s.ctx, "198.51.100.5", models.ClassRead)
	s.Require().NoError(err)
	s.True(other.Allowed, "budgets are per address")
}

func (s *ServiceSuite) TestCheckBothUserBudgetIsTighter() {
	first, err := s.svc.CheckBoth(s.ctx, "198.51.100.4", s.user, models.ClassMoney)
	s.Require().NoError(err)
	s.True(first.Allowed)
	s.Equal(2, first.Limit, "the tighter user budget is reported")
	s.Equal(1, first.Remaining)

	_, err = s.svc.CheckBoth(s.ctx, "198.51.100.4", s.user, models.ClassMoney)
	s.Require().NoError(err)

	denied, err := s.svc.CheckBoth(s.ctx, "198.51.100.4", s.user, models.ClassMoney)
	s.Require().NoError(err)
	s.False(denied.Allowed)
	s.Positive(denied.RetryAfter)

	s.Require().Len(s.publisher.events, 1)
	event := s.publisher.events[0]
	s.Equal(string(audit.EventRateLimitExceeded), event.Action)
	s.Equal(audit.CategorySecurity, event.Category)
	s.Equal(s.user, event.UserID)
	s.Equal("user_limit", event.Reason)
}

func (s *ServiceSuite) TestMissingConfigFailsClosed() {
	res, err := s.svc.CheckBoth(s.ctx, "198.51.100.4", s.user, models.ClassRead)
	s.Require().NoError(err)
	s.False(res.Allowed)
	s.Equal(60, res.RetryAfter)

	res, err = s.svc.CheckIP(s.ctx, "198.51.100.4", models.ClassWrite)
	s.Require().NoError(err)
	s.False(res.Allowed)
}

func (s *ServiceSuite) TestStoreErrorIsInternal() {
	svc, err := New(failingBuckets{}, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	s.Require().NoError(err)

	_, err = svc.CheckIP(s.ctx, "198.51.100.4", models.ClassRead)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
