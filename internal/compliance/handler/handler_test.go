package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"africonnect/internal/compliance/handler/mocks"
	"africonnect/internal/compliance/models"
	"africonnect/internal/compliance/service"
	id "africonnect/pkg/domain"
	"africonnect/pkg/testutil"
)

//go:generate mockgen -source=handler.go -destination=mocks/handler_mock.go -package=mocks Service,Monitor
type HandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	monitor *mocks.MockMonitor
	router  chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.monitor = mocks.NewMockMonitor(ctrl)
	h := New(s.service, s.monitor, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.router = chi.NewRouter()
	h.Register(s.router)
	s.router.Route("/admin", h.RegisterAdmin)
}

func (s *HandlerSuite) TestEvaluateProvider() {
	providerID := id.UserID(uuid.New())
	eval := models.Evaluation{
		Status: models.StatusNonCompliant,
		Records: []models.Record{{
			Jurisdiction: "NG",
			Verdict:      models.VerdictNonCompliant,
			Detail:       "Provider is not verified. Verification is required to offer services.",
		}},
	}

	s.Run("provider evaluates self", func() {
		s.service.EXPECT().EvaluateProvider(gomock.Any(), providerID, []string{"NG"}, "legal").Return(eval, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/providers/"+providerID.String()+"/compliance/evaluate",
			map[string]any{"jurisdictions": []string{"NG"}, "category": " legal "})
		rr := testutil.Serve(s.router, testutil.WithActor(req, providerID, "professional"))

		s.Equal(http.StatusOK, rr.Code)
		body := testutil.Decode[EvaluationResponse](s.T(), rr)
		s.Equal(models.StatusNonCompliant, body.Status)
		s.Require().Len(body.Suggestions, 1)
		s.Equal(models.SuggestGeneral, body.Suggestions[0].Type)
	})

	s.Run("other users are rejected", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/providers/"+providerID.String()+"/compliance/evaluate",
			map[string]any{"jurisdictions": []string{"NG"}})
		rr := testutil.Serve(s.router, testutil.WithActor(req, id.UserID(uuid.New()), "client"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "unauthorized")
	})

	s.Run("jurisdictions are required", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/providers/"+providerID.String()+"/compliance/evaluate",
			map[string]any{"category": "legal"})
		rr := testutil.Serve(s.router, testutil.WithActor(req, id.UserID(uuid.New()), "admin"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})

	s.Run("malformed id", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/providers/nope/compliance/evaluate", nil)
		rr := testutil.Serve(s.router, testutil.WithActor(req, providerID, "professional"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})
}

func (s *HandlerSuite) TestListRegulations() {
	s.service.EXPECT().FindApplicable(gomock.Any(), service.Criteria{
		Jurisdictions:      []string{"NG", "KE"},
		Sector:             "legal",
		ServiceSubCategory: "contract_review",
	}).Return(nil, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodGet, "/regulations?jurisdictions=NG,KE&sector=legal&service_type=contract_review", nil)
	rr := testutil.Serve(s.router, testutil.WithActor(req, id.UserID(uuid.New()), "client"))

	s.Equal(http.StatusOK, rr.Code)
	body := testutil.Decode[map[string][]models.Regulation](s.T(), rr)
	s.NotNil(body["regulations"])
	s.Empty(body["regulations"])
}

func (s *HandlerSuite) TestRunMonitor() {
	contractID := id.NewContractID()
	s.monitor.EXPECT().MonitorRegulatoryChanges(gomock.Any()).Return([]models.Change{{
		ContractID:     contractID,
		PreviousStatus: models.StatusCompliant,
		NewStatus:      models.StatusNonCompliant,
	}}, nil)

	req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/compliance/monitor", nil)
	rr := testutil.Serve(s.router, req)

	s.Equal(http.StatusOK, rr.Code)
	body := testutil.Decode[map[string][]models.Change](s.T(), rr)
	s.Require().Len(body["changes"], 1)
	s.Equal(contractID, body["changes"][0].ContractID)

	s.Run("failure is a server fault", func() {
		s.monitor.EXPECT().MonitorRegulatoryChanges(gomock.Any()).Return(nil, errors.New("boom"))
		rr := testutil.Serve(s.router, testutil.NewJSONRequest(s.T(), http.MethodPost, "/admin/compliance/monitor", nil))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
	})
}
