package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	compmodels "africonnect/internal/compliance/models"
	"africonnect/internal/contract/models"
	"africonnect/internal/contract/ports/mocks"
	"africonnect/internal/contract/store"
	dirmodels "africonnect/internal/directory/models"
	dirstore "africonnect/internal/directory/store"
	escrowmodels "africonnect/internal/escrow/models"
	escrowservice "africonnect/internal/escrow/service"
	id "africonnect/pkg/domain"
	dErrors "africonnect/pkg/domain-errors"
	"africonnect/pkg/platform/audit"
	"africonnect/pkg/requestcontext"
	"africonnect/pkg/testutil"
)

type ServiceSuite struct {
	suite.Suite
	ctrl       *gomock.Controller
	compliance *mocks.MockComplianceEvaluator
	escrow     *mocks.MockEscrow
	publisher  *mocks.MockAuditPublisher
	contracts  *store.InMemory
	directory  *dirstore.InMemory
	events     []audit.Event

	client   *dirmodels.User
	provider *dirmodels.User
	listing  *dirmodels.Service
	now      time.Time
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.compliance = mocks.NewMockComplianceEvaluator(s.ctrl)
	s.escrow = mocks.NewMockEscrow(s.ctrl)
	s.publisher = mocks.NewMockAuditPublisher(s.ctrl)
	s.events = nil
	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, e audit.Event) error {
			s.events = append(s.events, e)
			return nil
		}).AnyTimes()

	s.contracts = store.NewInMemory()
	s.directory = dirstore.NewInMemory()
	s.client = &dirmodels.User{ID: id.UserID(uuid.New()), Role: dirmodels.RoleClient, Country: "US", VerificationStatus: dirmodels.VerificationVerified}
	s.provider = &dirmodels.User{ID: id.UserID(uuid.New()), Role: dirmodels.RoleProfessional, Country: "NG", VerificationStatus: dirmodels.VerificationVerified}
	s.listing = &dirmodels.Service{ID: id.ServiceID(uuid.New()), ProviderID: s.provider.ID, Category: "legal", Status: dirmodels.ServiceActive}
	s.directory.PutUser(s.client)
	s.directory.PutUser(s.provider)
	s.directory.PutService(s.listing)
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *ServiceSuite) service() *Service {
	return New(s.contracts, s.directory, s.compliance, s.escrow,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(s.publisher),
	)
}

func (s *ServiceSuite) as(userID id.UserID, role string) context.Context {
	ctx := requestcontext.WithActor(context.Background(), userID, role)
	return requestcontext.WithTime(ctx, s.now)
}

func (s *ServiceSuite) asClient() context.Context   { return s.as(s.client.ID, "client") }
func (s *ServiceSuite) asProvider() context.Context { return s.as(s.provider.ID, "professional") }
func (s *ServiceSuite) asAdmin() context.Context {
	return s.as(id.UserID(uuid.New()), requestcontext.RoleAdmin)
}

func evaluation(verdict compmodels.Verdict) compmodels.Evaluation {
	return compmodels.Evaluation{
		Status:  compmodels.Aggregate([]compmodels.Record{{Verdict: verdict}}),
		Records: []compmodels.Record{{Jurisdiction: "NG", Verdict: verdict, Detail: "checked", Source: compmodels.SourceEngine}},
	}
}

func (s *ServiceSuite) expectEvaluation(verdict compmodels.Verdict) {
	s.compliance.EXPECT().EvaluateContract(gomock.Any(), gomock.Any()).Return(evaluation(verdict), nil)
}

func (s *ServiceSuite) createRequest() CreateRequest {
	return CreateRequest{
		Title:         "Company registration",
		ProviderID:    s.provider.ID,
		ServiceID:     s.listing.ID,
		Terms:         "Register the company in Lagos",
		StartDate:     s.now,
		Amount:        10000,
		Currency:      "usd",
		PaymentMethod: "credit_card",
		Milestones:    []MilestoneInput{{Title: "Filing", Amount: 10000}},
		Jurisdictions: []string{"ng"},
	}
}

func (s *ServiceSuite) create() *models.Contract {
	s.expectEvaluation(compmodels.VerdictCompliant)
	c, err := s.service().Create(s.asClient(), s.createRequest())
	s.Require().NoError(err)
	return c
}

// activate walks a fresh contract to active with its escrow funded.
func (s *ServiceSuite) activate() *models.Contract {
	c := s.create()
	s.expectEvaluation(compmodels.VerdictCompliant)
	_, err := s.service().UpdateStatus(s.asClient(), c.ID, StatusChange{Status: models.StatusPending})
	s.Require().NoError(err)

	s.expectEvaluation(compmodels.VerdictCompliant)
	s.escrow.EXPECT().HasCompletedDeposit(gomock.Any(), c.ID, gomock.Any()).Return(false, nil)
	s.escrow.EXPECT().FundEscrow(gomock.Any(), gomock.Any(), gomock.Any()).Return(&escrowmodels.Transaction{}, nil)
	c, err = s.service().UpdateStatus(s.asProvider(), c.ID, StatusChange{Status: models.StatusActive})
	s.Require().NoError(err)
	return c
}

func (s *ServiceSuite) stored(contractID id.ContractID) *models.Contract {
	c, err := s.contracts.Get(context.Background(), contractID)
	s.Require().NoError(err)
	return c
}

func (s *ServiceSuite) actions() []string {
	var out []string
	for _, e := range s.events {
		out = append(out, e.Action)
	}
	return out
}

func (s *ServiceSuite) TestCreate() {
	c := s.create()

	s.Equal(models.StatusDraft, c.Status)
	s.Equal(s.client.ID, c.ClientID)
	s.Equal("USD", c.Currency)
	s.Equal([]string{"NG"}, c.Jurisdictions)
	s.Equal(compmodels.StatusCompliant, c.ComplianceStatus)
	s.Equal(1, c.ComplianceRound)
	s.Require().Len(c.ComplianceRecords, 1)
	s.Equal(1, c.ComplianceRecords[0].Round)
	s.Require().Len(c.Milestones, 1)
	s.Equal(models.MilestonePending, c.Milestones[0].Status)
	s.Equal(s.now, c.CreatedAt)

	stored := s.stored(c.ID)
	s.Equal(int64(1), stored.Version)
	s.Contains(s.actions(), string(audit.EventContractCreated))
}

func (s *ServiceSuite) TestCreateRejections() {
	unverified := &dirmodels.User{ID: id.UserID(uuid.New()), VerificationStatus: dirmodels.VerificationPending}
	s.directory.PutUser(unverified)
	inactive := &dirmodels.Service{ID: id.ServiceID(uuid.New()), Status: dirmodels.ServiceInactive}
	s.directory.PutService(inactive)

	tests := []struct {
		name   string
		ctx    context.Context
		mutate func(r *CreateRequest)
		code   dErrors.Code
	}{
		{"anonymous", context.Background(), func(*CreateRequest) {}, dErrors.CodeUnauthorized},
		{"missing title", nil, func(r *CreateRequest) { r.Title = " " }, dErrors.CodeValidation},
		{"missing terms", nil, func(r *CreateRequest) { r.Terms = "" }, dErrors.CodeValidation},
		{"zero amount", nil, func(r *CreateRequest) { r.Amount = 0 }, dErrors.CodeValidation},
		{"no jurisdictions", nil, func(r *CreateRequest) { r.Jurisdictions = []string{" "} }, dErrors.CodeValidation},
		{"milestone without amount", nil, func(r *CreateRequest) { r.Milestones[0].Amount = 0 }, dErrors.CodeValidation},
		{"self contract", nil, func(r *CreateRequest) { r.ProviderID = s.client.ID }, dErrors.CodeValidation},
		{"unknown service", nil, func(r *CreateRequest) { r.ServiceID = id.ServiceID(uuid.New()) }, dErrors.CodeNotFound},
		{"inactive service", nil, func(r *CreateRequest) { r.ServiceID = inactive.ID }, dErrors.CodeValidation},
		{"unknown provider", nil, func(r *CreateRequest) { r.ProviderID = id.UserID(uuid.New()) }, dErrors.CodeNotFound},
		{"unverified provider", nil, func(r *CreateRequest) { r.ProviderID = unverified.ID }, dErrors.CodeProviderNotVerified},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			ctx := tt.ctx
			if ctx == nil {
				ctx = s.asClient()
			}
			req := s.createRequest()
			tt.mutate(&req)
			_, err := s.service().Create(ctx, req)
			s.Require().Error(err)
			s.Equal(tt.code, dErrors.CodeOf(err))
		})
	}

	page, err := s.service().List(s.asClient(), models.RoleAny, "", 1)
	s.Require().NoError(err)
	s.Zero(page.Total)
}

func (s *ServiceSuite) TestCreateFailsWhenEvaluationFails() {
	s.compliance.EXPECT().EvaluateContract(gomock.Any(), gomock.Any()).
		Return(compmodels.Evaluation{}, dErrors.New(dErrors.CodeInternal, "regulations unavailable"))

	_, err := s.service().Create(s.asClient(), s.createRequest())
	s.Require().Error(err)

	page, err := s.service().List(s.asClient(), models.RoleAny, "", 1)
	s.Require().NoError(err)
	s.Zero(page.Total)
}

func (s *ServiceSuite) TestLifecycle() {
	t := s.T()
	testutil.Given(t, "a draft contract", func(t *testing.T) {
		c := s.create()

		testutil.When(t, "the client submits it", func(t *testing.T) {
			s.expectEvaluation(compmodels.VerdictWarning)
			got, err := s.service().UpdateStatus(s.asClient(), c.ID, StatusChange{Status: models.StatusPending})
			s.Require().NoError(err)

			testutil.Then(t, "compliance is evaluated again as a new round", func(t *testing.T) {
				s.Equal(models.StatusPending, got.Status)
				s.Equal(2, got.ComplianceRound)
				s.Len(got.ComplianceRecords, 2)
			})
		})

		testutil.When(t, "the client tries to accept it", func(t *testing.T) {
			_, err := s.service().UpdateStatus(s.asClient(), c.ID, StatusChange{Status: models.StatusActive})

			testutil.Then(t, "only the provider may accept", func(t *testing.T) {
				s.Equal(dErrors.CodeUnauthorized, dErrors.CodeOf(err))
				s.Equal(models.StatusPending, s.stored(c.ID).Status)
			})
		})

		testutil.When(t, "an administrator tries to accept it", func(t *testing.T) {
			_, err := s.service().UpdateStatus(s.asAdmin(), c.ID, StatusChange{Status: models.StatusActive})

			testutil.Then(t, "the provider rule still applies", func(t *testing.T) {
				s.Equal(dErrors.CodeUnauthorized, dErrors.CodeOf(err))
			})
		})

		testutil.When(t, "the provider accepts it", func(t *testing.T) {
			milestone := c.Milestones[0].ID
			s.expectEvaluation(compmodels.VerdictCompliant)
			s.escrow.EXPECT().HasCompletedDeposit(gomock.Any(), c.ID, &milestone).Return(false, nil)
			s.escrow.EXPECT().FundEscrow(gomock.Any(), gomock.Any(), escrowservice.DepositRequest{
				MilestoneID: &milestone,
				Amount:      10000,
				Currency:    "USD",
				Method:      "credit_card",
			}).DoAndReturn(func(_ context.Context, view escrowmodels.ContractView, _ escrowservice.DepositRequest) (*escrowmodels.Transaction, error) {
				s.Equal(escrowmodels.ContractPending, view.Status)
				return &escrowmodels.Transaction{}, nil
			})
			got, err := s.service().UpdateStatus(s.asProvider(), c.ID, StatusChange{Status: models.StatusActive})
			s.Require().NoError(err)

			testutil.Then(t, "escrow is funded and the contract is active", func(t *testing.T) {
				s.Equal(models.StatusActive, got.Status)
				s.Equal(3, got.ComplianceRound)
			})
		})

		testutil.When(t, "the provider marks the contract completed", func(t *testing.T) {
			_, err := s.service().UpdateStatus(s.asProvider(), c.ID, StatusChange{Status: models.StatusCompleted})

			testutil.Then(t, "only the client may complete it", func(t *testing.T) {
				s.Equal(dErrors.CodeUnauthorized, dErrors.CodeOf(err))
			})
		})

		testutil.When(t, "the client completes it", func(t *testing.T) {
			got, err := s.service().UpdateStatus(s.asClient(), c.ID, StatusChange{Status: models.StatusCompleted})
			s.Require().NoError(err)

			testutil.Then(t, "the contract is terminal", func(t *testing.T) {
				s.True(got.Status.IsTerminal())
				_, err := s.service().UpdateStatus(s.asClient(), c.ID, StatusChange{Status: models.StatusDisputed, Reason: "late"})
				s.Equal(dErrors.CodeInvalidTransition, dErrors.CodeOf(err))
			})
		})
	})
}

func (s *ServiceSuite) TestUpdateStatusChecks() {
	c := s.create()
	stranger := s.as(id.UserID(uuid.New()), "client")

	_, err := s.service().UpdateStatus(stranger, c.ID, StatusChange{Status: models.StatusPending})
	s.Equal(dErrors.CodeUnauthorized, dErrors.CodeOf(err))

	_, err = s.service().UpdateStatus(s.asClient(), c.ID, StatusChange{Status: "archived"})
	s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))

	_, err = s.service().UpdateStatus(s.asClient(), c.ID, StatusChange{Status: models.StatusCompleted})
	s.Equal(dErrors.CodeInvalidTransition, dErrors.CodeOf(err))
	s.Contains(err.Error(), "cannot transition from draft to completed")

	_, err = s.service().UpdateStatus(s.asClient(), id.NewContractID(), StatusChange{Status: models.StatusPending})
	s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))

	s.Contains(s.actions(), string(audit.EventTransitionRejected))
	s.Equal(int64(1), s.stored(c.ID).Version)
}

func (s *ServiceSuite) TestActivationFundingFailureKeepsContractPending() {
	c := s.create()
	s.expectEvaluation(compmodels.VerdictCompliant)
	_, err := s.service().UpdateStatus(s.asClient(), c.ID, StatusChange{Status: models.StatusPending})
	s.Require().NoError(err)

	s.expectEvaluation(compmodels.VerdictCompliant)
	s.escrow.EXPECT().HasCompletedDeposit(gomock.Any(), c.ID, gomock.Any()).Return(false, nil)
	s.escrow.EXPECT().FundEscrow(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeGatewayFailure, "card declined"))

	_, err = s.service().UpdateStatus(s.asProvider(), c.ID, StatusChange{Status: models.StatusActive})
	s.Equal(dErrors.CodeGatewayFailure, dErrors.CodeOf(err))

	stored := s.stored(c.ID)
	s.Equal(models.StatusPending, stored.Status)
	s.Equal(2, stored.ComplianceRound)
}

func (s *ServiceSuite) TestActivationSkipsFundedSlots() {
	req := s.createRequest()
	req.Milestones = append(req.Milestones, MilestoneInput{Title: "Certificate", Amount: 5000})
	s.expectEvaluation(compmodels.VerdictCompliant)
	c, err := s.service().Create(s.asClient(), req)
	s.Require().NoError(err)
	s.expectEvaluation(compmodels.VerdictCompliant)
	_, err = s.service().UpdateStatus(s.asClient(), c.ID, StatusChange{Status: models.StatusPending})
	s.Require().NoError(err)

	first, second := c.Milestones[0].ID, c.Milestones[1].ID
	s.expectEvaluation(compmodels.VerdictCompliant)
	s.escrow.EXPECT().HasCompletedDeposit(gomock.Any(), c.ID, &first).Return(true, nil)
	s.escrow.EXPECT().HasCompletedDeposit(gomock.Any(), c.ID, &second).Return(false, nil)
	s.escrow.EXPECT().FundEscrow(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ escrowmodels.ContractView, req escrowservice.DepositRequest) (*escrowmodels.Transaction, error) {
			s.Equal(second, *req.MilestoneID)
			s.Equal(int64(5000), req.Amount)
			return nil, dErrors.New(dErrors.CodeDuplicateDeposit, "already funded")
		})

	got, err := s.service().UpdateStatus(s.asProvider(), c.ID, StatusChange{Status: models.StatusActive})
	s.Require().NoError(err)
	s.Equal(models.StatusActive, got.Status)
}

func (s *ServiceSuite) TestActivationWithoutMilestonesFundsWholeContract() {
	req := s.createRequest()
	req.Milestones = nil
	s.expectEvaluation(compmodels.VerdictCompliant)
	c, err := s.service().Create(s.asClient(), req)
	s.Require().NoError(err)
	s.expectEvaluation(compmodels.VerdictCompliant)
	_, err = s.service().UpdateStatus(s.asClient(), c.ID, StatusChange{Status: models.StatusPending})
	s.Require().NoError(err)

	s.expectEvaluation(compmodels.VerdictCompliant)
	s.escrow.EXPECT().HasCompletedDeposit(gomock.Any(), c.ID, gomock.Nil()).Return(false, nil)
	s.escrow.EXPECT().FundEscrow(gomock.Any(), gomock.Any(), escrowservice.DepositRequest{
		Amount: 10000, Currency: "USD", Method: "credit_card",
	}).Return(&escrowmodels.Transaction{}, nil)

	_, err = s.service().UpdateStatus(s.asProvider(), c.ID, StatusChange{Status: models.StatusActive})
	s.Require().NoError(err)
}

func (s *ServiceSuite) TestDispute() {
	c := s.activate()

	_, err := s.service().UpdateStatus(s.asProvider(), c.ID, StatusChange{Status: models.StatusDisputed, Reason: "  "})
	s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))

	got, err := s.service().UpdateStatus(s.asProvider(), c.ID, StatusChange{Status: models.StatusDisputed, Reason: "scope changed"})
	s.Require().NoError(err)
	s.Require().NotNil(got.Dispute)
	s.Equal("scope changed", got.Dispute.Reason)
	s.Equal(s.provider.ID, got.Dispute.RaisedBy)
	s.Nil(got.Dispute.ResolvedAt)
	s.Contains(s.actions(), string(audit.EventContractDisputed))

	s.escrow.EXPECT().HasRefundableEscrow(gomock.Any(), c.ID, gomock.Any()).Return(false, nil)
	got, err = s.service().UpdateStatus(s.asClient(), c.ID, StatusChange{Status: models.StatusCancelled})
	s.Require().NoError(err)
	s.Equal("cancelled", got.Dispute.Resolution)
	s.Require().NotNil(got.Dispute.ResolvedAt)
	s.Equal(s.now, *got.Dispute.ResolvedAt)
}

func (s *ServiceSuite) TestCancellationRefundsHeldEscrow() {
	req := s.createRequest()
	req.Milestones = []MilestoneInput{{Title: "Filing", Amount: 6000}, {Title: "Certificate", Amount: 4000}}
	s.expectEvaluation(compmodels.VerdictCompliant)
	c, err := s.service().Create(s.asClient(), req)
	s.Require().NoError(err)
	s.expectEvaluation(compmodels.VerdictCompliant)
	_, err = s.service().UpdateStatus(s.asClient(), c.ID, StatusChange{Status: models.StatusPending})
	s.Require().NoError(err)

	funded, unfunded := c.Milestones[0].ID, c.Milestones[1].ID
	s.escrow.EXPECT().HasRefundableEscrow(gomock.Any(), c.ID, &funded).Return(true, nil).Times(2)
	s.escrow.EXPECT().HasRefundableEscrow(gomock.Any(), c.ID, &unfunded).Return(false, nil)

	s.Run("a failed refund keeps the contract pending", func() {
		s.escrow.EXPECT().Refund(gomock.Any(), gomock.Any(), &funded).
			Return(nil, dErrors.New(dErrors.CodeGatewayFailure, "payout failed"))

		_, err := s.service().UpdateStatus(s.asClient(), c.ID, StatusChange{Status: models.StatusCancelled})
		s.Equal(dErrors.CodeGatewayFailure, dErrors.CodeOf(err))
		s.Equal(models.StatusPending, s.stored(c.ID).Status)
	})

	s.Run("only the funded slot is refunded", func() {
		refund := &escrowmodels.Transaction{ID: id.NewTransactionID(), Type: escrowmodels.TypeRefund}
		s.escrow.EXPECT().Refund(gomock.Any(), gomock.Any(), &funded).
			DoAndReturn(func(_ context.Context, view escrowmodels.ContractView, _ *id.MilestoneID) (*escrowmodels.Transaction, error) {
				s.Equal(s.client.ID, view.ClientID)
				return refund, nil
			})

		got, err := s.service().UpdateStatus(s.asClient(), c.ID, StatusChange{Status: models.StatusCancelled})
		s.Require().NoError(err)
		s.Equal(models.StatusCancelled, got.Status)
	})
}

func (s *ServiceSuite) TestMilestoneApprovalReleasesEscrow() {
	c := s.activate()
	milestone := c.Milestones[0].ID

	_, err := s.service().UpdateMilestoneStatus(s.asClient(), c.ID, milestone, models.MilestoneCompleted)
	s.Equal(dErrors.CodeUnauthorized, dErrors.CodeOf(err))

	done, err := s.service().UpdateMilestoneStatus(s.asProvider(), c.ID, milestone, models.MilestoneCompleted)
	s.Require().NoError(err)
	s.Equal(models.MilestoneCompleted, done.Milestone.Status)
	s.Nil(done.Release)

	_, err = s.service().UpdateMilestoneStatus(s.asProvider(), c.ID, milestone, models.MilestoneApproved)
	s.Equal(dErrors.CodeUnauthorized, dErrors.CodeOf(err))

	release := &escrowmodels.Transaction{ID: id.NewTransactionID(), Type: escrowmodels.TypeEscrowRelease}
	s.escrow.EXPECT().HasCompletedDeposit(gomock.Any(), c.ID, &milestone).Return(true, nil)
	s.escrow.EXPECT().Release(gomock.Any(), gomock.Any(), &milestone, s.client.ID).
		DoAndReturn(func(_ context.Context, view escrowmodels.ContractView, _ *id.MilestoneID, _ id.UserID) (*escrowmodels.Transaction, error) {
			m, ok := view.Milestone(milestone)
			s.True(ok)
			s.Equal("completed", m.Status)
			return release, nil
		})

	approved, err := s.service().UpdateMilestoneStatus(s.asClient(), c.ID, milestone, models.MilestoneApproved)
	s.Require().NoError(err)
	s.Equal(models.MilestoneApproved, approved.Milestone.Status)
	s.Equal(release, approved.Release)
	s.Equal(models.MilestoneApproved, s.stored(c.ID).Milestones[0].Status)

	_, err = s.service().UpdateMilestoneStatus(s.asClient(), c.ID, milestone, models.MilestoneDisputed)
	s.Equal(dErrors.CodeInvalidTransition, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestMilestoneApprovalAfterLostWrite() {
	c := s.activate()
	milestone := c.Milestones[0].ID
	_, err := s.service().UpdateMilestoneStatus(s.asProvider(), c.ID, milestone, models.MilestoneCompleted)
	s.Require().NoError(err)

	s.escrow.EXPECT().HasCompletedDeposit(gomock.Any(), c.ID, &milestone).Return(true, nil)
	s.escrow.EXPECT().Release(gomock.Any(), gomock.Any(), &milestone, s.client.ID).
		Return(nil, dErrors.New(dErrors.CodeAlreadyReleased, "already released"))

	approved, err := s.service().UpdateMilestoneStatus(s.asClient(), c.ID, milestone, models.MilestoneApproved)
	s.Require().NoError(err)
	s.Equal(models.MilestoneApproved, approved.Milestone.Status)
	s.Nil(approved.Release)
}

func (s *ServiceSuite) TestMilestoneReleaseFailureLeavesMilestone() {
	c := s.activate()
	milestone := c.Milestones[0].ID
	_, err := s.service().UpdateMilestoneStatus(s.asProvider(), c.ID, milestone, models.MilestoneCompleted)
	s.Require().NoError(err)

	s.escrow.EXPECT().HasCompletedDeposit(gomock.Any(), c.ID, &milestone).Return(true, nil)
	s.escrow.EXPECT().Release(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, dErrors.New(dErrors.CodeGatewayFailure, "payout failed"))

	_, err = s.service().UpdateMilestoneStatus(s.asClient(), c.ID, milestone, models.MilestoneApproved)
	s.Equal(dErrors.CodeGatewayFailure, dErrors.CodeOf(err))
	s.Equal(models.MilestoneCompleted, s.stored(c.ID).Milestones[0].Status)
}

func (s *ServiceSuite) TestMilestoneGates() {
	c := s.create()
	milestone := c.Milestones[0].ID

	_, err := s.service().UpdateMilestoneStatus(s.asProvider(), c.ID, milestone, models.MilestoneCompleted)
	s.Equal(dErrors.CodeInvalidTransition, dErrors.CodeOf(err))

	c = s.activate()
	_, err = s.service().UpdateMilestoneStatus(s.asProvider(), c.ID, id.NewMilestoneID(), models.MilestoneCompleted)
	s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))

	_, err = s.service().UpdateMilestoneStatus(s.asProvider(), c.ID, c.Milestones[0].ID, "paid")
	s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))

	_, err = s.service().UpdateMilestoneStatus(s.asClient(), c.ID, c.Milestones[0].ID, models.MilestoneApproved)
	s.Equal(dErrors.CodeInvalidTransition, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestReleaseMilestoneApprovesIt() {
	c := s.activate()
	milestone := c.Milestones[0].ID
	release := &escrowmodels.Transaction{ID: id.NewTransactionID(), RecipientID: s.provider.ID}
	s.escrow.EXPECT().Release(gomock.Any(), gomock.Any(), &milestone, s.client.ID).Return(release, nil)

	tx, err := s.service().ReleaseMilestone(s.asClient(), c.ID, &milestone)
	s.Require().NoError(err)
	s.Equal(release, tx)
	s.Equal(models.MilestoneApproved, s.stored(c.ID).Milestones[0].Status)
}

func (s *ServiceSuite) TestReleaseMilestoneFailure() {
	c := s.activate()
	milestone := c.Milestones[0].ID
	s.escrow.EXPECT().Release(gomock.Any(), gomock.Any(), &milestone, s.provider.ID).
		Return(nil, dErrors.New(dErrors.CodeUnauthorized, "only the client"))

	_, err := s.service().ReleaseMilestone(s.asProvider(), c.ID, &milestone)
	s.Equal(dErrors.CodeUnauthorized, dErrors.CodeOf(err))
	s.Equal(models.MilestonePending, s.stored(c.ID).Milestones[0].Status)

	_, err = s.service().ReleaseMilestone(s.asClient(), id.NewContractID(), nil)
	s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestReleaseMilestoneRequiresLiveContract() {
	c := s.activate()
	milestone := c.Milestones[0].ID
	s.escrow.EXPECT().HasRefundableEscrow(gomock.Any(), c.ID, &milestone).Return(false, nil)
	_, err := s.service().UpdateStatus(s.asProvider(), c.ID, StatusChange{Status: models.StatusDisputed, Reason: "scope changed"})
	s.Require().NoError(err)
	_, err = s.service().UpdateStatus(s.asClient(), c.ID, StatusChange{Status: models.StatusCancelled})
	s.Require().NoError(err)

	_, err = s.service().ReleaseMilestone(s.asClient(), c.ID, &milestone)
	s.Equal(dErrors.CodeInvalidTransition, dErrors.CodeOf(err))
	s.Equal(models.MilestonePending, s.stored(c.ID).Milestones[0].Status)

	draft := s.create()
	_, err = s.service().ReleaseMilestone(s.asClient(), draft.ID, &draft.Milestones[0].ID)
	s.Equal(dErrors.CodeInvalidTransition, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestAddComplianceCheck() {
	c := s.create()
	check := ManualCheck{Jurisdiction: "ng", Status: compmodels.VerdictNonCompliant, Details: "missing stamp duty"}

	_, err := s.service().AddComplianceCheck(s.asClient(), c.ID, check)
	s.Equal(dErrors.CodeUnauthorized, dErrors.CodeOf(err))

	_, err = s.service().AddComplianceCheck(s.asAdmin(), c.ID, ManualCheck{Jurisdiction: "NG", Status: "unknown", Details: "x"})
	s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))

	_, err = s.service().AddComplianceCheck(s.asAdmin(), c.ID, ManualCheck{Jurisdiction: "NG", Status: compmodels.VerdictWarning})
	s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))

	got, err := s.service().AddComplianceCheck(s.asAdmin(), c.ID, check)
	s.Require().NoError(err)
	s.Equal(compmodels.StatusNonCompliant, got.ComplianceStatus)
	s.Equal(1, got.ComplianceRound)
	s.Require().Len(got.ComplianceRecords, 2)
	last := got.ComplianceRecords[1]
	s.Equal("NG", last.Jurisdiction)
	s.Equal(compmodels.SourceManual, last.Source)
	s.Equal(1, last.Round)
	s.Contains(s.actions(), string(audit.EventComplianceStatusChanged))

	// a fresh evaluation starts a new round that the manual entry no longer drags down
	s.expectEvaluation(compmodels.VerdictCompliant)
	eval, err := s.service().CheckCompliance(s.asClient(), c.ID)
	s.Require().NoError(err)
	s.True(eval.IsCompliant())
	stored := s.stored(c.ID)
	s.Equal(compmodels.StatusCompliant, stored.ComplianceStatus)
	s.Len(stored.ComplianceRecords, 3)
}

func (s *ServiceSuite) TestCheckComplianceAuthorization() {
	c := s.create()
	_, err := s.service().CheckCompliance(s.as(id.UserID(uuid.New()), "client"), c.ID)
	s.Equal(dErrors.CodeUnauthorized, dErrors.CodeOf(err))

	s.compliance.EXPECT().EvaluateContract(gomock.Any(), gomock.Any()).
		Return(compmodels.Evaluation{}, errors.New("boom"))
	_, err = s.service().CheckCompliance(s.asAdmin(), c.ID)
	s.Require().Error(err)
	s.Equal(1, s.stored(c.ID).ComplianceRound)
}

func (s *ServiceSuite) TestMonitoring() {
	s.create()
	active := s.activate()

	monitored, err := s.service().ListForMonitoring(context.Background())
	s.Require().NoError(err)
	s.Require().Len(monitored, 1)
	s.Equal(active.ID, monitored[0].ID)
	s.Equal(compmodels.StatusCompliant, monitored[0].Status)

	applied, err := s.service().ApplyMonitoredEvaluation(context.Background(), active.ID, compmodels.StatusNonCompliant, evaluation(compmodels.VerdictNonCompliant))
	s.Require().NoError(err)
	s.False(applied, "stale previous status")

	applied, err = s.service().ApplyMonitoredEvaluation(context.Background(), active.ID, compmodels.StatusCompliant, evaluation(compmodels.VerdictCompliant))
	s.Require().NoError(err)
	s.False(applied, "unchanged status")

	applied, err = s.service().ApplyMonitoredEvaluation(context.Background(), active.ID, compmodels.StatusCompliant, evaluation(compmodels.VerdictNonCompliant))
	s.Require().NoError(err)
	s.True(applied)
	stored := s.stored(active.ID)
	s.Equal(compmodels.StatusNonCompliant, stored.ComplianceStatus)
	s.Equal(active.ComplianceRound+1, stored.ComplianceRound)
}

func (s *ServiceSuite) TestGetAndList() {
	c := s.create()

	_, err := s.service().Get(s.as(id.UserID(uuid.New()), "client"), c.ID)
	s.Equal(dErrors.CodeUnauthorized, dErrors.CodeOf(err))

	got, err := s.service().Get(s.asAdmin(), c.ID)
	s.Require().NoError(err)
	s.Equal(c.ID, got.ID)

	page, err := s.service().List(s.asProvider(), models.RoleProvider, "", 0)
	s.Require().NoError(err)
	s.Equal(1, page.Total)
	s.Equal(1, page.Page)

	page, err = s.service().List(s.asProvider(), models.RoleClient, "", 1)
	s.Require().NoError(err)
	s.Zero(page.Total)
	s.NotNil(page.Contracts)

	_, err = s.service().List(s.asClient(), "owner", "", 1)
	s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
	_, err = s.service().List(s.asClient(), models.RoleAny, "archived", 1)
	s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
}

func (s *ServiceSuite) TestEscrowView() {
	c := s.create()
	view, err := s.service().EscrowView(context.Background(), c.ID)
	s.Require().NoError(err)
	s.Equal(c.ClientID, view.ClientID)
	s.Len(view.Milestones, 1)

	_, err = s.service().EscrowView(context.Background(), id.NewContractID())
	s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
}
