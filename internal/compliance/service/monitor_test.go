package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"africonnect/internal/compliance/models"
	"africonnect/internal/compliance/ports/mocks"
	id "africonnect/pkg/domain"
	dErrors "africonnect/pkg/domain-errors"
)

type stubEvaluator struct {
	results map[id.ContractID]models.Evaluation
	errs    map[id.ContractID]error
}

func (e stubEvaluator) EvaluateContract(_ context.Context, subject models.ContractSubject) (models.Evaluation, error) {
	if err, ok := e.errs[subject.ID]; ok {
		return models.Evaluation{}, err
	}
	return e.results[subject.ID], nil
}

type MonitorSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	source    *mocks.MockContractSource
	publisher *mocks.MockAuditPublisher
}

func TestMonitorSuite(t *testing.T) {
	suite.Run(t, new(MonitorSuite))
}

func (s *MonitorSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.source = mocks.NewMockContractSource(s.ctrl)
	s.publisher = mocks.NewMockAuditPublisher(s.ctrl)
}

func (s *MonitorSuite) monitor(eval Evaluator) *Monitor {
	return NewMonitor(eval, s.source,
		WithMonitorLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMonitorAuditPublisher(s.publisher),
		WithConcurrency(2),
	)
}

func monitored(status models.Status) models.MonitoredContract {
	return models.MonitoredContract{
		ContractSubject: models.ContractSubject{ID: id.NewContractID(), Jurisdictions: []string{"NG"}},
		Status:          status,
	}
}

func (s *MonitorSuite) TestReportsOnlyChangedContractsInOrder() {
	unchanged := monitored(models.StatusCompliant)
	flipped := monitored(models.StatusCompliant)
	recovered := monitored(models.StatusNonCompliant)
	nonCompliant := models.Evaluation{Status: models.StatusNonCompliant, Records: []models.Record{{Verdict: models.VerdictNonCompliant}}}
	compliant := models.Evaluation{Status: models.StatusCompliant, Records: []models.Record{{Verdict: models.VerdictCompliant}}}

	eval := stubEvaluator{results: map[id.ContractID]models.Evaluation{
		unchanged.ID: compliant,
		flipped.ID:   nonCompliant,
		recovered.ID: compliant,
	}}

	s.source.EXPECT().ListForMonitoring(gomock.Any()).Return([]models.MonitoredContract{unchanged, flipped, recovered}, nil)
	s.source.EXPECT().ApplyMonitoredEvaluation(gomock.Any(), flipped.ID, models.StatusCompliant, nonCompliant).Return(true, nil)
	s.source.EXPECT().ApplyMonitoredEvaluation(gomock.Any(), recovered.ID, models.StatusNonCompliant, compliant).Return(true, nil)
	s.publisher.EXPECT().Emit(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	changes, err := s.monitor(eval).MonitorRegulatoryChanges(context.Background())
	s.Require().NoError(err)
	s.Require().Len(changes, 2)
	s.Equal(flipped.ID, changes[0].ContractID)
	s.Equal(models.StatusCompliant, changes[0].PreviousStatus)
	s.Equal(models.StatusNonCompliant, changes[0].NewStatus)
	s.Equal(nonCompliant.Records, changes[0].Records)
	s.Equal(recovered.ID, changes[1].ContractID)
}

func (s *MonitorSuite) TestUnchangedDataWritesNothing() {
	c := monitored(models.StatusCompliant)
	eval := stubEvaluator{results: map[id.ContractID]models.Evaluation{c.ID: {Status: models.StatusCompliant}}}

	s.source.EXPECT().ListForMonitoring(gomock.Any()).Return([]models.MonitoredContract{c}, nil).Times(2)

	m := s.monitor(eval)
	for range 2 {
		changes, err := m.MonitorRegulatoryChanges(context.Background())
		s.Require().NoError(err)
		s.NotNil(changes)
		s.Empty(changes)
	}
}

func (s *MonitorSuite) TestConcurrentChangeIsNotReported() {
	c := monitored(models.StatusCompliant)
	eval := stubEvaluator{results: map[id.ContractID]models.Evaluation{c.ID: {Status: models.StatusNonCompliant}}}

	s.source.EXPECT().ListForMonitoring(gomock.Any()).Return([]models.MonitoredContract{c}, nil)
	s.source.EXPECT().ApplyMonitoredEvaluation(gomock.Any(), c.ID, models.StatusCompliant, gomock.Any()).Return(false, nil)

	changes, err := s.monitor(eval).MonitorRegulatoryChanges(context.Background())
	s.Require().NoError(err)
	s.Empty(changes)
}

func (s *MonitorSuite) TestSkipsContractsThatCannotBeEvaluated() {
	broken := monitored(models.StatusCompliant)
	eval := stubEvaluator{errs: map[id.ContractID]error{broken.ID: dErrors.New(dErrors.CodeNotFound, "service not found")}}

	s.source.EXPECT().ListForMonitoring(gomock.Any()).Return([]models.MonitoredContract{broken}, nil)

	changes, err := s.monitor(eval).MonitorRegulatoryChanges(context.Background())
	s.Require().NoError(err)
	s.Empty(changes)
}

func (s *MonitorSuite) TestStoreFailuresAbortTheRun() {
	s.source.EXPECT().ListForMonitoring(gomock.Any()).Return(nil, errors.New("connection refused"))

	_, err := s.monitor(stubEvaluator{}).MonitorRegulatoryChanges(context.Background())
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
