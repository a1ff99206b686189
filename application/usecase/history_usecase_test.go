package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/mintrail/mintrail/application/port/inbound"
	"github.com/mintrail/mintrail/application/port/outbound"
	"github.com/mintrail/mintrail/domain/entity"
	apperror "github.com/mintrail/mintrail/domain/error"
	"github.com/mintrail/mintrail/infrastructure/service/logger"
)

func newHistoryUseCase() (inbound.HistoryUseCase, *MockEventRepository, *MockMembershipRepository) {
	events := new(MockEventRepository)
	membership := new(MockMembershipRepository)
	log := logger.NewStructuredLogger(logger.LoggerConfig{Level: "error", Format: "json"})
	return NewHistoryUseCase(events, membership, log), events, membership
}

func TestHistoryUseCase_List_ConvertsLocalDayBounds(t *testing.T) {
	uc, events, membership := newHistoryUseCase()
	ctx := context.Background()

	membership.On("FindOrgByUserID", ctx, "user-1").Return("org-1", nil)
	wantFrom := time.Date(2024, 5, 31, 15, 0, 0, 0, time.UTC)
	wantTo := time.Date(2024, 6, 1, 14, 59, 59, 999_000_000, time.UTC)
	events.On("ListByOrg", ctx, "org-1", &wantFrom, &wantTo).
		Return([]*entity.DistributionEvent{{ID: "evt-1"}}, nil)

	got, err := uc.List(ctx, testSession(), inbound.RangeRequest{Start: "2024-06-01", End: "2024-06-01"})

	assert.NoError(t, err)
	assert.Len(t, got, 1)
	events.AssertExpectations(t)
}

func TestHistoryUseCase_List_MalformedDate_NoQuery(t *testing.T) {
	uc, events, membership := newHistoryUseCase()
	ctx := context.Background()

	membership.On("FindOrgByUserID", ctx, "user-1").Return("org-1", nil)

	_, err := uc.List(ctx, testSession(), inbound.RangeRequest{Start: "06/01/2024"})

	assert.Equal(t, apperror.ErrCodeInvalidRange, apperror.CodeOf(err))
	events.AssertNotCalled(t, "ListByOrg")
}

func TestHistoryUseCase_List_NoMembership(t *testing.T) {
	uc, events, membership := newHistoryUseCase()
	ctx := context.Background()

	membership.On("FindOrgByUserID", ctx, "user-1").Return("", outbound.ErrNoMembership)

	_, err := uc.List(ctx, testSession(), inbound.RangeRequest{})

	assert.Equal(t, apperror.ErrCodeNoMembership, apperror.CodeOf(err))
	events.AssertNotCalled(t, "ListByOrg")
}

func TestHistoryUseCase_Record_Success(t *testing.T) {
	uc, events, membership := newHistoryUseCase()
	ctx := context.Background()

	membership.On("FindOrgByUserID", ctx, "user-1").Return("org-1", nil)
	events.On("Append", ctx, mock.AnythingOfType("*entity.DistributionEvent")).Return(nil)

	got, err := uc.Record(ctx, testSession(), inbound.RecordRequest{
		Type:             "send",
		Name:             "Taro",
		Email:            "taro@example.com",
		RecipientAddress: "0xRECIPIENT",
		Amount:           2,
		TokenIDs:         "10 | 11",
		TxHash:           "0xext",
	})

	assert.NoError(t, err)
	assert.Equal(t, entity.EventKindSend, got.Kind)
	assert.Equal(t, "org-1", got.OrgID)
	assert.Equal(t, "user-1", got.ActorID)
	assert.Equal(t, "10 | 11", got.TokenIDs)
	events.AssertExpectations(t)
}

func TestHistoryUseCase_Record_RejectsUnknownType(t *testing.T) {
	uc, events, membership := newHistoryUseCase()
	ctx := context.Background()

	membership.On("FindOrgByUserID", ctx, "user-1").Return("org-1", nil)

	_, err := uc.Record(ctx, testSession(), inbound.RecordRequest{
		Type:             "BURN",
		RecipientAddress: "0xRECIPIENT",
		Amount:           1,
		TxHash:           "0xext",
	})

	assert.Equal(t, apperror.ErrCodeInvalidRequest, apperror.CodeOf(err))
	events.AssertNotCalled(t, "Append")
}

func TestHistoryUseCase_Record_RequiresTxHash(t *testing.T) {
	uc, events, membership := newHistoryUseCase()
	ctx := context.Background()

	membership.On("FindOrgByUserID", ctx, "user-1").Return("org-1", nil)

	_, err := uc.Record(ctx, testSession(), inbound.RecordRequest{
		Type:             "CLAIM",
		RecipientAddress: "0xRECIPIENT",
		Amount:           1,
	})

	assert.Equal(t, apperror.ErrCodeInvalidRequest, apperror.CodeOf(err))
	events.AssertNotCalled(t, "Append")
}

func TestHistoryUseCase_Export_EmptyRange_HeaderOnly(t *testing.T) {
	uc, events, membership := newHistoryUseCase()
	ctx := context.Background()

	membership.On("FindOrgByUserID", ctx, "user-1").Return("org-1", nil)
	events.On("ListByOrg", ctx, "org-1", mock.Anything, mock.Anything).
		Return([]*entity.DistributionEvent{}, nil)

	artifact, err := uc.Export(ctx, testSession(), inbound.RangeRequest{Start: "2024-06-01", End: "2024-06-30"})

	assert.NoError(t, err)
	assert.Equal(t, "nft_history_2024-06-01_to_2024-06-30.csv", artifact.Filename)
	assert.Equal(t, "Timestamp,Type,Name,ID NO,Email,Wallet Address,Amount,Token IDs,Tx Hash\r\n", string(artifact.Content))
}

func TestHistoryUseCase_Export_QuotesTokenIDsAndSubstitutesPlaceholders(t *testing.T) {
	uc, events, membership := newHistoryUseCase()
	ctx := context.Background()

	created := time.Date(2024, 5, 31, 15, 30, 0, 0, time.UTC) // 2024-06-01 00:30 JST
	membership.On("FindOrgByUserID", ctx, "user-1").Return("org-1", nil)
	events.On("ListByOrg", ctx, "org-1", (*time.Time)(nil), (*time.Time)(nil)).
		Return([]*entity.DistributionEvent{
			{
				ID:               "evt-1",
				Kind:             entity.EventKindSend,
				RecipientAddress: "0xRECIPIENT",
				Amount:           2,
				TokenIDs:         "3 | 7",
				TxHash:           "0xsend",
				CreatedAt:        created,
			},
		}, nil)

	artifact, err := uc.Export(ctx, testSession(), inbound.RangeRequest{})

	assert.NoError(t, err)
	assert.Equal(t, "nft_history.csv", artifact.Filename)
	lines := strings.Split(strings.TrimRight(string(artifact.Content), "\r\n"), "\r\n")
	assert.Len(t, lines, 2)
	// Timestamp rendered in local time, token ids always quoted, absent
	// optional fields substituted with the placeholder.
	assert.Equal(t, `2024-06-01 00:30:00,SEND,-,-,-,0xRECIPIENT,2,"3 | 7",0xsend`, lines[1])
}

func TestHistoryUseCase_Export_ReadFailure(t *testing.T) {
	uc, events, membership := newHistoryUseCase()
	ctx := context.Background()

	membership.On("FindOrgByUserID", ctx, "user-1").Return("org-1", nil)
	events.On("ListByOrg", ctx, "org-1", (*time.Time)(nil), (*time.Time)(nil)).
		Return(nil, assert.AnError)

	_, err := uc.Export(ctx, testSession(), inbound.RangeRequest{})

	assert.Equal(t, apperror.ErrCodeStoreReadFailed, apperror.CodeOf(err))
}
