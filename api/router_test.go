package api

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	challengetypes "github.com/Amberfall-Games/emberquest/app/modules/challenge/domain"
	lootservice "github.com/Amberfall-Games/emberquest/app/modules/loot/application"
	loottypes "github.com/Amberfall-Games/emberquest/app/modules/loot/domain"
	lootdb "github.com/Amberfall-Games/emberquest/app/modules/loot/infrastructure/repositories"
	effecttypes "github.com/Amberfall-Games/emberquest/app/modules/effects/domain"
	"github.com/Amberfall-Games/emberquest/app/shared/results"
	sharedtypes "github.com/Amberfall-Games/emberquest/app/shared/types"
)

type fakeLootService struct {
	rollResult     results.OperationResult[*loottypes.RewardResult, error]
	openResult     results.OperationResult[*loottypes.ChestOpenResult, error]
	grantResult    results.OperationResult[*lootdb.UserChest, error]
	chests         []lootdb.UserChest
	fightEnemyType string
}

func (f *fakeLootService) RollLoot(context.Context, sharedtypes.UserID, string) (results.OperationResult[*loottypes.RewardResult, error], error) {
	return f.rollResult, nil
}

func (f *fakeLootService) RollFightLoot(_ context.Context, _ sharedtypes.UserID, enemyType string) (results.OperationResult[*loottypes.RewardResult, error], error) {
	f.fightEnemyType = enemyType
	return f.rollResult, nil
}

func (f *fakeLootService) OpenChest(context.Context, sharedtypes.UserID, uuid.UUID) (results.OperationResult[*loottypes.ChestOpenResult, error], error) {
	return f.openResult, nil
}

func (f *fakeLootService) GrantDailyChest(context.Context, sharedtypes.UserID) (results.OperationResult[*lootdb.UserChest, error], error) {
	return f.grantResult, nil
}

func (f *fakeLootService) ListUnopenedChests(context.Context, sharedtypes.UserID) ([]lootdb.UserChest, error) {
	return f.chests, nil
}

var _ lootservice.Service = (*fakeLootService)(nil)

type fakeEffectsService struct {
	modifiers effecttypes.ResolvedModifierSet
	campaigns []effecttypes.Campaign
}

func (f *fakeEffectsService) Resolve(context.Context, sharedtypes.UserID) (results.OperationResult[effecttypes.ResolvedModifierSet, error], error) {
	return results.SuccessResult[effecttypes.ResolvedModifierSet, error](f.modifiers), nil
}

func (f *fakeEffectsService) ResolveAt(context.Context, sharedtypes.UserID, time.Time) (results.OperationResult[effecttypes.ResolvedModifierSet, error], error) {
	return results.SuccessResult[effecttypes.ResolvedModifierSet, error](f.modifiers), nil
}

func (f *fakeEffectsService) ActiveCampaigns(context.Context) ([]effecttypes.Campaign, error) {
	return f.campaigns, nil
}

type fakeChallengeService struct {
	board results.OperationResult[[]challengetypes.RankedEntry, error]
	rank  results.OperationResult[challengetypes.RankedEntry, error]
	score results.OperationResult[challengetypes.EntryScore, error]
	vote  results.OperationResult[bool, error]
}

func (f *fakeChallengeService) SubmitEntry(_ context.Context, userID sharedtypes.UserID, category, title string) (results.OperationResult[*challengetypes.Entry, error], error) {
	entry := &challengetypes.Entry{ID: uuid.New(), UserID: userID, Category: category, Title: title}
	return results.SuccessResult[*challengetypes.Entry, error](entry), nil
}

func (f *fakeChallengeService) CastVote(context.Context, sharedtypes.UserID, uuid.UUID, challengetypes.VoteKind) (results.OperationResult[bool, error], error) {
	return f.vote, nil
}

func (f *fakeChallengeService) RecordRating(context.Context, uuid.UUID, string, challengetypes.AIMetricVector) (results.OperationResult[bool, error], error) {
	return results.SuccessResult[bool, error](true), nil
}

func (f *fakeChallengeService) ScoreEntry(context.Context, uuid.UUID) (results.OperationResult[challengetypes.EntryScore, error], error) {
	return f.score, nil
}

func (f *fakeChallengeService) WeeklyLeaderboard(context.Context, string, int) (results.OperationResult[[]challengetypes.RankedEntry, error], error) {
	return f.board, nil
}

func (f *fakeChallengeService) EntryRank(context.Context, uuid.UUID, string) (results.OperationResult[challengetypes.RankedEntry, error], error) {
	return f.rank, nil
}

func newTestRouter(loot *fakeLootService, effects *fakeEffectsService, challenge *fakeChallengeService) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewHandlers(loot, effects, challenge, logger).Router(nil)
}

func defaultFakes() (*fakeLootService, *fakeEffectsService, *fakeChallengeService) {
	loot := &fakeLootService{
		rollResult: results.SuccessResult[*loottypes.RewardResult, error](&loottypes.RewardResult{
			Item: "stick", Name: "Gnarled Stick", Tier: loottypes.TierCommon,
		}),
		openResult: results.SuccessResult[*loottypes.ChestOpenResult, error](&loottypes.ChestOpenResult{
			Tier: loottypes.ChestGold,
		}),
		grantResult: results.SuccessResult[*lootdb.UserChest, error](&lootdb.UserChest{ID: uuid.New()}),
	}
	effects := &fakeEffectsService{modifiers: effecttypes.IdentityModifierSet()}
	challenge := &fakeChallengeService{
		board: results.SuccessResult[[]challengetypes.RankedEntry, error]([]challengetypes.RankedEntry{}),
		vote:  results.SuccessResult[bool, error](true),
	}
	return loot, effects, challenge
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string, withUser bool) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if withUser {
		req.Header.Set("X-User-ID", "user-1")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRouter_RequiresUserHeader(t *testing.T) {
	router := newTestRouter(defaultFakes())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/loot/rolls", `{"pool":"forest"}`, false)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(defaultFakes())

	rec := doRequest(t, router, http.MethodGet, "/healthz", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRollLoot_OK(t *testing.T) {
	router := newTestRouter(defaultFakes())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/loot/rolls", `{"pool":"forest"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Gnarled Stick")
}

func TestRollLoot_MissingPool(t *testing.T) {
	router := newTestRouter(defaultFakes())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/loot/rolls", `{}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRollLoot_ByEnemyType(t *testing.T) {
	loot, effects, challenge := defaultFakes()
	router := newTestRouter(loot, effects, challenge)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/loot/rolls", `{"enemy_type":"slime"}`, true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "slime", loot.fightEnemyType)
	require.Contains(t, rec.Body.String(), "Gnarled Stick")
}

func TestOpenChest_AlreadyOpenedMapsToConflict(t *testing.T) {
	loot, effects, challenge := defaultFakes()
	loot.openResult = results.FailureResult[*loottypes.ChestOpenResult, error](lootdb.ErrChestAlreadyOpened)
	router := newTestRouter(loot, effects, challenge)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/chests/"+uuid.NewString()+"/open", "", true)
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestOpenChest_InvalidID(t *testing.T) {
	router := newTestRouter(defaultFakes())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/chests/not-a-uuid/open", "", true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGrantDailyChest_DegradedMeansAlreadyGranted(t *testing.T) {
	loot, effects, challenge := defaultFakes()
	loot.grantResult = results.DegradedResult[*lootdb.UserChest, error](nil, "daily chest already granted")
	router := newTestRouter(loot, effects, challenge)

	rec := doRequest(t, router, http.MethodPost, "/api/v1/chests/daily", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "daily chest already granted")
}

func TestCastVote_UnknownKind(t *testing.T) {
	router := newTestRouter(defaultFakes())

	rec := doRequest(t, router, http.MethodPost, "/api/v1/entries/"+uuid.NewString()+"/votes", `{"kind":"banana"}`, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWeeklyLeaderboard_InvalidLimit(t *testing.T) {
	router := newTestRouter(defaultFakes())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/leaderboard/weekly?limit=bogus", "", true)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestActiveModifiers_OK(t *testing.T) {
	router := newTestRouter(defaultFakes())

	rec := doRequest(t, router, http.MethodGet, "/api/v1/modifiers", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "xp_multiplier")
}
