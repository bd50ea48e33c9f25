package services

import (
	"context"
	"io"
	"sync"

	"github.com/robtee24/tee24-winterleague-sub000/models"
	"github.com/robtee24/tee24-winterleague-sub000/repositories"
	"github.com/robtee24/tee24-winterleague-sub000/storage"
)

// Fakes with overridable behavior per test. Any func left nil falls back
// to an empty result, so tests only wire what they exercise.

type fakePlayerRepo struct {
	createFunc        func(ctx context.Context, p *models.Player) error
	getByIDFunc       func(ctx context.Context, id int) (*models.Player, error)
	listByLeagueFunc  func(ctx context.Context, leagueID int) ([]*models.Player, error)
	countByLeagueFunc func(ctx context.Context, leagueID int) (int, error)
	deleteFunc        func(ctx context.Context, exec repositories.SQLExecutor, id int) error
}

func (f *fakePlayerRepo) Create(ctx context.Context, p *models.Player) error {
	if f.createFunc != nil {
		return f.createFunc(ctx, p)
	}
	return nil
}

func (f *fakePlayerRepo) GetByID(ctx context.Context, id int) (*models.Player, error) {
	if f.getByIDFunc != nil {
		return f.getByIDFunc(ctx, id)
	}
	return nil, repositories.ErrPlayerNotFound
}

func (f *fakePlayerRepo) ListByLeague(ctx context.Context, leagueID int) ([]*models.Player, error) {
	if f.listByLeagueFunc != nil {
		return f.listByLeagueFunc(ctx, leagueID)
	}
	return nil, nil
}

func (f *fakePlayerRepo) CountByLeague(ctx context.Context, leagueID int) (int, error) {
	if f.countByLeagueFunc != nil {
		return f.countByLeagueFunc(ctx, leagueID)
	}
	return 0, nil
}

func (f *fakePlayerRepo) Delete(ctx context.Context, exec repositories.SQLExecutor, id int) error {
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, exec, id)
	}
	return nil
}

type fakeWeekRepo struct {
	createFunc       func(ctx context.Context, w *models.Week) error
	getByIDFunc      func(ctx context.Context, id int) (*models.Week, error)
	getCanonicalFunc func(ctx context.Context, leagueID, weekNumber int, isChampionship bool) (*models.Week, error)
	listByLeagueFunc func(ctx context.Context, leagueID int) ([]*models.Week, error)
}

func (f *fakeWeekRepo) Create(ctx context.Context, w *models.Week) error {
	if f.createFunc != nil {
		return f.createFunc(ctx, w)
	}
	return nil
}

func (f *fakeWeekRepo) GetByID(ctx context.Context, id int) (*models.Week, error) {
	if f.getByIDFunc != nil {
		return f.getByIDFunc(ctx, id)
	}
	return nil, repositories.ErrWeekNotFound
}

func (f *fakeWeekRepo) GetCanonicalByNumber(ctx context.Context, leagueID, weekNumber int, isChampionship bool) (*models.Week, error) {
	if f.getCanonicalFunc != nil {
		return f.getCanonicalFunc(ctx, leagueID, weekNumber, isChampionship)
	}
	return nil, repositories.ErrWeekNotFound
}

func (f *fakeWeekRepo) ListByLeague(ctx context.Context, leagueID int) ([]*models.Week, error) {
	if f.listByLeagueFunc != nil {
		return f.listByLeagueFunc(ctx, leagueID)
	}
	return nil, nil
}

type fakeScoreRepo struct {
	createFunc                  func(ctx context.Context, exec repositories.SQLExecutor, s *models.Score) error
	updateFunc                  func(ctx context.Context, exec repositories.SQLExecutor, s *models.Score) error
	getByIDFunc                 func(ctx context.Context, id int) (*models.Score, error)
	getAuthoritativeFunc        func(ctx context.Context, playerID, leagueID, weekNumber int, isChampionship bool) (*models.Score, error)
	listAuthoritativeByWeekFunc func(ctx context.Context, leagueID, weekNumber int, isChampionship bool) ([]*models.Score, error)
	listSeasonFunc              func(ctx context.Context, leagueID int) ([]*models.WeekScore, error)
	deleteSupersededFunc        func(ctx context.Context, exec repositories.SQLExecutor, playerID, leagueID, weekNumber int, isChampionship bool, keepID int) (int64, error)
	countDistinctFunc           func(ctx context.Context, leagueID, weekNumber int, isChampionship bool) (int, error)
	updateWeightedBatchFunc     func(ctx context.Context, exec repositories.SQLExecutor, updates []repositories.WeightedUpdate) error
}

func (f *fakeScoreRepo) Create(ctx context.Context, exec repositories.SQLExecutor, s *models.Score) error {
	if f.createFunc != nil {
		return f.createFunc(ctx, exec, s)
	}
	return nil
}

func (f *fakeScoreRepo) Update(ctx context.Context, exec repositories.SQLExecutor, s *models.Score) error {
	if f.updateFunc != nil {
		return f.updateFunc(ctx, exec, s)
	}
	return nil
}

func (f *fakeScoreRepo) GetByID(ctx context.Context, id int) (*models.Score, error) {
	if f.getByIDFunc != nil {
		return f.getByIDFunc(ctx, id)
	}
	return nil, repositories.ErrScoreNotFound
}

func (f *fakeScoreRepo) GetAuthoritative(ctx context.Context, playerID, leagueID, weekNumber int, isChampionship bool) (*models.Score, error) {
	if f.getAuthoritativeFunc != nil {
		return f.getAuthoritativeFunc(ctx, playerID, leagueID, weekNumber, isChampionship)
	}
	return nil, repositories.ErrScoreNotFound
}

func (f *fakeScoreRepo) ListAuthoritativeByWeek(ctx context.Context, leagueID, weekNumber int, isChampionship bool) ([]*models.Score, error) {
	if f.listAuthoritativeByWeekFunc != nil {
		return f.listAuthoritativeByWeekFunc(ctx, leagueID, weekNumber, isChampionship)
	}
	return nil, nil
}

func (f *fakeScoreRepo) ListSeasonAuthoritative(ctx context.Context, leagueID int) ([]*models.WeekScore, error) {
	if f.listSeasonFunc != nil {
		return f.listSeasonFunc(ctx, leagueID)
	}
	return nil, nil
}

func (f *fakeScoreRepo) DeleteSuperseded(ctx context.Context, exec repositories.SQLExecutor, playerID, leagueID, weekNumber int, isChampionship bool, keepID int) (int64, error) {
	if f.deleteSupersededFunc != nil {
		return f.deleteSupersededFunc(ctx, exec, playerID, leagueID, weekNumber, isChampionship, keepID)
	}
	return 0, nil
}

func (f *fakeScoreRepo) CountDistinctSubmitted(ctx context.Context, leagueID, weekNumber int, isChampionship bool) (int, error) {
	if f.countDistinctFunc != nil {
		return f.countDistinctFunc(ctx, leagueID, weekNumber, isChampionship)
	}
	return 0, nil
}

func (f *fakeScoreRepo) UpdateWeightedBatch(ctx context.Context, exec repositories.SQLExecutor, updates []repositories.WeightedUpdate) error {
	if f.updateWeightedBatchFunc != nil {
		return f.updateWeightedBatchFunc(ctx, exec, updates)
	}
	return nil
}

type fakeHandicapRepo struct {
	upsertFunc          func(ctx context.Context, exec repositories.SQLExecutor, h *models.Handicap) error
	getByPlayerWeekFunc func(ctx context.Context, playerID, weekID int) (*models.Handicap, error)
	listByLeagueFunc    func(ctx context.Context, leagueID int) ([]*models.WeekHandicap, error)
}

func (f *fakeHandicapRepo) Upsert(ctx context.Context, exec repositories.SQLExecutor, h *models.Handicap) error {
	if f.upsertFunc != nil {
		return f.upsertFunc(ctx, exec, h)
	}
	return nil
}

func (f *fakeHandicapRepo) GetByPlayerWeek(ctx context.Context, playerID, weekID int) (*models.Handicap, error) {
	if f.getByPlayerWeekFunc != nil {
		return f.getByPlayerWeekFunc(ctx, playerID, weekID)
	}
	return nil, repositories.ErrHandicapNotFound
}

func (f *fakeHandicapRepo) ListByLeague(ctx context.Context, leagueID int) ([]*models.WeekHandicap, error) {
	if f.listByLeagueFunc != nil {
		return f.listByLeagueFunc(ctx, leagueID)
	}
	return nil, nil
}

type fakeTeamRepo struct {
	createFunc         func(ctx context.Context, t *models.Team) error
	getByIDFunc        func(ctx context.Context, id int) (*models.Team, error)
	listByLeagueFunc   func(ctx context.Context, leagueID int) ([]*models.Team, error)
	countForPlayerFunc func(ctx context.Context, playerID int) (int, error)
	deleteFunc         func(ctx context.Context, id int) error
}

func (f *fakeTeamRepo) Create(ctx context.Context, t *models.Team) error {
	if f.createFunc != nil {
		return f.createFunc(ctx, t)
	}
	return nil
}

func (f *fakeTeamRepo) GetByID(ctx context.Context, id int) (*models.Team, error) {
	if f.getByIDFunc != nil {
		return f.getByIDFunc(ctx, id)
	}
	return nil, repositories.ErrTeamNotFound
}

func (f *fakeTeamRepo) ListByLeague(ctx context.Context, leagueID int) ([]*models.Team, error) {
	if f.listByLeagueFunc != nil {
		return f.listByLeagueFunc(ctx, leagueID)
	}
	return nil, nil
}

func (f *fakeTeamRepo) CountForPlayer(ctx context.Context, playerID int) (int, error) {
	if f.countForPlayerFunc != nil {
		return f.countForPlayerFunc(ctx, playerID)
	}
	return 0, nil
}

func (f *fakeTeamRepo) Delete(ctx context.Context, id int) error {
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, id)
	}
	return nil
}

type fakeMatchRepo struct {
	createFunc              func(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error
	getByIDFunc             func(ctx context.Context, id int) (*models.Match, error)
	listByWeekFunc          func(ctx context.Context, leagueID, weekNumber int, isChampionship bool) ([]*models.Match, error)
	listByLeagueFunc        func(ctx context.Context, leagueID int) ([]*models.Match, error)
	updateResultFunc        func(ctx context.Context, exec repositories.SQLExecutor, id int, team1Points, team2Points int, winnerTeamID *int) error
	deleteFunc              func(ctx context.Context, id int) error
	deleteRegularSeasonFunc func(ctx context.Context, exec repositories.SQLExecutor, leagueID int) error
}

func (f *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	if f.createFunc != nil {
		return f.createFunc(ctx, exec, m)
	}
	return nil
}

func (f *fakeMatchRepo) GetByID(ctx context.Context, id int) (*models.Match, error) {
	if f.getByIDFunc != nil {
		return f.getByIDFunc(ctx, id)
	}
	return nil, repositories.ErrMatchNotFound
}

func (f *fakeMatchRepo) ListByWeek(ctx context.Context, leagueID, weekNumber int, isChampionship bool) ([]*models.Match, error) {
	if f.listByWeekFunc != nil {
		return f.listByWeekFunc(ctx, leagueID, weekNumber, isChampionship)
	}
	return nil, nil
}

func (f *fakeMatchRepo) ListByLeague(ctx context.Context, leagueID int) ([]*models.Match, error) {
	if f.listByLeagueFunc != nil {
		return f.listByLeagueFunc(ctx, leagueID)
	}
	return nil, nil
}

func (f *fakeMatchRepo) UpdateResult(ctx context.Context, exec repositories.SQLExecutor, id int, team1Points, team2Points int, winnerTeamID *int) error {
	if f.updateResultFunc != nil {
		return f.updateResultFunc(ctx, exec, id, team1Points, team2Points, winnerTeamID)
	}
	return nil
}

func (f *fakeMatchRepo) Delete(ctx context.Context, id int) error {
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, id)
	}
	return nil
}

func (f *fakeMatchRepo) DeleteRegularSeason(ctx context.Context, exec repositories.SQLExecutor, leagueID int) error {
	if f.deleteRegularSeasonFunc != nil {
		return f.deleteRegularSeasonFunc(ctx, exec, leagueID)
	}
	return nil
}

type fakeLeagueRepo struct {
	createFunc     func(ctx context.Context, l *models.League) error
	getByIDFunc    func(ctx context.Context, id int) (*models.League, error)
	listFunc       func(ctx context.Context) ([]*models.League, error)
	listActiveFunc func(ctx context.Context) ([]*models.League, error)
	deleteFunc     func(ctx context.Context, id int) error
}

func (f *fakeLeagueRepo) Create(ctx context.Context, l *models.League) error {
	if f.createFunc != nil {
		return f.createFunc(ctx, l)
	}
	return nil
}

func (f *fakeLeagueRepo) GetByID(ctx context.Context, id int) (*models.League, error) {
	if f.getByIDFunc != nil {
		return f.getByIDFunc(ctx, id)
	}
	return nil, repositories.ErrLeagueNotFound
}

func (f *fakeLeagueRepo) List(ctx context.Context) ([]*models.League, error) {
	if f.listFunc != nil {
		return f.listFunc(ctx)
	}
	return nil, nil
}

func (f *fakeLeagueRepo) ListActive(ctx context.Context) ([]*models.League, error) {
	if f.listActiveFunc != nil {
		return f.listActiveFunc(ctx)
	}
	return nil, nil
}

func (f *fakeLeagueRepo) Delete(ctx context.Context, id int) error {
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, id)
	}
	return nil
}

type fakeUserRepo struct {
	createFunc     func(ctx context.Context, u *models.User) error
	getByIDFunc    func(ctx context.Context, id int) (*models.User, error)
	getByEmailFunc func(ctx context.Context, email string) (*models.User, error)
	updateRoleFunc func(ctx context.Context, id int, role string) error
}

func (f *fakeUserRepo) Create(ctx context.Context, u *models.User) error {
	if f.createFunc != nil {
		return f.createFunc(ctx, u)
	}
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (*models.User, error) {
	if f.getByIDFunc != nil {
		return f.getByIDFunc(ctx, id)
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getByEmailFunc != nil {
		return f.getByEmailFunc(ctx, email)
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id int, role string) error {
	if f.updateRoleFunc != nil {
		return f.updateRoleFunc(ctx, id, role)
	}
	return nil
}

// fakeBroadcaster records every event pushed to the hub.

type broadcastEvent struct {
	LeagueID int
	Type     string
	Payload  interface{}
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []broadcastEvent
}

func (f *fakeBroadcaster) BroadcastToLeague(leagueID int, eventType string, payload interface{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, broadcastEvent{LeagueID: leagueID, Type: eventType, Payload: payload})
}

func (f *fakeBroadcaster) eventsOfType(eventType string) []broadcastEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []broadcastEvent
	for _, e := range f.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

type fakeEnqueuer struct {
	tasks []RecomputeTask
}

func (f *fakeEnqueuer) Enqueue(task RecomputeTask) {
	f.tasks = append(f.tasks, task)
}

type fakeUploader struct {
	uploadFunc func(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error)
	deleteFunc func(ctx context.Context, key string) error
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, reader io.Reader) (*storage.UploadResult, error) {
	if f.uploadFunc != nil {
		return f.uploadFunc(ctx, key, contentType, reader)
	}
	return &storage.UploadResult{Key: key, Location: "https://cdn.test/" + key}, nil
}

func (f *fakeUploader) Delete(ctx context.Context, key string) error {
	if f.deleteFunc != nil {
		return f.deleteFunc(ctx, key)
	}
	return nil
}

func (f *fakeUploader) GetPublicURL(key string) string {
	return "https://cdn.test/" + key
}
