package memory

import (
	"context"
	"sync"

	"github.com/pickemhq/schedule-sync/internal/domain/datasource"
	"github.com/pickemhq/schedule-sync/internal/domain/extmap"
	"github.com/pickemhq/schedule-sync/internal/domain/league"
	"github.com/pickemhq/schedule-sync/internal/domain/phase"
	"github.com/pickemhq/schedule-sync/internal/domain/season"
	"github.com/pickemhq/schedule-sync/internal/domain/team"
	"github.com/pickemhq/schedule-sync/internal/usecase"
)

// Store keeps every record in process memory. InTx snapshots the state up
// front and restores it when the callback fails, mirroring the rollback
// behavior of the database-backed store.
type Store struct {
	mu    sync.RWMutex
	txMu  sync.Mutex
	state *state
}

type state struct {
	dataSources []datasource.DataSource
	leagues     []league.League
	seasons     []season.Season
	teams       []team.Team
	phases      []phase.Phase
	mappings    []extmap.Mapping
}

func NewStore() *Store {
	return &Store{state: &state{}}
}

func (s *state) clone() *state {
	out := &state{
		dataSources: append([]datasource.DataSource(nil), s.dataSources...),
		leagues:     append([]league.League(nil), s.leagues...),
		seasons:     append([]season.Season(nil), s.seasons...),
		teams:       append([]team.Team(nil), s.teams...),
		phases:      append([]phase.Phase(nil), s.phases...),
		mappings:    make([]extmap.Mapping, 0, len(s.mappings)),
	}
	for _, m := range s.mappings {
		out.mappings = append(out.mappings, cloneMapping(m))
	}
	return out
}

func cloneMapping(m extmap.Mapping) extmap.Mapping {
	if m.Metadata != nil {
		metadata := make(map[string]any, len(m.Metadata))
		for key, value := range m.Metadata {
			metadata[key] = value
		}
		m.Metadata = metadata
	}
	return m
}

// InTx serializes transactions; writes made by fn stay only when fn returns
// nil.
func (s *Store) InTx(ctx context.Context, fn func(ctx context.Context, st usecase.Stores) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	snapshot := s.state.clone()
	s.mu.Unlock()

	if err := fn(ctx, s.Stores()); err != nil {
		s.mu.Lock()
		s.state = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *Store) Stores() usecase.Stores {
	return usecase.Stores{
		DataSources: &DataSourceRepository{store: s},
		Leagues:     &LeagueRepository{store: s},
		Seasons:     &SeasonRepository{store: s},
		Teams:       &TeamRepository{store: s},
		Phases:      &PhaseRepository{store: s},
		Mappings:    &MappingRepository{store: s},
	}
}

// Seed helpers for wiring fixtures.

func (s *Store) SeedDataSource(item datasource.DataSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.dataSources = append(s.state.dataSources, item)
}

func (s *Store) SeedLeague(item league.League) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.leagues = append(s.state.leagues, item)
}

func (s *Store) SeedSeason(item season.Season) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.seasons = append(s.state.seasons, item)
}

func (s *Store) SeedTeam(item team.Team) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.teams = append(s.state.teams, item)
}

func (s *Store) SeedPhase(item phase.Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.phases = append(s.state.phases, item)
}

func (s *Store) SeedMapping(item extmap.Mapping) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.mappings = append(s.state.mappings, cloneMapping(item))
}

// Snapshot accessors.

func (s *Store) Leagues() []league.League {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]league.League(nil), s.state.leagues...)
}

func (s *Store) Seasons() []season.Season {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]season.Season(nil), s.state.seasons...)
}

func (s *Store) Teams() []team.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]team.Team(nil), s.state.teams...)
}

func (s *Store) Phases() []phase.Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]phase.Phase(nil), s.state.phases...)
}

func (s *Store) Mappings() []extmap.Mapping {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]extmap.Mapping, 0, len(s.state.mappings))
	for _, m := range s.state.mappings {
		out = append(out, cloneMapping(m))
	}
	return out
}
