package roster_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/entities/content"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/errors"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/pkg/idgen"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/stores/roster"
	"github.com/Roll20/roll20-beacon-sheets-sub000/internal/testutils"
)

type RedisRosterTestSuite struct {
	suite.Suite
	repo    roster.Repository
	cleanup func()
	ctx     context.Context
}

func (s *RedisRosterTestSuite) SetupTest() {
	client, cleanup := testutils.CreateTestRedisClient(s.T())
	s.cleanup = cleanup

	repo, err := roster.NewRedis(&roster.RedisConfig{
		Client:      client,
		IDGenerator: idgen.NewSequential("npc"),
		TTL:         time.Hour,
	})
	s.Require().NoError(err)
	s.repo = repo
	s.ctx = context.Background()
}

func (s *RedisRosterTestSuite) TearDownTest() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

func (s *RedisRosterTestSuite) TestCreateAndGet() {
	created, err := s.repo.Create(s.ctx, roster.CreateInput{
		SessionID: "session_1",
		Name:      "Goblin",
		Monster: &content.MonsterPayload{
			Name:       "Goblin",
			ArmorClass: 15,
			HitPoints:  7,
		},
		SpellSourceIDs: []string{"src_1", "src_2"},
	})
	s.Require().NoError(err)
	s.Equal("npc_1", created.Entry.ID)

	got, err := s.repo.Get(s.ctx, roster.GetInput{SessionID: "session_1", ID: created.Entry.ID})
	s.Require().NoError(err)
	s.Equal("Goblin", got.Entry.Name)
	s.Require().NotNil(got.Entry.Monster)
	s.Equal(15, got.Entry.Monster.ArmorClass)
	s.Equal([]string{"src_1", "src_2"}, got.Entry.SpellSourceIDs)
	s.NotZero(got.Entry.CreatedAt)
}

func (s *RedisRosterTestSuite) TestGetMissingEntry() {
	_, err := s.repo.Get(s.ctx, roster.GetInput{SessionID: "session_1", ID: "npc_404"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func (s *RedisRosterTestSuite) TestListBySessionIsScoped() {
	for _, name := range []string{"Goblin", "Wolf"} {
		_, err := s.repo.Create(s.ctx, roster.CreateInput{SessionID: "session_1", Name: name})
		s.Require().NoError(err)
	}
	_, err := s.repo.Create(s.ctx, roster.CreateInput{SessionID: "session_2", Name: "Dragon"})
	s.Require().NoError(err)

	out, err := s.repo.ListBySession(s.ctx, roster.ListBySessionInput{SessionID: "session_1"})
	s.Require().NoError(err)
	s.Len(out.Entries, 2)

	names := make(map[string]bool)
	for _, entry := range out.Entries {
		names[entry.Name] = true
	}
	s.True(names["Goblin"])
	s.True(names["Wolf"])
}

func (s *RedisRosterTestSuite) TestDelete() {
	created, err := s.repo.Create(s.ctx, roster.CreateInput{SessionID: "session_1", Name: "Goblin"})
	s.Require().NoError(err)

	_, err = s.repo.Delete(s.ctx, roster.DeleteInput{SessionID: "session_1", ID: created.Entry.ID})
	s.Require().NoError(err)

	_, err = s.repo.Get(s.ctx, roster.GetInput{SessionID: "session_1", ID: created.Entry.ID})
	s.True(errors.IsNotFound(err))

	out, err := s.repo.ListBySession(s.ctx, roster.ListBySessionInput{SessionID: "session_1"})
	s.Require().NoError(err)
	s.Empty(out.Entries)
}

func (s *RedisRosterTestSuite) TestDeleteMissingEntry() {
	_, err := s.repo.Delete(s.ctx, roster.DeleteInput{SessionID: "session_1", ID: "npc_404"})
	s.Require().Error(err)
	s.True(errors.IsNotFound(err))
}

func TestRedisRosterTestSuite(t *testing.T) {
	suite.Run(t, new(RedisRosterTestSuite))
}
