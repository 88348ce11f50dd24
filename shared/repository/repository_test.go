package repository_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"todoapi/infras/database"
	otelMocks "todoapi/infras/otel/mocks"
	"todoapi/shared/dto"
	"todoapi/shared/model"
	"todoapi/shared/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const noteSchema = `CREATE TABLE notes (
	id          TEXT     PRIMARY KEY,
	owner_id    TEXT     NOT NULL,
	body        TEXT     NULL,
	created_at  DATETIME NOT NULL,
	modified_at DATETIME NOT NULL
)`

type note struct {
	ID             string  `db:"id"       bson:"_id"`
	OwnerID        string  `db:"owner_id" bson:"owner_id"`
	Body           *string `db:"body"     bson:"body"`
	model.Metadata `bson:",inline"`
}

func byID(id string) dto.FilterGroup {
	return dto.FilterGroup{Filters: []any{
		dto.Filter{Field: "id", Value: id, Operator: dto.FilterOperatorEq},
	}}
}

func byOwner(owner string) dto.FilterGroup {
	return dto.FilterGroup{Filters: []any{
		dto.Filter{Field: "owner_id", Value: owner, Operator: dto.FilterOperatorEq},
	}}
}

type storeSuite struct {
	suite.Suite

	store repository.Store[note]
	reset func()
}

func (s *storeSuite) SetupTest() {
	s.reset()
}

func (s *storeSuite) seed(ctx context.Context, owner string, ids ...string) {
	base := time.Date(2026, 2, 19, 8, 0, 0, 0, time.UTC)

	for i, id := range ids {
		err := s.store.Insert(ctx, note{
			ID:       id,
			OwnerID:  owner,
			Metadata: model.NewMetadata(base.Add(time.Duration(i) * time.Second)),
		})
		s.Require().NoError(err)
	}
}

func (s *storeSuite) TestInsertAndGet() {
	ctx := context.Background()
	body := "first"

	err := s.store.Insert(ctx, note{ID: "n-1", OwnerID: "o-1", Body: &body, Metadata: model.NewMetadata(time.Now().UTC())})
	s.Require().NoError(err)

	got, err := s.store.Get(ctx, byID("n-1"))
	s.Require().NoError(err)
	s.Equal("n-1", got.ID)
	s.Equal("o-1", got.OwnerID)
	s.Require().NotNil(got.Body)
	s.Equal("first", *got.Body)

	missing, err := s.store.Get(ctx, byID("nope"))
	s.Require().NoError(err)
	s.Empty(missing.ID)
}

func (s *storeSuite) TestInsertBulk() {
	ctx := context.Background()
	now := time.Date(2026, 2, 19, 8, 0, 0, 0, time.UTC)

	s.Require().NoError(s.store.InsertBulk(ctx, nil))

	err := s.store.InsertBulk(ctx, []note{
		{ID: "n-1", OwnerID: "o-1", Metadata: model.NewMetadata(now)},
		{ID: "n-2", OwnerID: "o-1", Metadata: model.NewMetadata(now.Add(time.Second))},
		{ID: "n-3", OwnerID: "o-2", Metadata: model.NewMetadata(now.Add(2 * time.Second))},
	})
	s.Require().NoError(err)

	count, err := s.store.Count(ctx, byOwner("o-1"))
	s.Require().NoError(err)
	s.Equal(2, count)

	s.Error(s.store.InsertBulk(ctx, []note{{ID: "n-1", OwnerID: "o-3", Metadata: model.NewMetadata(now)}}))
}

func (s *storeSuite) TestGetAllInsertionOrder() {
	ctx := context.Background()

	s.seed(ctx, "o-1", "n-c", "n-a", "n-b")
	s.seed(ctx, "o-2", "n-z")

	all, err := s.store.GetAll(ctx, dto.InsertionOrder(), dto.FilterGroup{})
	s.Require().NoError(err)
	s.Len(all, 4)

	scoped, err := s.store.GetAll(ctx, dto.InsertionOrder(), byOwner("o-1"))
	s.Require().NoError(err)

	ids := make([]string, len(scoped))
	for i, n := range scoped {
		ids[i] = n.ID
	}

	s.Equal([]string{"n-c", "n-a", "n-b"}, ids)
}

func (s *storeSuite) TestTiesBreakOnID() {
	ctx := context.Background()
	now := time.Date(2026, 2, 19, 8, 0, 0, 0, time.UTC)

	for _, id := range []string{"n-2", "n-1", "n-3"} {
		s.Require().NoError(s.store.Insert(ctx, note{ID: id, OwnerID: "o", Metadata: model.NewMetadata(now)}))
	}

	all, err := s.store.GetAll(ctx, dto.InsertionOrder(), dto.FilterGroup{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal("n-1", all[0].ID)
	s.Equal("n-3", all[2].ID)
}

func (s *storeSuite) TestExistAndCount() {
	ctx := context.Background()

	s.seed(ctx, "o-1", "n-1", "n-2")

	exist, err := s.store.Exist(ctx, byID("n-2"))
	s.Require().NoError(err)
	s.True(exist)

	exist, err = s.store.Exist(ctx, byID("n-9"))
	s.Require().NoError(err)
	s.False(exist)

	_, err = s.store.Exist(ctx, dto.FilterGroup{})
	s.Error(err)

	count, err := s.store.Count(ctx, dto.FilterGroup{})
	s.Require().NoError(err)
	s.Equal(2, count)

	count, err = s.store.Count(ctx, byOwner("o-2"))
	s.Require().NoError(err)
	s.Zero(count)
}

func (s *storeSuite) TestUpdate() {
	ctx := context.Background()

	s.seed(ctx, "o-1", "n-1", "n-2")

	body := "changed"
	err := s.store.Update(ctx, map[string]any{"body": &body}, byID("n-1"))
	s.Require().NoError(err)

	got, err := s.store.Get(ctx, byID("n-1"))
	s.Require().NoError(err)
	s.Require().NotNil(got.Body)
	s.Equal("changed", *got.Body)

	other, err := s.store.Get(ctx, byID("n-2"))
	s.Require().NoError(err)
	s.Nil(other.Body)

	var cleared *string
	s.Require().NoError(s.store.Update(ctx, map[string]any{"body": cleared}, byID("n-1")))

	got, err = s.store.Get(ctx, byID("n-1"))
	s.Require().NoError(err)
	s.Nil(got.Body)

	s.Error(s.store.Update(ctx, map[string]any{}, byID("n-1")))
	s.Error(s.store.Update(ctx, map[string]any{"body": &body}, dto.FilterGroup{}))
}

func (s *storeSuite) TestDelete() {
	ctx := context.Background()

	s.seed(ctx, "o-1", "n-1", "n-2")
	s.seed(ctx, "o-2", "n-3")

	s.Require().NoError(s.store.Delete(ctx, byOwner("o-1")))

	count, err := s.store.Count(ctx, dto.FilterGroup{})
	s.Require().NoError(err)
	s.Equal(1, count)

	s.Error(s.store.Delete(ctx, dto.FilterGroup{}))
}

func TestSQLiteStore(t *testing.T) {
	conn, err := database.OpenSQLite(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)

	t.Cleanup(func() { conn.Close() })

	_, err = conn.Write.Exec(noteSchema)
	require.NoError(t, err)

	store := repository.NewStore[note]("note", "notes", "id", conn, otelMocks.NewOtel())
	assert.IsType(t, &repository.Repository[note]{}, store)

	suite.Run(t, &storeSuite{
		store: store,
		reset: func() {
			_, err := conn.Write.Exec("DELETE FROM notes")
			require.NoError(t, err)
		},
	})
}

func TestSQLiteTransact(t *testing.T) {
	conn, err := database.OpenSQLite(filepath.Join(t.TempDir(), "notes.db"))
	require.NoError(t, err)

	t.Cleanup(func() { conn.Close() })

	_, err = conn.Write.Exec(noteSchema)
	require.NoError(t, err)

	store := repository.NewStore[note]("note", "notes", "id", conn, otelMocks.NewOtel())
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.Insert(ctx, note{ID: "n-1", OwnerID: "o-1", Metadata: model.NewMetadata(now)}))

	t.Run("rollback keeps every row", func(t *testing.T) {
		hooked := false

		err := conn.Transact(ctx, func(ctx context.Context) error {
			if err := store.Delete(ctx, byOwner("o-1")); err != nil {
				return err
			}

			database.AfterCommit(ctx, func(context.Context) { hooked = true })

			// reads inside the unit of work see its writes
			count, err := store.Count(ctx, byOwner("o-1"))
			require.NoError(t, err)
			assert.Zero(t, count)

			return errors.New("second delete failed")
		})
		require.Error(t, err)
		assert.False(t, hooked)

		exist, err := store.Exist(ctx, byID("n-1"))
		require.NoError(t, err)
		assert.True(t, exist)
	})

	t.Run("commit applies writes then runs hooks", func(t *testing.T) {
		hooked := false

		err := conn.Transact(ctx, func(ctx context.Context) error {
			database.AfterCommit(ctx, func(context.Context) { hooked = true })

			if err := store.InsertBulk(ctx, []note{{ID: "n-2", OwnerID: "o-1", Metadata: model.NewMetadata(now)}}); err != nil {
				return err
			}

			return store.Delete(ctx, byID("n-1"))
		})
		require.NoError(t, err)
		assert.True(t, hooked)

		all, err := store.GetAll(ctx, dto.InsertionOrder(), dto.FilterGroup{})
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "n-2", all[0].ID)
	})
}

func TestMongoStore(t *testing.T) {
	uri := os.Getenv("TEST_MONGO_URI")
	if uri == "" {
		t.Skip("TEST_MONGO_URI not set")
	}

	ctx := context.Background()

	conn, err := database.OpenMongo(ctx, uri, "todoapi_test", 1, 0)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Mongo.Drop(context.Background())
		conn.Close()
	})

	store := repository.NewStore[note]("note", "notes", "id", conn, otelMocks.NewOtel(),
		repository.Index{Fields: []string{"owner_id", "created_at"}},
	)
	assert.IsType(t, &repository.Mongo[note]{}, store)

	suite.Run(t, &storeSuite{
		store: store,
		reset: func() {
			_, err := conn.Mongo.Collection("notes").DeleteMany(ctx, map[string]any{})
			require.NoError(t, err)
		},
	})
}
