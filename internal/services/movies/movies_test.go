package movies

import (
	"context"
	"testing"
	"time"

	"moviecatalog/proj/internal/domain/fields"
	"moviecatalog/proj/internal/domain/filters"
	"moviecatalog/proj/internal/dto"
	"moviecatalog/proj/internal/lib/cache"
	"moviecatalog/proj/internal/lib/csvexport"
	"moviecatalog/proj/internal/lib/logger"
	"moviecatalog/proj/internal/storage/memory"
	"moviecatalog/proj/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	svc   *MovieService
	store *memory.Store
	clock *time.Time
}

func newFixture(t *testing.T, fieldsToExport ...string) *fixture {
	t.Helper()
	if len(fieldsToExport) == 0 {
		fieldsToExport = []string{"Id", "Title", "Director", "Genre", "IsReleased", "ReleaseDate", "ViewCount"}
	}
	exporter, err := NewExporter(csvexport.Options{
		Delimiter:        ',',
		DateFormat:       "2006-01-02",
		MaxExportRecords: 100,
		FieldsToExport:   fieldsToExport,
	})
	require.NoError(t, err)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f := &fixture{store: memory.New(), clock: &now}
	c := cache.NewWithClock(func() time.Time { return *f.clock })
	f.svc = New(logger.Discard(), f.store, c, exporter, Options{
		PopularTTL: 10 * time.Minute,
		ExportTTL:  10 * time.Minute,
	})
	return f
}

func movieInput(title string) dto.MovieCreate {
	return dto.MovieCreate{
		Title:       title,
		Director:    "Denis Villeneuve",
		Genre:       "SciFi",
		IsReleased:  true,
		ReleaseDate: fields.NewDate(2021, time.October, 22),
	}
}

func (f *fixture) watch(t *testing.T, userName string, movieIDs ...int) {
	t.Helper()
	ctx := context.Background()
	user := storagetest.User(userName)
	require.NoError(t, f.store.NewUnitOfWork().Users().Add(ctx, user))
	for _, id := range movieIDs {
		uow := f.store.NewUnitOfWork()
		movie, err := uow.Movies().Find(ctx, id)
		require.NoError(t, err)
		uow.Users().AddWatchedMovie(user, movie)
		_, err = uow.SaveChanges(ctx)
		require.NoError(t, err)
	}
}

func TestCreateAndGet(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, movieInput("Dune"))
	require.NoError(t, err)
	assert.Equal(t, 0, created.ViewCount)

	got, err := f.svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	byTitle, err := f.svc.GetByTitle(ctx, "UNE")
	require.NoError(t, err)
	assert.Equal(t, created.ID, byTitle.ID)

	_, err = f.svc.Get(ctx, created.ID+1)
	assert.ErrorIs(t, err, ErrMovieNotFound)
	_, err = f.svc.GetByTitle(ctx, "Arrival")
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestCreateUnknownGenre(t *testing.T) {
	f := newFixture(t)
	in := movieInput("Dune")
	in.Genre = "Western"
	_, err := f.svc.Create(context.Background(), in)
	assert.ErrorIs(t, err, fields.ErrUnknownGenre)
}

func TestUpdateKeepsViewCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, movieInput("Dune"))
	require.NoError(t, err)
	f.watch(t, "alice", created.ID)

	in := movieInput("Dune: Part One")
	in.Genre = "Drama"
	updated, err := f.svc.Update(ctx, created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Dune: Part One", updated.Title)
	assert.Equal(t, "Drama", updated.Genre)
	assert.Equal(t, 1, updated.ViewCount)

	_, err = f.svc.Update(ctx, 999, in)
	assert.ErrorIs(t, err, ErrMovieNotFound)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	created, err := f.svc.Create(ctx, movieInput("Dune"))
	require.NoError(t, err)
	require.NoError(t, f.svc.Delete(ctx, created.ID))
	assert.ErrorIs(t, f.svc.Delete(ctx, created.ID), ErrMovieNotFound)
}

func TestList(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, title := range []string{"Dune", "Arrival", "Sicario"} {
		_, err := f.svc.Create(ctx, movieInput(title))
		require.NoError(t, err)
	}
	list, err := f.svc.List(ctx, filters.Filters{Sort: "title"})
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "Arrival", list[0].Title)
}

func TestPopular(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ids := make([]int, 0, 7)
	for _, title := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		m, err := f.svc.Create(ctx, movieInput(title))
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}
	f.watch(t, "alice", ids[1], ids[2])
	f.watch(t, "bobby", ids[2])

	popular, err := f.svc.Popular(ctx)
	require.NoError(t, err)
	require.Len(t, popular, PopularLimit)
	assert.Equal(t, ids[2], popular[0].ID)
	assert.Equal(t, ids[1], popular[1].ID)
	for i := 1; i < len(popular); i++ {
		assert.GreaterOrEqual(t, popular[i-1].ViewCount, popular[i].ViewCount)
	}

	f.watch(t, "carol", ids[6])
	f.watch(t, "dave", ids[6])
	f.watch(t, "erin", ids[6])
	stale, err := f.svc.Popular(ctx)
	require.NoError(t, err)
	assert.Equal(t, popular, stale)

	*f.clock = f.clock.Add(10 * time.Minute)
	fresh, err := f.svc.Popular(ctx)
	require.NoError(t, err)
	assert.Equal(t, ids[6], fresh[0].ID)
	assert.Equal(t, 3, fresh[0].ViewCount)
}

func TestExport(t *testing.T) {
	f := newFixture(t, "Title", "ViewCount")
	ctx := context.Background()
	m, err := f.svc.Create(ctx, movieInput("Dune"))
	require.NoError(t, err)
	f.watch(t, "alice", m.ID)

	data, err := f.svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Title,ViewCount\nDune,1\n", string(data))

	_, err = f.svc.Create(ctx, movieInput("Arrival"))
	require.NoError(t, err)
	cached, err := f.svc.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, data, cached)
}

func TestNewExporterRejectsUnknownField(t *testing.T) {
	_, err := NewExporter(csvexport.Options{
		Delimiter:        ',',
		DateFormat:       "2006-01-02",
		MaxExportRecords: 1,
		FieldsToExport:   []string{"Title", "Budget"},
	})
	assert.ErrorIs(t, err, csvexport.ErrUnknownField)
}

func TestExportColumnsFormatDate(t *testing.T) {
	cols := ExportColumns("02/01/2006")
	out := dto.MovieOutput{ReleaseDate: fields.NewDate(2021, time.October, 22)}
	assert.Equal(t, "22/10/2021", cols["ReleaseDate"](out))
	assert.Equal(t, "", cols["ReleaseDate"](dto.MovieOutput{}))
	assert.Equal(t, "false", cols["IsReleased"](out))
}
