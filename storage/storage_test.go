package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-watchlist/watchlist/storage/model"
)

var lightParams = Argon2idParams{
	Time:        1,
	MemoryKiB:   1024,
	Parallelism: 1,
	KeyLen:      16,
	SaltLen:     8,
}

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(
		Config{
			Driver:    DriverSQLite,
			DSN:       sqliteMemoryDSN,
			UsersHash: lightParams,
		},
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestDSN(t *testing.T) {
	tests := []struct {
		name    string
		driver  DriverType
		conf    DSNConf
		want    string
		wantErr bool
	}{
		{
			name:    "sqlite",
			driver:  DriverSQLite,
			wantErr: true,
		},
		{
			name:   "mysql default port",
			driver: DriverMySQL,
			conf: DSNConf{
				User:     "u",
				Password: "p",
				Host:     "db",
				DB:       "watchlist",
			},
			want: "u:p@tcp(db:3306)/watchlist?charset=utf8mb4&parseTime=True",
		},
		{
			name:   "postgres",
			driver: DriverPostgres,
			conf: DSNConf{
				User:     "u",
				Password: "p",
				Host:     "db",
				Port:     6543,
				DB:       "watchlist",
			},
			want: "host=db user=u password=p dbname=watchlist port=6543",
		},
		{
			name:    "unknown",
			driver:  "oracle",
			wantErr: true,
		},
	}
	for _, test := range tests {
		t.Run(
			test.name, func(t *testing.T) {
				got, err := DSN(test.driver, test.conf)
				if test.wantErr {
					assert.Error(t, err)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, test.want, got)
			},
		)
	}
}

func TestConnectUnsupportedDriver(t *testing.T) {
	_, err := Connect(Config{Driver: "oracle"})
	assert.Error(t, err)
}

func TestInitSchemaDrop(t *testing.T) {
	s := newTestStorage(t)
	movies := s.MoviesStorage()
	_, err := movies.Create("Leon", "1994")
	require.NoError(t, err)

	require.NoError(t, s.InitSchema(false))
	n, err := movies.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, s.InitSchema(true))
	n, err = movies.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestBackends(t *testing.T) {
	s := newTestStorage(t)
	b := s.Backends()
	assert.NotNil(t, b.Movies)
	assert.NotNil(t, b.Users)
}

func TestMoviesStorage(t *testing.T) {
	s := newTestStorage(t)
	movies := s.MoviesStorage()

	list, err := movies.List()
	require.NoError(t, err)
	assert.Empty(t, list)

	a, err := movies.Create("My Neighbor Totoro", "1988")
	require.NoError(t, err)
	b, err := movies.Create("Dead Poets Society", "1989")
	require.NoError(t, err)
	assert.Less(t, a.ID, b.ID)

	list, err = movies.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "My Neighbor Totoro", list[0].Title)
	assert.Equal(t, "Dead Poets Society", list[1].Title)

	updated, err := movies.Update(a.ID, "Totoro", "1989")
	require.NoError(t, err)
	assert.Equal(t, "Totoro", updated.Title)
	got, err := movies.Get(a.ID)
	require.NoError(t, err)
	assert.Equal(t, "1989", got.Year)

	require.NoError(t, movies.Delete(a.ID))
	_, err = movies.Get(a.ID)
	var notFound model.NotFoundError
	assert.ErrorAs(t, err, &notFound)
	assert.ErrorAs(t, movies.Delete(a.ID), &notFound)
	_, err = movies.Update(a.ID, "x", "2000")
	assert.ErrorAs(t, err, &notFound)

	n, err := movies.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
