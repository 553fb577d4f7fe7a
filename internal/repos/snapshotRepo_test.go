package repos_test

import (
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"

	"github.com/wheelibin/homesync/internal/models"
	"github.com/wheelibin/homesync/internal/repos"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
}

func testDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func Test_SnapshotRepo(t *testing.T) {

	t.Run("save and load | should round-trip the snapshot", func(t *testing.T) {
		repo, err := repos.NewSnapshotRepo(testLogger(), testDB(t))
		assert.NoError(t, err)

		when := time.Now().UTC().Truncate(time.Second)
		err = repo.Save(models.PersistedSnapshot{
			Lights:      []models.Light{{ID: "l1", Name: "Lamp", Level: 30000, IsOn: true}},
			Rooms:       []models.Room{{ID: "r1", Name: "Bedroom", AreaID: "a1"}},
			LastUpdated: &when,
		})
		assert.NoError(t, err)

		loaded, err := repo.Load()
		assert.NoError(t, err)
		assert.Len(t, loaded.Lights, 1)
		assert.Equal(t, "Lamp", loaded.Lights[0].Name)
		assert.Equal(t, when, loaded.LastUpdated.UTC())
	})

	t.Run("save twice | should keep only the latest", func(t *testing.T) {
		repo, err := repos.NewSnapshotRepo(testLogger(), testDB(t))
		assert.NoError(t, err)

		assert.NoError(t, repo.Save(models.PersistedSnapshot{Lights: []models.Light{{ID: "l1"}}}))
		assert.NoError(t, repo.Save(models.PersistedSnapshot{Lights: []models.Light{{ID: "l2"}}}))

		loaded, err := repo.Load()
		assert.NoError(t, err)
		assert.Len(t, loaded.Lights, 1)
		assert.Equal(t, "l2", loaded.Lights[0].ID)
	})

	t.Run("nothing saved | should load nil without error", func(t *testing.T) {
		repo, err := repos.NewSnapshotRepo(testLogger(), testDB(t))
		assert.NoError(t, err)

		loaded, err := repo.Load()
		assert.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("clear | should remove the cached snapshot", func(t *testing.T) {
		repo, err := repos.NewSnapshotRepo(testLogger(), testDB(t))
		assert.NoError(t, err)

		assert.NoError(t, repo.Save(models.PersistedSnapshot{Lights: []models.Light{{ID: "l1"}}}))
		assert.NoError(t, repo.Clear())

		loaded, err := repo.Load()
		assert.NoError(t, err)
		assert.Nil(t, loaded)
	})
}
