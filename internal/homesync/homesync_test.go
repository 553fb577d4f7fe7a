package homesync_test

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/wheelibin/homesync/internal/config"
	"github.com/wheelibin/homesync/internal/homesync"
	"github.com/wheelibin/homesync/internal/models"
	"github.com/wheelibin/homesync/internal/repos"
	"github.com/wheelibin/homesync/internal/store"
	"github.com/wheelibin/homesync/mocks"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
}

type stubFetcher struct {
	calls []bool
}

func (f *stubFetcher) Reconcile(isRetry bool, silent bool) {
	f.calls = append(f.calls, silent)
}

type stubScheduler struct {
	ran bool
}

func (s *stubScheduler) Run(ctx context.Context) { s.ran = true }
func (s *stubScheduler) NotifyActivity()         {}
func (s *stubScheduler) SetVisible(visible bool) {}

func newTestEngine(t *testing.T) (*homesync.Engine, *store.Store, *stubFetcher) {
	db, err := sql.Open("sqlite3", ":memory:")
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	groups, err := repos.NewGroupRepo(testLogger(), db)
	assert.NoError(t, err)

	s := store.NewStore(testLogger(), nil)
	fetcher := &stubFetcher{}
	cfg := config.Default()

	return homesync.NewEngine(testLogger(), cfg, s, fetcher, &stubScheduler{}, groups), s, fetcher
}

func Test_Run(t *testing.T) {

	engine, _, fetcher := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	engine.Run(ctx)

	// the startup fetch is the one place the loading flag should show
	assert.Equal(t, []bool{false}, fetcher.calls)
}

func Test_GroupLifecycle(t *testing.T) {

	t.Run("create virtual room | should appear in the store immediately", func(t *testing.T) {
		engine, s, _ := newTestEngine(t)

		created, err := engine.CreateVirtualRoom("Master Suite", "a1", []string{"r1", "r2"})
		assert.NoError(t, err)

		stored := s.VirtualRooms()
		assert.Len(t, stored, 1)
		assert.Equal(t, created.ID, stored[0].ID)
		assert.ElementsMatch(t, []string{"r1", "r2"}, stored[0].SourceRoomIDs)
	})

	t.Run("rejected create | should leave the store untouched", func(t *testing.T) {
		engine, s, _ := newTestEngine(t)

		_, err := engine.CreateVirtualRoom("Lonely", "a1", []string{"r1"})
		assert.ErrorIs(t, err, repos.ErrTooFewRooms)
		assert.Empty(t, s.VirtualRooms())
	})

	t.Run("rename and delete | should track through the store", func(t *testing.T) {
		engine, s, _ := newTestEngine(t)

		created, _ := engine.CreateVirtualRoom("Master Suite", "a1", []string{"r1", "r2"})

		assert.NoError(t, engine.RenameVirtualRoom(created.ID, "Guest Suite"))
		assert.Equal(t, "Guest Suite", s.VirtualRooms()[0].Name)

		assert.NoError(t, engine.DeleteVirtualRoom(created.ID))
		assert.Empty(t, s.VirtualRooms())
	})

	t.Run("create virtual room | should persist the snapshot", func(t *testing.T) {
		db, err := sql.Open("sqlite3", ":memory:")
		assert.NoError(t, err)
		t.Cleanup(func() { db.Close() })

		groups, err := repos.NewGroupRepo(testLogger(), db)
		assert.NoError(t, err)

		snapshotRepo := mocks.NewMockStoreSnapshotRepo(t)
		var saved models.PersistedSnapshot
		snapshotRepo.On("Save", mock.AnythingOfType("models.PersistedSnapshot")).
			Run(func(args mock.Arguments) {
				saved = args.Get(0).(models.PersistedSnapshot)
			}).
			Return(nil).
			Once()

		s := store.NewStore(testLogger(), snapshotRepo)
		engine := homesync.NewEngine(testLogger(), config.Default(), s, &stubFetcher{}, &stubScheduler{}, groups)

		_, err = engine.CreateVirtualRoom("Master Suite", "a1", []string{"r1", "r2"})
		assert.NoError(t, err)

		assert.Len(t, saved.VirtualRooms, 1)
		assert.Equal(t, "Master Suite", saved.VirtualRooms[0].Name)
	})

	t.Run("audio zones | should mirror into the store", func(t *testing.T) {
		engine, s, _ := newTestEngine(t)

		created, err := engine.CreateAudioZone("Party Mode", []string{"m1", "m2"})
		assert.NoError(t, err)
		assert.Len(t, s.AudioZones(), 1)

		assert.NoError(t, engine.DeleteAudioZone(created.ID))
		assert.Empty(t, s.AudioZones())
	})
}

func Test_DerivedViews(t *testing.T) {

	engine, s, _ := newTestEngine(t)
	s.SetRooms([]models.Room{{ID: "r1", Name: "Bedroom", AreaID: "a1", AreaName: "Upstairs"}})
	s.SetAreas([]models.Area{{ID: "a1", Name: "Upstairs", RoomIDs: []string{"r1"}}})
	s.MergeThermostats([]models.Thermostat{{ID: "t1", RoomID: "r1", Mode: "heat", CurrentTemp: 70, HeatSetPoint: 72}})

	pairs := engine.ThermostatPairs()
	assert.Len(t, pairs, 1)
	assert.Equal(t, "t1", pairs[0].MainThermostat.ID)

	zoneList := engine.ThermostatZones()
	assert.Len(t, zoneList, 2)
	assert.Equal(t, float64(70), zoneList[0].AverageCurrentTemp)
}

func Test_Disconnect(t *testing.T) {

	engine, s, _ := newTestEngine(t)
	s.SetLightsIfChanged([]models.Light{{ID: "l1"}})

	engine.Disconnect()

	assert.Empty(t, s.Lights())
}
