package commands_test

import (
	"errors"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"

	"github.com/wheelibin/homesync/internal/commands"
	"github.com/wheelibin/homesync/internal/constants"
	"github.com/wheelibin/homesync/internal/models"
	"github.com/wheelibin/homesync/internal/store"
	"github.com/wheelibin/homesync/mocks"
)

func testLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
}

type fixture struct {
	gateway   *mocks.MockCommandsGateway
	refresher *mocks.MockCommandsRefresher
	store     *store.Store
	service   *commands.CommandService
}

func newFixture(t *testing.T) fixture {
	gateway := mocks.NewMockCommandsGateway(t)
	refresher := mocks.NewMockCommandsRefresher(t)
	s := store.NewStore(testLogger(), nil)
	return fixture{
		gateway:   gateway,
		refresher: refresher,
		store:     s,
		service:   commands.NewCommandService(testLogger(), gateway, s, refresher),
	}
}

func Test_SetLightLevel(t *testing.T) {

	t.Run("should write optimistically before the network call", func(t *testing.T) {
		f := newFixture(t)
		f.store.SetLightsIfChanged([]models.Light{{ID: "l1", Level: 0, IsOn: false}})
		f.gateway.On("SendCommand", constants.CategoryLights, "l1", "setLevel", map[string]any{"level": 30000}).Return(nil).Once()

		assert.True(t, f.service.SetLightLevel("l1", 30000))

		lights := f.store.Lights()
		assert.Equal(t, 30000, lights[0].Level)
		assert.True(t, lights[0].IsOn)
	})

	t.Run("level above the device maximum | should clamp", func(t *testing.T) {
		f := newFixture(t)
		f.store.SetLightsIfChanged([]models.Light{{ID: "l1"}})
		f.gateway.On("SendCommand", constants.CategoryLights, "l1", "setLevel", map[string]any{"level": constants.MaxLevel}).Return(nil).Once()

		assert.True(t, f.service.SetLightLevel("l1", constants.MaxLevel+5000))

		assert.Equal(t, constants.MaxLevel, f.store.Lights()[0].Level)
	})

	t.Run("gateway rejects | should return false but keep the optimistic value", func(t *testing.T) {
		f := newFixture(t)
		f.store.SetLightsIfChanged([]models.Light{{ID: "l1", Level: 100}})
		f.gateway.On("SendCommand", constants.CategoryLights, "l1", "setLevel", map[string]any{"level": 30000}).Return(errors.New("502 bad gateway")).Once()

		assert.False(t, f.service.SetLightLevel("l1", 30000))

		// the next poll corrects it; until then the intent stays visible
		assert.Equal(t, 30000, f.store.Lights()[0].Level)
	})
}

func Test_SetLightOn(t *testing.T) {

	t.Run("turning off | should zero the level", func(t *testing.T) {
		f := newFixture(t)
		f.store.SetLightsIfChanged([]models.Light{{ID: "l1", Level: 30000, IsOn: true}})
		f.gateway.On("SendCommand", constants.CategoryLights, "l1", "setOn", map[string]any{"on": false}).Return(nil).Once()

		assert.True(t, f.service.SetLightOn("l1", false))

		lights := f.store.Lights()
		assert.False(t, lights[0].IsOn)
		assert.Equal(t, 0, lights[0].Level)
	})

	t.Run("turning on from zero | should jump to full", func(t *testing.T) {
		f := newFixture(t)
		f.store.SetLightsIfChanged([]models.Light{{ID: "l1", Level: 0}})
		f.gateway.On("SendCommand", constants.CategoryLights, "l1", "setOn", map[string]any{"on": true}).Return(nil).Once()

		assert.True(t, f.service.SetLightOn("l1", true))

		assert.Equal(t, constants.MaxLevel, f.store.Lights()[0].Level)
	})
}

func Test_SetLock(t *testing.T) {

	f := newFixture(t)
	f.store.SetLocksIfChanged([]models.DoorLock{{ID: "d1", IsLocked: false}})
	f.gateway.On("SendCommand", constants.CategoryLocks, "d1", "lock", map[string]any(nil)).Return(nil).Once()

	assert.True(t, f.service.SetLock("d1", true))
	assert.True(t, f.store.Locks()[0].IsLocked)
}

func Test_SetThermostatSetPoints(t *testing.T) {

	t.Run("both setpoints nil | should fail without a network call", func(t *testing.T) {
		f := newFixture(t)
		f.store.MergeThermostats([]models.Thermostat{{ID: "t1", HeatSetPoint: 70}})

		assert.False(t, f.service.SetThermostatSetPoints("t1", nil, nil))

		assert.Equal(t, float64(70), f.store.Thermostats()[0].HeatSetPoint)
	})

	t.Run("heat only | should send just the heat setpoint", func(t *testing.T) {
		f := newFixture(t)
		f.store.MergeThermostats([]models.Thermostat{{ID: "t1", HeatSetPoint: 70, CoolSetPoint: 76}})
		f.gateway.On("SendCommand", constants.CategoryThermostats, "t1", "setSetPoints", map[string]any{"heatSetPoint": float64(72)}).Return(nil).Once()

		heat := float64(72)
		assert.True(t, f.service.SetThermostatSetPoints("t1", &heat, nil))

		stored := f.store.Thermostats()[0]
		assert.Equal(t, float64(72), stored.HeatSetPoint)
		assert.Equal(t, float64(76), stored.CoolSetPoint)
	})

	t.Run("both setpoints | should send both", func(t *testing.T) {
		f := newFixture(t)
		f.store.MergeThermostats([]models.Thermostat{{ID: "t1"}})
		f.gateway.On("SendCommand", constants.CategoryThermostats, "t1", "setSetPoints",
			map[string]any{"heatSetPoint": float64(70), "coolSetPoint": float64(76)}).Return(nil).Once()

		heat, cool := float64(70), float64(76)
		assert.True(t, f.service.SetThermostatSetPoints("t1", &heat, &cool))
	})
}

func Test_RecallScene(t *testing.T) {

	t.Run("should not touch the store", func(t *testing.T) {
		f := newFixture(t)
		f.store.SetLightsIfChanged([]models.Light{{ID: "l1", IsOn: false}})
		f.store.SetScenesIfChanged([]models.Scene{{ID: "s1", Name: "Movie Night"}})
		f.gateway.On("SendCommand", constants.CategoryScenes, "s1", "recall", map[string]any(nil)).Return(nil).Once()

		assert.True(t, f.service.RecallScene("s1"))

		assert.False(t, f.store.Lights()[0].IsOn)
	})

	t.Run("gateway rejects | should return false", func(t *testing.T) {
		f := newFixture(t)
		f.gateway.On("SendCommand", constants.CategoryScenes, "s1", "recall", map[string]any(nil)).Return(errors.New("scene not found")).Once()

		assert.False(t, f.service.RecallScene("s1"))
	})
}

func Test_MediaCommands(t *testing.T) {

	t.Run("SetMediaVolume | should clamp and refetch", func(t *testing.T) {
		f := newFixture(t)
		f.store.SetMediaRoomsIfChanged([]models.MediaRoom{{ID: "m1", Volume: 20}})
		f.gateway.On("SendCommand", constants.CategoryMediaRooms, "m1", "setVolume", map[string]any{"volume": constants.MaxVolume}).Return(nil).Once()
		f.refresher.On("RefetchCategory", constants.CategoryMediaRooms).Once()

		assert.True(t, f.service.SetMediaVolume("m1", 150))

		assert.Equal(t, constants.MaxVolume, f.store.MediaRooms()[0].Volume)
	})

	t.Run("SetMediaVolume | negative volume | should clamp to zero", func(t *testing.T) {
		f := newFixture(t)
		f.store.SetMediaRoomsIfChanged([]models.MediaRoom{{ID: "m1", Volume: 20}})
		f.gateway.On("SendCommand", constants.CategoryMediaRooms, "m1", "setVolume", map[string]any{"volume": 0}).Return(nil).Once()
		f.refresher.On("RefetchCategory", constants.CategoryMediaRooms).Once()

		assert.True(t, f.service.SetMediaVolume("m1", -5))

		assert.Equal(t, 0, f.store.MediaRooms()[0].Volume)
	})

	t.Run("SetMediaPower failure | should still refetch for rollback", func(t *testing.T) {
		f := newFixture(t)
		f.store.SetMediaRoomsIfChanged([]models.MediaRoom{{ID: "m1", IsOn: false}})
		f.gateway.On("SendCommand", constants.CategoryMediaRooms, "m1", "setPower", map[string]any{"on": true}).Return(errors.New("timeout")).Once()
		f.refresher.On("RefetchCategory", constants.CategoryMediaRooms).Once()

		assert.False(t, f.service.SetMediaPower("m1", true))
	})

	t.Run("SelectMediaSource | should power the room on optimistically", func(t *testing.T) {
		f := newFixture(t)
		f.store.SetMediaRoomsIfChanged([]models.MediaRoom{{ID: "m1", IsOn: false}})
		f.gateway.On("SendCommand", constants.CategoryMediaRooms, "m1", "selectSource", map[string]any{"sourceId": "src9"}).Return(nil).Once()
		f.refresher.On("RefetchCategory", constants.CategoryMediaRooms).Once()

		assert.True(t, f.service.SelectMediaSource("m1", "src9"))

		stored := f.store.MediaRooms()[0]
		assert.True(t, stored.IsOn)
		assert.Equal(t, "src9", stored.SourceID)
	})
}

func Test_ZoneFanOut(t *testing.T) {

	t.Run("SetZoneLightLevel | should command every light", func(t *testing.T) {
		f := newFixture(t)
		f.store.SetLightsIfChanged([]models.Light{{ID: "l1"}, {ID: "l2"}})
		f.gateway.On("SendCommand", constants.CategoryLights, "l1", "setLevel", map[string]any{"level": 20000}).Return(nil).Once()
		f.gateway.On("SendCommand", constants.CategoryLights, "l2", "setLevel", map[string]any{"level": 20000}).Return(nil).Once()

		assert.True(t, f.service.SetZoneLightLevel([]string{"l1", "l2"}, 20000))

		for _, l := range f.store.Lights() {
			assert.Equal(t, 20000, l.Level)
		}
	})

	t.Run("SetZoneLightLevel | one rejection | should report false", func(t *testing.T) {
		f := newFixture(t)
		f.store.SetLightsIfChanged([]models.Light{{ID: "l1"}, {ID: "l2"}})
		f.gateway.On("SendCommand", constants.CategoryLights, "l1", "setLevel", map[string]any{"level": 20000}).Return(nil).Once()
		f.gateway.On("SendCommand", constants.CategoryLights, "l2", "setLevel", map[string]any{"level": 20000}).Return(errors.New("unreachable")).Once()

		assert.False(t, f.service.SetZoneLightLevel([]string{"l1", "l2"}, 20000))
	})
}
