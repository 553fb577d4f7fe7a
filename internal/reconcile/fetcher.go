package reconcile

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wheelibin/homesync/internal/constants"
	"github.com/wheelibin/homesync/internal/models"
	"github.com/wheelibin/homesync/internal/store"
)

type gatewayAPI interface {
	GetAreas() ([]models.Area, error)
	GetRooms() ([]models.Room, error)
	GetLights() ([]models.Light, error)
	GetShades() ([]models.Shade, error)
	GetThermostats() ([]models.Thermostat, error)
	GetLocks() ([]models.DoorLock, error)
	GetSensors() ([]models.Sensor, error)
	GetMediaRooms() ([]models.MediaRoom, error)
	GetScenes() ([]models.Scene, error)
	GetVirtualRooms() ([]models.VirtualRoom, error)
	GetAudioZones() ([]models.AudioZone, error)
}

type authService interface {
	RefreshAuth() bool
}

// Fetcher orchestrates a full reconciliation round: parallel category fetches,
// shape-tolerant commits into the store, and the empty-everything auth
// heuristic with its single bounded retry.
type Fetcher struct {
	logger  *log.Logger
	gateway gatewayAPI
	auth    authService
	store   *store.Store

	inFlight   atomic.Bool
	refreshing atomic.Bool
}

func NewFetcher(logger *log.Logger, gateway gatewayAPI, auth authService, store *store.Store) *Fetcher {
	return &Fetcher{logger: logger, gateway: gateway, auth: auth, store: store}
}

// one round of parallel category results; each goroutine writes only its own
// pair of fields
type round struct {
	areas    []models.Area
	areasErr error

	rooms    []models.Room
	roomsErr error

	lights    []models.Light
	lightsErr error

	shades    []models.Shade
	shadesErr error

	thermostats    []models.Thermostat
	thermostatsErr error

	locks    []models.DoorLock
	locksErr error

	sensors    []models.Sensor
	sensorsErr error

	mediaRooms    []models.MediaRoom
	mediaRoomsErr error

	scenes    []models.Scene
	scenesErr error

	virtualRooms    []models.VirtualRoom
	virtualRoomsErr error

	audioZones    []models.AudioZone
	audioZonesErr error
}

func (r *round) totalItems() int {
	return len(r.areas) + len(r.rooms) + len(r.lights) + len(r.shades) +
		len(r.thermostats) + len(r.locks) + len(r.sensors) + len(r.mediaRooms) +
		len(r.scenes) + len(r.virtualRooms) + len(r.audioZones)
}

func (r *round) allSucceeded() bool {
	return r.areasErr == nil && r.roomsErr == nil && r.lightsErr == nil &&
		r.shadesErr == nil && r.thermostatsErr == nil && r.locksErr == nil &&
		r.sensorsErr == nil && r.mediaRoomsErr == nil && r.scenesErr == nil &&
		r.virtualRoomsErr == nil && r.audioZonesErr == nil
}

// Reconcile fetches every category and commits the results. isRetry marks the
// single post-refresh retry; silent suppresses the loading flag for background
// polls. Calls made while a reconciliation is outstanding are skipped.
func (f *Fetcher) Reconcile(isRetry bool, silent bool) {

	if !f.inFlight.CompareAndSwap(false, true) {
		f.logger.Debug("reconciliation already in flight, skipping")
		return
	}

	needsAuthRetry := f.run(isRetry, silent)
	f.inFlight.Store(false)

	if !needsAuthRetry {
		return
	}

	f.refreshing.Store(true)
	refreshed := f.auth.RefreshAuth()
	f.refreshing.Store(false)

	if !refreshed {
		f.logger.Warn("credential refresh failed, stopping")
		f.store.SetError(constants.ErrSessionExpired)
		return
	}

	f.logger.Info("credentials refreshed, retrying reconciliation once")
	f.Reconcile(true, silent)
}

// run performs one fetch round and reports whether the auth heuristic fired.
func (f *Fetcher) run(isRetry bool, silent bool) bool {

	if !silent {
		f.store.SetLoading(true)
		defer f.store.SetLoading(false)
	}

	r := round{}

	var wg sync.WaitGroup
	fetch := func(do func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			do()
		}()
	}

	fetch(func() { r.areas, r.areasErr = f.gateway.GetAreas() })
	fetch(func() { r.rooms, r.roomsErr = f.gateway.GetRooms() })
	fetch(func() { r.lights, r.lightsErr = f.gateway.GetLights() })
	fetch(func() { r.shades, r.shadesErr = f.gateway.GetShades() })
	fetch(func() { r.thermostats, r.thermostatsErr = f.gateway.GetThermostats() })
	fetch(func() { r.locks, r.locksErr = f.gateway.GetLocks() })
	fetch(func() { r.sensors, r.sensorsErr = f.gateway.GetSensors() })
	fetch(func() { r.mediaRooms, r.mediaRoomsErr = f.gateway.GetMediaRooms() })
	fetch(func() { r.scenes, r.scenesErr = f.gateway.GetScenes() })
	fetch(func() { r.virtualRooms, r.virtualRoomsErr = f.gateway.GetVirtualRooms() })
	fetch(func() { r.audioZones, r.audioZonesErr = f.gateway.GetAudioZones() })
	wg.Wait()

	// a gateway that answers every category successfully with nothing is
	// indistinguishable from an expired session, so treat it as one; bounded
	// to a single retry so a genuinely empty gateway can't loop us forever.
	// errored categories don't count: a transport outage must surface as a
	// fetch error, not force reauthentication
	if r.totalItems() == 0 && r.allSucceeded() && !isRetry && !f.refreshing.Load() {
		f.logger.Warn("all categories empty, suspecting expired session")
		return true
	}

	f.commit(&r)
	return false
}

func (f *Fetcher) commit(r *round) {

	// rooms/areas first so membership derivation sees this round's data
	if r.areasErr == nil && r.roomsErr == nil {
		areas, rooms := deriveAreaRooms(r.areas, r.rooms)
		f.store.SetAreas(areas)
		f.store.SetRooms(rooms)
	} else {
		// repair with whatever half arrived plus the stored other half
		if r.areasErr == nil {
			areas, rooms := deriveAreaRooms(r.areas, f.store.Rooms())
			f.store.SetAreas(areas)
			f.store.SetRooms(rooms)
		}
		if r.roomsErr == nil {
			areas, rooms := deriveAreaRooms(f.store.Areas(), r.rooms)
			f.store.SetAreas(areas)
			f.store.SetRooms(rooms)
		}
	}

	// device categories only commit on success with data: an empty or failed
	// response never blanks out previously known devices
	if r.lightsErr == nil && len(r.lights) > 0 {
		f.store.SetLightsIfChanged(r.lights)
	}
	if r.shadesErr == nil && len(r.shades) > 0 {
		f.store.SetShadesIfChanged(r.shades)
	}
	if r.thermostatsErr == nil && len(r.thermostats) > 0 {
		f.store.MergeThermostats(r.thermostats)
	}
	if r.locksErr == nil && len(r.locks) > 0 {
		f.store.SetLocksIfChanged(r.locks)
	}
	if r.sensorsErr == nil && len(r.sensors) > 0 {
		f.store.SetSensorsIfChanged(r.sensors)
	}
	if r.mediaRoomsErr == nil && len(r.mediaRooms) > 0 {
		f.store.SetMediaRoomsIfChanged(r.mediaRooms)
	}
	if r.scenesErr == nil && len(r.scenes) > 0 {
		f.store.SetScenesIfChanged(r.scenes)
	}
	if r.virtualRoomsErr == nil && len(r.virtualRooms) > 0 {
		f.store.SetVirtualRoomsIfChanged(r.virtualRooms)
	}
	if r.audioZonesErr == nil && len(r.audioZones) > 0 {
		f.store.SetAudioZonesIfChanged(r.audioZones)
	}

	failed := []string{}
	for category, err := range map[string]error{
		constants.CategoryAreas:        r.areasErr,
		constants.CategoryRooms:        r.roomsErr,
		constants.CategoryLights:       r.lightsErr,
		constants.CategoryShades:       r.shadesErr,
		constants.CategoryThermostats:  r.thermostatsErr,
		constants.CategoryLocks:        r.locksErr,
		constants.CategorySensors:      r.sensorsErr,
		constants.CategoryMediaRooms:   r.mediaRoomsErr,
		constants.CategoryScenes:       r.scenesErr,
		constants.CategoryVirtualRooms: r.virtualRoomsErr,
		constants.CategoryAudioZones:   r.audioZonesErr,
	} {
		if err != nil {
			f.logger.Warn("category fetch failed", "category", category, "err", err)
			failed = append(failed, category)
		}
	}

	if len(failed) > 0 {
		f.store.SetError(fmt.Sprintf("failed to fetch: %s", strings.Join(failed, ", ")))
	} else {
		f.store.ClearError()
	}

	// any successful category advances lastUpdated, even a fully unchanged
	// round, so "fetched N seconds ago" stays honest
	if len(failed) < 11 {
		f.store.SetLastUpdated(time.Now())
		f.store.Persist()
	}
}

// RefetchCategory re-fetches a single device category and commits it with the
// usual rules. The command layer uses this to reconcile commands whose side
// effects the optimistic model cannot predict.
func (f *Fetcher) RefetchCategory(category string) {
	switch category {

	case constants.CategoryLights:
		lights, err := f.gateway.GetLights()
		if err == nil && len(lights) > 0 {
			f.store.SetLightsIfChanged(lights)
		}

	case constants.CategoryShades:
		shades, err := f.gateway.GetShades()
		if err == nil && len(shades) > 0 {
			f.store.SetShadesIfChanged(shades)
		}

	case constants.CategoryThermostats:
		thermostats, err := f.gateway.GetThermostats()
		if err == nil && len(thermostats) > 0 {
			f.store.MergeThermostats(thermostats)
		}

	case constants.CategoryLocks:
		locks, err := f.gateway.GetLocks()
		if err == nil && len(locks) > 0 {
			f.store.SetLocksIfChanged(locks)
		}

	case constants.CategoryMediaRooms:
		mediaRooms, err := f.gateway.GetMediaRooms()
		if err == nil && len(mediaRooms) > 0 {
			f.store.SetMediaRoomsIfChanged(mediaRooms)
		}

	case constants.CategoryScenes:
		scenes, err := f.gateway.GetScenes()
		if err == nil && len(scenes) > 0 {
			f.store.SetScenesIfChanged(scenes)
		}

	default:
		f.logger.Warn("refetch requested for unknown category", "category", category)
	}
}
