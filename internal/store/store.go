package store

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wheelibin/homesync/internal/models"
)

type snapshotRepo interface {
	Save(snapshot models.PersistedSnapshot) error
	Load() (*models.PersistedSnapshot, error)
	Clear() error
}

// Snapshot is a point-in-time copy of everything the store holds, including
// the transient metadata. Consumers read these; they never mutate the store
// directly.
type Snapshot struct {
	Lights       []models.Light
	Shades       []models.Shade
	Thermostats  []models.Thermostat
	Locks        []models.DoorLock
	Sensors      []models.Sensor
	MediaRooms   []models.MediaRoom
	Rooms        []models.Room
	Areas        []models.Area
	VirtualRooms []models.VirtualRoom
	AudioZones   []models.AudioZone
	Scenes       []models.Scene

	IsLoading   bool
	Error       string
	LastUpdated *time.Time
}

// Store is the single shared mutable resource: the reconciliation layer and
// the optimistic command layer both write through its named setters, and the
// reconciliation layer's authoritative overwrite wins on the next poll.
type Store struct {
	logger *log.Logger
	repo   snapshotRepo

	mu   sync.RWMutex
	snap Snapshot
}

// NewStore creates a store. repo may be nil, in which case nothing is
// persisted (useful for tests and embedded use).
func NewStore(logger *log.Logger, repo snapshotRepo) *Store {
	return &Store{logger: logger, repo: repo}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snap
	snap.Lights = append([]models.Light(nil), s.snap.Lights...)
	snap.Shades = append([]models.Shade(nil), s.snap.Shades...)
	snap.Thermostats = append([]models.Thermostat(nil), s.snap.Thermostats...)
	snap.Locks = append([]models.DoorLock(nil), s.snap.Locks...)
	snap.Sensors = append([]models.Sensor(nil), s.snap.Sensors...)
	snap.MediaRooms = append([]models.MediaRoom(nil), s.snap.MediaRooms...)
	snap.Rooms = append([]models.Room(nil), s.snap.Rooms...)
	snap.Areas = append([]models.Area(nil), s.snap.Areas...)
	snap.VirtualRooms = append([]models.VirtualRoom(nil), s.snap.VirtualRooms...)
	snap.AudioZones = append([]models.AudioZone(nil), s.snap.AudioZones...)
	snap.Scenes = append([]models.Scene(nil), s.snap.Scenes...)
	return snap
}

func (s *Store) Lights() []models.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Light(nil), s.snap.Lights...)
}

func (s *Store) Shades() []models.Shade {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Shade(nil), s.snap.Shades...)
}

func (s *Store) Thermostats() []models.Thermostat {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Thermostat(nil), s.snap.Thermostats...)
}

func (s *Store) Locks() []models.DoorLock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.DoorLock(nil), s.snap.Locks...)
}

func (s *Store) Sensors() []models.Sensor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Sensor(nil), s.snap.Sensors...)
}

func (s *Store) MediaRooms() []models.MediaRoom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.MediaRoom(nil), s.snap.MediaRooms...)
}

func (s *Store) Rooms() []models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Room(nil), s.snap.Rooms...)
}

func (s *Store) Areas() []models.Area {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Area(nil), s.snap.Areas...)
}

func (s *Store) VirtualRooms() []models.VirtualRoom {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.VirtualRoom(nil), s.snap.VirtualRooms...)
}

func (s *Store) AudioZones() []models.AudioZone {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.AudioZone(nil), s.snap.AudioZones...)
}

func (s *Store) Scenes() []models.Scene {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Scene(nil), s.snap.Scenes...)
}

// change-aware setters: the store is only written (and a change reported)
// when the fresh data actually differs

func (s *Store) SetLightsIfChanged(fresh []models.Light) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !HasChanged(s.snap.Lights, fresh) {
		return false
	}
	s.snap.Lights = fresh
	return true
}

func (s *Store) SetShadesIfChanged(fresh []models.Shade) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !HasChanged(s.snap.Shades, fresh) {
		return false
	}
	s.snap.Shades = fresh
	return true
}

// MergeThermostats applies the setpoint preservation rule before the generic
// change check.
func (s *Store) MergeThermostats(fresh []models.Thermostat) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	merged := mergeThermostatSetPoints(s.snap.Thermostats, fresh)
	if !HasChanged(s.snap.Thermostats, merged) {
		return false
	}
	s.snap.Thermostats = merged
	return true
}

func (s *Store) SetLocksIfChanged(fresh []models.DoorLock) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !HasChanged(s.snap.Locks, fresh) {
		return false
	}
	s.snap.Locks = fresh
	return true
}

func (s *Store) SetSensorsIfChanged(fresh []models.Sensor) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !HasChanged(s.snap.Sensors, fresh) {
		return false
	}
	s.snap.Sensors = fresh
	return true
}

func (s *Store) SetMediaRoomsIfChanged(fresh []models.MediaRoom) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !HasChanged(s.snap.MediaRooms, fresh) {
		return false
	}
	s.snap.MediaRooms = fresh
	return true
}

func (s *Store) SetScenesIfChanged(fresh []models.Scene) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !HasChanged(s.snap.Scenes, fresh) {
		return false
	}
	s.snap.Scenes = fresh
	return true
}

func (s *Store) SetVirtualRoomsIfChanged(fresh []models.VirtualRoom) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !HasChanged(s.snap.VirtualRooms, fresh) {
		return false
	}
	s.snap.VirtualRooms = fresh
	return true
}

func (s *Store) SetAudioZonesIfChanged(fresh []models.AudioZone) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !HasChanged(s.snap.AudioZones, fresh) {
		return false
	}
	s.snap.AudioZones = fresh
	return true
}

// rooms and areas are always overwritten when fetched: stale membership
// breaks zone filtering silently and must never linger
func (s *Store) SetRooms(rooms []models.Room) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Rooms = rooms
}

func (s *Store) SetAreas(areas []models.Area) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Areas = areas
}

// in-place mutators used by the optimistic command layer; the mutation is
// visible to readers the moment the call returns, and a successful mutation
// persists the snapshot so it survives a restart before the next poll

func (s *Store) UpdateLight(id string, mutate func(*models.Light)) bool {
	s.mu.Lock()
	found := false
	for i := range s.snap.Lights {
		if s.snap.Lights[i].ID == id {
			mutate(&s.snap.Lights[i])
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.Persist()
	}
	return found
}

func (s *Store) UpdateShade(id string, mutate func(*models.Shade)) bool {
	s.mu.Lock()
	found := false
	for i := range s.snap.Shades {
		if s.snap.Shades[i].ID == id {
			mutate(&s.snap.Shades[i])
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.Persist()
	}
	return found
}

func (s *Store) UpdateThermostat(id string, mutate func(*models.Thermostat)) bool {
	s.mu.Lock()
	found := false
	for i := range s.snap.Thermostats {
		if s.snap.Thermostats[i].ID == id {
			mutate(&s.snap.Thermostats[i])
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.Persist()
	}
	return found
}

func (s *Store) UpdateLock(id string, mutate func(*models.DoorLock)) bool {
	s.mu.Lock()
	found := false
	for i := range s.snap.Locks {
		if s.snap.Locks[i].ID == id {
			mutate(&s.snap.Locks[i])
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.Persist()
	}
	return found
}

func (s *Store) UpdateMediaRoom(id string, mutate func(*models.MediaRoom)) bool {
	s.mu.Lock()
	found := false
	for i := range s.snap.MediaRooms {
		if s.snap.MediaRooms[i].ID == id {
			mutate(&s.snap.MediaRooms[i])
			found = true
			break
		}
	}
	s.mu.Unlock()

	if found {
		s.Persist()
	}
	return found
}

// metadata

func (s *Store) SetLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.IsLoading = loading
}

func (s *Store) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.IsLoading
}

func (s *Store) SetError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Error = message
}

func (s *Store) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Error = ""
}

func (s *Store) Error() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Error
}

func (s *Store) SetLastUpdated(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.LastUpdated = &t
}

func (s *Store) LastUpdated() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.LastUpdated
}

// Persist saves the persisted subset of the snapshot to the cache. Transient
// metadata never makes it into the PersistedSnapshot struct.
func (s *Store) Persist() {
	if s.repo == nil {
		return
	}

	s.mu.RLock()
	persisted := models.PersistedSnapshot{
		Lights:       append([]models.Light(nil), s.snap.Lights...),
		Shades:       append([]models.Shade(nil), s.snap.Shades...),
		Thermostats:  append([]models.Thermostat(nil), s.snap.Thermostats...),
		Locks:        append([]models.DoorLock(nil), s.snap.Locks...),
		Sensors:      append([]models.Sensor(nil), s.snap.Sensors...),
		MediaRooms:   append([]models.MediaRoom(nil), s.snap.MediaRooms...),
		Rooms:        append([]models.Room(nil), s.snap.Rooms...),
		Areas:        append([]models.Area(nil), s.snap.Areas...),
		VirtualRooms: append([]models.VirtualRoom(nil), s.snap.VirtualRooms...),
		AudioZones:   append([]models.AudioZone(nil), s.snap.AudioZones...),
		Scenes:       append([]models.Scene(nil), s.snap.Scenes...),
		LastUpdated:  s.snap.LastUpdated,
	}
	s.mu.RUnlock()

	if err := s.repo.Save(persisted); err != nil {
		s.logger.Error("error persisting snapshot", "err", err)
	}
}

// Restore loads the cached snapshot at startup, if one exists.
func (s *Store) Restore() {
	if s.repo == nil {
		return
	}

	persisted, err := s.repo.Load()
	if err != nil {
		s.logger.Error("error loading cached snapshot", "err", err)
		return
	}
	if persisted == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Lights = persisted.Lights
	s.snap.Shades = persisted.Shades
	s.snap.Thermostats = persisted.Thermostats
	s.snap.Locks = persisted.Locks
	s.snap.Sensors = persisted.Sensors
	s.snap.MediaRooms = persisted.MediaRooms
	s.snap.Rooms = persisted.Rooms
	s.snap.Areas = persisted.Areas
	s.snap.VirtualRooms = persisted.VirtualRooms
	s.snap.AudioZones = persisted.AudioZones
	s.snap.Scenes = persisted.Scenes
	s.snap.LastUpdated = persisted.LastUpdated
	s.logger.Info("restored snapshot from cache", "lights", len(persisted.Lights), "rooms", len(persisted.Rooms))
}

// ClearAll wipes every collection, the metadata and the persisted cache.
// Used on disconnect.
func (s *Store) ClearAll() {
	s.mu.Lock()
	s.snap = Snapshot{}
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.Clear(); err != nil {
			s.logger.Error("error clearing snapshot cache", "err", err)
		}
	}
}
