package homesync

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/wheelibin/homesync/internal/config"
	"github.com/wheelibin/homesync/internal/models"
	"github.com/wheelibin/homesync/internal/store"
	"github.com/wheelibin/homesync/internal/zones"
)

type fetcher interface {
	Reconcile(isRetry bool, silent bool)
}

type pollScheduler interface {
	Run(ctx context.Context)
	NotifyActivity()
	SetVisible(visible bool)
}

type groupCRUD interface {
	CreateVirtualRoom(name string, areaID string, sourceRoomIDs []string) (models.VirtualRoom, error)
	RenameVirtualRoom(id string, name string) error
	DeleteVirtualRoom(id string) error
	ListVirtualRooms() ([]models.VirtualRoom, error)
	CreateAudioZone(name string, mediaRoomIDs []string) (models.AudioZone, error)
	DeleteAudioZone(id string) error
	ListAudioZones() ([]models.AudioZone, error)
}

// Engine is the composition root consumers talk to: it owns startup
// (restore + first fetch), the scheduler lifecycle, the user-group CRUD
// surface and the derived read views.
type Engine struct {
	logger    *log.Logger
	cfg       *config.Config
	store     *store.Store
	fetcher   fetcher
	scheduler pollScheduler
	groups    groupCRUD
}

func NewEngine(
	logger *log.Logger,
	cfg *config.Config,
	store *store.Store,
	fetcher fetcher,
	scheduler pollScheduler,
	groups groupCRUD,
) *Engine {
	return &Engine{
		logger:    logger,
		cfg:       cfg,
		store:     store,
		fetcher:   fetcher,
		scheduler: scheduler,
		groups:    groups,
	}
}

// Run restores the cached snapshot, performs the initial (non-silent)
// reconciliation and then hands over to the adaptive poll scheduler until the
// context is cancelled.
func (e *Engine) Run(ctx context.Context) {
	e.logger.Debug("Engine.Run")

	e.store.Restore()
	e.fetcher.Reconcile(false, false)
	e.scheduler.Run(ctx)
}

func (e *Engine) Store() *store.Store {
	return e.store
}

// NotifyActivity forwards a user-interaction event to the scheduler.
func (e *Engine) NotifyActivity() {
	e.scheduler.NotifyActivity()
}

// SetVisible forwards a page-visibility transition to the scheduler.
func (e *Engine) SetVisible(visible bool) {
	e.scheduler.SetVisible(visible)
}

// Disconnect wipes the store and the persisted cache. Timers stop when the
// Run context is cancelled; in-flight fetches are not cancelled and may write
// into the cleared store, which the next connect's fetch overwrites anyway.
func (e *Engine) Disconnect() {
	e.logger.Info("disconnecting, clearing snapshot")
	e.store.ClearAll()
}

// derived read views

func (e *Engine) ThermostatPairs() []zones.ThermostatPair {
	snap := e.store.Snapshot()
	return zones.ThermostatPairs(snap.Thermostats, snap.Rooms, snap.VirtualRooms, e.cfg.AreaPriority)
}

func (e *Engine) ThermostatZones() []zones.ThermostatZone {
	snap := e.store.Snapshot()
	return zones.ThermostatZones(snap.Thermostats, snap.Rooms, snap.Areas, snap.VirtualRooms, e.cfg.AreaPriority)
}

func (e *Engine) LightingZones() []zones.LightingZone {
	snap := e.store.Snapshot()
	return zones.LightingZones(snap.Lights, snap.Rooms, snap.Areas, snap.VirtualRooms, e.cfg.AreaPriority)
}

func (e *Engine) MediaZones() []zones.MediaZone {
	snap := e.store.Snapshot()
	return zones.MediaZones(snap.MediaRooms, snap.Rooms, snap.Areas, snap.AudioZones, e.cfg.AreaPriority)
}

// user-defined group CRUD: writes go to the local repo and are mirrored into
// the store immediately so the aggregator sees them without waiting a poll

func (e *Engine) CreateVirtualRoom(name string, areaID string, sourceRoomIDs []string) (models.VirtualRoom, error) {
	vr, err := e.groups.CreateVirtualRoom(name, areaID, sourceRoomIDs)
	if err != nil {
		return models.VirtualRoom{}, err
	}
	e.refreshVirtualRooms()
	return vr, nil
}

func (e *Engine) RenameVirtualRoom(id string, name string) error {
	if err := e.groups.RenameVirtualRoom(id, name); err != nil {
		return err
	}
	e.refreshVirtualRooms()
	return nil
}

func (e *Engine) DeleteVirtualRoom(id string) error {
	if err := e.groups.DeleteVirtualRoom(id); err != nil {
		return err
	}
	e.refreshVirtualRooms()
	return nil
}

func (e *Engine) CreateAudioZone(name string, mediaRoomIDs []string) (models.AudioZone, error) {
	az, err := e.groups.CreateAudioZone(name, mediaRoomIDs)
	if err != nil {
		return models.AudioZone{}, err
	}
	e.refreshAudioZones()
	return az, nil
}

func (e *Engine) DeleteAudioZone(id string) error {
	if err := e.groups.DeleteAudioZone(id); err != nil {
		return err
	}
	e.refreshAudioZones()
	return nil
}

func (e *Engine) refreshVirtualRooms() {
	virtualRooms, err := e.groups.ListVirtualRooms()
	if err != nil {
		e.logger.Error("error reading virtual rooms", "err", err)
		return
	}
	if e.store.SetVirtualRoomsIfChanged(virtualRooms) {
		e.store.Persist()
	}
}

func (e *Engine) refreshAudioZones() {
	audioZones, err := e.groups.ListAudioZones()
	if err != nil {
		e.logger.Error("error reading audio zones", "err", err)
		return
	}
	if e.store.SetAudioZonesIfChanged(audioZones) {
		e.store.Persist()
	}
}
