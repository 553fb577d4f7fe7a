package climate

import (
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/wheelibin/homesync/internal/constants"
	"github.com/wheelibin/homesync/internal/store"
	"github.com/wheelibin/homesync/internal/zones"
)

type thermostatCommander interface {
	SetThermostatMode(id string, mode string) bool
}

// Coordinator keeps a room's main thermostat and its paired floor-heating
// unit consistent: floor heat switches off once the main unit is satisfied,
// and mode changes on either side of a pair drag the other side along.
type Coordinator struct {
	logger       *log.Logger
	store        *store.Store
	commands     thermostatCommander
	areaPriority []string

	sweeping atomic.Bool
}

func NewCoordinator(logger *log.Logger, store *store.Store, commands thermostatCommander, areaPriority []string) *Coordinator {
	return &Coordinator{logger: logger, store: store, commands: commands, areaPriority: areaPriority}
}

func (c *Coordinator) pairs() []zones.ThermostatPair {
	return zones.ThermostatPairs(c.store.Thermostats(), c.store.Rooms(), c.store.VirtualRooms(), c.areaPriority)
}

// satisfied reports whether the main unit has reached its heat setpoint.
func satisfied(pair zones.ThermostatPair) bool {
	return pair.MainThermostat.CurrentTemp >= pair.MainThermostat.HeatSetPoint
}

// RunSatisfactionSweep turns floor heat off for every pair whose main
// thermostat is heating and has reached its setpoint. Commands here are a
// background convenience, not user actions: failures are swallowed and the
// next poll's fresh fetch reconciles actual gateway state. At most one sweep
// runs at a time; overlapping poll ticks would otherwise both see a pair
// still in heat and issue duplicate off commands.
func (c *Coordinator) RunSatisfactionSweep() {
	if !c.sweeping.CompareAndSwap(false, true) {
		c.logger.Debug("satisfaction sweep already in flight, skipping")
		return
	}
	defer c.sweeping.Store(false)

	for _, pair := range c.pairs() {
		if pair.FloorHeat == nil {
			continue
		}
		if pair.MainThermostat.Mode != constants.ModeHeat || pair.FloorHeat.Mode != constants.ModeHeat {
			continue
		}
		if !satisfied(pair) {
			continue
		}

		c.logger.Info("room satisfied, switching floor heat off",
			"room", pair.RoomName,
			"temp", pair.MainThermostat.CurrentTemp,
			"setPoint", pair.MainThermostat.HeatSetPoint,
		)
		// optimistic off is applied by the command; result ignored on purpose
		c.commands.SetThermostatMode(pair.FloorHeat.ID, constants.ModeOff)
	}
}

// ChangeMode is the pair-aware mode switch consumers should use:
//   - switching a floor-heat unit to heat forces the paired main unit to heat
//     as well (floor heat cannot run while the main unit disagrees)
//   - switching a main unit away from heat forces its floor heat off in the
//     same operation
//
// Unpaired units (including floor-heat units promoted to main) behave like a
// plain mode switch.
func (c *Coordinator) ChangeMode(id string, mode string) bool {

	for _, pair := range c.pairs() {

		if pair.FloorHeat != nil && pair.FloorHeat.ID == id {
			if mode == constants.ModeHeat && pair.MainThermostat.Mode != constants.ModeHeat {
				c.logger.Info("floor heat switched on, forcing main thermostat to heat", "room", pair.RoomName)
				if !c.commands.SetThermostatMode(pair.MainThermostat.ID, constants.ModeHeat) {
					return false
				}
			}
			return c.commands.SetThermostatMode(id, mode)
		}

		if pair.MainThermostat.ID == id {
			if mode != constants.ModeHeat && pair.FloorHeat != nil && pair.FloorHeat.Mode != constants.ModeOff {
				c.logger.Info("main thermostat leaving heat, switching floor heat off", "room", pair.RoomName)
				c.commands.SetThermostatMode(pair.FloorHeat.ID, constants.ModeOff)
			}
			return c.commands.SetThermostatMode(id, mode)
		}
	}

	return c.commands.SetThermostatMode(id, mode)
}
