package repos

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/wheelibin/homesync/internal/models"
)

const groupSchema = `
  CREATE TABLE IF NOT EXISTS virtual_room (
    id VARCHAR(36) PRIMARY KEY,
    name TEXT NOT NULL,
    area_id VARCHAR(36)
  );

  CREATE TABLE IF NOT EXISTS virtual_room_member (
    virtual_room_id VARCHAR(36) NOT NULL,
    room_id VARCHAR(36) NOT NULL,
    PRIMARY KEY (virtual_room_id, room_id)
  );

  CREATE TABLE IF NOT EXISTS audio_zone (
    id VARCHAR(36) PRIMARY KEY,
    name TEXT NOT NULL
  );

  CREATE TABLE IF NOT EXISTS audio_zone_member (
    audio_zone_id VARCHAR(36) NOT NULL,
    media_room_id VARCHAR(36) NOT NULL,
    PRIMARY KEY (audio_zone_id, media_room_id)
  );
`

var ErrTooFewRooms = errors.New("a virtual room needs at least two source rooms")

// GroupRepo owns the user-defined groupings (virtual rooms and audio zones).
// The aggregation layer only consumes the lists; this is the CRUD surface.
type GroupRepo struct {
	logger *log.Logger
	db     *sql.DB
}

func NewGroupRepo(logger *log.Logger, db *sql.DB) (*GroupRepo, error) {

	_, err := db.Exec(groupSchema)
	if err != nil {
		return nil, fmt.Errorf("error initialising group schema: %w", err)
	}

	return &GroupRepo{logger: logger, db: db}, nil
}

func (r *GroupRepo) CreateVirtualRoom(name string, areaID string, sourceRoomIDs []string) (models.VirtualRoom, error) {
	if len(sourceRoomIDs) < 2 {
		return models.VirtualRoom{}, ErrTooFewRooms
	}

	vr := models.VirtualRoom{
		ID:            uuid.NewString(),
		Name:          name,
		AreaID:        areaID,
		SourceRoomIDs: sourceRoomIDs,
	}

	tx, err := r.db.Begin()
	if err != nil {
		return models.VirtualRoom{}, fmt.Errorf("error creating virtual room (%s): %w", name, err)
	}

	_, err = tx.Exec("INSERT INTO virtual_room (id, name, area_id) VALUES ($1, $2, $3);", vr.ID, vr.Name, vr.AreaID)
	if err != nil {
		_ = tx.Rollback()
		return models.VirtualRoom{}, fmt.Errorf("error creating virtual room (%s): %w", name, err)
	}
	for _, roomID := range sourceRoomIDs {
		_, err = tx.Exec("INSERT INTO virtual_room_member (virtual_room_id, room_id) VALUES ($1, $2);", vr.ID, roomID)
		if err != nil {
			_ = tx.Rollback()
			return models.VirtualRoom{}, fmt.Errorf("error adding room (%s) to virtual room (%s): %w", roomID, name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.VirtualRoom{}, fmt.Errorf("error creating virtual room (%s): %w", name, err)
	}

	return vr, nil
}

func (r *GroupRepo) RenameVirtualRoom(id string, name string) error {
	_, err := r.db.Exec("UPDATE virtual_room SET name = $1 WHERE id = $2", name, id)
	if err != nil {
		return fmt.Errorf("error renaming virtual room (%s): %w", id, err)
	}
	return nil
}

func (r *GroupRepo) DeleteVirtualRoom(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("error deleting virtual room (%s): %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM virtual_room_member WHERE virtual_room_id = $1", id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("error deleting virtual room members (%s): %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM virtual_room WHERE id = $1", id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("error deleting virtual room (%s): %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error deleting virtual room (%s): %w", id, err)
	}
	return nil
}

func (r *GroupRepo) ListVirtualRooms() ([]models.VirtualRoom, error) {
	rows, err := r.db.Query("SELECT id, name, area_id FROM virtual_room ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("error reading virtual rooms: %w", err)
	}
	defer rows.Close()

	virtualRooms := []models.VirtualRoom{}
	for rows.Next() {
		vr := models.VirtualRoom{}
		if err := rows.Scan(&vr.ID, &vr.Name, &vr.AreaID); err != nil {
			return nil, fmt.Errorf("error reading virtual room: %w", err)
		}
		virtualRooms = append(virtualRooms, vr)
	}

	for i := range virtualRooms {
		memberRows, err := r.db.Query("SELECT room_id FROM virtual_room_member WHERE virtual_room_id = $1", virtualRooms[i].ID)
		if err != nil {
			return nil, fmt.Errorf("error reading virtual room members (%s): %w", virtualRooms[i].ID, err)
		}
		for memberRows.Next() {
			var roomID string
			_ = memberRows.Scan(&roomID)
			virtualRooms[i].SourceRoomIDs = append(virtualRooms[i].SourceRoomIDs, roomID)
		}
		memberRows.Close()
	}

	return virtualRooms, nil
}

func (r *GroupRepo) CreateAudioZone(name string, mediaRoomIDs []string) (models.AudioZone, error) {

	az := models.AudioZone{
		ID:           uuid.NewString(),
		Name:         name,
		MediaRoomIDs: mediaRoomIDs,
	}

	tx, err := r.db.Begin()
	if err != nil {
		return models.AudioZone{}, fmt.Errorf("error creating audio zone (%s): %w", name, err)
	}

	_, err = tx.Exec("INSERT INTO audio_zone (id, name) VALUES ($1, $2);", az.ID, az.Name)
	if err != nil {
		_ = tx.Rollback()
		return models.AudioZone{}, fmt.Errorf("error creating audio zone (%s): %w", name, err)
	}
	for _, mediaRoomID := range mediaRoomIDs {
		_, err = tx.Exec("INSERT INTO audio_zone_member (audio_zone_id, media_room_id) VALUES ($1, $2);", az.ID, mediaRoomID)
		if err != nil {
			_ = tx.Rollback()
			return models.AudioZone{}, fmt.Errorf("error adding media room (%s) to audio zone (%s): %w", mediaRoomID, name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.AudioZone{}, fmt.Errorf("error creating audio zone (%s): %w", name, err)
	}

	return az, nil
}

func (r *GroupRepo) DeleteAudioZone(id string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("error deleting audio zone (%s): %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM audio_zone_member WHERE audio_zone_id = $1", id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("error deleting audio zone members (%s): %w", id, err)
	}
	if _, err := tx.Exec("DELETE FROM audio_zone WHERE id = $1", id); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("error deleting audio zone (%s): %w", id, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error deleting audio zone (%s): %w", id, err)
	}
	return nil
}

func (r *GroupRepo) ListAudioZones() ([]models.AudioZone, error) {
	rows, err := r.db.Query("SELECT id, name FROM audio_zone ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("error reading audio zones: %w", err)
	}
	defer rows.Close()

	audioZones := []models.AudioZone{}
	for rows.Next() {
		az := models.AudioZone{}
		if err := rows.Scan(&az.ID, &az.Name); err != nil {
			return nil, fmt.Errorf("error reading audio zone: %w", err)
		}
		audioZones = append(audioZones, az)
	}

	for i := range audioZones {
		memberRows, err := r.db.Query("SELECT media_room_id FROM audio_zone_member WHERE audio_zone_id = $1", audioZones[i].ID)
		if err != nil {
			return nil, fmt.Errorf("error reading audio zone members (%s): %w", audioZones[i].ID, err)
		}
		for memberRows.Next() {
			var mediaRoomID string
			_ = memberRows.Scan(&mediaRoomID)
			audioZones[i].MediaRoomIDs = append(audioZones[i].MediaRoomIDs, mediaRoomID)
		}
		memberRows.Close()
	}

	return audioZones, nil
}
