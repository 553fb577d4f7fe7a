package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/wheelibin/homesync/internal/constants"
	"github.com/wheelibin/homesync/internal/models"
)

// AuthProvider supplies the headers attached to every request and performs the
// one-shot credential refresh when the fetcher suspects an expired session.
type AuthProvider interface {
	GetAuthHeaders() map[string]string
	RefreshAuth() bool
}

type GatewayService struct {
	logger  *log.Logger
	auth    AuthProvider
	address string
	client  *http.Client
}

func NewGatewayService(logger *log.Logger, address string, auth AuthProvider) *GatewayService {
	return &GatewayService{
		logger:  logger,
		auth:    auth,
		address: address,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (g *GatewayService) GET(path string) ([]byte, error) {
	return g.makeRequest("GET", path, nil)
}

func (g *GatewayService) POST(path string, body []byte) ([]byte, error) {
	return g.makeRequest("POST", path, body)
}

func (g *GatewayService) makeRequest(verb string, path string, body []byte) ([]byte, error) {

	bodyReader := bytes.NewReader(body)
	req, err := http.NewRequest(verb, fmt.Sprintf("http://%s%s", g.address, path), bodyReader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range g.auth.GetAuthHeaders() {
		req.Header.Set(k, v)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		g.logger.Error("Error making gateway API call", "path", path, "status", resp.Status)
		return nil, fmt.Errorf("gateway returned %s for %s", resp.Status, path)
	}

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return responseBody, nil
}

// getCategory fetches a category endpoint, unwraps the envelope and normalizes
// the payload shape to a bare json array.
func (g *GatewayService) getCategory(category string, wrapperKeys ...string) (json.RawMessage, error) {
	body, err := g.GET(fmt.Sprintf("/api/%s", category))
	if err != nil {
		return nil, fmt.Errorf("error reading %s from gateway: %w", category, err)
	}

	envelope := apiResponse{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("error parsing %s response: %w", category, err)
	}
	if !envelope.Success {
		return nil, fmt.Errorf("gateway reported failure for %s: %s", category, envelope.Error)
	}

	return normalizeList(envelope.Data, wrapperKeys...), nil
}

func (g *GatewayService) GetAreas() ([]models.Area, error) {
	raw, err := g.getCategory(constants.CategoryAreas, "areas")
	if err != nil {
		return nil, err
	}
	var areas []models.Area
	if err := json.Unmarshal(raw, &areas); err != nil {
		return nil, fmt.Errorf("error parsing areas: %w", err)
	}
	return areas, nil
}

func (g *GatewayService) GetRooms() ([]models.Room, error) {
	raw, err := g.getCategory(constants.CategoryRooms, "rooms")
	if err != nil {
		return nil, err
	}
	var rooms []models.Room
	if err := json.Unmarshal(raw, &rooms); err != nil {
		return nil, fmt.Errorf("error parsing rooms: %w", err)
	}
	return rooms, nil
}

func (g *GatewayService) GetLights() ([]models.Light, error) {
	raw, err := g.getCategory(constants.CategoryLights, "lights", "devices")
	if err != nil {
		return nil, err
	}
	var lights []models.Light
	if err := json.Unmarshal(raw, &lights); err != nil {
		return nil, fmt.Errorf("error parsing lights: %w", err)
	}
	return lights, nil
}

func (g *GatewayService) GetShades() ([]models.Shade, error) {
	raw, err := g.getCategory(constants.CategoryShades, "shades", "devices")
	if err != nil {
		return nil, err
	}
	var shades []models.Shade
	if err := json.Unmarshal(raw, &shades); err != nil {
		return nil, fmt.Errorf("error parsing shades: %w", err)
	}
	return shades, nil
}

func (g *GatewayService) GetThermostats() ([]models.Thermostat, error) {
	raw, err := g.getCategory(constants.CategoryThermostats, "thermostats", "devices")
	if err != nil {
		return nil, err
	}
	var thermostats []models.Thermostat
	if err := json.Unmarshal(raw, &thermostats); err != nil {
		return nil, fmt.Errorf("error parsing thermostats: %w", err)
	}
	return thermostats, nil
}

func (g *GatewayService) GetLocks() ([]models.DoorLock, error) {
	raw, err := g.getCategory(constants.CategoryLocks, "locks", "devices")
	if err != nil {
		return nil, err
	}
	var locks []models.DoorLock
	if err := json.Unmarshal(raw, &locks); err != nil {
		return nil, fmt.Errorf("error parsing locks: %w", err)
	}
	return locks, nil
}

func (g *GatewayService) GetSensors() ([]models.Sensor, error) {
	raw, err := g.getCategory(constants.CategorySensors, "sensors", "devices")
	if err != nil {
		return nil, err
	}
	var sensors []models.Sensor
	if err := json.Unmarshal(raw, &sensors); err != nil {
		return nil, fmt.Errorf("error parsing sensors: %w", err)
	}
	return sensors, nil
}

func (g *GatewayService) GetMediaRooms() ([]models.MediaRoom, error) {
	raw, err := g.getCategory(constants.CategoryMediaRooms, "mediaRooms", "devices")
	if err != nil {
		return nil, err
	}
	var mediaRooms []models.MediaRoom
	if err := json.Unmarshal(raw, &mediaRooms); err != nil {
		return nil, fmt.Errorf("error parsing media rooms: %w", err)
	}
	return mediaRooms, nil
}

func (g *GatewayService) GetScenes() ([]models.Scene, error) {
	raw, err := g.getCategory(constants.CategoryScenes, "scenes")
	if err != nil {
		return nil, err
	}
	var scenes []models.Scene
	if err := json.Unmarshal(raw, &scenes); err != nil {
		return nil, fmt.Errorf("error parsing scenes: %w", err)
	}
	return scenes, nil
}

func (g *GatewayService) GetVirtualRooms() ([]models.VirtualRoom, error) {
	raw, err := g.getCategory(constants.CategoryVirtualRooms, "virtualRooms")
	if err != nil {
		return nil, err
	}
	var virtualRooms []models.VirtualRoom
	if err := json.Unmarshal(raw, &virtualRooms); err != nil {
		return nil, fmt.Errorf("error parsing virtual rooms: %w", err)
	}
	return virtualRooms, nil
}

func (g *GatewayService) GetAudioZones() ([]models.AudioZone, error) {
	raw, err := g.getCategory(constants.CategoryAudioZones, "audioZones")
	if err != nil {
		return nil, err
	}
	var audioZones []models.AudioZone
	if err := json.Unmarshal(raw, &audioZones); err != nil {
		return nil, fmt.Errorf("error parsing audio zones: %w", err)
	}
	return audioZones, nil
}

// SendCommand posts a device command. A nil error means the gateway accepted
// the command (envelope success=true).
func (g *GatewayService) SendCommand(category string, id string, action string, params map[string]any) error {

	payload := map[string]any{"id": id, "action": action}
	for k, v := range params {
		payload[k] = v
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	body, err := g.POST(fmt.Sprintf("/api/%s/%s/command", category, id), data)
	if err != nil {
		return fmt.Errorf("error sending %s command to %s/%s: %w", action, category, id, err)
	}

	envelope := apiResponse{}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("error parsing command response: %w", err)
	}
	if !envelope.Success {
		if envelope.Error != "" {
			return errors.New(envelope.Error)
		}
		return fmt.Errorf("gateway rejected %s command for %s/%s", action, category, id)
	}

	return nil
}
