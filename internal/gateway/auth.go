package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// KeyAuth is the default AuthProvider: it attaches the configured application
// key to every request and exchanges it for a fresh one via the gateway's
// refresh endpoint when asked.
type KeyAuth struct {
	logger  *log.Logger
	address string
	client  *http.Client

	mu  sync.Mutex
	key string
}

func NewKeyAuth(logger *log.Logger, address string, key string) *KeyAuth {
	return &KeyAuth{
		logger:  logger,
		address: address,
		client:  &http.Client{Timeout: 15 * time.Second},
		key:     key,
	}
}

func (a *KeyAuth) GetAuthHeaders() map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return map[string]string{"homesync-application-key": a.key}
}

func (a *KeyAuth) RefreshAuth() bool {

	a.mu.Lock()
	currentKey := a.key
	a.mu.Unlock()

	payload, _ := json.Marshal(map[string]string{"key": currentKey})
	resp, err := a.client.Post(fmt.Sprintf("http://%s/api/auth/refresh", a.address), "application/json", bytes.NewReader(payload))
	if err != nil {
		a.logger.Error("credential refresh failed", "err", err)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("credential refresh rejected", "status", resp.Status)
		return false
	}

	refreshed := struct {
		Success bool `json:"success"`
		Data    struct {
			Key string `json:"key"`
		} `json:"data"`
		Error string `json:"error"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&refreshed); err != nil {
		a.logger.Error("error parsing refresh response", "err", err)
		return false
	}
	if !refreshed.Success {
		a.logger.Warn("gateway refused credential refresh", "err", refreshed.Error)
		return false
	}

	if refreshed.Data.Key != "" {
		a.mu.Lock()
		a.key = refreshed.Data.Key
		a.mu.Unlock()
	}

	a.logger.Info("gateway credentials refreshed")
	return true
}
