package server

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"facility-chat/internal/chat/gateway"
	"facility-chat/internal/models"
)

var resourceName = regexp.MustCompile(`[^a-z0-9-]`)

const defaultLastDays = 7

// handleResource serves data/api/<resource>.json, the same shape the remote
// gateway consumes.
func (s *Server) handleResource(w http.ResponseWriter, r *http.Request) {
	name := resourceName.ReplaceAllString(strings.ToLower(r.PathValue("resource")), "")
	if name == "" {
		writeError(w, http.StatusBadRequest, "Bad request")
		return
	}
	if name == "health" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	payload, err := os.ReadFile(filepath.Join(s.cfg.DataDir, name+".json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, http.StatusNotFound, "Not found")
			return
		}
		s.logger.Error("failed to read resource", map[string]interface{}{
			"resource": name,
			"error":    err.Error(),
		})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(payload, &body); err != nil {
		writeError(w, http.StatusInternalServerError, "Invalid JSON")
		return
	}

	if name == "work-orders" {
		if raw := r.URL.Query().Get("lastDays"); raw != "" {
			if err := filterWorkOrders(body, parseLastDays(raw), s.now()); err != nil {
				writeError(w, http.StatusInternalServerError, "Invalid JSON")
				return
			}
		}
	}
	writeJSON(w, http.StatusOK, body)
}

// parseLastDays reads a leading integer; anything unusable means a week.
func parseLastDays(raw string) int {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil || n <= 0 {
		return defaultLastDays
	}
	return n
}

func filterWorkOrders(body map[string]json.RawMessage, lastDays int, now time.Time) error {
	raw, ok := body["workOrders"]
	if !ok {
		return nil
	}
	var orders []models.WorkOrder
	if err := json.Unmarshal(raw, &orders); err != nil {
		return err
	}
	filtered, err := json.Marshal(gateway.FilterCreatedSince(orders, now, lastDays))
	if err != nil {
		return err
	}
	body["workOrders"] = filtered
	return nil
}
