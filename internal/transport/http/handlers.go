// internal/transport/http/handlers.go
package http

import (
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"etl-service/internal/sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// scopeOrder is the canonical sync order; requested scopes always run in
// this order no matter how the caller listed them.
var scopeOrder = []string{"teams", "players", "games", "game_events"}

type Handler struct {
	opener sync.ConnOpener
	orch   *sync.Orchestrator
	db     *gorm.DB // long-lived destination handle, operator reads only

	teams   *sync.TeamSyncer
	players *sync.PlayerSyncer
	games   *sync.GameSyncer
	events  *sync.GameEventSyncer
}

func NewHandler(opener sync.ConnOpener, orch *sync.Orchestrator, db *gorm.DB) *Handler {
	return &Handler{
		opener:  opener,
		orch:    orch,
		db:      db,
		teams:   sync.NewTeamSyncer(),
		players: sync.NewPlayerSyncer(),
		games:   sync.NewGameSyncer(),
		events:  sync.NewGameEventSyncer(),
	}
}

// TriggerSync runs the requested table syncers immediately and
// synchronously, on its own connection pair, so a report can be generated
// against fresh data. With a game_id the games/game_events syncers run in
// scoped reconciliation mode instead of incrementally.
func (h *Handler) TriggerSync(c *fiber.Ctx) error {
	start := time.Now()

	requested, err := parseScope(c.Query("scope", "games,game_events"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var gameID int64
	if raw := c.Query("game_id"); raw != "" {
		gameID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil || gameID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": fmt.Sprintf("Invalid game_id: %q", raw),
			})
		}
	}

	conns, err := h.opener.Open(c.Context())
	if err != nil {
		log.Printf("❌ [SYNC] On-demand sync could not connect: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "sync failed: databases unavailable",
		})
	}
	defer conns.Close()

	cycleID := uuid.New()
	rlog := sync.NewRunLogger(conns.Dest, cycleID)
	log.Printf("🔄 [SYNC] On-demand sync %s | scope=%s | game_id=%d", cycleID, c.Query("scope", "games,game_events"), gameID)

	var scope []int64
	if gameID > 0 {
		scope = []int64{gameID}
	}

	updated := make(map[string]int, len(requested))
	var results []sync.Result
	failed := false
	for _, name := range scopeOrder {
		if !requested[name] {
			continue
		}
		var result sync.Result
		switch name {
		case "teams":
			result = h.teams.Sync(conns, rlog)
		case "players":
			result = h.players.Sync(conns, rlog)
		case "games":
			if len(scope) > 0 {
				result = h.games.Resync(conns, rlog, scope)
			} else {
				result = h.games.Sync(conns, rlog)
			}
		case "game_events":
			if len(scope) > 0 {
				result = h.events.Resync(conns, rlog, scope)
			} else {
				result = h.events.Sync(conns, rlog)
			}
		}
		updated[result.Table] = result.Count
		results = append(results, result)
		if result.Error != "" {
			failed = true
		}
	}

	durationMS := time.Since(start).Milliseconds()
	if failed {
		log.Printf("❌ [SYNC] On-demand sync %s finished with errors in %dms", cycleID, durationMS)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":       "one or more tables failed to sync",
			"updated":     updated,
			"details":     results,
			"duration_ms": durationMS,
		})
	}

	log.Printf("✅ [SYNC] On-demand sync %s done in %dms | %v", cycleID, durationMS, updated)
	return c.JSON(fiber.Map{
		"updated":     updated,
		"duration_ms": durationMS,
	})
}

func parseScope(raw string) (map[string]bool, error) {
	allowed := make(map[string]bool, len(scopeOrder))
	for _, name := range scopeOrder {
		allowed[name] = true
	}
	requested := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		if !allowed[name] {
			return nil, fmt.Errorf("Invalid scope %q; allowed: %s", name, strings.Join(scopeOrder, ", "))
		}
		requested[name] = true
	}
	if len(requested) == 0 {
		return nil, fmt.Errorf("scope must name at least one table")
	}
	return requested, nil
}

// Status reports the last periodic cycle.
func (h *Handler) Status(c *fiber.Ctx) error {
	last := h.orch.LastCycle()
	if last == nil {
		return c.JSON(fiber.Map{"status": "waiting", "message": "no sync cycle has completed yet"})
	}
	return c.JSON(last)
}

// RecentRuns returns the newest run-log entries.
func (h *Handler) RecentRuns(c *fiber.Ctx) error {
	limit := clampLimit(c.QueryInt("limit", 50))
	logs, err := sync.RecentLogs(h.db, limit)
	if err != nil {
		log.Printf("❌ [ADMIN] Could not read run logs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not read run logs"})
	}
	return c.JSON(fiber.Map{"runs": logs, "count": len(logs)})
}

// RecentValidations returns the newest count-validation summaries.
func (h *Handler) RecentValidations(c *fiber.Ctx) error {
	limit := clampLimit(c.QueryInt("limit", 20))
	rows, err := sync.RecentValidations(h.db, limit)
	if err != nil {
		log.Printf("❌ [ADMIN] Could not read validations: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not read validations"})
	}
	return c.JSON(fiber.Map{"validations": rows, "count": len(rows)})
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > 500 {
		return 500
	}
	return limit
}
