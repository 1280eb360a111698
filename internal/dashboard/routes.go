package dashboard

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kbraden/slashforge/internal/graph"
	"github.com/kbraden/slashforge/internal/models"
	"github.com/kbraden/slashforge/internal/store"
	"gorm.io/gorm"
)

// registerRoutes sets up all API routes on the Gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB) {
	api := router.Group("/api")
	api.GET("/guilds/:guildID/commands", handleListCommands(db))
	api.POST("/guilds/:guildID/commands", handleCreateCommand(db))
	api.PUT("/guilds/:guildID/commands/:name", handleUpdateCommand(db))
	api.DELETE("/guilds/:guildID/commands/:name", handleDeleteCommand(db))
	api.POST("/guilds/:guildID/reload", handleReload(db))
	api.GET("/sync/records", handleSyncRecords(db))
}

// commandPayload is the saved editor state: the full node/edge graph.
// Graphs are replaced whole on every save, never patched.
type commandPayload struct {
	Nodes     []graph.Node `json:"nodes"`
	Edges     []graph.Edge `json:"edges"`
	CreatedBy string       `json:"createdBy"`
}

// decodeAndValidate parses a payload into a validated graph. The returned
// name is the normalized command name from the start node.
func (p *commandPayload) decodeAndValidate(guildID string) (*graph.Validated, error) {
	g := &graph.Graph{GuildID: guildID, Nodes: p.Nodes, Edges: p.Edges}
	return graph.Validate(g)
}

func handleListCommands(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cmds, err := store.ListByGuild(db, c.Param("guildID"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cmds)
	}
}

func handleCreateCommand(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		guildID := c.Param("guildID")

		var payload commandPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}

		v, err := payload.decodeAndValidate(guildID)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}

		exists, err := store.Exists(db, guildID, v.Name())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if exists {
			c.JSON(http.StatusConflict, gin.H{"error": "a command named " + v.Name() + " already exists in this guild"})
			return
		}

		cmd, err := saveCommand(db, guildID, v, &payload)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, cmd)
	}
}

func handleUpdateCommand(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		guildID := c.Param("guildID")
		name := strings.ToLower(c.Param("name"))

		var payload commandPayload
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}

		v, err := payload.decodeAndValidate(guildID)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		if v.Name() != name {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start node name " + v.Name() + " does not match command " + name})
			return
		}

		cmd, err := saveCommand(db, guildID, v, &payload)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, cmd)
	}
}

func handleDeleteCommand(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		guildID := c.Param("guildID")
		name := strings.ToLower(c.Param("name"))

		if err := store.Delete(db, guildID, name); err != nil {
			if strings.Contains(err.Error(), "not found") {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			}
			return
		}

		if _, err := store.InsertReload(db, guildID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func handleReload(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		evt, err := store.InsertReload(db, c.Param("guildID"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"eventId": evt.ID})
	}
}

func handleSyncRecords(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
		recs, err := store.RecentSyncRecords(db, limit)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, recs)
	}
}

// saveCommand persists a validated graph as a command row and queues a
// reload for the guild.
func saveCommand(db *gorm.DB, guildID string, v *graph.Validated, payload *commandPayload) (*models.Command, error) {
	nodes, err := json.Marshal(payload.Nodes)
	if err != nil {
		return nil, err
	}
	edges, err := json.Marshal(payload.Edges)
	if err != nil {
		return nil, err
	}

	description := ""
	if start := v.Graph().StartNode(); start != nil {
		description = start.Description
	}

	cmd := &models.Command{
		GuildID:     guildID,
		Name:        v.Name(),
		Description: description,
		Nodes:       string(nodes),
		Edges:       string(edges),
		CreatedBy:   payload.CreatedBy,
	}
	if err := store.Upsert(db, cmd); err != nil {
		return nil, err
	}
	if _, err := store.InsertReload(db, guildID); err != nil {
		return nil, err
	}
	return cmd, nil
}
