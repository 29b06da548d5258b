package server

import (
	"fmt"
	"net/http"

	"github.com/arthur-debert/modlink/pkg/errors"
	"github.com/arthur-debert/modlink/pkg/types"
	"github.com/gin-gonic/gin"
)

type toggleRequest struct {
	ModID string `json:"mod_id" binding:"required"`
}

type activateSetRequest struct {
	ModIDs []string `json:"mod_ids"`
}

type pathsRequest struct {
	ModsPath     string `json:"mods_path" binding:"required"`
	SaveModsPath string `json:"save_mods_path" binding:"required"`
}

func (s *Server) rootHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":    "modlink",
			"version": s.version,
			"status":  "running",
		})
	}
}

func (s *Server) listModsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.engine.ValidatePaths(); err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"mods":    s.engine.ScanModsDetailed(),
		})
	}
}

func (s *Server) activeModsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"mods":    s.engine.GetActiveMods(),
		})
	}
}

func (s *Server) modInfoHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		stats := s.engine.GetModInfo(id)
		if !stats.Exists {
			if stats.Error != "" {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": stats.Error, "mod": stats})
				return
			}
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"code":    errors.ErrModNotFound,
				"error":   fmt.Sprintf("mod '%s' not found", id),
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "mod": stats})
	}
}

func (s *Server) toggleModHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input toggleRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		s.respondActivation(c, s.engine.Toggle(input.ModID))
	}
}

func (s *Server) activateSetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input activateSetRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}
		s.respondActivation(c, s.engine.ActivateSet(input.ModIDs))
	}
}

func (s *Server) activateModHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.respondActivation(c, s.engine.ActivateSingle(c.Param("id")))
	}
}

func (s *Server) deactivateModHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		if err := s.engine.DeactivateSingle(id); err != nil {
			s.fail(c, err)
			return
		}
		s.notifyChange()
		c.JSON(http.StatusOK, gin.H{
			"success":   true,
			"message":   fmt.Sprintf("Mod '%s' deactivated", id),
			"is_active": s.engine.IsModActive(id),
		})
	}
}

func (s *Server) clearAllHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := s.engine.ValidatePaths(); err != nil {
			s.fail(c, err)
			return
		}
		before := len(s.engine.GetActiveMods())
		if err := s.engine.DeactivateAll(); err != nil {
			s.fail(c, err)
			return
		}
		s.notifyChange()
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": fmt.Sprintf("Deactivated %d mod(s)", before),
		})
	}
}

func (s *Server) getConfigHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		mods, active := s.engine.Paths()
		resp := gin.H{
			"success":        true,
			"mods_path":      mods,
			"save_mods_path": active,
		}
		if s.store != nil {
			cfg, err := s.store.Load()
			if err != nil {
				s.fail(c, err)
				return
			}
			resp["first_run"] = cfg.FirstRun
		}
		c.JSON(http.StatusOK, resp)
	}
}

func (s *Server) updateConfigHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input pathsRequest
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
			return
		}

		if s.store != nil {
			if _, err := s.store.SetPaths(input.ModsPath, input.SaveModsPath); err != nil {
				s.fail(c, err)
				return
			}
		}
		s.engine.SetPaths(input.ModsPath, input.SaveModsPath)

		resp := gin.H{"success": true, "message": "Configuration saved"}
		if err := s.engine.ValidatePaths(); err != nil {
			resp["warning"] = errors.Message(err)
		}
		c.JSON(http.StatusOK, resp)
	}
}

func (s *Server) reloadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, active := s.engine.Paths()
		if err := s.notifier.Notify(active); err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Reload signal sent"})
	}
}

// respondActivation writes an ActivationResult, signalling a reload when
// anything was linked or unlinked
func (s *Server) respondActivation(c *gin.Context, result types.ActivationResult) {
	if !result.OK {
		c.JSON(statusFor(result.Code), result)
		return
	}
	s.notifyChange()
	c.JSON(http.StatusOK, result)
}
