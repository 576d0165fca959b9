// Package api provides the REST API server for basstab
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/james-see/basstab/pkg/converter"
	"github.com/james-see/basstab/pkg/render"
	"github.com/james-see/basstab/pkg/session"
	"github.com/james-see/basstab/pkg/sheet"
	"github.com/james-see/basstab/pkg/tab"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title Bass Tab API
// @version 1.0
// @description API for building and rendering four-string bass tablature
// @host localhost:8080
// @BasePath /api/v1

// Server serves tablature sessions over HTTP
type Server struct {
	store   *session.Store
	conv    *converter.Converter
	log     *slog.Logger
	timeSig tab.TimeSignature
}

// NewServer creates a server. New sessions default to ts.
func NewServer(store *session.Store, conv *converter.Converter, ts tab.TimeSignature, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{store: store, conv: conv, log: log, timeSig: ts}
}

// Router builds the gin engine with every route registered
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.GET("/durations", listDurations)
		v1.GET("/tunings", listTunings)
		v1.POST("/render", s.handleRender)

		v1.GET("/sessions", s.listSessions)
		v1.POST("/sessions", s.createSession)
		v1.GET("/sessions/:id", s.getSession)
		v1.PATCH("/sessions/:id", s.updateSession)
		v1.DELETE("/sessions/:id", s.deleteSession)
		v1.GET("/sessions/:id/tab", s.getTab)
		v1.GET("/sessions/:id/sheet", s.getSheet)
		v1.GET("/sessions/:id/midi", s.getMIDI)
		v1.POST("/sessions/:id/notes", s.addNote)
		v1.POST("/sessions/:id/undo", s.undo)
		v1.POST("/sessions/:id/reset", s.reset)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// Start listens on port until the server fails
func (s *Server) Start(port int) error {
	s.log.Info("starting API server", "port", port)
	return s.Router().Run(fmt.Sprintf(":%d", port))
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "basstab",
	})
}

// listDurations godoc
// @Summary List note durations
// @Description Returns the accepted note durations and their slot widths
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]map[string]any
// @Router /api/v1/durations [get]
func listDurations(c *gin.Context) {
	durations := make([]gin.H, 0, len(tab.Durations))
	for _, d := range tab.Durations {
		durations = append(durations, gin.H{"name": d.String(), "value": float64(d), "slots": d.Slots()})
	}
	c.JSON(http.StatusOK, gin.H{
		"durations":         durations,
		"slots_per_measure": tab.SlotsPerMeasure,
	})
}

// listTunings godoc
// @Summary List tunings
// @Description Returns the tunings used for MIDI export and import
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]map[string]any
// @Router /api/v1/tunings [get]
func listTunings(c *gin.Context) {
	tunings := make([]gin.H, 0, len(converter.Tunings))
	for _, t := range converter.Tunings {
		tunings = append(tunings, gin.H{"name": t.Name, "open": t.Open})
	}
	c.JSON(http.StatusOK, gin.H{"tunings": tunings})
}

// handleRender godoc
// @Summary Render a sheet
// @Description Renders a JSON sheet as plain-text tablature
// @Tags render
// @Accept json
// @Produce plain
// @Param sheet body sheet.Sheet true "Sheet to render"
// @Param format query string false "text (default) or markdown"
// @Success 200 {string} string
// @Failure 400 {object} map[string]string
// @Router /api/v1/render [post]
func (s *Server) handleRender(c *gin.Context) {
	var sh sheet.Sheet
	if err := c.ShouldBindJSON(&sh); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sheet: " + err.Error()})
		return
	}

	t, err := sh.Build()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.String(http.StatusOK, "%s", document(c, sh.Title, sh.Artist, t))
}

func document(c *gin.Context, title, artist string, t *tab.Tablature) string {
	if c.Query("format") == "markdown" {
		return render.Markdown(title, artist, t)
	}
	return render.Preview(title, artist, t)
}

type createRequest struct {
	Title         string `json:"title"`
	Artist        string `json:"artist"`
	TimeSignature string `json:"time_signature"`
}

// createSession godoc
// @Summary Create a session
// @Description Starts a new editing session with one empty measure
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body createRequest false "Metadata"
// @Success 201 {object} session.Info
// @Failure 400 {object} map[string]string
// @Router /api/v1/sessions [post]
func (s *Server) createSession(c *gin.Context) {
	var req createRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}
	}

	ts := s.timeSig
	if req.TimeSignature != "" {
		parsed, err := tab.ParseTimeSignature(req.TimeSignature)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		ts = parsed
	}

	sess := s.store.Create(req.Title, req.Artist, ts)
	c.JSON(http.StatusCreated, sess.Info())
}

// listSessions godoc
// @Summary List sessions
// @Tags sessions
// @Produce json
// @Success 200 {object} map[string][]session.Info
// @Router /api/v1/sessions [get]
func (s *Server) listSessions(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sessions": s.store.List()})
}

// lookup resolves the :id parameter, writing a 404 when it is unknown
func (s *Server) lookup(c *gin.Context) (*session.Session, bool) {
	sess, err := s.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return nil, false
	}
	return sess, true
}

// getSession godoc
// @Summary Get a session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} session.Info
// @Failure 404 {object} map[string]string
// @Router /api/v1/sessions/{id} [get]
func (s *Server) getSession(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Info())
}

type metadataRequest struct {
	Title  *string `json:"title"`
	Artist *string `json:"artist"`
}

// updateSession godoc
// @Summary Edit session metadata
// @Description Changes the title and/or artist; omitted fields are kept
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param metadata body metadataRequest true "Title and artist"
// @Success 200 {object} session.Info
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/sessions/{id} [patch]
func (s *Server) updateSession(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}

	var req metadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	title, artist := sess.Metadata()
	if req.Title != nil {
		title = *req.Title
	}
	if req.Artist != nil {
		artist = *req.Artist
	}
	sess.SetMetadata(title, artist)
	c.JSON(http.StatusOK, sess.Info())
}

// deleteSession godoc
// @Summary Delete a session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 204
// @Failure 404 {object} map[string]string
// @Router /api/v1/sessions/{id} [delete]
func (s *Server) deleteSession(c *gin.Context) {
	if err := s.store.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

// getTab godoc
// @Summary Render a session
// @Description Returns the session's tablature as text
// @Tags sessions
// @Produce plain
// @Param id path string true "Session ID"
// @Param format query string false "text (default) or markdown"
// @Success 200 {string} string
// @Failure 404 {object} map[string]string
// @Router /api/v1/sessions/{id}/tab [get]
func (s *Server) getTab(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	var text string
	if c.Query("format") == "markdown" {
		text = sess.Markdown()
	} else {
		text = sess.Preview()
	}
	c.String(http.StatusOK, "%s", text)
}

// getSheet godoc
// @Summary Export a session as a sheet
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} sheet.Sheet
// @Failure 404 {object} map[string]string
// @Router /api/v1/sessions/{id}/sheet [get]
func (s *Server) getSheet(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Sheet())
}

// getMIDI godoc
// @Summary Export a session as MIDI
// @Tags sessions
// @Produce application/octet-stream
// @Param id path string true "Session ID"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /api/v1/sessions/{id}/midi [get]
func (s *Server) getMIDI(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}

	var (
		data []byte
		err  error
	)
	sess.Do(func(t *tab.Tablature) {
		data, err = s.conv.MIDI().GenerateMIDI(t)
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.mid", sess.ID))
	c.Data(http.StatusOK, "audio/midi", data)
}

// addNote godoc
// @Summary Add a note or rest
// @Description Allocates a note into the session, splitting it across measures when needed
// @Tags sessions
// @Accept json
// @Produce plain
// @Param id path string true "Session ID"
// @Param note body sheet.Entry true "Note to add"
// @Success 201 {string} string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/sessions/{id}/notes [post]
func (s *Server) addNote(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}

	var entry sheet.Entry
	if err := c.ShouldBindJSON(&entry); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid note: " + err.Error()})
		return
	}

	d, err := tab.ParseDuration(entry.Duration)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	n, err := sess.Add(entry.String, entry.Fret, d, entry.Rest)
	if err != nil {
		var verr *tab.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error(), "field": verr.Field})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	s.log.Debug("note added", "session", sess.ID, "note", n.String())
	c.String(http.StatusCreated, "%s", sess.Render())
}

// undo godoc
// @Summary Undo the last note or measure
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Param scope query string false "note (default) or measure"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/v1/sessions/{id}/undo [post]
func (s *Server) undo(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}

	var undone bool
	switch c.DefaultQuery("scope", "note") {
	case "note":
		undone = sess.UndoNote()
	case "measure":
		undone = sess.UndoMeasure()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "scope must be note or measure"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"undone": undone, "session": sess.Info()})
}

// reset godoc
// @Summary Reset a session
// @Description Clears the session back to one empty measure
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} session.Info
// @Failure 404 {object} map[string]string
// @Router /api/v1/sessions/{id}/reset [post]
func (s *Server) reset(c *gin.Context) {
	sess, ok := s.lookup(c)
	if !ok {
		return
	}
	sess.Reset()
	c.JSON(http.StatusOK, sess.Info())
}
