// Package remote exposes a log repository over HTTP and provides the client
// that consumes it, so several devices can share one store.
package remote

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/daykey"
	"github.com/jonax1337/Calories-Training-Tracker-sub000/internal/store"
)

// Backend is what the server serves. A backend that also implements
// store.WeightHistory answers /weights/latest directly; otherwise the route
// reports 501.
type Backend interface {
	store.LogRepository
	store.ProfileStore
}

type Server struct {
	backend Backend
	logger  logrus.FieldLogger
}

func NewServer(backend Backend, logger logrus.FieldLogger) *Server {
	if logger == nil {
		logger = logrus.New()
	}
	return &Server{backend: backend, logger: logger}
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), s.requestLogger())

	users := router.Group("/api/users/:userID")
	users.GET("/logs", s.listLogs)
	users.GET("/logs/:date", s.getLog)
	users.PUT("/logs/:date", s.putLog)
	users.GET("/weights/latest", s.latestWeight)
	users.GET("/profile", s.getProfile)
	users.PUT("/profile", s.putProfile)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.FullPath(),
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Debug("request")
	}
}

// apiError returns a consistent JSON error response: {"error": "message"}.
func apiError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// storeError maps repository errors onto status codes the client turns back
// into store errors.
func (s *Server) storeError(c *gin.Context, err error) {
	switch {
	case store.IsNotFound(err):
		apiError(c, http.StatusNotFound, err.Error())
	case store.IsTransient(err):
		s.logger.WithError(err).WithField("path", c.FullPath()).Warn("store unavailable")
		apiError(c, http.StatusServiceUnavailable, err.Error())
	default:
		apiError(c, http.StatusBadRequest, err.Error())
	}
}

func (s *Server) getLog(c *gin.Context) {
	day := c.Param("date")
	if !daykey.IsValid(day) {
		apiError(c, http.StatusBadRequest, "invalid date, expected YYYY-MM-DD")
		return
	}
	log, err := s.backend.FetchByDay(c.Request.Context(), c.Param("userID"), day)
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, store.DailyLogToRecord(c.Param("userID"), log))
}

func (s *Server) putLog(c *gin.Context) {
	userID := c.Param("userID")
	var rec store.DailyLogRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		apiError(c, http.StatusBadRequest, "invalid body")
		return
	}
	if rec.Date == "" {
		rec.Date = c.Param("date")
	}
	if rec.Date != c.Param("date") {
		apiError(c, http.StatusBadRequest, "body date does not match path")
		return
	}
	if err := s.backend.Save(c.Request.Context(), userID, store.DailyLogFromRecord(rec)); err != nil {
		s.storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) listLogs(c *gin.Context) {
	userID := c.Param("userID")
	start, end := c.Query("start"), c.Query("end")
	if !daykey.IsValid(start) || !daykey.IsValid(end) {
		apiError(c, http.StatusBadRequest, "start and end must be YYYY-MM-DD")
		return
	}
	logs, err := s.backend.ListRange(c.Request.Context(), userID, start, end)
	if err != nil {
		s.storeError(c, err)
		return
	}
	out := make([]store.DailyLogRecord, 0, len(logs))
	for _, l := range logs {
		out = append(out, store.DailyLogToRecord(userID, l))
	}
	c.JSON(http.StatusOK, out)
}

type weightResponse struct {
	Weight float64 `json:"weight"`
	Date   string  `json:"date"`
}

func (s *Server) latestWeight(c *gin.Context) {
	history, ok := s.backend.(store.WeightHistory)
	if !ok {
		apiError(c, http.StatusNotImplemented, "weight history not supported")
		return
	}
	before := c.Query("before")
	if !daykey.IsValid(before) {
		apiError(c, http.StatusBadRequest, "before must be YYYY-MM-DD")
		return
	}
	weight, date, err := history.LatestWeightBefore(c.Request.Context(), c.Param("userID"), before)
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, weightResponse{Weight: weight, Date: date})
}

func (s *Server) getProfile(c *gin.Context) {
	p, err := s.backend.GetProfile(c.Request.Context(), c.Param("userID"))
	if err != nil {
		s.storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, store.ProfileToRecord(p))
}

func (s *Server) putProfile(c *gin.Context) {
	var rec store.ProfileRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		apiError(c, http.StatusBadRequest, "invalid body")
		return
	}
	rec.UserID = c.Param("userID")
	if err := s.backend.SaveProfile(c.Request.Context(), store.ProfileFromRecord(rec)); err != nil {
		s.storeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
