// Package api is the thin HTTP façade over pkg/recall.Service: request
// parsing and status-code mapping only, no business logic (spec §1,
// "out of scope... trivial plumbing over the core").
package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mixuechu/wememory/pkg/hybridindex"
	"github.com/mixuechu/wememory/pkg/recall"
)

// Server wraps a recall.Service with the routes spec §6 lists:
// POST /recall, /associate/topic, /associate/people, /associate/time,
// /search, GET /stats, GET /health.
type Server struct {
	app     *fiber.App
	service *recall.Service
	started time.Time
}

// New builds a Server bound to service, with every route registered; its
// App() is ready for Listen.
func New(service *recall.Service) *Server {
	s := &Server{
		app:     fiber.New(fiber.Config{AppName: "wememory"}),
		service: service,
		started: time.Now(),
	}
	s.routes()
	return s
}

// App exposes the underlying fiber.App, e.g. for Listen or for tests
// that drive it with app.Test.
func (s *Server) App() *fiber.App { return s.app }

func (s *Server) routes() {
	s.app.Post("/recall", s.handleRecall)
	s.app.Post("/associate/topic", s.handleAssociateTopic)
	s.app.Post("/associate/people", s.handleAssociatePeople)
	s.app.Post("/associate/time", s.handleAssociateTime)
	s.app.Post("/search", s.handleSearch)
	s.app.Get("/stats", s.handleStats)
	s.app.Get("/health", s.handleHealth)
}

func (s *Server) handleRecall(c *fiber.Ctx) error {
	var req recallRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
	}

	resp, err := s.service.Recall(c.Context(), req.toServiceRequest())
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(toRecallResponse(resp))
}

func (s *Server) handleAssociateTopic(c *fiber.Ctx) error {
	var req topicRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
	}
	topK, minRel := withDefaults(req.TopK, req.MinRelevance)

	resp, err := s.service.RecallByTopic(c.Context(), req.Topic, topK, minRel)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(toRecallResponse(resp))
}

func (s *Server) handleAssociatePeople(c *fiber.Ctx) error {
	var req peopleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
	}
	topK, minRel := withDefaults(req.TopK, req.MinRelevance)

	resp, err := s.service.RecallByPeople(c.Context(), req.Person, req.IncludeMentions, topK, minRel)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(toRecallResponse(resp))
}

func (s *Server) handleAssociateTime(c *fiber.Ctx) error {
	var req timeAssociateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
	}
	topK, minRel := withDefaults(req.TopK, req.MinRelevance)

	resp, err := s.service.RecallByTime(c.Context(), hybridindex.TimeRange{Start: req.TimeRange.Start, End: req.TimeRange.End}, topK, minRel)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(toRecallResponse(resp))
}

func (s *Server) handleSearch(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
	}

	memories, err := s.service.Search(c.Context(), req.Query, req.TopK)
	if err != nil {
		return writeServiceError(c, err)
	}

	dtos := make([]memoryDTO, len(memories))
	for i, m := range memories {
		dtos[i] = toMemoryDTO(m)
	}
	return c.JSON(dtos)
}

func (s *Server) handleStats(c *fiber.Ctx) error {
	return c.JSON(toStatsResponse(s.service.Stats()))
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(healthResponse{
		Status:        "ok",
		SnapshotReady: true,
		UptimeSeconds: time.Since(s.started).Seconds(),
	})
}

func withDefaults(topK int, minRelevance float64) (int, float64) {
	if topK <= 0 {
		topK = 5
	}
	if minRelevance <= 0 {
		minRelevance = 0.3
	}
	return topK, minRelevance
}

// writeServiceError maps §7's error taxonomy onto HTTP status codes:
// InputError -> 400, ProviderError -> 503 (transient, caller may retry),
// everything else -> 500.
func writeServiceError(c *fiber.Ctx, err error) error {
	var inputErr *recall.InputError
	if errors.As(err, &inputErr) {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: err.Error()})
	}
	var providerErr *recall.ProviderError
	if errors.As(err, &providerErr) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(errorResponse{Error: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(errorResponse{Error: err.Error()})
}
