package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/skillcheck-go-api/internal/dto"
	"github.com/noah-isme/skillcheck-go-api/internal/handler"
	"github.com/noah-isme/skillcheck-go-api/internal/models"
)

type mockHistoryService struct {
	lastOwner string
	records   []dto.HistoryRecordResponse
}

func (m *mockHistoryService) Append(_ context.Context, _ *models.AssessmentRecord) error {
	return nil
}

func (m *mockHistoryService) AppendAll(_ context.Context, _ []models.AssessmentRecord) error {
	return nil
}

func (m *mockHistoryService) ListByOwner(_ context.Context, ownerKey string) ([]dto.HistoryRecordResponse, error) {
	m.lastOwner = ownerKey
	return m.records, nil
}

func TestHistoryHandler_ListScopedToOwner(t *testing.T) {
	svc := &mockHistoryService{records: []dto.HistoryRecordResponse{{ChallengeText: "q1", Score: 8}}}
	app := fiber.New()
	group := app.Group("/api/v1/history", func(c *fiber.Ctx) error {
		c.Locals("owner_key", "owner-3")
		return c.Next()
	})
	handler.NewHistoryHandler(svc, zerolog.New(io.Discard)).Register(group)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "owner-3", svc.lastOwner)

	var response struct {
		Data []dto.HistoryRecordResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Len(t, response.Data, 1)
}

func TestHistoryHandler_RequiresAuthentication(t *testing.T) {
	app := fiber.New()
	handler.NewHistoryHandler(&mockHistoryService{}, zerolog.New(io.Discard)).Register(app.Group("/api/v1/history"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/history", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
