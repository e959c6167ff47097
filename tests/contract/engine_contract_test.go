package contract_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/skillcheck-go-api/internal/dto"
	"github.com/noah-isme/skillcheck-go-api/internal/handler"
	"github.com/noah-isme/skillcheck-go-api/internal/models"
)

type stubChallengeService struct {
	challenges []models.Challenge
}

func (s stubChallengeService) Generate(context.Context, dto.GenerateChallengeRequest) ([]models.Challenge, error) {
	return s.challenges, nil
}

func (s stubChallengeService) GenerateOne(context.Context, models.Mode, []string, models.Difficulty) (models.Challenge, error) {
	return s.challenges[0], nil
}

type stubEvaluationService struct {
	result models.EvaluationResult
}

func (s stubEvaluationService) Evaluate(context.Context, dto.SubmissionRequest, string) (models.EvaluationResult, error) {
	return s.result, nil
}

func (s stubEvaluationService) EvaluateBatch(context.Context, dto.BatchEvaluateRequest, string) ([]models.EvaluationResult, error) {
	return []models.EvaluationResult{s.result}, nil
}

func (s stubEvaluationService) Score(context.Context, models.Mode, models.Challenge, string) (models.EvaluationResult, error) {
	return s.result, nil
}

type stubSessionService struct {
	response dto.SessionResponse
}

func (s stubSessionService) Start(context.Context, dto.SessionStartRequest, string) (dto.SessionResponse, error) {
	return s.response, nil
}

func (s stubSessionService) Advance(context.Context, string, dto.SessionAnswerRequest, string) (dto.SessionResponse, error) {
	return s.response, nil
}

func (s stubSessionService) Get(context.Context, string, string) (dto.SessionResponse, error) {
	return s.response, nil
}

func compileSchema(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", name))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)
	return schema
}

func validateResponse(t *testing.T, schema *jsonschema.Schema, resp *http.Response) {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}

func TestChallengeGenerationContract(t *testing.T) {
	schema := compileSchema(t, "challenge_response.schema.json")

	svc := stubChallengeService{challenges: []models.Challenge{
		{
			Text:       "Which CSS property adds an inner or outer shadow to an element?",
			Kind:       models.KindMultipleChoice,
			Options:    []string{"box-shadow", "margin", "text-decoration", "outline"},
			Difficulty: models.DifficultyEasy,
			Topics:     []string{"css"},
			IsFallback: true,
		},
	}}

	app := fiber.New()
	handler.NewChallengeHandler(svc, zerolog.Nop(), true).Register(app.Group("/api/v1/challenges"))

	body, err := json.Marshal(dto.GenerateChallengeRequest{Mode: "multi", Count: 1})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/challenges", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	validateResponse(t, schema, resp)
}

func TestEvaluationContract(t *testing.T) {
	schema := compileSchema(t, "evaluation_response.schema.json")

	logic, tone := 72, 88
	svc := stubEvaluationService{result: models.EvaluationResult{
		Score:    7.5,
		Feedback: "Clear and well structured.",
		Logic:    &logic,
		Tone:     &tone,
	}}

	app := fiber.New()
	handler.NewEvaluationHandler(svc, zerolog.Nop(), true).Register(app.Group("/api/v1/evaluations"))

	body, err := json.Marshal(dto.SubmissionRequest{
		Mode:          "adaptive",
		ChallengeText: "Describe a production incident you handled.",
		Answer:        "I rolled back first, then found the root cause.",
	})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/evaluations", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	validateResponse(t, schema, resp)
}

func TestSessionContract(t *testing.T) {
	schema := compileSchema(t, "session_response.schema.json")

	next := dto.ChallengeResponse{
		Text:       "How would you split a monolith?",
		Kind:       "scenario",
		Difficulty: "medium",
	}
	svc := stubSessionService{response: dto.SessionResponse{
		ID:            "3f6f2a0c-9a1d-4ad8-9f0e-5f2b6f9d1c2e",
		Mode:          "adaptive",
		Difficulty:    "medium",
		Length:        10,
		QuestionIndex: 1,
		NextChallenge: &next,
	}}

	app := fiber.New()
	handler.NewSessionHandler(svc, zerolog.Nop(), true).Register(app.Group("/api/v1/sessions"))

	body, err := json.Marshal(dto.SessionStartRequest{Mode: "adaptive"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	validateResponse(t, schema, resp)
}
