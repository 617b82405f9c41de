package httpapi

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jkaninda/okapi"

	"github.com/todaylotto/backend/internal/domain"
	"github.com/todaylotto/backend/internal/report"
	"github.com/todaylotto/backend/internal/reportcache"
)

// QuestionDTO is one quiz item as served to clients. Axis wiring and tag
// rules stay server-side.
type QuestionDTO struct {
	ID     int64  `json:"id"`
	Bucket string `json:"bucket"`
	Text   string `json:"text"`
}

// ChoiceDTO is one Likert answer option.
type ChoiceDTO struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

// QuestionsResponse is the JSON response for GET /v1/questions.
type QuestionsResponse struct {
	SessionSeed string        `json:"sessionSeed"`
	Choices     []ChoiceDTO   `json:"choices"`
	Questions   []QuestionDTO `json:"questions"`
}

func (g *Gateway) handleQuestions(c *okapi.Context) error {
	if g.limiter != nil {
		if err := g.limiter.Allow(clientKey(c.Request())); err != nil {
			return c.AbortTooManyRequests("rate limit exceeded")
		}
	}

	set, err := g.picker.Generate(c.Context())
	if err != nil {
		return g.fail(c, err)
	}

	choices, err := g.choices.FindAll(c.Context())
	if err != nil {
		return g.fail(c, err)
	}

	resp := QuestionsResponse{
		SessionSeed: set.SessionSeed,
		Choices:     make([]ChoiceDTO, 0, len(choices)),
		Questions:   make([]QuestionDTO, 0, len(set.Questions)),
	}
	for _, ch := range choices {
		resp.Choices = append(resp.Choices, ChoiceDTO{Value: ch.Value, Label: ch.Label})
	}
	for _, q := range set.Questions {
		resp.Questions = append(resp.Questions, QuestionDTO{ID: q.ID, Bucket: string(q.Bucket), Text: q.Text})
	}

	if g.config.Metrics != nil {
		g.config.Metrics.QuestionSetsTotal.Inc()
	}

	return c.OK(resp)
}

func (g *Gateway) handleScore(c *okapi.Context) error {
	if g.limiter != nil {
		if err := g.limiter.Allow(clientKey(c.Request())); err != nil {
			return c.AbortTooManyRequests("rate limit exceeded")
		}
	}

	maxSize := g.config.MaxRequestSize
	if maxSize <= 0 {
		maxSize = defaultMaxRequestSize
	}
	if c.Request().ContentLength > maxSize {
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorBody{
			Status:  http.StatusRequestEntityTooLarge,
			Error:   "Request Entity Too Large",
			Message: "request body too large",
		})
	}

	var req report.ScoreRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return g.fail(c, err)
	}

	start := time.Now()
	key := cacheKeyFor(req)

	if g.cache != nil {
		entry, err := g.cache.Get(c.Context(), key)
		if err != nil {
			// A broken cache must not block scoring.
			g.logger.Warn("report cache get failed", slog.String("error", err.Error()))
		}
		g.config.Metrics.RecordCacheLookup(entry != nil)
		if entry != nil {
			g.config.Metrics.RecordReport("", "", 0, time.Since(start).Seconds(), true)
			return c.OK(json.RawMessage(entry.ResponseJSON))
		}
	}

	rep, err := g.composer.Generate(c.Context(), req)
	if err != nil {
		return g.fail(c, err)
	}

	body, err := json.Marshal(rep)
	if err != nil {
		return g.fail(c, err)
	}

	if g.cache != nil {
		entry := &reportcache.Entry{
			CacheKey:     key,
			CreatedAt:    time.Now().UTC(),
			ResponseJSON: body,
		}
		if err := g.cache.Put(c.Context(), entry); err != nil {
			g.logger.Warn("report cache put failed", slog.String("error", err.Error()))
		}
	}

	g.config.Metrics.RecordReport(rep.Tone, warningLabel(rep), rep.Score, time.Since(start).Seconds(), false)

	return c.OK(json.RawMessage(body))
}

// cacheKeyFor canonicalizes the request into the cache key digest.
func cacheKeyFor(req report.ScoreRequest) string {
	answers := make([]string, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, fmt.Sprintf("%d:%d", a.QuestionID, a.Value))
	}
	return reportcache.Key(req.BirthDate, req.SessionSeed, answers, req.ExtraText)
}

// warningLabel derives the warning metric label from the report tags.
func warningLabel(rep *report.Report) string {
	for _, tag := range rep.Tags {
		if tag == domain.TagDontBuyToday {
			return "WARNED"
		}
	}
	return "NONE"
}

// fail maps pipeline errors onto the API error contract: client input
// errors are 400 with the message, content configuration problems and
// everything else are 500.
func (g *Gateway) fail(c *okapi.Context, err error) error {
	switch {
	case domain.IsBadInput(err):
		return badRequest(c, err.Error())
	case domain.IsContentConfig(err):
		g.logger.Error("content configuration error", slog.String("error", err.Error()))
		return internalError(c, err.Error())
	default:
		g.logger.Error("request failed", slog.String("error", err.Error()))
		return internalError(c, "Unexpected error")
	}
}

func badRequest(c *okapi.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorBody{
		Status:  http.StatusBadRequest,
		Error:   "Bad Request",
		Message: message,
	})
}

func internalError(c *okapi.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, ErrorBody{
		Status:  http.StatusInternalServerError,
		Error:   "Internal Server Error",
		Message: message,
	})
}
