package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"

	"github.com/cownect/cownect-backend/internal/data/repos"
	types "github.com/cownect/cownect-backend/internal/domain"
	"github.com/cownect/cownect-backend/internal/domain/careers"
	"github.com/cownect/cownect-backend/internal/domain/clubs"
	"github.com/cownect/cownect-backend/internal/domain/quiz"
	"github.com/cownect/cownect-backend/internal/modules/careers/catalog"
	"github.com/cownect/cownect-backend/internal/modules/careers/compose"
	"github.com/cownect/cownect-backend/internal/modules/careers/cooldown"
	"github.com/cownect/cownect-backend/internal/modules/careers/narrative"
	"github.com/cownect/cownect-backend/internal/modules/careers/profile"
	"github.com/cownect/cownect-backend/internal/modules/careers/questions"
	"github.com/cownect/cownect-backend/internal/modules/careers/scoring"
	"github.com/cownect/cownect-backend/internal/observability"
	"github.com/cownect/cownect-backend/internal/platform/apierr"
	"github.com/cownect/cownect-backend/internal/platform/logger"
)

const (
	// AnalysisFailedMessage is the only detail a caller sees when a submission fails
	// on our side.
	AnalysisFailedMessage = "analysis failed, please retry"

	DefaultHistoryLimit = 20
	maxHistoryLimit     = 100
	emailTimeout        = 30 * time.Second
)

var ErrSubmissionInProgress = errors.New("a submission for this user is already being analyzed")

// CooldownError is wrapped in the 429 returned while a user is cooling down.
type CooldownError struct {
	RetryAfter time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("quiz cooldown active, retry in %s", e.RetryAfter.Round(time.Second))
}

func (e *CooldownError) RetryAfterSeconds() int {
	return int(math.Ceil(e.RetryAfter.Seconds()))
}

type SubmitRequest struct {
	Level                 string         `json:"level"`
	Answers               []quiz.Answer  `json:"answers"`
	CompletionTimeSeconds float64        `json:"completionTimeSeconds"`
	Metadata              map[string]any `json:"metadata,omitempty"`
}

type SubmitResult struct {
	Success             bool                         `json:"success"`
	ResultID            uuid.UUID                    `json:"resultId"`
	TopCareer           string                       `json:"topCareer"`
	Percentage          float64                      `json:"percentage"`
	Alternates          []careers.AlternateMatch     `json:"alternates"`
	ClubRecommendations []careers.ClubRecommendation `json:"clubRecommendations"`
}

type FeedbackRequest struct {
	Rating  int    `json:"rating"`
	Helpful bool   `json:"helpful"`
	Comment string `json:"comment"`
}

type QuizService interface {
	Questions(level string) (*questions.Set, error)
	Submit(ctx context.Context, userID uuid.UUID, req SubmitRequest) (*SubmitResult, error)

	GetResult(ctx context.Context, userID, resultID uuid.UUID) (*types.QuizResult, error)
	ListResults(ctx context.Context, userID uuid.UUID, limit int) ([]*types.QuizResult, error)

	BookmarkClub(ctx context.Context, userID, resultID uuid.UUID, clubRef string) (*types.QuizResult, error)
	UnbookmarkClub(ctx context.Context, userID, resultID uuid.UUID, clubRef string) (*types.QuizResult, error)
	CompleteStep(ctx context.Context, userID, resultID uuid.UUID, stepID string) (*types.QuizResult, error)
	SubmitFeedback(ctx context.Context, userID, resultID uuid.UUID, req FeedbackRequest) (*types.QuizResult, error)
}

// Narrator produces the long-form sections for a top match and may reorder the
// heuristic candidates. narrative.Generator implements it.
type Narrator interface {
	Available() bool
	Generate(ctx context.Context, career string, meta scoring.UserMeta, p profile.Profile, level quiz.Level) narrative.Bundle
	Refine(ctx context.Context, candidates []scoring.CareerScore, meta scoring.UserMeta, p profile.Profile, level quiz.Level) narrative.Refinement
}

type QuizServiceConfig struct {
	TopN          int
	RefineEnabled bool
}

// QuizDeps are the pipeline stages a QuizService runs.
type QuizDeps struct {
	Bank      *questions.Bank
	Extractor *profile.Extractor
	Scorer    *scoring.Scorer
	Catalog   *catalog.Catalog
	Narrator  Narrator
	Clubs     ClubService
	Composer  *compose.Composer
	Cooldown  *cooldown.Tracker
	Notifier  NotificationService
}

type quizService struct {
	log        *logger.Logger
	userRepo   repos.UserRepo
	resultRepo repos.QuizResultRepo
	deps       QuizDeps
	cfg        QuizServiceConfig
	now        func() time.Time

	mu       sync.Mutex
	inflight map[uuid.UUID]struct{}
	emails   sync.WaitGroup
}

func NewQuizService(log *logger.Logger, userRepo repos.UserRepo, resultRepo repos.QuizResultRepo, deps QuizDeps, cfg QuizServiceConfig) QuizService {
	if cfg.TopN <= 0 {
		cfg.TopN = scoring.DefaultTopN
	}
	if deps.Cooldown == nil {
		deps.Cooldown = cooldown.New(cooldown.DefaultWindow)
	}
	return &quizService{
		log:        log.With("service", "QuizService"),
		userRepo:   userRepo,
		resultRepo: resultRepo,
		deps:       deps,
		cfg:        cfg,
		now:        time.Now,
		inflight:   map[uuid.UUID]struct{}{},
	}
}

func (qs *quizService) Questions(level string) (*questions.Set, error) {
	set, err := qs.deps.Bank.SetFor(level)
	if err != nil {
		return nil, qs.levelError(err)
	}
	return set, nil
}

// Submit runs the full pipeline for one submission: validation, extraction, scoring,
// optional refinement, narrative and club recommendation in parallel, composition and
// persistence. Upstream model and club failures degrade to static content; only
// validation, catalog and primary persistence failures fail the call.
func (qs *quizService) Submit(ctx context.Context, userID uuid.UUID, req SubmitRequest) (result *SubmitResult, err error) {
	start := qs.now()
	ctx, span := observability.StartSpan(ctx, "quiz.submit", attribute.String("level", req.Level))
	outcome := "ok"
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, outcome)
		}
		span.End()
		observability.Current().ObserveSubmission(strings.ToLower(strings.TrimSpace(req.Level)), outcome, qs.now().Sub(start))
	}()

	if userID == uuid.Nil {
		outcome = "unauthorized"
		return nil, apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("user required"))
	}
	if ok, retry := qs.deps.Cooldown.Check(userID); !ok {
		outcome = "cooldown"
		observability.Current().IncCooldownRejection()
		ce := &CooldownError{RetryAfter: retry}
		ae := apierr.New(http.StatusTooManyRequests, "quiz_cooldown", ce)
		ae.Details = []string{fmt.Sprintf("retry_after_seconds=%d", ce.RetryAfterSeconds())}
		return nil, ae
	}
	if !qs.begin(userID) {
		outcome = "in_progress"
		return nil, apierr.New(http.StatusConflict, "submission_in_progress", ErrSubmissionInProgress)
	}
	defer qs.end(userID)

	set, err := qs.deps.Bank.SetFor(req.Level)
	if err != nil {
		outcome = "rejected"
		return nil, qs.levelError(err)
	}
	if err := set.ValidateAnswers(req.Answers); err != nil {
		outcome = "rejected"
		var ve *questions.ValidationError
		if errors.As(err, &ve) {
			return nil, apierr.BadRequest("invalid_submission", ve.Problems...)
		}
		return nil, qs.analysisFailed(err)
	}
	level := set.Level

	user, err := qs.userRepo.GetByID(ctx, nil, userID)
	if err != nil {
		qs.log.Warn("load user failed; scoring without major", "user_id", userID, "error", err)
	}
	var meta scoring.UserMeta
	if user != nil {
		meta.Major = user.Major
	}

	p := qs.deps.Extractor.Extract(req.Answers, set.Questions)
	scores, err := qs.deps.Scorer.ScoreAll(p, level, meta)
	if err != nil || len(scores) == 0 {
		outcome = "failed"
		if err == nil {
			err = scoring.ErrEmptyCatalog
		}
		return nil, qs.analysisFailed(err)
	}

	candidates := scoring.Top(scores, qs.cfg.TopN)
	var reasoning map[string]string
	if qs.cfg.RefineEnabled && qs.deps.Narrator != nil {
		ref := qs.deps.Narrator.Refine(ctx, candidates, meta, p, level)
		if ref.Refined {
			candidates, reasoning = ref.Scores, ref.Reasoning
		}
	}
	top := candidates[0]
	alternates := make([]scoring.CareerScore, 0, len(scores)-1)
	alternates = append(alternates, candidates[1:]...)
	alternates = append(alternates, scores[len(candidates):]...)
	span.SetAttributes(attribute.String("top_career", top.Career), attribute.Float64("top_score", top.Score))

	bundle, recs := qs.enrich(ctx, top, alternates, meta, p, level)

	def, _ := qs.deps.Catalog.Lookup(top.Career)
	composed := qs.deps.Composer.Compose(compose.Input{
		Level:          level,
		Top:            top,
		Alternates:     alternates,
		Reasoning:      reasoning,
		Narrative:      bundle,
		Definition:     def,
		Clubs:          recs,
		Profile:        p,
		CatalogVersion: qs.deps.Catalog.Version(),
	})
	composed.UserID = userID
	composed.Answers = datatypes.NewJSONType(req.Answers)
	composed.CompletionTimeSeconds = req.CompletionTimeSeconds
	if len(req.Metadata) > 0 {
		composed.Metadata = datatypes.JSONMap(req.Metadata)
	}

	if err := qs.resultRepo.Create(ctx, nil, &composed); err != nil {
		outcome = "persist_failed"
		return nil, qs.analysisFailed(fmt.Errorf("persist quiz result: %w", err))
	}
	qs.deps.Cooldown.Mark(userID)

	topMatch := composed.TopMatch.Data()
	if err := qs.userRepo.UpdateLatestMatch(ctx, nil, userID, topMatch.Career, composed.ID); err != nil {
		qs.log.Warn("legacy latest-match update failed", "user_id", userID, "result_id", composed.ID, "error", err)
	}
	qs.notify(ctx, user, &composed)

	observability.Current().ObserveTopScore(topMatch.Percentage)
	qs.log.Info("quiz submission analyzed",
		"user_id", userID,
		"result_id", composed.ID,
		"level", level,
		"top_career", topMatch.Career,
		"percentage", topMatch.Percentage,
		"refined", reasoning != nil,
		"narrative_generated", generatedCount(bundle),
	)

	return &SubmitResult{
		Success:             true,
		ResultID:            composed.ID,
		TopCareer:           topMatch.Career,
		Percentage:          topMatch.Percentage,
		Alternates:          composed.Alternates.Data(),
		ClubRecommendations: composed.ClubRecommendations.Data(),
	}, nil
}

// enrich generates the narrative and the club recommendations concurrently. Neither
// can fail the submission.
func (qs *quizService) enrich(
	ctx context.Context,
	top scoring.CareerScore,
	alternates []scoring.CareerScore,
	meta scoring.UserMeta,
	p profile.Profile,
	level quiz.Level,
) (*narrative.Bundle, []clubs.Recommendation) {
	var (
		bundle *narrative.Bundle
		recs   []clubs.Recommendation
	)
	g, gctx := errgroup.WithContext(ctx)
	if qs.deps.Narrator != nil {
		g.Go(func() error {
			b := qs.deps.Narrator.Generate(gctx, top.Career, meta, p, level)
			bundle = &b
			return nil
		})
	}
	if qs.deps.Clubs != nil {
		g.Go(func() error {
			names := make([]string, 0, len(alternates))
			for _, a := range alternates {
				names = append(names, a.Career)
				if len(names) == compose.DefaultMaxAlternates {
					break
				}
			}
			out, err := qs.deps.Clubs.Recommend(gctx, top.Career, names)
			if err != nil {
				qs.log.Warn("club recommendation failed; continuing without clubs", "career", top.Career, "error", err)
				return nil
			}
			recs = out
			return nil
		})
	}
	_ = g.Wait()
	return bundle, recs
}

func (qs *quizService) notify(ctx context.Context, user *types.User, result *types.QuizResult) {
	if qs.deps.Notifier == nil || !qs.deps.Notifier.Enabled() || user == nil {
		return
	}
	bg := context.WithoutCancel(ctx)
	qs.emails.Add(1)
	go func() {
		defer qs.emails.Done()
		sendCtx, cancel := context.WithTimeout(bg, emailTimeout)
		defer cancel()
		if err := qs.deps.Notifier.SendResultsReady(sendCtx, user, result); err != nil {
			qs.log.Warn("results email failed", "result_id", result.ID, "error", err)
		}
	}()
}

func (qs *quizService) begin(userID uuid.UUID) bool {
	qs.mu.Lock()
	defer qs.mu.Unlock()
	if _, busy := qs.inflight[userID]; busy {
		return false
	}
	qs.inflight[userID] = struct{}{}
	return true
}

func (qs *quizService) end(userID uuid.UUID) {
	qs.mu.Lock()
	delete(qs.inflight, userID)
	qs.mu.Unlock()
}

func (qs *quizService) GetResult(ctx context.Context, userID, resultID uuid.UUID) (*types.QuizResult, error) {
	res, err := qs.resultRepo.GetForUser(ctx, nil, resultID, userID)
	if err != nil {
		return nil, qs.resultError(err)
	}
	return res, nil
}

func (qs *quizService) ListResults(ctx context.Context, userID uuid.UUID, limit int) ([]*types.QuizResult, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	return qs.resultRepo.ListByUser(ctx, nil, userID, limit)
}

func (qs *quizService) BookmarkClub(ctx context.Context, userID, resultID uuid.UUID, clubRef string) (*types.QuizResult, error) {
	res, err := qs.resultRepo.AddBookmark(ctx, nil, resultID, userID, strings.TrimSpace(clubRef))
	if err != nil {
		return nil, qs.resultError(err)
	}
	return res, nil
}

func (qs *quizService) UnbookmarkClub(ctx context.Context, userID, resultID uuid.UUID, clubRef string) (*types.QuizResult, error) {
	res, err := qs.resultRepo.RemoveBookmark(ctx, nil, resultID, userID, strings.TrimSpace(clubRef))
	if err != nil {
		return nil, qs.resultError(err)
	}
	return res, nil
}

func (qs *quizService) CompleteStep(ctx context.Context, userID, resultID uuid.UUID, stepID string) (*types.QuizResult, error) {
	res, err := qs.resultRepo.CompleteStep(ctx, nil, resultID, userID, strings.TrimSpace(stepID))
	if err != nil {
		return nil, qs.resultError(err)
	}
	return res, nil
}

func (qs *quizService) SubmitFeedback(ctx context.Context, userID, resultID uuid.UUID, req FeedbackRequest) (*types.QuizResult, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, apierr.BadRequest("invalid_feedback", "rating must be between 1 and 5")
	}
	fb := careers.Feedback{
		Rating:      req.Rating,
		Helpful:     req.Helpful,
		Comment:     strings.TrimSpace(req.Comment),
		SubmittedAt: qs.now().UTC(),
	}
	res, err := qs.resultRepo.SetFeedback(ctx, nil, resultID, userID, fb)
	if err != nil {
		return nil, qs.resultError(err)
	}
	return res, nil
}

func (qs *quizService) levelError(err error) error {
	if errors.Is(err, questions.ErrUnknownLevel) {
		return apierr.BadRequest("unknown_level", err.Error())
	}
	return qs.analysisFailed(err)
}

func (qs *quizService) analysisFailed(err error) error {
	qs.log.Error("quiz analysis failed", "error", err)
	return apierr.New(http.StatusInternalServerError, "analysis_failed", err)
}

// resultError maps repository errors. A result owned by someone else reads as
// missing so ids cannot be probed.
func (qs *quizService) resultError(err error) error {
	switch {
	case errors.Is(err, repos.ErrResultNotFound), errors.Is(err, repos.ErrNotOwner):
		return apierr.NotFound("result_not_found")
	case errors.Is(err, repos.ErrUnknownClub):
		return apierr.NotFound("club_not_recommended")
	case errors.Is(err, repos.ErrUnknownStep):
		return apierr.NotFound("step_not_found")
	case errors.Is(err, repos.ErrConflict):
		return apierr.New(http.StatusConflict, "result_conflict", err)
	}
	return err
}

func generatedCount(b *narrative.Bundle) int {
	if b == nil {
		return 0
	}
	return b.Generated()
}
