package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/cownect/cownect-backend/internal/data/repos"
	types "github.com/cownect/cownect-backend/internal/domain"
	"github.com/cownect/cownect-backend/internal/domain/clubs"
	"github.com/cownect/cownect-backend/internal/modules/careers/catalog"
	"github.com/cownect/cownect-backend/internal/modules/careers/profile"
	"github.com/cownect/cownect-backend/internal/observability"
	"github.com/cownect/cownect-backend/internal/platform/logger"
)

const (
	DefaultClubLimit    = 5
	DefaultClubCacheTTL = 10 * time.Minute

	clubCachePrefix = "clubs:recs:v1:"

	topCareerWeight   = 1.0
	alternateWeight   = 0.6
	categoryMatch     = 0.8
	keywordBoost      = 0.1
	maxKeywordBoost   = 0.3
	maxSuggestedSteps = 3
)

type ClubService interface {
	// Recommend ranks active clubs for a career and its alternates. It never returns
	// more than the configured limit.
	Recommend(ctx context.Context, career string, alternates []string) ([]clubs.Recommendation, error)
}

type ClubServiceConfig struct {
	Limit    int
	CacheTTL time.Duration
}

type CareerLookup interface {
	Lookup(name string) (catalog.CareerDefinition, bool)
}

type clubService struct {
	log      *logger.Logger
	clubRepo repos.ClubRepo
	cat      CareerLookup
	rdb      *goredis.Client
	cfg      ClubServiceConfig
}

// NewClubService builds the recommender. rdb may be nil, in which case every call
// reads the clubs table.
func NewClubService(log *logger.Logger, clubRepo repos.ClubRepo, cat CareerLookup, rdb *goredis.Client, cfg ClubServiceConfig) ClubService {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultClubLimit
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultClubCacheTTL
	}
	return &clubService{
		log:      log.With("service", "ClubService"),
		clubRepo: clubRepo,
		cat:      cat,
		rdb:      rdb,
		cfg:      cfg,
	}
}

func (cs *clubService) Recommend(ctx context.Context, career string, alternates []string) ([]clubs.Recommendation, error) {
	career = strings.TrimSpace(career)
	if career == "" {
		return []clubs.Recommendation{}, nil
	}
	key := clubCacheKey(career, alternates)
	if cached, ok := cs.readCache(ctx, key); ok {
		return cached, nil
	}

	active, err := cs.clubRepo.ListActive(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}
	out := cs.rank(active, career, alternates)
	cs.writeCache(ctx, key, out)
	return out, nil
}

type targetCareer struct {
	name     string
	category string
	text     string
	weight   float64
}

func (cs *clubService) rank(active []*types.Club, career string, alternates []string) []clubs.Recommendation {
	targets := []targetCareer{cs.target(career, topCareerWeight)}
	for _, alt := range alternates {
		if alt = strings.TrimSpace(alt); alt != "" && alt != career {
			targets = append(targets, cs.target(alt, alternateWeight))
		}
	}

	type scored struct {
		club   *types.Club
		score  float64
		reason string
	}
	var ranked []scored
	for _, c := range active {
		best, reason := 0.0, ""
		for _, t := range targets {
			s := matchTags(c.CareerTags, t)
			if s == 0 {
				continue
			}
			s += keywordOverlap(c.Keywords, t.text)
			if s > best {
				best, reason = s, reasonFor(c, t)
			}
		}
		if best > 0 {
			ranked = append(ranked, scored{club: c, score: math.Min(best, 1), reason: reason})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].club.Name < ranked[j].club.Name
	})
	if len(ranked) > cs.cfg.Limit {
		ranked = ranked[:cs.cfg.Limit]
	}

	out := make([]clubs.Recommendation, 0, len(ranked))
	for _, r := range ranked {
		score := math.Round(r.score*100) / 100
		out = append(out, clubs.Recommendation{
			ClubID:           r.club.ID.String(),
			Name:             r.club.Name,
			RelevanceScore:   &score,
			Reasoning:        r.reason,
			SuggestedActions: suggestedActions(r.club),
		})
	}
	return out
}

func (cs *clubService) target(name string, weight float64) targetCareer {
	t := targetCareer{name: name, weight: weight, text: name}
	if cs.cat == nil {
		return t
	}
	if def, ok := cs.cat.Lookup(name); ok {
		t.category = def.Category
		t.text = strings.Join(append([]string{def.Name, def.Description}, def.Keywords...), " ")
	}
	return t
}

// matchTags scores a club's career tags against one target: an exact career tag
// counts fully, a category tag partially.
func matchTags(tags []string, t targetCareer) float64 {
	var best float64
	for _, tag := range tags {
		switch {
		case strings.EqualFold(tag, t.name):
			return t.weight
		case t.category != "" && strings.EqualFold(tag, t.category):
			best = t.weight * categoryMatch
		}
	}
	return best
}

func keywordOverlap(keywords []string, text string) float64 {
	var boost float64
	for _, k := range keywords {
		if profile.ContainsTerm(text, k) {
			boost += keywordBoost
		}
	}
	return math.Min(boost, maxKeywordBoost)
}

func reasonFor(c *types.Club, t targetCareer) string {
	if t.weight == topCareerWeight {
		return fmt.Sprintf("%s connects you with students heading toward %s.", c.Name, t.name)
	}
	return fmt.Sprintf("%s also fits %s, one of your alternate matches.", c.Name, t.name)
}

func suggestedActions(c *types.Club) []string {
	actions := []string{"Attend a general meeting this quarter"}
	if h := strings.TrimPrefix(strings.TrimSpace(c.Instagram), "@"); h != "" {
		actions = append(actions, "Follow @"+h+" on Instagram for event announcements")
	}
	if w := strings.TrimSpace(c.Website); w != "" {
		actions = append(actions, "Read about upcoming projects at "+w)
	}
	if len(actions) > maxSuggestedSteps {
		actions = actions[:maxSuggestedSteps]
	}
	return actions
}

func clubCacheKey(career string, alternates []string) string {
	h := sha256.New()
	h.Write([]byte(career))
	for _, a := range alternates {
		h.Write([]byte{0})
		h.Write([]byte(a))
	}
	return clubCachePrefix + hex.EncodeToString(h.Sum(nil))[:32]
}

func (cs *clubService) readCache(ctx context.Context, key string) ([]clubs.Recommendation, bool) {
	if cs.rdb == nil {
		return nil, false
	}
	raw, err := cs.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		observability.Current().IncClubCache("miss")
		return nil, false
	}
	if err != nil {
		observability.Current().IncClubCache("error")
		cs.log.Warn("club cache read failed", "error", err)
		return nil, false
	}
	var out []clubs.Recommendation
	if err := json.Unmarshal(raw, &out); err != nil {
		observability.Current().IncClubCache("error")
		cs.log.Warn("club cache entry unreadable", "key", key, "error", err)
		return nil, false
	}
	observability.Current().IncClubCache("hit")
	return out, true
}

func (cs *clubService) writeCache(ctx context.Context, key string, recs []clubs.Recommendation) {
	if cs.rdb == nil {
		return
	}
	raw, err := json.Marshal(recs)
	if err != nil {
		return
	}
	if err := cs.rdb.Set(ctx, key, raw, cs.cfg.CacheTTL).Err(); err != nil {
		cs.log.Warn("club cache write failed", "error", err)
	}
}
