package fortune

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hierfortune/server/internal/module/fortune/generator"
	"github.com/hierfortune/server/internal/module/membership"
	"github.com/hierfortune/server/internal/module/user"
)

const dailyPayloadJSON = `{
	"overallRating": 4,
	"overallSummary": "A favorable day.",
	"wealth": {"wealthSummary": "steady", "wealthTip1": "save", "wealthTip2": "budget", "lottoNumbers": "3, 17, 22, 35"},
	"love": {"single": "open up", "inRelationship": "listen", "married": "share"},
	"career": {"tip1": "focus", "tip2": "ask", "tip3": "plan", "tip4": "rest"},
	"health": {"tip1": "walk", "tip2": "water", "tip3": "sleep", "tip4": "stretch"},
	"keywords": {"luckyColors": "blue", "luckyNumbers": "7", "luckyTimes": "noon", "luckyDirection": "east", "goodFoods": "soup"},
	"precautions": {"precaution1": "haste", "precaution2": "gossip", "precaution3": "debt", "precaution4": "cold"},
	"advice": {"adviceText": "be patient"},
	"tomorrowPreview": "calmer"
}`

const lifelongPayloadJSON = `{
	"personality": {"strength": "grit", "talent": "music", "responsibility": "high", "empathy": "deep"},
	"wealth": {"twenties": "lean", "thirties": "growing", "forties": "stable", "fiftiesAndBeyond": "comfortable"},
	"loveAndMarriage": {"firstLove": "early", "marriageAge": "early thirties", "spouseMeeting": "through work", "marriedLife": "warm"},
	"career": {"successfulFields": "engineering", "careerChangeAge": "38", "leadershipStyle": "quiet", "entrepreneurship": "late bloom"},
	"health": {"generalHealth": "solid", "weakPoint": "back", "checkupReminder": "yearly", "recommendedExercise": "swimming"},
	"turningPoints": {"first": "age 24", "second": "age 38", "third": "age 55"},
	"goodLuck": {"luckyColors": "green", "luckyNumbers": "3", "luckyDirection": "south", "goodDays": "Thursday", "avoidances": "impulse buys"}
}`

const facePayloadJSON = `{
	"overallImpression": {"overallImpression": "calm", "overallFortune": "bright"},
	"eye": {"feature": "steady gaze"},
	"nose": {"feature": "strong bridge"},
	"mouth": {"feature": "easy smile"},
	"advice": {"adviceText": "smile more"}
}`

const dreamPayloadJSON = `{
	"summary": "renewal",
	"symbolInterpretation": {"symbolText": "water means change"},
	"psychologicalAnalysis": {"tip1": "rest", "tip2": "reflect", "tip3": "talk", "tip4": "write"},
	"fortuneProspects": {"shortTermOutlook": "good", "mediumTermOutlook": "better", "longTermOutlook": "best"},
	"precautions": {"precaution1": "rushing", "precaution2": "doubt", "precaution3": "isolation"},
	"adviceAndLuck": {"advice1": "a", "advice2": "b", "advice3": "c", "advice4": "d", "advice5": "e"},
	"specialMessage": {"messageText": "trust yourself"}
}`

// fakeGenerator decodes a canned JSON payload into the strategy's target.
type fakeGenerator struct {
	mu       sync.Mutex
	calls    int
	payload  string
	err      error
	lastReq  generator.Request
	requests []generator.Request
}

func (g *fakeGenerator) Generate(_ context.Context, req generator.Request, out any) error {
	g.mu.Lock()
	g.calls++
	g.lastReq = req
	g.requests = append(g.requests, req)
	g.mu.Unlock()
	if g.err != nil {
		return g.err
	}
	return json.Unmarshal([]byte(g.payload), out)
}

func (g *fakeGenerator) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// fakeGate mimics the quota gate with an in-memory count.
type fakeGate struct {
	mu        sync.Mutex
	user      *user.User
	remaining int
	premium   bool
	calls     int
}

func (g *fakeGate) Authorize(_ context.Context, userID uuid.UUID) (*user.User, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.user == nil || g.user.ID != userID {
		return nil, user.ErrUserNotFound
	}
	if g.premium {
		return g.user, nil
	}
	if g.remaining <= 0 {
		return nil, membership.ErrQuotaExceeded
	}
	g.remaining--
	return g.user, nil
}

func (g *fakeGate) left() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.remaining
}

// memRepo is an in-memory Repository that enforces the same uniqueness the
// database schema does.
type memRepo struct {
	mu       sync.Mutex
	daily    map[string]*DailyFortune
	lifelong map[uuid.UUID]*LifelongFortune
	faces    map[uuid.UUID]*FaceReading
	dreams   map[uuid.UUID]*DreamAnalysis

	// beforeDailyCreate runs inside CreateDaily before the row lands,
	// used to stage write races.
	beforeDailyCreate func()
}

func newMemRepo() *memRepo {
	return &memRepo{
		daily:    make(map[string]*DailyFortune),
		lifelong: make(map[uuid.UUID]*LifelongFortune),
		faces:    make(map[uuid.UUID]*FaceReading),
		dreams:   make(map[uuid.UUID]*DreamAnalysis),
	}
}

func dailyKey(userID uuid.UUID, date string) string {
	return userID.String() + "|" + date
}

func (r *memRepo) CreateDaily(_ context.Context, f *DailyFortune) error {
	if r.beforeDailyCreate != nil {
		r.beforeDailyCreate()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := dailyKey(f.UserID, f.FortuneDate)
	if _, exists := r.daily[key]; exists {
		return ErrDuplicateResult
	}
	f.ID = uuid.New()
	f.CreatedAt = time.Now()
	r.daily[key] = f
	return nil
}

func (r *memRepo) FindDailyByUserAndDate(_ context.Context, userID uuid.UUID, date string) (*DailyFortune, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.daily[dailyKey(userID, date)]; ok {
		return f, nil
	}
	return nil, ErrResultNotFound
}

func (r *memRepo) FindDailyByID(_ context.Context, id uuid.UUID) (*DailyFortune, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.daily {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, ErrResultNotFound
}

func (r *memRepo) CreateLifelong(_ context.Context, f *LifelongFortune) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.lifelong[f.UserID]; exists {
		return ErrDuplicateResult
	}
	f.ID = uuid.New()
	f.CreatedAt = time.Now()
	r.lifelong[f.UserID] = f
	return nil
}

func (r *memRepo) FindLifelongByUser(_ context.Context, userID uuid.UUID) (*LifelongFortune, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.lifelong[userID]; ok {
		return f, nil
	}
	return nil, ErrResultNotFound
}

func (r *memRepo) FindLifelongByID(_ context.Context, id uuid.UUID) (*LifelongFortune, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.lifelong {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, ErrResultNotFound
}

func (r *memRepo) CreateFace(_ context.Context, f *FaceReading) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f.ID = uuid.New()
	f.CreatedAt = time.Now()
	r.faces[f.ID] = f
	return nil
}

func (r *memRepo) FindFaceByID(_ context.Context, id uuid.UUID) (*FaceReading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.faces[id]; ok {
		return f, nil
	}
	return nil, ErrResultNotFound
}

func (r *memRepo) CreateDream(_ context.Context, d *DreamAnalysis) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.ID = uuid.New()
	d.CreatedAt = time.Now()
	r.dreams[d.ID] = d
	return nil
}

func (r *memRepo) FindDreamByID(_ context.Context, id uuid.UUID) (*DreamAnalysis, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d, ok := r.dreams[id]; ok {
		return d, nil
	}
	return nil, ErrResultNotFound
}

func (r *memRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]ResultSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ResultSummary
	for _, f := range r.daily {
		if f.UserID == userID {
			out = append(out, ResultSummary{Kind: KindDaily, ID: f.ID, CreatedAt: f.CreatedAt})
		}
	}
	for _, f := range r.lifelong {
		if f.UserID == userID {
			out = append(out, ResultSummary{Kind: KindLifelong, ID: f.ID, CreatedAt: f.CreatedAt})
		}
	}
	for _, f := range r.faces {
		if f.UserID == userID {
			out = append(out, ResultSummary{Kind: KindFace, ID: f.ID, CreatedAt: f.CreatedAt})
		}
	}
	for _, d := range r.dreams {
		if d.UserID == userID {
			out = append(out, ResultSummary{Kind: KindDream, ID: d.ID, CreatedAt: d.CreatedAt})
		}
	}
	return out, nil
}

func (r *memRepo) CountByKind(_ context.Context, kind Kind) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch kind {
	case KindDaily:
		return int64(len(r.daily)), nil
	case KindLifelong:
		return int64(len(r.lifelong)), nil
	case KindFace:
		return int64(len(r.faces)), nil
	case KindDream:
		return int64(len(r.dreams)), nil
	}
	return 0, ErrUnknownKind
}

// fakeCounter tallies increments in memory.
type fakeCounter struct {
	mu     sync.Mutex
	counts map[Kind]int64
	err    error
}

func newFakeCounter() *fakeCounter {
	return &fakeCounter{counts: make(map[Kind]int64)}
}

func (c *fakeCounter) Increment(_ context.Context, kind Kind) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.counts[kind]++
	return nil
}

func (c *fakeCounter) get(kind Kind) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[kind]
}

type fixture struct {
	svc     *Service
	gen     *fakeGenerator
	gate    *fakeGate
	repo    *memRepo
	counter *fakeCounter
	user    *user.User
}

func newFixture(t *testing.T, payload string, remaining int) *fixture {
	t.Helper()
	u := testUser()
	gen := &fakeGenerator{payload: payload}
	gate := &fakeGate{user: u, remaining: remaining}
	repo := newMemRepo()
	counter := newFakeCounter()
	registry := NewRegistry(
		NewDailyStrategy(gen, repo),
		NewLifelongStrategy(gen, repo),
		NewFaceStrategy(gen, repo),
		NewDreamStrategy(gen, repo),
	)
	svc := NewService(gate, repo, registry, counter, nil, zap.NewNop())
	return &fixture{svc: svc, gen: gen, gate: gate, repo: repo, counter: counter, user: u}
}

func TestGetOrGenerateDaily(t *testing.T) {
	ctx := context.Background()

	t.Run("same day returns the stored result without regenerating", func(t *testing.T) {
		fx := newFixture(t, dailyPayloadJSON, 3)

		first, err := fx.svc.GetOrGenerateDaily(ctx, fx.user.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, first.OverallRating)
		assert.GreaterOrEqual(t, first.OverallRating, 1)
		assert.LessOrEqual(t, first.OverallRating, 5)

		second, err := fx.svc.GetOrGenerateDaily(ctx, fx.user.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, fx.gen.callCount())
		assert.Equal(t, 2, fx.gate.left(), "cache hit must not consume quota")
		assert.Equal(t, int64(1), fx.counter.get(KindDaily))
	})

	t.Run("a later date generates a new result", func(t *testing.T) {
		fx := newFixture(t, dailyPayloadJSON, 3)

		base := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
		fx.svc.now = func() time.Time { return base }
		first, err := fx.svc.GetOrGenerateDaily(ctx, fx.user.ID)
		require.NoError(t, err)

		fx.svc.now = func() time.Time { return base.AddDate(0, 0, 1) }
		second, err := fx.svc.GetOrGenerateDaily(ctx, fx.user.ID)
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, 2, fx.gen.callCount())
		assert.Equal(t, 1, fx.gate.left())
	})

	t.Run("concurrent first calls generate exactly once", func(t *testing.T) {
		fx := newFixture(t, dailyPayloadJSON, 3)

		const n = 16
		ids := make([]uuid.UUID, n)
		errs := make([]error, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				resp, err := fx.svc.GetOrGenerateDaily(ctx, fx.user.ID)
				errs[i] = err
				if err == nil {
					ids[i] = resp.ID
				}
			}(i)
		}
		wg.Wait()

		for i := 0; i < n; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, ids[0], ids[i])
		}
		assert.Equal(t, 1, fx.gen.callCount())
		assert.Equal(t, 2, fx.gate.left(), "only one quota unit may be spent")
	})

	t.Run("duplicate write is recovered as a cache hit", func(t *testing.T) {
		fx := newFixture(t, dailyPayloadJSON, 3)

		// Sneak a competing row in between the cache check and the save.
		var once sync.Once
		fx.repo.beforeDailyCreate = func() {
			once.Do(func() {
				date := fx.svc.now().Format(DateLayout)
				competing := &DailyFortune{UserID: fx.user.ID, FortuneDate: date}
				_ = json.Unmarshal([]byte(dailyPayloadJSON), &competing.DailyReading)
				fx.repo.mu.Lock()
				competing.ID = uuid.New()
				competing.CreatedAt = time.Now()
				fx.repo.daily[dailyKey(fx.user.ID, date)] = competing
				fx.repo.mu.Unlock()
			})
		}

		resp, err := fx.svc.GetOrGenerateDaily(ctx, fx.user.ID)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, resp.ID)
	})

	t.Run("generation failure persists nothing and keeps the spent unit", func(t *testing.T) {
		fx := newFixture(t, dailyPayloadJSON, 3)
		fx.gen.err = errors.New("model down")

		_, err := fx.svc.GetOrGenerateDaily(ctx, fx.user.ID)
		require.ErrorIs(t, err, ErrGenerationFailed)

		n, _ := fx.repo.CountByKind(ctx, KindDaily)
		assert.Zero(t, n)
		assert.Equal(t, 2, fx.gate.left(), "no refund on failure")
		assert.Zero(t, fx.counter.get(KindDaily))
	})

	t.Run("rating out of range is a generation failure", func(t *testing.T) {
		fx := newFixture(t, `{"overallRating": 9, "overallSummary": "x"}`, 3)

		_, err := fx.svc.GetOrGenerateDaily(ctx, fx.user.ID)
		require.ErrorIs(t, err, ErrGenerationFailed)
		n, _ := fx.repo.CountByKind(ctx, KindDaily)
		assert.Zero(t, n)
	})
}

func TestGetOrGenerateLifelong(t *testing.T) {
	ctx := context.Background()

	t.Run("generates once and then always returns the stored result", func(t *testing.T) {
		fx := newFixture(t, lifelongPayloadJSON, 3)

		first, err := fx.svc.GetOrGenerateLifelong(ctx, fx.user.ID)
		require.NoError(t, err)
		assert.Equal(t, "grit", first.Personality.Strength)

		for i := 0; i < 3; i++ {
			again, err := fx.svc.GetOrGenerateLifelong(ctx, fx.user.ID)
			require.NoError(t, err)
			assert.Equal(t, first.ID, again.ID)
		}
		assert.Equal(t, 1, fx.gen.callCount())
		assert.Equal(t, 2, fx.gate.left())
		assert.Equal(t, int64(1), fx.counter.get(KindLifelong))
	})

	t.Run("concurrent first calls spend one unit", func(t *testing.T) {
		fx := newFixture(t, lifelongPayloadJSON, 1)

		const n = 8
		var wg sync.WaitGroup
		errs := make([]error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = fx.svc.GetOrGenerateLifelong(ctx, fx.user.ID)
			}(i)
		}
		wg.Wait()

		for i := 0; i < n; i++ {
			require.NoError(t, errs[i])
		}
		assert.Equal(t, 1, fx.gen.callCount())
		assert.Zero(t, fx.gate.left())
	})
}

func TestGenerateFaceAndDream(t *testing.T) {
	ctx := context.Background()

	t.Run("every face call produces a distinct stored result", func(t *testing.T) {
		fx := newFixture(t, facePayloadJSON, 3)
		req := &FaceRequest{ImageURL: "https://img.example.com/a.jpg", ImageType: ImageJPEG}

		first, err := fx.svc.GenerateFace(ctx, fx.user.ID, req)
		require.NoError(t, err)
		second, err := fx.svc.GenerateFace(ctx, fx.user.ID, req)
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, 2, fx.gen.callCount())
		assert.Equal(t, 1, fx.gate.left())
		assert.Equal(t, int64(2), fx.counter.get(KindFace))

		require.Len(t, fx.gen.lastReq.Attachments, 1)
		assert.Equal(t, "image/jpeg", fx.gen.lastReq.Attachments[0].MimeType)
	})

	t.Run("invalid face input is rejected before the gate", func(t *testing.T) {
		fx := newFixture(t, facePayloadJSON, 3)

		_, err := fx.svc.GenerateFace(ctx, fx.user.ID, &FaceRequest{ImageURL: "", ImageType: ImagePNG})
		require.ErrorIs(t, err, ErrInvalidRequest)
		assert.Equal(t, 3, fx.gate.left())
		assert.Zero(t, fx.gen.callCount())
	})

	t.Run("dream requests consume quota per call", func(t *testing.T) {
		fx := newFixture(t, dreamPayloadJSON, 3)
		req := &DreamRequest{
			Description: "flying over the sea",
			Mood:        "peaceful",
			Keywords:    []DreamKeyword{KeywordFlying, KeywordSea},
		}

		first, err := fx.svc.GenerateDream(ctx, fx.user.ID, req)
		require.NoError(t, err)
		second, err := fx.svc.GenerateDream(ctx, fx.user.ID, req)
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		assert.Equal(t, "renewal", first.Summary)
		assert.Equal(t, 1, fx.gate.left())
		assert.Equal(t, int64(2), fx.counter.get(KindDream))
	})

	t.Run("invalid dream input consumes no quota", func(t *testing.T) {
		fx := newFixture(t, dreamPayloadJSON, 3)

		cases := []*DreamRequest{
			{Description: "", Mood: "calm"},
			{Description: "a dream", Mood: ""},
			{Description: "a dream", Mood: "calm", Keywords: []DreamKeyword{"VOLCANO"}},
		}
		for _, req := range cases {
			_, err := fx.svc.GenerateDream(ctx, fx.user.ID, req)
			require.ErrorIs(t, err, ErrInvalidRequest)
		}
		assert.Equal(t, 3, fx.gate.left())
		assert.Zero(t, fx.gen.callCount())
	})

	t.Run("exhausted quota denies with the gate error", func(t *testing.T) {
		fx := newFixture(t, dreamPayloadJSON, 1)
		req := &DreamRequest{Description: "a dream", Mood: "calm"}

		_, err := fx.svc.GenerateDream(ctx, fx.user.ID, req)
		require.NoError(t, err)
		_, err = fx.svc.GenerateDream(ctx, fx.user.ID, req)
		require.ErrorIs(t, err, membership.ErrQuotaExceeded)
		assert.Equal(t, 1, fx.gen.callCount())
	})

	t.Run("exactly one of two concurrent calls wins the last unit", func(t *testing.T) {
		fx := newFixture(t, dreamPayloadJSON, 1)
		req := &DreamRequest{Description: "a dream", Mood: "calm"}

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = fx.svc.GenerateDream(ctx, fx.user.ID, req)
			}(i)
		}
		wg.Wait()

		var ok, denied int
		for _, err := range errs {
			switch {
			case err == nil:
				ok++
			case errors.Is(err, membership.ErrQuotaExceeded):
				denied++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		assert.Equal(t, 1, ok)
		assert.Equal(t, 1, denied)
	})

	t.Run("premium users are never denied", func(t *testing.T) {
		fx := newFixture(t, dreamPayloadJSON, 0)
		fx.gate.premium = true
		req := &DreamRequest{Description: "a dream", Mood: "calm"}

		for i := 0; i < 5; i++ {
			_, err := fx.svc.GenerateDream(ctx, fx.user.ID, req)
			require.NoError(t, err)
		}
		assert.Equal(t, 5, fx.gen.callCount())
	})

	t.Run("counter failure does not fail the request", func(t *testing.T) {
		fx := newFixture(t, dreamPayloadJSON, 3)
		fx.counter.err = errors.New("redis down")
		req := &DreamRequest{Description: "a dream", Mood: "calm"}

		_, err := fx.svc.GenerateDream(ctx, fx.user.ID, req)
		require.NoError(t, err)
	})
}

func TestGetResultAndList(t *testing.T) {
	ctx := context.Background()

	t.Run("stored results are retrievable by kind and id", func(t *testing.T) {
		fx := newFixture(t, facePayloadJSON, 5)
		created, err := fx.svc.GenerateFace(ctx, fx.user.ID, &FaceRequest{
			ImageURL: "https://img.example.com/a.png", ImageType: ImagePNG,
		})
		require.NoError(t, err)

		got, err := fx.svc.GetResult(ctx, KindFace, created.ID)
		require.NoError(t, err)
		face, ok := got.(*FaceReadingResponse)
		require.True(t, ok)
		assert.Equal(t, created.ID, face.ID)

		_, err = fx.svc.GetResult(ctx, KindFace, uuid.New())
		assert.ErrorIs(t, err, ErrResultNotFound)

		_, err = fx.svc.GetResult(ctx, Kind("weekly"), created.ID)
		assert.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("listing returns everything the user generated", func(t *testing.T) {
		fx := newFixture(t, dailyPayloadJSON, 5)
		_, err := fx.svc.GetOrGenerateDaily(ctx, fx.user.ID)
		require.NoError(t, err)

		fx.gen.payload = dreamPayloadJSON
		_, err = fx.svc.GenerateDream(ctx, fx.user.ID, &DreamRequest{Description: "d", Mood: "m"})
		require.NoError(t, err)

		list, err := fx.svc.ListResults(ctx, fx.user.ID)
		require.NoError(t, err)
		assert.Len(t, list.Results, 2)

		empty, err := fx.svc.ListResults(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, empty.Results)
		assert.NotNil(t, empty.Results)
	})
}
