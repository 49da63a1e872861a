package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/config"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/dto"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/model"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/repository"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/debounce"
	pkgerrors "github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/errors"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/redis"
)

const (
	defaultPreferenceQuiet        = time.Second
	defaultPreferenceWriteTimeout = 5 * time.Second
	defaultPreferenceSessionIdle  = 30 * time.Minute
)

// SessionState 偏好会话状态
type SessionState int

const (
	StateUnloaded SessionState = iota
	StateLoading
	StateLoaded
)

func (s SessionState) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	default:
		return "unloaded"
	}
}

// SnapshotCache 偏好快照缓存（Redis 实现见 pkg/redis）
type SnapshotCache interface {
	GetJSON(ctx context.Context, key string, dst interface{}) error
	SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) error
}

// PreferenceService 用户默认选择的会话缓存
//
// 每个用户一个会话，状态 UNLOADED → LOADING → LOADED：
//   - 加载完成时，存储中的非空字段仅在与当前选择不同、且加载期间用户未改动该字段时才覆盖
//   - LOADED 之前的变更只改内存，不落库
//   - LOADED 之后每次变更重新开始防抖计时，静默期结束只写入最终状态（合并写）
//   - 会话空闲超过 SessionIdle 且没有挂起写入时，下次 Load 视为新会话重新读取
type PreferenceService interface {
	Load(ctx context.Context, userID string, current model.Selection) (*dto.PreferenceResponse, error)
	Change(ctx context.Context, userID string, req *dto.PreferenceChangeRequest) (*dto.PreferenceResponse, error)
	// Shutdown 立即写入所有挂起的变更，返回写入次数
	Shutdown() int
}

// PreferenceOption PreferenceService 可选项
type PreferenceOption func(*preferenceService)

// WithPreferenceAfterFunc 替换防抖计时实现（测试注入假时钟）
func WithPreferenceAfterFunc(fn debounce.AfterFunc) PreferenceOption {
	return func(s *preferenceService) { s.after = fn }
}

// WithPreferenceClock 替换空闲判定使用的时钟
func WithPreferenceClock(now func() time.Time) PreferenceOption {
	return func(s *preferenceService) { s.now = now }
}

// prefField 会话中被用户改动过的字段位
type prefField uint8

const (
	fieldBranch prefField = 1 << iota
	fieldYear
	fieldSemester
)

type preferenceSession struct {
	mu         sync.Mutex
	state      SessionState
	selection  model.Selection
	touched    prefField
	debouncer  *debounce.Debouncer
	lastActive time.Time
}

type preferenceService struct {
	repo   *repository.Repository
	cache  SnapshotCache
	cfg    config.PreferenceConfig
	logger *zap.Logger
	after  debounce.AfterFunc
	now    func() time.Time

	mu       sync.Mutex
	sessions map[string]*preferenceSession
}

// NewPreferenceService 创建 PreferenceService 实例；cache 可为 nil
func NewPreferenceService(
	repo *repository.Repository,
	cache SnapshotCache,
	cfg config.PreferenceConfig,
	logger *zap.Logger,
	opts ...PreferenceOption,
) PreferenceService {
	if cfg.DebounceQuiet <= 0 {
		cfg.DebounceQuiet = defaultPreferenceQuiet
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultPreferenceWriteTimeout
	}
	if cfg.SessionIdle <= 0 {
		cfg.SessionIdle = defaultPreferenceSessionIdle
	}

	s := &preferenceService{
		repo:     repo,
		cache:    cache,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		sessions: make(map[string]*preferenceSession),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// session 获取或创建用户会话
func (s *preferenceService) session(userID string) *preferenceSession {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		var opts []debounce.Option
		if s.after != nil {
			opts = append(opts, debounce.WithAfterFunc(s.after))
		}
		sess = &preferenceSession{debouncer: debounce.New(s.cfg.DebounceQuiet, opts...)}
		s.sessions[userID] = sess
	}
	return sess
}

// ────────────────────── Load ──────────────────────

func (s *preferenceService) Load(ctx context.Context, userID string, current model.Selection) (*dto.PreferenceResponse, error) {
	sess := s.session(userID)

	sess.mu.Lock()
	now := s.now()
	if sess.state == StateLoaded && sess.idle(now, s.cfg.SessionIdle) {
		sess.state = StateUnloaded
	}
	sess.lastActive = now
	if sess.state != StateUnloaded {
		resp := sess.response()
		sess.mu.Unlock()
		return resp, nil
	}
	sess.state = StateLoading
	sess.selection = current
	sess.touched = 0
	sess.mu.Unlock()

	stored, err := s.fetch(ctx, userID)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err != nil {
		sess.state = StateUnloaded
		return nil, err
	}
	if stored != nil {
		sess.applyStored(stored)
	}
	sess.state = StateLoaded
	return sess.response(), nil
}

// idle 已加载会话空闲超时且没有挂起写入
func (sess *preferenceSession) idle(now time.Time, ttl time.Duration) bool {
	return !sess.debouncer.Pending() && now.Sub(sess.lastActive) >= ttl
}

// applyStored 存储值非空、与当前选择不同且加载期间未被用户改动时才覆盖
func (sess *preferenceSession) applyStored(stored *model.UserPreference) {
	sel := stored.Selection()
	if sel.Branch != "" && sel.Branch != sess.selection.Branch && sess.touched&fieldBranch == 0 {
		sess.selection.Branch = sel.Branch
	}
	if sel.Year != 0 && sel.Year != sess.selection.Year && sess.touched&fieldYear == 0 {
		sess.selection.Year = sel.Year
	}
	if sel.Semester != 0 && sel.Semester != sess.selection.Semester && sess.touched&fieldSemester == 0 {
		sess.selection.Semester = sel.Semester
	}
}

// fetch Redis 快照优先，未命中回源数据库并回填快照
func (s *preferenceService) fetch(ctx context.Context, userID string) (*model.UserPreference, error) {
	key := redis.PreferenceKey(userID)

	if s.cache != nil {
		var cached model.UserPreference
		err := s.cache.GetJSON(ctx, key, &cached)
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, redis.ErrCacheMiss) {
			s.logger.Warn("读取偏好快照失败，回源数据库", zap.String("user_id", userID), zap.Error(err))
		}
	}

	pref, err := s.repo.Preference.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		s.logger.Error("读取偏好失败", zap.String("user_id", userID), zap.Error(err))
		return nil, pkgerrors.Store("get_preference", err)
	}

	s.storeSnapshot(ctx, pref)
	return pref, nil
}

// ────────────────────── Change ──────────────────────

func (s *preferenceService) Change(_ context.Context, userID string, req *dto.PreferenceChangeRequest) (*dto.PreferenceResponse, error) {
	sess := s.session(userID)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	sess.lastActive = s.now()
	changed := false
	if req.Branch != nil {
		sess.selection.Branch = *req.Branch
		sess.touched |= fieldBranch
		changed = true
	}
	if req.Year != nil {
		sess.selection.Year = *req.Year
		sess.touched |= fieldYear
		changed = true
	}
	if req.Semester != nil {
		sess.selection.Semester = *req.Semester
		sess.touched |= fieldSemester
		changed = true
	}

	if changed && sess.state == StateLoaded {
		sel := sess.selection
		sess.debouncer.Schedule(func() { s.persist(userID, sel) })
	}
	return sess.response(), nil
}

// persist 防抖到期后的合并写，失败只记录日志
func (s *preferenceService) persist(userID string, sel model.Selection) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
	defer cancel()

	pref := &model.UserPreference{
		UserID:          userID,
		DefaultBranch:   sel.Branch,
		DefaultYear:     sel.Year,
		DefaultSemester: sel.Semester,
		LastUpdated:     s.now(),
	}
	columns := []string{
		repository.PreferenceColumnBranch,
		repository.PreferenceColumnYear,
		repository.PreferenceColumnSemester,
	}
	if err := s.repo.Preference.Merge(ctx, pref, columns); err != nil {
		s.logger.Error("写入偏好失败", zap.String("user_id", userID), zap.Error(err))
		return
	}

	s.storeSnapshot(ctx, pref)
	s.logger.Debug("偏好已写入",
		zap.String("user_id", userID),
		zap.String("branch", sel.Branch),
		zap.Int("year", sel.Year),
		zap.Int("semester", sel.Semester),
	)
}

func (s *preferenceService) storeSnapshot(ctx context.Context, pref *model.UserPreference) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, redis.PreferenceKey(pref.UserID), pref, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("写入偏好快照失败", zap.String("user_id", pref.UserID), zap.Error(err))
	}
}

// ────────────────────── Shutdown ──────────────────────

func (s *preferenceService) Shutdown() int {
	s.mu.Lock()
	sessions := make([]*preferenceSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	flushed := 0
	for _, sess := range sessions {
		if sess.debouncer.Flush() {
			flushed++
		}
	}
	if flushed > 0 {
		s.logger.Info("已写入挂起的偏好变更", zap.Int("count", flushed))
	}
	return flushed
}

func (sess *preferenceSession) response() *dto.PreferenceResponse {
	return &dto.PreferenceResponse{
		State:     sess.state.String(),
		Selection: sess.selection,
		Pending:   sess.debouncer.Pending(),
	}
}
