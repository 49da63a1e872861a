package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/model"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/internal/repository"
	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/pkg/redis"
)

// ── Mock BranchRepository ──

type mockBranchRepo struct {
	branches  map[string]*model.Branch
	deleteErr error
}

func newMockBranchRepo(names ...string) *mockBranchRepo {
	m := &mockBranchRepo{branches: make(map[string]*model.Branch)}
	for _, n := range names {
		m.branches[n] = &model.Branch{Name: n}
	}
	return m
}

func (m *mockBranchRepo) Create(_ context.Context, branch *model.Branch) error {
	if _, ok := m.branches[branch.Name]; ok {
		return repository.ErrDuplicate
	}
	branch.CreatedAt = time.Now()
	m.branches[branch.Name] = branch
	return nil
}

func (m *mockBranchRepo) List(_ context.Context) ([]model.Branch, error) {
	result := make([]model.Branch, 0, len(m.branches))
	for _, b := range m.branches {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockBranchRepo) Delete(_ context.Context, name string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, ok := m.branches[name]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.branches, name)
	return nil
}

// ── Mock YearRepository ──

type mockYearRepo struct {
	years map[int]*model.Year
}

func newMockYearRepo(values ...int) *mockYearRepo {
	m := &mockYearRepo{years: make(map[int]*model.Year)}
	for _, v := range values {
		m.years[v] = &model.Year{Value: v}
	}
	return m
}

func (m *mockYearRepo) Create(_ context.Context, year *model.Year) error {
	if _, ok := m.years[year.Value]; ok {
		return repository.ErrDuplicate
	}
	m.years[year.Value] = year
	return nil
}

func (m *mockYearRepo) List(_ context.Context) ([]model.Year, error) {
	result := make([]model.Year, 0, len(m.years))
	for _, y := range m.years {
		result = append(result, *y)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Value < result[j].Value })
	return result, nil
}

func (m *mockYearRepo) Delete(_ context.Context, value int) error {
	if _, ok := m.years[value]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.years, value)
	return nil
}

// ── Mock SpecializationRepository ──

type mockSpecializationRepo struct {
	specs map[string]*model.Specialization
}

func newMockSpecializationRepo() *mockSpecializationRepo {
	return &mockSpecializationRepo{specs: make(map[string]*model.Specialization)}
}

func (m *mockSpecializationRepo) Get(_ context.Context, branch string) (*model.Specialization, error) {
	if s, ok := m.specs[branch]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSpecializationRepo) Append(_ context.Context, branch, option string) error {
	s, ok := m.specs[branch]
	if !ok {
		s = &model.Specialization{Branch: branch}
		m.specs[branch] = s
	}
	for _, o := range s.Options {
		if o == option {
			return nil
		}
	}
	s.Options = append(s.Options, option)
	return nil
}

// ── Mock SubjectRepository ──

type mockSubjectRepo struct {
	subjects map[string]*model.Subject

	deleteErrs  map[string]error // 指定 ID 删除失败
	createErr   error
	failCreateN int // 第 N 次 Create 失败（从 1 开始，0 表示不失败）
	createCalls int
	created     []*model.Subject
	// uuidLookup 为 true 时 GetByID 按 Postgres uuid 列的方式解析输入，
	// 大写、花括号、无连字符的写法都命中同一条记录
	uuidLookup bool
}

func newMockSubjectRepo(subjects ...*model.Subject) *mockSubjectRepo {
	m := &mockSubjectRepo{
		subjects:   make(map[string]*model.Subject),
		deleteErrs: make(map[string]error),
	}
	for _, s := range subjects {
		m.subjects[s.ID] = s
	}
	return m
}

func (m *mockSubjectRepo) Create(_ context.Context, subject *model.Subject) error {
	m.createCalls++
	if m.failCreateN > 0 && m.createCalls == m.failCreateN {
		return m.createErr
	}
	m.subjects[subject.ID] = subject
	m.created = append(m.created, subject)
	return nil
}

func (m *mockSubjectRepo) GetByID(_ context.Context, id string) (*model.Subject, error) {
	if m.uuidLookup {
		if u, err := uuid.Parse(id); err == nil {
			id = u.String()
		}
	}
	if s, ok := m.subjects[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSubjectRepo) Update(_ context.Context, subject *model.Subject) error {
	if _, ok := m.subjects[subject.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.subjects[subject.ID] = subject
	return nil
}

func (m *mockSubjectRepo) Delete(_ context.Context, id string) error {
	if err, ok := m.deleteErrs[id]; ok {
		return err
	}
	if _, ok := m.subjects[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.subjects, id)
	return nil
}

func (m *mockSubjectRepo) List(_ context.Context, filter repository.SubjectFilter) ([]model.Subject, error) {
	var result []model.Subject
	for _, s := range m.subjects {
		if filter.Branch != "" && s.Branch != filter.Branch {
			continue
		}
		if filter.Year > 0 && s.Year != filter.Year {
			continue
		}
		if filter.Semester > 0 && s.Semester != filter.Semester {
			continue
		}
		result = append(result, *s)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Semester != result[j].Semester {
			return result[i].Semester < result[j].Semester
		}
		return result[i].Code < result[j].Code
	})
	return result, nil
}

func (m *mockSubjectRepo) ListByIDs(_ context.Context, ids []string) ([]model.Subject, error) {
	var result []model.Subject
	for _, id := range ids {
		if s, ok := m.subjects[id]; ok {
			result = append(result, *s)
		}
	}
	return result, nil
}

// ── Mock ProgressRepository ──

type mockProgressRepo struct {
	mu         sync.Mutex
	docs       map[string]*model.UserProgress
	getErr     error
	mergeErr   error
	mergeCalls int
}

func newMockProgressRepo() *mockProgressRepo {
	return &mockProgressRepo{docs: make(map[string]*model.UserProgress)}
}

// seed 直接写入一份进度文档
func (m *mockProgressRepo) seed(userID string, rec model.ProgressRecord) {
	m.docs[userID] = &model.UserProgress{
		UserID:    userID,
		Progress:  datatypes.NewJSONType(rec),
		UpdatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func (m *mockProgressRepo) Get(_ context.Context, userID string) (*model.UserProgress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	if d, ok := m.docs[userID]; ok {
		return d, nil
	}
	return nil, gorm.ErrRecordNotFound
}

// MergeSubject 模拟 jsonb || 合并：只替换给定的科目键
func (m *mockProgressRepo) MergeSubject(_ context.Context, userID, subjectKey string, sp model.SubjectProgress, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mergeCalls++
	if m.mergeErr != nil {
		return m.mergeErr
	}

	next := model.ProgressRecord{}
	if d, ok := m.docs[userID]; ok {
		for k, v := range d.Record() {
			next[k] = v
		}
	}
	cp := make(model.SubjectProgress, len(sp))
	for k, v := range sp {
		cp[k] = v
	}
	next[subjectKey] = cp

	m.docs[userID] = &model.UserProgress{
		UserID:    userID,
		Progress:  datatypes.NewJSONType(next),
		UpdatedAt: updatedAt,
	}
	return nil
}

func (m *mockProgressRepo) ListUserIDs(_ context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.docs))
	for id := range m.docs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// ── Mock PreferenceRepository ──

type prefMerge struct {
	pref    model.UserPreference
	columns []string
}

type mockPreferenceRepo struct {
	mu     sync.Mutex
	prefs  map[string]*model.UserPreference
	merges []prefMerge
	getErr error
	gets   int

	// 非 nil 时 Get 先通知 entered，再阻塞直到 release 关闭
	entered chan struct{}
	release chan struct{}
}

func newMockPreferenceRepo() *mockPreferenceRepo {
	return &mockPreferenceRepo{prefs: make(map[string]*model.UserPreference)}
}

func (m *mockPreferenceRepo) Get(_ context.Context, userID string) (*model.UserPreference, error) {
	if m.entered != nil {
		m.entered <- struct{}{}
		<-m.release
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	if m.getErr != nil {
		return nil, m.getErr
	}
	if p, ok := m.prefs[userID]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPreferenceRepo) Merge(_ context.Context, pref *model.UserPreference, columns []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.merges = append(m.merges, prefMerge{pref: *pref, columns: columns})
	cp := *pref
	m.prefs[pref.UserID] = &cp
	return nil
}

func (m *mockPreferenceRepo) getCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gets
}

func (m *mockPreferenceRepo) mergeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.merges)
}

// ── Mock SnapshotCache ──

type mockSnapshotCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMockSnapshotCache() *mockSnapshotCache {
	return &mockSnapshotCache{data: make(map[string][]byte)}
}

func (m *mockSnapshotCache) GetJSON(_ context.Context, key string, dst interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	return json.Unmarshal(raw, dst)
}

func (m *mockSnapshotCache) SetJSON(_ context.Context, key string, v interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.data[key] = raw
	m.sets++
	return nil
}

// ── 测试数据 ──

func newSubject(id, code, branch string, year, semester, modules int) *model.Subject {
	list := make(model.ModuleList, modules)
	for i := range list {
		list[i] = model.Module{Name: code + "-M" + string(rune('A'+i)), Topics: []string{"t1", "t2"}}
	}
	return &model.Subject{
		ID:       id,
		Name:     "Subject " + code,
		Code:     code,
		Branch:   branch,
		Year:     year,
		Semester: semester,
		Modules:  list,
	}
}

func newTestRepository() (*repository.Repository, *mockSubjectRepo, *mockProgressRepo) {
	subjects := newMockSubjectRepo()
	progressRepo := newMockProgressRepo()
	repo := &repository.Repository{
		Branch:         newMockBranchRepo(),
		Year:           newMockYearRepo(),
		Specialization: newMockSpecializationRepo(),
		Subject:        subjects,
		Progress:       progressRepo,
		Preference:     newMockPreferenceRepo(),
	}
	return repo, subjects, progressRepo
}
