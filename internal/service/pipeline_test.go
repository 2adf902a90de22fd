package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"attendance-bot/internal/extract"
	"attendance-bot/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ===== фейки =====

type fakeExtractor struct {
	candidates []models.AttendanceCandidate
	err        error
	calls      int
	lastText   string
}

func (f *fakeExtractor) Extract(ctx context.Context, msg models.InboundMessage, normalizedText string, ref time.Time) ([]models.AttendanceCandidate, error) {
	f.calls++
	f.lastText = normalizedText
	if f.err != nil {
		return nil, f.err
	}
	return f.candidates, nil
}

type recordKey struct {
	tenantID, userID, date string
}

type fakeRecordRepo struct {
	mu      sync.Mutex
	records map[recordKey]models.AttendanceRecord
}

func newFakeRecordRepo() *fakeRecordRepo {
	return &fakeRecordRepo{records: make(map[recordKey]models.AttendanceRecord)}
}

func (r *fakeRecordRepo) Upsert(record *models.AttendanceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[recordKey{record.TenantID, record.UserID, record.Date}] = *record
	return nil
}

func (r *fakeRecordRepo) Get(tenantID, userID, date string) (*models.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if record, ok := r.records[recordKey{tenantID, userID, date}]; ok {
		copied := record
		return &copied, nil
	}
	return nil, nil
}

func (r *fakeRecordRepo) Delete(tenantID, userID, date string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, recordKey{tenantID, userID, date})
	return nil
}

func (r *fakeRecordRepo) GetByDate(tenantID, date string) ([]models.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.AttendanceRecord
	for key, record := range r.records {
		if key.tenantID == tenantID && key.date == date {
			result = append(result, record)
		}
	}
	return result, nil
}

func (r *fakeRecordRepo) GetHistory(tenantID, userID, monthPrefix string) ([]models.AttendanceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []models.AttendanceRecord
	for key, record := range r.records {
		if key.tenantID == tenantID && key.userID == userID && len(key.date) >= len(monthPrefix) && key.date[:len(monthPrefix)] == monthPrefix {
			result = append(result, record)
		}
	}
	return result, nil
}

type fakeWorkspaceRepo struct {
	workspaces map[string]*models.Workspace
}

func (r *fakeWorkspaceRepo) GetByTenantID(tenantID string) (*models.Workspace, error) {
	if ws, ok := r.workspaces[tenantID]; ok {
		return ws, nil
	}
	return nil, nil
}

func (r *fakeWorkspaceRepo) Create(workspace *models.Workspace) error {
	r.workspaces[workspace.TenantID] = workspace
	return nil
}

func (r *fakeWorkspaceRepo) Update(workspace *models.Workspace) error {
	r.workspaces[workspace.TenantID] = workspace
	return nil
}

// ===== сборка конвейера =====

type pipelineFixture struct {
	pipeline  *MessagePipeline
	extractor *fakeExtractor
	repo      *fakeRecordRepo
}

func newPipelineFixture(t *testing.T) *pipelineFixture {
	t.Helper()

	extractor := &fakeExtractor{}
	repo := newFakeRecordRepo()
	workspaces := NewWorkspaceService(&fakeWorkspaceRepo{workspaces: make(map[string]*models.Workspace)})

	pipeline := NewMessagePipeline(
		extractor,
		NewAttendanceService(repo),
		workspaces,
		NewReconciliationEngine(),
		NewDedupGuard(time.Minute),
	)
	pipeline.SetClock(func() time.Time {
		return time.Date(2026, 1, 21, 10, 15, 0, 0, jst)
	})

	return &pipelineFixture{pipeline: pipeline, extractor: extractor, repo: repo}
}

func inbound(text string) models.InboundMessage {
	return models.InboundMessage{
		TenantID:  "t1",
		UserID:    "u1",
		Username:  "tanaka",
		ChannelID: "c1",
		MessageID: "100",
		Text:      text,
		SentAt:    time.Date(2026, 1, 21, 10, 15, 0, 0, jst),
	}
}

// ===== тесты =====

// Сценарий из §8: зачеркнутый статус + новый статус при action=delete
// от оракула должен сохраниться как исправление
func TestProcessMessageStrikeThroughCorrection(t *testing.T) {
	f := newPipelineFixture(t)
	f.extractor.candidates = []models.AttendanceCandidate{
		{Date: "2026-01-21", RawStatus: "late", Note: "10:00出勤", Action: models.ActionDelete},
	}

	effects, err := f.pipeline.ProcessMessage(context.Background(), inbound("~8:00出勤~ 10:00出勤"))
	require.NoError(t, err)
	require.Len(t, effects, 1)

	assert.Equal(t, models.EffectUpserted, effects[0].Kind)
	assert.Equal(t, models.StatusLate, effects[0].Status)
	assert.Equal(t, "10:00出勤", effects[0].Note)

	stored, err := f.repo.Get("t1", "u1", "2026-01-21")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, models.StatusLate, stored.Status)
	assert.Equal(t, "10:00出勤", stored.Note)
}

// Экстрактор получает текст с уже переписанным зачеркиванием
func TestProcessMessagePassesNormalizedText(t *testing.T) {
	f := newPipelineFixture(t)
	f.extractor.candidates = []models.AttendanceCandidate{
		{Date: "2026-01-21", RawStatus: "late", Action: models.ActionSave},
	}

	_, err := f.pipeline.ProcessMessage(context.Background(), inbound("~8:00出勤~ 10:00出勤"))
	require.NoError(t, err)
	assert.Equal(t, "(strike-through: 8:00出勤) 10:00出勤", f.extractor.lastText)
}

// Несколько дат в одном сообщении дают независимые эффекты
func TestProcessMessageMultiDateFanOut(t *testing.T) {
	f := newPipelineFixture(t)
	f.extractor.candidates = []models.AttendanceCandidate{
		{Date: "2026-01-26", RawStatus: "remote", Action: models.ActionSave},
		{Date: "2026-01-27", RawStatus: "vacation", Note: "私用", Action: models.ActionSave},
	}

	effects, err := f.pipeline.ProcessMessage(context.Background(), inbound("月曜は在宅、火曜は休みます"))
	require.NoError(t, err)
	require.Len(t, effects, 2)

	monday, err := f.repo.Get("t1", "u1", "2026-01-26")
	require.NoError(t, err)
	require.NotNil(t, monday)
	assert.Equal(t, models.StatusRemote, monday.Status)
	assert.Empty(t, monday.Note)

	tuesday, err := f.repo.Get("t1", "u1", "2026-01-27")
	require.NoError(t, err)
	require.NotNil(t, tuesday)
	assert.Equal(t, models.StatusVacation, tuesday.Status)
	assert.Equal(t, "私用", tuesday.Note)
}

// Ответ в треде с фразой о прибытии удаляет запись без вызова оракула
func TestProcessMessageThreadReplyCancellation(t *testing.T) {
	f := newPipelineFixture(t)
	require.NoError(t, f.repo.Upsert(&models.AttendanceRecord{
		TenantID: "t1", UserID: "u1", Date: "2026-01-21", Status: models.StatusLate,
	}))

	msg := inbound("間に合いました！ありがとうございます")
	msg.IsThreadReply = true
	msg.ThreadParent = "99"

	effects, err := f.pipeline.ProcessMessage(context.Background(), msg)
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.Equal(t, models.EffectDeleted, effects[0].Kind)
	assert.Equal(t, "2026-01-21", effects[0].Date)
	assert.Equal(t, 0, f.extractor.calls, "oracle must not be invoked")

	stored, err := f.repo.Get("t1", "u1", "2026-01-21")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

// До 09:00 отдельное сообщение о прибытии отменяет отчет без оракула,
// после 09:00 уходит в полное извлечение
func TestProcessMessageEarlyMorningBoundary(t *testing.T) {
	tests := []struct {
		name        string
		sentAt      time.Time
		wantDeleted bool
		wantCalls   int
	}{
		{"08:59 short-circuits", time.Date(2026, 1, 21, 8, 59, 0, 0, jst), true, 0},
		{"09:01 goes to extraction", time.Date(2026, 1, 21, 9, 1, 0, 0, jst), false, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPipelineFixture(t)
			require.NoError(t, f.repo.Upsert(&models.AttendanceRecord{
				TenantID: "t1", UserID: "u1", Date: "2026-01-21", Status: models.StatusLate,
			}))

			msg := inbound("間に合いました")
			msg.SentAt = tt.sentAt

			effects, err := f.pipeline.ProcessMessage(context.Background(), msg)
			require.NoError(t, err)
			assert.Equal(t, tt.wantCalls, f.extractor.calls)

			stored, err := f.repo.Get("t1", "u1", "2026-01-21")
			require.NoError(t, err)
			if tt.wantDeleted {
				require.Len(t, effects, 1)
				assert.Equal(t, models.EffectDeleted, effects[0].Kind)
				assert.Nil(t, stored)
			} else {
				assert.Empty(t, effects)
				assert.NotNil(t, stored)
			}
		})
	}
}

// Отмена при отсутствующей записи - тихий no-op
func TestProcessMessageCancellationWithoutRecord(t *testing.T) {
	f := newPipelineFixture(t)

	msg := inbound("間に合いました")
	msg.IsThreadReply = true

	effects, err := f.pipeline.ProcessMessage(context.Background(), msg)
	require.NoError(t, err)
	assert.Empty(t, effects)
}

// Повторная доставка того же сообщения подавляется
func TestProcessMessageDuplicateSuppressed(t *testing.T) {
	f := newPipelineFixture(t)
	f.extractor.candidates = []models.AttendanceCandidate{
		{Date: "2026-01-21", RawStatus: "remote", Action: models.ActionSave},
	}

	msg := inbound("在宅です")

	first, err := f.pipeline.ProcessMessage(context.Background(), msg)
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := f.pipeline.ProcessMessage(context.Background(), msg)
	require.NoError(t, err)
	assert.Empty(t, second)
	assert.Equal(t, 1, f.extractor.calls)
}

// "Не сообщение о посещаемости" - чистый выход без эффектов
func TestProcessMessageNotAttendance(t *testing.T) {
	f := newPipelineFixture(t)
	f.extractor.candidates = nil

	effects, err := f.pipeline.ProcessMessage(context.Background(), inbound("ランチに行ってきます"))
	require.NoError(t, err)
	assert.Empty(t, effects)
}

// Дежурные приветствия не доходят до оракула
func TestProcessMessageBoringSkipped(t *testing.T) {
	f := newPipelineFixture(t)

	effects, err := f.pipeline.ProcessMessage(context.Background(), inbound("承知しました"))
	require.NoError(t, err)
	assert.Empty(t, effects)
	assert.Equal(t, 0, f.extractor.calls)
}

func TestProcessMessageEmptyText(t *testing.T) {
	f := newPipelineFixture(t)

	effects, err := f.pipeline.ProcessMessage(context.Background(), inbound("   "))
	require.NoError(t, err)
	assert.Empty(t, effects)
	assert.Equal(t, 0, f.extractor.calls)
}

// Транзиентный сбой оракула пробрасывается наружу без эффектов
func TestProcessMessageTransientExtractionFailure(t *testing.T) {
	f := newPipelineFixture(t)
	f.extractor.err = extract.ErrOracleUnavailable

	effects, err := f.pipeline.ProcessMessage(context.Background(), inbound("明日は遅刻します"))
	assert.ErrorIs(t, err, extract.ErrOracleUnavailable)
	assert.Empty(t, effects)
}

// delete по отсутствующему ключу не дает ни эффекта, ни ошибки
func TestProcessMessageDeleteMissingKeyIsNoOp(t *testing.T) {
	f := newPipelineFixture(t)
	f.extractor.candidates = []models.AttendanceCandidate{
		{Date: "2026-01-21", RawStatus: "", Action: models.ActionDelete},
	}

	effects, err := f.pipeline.ProcessMessage(context.Background(), inbound("昨日の連絡は取り消してください"))
	require.NoError(t, err)
	assert.Empty(t, effects)
}

// delete без зачеркивания удаляет существующую запись
func TestProcessMessageExplicitDelete(t *testing.T) {
	f := newPipelineFixture(t)
	require.NoError(t, f.repo.Upsert(&models.AttendanceRecord{
		TenantID: "t1", UserID: "u1", Date: "2026-01-21", Status: models.StatusLate,
	}))
	f.extractor.candidates = []models.AttendanceCandidate{
		{Date: "2026-01-21", RawStatus: "", Action: models.ActionDelete},
	}

	effects, err := f.pipeline.ProcessMessage(context.Background(), inbound("今日の連絡は取り消してください"))
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.Equal(t, models.EffectDeleted, effects[0].Kind)

	stored, err := f.repo.Get("t1", "u1", "2026-01-21")
	require.NoError(t, err)
	assert.Nil(t, stored)
}
