package consultation

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/lawdesk/internal/client"
	"github.com/yanizio/lawdesk/internal/component"
	"github.com/yanizio/lawdesk/internal/consultation"
	"github.com/yanizio/lawdesk/internal/form"
	"github.com/yanizio/lawdesk/internal/notify"
)

const adminToken = "test-admin-token-0123456789"

var (
	tehran   = time.FixedZone("IRST", 3*3600+1800)
	fixedNow = time.Date(2026, 3, 10, 14, 0, 0, 0, tehran)
	clock    = func() time.Time { return fixedNow }
)

var recordColumns = []string{
	"id", "name", "phone", "national_id", "province", "city",
	"consultation_type", "consultation_topic", "problem_description",
	"documents", "message", "preferred_date", "preferred_time", "status",
	"created_at", "updated_at",
}

type fakeSender struct {
	mu    sync.Mutex
	texts []string
}

func (f *fakeSender) Send(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return nil
}

type fixture struct {
	router http.Handler
	mock   sqlmock.Sqlmock
	sender *fakeSender
	notify *notify.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sender := &fakeSender{}
	disp := notify.NewDispatcher(sender, notify.NewFormatter(tehran, clock), time.Second, nil)
	deps := component.Deps{
		Repo:       consultation.NewRepository(sqlx.NewDb(db, "mysql")),
		Notifier:   disp,
		AdminToken: adminToken,
		Now:        clock,
	}

	c := &Component{}
	require.NoError(t, c.Init(deps))
	r := chi.NewRouter()
	c.Routes(r, deps)
	return &fixture{router: r, mock: mock, sender: sender, notify: disp}
}

func (f *fixture) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+adminToken)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) consultation.Envelope[T] {
	t.Helper()
	var env consultation.Envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func row(id int64, name, status string) *sqlmock.Rows {
	return sqlmock.NewRows(recordColumns).AddRow(
		id, name, "09121234567", nil, nil, nil, "phone", nil, nil, nil, nil,
		"2026-03-12", "10:00", status, fixedNow, fixedNow,
	)
}

const validBody = `{"name":" علی رضایی ","phone":"۰۹۱۲۱۲۳۴۵۶۷","consultation_type":"online",
"preferred_date":"2026-03-12","preferred_time":"10-12","city":"تهران"}`

/*──────────────────────────── create ───────────────────────────────────────*/

func TestCreate_Public(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectExec(`INSERT INTO consultations`).
		WithArgs("علی رضایی", "09121234567", nil, nil, "تهران", "video",
			nil, nil, nil, nil, "2026-03-12", "10:00", "pending", fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(11, 1))
	f.mock.ExpectQuery(`SELECT (.+) FROM consultations WHERE id = \?`).
		WithArgs(int64(11)).
		WillReturnRows(row(11, "علی رضایی", "pending"))

	rec := f.do(http.MethodPost, "/api/public/consultations", validBody, false)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	env := decode[consultation.Record](t, rec)
	assert.True(t, env.Success)
	assert.Equal(t, int64(11), env.Data.ID)
	assert.Equal(t, consultation.StatusPending, env.Data.Status)

	f.notify.Wait()
	require.Len(t, f.sender.texts, 1)
	assert.Contains(t, f.sender.texts[0], "#11")
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreate_MissingFields(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/api/public/consultations", `{"name":"علی"}`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode[any](t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, MsgMissingFields, env.Error)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCreate_MalformedJSON(t *testing.T) {
	f := newFixture(t)
	rec := f.do(http.MethodPost, "/api/public/consultations", `{"name":`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, MsgBadBody, decode[any](t, rec).Error)
}

func TestCreate_PublicGuidance(t *testing.T) {
	f := newFixture(t)
	body := `{"name":"علی","phone":"0912123","consultation_type":"phone",
"preferred_date":"2026-03-12","preferred_time":"10:00"}`
	rec := f.do(http.MethodPost, "/api/public/consultations", body, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, consultation.MsgPhoneLength, decode[any](t, rec).Error)

	body = strings.Replace(body, `"علی"`, `"ع"`, 1)
	rec = f.do(http.MethodPost, "/api/public/consultations", body, false)
	assert.Equal(t, consultation.MsgNameTooShort, decode[any](t, rec).Error)
}

func TestCreate_ManagedReportsEveryRule(t *testing.T) {
	f := newFixture(t)
	body := `{"name":"Ali","phone":"08121234567","consultation_type":"fax",
"preferred_date":"2026-03-12","preferred_time":"10:00"}`
	rec := f.do(http.MethodPost, "/api/consultations", body, true)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	msg := decode[any](t, rec).Error
	assert.Contains(t, msg, consultation.MsgNamePersian)
	assert.Contains(t, msg, consultation.MsgPhonePrefix)
	assert.Contains(t, msg, consultation.MsgTypeUnknown)
}

func TestCreate_PastTimeToday(t *testing.T) {
	f := newFixture(t)
	body := strings.Replace(validBody, "2026-03-12", "2026-03-10", 1)
	rec := f.do(http.MethodPost, "/api/public/consultations", body, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, consultation.MsgTimePast, decode[any](t, rec).Error)
}

func TestCreate_DatabaseFault(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectExec(`INSERT INTO consultations`).WillReturnError(errors.New("too many connections"))

	rec := f.do(http.MethodPost, "/api/public/consultations", validBody, false)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, MsgServer, decode[any](t, rec).Error)

	f.notify.Wait()
	assert.Empty(t, f.sender.texts)
}

func TestManagedRoutes_RequireToken(t *testing.T) {
	f := newFixture(t)
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/consultations"},
		{http.MethodPost, "/api/consultations"},
		{http.MethodGet, "/api/consultations/1"},
		{http.MethodPut, "/api/consultations/1"},
		{http.MethodDelete, "/api/consultations/1"},
	} {
		rec := f.do(tc.method, tc.path, "", false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.method+" "+tc.path)
	}
}

/*──────────────────────────── read ─────────────────────────────────────────*/

func TestList(t *testing.T) {
	f := newFixture(t)
	rows := row(2, "مریم", "confirmed").AddRow(
		1, "علی", "09121111111", nil, nil, nil, "video", nil, nil, nil, nil,
		"2026-03-11", "08:00", "pending", fixedNow.Add(-time.Hour), fixedNow.Add(-time.Hour))
	f.mock.ExpectQuery(`SELECT (.+) FROM consultations ORDER BY created_at DESC`).WillReturnRows(rows)

	rec := f.do(http.MethodGet, "/api/consultations", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	env := decode[[]consultation.Record](t, rec)
	require.Len(t, env.Data, 2)
	assert.Equal(t, int64(2), env.Data[0].ID)
}

func TestList_EmptyIsArray(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectQuery(`SELECT (.+) FROM consultations ORDER BY`).WillReturnRows(sqlmock.NewRows(recordColumns))

	rec := f.do(http.MethodGet, "/api/consultations", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, rec.Body.String())
}

func TestGet(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectQuery(`WHERE id = \?`).WithArgs(int64(4)).WillReturnRows(row(4, "مریم", "completed"))
	f.mock.ExpectQuery(`WHERE id = \?`).WithArgs(int64(5)).WillReturnRows(sqlmock.NewRows(recordColumns))

	rec := f.do(http.MethodGet, "/api/consultations/4", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, consultation.StatusCompleted, decode[consultation.Record](t, rec).Data.Status)

	rec = f.do(http.MethodGet, "/api/consultations/5", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, MsgNotFound, decode[any](t, rec).Error)

	rec = f.do(http.MethodGet, "/api/consultations/abc", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

/*──────────────────────────── update ───────────────────────────────────────*/

func TestUpdate_StatusAndMessage(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectQuery(`WHERE id = \?`).WithArgs(int64(3)).WillReturnRows(row(3, "علی", "pending"))
	f.mock.ExpectExec(`UPDATE consultations SET status = \?, message = \?, updated_at = \? WHERE id = \?`).
		WithArgs("confirmed", "تایید شد", fixedNow, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectQuery(`WHERE id = \?`).WithArgs(int64(3)).WillReturnRows(row(3, "علی", "confirmed"))

	rec := f.do(http.MethodPut, "/api/consultations/3", `{"status":"Confirmed","message":"تایید شد"}`, true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, consultation.StatusConfirmed, decode[consultation.Record](t, rec).Data.Status)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestUpdate_Rejections(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPut, "/api/consultations/3", `{}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, MsgEmptyPatch, decode[any](t, rec).Error)

	f.mock.ExpectQuery(`WHERE id = \?`).WithArgs(int64(3)).WillReturnRows(row(3, "علی", "pending"))
	rec = f.do(http.MethodPut, "/api/consultations/3", `{"status":"archived"}`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, consultation.MsgStatusUnknown, decode[any](t, rec).Error)

	f.mock.ExpectQuery(`WHERE id = \?`).WithArgs(int64(9)).WillReturnRows(sqlmock.NewRows(recordColumns))
	rec = f.do(http.MethodPut, "/api/consultations/9", `{"status":"cancelled"}`, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

/*──────────────────────────── delete ───────────────────────────────────────*/

func TestDelete(t *testing.T) {
	f := newFixture(t)
	f.mock.ExpectExec(`DELETE FROM consultations WHERE id = \?`).WithArgs(int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	f.mock.ExpectExec(`DELETE FROM consultations WHERE id = \?`).WithArgs(int64(6)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	rec := f.do(http.MethodDelete, "/api/consultations/6", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	rec = f.do(http.MethodDelete, "/api/consultations/6", "", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

/*──────────────────────────── round trip ───────────────────────────────────*/

// The booking form, the submission client and the handlers together: create
// through the public path, then resubmit the same edit draft twice.
func TestRoundTrip_FormClientHandlers(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	f.mock.ExpectExec(`INSERT INTO consultations`).WillReturnResult(sqlmock.NewResult(21, 1))
	f.mock.ExpectQuery(`WHERE id = \?`).WithArgs(int64(21)).WillReturnRows(row(21, "علی رضایی", "pending"))

	pub, err := client.New(srv.URL, client.WithPublic())
	require.NoError(t, err)

	ctrl := form.New(form.WithClock(clock), form.WithOptionalTopic())
	ctrl.Set(form.FieldName, "علی رضایی")
	ctrl.Set(form.FieldPhone, "09121234567")
	ctrl.Set(form.FieldDate, "2026-03-12")
	ctrl.Set(form.FieldTime, "10-12")
	require.True(t, ctrl.Submittable())

	created, err := pub.Submit(context.Background(), ctrl)
	require.NoError(t, err)
	assert.Equal(t, int64(21), created.ID)

	staff, err := client.New(srv.URL, client.WithToken(adminToken))
	require.NoError(t, err)

	edit := form.New(form.WithClock(clock))
	edit.Load(created)
	edit.Set(form.FieldTopic, consultation.Topics[0])

	for i := 0; i < 2; i++ {
		f.mock.ExpectQuery(`WHERE id = \?`).WithArgs(int64(21)).WillReturnRows(row(21, "علی رضایی", "pending"))
		f.mock.ExpectExec(`UPDATE consultations SET`).WillReturnResult(sqlmock.NewResult(0, 1))
		f.mock.ExpectQuery(`WHERE id = \?`).WithArgs(int64(21)).WillReturnRows(row(21, "علی رضایی", "pending"))

		got, err := staff.Submit(context.Background(), edit)
		require.NoError(t, err)
		assert.Equal(t, int64(21), got.ID)
	}

	f.notify.Wait()
	assert.Len(t, f.sender.texts, 1, "only creates notify")
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestInit_RequiresRepository(t *testing.T) {
	assert.ErrorIs(t, (&Component{}).Init(component.Deps{}), component.ErrMissingDep)
}
