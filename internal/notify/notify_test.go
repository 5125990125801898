package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/lawdesk/internal/consultation"
	"github.com/yanizio/lawdesk/internal/metrics"
)

var tehran = time.FixedZone("IRST", 3*3600+1800)

func fixedFormatter() *Formatter {
	return NewFormatter(tehran, func() time.Time {
		return time.Date(2026, 3, 10, 10, 30, 0, 0, time.UTC)
	})
}

func sampleRecord() consultation.Record {
	return consultation.Record{
		ID:               9,
		Name:             "علی <رضایی>",
		Phone:            "09121234567",
		Province:         consultation.Opt("تهران"),
		City:             consultation.Opt("شمیران"),
		ConsultationType: consultation.TypeInPerson,
		PreferredDate:    "2099-01-01",
		PreferredTime:    "10:00",
		Status:           consultation.StatusPending,
	}
}

func TestFormat(t *testing.T) {
	text := fixedFormatter().Format(sampleRecord())

	assert.Contains(t, text, "علی &lt;رضایی&gt;")
	assert.Contains(t, text, "09121234567")
	assert.Contains(t, text, "تهران، شمیران")
	assert.Contains(t, text, "حضوری")
	assert.Contains(t, text, "#9")
	assert.Contains(t, text, "2026-03-10 14:00:00")
	assert.NotContains(t, text, "کد ملی", "empty optional fields are omitted")
	assert.NotContains(t, text, "مدارک")
}

func TestFormat_OptionalFields(t *testing.T) {
	rec := sampleRecord()
	rec.NationalID = consultation.Opt("0013542419")
	rec.ConsultationTopic = consultation.Opt(consultation.Topics[1])
	rec.ProblemDescription = consultation.Opt("a & b")
	rec.Documents = consultation.Opt("a.pdf,b.jpg")
	rec.Province = nil

	text := fixedFormatter().Format(rec)
	assert.Contains(t, text, "0013542419")
	assert.Contains(t, text, consultation.Topics[1])
	assert.Contains(t, text, "a &amp; b")
	assert.Contains(t, text, "a.pdf,b.jpg")
	assert.Contains(t, text, "<b>📍 محل:</b> شمیران\n")
}

type fakeSender struct {
	mu    sync.Mutex
	texts []string
	err   error
	delay time.Duration
}

func (f *fakeSender) Send(ctx context.Context, text string) error {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.texts = append(f.texts, text)
	return f.err
}

func TestDispatcher_SendsAsync(t *testing.T) {
	s := &fakeSender{delay: 20 * time.Millisecond}
	d := NewDispatcher(s, fixedFormatter(), time.Second, nil)
	require.True(t, d.Enabled())

	before := testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues("sent"))
	d.Dispatch(sampleRecord())
	d.Wait()

	require.Len(t, s.texts, 1)
	assert.Contains(t, s.texts[0], "#9")
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues("sent")))
}

func TestDispatcher_FailureSwallowed(t *testing.T) {
	s := &fakeSender{err: errors.New("chat not found")}
	d := NewDispatcher(s, nil, time.Second, nil)

	before := testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues("failed"))
	d.Dispatch(sampleRecord())
	d.Wait()
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues("failed")))
}

func TestDispatcher_TimeoutIsolated(t *testing.T) {
	s := &fakeSender{delay: time.Second}
	d := NewDispatcher(s, nil, 20*time.Millisecond, nil)

	start := time.Now()
	d.Dispatch(sampleRecord())
	assert.Less(t, time.Since(start), 100*time.Millisecond, "Dispatch does not block")
	d.Wait()
	assert.Empty(t, s.texts)
}

func TestDispatcher_Disabled(t *testing.T) {
	d := NewDispatcher(nil, nil, 0, nil)
	assert.False(t, d.Enabled())

	before := testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues("skipped"))
	d.Dispatch(sampleRecord())
	d.Wait()
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.NotificationsTotal.WithLabelValues("skipped")))
}

func TestNewTelegram_RequiresConfig(t *testing.T) {
	_, err := NewTelegram(TelegramConfig{Token: "x"}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = NewTelegram(TelegramConfig{ChatID: "1"}, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestTelegram_SendMessage(t *testing.T) {
	var (
		mu                      sync.Mutex
		path, chat, mode, text string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		path = r.URL.Path
		chat, mode, text = r.FormValue("chat_id"), r.FormValue("parse_mode"), r.FormValue("text")
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":-100,"type":"group"}}}`))
	}))
	defer srv.Close()

	tg, err := NewTelegram(TelegramConfig{Token: "123:abc", ChatID: "-100", APIURL: srv.URL}, nil)
	require.NoError(t, err)
	require.NoError(t, tg.Send(context.Background(), "<b>hi</b>"))

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, strings.HasSuffix(path, "/sendMessage"), path)
	assert.Equal(t, "-100", chat)
	assert.Equal(t, "HTML", mode)
	assert.Equal(t, "<b>hi</b>", text)
}

func TestTelegram_CircuitOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer srv.Close()

	tg, err := NewTelegram(TelegramConfig{Token: "123:abc", ChatID: "1", APIURL: srv.URL, TripAfter: 2}, nil)
	require.NoError(t, err)

	assert.Error(t, tg.Send(context.Background(), "a"))
	assert.Error(t, tg.Send(context.Background(), "b"))
	assert.Equal(t, gobreaker.StateOpen, tg.State())

	err = tg.Send(context.Background(), "c")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}
