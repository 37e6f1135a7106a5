package config

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	os.Setenv("DB_URI", "mongodb://127.0.0.1:27017")
	os.Setenv("DB_NAME", "test")
	conf := New()

	assert.NotEmpty(t, conf)
	assert.Equal(t, "mongodb://127.0.0.1:27017", conf.URL)
	assert.Equal(t, "test", conf.DatabaseName)
}

func TestNewDefaults(t *testing.T) {
	os.Unsetenv("LEDGER_MODE")
	os.Unsetenv("LEDGER_TIMEOUT")
	os.Unsetenv("RECONCILE_SCHEDULE")
	os.Unsetenv("DEFAULT_COURT_NAME")
	conf := New()

	assert.Equal(t, LedgerNone, conf.LedgerMode)
	assert.Equal(t, 5*time.Second, conf.LedgerTimeout)
	assert.Equal(t, "*/15 * * * *", conf.ReconcileSchedule)
	assert.Equal(t, "District Court", conf.DefaultCourtName)
}

func TestNewBadLedgerTimeoutFallsBack(t *testing.T) {
	t.Setenv("LEDGER_TIMEOUT", "soon")
	conf := New()

	assert.Equal(t, DefaultLedgerTimeout, conf.LedgerTimeout)
}

func TestErrorStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	ErrorStatus("error it borked", http.StatusBadRequest, rr, errors.New("bad request"))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var body map[string]string
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "error it borked, bad request", body["response"])
}

func TestSetLoggerSetsDevelopmentLogger(t *testing.T) {
	l, err := setLogger("development")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestSetLoggerSetsProductionLogger(t *testing.T) {
	l, err := setLogger("production")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
}

func TestSetLoggerSetsLocalLogger(t *testing.T) {
	l, err := setLogger("local")
	assert.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}
