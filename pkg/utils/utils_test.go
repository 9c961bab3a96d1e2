package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitAndTrim(" a | b ||c| ", "|"))
	assert.Empty(t, SplitAndTrim("", "|"))
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "x", FirstNonEmpty("", "  ", "x", "y"))
	assert.Equal(t, "", FirstNonEmpty())
}

func TestFormatINR(t *testing.T) {
	assert.Equal(t, "1180.00", FormatINR(1180))
	assert.Equal(t, "0.59", FormatINR(0.59))
	assert.Equal(t, "12.04", FormatINR(12.036))
}

func TestDecFloatRoundTrip(t *testing.T) {
	sum := Dec(0.1).Add(Dec(0.2))
	assert.Equal(t, 0.3, Float(sum))
}

func TestNormalizePhone(t *testing.T) {
	got, err := NormalizePhone("98765 43210", "IN")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", got)

	got, err = NormalizePhone("+91 98765-43210", "IN")
	require.NoError(t, err)
	assert.Equal(t, "+919876543210", got)

	_, err = NormalizePhone("abc", "IN")
	assert.Error(t, err)
}

func TestGetenvHelpers(t *testing.T) {
	t.Setenv("GST_TEST_STR", "value")
	t.Setenv("GST_TEST_INT", "42")
	t.Setenv("GST_TEST_BADINT", "forty")
	t.Setenv("GST_TEST_LIST", "Line 1 | Line 2|")

	assert.Equal(t, "value", Getenv("GST_TEST_STR", "x"))
	assert.Equal(t, "x", Getenv("GST_TEST_UNSET", "x"))
	assert.Equal(t, 42, GetenvInt("GST_TEST_INT", 1))
	assert.Equal(t, 1, GetenvInt("GST_TEST_BADINT", 1))
	assert.Equal(t, []string{"Line 1", "Line 2"}, GetenvList("GST_TEST_LIST", nil))
	assert.Equal(t, []string{"d"}, GetenvList("GST_TEST_UNSET", []string{"d"}))
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("GST_DOTENV_KEY=from-file\n"), 0o600))
	t.Setenv("GST_DOTENV_KEY", "")
	os.Unsetenv("GST_DOTENV_KEY")

	LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), path)
	assert.Equal(t, "from-file", os.Getenv("GST_DOTENV_KEY"))
}

func TestRespondWithError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondWithError(c, NewAPIError(http.StatusConflict, ErrCodeConflict, "Duplicate", "gstin"))

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.True(t, c.IsAborted())
	var body struct {
		Error APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, ErrCodeConflict, body.Error.Code)
	assert.Equal(t, "gstin", body.Error.Details)
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	InitLoggerTo(&buf, "debug", "json")
	buf.Reset()

	LogError(errors.New("boom"), "Commit failed", map[string]interface{}{"bill_no": "24-03/001"})
	LogError(nil, "ignored")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "boom", entry["error"])
	assert.Equal(t, "24-03/001", entry["bill_no"])
	assert.Equal(t, "Commit failed", entry["message"])
}
