package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Extras  json.RawMessage `json:"extras"`
}

func init() {
	gin.SetMode(gin.TestMode)
}

func doJSON(t *testing.T, r http.Handler, method, path, body string, header http.Header) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func newEngineRouter() *gin.Engine {
	r := gin.New()
	ec := NewEngineController()
	r.POST("/api/evaluate", ec.Evaluate)
	r.POST("/api/best-move", ec.BestMove)
	return r
}

func TestEngineController_Evaluate(t *testing.T) {
	r := newEngineRouter()

	tests := []struct {
		name       string
		body       string
		wantCode   int
		wantStatus string
		wantWinner string
	}{
		{
			name:       "row win",
			body:       `{"board":["X","X","X","O","O","","","",""]}`,
			wantCode:   http.StatusOK,
			wantStatus: "win",
			wantWinner: "X",
		},
		{
			name:       "draw",
			body:       `{"board":["X","O","X","X","O","O","O","X","X"]}`,
			wantCode:   http.StatusOK,
			wantStatus: "draw",
		},
		{
			name:       "in progress",
			body:       `{"board":["","","","","X","","","",""]}`,
			wantCode:   http.StatusOK,
			wantStatus: "in_progress",
		},
		{name: "short board", body: `{"board":["X","O"]}`, wantCode: http.StatusBadRequest},
		{name: "bad value", body: `{"board":["Z","","","","","","","",""]}`, wantCode: http.StatusBadRequest},
		{name: "missing board", body: `{}`, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := doJSON(t, r, http.MethodPost, "/api/evaluate", tt.body, nil)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.wantCode != http.StatusOK {
				assert.False(t, env.Success)
				return
			}

			var out struct {
				Status      string `json:"status"`
				Winner      string `json:"winner"`
				WinningLine []int  `json:"winning_line"`
			}
			require.NoError(t, json.Unmarshal(env.Extras, &out))
			assert.Equal(t, tt.wantStatus, out.Status)
			assert.Equal(t, tt.wantWinner, out.Winner)
			if tt.wantStatus == "win" {
				assert.Equal(t, []int{0, 1, 2}, out.WinningLine)
			}
		})
	}
}

func TestEngineController_BestMove(t *testing.T) {
	r := newEngineRouter()

	tests := []struct {
		name      string
		body      string
		wantCode  int
		wantIndex int
	}{
		{
			name:      "empty board",
			body:      `{"board":["","","","","","","","",""],"player":"X","opponent":"O"}`,
			wantCode:  http.StatusOK,
			wantIndex: 0,
		},
		{
			name:      "complete the row",
			body:      `{"board":["X","X","","O","O","","","",""],"player":"X","opponent":"O"}`,
			wantCode:  http.StatusOK,
			wantIndex: 2,
		},
		{
			name:      "block the row",
			body:      `{"board":["X","","","","O","O","","",""],"player":"X","opponent":"O"}`,
			wantCode:  http.StatusOK,
			wantIndex: 3,
		},
		{
			name:     "full board",
			body:     `{"board":["X","O","X","X","O","O","O","X","X"],"player":"X","opponent":"O"}`,
			wantCode: http.StatusUnprocessableEntity,
		},
		{
			name:     "same marks",
			body:     `{"board":["","","","","","","","",""],"player":"X","opponent":"X"}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad board",
			body:     `{"board":["","",""],"player":"X","opponent":"O"}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, env := doJSON(t, r, http.MethodPost, "/api/best-move", tt.body, nil)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.wantCode != http.StatusOK {
				return
			}
			var out struct {
				Index int `json:"index"`
			}
			require.NoError(t, json.Unmarshal(env.Extras, &out))
			assert.Equal(t, tt.wantIndex, out.Index)
		})
	}
}
