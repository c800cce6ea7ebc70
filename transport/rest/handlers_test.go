package rest

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rocketscienceinc/bridge-crossing-backend/internal/apperror"
	"github.com/rocketscienceinc/bridge-crossing-backend/internal/entity"
	"github.com/rocketscienceinc/bridge-crossing-backend/internal/repository"
	"github.com/rocketscienceinc/bridge-crossing-backend/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tokenPurple = "token-purple"
	tokenGreen  = "token-green"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	manager := usecase.NewGameManager(logger, repository.NewMemoryGameRepository(), usecase.DefaultInviteCodeAttempts)

	srv := httptest.NewServer(NewRouter(logger, manager))
	t.Cleanup(srv.Close)

	return srv
}

func do(t *testing.T, method, url string, body any, headers map[string]string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})

	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))

	return out
}

// startSession creates a session over HTTP and seats green in it.
func startSession(t *testing.T, srv *httptest.Server) createSessionResponse {
	t.Helper()

	resp := do(t, http.MethodPost, srv.URL+"/sessions", createSessionRequest{Token: tokenPurple}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[createSessionResponse](t, resp)

	resp = do(t, http.MethodPost, srv.URL+"/sessions/join", joinSessionRequest{InviteCode: created.InviteCode, Token: tokenGreen}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	return created
}

func TestPing(t *testing.T) {
	srv := newTestServer(t)

	resp := do(t, http.MethodGet, srv.URL+"/ping", nil, nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "pong", string(body))
}

func TestSessionLifecycle(t *testing.T) {
	// Given: a running server
	srv := newTestServer(t)

	// When: purple creates a session
	resp := do(t, http.MethodPost, srv.URL+"/sessions", createSessionRequest{Token: tokenPurple}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[createSessionResponse](t, resp)
	assert.NotEmpty(t, created.SessionID)
	assert.Len(t, created.InviteCode, 6)

	// And: green joins with the invite code
	resp = do(t, http.MethodPost, srv.URL+"/sessions/join", joinSessionRequest{InviteCode: created.InviteCode, Token: tokenGreen}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assignment := decodeBody[entity.Assignment](t, resp)
	assert.Equal(t, created.SessionID, assignment.SessionID)
	assert.Equal(t, entity.Green, assignment.Color)

	// And: purple moves (0,0) -> (0,1)
	resp = do(t, http.MethodPost, srv.URL+"/sessions/"+created.SessionID+"/moves", submitMoveRequest{
		Token: tokenPurple,
		From:  entity.Position{Row: 0, Col: 0},
		To:    entity.Position{Row: 0, Col: 1},
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	moved := decodeBody[entity.GameView](t, resp)

	// Then: the view reflects the move and hands the turn to green
	assert.Equal(t, entity.Purple, moved.Board[0][1])
	assert.Equal(t, entity.Empty, moved.Board[0][0])
	assert.Equal(t, entity.Green, moved.CurrentPlayer)
	assert.Equal(t, entity.Purple, moved.YourColor)

	// And: green sees the same board with its own color
	resp = do(t, http.MethodGet, srv.URL+"/sessions/"+created.SessionID, nil, map[string]string{tokenHeader: tokenGreen})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decodeBody[entity.GameView](t, resp)
	assert.Equal(t, moved.Board, view.Board)
	assert.Equal(t, entity.Green, view.YourColor)
	assert.Equal(t, entity.StatusPlaying, view.Status)

	// When: green leaves
	resp = do(t, http.MethodDelete, srv.URL+"/sessions/"+created.SessionID+"?token="+tokenGreen, nil, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Then: the session is gone
	resp = do(t, http.MethodGet, srv.URL+"/sessions/"+created.SessionID, nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, apperror.KindNotFound, decodeBody[errorResponse](t, resp).Kind)
}

func TestSessionView_HidesTokens(t *testing.T) {
	srv := newTestServer(t)
	created := startSession(t, srv)

	resp := do(t, http.MethodGet, srv.URL+"/sessions/"+created.SessionID+"?token="+tokenPurple, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotContains(t, string(body), tokenPurple)
	assert.NotContains(t, string(body), tokenGreen)
}

func TestErrorMapping(t *testing.T) {
	srv := newTestServer(t)
	created := startSession(t, srv)
	movesURL := srv.URL + "/sessions/" + created.SessionID + "/moves"

	tests := []struct {
		name       string
		method     string
		url        string
		body       any
		wantStatus int
		wantKind   string
	}{
		{
			name:       "empty token on create",
			method:     http.MethodPost,
			url:        srv.URL + "/sessions",
			body:       createSessionRequest{},
			wantStatus: http.StatusBadRequest,
			wantKind:   apperror.KindInvalidToken,
		},
		{
			name:       "unknown invite code",
			method:     http.MethodPost,
			url:        srv.URL + "/sessions/join",
			body:       joinSessionRequest{InviteCode: "ZZZZZZ", Token: "token-third"},
			wantStatus: http.StatusNotFound,
			wantKind:   apperror.KindNotFound,
		},
		{
			name:       "join after the game started",
			method:     http.MethodPost,
			url:        srv.URL + "/sessions/join",
			body:       joinSessionRequest{InviteCode: created.InviteCode, Token: "token-third"},
			wantStatus: http.StatusConflict,
			wantKind:   apperror.KindInvalidState,
		},
		{
			name:       "not adjacent",
			method:     http.MethodPost,
			url:        movesURL,
			body:       submitMoveRequest{Token: tokenPurple, From: entity.Position{Row: 0, Col: 0}, To: entity.Position{Row: 0, Col: 2}},
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   apperror.KindIllegalMove,
		},
		{
			name:       "not your turn",
			method:     http.MethodPost,
			url:        movesURL,
			body:       submitMoveRequest{Token: tokenGreen, From: entity.Position{Row: 0, Col: 3}, To: entity.Position{Row: 0, Col: 2}},
			wantStatus: http.StatusConflict,
			wantKind:   apperror.KindNotYourTurn,
		},
		{
			name:       "stranger",
			method:     http.MethodPost,
			url:        movesURL,
			body:       submitMoveRequest{Token: "stranger", From: entity.Position{Row: 0, Col: 0}, To: entity.Position{Row: 0, Col: 1}},
			wantStatus: http.StatusForbidden,
			wantKind:   apperror.KindNotAParticipant,
		},
		{
			name:       "malformed body",
			method:     http.MethodPost,
			url:        movesURL,
			body:       "not an object",
			wantStatus: http.StatusBadRequest,
			wantKind:   apperror.KindBadRequest,
		},
		{
			name:       "preview without coordinates",
			method:     http.MethodGet,
			url:        movesURL,
			wantStatus: http.StatusBadRequest,
			wantKind:   apperror.KindBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, tt.method, tt.url, tt.body, nil)

			require.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, tt.wantKind, decodeBody[errorResponse](t, resp).Kind)
		})
	}
}

func TestPreviewMoves(t *testing.T) {
	srv := newTestServer(t)
	created := startSession(t, srv)

	resp := do(t, http.MethodGet, srv.URL+"/sessions/"+created.SessionID+"/moves?row=1&col=0", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	preview := decodeBody[previewMovesResponse](t, resp)
	assert.Equal(t, entity.Position{Row: 1, Col: 0}, preview.From)
	assert.ElementsMatch(t, []entity.Position{{Row: 1, Col: 1}}, preview.Moves)
}

func TestStatusForKind(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, statusForKind(apperror.KindInternal))
	assert.Equal(t, http.StatusConflict, statusForKind(apperror.KindConflict))
}
