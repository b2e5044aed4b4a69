package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	iauth "github.com/uniforum/uniforum/internal/auth"
	"github.com/uniforum/uniforum/internal/database/testutil"
	"github.com/uniforum/uniforum/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t)

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{Secret: "test-secret", Issuer: "test"})
	require.NoError(t, err)

	accounts, err := services.NewAccountService(db, jwtSvc, nil, services.AccountConfig{
		EmailDomain: "vitstudent.ac.in",
	})
	require.NoError(t, err)

	return NewRouter(Dependencies{
		DB:        db,
		JWT:       jwtSvc,
		Accounts:  accounts,
		Questions: services.NewQuestionService(db),
		Answers:   services.NewAnswerService(db),
		Users:     services.NewUserService(db),
	}, Options{Prometheus: false})
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var envelope map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), "body: %s", w.Body.String())
	}
	return w, envelope
}

func signUpAndVerify(t *testing.T, r *gin.Engine, name, email string) (userID, token string) {
	t.Helper()

	w, resp := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := resp["data"].(map[string]any)
	otp := data["otp"].(string)
	userID = data["user"].(map[string]any)["id"].(string)

	w, resp = doJSON(t, r, http.MethodPost, "/api/auth/verify-email", "", gin.H{
		"email": email,
		"otp":   otp,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	token = resp["data"].(map[string]any)["token"].(string)
	return userID, token
}

func TestFullQuestionLifecycle(t *testing.T) {
	r := newTestRouter(t)

	askerID, askerToken := signUpAndVerify(t, r, "Asha", "asha.rao2023@vitstudent.ac.in")
	_, answererToken := signUpAndVerify(t, r, "Ravi", "ravi.kumar2022@vitstudent.ac.in")

	// Ask
	w, resp := doJSON(t, r, http.MethodPost, "/api/questions", askerToken, gin.H{
		"title":   "How does the select statement choose a case?",
		"content": "Is it random or ordered when several channels are ready?",
		"tags":    []string{"go", "channels"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	questionID := resp["data"].(map[string]any)["id"].(string)

	// Unauthenticated asking is rejected
	w, _ = doJSON(t, r, http.MethodPost, "/api/questions", "", gin.H{
		"title": "no auth", "content": "no auth",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Browse anonymously; the view counter ticks
	w, resp = doJSON(t, r, http.MethodGet, "/api/questions/"+questionID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(1), resp["data"].(map[string]any)["views"])

	// Answer
	w, resp = doJSON(t, r, http.MethodPost, "/api/answers", answererToken, gin.H{
		"question_id": questionID,
		"content":     "It picks uniformly at random among the ready cases.",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	answerID := resp["data"].(map[string]any)["id"].(string)

	// Vote on the answer
	w, resp = doJSON(t, r, http.MethodPost, "/api/answers/"+answerID+"/vote", askerToken, gin.H{
		"voteType": "upvote",
	})
	require.Equal(t, http.StatusOK, w.Code)
	votes := resp["data"].(map[string]any)["votes"].(map[string]any)
	require.Equal(t, float64(1), votes["vote_count"])
	require.Equal(t, []any{askerID}, votes["upvotes"].([]any))

	// Only the asker may accept
	w, _ = doJSON(t, r, http.MethodPost, "/api/answers/"+answerID+"/accept", answererToken, nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	w, resp = doJSON(t, r, http.MethodPost, "/api/answers/"+answerID+"/accept", askerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, resp["data"].(map[string]any)["is_accepted"])

	// Comment on the question
	w, _ = doJSON(t, r, http.MethodPost, "/api/questions/"+questionID+"/comments", answererToken, gin.H{
		"content": "Great question.",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// The detail view now carries the full thread
	w, resp = doJSON(t, r, http.MethodGet, "/api/questions/"+questionID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := resp["data"].(map[string]any)
	require.Equal(t, float64(2), detail["views"])
	require.Equal(t, float64(1), detail["answer_count"])
	require.Len(t, detail["comments"].([]any), 1)
}

func TestQuestionVoteWireFormat(t *testing.T) {
	r := newTestRouter(t)

	voterID, voterToken := signUpAndVerify(t, r, "Asha", "asha.rao2023@vitstudent.ac.in")

	w, resp := doJSON(t, r, http.MethodPost, "/api/questions", voterToken, gin.H{
		"title": "A question title", "content": "body",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	questionID := resp["data"].(map[string]any)["id"].(string)

	// The request body field is voteType
	w, resp = doJSON(t, r, http.MethodPost, "/api/questions/"+questionID+"/vote", voterToken, gin.H{
		"voteType": "upvote",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	votes := resp["data"].(map[string]any)["votes"].(map[string]any)
	require.Equal(t, []any{voterID}, votes["upvotes"].([]any))

	// Any other field name fails validation
	w, _ = doJSON(t, r, http.MethodPost, "/api/questions/"+questionID+"/vote", voterToken, gin.H{
		"type": "upvote",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, r, http.MethodPost, "/api/questions/"+questionID+"/vote", voterToken, gin.H{
		"voteType": "sideways",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResendOTPResponseShape(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Asha", "email": "asha.rao2023@vitstudent.ac.in", "password": "password",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	data := resp["data"].(map[string]any)
	require.Contains(t, data, "message")
	require.Contains(t, data, "otp")

	w, resp = doJSON(t, r, http.MethodPost, "/api/auth/resend-otp", "", gin.H{
		"email": "asha.rao2023@vitstudent.ac.in",
	})
	require.Equal(t, http.StatusOK, w.Code)
	data = resp["data"].(map[string]any)
	require.Contains(t, data, "message")
	require.Contains(t, data, "otp")
}

func TestAuthFlowErrorPaths(t *testing.T) {
	r := newTestRouter(t)

	// Non-institutional email
	w, resp := doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Eve", "email": "eve@gmail.com", "password": "password",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, false, resp["success"])

	// Register, then login before verifying
	w, resp = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Asha", "email": "asha.rao2023@vitstudent.ac.in", "password": "password",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	otp := resp["data"].(map[string]any)["otp"].(string)

	w, resp = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "asha.rao2023@vitstudent.ac.in", "password": "password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Please verify your email first",
		resp["error"].(map[string]any)["message"])

	// Duplicate registration
	w, resp = doJSON(t, r, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Asha", "email": "asha.rao2023@vitstudent.ac.in", "password": "password",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "User already exists", resp["error"].(map[string]any)["message"])

	// Wrong then right OTP
	w, resp = doJSON(t, r, http.MethodPost, "/api/auth/verify-email", "", gin.H{
		"email": "asha.rao2023@vitstudent.ac.in", "otp": "000000",
	})
	if otp == "000000" {
		t.Skip("generated code collided with the guess")
	}
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "Invalid OTP", resp["error"].(map[string]any)["message"])

	w, _ = doJSON(t, r, http.MethodPost, "/api/auth/verify-email", "", gin.H{
		"email": "asha.rao2023@vitstudent.ac.in", "otp": otp,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w, resp = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "asha.rao2023@vitstudent.ac.in", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "Invalid credentials", resp["error"].(map[string]any)["message"])
}

func TestUserEndpoints(t *testing.T) {
	r := newTestRouter(t)

	askerID, askerToken := signUpAndVerify(t, r, "Asha", "asha.rao2023@vitstudent.ac.in")
	_, otherToken := signUpAndVerify(t, r, "Ravi", "ravi.kumar2022@vitstudent.ac.in")

	w, _ := doJSON(t, r, http.MethodPost, "/api/questions", askerToken, gin.H{
		"title": "A question title", "content": "body",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	// Public profile
	w, resp := doJSON(t, r, http.MethodGet, "/api/users/"+askerID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := resp["data"].(map[string]any)
	require.Len(t, profile["recent_questions"].([]any), 1)
	// Credentials never leak through the profile
	require.NotContains(t, profile["user"].(map[string]any), "password")

	// Stats
	w, resp = doJSON(t, r, http.MethodGet, fmt.Sprintf("/api/users/%s/stats", askerID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, float64(1), resp["data"].(map[string]any)["questions_asked"])

	// Renaming someone else is forbidden
	w, _ = doJSON(t, r, http.MethodPut, "/api/users/"+askerID, otherToken, gin.H{"name": "Mallory"})
	require.Equal(t, http.StatusForbidden, w.Code)

	w, resp = doJSON(t, r, http.MethodPut, "/api/users/"+askerID, askerToken, gin.H{"name": "Asha R"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "Asha R", resp["data"].(map[string]any)["name"])

	// Activity listings
	w, resp = doJSON(t, r, http.MethodGet, "/api/users/"+askerID+"/questions", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"].([]any), 1)

	w, resp = doJSON(t, r, http.MethodGet, "/api/users/"+askerID+"/answers", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, resp["data"].([]any), 0)
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "ok", resp["status"])
	require.Equal(t, "up", resp["database"])
}

func TestUnknownRouteEnvelope(t *testing.T) {
	r := newTestRouter(t)

	w, resp := doJSON(t, r, http.MethodGet, "/api/nope", "", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, false, resp["success"])
}
