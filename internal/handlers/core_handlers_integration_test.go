package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/talentrail/talentrail/internal/handlers/testutil"
)

func candidatePayload(phone string) map[string]any {
	return map[string]any{
		"name":      "Asha Verma",
		"phone":     phone,
		"position":  "Bartender",
		"locations": []string{"mumbai"},
		"attachments": []map[string]any{
			{"path": "/files/cv.pdf", "name": "cv.pdf"},
		},
	}
}

func createCandidate(t *testing.T, env *testutil.Env, token, phone string) uint {
	t.Helper()

	w := env.Request(http.MethodPost, "/api/candidates", candidatePayload(phone), token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := testutil.DecodeResponse(t, w)
	var created struct {
		ID uint `json:"id"`
	}
	testutil.DecodeInto(t, resp.Data, &created)
	require.NotZero(t, created.ID)
	return created.ID
}

func TestCandidateEndpoints(t *testing.T) {
	env := testutil.NewEnv(t)
	root := env.CreateRootUser("Password123!")
	token := env.Login(root.Username, "Password123!").Token

	// Intake requires at least one attachment.
	invalid := candidatePayload("(981) 234-5678")
	invalid["attachments"] = []map[string]any{}
	w := env.Request(http.MethodPost, "/api/candidates", invalid, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := testutil.DecodeResponse(t, w)
	require.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

	// Formatted phone input is normalised to bare digits.
	w = env.Request(http.MethodPost, "/api/candidates", candidatePayload("(981) 234-5678"), token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp = testutil.DecodeResponse(t, w)
	var created struct {
		ID     uint   `json:"id"`
		Phone  string `json:"phone"`
		Status string `json:"status"`
	}
	testutil.DecodeInto(t, resp.Data, &created)
	require.Equal(t, "9812345678", created.Phone)
	require.Equal(t, "recently-applied", created.Status)

	// Same number again is rejected.
	w = env.Request(http.MethodPost, "/api/candidates", candidatePayload("9812345678"), token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp = testutil.DecodeResponse(t, w)
	require.Equal(t, "DUPLICATE_PHONE", resp.Error.Code)

	w = env.Request(http.MethodGet, "/api/candidates?search=asha", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	resp = testutil.DecodeResponse(t, w)
	require.NotNil(t, resp.Meta)
	require.Equal(t, int64(1), resp.Meta.Total)

	// Status writes are checked against the registry.
	w = env.Request(http.MethodPut, "/api/candidates/1/status", map[string]any{"status": "made-up"}, token)
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp = testutil.DecodeResponse(t, w)
	require.Equal(t, "UNKNOWN_STATUS", resp.Error.Code)

	w = env.Request(http.MethodPut, "/api/candidates/1/status", map[string]any{"status": "interviewed"}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.Request(http.MethodPut, "/api/candidates/1/active", map[string]any{
		"active":   false,
		"reason":   "left without notice",
		"category": "absconded",
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var updated struct {
		IsActive bool   `json:"is_active"`
		Status   string `json:"status"`
	}
	resp = testutil.DecodeResponse(t, w)
	testutil.DecodeInto(t, resp.Data, &updated)
	require.False(t, updated.IsActive)
	require.Equal(t, "interviewed", updated.Status)
}

func TestScheduleAndBulkEndpoints(t *testing.T) {
	env := testutil.NewEnv(t)
	root := env.CreateRootUser("Password123!")
	token := env.Login(root.Username, "Password123!").Token

	w := env.Request(http.MethodPost, "/api/outlets", map[string]any{"name": "Bandra Cafe"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var outlet struct {
		ID uint `json:"id"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &outlet)

	candidateID := createCandidate(t, env, token, "9810000001")

	// One valid slot plus one without an outlet; the invalid one is dropped.
	slotTime := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	w = env.Request(http.MethodPost, "/api/candidates/1/schedules", map[string]any{
		"slots": []map[string]any{
			{"outlet_id": outlet.ID, "scheduled_at": slotTime},
			{"scheduled_at": slotTime},
		},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := testutil.DecodeResponse(t, w)
	var scheduleResult struct {
		Created int `json:"created"`
	}
	testutil.DecodeInto(t, resp.Data, &scheduleResult)
	require.Equal(t, 1, scheduleResult.Created)

	// Candidate moves to scheduled as part of slot creation.
	w = env.Request(http.MethodGet, "/api/candidates/1", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var candidate struct {
		Status string `json:"status"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &candidate)
	require.Equal(t, "scheduled", candidate.Status)

	w = env.Request(http.MethodPost, "/api/bulk/status", map[string]any{
		"candidate_ids": []uint{candidateID},
		"status":        "hired",
		"outlet_ids":    []uint{outlet.ID},
	}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var bulk struct {
		Requested int `json:"requested"`
		Succeeded int `json:"succeeded"`
		Failed    int `json:"failed"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &bulk)
	require.Equal(t, 1, bulk.Requested)
	require.Equal(t, 1, bulk.Succeeded)
	require.Zero(t, bulk.Failed)

	// Unknown candidate id yields a not found error, not silent success.
	w = env.Request(http.MethodPost, "/api/candidates/999/schedules", map[string]any{
		"slots": []map[string]any{{"outlet_id": outlet.ID, "scheduled_at": slotTime}},
	}, token)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCvLinkEndpoints(t *testing.T) {
	env := testutil.NewEnv(t)
	root := env.CreateRootUser("Password123!")
	token := env.Login(root.Username, "Password123!").Token

	candidateID := createCandidate(t, env, token, "9810000002")
	require.Equal(t, uint(1), candidateID)

	w := env.Request(http.MethodPost, "/api/candidates/1/cv-link", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var link struct {
		Key    string `json:"key"`
		Status string `json:"status"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &link)
	require.NotEmpty(t, link.Key)
	require.Equal(t, "active", link.Status)

	// Public resolution needs no token and exposes only the trimmed profile.
	w = env.Request(http.MethodGet, "/cv/"+link.Key, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Asha Verma")
	require.NotContains(t, w.Body.String(), "9810000002")

	w = env.Request(http.MethodDelete, "/api/candidates/1/cv-link", nil, token)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.Request(http.MethodGet, "/cv/"+link.Key, nil, "")
	require.Equal(t, http.StatusGone, w.Code)
}

func TestPermissionEnforcement(t *testing.T) {
	env := testutil.NewEnv(t)
	root := env.CreateRootUser("Password123!")
	rootToken := env.Login(root.Username, "Password123!").Token

	recruiter := env.CreateRecruiter("Password123!")
	recruiterToken := env.Login(recruiter.Username, "Password123!").Token

	createCandidate(t, env, rootToken, "9810000003")

	w := env.Request(http.MethodGet, "/api/candidates", nil, recruiterToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.Request(http.MethodDelete, "/api/candidates/1", nil, recruiterToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.Request(http.MethodPost, "/api/registry/statuses", map[string]any{
		"value": "on-hold",
		"label": "On Hold",
	}, recruiterToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.Request(http.MethodGet, "/api/audit", nil, recruiterToken)
	require.Equal(t, http.StatusForbidden, w.Code)

	w = env.Request(http.MethodGet, "/api/audit", nil, rootToken)
	require.Equal(t, http.StatusOK, w.Code)
}
