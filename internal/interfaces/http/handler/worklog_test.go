package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskAPI_Lifecycle(t *testing.T) {
	engine := newTestServer(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/tasks", map[string]any{
		"subject":      "Chase overdue payment",
		"priority":     "HIGH",
		"start_date":   "2026-01-15T00:00:00Z",
		"hourly_rate":  "50",
		"billable":     true,
		"related_type": "invoice",
		"related_ref":  "INV-000001",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Data struct {
			ID      string `json:"id"`
			Status  string `json:"status"`
			Public  bool   `json:"public"`
			Subject string `json:"subject"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "OPEN", created.Data.Status)
	assert.True(t, created.Data.Public)

	base := "/api/v1/tasks/" + created.Data.ID

	w = doJSON(t, engine, http.MethodPost, base+"/status", map[string]any{"status": "COMPLETED"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Completed is terminal
	w = doJSON(t, engine, http.MethodPost, base+"/status", map[string]any{"status": "OPEN"}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/tasks?status=COMPLETED", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed.Data, 1)
	assert.Equal(t, created.Data.ID, listed.Data[0].ID)
}

func TestTaskAPI_RejectsMissingStartDate(t *testing.T) {
	engine := newTestServer(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/tasks", map[string]any{
		"subject": "Chase payment",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTicketAPI_ContactSnapshot(t *testing.T) {
	engine := newTestServer(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/contacts", map[string]any{
		"name":  "Acme Traders",
		"type":  "CUSTOMER",
		"email": "sales@acme.example",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var contact struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &contact))

	w = doJSON(t, engine, http.MethodPost, "/api/v1/tickets", map[string]any{
		"subject":    "Printer not working",
		"contact_id": contact.Data.ID,
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var ticket struct {
		Data struct {
			ID             string `json:"id"`
			RequesterName  string `json:"requester_name"`
			RequesterEmail string `json:"requester_email"`
			Priority       string `json:"priority"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ticket))
	assert.Equal(t, "Acme Traders", ticket.Data.RequesterName)
	assert.Equal(t, "sales@acme.example", ticket.Data.RequesterEmail)
	assert.Equal(t, "MEDIUM", ticket.Data.Priority)

	// The snapshot survives deletion of the contact
	w = doJSON(t, engine, http.MethodDelete, "/api/v1/contacts/"+contact.Data.ID, nil, nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, engine, http.MethodGet, "/api/v1/tickets/"+ticket.Data.ID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var loaded struct {
		Data struct {
			RequesterName string `json:"requester_name"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loaded))
	assert.Equal(t, "Acme Traders", loaded.Data.RequesterName)
}

func TestTicketAPI_RequiresRequester(t *testing.T) {
	engine := newTestServer(t)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/tickets", map[string]any{
		"subject": "Login issue",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}
