package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clinic_crm_backend/internal/models"
	"clinic_crm_backend/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "anon-key", 5*time.Second)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestTableGetAll(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/suppliers", r.URL.Path)
		assert.Equal(t, "*", r.URL.Query().Get("select"))
		assert.Equal(t, "name.asc", r.URL.Query().Get("order"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer anon-key", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `[{"id":"s1","name":"Allergan","category":"Toxinas","rating":4}]`)
	})

	suppliers, err := NewGateways(client).Suppliers.GetAll(context.Background())

	require.NoError(t, err)
	require.Len(t, suppliers, 1)
	assert.Equal(t, "Allergan", suppliers[0].Name)
	assert.Equal(t, models.SupplierToxins, suppliers[0].Category)
}

func TestTableGetAll_EmptyTable(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[]`)
	})

	deals, err := NewGateways(client).Deals.GetAll(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, deals)
	assert.Empty(t, deals)
}

func TestTableGetAll_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"message":"relation does not exist"}`)
	})

	_, err := NewGateways(client).Clients.GetAll(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, repositories.ErrDatabaseError)
	assert.Contains(t, err.Error(), "relation does not exist")
}

func TestTableUpsert(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/rest/v1/suppliers", r.URL.Path)
		assert.Equal(t, "id", r.URL.Query().Get("on_conflict"))
		assert.Contains(t, r.Header.Get("Prefer"), "resolution=merge-duplicates")

		var rows []models.Supplier
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&rows))
		if assert.Len(t, rows, 1) {
			assert.Equal(t, "s1", rows[0].ID)
		}
		w.WriteHeader(http.StatusCreated)
	})

	err := NewGateways(client).Suppliers.Upsert(context.Background(), models.Supplier{ID: "s1", Name: "Allergan"})

	require.NoError(t, err)
}

func TestTableUpsert_Conflict(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusConflict, `{"code":"23505","message":"duplicate key value"}`)
	})

	err := NewStaffTable(client).Upsert(context.Background(), models.User{ID: "u1", Name: "Ana"})

	assert.ErrorIs(t, err, repositories.ErrDuplicateKey)
}

func TestTableDelete(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr error
	}{
		{name: "deleted", body: `[{"id":"c1"}]`},
		{name: "nothing matched", body: `[]`, wantErr: repositories.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodDelete, r.Method)
				assert.Equal(t, "eq.c1", r.URL.Query().Get("id"))
				writeJSON(w, http.StatusOK, tt.body)
			})

			err := NewGateways(client).Clients.Delete(context.Background(), "c1")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestAuthSignIn(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		var grant passwordGrant
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&grant))
		if grant.Password != "segredo123" {
			writeJSON(w, http.StatusBadRequest, `{"error":"invalid_grant","error_description":"Invalid login credentials"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"access_token":"tok","user":{"id":"u1","email":"ana@clinic.com"}}`)
	})
	auth := NewAuth(client)

	id, email, err := auth.SignIn(context.Background(), "ana@clinic.com", "segredo123")
	require.NoError(t, err)
	assert.Equal(t, "u1", id)
	assert.Equal(t, "ana@clinic.com", email)

	_, _, err = auth.SignIn(context.Background(), "ana@clinic.com", "errada")
	assert.ErrorIs(t, err, repositories.ErrInvalidCredentials)
}

func TestAuthFindUserByID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/profiles", r.URL.Path)
		if r.URL.Query().Get("id") == "eq.u1" {
			writeJSON(w, http.StatusOK, `[{"id":"u1","name":"Ana","email":"ana@clinic.com","role":"ADMIN","active":true}]`)
			return
		}
		writeJSON(w, http.StatusOK, `[]`)
	})
	auth := NewAuth(client)

	user, err := auth.FindUserByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	_, err = auth.FindUserByID(context.Background(), "u2")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestStorageUpload(t *testing.T) {
	var gotPath, gotType, gotBody string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		writeJSON(w, http.StatusOK, `{"Key":"clinical-photos/c1/foto 1.jpg"}`)
	})
	store := NewStorage(client, "clinical-photos")

	publicURL, err := store.Upload(context.Background(), "c1/foto 1.jpg", "image/jpeg", strings.NewReader("jpeg-bytes"))

	require.NoError(t, err)
	assert.Equal(t, "/storage/v1/object/clinical-photos/c1/foto%201.jpg", gotPath)
	assert.Equal(t, "image/jpeg", gotType)
	assert.Equal(t, "jpeg-bytes", gotBody)
	assert.True(t, strings.HasSuffix(publicURL, "/storage/v1/object/public/clinical-photos/c1/foto%201.jpg"))
}

func TestStorageRemove(t *testing.T) {
	var gotMethod, gotPath string
	var gotBody removeRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(w, http.StatusOK, `[]`)
	})
	store := NewStorage(client, "clinical-photos")

	err := store.Remove(context.Background(), "c1/foto 1.jpg")

	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/storage/v1/object/clinical-photos", gotPath)
	assert.Equal(t, []string{"c1/foto 1.jpg"}, gotBody.Prefixes)
}

func TestSettingsAppearance(t *testing.T) {
	var saved []settingRow
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/app_settings", r.URL.Path)
		switch r.Method {
		case http.MethodPost:
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&saved))
			w.WriteHeader(http.StatusCreated)
		case http.MethodGet:
			if len(saved) == 0 {
				writeJSON(w, http.StatusOK, `[]`)
				return
			}
			body, _ := json.Marshal(saved)
			writeJSON(w, http.StatusOK, string(body))
		}
	})
	settings := NewSettings(client)

	_, err := settings.GetAppearance(context.Background())
	assert.ErrorIs(t, err, repositories.ErrNotFound)

	require.NoError(t, settings.SaveAppearance(context.Background(), models.Appearance{PrimaryColor: "#000000", SecondaryColor: "#ffffff"}))
	appearance, err := settings.GetAppearance(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "#000000", appearance.PrimaryColor)
	assert.Equal(t, "appearance", saved[0].Key)
}
