package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"barberbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *recordingNavigator) Navigate(_ context.Context, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func newTestClient(t *testing.T, h http.Handler, tokens TokenStore, nav models.Navigator) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL, Tokens: tokens, Navigator: nav})
}

func TestAvailableProviders_MapsRows(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bookings/available-barbers", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2025-03-10", r.URL.Query().Get("date"))
		assert.Equal(t, "14:00", r.URL.Query().Get("time"))
		assert.Equal(t, "Bearer access-1", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"barbers": []map[string]interface{}{
					{"id": 1, "first_name": "Al", "specialty": "Master Barber - All Services", "rating": "5.00"},
					{"id": 9, "name": "Walk In", "specialty": "Apprentice", "rating": nil, "image": "/walkin.png"},
				},
			},
		})
	})

	c := newTestClient(t, mux, NewMemoryTokenStore("access-1", "refresh-1"), nil)
	providers, err := c.AvailableProviders(context.Background(), "2025-03-10", "14:00")
	require.NoError(t, err)
	require.Len(t, providers, 2)

	assert.Equal(t, "Al", providers[0].Name)
	assert.Equal(t, models.TierMaster, providers[0].Tier)
	require.NotNil(t, providers[0].Rating)
	assert.Equal(t, 5.0, *providers[0].Rating)
	assert.NotEmpty(t, providers[0].Avatar)

	assert.Equal(t, "Walk In", providers[1].Name)
	assert.Equal(t, models.TierNone, providers[1].Tier)
	assert.Nil(t, providers[1].Rating)
	assert.Equal(t, "/walkin.png", providers[1].Avatar)
}

func TestDo_ReturnsBackendMessage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bookings", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"success": false, "message": "Time slot already booked",
		})
	})

	c := newTestClient(t, mux, NewMemoryTokenStore("a", "r"), nil)
	_, err := c.CreateBooking(context.Background(), models.CreateBookingRequest{ServiceIDs: []int{1}})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Time slot already booked", MessageOf(err, "fallback"))
}

func TestCreateBooking_SendsIdempotencyKeyAndNullBarber(t *testing.T) {
	var keys []string
	mux := http.NewServeMux()
	mux.HandleFunc("/bookings", func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		v, present := body["barberId"]
		assert.True(t, present)
		assert.Nil(t, v)

		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"bookingId": 42,
				"assignedBarber": map[string]interface{}{
					"id": 3, "firstName": "Eric", "lastName": "S", "name": "Eric S", "specialty": "Senior Barber",
				},
			},
		})
	})

	c := newTestClient(t, mux, NewMemoryTokenStore("a", "r"), nil)
	req := models.CreateBookingRequest{ServiceIDs: []int{2}, BookingDate: "2025-03-10", BookingTime: "10:00"}
	for i := 0; i < 2; i++ {
		resp, err := c.CreateBooking(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, 42, resp.BookingID)
		require.NotNil(t, resp.AssignedProvider)
		assert.Equal(t, "Eric", resp.AssignedProvider.Name)
		assert.Equal(t, models.TierSenior, resp.AssignedProvider.Tier)
	}

	require.Len(t, keys, 2)
	assert.NotEmpty(t, keys[0])
	assert.NotEqual(t, keys[0], keys[1])
}

func TestDo_RefreshesOnceOn401(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/bookings", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.Header.Get("Authorization") != "Bearer fresh" {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "expired"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true, "data": map[string]interface{}{"bookings": []interface{}{}},
		})
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "refresh-1", body["refreshToken"])
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true, "data": map[string]string{"accessToken": "fresh"},
		})
	})

	tokens := NewMemoryTokenStore("stale", "refresh-1")
	c := newTestClient(t, mux, tokens, nil)
	records, err := c.ListMyBookings(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 2, calls)
	assert.Equal(t, "fresh", tokens.AccessToken(context.Background()))
}

func TestDo_FailedRefreshClearsTokensAndRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bookings/all", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false})
	})
	mux.HandleFunc("/auth/refresh-token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"success": false, "message": "Invalid or expired refresh token"})
	})

	tokens := NewMemoryTokenStore("stale", "bad")
	nav := &recordingNavigator{}
	c := newTestClient(t, mux, tokens, nav)

	_, err := c.ListAllBookings(context.Background())
	require.Error(t, err)
	assert.Empty(t, tokens.AccessToken(context.Background()))
	assert.Empty(t, tokens.RefreshToken(context.Background()))
	assert.Equal(t, []string{"/login"}, nav.paths)
}

func TestListAllBookings_MapsAdminRows(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bookings/all", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"bookings": []map[string]interface{}{
					{
						"id": 7, "booking_date": "2025-03-10T00:00:00.000Z", "booking_time": "14:30:00",
						"status": "pending", "total_price": "60.00", "created_at": "2025-03-01T09:00:00Z",
						"service_name": "Buzz Cut", "customer_first_name": "Ann", "customer_last_name": "Lee",
						"customer_email": "ann@example.com", "barber_first_name": nil, "barber_last_name": nil,
						"payment_status": "pending", "card_brand": "visa", "card_last_4": "4242",
					},
				},
			},
		})
	})

	c := newTestClient(t, mux, NewMemoryTokenStore("a", "r"), nil)
	records, err := c.ListAllBookings(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, 7, rec.ID)
	assert.Equal(t, "2025-03-10", rec.Date)
	assert.Equal(t, "14:30", rec.Time)
	assert.Equal(t, "60", rec.TotalPrice.String())
	assert.Equal(t, "Ann Lee", rec.CustomerName)
	assert.Equal(t, models.AnyAvailableName, rec.ProviderName)
	assert.Equal(t, "4242", rec.CardLast4)
	assert.Equal(t, models.StatusPending, rec.Status)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestUpdateBookingStatus_SendsStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/bookings/7/status", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "confirmed", body["status"])
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "message": "ok"})
	})

	c := newTestClient(t, mux, NewMemoryTokenStore("a", "r"), nil)
	require.NoError(t, c.UpdateBookingStatus(context.Background(), 7, models.StatusConfirmed))
}

func TestVerifyCard(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/payments/verify-card", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "pm_123", body["paymentMethodId"])
		assert.Equal(t, "ann@example.com", body["email"])
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"customerId": "cus_1", "paymentMethodId": "pm_123",
				"cardBrand": "visa", "cardLast4": "4242", "verified": true,
			},
		})
	})

	c := newTestClient(t, mux, NewMemoryTokenStore("a", "r"), nil)
	v, err := c.VerifyCard(context.Background(), "pm_123", models.CardHolder{Email: "ann@example.com", Name: "Ann Lee"})
	require.NoError(t, err)
	assert.Equal(t, "cus_1", v.CustomerID)
	assert.Equal(t, "4242", v.CardLast4)
}

func TestContextTokenStore(t *testing.T) {
	creds := &Credentials{Access: "a", Refresh: "r"}
	ctx := WithCredentials(context.Background(), creds)
	var store ContextTokenStore

	assert.Equal(t, "a", store.AccessToken(ctx))
	store.SetAccessToken(ctx, "b")
	assert.Equal(t, "b", creds.Access)
	assert.True(t, creds.Refreshed())

	store.Clear(ctx)
	assert.Empty(t, store.RefreshToken(ctx))
	assert.Empty(t, store.AccessToken(context.Background()))
}
