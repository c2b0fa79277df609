package scheduling_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gymdesk/internal/schedule"
)

func bookSession(t *testing.T, router *gin.Engine, token string, trainerID, roomID int, date, start, end string) *httptest.ResponseRecorder {
	t.Helper()
	body := fmt.Sprintf(`{"trainer_id":%d,"room_id":%d,"date":"%s","start_time":"%s","end_time":"%s"}`,
		trainerID, roomID, date, start, end)
	req := httptest.NewRequest("POST", "/sessions", bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSessionBookingIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	router := newTestRouter(db)

	t.Run("Same slot rejected, adjacent slot allowed", func(t *testing.T) {
		cleanDatabase(t, db)

		trainerID := createTestUser(t, db, "trainer@example.com", "Trainer", "trainer")
		roomID := createTestRoom(t, db, "Studio A")
		m1 := createTestUser(t, db, "m1@example.com", "Member One", "member")
		m2 := createTestUser(t, db, "m2@example.com", "Member Two", "member")

		token1 := generateTestToken(m1, "m1@example.com", "member")
		token2 := generateTestToken(m2, "m2@example.com", "member")
		date := schedule.FormatDate(nextWeekday(time.Tuesday))

		w1 := bookSession(t, router, token1, trainerID, roomID, date, "10:00", "11:00")
		assert.Equal(t, http.StatusCreated, w1.Code)

		// Overlapping slot with the same trainer
		w2 := bookSession(t, router, token2, trainerID, roomID, date, "10:30", "11:30")
		assert.Equal(t, http.StatusConflict, w2.Code)
		assert.Contains(t, w2.Body.String(), "trainer")

		// Back to back with the first session
		w3 := bookSession(t, router, token2, trainerID, roomID, date, "11:00", "12:00")
		assert.Equal(t, http.StatusCreated, w3.Code)
	})

	t.Run("Weekly class blocks sessions on its weekday only", func(t *testing.T) {
		cleanDatabase(t, db)

		classTrainer := createTestUser(t, db, "classtrainer@example.com", "Class Trainer", "trainer")
		sessionTrainer := createTestUser(t, db, "sesstrainer@example.com", "Session Trainer", "trainer")
		roomID := createTestRoom(t, db, "Studio A")
		createTestClass(t, db, classTrainer, roomID, "Monday", "10:00", "11:00", 10)

		m1 := createTestUser(t, db, "m1@example.com", "Member One", "member")
		token1 := generateTestToken(m1, "m1@example.com", "member")

		// The room is taken by the class on Mondays
		monday := schedule.FormatDate(nextWeekday(time.Monday))
		w := bookSession(t, router, token1, sessionTrainer, roomID, monday, "10:30", "11:30")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), "room")

		// The same slot on a Tuesday is free
		tuesday := schedule.FormatDate(nextWeekday(time.Tuesday))
		w = bookSession(t, router, token1, sessionTrainer, roomID, tuesday, "10:30", "11:30")
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Past date rejected", func(t *testing.T) {
		cleanDatabase(t, db)

		trainerID := createTestUser(t, db, "trainer@example.com", "Trainer", "trainer")
		roomID := createTestRoom(t, db, "Studio A")
		m1 := createTestUser(t, db, "m1@example.com", "Member One", "member")
		token1 := generateTestToken(m1, "m1@example.com", "member")

		yesterday := schedule.FormatDate(time.Now().AddDate(0, 0, -1))
		w := bookSession(t, router, token1, trainerID, roomID, yesterday, "10:00", "11:00")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "past")
	})
}

func TestSessionRescheduleIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	db := setupTestDB(t)
	defer db.Close()

	router := newTestRouter(db)

	reschedule := func(token string, sessionID int, date, start, end string) *httptest.ResponseRecorder {
		body := fmt.Sprintf(`{"date":"%s","start_time":"%s","end_time":"%s"}`, date, start, end)
		req := httptest.NewRequest("PUT", fmt.Sprintf("/sessions/%d", sessionID), bytes.NewBufferString(body))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	sessionID := func(t *testing.T, w *httptest.ResponseRecorder) int {
		t.Helper()
		var created map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		return int(created["id"].(float64))
	}

	t.Run("Reschedule to own slot always succeeds", func(t *testing.T) {
		cleanDatabase(t, db)

		trainerID := createTestUser(t, db, "trainer@example.com", "Trainer", "trainer")
		roomID := createTestRoom(t, db, "Studio A")
		m1 := createTestUser(t, db, "m1@example.com", "Member One", "member")
		token1 := generateTestToken(m1, "m1@example.com", "member")
		date := schedule.FormatDate(nextWeekday(time.Tuesday))

		w := bookSession(t, router, token1, trainerID, roomID, date, "10:00", "11:00")
		require.Equal(t, http.StatusCreated, w.Code)
		id := sessionID(t, w)

		assert.Equal(t, http.StatusOK, reschedule(token1, id, date, "10:00", "11:00").Code)
	})

	t.Run("Reschedule onto another booking rejected", func(t *testing.T) {
		cleanDatabase(t, db)

		trainerID := createTestUser(t, db, "trainer@example.com", "Trainer", "trainer")
		roomID := createTestRoom(t, db, "Studio A")
		m1 := createTestUser(t, db, "m1@example.com", "Member One", "member")
		m2 := createTestUser(t, db, "m2@example.com", "Member Two", "member")
		token1 := generateTestToken(m1, "m1@example.com", "member")
		token2 := generateTestToken(m2, "m2@example.com", "member")
		date := schedule.FormatDate(nextWeekday(time.Tuesday))

		require.Equal(t, http.StatusCreated, bookSession(t, router, token1, trainerID, roomID, date, "10:00", "11:00").Code)
		w := bookSession(t, router, token2, trainerID, roomID, date, "12:00", "13:00")
		require.Equal(t, http.StatusCreated, w.Code)
		id := sessionID(t, w)

		wR := reschedule(token2, id, date, "10:30", "11:30")
		assert.Equal(t, http.StatusConflict, wR.Code)
	})

	t.Run("Only the owner can reschedule or cancel", func(t *testing.T) {
		cleanDatabase(t, db)

		trainerID := createTestUser(t, db, "trainer@example.com", "Trainer", "trainer")
		roomID := createTestRoom(t, db, "Studio A")
		m1 := createTestUser(t, db, "m1@example.com", "Member One", "member")
		m2 := createTestUser(t, db, "m2@example.com", "Member Two", "member")
		token1 := generateTestToken(m1, "m1@example.com", "member")
		token2 := generateTestToken(m2, "m2@example.com", "member")
		date := schedule.FormatDate(nextWeekday(time.Tuesday))

		w := bookSession(t, router, token1, trainerID, roomID, date, "10:00", "11:00")
		require.Equal(t, http.StatusCreated, w.Code)
		id := sessionID(t, w)

		assert.Equal(t, http.StatusForbidden, reschedule(token2, id, date, "14:00", "15:00").Code)

		reqC := httptest.NewRequest("DELETE", fmt.Sprintf("/sessions/%d", id), nil)
		reqC.Header.Set("Authorization", "Bearer "+token2)
		wC := httptest.NewRecorder()
		router.ServeHTTP(wC, reqC)
		assert.Equal(t, http.StatusForbidden, wC.Code)
	})

	t.Run("Canceled session frees the slot and cannot be moved", func(t *testing.T) {
		cleanDatabase(t, db)

		trainerID := createTestUser(t, db, "trainer@example.com", "Trainer", "trainer")
		roomID := createTestRoom(t, db, "Studio A")
		m1 := createTestUser(t, db, "m1@example.com", "Member One", "member")
		m2 := createTestUser(t, db, "m2@example.com", "Member Two", "member")
		token1 := generateTestToken(m1, "m1@example.com", "member")
		token2 := generateTestToken(m2, "m2@example.com", "member")
		date := schedule.FormatDate(nextWeekday(time.Tuesday))

		w := bookSession(t, router, token1, trainerID, roomID, date, "10:00", "11:00")
		require.Equal(t, http.StatusCreated, w.Code)
		id := sessionID(t, w)

		reqC := httptest.NewRequest("DELETE", fmt.Sprintf("/sessions/%d", id), nil)
		reqC.Header.Set("Authorization", "Bearer "+token1)
		wC := httptest.NewRecorder()
		router.ServeHTTP(wC, reqC)
		require.Equal(t, http.StatusOK, wC.Code)

		// The slot is free again
		assert.Equal(t, http.StatusCreated, bookSession(t, router, token2, trainerID, roomID, date, "10:00", "11:00").Code)

		// Canceled is terminal
		assert.Equal(t, http.StatusConflict, reschedule(token1, id, date, "14:00", "15:00").Code)
	})
}
