package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ieltsprep/internal/cache"
	"ieltsprep/internal/model"
	"ieltsprep/internal/repository/memory"
	"ieltsprep/internal/service"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConn(hub *Hub, classID, userID string, role model.Role) *Connection {
	return &Connection{ClassID: classID, UserID: userID, Role: role, Send: make(chan []byte, 4), Hub: hub}
}

func receive(t *testing.T, conn *Connection) Message {
	t.Helper()
	select {
	case data := <-conn.Send:
		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(2 * time.Second):
		t.Fatal("no message")
	}
	return Message{}
}

func TestHubBroadcastsByRole(t *testing.T) {
	hub := NewHub()
	defer hub.Stop()

	teacher := newConn(hub, "c1", "t1", model.RoleTeacher)
	student := newConn(hub, "c1", "s1", model.RoleStudent)
	elsewhere := newConn(hub, "c2", "s2", model.RoleStudent)
	for _, c := range []*Connection{teacher, student, elsewhere} {
		hub.Register(c)
	}
	assert.Eventually(t, func() bool {
		return len(hub.ActiveClasses()) == 2
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"c1", "c2"}, hub.ActiveClasses())

	hub.BroadcastToClass("c1", model.RoleStudent, string(MsgClassSnapshot), map[string]string{"classId": "c1"})

	msg := receive(t, student)
	assert.Equal(t, MsgClassSnapshot, msg.Type)
	assert.JSONEq(t, `{"classId":"c1"}`, string(msg.Payload))

	// the teacher message queued after the student one proves nothing else was sent
	hub.BroadcastToClass("c1", model.RoleTeacher, string(MsgClassSnapshot), map[string]string{"for": "teacher"})
	msg = receive(t, teacher)
	assert.JSONEq(t, `{"for":"teacher"}`, string(msg.Payload))
	assert.Empty(t, elsewhere.Send)
	assert.Empty(t, student.Send)

	hub.Unregister(elsewhere)
	assert.Eventually(t, func() bool {
		return len(hub.ActiveClasses()) == 1
	}, time.Second, 10*time.Millisecond)
	_, open := <-elsewhere.Send
	assert.False(t, open)
}

func TestOriginChecker(t *testing.T) {
	check := originChecker("https://app.example.com, https://admin.example.com")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, check(req), "no origin header")

	req.Header.Set("Origin", "https://admin.example.com")
	assert.True(t, check(req))

	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, check(req))

	assert.True(t, originChecker("*")(req))
}

func TestClassWSSendsSnapshot(t *testing.T) {
	ctx := context.Background()
	classRepo := memory.NewClassRepo()
	classes := service.NewClassService(classRepo)
	assignments := service.NewAssignmentService(memory.NewAssignmentRepo(), memory.NewFolderRepo(),
		memory.NewSubmissionRepo(), cache.NewMemoryAnalyticsCache(), cache.NewMemoryRankingCache(), classes)
	auth := service.NewAuthService("secret", time.Hour)

	class, err := classes.CreateClass(ctx, model.Principal{UserID: "t1", Role: model.RoleTeacher},
		service.CreateClassRequest{Name: "Band 7", StudentIDs: []string{"s1"}})
	require.NoError(t, err)

	hub := NewHub()
	defer hub.Stop()
	h := NewHandler(hub, auth, assignments, "*")

	r := mux.NewRouter()
	r.HandleFunc("/v1/ws/classes/{classId}", h.ClassWS)
	srv := httptest.NewServer(r)
	defer srv.Close()
	base := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/ws/classes/" + class.ID

	t.Run("missing token", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(base, nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("not enrolled", func(t *testing.T) {
		token, err := auth.IssueToken("s9", model.RoleStudent)
		require.NoError(t, err)
		_, resp, err := websocket.DefaultDialer.Dial(base+"?token="+token, nil)
		require.Error(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("enrolled student", func(t *testing.T) {
		token, err := auth.IssueToken("s1", model.RoleStudent)
		require.NoError(t, err)
		conn, _, err := websocket.DefaultDialer.Dial(base+"?token="+token, nil)
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var msg Message
		require.NoError(t, conn.ReadJSON(&msg))
		assert.Equal(t, MsgClassSnapshot, msg.Type)

		var snap model.ClassSnapshot
		require.NoError(t, json.Unmarshal(msg.Payload, &snap))
		assert.Equal(t, class.ID, snap.ClassID)
	})
}

func TestClassFeedMessagesMatchHubType(t *testing.T) {
	ctx := context.Background()
	classRepo := memory.NewClassRepo()
	assignmentRepo := memory.NewAssignmentRepo()
	classes := service.NewClassService(classRepo)
	assignments := service.NewAssignmentService(assignmentRepo, memory.NewFolderRepo(),
		memory.NewSubmissionRepo(), cache.NewMemoryAnalyticsCache(), cache.NewMemoryRankingCache(), classes)

	class, err := classes.CreateClass(ctx, model.Principal{UserID: "t1", Role: model.RoleTeacher},
		service.CreateClassRequest{Name: "Band 7", StudentIDs: []string{"s1"}})
	require.NoError(t, err)

	hub := NewHub()
	defer hub.Stop()
	student := newConn(hub, class.ID, "s1", model.RoleStudent)
	hub.Register(student)
	assert.Eventually(t, func() bool {
		return len(hub.ActiveClasses()) == 1
	}, time.Second, 10*time.Millisecond)

	service.NewClassFeed(assignmentRepo, assignments, hub).Refresh(ctx, class.ID)

	msg := receive(t, student)
	assert.Equal(t, MsgClassSnapshot, msg.Type)
	var snap model.ClassSnapshot
	require.NoError(t, json.Unmarshal(msg.Payload, &snap))
	assert.Equal(t, class.ID, snap.ClassID)
}
