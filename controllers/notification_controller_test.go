package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/thanhtike404/hotel-booking/delivery"
	"github.com/thanhtike404/hotel-booking/middleware"
	"github.com/thanhtike404/hotel-booking/models"
	"github.com/thanhtike404/hotel-booking/repositories"
)

// fakeNotificationStore is an in-memory NotificationStore.
type fakeNotificationStore struct {
	items map[primitive.ObjectID]*models.Notification
	// failWith, when set, makes every call fail with this error.
	failWith error
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{items: make(map[primitive.ObjectID]*models.Notification)}
}

func (f *fakeNotificationStore) Create(ctx context.Context, userID primitive.ObjectID, message string, bookingID *primitive.ObjectID, status models.NotificationStatus) (*models.Notification, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	n := &models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Message:   message,
		BookingID: bookingID,
		Status:    status,
		IsRead:    false,
		CreatedAt: time.Now(),
	}
	f.items[n.ID] = n
	return n, nil
}

func (f *fakeNotificationStore) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := []models.Notification{}
	for _, n := range f.items {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeNotificationStore) MarkRead(ctx context.Context, id primitive.ObjectID, isRead bool) (*models.Notification, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	n, ok := f.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	n.IsRead = isRead
	return n, nil
}

func (f *fakeNotificationStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.NotificationStatus) (*models.Notification, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	n, ok := f.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	n.Status = status
	return n, nil
}

func (f *fakeNotificationStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.items[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeNotificationStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Notification, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	n, ok := f.items[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return n, nil
}

type fakeBookingStore struct {
	bookings map[primitive.ObjectID]*models.Booking
}

func (f *fakeBookingStore) Get(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return b, nil
}

type fakeUserStore struct {
	users  map[primitive.ObjectID]*models.User
	admins []models.User
}

func (f *fakeUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) ListAdmins(ctx context.Context) ([]models.User, error) {
	return f.admins, nil
}

func setupController(t *testing.T) (*NotificationController, *fakeNotificationStore, *fakeBookingStore, *fakeUserStore) {
	t.Helper()
	store := newFakeNotificationStore()
	bookings := &fakeBookingStore{bookings: make(map[primitive.ObjectID]*models.Booking)}
	users := &fakeUserStore{users: make(map[primitive.ObjectID]*models.User)}
	gateway := delivery.NewGateway(delivery.NewLogStrategy(true))
	return NewNotificationController(store, bookings, users, gateway), store, bookings, users
}

func newRequestContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func authenticate(c echo.Context, userID, role string) {
	c.Set("user", &jwt.Token{Claims: &middleware.JwtCustomClaims{
		UserID: userID,
		Email:  "test@example.com",
		Role:   role,
	}})
}

func TestCreateNotification(t *testing.T) {
	nc, store, _, _ := setupController(t)
	userID := primitive.NewObjectID()

	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/notifications",
		`{"userId":"`+userID.Hex()+`","message":"Booking request"}`)
	authenticate(c, userID.Hex(), models.RoleUser)

	if err := nc.CreateNotification(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success      bool                `json:"success"`
		Notification models.Notification `json:"notification"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success {
		t.Error("expected success=true")
	}
	if resp.Notification.IsRead {
		t.Error("new notifications must start unread")
	}
	if len(store.items) != 1 {
		t.Errorf("expected 1 stored notification, got %d", len(store.items))
	}
}

func TestCreateNotificationUnauthorized(t *testing.T) {
	nc, store, _, _ := setupController(t)

	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/notifications",
		`{"userId":"`+primitive.NewObjectID().Hex()+`","message":"m"}`)

	nc.CreateNotification(c)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 without claims, got %d", rec.Code)
	}
	if len(store.items) != 0 {
		t.Error("no notification should be stored for an unauthorized request")
	}
}

func TestCreateNotificationValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing message", `{"userId":"` + primitive.NewObjectID().Hex() + `"}`},
		{"missing userId", `{"message":"m"}`},
		{"bad userId", `{"userId":"not-an-object-id","message":"m"}`},
		{"bad bookingId", `{"userId":"` + primitive.NewObjectID().Hex() + `","message":"m","bookingId":"nope"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			nc, store, _, _ := setupController(t)
			c, rec := newRequestContext(t, http.MethodPost, "/api/v1/notifications", tc.body)
			authenticate(c, primitive.NewObjectID().Hex(), models.RoleUser)

			nc.CreateNotification(c)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected 400, got %d", rec.Code)
			}
			if len(store.items) != 0 {
				t.Error("invalid input must not reach the store")
			}
		})
	}
}

func TestCreateNotificationStoreFailure(t *testing.T) {
	nc, store, _, _ := setupController(t)
	store.failWith = repositories.ErrStoreUnavailable

	c, rec := newRequestContext(t, http.MethodPost, "/api/v1/notifications",
		`{"userId":"`+primitive.NewObjectID().Hex()+`","message":"m"}`)
	authenticate(c, primitive.NewObjectID().Hex(), models.RoleUser)

	nc.CreateNotification(c)
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("store failure must surface as 500, got %d", rec.Code)
	}
}

func TestGetNotifications(t *testing.T) {
	nc, store, _, _ := setupController(t)
	userID := primitive.NewObjectID()
	otherID := primitive.NewObjectID()

	first, _ := store.Create(context.Background(), userID, "older", nil, "")
	first.CreatedAt = time.Now().Add(-time.Hour)
	store.Create(context.Background(), userID, "newer", nil, "")
	store.Create(context.Background(), otherID, "someone else's", nil, "")

	c, rec := newRequestContext(t, http.MethodGet, "/api/v1/notifications?userId="+userID.Hex(), "")

	if err := nc.GetNotifications(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var notifications []models.Notification
	if err := json.Unmarshal(rec.Body.Bytes(), &notifications); err != nil {
		t.Fatal(err)
	}
	if len(notifications) != 2 {
		t.Fatalf("expected 2 notifications for user, got %d", len(notifications))
	}
	if notifications[0].Message != "newer" {
		t.Error("notifications should be ordered newest-first")
	}
}

func TestGetNotificationsRequiresUserID(t *testing.T) {
	nc, _, _, _ := setupController(t)
	c, rec := newRequestContext(t, http.MethodGet, "/api/v1/notifications", "")

	nc.GetNotifications(c)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without userId, got %d", rec.Code)
	}
}

func TestGetNotification(t *testing.T) {
	nc, store, _, _ := setupController(t)
	n, _ := store.Create(context.Background(), primitive.NewObjectID(), "single", nil, "")

	c, rec := newRequestContext(t, http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(n.ID.Hex())

	if err := nc.GetNotification(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var got models.Notification
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != n.ID || got.Message != "single" {
		t.Errorf("unexpected notification %+v", got)
	}
}

func TestGetNotificationNotFound(t *testing.T) {
	nc, _, _, _ := setupController(t)

	c, rec := newRequestContext(t, http.MethodGet, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(primitive.NewObjectID().Hex())

	nc.GetNotification(c)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}

	c2, rec2 := newRequestContext(t, http.MethodGet, "/", "")
	c2.SetParamNames("id")
	c2.SetParamValues("not-an-object-id")
	nc.GetNotification(c2)
	if rec2.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed id, got %d", rec2.Code)
	}
}

func TestMarkRead(t *testing.T) {
	nc, store, _, _ := setupController(t)
	n, _ := store.Create(context.Background(), primitive.NewObjectID(), "m", nil, "")

	c, rec := newRequestContext(t, http.MethodPatch, "/", `{"isRead":true}`)
	c.SetParamNames("id")
	c.SetParamValues(n.ID.Hex())

	if err := nc.MarkRead(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !store.items[n.ID].IsRead {
		t.Error("notification should be marked read")
	}

	// Marking read twice is idempotent.
	c2, rec2 := newRequestContext(t, http.MethodPatch, "/", `{"isRead":true}`)
	c2.SetParamNames("id")
	c2.SetParamValues(n.ID.Hex())
	nc.MarkRead(c2)
	if rec2.Code != http.StatusOK {
		t.Errorf("repeated mark-read should still succeed, got %d", rec2.Code)
	}
}

func TestMarkReadNotFound(t *testing.T) {
	nc, _, _, _ := setupController(t)

	c, rec := newRequestContext(t, http.MethodPatch, "/", `{"isRead":true}`)
	c.SetParamNames("id")
	c.SetParamValues(primitive.NewObjectID().Hex())

	nc.MarkRead(c)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown notification, got %d", rec.Code)
	}
}

func TestMarkReadRequiresBody(t *testing.T) {
	nc, store, _, _ := setupController(t)
	n, _ := store.Create(context.Background(), primitive.NewObjectID(), "m", nil, "")

	c, rec := newRequestContext(t, http.MethodPatch, "/", `{}`)
	c.SetParamNames("id")
	c.SetParamValues(n.ID.Hex())

	nc.MarkRead(c)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without isRead field, got %d", rec.Code)
	}
}

func TestUpdateStatusValidatesEnum(t *testing.T) {
	nc, store, _, _ := setupController(t)
	n, _ := store.Create(context.Background(), primitive.NewObjectID(), "m", nil, models.NotificationRequested)

	c, rec := newRequestContext(t, http.MethodPatch, "/", `{"status":"MAYBE"}`)
	c.SetParamNames("id")
	c.SetParamValues(n.ID.Hex())

	nc.UpdateStatus(c)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown status, got %d", rec.Code)
	}
	if store.items[n.ID].Status != models.NotificationRequested {
		t.Error("rejected update must not change the stored status")
	}
}

func TestUpdateStatusAccepted(t *testing.T) {
	nc, store, bookings, users := setupController(t)

	guestID := primitive.NewObjectID()
	bookingID := primitive.NewObjectID()
	bookings.bookings[bookingID] = &models.Booking{
		ID:     bookingID,
		UserID: guestID,
		Status: models.BookingPending,
	}
	adminID := primitive.NewObjectID()
	users.admins = []models.User{{ID: adminID, Role: models.RoleAdmin}}

	n, _ := store.Create(context.Background(), adminID, "Booking request", &bookingID, models.NotificationRequested)

	c, rec := newRequestContext(t, http.MethodPatch, "/", `{"status":"ACCEPTED"}`)
	c.SetParamNames("id")
	c.SetParamValues(n.ID.Hex())

	if err := nc.UpdateStatus(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success      bool                `json:"success"`
		Notification models.Notification `json:"notification"`
		Message      string              `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Notification.Status != models.NotificationAccepted {
		t.Errorf("expected ACCEPTED, got %s", resp.Notification.Status)
	}
	if resp.Message != "Booking accepted" {
		t.Errorf("unexpected decision message %q", resp.Message)
	}
}

func TestUpdateStatusNotFound(t *testing.T) {
	nc, _, _, _ := setupController(t)

	c, rec := newRequestContext(t, http.MethodPatch, "/", `{"status":"ACCEPTED"}`)
	c.SetParamNames("id")
	c.SetParamValues(primitive.NewObjectID().Hex())

	nc.UpdateStatus(c)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestDeleteNotification(t *testing.T) {
	nc, store, _, _ := setupController(t)
	n, _ := store.Create(context.Background(), primitive.NewObjectID(), "m", nil, "")

	c, rec := newRequestContext(t, http.MethodDelete, "/", "")
	c.SetParamNames("id")
	c.SetParamValues(n.ID.Hex())

	if err := nc.DeleteNotification(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204, got %d", rec.Code)
	}
	if len(store.items) != 0 {
		t.Error("notification should be removed from the store")
	}

	// Deleting again reports not found.
	c2, rec2 := newRequestContext(t, http.MethodDelete, "/", "")
	c2.SetParamNames("id")
	c2.SetParamValues(n.ID.Hex())
	nc.DeleteNotification(c2)
	if rec2.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", rec2.Code)
	}
}
