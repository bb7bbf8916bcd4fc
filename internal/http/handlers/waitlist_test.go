package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"timeflow/internal/sqlinline"
)

type stubResolver struct {
	code string
	err  error
}

func (s stubResolver) CountryCode(string) (string, error) { return s.code, s.err }

func TestWaitlistJoinEnrichesCountry(t *testing.T) {
	userID := "11111111-1111-1111-1111-111111111111"
	sql := newFakeSQL()
	sql.rowFn[queryMarker(sqlinline.QUpsertWaitlistEntry)] = func(args ...any) simpleRow {
		if got := args[5].(string); got != "ID" {
			t.Fatalf("country arg = %q, want ID", got)
		}
		return simpleRow{scan: func(dest ...any) error {
			scanInto(dest[0], "33333333-3333-3333-3333-333333333333")
			return nil
		}}
	}
	app := newTestApp(sql)
	app.GeoIP = stubResolver{code: "ID"}

	w := httptest.NewRecorder()
	r := authedRequest(http.MethodPost, "/v1/waitlist",
		`{"name":"Ari","email":"ari@b.com","feedback":"soon please","interested_features":["offline"]}`, userID)
	r.RemoteAddr = "203.0.113.9:4432"
	app.WaitlistJoin(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	body := decodeBody(t, w)
	if body["country_code"] != "ID" {
		t.Fatalf("unexpected payload: %s", w.Body.String())
	}
}

func TestWaitlistJoinWithoutResolver(t *testing.T) {
	userID := "11111111-1111-1111-1111-111111111111"
	sql := newFakeSQL()
	sql.rowFn[queryMarker(sqlinline.QUpsertWaitlistEntry)] = func(args ...any) simpleRow {
		if got := args[5].(string); got != "" {
			t.Fatalf("country arg = %q, want empty", got)
		}
		return simpleRow{scan: func(dest ...any) error {
			scanInto(dest[0], "33333333-3333-3333-3333-333333333333")
			return nil
		}}
	}
	app := newTestApp(sql)

	w := httptest.NewRecorder()
	app.WaitlistJoin(w, authedRequest(http.MethodPost, "/v1/waitlist",
		`{"email":"ari@b.com"}`, userID))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
}

func TestWaitlistJoinRejectsBadEmail(t *testing.T) {
	app := newTestApp(newFakeSQL())

	w := httptest.NewRecorder()
	app.WaitlistJoin(w, authedRequest(http.MethodPost, "/v1/waitlist",
		`{"email":"nope"}`, "11111111-1111-1111-1111-111111111111"))

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}
