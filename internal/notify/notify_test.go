package notify

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNullChannelIsNoOp(t *testing.T) {
	var ch NullChannel
	if err := ch.Notify(context.Background(), "subject", "body"); err != nil {
		t.Errorf("null channel should never fail: %v", err)
	}
}

func TestSMSChannelIsNoOp(t *testing.T) {
	ch := SMSChannel{PhoneNumber: "+1234567890"}
	if err := ch.Notify(context.Background(), "subject", "body"); err != nil {
		t.Errorf("sms placeholder should never fail: %v", err)
	}
}

type recordingChannel struct {
	name     string
	subjects []string
	err      error
}

func (r *recordingChannel) Name() string { return r.name }

func (r *recordingChannel) Notify(_ context.Context, subject, _ string) error {
	r.subjects = append(r.subjects, subject)
	return r.err
}

func TestDispatcherReachesAllChannels(t *testing.T) {
	a := &recordingChannel{name: "a"}
	b := &recordingChannel{name: "b", err: errors.New("boom")}
	c := &recordingChannel{name: "c"}

	d := NewDispatcher(a, b, c)
	d.Dispatch(context.Background(), "alert", "details")

	for _, ch := range []*recordingChannel{a, b, c} {
		if len(ch.subjects) != 1 || ch.subjects[0] != "alert" {
			t.Errorf("channel %s did not receive the notification: %v", ch.name, ch.subjects)
		}
	}
}

func TestTelegramChannelPostsMessage(t *testing.T) {
	var gotPath, gotChat, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if err := r.ParseForm(); err != nil {
			t.Fatal(err)
		}
		gotChat = r.FormValue("chat_id")
		gotText = r.FormValue("text")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ch := TelegramChannel{
		BotToken: "token123",
		ChatID:   "42",
		Client:   srv.Client(),
		BaseURL:  srv.URL,
	}
	if err := ch.Notify(context.Background(), "Device offline", "192.168.1.50 stopped responding"); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if gotPath != "/bottoken123/sendMessage" {
		t.Errorf("path = %q", gotPath)
	}
	if gotChat != "42" {
		t.Errorf("chat_id = %q", gotChat)
	}
	if gotText != "Device offline\n192.168.1.50 stopped responding" {
		t.Errorf("text = %q", gotText)
	}
}

func TestTelegramChannelReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer srv.Close()

	ch := TelegramChannel{BotToken: "bad", ChatID: "42", Client: srv.Client(), BaseURL: srv.URL}
	if err := ch.Notify(context.Background(), "s", "b"); err == nil {
		t.Error("non-200 response should surface as an error")
	}
}
