package feature

import (
	"testing"
)

func TestFind(t *testing.T) {
	msg := &DialogMessage{Message: "hello"}
	features := []Feature{
		{URI: LogURI, Data: "sink"},
		{URI: DialogMessageURI, Data: msg},
		{URI: DialogMessageURI, Data: &DialogMessage{Message: "second"}},
	}

	data, ok := Find(features, DialogMessageURI)
	if !ok {
		t.Fatal("Expected to find dialog message feature")
	}
	got, ok := data.(*DialogMessage)
	if !ok {
		t.Fatalf("Expected *DialogMessage, got %T", data)
	}
	if got.Message != "hello" {
		t.Errorf("Expected first matching feature to win, got %q", got.Message)
	}

	if _, ok := Find(features, MapURI); ok {
		t.Error("Expected MapURI to be absent")
	}
	if _, ok := Find(nil, LogURI); ok {
		t.Error("Expected no match in empty feature list")
	}
}
