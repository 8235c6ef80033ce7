package cli

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/skmtlab/hiroi/pkg/dict"
	"github.com/skmtlab/hiroi/pkg/field"
)

func testHandler() *InputHandler {
	d := dict.New()
	d.AddCount("name", "", "土工事", 3)
	d.AddCount("name", "", "土留め", 1)
	return NewInputHandler(field.DefaultTable(), d, 10*time.Millisecond, 10)
}

func TestSuggestAnswersFromDictionary(t *testing.T) {
	h := testHandler()

	got, err := h.Suggest("name", "土")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	want := []string{"土工事", "土留め"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
	}
}

func TestSuggestUnknownFieldIsEmpty(t *testing.T) {
	h := testHandler()

	got, err := h.Suggest("nosuchfield", "x")
	if err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %v, want no suggestions", got)
	}
}

func TestHandleCommandQuit(t *testing.T) {
	h := testHandler()

	for _, cmd := range []string{"quit", "exit"} {
		if h.handleCommand(cmd) {
			t.Errorf("%q should stop the loop", cmd)
		}
	}
	for _, cmd := range []string{"help", "bogus", "calc standard q=1"} {
		if !h.handleCommand(cmd) {
			t.Errorf("%q should keep the loop running", cmd)
		}
	}
}
