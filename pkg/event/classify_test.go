package event

import "testing"

func TestClassifyPhotoWinsOverCaption(t *testing.T) {
	ev := InboundEvent{
		Text:  "/weather today",
		Photo: &PhotoPayload{FileID: "abc"},
	}
	if got := Classify(ev); got != CategoryPhoto {
		t.Fatalf("Classify = %q, want %q", got, CategoryPhoto)
	}
}

func TestClassifyCommand(t *testing.T) {
	if got := Classify(InboundEvent{Text: "/fact"}); got != CategoryCommand {
		t.Fatalf("Classify = %q, want %q", got, CategoryCommand)
	}
	if got := Classify(InboundEvent{Text: "  /news  "}); got != CategoryCommand {
		t.Fatalf("Classify = %q, want %q", got, CategoryCommand)
	}
}

func TestClassifyText(t *testing.T) {
	if got := Classify(InboundEvent{Text: "I ate 2 eggs"}); got != CategoryText {
		t.Fatalf("Classify = %q, want %q", got, CategoryText)
	}
}

func TestClassifyUnhandled(t *testing.T) {
	if got := Classify(InboundEvent{}); got != CategoryUnhandled {
		t.Fatalf("Classify = %q, want %q", got, CategoryUnhandled)
	}
	if got := Classify(InboundEvent{Text: "   "}); got != CategoryUnhandled {
		t.Fatalf("Classify = %q, want %q", got, CategoryUnhandled)
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input    string
		wantName string
		wantArgs string
		wantOK   bool
	}{
		{"/fact", "fact", "", true},
		{"/weather Warsaw tomorrow", "weather", "Warsaw tomorrow", true},
		{"/news@mealbot", "news", "", true},
		{"/start@mealbot hello", "start", "hello", true},
		{"plain text", "", "", false},
		{"/", "", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseCommand(tt.input)
		if ok != tt.wantOK {
			t.Fatalf("ParseCommand(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
		}
		if got.Name != tt.wantName {
			t.Fatalf("ParseCommand(%q) name = %q, want %q", tt.input, got.Name, tt.wantName)
		}
		if got.Args != tt.wantArgs {
			t.Fatalf("ParseCommand(%q) args = %q, want %q", tt.input, got.Args, tt.wantArgs)
		}
	}
}
